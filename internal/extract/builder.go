package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/FranksOps/shoplens/internal/metrics"
	"github.com/FranksOps/shoplens/internal/profile"
	"github.com/FranksOps/shoplens/pkg/textutil"
)

// Builder assembles a full brand profile from one storefront.
type Builder struct {
	fetcher PageFetcher
	logger  *slog.Logger
}

// NewBuilder returns a Builder over the given fetcher. A nil logger falls
// back to slog.Default().
func NewBuilder(f PageFetcher, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{fetcher: f, logger: logger}
}

// Build crawls the storefront rooted at storeURL and returns its profile.
// Every section is best-effort; a profile with empty sections is still
// returned. The store URL is canonicalized with a trailing slash, and the
// home document is fetched once and shared by the brand-name, hero and
// social extractors.
func (b *Builder) Build(ctx context.Context, storeURL string) profile.BrandContext {
	base := textutil.NormalizeRoot(storeURL)
	start := time.Now()

	home := b.fetcher.Page(ctx, base, "/")

	bc := profile.BrandContext{
		StoreURL:       base,
		BrandName:      BrandName(home),
		HeroProducts:   HeroProducts(home, base),
		Catalog:        Catalog(ctx, b.fetcher, base),
		Policies:       Policies(ctx, b.fetcher, base),
		FAQs:           FAQs(ctx, b.fetcher, base),
		Social:         Social(home),
		Contact:        ContactInfo(ctx, b.fetcher, base),
		AboutText:      AboutText(ctx, b.fetcher, base),
		ImportantLinks: ImportantLinks(ctx, b.fetcher, base),
		FetchedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if bc.HeroProducts == nil {
		bc.HeroProducts = []profile.Product{}
	}
	if bc.Catalog == nil {
		bc.Catalog = []profile.Product{}
	}

	outcome := "ok"
	if !bc.Recognizable() {
		outcome = "unrecognized"
	}
	metrics.ProfilesBuiltTotal.WithLabelValues(outcome).Inc()

	b.logger.Info("brand profile built",
		"store", base,
		"catalog", len(bc.Catalog),
		"hero", len(bc.HeroProducts),
		"faqs", len(bc.FAQs),
		"policies", len(bc.Policies),
		"outcome", outcome,
		"elapsed", time.Since(start),
	)
	return bc
}
