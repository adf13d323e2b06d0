package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FranksOps/shoplens/internal/metrics"
	"github.com/FranksOps/shoplens/pkg/textutil"
)

// harvestFactor controls how many candidates to collect before probing:
// limit * harvestFactor, so a few dead results don't starve the output.
const harvestFactor = 4

// ProbeFetcher fetches and decodes a JSON feed; false means absent.
type ProbeFetcher interface {
	JSON(ctx context.Context, url string, v any) bool
}

// Finder discovers competitor storefront roots for a brand.
type Finder struct {
	provider Provider
	prober   ProbeFetcher
	logger   *slog.Logger
}

// NewFinder wires a search provider to a platform prober. A nil logger falls
// back to slog.Default().
func NewFinder(provider Provider, prober ProbeFetcher, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finder{provider: provider, prober: prober, logger: logger}
}

// Find returns up to limit competitor storefront roots for the brand at
// storeURL. Candidates are harvested from search results, deduplicated by
// host with the brand's own host excluded, then kept only when the platform
// probe passes. Search failures skip to the next query.
func (f *Finder) Find(ctx context.Context, storeURL, brandName string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	selfHost := textutil.Host(storeURL)
	candidates := f.harvest(ctx, queries(brandName, selfHost), selfHost, limit*harvestFactor)

	var out []string
	for _, cand := range candidates {
		if len(out) >= limit {
			break
		}
		if f.IsStorefront(ctx, cand) {
			out = append(out, cand)
		}
	}

	f.logger.Info("competitor discovery finished",
		"store", storeURL, "candidates", len(candidates), "kept", len(out))
	return out
}

// IsStorefront reports whether the domain exposes a JSON product feed at the
// conventional path, the signature of a supported storefront platform.
func (f *Finder) IsStorefront(ctx context.Context, root string) bool {
	probeURL := textutil.Absolutize(root, "/products.json?limit=1")

	var feed map[string]json.RawMessage
	ok := f.prober.JSON(ctx, probeURL, &feed)
	if ok {
		_, ok = feed["products"]
	}

	result := "fail"
	if ok {
		result = "pass"
	}
	metrics.CompetitorProbesTotal.WithLabelValues(result).Inc()
	return ok
}

// harvest runs the queries in order, normalizing result links to roots and
// deduplicating by host, until max candidates are collected.
func (f *Finder) harvest(ctx context.Context, qs []string, selfHost string, max int) []string {
	seen := map[string]struct{}{}
	var candidates []string

	for _, q := range qs {
		if len(candidates) >= max {
			break
		}

		links, err := f.provider.Search(ctx, q)
		if err != nil {
			f.logger.Warn("search failed", "query", q, "err", err)
			continue
		}

		for _, link := range links {
			root := textutil.NormalizeRoot(link)
			if root == "" {
				continue
			}
			host := textutil.Host(root)
			if host == "" || host == selfHost {
				continue
			}
			if _, dup := seen[host]; dup {
				continue
			}
			seen[host] = struct{}{}
			candidates = append(candidates, root)
			if len(candidates) >= max {
				break
			}
		}
	}
	return candidates
}

// queries builds the search queries for a brand. The brand name drives three
// queries; without one, the bare hostname drives two.
func queries(brandName, selfHost string) []string {
	if brandName != "" {
		return []string{
			fmt.Sprintf("%s shopify", brandName),
			fmt.Sprintf("%s competitors shopify", brandName),
			fmt.Sprintf("%s similar brands shopify", brandName),
		}
	}
	host := strings.TrimPrefix(selfHost, "www.")
	return []string{
		fmt.Sprintf("%s competitors shopify", host),
		fmt.Sprintf("%s similar brands shopify", host),
	}
}
