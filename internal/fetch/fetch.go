// Package fetch implements the page fetcher used by every extractor. Its
// contract is deliberately lossy: a missing page, a transport error, a bot
// challenge and an unparsable body all collapse into "absent" (a nil
// document or a false ok), so the extraction pipeline degrades per page
// instead of failing a whole profile.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/FranksOps/shoplens/internal/fetchlog"
	"github.com/FranksOps/shoplens/internal/fingerprint"
	"github.com/FranksOps/shoplens/internal/metrics"
	"github.com/FranksOps/shoplens/pkg/httpclient"
	"github.com/FranksOps/shoplens/pkg/ratelimit"
	"github.com/FranksOps/shoplens/pkg/textutil"
	"github.com/FranksOps/shoplens/pkg/useragent"
	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// DefaultUserAgent identifies the crawler to storefronts.
const DefaultUserAgent = "ShopLens/1.0 (+https://github.com/FranksOps/shoplens)"

// Config configures a Fetcher. One Fetcher is created per top-level profile
// request and closed when the request finishes.
type Config struct {
	Timeout      time.Duration
	MaxRedirects int
	UseCookieJar bool
	// UserAgent is the fixed identifying agent sent to storefronts.
	UserAgent string
	// UAPool rotates browser agents for search-engine fetches.
	UAPool      *useragent.Pool
	Fingerprint fingerprint.Profile
	// RequestsPerSecond paces fetches (0 = unlimited); Jitter randomizes the pacing.
	RequestsPerSecond float64
	Jitter            float64
	// RespectRobots gates storefront fetches on the host's robots.txt.
	RespectRobots bool
	// Log receives one record per fetch when set.
	Log fetchlog.Backend
}

// Fetcher performs page and feed fetches for a single profile crawl.
type Fetcher struct {
	cfg       Config
	client    *httpclient.Client
	limiter   *ratelimit.Limiter
	robots    *robotsGate
	detectors []Detector
	logger    *slog.Logger
}

// New initializes a Fetcher with the given configuration.
func New(cfg Config, logger *slog.Logger) (*Fetcher, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = 10
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.UAPool == nil {
		cfg.UAPool = useragent.NewPool(nil)
	}
	if string(cfg.Fingerprint) == "" {
		cfg.Fingerprint = fingerprint.ProfileGo
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport, err := fingerprint.Transport(cfg.Fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to setup transport: %w", err)
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRedirects: cfg.MaxRedirects,
		UseCookieJar: cfg.UseCookieJar,
		Transport:    transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	f := &Fetcher{
		cfg:       cfg,
		client:    client,
		limiter:   ratelimit.NewLimiter(cfg.RequestsPerSecond, cfg.Jitter),
		detectors: DefaultDetectors(),
		logger:    logger,
	}
	if cfg.RespectRobots {
		f.robots = newRobotsGate(f, logger)
	}
	return f, nil
}

// Close releases the fetcher's network resources. Safe to defer on every
// exit path.
func (f *Fetcher) Close() {
	f.limiter.Stop()
	f.client.Release()
}

// Page fetches path relative to base and returns the parsed document, or nil
// when the page is absent for any reason.
func (f *Fetcher) Page(ctx context.Context, base, path string) *goquery.Document {
	target := textutil.Absolutize(base, path)
	if target == "" {
		return nil
	}
	return f.document(ctx, target, false)
}

// SearchPage fetches an arbitrary URL with a rotating browser agent. Used
// for search-result pages, which refuse the fixed crawler agent.
func (f *Fetcher) SearchPage(ctx context.Context, targetURL string) *goquery.Document {
	return f.document(ctx, targetURL, true)
}

// JSON fetches targetURL and decodes its body into v. It reports false on
// any transport failure, non-200 status, bot challenge or non-JSON body.
func (f *Fetcher) JSON(ctx context.Context, targetURL string, v any) bool {
	rec, body := f.do(ctx, targetURL, false, false)
	if rec.Error != "" || rec.StatusCode != http.StatusOK || rec.Challenged {
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		f.logger.Debug("non-json body", "url", targetURL, "err", err)
		return false
	}
	return true
}

func (f *Fetcher) document(ctx context.Context, targetURL string, rotateUA bool) *goquery.Document {
	rec, body := f.do(ctx, targetURL, rotateUA, false)
	if rec.Error != "" || rec.StatusCode != http.StatusOK || rec.Challenged {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		f.logger.Debug("unparsable body", "url", targetURL, "err", err)
		return nil
	}
	return doc
}

// fetchRaw performs a GET without consulting the robots gate. Used by the
// gate itself to retrieve robots.txt.
func (f *Fetcher) fetchRaw(ctx context.Context, targetURL string) (*fetchlog.Record, []byte) {
	return f.do(ctx, targetURL, false, true)
}

// do executes a single GET. It never returns an error: failures are encoded
// in the record, which is always logged and measured.
func (f *Fetcher) do(ctx context.Context, targetURL string, rotateUA, skipRobots bool) (*fetchlog.Record, []byte) {
	start := time.Now()

	rec := &fetchlog.Record{
		ID:        uuid.New().String(),
		URL:       targetURL,
		Method:    http.MethodGet,
		CreatedAt: start.UTC(),
	}

	if f.robots != nil && !rotateUA && !skipRobots {
		allowed, err := f.robots.isAllowed(ctx, targetURL, f.cfg.UserAgent)
		if err != nil {
			// Fail open on robots.txt errors.
			f.logger.Warn("robots.txt check failed", "url", targetURL, "err", err)
		} else if !allowed {
			rec.Error = "blocked by robots.txt"
			f.finish(rec)
			return rec, nil
		}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		rec.Error = fmt.Sprintf("rate limiter cancelled: %v", err)
		rec.Duration = time.Since(start)
		f.finish(rec)
		return rec, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		rec.Error = fmt.Sprintf("failed to create request: %v", err)
		rec.Duration = time.Since(start)
		f.finish(rec)
		return rec, nil
	}

	ua := f.cfg.UserAgent
	if rotateUA {
		ua = f.cfg.UAPool.GetSequential()
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req.Context(), req)
	if err != nil {
		rec.Error = fmt.Sprintf("request failed: %v", err)
		rec.Duration = time.Since(start)
		f.finish(rec)
		return rec, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		rec.Error = fmt.Sprintf("failed to read body: %v", err)
	}

	rec.StatusCode = resp.StatusCode
	rec.ContentType = resp.Header.Get("Content-Type")
	rec.Bytes = int64(len(body))
	rec.Duration = time.Since(start)

	if detected, src := Analyze(resp.StatusCode, resp.Header, body, f.detectors); detected {
		rec.Challenged = true
		rec.ChallengeSrc = src
		f.logger.Debug("bot challenge detected", "url", targetURL, "src", src)
	}

	f.finish(rec)
	return rec, body
}

func (f *Fetcher) finish(rec *fetchlog.Record) {
	host := textutil.Host(rec.URL)
	metrics.RecordFetch(host, rec)

	if f.cfg.Log != nil {
		// Log writes must not fail the fetch; the log is an audit trail.
		if err := f.cfg.Log.Save(context.Background(), rec); err != nil {
			f.logger.Error("failed to save fetch record", "url", rec.URL, "err", err)
		}
	}
}
