package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/FranksOps/shoplens/internal/config"
	"github.com/FranksOps/shoplens/internal/profile"
	"github.com/PuerkitoBio/goquery"
)

// stubCrawler serves canned pages keyed by absolute URL.
type stubCrawler struct {
	pages  map[string]string // page URL -> html
	search map[string]string // search URL -> html
	feeds  map[string]string // feed URL -> json
	closed *atomic.Int32
}

func (s *stubCrawler) Page(_ context.Context, base, path string) *goquery.Document {
	return docFor(s.pages, strings.TrimSuffix(base, "/")+path)
}

func (s *stubCrawler) SearchPage(_ context.Context, targetURL string) *goquery.Document {
	return docFor(s.search, targetURL)
}

func (s *stubCrawler) JSON(_ context.Context, url string, v any) bool {
	body, ok := s.feeds[url]
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(body), v) == nil
}

func (s *stubCrawler) Close() { s.closed.Add(1) }

func docFor(m map[string]string, key string) *goquery.Document {
	html, ok := m[key]
	if !ok {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return doc
}

func testConfig() *config.Config {
	return &config.Config{
		Discovery: config.DiscoveryConfig{Enabled: true, MaxParallel: 2, DefaultLimit: 3},
	}
}

func newTestServer(t *testing.T, crawler *stubCrawler) *Server {
	t.Helper()
	if crawler.closed == nil {
		crawler.closed = &atomic.Int32{}
	}
	s := New(testConfig(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.newCrawler = func() (Crawler, error) { return crawler, nil }
	return s
}

const acmeHome = `<html><head><title>Acme | Shop</title></head><body>
<a href="/products/mug">Camp Mug</a>
<a href="https://instagram.com/acme">IG</a>
</body></html>`

func TestHealth(t *testing.T) {
	s := newTestServer(t, &stubCrawler{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestInsightsInvalidURL(t *testing.T) {
	s := newTestServer(t, &stubCrawler{})
	for _, target := range []string{"/insights", "/insights?website_url=not-a-url"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestInsightsUnrecognizableStorefront(t *testing.T) {
	crawler := &stubCrawler{pages: map[string]string{
		"https://blog.test/": `<html><title>Just a blog</title></html>`,
	}}
	s := newTestServer(t, crawler)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insights?website_url=https://blog.test", nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if crawler.closed.Load() != 1 {
		t.Errorf("crawler closed %d times, want 1", crawler.closed.Load())
	}
}

func TestInsightsOK(t *testing.T) {
	crawler := &stubCrawler{pages: map[string]string{
		"https://acme.test/": acmeHome,
	}}
	s := newTestServer(t, crawler)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insights?website_url=https://acme.test/some/page", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var bc profile.BrandContext
	if err := json.Unmarshal(rec.Body.Bytes(), &bc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if bc.BrandName != "Acme" {
		t.Errorf("brand = %q, want Acme", bc.BrandName)
	}
	if bc.StoreURL != "https://acme.test/" {
		t.Errorf("store url = %q, want canonical root", bc.StoreURL)
	}
	if len(bc.HeroProducts) != 1 {
		t.Errorf("hero = %+v", bc.HeroProducts)
	}
	if crawler.closed.Load() != 1 {
		t.Errorf("crawler closed %d times, want 1", crawler.closed.Load())
	}
}

func TestCompetitorsLimitValidation(t *testing.T) {
	crawler := &stubCrawler{pages: map[string]string{"https://acme.test/": acmeHome}}
	s := newTestServer(t, crawler)

	for _, limit := range []string{"0", "6", "-1", "abc"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/competitors?website_url=https://acme.test&limit="+limit, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", limit, rec.Code)
		}
	}
}

func TestCompetitorsDropsUnrecognizableAndKeepsOrder(t *testing.T) {
	serp := `<body>
		<a href="https://rival-a.test/">A</a>
		<a href="https://rival-b.test/">B</a>
	</body>`
	crawler := &stubCrawler{
		pages: map[string]string{
			"https://acme.test/":    acmeHome,
			"https://rival-a.test/": `<html><title>Rival A</title><body><a href="/products/x">X</a></body></html>`,
			"https://rival-b.test/": `<html><title>Rival B</title></html>`, // no products: dropped
		},
		search: map[string]string{
			"https://duckduckgo.com/html/?q=Acme+shopify": serp,
		},
		feeds: map[string]string{
			"https://rival-a.test/products.json?limit=1": `{"products": []}`,
			"https://rival-b.test/products.json?limit=1": `{"products": []}`,
		},
	}
	s := newTestServer(t, crawler)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/competitors?website_url=https://acme.test&limit=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result profile.CompetitorResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Brand.BrandName != "Acme" {
		t.Errorf("brand = %q", result.Brand.BrandName)
	}
	if len(result.Competitors) != 1 || result.Competitors[0].BrandName != "Rival A" {
		t.Errorf("competitors = %+v, want only Rival A", result.Competitors)
	}
}

func TestCompetitorsDiscoveryDisabled(t *testing.T) {
	crawler := &stubCrawler{pages: map[string]string{"https://acme.test/": acmeHome}}
	s := newTestServer(t, crawler)
	s.cfg.Discovery.Enabled = false

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/competitors?website_url=https://acme.test", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var result profile.CompetitorResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Competitors == nil || len(result.Competitors) != 0 {
		t.Errorf("competitors = %+v, want empty non-nil", result.Competitors)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &stubCrawler{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics output missing runtime collectors")
	}
}
