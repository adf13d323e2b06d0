// Package server exposes the brand-insights HTTP API.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/FranksOps/shoplens/internal/config"
	"github.com/FranksOps/shoplens/internal/discovery"
	"github.com/FranksOps/shoplens/internal/extract"
	"github.com/FranksOps/shoplens/internal/fetch"
	"github.com/FranksOps/shoplens/internal/fetchlog"
	"github.com/FranksOps/shoplens/internal/fingerprint"
	"github.com/FranksOps/shoplens/internal/profile"
	"github.com/FranksOps/shoplens/pkg/textutil"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Crawler is the per-request fetch capability the handlers require. A fresh
// crawler is created for every profile request and closed on all exit paths.
type Crawler interface {
	Page(ctx context.Context, base, path string) *goquery.Document
	SearchPage(ctx context.Context, targetURL string) *goquery.Document
	JSON(ctx context.Context, url string, v any) bool
	Close()
}

// Server routes brand-insight requests to the crawl pipeline.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	newCrawler func() (Crawler, error)
}

// New builds a Server. The fetch log backend may be nil; crawls then run
// unaudited. A nil logger falls back to slog.Default().
func New(cfg *config.Config, log fetchlog.Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		newCrawler: func() (Crawler, error) {
			f, err := fetch.New(fetch.Config{
				Timeout:           cfg.Fetch.Timeout,
				MaxRedirects:      cfg.Fetch.MaxRedirects,
				UserAgent:         cfg.Fetch.UserAgent,
				Fingerprint:       fingerprint.Profile(cfg.Fetch.Fingerprint),
				RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
				Jitter:            cfg.Fetch.Jitter,
				RespectRobots:     cfg.Fetch.RespectRobots,
				Log:               log,
			}, logger)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/insights", s.handleInsights)
	r.Get("/competitors", s.handleCompetitors)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	base := textutil.NormalizeRoot(r.URL.Query().Get("website_url"))
	if base == "" {
		respondError(w, http.StatusBadRequest, "website_url must be a valid absolute URL")
		return
	}

	cr, err := s.newCrawler()
	if err != nil {
		s.logger.Error("failed to create crawler", "err", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer cr.Close()

	bc := extract.NewBuilder(cr, s.logger).Build(r.Context(), base)
	if !bc.Recognizable() {
		respondError(w, http.StatusUnprocessableEntity, "website could not be recognized as a supported storefront")
		return
	}
	respondJSON(w, http.StatusOK, bc)
}

func (s *Server) handleCompetitors(w http.ResponseWriter, r *http.Request) {
	base := textutil.NormalizeRoot(r.URL.Query().Get("website_url"))
	if base == "" {
		respondError(w, http.StatusBadRequest, "website_url must be a valid absolute URL")
		return
	}

	limit := s.cfg.Discovery.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 5 {
			respondError(w, http.StatusBadRequest, "limit must be an integer between 1 and 5")
			return
		}
		limit = n
	}

	cr, err := s.newCrawler()
	if err != nil {
		s.logger.Error("failed to create crawler", "err", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer cr.Close()

	brand := extract.NewBuilder(cr, s.logger).Build(r.Context(), base)
	if !brand.Recognizable() {
		respondError(w, http.StatusUnprocessableEntity, "website could not be recognized as a supported storefront")
		return
	}

	result := profile.CompetitorResult{
		Brand:       brand,
		Competitors: []profile.BrandContext{},
	}
	if s.cfg.Discovery.Enabled {
		finder := discovery.NewFinder(discovery.NewDuckDuckGo(cr), cr, s.logger)
		urls := finder.Find(r.Context(), brand.StoreURL, brand.BrandName, limit)
		result.Competitors = s.buildCompetitors(r.Context(), urls)
	}
	respondJSON(w, http.StatusOK, result)
}

// buildCompetitors crawls the competitor roots in parallel, each with its own
// crawler so the per-host pacing of one store never stalls another. Profiles
// that fail or come back unrecognizable are dropped; discovery order is
// preserved.
func (s *Server) buildCompetitors(ctx context.Context, urls []string) []profile.BrandContext {
	results := make([]*profile.BrandContext, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Discovery.MaxParallel)
	for i, u := range urls {
		g.Go(func() error {
			cr, err := s.newCrawler()
			if err != nil {
				s.logger.Warn("skipping competitor", "url", u, "err", err)
				return nil
			}
			defer cr.Close()

			bc := extract.NewBuilder(cr, s.logger).Build(gctx, u)
			if bc.Recognizable() {
				results[i] = &bc
			}
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors; they drop and log instead

	out := []profile.BrandContext{}
	for _, bc := range results {
		if bc != nil {
			out = append(out, *bc)
		}
	}
	return out
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
