package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// robotsGate enforces robots.txt for storefront fetches when enabled. The
// check fails open: an unreachable or unparsable robots.txt allows the fetch.
type robotsGate struct {
	fetcher *Fetcher
	logger  *slog.Logger
	mu      sync.RWMutex
	cache   map[string]*robotstxt.RobotsData
}

func newRobotsGate(fetcher *Fetcher, logger *slog.Logger) *robotsGate {
	return &robotsGate{
		fetcher: fetcher,
		logger:  logger,
		cache:   make(map[string]*robotstxt.RobotsData),
	}
}

func (r *robotsGate) isAllowed(ctx context.Context, targetURL, userAgent string) (bool, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false, fmt.Errorf("invalid url: %w", err)
	}

	host := u.Scheme + "://" + u.Host

	data, err := r.getOrFetch(ctx, host)
	if err != nil {
		r.logger.Debug("robots.txt fetch failed, defaulting to allow", "host", host, "err", err)
		return true, nil
	}
	if data == nil {
		return true, nil
	}

	return data.FindGroup(userAgent).Test(u.Path), nil
}

func (r *robotsGate) getOrFetch(ctx context.Context, host string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	data, exists := r.cache[host]
	r.mu.RUnlock()
	if exists {
		return data, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if data, exists = r.cache[host]; exists {
		return data, nil
	}

	// fetchRaw bypasses the gate itself, otherwise fetching robots.txt would
	// recurse into a robots check.
	rec, body := r.fetcher.fetchRaw(ctx, host+"/robots.txt")
	if rec.Error != "" {
		r.cache[host] = nil
		return nil, fmt.Errorf("fetch error: %s", rec.Error)
	}
	if rec.StatusCode >= 400 {
		r.cache[host] = nil
		return nil, nil
	}

	parsed, err := robotstxt.FromBytes(body)
	if err != nil {
		r.cache[host] = nil
		return nil, fmt.Errorf("parse error: %w", err)
	}

	r.cache[host] = parsed
	return parsed, nil
}
