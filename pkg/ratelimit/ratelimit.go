package ratelimit

import (
	"context"
	"math/rand"
	"time"
)

// Limiter paces page fetches within a single crawl. Pacing is best-effort
// politeness toward the target storefront, not a compliance mechanism.
// It is safe for concurrent use by multiple goroutines.
type Limiter struct {
	ticker   *time.Ticker
	jitter   float64 // 0.0 to 1.0
	interval time.Duration
	ch       <-chan time.Time
}

// NewLimiter creates a limiter for the given requests per second and jitter
// factor. With rps <= 0, Wait never blocks.
func NewLimiter(rps float64, jitter float64) *Limiter {
	if rps <= 0 {
		return &Limiter{jitter: jitter}
	}

	if jitter < 0 {
		jitter = 0
	} else if jitter > 1 {
		jitter = 1
	}

	interval := time.Duration(float64(time.Second) / rps)
	ticker := time.NewTicker(interval)

	return &Limiter{
		ticker:   ticker,
		jitter:   jitter,
		interval: interval,
		ch:       ticker.C,
	}
}

// Wait blocks until the next fetch may proceed, or until the context is
// cancelled. Positive jitter delays a tick by up to jitter*interval extra;
// the ticker already enforces the minimum spacing, so negative jitter
// collapses to "fetch on the tick".
func (l *Limiter) Wait(ctx context.Context) error {
	if l.ch == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.ch:
		if l.jitter > 0 {
			factor := (rand.Float64() * 2) - 1.0 // -1.0 to 1.0
			extra := time.Duration(float64(l.interval) * l.jitter * factor)
			if extra > 0 {
				select {
				case <-time.After(extra):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return nil
}

// Stop releases the limiter's ticker.
func (l *Limiter) Stop() {
	if l.ticker != nil {
		l.ticker.Stop()
	}
}
