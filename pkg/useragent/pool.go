// Package useragent provides a rotating pool of browser User-Agent strings.
//
// Storefront pages are fetched with the fixed identifying agent from config;
// the pool exists for search-result fetches, where a static bot agent is
// routinely refused.
package useragent

import (
	"crypto/rand"
	"math/big"
	"sync/atomic"
)

// DefaultPool holds a small set of current desktop browser agents.
var DefaultPool = []string{
	// Chrome
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	// Firefox
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:133.0) Gecko/20100101 Firefox/133.0",
	// Safari
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.1 Safari/605.1.15",
	// Edge
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36 Edg/131.0.0.0",
}

// Pool is a concurrency-safe collection of User-Agents served round-robin or
// at random.
type Pool struct {
	uas     []string
	counter atomic.Uint64
}

// NewPool creates a pool from the given agents, falling back to DefaultPool
// when the slice is empty.
func NewPool(uas []string) *Pool {
	if len(uas) == 0 {
		uas = DefaultPool
	}
	copied := make([]string, len(uas))
	copy(copied, uas)
	return &Pool{uas: copied}
}

// GetSequential returns the next agent in round-robin order.
func (p *Pool) GetSequential() string {
	if len(p.uas) == 0 {
		return ""
	}
	idx := p.counter.Add(1) - 1
	return p.uas[idx%uint64(len(p.uas))]
}

// GetRandom returns a random agent from the pool.
func (p *Pool) GetRandom() string {
	if len(p.uas) == 0 {
		return ""
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(p.uas))))
	if err != nil {
		return p.GetSequential()
	}
	return p.uas[n.Int64()]
}
