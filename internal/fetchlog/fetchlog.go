// Package fetchlog defines the audit trail for page fetches. Each network
// request made while building a profile produces one Record; backends persist
// record metadata only, never response bodies, so the log carries no state a
// later request could read back into the pipeline.
package fetchlog

import (
	"context"
	"time"
)

// Record captures the outcome of a single page fetch.
type Record struct {
	ID           string        `json:"id"`
	URL          string        `json:"url"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"status_code"`
	ContentType  string        `json:"content_type,omitempty"`
	Bytes        int64         `json:"bytes"`
	Duration     time.Duration `json:"duration"`
	Challenged   bool          `json:"challenged"`
	ChallengeSrc string        `json:"challenge_src,omitempty"` // e.g. "Cloudflare", "DataDome"
	CreatedAt    time.Time     `json:"created_at"`
	Error        string        `json:"error,omitempty"` // non-empty if the fetch failed before an HTTP response
}

// Filter selects records when querying a backend.
type Filter struct {
	URL        string
	Challenged *bool
	Since      *time.Time
	Limit      int
	Offset     int
}

// Backend persists and queries fetch records.
type Backend interface {
	Save(ctx context.Context, rec *Record) error
	Query(ctx context.Context, filter Filter) ([]*Record, error)
	Close() error
}
