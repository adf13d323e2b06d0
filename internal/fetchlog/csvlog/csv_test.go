package csvlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/FranksOps/shoplens/internal/fetchlog"
)

func TestCSVBackend(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "fetch.csv")

	b, err := New(filePath)
	if err != nil {
		t.Fatalf("Failed to create CSV backend: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond).UTC()

	rec1 := &fetchlog.Record{
		ID:          "csv1",
		URL:         "https://shop.example.com/",
		Method:      "GET",
		StatusCode:  200,
		ContentType: "text/html",
		Bytes:       300,
		Duration:    15 * time.Millisecond,
		CreatedAt:   now.Add(-time.Hour),
	}
	rec2 := &fetchlog.Record{
		ID:           "csv2",
		URL:          "https://shop.example.com/contact",
		Method:       "GET",
		StatusCode:   503,
		Bytes:        40,
		Duration:     5 * time.Millisecond,
		Challenged:   true,
		ChallengeSrc: "Cloudflare",
		CreatedAt:    now,
	}

	for _, rec := range []*fetchlog.Record{rec1, rec2} {
		if err := b.Save(ctx, rec); err != nil {
			t.Fatalf("Failed to save %s: %v", rec.ID, err)
		}
	}

	records, err := b.Query(ctx, fetchlog.Filter{})
	if err != nil {
		t.Fatalf("Failed to query all: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].ID != "csv2" {
		t.Errorf("Expected newest first, got %s", records[0].ID)
	}

	got := records[0]
	if got.StatusCode != 503 || !got.Challenged || got.ChallengeSrc != "Cloudflare" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.CreatedAt.Unix() != rec2.CreatedAt.Unix() {
		t.Errorf("Expected CreatedAt %v, got %v", rec2.CreatedAt, got.CreatedAt)
	}

	records, err = b.Query(ctx, fetchlog.Filter{URL: rec1.URL})
	if err != nil {
		t.Fatalf("Failed to query by URL: %v", err)
	}
	if len(records) != 1 || records[0].ID != "csv1" {
		t.Fatalf("Expected csv1, got %v", records)
	}
}
