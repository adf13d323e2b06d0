package fetchlog

import (
	"context"
	"testing"
	"time"
)

type mockBackend struct{}

func (m *mockBackend) Save(ctx context.Context, rec *Record) error             { return nil }
func (m *mockBackend) Query(ctx context.Context, f Filter) ([]*Record, error) { return nil, nil }
func (m *mockBackend) Close() error                                           { return nil }

func TestBackendInterface(t *testing.T) {
	var b Backend = &mockBackend{}
	_ = b
}

func TestRecordFields(t *testing.T) {
	challenged := true
	now := time.Now()
	_ = Record{
		ID:           "rec1",
		URL:          "https://shop.example.com/products.json?limit=250&page=1",
		Method:       "GET",
		StatusCode:   200,
		ContentType:  "application/json",
		Bytes:        1024,
		Duration:     25 * time.Millisecond,
		Challenged:   false,
		ChallengeSrc: "",
		CreatedAt:    now,
		Error:        "",
	}
	_ = Filter{
		URL:        "https://shop.example.com/",
		Challenged: &challenged,
		Since:      &now,
		Limit:      10,
		Offset:     0,
	}
}
