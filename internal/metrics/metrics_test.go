package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/FranksOps/shoplens/internal/fetchlog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestRecordFetch(t *testing.T) {
	rec := &fetchlog.Record{
		StatusCode: 200,
		Bytes:      11,
		Duration:   1 * time.Second,
	}

	RecordFetch("shop.example.com", rec)

	ts := httptest.NewServer(promhttp.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	if err != nil {
		t.Fatalf("failed to fetch metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	output := string(body)

	if !strings.Contains(output, "shoplens_page_fetches_total") {
		t.Errorf("expected shoplens_page_fetches_total metric")
	}
	if !strings.Contains(output, "shoplens_fetch_duration_seconds_bucket") {
		t.Errorf("expected shoplens_fetch_duration_seconds metric")
	}
	if !strings.Contains(output, `shoplens_fetch_bytes_total{host="shop.example.com"}`) {
		t.Errorf("expected shoplens_fetch_bytes_total metric for shop.example.com")
	}
}

func TestRecordFetch_NilRecord(t *testing.T) {
	// Must not panic.
	RecordFetch("shop.example.com", nil)
}
