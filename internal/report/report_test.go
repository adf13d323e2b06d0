package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/FranksOps/shoplens/internal/fetchlog"
)

func TestGenerateSummary(t *testing.T) {
	now := time.Now()

	records := []*fetchlog.Record{
		{
			StatusCode: 200,
			Bytes:      3,
			CreatedAt:  now,
		},
		{
			StatusCode:   403,
			Bytes:        4,
			CreatedAt:    now.Add(1 * time.Second),
			Challenged:   true,
			ChallengeSrc: "Cloudflare",
		},
		{
			StatusCode: 0,
			CreatedAt:  now.Add(2 * time.Second),
			Error:      "timeout",
		},
	}

	summary := GenerateSummary(records)

	if summary.TotalRequests != 3 {
		t.Errorf("expected 3 total requests, got %d", summary.TotalRequests)
	}
	if summary.TotalErrors != 1 {
		t.Errorf("expected 1 error, got %d", summary.TotalErrors)
	}
	if summary.TotalChallenges != 1 {
		t.Errorf("expected 1 challenge, got %d", summary.TotalChallenges)
	}
	if summary.ChallengesBySrc["Cloudflare"] != 1 {
		t.Errorf("expected 1 CF challenge, got %d", summary.ChallengesBySrc["Cloudflare"])
	}
	if summary.StatusCodes[200] != 1 {
		t.Errorf("expected 1 200 OK, got %d", summary.StatusCodes[200])
	}
	if summary.StatusCodes[403] != 1 {
		t.Errorf("expected 1 403 Forbidden, got %d", summary.StatusCodes[403])
	}
	if summary.TotalBytes != 7 {
		t.Errorf("expected 7 total bytes, got %d", summary.TotalBytes)
	}
	if summary.Duration != 2*time.Second {
		t.Errorf("expected 2s duration, got %v", summary.Duration)
	}
}

func TestGenerateSummaryEmpty(t *testing.T) {
	summary := GenerateSummary(nil)
	if summary.TotalRequests != 0 || summary.Duration != 0 {
		t.Errorf("empty input should yield zero summary, got %+v", summary)
	}
}

func TestWriteJSON(t *testing.T) {
	summary := Summary{
		TotalRequests: 5,
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"TotalRequests": 5`) {
		t.Errorf("expected JSON to contain TotalRequests: 5")
	}
}

func TestWriteText(t *testing.T) {
	summary := Summary{
		TotalRequests:   5,
		TotalErrors:     1,
		TotalChallenges: 1,
		StatusCodes: map[int]int{
			200: 4,
			503: 1,
		},
		ChallengesBySrc: map[string]int{"DataDome": 1},
	}
	var buf bytes.Buffer
	if err := WriteText(&buf, summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Total Fetch:   5 requests", "200: 4", "503: 1", "DataDome: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("text summary missing %q:\n%s", want, out)
		}
	}
}
