// Package report aggregates fetch-log records into a crawl audit summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/FranksOps/shoplens/internal/fetchlog"
)

// Summary contains aggregated metrics over a set of fetch records.
type Summary struct {
	TotalRequests   int
	TotalErrors     int
	TotalChallenges int
	StatusCodes     map[int]int
	ChallengesBySrc map[string]int
	TotalBytes      int64
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// GenerateSummary folds fetch records into a Summary.
func GenerateSummary(records []*fetchlog.Record) Summary {
	s := Summary{
		StatusCodes:     make(map[int]int),
		ChallengesBySrc: make(map[string]int),
	}

	if len(records) == 0 {
		return s
	}

	s.StartTime = records[0].CreatedAt
	s.EndTime = records[0].CreatedAt

	for _, r := range records {
		s.TotalRequests++
		if r.Error != "" {
			s.TotalErrors++
		}
		if r.Challenged {
			s.TotalChallenges++
			s.ChallengesBySrc[r.ChallengeSrc]++
		}
		if r.StatusCode > 0 {
			s.StatusCodes[r.StatusCode]++
		}
		s.TotalBytes += r.Bytes

		if r.CreatedAt.Before(s.StartTime) {
			s.StartTime = r.CreatedAt
		}
		if r.CreatedAt.After(s.EndTime) {
			s.EndTime = r.CreatedAt
		}
	}

	s.Duration = s.EndTime.Sub(s.StartTime)
	return s
}

// WriteJSON writes the summary to the provided writer in JSON format.
func WriteJSON(w io.Writer, summary Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// WriteText writes a human-readable text summary to the provided writer.
func WriteText(w io.Writer, summary Summary) error {
	const textTmpl = `ShopLens Crawl Audit
--------------------
Time:          {{.StartTime.Format "2006-01-02 15:04:05"}} - {{.EndTime.Format "2006-01-02 15:04:05"}}
Duration:      {{.Duration}}
Total Fetch:   {{.TotalRequests}} requests
Total Bytes:   {{.TotalBytes}} bytes
Total Errors:  {{.TotalErrors}}

Status Codes:
{{- range $code, $count := .StatusCodes}}
  {{$code}}: {{$count}}
{{- else}}
  None
{{- end}}

Challenges: {{.TotalChallenges}}
{{- range $src, $count := .ChallengesBySrc}}
  {{$src}}: {{$count}}
{{- else}}
  None
{{- end}}
`

	tmpl, err := template.New("summary").Parse(textTmpl)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := tmpl.Execute(w, summary); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
