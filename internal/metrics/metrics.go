package metrics

import (
	"strconv"

	"github.com/FranksOps/shoplens/internal/fetchlog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PageFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoplens_page_fetches_total",
			Help: "Total number of storefront page fetches executed",
		},
		[]string{"host", "status", "challenged"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shoplens_fetch_duration_seconds",
			Help:    "Duration of page fetches in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"host"},
	)

	FetchBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoplens_fetch_bytes_total",
			Help: "Total bytes downloaded across all page fetches",
		},
		[]string{"host"},
	)

	ProfilesBuiltTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoplens_profiles_built_total",
			Help: "Brand profiles built, by outcome",
		},
		[]string{"outcome"}, // "ok", "unrecognized"
	)

	CompetitorProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoplens_competitor_probes_total",
			Help: "Storefront platform probes during competitor discovery, by result",
		},
		[]string{"result"}, // "pass", "fail"
	)
)

// RecordFetch updates the fetch metrics from a completed fetch record.
func RecordFetch(host string, rec *fetchlog.Record) {
	if rec == nil {
		return
	}

	statusStr := strconv.Itoa(rec.StatusCode)
	if rec.Error != "" {
		statusStr = "error"
	}

	PageFetchesTotal.WithLabelValues(host, statusStr, strconv.FormatBool(rec.Challenged)).Inc()
	FetchDuration.WithLabelValues(host).Observe(rec.Duration.Seconds())
	FetchBytesTotal.WithLabelValues(host).Add(float64(rec.Bytes))
}
