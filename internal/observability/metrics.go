package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExtractionsTotal counts extraction outcomes by platform and result kind
	// ("success", "partial" or an error kind).
	ExtractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "job_assistant",
		Name:      "extractions_total",
		Help:      "Job posting extractions by platform and outcome.",
	}, []string{"platform", "outcome"})

	// ExtractionDuration observes end-to-end extraction latency.
	ExtractionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "job_assistant",
		Name:      "extraction_duration_seconds",
		Help:      "Time spent fetching and extracting a job posting.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
	}, []string{"platform"})

	// FillFieldsTotal counts form elements found and filled.
	FillFieldsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "job_assistant",
		Name:      "fill_fields_total",
		Help:      "Form elements considered by the fill matcher, by result.",
	}, []string{"result"})

	// HistoryWriteErrors counts history records that failed to persist.
	HistoryWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "job_assistant",
		Name:      "history_write_errors_total",
		Help:      "History records dropped because the store rejected them.",
	}, []string{"store"})

	// HTTPRequestsTotal counts API requests by route pattern and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "job_assistant",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by route and status.",
	}, []string{"route", "status"})

	// RateLimitedTotal counts requests rejected by the rate limiter.
	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "job_assistant",
		Name:      "rate_limited_total",
		Help:      "Requests rejected with 429, by matched rule.",
	}, []string{"rule"})
)

// RecordFill adds a fill pass's counts to FillFieldsTotal.
func RecordFill(found, filled int) {
	FillFieldsTotal.WithLabelValues("found").Add(float64(found))
	FillFieldsTotal.WithLabelValues("filled").Add(float64(filled))
}
