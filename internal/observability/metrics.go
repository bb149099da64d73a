// Package observability holds the Prometheus collectors and logger setup.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdb_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askdb_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	pipelineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdb_pipeline_requests_total",
			Help: "Natural-language requests by outcome (ok or error kind).",
		},
		[]string{"outcome"},
	)

	stageDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askdb_stage_duration_seconds",
			Help:    "Duration of each pipeline stage.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"},
	)

	rowsReturnedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "askdb_rows_returned_total",
			Help: "Total number of rows returned by generated queries.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		pipelineRequestsTotal,
		stageDurationSeconds,
		rowsReturnedTotal,
	)
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status string, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}

// ObserveStage records how long one pipeline stage took.
func ObserveStage(stage string, elapsed time.Duration) {
	stageDurationSeconds.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// ObserveOutcome counts a finished pipeline run. outcome is "ok" or an
// error kind.
func ObserveOutcome(outcome string, rows int) {
	pipelineRequestsTotal.WithLabelValues(outcome).Inc()
	if rows > 0 {
		rowsReturnedTotal.Add(float64(rows))
	}
}
