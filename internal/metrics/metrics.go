// Package metrics registers the Prometheus collectors exported by quantcore.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Calculation outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantcore_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quantcore_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Engine metrics
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantcore_calculations_total",
			Help: "Total number of engine calculations by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	CurvePoints = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quantcore_curve_points",
			Help:    "Number of points produced per curve",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2000},
		},
		[]string{"curve"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantcore_cache_lookups_total",
			Help: "Response cache lookups by result",
		},
		[]string{"result"}, // hit, miss
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quantcore_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
	)

	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quantcore_websocket_clients",
			Help: "Number of connected WebSocket clients",
		},
	)
)

// RecordCalculation counts one calculation of the given kind.
func RecordCalculation(kind, outcome string) {
	CalculationsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordCurve records the length of a generated curve.
func RecordCurve(curve string, points int) {
	CurvePoints.WithLabelValues(curve).Observe(float64(points))
}
