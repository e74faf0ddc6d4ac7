package server

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for the API server.
type Metrics struct {
	quotesTotal        prometheus.Counter
	validationFailures prometheus.Counter
	quoteDuration      prometheus.Histogram
	catalogRequests    prometheus.Counter
}

var (
	metricsOnce     sync.Once
	metricsInstance *Metrics
)

// NewMetrics returns the process-wide Metrics instance, registering the
// collectors on the default registry on first call. Collectors are
// shared because promauto registration is global.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = newMetrics()
	})
	return metricsInstance
}

func newMetrics() *Metrics {
	return &Metrics{
		quotesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "polaris_quotes_total",
				Help: "Total number of quotes successfully built",
			},
		),

		validationFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "polaris_validation_failures_total",
				Help: "Total number of quote requests rejected by answer validation",
			},
		),

		quoteDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "polaris_quote_duration_seconds",
				Help:    "Time spent running the full quote pipeline",
				Buckets: prometheus.DefBuckets,
			},
		),

		catalogRequests: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "polaris_catalog_requests_total",
				Help: "Total number of catalog document fetches",
			},
		),
	}
}

// RecordQuote records a successfully built quote and its pipeline latency.
func (m *Metrics) RecordQuote(seconds float64) {
	m.quotesTotal.Inc()
	m.quoteDuration.Observe(seconds)
}

// RecordValidationFailure records a quote request rejected by validation.
func (m *Metrics) RecordValidationFailure() {
	m.validationFailures.Inc()
}

// RecordCatalogRequest records a catalog document fetch.
func (m *Metrics) RecordCatalogRequest() {
	m.catalogRequests.Inc()
}
