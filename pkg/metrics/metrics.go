// Package metrics holds the operation-level Prometheus metrics and the
// registry the client exports.
//
// Call-level metrics live next to the code that records them:
//
// Transport (pkg/transport):
//   - ebay_transport_calls_total{call, status} (Counter)
//   - ebay_transport_call_duration_seconds{call} (Histogram)
//   - ebay_transport_retries_total{error_class} (Counter)
//   - ebay_transport_retry_backoff_seconds{error_class} (Histogram)
//   - ebay_transport_retry_exhausted_total{error_class} (Counter)
//
// Quota (pkg/ratelimit):
//   - ebay_calls_remaining{account} (Gauge)
//   - ebay_quota_blocks_total (Counter)
//   - ebay_quota_throttles_total (Counter)
//
// Cache (pkg/cache):
//   - ebay_cache_hits_total{layer} (Counter)
//   - ebay_cache_misses_total (Counter)
//   - ebay_cache_size_bytes{layer} (Gauge)
//   - ebay_cache_errors_total{operation} (Counter)
//
// Example Prometheus Queries:
//
//	# Operation failure rate
//	sum(rate(ebay_operations_total{status!="ok"}[5m])) by (operation)
//
//	# P95 operation latency
//	histogram_quantile(0.95, rate(ebay_operation_duration_seconds_bucket[5m]))
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the Prometheus registerer all packages register with.
var Registry = prometheus.DefaultRegisterer

// Operation statuses.
const (
	StatusOK       = "ok"
	StatusAPIError = "api_error"
	StatusFailed   = "failed"
)

var (
	operationsTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "ebay_operations_total",
		Help: "Total orchestrator operations by name and status",
	}, []string{"operation", "status"})

	operationDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ebay_operation_duration_seconds",
		Help:    "Orchestrator operation duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
	}, []string{"operation"})

	operationItems = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "ebay_operation_items_total",
		Help: "Items returned by successful orchestrator operations",
	}, []string{"operation"})
)

// ObserveOperation records one finished operation.
func ObserveOperation(operation, status string, items int, elapsed time.Duration) {
	operationsTotal.WithLabelValues(operation, status).Inc()
	operationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if status == StatusOK {
		operationItems.WithLabelValues(operation).Add(float64(items))
	}
}

// Handler serves the default gatherer in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
