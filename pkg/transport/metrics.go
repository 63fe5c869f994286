package transport

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for transport calls.
var (
	callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ebay_transport_calls_total",
		Help: "Total marketplace calls by call name and status",
	}, []string{"call", "status"})

	callDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ebay_transport_call_duration_seconds",
		Help:    "Marketplace call duration in seconds by call name",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"call"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ebay_transport_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ebay_transport_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"error_class"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ebay_transport_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// WithMetrics records call counts and durations.
func WithMetrics() Middleware {
	return Intercept(func(ctx context.Context, call string, next func(context.Context) error) error {
		start := time.Now()
		err := next(ctx)
		callDuration.WithLabelValues(call).Observe(time.Since(start).Seconds())

		status := "ok"
		if err != nil {
			status = string(ClassOf(err))
			if status == "" {
				status = "cancelled"
			}
		}
		callsTotal.WithLabelValues(call, status).Inc()
		return err
	})
}
