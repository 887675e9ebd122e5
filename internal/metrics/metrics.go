// Package metrics holds the Prometheus collectors of shoal. They register
// with the default registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	promNamespace = "shoal"
)

// Event statuses.
const (
	StatusRouted      = "routed"
	StatusFailed      = "failed"
	StatusUndecodable = "undecodable"
)

var (
	durationBuckets = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

	operationDurationHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: promNamespace,
		Name:      "operation_duration_seconds",
		Buckets:   durationBuckets,
	}, []string{"operation"})

	eventStatusCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "event_status",
	}, []string{"type", "status"})
)

// TrackDuration starts timing operation; call the returned func when it ends.
func TrackDuration(operation string) func() {
	start := time.Now()
	return func() {
		operationDurationHistogram.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// TrackEvent counts one input event of the given type with the given status.
func TrackEvent(eventType, status string) {
	eventStatusCounter.WithLabelValues(eventType, status).Inc()
}
