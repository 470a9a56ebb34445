package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	backendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coinstack",
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of requests to the collection backend",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "outcome"},
	)

	stateFlushFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coinstack",
			Name:      "state_flush_failures_total",
			Help:      "Persisted view state writes that failed",
		},
	)
)

func init() {
	prometheus.MustRegister(backendRequestDuration)
	prometheus.MustRegister(stateFlushFailures)
}

// ObserveBackend records one outbound call. outcome is "ok" or an error kind.
func ObserveBackend(endpoint, outcome string, d time.Duration) {
	backendRequestDuration.WithLabelValues(endpoint, outcome).Observe(d.Seconds())
}

// AddFlushFailures counts failed state writes.
func AddFlushFailures(n int) {
	if n > 0 {
		stateFlushFailures.Add(float64(n))
	}
}
