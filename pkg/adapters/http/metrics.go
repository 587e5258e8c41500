package http

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the per-handler Prometheus collectors. Each handler owns
// its own registry so multiple instances (and tests) never collide on
// registration.
type metrics struct {
	registry *prometheus.Registry
	turns    *prometheus.CounterVec
	duration prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menuflow",
			Name:      "turns_total",
			Help:      "Webhook turns processed, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "menuflow",
			Name:      "turn_duration_seconds",
			Help:      "End-to-end webhook turn latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.turns, m.duration)
	return m
}

func (m *metrics) observe(outcome string, started time.Time) {
	m.turns.WithLabelValues(outcome).Inc()
	m.duration.Observe(time.Since(started).Seconds())
}
