package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests        *prometheus.CounterVec
	failures        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	offersEvaluated prometheus.Counter
}

func newMetrics(registry prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mortgage_compare",
			Name:      "requests_total",
			Help:      "Successful API requests by operation.",
		}, []string{"op"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mortgage_compare",
			Name:      "request_failures_total",
			Help:      "Failed API requests by operation and status code.",
		}, []string{"op", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mortgage_compare",
			Name:      "request_duration_seconds",
			Help:      "Time spent computing a response.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"op"}),
		offersEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mortgage_compare",
			Name:      "offers_evaluated_total",
			Help:      "Offers evaluated across all comparisons.",
		}),
	}
	registry.MustRegister(m.requests, m.failures, m.duration, m.offersEvaluated)
	return m
}

func (m *metrics) observe(op string, elapsed time.Duration) {
	m.requests.WithLabelValues(op).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}
