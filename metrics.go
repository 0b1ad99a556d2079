package ultradns

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	refreshes *prometheus.CounterVec
}

// newMetrics registers collectors on reg. Several clients may share one registry.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ultradns_requests_total",
				Help: "Total number of UltraDNS API requests by method and status.",
			},
			[]string{"method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ultradns_request_duration_seconds",
				Help:    "Duration of UltraDNS API requests in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"method"},
		),
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ultradns_token_refreshes_total",
				Help: "Number of access token refresh attempts by result.",
			},
			[]string{"result"},
		),
	}

	if reg != nil {
		m.requests = register(reg, m.requests)
		m.duration = register(reg, m.duration)
		m.refreshes = register(reg, m.refreshes)
	}

	return m
}

func register[T prometheus.Collector](reg prometheus.Registerer, collector T) T {
	err := reg.Register(collector)
	if err == nil {
		return collector
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing
		}
	}

	return collector
}

func (m *metrics) observe(method, status string, elapsed time.Duration) {
	m.requests.WithLabelValues(method, status).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *metrics) refreshed(result string) {
	m.refreshes.WithLabelValues(result).Inc()
}
