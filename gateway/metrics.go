package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of one gateway.
type Metrics struct {
	registry *prometheus.Registry

	Operations       *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	Entities         prometheus.Gauge
	SnapshotFailures prometheus.Counter
}

// NewMetrics creates the gateway metrics on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "namespace_operations_total",
				Help: "Total number of namespace operations by result",
			},
			[]string{"op", "result"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "namespace_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		Entities: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "namespace_entities",
				Help: "Number of entities in the namespace, root included",
			},
		),
		SnapshotFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "namespace_snapshot_failures_total",
				Help: "Total number of snapshots that failed to save",
			},
		),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
