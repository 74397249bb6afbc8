// Package metrics exposes invocation counters and backend latency for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ticket_mcp"

// Metrics records dispatch outcomes on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	upstream    *prometheus.HistogramVec
	operations  prometheus.Gauge
}

// New creates the collectors. Process and Go runtime collectors are included.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Tool invocations by operation and outcome",
		}, []string{"operation", "outcome"}),
		upstream: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Backend round-trip latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "method"}),
		operations: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_operations",
			Help:      "Operations in the registry",
		}),
	}
}

// ObserveInvocation counts one invocation.
func (m *Metrics) ObserveInvocation(operation, outcome string) {
	m.invocations.WithLabelValues(operation, outcome).Inc()
}

// ObserveUpstream records one backend round trip.
func (m *Metrics) ObserveUpstream(operation, method string, d time.Duration) {
	m.upstream.WithLabelValues(operation, method).Observe(d.Seconds())
}

// SetRegisteredOperations reports the registry size.
func (m *Metrics) SetRegisteredOperations(n int) {
	m.operations.Set(float64(n))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
