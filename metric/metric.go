// Package metric provides Prometheus instrumentation for the gateway:
// inbound request counters, downstream call latency, and per-service health
// gauges, exposed through a dedicated registry.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all gateway-level metrics.
type Metrics struct {
	// Inbound HTTP surface
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Downstream service calls
	DownstreamRequests *prometheus.CounterVec
	DownstreamDuration *prometheus.HistogramVec

	// Health aggregation (1 healthy, 0 unhealthy)
	HealthStatus *prometheus.GaugeVec
}

// NewMetrics creates the gateway metric set.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gateway",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of inbound HTTP requests",
			},
			[]string{"route", "method", "status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gateway",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Inbound request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),

		DownstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gateway",
				Subsystem: "downstream",
				Name:      "requests_total",
				Help:      "Total number of downstream service calls",
			},
			[]string{"service", "method", "outcome"},
		),

		DownstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gateway",
				Subsystem: "downstream",
				Name:      "request_duration_seconds",
				Help:      "Downstream call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service", "method"},
		),

		HealthStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gateway",
				Subsystem: "health",
				Name:      "service_up",
				Help:      "Downstream service health (1 healthy, 0 unhealthy)",
			},
			[]string{"service"},
		),
	}
}

// Registry owns the Prometheus registry and the gateway metric set.
type Registry struct {
	prom    *prometheus.Registry
	Metrics *Metrics
}

// NewRegistry creates a registry with the gateway metrics plus Go runtime
// and process collectors registered.
func NewRegistry() *Registry {
	prom := prometheus.NewRegistry()
	m := NewMetrics()

	prom.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.DownstreamRequests,
		m.DownstreamDuration,
		m.HealthStatus,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Registry{prom: prom, Metrics: m}
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{})
}

// Prometheus returns the underlying registry, primarily for tests.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.prom
}
