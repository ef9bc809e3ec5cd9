// Package metrics exposes the service's Prometheus instrumentation on
// a private registry so tests can assert on counters without global
// state.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service collectors.
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequests counts finished requests by method, route pattern,
	// and status code.
	HTTPRequests *prometheus.CounterVec

	// HTTPDuration observes request latency by route pattern.
	HTTPDuration *prometheus.HistogramVec

	// AuthResults counts login outcomes: success or denied.
	AuthResults *prometheus.CounterVec

	// DataOps counts data-surface operations by record kind and verb.
	DataOps *prometheus.CounterVec
}

// New builds and registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Finished HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		AuthResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_results_total",
			Help: "Login attempt outcomes.",
		}, []string{"result"}),
		DataOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "data_operations_total",
			Help: "Data-surface operations by record kind.",
		}, []string{"kind", "op"}),
	}
	m.registry.MustRegister(m.HTTPRequests, m.HTTPDuration, m.AuthResults, m.DataOps)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
