// Package observability exposes Prometheus metrics for the execution bridge
// and the MCP tool surface.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the server.
// Uses a custom registry, no global state.
type Metrics struct {
	Registry *prometheus.Registry

	// Bridge metrics.
	ExecutionsTotal   *prometheus.CounterVec
	ExecutionDuration *prometheus.HistogramVec
	QueueWaitDuration prometheus.Histogram
	ActiveExecutions  prometheus.Gauge

	// Tool surface metrics.
	ToolCallsTotal *prometheus.CounterVec
}

// NewMetrics creates a Metrics with all collectors registered on a custom
// prometheus.Registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,

		ExecutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fontlab_mcp",
			Subsystem: "bridge",
			Name:      "executions_total",
			Help:      "Total host script executions.",
		}, []string{"operation", "outcome"}),

		ExecutionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fontlab_mcp",
			Subsystem: "bridge",
			Name:      "execution_duration_seconds",
			Help:      "Host script execution duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"operation"}),

		QueueWaitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fontlab_mcp",
			Subsystem: "bridge",
			Name:      "queue_wait_seconds",
			Help:      "Time spent waiting for a concurrency slot.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		}),

		ActiveExecutions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fontlab_mcp",
			Subsystem: "bridge",
			Name:      "active_executions",
			Help:      "Host script executions currently holding a slot.",
		}),

		ToolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fontlab_mcp",
			Subsystem: "server",
			Name:      "tool_calls_total",
			Help:      "Total MCP tool calls.",
		}, []string{"tool", "status"}),
	}

	reg.MustRegister(
		m.ExecutionsTotal,
		m.ExecutionDuration,
		m.QueueWaitDuration,
		m.ActiveExecutions,
		m.ToolCallsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler returns an HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
