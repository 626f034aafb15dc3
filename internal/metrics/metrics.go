// Package metrics exposes the latest diagnostic results as Prometheus
// gauges for the monitor command.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"platdiag/internal/history"
)

// Metrics is the registry of exported diagnostic metrics.
type Metrics struct {
	registry *prometheus.Registry

	ResultValue     *prometheus.GaugeVec
	RunsTotal       prometheus.Counter
	RunErrorsTotal  prometheus.Counter
	LastRunDuration prometheus.Gauge
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.ResultValue = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "platdiag_result",
			Help: "Latest value reported by a diagnostic test",
		},
		[]string{"test", "unit"},
	)
	m.RunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "platdiag_runs_total",
			Help: "Total diagnostic suite executions",
		},
	)
	m.RunErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "platdiag_run_errors_total",
			Help: "Diagnostic suite executions that failed",
		},
	)
	m.LastRunDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "platdiag_last_run_duration_seconds",
			Help: "Wall time of the most recent suite execution",
		},
	)

	m.registry.MustRegister(m.ResultValue, m.RunsTotal, m.RunErrorsTotal, m.LastRunDuration)
	return m
}

// Observe records one completed suite execution.
func (m *Metrics) Observe(results []history.Result, elapsed time.Duration) {
	m.RunsTotal.Inc()
	m.LastRunDuration.Set(elapsed.Seconds())
	for _, r := range results {
		m.ResultValue.WithLabelValues(r.Name, r.Unit).Set(r.Value)
	}
}

// ObserveError records a failed suite execution.
func (m *Metrics) ObserveError() {
	m.RunsTotal.Inc()
	m.RunErrorsTotal.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
