package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides a centralized interface for collecting harness metrics.
//
// The metrics system is built on Prometheus and tracks:
//   - Run outcomes and durations
//   - Experiment trigger counts per experiment and intercepted action
//   - Experiment internal errors (the demoted, non-fatal kind)
//   - Network chaos restorations
//
// Usage:
//
//	metrics := observability.NewMetrics()
//	metrics.RunCounter.WithLabelValues("passed").Inc()
type Metrics struct {
	// RunCounter tracks completed runs.
	// Labels: status (passed|failed)
	RunCounter *prometheus.CounterVec

	// RunDuration measures bot run duration in seconds.
	// Buckets: 0.1s, 0.5s, 1s, 2s, 5s, 10s, 30s, 60s, 120s
	RunDuration prometheus.Histogram

	// ExperimentTriggers counts experiment activations.
	// Labels: experiment (random_delay|modal_overlay|network_chaos), action
	ExperimentTriggers *prometheus.CounterVec

	// ExperimentErrors counts internal experiment errors that were demoted
	// to no-ops. Labels: experiment
	ExperimentErrors *prometheus.CounterVec

	// NetworkRestores counts network-condition restorations.
	NetworkRestores prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates a Metrics instance backed by its own registry, so tests
// and repeated constructions never collide on metric registration.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		RunCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chaoswright_runs_total",
				Help: "Total bot runs by outcome status.",
			},
			[]string{"status"},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chaoswright_run_duration_seconds",
				Help:    "Bot run duration in seconds.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		),
		ExperimentTriggers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chaoswright_experiment_triggers_total",
				Help: "Experiment activations by experiment and action.",
			},
			[]string{"experiment", "action"},
		),
		ExperimentErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chaoswright_experiment_errors_total",
				Help: "Internal experiment errors demoted to no-ops.",
			},
			[]string{"experiment"},
		),
		NetworkRestores: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chaoswright_network_restores_total",
				Help: "Network-condition restorations after chaos windows.",
			},
		),
		registry: registry,
	}
}

// Handler returns an HTTP handler exposing the metrics in Prometheus format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
