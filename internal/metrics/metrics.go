// Package metrics provides the centralized Prometheus registry for the
// risk engine.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EngineRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "risk_optima",
		Name:      "engine_runs_total",
		Help:      "Total number of engine runs by status",
	}, []string{"status"})
	SimulationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "risk_optima",
		Name:      "simulations_total",
		Help:      "Total number of Monte Carlo simulation paths executed",
	})
	LedgersIngestedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "risk_optima",
		Name:      "ledgers_ingested_total",
		Help:      "Total number of trade ledgers parsed by format",
	}, []string{"format"})
)

// Gauge metrics
var (
	LastPassRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "risk_optima",
		Name:      "last_pass_rate",
		Help:      "Pass rate of the most recent recommendation",
	})
)

// Histogram metrics
var (
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "risk_optima",
		Name:      "run_duration_seconds",
		Help:      "Duration of full engine runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(EngineRunsTotal)
		registry.MustRegister(SimulationsTotal)
		registry.MustRegister(LedgersIngestedTotal)
		registry.MustRegister(LastPassRate)
		registry.MustRegister(RunDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordEngineRun records an engine run event.
// status should be one of: "success", "partial", "failure"
func RecordEngineRun(status string) {
	EngineRunsTotal.WithLabelValues(status).Inc()
}

// RecordSimulations adds executed simulation paths to the counter.
func RecordSimulations(count int) {
	SimulationsTotal.Add(float64(count))
}

// RecordLedgerIngested records a parsed ledger by source format.
func RecordLedgerIngested(format string) {
	LedgersIngestedTotal.WithLabelValues(format).Inc()
}

// ObserveRunDuration records the duration of a full engine run.
func ObserveRunDuration(d time.Duration) {
	RunDuration.Observe(d.Seconds())
}

// ObservePassRate updates the last recommendation pass-rate gauge.
func ObservePassRate(rate float64) {
	LastPassRate.Set(rate)
}
