package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus metrics for chain runs.
//
//	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
//	metrics.ActionExecuted("Store Embed Info", "success", time.Since(start))
type Metrics struct {
	// ActionCounter counts action executions.
	// Labels: action, status (success|error)
	ActionCounter *prometheus.CounterVec

	// ActionDuration measures action execution time in seconds.
	// Labels: action
	ActionDuration *prometheus.HistogramVec

	// ExtractionCounter counts embed value extractions.
	// Labels: info, result (stored|absent)
	ExtractionCounter *prometheus.CounterVec

	// VariableWrites counts variable slot writes.
	// Labels: scope (temp|server|global)
	VariableWrites *prometheus.CounterVec

	// ErrorCounter counts action failures.
	// Labels: action, code
	ErrorCounter *prometheus.CounterVec

	// ChainRuns counts chain runs.
	// Labels: status (completed|failed)
	ChainRuns *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg. A nil reg uses
// the Prometheus default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ActionCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "embedinfo_actions_total",
				Help: "Total number of action executions by action and status",
			},
			[]string{"action", "status"},
		),

		ActionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "embedinfo_action_duration_seconds",
				Help:    "Duration of action executions in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"action"},
		),

		ExtractionCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "embedinfo_extractions_total",
				Help: "Total number of embed value extractions by info key and result",
			},
			[]string{"info", "result"},
		),

		VariableWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "embedinfo_variable_writes_total",
				Help: "Total number of variable slot writes by scope",
			},
			[]string{"scope"},
		),

		ErrorCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "embedinfo_errors_total",
				Help: "Total number of action failures by action and error code",
			},
			[]string{"action", "code"},
		),

		ChainRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "embedinfo_chain_runs_total",
				Help: "Total number of chain runs by status",
			},
			[]string{"status"},
		),
	}
}

// ActionExecuted records one action execution.
func (m *Metrics) ActionExecuted(action, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ActionCounter.WithLabelValues(action, status).Inc()
	m.ActionDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// Extraction records whether an extraction produced a value.
func (m *Metrics) Extraction(info string, stored bool) {
	if m == nil {
		return
	}
	result := "absent"
	if stored {
		result = "stored"
	}
	m.ExtractionCounter.WithLabelValues(info, result).Inc()
}

// VariableWritten records a write into scope.
func (m *Metrics) VariableWritten(scope string) {
	if m == nil {
		return
	}
	m.VariableWrites.WithLabelValues(scope).Inc()
}

// ActionFailed records an action failure.
func (m *Metrics) ActionFailed(action, code string) {
	if m == nil {
		return
	}
	m.ErrorCounter.WithLabelValues(action, code).Inc()
}

// ChainRun records the outcome of a chain run.
func (m *Metrics) ChainRun(status string) {
	if m == nil {
		return
	}
	m.ChainRuns.WithLabelValues(status).Inc()
}
