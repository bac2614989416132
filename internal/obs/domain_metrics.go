package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// FeeCalculationsTotal counts fee calculations by outcome.
	FeeCalculationsTotal *prometheus.CounterVec
	// SelectionSize records how many courses each priced selection held.
	SelectionSize prometheus.Histogram
	// SubtotalDriftTotal counts sessions whose cached running subtotal disagreed with the catalog.
	SubtotalDriftTotal prometheus.Counter
	// AuthAttemptsTotal counts signup and login attempts by outcome.
	AuthAttemptsTotal *prometheus.CounterVec
	// TasksTotal counts background task enqueues and executions.
	TasksTotal *prometheus.CounterVec
)

// Outcome labels.
const (
	ResultOK         = "ok"
	ResultInvalid    = "invalid"
	ResultUnresolved = "unresolved"
	ResultError      = "error"
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		FeeCalculationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fee_calculations_total",
			Help:      "Count of fee calculations by outcome.",
		}, []string{"source", "result"})
		SelectionSize = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fee_selection_size",
			Help:      "Number of courses in each priced selection.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 7},
		})
		SubtotalDriftTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrollment_subtotal_drift_total",
			Help:      "Sessions whose running subtotal diverged from the catalog recompute.",
		})
		AuthAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Count of signup and login attempts by outcome.",
		}, []string{"action", "result"})
		TasksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Background task lifecycle events.",
		}, []string{"type", "stage", "result"})

		FeeCalculationsTotal = register(reg, FeeCalculationsTotal)
		SelectionSize = register(reg, SelectionSize)
		SubtotalDriftTotal = register(reg, SubtotalDriftTotal)
		AuthAttemptsTotal = register(reg, AuthAttemptsTotal)
		TasksTotal = register(reg, TasksTotal)
	})
}

// ObserveFeeCalculation records one calculation. It is a no-op before registration.
func ObserveFeeCalculation(source, result string, selected int) {
	if FeeCalculationsTotal != nil {
		FeeCalculationsTotal.WithLabelValues(source, result).Inc()
	}
	if SelectionSize != nil && result == ResultOK {
		SelectionSize.Observe(float64(selected))
	}
}

// ObserveSubtotalDrift counts one drifted session.
func ObserveSubtotalDrift() {
	if SubtotalDriftTotal != nil {
		SubtotalDriftTotal.Inc()
	}
}

// ObserveAuthAttempt counts one signup or login attempt.
func ObserveAuthAttempt(action, result string) {
	if AuthAttemptsTotal != nil {
		AuthAttemptsTotal.WithLabelValues(action, result).Inc()
	}
}

// ObserveTask counts one task event; stage is "enqueue" or "process".
func ObserveTask(taskType, stage, result string) {
	if TasksTotal != nil {
		TasksTotal.WithLabelValues(taskType, stage, result).Inc()
	}
}
