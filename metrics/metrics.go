package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Compliance violation kinds.
const (
	ViolationWeeklyTotal    = "weekly_total"
	ViolationWeeklyOvertime = "weekly_overtime"
)

// Metrics provides observability for the calculation endpoints.
// Tracks how often each calculation runs and how often it raises a warning.
type Metrics struct {
	Calculations        *prometheus.CounterVec
	CalculationDuration *prometheus.HistogramVec
	ProbationClamped    prometheus.Counter
	BelowMinimum        prometheus.Counter
	ComplianceViolation *prometheus.CounterVec
}

// New creates a new Metrics instance registered with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wage_engine_calculations_total",
			Help: "Total number of calculations served, by operation",
		}, []string{"operation"}),
		CalculationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wage_engine_calculation_duration_seconds",
			Help:    "Duration of calculations, by operation",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"operation"}),
		ProbationClamped: factory.NewCounter(prometheus.CounterOpts{
			Name: "wage_engine_probation_clamped_total",
			Help: "Probation wages raised to the statutory floor",
		}),
		BelowMinimum: factory.NewCounter(prometheus.CounterOpts{
			Name: "wage_engine_below_minimum_total",
			Help: "Declared wages found below the minimum wage",
		}),
		ComplianceViolation: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wage_engine_compliance_violations_total",
			Help: "Schedules exceeding a weekly working-time limit, by kind",
		}, []string{"kind"}),
	}
}

// ObserveCalculation counts one calculation and records its duration.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCalculation(operation string, start time.Time) {
	m.Calculations.WithLabelValues(operation).Inc()
	m.CalculationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// IncrementProbationClamped records a probation wage raised to the floor.
func (m *Metrics) IncrementProbationClamped() {
	m.ProbationClamped.Inc()
}

// IncrementBelowMinimum records a declared wage under the legal floor.
func (m *Metrics) IncrementBelowMinimum() {
	m.BelowMinimum.Inc()
}

// IncrementViolation records a working-time limit breach of the given kind.
func (m *Metrics) IncrementViolation(kind string) {
	m.ComplianceViolation.WithLabelValues(kind).Inc()
}
