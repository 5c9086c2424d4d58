package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/warp/wage-engine/metrics"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveCalculation("decompose", time.Now())
	m.ObserveCalculation("decompose", time.Now())
	m.IncrementProbationClamped()
	m.IncrementBelowMinimum()
	m.IncrementViolation(metrics.ViolationWeeklyOvertime)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Calculations.WithLabelValues("decompose")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProbationClamped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BelowMinimum))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComplianceViolation.WithLabelValues(metrics.ViolationWeeklyOvertime)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ComplianceViolation.WithLabelValues(metrics.ViolationWeeklyTotal)))
}

func TestNew_SeparateRegistries(t *testing.T) {
	// Two instances on separate registries must not collide.
	assert.NotPanics(t, func() {
		metrics.New(prometheus.NewRegistry())
		metrics.New(prometheus.NewRegistry())
	})
}
