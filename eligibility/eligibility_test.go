package eligibility_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/wage-engine/eligibility"
	"github.com/warp/wage-engine/labor"
	"github.com/warp/wage-engine/statute"
	"github.com/warp/wage-engine/worktime"
)

var rates2025 = statute.ForYear(2025)

func hours(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func normalize(start, end string, breakMinutes int, days ...labor.Weekday) worktime.Stats {
	s := worktime.DayShift{Start: labor.ParseClock(start), End: labor.ParseClock(end), BreakMinutes: breakMinutes}
	return worktime.Normalize(worktime.CommonSchedule(s, days...), rates2025)
}

// =============================================================================
// INSURANCE / WEEKLY HOLIDAY
// =============================================================================

func TestThresholds_FifteenHourBoundary(t *testing.T) {
	// GIVEN: exactly 15.00 hours a week
	// THEN: insurance and weekly holiday both apply
	weekly := hours("15")
	monthly := weekly.Mul(rates2025.WeeksPerMonth)

	assert.True(t, eligibility.CheckInsurance(weekly, monthly, rates2025).IsEligible)
	assert.True(t, eligibility.CheckWeeklyHoliday(weekly, rates2025).IsEligible)

	// GIVEN: 14.99 hours a week and under 60 a month
	// THEN: neither applies
	insurance := eligibility.CheckInsurance(hours("14.99"), hours("59"), rates2025)
	holiday := eligibility.CheckWeeklyHoliday(hours("14.99"), rates2025)

	assert.False(t, insurance.IsEligible)
	assert.False(t, holiday.IsEligible)
	assert.NotEmpty(t, insurance.Reason)
	assert.NotEmpty(t, holiday.Reason)
}

func TestCheckInsurance_MonthlyAlone(t *testing.T) {
	r := eligibility.CheckInsurance(hours("10"), hours("60"), rates2025)

	assert.True(t, r.IsEligible)
	assert.Contains(t, r.Reason, "60")
}

func TestMonthlyHours_ExcludesHoliday(t *testing.T) {
	stats := normalize("09:00", "18:00", 60, labor.Monday, labor.Tuesday, labor.Wednesday, labor.Thursday, labor.Friday)

	assert.True(t, eligibility.WeeklyHours(stats).Equal(hours("40")))
	assert.True(t, eligibility.MonthlyHours(stats, rates2025).Equal(hours("173.84")))
}

// =============================================================================
// WORKING-TIME LIMITS
// =============================================================================

func TestCheckCompliance(t *testing.T) {
	t.Run("office week is compliant", func(t *testing.T) {
		stats := normalize("09:00", "18:00", 60, labor.Monday, labor.Tuesday, labor.Wednesday, labor.Thursday, labor.Friday)
		c := eligibility.CheckCompliance(stats, rates2025)

		assert.True(t, c.Compliant())
		assert.Empty(t, c.Reasons)
	})

	t.Run("overtime cap alone", func(t *testing.T) {
		// Two 15h days: 7h daily overtime each = 14h, 30h in total.
		stats := normalize("07:00", "23:00", 60, labor.Monday, labor.Tuesday)
		c := eligibility.CheckCompliance(stats, rates2025)

		assert.False(t, c.IsOver52Hours)
		assert.True(t, c.IsOver12HoursOvertime)
		assert.True(t, c.WeeklyOvertimeHours.Equal(hours("14")))
		assert.True(t, c.WeeklyTotalHours.Equal(hours("30")))
		require.Len(t, c.Reasons, 1)
	})

	t.Run("both limits at once", func(t *testing.T) {
		// Six 11h days = 66h: 18h daily overtime plus 8h over the 40h week.
		days := []labor.Weekday{labor.Monday, labor.Tuesday, labor.Wednesday, labor.Thursday, labor.Friday, labor.Saturday}
		stats := normalize("08:00", "20:00", 60, days...)
		c := eligibility.CheckCompliance(stats, rates2025)

		assert.True(t, c.IsOver52Hours)
		assert.True(t, c.IsOver12HoursOvertime)
		assert.True(t, c.WeeklyTotalHours.Equal(hours("66")))
		assert.True(t, c.WeeklyOvertimeHours.Equal(hours("26")))
		assert.Len(t, c.Reasons, 2)
	})

	t.Run("exactly at both limits", func(t *testing.T) {
		// Mon-Fri 9h, Sat 7h = 52h: 5h daily overtime plus 7h over the 40h week.
		nine := worktime.DayShift{Start: labor.Clock(9, 0), End: labor.Clock(19, 0), BreakMinutes: 60}
		seven := worktime.DayShift{Start: labor.Clock(9, 0), End: labor.Clock(17, 0), BreakMinutes: 60}
		schedule := worktime.CommonSchedule(nine,
			labor.Monday, labor.Tuesday, labor.Wednesday, labor.Thursday, labor.Friday, labor.Saturday)
		schedule.PerDay = map[labor.Weekday]worktime.DayShift{labor.Saturday: seven}

		c := eligibility.CheckCompliance(worktime.Normalize(schedule, rates2025), rates2025)

		assert.True(t, c.WeeklyTotalHours.Equal(hours("52")), "total %s", c.WeeklyTotalHours)
		assert.True(t, c.WeeklyOvertimeHours.Equal(hours("12")), "overtime %s", c.WeeklyOvertimeHours)
		assert.True(t, c.Compliant())
	})
}

// =============================================================================
// PROBATION ELIGIBILITY
// =============================================================================

func TestIsProbationEligible(t *testing.T) {
	end := func(s string) *time.Time {
		d := date(s)
		return &d
	}

	tests := []struct {
		name   string
		period eligibility.ContractPeriod
		days   int
		want   bool
	}{
		{"indefinite", eligibility.ContractPeriod{Start: date("2025-03-01")}, 0, true},
		{"one full year", eligibility.ContractPeriod{Start: date("2025-01-01"), End: end("2025-12-31")}, 365, true},
		{"one day short", eligibility.ContractPeriod{Start: date("2025-01-01"), End: end("2025-12-30")}, 364, false},
		{"leap year", eligibility.ContractPeriod{Start: date("2024-01-01"), End: end("2024-12-30")}, 365, true},
		{"six months", eligibility.ContractPeriod{Start: date("2025-01-01"), End: end("2025-06-30")}, 181, false},
		{"end before start", eligibility.ContractPeriod{Start: date("2025-06-01"), End: end("2025-05-01")}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.days, tt.period.Days())
			assert.Equal(t, tt.want, eligibility.IsProbationEligible(tt.period, rates2025))
		})
	}
}
