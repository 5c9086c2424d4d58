// Package eligibility decides statutory entitlements and limits from working
// hours: four-major-insurance enrollment, weekly-holiday pay, the 52-hour week
// and the 12-hour overtime cap, and whether a contract may carry a probation
// period. Results carry a plain-language reason for display; they are computed
// on demand and never stored.
package eligibility

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/wage-engine/labor"
	"github.com/warp/wage-engine/statute"
	"github.com/warp/wage-engine/worktime"
)

// Result is a yes/no entitlement with the reason behind it.
type Result struct {
	IsEligible bool   `json:"is_eligible"`
	Reason     string `json:"reason"`
}

// Compliance reports the two weekly working-time limits independently; a
// schedule can break both at once.
type Compliance struct {
	IsOver52Hours         bool            `json:"is_over_52_hours"`
	IsOver12HoursOvertime bool            `json:"is_over_12_hours_overtime"`
	WeeklyTotalHours      decimal.Decimal `json:"weekly_total_hours"`
	WeeklyOvertimeHours   decimal.Decimal `json:"weekly_overtime_hours"`
	Reasons               []string        `json:"reasons,omitempty"`
}

// Compliant is true when neither limit is exceeded.
func (c Compliance) Compliant() bool { return !c.IsOver52Hours && !c.IsOver12HoursOvertime }

// WeeklyHours are the regular weekly hours of the schedule.
func WeeklyHours(stats worktime.Stats) decimal.Decimal { return stats.WeeklyHours() }

// MonthlyHours are regular weekly hours x weeks per month, without the
// weekly-holiday add-on. Insurance thresholds are about hours worked.
func MonthlyHours(stats worktime.Stats, rates statute.Rates) decimal.Decimal {
	return stats.WeeklyHours().Mul(rates.WeeksPerMonth)
}

// CheckInsurance: enrollment is mandatory at InsuranceWeeklyHours per week or
// InsuranceMonthlyHours per month.
func CheckInsurance(weeklyHours, monthlyHours decimal.Decimal, rates statute.Rates) Result {
	weeklyMin := decimal.NewFromInt(int64(rates.InsuranceWeeklyHours))
	monthlyMin := decimal.NewFromInt(int64(rates.InsuranceMonthlyHours))

	switch {
	case weeklyHours.GreaterThanOrEqual(weeklyMin):
		return Result{IsEligible: true, Reason: fmt.Sprintf(
			"Works %s hours a week (%d or more): the four major insurances apply.",
			labor.FormatHours(weeklyHours), rates.InsuranceWeeklyHours)}
	case monthlyHours.GreaterThanOrEqual(monthlyMin):
		return Result{IsEligible: true, Reason: fmt.Sprintf(
			"Works %s hours a month (%d or more): the four major insurances apply.",
			labor.FormatHours(monthlyHours), rates.InsuranceMonthlyHours)}
	}
	return Result{IsEligible: false, Reason: fmt.Sprintf(
		"Works %s hours a week and %s hours a month, under %d a week and %d a month: enrollment is not mandatory.",
		labor.FormatHours(weeklyHours), labor.FormatHours(monthlyHours), rates.InsuranceWeeklyHours, rates.InsuranceMonthlyHours)}
}

// CheckWeeklyHoliday: weekly-holiday pay is owed from WeeklyHolidayThresholdHours
// per week.
func CheckWeeklyHoliday(weeklyHours decimal.Decimal, rates statute.Rates) Result {
	threshold := decimal.NewFromInt(int64(rates.WeeklyHolidayThresholdHours))
	if weeklyHours.GreaterThanOrEqual(threshold) {
		return Result{IsEligible: true, Reason: fmt.Sprintf(
			"Works %s hours a week (%d or more): a paid weekly holiday is owed.",
			labor.FormatHours(weeklyHours), rates.WeeklyHolidayThresholdHours)}
	}
	return Result{IsEligible: false, Reason: fmt.Sprintf(
		"Works %s hours a week, under %d: no weekly-holiday pay is owed.",
		labor.FormatHours(weeklyHours), rates.WeeklyHolidayThresholdHours)}
}

// CheckCompliance tests the weekly total (regular + overtime) against
// MaxWeeklyTotalHours and overtime against MaxWeeklyOvertimeHours.
func CheckCompliance(stats worktime.Stats, rates statute.Rates) Compliance {
	c := Compliance{
		WeeklyTotalHours:    stats.WeeklyTotalHours(),
		WeeklyOvertimeHours: stats.WeeklyOvertimeHours(),
	}
	c.IsOver52Hours = c.WeeklyTotalHours.GreaterThan(decimal.NewFromInt(int64(rates.MaxWeeklyTotalHours)))
	c.IsOver12HoursOvertime = c.WeeklyOvertimeHours.GreaterThan(decimal.NewFromInt(int64(rates.MaxWeeklyOvertimeHours)))

	if c.IsOver52Hours {
		c.Reasons = append(c.Reasons, fmt.Sprintf("The week totals %s hours, over the %d-hour limit.",
			labor.FormatHours(c.WeeklyTotalHours), rates.MaxWeeklyTotalHours))
	}
	if c.IsOver12HoursOvertime {
		c.Reasons = append(c.Reasons, fmt.Sprintf("Overtime is %s hours a week, over the %d-hour limit.",
			labor.FormatHours(c.WeeklyOvertimeHours), rates.MaxWeeklyOvertimeHours))
	}
	return c
}

// =============================================================================
// PROBATION ELIGIBILITY
// =============================================================================

// ContractPeriod is the term of an employment contract. A nil End means the
// contract has no fixed term.
type ContractPeriod struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// Indefinite reports an open-ended contract.
func (p ContractPeriod) Indefinite() bool { return p.End == nil }

// Days is the inclusive length of a fixed-term contract; 0 when indefinite or
// when End precedes Start.
func (p ContractPeriod) Days() int {
	if p.End == nil {
		return 0
	}
	start := time.Date(p.Start.Year(), p.Start.Month(), p.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(p.End.Year(), p.End.Month(), p.End.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// IsProbationEligible: a probation term is only permitted on an indefinite
// contract or one running at least ProbationMinContractDays. The predicate does
// not touch the contract; clearing probation fields is the caller's decision.
func IsProbationEligible(period ContractPeriod, rates statute.Rates) bool {
	return period.Indefinite() || period.Days() >= rates.ProbationMinContractDays
}
