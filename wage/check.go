package wage

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/wage-engine/labor"
	"github.com/warp/wage-engine/statute"
	"github.com/warp/wage-engine/worktime"
)

// =============================================================================
// FLOOR CHECK
// =============================================================================

// FloorCheck compares a declared wage with the legal floor for its pay type.
type FloorCheck struct {
	PayType        labor.PayType   `json:"pay_type"`
	Declared       decimal.Decimal `json:"declared"`
	Minimum        decimal.Decimal `json:"minimum"`
	IsBelowMinimum bool            `json:"is_below_minimum"`
	Shortfall      decimal.Decimal `json:"shortfall"`
	Message        string          `json:"message,omitempty"`
}

// CheckFloor reports whether the declared amount (allowances excluded) meets
// the minimum wage. An empty declaration or an empty schedule is not flagged:
// the form is still being filled in. The check never blocks anything; showing
// the warning is up to the caller.
func CheckFloor(input Input, stats worktime.Stats, rates statute.Rates) FloorCheck {
	payType := input.PayType
	if !payType.Valid() {
		payType = labor.PayMonthly
	}

	check := FloorCheck{
		PayType:   payType,
		Declared:  input.Amount,
		Minimum:   MinimumStandardWage(stats, rates, payType),
		Shortfall: decimal.Zero,
	}
	if payType != labor.PayHourly && stats.WorkDays == 0 {
		check.Minimum = decimal.Zero
	}
	if input.Amount.IsZero() || check.Minimum.IsZero() || !input.Amount.LessThan(check.Minimum) {
		return check
	}

	check.IsBelowMinimum = true
	check.Shortfall = check.Minimum.Sub(input.Amount)
	check.Message = fmt.Sprintf("The %s wage of %s won is below the legal minimum of %s won (short by %s won).",
		payType, labor.FormatWon(input.Amount), labor.FormatWon(check.Minimum), labor.FormatWon(check.Shortfall))
	return check
}

// =============================================================================
// PREMIUMS
// =============================================================================

// Premiums are the statutory extras on top of regular pay for overtime and
// night work, at a given hourly wage.
type Premiums struct {
	OvertimeHours       decimal.Decimal `json:"overtime_hours"`
	NightHours          decimal.Decimal `json:"night_hours"`
	WeeklyOvertimePay   decimal.Decimal `json:"weekly_overtime_pay"`
	WeeklyNightPremium  decimal.Decimal `json:"weekly_night_premium"`
	MonthlyOvertimePay  decimal.Decimal `json:"monthly_overtime_pay"`
	MonthlyNightPremium decimal.Decimal `json:"monthly_night_premium"`
}

// EstimatePremiums prices overtime hours at OvertimeMultiplier x hourly (the
// regular wage does not cover them) and night hours at NightMultiplier x hourly
// on top of whatever already pays for them.
func EstimatePremiums(hourly decimal.Decimal, stats worktime.Stats, rates statute.Rates) Premiums {
	overtimeHours := stats.WeeklyOvertimeHours()
	nightHours := stats.WeeklyNightHours()

	weeklyOvertime := overtimeHours.Mul(hourly).Mul(rates.OvertimeMultiplier)
	weeklyNight := nightHours.Mul(hourly).Mul(rates.NightMultiplier)

	return Premiums{
		OvertimeHours:       overtimeHours,
		NightHours:          nightHours,
		WeeklyOvertimePay:   labor.Won(weeklyOvertime),
		WeeklyNightPremium:  labor.Won(weeklyNight),
		MonthlyOvertimePay:  labor.Won(weeklyOvertime.Mul(rates.WeeksPerMonth)),
		MonthlyNightPremium: labor.Won(weeklyNight.Mul(rates.WeeksPerMonth)),
	}
}

// HourlyEquivalent is the hourly rate a breakdown pays for the schedule's paid
// hours (regular + weekly holiday). Zero when there are no paid hours.
func HourlyEquivalent(b Breakdown, stats worktime.Stats, rates statute.Rates, payType labor.PayType) decimal.Decimal {
	if payType == labor.PayHourly {
		return b.BasicWage
	}
	paidHours := stats.WeeklyHours().Add(stats.WeeklyHolidayHours())
	if payType == labor.PayMonthly {
		paidHours = paidHours.Mul(rates.WeeksPerMonth)
	}
	return labor.SafeDiv(b.Total(), paidHours)
}
