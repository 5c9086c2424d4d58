/*
Package wage turns quoted wages and normalized working time into legally
distinct wage components and legal floors.

PURPOSE:
  Korean contracts quote a single figure ("월 2,096,270원") that the law treats as
  two things: the basic wage for hours worked and the weekly-holiday pay for the
  paid rest day. This package splits that figure, computes the minimum wage the
  schedule legally requires, and applies probation discounts without letting
  them cross the statutory floor.

KEY OPERATIONS:
  Decompose:           lump wage -> {basic wage, weekly-holiday pay}
  Expand:              hourly wage -> period breakdown
  MinimumMonthly/Weekly: legal floor with its intermediate terms
  CheckFloor:          declared wage vs. legal floor, with a warning message
  EvaluateProbation:   discounted probation wage clamped at 90% of the floor
  EstimatePremiums:    overtime and night premiums owed on top of the base

INVARIANTS:
  - Decompose round-trips: BasicWage + WeeklyHolidayPay == lump, to the won
  - Every function is pure; identical inputs give identical outputs
  - Allowances never enter a minimum-wage comparison and are never discounted

SEE ALSO:
  - worktime/normalize.go: produces the Stats consumed here
  - statute/rates.go: minimum hourly wage, weeks per month, multipliers
*/
package wage

import (
	"github.com/shopspring/decimal"
	"github.com/warp/wage-engine/labor"
	"github.com/warp/wage-engine/statute"
	"github.com/warp/wage-engine/worktime"
)

// =============================================================================
// INPUT AND BREAKDOWN
// =============================================================================

// Input is a wage as the employer quotes it.
type Input struct {
	PayType    labor.PayType   `json:"pay_type"`
	Amount     decimal.Decimal `json:"amount"`
	Allowances decimal.Decimal `json:"allowances"`
}

// Breakdown is a lump wage split into its statutory components.
type Breakdown struct {
	BasicWage        decimal.Decimal `json:"basic_wage"`
	WeeklyHolidayPay decimal.Decimal `json:"weekly_holiday_pay"`
}

// Total is the lump the breakdown was derived from.
func (b Breakdown) Total() decimal.Decimal { return b.BasicWage.Add(b.WeeklyHolidayPay) }

// =============================================================================
// DECOMPOSE
// =============================================================================

// Decompose splits a monthly or weekly lump in proportion to regular minutes and
// weekly-holiday minutes. The monthly and weekly proportions are the same ratio
// because both sides of the monthly figure carry the same weeks-per-month factor.
//
// The basic wage is rounded to the won first and the holiday pay takes the
// remainder, so the two always sum back to the lump exactly. An hourly rate has
// no holiday component and comes back whole.
func Decompose(lump decimal.Decimal, stats worktime.Stats, payType labor.PayType) Breakdown {
	if payType == labor.PayHourly || stats.WeeklyHolidayMinutes.IsZero() || stats.WeeklyMinutes == 0 {
		return Breakdown{BasicWage: lump, WeeklyHolidayPay: decimal.Zero}
	}

	weekly := decimal.NewFromInt(int64(stats.WeeklyMinutes))
	share := weekly.Div(weekly.Add(stats.WeeklyHolidayMinutes))

	basic := labor.Won(lump.Mul(share))
	return Breakdown{BasicWage: basic, WeeklyHolidayPay: lump.Sub(basic)}
}

// Expand converts an hourly wage into the weekly or monthly breakdown the
// schedule earns: regular hours and weekly-holiday hours at the hourly rate.
// Any other pay type is decomposed as-is.
func Expand(input Input, stats worktime.Stats, rates statute.Rates, period labor.PayType) Breakdown {
	if input.PayType != labor.PayHourly {
		return Decompose(input.Amount, stats, input.PayType)
	}

	basic := input.Amount.Mul(stats.WeeklyHours())
	holiday := input.Amount.Mul(stats.WeeklyHolidayHours())
	if period == labor.PayMonthly {
		basic = basic.Mul(rates.WeeksPerMonth)
		holiday = holiday.Mul(rates.WeeksPerMonth)
	}
	return Breakdown{BasicWage: labor.Won(basic), WeeklyHolidayPay: labor.Won(holiday)}
}
