package wage

import (
	"github.com/shopspring/decimal"
	"github.com/warp/wage-engine/labor"
	"github.com/warp/wage-engine/statute"
	"github.com/warp/wage-engine/worktime"
)

// =============================================================================
// MINIMUM WAGE
// =============================================================================

// Minimum is the legal wage floor for a schedule with the terms that make it up,
// so a caller can show the computation and not just the result.
//
// WorkHours are regular hours for the period (monthly: weekly hours x 4.346),
// without the weekly-holiday add-on. Money terms are rounded up to the won.
type Minimum struct {
	PayType            labor.PayType   `json:"pay_type"`
	HourlyWage         decimal.Decimal `json:"hourly_wage"`
	WorkHours          decimal.Decimal `json:"work_hours"`
	BasicMinimumWage   decimal.Decimal `json:"basic_minimum_wage"`
	WeeklyHolidayHours decimal.Decimal `json:"weekly_holiday_hours"`
	WeeklyHolidayPay   decimal.Decimal `json:"weekly_holiday_pay"`
	TotalMinimumWage   decimal.Decimal `json:"total_minimum_wage"`
}

// MinimumMonthly computes the monthly floor:
//
//	basic   = weekly hours x 4.346 x minimum hourly wage
//	holiday = minimum hourly wage x weekly-holiday hours x 4.346
//	total   = basic + holiday
func MinimumMonthly(stats worktime.Stats, rates statute.Rates) Minimum {
	return minimum(stats, rates, labor.PayMonthly, rates.WeeksPerMonth)
}

// MinimumWeekly computes the same floor for one week.
func MinimumWeekly(stats worktime.Stats, rates statute.Rates) Minimum {
	return minimum(stats, rates, labor.PayWeekly, decimal.NewFromInt(1))
}

func minimum(stats worktime.Stats, rates statute.Rates, payType labor.PayType, weeks decimal.Decimal) Minimum {
	floor := rates.MinimumHourlyWage
	workHours := stats.WeeklyHours().Mul(weeks)
	holidayHours := stats.WeeklyHolidayHours()

	basic := labor.CeilWon(workHours.Mul(floor))
	holiday := labor.CeilWon(floor.Mul(holidayHours).Mul(weeks))

	return Minimum{
		PayType:            payType,
		HourlyWage:         floor,
		WorkHours:          workHours,
		BasicMinimumWage:   basic,
		WeeklyHolidayHours: holidayHours,
		WeeklyHolidayPay:   holiday,
		TotalMinimumWage:   basic.Add(holiday),
	}
}

// MinimumStandardWage is the floor a standard wage (basic + weekly-holiday pay)
// of the given pay type is compared against. For an hourly wage it is the
// minimum hourly wage itself.
func MinimumStandardWage(stats worktime.Stats, rates statute.Rates, payType labor.PayType) decimal.Decimal {
	switch payType {
	case labor.PayWeekly:
		return MinimumWeekly(stats, rates).TotalMinimumWage
	case labor.PayHourly:
		return rates.MinimumHourlyWage
	default:
		return MinimumMonthly(stats, rates).TotalMinimumWage
	}
}
