/*
Package statute holds the statutory constants every calculator is parameterized by.

PURPOSE:
  Minimum hourly wage, weekly-holiday thresholds, overtime caps, premium
  multipliers and the 4.346 weeks-per-month constant change by law, usually once
  a year. They are data, not code: a Rates value is passed into every calculator
  call, and a Table picks the version in effect on a given date.

JSON SCHEMA:
  {
    "version": "2025",
    "effective_from": "2025-01-01",
    "minimum_hourly_wage": 10030,
    "weeks_per_month": "4.346",
    "daily_regular_hours": 8,
    "weekly_regular_hours": 40,
    "weekly_holiday_threshold_hours": 15,
    "weekly_holiday_cap_hours": 8,
    "night_start": "22:00",
    "night_end": "06:00",
    "overtime_multiplier": "1.5",
    "night_multiplier": "0.5",
    "probation_floor_percent": 90,
    "max_weekly_total_hours": 52,
    "max_weekly_overtime_hours": 12,
    "insurance_weekly_hours": 15,
    "insurance_monthly_hours": 60,
    "probation_min_contract_days": 365
  }

  Omitted fields take the defaults of the Labor Standards Act as of 2025; only
  version, effective_from and minimum_hourly_wage are required.

SEE ALSO:
  - table.go: version lookup by date
  - store/sqlite/rates.go: persisted versions
*/
package statute

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/wage-engine/labor"
)

const dateLayout = "2006-01-02"

// =============================================================================
// RATES
// =============================================================================

// Rates is one validated version of the statutory constants.
type Rates struct {
	Version       string
	EffectiveFrom time.Time

	MinimumHourlyWage decimal.Decimal
	WeeksPerMonth     decimal.Decimal

	DailyRegularHours  int
	WeeklyRegularHours int

	WeeklyHolidayThresholdHours int
	WeeklyHolidayCapHours       int

	NightStart labor.ClockTime
	NightEnd   labor.ClockTime

	OvertimeMultiplier decimal.Decimal
	NightMultiplier    decimal.Decimal

	ProbationFloorPercent    int
	ProbationMinContractDays int

	MaxWeeklyTotalHours    int
	MaxWeeklyOvertimeHours int

	InsuranceWeeklyHours  int
	InsuranceMonthlyHours int
}

func (r Rates) DailyRegularMinutes() int           { return r.DailyRegularHours * labor.MinutesPerHour }
func (r Rates) WeeklyRegularMinutes() int          { return r.WeeklyRegularHours * labor.MinutesPerHour }
func (r Rates) WeeklyHolidayThresholdMinutes() int { return r.WeeklyHolidayThresholdHours * labor.MinutesPerHour }
func (r Rates) WeeklyHolidayCapMinutes() int       { return r.WeeklyHolidayCapHours * labor.MinutesPerHour }

// ProbationFloorRatio is ProbationFloorPercent as a fraction (0.90).
func (r Rates) ProbationFloorRatio() decimal.Decimal { return labor.Percent(r.ProbationFloorPercent) }

// =============================================================================
// JSON FORM
// =============================================================================

// RatesJSON is the wire and storage representation of Rates.
type RatesJSON struct {
	Version                     string           `json:"version"`
	EffectiveFrom               string           `json:"effective_from"`
	MinimumHourlyWage           decimal.Decimal  `json:"minimum_hourly_wage"`
	WeeksPerMonth               *decimal.Decimal `json:"weeks_per_month,omitempty"`
	DailyRegularHours           int              `json:"daily_regular_hours,omitempty"`
	WeeklyRegularHours          int              `json:"weekly_regular_hours,omitempty"`
	WeeklyHolidayThresholdHours int              `json:"weekly_holiday_threshold_hours,omitempty"`
	WeeklyHolidayCapHours       int              `json:"weekly_holiday_cap_hours,omitempty"`
	NightStart                  *labor.ClockTime `json:"night_start,omitempty"`
	NightEnd                    *labor.ClockTime `json:"night_end,omitempty"`
	OvertimeMultiplier          *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	NightMultiplier             *decimal.Decimal `json:"night_multiplier,omitempty"`
	ProbationFloorPercent       int              `json:"probation_floor_percent,omitempty"`
	ProbationMinContractDays    int              `json:"probation_min_contract_days,omitempty"`
	MaxWeeklyTotalHours         int              `json:"max_weekly_total_hours,omitempty"`
	MaxWeeklyOvertimeHours      int              `json:"max_weekly_overtime_hours,omitempty"`
	InsuranceWeeklyHours        int              `json:"insurance_weekly_hours,omitempty"`
	InsuranceMonthlyHours       int              `json:"insurance_monthly_hours,omitempty"`
}

// Parse decodes and validates a single rates document.
func Parse(data []byte) (Rates, error) {
	var rj RatesJSON
	if err := json.Unmarshal(data, &rj); err != nil {
		return Rates{}, fmt.Errorf("%w: %v", labor.ErrInvalidRates, err)
	}
	return FromJSON(rj)
}

// FromJSON fills defaults and validates.
func FromJSON(rj RatesJSON) (Rates, error) {
	effective, err := time.Parse(dateLayout, rj.EffectiveFrom)
	if err != nil {
		return Rates{}, fmt.Errorf("%w: effective_from %q is not YYYY-MM-DD", labor.ErrInvalidRates, rj.EffectiveFrom)
	}

	r := baseline()
	r.Version = rj.Version
	r.EffectiveFrom = effective
	r.MinimumHourlyWage = rj.MinimumHourlyWage

	if rj.WeeksPerMonth != nil {
		r.WeeksPerMonth = *rj.WeeksPerMonth
	}
	setInt(&r.DailyRegularHours, rj.DailyRegularHours)
	setInt(&r.WeeklyRegularHours, rj.WeeklyRegularHours)
	setInt(&r.WeeklyHolidayThresholdHours, rj.WeeklyHolidayThresholdHours)
	setInt(&r.WeeklyHolidayCapHours, rj.WeeklyHolidayCapHours)
	if rj.NightStart != nil {
		r.NightStart = *rj.NightStart
	}
	if rj.NightEnd != nil {
		r.NightEnd = *rj.NightEnd
	}
	if rj.OvertimeMultiplier != nil {
		r.OvertimeMultiplier = *rj.OvertimeMultiplier
	}
	if rj.NightMultiplier != nil {
		r.NightMultiplier = *rj.NightMultiplier
	}
	setInt(&r.ProbationFloorPercent, rj.ProbationFloorPercent)
	setInt(&r.ProbationMinContractDays, rj.ProbationMinContractDays)
	setInt(&r.MaxWeeklyTotalHours, rj.MaxWeeklyTotalHours)
	setInt(&r.MaxWeeklyOvertimeHours, rj.MaxWeeklyOvertimeHours)
	setInt(&r.InsuranceWeeklyHours, rj.InsuranceWeeklyHours)
	setInt(&r.InsuranceMonthlyHours, rj.InsuranceMonthlyHours)

	if err := r.Validate(); err != nil {
		return Rates{}, err
	}
	return r, nil
}

// ToJSON is the inverse of FromJSON with every field spelled out.
func (r Rates) ToJSON() RatesJSON {
	weeks, overtime, night := r.WeeksPerMonth, r.OvertimeMultiplier, r.NightMultiplier
	nightStart, nightEnd := r.NightStart, r.NightEnd
	return RatesJSON{
		Version:                     r.Version,
		EffectiveFrom:               r.EffectiveFrom.Format(dateLayout),
		MinimumHourlyWage:           r.MinimumHourlyWage,
		WeeksPerMonth:               &weeks,
		DailyRegularHours:           r.DailyRegularHours,
		WeeklyRegularHours:          r.WeeklyRegularHours,
		WeeklyHolidayThresholdHours: r.WeeklyHolidayThresholdHours,
		WeeklyHolidayCapHours:       r.WeeklyHolidayCapHours,
		NightStart:                  &nightStart,
		NightEnd:                    &nightEnd,
		OvertimeMultiplier:          &overtime,
		NightMultiplier:             &night,
		ProbationFloorPercent:       r.ProbationFloorPercent,
		ProbationMinContractDays:    r.ProbationMinContractDays,
		MaxWeeklyTotalHours:         r.MaxWeeklyTotalHours,
		MaxWeeklyOvertimeHours:      r.MaxWeeklyOvertimeHours,
		InsuranceWeeklyHours:        r.InsuranceWeeklyHours,
		InsuranceMonthlyHours:       r.InsuranceMonthlyHours,
	}
}

// Validate checks the invariants the calculators rely on.
func (r Rates) Validate() error {
	switch {
	case r.Version == "":
		return fmt.Errorf("%w: version is required", labor.ErrInvalidRates)
	case !r.MinimumHourlyWage.IsPositive():
		return fmt.Errorf("%w: minimum_hourly_wage must be positive", labor.ErrInvalidRates)
	case !r.WeeksPerMonth.IsPositive():
		return fmt.Errorf("%w: weeks_per_month must be positive", labor.ErrInvalidRates)
	case r.DailyRegularHours <= 0 || r.DailyRegularHours > 24:
		return fmt.Errorf("%w: daily_regular_hours out of range", labor.ErrInvalidRates)
	case r.WeeklyRegularHours <= 0 || r.WeeklyRegularHours > 168:
		return fmt.Errorf("%w: weekly_regular_hours out of range", labor.ErrInvalidRates)
	case r.NightStart > labor.MinutesPerDay || r.NightEnd > labor.MinutesPerDay:
		return fmt.Errorf("%w: night window out of range", labor.ErrInvalidRates)
	case r.ProbationFloorPercent <= 0 || r.ProbationFloorPercent > 100:
		return fmt.Errorf("%w: probation_floor_percent out of range", labor.ErrInvalidRates)
	}
	return nil
}

// =============================================================================
// DEFAULTS
// =============================================================================

// baseline is the Labor Standards Act parameter set without a wage or date.
func baseline() Rates {
	return Rates{
		WeeksPerMonth:               decimal.RequireFromString("4.346"),
		DailyRegularHours:           8,
		WeeklyRegularHours:          40,
		WeeklyHolidayThresholdHours: 15,
		WeeklyHolidayCapHours:       8,
		NightStart:                  labor.Clock(22, 0),
		NightEnd:                    labor.Clock(6, 0),
		OvertimeMultiplier:          decimal.RequireFromString("1.5"),
		NightMultiplier:             decimal.RequireFromString("0.5"),
		ProbationFloorPercent:       90,
		ProbationMinContractDays:    365,
		MaxWeeklyTotalHours:         52,
		MaxWeeklyOvertimeHours:      12,
		InsuranceWeeklyHours:        15,
		InsuranceMonthlyHours:       60,
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
