package worktime

import (
	"github.com/shopspring/decimal"
	"github.com/warp/wage-engine/labor"
	"github.com/warp/wage-engine/statute"
)

// =============================================================================
// STATS
// =============================================================================

// DayStats is the breakdown for one worked day.
type DayStats struct {
	Day             labor.Weekday `json:"day"`
	Shift           DayShift      `json:"shift"`
	RawMinutes      int           `json:"raw_minutes"`
	BreakMinutes    int           `json:"break_minutes"`
	NetMinutes      int           `json:"net_minutes"`
	OvertimeMinutes int           `json:"overtime_minutes"` // daily-cap excess only
	NightMinutes    int           `json:"night_minutes"`
}

// Stats are the normalized weekly totals of a Schedule.
//
// WeeklyMinutes holds regular (non-overtime) minutes only; the week's total
// working time is WeeklyMinutes + WeeklyOvertimeMinutes.
type Stats struct {
	WorkDays              int             `json:"work_days"`
	WeeklyMinutes         int             `json:"weekly_minutes"`
	WeeklyOvertimeMinutes int             `json:"weekly_overtime_minutes"`
	WeeklyNightMinutes    int             `json:"weekly_night_minutes"`
	WeeklyHolidayMinutes  decimal.Decimal `json:"weekly_holiday_minutes"`
	MonthlyMinutes        decimal.Decimal `json:"monthly_minutes"`
	Days                  []DayStats      `json:"days,omitempty"`
}

func (s Stats) WeeklyTotalMinutes() int { return s.WeeklyMinutes + s.WeeklyOvertimeMinutes }

func (s Stats) WeeklyHours() decimal.Decimal        { return labor.HoursFromMinutes(s.WeeklyMinutes) }
func (s Stats) WeeklyOvertimeHours() decimal.Decimal { return labor.HoursFromMinutes(s.WeeklyOvertimeMinutes) }
func (s Stats) WeeklyNightHours() decimal.Decimal    { return labor.HoursFromMinutes(s.WeeklyNightMinutes) }
func (s Stats) WeeklyTotalHours() decimal.Decimal    { return labor.HoursFromMinutes(s.WeeklyTotalMinutes()) }
func (s Stats) WeeklyHolidayHours() decimal.Decimal  { return labor.Hours(s.WeeklyHolidayMinutes) }
func (s Stats) MonthlyHours() decimal.Decimal        { return labor.Hours(s.MonthlyMinutes) }

// =============================================================================
// NORMALIZE
// =============================================================================

// Normalize computes Stats for a schedule under the given statutory rates.
// A schedule without valid days yields zero Stats.
func Normalize(schedule Schedule, rates statute.Rates) Stats {
	days := schedule.WorkDays()
	if len(days) == 0 {
		return zeroStats()
	}

	dailyCap := rates.DailyRegularMinutes()
	stats := Stats{WorkDays: len(days), Days: make([]DayStats, 0, len(days))}

	var netSum, dailyOvertimeSum int
	for _, day := range days {
		shift := schedule.Shift(day)
		ds := DayStats{
			Day:          day,
			Shift:        shift,
			RawMinutes:   shift.RawMinutes(),
			BreakMinutes: shift.BreakWithinShift(),
			NetMinutes:   shift.NetMinutes(),
			NightMinutes: nightMinutes(shift, rates),
		}
		if ds.NetMinutes > dailyCap {
			ds.OvertimeMinutes = ds.NetMinutes - dailyCap
		}
		netSum += ds.NetMinutes
		dailyOvertimeSum += ds.OvertimeMinutes
		stats.WeeklyNightMinutes += ds.NightMinutes
		stats.Days = append(stats.Days, ds)
	}

	weeklyExcess := netSum - dailyOvertimeSum - rates.WeeklyRegularMinutes()
	if weeklyExcess < 0 {
		weeklyExcess = 0
	}
	stats.WeeklyOvertimeMinutes = dailyOvertimeSum + weeklyExcess
	stats.WeeklyMinutes = netSum - stats.WeeklyOvertimeMinutes

	stats.WeeklyHolidayMinutes = weeklyHolidayMinutes(stats.WeeklyMinutes, len(days), rates)
	stats.MonthlyMinutes = decimal.NewFromInt(int64(stats.WeeklyMinutes)).
		Add(stats.WeeklyHolidayMinutes).
		Mul(rates.WeeksPerMonth)
	return stats
}

func zeroStats() Stats {
	return Stats{WeeklyHolidayMinutes: decimal.Zero, MonthlyMinutes: decimal.Zero}
}

// weeklyHolidayMinutes is the paid rest day owed for the week: the average
// working day, capped, and only once the week reaches the threshold.
func weeklyHolidayMinutes(weeklyMinutes, workDays int, rates statute.Rates) decimal.Decimal {
	if workDays == 0 || weeklyMinutes < rates.WeeklyHolidayThresholdMinutes() {
		return decimal.Zero
	}
	average := decimal.NewFromInt(int64(weeklyMinutes)).Div(decimal.NewFromInt(int64(workDays)))
	return decimal.Min(average, decimal.NewFromInt(int64(rates.WeeklyHolidayCapMinutes())))
}

// =============================================================================
// NIGHT WINDOW
// =============================================================================

// nightMinutes counts the shift's minutes inside the night window, less the
// break's. Minutes are laid out on a line starting at the previous day's
// midnight so overnight shifts need no special casing.
func nightMinutes(shift DayShift, rates statute.Rates) int {
	raw := shift.RawMinutes()
	if raw == 0 {
		return 0
	}
	start := shift.Start.Minutes()
	end := start + raw

	brk := shift.BreakWithinShift()
	breakStart := start + (raw-brk)/2
	breakEnd := breakStart + brk

	night := windowOverlap(start, end, rates) - windowOverlap(breakStart, breakEnd, rates)
	if night < 0 {
		return 0
	}
	return night
}

// windowOverlap sums the overlap of [from, to) with every occurrence of the
// night window that can touch a span of at most 24h starting within a day.
func windowOverlap(from, to int, rates statute.Rates) int {
	ns := rates.NightStart.Minutes()
	length := (rates.NightEnd.Minutes() - ns + labor.MinutesPerDay) % labor.MinutesPerDay
	if length == 0 || from >= to {
		return 0
	}

	total := 0
	for k := -1; k <= 2; k++ {
		ws := ns + k*labor.MinutesPerDay
		total += overlap(from, to, ws, ws+length)
	}
	return total
}

func overlap(aStart, aEnd, bStart, bEnd int) int {
	lo, hi := max(aStart, bStart), min(aEnd, bEnd)
	if hi <= lo {
		return 0
	}
	return hi - lo
}
