/*
Package worktime normalizes a weekly work schedule into minute-granular totals.

PURPOSE:
  A contract states working days and, per day or for all days, a start time, an
  end time and a break. Everything downstream - wage split, minimum wage,
  insurance and weekly-holiday eligibility, the 52-hour check - needs the same
  handful of numbers derived from that schedule. Normalize computes them once.

KEY CONCEPTS:
  Schedule: selected weekdays + one common shift or a per-day shift map
  DayShift: start / end / break; end < start means the shift crosses midnight
  Stats:    weekly regular, overtime, night and weekly-holiday minutes, monthly minutes

OVERTIME:
  Daily overtime is the excess over 8h per day. Those minutes are removed from the
  week before testing the 40h weekly cap, so a minute is never counted twice:

    Mon-Fri 10h/day: daily overtime 5 x 2h = 10h, remaining 40h, weekly excess 0
    Mon-Sat  8h/day: daily overtime 0, weekly 48h, weekly excess 8h

NIGHT WORK:
  Minutes inside [22:00, 06:00). A shift crossing midnight is laid out on a
  two-day line so both its evening and early-morning segments are counted. The
  break is assumed to sit in the middle of the shift and its night minutes are
  not counted as night work.

SEE ALSO:
  - statute/rates.go: thresholds and the night window
  - wage/minimum.go: consumes Stats
*/
package worktime

import (
	"sort"

	"github.com/warp/wage-engine/labor"
)

// DayShift is one day's working hours.
type DayShift struct {
	Start        labor.ClockTime `json:"start"`
	End          labor.ClockTime `json:"end"`
	BreakMinutes int             `json:"break_minutes"`
}

// RawMinutes is the span from start to end, wrapping past midnight when end is
// earlier than start.
func (s DayShift) RawMinutes() int {
	start, end := s.Start.Minutes(), s.End.Minutes()
	if end >= start {
		return end - start
	}
	return end + labor.MinutesPerDay - start
}

// BreakWithinShift is the break clamped to [0, RawMinutes].
func (s DayShift) BreakWithinShift() int {
	raw := s.RawMinutes()
	switch {
	case s.BreakMinutes <= 0:
		return 0
	case s.BreakMinutes > raw:
		return raw
	}
	return s.BreakMinutes
}

// NetMinutes is working time after the break, never negative.
func (s DayShift) NetMinutes() int {
	return s.RawMinutes() - s.BreakWithinShift()
}

// Schedule is a weekly schedule. When both Common and PerDay are set, a PerDay
// entry wins for its day. A selected day with neither works zero minutes.
type Schedule struct {
	Days   []labor.Weekday            `json:"days"`
	Common *DayShift                  `json:"common,omitempty"`
	PerDay map[labor.Weekday]DayShift `json:"per_day,omitempty"`
}

// CommonSchedule applies one shift to every listed day.
func CommonSchedule(shift DayShift, days ...labor.Weekday) Schedule {
	return Schedule{Days: days, Common: &shift}
}

// WorkDays returns the valid selected days, deduplicated, Monday first.
func (s Schedule) WorkDays() []labor.Weekday {
	seen := make(map[labor.Weekday]bool, len(s.Days))
	days := make([]labor.Weekday, 0, len(s.Days))
	for _, d := range s.Days {
		if d.Valid() && !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// Shift resolves the shift worked on day.
func (s Schedule) Shift(day labor.Weekday) DayShift {
	if shift, ok := s.PerDay[day]; ok {
		return shift
	}
	if s.Common != nil {
		return *s.Common
	}
	return DayShift{}
}
