/*
Package labor provides the value types shared by the wage engine.

PURPOSE:
  Every calculator in this module (worktime, wage, eligibility, contract) speaks
  in the same small vocabulary: weekdays, clock times, minutes, hours and won.
  This package owns that vocabulary so the calculators stay free of parsing and
  formatting concerns.

KEY CONCEPTS IN THIS FILE (types.go):
  - Weekday:   Mon..Sun, ordered Monday-first as on a Korean employment contract
  - ClockTime: minutes since midnight, 00:00..24:00
  - PayType:   hourly / weekly / monthly wage quotation
  - Money and hour helpers over decimal.Decimal

DESIGN PRINCIPLES:
  1. Immutability: every type is a plain value, recomputed on each call
  2. Precision: money and hours use decimal.Decimal, never float64
  3. Leniency: malformed input coerces to zero (see parse.go), it never fails

SEE ALSO:
  - parse.go:  lenient numeric / clock parsing for half-typed form input
  - format.go: display helpers
  - errors.go: sentinel errors used by the boundary layers
*/
package labor

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WEEKDAY
// =============================================================================

// Weekday is a day of the working week, Monday first.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllWeekdays lists the week in contract order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = [...]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// Korean single-character names as they appear on contract forms.
var weekdayKorean = map[string]Weekday{
	"월": Monday, "화": Tuesday, "수": Wednesday, "목": Thursday,
	"금": Friday, "토": Saturday, "일": Sunday,
}

func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// ParseWeekday accepts "mon", "Monday", "월" and friends.
func ParseWeekday(s string) (Weekday, bool) {
	s = strings.TrimSpace(s)
	if d, ok := weekdayKorean[strings.TrimSuffix(s, "요일")]; ok {
		return d, true
	}
	s = strings.ToLower(s)
	if len(s) >= 3 {
		for i, name := range weekdayNames {
			if s[:3] == name {
				return Weekday(i), true
			}
		}
	}
	return 0, false
}

func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Weekday) UnmarshalText(b []byte) error {
	parsed, ok := ParseWeekday(string(b))
	if !ok {
		return fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, string(b))
	}
	*d = parsed
	return nil
}

// =============================================================================
// CLOCK TIME - minutes since midnight
// =============================================================================

// ClockTime is a time of day in minutes since midnight. 24:00 (1440) is allowed
// so a shift can end exactly at midnight.
type ClockTime int

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
)

// Clock builds a ClockTime from hours and minutes.
func Clock(hour, minute int) ClockTime { return ClockTime(hour*MinutesPerHour + minute) }

func (c ClockTime) Hour() int    { return int(c) / MinutesPerHour }
func (c ClockTime) Minute() int  { return int(c) % MinutesPerHour }
func (c ClockTime) Minutes() int { return int(c) }

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute()) }

func (c ClockTime) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText never fails: malformed input decodes to 00:00 (see ParseClock).
func (c *ClockTime) UnmarshalText(b []byte) error {
	*c = ParseClock(string(b))
	return nil
}

// =============================================================================
// PAY TYPE
// =============================================================================

// PayType is how the employer quotes the wage.
type PayType string

const (
	PayHourly  PayType = "hourly"
	PayWeekly  PayType = "weekly"
	PayMonthly PayType = "monthly"
)

func (p PayType) Valid() bool {
	switch p {
	case PayHourly, PayWeekly, PayMonthly:
		return true
	}
	return false
}

// =============================================================================
// MONEY AND HOURS
// =============================================================================

var (
	sixty   = decimal.NewFromInt(MinutesPerHour)
	hundred = decimal.NewFromInt(100)
)

// Won rounds an amount to the smallest currency unit (1 won), half away from zero.
func Won(d decimal.Decimal) decimal.Decimal { return d.Round(0) }

// CeilWon rounds up to the next won. Used for legal floors so a floor is never
// under-reported.
func CeilWon(d decimal.Decimal) decimal.Decimal { return d.Ceil() }

// Hours converts minutes to hours.
func Hours(minutes decimal.Decimal) decimal.Decimal { return minutes.Div(sixty) }

// HoursFromMinutes converts whole minutes to hours.
func HoursFromMinutes(minutes int) decimal.Decimal { return Hours(decimal.NewFromInt(int64(minutes))) }

// MinutesFromHours converts hours to minutes.
func MinutesFromHours(hours decimal.Decimal) decimal.Decimal { return hours.Mul(sixty) }

// Percent returns p/100.
func Percent(p int) decimal.Decimal { return decimal.NewFromInt(int64(p)).Div(hundred) }

// SafeDiv divides a by b and yields zero when b is zero. Calculators use it wherever
// a zero denominator is reachable from user input (no workdays, no hours).
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}
