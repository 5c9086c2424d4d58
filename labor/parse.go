package labor

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LENIENT PARSING
// =============================================================================
// Form fields are recomputed on every keystroke, so a half-typed value must still
// produce a number. The rule is the same everywhere:
//   1. strip thousands separators, whitespace, the won sign and the 원 suffix
//   2. parse what is left
//   3. anything unparseable (or negative) becomes zero

var moneyReplacer = strings.NewReplacer(",", "", " ", "", "\t", "", "_", "", "₩", "", "원", "")

// ParseMoney parses a wage figure such as "2,096,270", "₩10,030" or "9860원".
func ParseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(moneyReplacer.Replace(strings.TrimSpace(s)))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseInt parses a whole number with the same rule as ParseMoney, truncating
// any fractional part.
func ParseInt(s string) int {
	return int(ParseMoney(s).IntPart())
}

// ParseClock parses "HH:MM" (seconds, if present, are ignored). Hours run 0..24
// and 24 is only valid as 24:00. Malformed input yields 00:00.
func ParseClock(s string) ClockTime {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0
	}
	return Clock(h, m)
}
