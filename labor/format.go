package labor

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Display helpers. The engine does not localize; these only group digits the way
// a Korean contract prints them.

var printer = message.NewPrinter(language.Korean)

// FormatWon renders an amount rounded to the won with digit grouping: "2,096,270".
func FormatWon(d decimal.Decimal) string {
	return printer.Sprintf("%d", Won(d).IntPart())
}

// FormatHours renders hours with at most one decimal place: "208.6", "40".
func FormatHours(h decimal.Decimal) string {
	return h.Round(1).String()
}
