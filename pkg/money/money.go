// Package money formats billing amounts as Colombian pesos, the display
// convention used across the dashboard ("$1,234", no decimal places).
package money

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var pesoFormatter = money.NewFormatter(0, ".", ",", "$", "$1")

// FormatPesos renders an amount rounded to whole pesos with thousand
// separators, e.g. 1234567.8 -> "$1,234,568".
func FormatPesos(amount float64) string {
	units := decimal.NewFromFloat(amount).Round(0).IntPart()
	return pesoFormatter.Format(units)
}

// ParseAmount parses a raw cell into an amount, tolerating currency
// symbols, spaces and thousand separators. Both "1,234.56" and the
// separator-free "1234,56" form are accepted.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		// "1,234.56" - comma is the thousand separator
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1 && !strings.Contains(s, "."):
		// "1234,56" - comma used as the decimal mark
		s = strings.ReplaceAll(s, ",", ".")
	default:
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}
