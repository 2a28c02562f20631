// Package utils provides common utility functions for quantcore.
package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Round rounds v to the given number of decimal places, half away from zero,
// on the shortest decimal representation of v. Round(1.005, 2) is 1.01.
// Non-finite values are returned unchanged.
func Round(v float64, places int32) float64 {
	if !isFinite(v) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// FormatMoney formats an amount with thousands separators and two decimals.
// e.g., 1234567.891 → "1,234,567.89", -948.4578 → "-948.46"
func FormatMoney(amount float64) string {
	return FormatDecimal(amount, 2)
}

// FormatDecimal formats v with thousands separators and the given number of
// decimal places.
func FormatDecimal(v float64, places int32) string {
	if !isFinite(v) {
		return fmt.Sprint(v)
	}
	d := decimal.NewFromFloat(v).Round(places)

	s := d.Abs().StringFixed(places)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	out := groupThousands(intPart)
	if hasFrac {
		out += "." + frac
	}
	if d.IsNegative() {
		return "-" + out
	}
	return out
}

// FormatPercent formats a percentage value with sign and suffix.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatPercent(pct float64) string {
	if !isFinite(pct) {
		return fmt.Sprintf("%v%%", pct)
	}
	d := decimal.NewFromFloat(pct).Round(2)
	if d.IsNegative() {
		return d.StringFixed(2) + "%"
	}
	return "+" + d.StringFixed(2) + "%"
}

// FormatCompact formats an amount in short scale notation.
// e.g., 1500 → "1.5K", 2500000 → "2.5M", 1e9 → "1B"
func FormatCompact(amount float64) string {
	if !isFinite(amount) {
		return fmt.Sprint(amount)
	}
	prefix := ""
	if amount < 0 {
		prefix = "-"
		amount = math.Abs(amount)
	}

	switch {
	case amount >= 1e12:
		return prefix + trimmed(amount/1e12) + "T"
	case amount >= 1e9:
		return prefix + trimmed(amount/1e9) + "B"
	case amount >= 1e6:
		return prefix + trimmed(amount/1e6) + "M"
	case amount >= 1e3:
		return prefix + trimmed(amount/1e3) + "K"
	default:
		return prefix + decimal.NewFromFloat(amount).StringFixed(2)
	}
}

// trimmed formats n with up to 2 decimal places, removing trailing zeros.
func trimmed(n float64) string {
	return decimal.NewFromFloat(n).Round(2).String()
}

// groupThousands inserts a comma every three digits from the right.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
