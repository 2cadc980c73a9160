// Package money provides the fixed-precision rounding, lenient parsing, and
// currency formatting helpers used by every bill computation.
//
// Amounts are carried as float64 between layers; every user-visible figure
// goes through Round2 so cent-level behavior is an explicit policy rather
// than incidental floating point.
package money

import (
	"math"
	"strconv"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Round2 rounds v to two decimal places, half away from zero.
//
// Rounding is done on the exact decimal representation, so values like 2.675
// round up to 2.68 instead of falling victim to their binary approximation.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// ParseAmount converts free-form user input to a float64 amount.
//
// Malformed input coerces to 0 rather than failing; this leniency matches
// the form fields that feed it and is relied on by callers. Both dot and
// comma decimal separators are accepted.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParsePercent converts free-form percentage input ("8", "8.5", "15%") to a
// non-negative float64. Malformed or negative input coerces to 0.
func ParsePercent(s string) float64 {
	p := ParseAmount(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if p < 0 {
		return 0
	}
	return p
}

// Format renders v as a localized currency string for the given ISO 4217
// code, e.g. Format(12.4, "USD") == "$12.40". An empty or unknown code falls
// back to USD.
func Format(v float64, code string) string {
	if code == "" || gomoney.GetCurrency(code) == nil {
		code = "USD"
	}
	cents := decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
	return gomoney.New(cents, code).Display()
}
