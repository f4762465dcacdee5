// Package pricing holds the money masking and contract value computations
// used by the contract form. Everything here is pure.
package pricing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/dustin/go-humanize"
)

const zeroBRL = "R$ 0,00"

// MaxCurrencyDigits limits how many digits a masked amount keeps. Extra
// digits typed after the limit are ignored, so every amount stays below
// MaxCents and formats exactly.
const MaxCurrencyDigits = 15

// MaxCents is the largest amount, in cents, formatted and persisted as is
// (2^53, the exact float64 integer range go-humanize works in).
const MaxCents = 1 << 53

var nonDigits = regexp.MustCompile(`\D`)

// Digits strips everything that is not 0-9.
func Digits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// ParseCents reads the digits of a masked value as an integer amount of cents.
// Only the first MaxCurrencyDigits digits count; empty input gives 0.
func ParseCents(masked string) int64 {
	digits := Digits(masked)
	if digits == "" {
		return 0
	}
	if len(digits) > MaxCurrencyDigits {
		digits = digits[:MaxCurrencyDigits]
	}
	c, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return c
}

// MaskCurrency re-derives the "R$ 1.234,56" mask from whatever the user typed.
func MaskCurrency(raw string) string {
	if Digits(raw) == "" {
		return ""
	}
	return FormatCents(ParseCents(raw))
}

// ParseCurrencyToNumber is the inverse of MaskCurrency.
func ParseCurrencyToNumber(masked string) float64 {
	return Safe(float64(ParseCents(masked)) / 100)
}

// FormatCents formats an exact amount of cents as Brazilian Real. Digits are
// exact up to MaxCents.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	reais := humanize.FormatInteger("#.###,", int(cents/100))
	return fmt.Sprintf("%sR$ %s,%02d", sign, reais, cents%100)
}

// FormatNumberAsCurrency never returns "R$ NaN": non finite input and
// amounts outside ±MaxCents are R$ 0,00.
func FormatNumberAsCurrency(v float64) string {
	if !AmountInRange(v) {
		return zeroBRL
	}
	return FormatCents(int64(math.Round(v * 100)))
}

// AmountInRange reports whether v is finite and within ±MaxCents.
func AmountInRange(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return math.Abs(math.Round(v*100)) <= MaxCents
}

// FormatNullableCurrency treats a missing value like the backend's NULL columns.
func FormatNullableCurrency(v *float64) string {
	if v == nil {
		return zeroBRL
	}
	return FormatNumberAsCurrency(*v)
}

// Safe collapses NaN and ±Inf to 0.
func Safe(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
