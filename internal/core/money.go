package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered decimal string to Money with half-up
// rounding on the third decimal place. Both dot (12.34) and comma (12,34)
// separators are accepted. Zero, negative, and malformed amounts are
// rejected with ErrInvalidAmount; explicit signs are not allowed.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Round(2).Shift(2).IntPart()
	if cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// String formats the amount with exactly two fractional digits, e.g. "12.34".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Decimal returns the amount in major units as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float64 returns the amount in major units for chart values and JSON
// payloads. Cents carry at most two fractional digits, so the shortest
// round-trip rendering matches the 2-decimal display rounding.
func (m Money) Float64() float64 {
	return float64(m.Cents) / 100.0
}
