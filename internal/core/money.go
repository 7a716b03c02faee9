// Package core holds the shared data contract for revenue entries.
//
// Amounts are always integer minor units (cents). Nothing in this package
// or its consumers accumulates money through floating point, so totals are
// exact sums of the stored values regardless of magnitude.
package core

import "strconv"

// MarshalJSON encodes Money as a bare integer count of cents.
func (m Money) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, m.Cents, 10), nil
}

// UnmarshalJSON decodes a bare integer; fractional values are rejected so a
// payload like 75.50 cannot silently lose precision.
func (m *Money) UnmarshalJSON(data []byte) error {
	cents, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return ErrInvalidAmount
	}
	m.Cents = cents
	return nil
}

// Euros returns the display-unit value. For formatting only; calculations
// always stay on Cents.
func (m Money) Euros() float64 {
	return float64(m.Cents) / 100.0
}
