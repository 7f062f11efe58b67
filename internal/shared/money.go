package shared

import "math"

// Monetary values are stored as integer cents everywhere; floating point
// only appears at the API boundary when parsing client-supplied decimals.

// ToCents converts a decimal amount to integer cents.
func ToCents(amount float64) int64 {
	if amount == 0 {
		return 0
	}
	return int64(math.Round(amount * 100))
}

// FromCents converts integer cents back to a decimal amount.
func FromCents(cents int64) float64 {
	if cents == 0 {
		return 0
	}
	return float64(cents) / 100
}
