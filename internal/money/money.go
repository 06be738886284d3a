// Package money implements exact decimal arithmetic helpers for
// monetary amounts.
package money

import "github.com/shopspring/decimal"

// Sum returns the exact sum of all amounts. An empty input sums to zero.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, amount := range amounts {
		sum = sum.Add(amount)
	}

	return sum
}

// Percentage returns part as a percentage of whole, rounded half up to
// scale decimal places.
//
// A whole of zero is a defined "no percentage" case and returns zero
// for every part, it is not an error.
func Percentage(part, whole decimal.Decimal, scale int32) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}

	return part.Mul(decimal.NewFromInt(100)).DivRound(whole, scale)
}
