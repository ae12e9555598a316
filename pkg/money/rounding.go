package money

import "github.com/shopspring/decimal"

// Epsilon is the tolerance under which a residual amount is treated as zero.
var Epsilon = decimal.New(1, -2)

// Cents is the number of decimal places every stored amount carries.
const Cents = 2

// Round2 rounds d to cents, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Cents)
}

// IsNegligible reports whether d is at or below Epsilon.
func IsNegligible(d decimal.Decimal) bool {
	return d.LessThanOrEqual(Epsilon)
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Sum adds the given amounts and rounds the result to cents.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return Round2(total)
}
