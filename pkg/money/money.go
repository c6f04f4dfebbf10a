// Package money does the arithmetic on rupiah amounts through
// shopspring/decimal so that repeated balance adjustments cannot
// accumulate binary floating point drift.
package money

import "github.com/shopspring/decimal"

// Signed returns +amount for income and -amount for expense postings.
func Signed(income bool, amount float64) float64 {
	d := decimal.NewFromFloat(amount)
	if !income {
		d = d.Neg()
	}
	f, _ := d.Float64()
	return f
}

// Add returns a+b computed exactly.
func Add(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Float64()
	return f
}

// Sub returns a-b computed exactly.
func Sub(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Float64()
	return f
}

// Sum totals a list of amounts exactly.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	f, _ := total.Float64()
	return f
}
