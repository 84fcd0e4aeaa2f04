// Package pricing computes order line costs and order totals.
//
// Both values are rounded half-to-even at two decimal places. The total is
// the rounded sum of already rounded line costs, so rounding is applied
// twice; historical totals depend on this and it must not be collapsed into
// a single rounding of the raw sum.
package pricing

import "github.com/shopspring/decimal"

// Places is the number of decimal places prices are rounded to.
const Places = 2

// ItemCost returns unit price times quantity.
func ItemCost(price decimal.Decimal, quantity uint) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).RoundBank(Places)
}

// OrderTotal sums line costs and rounds the sum.
func OrderTotal(costs ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, costs...).RoundBank(Places)
}
