// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pos

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DiscountPolicy folds a discount into a line between the gross amount and the
// tax computation. It may set DiscountPercent, DiscountAmount and lower
// TotalExclTax; tax and the inclusive total are always derived afterwards.
type DiscountPolicy interface {
	Apply(line *Line)
}

// NoDiscount leaves every line at its gross amount.
type NoDiscount struct{}

// Apply implements [DiscountPolicy].
func (NoDiscount) Apply(*Line) {}

// price recomputes the amounts of line from its unit price, quantity and rate.
func price(line *Line, policy DiscountPolicy) {
	line.DiscountPercent = decimal.Zero
	line.DiscountAmount = decimal.Zero
	line.TotalExclTax = line.UnitPriceExclTax.Mul(decimal.NewFromInt(int64(line.Quantity)))

	policy.Apply(line)

	line.TaxAmount = line.TotalExclTax.Mul(line.TaxRatePercent).Div(hundred)
	line.TotalInclTax = line.TotalExclTax.Add(line.TaxAmount)
}
