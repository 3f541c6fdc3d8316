// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pos

import (
	"github.com/shopspring/decimal"

	"github.com/taibuivan/quinca/pkg/slice"
)

// Cart holds the ordered lines of one sale in progress.
type Cart struct {
	lines      []*Line
	customerID string
	notes      string
	policy     DiscountPolicy
}

// CartOption configures a [Cart].
type CartOption func(*Cart)

// WithDiscountPolicy replaces the default [NoDiscount] policy.
func WithDiscountPolicy(policy DiscountPolicy) CartOption {
	return func(cart *Cart) {
		if policy != nil {
			cart.policy = policy
		}
	}
}

// NewCart returns an empty cart.
func NewCart(options ...CartOption) *Cart {
	cart := &Cart{policy: NoDiscount{}}
	for _, option := range options {
		option(cart)
	}
	return cart
}

// # Mutations

/*
AddItem puts item in the cart. An item already in the cart is incremented
instead, silently capped at its stock snapshot.

Parameters:
  - item: CatalogItem

Returns:
  - error: ErrOutOfStock when the item has no stock
*/
func (cart *Cart) AddItem(item CatalogItem) error {
	if line := cart.find(item.ID); line != nil {
		cart.step(line, +1)
		return nil
	}

	if item.AvailableStock < 1 {
		return ErrOutOfStock
	}

	line := &Line{
		ItemID:           item.ID,
		Item:             item,
		Quantity:         1,
		UnitPriceExclTax: item.UnitPriceExclTax,
		TaxRatePercent:   item.TaxRatePercent,
		AvailableStock:   item.AvailableStock,
	}
	price(line, cart.policy)
	cart.lines = append(cart.lines, line)
	return nil
}

// Increment adds one unit to the line of itemID unless it already sits at
// its stock snapshot.
func (cart *Cart) Increment(itemID string) error {
	line := cart.find(itemID)
	if line == nil {
		return ErrLineNotFound
	}
	cart.step(line, +1)
	return nil
}

// Decrement removes one unit from the line of itemID unless it already sits
// at one. Use [Cart.Remove] to drop the line.
func (cart *Cart) Decrement(itemID string) error {
	line := cart.find(itemID)
	if line == nil {
		return ErrLineNotFound
	}
	cart.step(line, -1)
	return nil
}

// Remove deletes the line of itemID whatever its quantity.
func (cart *Cart) Remove(itemID string) error {
	for index, line := range cart.lines {
		if line.ItemID == itemID {
			cart.lines = append(cart.lines[:index], cart.lines[index+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// SetCustomer attaches an optional customer reference. An empty id detaches it.
func (cart *Cart) SetCustomer(customerID string) {
	cart.customerID = customerID
}

// SetNotes replaces the free-text notes of the sale.
func (cart *Cart) SetNotes(notes string) {
	cart.notes = notes
}

// Clear drops every line, the customer and the notes.
func (cart *Cart) Clear() {
	cart.lines = nil
	cart.customerID = ""
	cart.notes = ""
}

// # Reads

// Lines returns a copy of the lines in insertion order.
func (cart *Cart) Lines() []Line {
	return slice.Map(cart.lines, func(line *Line) Line { return *line })
}

// Len returns the number of lines.
func (cart *Cart) Len() int {
	return len(cart.lines)
}

// IsEmpty reports whether the cart has no lines.
func (cart *Cart) IsEmpty() bool {
	return len(cart.lines) == 0
}

// CustomerID returns the attached customer reference, if any.
func (cart *Cart) CustomerID() string {
	return cart.customerID
}

// Notes returns the free-text notes.
func (cart *Cart) Notes() string {
	return cart.notes
}

// Subtotal is the sum of the lines' amounts excluding tax.
func (cart *Cart) Subtotal() decimal.Decimal {
	return cart.sum(func(line *Line) decimal.Decimal { return line.TotalExclTax })
}

// TaxTotal is the sum of the lines' tax amounts.
func (cart *Cart) TaxTotal() decimal.Decimal {
	return cart.sum(func(line *Line) decimal.Decimal { return line.TaxAmount })
}

// GrandTotal is the sum of the lines' amounts including tax.
func (cart *Cart) GrandTotal() decimal.Decimal {
	return cart.sum(func(line *Line) decimal.Decimal { return line.TotalInclTax })
}

// Clone returns an independent copy sharing the discount policy.
func (cart *Cart) Clone() *Cart {
	clone := &Cart{customerID: cart.customerID, notes: cart.notes, policy: cart.policy}
	clone.lines = slice.Map(cart.lines, func(line *Line) *Line {
		copied := *line
		return &copied
	})
	return clone
}

// # Helpers

func (cart *Cart) find(itemID string) *Line {
	for _, line := range cart.lines {
		if line.ItemID == itemID {
			return line
		}
	}
	return nil
}

// step moves the quantity by delta within [1, AvailableStock].
func (cart *Cart) step(line *Line, delta int) {
	next := line.Quantity + delta
	if next < 1 || next > line.AvailableStock {
		return
	}
	line.Quantity = next
	price(line, cart.policy)
}

func (cart *Cart) sum(amount func(*Line) decimal.Decimal) decimal.Decimal {
	return slice.Reduce(cart.lines, decimal.Zero, func(total decimal.Decimal, line *Line) decimal.Decimal {
		return total.Add(amount(line))
	})
}
