// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pos

import "github.com/shopspring/decimal"

/*
Settle closes the cart against payments and returns the resulting sale.

Every tender counts towards the grand total. Non-credit tenders are collected
now; credit tenders are deferred to the customer's account and show up as the
remaining amount. Overpayment is returned as change on the cash tender; an
excess larger than the cash handed over is refused, so the paid amount never
exceeds the grand total. A sale with a remaining amount is
partially paid, otherwise paid.

The returned sale has no ID, number or creation time; those are assigned when
it is recorded. On success the cart is cleared. On error it is left untouched.

Parameters:
  - payments: []Payment
  - cashierID: string

Returns:
  - *Sale: The settled sale
  - error: ErrEmptyCart, ErrUnknownPaymentMethod, ErrInvalidAmount,
    ErrInsufficientPayment or ErrOverpayment
*/
func (cart *Cart) Settle(payments []Payment, cashierID string) (*Sale, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	// ── 1. Tender Validation ──────────────────────────────────────────────
	tendered, collected, cash := decimal.Zero, decimal.Zero, decimal.Zero
	onlyCredit := len(payments) > 0
	for _, payment := range payments {
		if !payment.Method.Valid() {
			return nil, ErrUnknownPaymentMethod
		}
		if payment.Amount.IsNegative() {
			return nil, ErrInvalidAmount
		}

		tendered = tendered.Add(payment.Amount)
		switch payment.Method {
		case MethodCredit:
		case MethodCash:
			cash = cash.Add(payment.Amount)
			collected = collected.Add(payment.Amount)
			onlyCredit = false
		default:
			collected = collected.Add(payment.Amount)
			onlyCredit = false
		}
	}

	grandTotal := cart.GrandTotal()
	if !onlyCredit && tendered.LessThan(grandTotal) {
		return nil, ErrInsufficientPayment
	}
	if tendered.Sub(grandTotal).GreaterThan(cash) {
		return nil, ErrOverpayment
	}

	// ── 2. Change & Balance ───────────────────────────────────────────────
	change := decimal.Max(decimal.Zero, decimal.Min(cash, tendered.Sub(grandTotal)))
	paid := collected.Sub(change)
	remaining := decimal.Max(decimal.Zero, grandTotal.Sub(paid))

	status := StatusPaid
	if remaining.IsPositive() {
		status = StatusPartiallyPaid
	}

	settled := make([]Payment, len(payments))
	copy(settled, payments)
	for index := range settled {
		settled[index].ChangeDue = decimal.Zero
	}
	if change.IsPositive() {
		settled[lastCash(settled)].ChangeDue = change
	}

	// ── 3. Sale Record ────────────────────────────────────────────────────
	sale := &Sale{
		CashierID:       cashierID,
		CustomerID:      cart.customerID,
		Lines:           cart.Lines(),
		Subtotal:        cart.Subtotal(),
		TaxTotal:        cart.TaxTotal(),
		GrandTotal:      grandTotal,
		Payments:        settled,
		PaidAmount:      paid,
		RemainingAmount: remaining,
		ChangeDue:       change,
		Status:          status,
		Notes:           cart.notes,
	}

	cart.Clear()
	return sale, nil
}

// lastCash returns the index of the last cash tender. Callers only use it
// when change is due, which implies a cash tender exists.
func lastCash(payments []Payment) int {
	for index := len(payments) - 1; index >= 0; index-- {
		if payments[index].Method == MethodCash {
			return index
		}
	}
	return 0
}
