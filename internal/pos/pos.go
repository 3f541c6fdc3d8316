// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pos implements the point-of-sale pricing core and the register that
serves it over HTTP.

A [Cart] prices its lines on every mutation:

	totalExclTax = unitPriceExclTax × quantity
	taxAmount    = totalExclTax × taxRatePercent / 100
	totalInclTax = totalExclTax + taxAmount

Amounts are [decimal.Decimal] so that grandTotal == subtotal + taxTotal holds
exactly. A Cart is not safe for concurrent use; the [Register] owns one per
open sale behind its own mutex.
*/
package pos

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// # Domain Errors

var (
	// ErrEmptyCart is returned when settling a cart without lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInsufficientPayment is returned when the tendered amount does not
	// cover the grand total of a non-credit settlement.
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrLineNotFound is returned when no line holds the given item.
	ErrLineNotFound = errors.New("cart line not found")

	// ErrOutOfStock is returned when an item has no stock left to sell.
	ErrOutOfStock = errors.New("item out of stock")

	// ErrUnknownPaymentMethod is returned for a tender outside [PaymentMethod].
	ErrUnknownPaymentMethod = errors.New("unknown payment method")

	// ErrOverpayment is returned when tenders exceed the grand total by more
	// than the cash that can be handed back as change.
	ErrOverpayment = errors.New("overpayment cannot be returned as change")

	// ErrInvalidAmount is returned for a negative tender.
	ErrInvalidAmount = errors.New("invalid payment amount")

	// ErrCartNotFound is returned by the [Register] for an unknown cart id.
	ErrCartNotFound = errors.New("cart not found")

	// ErrSaleNotFound is returned by a [SaleRepository] for an unknown sale.
	ErrSaleNotFound = errors.New("sale not found")

	// ErrItemNotFound is returned by a [CatalogLookup] for an unknown item.
	ErrItemNotFound = errors.New("catalog item not found")
)

// # Catalog

// CatalogItem is a sellable product as the register sees it.
type CatalogItem struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Code             string          `json:"code"`
	Barcodes         []string        `json:"barcodes"`
	UnitPriceExclTax decimal.Decimal `json:"unitPriceExclTax"`
	TaxRatePercent   decimal.Decimal `json:"taxRatePercent"`
	AvailableStock   int             `json:"availableStock"`
}

// # Cart Lines

// Line is one item of a cart with its computed amounts.
type Line struct {
	ItemID           string          `json:"itemId"`
	Item             CatalogItem     `json:"item"`
	Quantity         int             `json:"quantity"`
	UnitPriceExclTax decimal.Decimal `json:"unitPriceExclTax"`
	DiscountPercent  decimal.Decimal `json:"discountPercent"`
	DiscountAmount   decimal.Decimal `json:"discountAmount"`
	TaxRatePercent   decimal.Decimal `json:"taxRatePercent"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
	TotalExclTax     decimal.Decimal `json:"totalExclTax"`
	TotalInclTax     decimal.Decimal `json:"totalInclTax"`

	// AvailableStock is the stock snapshot taken when the line was added.
	AvailableStock int `json:"availableStock"`
}

// # Payments

// PaymentMethod is the tender used for a payment.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodMobileMoney  PaymentMethod = "mobile_money"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheck        PaymentMethod = "check"

	// MethodCredit defers the amount to the customer's account.
	MethodCredit PaymentMethod = "credit"
)

// PaymentMethods lists the accepted tenders.
var PaymentMethods = []string{
	string(MethodCash), string(MethodCard), string(MethodMobileMoney),
	string(MethodBankTransfer), string(MethodCheck), string(MethodCredit),
}

// Valid reports whether method is a known tender.
func (method PaymentMethod) Valid() bool {
	return slices.Contains(PaymentMethods, string(method))
}

// Payment is one tender of a settlement. ChangeDue is filled by settlement on
// the cash tender.
type Payment struct {
	Method    PaymentMethod   `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
	ChangeDue decimal.Decimal `json:"changeDue"`
}

// # Sales

// SaleStatus is the lifecycle state of a sale.
type SaleStatus string

const (
	StatusDraft         SaleStatus = "draft"
	StatusCompleted     SaleStatus = "completed"
	StatusPartiallyPaid SaleStatus = "partially_paid"
	StatusPaid          SaleStatus = "paid"
	StatusCancelled     SaleStatus = "cancelled"
	StatusRefunded      SaleStatus = "refunded"
)

// Sale is the record produced by settling a cart.
type Sale struct {
	ID              string          `json:"id"`
	Number          string          `json:"saleNumber"`
	CashierID       string          `json:"cashierId"`
	CustomerID      string          `json:"customerId,omitempty"`
	Lines           []Line          `json:"items,omitempty"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxTotal        decimal.Decimal `json:"taxAmount"`
	GrandTotal      decimal.Decimal `json:"totalAmount"`
	Payments        []Payment       `json:"payments,omitempty"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	ChangeDue       decimal.Decimal `json:"changeDue"`
	Status          SaleStatus      `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}
