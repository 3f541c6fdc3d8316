// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SalesSaleTable represents the 'sales.sale' table
type SalesSaleTable struct {
	Table           string
	ID              string
	Number          string
	CashierID       string
	CustomerID      string
	Subtotal        string
	TaxTotal        string
	GrandTotal      string
	PaidAmount      string
	RemainingAmount string
	ChangeDue       string
	Status          string
	Notes           string
	CreatedAt       string
}

// SalesSale is the schema definition for sales.sale
var SalesSale = SalesSaleTable{
	Table:           "sales.sale",
	ID:              "id",
	Number:          "number",
	CashierID:       "cashierid",
	CustomerID:      "customerid",
	Subtotal:        "subtotal",
	TaxTotal:        "taxtotal",
	GrandTotal:      "grandtotal",
	PaidAmount:      "paidamount",
	RemainingAmount: "remainingamount",
	ChangeDue:       "changedue",
	Status:          "status",
	Notes:           "notes",
	CreatedAt:       "createdat",
}

// Columns returns all standard column names, in scan order.
func (t SalesSaleTable) Columns() []string {
	return []string{
		t.ID, t.Number, t.CashierID, t.CustomerID, t.Subtotal, t.TaxTotal, t.GrandTotal,
		t.PaidAmount, t.RemainingAmount, t.ChangeDue, t.Status, t.Notes, t.CreatedAt,
	}
}

// SalesItemTable represents the 'sales.saleitem' table
type SalesItemTable struct {
	Table           string
	SaleID          string
	Position        string
	ProductID       string
	ProductName     string
	ProductCode     string
	Quantity        string
	UnitPriceHT     string
	DiscountPercent string
	DiscountAmount  string
	VATRate         string
	TaxAmount       string
	TotalHT         string
	TotalTTC        string
}

// SalesItem is the schema definition for sales.saleitem
var SalesItem = SalesItemTable{
	Table:           "sales.saleitem",
	SaleID:          "saleid",
	Position:        "position",
	ProductID:       "productid",
	ProductName:     "productname",
	ProductCode:     "productcode",
	Quantity:        "quantity",
	UnitPriceHT:     "unitpriceht",
	DiscountPercent: "discountpercent",
	DiscountAmount:  "discountamount",
	VATRate:         "vatrate",
	TaxAmount:       "taxamount",
	TotalHT:         "totalht",
	TotalTTC:        "totalttc",
}

// Columns returns all standard column names, in insert order.
func (t SalesItemTable) Columns() []string {
	return []string{
		t.SaleID, t.Position, t.ProductID, t.ProductName, t.ProductCode, t.Quantity,
		t.UnitPriceHT, t.DiscountPercent, t.DiscountAmount, t.VATRate, t.TaxAmount,
		t.TotalHT, t.TotalTTC,
	}
}

// SalesPaymentTable represents the 'sales.salepayment' table
type SalesPaymentTable struct {
	Table     string
	SaleID    string
	Position  string
	Method    string
	Amount    string
	Reference string
	ChangeDue string
}

// SalesPayment is the schema definition for sales.salepayment
var SalesPayment = SalesPaymentTable{
	Table:     "sales.salepayment",
	SaleID:    "saleid",
	Position:  "position",
	Method:    "method",
	Amount:    "amount",
	Reference: "reference",
	ChangeDue: "changedue",
}

// Columns returns all standard column names, in insert order.
func (t SalesPaymentTable) Columns() []string {
	return []string{t.SaleID, t.Position, t.Method, t.Amount, t.Reference, t.ChangeDue}
}
