// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogProductTable represents the 'catalog.product' table
type CatalogProductTable struct {
	Table       string
	ID          string
	Code        string
	Name        string
	SalePriceHT string
	VATRate     string
	Stock       string
	IsActive    string
	CreatedAt   string
	UpdatedAt   string
}

// CatalogProduct is the schema definition for catalog.product
var CatalogProduct = CatalogProductTable{
	Table:       "catalog.product",
	ID:          "id",
	Code:        "code",
	Name:        "name",
	SalePriceHT: "salepriceht",
	VATRate:     "vatrate",
	Stock:       "stock",
	IsActive:    "isactive",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns the columns read into a catalog item, in scan order.
func (t CatalogProductTable) Columns() []string {
	return []string{t.ID, t.Code, t.Name, t.SalePriceHT, t.VATRate, t.Stock}
}

// CatalogBarcodeTable represents the 'catalog.productbarcode' table
type CatalogBarcodeTable struct {
	Table     string
	ProductID string
	Barcode   string
}

// CatalogBarcode is the schema definition for catalog.productbarcode
var CatalogBarcode = CatalogBarcodeTable{
	Table:     "catalog.productbarcode",
	ProductID: "productid",
	Barcode:   "barcode",
}
