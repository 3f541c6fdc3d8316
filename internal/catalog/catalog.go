// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package catalog serves the sellable products of the store to the register
// and to terminals searching by name, code or barcode.
package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/quinca/internal/pos"
)

// Repository defines the data access contract for sellable products.
type Repository interface {

	/*
		All returns every active product, ordered by name.

		Parameters:
		  - context: context.Context

		Returns:
		  - []pos.CatalogItem: Products with their barcodes and stock
		  - error: Storage failures
	*/
	All(context context.Context) ([]pos.CatalogItem, error)

	/*
		FindByID returns one active product.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *pos.CatalogItem: Product snapshot
		  - error: pos.ErrItemNotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*pos.CatalogItem, error)
}

// DemoItems is the hardware assortment served when no database is configured.
func DemoItems() []pos.CatalogItem {
	vat := decimal.NewFromInt(18)
	return []pos.CatalogItem{
		{ID: "1", Code: "PRD-2024-0001", Name: "Ciment Portland 50kg", Barcodes: []string{"3456789012345"}, UnitPriceExclTax: decimal.NewFromInt(15000), TaxRatePercent: vat, AvailableStock: 120},
		{ID: "2", Code: "PRD-2024-0002", Name: "Clous 10cm (1kg)", Barcodes: []string{"3456789012346"}, UnitPriceExclTax: decimal.NewFromInt(5000), TaxRatePercent: vat, AvailableStock: 85},
		{ID: "3", Code: "PRD-2024-0003", Name: "Peinture Blanche 5L", Barcodes: []string{"3456789012347"}, UnitPriceExclTax: decimal.NewFromInt(15000), TaxRatePercent: vat, AvailableStock: 25},
		{ID: "4", Code: "PRD-2024-0004", Name: "Vis Inox 6x40 (100pcs)", Barcodes: []string{"3456789012348"}, UnitPriceExclTax: decimal.NewFromInt(5000), TaxRatePercent: vat, AvailableStock: 5},
		{ID: "5", Code: "PRD-2024-0005", Name: "Robinet Cuisine Chrome", Barcodes: []string{"3456789012349"}, UnitPriceExclTax: decimal.NewFromInt(35000), TaxRatePercent: vat, AvailableStock: 15},
	}
}
