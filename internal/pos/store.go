// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pos

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/quinca/pkg/pagination"
)

// # Catalog Access

// CatalogLookup resolves the items a cashier scans into the register.
type CatalogLookup interface {

	/*
		FindItem returns the sellable item with its current stock.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *CatalogItem: Item snapshot
		  - error: ErrItemNotFound or storage failures
	*/
	FindItem(context context.Context, id string) (*CatalogItem, error)
}

// # Sale Data Access

// SaleRepository records settled sales.
type SaleRepository interface {

	/*
		Create assigns the next sale number, persists the sale with its lines and
		payments, and takes the sold quantities out of stock, atomically.

		Parameters:
		  - context: context.Context
		  - sale: *Sale (ID and CreatedAt set; Number is filled in)

		Returns:
		  - error: ErrOutOfStock when stock moved under the cart, or storage failures
	*/
	Create(context context.Context, sale *Sale) error

	/*
		FindByID returns a sale with its lines and payments.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Sale: Hydrated entity
		  - error: ErrSaleNotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Sale, error)

	/*
		List returns a page of sales, newest first, without lines or payments.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []*Sale: The page
		  - int: Total number of sales
		  - error: Storage failures
	*/
	List(context context.Context, params pagination.Params) ([]*Sale, int, error)
}

// saleNumber formats the sequence-th sale of the year of at as SO-YYYY-####.
func saleNumber(at time.Time, sequence int) string {
	return fmt.Sprintf("SO-%d-%04d", at.Year(), sequence)
}

// yearBounds returns the [start, end) of the calendar year of at, in at's zone.
func yearBounds(at time.Time) (time.Time, time.Time) {
	start := time.Date(at.Year(), time.January, 1, 0, 0, 0, 0, at.Location())
	return start, start.AddDate(1, 0, 0)
}
