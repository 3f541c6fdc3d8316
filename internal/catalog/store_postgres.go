// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quinca/internal/platform/database/schema"
	"github.com/taibuivan/quinca/internal/pos"
)

// PostgresRepository implements [Repository] on the catalog schema.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectItems aggregates the barcodes of each active product.
var selectItems = fmt.Sprintf(`
	SELECT p.%[3]s, p.%[4]s, p.%[5]s, p.%[6]s, p.%[7]s, p.%[8]s,
	       COALESCE(array_agg(b.%[10]s ORDER BY b.%[10]s) FILTER (WHERE b.%[10]s IS NOT NULL), '{}')
	FROM %[1]s p
	LEFT JOIN %[2]s b ON b.%[9]s = p.%[3]s
	WHERE p.%[11]s = TRUE`,
	schema.CatalogProduct.Table, schema.CatalogBarcode.Table,
	schema.CatalogProduct.ID, schema.CatalogProduct.Code, schema.CatalogProduct.Name,
	schema.CatalogProduct.SalePriceHT, schema.CatalogProduct.VATRate, schema.CatalogProduct.Stock,
	schema.CatalogBarcode.ProductID, schema.CatalogBarcode.Barcode, schema.CatalogProduct.IsActive,
)

var groupItems = fmt.Sprintf(" GROUP BY p.%s", schema.CatalogProduct.ID)

/*
All loads every active product.

Parameters:
  - context: context.Context

Returns:
  - []pos.CatalogItem: Products ordered by name
  - error: Database errors
*/
func (repository *PostgresRepository) All(context context.Context) ([]pos.CatalogItem, error) {
	query := selectItems + groupItems + " ORDER BY p." + schema.CatalogProduct.Name

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_catalog_repo_all_failed: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (pos.CatalogItem, error) {
		return scanItem(row)
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_catalog_repo_all_scan_failed: %w", err)
	}
	return items, nil
}

/*
FindByID loads one active product with its current stock.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *pos.CatalogItem: Product snapshot
  - error: pos.ErrItemNotFound or database errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*pos.CatalogItem, error) {
	query := selectItems + " AND p." + schema.CatalogProduct.ID + " = $1" + groupItems

	item, err := scanItem(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pos.ErrItemNotFound
		}
		return nil, fmt.Errorf("postgres_catalog_repo_find_by_id_failed: %w", err)
	}
	return &item, nil
}

func scanItem(row pgx.Row) (pos.CatalogItem, error) {
	var item pos.CatalogItem
	err := row.Scan(
		&item.ID,
		&item.Code,
		&item.Name,
		&item.UnitPriceExclTax,
		&item.TaxRatePercent,
		&item.AvailableStock,
		&item.Barcodes,
	)
	return item, err
}
