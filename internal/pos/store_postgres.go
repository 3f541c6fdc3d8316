// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quinca/internal/platform/database/schema"
	"github.com/taibuivan/quinca/internal/platform/dberr"
	"github.com/taibuivan/quinca/internal/platform/postgres"
	"github.com/taibuivan/quinca/pkg/pagination"
	"github.com/taibuivan/quinca/pkg/pointer"
)

// PostgresSaleRepository implements [SaleRepository] on the sales schema.
type PostgresSaleRepository struct {
	pool *pgxpool.Pool
}

// NewSaleRepository creates a new PostgreSQL implementation of [SaleRepository].
func NewSaleRepository(pool *pgxpool.Pool) *PostgresSaleRepository {
	return &PostgresSaleRepository{pool: pool}
}

// saleNumberLock serialises number allocation across registers.
const saleNumberLock = "SELECT pg_advisory_xact_lock(hashtext('sales.sale.number'))"

/*
Create persists a settled sale in a single transaction.

Parameters:
  - context: context.Context
  - sale: *Sale

Returns:
  - error: ErrOutOfStock or database errors
*/
func (repository *PostgresSaleRepository) Create(context context.Context, sale *Sale) error {
	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {

		// ── 1. Sale Number ────────────────────────────────────────────────
		if _, err := tx.Exec(context, saleNumberLock); err != nil {
			return fmt.Errorf("lock_number: %w", err)
		}

		start, end := yearBounds(sale.CreatedAt)
		var count int
		countQuery := fmt.Sprintf("SELECT count(*) FROM %s WHERE %s >= $1 AND %s < $2",
			schema.SalesSale.Table, schema.SalesSale.CreatedAt, schema.SalesSale.CreatedAt)
		if err := tx.QueryRow(context, countQuery, start, end).Scan(&count); err != nil {
			return fmt.Errorf("count_sales: %w", err)
		}
		sale.Number = saleNumber(sale.CreatedAt, count+1)

		// ── 2. Header ─────────────────────────────────────────────────────
		columns := schema.SalesSale.Columns()
		insertSale := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			schema.SalesSale.Table, strings.Join(columns, ", "), placeholders(len(columns)))
		_, err := tx.Exec(context, insertSale,
			sale.ID, sale.Number, sale.CashierID, nullable(sale.CustomerID),
			sale.Subtotal, sale.TaxTotal, sale.GrandTotal,
			sale.PaidAmount, sale.RemainingAmount, sale.ChangeDue,
			string(sale.Status), nullable(sale.Notes), sale.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert_sale: %w", dberr.Wrap(err, "Sale"))
		}

		// ── 3. Lines & Payments ───────────────────────────────────────────
		itemColumns := schema.SalesItem.Columns()
		insertItem := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			schema.SalesItem.Table, strings.Join(itemColumns, ", "), placeholders(len(itemColumns)))
		paymentColumns := schema.SalesPayment.Columns()
		insertPayment := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			schema.SalesPayment.Table, strings.Join(paymentColumns, ", "), placeholders(len(paymentColumns)))

		batch := &pgx.Batch{}
		for position, line := range sale.Lines {
			batch.Queue(insertItem,
				sale.ID, position, line.ItemID, line.Item.Name, line.Item.Code, line.Quantity,
				line.UnitPriceExclTax, line.DiscountPercent, line.DiscountAmount,
				line.TaxRatePercent, line.TaxAmount, line.TotalExclTax, line.TotalInclTax,
			)
		}
		for position, payment := range sale.Payments {
			batch.Queue(insertPayment,
				sale.ID, position, string(payment.Method), payment.Amount, nullable(payment.Reference), payment.ChangeDue,
			)
		}
		if err := tx.SendBatch(context, batch).Close(); err != nil {
			return fmt.Errorf("insert_lines: %w", dberr.Wrap(err, "Sale line"))
		}

		// ── 4. Stock ──────────────────────────────────────────────────────
		decrement := fmt.Sprintf("UPDATE %s SET %s = %s - $1, %s = NOW() WHERE %s = $2 AND %s >= $1",
			schema.CatalogProduct.Table, schema.CatalogProduct.Stock, schema.CatalogProduct.Stock,
			schema.CatalogProduct.UpdatedAt, schema.CatalogProduct.ID, schema.CatalogProduct.Stock)
		for _, line := range sale.Lines {
			tag, err := tx.Exec(context, decrement, line.Quantity, line.ItemID)
			if err != nil {
				return fmt.Errorf("decrement_stock: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return ErrOutOfStock
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("postgres_sale_repo_create_failed: %w", err)
	}
	return nil
}

/*
FindByID retrieves a sale with its lines and payments.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Sale: Hydrated entity
  - error: ErrSaleNotFound or database errors
*/
func (repository *PostgresSaleRepository) FindByID(context context.Context, id string) (*Sale, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		strings.Join(schema.SalesSale.Columns(), ", "), schema.SalesSale.Table, schema.SalesSale.ID)

	sale, err := scanSale(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("postgres_sale_repo_find_by_id_failed: %w", err)
	}

	if sale.Lines, err = repository.lines(context, id); err != nil {
		return nil, err
	}
	if sale.Payments, err = repository.payments(context, id); err != nil {
		return nil, err
	}
	return sale, nil
}

/*
List returns a page of sales, newest first.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*Sale: The page
  - int: Total count
  - error: Database errors
*/
func (repository *PostgresSaleRepository) List(context context.Context, params pagination.Params) ([]*Sale, int, error) {
	var total int
	if err := repository.pool.QueryRow(context, "SELECT count(*) FROM "+schema.SalesSale.Table).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_sale_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC, %s DESC LIMIT $1 OFFSET $2",
		strings.Join(schema.SalesSale.Columns(), ", "), schema.SalesSale.Table,
		schema.SalesSale.CreatedAt, schema.SalesSale.Number)

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_sale_repo_list_failed: %w", err)
	}

	sales, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Sale, error) {
		return scanSale(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_sale_repo_list_scan_failed: %w", err)
	}
	return sales, total, nil
}

// # Helpers

func scanSale(row pgx.Row) (*Sale, error) {
	var (
		sale       Sale
		customerID *string
		notes      *string
		status     string
	)
	err := row.Scan(
		&sale.ID,
		&sale.Number,
		&sale.CashierID,
		&customerID,
		&sale.Subtotal,
		&sale.TaxTotal,
		&sale.GrandTotal,
		&sale.PaidAmount,
		&sale.RemainingAmount,
		&sale.ChangeDue,
		&status,
		&notes,
		&sale.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	sale.CustomerID = pointer.Val(customerID)
	sale.Notes = pointer.Val(notes)
	sale.Status = SaleStatus(status)
	return &sale, nil
}

func (repository *PostgresSaleRepository) lines(context context.Context, saleID string) ([]Line, error) {
	columns := schema.SalesItem.Columns()[2:]
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 ORDER BY %s",
		strings.Join(columns, ", "), schema.SalesItem.Table, schema.SalesItem.SaleID, schema.SalesItem.Position)

	rows, err := repository.pool.Query(context, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("postgres_sale_repo_lines_failed: %w", err)
	}

	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Line, error) {
		var line Line
		err := row.Scan(
			&line.ItemID, &line.Item.Name, &line.Item.Code, &line.Quantity,
			&line.UnitPriceExclTax, &line.DiscountPercent, &line.DiscountAmount,
			&line.TaxRatePercent, &line.TaxAmount, &line.TotalExclTax, &line.TotalInclTax,
		)
		line.Item.ID = line.ItemID
		line.Item.UnitPriceExclTax = line.UnitPriceExclTax
		line.Item.TaxRatePercent = line.TaxRatePercent
		return line, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_sale_repo_lines_scan_failed: %w", err)
	}
	return lines, nil
}

func (repository *PostgresSaleRepository) payments(context context.Context, saleID string) ([]Payment, error) {
	columns := schema.SalesPayment.Columns()[2:]
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 ORDER BY %s",
		strings.Join(columns, ", "), schema.SalesPayment.Table, schema.SalesPayment.SaleID, schema.SalesPayment.Position)

	rows, err := repository.pool.Query(context, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("postgres_sale_repo_payments_failed: %w", err)
	}

	payments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Payment, error) {
		var (
			payment   Payment
			method    string
			reference *string
		)
		err := row.Scan(&method, &payment.Amount, &reference, &payment.ChangeDue)
		payment.Method = PaymentMethod(method)
		payment.Reference = pointer.Val(reference)
		return payment, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_sale_repo_payments_scan_failed: %w", err)
	}
	return payments, nil
}

func placeholders(count int) string {
	marks := make([]string, count)
	for index := range marks {
		marks[index] = fmt.Sprintf("$%d", index+1)
	}
	return strings.Join(marks, ", ")
}

// nullable maps an empty string to SQL NULL.
func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
