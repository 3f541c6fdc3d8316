// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pos

import (
	"context"
	"sync"

	"github.com/taibuivan/quinca/pkg/pagination"
)

// MemorySaleRepository keeps sales in process memory. It backs tests and the
// offline register; stock is not tracked.
type MemorySaleRepository struct {
	mu    sync.RWMutex
	sales []*Sale
}

// NewMemorySaleRepository returns an empty repository.
func NewMemorySaleRepository() *MemorySaleRepository {
	return &MemorySaleRepository{}
}

// Create implements [SaleRepository].
func (repository *MemorySaleRepository) Create(_ context.Context, sale *Sale) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	start, end := yearBounds(sale.CreatedAt)
	sequence := 1
	for _, existing := range repository.sales {
		if !existing.CreatedAt.Before(start) && existing.CreatedAt.Before(end) {
			sequence++
		}
	}
	sale.Number = saleNumber(sale.CreatedAt, sequence)

	stored := *sale
	repository.sales = append(repository.sales, &stored)
	return nil
}

// FindByID implements [SaleRepository].
func (repository *MemorySaleRepository) FindByID(_ context.Context, id string) (*Sale, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	for _, sale := range repository.sales {
		if sale.ID == id {
			found := *sale
			return &found, nil
		}
	}
	return nil, ErrSaleNotFound
}

// List implements [SaleRepository].
func (repository *MemorySaleRepository) List(_ context.Context, params pagination.Params) ([]*Sale, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	total := len(repository.sales)
	start, end := params.Window(total)

	page := make([]*Sale, 0, end-start)
	for index := total - 1 - start; index > total-1-end; index-- {
		summary := *repository.sales[index]
		summary.Lines = nil
		summary.Payments = nil
		page = append(page, &summary)
	}
	return page, total, nil
}
