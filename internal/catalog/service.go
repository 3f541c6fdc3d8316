// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/quinca/internal/pos"
	"github.com/taibuivan/quinca/pkg/pagination"
)

// Service answers catalog lookups. It implements [pos.CatalogLookup].
type Service struct {
	repository Repository

	// Terminals searching at the same moment share one product load.
	loads singleflight.Group
}

// NewService constructs a new catalog [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

/*
Search filters the catalog by name, code or barcode and returns one page.

Parameters:
  - context: context.Context
  - query: string (blank returns every product)
  - params: pagination.Params

Returns:
  - []pos.CatalogItem: The page, in catalog order
  - int: Number of matches
  - error: Storage failures
*/
func (service *Service) Search(context context.Context, query string, params pagination.Params) ([]pos.CatalogItem, int, error) {
	items, err := service.all(context)
	if err != nil {
		return nil, 0, err
	}

	matches := pos.Search(items, query)
	start, end := params.Window(len(matches))
	return matches[start:end], len(matches), nil
}

/*
FindItem returns one product with its current stock.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *pos.CatalogItem: Product snapshot
  - error: pos.ErrItemNotFound or storage failures
*/
func (service *Service) FindItem(context context.Context, id string) (*pos.CatalogItem, error) {
	item, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_find_item_failed: %w", err)
	}
	return item, nil
}

func (service *Service) all(ctx context.Context) ([]pos.CatalogItem, error) {
	result := service.loads.DoChan("all", func() (any, error) {
		return service.repository.All(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case outcome := <-result:
		if outcome.Err != nil {
			return nil, fmt.Errorf("catalog_service_load_failed: %w", outcome.Err)
		}
		return outcome.Val.([]pos.CatalogItem), nil
	}
}
