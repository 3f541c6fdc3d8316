// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"slices"
	"strings"

	"github.com/taibuivan/quinca/internal/pos"
)

// MemoryRepository serves a fixed product list.
type MemoryRepository struct {
	items []pos.CatalogItem
}

// NewMemoryRepository returns a repository over items, sorted by name.
func NewMemoryRepository(items ...pos.CatalogItem) *MemoryRepository {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b pos.CatalogItem) int {
		return strings.Compare(a.Name, b.Name)
	})
	return &MemoryRepository{items: sorted}
}

// All implements [Repository].
func (repository *MemoryRepository) All(context.Context) ([]pos.CatalogItem, error) {
	return slices.Clone(repository.items), nil
}

// FindByID implements [Repository].
func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*pos.CatalogItem, error) {
	index := slices.IndexFunc(repository.items, func(item pos.CatalogItem) bool { return item.ID == id })
	if index < 0 {
		return nil, pos.ErrItemNotFound
	}
	found := repository.items[index]
	return &found, nil
}
