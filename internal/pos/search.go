// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pos

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/taibuivan/quinca/pkg/slice"
)

/*
Search filters items whose name, code or any barcode contains query, ignoring
case. An empty or blank query returns items unchanged. Matches keep their input
order.

Parameters:
  - items: []CatalogItem
  - query: string

Returns:
  - []CatalogItem: Matching items
*/
func Search(items []CatalogItem, query string) []CatalogItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}

	// A Caser carries state and is built per call.
	folder := cases.Fold()
	needle := folder.String(query)

	return slice.Filter(items, func(item CatalogItem) bool {
		if strings.Contains(folder.String(item.Name), needle) || strings.Contains(folder.String(item.Code), needle) {
			return true
		}
		for _, barcode := range item.Barcodes {
			if strings.Contains(folder.String(barcode), needle) {
				return true
			}
		}
		return false
	})
}
