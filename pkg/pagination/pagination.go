// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pagination carries page requests from the query string down to the
repositories and page metadata back up to the response envelope.

Pages are 1-indexed. Catalog searches and the sales journal share the same
bounds: [DefaultLimit] rows unless asked otherwise, never more than
[MaxLimit].
*/
package pagination

import (
	"net/http"

	"github.com/taibuivan/quinca/pkg/convert"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a validated page request.
type Params struct {
	Page  int
	Limit int
}

// FromRequest reads ?page= and ?limit=. Malformed or non-positive values
// fall back to the defaults and an oversized limit is clamped to [MaxLimit].
func FromRequest(request *http.Request) Params {
	query := request.URL.Query()

	params := Params{
		Page:  convert.ToIntD(query.Get("page"), DefaultPage),
		Limit: convert.ToIntD(query.Get("limit"), DefaultLimit),
	}
	if params.Page < 1 {
		params.Page = DefaultPage
	}
	if params.Limit < 1 {
		params.Limit = DefaultLimit
	}
	params.Limit = min(params.Limit, MaxLimit)

	return params
}

// Offset is the number of rows skipped before this page.
func (params Params) Offset() int {
	return max(params.Page-1, 0) * params.Limit
}

// Window returns the [start, end) bounds of this page within total rows, for
// stores that page in memory.
func (params Params) Window(total int) (start, end int) {
	start = min(params.Offset(), total)
	end = min(start+params.Limit, total)
	return start, end
}

// Meta describes the page a list response carries.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta builds the metadata for a page of total rows.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	return meta
}
