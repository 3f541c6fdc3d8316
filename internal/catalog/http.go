// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/quinca/internal/platform/apperr"
	"github.com/taibuivan/quinca/internal/platform/middleware"
	requestutil "github.com/taibuivan/quinca/internal/platform/request"
	"github.com/taibuivan/quinca/internal/platform/respond"
	"github.com/taibuivan/quinca/internal/platform/sec"
	"github.com/taibuivan/quinca/internal/pos"
	"github.com/taibuivan/quinca/pkg/pagination"
)

// Handler implements the catalog HTTP endpoints.
type Handler struct {
	catalogService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{catalogService: service}
}

// Routes returns a [chi.Router] configured with the catalog routes.
//
// # Endpoints
//   - GET /items      : Search by name, code or barcode (?q=&page=&limit=).
//   - GET /items/{id} : One product with its stock.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequirePermission(sec.PermissionProductsView))

	router.Get("/items", handler.search)
	router.Get("/items/{id}", handler.get)

	return router
}

/*
Search lists the products matching q.

GET /api/v1/catalog/items?q=&page=&limit=

Response:
  - 200: Paginated []pos.CatalogItem
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	params := requestutil.Page(request)

	items, total, err := handler.catalogService.Search(request.Context(), request.URL.Query().Get("q"), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, items, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get returns one product.

GET /api/v1/catalog/items/{id}

Response:
  - 200: pos.CatalogItem
  - 404: Unknown product
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	item, err := handler.catalogService.FindItem(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, apperr.From(err, apperr.Mapping{
			Target: pos.ErrItemNotFound,
			Build:  func() *apperr.AppError { return apperr.NotFound("Catalog item") },
		}))
		return
	}
	respond.OK(writer, item)
}
