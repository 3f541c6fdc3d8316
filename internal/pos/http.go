// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pos

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/taibuivan/quinca/internal/platform/apperr"
	"github.com/taibuivan/quinca/internal/platform/middleware"
	requestutil "github.com/taibuivan/quinca/internal/platform/request"
	"github.com/taibuivan/quinca/internal/platform/respond"
	"github.com/taibuivan/quinca/internal/platform/sec"
	"github.com/taibuivan/quinca/internal/platform/validate"
	"github.com/taibuivan/quinca/pkg/pagination"
	"github.com/taibuivan/quinca/pkg/slice"
)

// # Definitions & Constructors

// Handler implements the point-of-sale HTTP endpoints.
type Handler struct {
	register *Register
}

// NewHandler constructs a new [Handler] over register.
func NewHandler(register *Register) *Handler {
	return &Handler{register: register}
}

// Routes returns a [chi.Router] configured with the register routes.
//
// # Endpoints
//   - POST   /carts                               : Opens a cart.
//   - GET    /carts/{id}                          : Cart with totals.
//   - PATCH  /carts/{id}                          : Customer and notes.
//   - DELETE /carts/{id}                          : Abandons a cart.
//   - POST   /carts/{id}/items                    : Adds a catalog item.
//   - POST   /carts/{id}/lines/{itemId}/increment : One more unit.
//   - POST   /carts/{id}/lines/{itemId}/decrement : One less unit.
//   - DELETE /carts/{id}/lines/{itemId}           : Drops a line.
//   - POST   /carts/{id}/settle                   : Records the sale.
//   - GET    /sales                               : Sales history.
//   - GET    /sales/{id}                          : One sale.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(sec.PermissionSalesView))
		r.Get("/carts/{id}", handler.viewCart)
		r.Get("/sales", handler.listSales)
		r.Get("/sales/{id}", handler.getSale)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(sec.PermissionSalesCreate))
		r.Post("/carts", handler.openCart)
		r.Patch("/carts/{id}", handler.annotateCart)
		r.Delete("/carts/{id}", handler.abandonCart)
		r.Post("/carts/{id}/items", handler.addItem)
		r.Post("/carts/{id}/lines/{itemId}/increment", handler.increment)
		r.Post("/carts/{id}/lines/{itemId}/decrement", handler.decrement)
		r.Delete("/carts/{id}/lines/{itemId}", handler.removeLine)
		r.Post("/carts/{id}/settle", handler.settle)
	})

	return router
}

// # Request Payloads

type addItemRequest struct {
	ItemID string `json:"itemId"`
}

type annotateRequest struct {
	CustomerID *string `json:"customerId"`
	Notes      *string `json:"notes"`
}

type paymentRequest struct {
	Method    PaymentMethod   `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
}

type settleRequest struct {
	Payments []paymentRequest `json:"payments"`
}

// # Error Mapping

var errorMappings = []apperr.Mapping{
	{Target: ErrCartNotFound, Build: func() *apperr.AppError { return apperr.NotFound("Cart") }},
	{Target: ErrLineNotFound, Build: func() *apperr.AppError { return apperr.NotFound("Cart line") }},
	{Target: ErrItemNotFound, Build: func() *apperr.AppError { return apperr.NotFound("Catalog item") }},
	{Target: ErrSaleNotFound, Build: func() *apperr.AppError { return apperr.NotFound("Sale") }},
	{Target: ErrOutOfStock, Build: func() *apperr.AppError {
		return apperr.Constraint("OUT_OF_STOCK", "Item is out of stock")
	}},
	{Target: ErrEmptyCart, Build: func() *apperr.AppError {
		return apperr.Constraint("EMPTY_CART", "Cart is empty")
	}},
	{Target: ErrInsufficientPayment, Build: func() *apperr.AppError {
		return apperr.Constraint("INSUFFICIENT_PAYMENT", "Payment does not cover the total")
	}},
	{Target: ErrOverpayment, Build: func() *apperr.AppError {
		return apperr.Constraint("OVERPAYMENT", "Only cash can be overpaid")
	}},
	{Target: ErrUnknownPaymentMethod, Build: func() *apperr.AppError {
		return validate.RequiredError("payments.method", "Unknown payment method")
	}},
	{Target: ErrInvalidAmount, Build: func() *apperr.AppError {
		return validate.RequiredError("payments.amount", "Amount must not be negative")
	}},
}

func fail(writer http.ResponseWriter, request *http.Request, err error) {
	respond.Error(writer, request, apperr.From(err, errorMappings...))
}

// # Carts

/*
OpenCart starts an empty cart owned by the caller.

POST /api/v1/pos/carts

Response:
  - 201: CartView
*/
func (handler *Handler) openCart(writer http.ResponseWriter, request *http.Request) {
	cashierID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, handler.register.Open(cashierID))
}

/*
ViewCart returns a cart with its totals.

GET /api/v1/pos/carts/{id}

Response:
  - 200: CartView
  - 404: Unknown cart
*/
func (handler *Handler) viewCart(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.register.View(requestutil.Param(request, "id"))
	if err != nil {
		fail(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

/*
AnnotateCart sets the customer reference and notes.

PATCH /api/v1/pos/carts/{id}

Request:
  - Body: annotateRequest (CustomerID, Notes; omitted fields are kept)
*/
func (handler *Handler) annotateCart(writer http.ResponseWriter, request *http.Request) {
	var input annotateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.register.Annotate(requestutil.Param(request, "id"), input.CustomerID, input.Notes)
	if err != nil {
		fail(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

/*
AbandonCart discards a cart.

DELETE /api/v1/pos/carts/{id}

Response:
  - 204: No Content
  - 404: Unknown cart
*/
func (handler *Handler) abandonCart(writer http.ResponseWriter, request *http.Request) {
	if err := handler.register.Abandon(requestutil.Param(request, "id")); err != nil {
		fail(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Lines

/*
AddItem scans a catalog item into the cart.

POST /api/v1/pos/carts/{id}/items

Request:
  - Body: addItemRequest (ItemID)

Response:
  - 200: CartView
  - 404: Unknown cart or item
  - 422: OUT_OF_STOCK
*/
func (handler *Handler) addItem(writer http.ResponseWriter, request *http.Request) {
	var input addItemRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("itemId", input.ItemID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.register.AddItem(request.Context(), requestutil.Param(request, "id"), input.ItemID)
	if err != nil {
		fail(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) increment(writer http.ResponseWriter, request *http.Request) {
	handler.lineOperation(writer, request, handler.register.Increment)
}

func (handler *Handler) decrement(writer http.ResponseWriter, request *http.Request) {
	handler.lineOperation(writer, request, handler.register.Decrement)
}

func (handler *Handler) removeLine(writer http.ResponseWriter, request *http.Request) {
	handler.lineOperation(writer, request, handler.register.Remove)
}

func (handler *Handler) lineOperation(writer http.ResponseWriter, request *http.Request, operation func(id, itemID string) (CartView, error)) {
	view, err := operation(requestutil.Param(request, "id"), requestutil.Param(request, "itemId"))
	if err != nil {
		fail(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

// # Settlement

/*
Settle records the sale of a cart. The cashier is the authenticated caller.

POST /api/v1/pos/carts/{id}/settle

Request:
  - Body: settleRequest (Payments)

Response:
  - 201: Sale
  - 400: Unknown method or negative amount
  - 404: Unknown cart
  - 422: EMPTY_CART, INSUFFICIENT_PAYMENT, OVERPAYMENT or OUT_OF_STOCK
*/
func (handler *Handler) settle(writer http.ResponseWriter, request *http.Request) {
	cashierID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input settleRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	for index, payment := range input.Payments {
		validator.OneOf(fmt.Sprintf("payments[%d].method", index), string(payment.Method), PaymentMethods...).
			NotNegative(fmt.Sprintf("payments[%d].amount", index), payment.Amount)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	payments := slice.Map(input.Payments, func(payment paymentRequest) Payment {
		return Payment{Method: payment.Method, Amount: payment.Amount, Reference: payment.Reference}
	})

	sale, err := handler.register.Settle(request.Context(), requestutil.Param(request, "id"), payments, cashierID)
	if err != nil {
		fail(writer, request, err)
		return
	}
	respond.Created(writer, sale)
}

// # History

/*
ListSales returns recorded sales, newest first.

GET /api/v1/pos/sales?page=&limit=

Response:
  - 200: Paginated []Sale (without lines)
*/
func (handler *Handler) listSales(writer http.ResponseWriter, request *http.Request) {
	params := requestutil.Page(request)

	sales, total, err := handler.register.Sales(request.Context(), params)
	if err != nil {
		fail(writer, request, err)
		return
	}
	respond.Paginated(writer, sales, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GetSale returns one sale with its lines and payments.

GET /api/v1/pos/sales/{id}
*/
func (handler *Handler) getSale(writer http.ResponseWriter, request *http.Request) {
	sale, err := handler.register.Sale(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		fail(writer, request, err)
		return
	}
	respond.OK(writer, sale)
}
