// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pos

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/quinca/internal/platform/ctxutil"
	"github.com/taibuivan/quinca/pkg/pagination"
	"github.com/taibuivan/quinca/pkg/uuid"
)

// CartView is the priced state of an open cart.
type CartView struct {
	ID         string          `json:"id"`
	CashierID  string          `json:"cashierId"`
	CustomerID string          `json:"customerId,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	Lines      []Line          `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxTotal   decimal.Decimal `json:"taxAmount"`
	GrandTotal decimal.Decimal `json:"totalAmount"`
	OpenedAt   time.Time       `json:"openedAt"`
}

// ticket is one open cart. Its mutex serialises every operation on the cart.
type ticket struct {
	mu        sync.Mutex
	cart      *Cart
	cashierID string
	openedAt  time.Time
	closed    bool
}

// Register keeps the open carts of the store. Carts are independent: two
// cashiers never wait on each other.
type Register struct {
	carts       sync.Map
	catalog     CatalogLookup
	sales       SaleRepository
	metrics     *Metrics
	cartOptions []CartOption
	now         func() time.Time
}

// RegisterOption configures a [Register].
type RegisterOption func(*Register)

// WithMetrics records settlements and open carts.
func WithMetrics(metrics *Metrics) RegisterOption {
	return func(register *Register) { register.metrics = metrics }
}

// WithClock replaces time.Now for sale timestamps.
func WithClock(now func() time.Time) RegisterOption {
	return func(register *Register) { register.now = now }
}

// WithCartOptions applies options to every cart the register opens.
func WithCartOptions(options ...CartOption) RegisterOption {
	return func(register *Register) { register.cartOptions = append(register.cartOptions, options...) }
}

// NewRegister wires a register to its catalog and sale store.
func NewRegister(catalog CatalogLookup, sales SaleRepository, options ...RegisterOption) *Register {
	register := &Register{catalog: catalog, sales: sales, now: time.Now}
	for _, option := range options {
		option(register)
	}
	return register
}

// # Cart Lifecycle

// Open starts an empty cart for cashierID.
func (register *Register) Open(cashierID string) CartView {
	id := uuid.New()
	entry := &ticket{cart: NewCart(register.cartOptions...), cashierID: cashierID, openedAt: register.now()}
	view := entry.view(id)

	register.carts.Store(id, entry)
	register.metrics.cartOpened()
	return view
}

// View returns the priced state of cart id.
func (register *Register) View(id string) (CartView, error) {
	return register.with(id, func(*Cart) error { return nil })
}

// Abandon discards cart id and its lines.
func (register *Register) Abandon(id string) error {
	value, found := register.carts.LoadAndDelete(id)
	if !found {
		return ErrCartNotFound
	}

	entry := value.(*ticket)
	entry.mu.Lock()
	entry.closed = true
	entry.mu.Unlock()

	register.metrics.cartClosed()
	return nil
}

// # Line Operations

/*
AddItem resolves itemID in the catalog and adds it to cart id.

Parameters:
  - context: context.Context
  - id: string (cart)
  - itemID: string

Returns:
  - CartView: Updated cart
  - error: ErrCartNotFound, ErrItemNotFound, ErrOutOfStock or lookup failures
*/
func (register *Register) AddItem(context context.Context, id, itemID string) (CartView, error) {
	if _, err := register.ticket(id); err != nil {
		return CartView{}, err
	}

	// Resolved outside the cart lock.
	item, err := register.catalog.FindItem(context, itemID)
	if err != nil {
		return CartView{}, fmt.Errorf("pos_register_add_item_lookup_failed: %w", err)
	}

	return register.with(id, func(cart *Cart) error { return cart.AddItem(*item) })
}

// Increment adds one unit of itemID to cart id, capped at stock.
func (register *Register) Increment(id, itemID string) (CartView, error) {
	return register.with(id, func(cart *Cart) error { return cart.Increment(itemID) })
}

// Decrement removes one unit of itemID from cart id, floored at one.
func (register *Register) Decrement(id, itemID string) (CartView, error) {
	return register.with(id, func(cart *Cart) error { return cart.Decrement(itemID) })
}

// Remove drops the line of itemID from cart id.
func (register *Register) Remove(id, itemID string) (CartView, error) {
	return register.with(id, func(cart *Cart) error { return cart.Remove(itemID) })
}

// Annotate sets the customer reference and notes of cart id. Nil leaves a
// field unchanged.
func (register *Register) Annotate(id string, customerID, notes *string) (CartView, error) {
	return register.with(id, func(cart *Cart) error {
		if customerID != nil {
			cart.SetCustomer(*customerID)
		}
		if notes != nil {
			cart.SetNotes(*notes)
		}
		return nil
	})
}

// # Settlement

/*
Settle closes cart id against payments and records the sale. The cart stays
open, empty, for the next customer. When recording fails the cart keeps its
lines.

Parameters:
  - context: context.Context
  - id: string (cart)
  - payments: []Payment
  - cashierID: string

Returns:
  - *Sale: The recorded sale with its number
  - error: Settlement errors of [Cart.Settle], ErrCartNotFound or storage failures
*/
func (register *Register) Settle(context context.Context, id string, payments []Payment, cashierID string) (*Sale, error) {
	entry, err := register.ticket(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.closed {
		return nil, ErrCartNotFound
	}

	// ── 1. Price on a copy ────────────────────────────────────────────────
	sale, err := entry.cart.Clone().Settle(payments, cashierID)
	if err != nil {
		return nil, err
	}
	sale.ID = uuid.New()
	sale.CreatedAt = register.now()

	// ── 2. Record ─────────────────────────────────────────────────────────
	if err := register.sales.Create(context, sale); err != nil {
		return nil, fmt.Errorf("pos_register_settle_failed: %w", err)
	}

	// ── 3. Reset ──────────────────────────────────────────────────────────
	entry.cart.Clear()
	register.metrics.settled(sale)

	ctxutil.GetLogger(context).Info("sale_settled",
		slog.String("sale_id", sale.ID),
		slog.String("number", sale.Number),
		slog.String("status", string(sale.Status)),
		slog.String("grand_total", sale.GrandTotal.String()),
	)
	return sale, nil
}

// # History

// Sales returns a page of recorded sales, newest first.
func (register *Register) Sales(context context.Context, params pagination.Params) ([]*Sale, int, error) {
	return register.sales.List(context, params)
}

// Sale returns a recorded sale with its lines and payments.
func (register *Register) Sale(context context.Context, id string) (*Sale, error) {
	return register.sales.FindByID(context, id)
}

// # Helpers

func (register *Register) ticket(id string) (*ticket, error) {
	value, found := register.carts.Load(id)
	if !found {
		return nil, ErrCartNotFound
	}
	return value.(*ticket), nil
}

// with runs mutate on cart id under its lock and returns the resulting view.
// A failed mutation still reports the current state.
func (register *Register) with(id string, mutate func(*Cart) error) (CartView, error) {
	entry, err := register.ticket(id)
	if err != nil {
		return CartView{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.closed {
		return CartView{}, ErrCartNotFound
	}

	err = mutate(entry.cart)
	return entry.view(id), err
}

// view must be called with the ticket lock held.
func (entry *ticket) view(id string) CartView {
	lines := entry.cart.Lines()
	if lines == nil {
		lines = []Line{}
	}
	return CartView{
		ID:         id,
		CashierID:  entry.cashierID,
		CustomerID: entry.cart.CustomerID(),
		Notes:      entry.cart.Notes(),
		Lines:      lines,
		Subtotal:   entry.cart.Subtotal(),
		TaxTotal:   entry.cart.TaxTotal(),
		GrandTotal: entry.cart.GrandTotal(),
		OpenedAt:   entry.openedAt,
	}
}
