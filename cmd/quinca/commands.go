// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/quinca/internal/platform/sec"
	"github.com/taibuivan/quinca/internal/pos"
	"github.com/taibuivan/quinca/internal/session"
	"github.com/taibuivan/quinca/pkg/convert"
	"github.com/taibuivan/quinca/pkg/pagination"
)

var (
	errOffline      = errors.New("this command needs the API; unset QUINCA_OFFLINE")
	errNotSignedIn  = errors.New("not signed in; run quinca login")
	errUsage        = errors.New("invalid arguments; run quinca help")
	errNoPermission = errors.New("the signed-in role cannot do this")
)

type command func(ctx context.Context, args []string) error

func (terminal *terminal) commands() map[string]command {
	return map[string]command{
		"login":      terminal.login,
		"2fa":        terminal.verifyTwoFactor,
		"cancel-2fa": terminal.cancelTwoFactor,
		"whoami":     terminal.whoami,
		"refresh":    terminal.refresh,
		"logout":     terminal.logout,
		"items":      terminal.items,
		"checkout":   terminal.checkout,
		"sales":      terminal.sales,
		"sale":       terminal.sale,
	}
}

// # Session

func (terminal *terminal) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	outcome := terminal.manager.Login(ctx, session.Credentials{Email: *email, Password: *password})
	if !outcome.OK() {
		return outcome.Err
	}
	if outcome.RequiresTwoFactor {
		fmt.Fprintln(terminal.stdout, "Two-factor code required: run quinca 2fa CODE")
		return nil
	}

	terminal.printSignedIn(outcome.Destination)
	return nil
}

func (terminal *terminal) verifyTwoFactor(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	outcome := terminal.manager.VerifyTwoFactor(ctx, args[0])
	if !outcome.OK() {
		return outcome.Err
	}

	terminal.printSignedIn(outcome.Destination)
	return nil
}

func (terminal *terminal) cancelTwoFactor(ctx context.Context, _ []string) error {
	terminal.manager.CancelTwoFactor(ctx)
	fmt.Fprintln(terminal.stdout, "Two-factor sign-in abandoned")
	return nil
}

func (terminal *terminal) whoami(ctx context.Context, _ []string) error {
	user := terminal.manager.User()
	if user == nil {
		if pending := terminal.manager.PendingUser(ctx); pending != nil {
			fmt.Fprintf(terminal.stdout, "%s is waiting for a two-factor code\n", pending.Email)
			return nil
		}
		return errNotSignedIn
	}

	writer := tabwriter.NewWriter(terminal.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(writer, "Name\t%s\n", user.FullName())
	fmt.Fprintf(writer, "Email\t%s\n", user.Email)
	fmt.Fprintf(writer, "Role\t%s\n", user.RoleName())
	fmt.Fprintf(writer, "Permissions\t%s\n", strings.Join(user.PermissionIDs(), ", "))
	return writer.Flush()
}

func (terminal *terminal) refresh(ctx context.Context, _ []string) error {
	if _, err := terminal.manager.RefreshToken(ctx); err != nil {
		return err
	}
	fmt.Fprintln(terminal.stdout, "Access token renewed")
	return nil
}

func (terminal *terminal) logout(ctx context.Context, _ []string) error {
	terminal.manager.Logout(ctx)
	fmt.Fprintln(terminal.stdout, "Signed out")
	return nil
}

func (terminal *terminal) printSignedIn(destination string) {
	user := terminal.manager.User()
	fmt.Fprintf(terminal.stdout, "Signed in as %s (%s), landing on %s\n", user.FullName(), user.RoleName(), destination)
}

// # Till

func (terminal *terminal) items(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("items", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	query := fs.String("q", "", "name, code or barcode")
	page := fs.String("page", "", "page number")
	limit := fs.String("limit", "", "page size")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if err := terminal.require(sec.PermissionProductsView); err != nil {
		return err
	}

	values := pageValues(*page, *limit)
	if *query != "" {
		values.Set("q", *query)
	}

	var items []pos.CatalogItem
	meta, err := terminal.api.do(ctx, http.MethodGet, "/catalog/items?"+values.Encode(), nil, &items)
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(terminal.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tCODE\tNAME\tPRICE EXCL. TAX\tVAT %\tSTOCK")
	for _, item := range items {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%d\n",
			item.ID, item.Code, item.Name, item.UnitPriceExclTax.StringFixed(2), item.TaxRatePercent, item.AvailableStock)
	}
	printMeta(writer, meta)
	return writer.Flush()
}

/*
checkout rings up one sale in a single call sequence: open a cart, scan each
item, attach the customer and notes, then settle with the tenders.

The cart is abandoned when any step fails, so a rejected sale leaves nothing
open on the server.
*/
func (terminal *terminal) checkout(ctx context.Context, args []string) (err error) {
	var scans, tenders []string
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Func("item", "item id, optionally :quantity (repeatable)", func(value string) error {
		scans = append(scans, value)
		return nil
	})
	fs.Func("pay", "method:amount (repeatable)", func(value string) error {
		tenders = append(tenders, value)
		return nil
	})
	customer := fs.String("customer", "", "customer id")
	notes := fs.String("notes", "", "sale notes")
	if err := fs.Parse(args); err != nil || len(scans) == 0 || len(tenders) == 0 {
		return errUsage
	}
	if err := terminal.require(sec.PermissionSalesCreate); err != nil {
		return err
	}

	payments, err := parseTenders(tenders)
	if err != nil {
		return err
	}

	// ── 1. Open ─────────────────────────────────────────────────────────────
	var cart pos.CartView
	if _, err := terminal.api.do(ctx, http.MethodPost, "/pos/carts", nil, &cart); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_, _ = terminal.api.do(context.WithoutCancel(ctx), http.MethodDelete, "/pos/carts/"+cart.ID, nil, nil)
		}
	}()

	// ── 2. Scan ─────────────────────────────────────────────────────────────
	for _, scan := range scans {
		itemID, quantity := parseScan(scan)
		for range quantity {
			if _, err := terminal.api.do(ctx, http.MethodPost, "/pos/carts/"+cart.ID+"/items", map[string]string{"itemId": itemID}, &cart); err != nil {
				return fmt.Errorf("scan %s: %w", itemID, err)
			}
		}
	}

	// ── 3. Annotate ─────────────────────────────────────────────────────────
	if *customer != "" || *notes != "" {
		annotation := map[string]string{}
		if *customer != "" {
			annotation["customerId"] = *customer
		}
		if *notes != "" {
			annotation["notes"] = *notes
		}
		if _, err := terminal.api.do(ctx, http.MethodPatch, "/pos/carts/"+cart.ID, annotation, &cart); err != nil {
			return err
		}
	}

	// ── 4. Settle ───────────────────────────────────────────────────────────
	var sale pos.Sale
	if _, err := terminal.api.do(ctx, http.MethodPost, "/pos/carts/"+cart.ID+"/settle", map[string]any{"payments": payments}, &sale); err != nil {
		return err
	}

	// The server keeps the emptied cart for the next customer; this till is done with it.
	_, _ = terminal.api.do(ctx, http.MethodDelete, "/pos/carts/"+cart.ID, nil, nil)

	return terminal.printSale(&sale)
}

func (terminal *terminal) sales(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sales", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	page := fs.String("page", "", "page number")
	limit := fs.String("limit", "", "page size")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if err := terminal.require(sec.PermissionSalesView); err != nil {
		return err
	}

	var sales []pos.Sale
	meta, err := terminal.api.do(ctx, http.MethodGet, "/pos/sales?"+pageValues(*page, *limit).Encode(), nil, &sales)
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(terminal.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "NUMBER\tDATE\tCASHIER\tTOTAL\tPAID\tSTATUS")
	for _, sale := range sales {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
			sale.Number, sale.CreatedAt.Format("2006-01-02 15:04"), sale.CashierID,
			sale.GrandTotal.StringFixed(2), sale.PaidAmount.StringFixed(2), sale.Status)
	}
	printMeta(writer, meta)
	return writer.Flush()
}

func (terminal *terminal) sale(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := terminal.require(sec.PermissionSalesView); err != nil {
		return err
	}

	var sale pos.Sale
	if _, err := terminal.api.do(ctx, http.MethodGet, "/pos/sales/"+url.PathEscape(args[0]), nil, &sale); err != nil {
		return err
	}
	return terminal.printSale(&sale)
}

func (terminal *terminal) printSale(sale *pos.Sale) error {
	writer := tabwriter.NewWriter(terminal.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(writer, "Sale %s\t%s\t%s\n", sale.Number, sale.CreatedAt.Format("2006-01-02 15:04"), sale.Status)
	for _, line := range sale.Lines {
		fmt.Fprintf(writer, "  %s\t%d x %s\t%s\n", line.Item.Name, line.Quantity, line.UnitPriceExclTax.StringFixed(2), line.TotalInclTax.StringFixed(2))
	}
	fmt.Fprintf(writer, "Subtotal\t\t%s\n", sale.Subtotal.StringFixed(2))
	fmt.Fprintf(writer, "VAT\t\t%s\n", sale.TaxTotal.StringFixed(2))
	fmt.Fprintf(writer, "Total\t\t%s\n", sale.GrandTotal.StringFixed(2))
	for _, payment := range sale.Payments {
		fmt.Fprintf(writer, "  %s\t\t%s\n", payment.Method, payment.Amount.StringFixed(2))
	}
	if sale.RemainingAmount.IsPositive() {
		fmt.Fprintf(writer, "Remaining\t\t%s\n", sale.RemainingAmount.StringFixed(2))
	}
	fmt.Fprintf(writer, "Change\t\t%s\n", sale.ChangeDue.StringFixed(2))
	return writer.Flush()
}

// # Helpers

// require checks the local identity before calling the API, which enforces
// the same permissions again.
func (terminal *terminal) require(permission string) error {
	if terminal.offline {
		return errOffline
	}
	if !terminal.manager.IsAuthenticated() {
		return errNotSignedIn
	}
	if !terminal.manager.HasPermission(permission) {
		return errNoPermission
	}
	return nil
}

type tender struct {
	Method pos.PaymentMethod `json:"method"`
	Amount decimal.Decimal   `json:"amount"`
}

func parseTenders(values []string) ([]tender, error) {
	tenders := make([]tender, 0, len(values))
	for _, value := range values {
		method, amount, found := strings.Cut(value, ":")
		if !found {
			return nil, fmt.Errorf("payment %q: want METHOD:AMOUNT", value)
		}

		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("payment %q: %w", value, err)
		}
		tenders = append(tenders, tender{Method: pos.PaymentMethod(method), Amount: parsed})
	}
	return tenders, nil
}

// parseScan splits "id:quantity"; a missing or malformed quantity counts as one.
func parseScan(value string) (string, int) {
	itemID, quantity, _ := strings.Cut(value, ":")
	return itemID, max(1, convert.ToIntD(quantity, 1))
}

func pageValues(page, limit string) url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(convert.ToIntD(page, pagination.DefaultPage)))
	values.Set("limit", strconv.Itoa(convert.ToIntD(limit, pagination.DefaultLimit)))
	return values
}

func printMeta(writer io.Writer, meta *pagination.Meta) {
	if meta == nil {
		return
	}
	fmt.Fprintf(writer, "\nPage %d of %d (%d total)\n", meta.Page, max(1, meta.TotalPages), meta.Total)
}
