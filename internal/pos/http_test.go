// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pos_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quinca/internal/platform/constants"
	"github.com/taibuivan/quinca/internal/platform/middleware"
	"github.com/taibuivan/quinca/internal/platform/sec"
	"github.com/taibuivan/quinca/internal/pos"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

type harness struct {
	router  http.Handler
	cashier string
	viewer  string
}

func newHarness(t *testing.T) harness {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKey(key, &key.PublicKey, constants.AuthIssuer)

	register := pos.NewRegister(hardware(), pos.NewMemorySaleRepository())
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount("/api/v1/pos", pos.NewHandler(register).Routes())

	issue := func(subject sec.AccessSubject) string {
		token, err := tokens.GenerateAccessToken(subject, time.Minute)
		require.NoError(t, err)
		return token
	}

	return harness{
		router: router,
		cashier: issue(sec.AccessSubject{
			UserID:      "3",
			Email:       "cashier@quinca.com",
			Role:        string(sec.RoleCashier),
			Permissions: []string{sec.PermissionProductsView, sec.PermissionSalesView, sec.PermissionSalesCreate},
		}),
		viewer: issue(sec.AccessSubject{
			UserID:      "9",
			Email:       "auditor@quinca.com",
			Role:        "auditor",
			Permissions: []string{sec.PermissionSalesView},
		}),
	}
}

func (h harness) do(t *testing.T, method, path string, body any, bearer string) (int, envelope) {
	t.Helper()

	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}

	request := httptest.NewRequest(method, path, &reader)
	request.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		request.Header.Set("Authorization", "Bearer "+bearer)
	}

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, request)

	var decoded envelope
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder.Code, decoded
}

func TestHandler_CheckoutFlow(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodPost, "/api/v1/pos/carts", nil, h.cashier)
	require.Equal(t, http.StatusCreated, status)

	var cart pos.CartView
	require.NoError(t, json.Unmarshal(body.Data, &cart))
	assert.Equal(t, "3", cart.CashierID)
	base := "/api/v1/pos/carts/" + cart.ID

	status, _ = h.do(t, http.MethodPost, base+"/items", map[string]string{"itemId": "hammer"}, h.cashier)
	require.Equal(t, http.StatusOK, status)
	status, _ = h.do(t, http.MethodPost, base+"/lines/hammer/increment", nil, h.cashier)
	require.Equal(t, http.StatusOK, status)
	status, body = h.do(t, http.MethodPost, base+"/lines/hammer/increment", nil, h.cashier)
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, json.Unmarshal(body.Data, &cart))
	assertAmount(t, "53100", cart.GrandTotal)

	status, body = h.do(t, http.MethodPost, base+"/settle",
		map[string]any{"payments": []map[string]any{{"method": "cash", "amount": 50000}}}, h.cashier)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INSUFFICIENT_PAYMENT", body.Code)

	status, body = h.do(t, http.MethodPost, base+"/settle",
		map[string]any{"payments": []map[string]any{{"method": "cash", "amount": "60000"}}}, h.cashier)
	require.Equal(t, http.StatusCreated, status)

	var sale pos.Sale
	require.NoError(t, json.Unmarshal(body.Data, &sale))
	assert.Equal(t, "3", sale.CashierID)
	assert.Regexp(t, `^SO-\d{4}-0001$`, sale.Number)
	assertAmount(t, "6900", sale.ChangeDue)

	status, body = h.do(t, http.MethodGet, "/api/v1/pos/sales?page=1&limit=10", nil, h.viewer)
	require.Equal(t, http.StatusOK, status)
	var history []pos.Sale
	require.NoError(t, json.Unmarshal(body.Data, &history))
	require.Len(t, history, 1)
	assert.Contains(t, string(body.Meta), `"total":1`)

	status, body = h.do(t, http.MethodGet, "/api/v1/pos/sales/"+sale.ID, nil, h.viewer)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &sale))
	require.Len(t, sale.Payments, 1)

	status, _ = h.do(t, http.MethodDelete, base, nil, h.cashier)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestHandler_Errors(t *testing.T) {
	h := newHarness(t)

	_, body := h.do(t, http.MethodPost, "/api/v1/pos/carts", nil, h.cashier)
	var cart pos.CartView
	require.NoError(t, json.Unmarshal(body.Data, &cart))
	base := "/api/v1/pos/carts/" + cart.ID

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		bearer string
		status int
		code   string
	}{
		{"anonymous", http.MethodPost, "/api/v1/pos/carts", nil, "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"viewer_cannot_sell", http.MethodPost, "/api/v1/pos/carts", nil, h.viewer, http.StatusForbidden, "FORBIDDEN"},
		{"unknown_cart", http.MethodGet, "/api/v1/pos/carts/missing", nil, h.cashier, http.StatusNotFound, "NOT_FOUND"},
		{"unknown_item", http.MethodPost, base + "/items", map[string]string{"itemId": "drill"}, h.cashier, http.StatusNotFound, "NOT_FOUND"},
		{"missing_item_id", http.MethodPost, base + "/items", map[string]string{}, h.cashier, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"out_of_stock", http.MethodPost, base + "/items", map[string]string{"itemId": "empty"}, h.cashier, http.StatusUnprocessableEntity, "OUT_OF_STOCK"},
		{"unknown_line", http.MethodDelete, base + "/lines/hammer", nil, h.cashier, http.StatusNotFound, "NOT_FOUND"},
		{"empty_cart", http.MethodPost, base + "/settle", map[string]any{"payments": []any{}}, h.cashier, http.StatusUnprocessableEntity, "EMPTY_CART"},
		{"unknown_field", http.MethodPatch, base, map[string]string{"discount": "100"}, h.cashier, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := h.do(t, tc.method, tc.path, tc.body, tc.bearer)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestHandler_UnknownPaymentMethod(t *testing.T) {
	h := newHarness(t)

	_, body := h.do(t, http.MethodPost, "/api/v1/pos/carts", nil, h.cashier)
	var cart pos.CartView
	require.NoError(t, json.Unmarshal(body.Data, &cart))
	base := "/api/v1/pos/carts/" + cart.ID

	status, _ := h.do(t, http.MethodPost, base+"/items", map[string]string{"itemId": "nails"}, h.cashier)
	require.Equal(t, http.StatusOK, status)

	status, body = h.do(t, http.MethodPost, base+"/settle",
		map[string]any{"payments": []map[string]any{{"method": "voucher", "amount": 100}}}, h.cashier)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)

	status, body = h.do(t, http.MethodGet, base, nil, h.cashier)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &cart))
	assert.Len(t, cart.Lines, 1)
}

func TestHandler_CardOverpaymentRefused(t *testing.T) {
	h := newHarness(t)

	_, body := h.do(t, http.MethodPost, "/api/v1/pos/carts", nil, h.cashier)
	var cart pos.CartView
	require.NoError(t, json.Unmarshal(body.Data, &cart))
	base := "/api/v1/pos/carts/" + cart.ID

	status, _ := h.do(t, http.MethodPost, base+"/items", map[string]string{"itemId": "nails"}, h.cashier)
	require.Equal(t, http.StatusOK, status)

	status, body = h.do(t, http.MethodPost, base+"/settle",
		map[string]any{"payments": []map[string]any{{"method": "card", "amount": 100}}}, h.cashier)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "OVERPAYMENT", body.Code)

	status, body = h.do(t, http.MethodGet, base, nil, h.cashier)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &cart))
	assert.Len(t, cart.Lines, 1)
}
