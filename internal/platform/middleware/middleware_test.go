// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/quinca/internal/platform/ctxutil"
	"github.com/taibuivan/quinca/internal/platform/middleware"
	"github.com/taibuivan/quinca/internal/platform/sec"
)

type stubVerifier map[string]*sec.AuthClaims

func (verifier stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if claims, found := verifier[token]; found {
		return claims, nil
	}
	return nil, errors.New("bad token")
}

type environment bool

func (development environment) IsDevelopment() bool { return bool(development) }

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

func TestAuthorization(t *testing.T) {
	verifier := stubVerifier{
		"cashier": {UserID: "3", Role: string(sec.RoleCashier), Permissions: []string{sec.PermissionSalesCreate}},
	}

	cases := []struct {
		name   string
		header string
		gate   func(http.Handler) http.Handler
		status int
		code   string
	}{
		{"anonymous_passes_through", "", func(next http.Handler) http.Handler { return next }, http.StatusOK, ""},
		{"anonymous_blocked", "", middleware.RequireAuth, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"malformed_header", "Token cashier", middleware.RequireAuth, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"expired_token", "Bearer stale", middleware.RequireAuth, http.StatusUnauthorized, "SESSION_EXPIRED"},
		{"authenticated", "Bearer cashier", middleware.RequireAuth, http.StatusOK, ""},
		{"permission_granted", "Bearer cashier", middleware.RequirePermission(sec.PermissionSalesCreate), http.StatusOK, ""},
		{"permission_missing", "Bearer cashier", middleware.RequirePermission(sec.PermissionUsersDelete), http.StatusForbidden, "FORBIDDEN"},
		{"any_permission", "Bearer cashier", middleware.RequireAnyPermission(sec.PermissionUsersDelete, sec.PermissionSalesCreate), http.StatusOK, ""},
		{"role_granted", "Bearer cashier", middleware.RequireAnyRole(sec.RoleAdmin, sec.RoleCashier), http.StatusOK, ""},
		{"role_missing", "Bearer cashier", middleware.RequireAnyRole(sec.RoleAdmin), http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := middleware.Authenticate(verifier)(tc.gate(okHandler))

			request := httptest.NewRequest(http.MethodGet, "/api/v1/pos/sales", nil)
			if tc.header != "" {
				request.Header.Set("Authorization", tc.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tc.status, recorder.Code)
			if tc.code != "" {
				assert.Contains(t, recorder.Body.String(), tc.code)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	t.Run("minted", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))
	})

	t.Run("propagated", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Request-ID", "till-7-0001")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, "till-7-0001", seen)
		assert.Equal(t, "till-7-0001", recorder.Header().Get("X-Request-ID"))
	})
}

func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := middleware.PanicRecovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("drawer jammed")
	}))

	recorder := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestCORS(t *testing.T) {
	cases := []struct {
		name        string
		development bool
		origin      string
		allowed     bool
	}{
		{"development_any_origin", true, "http://localhost:4200", true},
		{"production_domain", false, "https://pos.quinca.app", true},
		{"production_extra_origin", false, "https://backoffice.example.com", true},
		{"production_foreign_origin", false, "https://evil.example.com", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := middleware.CORS(environment(tc.development), []string{"https://backoffice.example.com"})(okHandler)

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Origin", tc.origin)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			if tc.allowed {
				assert.Equal(t, tc.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestCredentialThrottle(t *testing.T) {
	handler := middleware.CredentialThrottle(2, time.Minute)(okHandler)

	statuses := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		request.Header.Set("X-Real-IP", "10.0.0.7")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, middleware.ParseOrigins(" https://a.example, ,https://b.example "))
	assert.Nil(t, middleware.ParseOrigins(""))
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.4")
	assert.Equal(t, "198.51.100.4", middleware.RealIP(request))
}
