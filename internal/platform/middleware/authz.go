// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/taibuivan/quinca/internal/platform/apperr"
	"github.com/taibuivan/quinca/internal/platform/constants"
	"github.com/taibuivan/quinca/internal/platform/ctxutil"
	"github.com/taibuivan/quinca/internal/platform/respond"
	"github.com/taibuivan/quinca/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// Declaring it here decouples the middleware from the token service so that
// handler tests can inject a stub.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, verify the JWT via [TokenVerifier]. An invalid or expired
//     token is a 401, which is the signal the terminal client reacts to by
//     refreshing.
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(token)
			if err != nil {
				respond.Error(writer, request, apperr.SessionExpired("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			recordIdentity(request.Context(), claims.UserID)
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequirePermission blocks requests whose token does not carry the given
// permission identifier. It implies [RequireAuth].
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission admits a request holding at least one of the
// permission identifiers. An empty list admits every authenticated request.
func RequireAnyPermission(permissions ...string) func(http.Handler) http.Handler {
	return gate(func(claims *sec.AuthClaims) bool {
		return len(permissions) == 0 || claims.CanAny(permissions...)
	})
}

// RequireAnyRole admits a request whose role is one of the given roles.
func RequireAnyRole(roles ...sec.UserRole) func(http.Handler) http.Handler {
	return gate(func(claims *sec.AuthClaims) bool {
		return slices.Contains(roles, sec.UserRole(claims.Role))
	})
}

// gate turns a claims predicate into a middleware: 401 when anonymous,
// 403 when the predicate rejects the caller.
func gate(allowed func(claims *sec.AuthClaims) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !allowed(claims) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
