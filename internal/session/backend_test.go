// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quinca/internal/platform/constants"
	"github.com/taibuivan/quinca/internal/platform/middleware"
	"github.com/taibuivan/quinca/internal/platform/sec"
	"github.com/taibuivan/quinca/internal/session"
	"github.com/taibuivan/quinca/internal/users/access"
	"github.com/taibuivan/quinca/internal/users/auth"
)

// identityAPI serves the real identity routes over miniredis and the
// built-in directory.
func identityAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKey(key, &key.PublicKey, constants.AuthIssuer)

	service := auth.NewService(
		auth.NewDirectoryRepository(),
		auth.NewSessionRepository(client),
		auth.NewChallengeRepository(client),
		tokens,
	)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount("/api/v1/auth", auth.NewHandler(service).Routes())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestHTTPBackend_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	server := identityAPI(t)

	store := session.NewMemoryStore()
	manager := session.NewManager(store, session.NewHTTPBackend(server.URL, server.Client()))

	outcome := manager.Login(ctx, session.Credentials{Email: "manager@quinca.com", Password: access.DemoPassword})
	require.NoError(t, outcome.Err)
	require.True(t, outcome.RequiresTwoFactor)
	assert.False(t, manager.IsAuthenticated())

	outcome = manager.VerifyTwoFactor(ctx, "135790")
	require.NoError(t, outcome.Err)
	assert.Equal(t, access.RouteDashboard, outcome.Destination)
	assert.True(t, manager.HasPermission(sec.PermissionReportsView))

	refreshed, err := manager.RefreshToken(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed)
	assert.Equal(t, refreshed, manager.Token(ctx))

	refreshToken, _, err := store.Get(ctx, session.KeyRefreshToken)
	require.NoError(t, err)

	manager.Logout(ctx)

	// The server revoked the token as part of the logout.
	_, err = session.NewHTTPBackend(server.URL, server.Client()).Refresh(ctx, refreshToken)
	assert.ErrorIs(t, err, session.ErrSessionExpired)
}

func TestHTTPBackend_ErrorMapping(t *testing.T) {
	ctx := context.Background()
	server := identityAPI(t)
	backend := session.NewHTTPBackend(server.URL, server.Client())

	_, err := backend.Login(ctx, session.Credentials{Email: "admin@quinca.com", Password: "nope"})
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)
	assert.Equal(t, session.MessageInvalidCredentials, session.Message(err, ""))

	var apiError *session.APIError
	require.ErrorAs(t, err, &apiError)
	assert.Equal(t, 401, apiError.StatusCode)

	_, err = backend.VerifyTwoFactor(ctx, "2", "123456")
	assert.ErrorIs(t, err, session.ErrSessionExpired)

	_, err = backend.VerifyTwoFactor(ctx, "2", "12")
	assert.ErrorIs(t, err, session.ErrInvalidCode)
}

func TestDirectoryBackend(t *testing.T) {
	ctx := context.Background()
	backend := session.NewDirectoryBackend()

	_, err := backend.Login(ctx, session.Credentials{Email: "admin@quinca.com", Password: "password124"})
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)

	response, err := backend.Login(ctx, session.Credentials{Email: "manager@quinca.com", Password: access.DemoPassword})
	require.NoError(t, err)
	assert.True(t, response.RequiresTwoFactor)
	assert.Empty(t, response.AccessToken)

	response, err = backend.VerifyTwoFactor(ctx, "2", "999999")
	require.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)
	assert.NotEqual(t, response.AccessToken, response.RefreshToken)

	first, err := backend.Refresh(ctx, response.RefreshToken)
	require.NoError(t, err)
	second, err := backend.Refresh(ctx, response.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestGuard(t *testing.T) {
	ctx := context.Background()
	manager := session.NewManager(session.NewMemoryStore(), session.NewDirectoryBackend())
	guard := session.NewGuard(manager)

	settings := session.Requirement{Permissions: []string{sec.PermissionSettingsView}}
	pos := session.Requirement{Permissions: []string{sec.PermissionSalesCreate}, Roles: []string{string(sec.RoleCashier)}}

	assert.Equal(t, session.Decision{Redirect: access.RouteLogin}, guard.RequireAuthenticated())
	assert.Equal(t, session.Decision{Redirect: access.RouteLogin}, guard.Check(pos))

	require.NoError(t, manager.Login(ctx, session.Credentials{Email: "cashier@quinca.com", Password: access.DemoPassword}).Err)

	assert.True(t, guard.RequireAuthenticated().Allowed)
	assert.True(t, guard.Check(pos).Allowed)
	assert.Equal(t, session.Decision{Redirect: access.RouteDashboard}, guard.Check(settings))
}
