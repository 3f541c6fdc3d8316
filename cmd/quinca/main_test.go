// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quinca/internal/api"
	"github.com/taibuivan/quinca/internal/catalog"
	"github.com/taibuivan/quinca/internal/platform/config"
	"github.com/taibuivan/quinca/internal/platform/constants"
	"github.com/taibuivan/quinca/internal/platform/sec"
	"github.com/taibuivan/quinca/internal/pos"
	"github.com/taibuivan/quinca/internal/users/access"
	"github.com/taibuivan/quinca/internal/users/auth"
)

// startAPI serves the API over miniredis and in-memory stores and points the
// client environment at it.
func startAPI(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKey(key, &key.PublicKey, constants.AuthIssuer)

	authService := auth.NewService(auth.NewDirectoryRepository(), auth.NewSessionRepository(client), auth.NewChallengeRepository(client), tokens)
	catalogService := catalog.NewService(catalog.NewMemoryRepository(catalog.DemoItems()...))
	register := pos.NewRegister(catalogService, pos.NewMemorySaleRepository())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := api.NewServer(ctx, &config.Config{Environment: "development"}, logger, tokens, api.Handlers{
		Auth:    auth.NewHandler(authService),
		Catalog: catalog.NewHandler(catalogService),
		POS:     pos.NewHandler(register),
	})

	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)

	t.Setenv("QUINCA_API_URL", httpServer.URL)
	t.Setenv("QUINCA_STATE_FILE", filepath.Join(t.TempDir(), "session.json"))
	t.Setenv("QUINCA_OFFLINE", "false")
}

// invoke runs one command the way a fresh process would.
func invoke(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_TillDay(t *testing.T) {
	startAPI(t)

	code, _, stderr := invoke(t, "items")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, errNotSignedIn.Error())

	code, stdout, _ := invoke(t, "login", "-email", "cashier@quinca.com", "-password", access.DemoPassword)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Signed in as Marie Kouassi")
	assert.Contains(t, stdout, access.RoutePOS)

	code, stdout, _ = invoke(t, "whoami")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "cashier@quinca.com")
	assert.Contains(t, stdout, sec.PermissionSalesCreate)

	code, stdout, _ = invoke(t, "items", "-q", "clous")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Clous 10cm (1kg)")
	assert.NotContains(t, stdout, "Ciment")

	code, stdout, stderr = invoke(t, "checkout", "-item", "3:3", "-pay", "cash:60000")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "SO-")
	assert.Contains(t, stdout, "53100.00")
	assert.Contains(t, stdout, "6900.00")

	code, _, stderr = invoke(t, "checkout", "-item", "3", "-pay", "cash:100")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "INSUFFICIENT_PAYMENT")

	code, stdout, _ = invoke(t, "sales")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "paid")
	assert.Contains(t, stdout, "(1 total)")

	code, _, _ = invoke(t, "refresh")
	assert.Equal(t, 0, code)

	code, stdout, _ = invoke(t, "logout")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Signed out")

	code, _, _ = invoke(t, "whoami")
	assert.Equal(t, 1, code)
}

func TestRun_OfflineTwoFactor(t *testing.T) {
	t.Setenv("QUINCA_STATE_FILE", filepath.Join(t.TempDir(), "session.json"))
	t.Setenv("QUINCA_OFFLINE", "true")

	code, stdout, _ := invoke(t, "login", "-email", "manager@quinca.com", "-password", access.DemoPassword)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Two-factor code required")

	code, stdout, _ = invoke(t, "whoami")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "waiting for a two-factor code")

	code, _, _ = invoke(t, "2fa", "12ab56")
	assert.Equal(t, 1, code)

	code, stdout, _ = invoke(t, "2fa", "123456")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, access.RouteDashboard)

	code, _, stderr := invoke(t, "items")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, errOffline.Error())
}

func TestRun_SharedTerminalState(t *testing.T) {
	startAPI(t)
	state := miniredis.RunT(t)
	t.Setenv("QUINCA_REDIS_URL", "redis://"+state.Addr())
	t.Setenv("QUINCA_TERMINAL_ID", "till-7")

	code, _, stderr := invoke(t, "login", "-email", "cashier@quinca.com", "-password", access.DemoPassword)
	require.Equal(t, 0, code, stderr)
	assert.True(t, state.Exists("terminal:till-7"))

	// A different state file does not matter once the session lives in Redis.
	t.Setenv("QUINCA_STATE_FILE", filepath.Join(t.TempDir(), "other.json"))
	code, stdout, _ := invoke(t, "whoami")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "cashier@quinca.com")

	t.Setenv("QUINCA_TERMINAL_ID", "till-8")
	code, _, _ = invoke(t, "whoami")
	assert.Equal(t, 1, code)
}

func TestRun_Usage(t *testing.T) {
	cases := []struct {
		name string
		args []string
		code int
	}{
		{"no_command", nil, 2},
		{"help", []string{"help"}, 0},
		{"unknown_command", []string{"frobnicate"}, 2},
		{"bad_login_flag", []string{"login", "-pin", "1"}, 1},
	}

	t.Setenv("QUINCA_STATE_FILE", filepath.Join(t.TempDir(), "session.json"))
	t.Setenv("QUINCA_OFFLINE", "true")

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, _ := invoke(t, tc.args...)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestParseScan(t *testing.T) {
	cases := []struct {
		value    string
		itemID   string
		quantity int
	}{
		{"3", "3", 1},
		{"3:4", "3", 4},
		{"3:x", "3", 1},
		{"3:-2", "3", 1},
	}

	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			itemID, quantity := parseScan(tc.value)
			assert.Equal(t, tc.itemID, itemID)
			assert.Equal(t, tc.quantity, quantity)
		})
	}
}
