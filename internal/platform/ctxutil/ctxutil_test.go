// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quinca/internal/platform/ctxutil"
	"github.com/taibuivan/quinca/internal/platform/sec"
)

func TestEmptyContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, ctxutil.GetRequestID(ctx))
	assert.Same(t, slog.Default(), ctxutil.GetLogger(ctx))
	assert.Nil(t, ctxutil.GetAuthUser(ctx))
}

func TestValuesAreIndependent(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	claims := &sec.AuthClaims{
		UserID:      "3",
		Role:        string(sec.RoleCashier),
		Permissions: []string{sec.PermissionSalesCreate},
	}

	ctx := ctxutil.WithRequestID(context.Background(), "req-1")
	ctx = ctxutil.WithLogger(ctx, logger)
	ctx = ctxutil.WithAuthUser(ctx, claims)

	assert.Equal(t, "req-1", ctxutil.GetRequestID(ctx))
	assert.Same(t, logger, ctxutil.GetLogger(ctx))

	retrieved := ctxutil.GetAuthUser(ctx)
	require.NotNil(t, retrieved)
	assert.True(t, retrieved.Can(sec.PermissionSalesCreate))
	assert.False(t, retrieved.Can(sec.PermissionSettingsUpdate))

	// A plain string key with the same spelling does not collide.
	shadowed := context.WithValue(ctx, "request_id", "other") //nolint:staticcheck
	assert.Equal(t, "req-1", ctxutil.GetRequestID(shadowed))
}

func TestNilLoggerFallsBack(t *testing.T) {
	ctx := ctxutil.WithLogger(context.Background(), nil)
	assert.Same(t, slog.Default(), ctxutil.GetLogger(ctx))
}
