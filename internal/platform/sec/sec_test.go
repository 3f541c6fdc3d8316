// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quinca/internal/platform/sec"
)

func newTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKey(key, &key.PublicKey, issuer)
}

func TestTokenService_RoundTrip(t *testing.T) {
	tokens := newTokenService(t, "quinca")

	signed, err := tokens.GenerateAccessToken(sec.AccessSubject{
		UserID:      "3",
		Email:       "cashier@quinca.com",
		Role:        string(sec.RoleCashier),
		Permissions: []string{sec.PermissionSalesCreate, sec.PermissionProductsView},
	}, time.Minute)
	require.NoError(t, err)

	claims, err := tokens.VerifyToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "3", claims.Subject)
	assert.Equal(t, "cashier@quinca.com", claims.Email)
	assert.True(t, claims.Can(sec.PermissionSalesCreate))
	assert.False(t, claims.Can(sec.PermissionUsersDelete))
	assert.True(t, claims.CanAny(sec.PermissionUsersDelete, sec.PermissionProductsView))
}

func TestTokenService_Rejects(t *testing.T) {
	tokens := newTokenService(t, "quinca")

	expired, err := tokens.GenerateAccessToken(sec.AccessSubject{UserID: "1"}, -time.Minute)
	require.NoError(t, err)

	foreign, err := newTokenService(t, "quinca").GenerateAccessToken(sec.AccessSubject{UserID: "1"}, time.Minute)
	require.NoError(t, err)

	otherIssuer, err := newTokenService(t, "elsewhere").GenerateAccessToken(sec.AccessSubject{UserID: "1"}, time.Minute)
	require.NoError(t, err)

	cases := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"foreign_key", foreign},
		{"other_issuer", otherIssuer},
		{"garbage", "not.a.jwt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tokens.VerifyToken(tc.token)
			assert.Error(t, err)
		})
	}
}

func TestAuthClaims_NilDenies(t *testing.T) {
	var claims *sec.AuthClaims
	assert.False(t, claims.Can(sec.PermissionSalesView))
	assert.False(t, claims.CanAny(sec.PermissionSalesView))
}

func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("password123")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("password123", hash))
	assert.False(t, sec.CheckPasswordHash("password124", hash))
	assert.False(t, sec.CheckPasswordHash("password123", "not-a-hash"))
}

func TestOpaqueTokens(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	assert.Len(t, first, 43)
	assert.NotEqual(t, first, second)

	assert.Equal(t, sec.HashToken(first), sec.HashToken(first))
	assert.NotEqual(t, sec.HashToken(first), sec.HashToken(second))
	assert.Len(t, sec.HashToken(first), 64)
}

func TestRoles(t *testing.T) {
	assert.True(t, sec.RoleWarehouseKeeper.Known())
	assert.False(t, sec.UserRole("janitor").Known())
	assert.Equal(t, sec.PermissionSalesCreate, sec.PermissionID("sales", "create"))
}
