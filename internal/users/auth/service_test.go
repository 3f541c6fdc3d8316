// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quinca/internal/platform/apperr"
	"github.com/taibuivan/quinca/internal/platform/constants"
	"github.com/taibuivan/quinca/internal/platform/sec"
	"github.com/taibuivan/quinca/internal/users/access"
	"github.com/taibuivan/quinca/internal/users/auth"
)

type fixture struct {
	service *auth.Service
	tokens  *sec.TokenService
	redis   *miniredis.Miniredis
}

func newFixture(t *testing.T, options ...auth.Option) fixture {
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
		options...,
	)
	return fixture{service: service, tokens: tokens, redis: mr}
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an AppError, got %v", err)
	return appError.Code
}

func TestLogin_IssuesTokens(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.Login(context.Background(), auth.LoginInput{
		Email:    "Cashier@Quinca.com ",
		Password: access.DemoPassword,
	})
	require.NoError(t, err)

	assert.False(t, result.RequiresTwoFactor)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "3", result.User.ID)
	assert.NotNil(t, result.User.LastLogin)

	claims, err := f.tokens.VerifyToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "3", claims.UserID)
	assert.Equal(t, string(sec.RoleCashier), claims.Role)
	assert.True(t, claims.Can(sec.PermissionSalesCreate))
	assert.False(t, claims.Can(sec.PermissionSettingsView))
}

func TestLogin_Rejections(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input auth.LoginInput
		code  string
	}{
		{"missing_email", auth.LoginInput{Password: "password123"}, "VALIDATION_ERROR"},
		{"missing_password", auth.LoginInput{Email: "admin@quinca.com"}, "VALIDATION_ERROR"},
		{"unknown_email", auth.LoginInput{Email: "ghost@quinca.com", Password: "password123"}, "UNAUTHORIZED"},
		{"wrong_password", auth.LoginInput{Email: "admin@quinca.com", Password: "password124"}, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.service.Login(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.code, appCode(t, err))
		})
	}
}

func TestLogin_TwoFactorStepUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, auth.LoginInput{Email: "manager@quinca.com", Password: access.DemoPassword})
	require.NoError(t, err)

	assert.True(t, result.RequiresTwoFactor)
	assert.Empty(t, result.AccessToken)
	assert.Empty(t, result.RefreshToken)
	assert.Equal(t, "2", result.User.ID)
	assert.True(t, f.redis.Exists(constants.RedisPrefixTwoFactor+"2"))

	verified, err := f.service.VerifyTwoFactor(ctx, auth.VerifyInput{UserID: "2", Code: "123456"})
	require.NoError(t, err)

	assert.False(t, verified.RequiresTwoFactor)
	assert.NotEmpty(t, verified.AccessToken)
	assert.NotEmpty(t, verified.RefreshToken)
	assert.False(t, f.redis.Exists(constants.RedisPrefixTwoFactor+"2"))
}

func TestVerifyTwoFactor_ChecksShapeBeforeChallenge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// No challenge is pending, yet malformed codes report the shape error.
	for _, code := range []string{"", "12345", "1234567", "12a456", " 123456"} {
		_, err := f.service.VerifyTwoFactor(ctx, auth.VerifyInput{UserID: "2", Code: code})
		require.Error(t, err, code)
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err), code)
		assert.Equal(t, auth.MessageInvalidCode, err.Error(), code)
	}

	_, err := f.service.VerifyTwoFactor(ctx, auth.VerifyInput{UserID: "2", Code: "123456"})
	require.Error(t, err)
	assert.Equal(t, "SESSION_EXPIRED", appCode(t, err))
	assert.Equal(t, auth.MessageSessionExpired, err.Error())
}

func TestVerifyTwoFactor_ChallengeExpires(t *testing.T) {
	f := newFixture(t, auth.WithTwoFactorTTL(time.Minute))
	ctx := context.Background()

	_, err := f.service.Login(ctx, auth.LoginInput{Email: "manager@quinca.com", Password: access.DemoPassword})
	require.NoError(t, err)

	f.redis.FastForward(2 * time.Minute)

	_, err = f.service.VerifyTwoFactor(ctx, auth.VerifyInput{UserID: "2", Code: "654321"})
	require.Error(t, err)
	assert.Equal(t, "SESSION_EXPIRED", appCode(t, err))
}

type rejectAll struct{}

func (rejectAll) Verify(context.Context, *access.User, string) (bool, error) { return false, nil }

func TestVerifyTwoFactor_RejectedCodeKeepsChallenge(t *testing.T) {
	f := newFixture(t, auth.WithCodeVerifier(rejectAll{}))
	ctx := context.Background()

	_, err := f.service.Login(ctx, auth.LoginInput{Email: "manager@quinca.com", Password: access.DemoPassword})
	require.NoError(t, err)

	_, err = f.service.VerifyTwoFactor(ctx, auth.VerifyInput{UserID: "2", Code: "000000"})
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", appCode(t, err))
	assert.True(t, f.redis.Exists(constants.RedisPrefixTwoFactor+"2"))
}

func TestRefresh_DoesNotRotate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, auth.LoginInput{Email: "admin@quinca.com", Password: access.DemoPassword})
	require.NoError(t, err)

	for range 2 {
		accessToken, err := f.service.Refresh(ctx, result.RefreshToken)
		require.NoError(t, err)

		claims, err := f.tokens.VerifyToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, "1", claims.UserID)
	}

	_, err = f.service.Refresh(ctx, "not-a-token")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", appCode(t, err))

	_, err = f.service.Refresh(ctx, "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
}

func TestLogout_RevokesAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service.Login(ctx, auth.LoginInput{Email: "admin@quinca.com", Password: access.DemoPassword})
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, result.RefreshToken))
	require.NoError(t, f.service.Logout(ctx, result.RefreshToken))
	require.NoError(t, f.service.Logout(ctx, ""))

	_, err = f.service.Refresh(ctx, result.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", appCode(t, err))
}

func TestMe(t *testing.T) {
	f := newFixture(t)

	user, err := f.service.Me(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "admin@quinca.com", user.Email)

	_, err = f.service.Me(context.Background(), "99")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appCode(t, err))
}

func TestMetrics_CountOutcomes(t *testing.T) {
	registry := prometheus.NewRegistry()
	f := newFixture(t, auth.WithMetrics(auth.NewMetrics(registry)))
	ctx := context.Background()

	_, _ = f.service.Login(ctx, auth.LoginInput{Email: "admin@quinca.com", Password: access.DemoPassword})
	_, _ = f.service.Login(ctx, auth.LoginInput{Email: "admin@quinca.com", Password: "nope"})
	_, _ = f.service.Login(ctx, auth.LoginInput{Email: "manager@quinca.com", Password: access.DemoPassword})

	families, err := registry.Gather()
	require.NoError(t, err)

	outcomes := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "quinca_auth_logins_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			outcomes[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{
		"success":             1,
		"invalid_credentials": 1,
		"two_factor_required": 1,
	}, outcomes)
}
