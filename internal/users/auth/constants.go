// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the duration a refresh session remains valid.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random refresh token.
	RefreshTokenLength = 32

	// DefaultTwoFactorTTL bounds a pending challenge when none is configured.
	DefaultTwoFactorTTL = 5 * time.Minute
)

// # Client Messages

// These strings are shown verbatim by the terminals.
const (
	MessageInvalidCredentials = "Invalid credentials"
	MessageSessionExpired     = "Session expired"
	MessageInvalidCode        = "Invalid 2FA code"
	MessageInvalidRefresh     = "Invalid or expired refresh token"
)
