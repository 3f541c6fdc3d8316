// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the Quinca identity backend: credential checks,
two-factor step-up, access/refresh token issuance and revocation.

# Architecture

  - Service: Orchestrates Login, VerifyTwoFactor, Refresh, Logout and Me.
  - Repository: Accounts come from PostgreSQL or the built-in directory;
    refresh sessions and pending 2FA challenges live in Redis.
  - Security: bcrypt password hashes, RS256 access tokens carrying the role
    and permission identifiers, opaque refresh tokens stored hashed.

The wire contract mirrors what the terminal client's session manager
consumes: {user, accessToken, refreshToken, requiresTwoFactor}.
*/
package auth

import (
	"time"

	"github.com/taibuivan/quinca/internal/users/access"
)

// # Domain Entities

// Account is a staff identity together with its credential material.
type Account struct {
	*access.User
	PasswordHash string `json:"-"`
}

// Session represents an active refresh-token session.
type Session struct {
	UserID    string    `json:"userId"`
	TokenHash string    `json:"-"` // Key of the session; the raw token is never stored.
	UserAgent string    `json:"userAgent"`
	IPAddress string    `json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginResult is what a successful credential or code check hands back.
//
// When RequiresTwoFactor is true the tokens are empty: the client must call
// the verification endpoint with the user's id and a code.
type LoginResult struct {
	User              *access.User `json:"user"`
	AccessToken       string       `json:"accessToken"`
	RefreshToken      string       `json:"refreshToken"`
	RequiresTwoFactor bool         `json:"requiresTwoFactor"`
}
