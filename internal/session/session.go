// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session is the client half of Quinca authentication: it owns the
tokens and identity of one terminal, restores them across restarts, refreshes
expired access tokens and answers permission queries.

# Architecture

  - Manager: The session object. One per terminal, passed explicitly to the
    code that needs it.
  - Store: Persists the fixed keys (memory, JSON file, or Redis for terminals
    sharing a till).
  - Backend: Talks to the identity API (HTTP) or to the built-in directory.
  - Transport: An [net/http.RoundTripper] attaching bearer tokens and
    performing refresh-and-retry on 401.
  - Guard: The two gating outcomes of a protected view.

Login and VerifyTwoFactor never return errors: failures are recorded in
[State].Error and in [Outcome].Err. RefreshToken does return its error,
because a session that cannot be refreshed cannot continue.
*/
package session

import (
	"errors"
	"time"

	"github.com/taibuivan/quinca/internal/users/access"
)

// # Persisted Keys

// These names are shared with existing terminals and must not change.
const (
	KeyAccessToken  = "quinca_access_token"
	KeyRefreshToken = "quinca_refresh_token"
	KeyUser         = "quinca_user"

	// KeyPendingUser holds the identity waiting for its second factor.
	KeyPendingUser = "temp_user"
)

var allKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUser, KeyPendingUser}

// # Errors

var (
	// ErrMissingCredentials is returned when email or password is empty.
	ErrMissingCredentials = errors.New("session: email and password are required")

	// ErrInvalidCredentials is returned when the backend rejects a login.
	ErrInvalidCredentials = errors.New("session: invalid credentials")

	// ErrInvalidCode is returned for a second-factor code that is not six digits.
	ErrInvalidCode = errors.New("session: invalid 2fa code")

	// ErrSessionExpired is returned when no pending identity awaits a code, or
	// when the backend no longer knows the session.
	ErrSessionExpired = errors.New("session: session expired")

	// ErrNoRefreshToken is returned by RefreshToken when nothing is persisted.
	ErrNoRefreshToken = errors.New("session: no refresh token available")
)

// Messages shown to the operator, keyed by the error that produced them.
const (
	MessageMissingCredentials = "Email and password are required"
	MessageInvalidCredentials = "Invalid credentials"
	MessageInvalidCode        = "Invalid 2FA code"
	MessageSessionExpired     = "Session expired"
	MessageNoRefreshToken     = "No refresh token available"
	MessageLoginFailed        = "Login failed"
	MessageTwoFactorFailed    = "2FA verification failed"
)

// Message converts err into the string stored in [State].Error. Errors the
// package does not know fall back to fallback.
func Message(err error, fallback string) string {
	var apiError *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiError) && apiError.Message != "":
		return apiError.Message
	case errors.Is(err, ErrMissingCredentials):
		return MessageMissingCredentials
	case errors.Is(err, ErrInvalidCredentials):
		return MessageInvalidCredentials
	case errors.Is(err, ErrInvalidCode):
		return MessageInvalidCode
	case errors.Is(err, ErrSessionExpired):
		return MessageSessionExpired
	case errors.Is(err, ErrNoRefreshToken):
		return MessageNoRefreshToken
	default:
		return fallback
	}
}

// # Domain Types

// Credentials is a transient login attempt. It is never persisted.
type Credentials struct {
	Email    string
	Password string
}

// Tokens is the pair issued on a completed authentication.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	IssuedAt     time.Time
}

// State is the observable session record.
//
// IsAuthenticated is true exactly when User is non-nil.
type State struct {
	User            *access.User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// Outcome reports where the caller should navigate after Login,
// VerifyTwoFactor or CancelTwoFactor.
type Outcome struct {
	// Destination is empty when the operation failed.
	Destination       string
	RequiresTwoFactor bool
	Err               error
}

// OK reports whether the operation succeeded.
func (outcome Outcome) OK() bool { return outcome.Err == nil }

// LoginResponse is the payload of the login and verification contracts.
type LoginResponse struct {
	User              *access.User `json:"user"`
	AccessToken       string       `json:"accessToken"`
	RefreshToken      string       `json:"refreshToken"`
	RequiresTwoFactor bool         `json:"requiresTwoFactor"`
}
