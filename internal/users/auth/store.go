// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"
)

// ErrAccountNotFound is returned by an [AccountRepository] when no active
// account matches the lookup.
var ErrAccountNotFound = errors.New("account not found")

// ErrSessionNotFound is returned by a [SessionRepository] when the refresh
// token is unknown, revoked or expired.
var ErrSessionNotFound = errors.New("session not found")

// # Account Data Access

// AccountRepository defines the data access contract for staff accounts.
type AccountRepository interface {

	/*
		FindByEmail returns the active account with the given email, with its
		role and permissions loaded.

		Parameters:
		  - context: context.Context
		  - email: string (case-insensitive)

		Returns:
		  - *Account: Hydrated entity
		  - error: ErrAccountNotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	/*
		FindByID returns the active account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Account: Hydrated entity
		  - error: ErrAccountNotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Account, error)

	/*
		TouchLastLogin records the time of a completed authentication.

		Parameters:
		  - context: context.Context
		  - id: string
		  - at: time.Time

		Returns:
		  - error: Persistence failures
	*/
	TouchLastLogin(context context.Context, id string, at time.Time) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh sessions.
type SessionRepository interface {

	/*
		Create persists a new refresh session until its ExpiresAt.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByTokenHash returns the live session stored under tokenHash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *Session: Hydrated entity
		  - error: ErrSessionNotFound or storage failures
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	/*
		Revoke deletes the session stored under tokenHash. Revoking an unknown
		session is not an error.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, tokenHash string) error
}

// # Two-Factor Challenges

// ChallengeRepository stores the pending two-factor challenges issued after a
// successful password check.
type ChallengeRepository interface {

	/*
		Open records a pending challenge for userID, replacing any previous one.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Open(context context.Context, userID string, ttl time.Duration) error

	/*
		Pending reports whether userID has a live challenge.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - bool: true while the challenge is live
		  - error: Storage failures
	*/
	Pending(context context.Context, userID string) (bool, error)

	/*
		Close removes the challenge of userID.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	Close(context context.Context, userID string) error
}
