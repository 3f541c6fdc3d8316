// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"regexp"

	"github.com/taibuivan/quinca/internal/users/access"
)

// twoFactorCodePattern is the only accepted shape of a second-factor code.
var twoFactorCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// CodeVerifier checks a well-formed second-factor code against an account.
//
// The service has already validated the code shape and the pending challenge
// when Verify is called.
type CodeVerifier interface {
	Verify(ctx context.Context, user *access.User, code string) (bool, error)
}

// AcceptWellFormed is the default [CodeVerifier]: any six-digit code passes.
// Accounts carry a TwoFactorSecret column for a time-based verifier, which is
// not wired yet.
type AcceptWellFormed struct{}

// Verify implements [CodeVerifier].
func (AcceptWellFormed) Verify(_ context.Context, _ *access.User, code string) (bool, error) {
	return twoFactorCodePattern.MatchString(code), nil
}
