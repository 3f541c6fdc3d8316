// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import "github.com/taibuivan/quinca/internal/users/access"

// Requirement is what a protected view declares; see [access.Requirement].
type Requirement = access.Requirement

// Decision is the gating outcome; see [access.Decision].
type Decision = access.Decision

// Guard answers whether the current session may enter a view.
type Guard struct {
	manager *Manager
}

// NewGuard returns a [Guard] reading manager.
func NewGuard(manager *Manager) *Guard {
	return &Guard{manager: manager}
}

// Check redirects anonymous sessions to the login route and sessions lacking
// the required permissions or roles to the dashboard.
func (guard *Guard) Check(requirement Requirement) Decision {
	return access.Evaluate(guard.manager.User(), requirement)
}

// RequireAuthenticated is Check with an empty requirement.
func (guard *Guard) RequireAuthenticated() Decision {
	return guard.Check(Requirement{})
}
