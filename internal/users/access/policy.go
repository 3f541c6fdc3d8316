// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"slices"

	"github.com/taibuivan/quinca/internal/platform/sec"
)

// # Navigation Targets

const (
	RouteLogin     = "/login"
	RouteTwoFactor = "/2fa"
	RouteDashboard = "/dashboard"
	RoutePOS       = "/sales/pos"
	RouteInventory = "/inventory"
)

// # Permission Evaluation

// HasPermission reports whether the user's role grants permission. A nil user
// or a user without a role is denied.
func HasPermission(user *User, permission string) bool {
	if user == nil || user.Role == nil {
		return false
	}
	for _, granted := range user.Role.Permissions {
		if granted.Identifier() == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the user holds at least one of permissions.
// An empty list is denied.
func HasAnyPermission(user *User, permissions ...string) bool {
	for _, permission := range permissions {
		if HasPermission(user, permission) {
			return true
		}
	}
	return false
}

// HasRole reports whether the user's role name equals role.
func HasRole(user *User, role string) bool {
	name := user.RoleName()
	return name != "" && name == role
}

// HasAnyRole reports whether the user's role is one of roles.
func HasAnyRole(user *User, roles ...string) bool {
	name := user.RoleName()
	return name != "" && slices.Contains(roles, name)
}

// LandingRoute returns where a freshly authenticated user is sent.
//
// Administrators and managers land on the dashboard, cashiers on the point of
// sale, warehouse keepers on inventory. Any other role, including an unknown
// one, lands on the dashboard.
func LandingRoute(user *User) string {
	switch sec.UserRole(user.RoleName()) {
	case sec.RoleAdmin, sec.RoleManager:
		return RouteDashboard
	case sec.RoleCashier:
		return RoutePOS
	case sec.RoleWarehouseKeeper:
		return RouteInventory
	default:
		return RouteDashboard
	}
}

// # View Gating

// Requirement is what a protected view declares. Both lists are "any of";
// an empty list imposes nothing.
type Requirement struct {
	Permissions []string
	Roles       []string
}

// Decision is the outcome of [Evaluate]. When Allowed is false, Redirect names
// the route the caller must navigate to instead.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Evaluate applies a view requirement to the current user.
//
//   - unauthenticated (nil user) → redirect to the login route;
//   - missing every required permission → redirect to the dashboard;
//   - role not among the required roles → redirect to the dashboard;
//   - otherwise allowed.
//
// Permissions are checked before roles.
func Evaluate(user *User, requirement Requirement) Decision {
	if user == nil {
		return Decision{Redirect: RouteLogin}
	}

	if len(requirement.Permissions) > 0 && !HasAnyPermission(user, requirement.Permissions...) {
		return Decision{Redirect: RouteDashboard}
	}

	if len(requirement.Roles) > 0 && !HasAnyRole(user, requirement.Roles...) {
		return Decision{Redirect: RouteDashboard}
	}

	return Decision{Allowed: true}
}
