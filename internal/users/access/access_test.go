// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quinca/internal/platform/sec"
	"github.com/taibuivan/quinca/internal/users/access"
)

func userWithRole(name string, permissions ...access.Permission) *access.User {
	return &access.User{
		ID:     "42",
		Email:  "someone@quinca.com",
		RoleID: "9",
		Role:   &access.Role{ID: "9", Name: name, Permissions: permissions, IsActive: true},
	}
}

/*
TestHasPermission_DefaultDeny verifies that nothing is granted without an
identity or a role.
*/
func TestHasPermission_DefaultDeny(t *testing.T) {
	permissions := []string{
		sec.PermissionProductsView,
		sec.PermissionSalesCreate,
		sec.PermissionSettingsView,
		"",
		"anything.at_all",
	}

	for _, permission := range permissions {
		assert.False(t, access.HasPermission(nil, permission), permission)
		assert.False(t, access.HasPermission(&access.User{ID: "1"}, permission), permission)
	}

	assert.False(t, access.HasAnyPermission(nil, permissions...))
	assert.False(t, access.HasRole(nil, string(sec.RoleAdmin)))
	assert.False(t, access.HasAnyRole(nil, string(sec.RoleAdmin), ""))
}

/*
TestHasPermission_Cashier checks the grants of the built-in cashier.
*/
func TestHasPermission_Cashier(t *testing.T) {
	cashier := access.FindDirectoryUser(access.ByEmail("cashier@quinca.com"))
	require.NotNil(t, cashier)

	assert.True(t, access.HasPermission(cashier, sec.PermissionSalesCreate))
	assert.True(t, access.HasPermission(cashier, sec.PermissionProductsView))
	assert.False(t, access.HasPermission(cashier, sec.PermissionSettingsView))

	assert.True(t, access.HasAnyPermission(cashier, sec.PermissionSettingsView, sec.PermissionSalesView))
	assert.False(t, access.HasAnyPermission(cashier))

	assert.True(t, access.HasRole(cashier, "cashier"))
	assert.False(t, access.HasRole(cashier, "admin"))
	assert.True(t, access.HasAnyRole(cashier, "admin", "cashier"))

	assert.Equal(t, []string{"products.view", "sales.view", "sales.create"}, cashier.PermissionIDs())
}

/*
TestLandingRoute verifies the role to landing route mapping.
*/
func TestLandingRoute(t *testing.T) {
	tests := []struct {
		name string
		role string
		want string
	}{
		{"admin", "admin", access.RouteDashboard},
		{"manager", "manager", access.RouteDashboard},
		{"cashier", "cashier", access.RoutePOS},
		{"warehouse_keeper", "warehouse_keeper", access.RouteInventory},
		{"reader", "reader", access.RouteDashboard},
		{"unknown", "florist", access.RouteDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.LandingRoute(userWithRole(tt.role)))
		})
	}

	t.Run("no_role", func(t *testing.T) {
		assert.Equal(t, access.RouteDashboard, access.LandingRoute(&access.User{ID: "7"}))
	})
}

/*
TestEvaluate covers the two gating outcomes and their precedence.
*/
func TestEvaluate(t *testing.T) {
	settings := access.Permission{ID: "11", Module: "settings", Action: "view"}

	tests := []struct {
		name        string
		user        *access.User
		requirement access.Requirement
		want        access.Decision
	}{
		{
			name: "anonymous_goes_to_login",
			user: nil,
			want: access.Decision{Redirect: access.RouteLogin},
		},
		{
			name: "no_requirement_allows",
			user: userWithRole("cashier"),
			want: access.Decision{Allowed: true},
		},
		{
			name:        "missing_permission_goes_to_dashboard",
			user:        userWithRole("cashier"),
			requirement: access.Requirement{Permissions: []string{"settings.view"}},
			want:        access.Decision{Redirect: access.RouteDashboard},
		},
		{
			name:        "any_permission_allows",
			user:        userWithRole("manager", settings),
			requirement: access.Requirement{Permissions: []string{"users.view", "settings.view"}},
			want:        access.Decision{Allowed: true},
		},
		{
			name:        "wrong_role_goes_to_dashboard",
			user:        userWithRole("manager", settings),
			requirement: access.Requirement{Permissions: []string{"settings.view"}, Roles: []string{"admin"}},
			want:        access.Decision{Redirect: access.RouteDashboard},
		},
		{
			name:        "role_match_allows",
			user:        userWithRole("admin", settings),
			requirement: access.Requirement{Roles: []string{"admin", "manager"}},
			want:        access.Decision{Allowed: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.Evaluate(tt.user, tt.requirement))
		})
	}
}

/*
TestDirectoryUsers checks the built-in accounts and that callers get fresh copies.
*/
func TestDirectoryUsers(t *testing.T) {
	users := access.DirectoryUsers()
	require.Len(t, users, 3)

	admin := access.FindDirectoryUser(access.ByEmail("  ADMIN@quinca.com "))
	require.NotNil(t, admin)
	assert.Len(t, admin.Role.Permissions, 15)
	assert.False(t, admin.TwoFactorEnabled)

	manager := access.FindDirectoryUser(access.ByID("2"))
	require.NotNil(t, manager)
	assert.True(t, manager.TwoFactorEnabled)
	assert.Equal(t, "Jean Dupont", manager.FullName())

	manager.Role.Name = "tampered"
	again := access.FindDirectoryUser(access.ByID("2"))
	assert.Equal(t, "manager", again.RoleName())

	assert.Nil(t, access.FindDirectoryUser(access.ByEmail("nobody@quinca.com")))
}

/*
TestUser_Subject checks the identity embedded into access tokens.
*/
func TestUser_Subject(t *testing.T) {
	cashier := access.FindDirectoryUser(access.ByID("3"))
	subject := cashier.Subject()

	assert.Equal(t, "3", subject.UserID)
	assert.Equal(t, "cashier@quinca.com", subject.Email)
	assert.Equal(t, "cashier", subject.Role)
	assert.Equal(t, []string{"products.view", "sales.view", "sales.create"}, subject.Permissions)
}
