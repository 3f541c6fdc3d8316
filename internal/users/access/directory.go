// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"slices"
	"strings"
	"time"

	"github.com/taibuivan/quinca/internal/platform/sec"
	"github.com/taibuivan/quinca/pkg/pointer"
)

// DemoPassword is the password of every account of the built-in directory.
const DemoPassword = "password123"

// directoryEpoch is the creation date reported for built-in accounts.
var directoryEpoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// catalogOfPermissions lists the grants known to the built-in directory, by id.
var catalogOfPermissions = []Permission{
	{ID: "1", Module: "products", Action: "view"},
	{ID: "2", Module: "products", Action: "create"},
	{ID: "3", Module: "products", Action: "update"},
	{ID: "4", Module: "products", Action: "delete"},
	{ID: "5", Module: "sales", Action: "view"},
	{ID: "6", Module: "sales", Action: "create"},
	{ID: "7", Module: "purchases", Action: "view"},
	{ID: "8", Module: "purchases", Action: "create"},
	{ID: "9", Module: "inventory", Action: "view"},
	{ID: "10", Module: "inventory", Action: "transfer"},
	{ID: "11", Module: "settings", Action: "view"},
	{ID: "12", Module: "settings", Action: "update"},
	{ID: "13", Module: "users", Action: "view"},
	{ID: "14", Module: "users", Action: "create"},
	{ID: "15", Module: "reports", Action: "view"},
}

func grants(ids ...string) []Permission {
	selected := make([]Permission, 0, len(ids))
	for _, permission := range catalogOfPermissions {
		if slices.Contains(ids, permission.ID) {
			selected = append(selected, permission)
		}
	}
	return selected
}

// DirectoryUsers returns the built-in demo accounts: an administrator, a
// manager with two-factor verification enabled, and a cashier.
//
// Every call returns fresh values, so callers may mutate them freely.
func DirectoryUsers() []*User {
	return []*User{
		{
			ID:        "1",
			Email:     "admin@quinca.com",
			FirstName: "Admin",
			LastName:  "System",
			Phone:     pointer.To("+229 12345678"),
			RoleID:    "1",
			Role: &Role{
				ID:          "1",
				Name:        string(sec.RoleAdmin),
				DisplayName: "Administrateur",
				Permissions: grants("1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14", "15"),
				IsActive:    true,
			},
			IsActive:  true,
			CreatedAt: directoryEpoch,
			UpdatedAt: directoryEpoch,
		},
		{
			ID:        "2",
			Email:     "manager@quinca.com",
			FirstName: "Jean",
			LastName:  "Dupont",
			Phone:     pointer.To("+229 87654321"),
			RoleID:    "2",
			Role: &Role{
				ID:          "2",
				Name:        string(sec.RoleManager),
				DisplayName: "Manager",
				Permissions: grants("1", "2", "3", "5", "6", "7", "8", "9", "10", "15"),
				IsActive:    true,
			},
			IsActive:         true,
			TwoFactorEnabled: true,
			CreatedAt:        directoryEpoch,
			UpdatedAt:        directoryEpoch,
		},
		{
			ID:        "3",
			Email:     "cashier@quinca.com",
			FirstName: "Marie",
			LastName:  "Kouassi",
			Phone:     pointer.To("+229 11223344"),
			RoleID:    "3",
			Role: &Role{
				ID:          "3",
				Name:        string(sec.RoleCashier),
				DisplayName: "Caissier",
				Permissions: grants("1", "5", "6"),
				IsActive:    true,
			},
			IsActive:  true,
			CreatedAt: directoryEpoch,
			UpdatedAt: directoryEpoch,
		},
	}
}

// FindDirectoryUser looks up a built-in account by email (case-insensitive)
// or by id. It returns nil when nothing matches.
func FindDirectoryUser(match func(user *User) bool) *User {
	for _, user := range DirectoryUsers() {
		if match(user) {
			return user
		}
	}
	return nil
}

// ByEmail matches an account by email, ignoring case and surrounding blanks.
func ByEmail(email string) func(user *User) bool {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return func(user *User) bool {
		return strings.ToLower(user.Email) == normalized
	}
}

// ByID matches an account by id.
func ByID(id string) func(user *User) bool {
	return func(user *User) bool {
		return user.ID == id
	}
}
