// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access defines the identity model shared by the Quinca API and its
terminal client: accounts, roles and the permissions they grant.

# Architecture

This package is a leaf. It has no storage and no transport; it only answers
questions about an identity that somebody else loaded:

  - HasPermission / HasAnyPermission / HasRole / HasAnyRole (default-deny),
  - LandingRoute (where a freshly authenticated user goes),
  - Evaluate (the two gating outcomes of a protected view).

The identity backend and the session manager both build on it, which keeps
the permission vocabulary identical on both sides of the wire.
*/
package access

import (
	"time"

	"github.com/taibuivan/quinca/internal/platform/sec"
)

// # Domain Entities

// Permission is a single grant. Its identifier is Module + "." + Action.
type Permission struct {
	ID       string `json:"id"`
	Module   string `json:"module"`
	Action   string `json:"action"`
	Resource string `json:"resource,omitempty"`
}

// Identifier returns the "<module>.<action>" form used by permission checks.
func (permission Permission) Identifier() string {
	return sec.PermissionID(permission.Module, permission.Action)
}

// Role groups an ordered set of permissions under a machine name.
type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Permissions []Permission `json:"permissions"`
	IsActive    bool         `json:"isActive"`
}

// User is an account of the store staff.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Phone            *string    `json:"phone,omitempty"`
	RoleID           string     `json:"roleId"`
	Role             *Role      `json:"role,omitempty"`
	IsActive         bool       `json:"isActive"`
	TwoFactorEnabled bool       `json:"twoFactorEnabled"`
	TwoFactorSecret  *string    `json:"-"` // Never leaves the server.
	LastLogin        *time.Time `json:"lastLogin,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// FullName joins first and last name.
func (user *User) FullName() string {
	if user.LastName == "" {
		return user.FirstName
	}
	return user.FirstName + " " + user.LastName
}

// RoleName returns the machine name of the user's role, or "" when the user
// or its role is absent.
func (user *User) RoleName() string {
	if user == nil || user.Role == nil {
		return ""
	}
	return user.Role.Name
}

// PermissionIDs returns the permission identifiers of the user's role, in
// role order.
func (user *User) PermissionIDs() []string {
	if user == nil || user.Role == nil {
		return nil
	}
	identifiers := make([]string, 0, len(user.Role.Permissions))
	for _, permission := range user.Role.Permissions {
		identifiers = append(identifiers, permission.Identifier())
	}
	return identifiers
}

// Subject converts the user into the identity embedded in an access token.
func (user *User) Subject() sec.AccessSubject {
	return sec.AccessSubject{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.RoleName(),
		Permissions: user.PermissionIDs(),
	}
}

// # Field Identifiers

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldUserID   = "userId"
	FieldCode     = "code"
)
