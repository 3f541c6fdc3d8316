// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds the table and column identifiers of the PostgreSQL
// schemas, so repositories build their SQL from one source of truth.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table            string
	ID               string
	Email            string
	Password         string
	FirstName        string
	LastName         string
	Phone            string
	RoleID           string
	IsActive         string
	TwoFactorEnabled string
	TwoFactorSecret  string
	LastLoginAt      string
	CreatedAt        string
	UpdatedAt        string
	DeletedAt        string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:            "users.account",
	ID:               "id",
	Email:            "email",
	Password:         "passwordhash",
	FirstName:        "firstname",
	LastName:         "lastname",
	Phone:            "phone",
	RoleID:           "roleid",
	IsActive:         "isactive",
	TwoFactorEnabled: "twofactorenabled",
	TwoFactorSecret:  "twofactorsecret",
	LastLoginAt:      "lastloginat",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
	DeletedAt:        "deletedat",
}

// UserRoleTable represents the 'users.role' table
type UserRoleTable struct {
	Table       string
	ID          string
	Name        string
	DisplayName string
	IsActive    string
}

// UserRole is the schema definition for users.role
var UserRole = UserRoleTable{
	Table:       "users.role",
	ID:          "id",
	Name:        "name",
	DisplayName: "displayname",
	IsActive:    "isactive",
}

// UserPermissionTable represents the 'users.permission' table
type UserPermissionTable struct {
	Table    string
	ID       string
	Module   string
	Action   string
	Resource string
}

// UserPermission is the schema definition for users.permission
var UserPermission = UserPermissionTable{
	Table:    "users.permission",
	ID:       "id",
	Module:   "module",
	Action:   "action",
	Resource: "resource",
}

// UserRolePermissionTable represents the 'users.rolepermission' join table
type UserRolePermissionTable struct {
	Table        string
	RoleID       string
	PermissionID string
	Position     string
}

// UserRolePermission is the schema definition for users.rolepermission
var UserRolePermission = UserRolePermissionTable{
	Table:        "users.rolepermission",
	RoleID:       "roleid",
	PermissionID: "permissionid",
	Position:     "position",
}
