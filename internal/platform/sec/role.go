// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole is the machine name of a role granted to an account.
type UserRole string

const (
	// Unrestricted store administration
	RoleAdmin UserRole = "admin"

	// Runs a store: catalog, purchasing, sales and reporting
	RoleManager UserRole = "manager"

	// Operates the point-of-sale counter
	RoleCashier UserRole = "cashier"

	// Receives, transfers and counts stock
	RoleWarehouseKeeper UserRole = "warehouse_keeper"

	// Read-only access to reports
	RoleReader UserRole = "reader"
)

// Known reports whether r is one of the predefined roles.
func (r UserRole) Known() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCashier, RoleWarehouseKeeper, RoleReader:
		return true
	default:
		return false
	}
}

// # Permission Identifiers

// Permission identifiers have the form "<module>.<action>".
const (
	PermissionProductsView   = "products.view"
	PermissionProductsCreate = "products.create"
	PermissionProductsUpdate = "products.update"
	PermissionProductsDelete = "products.delete"
	PermissionProductsExport = "products.export"

	PermissionSalesView   = "sales.view"
	PermissionSalesCreate = "sales.create"
	PermissionSalesUpdate = "sales.update"
	PermissionSalesDelete = "sales.delete"
	PermissionSalesExport = "sales.export"

	PermissionPurchasesView    = "purchases.view"
	PermissionPurchasesCreate  = "purchases.create"
	PermissionPurchasesUpdate  = "purchases.update"
	PermissionPurchasesDelete  = "purchases.delete"
	PermissionPurchasesApprove = "purchases.approve"
	PermissionPurchasesReceive = "purchases.receive"

	PermissionInventoryView     = "inventory.view"
	PermissionInventoryTransfer = "inventory.transfer"
	PermissionInventoryAdjust   = "inventory.adjust"
	PermissionInventoryCount    = "inventory.count"

	PermissionSettingsView   = "settings.view"
	PermissionSettingsUpdate = "settings.update"

	PermissionUsersView   = "users.view"
	PermissionUsersCreate = "users.create"
	PermissionUsersUpdate = "users.update"
	PermissionUsersDelete = "users.delete"

	PermissionReportsView   = "reports.view"
	PermissionReportsExport = "reports.export"
)

// PermissionID joins a module and an action into a permission identifier.
func PermissionID(module, action string) string {
	return module + "." + action
}
