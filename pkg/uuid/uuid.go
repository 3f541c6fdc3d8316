// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid issues the identifiers of carts and sales.

Values are version 7 UUIDs: they sort by creation time, so sales keyed by
them stay roughly insertion-ordered in PostgreSQL indexes.
*/
package uuid

import "github.com/google/uuid"

// New returns a fresh version 7 UUID in canonical string form.
//
// It panics only when the system entropy source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}
