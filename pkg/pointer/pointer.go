// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer bridges optional columns and fields (phone numbers,
// customer references) to plain values.
package pointer

// To returns the address of a copy of value.
func To[T any](value T) *T {
	return &value
}

// Val dereferences optional, yielding the zero value for nil.
func Val[T any](optional *T) T {
	var value T
	if optional != nil {
		value = *optional
	}
	return value
}
