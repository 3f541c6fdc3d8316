// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package convert parses loosely typed input (query strings, CLI arguments)
// where a bad value should quietly fall back rather than fail the request.
package convert

import "strconv"

// ToIntD parses raw as a base-10 int, returning fallback when raw is blank
// or malformed.
func ToIntD(raw string, fallback int) int {
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
