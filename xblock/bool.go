// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package xblock

import "strings"

// Str2Bool interprets loosely typed truthy/falsy values.
// "true" and "yes" are true, "false" and "no" are false (any case).
// Everything else, including non-string values, yields def.
func Str2Bool(value any, def bool) bool {
	s, ok := value.(string)
	if !ok {
		return def
	}
	switch strings.ToLower(s) {
	case "true", "yes":
		return true
	case "false", "no":
		return false
	}
	return def
}
