// Package normalize provides small input-normalization helpers applied at
// store boundaries so documents are written in one canonical shape.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a dashboard role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
