// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Username lowercases and trims a login identifier.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// QueryParam trims whitespace from a query or form value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
