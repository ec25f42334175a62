// Package htmlsanitize strips markup from user-generated content before it
// is stored.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

// strict strips all markup, leaving plain text.
var strict = bluemonday.StrictPolicy()

// PlainText removes all tags. Chat messages and group descriptions are
// stored this way so the details page can render them without escaping
// surprises.
func PlainText(s string) string {
	return strict.Sanitize(s)
}
