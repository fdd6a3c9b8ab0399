// Package htmlsanitize strips unsafe markup from free-text fields before
// they are stored. Plain text is stored as given; the client escapes it on
// render. Input that carries markup keeps only user-generated-content tags.
package htmlsanitize

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy is safe for concurrent use once built.
var policy = bluemonday.UGCPolicy()

// markup matches the start of a tag, closing tag, comment or declaration.
// A bare "<" followed by a space or digit, as in "a < b", is not markup.
var markup = regexp.MustCompile(`<[a-zA-Z/!?]`)

// HasMarkup reports whether s contains anything that parses as an HTML tag.
func HasMarkup(s string) bool {
	return markup.MatchString(s)
}

// Sanitize trims s. When s contains markup it also removes scripts, event
// handlers and unsafe URLs; plain text is returned unchanged.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !HasMarkup(s) {
		return s
	}
	return strings.TrimSpace(policy.Sanitize(s))
}
