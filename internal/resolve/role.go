// internal/resolve/role.go
package resolve

import (
	"regexp"
	"strings"
)

// RoleQuery is a decomposed role[description] search, e.g.
// "button[Submit Form]" -> {Role: "button", Description: "Submit Form"}.
type RoleQuery struct {
	Role        string
	Description string
}

// roleSyntaxRe recognizes the compact role[description] micro-syntax:
// word characters, an open bracket, at least one non-bracket character, a
// close bracket, anchored at both ends.
var roleSyntaxRe = regexp.MustCompile(`^(\w+)\[([^\]]+)\]$`)

// ParseRoleQuery attempts to decompose a description written in role-syntax.
// A description that does not match is not an error; the caller falls back to
// the free-text strategies.
func ParseRoleQuery(text string) (RoleQuery, bool) {
	m := roleSyntaxRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return RoleQuery{}, false
	}
	return RoleQuery{
		Role:        strings.ToLower(m[1]),
		Description: strings.TrimSpace(m[2]),
	}, true
}

// permissiveNamePattern builds a case-insensitive regexp that matches an
// accessible name containing the description's words in order, with anything
// between them. The description is escaped first, so bracket and dot
// characters in the query cannot break the pattern.
func permissiveNamePattern(description string) (*regexp.Regexp, error) {
	words := strings.Fields(description)
	escaped := make([]string, len(words))
	for i, w := range words {
		escaped[i] = regexp.QuoteMeta(w)
	}
	return regexp.Compile(`(?i)` + strings.Join(escaped, `[\s\S]*`))
}
