// internal/resolve/normalize.go
package resolve

import "strings"

// NormalizeOptions controls how Normalize canonicalizes a string.
type NormalizeOptions struct {
	IgnoreCase     bool
	TrimWhitespace bool
}

// defaultNormalize is what the matching strategies use for comparisons:
// case-insensitive, whitespace-collapsed.
var defaultNormalize = NormalizeOptions{IgnoreCase: true, TrimWhitespace: true}

// Normalize canonicalizes text for comparison. Runs of internal whitespace
// collapse to a single space; leading/trailing whitespace is trimmed and the
// string is lower-cased when configured. The function is idempotent and maps
// empty input to the empty string.
func Normalize(text string, opts NormalizeOptions) string {
	if text == "" {
		return ""
	}
	if opts.TrimWhitespace {
		// Fields splits on any run of whitespace, so joining with a single
		// space both collapses and trims.
		text = strings.Join(strings.Fields(text), " ")
	}
	if opts.IgnoreCase {
		text = strings.ToLower(text)
	}
	return text
}

// normalize is the strategy-facing shorthand for the default options.
func normalize(text string) string {
	return Normalize(text, defaultNormalize)
}
