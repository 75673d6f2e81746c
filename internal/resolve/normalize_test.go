// internal/resolve/normalize_test.go
package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCollapsesWhitespaceAndCase(t *testing.T) {
	assert.Equal(t, "login button", normalize("  Login\n\tButton  "))
	assert.Equal(t, "a b c", normalize("a   b \n c"))
	assert.Equal(t, "", normalize("   \t\n "))
	assert.Equal(t, "", normalize(""))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"Login Button", "  MIXED   case\tText ", "already normal", "Üñïçôdé  Tèxt"}
	for _, in := range inputs {
		once := normalize(in)
		assert.Equal(t, once, normalize(once), "normalize(normalize(x)) must equal normalize(x) for %q", in)
	}
}

func TestNormalizeOptions(t *testing.T) {
	// Case preserved when IgnoreCase is off.
	got := Normalize("  Hello   World ", NormalizeOptions{TrimWhitespace: true})
	assert.Equal(t, "Hello World", got)

	// Whitespace preserved when TrimWhitespace is off.
	got = Normalize("Hello  World", NormalizeOptions{IgnoreCase: true})
	assert.Equal(t, "hello  world", got)
}
