// internal/resolve/resolver_test.go
package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginFormHTML = `<html><body>
	<h1>Welcome back</h1>
	<form>
		<input type="text" placeholder="Email address">
		<input type="password" aria-label="Password">
		<button type="submit">Login Button</button>
	</form>
	<a href="/forgot">Forgot your password?</a>
</body></html>`

func TestResolveButtonTextFullConfidence(t *testing.T) {
	r := NewResolver(nil)
	m, err := r.Resolve(context.Background(), mustDoc(loginFormHTML), "Login Button", Options{})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 1.0, m.Confidence)
	assert.Equal(t, "button-text", m.Strategy)
	assert.Equal(t, "button", m.Element.Tag())
}

func TestResolvePlaceholderWithInputPreference(t *testing.T) {
	r := NewResolver(nil)
	m, err := r.Resolve(context.Background(), mustDoc(loginFormHTML), "email address", Options{PreferInputs: true})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "input", m.Element.Tag())
	assert.Greater(t, m.Confidence, 0.7)
}

func TestResolveRoleSyntaxNativeRole(t *testing.T) {
	doc := mustDoc(`<html><body>
		<p>Submit Form</p>
		<button>Submit Form</button>
	</body></html>`)

	r := NewResolver(nil)
	m, err := r.Resolve(context.Background(), doc, "button[Submit Form]", Options{})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 1.0, m.Confidence)
	assert.Equal(t, "aria-role", m.Strategy)
	assert.Equal(t, "button", m.Element.Tag())
}

func TestResolveRoleSyntaxFallsThroughToGenericCascade(t *testing.T) {
	// No button anywhere, but the raw text "button[Launch Sequence]" still
	// runs through the generic strategies and finds nothing acceptable, while
	// a page containing the literal description text is found by them.
	doc := mustDoc(`<html><body><p>button[Launch Sequence]</p></body></html>`)

	r := NewResolver(nil)
	m, err := r.Resolve(context.Background(), doc, "button[Launch Sequence]", Options{})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "exact-text", m.Strategy)
}

func TestResolveNothingAcceptable(t *testing.T) {
	doc := mustDoc(`<html><body><p>entirely unrelated content</p></body></html>`)

	r := NewResolver(nil)
	m, err := r.Resolve(context.Background(), doc, "nonexistent widget label", Options{})
	require.NoError(t, err)
	assert.Nil(t, m, "no acceptable match is a nil result, not an error")
}

func TestResolveAcceptanceThresholdIsStrict(t *testing.T) {
	// "now save it" contains "save it now"? No; partial-text needs literal
	// containment, so only the fuzzy sweep can score this, and a floor above
	// the achievable score suppresses it.
	doc := mustDoc(`<html><body><button>Sybmit</button></body></html>`)

	r := NewResolver(nil)
	m, err := r.Resolve(context.Background(), doc, "Submit", Options{FuzzyFloor: 0.6})
	require.NoError(t, err)
	assert.Nil(t, m)

	// With the default floor the fuzzy score of 0.4 is found but still below
	// the acceptance threshold, so the result stays nil.
	m, err = r.Resolve(context.Background(), doc, "Submit", Options{})
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestResolveFuzzyFloorControlsTypoResolution(t *testing.T) {
	// "Login Buton" vs "Login Button" scores (1 - 1/12) * 0.6 = 0.55 in the
	// fuzzy sweep. A floor above that suppresses the candidate entirely; a
	// floor below it lets the candidate through and past acceptance.
	doc := mustDoc(`<html><body><button>Login Button</button></body></html>`)

	r := NewResolver(nil)
	m, err := r.Resolve(context.Background(), doc, "Login Buton", Options{FuzzyFloor: 0.6})
	require.NoError(t, err)
	assert.Nil(t, m, "a floor above the achievable score must suppress the match")

	m, err = r.Resolve(context.Background(), doc, "Login Buton", Options{FuzzyFloor: 0.4})
	require.NoError(t, err)
	require.NotNil(t, m, "lowering the floor below the score must resolve the typo")
	assert.Equal(t, "fuzzy-text", m.Strategy)
	assert.InDelta(t, 0.55, m.Confidence, 0.001)
}

func TestResolveEarlyExitSkipsLaterStrategies(t *testing.T) {
	// The button-text hit scores 1.0 and exits before the link strategy
	// could produce its prefix match.
	doc := mustDoc(`<html><body>
		<button>Continue</button>
		<a href="/c">Continue to checkout</a>
	</body></html>`)

	r := NewResolver(nil)
	m, err := r.Resolve(context.Background(), doc, "Continue", Options{})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "button-text", m.Strategy)
	assert.Equal(t, "button", m.Element.Tag())
}

func TestResolveTieGoesToEarlierStrategy(t *testing.T) {
	// The exact aria-label scores 0.9; the fuzzy sweep's containment hit on
	// the paragraph also scores 0.9. The strict greater-than comparison
	// keeps the earlier strategy's candidate.
	doc := mustDoc(`<html><body>
		<span aria-label="archive this">icon</span>
		<p>archive this later</p>
	</body></html>`)

	r := NewResolver(nil)
	m, err := r.Resolve(context.Background(), doc, "archive this", Options{})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "aria-label", m.Strategy)
	assert.InDelta(t, 0.9, m.Confidence, 0.001)
}

func TestResolveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver(nil)
	_, err := r.Resolve(ctx, mustDoc(loginFormHTML), "Login Button", Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
