// internal/resolve/actions_test.go
package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/lancet-cli/internal/browser/dom"
)

func newTestActions(page *fakePage) *Actions {
	return NewActions(page, NewResolver(nil).WithClock(newFakeClock()), nil)
}

func TestClickResolvedElement(t *testing.T) {
	page := newFakePage(`<html><body><button>Place Order</button></body></html>`)
	a := newTestActions(page)

	err := a.Click(context.Background(), "Place Order", Options{})
	require.NoError(t, err)

	recorded := page.recorded()
	require.Len(t, recorded, 1)
	assert.Contains(t, recorded[0], "click(")
	assert.Contains(t, recorded[0], "button")
}

func TestClickNothingMatchesWrapsSentinel(t *testing.T) {
	page := newFakePage(`<html><body><p>empty page</p></body></html>`)
	a := newTestActions(page)

	err := a.Click(context.Background(), "Place Order", Options{Timeout: time.Second, MaxRetries: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Contains(t, err.Error(), "Place Order")
	assert.Empty(t, page.recorded())
}

func TestClickFailsWhenNeverVisible(t *testing.T) {
	page := newFakePage(`<html><body><button>Place Order</button></body></html>`)
	page.visible = false
	page.stateErrs = map[dom.State]error{dom.StateVisible: errors.New("covered by overlay")}
	a := newTestActions(page)

	err := a.Click(context.Background(), "Place Order", Options{})
	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "click", actionErr.Action)
	assert.Empty(t, page.recorded())
}

func TestClickSkipsWaitWhenAlreadyVisible(t *testing.T) {
	// A visible element must not enter the polling wait at all; the click
	// succeeds even though the wait itself would fail.
	page := newFakePage(`<html><body><button>Place Order</button></body></html>`)
	page.stateErrs = map[dom.State]error{dom.StateVisible: errors.New("wait should not run")}
	a := newTestActions(page)

	require.NoError(t, a.Click(context.Background(), "Place Order", Options{}))
	require.Len(t, page.recorded(), 1)
	assert.Contains(t, page.recorded()[0], "click(")
}

func TestFillTextInput(t *testing.T) {
	page := newFakePage(`<html><body>
		<input type="text" placeholder="Email address">
	</body></html>`)
	a := newTestActions(page)

	err := a.Fill(context.Background(), "email address", "user@example.com", Options{})
	require.NoError(t, err)

	recorded := page.recorded()
	require.Len(t, recorded, 1)
	assert.Contains(t, recorded[0], `fill(`)
	assert.Contains(t, recorded[0], `"user@example.com"`)
}

func TestFillRejectsNonInputElement(t *testing.T) {
	// The aria-label resolves to a div, which cannot take text.
	page := newFakePage(`<html><body>
		<div aria-label="Email address">styled text</div>
	</body></html>`)
	a := newTestActions(page)

	err := a.Fill(context.Background(), "Email address", "x", Options{})
	var wrongKind *WrongKindError
	require.ErrorAs(t, err, &wrongKind)
	assert.Equal(t, "div", wrongKind.Got)
	assert.Empty(t, page.recorded(), "no interaction after a kind check failure")
}

func TestFillAcceptsContentEditable(t *testing.T) {
	page := newFakePage(`<html><body>
		<div contenteditable="true" aria-label="Message body"></div>
	</body></html>`)
	a := newTestActions(page)

	err := a.Fill(context.Background(), "Message body", "hello", Options{})
	require.NoError(t, err)
	require.Len(t, page.recorded(), 1)
}

func TestFillPropagatesExecutionFailure(t *testing.T) {
	page := newFakePage(`<html><body><input type="text" placeholder="Name"></body></html>`)
	page.fillErr = errors.New("element is read-only")
	a := newTestActions(page)

	err := a.Fill(context.Background(), "Name", "x", Options{})
	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "fill", actionErr.Action)
	assert.ErrorIs(t, err, page.fillErr)
}

const countrySelectHTML = `<html><body>
	<select aria-label="Country">
		<option value="">Choose one</option>
		<option value="us" label="United States">US</option>
		<option value="de">Germany</option>
		<option value="fr" disabled>France</option>
	</select>
</body></html>`

func TestSelectByLabelValueAndText(t *testing.T) {
	tests := []struct {
		name      string
		option    string
		wantValue string
	}{
		{"by label", "United States", "us"},
		{"by value", "de", "de"},
		{"by text substring", "germ", "de"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := newFakePage(countrySelectHTML)
			a := newTestActions(page)

			err := a.Select(context.Background(), "Country", tt.option, Options{})
			require.NoError(t, err)

			recorded := page.recorded()
			require.Len(t, recorded, 1)
			assert.Contains(t, recorded[0], `"`+tt.wantValue+`"`)
		})
	}
}

func TestSelectSkipsDisabledOption(t *testing.T) {
	page := newFakePage(countrySelectHTML)
	a := newTestActions(page)

	err := a.Select(context.Background(), "Country", "France", Options{})
	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Empty(t, page.recorded())
}

func TestSelectRejectsNonSelectElement(t *testing.T) {
	page := newFakePage(`<html><body><input type="text" aria-label="Country"></body></html>`)
	a := newTestActions(page)

	err := a.Select(context.Background(), "Country", "de", Options{})
	var wrongKind *WrongKindError
	require.ErrorAs(t, err, &wrongKind)
	assert.Equal(t, "input", wrongKind.Got)
}

func TestFindReturnsNilWithoutError(t *testing.T) {
	page := newFakePage(`<html><body><p>empty</p></body></html>`)
	a := newTestActions(page)

	m, err := a.Find(context.Background(), "missing thing", Options{Timeout: time.Second, MaxRetries: 1})
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestChooseOptionFallbackOrder(t *testing.T) {
	options := []dom.SelectOption{
		{Value: "a", Label: "Alpha", Text: "first choice"},
		{Value: "b", Text: "alpha team"},
	}

	// Label match beats the later text containment hit.
	value, ok := chooseOption(options, "alpha")
	require.True(t, ok)
	assert.Equal(t, "a", value)

	value, ok = chooseOption(options, "team")
	require.True(t, ok)
	assert.Equal(t, "b", value)

	_, ok = chooseOption(options, "zzz")
	assert.False(t, ok)

	_, ok = chooseOption(options, "")
	assert.False(t, ok)
}
