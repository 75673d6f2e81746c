// internal/resolve/page.go
package resolve

import (
	"context"
	"io"
	"time"

	"github.com/xkilldash9x/lancet-cli/internal/browser/dom"
)

// Page is the minimal contract the resolution engine needs from the live
// page collaborator. The browser Session implements it with CDP; tests
// implement it over in-memory snapshots. Selectors passed to the action
// primitives are the unique XPaths generated during resolution.
type Page interface {
	// DOMSnapshot fetches the current serialized document for parsing.
	// Each retry attempt calls this again: the engine never reasons about
	// anything older than the current attempt.
	DOMSnapshot(ctx context.Context) (io.Reader, error)

	// ExecuteClick clicks the element matching the selector.
	ExecuteClick(ctx context.Context, selector string) error

	// ExecuteFill sets the value of the element matching the selector by
	// direct assignment plus synthetic input/change events, so reactive
	// frameworks observe the change.
	ExecuteFill(ctx context.Context, selector, value string) error

	// ExecuteSelect chooses the option with the given value in a <select>.
	ExecuteSelect(ctx context.Context, selector, value string) error

	// WaitState blocks until the element matching the selector reaches the
	// requested lifecycle state, or the timeout elapses.
	WaitState(ctx context.Context, selector string, state dom.State, timeout time.Duration) error

	// IsVisible reports whether the element matching the selector is
	// currently rendered visibly.
	IsVisible(ctx context.Context, selector string) bool
}
