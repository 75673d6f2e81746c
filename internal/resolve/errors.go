// internal/resolve/errors.go
package resolve

import (
	"errors"
	"fmt"
	"time"

	"github.com/xkilldash9x/lancet-cli/internal/browser/dom"
)

// ErrNoMatch is the sentinel wrapped by action-level "could not find element"
// failures. At the resolver level "nothing matched" is a nil result, not an
// error; the sentinel only surfaces once an action needed the element.
var ErrNoMatch = errors.New("no element matched description")

// noMatchError builds the user-facing form, keeping the original description
// so a human can tell which lookup failed.
func noMatchError(description string) error {
	return fmt.Errorf("could not find element for %q: %w", description, ErrNoMatch)
}

// WrongKindError reports a successful resolution that produced an element of
// the wrong kind for the requested action, e.g. a div where a fill target was
// required. It is always surfaced, never silently retried with another
// strategy.
type WrongKindError struct {
	Description string
	Want        string
	Got         string
}

func (e *WrongKindError) Error() string {
	return fmt.Sprintf("element for %q is a <%s>, not %s", e.Description, e.Got, e.Want)
}

// TimeoutError reports an exhausted wait/retry budget. LastErr carries the
// most recent sub-error observed during polling, when there was one.
type TimeoutError struct {
	Description string
	State       dom.State
	Timeout     time.Duration
	LastErr     error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %v waiting for %q", e.Timeout, e.Description)
	if e.State != "" {
		msg = fmt.Sprintf("timed out after %v waiting for %q to become %s", e.Timeout, e.Description, e.State)
	}
	if e.LastErr != nil {
		msg += fmt.Sprintf(" (last error: %v)", e.LastErr)
	}
	return msg
}

func (e *TimeoutError) Unwrap() error { return e.LastErr }

// ActionError wraps a failure of the action itself, after resolution and kind
// validation succeeded. Distinct from resolution failure so callers can tell
// "nothing matched" apart from "matched but the interaction broke".
type ActionError struct {
	Action      string
	Description string
	Err         error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s failed for %q: %v", e.Action, e.Description, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
