// internal/browser/session/context.go
package session

import (
	"context"
	"encoding/json"
)

// combineContext derives a context from master (which carries the CDP target
// information) that is additionally canceled when op is. chromedp requires
// the target values from the session context, while callers need their own
// deadlines respected; this bridges the two.
func combineContext(master, op context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(master)
	go func() {
		select {
		case <-op.Done():
			cancel()
		case <-combined.Done():
		}
	}()
	return combined, cancel
}

// jsonEncode safely embeds a Go value, particularly strings with quotes or
// newlines, into injected JavaScript.
func jsonEncode(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(b)
}
