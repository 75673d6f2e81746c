// internal/resolve/clock.go
package resolve

import (
	"context"
	"time"
)

// Clock abstracts time for the retry and wait loops so tests can drive them
// deterministically without real sleeps.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until the context is done, returning ctx.Err()
	// in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
