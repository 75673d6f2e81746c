// internal/resolve/retry.go
//
// The retry/wait controller. Both loops re-run full resolution against a
// fresh snapshot every iteration: the page mutates underneath us, so a
// handle from a previous attempt is already suspect.
package resolve

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/lancet-cli/internal/browser/dom"
)

const (
	// retryDelay is the fixed pause between failed resolution attempts.
	retryDelay = 250 * time.Millisecond
	// pollInterval is the fixed cadence of the wait-for-state loop.
	pollInterval = 500 * time.Millisecond
	// stateCheckTimeout bounds each per-poll state check so one slow check
	// cannot eat the whole wait budget.
	stateCheckTimeout = 1 * time.Second
)

// ResolveWithRetry splits the overall timeout evenly across MaxRetries
// attempts. Each attempt fetches a fresh snapshot, parses it, and runs one
// full resolution pass inside a per-attempt deadline. Between failed
// attempts it sleeps retryDelay. After exhausting retries it gives up
// silently with (nil, nil); callers decide whether that is an error.
func (r *Resolver) ResolveWithRetry(ctx context.Context, page Page, description string, opts Options) (*Match, error) {
	opts = opts.withDefaults()
	attemptTimeout := opts.Timeout / time.Duration(opts.MaxRetries)

	for attempt := 0; attempt < opts.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m, err := r.resolveAttempt(ctx, page, description, opts, attemptTimeout)
		if m != nil {
			return m, nil
		}
		if err != nil && ctx.Err() != nil {
			// Overall cancellation, not just an expired attempt.
			return nil, ctx.Err()
		}
		if err != nil {
			r.logger.Debug("Resolution attempt failed.",
				zap.Int("attempt", attempt+1),
				zap.String("description", description),
				zap.Error(err))
		}

		if attempt < opts.MaxRetries-1 {
			if err := r.clock.Sleep(ctx, retryDelay); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}

// resolveAttempt is one snapshot-parse-resolve pass under its own deadline.
// The attempt's context expiring abandons the in-flight query; nothing from
// the attempt is reused afterwards, so the abandoned pass cannot corrupt
// later ones.
func (r *Resolver) resolveAttempt(ctx context.Context, page Page, description string, opts Options, timeout time.Duration) (*Match, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	snapshot, err := page.DOMSnapshot(attemptCtx)
	if err != nil {
		return nil, err
	}
	doc, err := dom.Parse(snapshot)
	if err != nil {
		return nil, err
	}
	return r.Resolve(attemptCtx, doc, description, opts)
}

// WaitFor polls until an element matching the description exists and reaches
// the requested lifecycle state, or the timeout elapses. Resolution is re-run
// from scratch every poll because the target may not exist yet, may be
// replaced, or may change state between polls.
//
// On expiry it fails with a *TimeoutError carrying the last sub-error
// observed, if any.
func (r *Resolver) WaitFor(ctx context.Context, page Page, description string, state dom.State, timeout time.Duration, opts Options) (*Match, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	opts = opts.withDefaults()
	deadline := r.clock.Now().Add(timeout)

	var lastErr error
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !r.clock.Now().Before(deadline) {
			break
		}

		m, err := r.waitCheck(ctx, page, description, state, opts)
		if m != nil {
			return m, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
		}

		if err := r.clock.Sleep(ctx, pollInterval); err != nil {
			return nil, err
		}
	}

	return nil, &TimeoutError{
		Description: description,
		State:       state,
		Timeout:     timeout,
		LastErr:     lastErr,
	}
}

// waitCheck is a single poll iteration: fresh snapshot, full resolution,
// then a bounded state check on the resolved selector.
func (r *Resolver) waitCheck(ctx context.Context, page Page, description string, state dom.State, opts Options) (*Match, error) {
	snapshot, err := page.DOMSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := dom.Parse(snapshot)
	if err != nil {
		return nil, err
	}
	m, err := r.Resolve(ctx, doc, description, opts)
	if err != nil || m == nil {
		return nil, err
	}

	if err := page.WaitState(ctx, m.Selector, state, stateCheckTimeout); err != nil {
		return nil, err
	}
	return m, nil
}
