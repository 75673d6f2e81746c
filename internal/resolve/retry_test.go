// internal/resolve/retry_test.go
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

const emptyPageHTML = `<html><body><p>nothing to see</p></body></html>`

const buttonPageHTML = `<html><body><button>Load More</button></body></html>`

func TestResolveWithRetryPicksUpLateContent(t *testing.T) {
	page := newFakePage(emptyPageHTML)
	clock := newFakeClock()

	// The content appears after the first inter-attempt sleep.
	clock.onAdvance = func(time.Time) { page.setSnapshot(buttonPageHTML) }

	r := NewResolver(nil).WithClock(clock)
	m, err := r.ResolveWithRetry(context.Background(), page, "Load More", Options{
		Timeout:    10 * time.Second,
		MaxRetries: 3,
	})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 1.0, m.Confidence)
	assert.Len(t, clock.sleeps, 1, "exactly one retry pause before the content appeared")
}

func TestResolveWithRetryExhaustsSilently(t *testing.T) {
	page := newFakePage(emptyPageHTML)
	clock := newFakeClock()

	r := NewResolver(nil).WithClock(clock)
	m, err := r.ResolveWithRetry(context.Background(), page, "Load More", Options{
		Timeout:    3 * time.Second,
		MaxRetries: 3,
	})
	require.NoError(t, err)
	assert.Nil(t, m, "exhausted retries give up without an error")
	// Two pauses for three attempts; no sleep after the last one.
	assert.Len(t, clock.sleeps, 2)
	for _, d := range clock.sleeps {
		assert.Equal(t, 250*time.Millisecond, d)
	}
}

func TestResolveWithRetrySnapshotFailureIsRetried(t *testing.T) {
	page := newFakePage(buttonPageHTML)
	page.snapshotErr = errors.New("target crashed")
	clock := newFakeClock()

	// The page recovers after the first retry pause.
	clock.onAdvance = func(time.Time) {
		page.mu.Lock()
		page.snapshotErr = nil
		page.mu.Unlock()
	}

	r := NewResolver(nil).WithClock(clock)
	m, err := r.ResolveWithRetry(context.Background(), page, "Load More", Options{
		Timeout:    10 * time.Second,
		MaxRetries: 3,
	})
	require.NoError(t, err)
	require.NotNil(t, m)
}

func TestResolveWithRetryRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver(nil).WithClock(newFakeClock())
	_, err := r.ResolveWithRetry(ctx, newFakePage(emptyPageHTML), "anything", Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitForSeesElementInsertedMidWait(t *testing.T) {
	page := newFakePage(emptyPageHTML)
	clock := newFakeClock()
	start := clock.Now()

	// The element is inserted one simulated second into a five second wait.
	clock.onAdvance = func(now time.Time) {
		if now.Sub(start) >= time.Second {
			page.setSnapshot(buttonPageHTML)
		}
	}

	r := NewResolver(nil).WithClock(clock)
	m, err := r.WaitFor(context.Background(), page, "Load More", dom.StateVisible, 5*time.Second, Options{})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "Load More", m.MatchedText)
	// Polls at the 500ms cadence: found on the third check, after two sleeps.
	assert.Len(t, clock.sleeps, 2)
}

func TestWaitForTimesOutWithLastError(t *testing.T) {
	page := newFakePage(buttonPageHTML)
	stateErr := errors.New("still hidden")
	page.stateErrs = map[dom.State]error{dom.StateVisible: stateErr}
	clock := newFakeClock()

	r := NewResolver(nil).WithClock(clock)
	m, err := r.WaitFor(context.Background(), page, "Load More", dom.StateVisible, 2*time.Second, Options{})
	assert.Nil(t, m)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, dom.StateVisible, timeoutErr.State)
	assert.Equal(t, 2*time.Second, timeoutErr.Timeout)
	assert.ErrorIs(t, timeoutErr, stateErr)
	assert.Contains(t, timeoutErr.Error(), "Load More")
}

func TestWaitForNeverResolvingTimesOut(t *testing.T) {
	page := newFakePage(emptyPageHTML)
	clock := newFakeClock()

	r := NewResolver(nil).WithClock(clock)
	_, err := r.WaitFor(context.Background(), page, "Load More", dom.StateAttached, 3*time.Second, Options{})

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.NoError(t, timeoutErr.LastErr, "no sub-error when the element simply never matched")
}

func TestWaitForRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver(nil).WithClock(newFakeClock())
	_, err := r.WaitFor(ctx, newFakePage(emptyPageHTML), "anything", dom.StateVisible, time.Second, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
