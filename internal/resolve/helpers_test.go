// internal/resolve/helpers_test.go
package resolve

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/xkilldash9x/lancet-cli/internal/browser/dom"
)

// fakePage implements Page over an in-memory HTML snapshot. The snapshot is
// mutable so tests can simulate a page that changes between polls.
type fakePage struct {
	mu       sync.Mutex
	snapshot string

	// Recorded interactions, e.g. "click(/html[1]/body[1]/button[1])".
	interactions []string

	// visible is what IsVisible reports; false forces actions onto the
	// WaitState path.
	visible bool
	// stateErrs makes WaitState fail for specific states.
	stateErrs map[dom.State]error
	// snapshotErr makes DOMSnapshot fail.
	snapshotErr error
	// fillErr / clickErr / selectErr make the corresponding action fail.
	fillErr   error
	clickErr  error
	selectErr error
}

func newFakePage(snapshot string) *fakePage {
	return &fakePage{snapshot: snapshot, visible: true}
}

func (p *fakePage) setSnapshot(snapshot string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot = snapshot
}

func (p *fakePage) recorded() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.interactions...)
}

func (p *fakePage) DOMSnapshot(ctx context.Context) (io.Reader, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snapshotErr != nil {
		return nil, p.snapshotErr
	}
	return strings.NewReader(p.snapshot), nil
}

func (p *fakePage) ExecuteClick(ctx context.Context, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clickErr != nil {
		return p.clickErr
	}
	p.interactions = append(p.interactions, fmt.Sprintf("click(%s)", selector))
	return nil
}

func (p *fakePage) ExecuteFill(ctx context.Context, selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fillErr != nil {
		return p.fillErr
	}
	p.interactions = append(p.interactions, fmt.Sprintf("fill(%s, %q)", selector, value))
	return nil
}

func (p *fakePage) ExecuteSelect(ctx context.Context, selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selectErr != nil {
		return p.selectErr
	}
	p.interactions = append(p.interactions, fmt.Sprintf("select(%s, %q)", selector, value))
	return nil
}

func (p *fakePage) WaitState(ctx context.Context, selector string, state dom.State, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.stateErrs[state]; ok {
		return err
	}
	return nil
}

func (p *fakePage) IsVisible(ctx context.Context, selector string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// fakeClock advances instantly on Sleep so retry and wait loops run without
// wall-clock delay. An optional onAdvance hook lets tests mutate state "at"
// a simulated time.
type fakeClock struct {
	mu        sync.Mutex
	now       time.Time
	sleeps    []time.Duration
	onAdvance func(now time.Time)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	now := c.now
	hook := c.onAdvance
	c.mu.Unlock()

	if hook != nil {
		hook(now)
	}
	return nil
}

// mustDoc parses a snapshot or fails the calling test via panic; only used
// with literal HTML.
func mustDoc(snapshot string) *dom.Document {
	doc, err := dom.ParseString(snapshot)
	if err != nil {
		panic(err)
	}
	return doc
}
