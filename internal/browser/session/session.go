// internal/browser/session/session.go
//
// A Session owns one browser tab over CDP and exposes the page primitives
// the resolution engine consumes: snapshot fetches, XPath-targeted actions,
// and lifecycle-state waits. Element targeting always goes through the
// unique XPaths generated at resolution time; the session itself keeps no
// element state between calls.
package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/lancet-cli/internal/browser/dom"
	"github.com/xkilldash9x/lancet-cli/internal/config"
	"github.com/xkilldash9x/lancet-cli/internal/resolve"
)

// Session is a single live browser tab.
type Session struct {
	id          string
	ctx         context.Context // carries the CDP target; master lifetime
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	logger      *zap.Logger
	cfg         config.BrowserConfig
}

// The resolution engine talks to the session only through this interface.
var _ resolve.Page = (*Session)(nil)

// New launches a browser tab according to the configuration. The returned
// session must be closed by the caller.
func New(parent context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sessionID := uuid.New().String()
	log := logger.With(zap.String("session_id", sessionID))

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if cfg.IgnoreTLSErrors {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	s := &Session{
		id:          sessionID,
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		logger:      log,
		cfg:         cfg,
	}

	// Starting the browser eagerly surfaces launch failures here instead of
	// on the first action.
	startCtx, startCancel := context.WithTimeout(ctx, 30*time.Second)
	defer startCancel()
	if err := chromedp.Run(startCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	log.Debug("Browser session started.", zap.Bool("headless", cfg.Headless))
	return s, nil
}

// ID returns the session identifier used in logs and report artifacts.
func (s *Session) ID() string { return s.id }

// Close tears down the tab and the browser process.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	s.logger.Debug("Browser session closed.")
}

// RunActions executes chromedp actions against the session target while
// honoring the operational context: the combined context is canceled when
// either the session or the operation ends.
func (s *Session) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	combined, cancel := combineContext(s.ctx, ctx)
	defer cancel()

	err := chromedp.Run(combined, actions...)
	if err != nil {
		// Report the most specific context error available.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if s.ctx.Err() != nil {
			return fmt.Errorf("session closed: %w", s.ctx.Err())
		}
	}
	return err
}

// Navigate loads a URL and waits for the document to become ready, then
// holds for the configured post-load quiet period so late-rendering content
// has a chance to attach.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Info("Navigating.", zap.String("url", url))

	timeout := s.cfg.NavigationTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.RunActions(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("navigation to %s timed out after %v: %w", url, timeout, navCtx.Err())
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}

	if wait := s.cfg.PostLoadWait; wait > 0 {
		if err := s.RunActions(ctx, chromedp.Sleep(wait)); err != nil {
			return err
		}
	}
	return nil
}

// DOMSnapshot serializes the current document. The resolution engine parses
// a fresh snapshot per attempt; nothing is cached here.
func (s *Session) DOMSnapshot(ctx context.Context) (io.Reader, error) {
	opCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var outerHTML string
	err := s.RunActions(opCtx, chromedp.OuterHTML("html", &outerHTML, chromedp.ByQuery))
	if err != nil {
		return nil, fmt.Errorf("failed to capture DOM snapshot: %w", err)
	}
	return strings.NewReader(outerHTML), nil
}

// ExecuteClick clicks the element addressed by the XPath selector, scrolling
// it into view first.
func (s *Session) ExecuteClick(ctx context.Context, selector string) error {
	opCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	err := s.RunActions(opCtx,
		chromedp.ScrollIntoView(selector, chromedp.BySearch),
		chromedp.Click(selector, chromedp.BySearch),
	)
	if err != nil {
		if opCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("click timed out for selector %q: %w", selector, opCtx.Err())
		}
		return fmt.Errorf("click failed for selector %q: %w", selector, err)
	}
	return nil
}

// ExecuteFill sets the element's value by direct assignment and dispatches
// synthetic input/change events, so framework bindings observe the change.
// Simulated keystrokes are deliberately not used here.
func (s *Session) ExecuteFill(ctx context.Context, selector, value string) error {
	opCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	script := fmt.Sprintf(`(function(xpath, value) {
		const el = document.evaluate(xpath, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		if (!el) { return "element not found"; }
		if (el.disabled || el.readOnly) { return "element is disabled or readonly"; }
		el.focus();
		if (el.isContentEditable) {
			el.textContent = value;
		} else {
			el.value = value;
		}
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return "";
	})(%s, %s)`, jsonEncode(selector), jsonEncode(value))

	var failure string
	err := s.RunActions(opCtx,
		chromedp.ScrollIntoView(selector, chromedp.BySearch),
		chromedp.Evaluate(script, &failure),
	)
	if err != nil {
		return fmt.Errorf("fill failed for selector %q: %w", selector, err)
	}
	if failure != "" {
		return fmt.Errorf("fill failed for selector %q: %s", selector, failure)
	}
	return nil
}

// ExecuteSelect sets a <select> element to the option with the given value
// and dispatches the corresponding events.
func (s *Session) ExecuteSelect(ctx context.Context, selector, value string) error {
	opCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	script := fmt.Sprintf(`(function(xpath, value) {
		const el = document.evaluate(xpath, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		if (!el) { return "element not found"; }
		if (el.tagName !== 'SELECT') { return "element is not a select"; }
		el.value = value;
		if (el.value !== value) { return "no option with value " + JSON.stringify(value); }
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return "";
	})(%s, %s)`, jsonEncode(selector), jsonEncode(value))

	var failure string
	if err := s.RunActions(opCtx, chromedp.Evaluate(script, &failure)); err != nil {
		return fmt.Errorf("select failed for selector %q: %w", selector, err)
	}
	if failure != "" {
		return fmt.Errorf("select failed for selector %q: %s", selector, failure)
	}
	return nil
}

// WaitState blocks until the element addressed by the selector reaches the
// requested lifecycle state, or the timeout elapses.
func (s *Session) WaitState(ctx context.Context, selector string, state dom.State, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var action chromedp.Action
	switch state {
	case dom.StateAttached:
		action = chromedp.WaitReady(selector, chromedp.BySearch)
	case dom.StateDetached:
		action = chromedp.WaitNotPresent(selector, chromedp.BySearch)
	case dom.StateVisible:
		action = chromedp.WaitVisible(selector, chromedp.BySearch)
	case dom.StateHidden:
		action = chromedp.WaitNotVisible(selector, chromedp.BySearch)
	default:
		return fmt.Errorf("unknown element state %q", state)
	}

	if err := s.RunActions(opCtx, action); err != nil {
		if opCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("element %q did not become %s within %v: %w", selector, state, timeout, opCtx.Err())
		}
		return err
	}
	return nil
}

// IsVisible reports whether the selector currently addresses a rendered,
// visible element. Errors count as not visible.
func (s *Session) IsVisible(ctx context.Context, selector string) bool {
	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	script := fmt.Sprintf(`(function(xpath) {
		const el = document.evaluate(xpath, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		if (!el) { return false; }
		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		return rect.width > 0 && rect.height > 0 && style.visibility !== 'hidden' && style.display !== 'none';
	})(%s)`, jsonEncode(selector))

	var visible bool
	if err := s.RunActions(opCtx, chromedp.Evaluate(script, &visible)); err != nil {
		return false
	}
	return visible
}

// Screenshot captures the current viewport as PNG, for failure artifacts.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	opCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var buf []byte
	err := s.RunActions(opCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng).Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return buf, nil
}
