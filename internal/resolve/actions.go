// internal/resolve/actions.go
//
// The action executor: the public resolve-then-act surface consumed by the
// runner and the CLI. Each action resolves with retry, validates the element
// kind, waits for the interaction precondition, and only then touches the
// page.
package resolve

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/lancet-cli/internal/browser/dom"
)

// preconditionTimeout bounds the visibility/editability wait preceding each
// action.
const preconditionTimeout = 5 * time.Second

// Actions binds a resolver to a live page.
type Actions struct {
	page     Page
	resolver *Resolver
	logger   *zap.Logger
}

// NewActions creates the action executor for one page.
func NewActions(page Page, resolver *Resolver, logger *zap.Logger) *Actions {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resolver == nil {
		resolver = NewResolver(logger)
	}
	return &Actions{page: page, resolver: resolver, logger: logger}
}

// Find exposes raw resolution for diagnostics and advanced callers: one
// retried lookup, nil when nothing acceptable matched, no error thrown for
// the not-found case.
func (a *Actions) Find(ctx context.Context, description string, opts Options) (*Match, error) {
	return a.resolver.ResolveWithRetry(ctx, a.page, description, opts)
}

// Click resolves the description and clicks the winning element.
func (a *Actions) Click(ctx context.Context, description string, opts Options) error {
	m, err := a.resolve(ctx, description, opts)
	if err != nil {
		return err
	}
	a.logger.Debug("Clicking resolved element.",
		zap.String("description", description),
		zap.String("strategy", m.Strategy),
		zap.Float64("confidence", m.Confidence),
		zap.String("selector", m.Selector))

	if err := a.awaitVisible(ctx, m.Selector); err != nil {
		return &ActionError{Action: "click", Description: description, Err: fmt.Errorf("element never became visible: %w", err)}
	}
	if err := a.page.ExecuteClick(ctx, m.Selector); err != nil {
		return &ActionError{Action: "click", Description: description, Err: err}
	}
	return nil
}

// Fill resolves the description under input-preferring strategy order,
// validates the target accepts text, and sets the value by direct assignment
// plus synthetic events rather than simulated keystrokes.
func (a *Actions) Fill(ctx context.Context, description, value string, opts Options) error {
	opts.PreferInputs = true
	m, err := a.resolve(ctx, description, opts)
	if err != nil {
		return err
	}
	if !m.Element.IsTextInput() {
		return &WrongKindError{Description: description, Want: "a text input", Got: m.Element.Tag()}
	}
	a.logger.Debug("Filling resolved element.",
		zap.String("description", description),
		zap.String("strategy", m.Strategy),
		zap.String("selector", m.Selector),
		zap.Int("value_length", len(value)))

	if err := a.awaitVisible(ctx, m.Selector); err != nil {
		return &ActionError{Action: "fill", Description: description, Err: fmt.Errorf("element never became editable: %w", err)}
	}
	if err := a.page.ExecuteFill(ctx, m.Selector, value); err != nil {
		return &ActionError{Action: "fill", Description: description, Err: err}
	}
	return nil
}

// Select resolves a <select> element and chooses an option, matching the
// requested option text against option labels first, then values, then raw
// text content.
func (a *Actions) Select(ctx context.Context, description, option string, opts Options) error {
	opts.PreferInputs = true
	m, err := a.resolve(ctx, description, opts)
	if err != nil {
		return err
	}
	if m.Element.Tag() != "select" {
		return &WrongKindError{Description: description, Want: "a <select>", Got: m.Element.Tag()}
	}

	value, ok := chooseOption(m.Element.SelectOptions(), option)
	if !ok {
		return &ActionError{
			Action:      "select",
			Description: description,
			Err:         fmt.Errorf("no option matching %q by label, value, or text", option),
		}
	}
	a.logger.Debug("Selecting option.",
		zap.String("description", description),
		zap.String("option", option),
		zap.String("value", value),
		zap.String("selector", m.Selector))

	if err := a.awaitVisible(ctx, m.Selector); err != nil {
		return &ActionError{Action: "select", Description: description, Err: fmt.Errorf("element never became visible: %w", err)}
	}
	if err := a.page.ExecuteSelect(ctx, m.Selector, value); err != nil {
		return &ActionError{Action: "select", Description: description, Err: err}
	}
	return nil
}

// WaitFor blocks until the description resolves to an element in the given
// state. It fails with *TimeoutError when the budget runs out.
func (a *Actions) WaitFor(ctx context.Context, description string, state dom.State, timeout time.Duration, opts Options) (*Match, error) {
	return a.resolver.WaitFor(ctx, a.page, description, state, timeout, opts)
}

// awaitVisible is the shared visibility precondition. An element that is
// already visible skips the polling wait entirely.
func (a *Actions) awaitVisible(ctx context.Context, selector string) error {
	if a.page.IsVisible(ctx, selector) {
		return nil
	}
	return a.page.WaitState(ctx, selector, dom.StateVisible, preconditionTimeout)
}

// resolve is the shared resolve-or-fail step for the actions. A nil result
// becomes the thrown not-found error here, at the action boundary.
func (a *Actions) resolve(ctx context.Context, description string, opts Options) (*Match, error) {
	m, err := a.resolver.ResolveWithRetry(ctx, a.page, description, opts)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, noMatchError(description)
	}
	return m, nil
}

// chooseOption applies the label -> value -> text fallback order, skipping
// disabled options. Comparisons are normalized; the raw-text pass also
// accepts a substring hit.
func chooseOption(options []dom.SelectOption, want string) (string, bool) {
	target := normalize(want)
	if target == "" {
		return "", false
	}
	for _, o := range options {
		if !o.Disabled && normalize(o.Label) == target {
			return o.Value, true
		}
	}
	for _, o := range options {
		if !o.Disabled && normalize(o.Value) == target {
			return o.Value, true
		}
	}
	for _, o := range options {
		if o.Disabled {
			continue
		}
		if text := normalize(o.Text); text != "" && strings.Contains(text, target) {
			return o.Value, true
		}
	}
	return "", false
}
