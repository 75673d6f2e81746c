// internal/resolve/strategy.go
package resolve

import (
	"context"
	"time"

	"github.com/xkilldash9x/lancet-cli/internal/browser/dom"
)

// Resolution thresholds. These are fixed, not tunables: the orchestrator
// exits early at or above earlyExitConfidence and discards any best-so-far
// at or below acceptanceThreshold.
const (
	acceptanceThreshold = 0.5
	earlyExitConfidence = 0.95
)

// DefaultFuzzyFloor is the minimum similarity the fuzzy full-document sweep
// will report a candidate at, unless overridden in Options.
const DefaultFuzzyFloor = 0.3

// Match is a single resolution result: a borrowed element handle plus the
// confidence and provenance needed to rank it against results from other
// strategies.
type Match struct {
	Element     *dom.Element
	Confidence  float64
	Strategy    string
	MatchedText string
	// Selector is the unique XPath of the element, for action targeting and
	// diagnostics.
	Selector string
}

// Options configures a single resolution call. Constructed per call, never
// persisted.
type Options struct {
	// Timeout is the overall budget, split evenly across retry attempts.
	Timeout time.Duration
	// MaxRetries is the number of resolution passes before giving up.
	MaxRetries int
	// PreferInputs moves the input-oriented strategies (placeholder,
	// aria-label, title) ahead of the generic text strategies. Fill
	// operations set this; it changes which element wins ties.
	PreferInputs bool
	// FuzzyFloor overrides the minimum similarity for the fuzzy sweep.
	// Zero means DefaultFuzzyFloor.
	FuzzyFloor float64
}

// withDefaults fills in zero values. The acceptance threshold itself is not
// configurable.
func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.FuzzyFloor <= 0 {
		o.FuzzyFloor = DefaultFuzzyFloor
	}
	return o
}

// Strategy is one independent element-finding heuristic. A strategy is
// read-only over the document and returns at most one candidate; returning
// (nil, nil) means "no match". Errors are contained by the orchestrator and
// treated as no match; they never abort a resolution pass.
type Strategy interface {
	Name() string
	Find(ctx context.Context, doc *dom.Document, description string, opts Options) (*Match, error)
}

// generalOrder tries precise text/semantic strategies first and the broad
// sweeps last. The iteration order is part of the contract: the strict
// greater-than best-so-far comparison means the earliest strategy wins a
// confidence tie.
func generalOrder(opts Options) []Strategy {
	return []Strategy{
		exactTextStrategy{},
		buttonTextStrategy{},
		linkTextStrategy{},
		ariaLabelStrategy{},
		ariaLabelledByStrategy{},
		placeholderStrategy{},
		titleStrategy{},
		ariaDescribedByStrategy{},
		partialTextStrategy{},
		fuzzyTextStrategy{floor: opts.FuzzyFloor},
	}
}

// inputOrder fronts the strategies that identify form fields, for fill-style
// operations where a label or placeholder is the strongest signal.
func inputOrder(opts Options) []Strategy {
	return []Strategy{
		placeholderStrategy{},
		ariaLabelStrategy{},
		ariaLabelledByStrategy{},
		titleStrategy{},
		exactTextStrategy{},
		buttonTextStrategy{},
		linkTextStrategy{},
		ariaDescribedByStrategy{},
		partialTextStrategy{},
		fuzzyTextStrategy{floor: opts.FuzzyFloor},
	}
}

// match is a small constructor that fills in the selector from the element.
func match(e *dom.Element, confidence float64, strategy, matchedText string) *Match {
	return &Match{
		Element:     e,
		Confidence:  confidence,
		Strategy:    strategy,
		MatchedText: matchedText,
		Selector:    e.XPath(),
	}
}
