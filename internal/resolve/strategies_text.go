// internal/resolve/strategies_text.go
//
// Text-content strategies: exact, button, link, partial and the fuzzy
// full-document sweep. Each consumes a parsed snapshot and returns at most
// one candidate; selection within a strategy is first-match in document
// order except for the fuzzy sweep, which picks the global best.
package resolve

import (
	"context"
	"strings"

	"github.com/xkilldash9x/lancet-cli/internal/browser/dom"
)

// textBearingXPath is the fixed set of interactive and text-bearing tag kinds
// the partial text strategy sweeps. Broad enough for labels and headings,
// narrow enough to skip pure layout containers' duplicated text.
const textBearingXPath = `//a | //button | //label | //legend | //summary | ` +
	`//h1 | //h2 | //h3 | //h4 | //h5 | //h6 | //p | //li | //th | //td | //span | //div | //option`

// exactTextXPath is textBearingXPath minus buttons: an exact hit on a button
// belongs to the button-text strategy, which reports it under its own name.
const exactTextXPath = `//a | //label | //legend | //summary | ` +
	`//h1 | //h2 | //h3 | //h4 | //h5 | //h6 | //p | //li | //th | //td | //span | //div | //option`

// buttonLikeXPath covers native buttons, ARIA buttons and button-flavored
// inputs.
const buttonLikeXPath = `//button | //*[@role='button'] | //input[@type='submit' or @type='button' or @type='reset']`

// -- exact-text --

type exactTextStrategy struct{}

func (exactTextStrategy) Name() string { return "exact-text" }

func (exactTextStrategy) Find(ctx context.Context, doc *dom.Document, description string, _ Options) (*Match, error) {
	want := normalize(description)
	if want == "" {
		return nil, nil
	}
	elements, err := doc.Query(exactTextXPath)
	if err != nil {
		return nil, err
	}
	for _, e := range elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := e.Text()
		if normalize(text) == want {
			return match(e, 1.0, "exact-text", text), nil
		}
	}
	return nil, nil
}

// -- button-text --

type buttonTextStrategy struct{}

func (buttonTextStrategy) Name() string { return "button-text" }

func (buttonTextStrategy) Find(ctx context.Context, doc *dom.Document, description string, _ Options) (*Match, error) {
	want := normalize(description)
	if want == "" {
		return nil, nil
	}
	elements, err := doc.Query(buttonLikeXPath)
	if err != nil {
		return nil, err
	}

	var contains *Match
	for _, e := range elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := e.Text()
		if text == "" && e.Tag() == "input" {
			// Submit/reset inputs label themselves through the value attribute.
			text, _ = e.Attr("value")
		}
		got := normalize(text)
		if got == "" {
			continue
		}
		if got == want {
			return match(e, 1.0, "button-text", text), nil
		}
		if contains == nil && strings.Contains(got, want) {
			contains = match(e, 0.95, "button-text", text)
		}
	}
	return contains, nil
}

// -- link-text --

type linkTextStrategy struct{}

func (linkTextStrategy) Name() string { return "link-text" }

func (linkTextStrategy) Find(ctx context.Context, doc *dom.Document, description string, _ Options) (*Match, error) {
	if normalize(description) == "" {
		return nil, nil
	}
	elements, err := doc.Query(`//a`)
	if err != nil {
		return nil, err
	}

	var best *Match
	for _, e := range elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := e.Text()
		if text == "" {
			continue
		}
		confidence := PartialConfidence(description, text)
		if confidence <= 0 {
			continue
		}
		if best == nil || confidence > best.Confidence {
			best = match(e, confidence, "link-text", text)
			if confidence == 1.0 {
				break
			}
		}
	}
	return best, nil
}

// -- partial-text --

// partialTextMinLength guards the broad sweep against one- and two-character
// queries, which match nearly everything.
const partialTextMinLength = 3

type partialTextStrategy struct{}

func (partialTextStrategy) Name() string { return "partial-text" }

func (partialTextStrategy) Find(ctx context.Context, doc *dom.Document, description string, _ Options) (*Match, error) {
	want := normalize(description)
	if len(want) < partialTextMinLength {
		return nil, nil
	}
	elements, err := doc.Query(textBearingXPath)
	if err != nil {
		return nil, err
	}

	var best *Match
	for _, e := range elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := e.Text()
		if text == "" || !strings.Contains(normalize(text), want) {
			continue
		}
		confidence := PartialConfidence(description, text)
		if best == nil || confidence > best.Confidence {
			best = match(e, confidence, "partial-text", text)
			if confidence == 1.0 {
				break
			}
		}
	}
	return best, nil
}

// -- fuzzy-text --

// fuzzyTextMaxLength excludes huge text blobs (articles, scripts rendered as
// text) from the similarity sweep.
const fuzzyTextMaxLength = 200

// fuzzyTextStrategy is the last-resort sweep over every element in the tree.
// The sweep is O(elements) per invocation and unbounded; only per-element
// text length is capped.
type fuzzyTextStrategy struct {
	floor float64
}

func (fuzzyTextStrategy) Name() string { return "fuzzy-text" }

func (s fuzzyTextStrategy) Find(ctx context.Context, doc *dom.Document, description string, _ Options) (*Match, error) {
	if normalize(description) == "" {
		return nil, nil
	}
	floor := s.floor
	if floor <= 0 {
		floor = DefaultFuzzyFloor
	}

	var best *Match
	for _, e := range doc.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := e.Text()
		if len(text) == 0 || len(text) >= fuzzyTextMaxLength {
			continue
		}
		score := Similarity(description, text)
		if score < floor {
			continue
		}
		if best == nil || score > best.Confidence {
			best = match(e, score, "fuzzy-text", text)
		}
	}
	return best, nil
}
