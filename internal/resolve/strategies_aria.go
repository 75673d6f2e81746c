// internal/resolve/strategies_aria.go
//
// Attribute- and accessibility-driven strategies: aria-label/labelledby/
// describedby, placeholder, title, and the two role strategies consumed by
// the role[description] query path.
package resolve

import (
	"context"
	"strings"

	"github.com/xkilldash9x/lancet-cli/internal/browser/dom"
)

// -- aria-label --

type ariaLabelStrategy struct{}

func (ariaLabelStrategy) Name() string { return "aria-label" }

func (ariaLabelStrategy) Find(ctx context.Context, doc *dom.Document, description string, _ Options) (*Match, error) {
	want := normalize(description)
	if want == "" {
		return nil, nil
	}
	elements, err := doc.Query(`//*[@aria-label]`)
	if err != nil {
		return nil, err
	}
	for _, e := range elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		label, _ := e.Attr("aria-label")
		if normalize(label) == want {
			return match(e, 0.9, "aria-label", label), nil
		}
	}
	return nil, nil
}

// -- aria-labelledby --

type ariaLabelledByStrategy struct{}

func (ariaLabelledByStrategy) Name() string { return "aria-labelledby" }

func (ariaLabelledByStrategy) Find(ctx context.Context, doc *dom.Document, description string, _ Options) (*Match, error) {
	want := normalize(description)
	if want == "" {
		return nil, nil
	}
	elements, err := doc.Query(`//*[@aria-labelledby]`)
	if err != nil {
		return nil, err
	}
	for _, e := range elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		refs, _ := e.Attr("aria-labelledby")
		labelText := labelledByText(doc, refs)
		if labelText == "" {
			continue
		}
		if normalize(labelText) == want {
			return match(e, 0.95, "aria-labelledby", labelText), nil
		}
	}
	return nil, nil
}

// labelledByText resolves a whitespace separated id list to the joined text
// of the referenced elements.
func labelledByText(doc *dom.Document, refs string) string {
	var parts []string
	for _, id := range strings.Fields(refs) {
		if target := doc.ByID(id); target != nil {
			if text := target.Text(); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, " ")
}

// -- aria-describedby --

// ariaDescribedByStrategy is a secondary signal: a description is weaker
// evidence than a label, so its confidence is scaled down and it runs after
// the label strategies in both orderings.
type ariaDescribedByStrategy struct{}

func (ariaDescribedByStrategy) Name() string { return "aria-describedby" }

func (ariaDescribedByStrategy) Find(ctx context.Context, doc *dom.Document, description string, _ Options) (*Match, error) {
	if normalize(description) == "" {
		return nil, nil
	}
	elements, err := doc.Query(`//*[@aria-describedby]`)
	if err != nil {
		return nil, err
	}

	var best *Match
	for _, e := range elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		refs, _ := e.Attr("aria-describedby")
		descText := labelledByText(doc, refs)
		if descText == "" {
			continue
		}
		confidence := PartialConfidence(description, descText) * 0.95
		if confidence <= 0 {
			continue
		}
		if best == nil || confidence > best.Confidence {
			best = match(e, confidence, "aria-describedby", descText)
		}
	}
	return best, nil
}

// -- placeholder --

type placeholderStrategy struct{}

func (placeholderStrategy) Name() string { return "placeholder" }

func (placeholderStrategy) Find(ctx context.Context, doc *dom.Document, description string, _ Options) (*Match, error) {
	want := normalize(description)
	if want == "" {
		return nil, nil
	}
	elements, err := doc.Query(`//input[@placeholder] | //textarea[@placeholder]`)
	if err != nil {
		return nil, err
	}

	var best *Match
	for _, e := range elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		placeholder, _ := e.Attr("placeholder")
		if !strings.Contains(normalize(placeholder), want) {
			continue
		}
		confidence := PartialConfidence(description, placeholder)
		if best == nil || confidence > best.Confidence {
			best = match(e, confidence, "placeholder", placeholder)
			if confidence == 1.0 {
				break
			}
		}
	}
	return best, nil
}

// -- title-attr --

type titleStrategy struct{}

func (titleStrategy) Name() string { return "title-attr" }

func (titleStrategy) Find(ctx context.Context, doc *dom.Document, description string, _ Options) (*Match, error) {
	want := normalize(description)
	if want == "" {
		return nil, nil
	}
	elements, err := doc.Query(`//*[@title]`)
	if err != nil {
		return nil, err
	}

	var contains *Match
	for _, e := range elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		title, _ := e.Attr("title")
		got := normalize(title)
		if got == want {
			return match(e, 0.8, "title-attr", title), nil
		}
		if contains == nil && strings.Contains(got, want) {
			contains = match(e, 0.7, "title-attr", title)
		}
	}
	return contains, nil
}

// -- aria-role (native) --

// ariaRoleStrategy resolves a role[description] query against accessible
// roles and names. An exact accessible-name match wins outright; otherwise a
// permissive case-insensitive pattern built from the description's words is
// accepted at reduced confidence.
type ariaRoleStrategy struct {
	query RoleQuery
}

func (ariaRoleStrategy) Name() string { return "aria-role" }

func (s ariaRoleStrategy) Find(ctx context.Context, doc *dom.Document, _ string, _ Options) (*Match, error) {
	want := normalize(s.query.Description)
	if want == "" {
		return nil, nil
	}
	candidates := doc.ElementsByRole(s.query.Role)
	if len(candidates) == 0 {
		return nil, nil
	}

	for _, e := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := doc.AccessibleName(e)
		if normalize(name) == want {
			return match(e, 1.0, "aria-role", name), nil
		}
	}

	pattern, err := permissiveNamePattern(s.query.Description)
	if err != nil {
		return nil, err
	}
	for _, e := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := doc.AccessibleName(e)
		if name != "" && pattern.MatchString(name) {
			return match(e, 0.9, "aria-role", name), nil
		}
	}
	return nil, nil
}

// -- implicit-role --

// implicitRoleStrategy matches a role[description] query against the fixed
// role vocabulary mapped to concrete tag/attribute selectors, scoring each
// candidate by a priority-ordered signal list: aria-label at full partial
// confidence, then aria-labelledby, then aria-describedby scaled by 0.95,
// then placeholder (textbox role only), then text content scaled by 0.85.
type implicitRoleStrategy struct {
	query RoleQuery
}

func (implicitRoleStrategy) Name() string { return "implicit-role" }

func (s implicitRoleStrategy) Find(ctx context.Context, doc *dom.Document, _ string, _ Options) (*Match, error) {
	description := s.query.Description
	if normalize(description) == "" {
		return nil, nil
	}

	var best *Match
	for _, e := range doc.ElementsByRole(s.query.Role) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		confidence, matchedText := s.scoreCandidate(doc, e, description)
		if confidence <= 0 {
			continue
		}
		if best == nil || confidence > best.Confidence {
			best = match(e, confidence, "implicit-role", matchedText)
			if confidence == 1.0 {
				break
			}
		}
	}
	return best, nil
}

// scoreCandidate evaluates the label signals in priority order and returns
// the first that produces a usable confidence.
func (s implicitRoleStrategy) scoreCandidate(doc *dom.Document, e *dom.Element, description string) (float64, string) {
	if label, ok := e.Attr("aria-label"); ok && strings.TrimSpace(label) != "" {
		if c := PartialConfidence(description, label); c > 0 {
			return c, label
		}
	}
	if refs, ok := e.Attr("aria-labelledby"); ok {
		if text := labelledByText(doc, refs); text != "" {
			if c := PartialConfidence(description, text); c > 0 {
				return c, text
			}
		}
	}
	if refs, ok := e.Attr("aria-describedby"); ok {
		if text := labelledByText(doc, refs); text != "" {
			if c := PartialConfidence(description, text) * 0.95; c > 0 {
				return c, text
			}
		}
	}
	if s.query.Role == "textbox" {
		if placeholder, ok := e.Attr("placeholder"); ok && strings.TrimSpace(placeholder) != "" {
			if c := PartialConfidence(description, placeholder); c > 0 {
				return c, placeholder
			}
		}
	}
	if text := e.Text(); text != "" {
		if c := PartialConfidence(description, text) * 0.85; c > 0 {
			return c, text
		}
	}
	return 0, ""
}
