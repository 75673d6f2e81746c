// browser/dom/roles.go
package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// implicitRoleSelectors maps the supported ARIA role vocabulary to the XPath
// selecting elements that carry the role implicitly through tag semantics.
// Elements with an explicit role attribute are matched separately so the two
// sets can be unioned per query.
var implicitRoleSelectors = map[string]string{
	"button":        `//button | //input[@type='button' or @type='submit' or @type='reset']`,
	"textbox":       `//textarea | //input[not(@type) or @type='text' or @type='email' or @type='password' or @type='search' or @type='tel' or @type='url' or @type='number']`,
	"checkbox":      `//input[@type='checkbox']`,
	"radio":         `//input[@type='radio']`,
	"link":          `//a[@href]`,
	"heading":       `//h1 | //h2 | //h3 | //h4 | //h5 | //h6`,
	"list":          `//ul | //ol`,
	"listitem":      `//li`,
	"img":           `//img`,
	"table":         `//table`,
	"row":           `//tr`,
	"cell":          `//td | //th`,
	"form":          `//form`,
	"navigation":    `//nav`,
	"main":          `//main`,
	"complementary": `//aside`,
	"contentinfo":   `//footer`,
	"banner":        `//header`,
	"search":        ``, // no implicit HTML mapping; explicit role attribute only
	"alert":         ``,
	"dialog":        `//dialog`,
	"menu":          ``,
	"menuitem":      ``,
	"tab":           ``,
	"tabpanel":      ``,
}

// KnownRole reports whether the role belongs to the supported vocabulary.
func KnownRole(role string) bool {
	_, ok := implicitRoleSelectors[strings.ToLower(role)]
	return ok
}

// ElementsByRole returns all elements matching the given accessible role,
// whether through implicit tag semantics or an explicit role attribute.
// Unrecognized roles fall back to the explicit-attribute scan alone.
// Duplicates between the two sets are removed.
func (d *Document) ElementsByRole(role string) []*Element {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return nil
	}

	byNode := make(map[*html.Node]bool)
	var out []*Element

	appendAll := func(elements []*Element) {
		for _, e := range elements {
			if byNode[e.node] {
				continue
			}
			byNode[e.node] = true
			out = append(out, e)
		}
	}

	if sel, ok := implicitRoleSelectors[role]; ok && sel != "" {
		// The selector table is static, so a query error here means a
		// programming mistake; treat it as an empty set either way.
		if elements, err := d.Query(sel); err == nil {
			appendAll(elements)
		}
	}
	if elements, err := d.Query(`//*[@role=` + xpathLiteral(role) + `]`); err == nil {
		appendAll(elements)
	}
	return out
}

// AccessibleName computes the assistive-technology-facing label of an
// element: aria-label first, then the text of aria-labelledby references,
// then the element's own text content, then input value/placeholder, then
// the title attribute. Returns "" when no name source applies.
func (d *Document) AccessibleName(e *Element) string {
	if label, ok := e.Attr("aria-label"); ok {
		if label = strings.TrimSpace(label); label != "" {
			return label
		}
	}
	if refs, ok := e.Attr("aria-labelledby"); ok {
		if name := d.resolveIDRefsText(refs); name != "" {
			return name
		}
	}
	if text := e.Text(); text != "" {
		return text
	}
	if e.Tag() == "input" {
		if value, ok := e.Attr("value"); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		if placeholder, ok := e.Attr("placeholder"); ok && strings.TrimSpace(placeholder) != "" {
			return strings.TrimSpace(placeholder)
		}
	}
	if e.Tag() == "img" {
		if alt, ok := e.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			return strings.TrimSpace(alt)
		}
	}
	if title, ok := e.Attr("title"); ok {
		return strings.TrimSpace(title)
	}
	return ""
}

// resolveIDRefsText joins the text content of a whitespace separated id
// reference list, in reference order, skipping ids that resolve to nothing.
func (d *Document) resolveIDRefsText(refs string) string {
	var parts []string
	for _, id := range strings.Fields(refs) {
		if target := d.ByID(id); target != nil {
			if text := target.Text(); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, " ")
}
