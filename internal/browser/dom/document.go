// browser/dom/document.go
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// State describes an element lifecycle condition the caller can wait on.
type State string

const (
	StateAttached State = "attached"
	StateDetached State = "detached"
	StateVisible  State = "visible"
	StateHidden   State = "hidden"
)

// ParseState validates and converts a user supplied state string.
func ParseState(s string) (State, error) {
	switch State(strings.ToLower(strings.TrimSpace(s))) {
	case StateAttached:
		return StateAttached, nil
	case StateDetached:
		return StateDetached, nil
	case StateVisible:
		return StateVisible, nil
	case StateHidden:
		return StateHidden, nil
	}
	return "", fmt.Errorf("unknown element state %q (supported: attached, detached, visible, hidden)", s)
}

// Document is a parsed snapshot of the page at a single point in time.
// It is cheap to rebuild; callers that poll a mutating page must re-parse a
// fresh snapshot on every attempt rather than holding onto an old Document.
type Document struct {
	root *html.Node
}

// Parse builds a Document from an HTML snapshot.
func Parse(r io.Reader) (*Document, error) {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DOM snapshot: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is a convenience wrapper around Parse for in-memory snapshots.
func ParseString(snapshot string) (*Document, error) {
	return Parse(strings.NewReader(snapshot))
}

// Query runs an XPath expression and wraps the matching element nodes.
// A malformed expression is reported as an error, not a panic.
func (d *Document) Query(expr string) ([]*Element, error) {
	nodes, err := htmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("invalid XPath expression %q: %w", expr, err)
	}
	elements := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			elements = append(elements, &Element{node: n})
		}
	}
	return elements, nil
}

// ByID returns the element carrying the given id attribute, or nil.
func (d *Document) ByID(id string) *Element {
	node := htmlquery.FindOne(d.root, fmt.Sprintf(`//*[@id=%s]`, xpathLiteral(id)))
	if node == nil {
		return nil
	}
	return &Element{node: node}
}

// All walks the whole tree and returns every element node. This is the
// candidate set for the fuzzy full-document sweep; cost is O(elements).
func (d *Document) All() []*Element {
	var elements []*Element
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			elements = append(elements, &Element{node: n})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if d.root != nil {
		walk(d.root)
	}
	return elements
}

// Element is a borrowed handle into a parsed snapshot. It stays valid only as
// long as the snapshot it came from; it must never be cached across a retry
// boundary.
type Element struct {
	node  *html.Node
	xpath string // generated lazily by XPath()
}

// Tag returns the lowercase tag name.
func (e *Element) Tag() string {
	return strings.ToLower(e.node.Data)
}

// Attr returns the value of an attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// Text returns the trimmed text content of the element subtree.
func (e *Element) Text() string {
	return strings.TrimSpace(htmlquery.InnerText(e.node))
}

// XPath returns a unique XPath selector targeting this element in the live
// page, generated on first use and memoized for the life of the handle.
func (e *Element) XPath() string {
	if e.xpath == "" {
		e.xpath = UniqueXPath(e.node)
	}
	return e.xpath
}

// Node exposes the underlying parsed node for lower level helpers.
func (e *Element) Node() *html.Node {
	return e.node
}

// SelectOption describes one <option> of a <select> element.
type SelectOption struct {
	Value    string
	Label    string
	Text     string
	Disabled bool
}

// SelectOptions extracts the options of a <select> element, honoring the
// label attribute and disabled state inherited from a parent <optgroup>.
func (e *Element) SelectOptions() []SelectOption {
	if e.Tag() != "select" {
		return nil
	}
	var options []SelectOption
	for _, node := range htmlquery.Find(e.node, ".//option") {
		text := strings.TrimSpace(htmlquery.InnerText(node))
		value := htmlquery.SelectAttr(node, "value")
		if value == "" {
			// A value-less option submits its text content.
			value = text
		}
		label := htmlquery.SelectAttr(node, "label")
		if label == "" {
			label = text
		}
		// The attribute is boolean; its presence alone disables the option.
		disabled := hasAttr(node, "disabled")
		if !disabled && node.Parent != nil && node.Parent.Type == html.ElementNode && strings.EqualFold(node.Parent.Data, "optgroup") {
			disabled = hasAttr(node.Parent, "disabled")
		}
		options = append(options, SelectOption{
			Value:    value,
			Label:    label,
			Text:     text,
			Disabled: disabled,
		})
	}
	return options
}

// IsTextInput reports whether the element accepts typed text (a fill target),
// as opposed to click targets like checkboxes, radios and buttons.
func (e *Element) IsTextInput() bool {
	switch e.Tag() {
	case "textarea":
		return true
	case "input":
		inputType, _ := e.Attr("type")
		switch strings.ToLower(inputType) {
		case "hidden", "submit", "button", "reset", "image", "checkbox", "radio", "file":
			return false
		default:
			// text, password, email, search, tel, url, number, date and the
			// implicit default all take keyboard input.
			return true
		}
	}
	// contenteditable="" implies true per the HTML spec.
	if val, ok := e.Attr("contenteditable"); ok {
		val = strings.TrimSpace(strings.ToLower(val))
		return val == "true" || val == ""
	}
	return false
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return true
		}
	}
	return false
}

// xpathLiteral quotes a string for embedding in an XPath expression. XPath 1.0
// has no escape sequence inside string literals, so values containing both
// quote kinds need a concat() construction.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, `'`)
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, `'`+p+`'`)
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
