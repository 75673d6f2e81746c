// browser/dom/xpath.go
package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// UniqueXPath generates a selector that targets exactly one node in the live
// page. An ancestor with an id attribute is used as the anchor when one
// exists; otherwise the path is positional from the document root.
func UniqueXPath(node *html.Node) string {
	if node == nil {
		return ""
	}

	var segments []string
	for n := node; n != nil && n.Type != html.DocumentNode; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		tag := strings.ToLower(n.Data)
		if tag == "" {
			continue
		}

		// An id attribute gives a stable absolute anchor; stop climbing.
		if id := htmlquery.SelectAttr(n, "id"); id != "" {
			segments = append(segments, fmt.Sprintf(`//*[@id=%s]`, xpathLiteral(id)))
			break
		}

		// 1-based index among same-tag siblings.
		index := 1
		for prev := n.PrevSibling; prev != nil; prev = prev.PrevSibling {
			if prev.Type == html.ElementNode && strings.EqualFold(prev.Data, tag) {
				index++
			}
		}
		segments = append(segments, fmt.Sprintf("%s[%d]", tag, index))
	}

	if len(segments) == 0 {
		return "/"
	}

	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}

	xpath := strings.Join(segments, "/")
	if !strings.HasPrefix(xpath, "//*[@id=") {
		xpath = "/" + xpath
	}
	return xpath
}
