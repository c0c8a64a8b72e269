package goquery

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var cssIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

// uniqueSelector returns a CSS selector that re-queries to the given node
// within the same document. It prefers, in order: an id selector, the
// seed selector when it matches exactly one element, and a structural
// path from body with :nth-of-type disambiguation.
func uniqueSelector(doc *goquery.Document, n *html.Node, seedSelector string) string {
	if id := attrVal(n, "id"); cssIdentRe.MatchString(id) {
		return "#" + id
	}
	if seedSelector != "" && doc.Find(seedSelector).Length() == 1 {
		return seedSelector
	}
	return cssPath(n)
}

// cssPath builds a structural selector path from the nearest id-carrying
// ancestor (or body) down to n.
func cssPath(n *html.Node) string {
	var segments []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if cur.Data == "html" {
			break
		}
		if cur.Data == "body" {
			segments = append([]string{"body"}, segments...)
			break
		}
		if cur != n {
			if id := attrVal(cur, "id"); cssIdentRe.MatchString(id) {
				segments = append([]string{"#" + id}, segments...)
				break
			}
		}
		seg := cur.Data
		if class := firstValidClass(cur); class != "" {
			seg += "." + class
		}
		seg += fmt.Sprintf(":nth-of-type(%d)", nthOfType(cur))
		segments = append([]string{seg}, segments...)
	}
	return strings.Join(segments, " > ")
}

// nthOfType returns the 1-based position of n among element siblings
// sharing its tag name.
func nthOfType(n *html.Node) int {
	pos := 1
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.ElementNode && sib.Data == n.Data {
			pos++
		}
	}
	return pos
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func firstValidClass(n *html.Node) string {
	for _, class := range strings.Fields(attrVal(n, "class")) {
		if cssIdentRe.MatchString(class) {
			return class
		}
	}
	return ""
}

// countElements returns the number of descendant element nodes of n,
// excluding n itself.
func countElements(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			count++
		}
		count += countElements(c)
	}
	return count
}

// documentOrder assigns each element node its position in a pre-order
// walk of the document. Used as a deterministic tie-break.
func documentOrder(root *html.Node) map[*html.Node]int {
	order := make(map[*html.Node]int)
	pos := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			order[n] = pos
			pos++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return order
}
