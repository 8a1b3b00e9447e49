package dom

import (
	"golang.org/x/net/html"
)

// Predicate is a function type to match against nodes of a tree.
type Predicate func(n *html.Node) bool

// NodeIsText is a predicate to match text-nodes of a DOM.
var NodeIsText Predicate = func(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// NodeIsElement is a predicate to match element-nodes of a DOM.
var NodeIsElement Predicate = IsElement

// NodeHasTag returns a predicate to match elements with a given tag name.
// Tag names are compared case-insensitively unless xml is set.
func NodeHasTag(tag string, xml bool) Predicate {
	if tag == "*" {
		return NodeIsElement
	}
	if !xml {
		tag = lowerASCII(tag)
	}
	return func(n *html.Node) bool {
		if n == nil || n.Type != html.ElementNode {
			return false
		}
		if xml {
			return n.Data == tag
		}
		return lowerASCII(n.Data) == tag
	}
}

// Collect returns all element descendants of root matching a predicate,
// in document order.
func Collect(root *html.Node, pred Predicate) []*html.Node {
	var found []*html.Node
	WalkElements(root, func(n *html.Node) bool {
		if pred(n) {
			found = append(found, n)
		}
		return true
	})
	return found
}

// First returns the first element descendant of root matching a predicate,
// or nil.
func First(root *html.Node, pred Predicate) *html.Node {
	var found *html.Node
	WalkElements(root, func(n *html.Node) bool {
		if pred(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

func lowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if 'A' <= b[j] && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
