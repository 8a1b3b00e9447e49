package dom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// IsElement returns true if n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Document returns the document identity of a node, i.e. its topmost ancestor.
// For a nil node, Document returns nil.
func Document(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// DocumentElement returns the first element child of a document node.
// If doc is an element itself (detached sub-tree), doc is returned.
func DocumentElement(doc *html.Node) *html.Node {
	if doc == nil {
		return nil
	}
	if doc.Type == html.ElementNode {
		return doc
	}
	for ch := doc.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode {
			return ch
		}
	}
	return nil
}

// IsXML reports whether the tree of n is to be treated as an XML tree: a
// document node with a document element other than "html".
// Detached sub-trees and empty documents are treated as HTML.
func IsXML(n *html.Node) bool {
	doc := Document(n)
	if doc == nil || doc.Type != html.DocumentNode {
		return false
	}
	de := DocumentElement(doc)
	return de != nil && de.Data != "html"
}

// Contains returns true if node is a strict descendant of ancestor.
func Contains(ancestor, node *html.Node) bool {
	if ancestor == nil || node == nil {
		return false
	}
	for p := node.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// PrevElement returns the nearest previous sibling which is an element.
func PrevElement(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// NextElement returns the nearest following sibling which is an element.
func NextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// WalkElements visits all element descendants of root in document order.
// root itself is not visited. If f returns false, the walk stops.
func WalkElements(root *html.Node, f func(*html.Node) bool) {
	if root == nil {
		return
	}
	walkElements(root, f)
}

func walkElements(n *html.Node, f func(*html.Node) bool) bool {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode && !f(ch) {
			return false
		}
		if ch.FirstChild != nil && !walkElements(ch, f) {
			return false
		}
	}
	return true
}

// Elements returns all element descendants of root in document order.
func Elements(root *html.Node) []*html.Node {
	var elems []*html.Node
	WalkElements(root, func(n *html.Node) bool {
		elems = append(elems, n)
		return true
	})
	return elems
}

// Attr returns the value of attribute key. For HTML trees the key is matched
// case-insensitively.
func Attr(n *html.Node, key string, xml bool) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		k := a.Key
		if a.Namespace != "" {
			k = a.Namespace + ":" + a.Key
		}
		if k == key || (!xml && strings.EqualFold(k, key)) {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr is a shortcut for Attr(…) which drops the value.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key, false)
	return ok
}

// TextContent returns the concatenated text of all text descendants of n.
// Comments are not included.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	collectText(n, &b)
	return b.String()
}

func collectText(n *html.Node, b *strings.Builder) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		switch ch.Type {
		case html.TextNode:
			b.WriteString(ch.Data)
		case html.ElementNode:
			collectText(ch, b)
		}
	}
}

// NodeName returns a readable name for a node, mirroring W3C nodeName.
func NodeName(n *html.Node) string {
	switch n.Type {
	case html.ElementNode:
		return n.Data
	case html.TextNode:
		return "#text"
	case html.DocumentNode:
		return "#document"
	case html.CommentNode:
		return "#comment"
	case html.DoctypeNode:
		return "#doctype"
	}
	return "#node"
}

// Path returns a short location string for a node, e.g. "html>body>div:2>p:1",
// where numbers denote the (1-based) element position among its siblings.
// It is intended for diagnostics.
func Path(n *html.Node) string {
	if n == nil {
		return "<nil>"
	}
	var steps []string
	for ; n != nil && n.Type == html.ElementNode; n = n.Parent {
		pos := 1
		for s := PrevElement(n); s != nil; s = PrevElement(s) {
			pos++
		}
		steps = append(steps, fmt.Sprintf("%s:%d", n.Data, pos))
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return strings.Join(steps, ">")
}
