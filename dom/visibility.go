package dom

import (
	"strings"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Trees handed to us are never laid out, so visibility is approximated from
// markup alone: an element is hidden if it or one of its ancestors is not
// rendered or is switched off by attribute or inline style.

// IsHidden reports whether an element will not be rendered.
func IsHidden(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return true
	}
	for e := n; e != nil && e.Type == html.ElementNode; e = e.Parent {
		if hiddenSelf(e) {
			return true
		}
	}
	return false
}

func hiddenSelf(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Head, atom.Script, atom.Style, atom.Template, atom.Title,
		atom.Meta, atom.Link, atom.Base, atom.Noscript:
		return true
	case atom.Input:
		if t, ok := Attr(n, "type", false); ok && strings.EqualFold(t, "hidden") {
			return true
		}
	}
	if HasAttr(n, "hidden") {
		return true
	}
	if style, ok := Attr(n, "style", false); ok && style != "" {
		return hiddenByStyle(style)
	}
	return false
}

// hiddenByStyle inspects an inline style attribute. Later declarations override
// earlier ones, as in a regular cascade for a single rule.
func hiddenByStyle(style string) bool {
	// douceur drops the value of a final declaration lacking its semicolon
	if !strings.HasSuffix(strings.TrimSpace(style), ";") {
		style += ";"
	}
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		tracer().Debugf("cannot parse inline style %q: %v", style, err)
		return false
	}
	var displayNone, invisible bool
	for _, d := range decls {
		v := strings.ToLower(strings.TrimSpace(d.Value))
		switch strings.ToLower(d.Property) {
		case "display":
			displayNone = v == "none"
		case "visibility":
			invisible = v == "hidden" || v == "collapse"
		}
	}
	return displayNone || invisible
}
