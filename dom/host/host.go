/*
Package host defines the document-level primitives a selector engine may delegate to,
and provides a default implementation for golang.org/x/net/html trees.

A host is any value; its capabilities are discovered by interface assertion.
The engine probes a host once per document and falls back to its own traversal
for every capability a host does not offer, or which fails during probing.

The default host, HTML, implements bulk queries and element tests with
https://github.com/andybalholm/cascadia. Cascadia is a complete CSS selector
engine on its own, but its dialect differs from ours in a few places (see
QueryQuirks); queries hitting one of these patterns are not delegated.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package host

import (
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
)

// tracer traces with key 'selquery.host'.
func tracer() tracing.Trace {
	return tracing.Select("selquery.host")
}

// Host is the document implementation the engine operates against.
// Name is used for diagnostics only.
type Host interface {
	Name() string
}

// BulkQuerier is implemented by hosts offering a native selector query.
// QueryAll returns all element descendants of root matching selector, in
// document order. root itself is not included.
type BulkQuerier interface {
	QueryAll(root *html.Node, selector string) ([]*html.Node, error)
}

// ElementMatcher is implemented by hosts offering a native single-element test.
type ElementMatcher interface {
	MatchElement(n *html.Node, selector string) (bool, error)
}

// IDLookup finds the first element with a given id within a document.
type IDLookup interface {
	ElementByID(doc *html.Node, id string) *html.Node
}

// TagLookup finds all element descendants of root with a given tag name.
// The tag "*" selects all elements.
type TagLookup interface {
	ElementsByTagName(root *html.Node, tag string) []*html.Node
}

// ClassLookup finds all element descendants of root carrying a class.
type ClassLookup interface {
	ElementsByClassName(root *html.Node, class string) []*html.Node
}

// PositionComparer compares the document position of two nodes.
// order is negative if a precedes b, positive if a follows b and zero if
// a == b. connected is false if a and b do not share a common root.
type PositionComparer interface {
	ComparePosition(a, b *html.Node) (order int, connected bool)
}

// QuirkReporter is implemented by hosts which know about selector patterns
// their native primitives handle differently from the engine.
// Patterns are regular expressions in regexp2 syntax.
type QuirkReporter interface {
	QueryQuirks() []string
	MatchQuirks() []string
}
