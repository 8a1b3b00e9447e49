/*
Package dom provides helpers for operating on HTML parse trees as produced by
golang.org/x/net/html.

# Overview

The selector engine never owns the trees it runs against. Trees are created by
clients (usually with html.Parse or html.ParseFragment) and handed to the engine
on every call. This package collects the small set of tree operations the engine
relies on: document identity, element iteration in document order, sibling
navigation skipping non-element nodes, attribute access and text content.

Document identity is the topmost ancestor of a node. For trees created by html.Parse
this is the node of type html.DocumentNode; for detached sub-trees it is the root
of the sub-tree.

# XML trees

Trees may be assembled by hand, e.g. from an XML decoder. A tree is treated as XML
if its document element is not an element named "html". For XML trees tag names
and attribute keys are compared case-sensitively.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'selquery.dom'
func tracer() tracing.Trace {
	return tracing.Select("selquery.dom")
}
