/*
Package selector implements a selector query engine for HTML parse trees.

# Overview

Selectors are written in a CSS-like language: type, id, class, attribute and
pseudo-class selectors, joined by the combinators '>', '+', '~' and whitespace.
On top of CSS the language knows positional pseudo-classes (:first, :eq(n),
:odd, …) which select from the ordered set of elements matched so far, and a
handful of convenience pseudo-classes (:visible, :input, :contains(…), …).

A selector string runs through three stages:

	tokenizer  →  pre-normalizer  →  compiler

The tokenizer splits a selector group into comma-separated sequences of tokens.
The pre-normalizer canonicalizes token arguments (unescaping, an+b arithmetic,
pseudo-class arguments). The compiler turns every sequence into either a
chain of element predicates or, if a set-producing pseudo-class is involved,
into a pipeline operating on ordered candidate sets.
Token groups and compiled selectors are cached per engine, keyed by selector
text.

# Execution

Queries are executed on one of two paths. If the host of a document offers a
native bulk query (see package dom/host), and the selector neither depends on
the query context nor hits a known quirk of the host, the query is delegated.
Otherwise, or if the host fails, the engine walks candidate elements and tests
them against the compiled selector. Ancestor and sibling walks are memoized
for the duration of a query, tagged with a generation number.

Results are returned in document order, without duplicates.

Usage

	engine, err := selector.New()
	…
	doc, _ := html.Parse(r)
	nodes, err := engine.Query("ul.menu > li:nth-child(odd) a[href^=http]", doc, nil)

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package selector

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'selquery.selector'.
func tracer() tracing.Trace {
	return tracing.Select("selquery.selector")
}
