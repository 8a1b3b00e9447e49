/*
Package cssom abstracts style sheets as a source of selectors.

# Overview

Style sheets embedded into HTML documents are the most common real-world
collection of selectors. Running every rule prelude of a page's style sheets
against the page itself is a convenient smoke test for a selector engine,
and tells which rules of a sheet are dead.

CSS parsing is de-coupled by introducing the interfaces StyleSheet and Rule.
A concrete implementation based on https://github.com/aymerick/douceur
may be found in sub-package douceuradapter.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'selquery.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("selquery.cssom")
}
