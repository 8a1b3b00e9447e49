/*
Command selq runs selector queries against HTML documents.

Usage:

	selq query 'ul > li:nth-child(odd)' page.html
	selq query --context '#main' 'p:first' page.html
	selq explain 'div:has(> p):not(.x) a'
	selq rules page.html
	selq dot 'li.x' page.html | dot -Tsvg > tree.svg

Documents are read from stdin if no file is given. A YAML configuration
(see selector.Config) may be given with --config.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
