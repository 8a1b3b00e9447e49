package selector

import (
	"github.com/npillmayer/selquery/dom"
	"golang.org/x/net/html"
)

// combine wraps the chain accumulated left of a combinator. The resulting
// matcher tests the element right of the combinator: it moves to the parent
// (child and descendant combinators) or to the previous element sibling
// (sibling combinators) and applies inner there.
//
// The parent of a top-level element is the document node, which only
// matches if it is the evaluation context.
//
// Descendant and general sibling combinators walk repeatedly. Their results
// are memoized per generation with the combinator's id as key.
func combine(inner matcher, typ string, id uint64) matcher {
	switch typ {
	case ">":
		return func(n *html.Node, ev *evaluation) bool {
			return n.Parent != nil && inner(n.Parent, ev)
		}
	case "+":
		return func(n *html.Node, ev *evaluation) bool {
			s := dom.PrevElement(n)
			return s != nil && inner(s, ev)
		}
	case " ":
		return walking(inner, id, parent)
	case "~":
		return walking(inner, id, dom.PrevElement)
	}
	panic("selector: unknown combinator " + typ)
}

func parent(n *html.Node) *html.Node {
	return n.Parent
}

// walking tests inner on all nodes reachable by repeated steps. All nodes
// visited share one memo cell, which receives the result of the walk.
func walking(inner matcher, id uint64, step func(*html.Node) *html.Node) matcher {
	return func(n *html.Node, ev *evaluation) bool {
		var cell *memoCell
		for s := step(n); s != nil; s = step(s) {
			if c, ok := ev.lookup(s, id); ok {
				if cell != nil {
					cell.matched = c.matched
				}
				return c.matched
			}
			if cell == nil {
				cell = &memoCell{gen: ev.gen}
			}
			ev.store(s, id, cell)
			if inner(s, ev) {
				cell.matched = true
				return true
			}
		}
		return false
	}
}
