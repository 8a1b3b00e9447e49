package selector

import (
	"golang.org/x/net/html"
)

// run holds the state shared by all evaluations of one top-level call:
// the memo side-table of combinator walks and the sibling index table.
// A run is never shared between calls.
type run struct {
	engine *Engine
	memo   map[memoKey]*memoCell
	index  map[indexKey]int
}

// memoKey identifies the answer of a combinator walk for a node.
// id is the identity of the combinator matcher.
type memoKey struct {
	node *html.Node
	id   uint64
}

// memoCell is stamped with the generation which computed it. Cells with a
// stale generation are misses.
type memoCell struct {
	gen     uint64
	matched bool
}

type indexKey struct {
	node    *html.Node
	ofType  bool
	forward bool
}

func (e *Engine) newRun() *run {
	return &run{
		engine: e,
		memo:   make(map[memoKey]*memoCell),
		index:  make(map[indexKey]int),
	}
}

// evaluation is the environment of compiled matchers. Every evaluation carries
// its own generation; nested sub-queries get a fresh one.
type evaluation struct {
	*run
	context *html.Node
	caps    *capabilities
	xml     bool
	gen     uint64
}

func (r *run) evaluate(context *html.Node, caps *capabilities) *evaluation {
	return &evaluation{
		run:     r,
		context: context,
		caps:    caps,
		xml:     caps.xml,
		gen:     r.engine.gens.Add(1),
	}
}

// sub derives an evaluation for a nested query relative to context.
func (ev *evaluation) sub(context *html.Node) *evaluation {
	return ev.run.evaluate(context, ev.caps)
}

// lookup returns the memo cell of a node for combinator id. A cell which is
// missing or stale is reported as not found.
func (ev *evaluation) lookup(n *html.Node, id uint64) (*memoCell, bool) {
	c, ok := ev.memo[memoKey{n, id}]
	if !ok || c.gen != ev.gen {
		return nil, false
	}
	return c, true
}

// store attaches cell to a node. One cell is usually shared by all nodes
// visited during a walk, so a result found at the end of the walk is
// propagated to each of them.
func (ev *evaluation) store(n *html.Node, id uint64, cell *memoCell) {
	ev.memo[memoKey{n, id}] = cell
}

// position returns the 1-based position of an element among its element
// siblings, optionally counting only siblings of the same type and
// optionally counting from the end. Positions of all siblings are computed
// in one pass and kept for the rest of the run.
func (ev *evaluation) position(n *html.Node, ofType, forward bool) int {
	if pos, ok := ev.index[indexKey{n, ofType, forward}]; ok {
		return pos
	}
	parent := n.Parent
	if parent == nil {
		return 1
	}
	counts := make(map[string]int)
	count := 0
	number := func(s *html.Node) {
		if s.Type != html.ElementNode {
			return
		}
		if ofType {
			name := typeName(s, ev.xml)
			counts[name]++
			ev.index[indexKey{s, true, forward}] = counts[name]
			return
		}
		count++
		ev.index[indexKey{s, false, forward}] = count
	}
	if forward {
		for s := parent.FirstChild; s != nil; s = s.NextSibling {
			number(s)
		}
	} else {
		for s := parent.LastChild; s != nil; s = s.PrevSibling {
			number(s)
		}
	}
	return ev.index[indexKey{n, ofType, forward}]
}

func typeName(n *html.Node, xml bool) string {
	if xml {
		return n.Data
	}
	return nodeName(n)
}
