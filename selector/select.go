package selector

import (
	"github.com/npillmayer/selquery/dom"
	"golang.org/x/net/html"
)

// Walk-path execution of compiled selectors.

// searchRoot returns the node whose descendants are candidates for an
// alternative: the context, or its parent for a leading sibling combinator.
func searchRoot(context *html.Node, lead string) *html.Node {
	if lead == "+" || lead == "~" {
		return context.Parent
	}
	return context
}

func keep(set []*html.Node, m matcher, ev *evaluation) []*html.Node {
	var out []*html.Node
	for _, n := range set {
		if n != nil && n.Type == html.ElementNode && m(n, ev) {
			out = append(out, n)
		}
	}
	return out
}

// query runs an alternative relative to the evaluation context.
func (a *alternative) query(ev *evaluation) []*html.Node {
	root := searchRoot(ev.context, a.lead)
	if root == nil {
		return nil
	}
	candidates := dom.Elements(root)
	if a.pipe != nil {
		return a.pipe.run(ev, candidates, false)
	}
	return keep(candidates, a.match, ev)
}

// selectFrom runs an alternative on a seed.
func (a *alternative) selectFrom(seed []*html.Node, ev *evaluation) []*html.Node {
	if a.pipe != nil {
		return a.pipe.run(ev, seed, true)
	}
	return keep(seed, a.match, ev)
}

func (p *pipeline) run(ev *evaluation, candidates []*html.Node, seeded bool) []*html.Node {
	set := keep(candidates, p.pre, ev)
	set = p.filter(set, ev)
	if p.post != nil {
		set = p.post.selectFrom(set, ev)
	}
	if p.finder == nil || len(set) == 0 {
		return set
	}
	var found []*html.Node
	for _, n := range set {
		found = append(found, p.finder.query(ev.sub(n))...)
	}
	if len(set) > 1 {
		found = ev.uniqueSort(found)
	}
	if !seeded {
		return found
	}
	inSeed := make(map[*html.Node]bool, len(candidates))
	for _, n := range candidates {
		inSeed[n] = true
	}
	out := found[:0]
	for _, n := range found {
		if inSeed[n] {
			out = append(out, n)
		}
	}
	return out
}

// matchNode is true if n matches one of the alternatives. It must not be
// called for set-level selectors.
func (s *Selector) matchNode(n *html.Node, ev *evaluation) bool {
	for _, alt := range s.alts {
		if alt.match != nil && alt.match(n, ev) {
			return true
		}
	}
	return false
}

// query selects relative to the evaluation context. Predicate alternatives
// sharing a search root are evaluated in a single pass.
func (s *Selector) query(ev *evaluation) []*html.Node {
	var results [][]*html.Node
	var below, siblings []*alternative
	for _, alt := range s.alts {
		switch {
		case alt.pipe != nil:
			results = append(results, alt.query(ev))
		case alt.lead == "+" || alt.lead == "~":
			siblings = append(siblings, alt)
		default:
			below = append(below, alt)
		}
	}
	if len(below) > 0 {
		var candidates []*html.Node
		if len(s.alts) == 1 {
			candidates = ev.shortcut(below[0])
		} else {
			candidates = dom.Elements(ev.context)
		}
		results = append(results, keepAny(candidates, below, ev))
	}
	if len(siblings) > 0 && ev.context.Parent != nil {
		results = append(results, keepAny(dom.Elements(ev.context.Parent), siblings, ev))
	}
	return ev.merge(results)
}

// selectFrom selects the elements of a seed which match the selector.
func (s *Selector) selectFrom(seed []*html.Node, ev *evaluation) []*html.Node {
	var results [][]*html.Node
	var preds []*alternative
	for _, alt := range s.alts {
		if alt.pipe != nil {
			results = append(results, alt.selectFrom(seed, ev))
		} else {
			preds = append(preds, alt)
		}
	}
	if len(preds) > 0 {
		results = append(results, keepAny(seed, preds, ev))
	}
	return ev.merge(results)
}

// exists is true if the selector selects at least one element relative to
// the evaluation context.
func (s *Selector) exists(ev *evaluation) bool {
	if s.setLevel {
		return len(s.query(ev)) > 0
	}
	for _, alt := range s.alts {
		root := searchRoot(ev.context, alt.lead)
		if root == nil {
			continue
		}
		found := dom.First(root, func(n *html.Node) bool {
			return alt.match(n, ev)
		})
		if found != nil {
			return true
		}
	}
	return false
}

func keepAny(set []*html.Node, alts []*alternative, ev *evaluation) []*html.Node {
	if len(alts) == 1 {
		return keep(set, alts[0].match, ev)
	}
	var out []*html.Node
	for _, n := range set {
		if n == nil || n.Type != html.ElementNode {
			continue
		}
		for _, alt := range alts {
			if alt.match(n, ev) {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// merge concatenates results from different sources, in document order and
// without duplicates.
func (ev *evaluation) merge(results [][]*html.Node) []*html.Node {
	switch len(results) {
	case 0:
		return nil
	case 1:
		return results[0]
	}
	var all []*html.Node
	for _, r := range results {
		all = append(all, r...)
	}
	return ev.uniqueSort(all)
}

func (ev *evaluation) uniqueSort(nodes []*html.Node) []*html.Node {
	var cmp Comparer
	if ev.caps != nil && ev.caps.compare != nil {
		cmp = ev.caps.compare.ComparePosition
	}
	return UniqueSort(nodes, cmp)
}

// shortcut narrows the candidates for a single alternative by asking the host
// for elements with the id, tag or class of the rightmost compound selector.
// Lookups by id are restricted to document contexts. Without a usable
// lookup, all elements below the context are candidates.
func (ev *evaluation) shortcut(alt *alternative) []*html.Node {
	var id, tag, class string
	for i := len(alt.seq) - 1; i >= 0 && alt.seq[i].Type != CombinatorToken; i-- {
		tok := alt.seq[i]
		switch tok.Type {
		case IDToken:
			id = tok.Matches[0]
		case TagToken:
			tag = tok.Matches[0]
		case ClassToken:
			class = tok.Matches[0]
		}
	}
	ctx, caps := ev.context, ev.caps
	if id != "" && caps.byID != nil && ctx.Type == html.DocumentNode {
		n, err := attempt(func() (*html.Node, error) {
			return caps.byID.ElementByID(ctx, id), nil
		})
		if err == nil {
			if n == nil {
				return nil
			}
			if v, ok := dom.Attr(n, "id", ev.xml); ok && v == id && dom.Contains(ctx, n) {
				return []*html.Node{n}
			}
		}
		tracer().Debugf("id lookup for %q unreliable, walking", id)
	}
	if tag != "" && tag != "*" && caps.byTag != nil {
		if nodes, err := attempt(func() ([]*html.Node, error) {
			return caps.byTag.ElementsByTagName(ctx, tag), nil
		}); err == nil {
			return nodes
		}
	}
	if class != "" && caps.byClass != nil {
		if nodes, err := attempt(func() ([]*html.Node, error) {
			return caps.byClass.ElementsByClassName(ctx, class), nil
		}); err == nil {
			return nodes
		}
	}
	return dom.Elements(ctx)
}
