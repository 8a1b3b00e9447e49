package selector

import (
	"sort"

	"github.com/npillmayer/selquery/dom"
	"golang.org/x/net/html"
)

// Comparer compares the document position of two nodes. order is negative
// if a precedes b, positive if a follows b and zero if a == b. connected is
// false if a and b do not belong to the same tree.
type Comparer func(a, b *html.Node) (order int, connected bool)

// Contains returns true if node is a strict descendant of ancestor.
func Contains(ancestor, node *html.Node) bool {
	return dom.Contains(ancestor, node)
}

// ComparePosition compares nodes by walking their ancestor chains. It is the
// comparer used if a host does not provide one.
func ComparePosition(a, b *html.Node) (int, bool) {
	if a == b {
		return 0, true
	}
	pa, pb := ancestry(a), ancestry(b)
	if pa[0] != pb[0] {
		return 0, false
	}
	i := 0
	for i < len(pa) && i < len(pb) && pa[i] == pb[i] {
		i++
	}
	switch {
	case i == len(pa): // a is an ancestor of b
		return -1, true
	case i == len(pb):
		return 1, true
	}
	for s := pa[i].NextSibling; s != nil; s = s.NextSibling {
		if s == pb[i] {
			return -1, true
		}
	}
	return 1, true
}

// ancestry returns the chain from the root down to n.
func ancestry(n *html.Node) []*html.Node {
	var chain []*html.Node
	for ; n != nil; n = n.Parent {
		chain = append(chain, n)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// a helper type for sorting nodes by document position
type documentOrder struct {
	nodes []*html.Node
	cmp   Comparer
}

func (do documentOrder) Len() int      { return len(do.nodes) }
func (do documentOrder) Swap(i, j int) { do.nodes[i], do.nodes[j] = do.nodes[j], do.nodes[i] }
func (do documentOrder) Less(i, j int) bool {
	order, connected := do.cmp(do.nodes[i], do.nodes[j])
	return connected && order < 0
}

// SortInDocumentOrder sorts nodes in place. Nodes of different trees are
// grouped by tree, groups in order of their first node's appearance. If cmp
// is nil, ComparePosition is used.
func SortInDocumentOrder(nodes []*html.Node, cmp Comparer) []*html.Node {
	if cmp == nil {
		cmp = ComparePosition
	}
	if len(nodes) < 2 {
		return nodes
	}
	var roots []*html.Node
	groups := make(map[*html.Node][]*html.Node)
	for _, n := range nodes {
		r := treeRoot(n)
		if _, ok := groups[r]; !ok {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], n)
	}
	if len(roots) == 1 {
		sort.Stable(documentOrder{nodes, cmp})
		return nodes
	}
	out := nodes[:0]
	for _, r := range roots {
		group := groups[r]
		sort.Stable(documentOrder{group, cmp})
		out = append(out, group...)
	}
	return out
}

func treeRoot(n *html.Node) *html.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Dedup removes nodes identical to their predecessor, in place.
func Dedup(nodes []*html.Node) []*html.Node {
	if len(nodes) < 2 {
		return nodes
	}
	out := nodes[:1]
	for _, n := range nodes[1:] {
		if n != out[len(out)-1] {
			out = append(out, n)
		}
	}
	return out
}

// UniqueSort sorts nodes in document order and removes duplicates.
func UniqueSort(nodes []*html.Node, cmp Comparer) []*html.Node {
	return Dedup(SortInDocumentOrder(nodes, cmp))
}
