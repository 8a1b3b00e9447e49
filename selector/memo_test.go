package selector

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoIsScopedToGeneration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	e := newEngine(t)
	ev := e.newRun().evaluate(doc, e.capabilities(doc))
	sub := ev.sub(element(t, doc, "r"))
	assert.Greater(t, sub.gen, ev.gen)
	//
	n := element(t, doc, "s")
	ev.store(n, 1, &memoCell{gen: ev.gen, matched: true})
	c, ok := ev.lookup(n, 1)
	require.True(t, ok)
	assert.True(t, c.matched)
	_, ok = sub.lookup(n, 1)
	assert.False(t, ok, "expected memo entry of outer evaluation to be stale in sub-evaluation")
	_, ok = ev.lookup(n, 2)
	assert.False(t, ok)
}

func TestSiblingPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	e := newEngine(t)
	ev := e.newRun().evaluate(doc, e.capabilities(doc))
	lis, err := e.Query("li", doc, nil)
	require.NoError(t, err)
	for i, li := range lis {
		assert.Equal(t, i+1, ev.position(li, false, true))
		assert.Equal(t, len(lis)-i, ev.position(li, false, false))
		assert.Equal(t, i+1, ev.position(li, true, true))
	}
	// form children mix input, button, fieldset and select
	btn := element(t, doc, "btn")
	assert.Equal(t, 4, ev.position(btn, false, true))
	assert.Equal(t, 1, ev.position(btn, true, true))
	assert.Equal(t, 3, ev.position(element(t, doc, "t2"), true, true))
	assert.Equal(t, 1, ev.position(doc, false, true))
}

func TestDescendantMemoAcrossContexts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	e := newEngine(t, WithNativeQueries(false))
	nodes, err := e.Query("div em span, div > span", doc, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "#h2"}, labels(nodes))
	// :has runs nested queries sharing one run with the outer query
	nodes, err = e.Query("div:has(em span) span, div:not(:has(em)) > span", doc, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "#h2"}, labels(nodes))
}
