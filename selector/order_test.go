package selector

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestComparePosition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	list := element(t, doc, "list")
	a, e := list.FirstChild, list.LastChild
	for _, c := range []struct {
		x, y      *html.Node
		order     int
		connected bool
	}{
		{a, a, 0, true},
		{a, e, -1, true},
		{e, a, 1, true},
		{list, a, -1, true},
		{a, list, 1, true},
		{doc, e, -1, true},
		{element(t, doc, "r"), a, -1, true},
		{a, &html.Node{Type: html.ElementNode, Data: "x"}, 0, false},
	} {
		order, connected := ComparePosition(c.x, c.y)
		if connected != c.connected || sign(order) != c.order {
			t.Errorf("expected ComparePosition(%s, %s) = %d/%v, is %d/%v",
				c.x.Data, c.y.Data, c.order, c.connected, order, connected)
		}
	}
	assert.True(t, Contains(list, a.FirstChild))
	assert.False(t, Contains(a, a))
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

func TestUniqueSort(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	lis, err := newEngine(t).Query("li", doc, nil)
	require.NoError(t, err)
	a, b, c, d, e := lis[0], lis[1], lis[2], lis[3], lis[4]
	sorted := UniqueSort([]*html.Node{e, a, c, a, b, d, e}, nil)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, labels(sorted))
	assert.Empty(t, UniqueSort(nil, nil))
	//
	assert.Equal(t, []string{"a", "b", "a"}, labels(Dedup([]*html.Node{a, a, b, a})))
	//
	detached := &html.Node{Type: html.ElementNode, Data: "x",
		Attr: []html.Attribute{{Key: "id", Val: "detached"}}}
	mixed := SortInDocumentOrder([]*html.Node{detached, c, a}, nil)
	assert.Len(t, mixed, 3)
	assert.Contains(t, labels(mixed), "#detached")
}
