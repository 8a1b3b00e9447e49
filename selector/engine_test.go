package selector

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/selquery/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func query(t *testing.T, e *Engine, selector string, context *html.Node) []string {
	t.Helper()
	nodes, err := e.Query(selector, context, nil)
	if err != nil {
		t.Fatalf("query %q failed: %v", selector, err)
	}
	return labels(nodes)
}

func TestQueryNthChildOdd(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	for name, e := range engines(t) {
		l := query(t, e, "#r > p.a:nth-child(odd)", doc)
		assert.Equal(t, []string{"1", "3"}, l, name)
	}
}

func TestQueryHas(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, `<div id="a"><span></span></div><div id="b"><p><span></span></p></div><div id="c"></div>`)
	for name, e := range engines(t) {
		assert.Equal(t, []string{"#a"}, query(t, e, "div:has(> span)", doc), name)
		assert.Equal(t, []string{"#a", "#b"}, query(t, e, "div:has(span)", doc), name)
		assert.Equal(t, []string{"#c"}, query(t, e, "div:not(:has(span))", doc), name)
		assert.Equal(t, []string{"#b"}, query(t, e, "div:has(> p span)", doc), name)
	}
	doc = parse(t, fixture)
	for name, e := range engines(t) {
		assert.Equal(t, []string{"#s", "#t", "#h1"}, query(t, e, "div:has(span)", doc), name)
		assert.Equal(t, []string{"#list"}, query(t, e, "ul:has(li.x + li)", doc), name)
	}
}

func TestNthArithmetic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	items := []string{"a", "b", "c", "d", "e"}
	for _, c := range []struct {
		expr string
		a, b int
	}{
		{"2", 0, 2}, {"0n+3", 0, 3}, {"-n+2", -1, 2}, {"even", 2, 0}, {"odd", 2, 1},
		{"7", 0, 7}, {"-n-1", -1, -1}, {"n", 1, 0}, {"3n-1", 3, -1}, {"-2n+5", -2, 5},
	} {
		var expected []string
		for pos := 1; pos <= len(items); pos++ {
			for k := 0; k <= len(items); k++ {
				if c.a*k+c.b == pos {
					expected = append(expected, items[pos-1])
					break
				}
			}
		}
		sel := fmt.Sprintf("#list > li:nth-child(%s)", c.expr)
		for name, e := range engines(t) {
			l := query(t, e, sel, doc)
			if len(expected) == 0 {
				assert.Empty(t, l, "%s %s", name, sel)
				continue
			}
			assert.Equal(t, expected, l, "%s %s", name, sel)
		}
	}
	for name, e := range engines(t) {
		assert.Equal(t, []string{"e"}, query(t, e, "li:nth-last-child(1)", doc), name)
		assert.Equal(t, []string{"b", "d"}, query(t, e, "li:nth-last-child(even)", doc), name)
		assert.Equal(t, []string{"1", "3"}, query(t, e, "#r p:nth-of-type(2n+1)", doc), name)
	}
}

func TestNativeAndWalkAgree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	native, walk := newEngine(t), newEngine(t, WithNativeQueries(false))
	for _, sel := range []string{
		"div p", "div > p", "p + p", "p ~ p", "li.x", "#list li:first-child",
		"[type=checkbox]", "ul li:last-child", "p.a, p.b", "div:not(#r) span",
		"[class~=a]", "[lang|=en]", "li:nth-of-type(2n)", "body > *", "em span",
		"input[name^=t]", `input[name$="2"]`, "form input:not([disabled])", ":root",
		"span:only-child", "li:nth-last-child(2)", "div, p, li", "h2 + form > input",
		"select > option:first-of-type", "[id*=in]", "input:first-of-type",
		"*:not(li)", "form :input", "li:not(.x, :first-child)",
		":first-child", ":last-child", ":only-child", ":nth-child(n)", ":nth-child(1)",
		":first-of-type", ":nth-last-child(1)", "*:only-of-type",
	} {
		n, err := native.Query(sel, doc, nil)
		require.NoError(t, err, sel)
		w, err := walk.Query(sel, doc, nil)
		require.NoError(t, err, sel)
		if diff := cmp.Diff(labels(n), labels(w)); diff != "" {
			t.Errorf("%s: native and walking results differ (-native +walk):\n%s", sel, diff)
		}
	}
}

func TestChildPseudosSkipRoot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, "<html><body><p id=a>x</p></body></html>")
	root := element(t, doc, "a").Parent.Parent
	for name, e := range engines(t) {
		for _, sel := range []string{":first-child", ":only-of-type", ":nth-child(n)", ":nth-last-child(1)"} {
			nodes, err := e.Query(sel, doc, nil)
			require.NoError(t, err, sel)
			for _, n := range nodes {
				if n == root {
					t.Errorf("%s: expected %s not to select the root element", name, sel)
				}
			}
			assert.NotEmpty(t, nodes, sel)
			ok, err := e.MatchesSelector(root, sel)
			require.NoError(t, err, sel)
			assert.False(t, ok, sel)
		}
	}
}

func TestDoubleNegation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	for name, e := range engines(t) {
		for _, x := range []string{"p.a", "li", "#s", "[type]", "div > p", "li:nth-child(odd)", "li:first"} {
			direct := query(t, e, x, doc)
			twice := query(t, e, "*:not(:not("+x+"))", doc)
			if diff := cmp.Diff(direct, twice); diff != "" {
				t.Errorf("%s: expected double negation of %s to select the same, differs:\n%s", name, x, diff)
			}
		}
	}
}

func TestPositionalPseudos(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	for _, c := range []struct {
		sel      string
		expected []string
	}{
		{"li:first", []string{"a"}},
		{"li:last", []string{"e"}},
		{"li:eq(1)", []string{"b"}},
		{"li:eq(-1)", []string{"e"}},
		{"li:nth(2)", []string{"c"}},
		{"li:lt(2)", []string{"a", "b"}},
		{"li:gt(2)", []string{"d", "e"}},
		{"li:gt(-3)", []string{"d", "e"}},
		{"li:lt(-3)", []string{"a", "b"}},
		{"li:even", []string{"a", "c", "e"}},
		{"li:odd", []string{"b", "d"}},
		{"li:eq(9)", nil},
		{"li.x:first", []string{"b"}},
		{"li:first.x", nil},
		{"ul:first > li", []string{"a", "b", "c", "d", "e"}},
		{"li:not(:first)", []string{"b", "c", "d", "e"}},
		{"li:not(:first):last", []string{"e"}},
		{"li:last, li:first, li.x", []string{"a", "b", "d", "e"}},
		{"p.a, p.b, p", []string{"1", "2", "3", "#l1"}},
	} {
		for name, e := range engines(t) {
			nodes, err := e.Query(c.sel, doc, nil)
			require.NoError(t, err, c.sel)
			if len(c.expected) == 0 {
				assert.Empty(t, nodes, "%s %s", name, c.sel)
				continue
			}
			assert.Equal(t, c.expected, labels(nodes), "%s %s", name, c.sel)
		}
	}
}

func TestQueryElementContext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	r := element(t, doc, "r")
	for name, e := range engines(t) {
		for _, c := range []struct {
			sel      string
			expected []string
		}{
			{"p", []string{"1", "2", "3"}},
			{"div p", []string{"1", "2", "3"}},
			{"body p", []string{"1", "2", "3"}},
			{"> p", []string{"1", "2", "3"}},
			{"> p.a", []string{"1", "3"}},
			{"+ div", []string{"#s"}},
			{"~ div", []string{"#s", "#t", "#h1"}},
			{"~ div span", []string{"x", "y", "#h2"}},
			{"p:last", []string{"3"}},
		} {
			assert.Equal(t, c.expected, query(t, e, c.sel, r), "%s %s", name, c.sel)
		}
	}
}

func TestFind(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	e := newEngine(t)
	r, s, tt := element(t, doc, "r"), element(t, doc, "s"), element(t, doc, "t")
	nodes, err := e.Find("span", tt, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, labels(nodes))
	nodes, err = e.Find("p", r, r)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, labels(nodes))
	_, err = e.Find("p")
	assert.True(t, errors.Is(err, ErrNoContext))
}

func TestFindAcrossDocuments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	other := parse(t, "<div id=o><p>4</p><p>5</p></div>")
	r, o := element(t, doc, "r"), element(t, other, "o")
	for name, e := range engines(t) {
		nodes, err := e.Find("p", r, o, r)
		require.NoError(t, err, name)
		assert.Equal(t, []string{"1", "2", "3", "4", "5"}, labels(nodes), name)
		nodes, err = e.Find("p", o, r, o)
		require.NoError(t, err, name)
		assert.Equal(t, []string{"4", "5", "1", "2", "3"}, labels(nodes), name)
	}
	detached := &html.Node{Type: html.ElementNode, Data: "x"}
	p1, p2 := element(t, doc, "r").FirstChild, element(t, doc, "r").LastChild
	sorted := UniqueSort([]*html.Node{p2, detached, p1, detached, p2}, nil)
	assert.Equal(t, []*html.Node{p1, p2, detached}, sorted)
}

func TestQueryErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	e := newEngine(t)
	_, err := e.Query("div >", doc, nil)
	assert.True(t, errors.Is(err, ErrSyntax), "expected syntax error for dangling combinator")
	_, err = e.Query("div >", nil, nil)
	assert.True(t, errors.Is(err, ErrSyntax), "expected syntax error without context")
	_, err = e.Query(":foo", doc, nil)
	assert.True(t, errors.Is(err, ErrUnsupportedPseudo))
	assert.True(t, errors.Is(err, ErrSyntax))
	for _, sel := range []string{"p:contains", "li:eq(x)", "li:not()", "p:lang(a b)"} {
		_, err = e.Query(sel, doc, nil)
		assert.True(t, errors.Is(err, ErrSyntax), sel)
	}
	_, err = e.Query("p", nil, nil)
	assert.True(t, errors.Is(err, ErrNoContext))
	//
	nodes, err := e.Query("", doc, nil)
	assert.NoError(t, err)
	assert.Nil(t, nodes)
	nodes, err = e.Query("  ", doc, nil)
	assert.NoError(t, err)
	assert.Nil(t, nodes)
	text := element(t, doc, "l1").FirstChild
	require.Equal(t, html.TextNode, text.Type)
	nodes, err = e.Query("b", text, nil)
	assert.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestMatchesSelector(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	for name, e := range engines(t) {
		lis, err := e.Query("li.x", doc, nil)
		require.NoError(t, err)
		b := lis[0]
		for sel, expected := range map[string]bool{
			"li.x":                 true,
			"li:first":             true,
			"li:eq(1)":             false,
			"p":                    false,
			"ul > li:nth-child(2)": true,
			"#list li":             true,
			"div li":               false,
			"li:not(.x)":           false,
			"":                     false,
		} {
			ok, err := e.MatchesSelector(b, sel)
			require.NoError(t, err, sel)
			if ok != expected {
				t.Errorf("%s: expected MatchesSelector(li b, %q) to be %v, isn't", name, sel, expected)
			}
		}
		_, err = e.MatchesSelector(b, "div >")
		assert.True(t, errors.Is(err, ErrSyntax))
		ok, err := e.MatchesSelector(nil, "li")
		assert.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestMatches(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	e := newEngine(t)
	lis, err := e.Query("li", doc, nil)
	require.NoError(t, err)
	require.Len(t, lis, 5)
	for _, c := range []struct {
		sel      string
		expected []string
	}{
		{"li.x", []string{"b", "d"}},
		{":first", []string{"a"}},
		{"li:gt(2)", []string{"d", "e"}},
		{".x:last", []string{"d"}},
		{"ul > li:not(.x)", []string{"a", "c", "e"}},
	} {
		nodes, err := e.Matches(c.sel, lis)
		require.NoError(t, err, c.sel)
		assert.Equal(t, c.expected, labels(nodes), c.sel)
	}
	nodes, err := e.Matches("p", lis)
	assert.NoError(t, err)
	assert.Empty(t, nodes)
	nodes, err = e.Matches("li", nil)
	assert.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestBuiltinPseudos(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	for _, c := range []struct {
		sel      string
		expected []string
	}{
		{"input:checked", []string{"#cb"}},
		{":checked", []string{"#cb", "#o1"}},
		{":selected", []string{"#o1"}},
		{":disabled", []string{"#t2", "#fs", "#infield"}},
		{"input:enabled", []string{"#t1", "#cb", "#inlegend"}},
		{":header", []string{"#head"}},
		{"form :input", []string{"#t1", "#cb", "#t2", "#btn", "#inlegend", "#infield", "#sel"}},
		{":button", []string{"#btn"}},
		{":submit", []string{"#btn"}},
		{"input:text", []string{"#t1", "#t2", "#inlegend", "#infield"}},
		{":checkbox", []string{"#cb"}},
		{":radio", nil},
		{"p:contains(world)", []string{"#l1"}},
		{":contains(World)", nil},
		{":lang(en)", []string{"#l1", "#l2"}},
		{":lang(de)", nil},
		{"span:hidden", []string{"#h2"}},
		{"span:visible", []string{"x", "y"}},
		{"div:hidden", []string{"#h1"}},
		{"li:parent", []string{"a", "b", "c", "d", "e"}},
		{"p:empty", nil},
		{"input:empty", []string{"#t1", "#cb", "#t2", "#inlegend", "#infield"}},
	} {
		for name, e := range engines(t) {
			nodes, err := e.Query(c.sel, doc, nil)
			require.NoError(t, err, c.sel)
			if len(c.expected) == 0 {
				assert.Empty(t, nodes, "%s %s", name, c.sel)
				continue
			}
			assert.Equal(t, c.expected, labels(nodes), "%s %s", name, c.sel)
		}
	}
	roots, err := newEngine(t).Query(":root", doc, nil)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "html", roots[0].Data)
}

func TestRegisterPseudo(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	e := newEngine(t, WithRegistry(NewRegistry()))
	_, err := e.Query("li:tagged(x)", doc, nil)
	require.True(t, errors.Is(err, ErrUnsupportedPseudo))
	//
	err = e.RegisterPseudo("tagged", PredicatePseudo(func(arg string) (NodeTest, error) {
		return func(n *html.Node) bool {
			for _, a := range n.Attr {
				if a.Key == "class" && hasClass(a.Val, arg) {
					return true
				}
			}
			return false
		}, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d"}, query(t, e, "li:tagged(x)", doc))
	//
	err = e.RegisterPseudo("third", PositionalPseudo(func(arg string) (Positions, error) {
		return func(length int) []int { return []int{2} }, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, query(t, e, "li:third", doc))
	//
	assert.Error(t, e.RegisterPseudo("first-child", PredicatePseudo(nil)))
	assert.Error(t, e.RegisterPseudo("", RecursivePseudo{Mode: Exclude}))
	assert.Error(t, e.RegisterPseudo("nil", nil))
	assert.Error(t, e.RegisterPseudo("nilpredicate", PredicatePseudo(nil)))
	assert.Error(t, e.RegisterPseudo("nilpositions", PositionalPseudo(nil)))
	assert.NotContains(t, e.Pseudos().Names(), "nilpredicate")
	assert.Contains(t, e.Pseudos().Names(), "tagged")
}

func TestOverriddenPseudoIsWalked(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	doc := parse(t, fixture)
	e := newEngine(t)
	assert.Equal(t, []string{"#r", "#s", "#t", "#h1"}, labels(mustQuery(t, e, "body > div", doc)))
	require.NoError(t, e.RegisterPseudo("root", plain(func(n *html.Node) bool {
		id, _ := dom.Attr(n, "id", false)
		return id == "s"
	})))
	require.NoError(t, e.RegisterPseudo("Input", plain(func(n *html.Node) bool {
		return n.Data == "button"
	})))
	assert.Equal(t, []string{"#s"}, labels(mustQuery(t, e, ":root", doc)))
	assert.Equal(t, []string{"#s"}, labels(mustQuery(t, e, "div:ROOT", doc)))
	assert.Equal(t, []string{"#btn"}, labels(mustQuery(t, e, "form :input", doc)))
	ok, err := e.MatchesSelector(doc.LastChild, ":root")
	require.NoError(t, err)
	assert.False(t, ok, "expected html element not to match the overridden :root")
}

func mustQuery(t *testing.T, e *Engine, selector string, context *html.Node) []*html.Node {
	t.Helper()
	nodes, err := e.Query(selector, context, nil)
	require.NoError(t, err, selector)
	return nodes
}
