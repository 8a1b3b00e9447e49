package selector

import (
	"strings"
	"testing"

	"github.com/npillmayer/selquery/dom"
	"golang.org/x/net/html"
)

const fixture = `<!DOCTYPE html>
<html><head><title>T</title></head><body>
<div id="r"><p class="a">1</p><p class="b">2</p><p class="a">3</p></div>
<div id="s"><span>x</span></div>
<div id="t"><em><span>y</span></em></div>
<ul id="list"><li>a</li><li class="x">b</li><li>c</li><li class="x">d</li><li>e</li></ul>
<h2 id="head">Heading</h2>
<form id="f">
<input type="text" name="t1" id="t1">
<input type="checkbox" checked id="cb">
<input name="t2" id="t2" disabled>
<button id="btn">b</button>
<fieldset disabled id="fs"><legend><input id="inlegend"></legend><input id="infield"></fieldset>
<select id="sel"><option selected id="o1">o1</option><option id="o2">o2</option></select>
</form>
<p lang="en-US" id="l1">hello <b id="l2">world</b></p>
<div style="display: none" id="h1"><span id="h2">hidden</span></div>
</body></html>`

func parse(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("cannot parse test document: %v", err)
	}
	return doc
}

func element(t *testing.T, doc *html.Node, id string) *html.Node {
	t.Helper()
	n := dom.First(doc, func(n *html.Node) bool {
		v, ok := dom.Attr(n, "id", false)
		return ok && v == id
	})
	if n == nil {
		t.Fatalf("test document has no element #%s", id)
	}
	return n
}

// labels identifies nodes by id or, lacking one, by their text.
func labels(nodes []*html.Node) []string {
	l := make([]string, len(nodes))
	for i, n := range nodes {
		if id, ok := dom.Attr(n, "id", false); ok {
			l[i] = "#" + id
		} else {
			l[i] = strings.TrimSpace(dom.TextContent(n))
		}
	}
	return l
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	if err != nil {
		t.Fatalf("cannot create engine: %v", err)
	}
	return e
}

// engines returns an engine delegating to cascadia and one walking the tree.
func engines(t *testing.T) map[string]*Engine {
	return map[string]*Engine{
		"native": newEngine(t),
		"walk":   newEngine(t, WithNativeQueries(false)),
	}
}
