package selector

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/npillmayer/selquery/dom"
	"github.com/npillmayer/selquery/dom/host"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// capabilities describes what the host offers for a document. Every
// capability is nil if the host does not implement it or if probing it failed.
type capabilities struct {
	host       host.Host
	xml        bool
	bulk       host.BulkQuerier
	match      host.ElementMatcher
	byID       host.IDLookup
	byTag      host.TagLookup
	byClass    host.ClassLookup
	compare    host.PositionComparer
	buggyQuery *regexp2.Regexp
	buggyMatch *regexp2.Regexp
}

// DefaultDocumentCacheSize is the number of documents an engine keeps
// capabilities for.
const DefaultDocumentCacheSize = 32

// capabilities returns the capabilities of the document n belongs to,
// probing them on first use.
func (e *Engine) capabilities(n *html.Node) *capabilities {
	doc := dom.Document(n)
	e.mu.Lock()
	caps, ok := e.docs.Get(doc)
	e.mu.Unlock()
	if ok {
		return caps
	}
	e.mu.Lock()
	extra := e.buggy
	e.mu.Unlock()
	caps = probe(e.host, doc, extra)
	e.mu.Lock()
	e.docs.Add(doc, caps)
	e.mu.Unlock()
	return caps
}

// probe exercises the host on a small detached fragment:
//
//	<div><a name="probe"></a><span></span><!----><p id="probe" class="probe"></p></div>
//
// A capability is kept only if it answers correctly and does not panic.
// Lookups by id must not return elements by name, lookups by tag must not
// return comments.
func probe(h host.Host, doc *html.Node, extra []string) *capabilities {
	caps := &capabilities{host: h, xml: dom.IsXML(doc)}
	root, p := probeFragment()
	if q, ok := h.(host.BulkQuerier); ok && check("bulk query", func() bool {
		found, err := q.QueryAll(root, "p.probe")
		return err == nil && len(found) == 1 && found[0] == p
	}) {
		caps.bulk = q
	}
	if m, ok := h.(host.ElementMatcher); ok && check("element match", func() bool {
		yes, err := m.MatchElement(p, "div > p#probe")
		return err == nil && yes
	}) {
		caps.match = m
	}
	if l, ok := h.(host.IDLookup); ok && check("id lookup", func() bool {
		return l.ElementByID(root, "probe") == p
	}) {
		caps.byID = l
	}
	if l, ok := h.(host.TagLookup); ok && check("tag lookup", func() bool {
		found := l.ElementsByTagName(root, "*")
		return len(found) == 3 && found[2] == p
	}) {
		caps.byTag = l
	}
	if l, ok := h.(host.ClassLookup); ok && check("class lookup", func() bool {
		found := l.ElementsByClassName(root, "probe")
		return len(found) == 1 && found[0] == p
	}) {
		caps.byClass = l
	}
	if c, ok := h.(host.PositionComparer); ok && check("position comparison", func() bool {
		order, connected := c.ComparePosition(root.FirstChild, p)
		return connected && order < 0
	}) {
		caps.compare = c
	}
	var qq, mq []string
	if r, ok := h.(host.QuirkReporter); ok {
		check("quirks", func() bool {
			qq, mq = r.QueryQuirks(), r.MatchQuirks()
			return true
		})
	}
	caps.buggyQuery = quirks(append(append([]string(nil), qq...), extra...))
	caps.buggyMatch = quirks(append(append([]string(nil), mq...), extra...))
	tracer().Debugf("probed host %s: %s", safeName(h), caps)
	return caps
}

func probeFragment() (root, p *html.Node) {
	root = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	a := &html.Node{Type: html.ElementNode, Data: "a", DataAtom: atom.A,
		Attr: []html.Attribute{{Key: "name", Val: "probe"}}}
	span := &html.Node{Type: html.ElementNode, Data: "span", DataAtom: atom.Span}
	comment := &html.Node{Type: html.CommentNode}
	p = &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P,
		Attr: []html.Attribute{{Key: "id", Val: "probe"}, {Key: "class", Val: "probe"}}}
	root.AppendChild(a)
	root.AppendChild(span)
	root.AppendChild(comment)
	root.AppendChild(p)
	return root, p
}

// check runs a probe. A panicking probe counts as failed.
func check(what string, f func() bool) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			tracer().Debugf("probe for %s panics: %v", what, r)
			ok = false
		}
	}()
	return f()
}

func safeName(h host.Host) (name string) {
	defer func() {
		if r := recover(); r != nil {
			name = "?"
		}
	}()
	return h.Name()
}

// quirks joins patterns into a single regular expression. Invalid patterns
// have been rejected by the options; host patterns which do not compile are
// skipped.
func quirks(patterns []string) *regexp2.Regexp {
	var valid []string
	for _, p := range patterns {
		if _, err := regexp2.Compile(p, regexp2.None); err != nil {
			tracer().Errorf("ignoring invalid quirk pattern %q: %v", p, err)
			continue
		}
		valid = append(valid, "(?:"+p+")")
	}
	if len(valid) == 0 {
		return nil
	}
	return regexp2.MustCompile(strings.Join(valid, "|"), regexp2.None)
}

func buggy(re *regexp2.Regexp, selector string) bool {
	return re != nil && test(re, selector)
}

// attempt calls a host primitive, turning a panic into an error.
func attempt[T any](f func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("host panics: %v", r)
		}
	}()
	return f()
}

func (caps *capabilities) String() string {
	var have []string
	for _, c := range []struct {
		name string
		ok   bool
	}{
		{"bulk", caps.bulk != nil},
		{"match", caps.match != nil},
		{"id", caps.byID != nil},
		{"tag", caps.byTag != nil},
		{"class", caps.byClass != nil},
		{"compare", caps.compare != nil},
		{"xml", caps.xml},
	} {
		if c.ok {
			have = append(have, c.name)
		}
	}
	return "[" + strings.Join(have, " ") + "]"
}
