/*
Package domdbg implements helpers to debug a DOM tree.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package domdbg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"text/template"

	"github.com/npillmayer/selquery/dom"
	"golang.org/x/net/html"
)

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname  string
	Title     string
	NodeTmpl  *template.Template
	EdgeTmpl  *template.Template
	Highlight map[*html.Node]bool
	Comments  bool
}

// Option configures a drawing.
type Option func(*graphParamsType)

// Highlight marks nodes to be drawn in a signal color, e.g. the result of
// a selector query.
func Highlight(nodes []*html.Node) Option {
	return func(p *graphParamsType) {
		for _, n := range nodes {
			p.Highlight[n] = true
		}
	}
}

// Title sets a label for the diagram.
func Title(title string) Option {
	return func(p *graphParamsType) {
		p.Title = title
	}
}

// WithComments includes comment nodes. They are left out by default.
func WithComments() Option {
	return func(p *graphParamsType) {
		p.Comments = true
	}
}

// ToGraphViz outputs a diagram for a DOM tree. The diagram is in
// GraphViz (DOT) format. Clients have to provide the root node of
// the DOM and a Writer. Whitespace-only text nodes are omitted.
func ToGraphViz(doc *html.Node, w io.Writer, opts ...Option) error {
	tmpl, err := template.New("dom").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica", Highlight: make(map[*html.Node]bool)}
	for _, opt := range opts {
		opt(&gparams)
	}
	gparams.NodeTmpl = template.Must(template.New("domnode").Funcs(
		template.FuncMap{
			"shortstring": shortText,
			"label":       label,
			"istext":      dom.NodeIsText,
		}).Parse(domNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("domedge").Parse(domEdgeTmpl))
	if err = tmpl.Execute(w, gparams); err != nil {
		return err
	}
	dict := make(map[*html.Node]string, 4096)
	if err = nodes(doc, w, dict, &gparams); err != nil {
		return err
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

// Dotty is a helper for testing. Given a DOM node and a testing.T, it will
// create a Graphiviz image of the DOM tree under `doc` and write it to
// a file in the current folder, choosing a unique file name.
// The image is in SVG format.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
func Dotty(doc *html.Node, t *testing.T, opts ...Option) {
	tmpfile, err := os.CreateTemp(".", "dom.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing DOM digraph to %s\n", tmpfile.Name())
	if err := ToGraphViz(doc, tmpfile, opts...); err != nil {
		t.Error(err)
		return
	}
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Log("writing DOM tree image to tree.svg\n")
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

type node struct {
	N         *html.Node
	Name      string
	Highlight bool
}

func skip(n *html.Node, gparams *graphParamsType) bool {
	switch n.Type {
	case html.TextNode:
		return strings.TrimSpace(n.Data) == ""
	case html.CommentNode:
		return !gparams.Comments
	case html.DoctypeNode:
		return true
	}
	return false
}

func nodes(n *html.Node, w io.Writer, dict map[*html.Node]string, gparams *graphParamsType) error {
	if err := domNode(n, w, dict, gparams); err != nil {
		return err
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if skip(ch, gparams) {
			continue
		}
		if err := nodes(ch, w, dict, gparams); err != nil {
			return err
		}
		if err := domEdge(n, ch, w, dict, gparams); err != nil {
			return err
		}
	}
	return nil
}

func domNode(n *html.Node, w io.Writer, dict map[*html.Node]string, gparams *graphParamsType) error {
	name := dict[n]
	if name == "" {
		l := len(dict) + 1
		name = fmt.Sprintf("node%05d", l)
		dict[n] = name
	}
	return gparams.NodeTmpl.Execute(w, &node{n, name, gparams.Highlight[n]})
}

type edge struct {
	N1, N2 node
}

func domEdge(n1 *html.Node, n2 *html.Node, w io.Writer, dict map[*html.Node]string,
	gparams *graphParamsType) error {
	//
	name1 := dict[n1]
	name2 := dict[n2]
	e := edge{node{N: n1, Name: name1}, node{N: n2, Name: name2}}
	return gparams.EdgeTmpl.Execute(w, e)
}

// label is a node's name, plus id and classes for elements.
func label(n *html.Node) string {
	s := dom.NodeName(n)
	if n.Type != html.ElementNode {
		return fmt.Sprintf("%q", s)
	}
	if id, ok := dom.Attr(n, "id", false); ok && id != "" {
		s += "#" + id
	}
	if cl, ok := dom.Attr(n, "class", false); ok {
		for _, c := range strings.Fields(cl) {
			s += "." + c
		}
	}
	return fmt.Sprintf("%q", s)
}

func shortText(n *html.Node) string {
	s := "\"\\\""
	if len(n.Data) > 10 {
		s += n.Data[:10] + "...\\\"\""
	} else {
		s += n.Data + "\\\"\""
	}
	s = strings.Replace(s, "\n", `\\n`, -1)
	s = strings.Replace(s, "\t", `\\t`, -1)
	s = strings.Replace(s, " ", "␣", -1)
	return s
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label={{ printf "%q" .Title }} splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const domNodeTmpl = `{{ if istext .N }}
{{ .Name }}	[ label={{ shortstring .N }} shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{ else if .Highlight }}
{{ .Name }}	[ label={{ label .N }} shape=ellipse style=filled fillcolor=orange penwidth=2 ] ;
{{ else }}
{{ .Name }}	[ label={{ label .N }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{ end }}
`

const domEdgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [weight=1] ;
`
