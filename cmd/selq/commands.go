package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/selquery/dom"
	"github.com/npillmayer/selquery/dom/domdbg"
	"github.com/npillmayer/selquery/dom/style/cssom"
	"github.com/npillmayer/selquery/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/selquery/selector"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"
)

// traceKeys are the trace keys of the packages the CLI uses.
var traceKeys = []string{"selquery.selector", "selquery.dom", "selquery.host", "selquery.cssom"}

type settings struct {
	config   string
	noNative bool
	context  string
}

func newRootCommand() *cobra.Command {
	s := &settings{}
	root := &cobra.Command{
		Use:           "selq",
		Short:         "Run selector queries against HTML documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&s.config, "config", "", "YAML configuration file")
	root.PersistentFlags().BoolVar(&s.noNative, "no-native", false, "never delegate to cascadia")
	//
	query := &cobra.Command{
		Use:   "query SELECTOR [FILE]",
		Short: "Print the elements matching a selector",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, s, args)
		},
	}
	query.Flags().StringVar(&s.context, "context", "", "query relative to the elements matching this selector")
	explain := &cobra.Command{
		Use:   "explain SELECTOR",
		Short: "Print how a selector is compiled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd, s, args)
		},
	}
	rules := &cobra.Command{
		Use:   "rules [FILE]",
		Short: "Run the rules of embedded style sheets as queries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd, s, args)
		},
	}
	dot := &cobra.Command{
		Use:   "dot SELECTOR [FILE]",
		Short: "Write a GraphViz diagram of a document with matches highlighted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDot(cmd, s, args)
		},
	}
	root.AddCommand(query, explain, rules, dot)
	return root
}

// engine creates a selector engine from the configuration file, if any, and
// sets the trace level.
func (s *settings) engine() (*selector.Engine, error) {
	cfg := &selector.Config{}
	if s.config != "" {
		var err error
		if cfg, err = selector.LoadConfigFile(s.config); err != nil {
			return nil, err
		}
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	opts := cfg.Options()
	if s.noNative {
		opts = append(opts, selector.WithNativeQueries(false))
	}
	return selector.New(opts...)
}

// document parses the file argument at position i, or stdin.
func document(cmd *cobra.Command, args []string, i int) (*html.Node, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) > i {
		f, err := os.Open(args[i])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("cannot parse document: %w", err)
	}
	return doc, nil
}

// find runs a query, relative to the context selector if one is set.
func (s *settings) find(e *selector.Engine, sel string, doc *html.Node) ([]*html.Node, error) {
	if s.context == "" {
		return e.Query(sel, doc, nil)
	}
	contexts, err := e.Query(s.context, doc, nil)
	if err != nil {
		return nil, fmt.Errorf("context: %w", err)
	}
	if len(contexts) == 0 {
		return nil, nil
	}
	return e.Find(sel, contexts...)
}

func runQuery(cmd *cobra.Command, s *settings, args []string) error {
	e, err := s.engine()
	if err != nil {
		return err
	}
	doc, err := document(cmd, args, 1)
	if err != nil {
		return err
	}
	nodes, err := s.find(e, args[0], doc)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, n := range nodes {
		fmt.Fprintf(out, "%-24s %s\n", describe(n), dom.Path(n))
	}
	return nil
}

func runExplain(cmd *cobra.Command, s *settings, args []string) error {
	e, err := s.engine()
	if err != nil {
		return err
	}
	sel, err := e.Compile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), sel.Explain())
	return nil
}

func runRules(cmd *cobra.Command, s *settings, args []string) error {
	e, err := s.engine()
	if err != nil {
		return err
	}
	doc, err := document(cmd, args, 0)
	if err != nil {
		return err
	}
	var sheets []cssom.StyleSheet
	for _, sheet := range douceuradapter.ExtractStyleElements(doc) {
		sheets = append(sheets, sheet)
	}
	out := cmd.OutOrStdout()
	for _, sel := range cssom.Selectors(sheets...) {
		nodes, err := e.Query(sel, doc, nil)
		if err != nil {
			fmt.Fprintf(out, "%6s  %s  (%v)\n", "-", sel, err)
			continue
		}
		fmt.Fprintf(out, "%6d  %s\n", len(nodes), sel)
	}
	return nil
}

func runDot(cmd *cobra.Command, s *settings, args []string) error {
	e, err := s.engine()
	if err != nil {
		return err
	}
	doc, err := document(cmd, args, 1)
	if err != nil {
		return err
	}
	nodes, err := e.Query(args[0], doc, nil)
	if err != nil {
		return err
	}
	return domdbg.ToGraphViz(doc, cmd.OutOrStdout(), domdbg.Highlight(nodes), domdbg.Title(args[0]))
}

// describe prints an element as tag#id.class1.class2.
func describe(n *html.Node) string {
	var b strings.Builder
	b.WriteString(n.Data)
	if id, ok := dom.Attr(n, "id", false); ok && id != "" {
		b.WriteString("#" + id)
	}
	if cl, ok := dom.Attr(n, "class", false); ok {
		for _, c := range strings.Fields(cl) {
			b.WriteString("." + c)
		}
	}
	return b.String()
}
