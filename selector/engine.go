package selector

import (
	"sync"
	"sync/atomic"

	"github.com/dlclark/regexp2"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/npillmayer/selquery/dom"
	"github.com/npillmayer/selquery/dom/host"
	"golang.org/x/net/html"
)

// Engine compiles and executes selectors. An engine owns its caches; it is
// safe for concurrent use, as long as trees are not modified during queries.
type Engine struct {
	host      host.Host
	registry  *Registry
	native    bool
	buggy     []string
	tokens    *fifo[Group]
	compiled  *fifo[*Selector]
	nonNative *fifo[struct{}]
	mu        sync.Mutex // guards docs and buggy
	docs      *simplelru.LRU[*html.Node, *capabilities]
	gens      atomic.Uint64 // generations of evaluations
	ids       atomic.Uint64 // ids of memoizing combinators
}

// New creates an engine. Without options, the engine uses host.NewHTML() and
// the built-in pseudo-classes.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.host == nil {
		cfg.host = host.NewHTML()
	}
	if cfg.registry == nil {
		cfg.registry = DefaultRegistry()
	}
	docs, err := simplelru.NewLRU[*html.Node, *capabilities](cfg.docSize, nil)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		host:      cfg.host,
		registry:  cfg.registry,
		native:    cfg.native,
		buggy:     cfg.buggy,
		tokens:    newFIFO[Group]("token", cfg.cacheSize),
		compiled:  newFIFO[*Selector]("selector", cfg.cacheSize),
		nonNative: newFIFO[struct{}]("non-native", cfg.cacheSize),
		docs:      docs,
	}
	tracer().Debugf("new selector engine on host %s", safeName(cfg.host))
	return e, nil
}

// Pseudos returns the pseudo-class registry of the engine. Use RegisterPseudo
// to change it, as compiled selectors are cached.
func (e *Engine) Pseudos() *Registry {
	return e.registry
}

// RegisterPseudo adds a pseudo-class to the registry of the engine and drops
// all compiled selectors. Selectors using a registered name are no longer
// handed to the host, which would not know about it or would apply its own
// built-in of that name.
func (e *Engine) RegisterPseudo(name string, p Pseudo) error {
	if err := e.registry.Register(name, p); err != nil {
		return err
	}
	e.compiled.purge()
	e.nonNative.purge()
	e.mu.Lock()
	e.buggy = append(e.buggy, `:(?i:`+regexp2.Escape(name)+`)(?![\w-])`)
	e.docs.Purge()
	e.mu.Unlock()
	return nil
}

// Tokenize splits a selector into token sequences, one per comma-separated
// alternative. The result is a copy of a cached token group.
func (e *Engine) Tokenize(selector string) (Group, error) {
	group, err := e.tokenize(selector)
	if err != nil {
		return nil, err
	}
	return group.clone(), nil
}

func (e *Engine) tokenize(selector string) (Group, error) {
	if group, ok := e.tokens.get(selector); ok {
		return group, nil
	}
	group, err := tokenize(trim(selector))
	if err != nil {
		return nil, err
	}
	return e.tokens.put(selector, group), nil
}

// Compile compiles a selector. Compiling the same selector text twice returns
// the same instance, as long as it has not been evicted from the cache.
func (e *Engine) Compile(selector string) (*Selector, error) {
	if sel, ok := e.compiled.get(selector); ok {
		return sel, nil
	}
	group, err := e.tokenize(selector)
	if err != nil {
		return nil, err
	}
	c := compiler{engine: e, registry: e.registry, text: trim(selector)}
	sel, err := c.group(group)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("compiled %q into %d alternative(s)", selector, len(sel.alts))
	return e.compiled.put(selector, sel), nil
}

// Query returns the elements below context which match selector, in document
// order. If seed is not nil, the elements of seed matching selector are
// returned instead and context only serves as the reference for relative
// selectors; it defaults to the document of the first seed element.
//
// An empty selector selects nothing. Text nodes and other non-element nodes
// have no element descendants, so querying them selects nothing either.
// Syntax errors are reported even if there is nothing to select from.
func (e *Engine) Query(selector string, context *html.Node, seed []*html.Node) ([]*html.Node, error) {
	if trim(selector) == "" {
		return nil, nil
	}
	sel, err := e.Compile(selector)
	if err != nil {
		return nil, err
	}
	if context == nil && seed == nil {
		return nil, ErrNoContext
	}
	if seed != nil {
		if len(seed) == 0 {
			return nil, nil
		}
		if context == nil {
			context = dom.Document(seed[0])
		}
		caps := e.capabilities(context)
		return sel.selectFrom(seed, e.newRun().evaluate(context, caps)), nil
	}
	if context.Type != html.ElementNode && context.Type != html.DocumentNode {
		return nil, nil
	}
	caps := e.capabilities(context)
	if e.delegate(sel, caps, caps.bulk != nil, caps.buggyQuery) {
		nodes, err := attempt(func() ([]*html.Node, error) {
			return caps.bulk.QueryAll(context, sel.text)
		})
		if err == nil {
			return nodes, nil
		}
		e.reject(sel, err)
	}
	return sel.query(e.newRun().evaluate(context, caps)), nil
}

// Find queries selector relative to each of contexts and returns the union
// of the results, in document order and without duplicates.
func (e *Engine) Find(selector string, contexts ...*html.Node) ([]*html.Node, error) {
	if len(contexts) == 0 {
		return nil, ErrNoContext
	}
	var all []*html.Node
	for _, ctx := range contexts {
		if ctx == nil {
			return nil, ErrNoContext
		}
		nodes, err := e.Query(selector, ctx, nil)
		if err != nil {
			return nil, err
		}
		all = append(all, nodes...)
	}
	if len(contexts) > 1 {
		var cmp Comparer
		if caps := e.capabilities(contexts[0]); caps.compare != nil {
			cmp = caps.compare.ComparePosition
		}
		all = UniqueSort(all, cmp)
	}
	return all, nil
}

// Matches returns the elements of a set which match selector.
func (e *Engine) Matches(selector string, elements []*html.Node) ([]*html.Node, error) {
	if elements == nil {
		elements = []*html.Node{}
	}
	return e.Query(selector, nil, elements)
}

// MatchesSelector tests a single element. Positional pseudo-classes refer
// to the set consisting of element only.
func (e *Engine) MatchesSelector(element *html.Node, selector string) (bool, error) {
	if trim(selector) == "" {
		return false, nil
	}
	sel, err := e.Compile(selector)
	if err != nil {
		return false, err
	}
	if element == nil || element.Type != html.ElementNode {
		return false, nil
	}
	doc := dom.Document(element)
	caps := e.capabilities(doc)
	if e.delegate(sel, caps, caps.match != nil, caps.buggyMatch) {
		ok, err := attempt(func() (bool, error) {
			return caps.match.MatchElement(element, sel.text)
		})
		if err == nil {
			return ok, nil
		}
		e.reject(sel, err)
	}
	ev := e.newRun().evaluate(doc, caps)
	if !sel.setLevel {
		return sel.matchNode(element, ev), nil
	}
	return len(sel.selectFrom([]*html.Node{element}, ev)) > 0, nil
}

// delegate decides if a selector may be handed to a native host primitive.
func (e *Engine) delegate(sel *Selector, caps *capabilities, available bool, re *regexp2.Regexp) bool {
	if !e.native || !available || caps.xml || sel.needsContext {
		return false
	}
	if e.nonNative.contains(sel.text) {
		return false
	}
	if buggy(re, sel.text) {
		tracer().Debugf("not delegating %q: known quirk of host", sel.text)
		return false
	}
	return true
}

// reject records a selector the host failed on.
func (e *Engine) reject(sel *Selector, err error) {
	tracer().Debugf("host fails on %q, walking: %v", sel.text, err)
	e.nonNative.put(sel.text, struct{}{})
}
