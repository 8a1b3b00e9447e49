package selector

import (
	"strings"

	"golang.org/x/net/html"
)

// Selector is a compiled selector group. Selectors hold no reference to any
// tree and may be shared between goroutines.
type Selector struct {
	text         string
	group        Group
	alts         []*alternative
	needsContext bool
	setLevel     bool
}

// String returns the selector text the selector has been compiled from.
func (s *Selector) String() string {
	return s.text
}

// Tokens returns a copy of the token sequences of the selector.
func (s *Selector) Tokens() Group {
	return s.group.clone()
}

// NeedsContext reports whether results depend on the query context, i.e. the
// selector has a leading combinator or a positional pseudo-class.
func (s *Selector) NeedsContext() bool {
	return s.needsContext
}

// alternative is one compiled token sequence. Exactly one of match and pipe
// is set.
type alternative struct {
	seq   Sequence
	lead  string // leading combinator
	match matcher
	pipe  *pipeline
}

// setFilter reduces an ordered candidate set.
type setFilter func(set []*html.Node, ev *evaluation) []*html.Node

// pipeline is the compiled form of a sequence containing a set-level
// pseudo-class. Candidates are reduced by pre, then by filter. Survivors are
// checked against post, the rest of the compound selector. If the sequence
// continues with a combinator, finder is run relative to every survivor.
type pipeline struct {
	prefix Sequence
	pre    matcher
	filter setFilter
	pseudo Token
	kind   PseudoKind
	post   *alternative
	finder *alternative
}

type compiler struct {
	engine   *Engine
	registry *Registry
	text     string
}

func (c *compiler) group(group Group) (*Selector, error) {
	if len(group) == 0 {
		return nil, syntaxError(c.text, c.text, "empty selector")
	}
	sel := &Selector{text: c.text, group: group, needsContext: needsContext(c.text)}
	for _, seq := range group {
		alt, err := c.sequence(seq)
		if err != nil {
			return nil, err
		}
		if alt.lead != "" {
			sel.needsContext = true
		}
		if alt.pipe != nil {
			sel.setLevel = true
		}
		sel.alts = append(sel.alts, alt)
	}
	return sel, nil
}

// sequence compiles a token sequence. Simple tokens are collected into a
// predicate chain; a combinator wraps the chain accumulated so far. The first
// set-level pseudo-class turns the sequence into a pipeline.
func (c *compiler) sequence(seq Sequence) (*alternative, error) {
	alt := &alternative{seq: seq, lead: seq.leading()}
	var chain []matcher
	if alt.lead != "" {
		chain = append(chain, combine(isContext, alt.lead, c.engine.ids.Add(1)))
		seq = seq[1:]
	}
	for i, tok := range seq {
		switch tok.Type {
		case CombinatorToken:
			chain = []matcher{combine(all(chain), tok.Matches[0], c.engine.ids.Add(1))}
		case PseudoToken:
			m, filter, kind, err := c.pseudo(tok)
			if err != nil {
				return nil, err
			}
			if filter == nil {
				chain = append(chain, m)
				continue
			}
			prefix := alt.seq[:len(alt.seq)-len(seq)+i]
			pipe, err := c.pipeline(prefix, all(chain), filter, tok, seq[i+1:])
			if err != nil {
				return nil, err
			}
			pipe.kind = kind
			alt.pipe = pipe
			return alt, nil
		default:
			chain = append(chain, simple(tok))
		}
	}
	alt.match = all(chain)
	return alt, nil
}

func (c *compiler) pipeline(prefix Sequence, pre matcher, filter setFilter, pseudo Token, rest Sequence) (*pipeline, error) {
	pipe := &pipeline{prefix: prefix, pre: pre, filter: filter, pseudo: pseudo}
	j := 0
	for j < len(rest) && rest[j].Type != CombinatorToken {
		j++
	}
	var err error
	if j > 0 {
		if pipe.post, err = c.sequence(rest[:j]); err != nil {
			return nil, err
		}
	}
	if j < len(rest) {
		if pipe.finder, err = c.sequence(rest[j:]); err != nil {
			return nil, err
		}
	}
	return pipe, nil
}

// pseudo resolves a pseudo-class token. It returns either a matcher or, for
// set-level pseudo-classes, a set filter.
func (c *compiler) pseudo(tok Token) (matcher, setFilter, PseudoKind, error) {
	name := tok.Matches[0]
	arg, hasArg := "", len(tok.Matches) > 1
	if hasArg {
		arg = tok.Matches[1]
	}
	p, ok := c.registry.Lookup(name)
	if !ok {
		return nil, nil, 0, &SyntaxError{Selector: c.text, Remainder: tok.Value,
			Reason: "unsupported pseudo", Err: ErrUnsupportedPseudo}
	}
	kind := p.Kind()
	switch p := p.(type) {
	case PredicatePseudo:
		test, err := p(arg)
		if err != nil {
			return nil, nil, kind, syntaxError(c.text, tok.Value, err.Error())
		}
		return matchTest(test), nil, kind, nil
	case PositionalPseudo:
		pos, err := p(arg)
		if err != nil {
			return nil, nil, kind, syntaxError(c.text, tok.Value, err.Error())
		}
		return nil, positional(pos), kind, nil
	case RecursivePseudo:
		if !hasArg || strings.TrimSpace(arg) == "" {
			return nil, nil, kind, syntaxError(c.text, tok.Value, "missing argument")
		}
		inner, err := c.engine.Compile(arg)
		if err != nil {
			return nil, nil, kind, err
		}
		switch p.Mode {
		case Exclude:
			if inner.setLevel {
				return nil, exclude(inner), kind, nil
			}
			return not(inner), nil, kind, nil
		case Contain:
			return has(inner), nil, kind, nil
		}
	}
	return nil, nil, kind, syntaxError(c.text, tok.Value, "unsupported pseudo")
}

func positional(pos Positions) setFilter {
	return func(set []*html.Node, ev *evaluation) []*html.Node {
		keep := make([]bool, len(set))
		for _, i := range pos(len(set)) {
			if i >= 0 && i < len(set) {
				keep[i] = true
			}
		}
		var out []*html.Node
		for i, n := range set {
			if keep[i] {
				out = append(out, n)
			}
		}
		return out
	}
}

// not negates a selector without set-level parts.
func not(inner *Selector) matcher {
	return func(n *html.Node, ev *evaluation) bool {
		return n.Type == html.ElementNode && !inner.matchNode(n, ev)
	}
}

// exclude removes from a set all elements selected by inner, with the set as
// seed.
func exclude(inner *Selector) setFilter {
	return func(set []*html.Node, ev *evaluation) []*html.Node {
		excluded := make(map[*html.Node]bool)
		for _, n := range inner.selectFrom(set, ev.sub(ev.context)) {
			excluded[n] = true
		}
		var out []*html.Node
		for _, n := range set {
			if !excluded[n] {
				out = append(out, n)
			}
		}
		return out
	}
}

// has tests if inner selects at least one element relative to a node.
func has(inner *Selector) matcher {
	return func(n *html.Node, ev *evaluation) bool {
		return n.Type == html.ElementNode && inner.exists(ev.sub(n))
	}
}
