package selector

import (
	"github.com/dlclark/regexp2"
)

// Grammar of the selector language. Quoted strings need back-references,
// so we use regexp2 instead of package regexp.
const (
	ws         = `[\x20\t\r\n\f]`
	identifier = `(?:\\[0-9a-fA-F]{1,6}` + ws + `?|\\[^\r\n\f]|[a-zA-Z0-9_-]|[^\x00-\x7f])+`

	// groups: 1 name, 2 operator, 3 single-quoted value, 4 double-quoted value,
	// 5 identifier value
	attributes = `\[` + ws + `*(` + identifier + `)(?:` + ws +
		`*([*^$|!~]?=)` + ws +
		`*(?:'((?:\\.|[^\\'])*)'|"((?:\\.|[^\\"])*)"|(` + identifier + `))|)` +
		ws + `*\]`

	// groups: 1 name, 2 argument, 3 quoted argument, 4 single-quoted content,
	// 5 double-quoted content, 6 unquoted argument (7–11 from attributes)
	pseudos = `:(` + identifier + `)(?:\((` +
		`('((?:\\.|[^\\'])*)'|"((?:\\.|[^\\"])*)")|` +
		`((?:\\.|[^\\()[\]]|` + attributes + `)*)|` +
		`.*` +
		`)\)|)`

	// groups: 1 kind, 2 what, 3 argument, 4 an-component, 5 sign of a, 6 a,
	// 7 sign of b, 8 b
	child = `^:(only|first|last|nth|nth-last)-(child|of-type)(?:\(` +
		ws + `*(even|odd|(([+-]|)([0-9]*)n|)` + ws + `*(?:([+-]|)` +
		ws + `*([0-9]+)|))` + ws + `*\)|)`

	positionalGrammar = `^` + ws + `*[>+~]|:(even|odd|eq|gt|lt|nth|first|last)(?:\(` + ws +
		`*((?:-[0-9])?[0-9]*)` + ws + `*\)|)(?=[^-]|$)`
)

var (
	rcomma       = regexp2.MustCompile(`^`+ws+`*,`+ws+`*`, regexp2.None)
	rcombinators = regexp2.MustCompile(`^`+ws+`*([>+~]|`+ws+`)`+ws+`*`, regexp2.None)
	rpseudo      = regexp2.MustCompile(pseudos, regexp2.None)
	ridentifier  = regexp2.MustCompile(`^`+identifier+`$`, regexp2.None)
	rchild       = regexp2.MustCompile(child, regexp2.IgnoreCase)
	rpositional  = regexp2.MustCompile(positionalGrammar, regexp2.IgnoreCase)
)

// grammar is a token rule of the tokenizer.
type grammar struct {
	typ     TokenType
	pattern *regexp2.Regexp
}

// Rules are tried in this order. PSEUDO hands off to CHILD in its pre-filter.
var grammars = []grammar{
	{IDToken, regexp2.MustCompile(`^#(`+identifier+`)`, regexp2.None)},
	{ClassToken, regexp2.MustCompile(`^\.(`+identifier+`)`, regexp2.None)},
	{TagToken, regexp2.MustCompile(`^(`+identifier+`|[*])`, regexp2.None)},
	{AttrToken, regexp2.MustCompile(`^`+attributes, regexp2.None)},
	{PseudoToken, regexp2.MustCompile(`^`+pseudos, regexp2.None)},
}

// submatch is a regexp group: its text and whether it participated in the match.
type submatch struct {
	text string
	ok   bool
}

func (s submatch) String() string { return s.text }

// exec matches re against s and returns the groups of the match, or nil.
func exec(re *regexp2.Regexp, s string) []submatch {
	m, err := re.FindStringMatch(s)
	if err != nil || m == nil {
		return nil
	}
	groups := m.Groups()
	subs := make([]submatch, len(groups))
	for i := range groups {
		subs[i] = submatch{text: groups[i].String(), ok: len(groups[i].Captures) > 0}
	}
	return subs
}

func test(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}

// tokenize splits a selector into a group of token sequences.
// The selector is expected to be trimmed.
func tokenize(selector string) (Group, error) {
	group, rest, err := lex(selector)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, syntaxError(selector, rest, "")
	}
	for _, seq := range group {
		if err := checkSequence(selector, seq); err != nil {
			return nil, err
		}
	}
	return group, nil
}

// scan is the parse-only mode of the tokenizer. It returns the number of bytes
// at the end of selector which could not be consumed.
func scan(selector string) (int, error) {
	_, rest, err := lex(selector)
	return len(rest), err
}

// lex consumes as much of the selector as possible and returns the tokens
// together with the unconsumed remainder.
func lex(selector string) (Group, string, error) {
	var group Group
	var tokens Sequence
	soFar := selector
	started := false
	for soFar != "" {
		if !started {
			tokens = Sequence{}
			started = true
		} else if m := exec(rcomma, soFar); m != nil {
			if len(m[0].text) < len(soFar) {
				soFar = soFar[len(m[0].text):]
			}
			group = append(group, tokens)
			tokens = Sequence{}
		}
		matched := ""
		// combinators
		if m := exec(rcombinators, soFar); m != nil {
			matched = m[0].text
			typ := m[1].text
			if isSpace(typ[0]) {
				typ = " "
			}
			tokens = append(tokens, Token{Value: matched, Type: CombinatorToken, Matches: []string{typ}})
			soFar = soFar[len(matched):]
		}
		// token rules
		for _, g := range grammars {
			m := exec(g.pattern, soFar)
			if m == nil {
				continue
			}
			tok, ok, err := prefilter(g.typ, m, selector)
			if err != nil {
				return nil, soFar, err
			}
			if !ok {
				continue
			}
			matched = tok.Value
			tokens = append(tokens, tok)
			soFar = soFar[len(matched):]
		}
		if matched == "" {
			break
		}
	}
	if started {
		group = append(group, tokens)
	}
	return group, soFar, nil
}

// checkSequence rejects sequences which cannot be compiled: empty ones,
// consecutive combinators and dangling combinators at the end.
func checkSequence(selector string, seq Sequence) error {
	if len(seq) == 0 {
		return syntaxError(selector, selector, "empty selector")
	}
	for i, t := range seq {
		if t.Type != CombinatorToken {
			continue
		}
		if i == len(seq)-1 {
			return syntaxError(selector, t.Value, "dangling combinator")
		}
		if seq[i+1].Type == CombinatorToken {
			return syntaxError(selector, seq[i+1].Value, "unexpected combinator")
		}
	}
	return nil
}

// needsContext reports whether a selector depends on the query context:
// a leading combinator or a positional pseudo-class.
func needsContext(selector string) bool {
	return test(rpositional, selector)
}
