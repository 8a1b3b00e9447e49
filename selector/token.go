package selector

import (
	"strings"
)

// TokenType is the type of a selector token.
type TokenType uint8

// Token types, as produced by the tokenizer.
const (
	TagToken        TokenType = iota // div, *
	IDToken                          // #main
	ClassToken                       // .active
	AttrToken                        // [href^="http"]
	PseudoToken                      // :not(…), :first, :contains(…)
	ChildToken                       // :nth-child(2n+1), :first-of-type, …
	CombinatorToken                  // '>', '+', '~', ' '
)

func (t TokenType) String() string {
	switch t {
	case TagToken:
		return "TAG"
	case IDToken:
		return "ID"
	case ClassToken:
		return "CLASS"
	case AttrToken:
		return "ATTR"
	case PseudoToken:
		return "PSEUDO"
	case ChildToken:
		return "CHILD"
	case CombinatorToken:
		return "COMBINATOR"
	}
	return "?"
}

// Token is a lexical unit of a selector.
//
// Value holds the source text of the token. Matches holds the normalized
// arguments, depending on the token type:
//
//	TAG         [name]
//	ID, CLASS   [name]                      (unescaped)
//	ATTR        [name, operator, value]     (value padded with spaces for "~=")
//	PSEUDO      [name] or [name, argument]
//	CHILD       [kind, what, argument, a, b] (kind ∈ first|last|only|nth|nth-last)
//	COMBINATOR  [type]                      (type ∈ '>', '+', '~', ' ')
//
// Tokens are immutable after pre-normalization.
type Token struct {
	Value   string
	Type    TokenType
	Matches []string
}

// Sequence is a comma-free list of tokens, e.g. "div.a > p:first".
// It may start with a combinator.
type Sequence []Token

// String reconstructs the source text of a sequence.
func (s Sequence) String() string {
	var b strings.Builder
	for _, t := range s {
		b.WriteString(t.Value)
	}
	return b.String()
}

// leading returns the type of a leading combinator, or "".
func (s Sequence) leading() string {
	if len(s) > 0 && s[0].Type == CombinatorToken {
		return s[0].Matches[0]
	}
	return ""
}

// Group is a list of sequences, one per comma-separated alternative.
type Group []Sequence

func (g Group) String() string {
	parts := make([]string, len(g))
	for i, s := range g {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}

// clone copies the group down to the token matches.
func (g Group) clone() Group {
	c := make(Group, len(g))
	for i, s := range g {
		c[i] = make(Sequence, len(s))
		for j, tok := range s {
			tok.Matches = append([]string(nil), tok.Matches...)
			c[i][j] = tok
		}
	}
	return c
}
