package selector

import (
	"strconv"
	"strings"
)

// prefilter normalizes the raw groups of a token rule match into a token.
// It returns false if the rule should not produce a token for this match,
// which is the case for pseudo-classes of the child family: they are left to
// the CHILD rule.
func prefilter(typ TokenType, m []submatch, selector string) (Token, bool, error) {
	switch typ {
	case IDToken, ClassToken, TagToken:
		return Token{Value: m[0].text, Type: typ, Matches: []string{unescape(m[1].text)}}, true, nil
	case AttrToken:
		return prefilterAttr(m), true, nil
	case PseudoToken:
		if c := exec(rchild, m[0].text); c != nil {
			tok, err := prefilterChild(c, selector)
			return tok, err == nil, err
		}
		return prefilterPseudo(m)
	}
	return Token{}, false, nil
}

func prefilterAttr(m []submatch) Token {
	value := m[3].text
	if value == "" {
		value = m[4].text
	}
	if value == "" {
		value = m[5].text
	}
	value = unescape(value)
	op := m[2].text
	if op == "~=" {
		value = " " + value + " "
	}
	return Token{
		Value:   m[0].text,
		Type:    AttrToken,
		Matches: []string{unescape(m[1].text), op, value},
	}
}

// prefilterChild computes the an+b coefficients of the nth-family. Plain
// first/last/only selectors must not carry an argument, nth selectors must.
func prefilterChild(m []submatch, selector string) (Token, error) {
	kind := strings.ToLower(m[1].text)
	what := strings.ToLower(m[2].text)
	arg := strings.ToLower(m[3].text)
	var a, b int
	if strings.HasPrefix(kind, "nth") {
		if arg == "" {
			return Token{}, syntaxError(selector, m[0].text, "missing argument")
		}
		if m[4].text != "" {
			n := m[6].text
			if n == "" {
				n = "1"
			}
			a = atoi(m[5].text + n)
		} else if arg == "even" || arg == "odd" {
			a = 2
		}
		if s := m[7].text + m[8].text; s != "" {
			b = atoi(s)
		} else if arg == "odd" {
			b = 1
		}
	} else if m[3].text != "" {
		return Token{}, syntaxError(selector, m[0].text, "unexpected argument")
	}
	return Token{
		Value:   m[0].text,
		Type:    ChildToken,
		Matches: []string{kind, what, arg, strconv.Itoa(a), strconv.Itoa(b)},
	}, nil
}

// prefilterPseudo extracts name and argument of a pseudo-class. Quoted
// arguments are taken as they are. An unquoted argument which itself contains
// pseudo-classes may have swallowed too much input: it is cut back to the
// closing parenthesis which ends the nested selector.
func prefilterPseudo(m []submatch) (Token, bool, error) {
	name := strings.ToLower(unescape(m[1].text))
	value := m[0].text
	if !m[2].ok {
		return Token{Value: value, Type: PseudoToken, Matches: []string{name}}, true, nil
	}
	arg := m[2].text
	if m[3].text != "" {
		arg = m[4].text
		if arg == "" {
			arg = m[5].text
		}
	} else if unquoted := m[2].text; m[6].text == "" && unquoted != "" && test(rpseudo, unquoted) {
		excess, err := scan(unquoted)
		if err != nil {
			return Token{}, false, err
		}
		if excess > 0 {
			from := len(unquoted) - excess
			if i := strings.IndexByte(unquoted[from:], ')'); i >= 0 {
				cut := from + i
				value = value[:len(value)-(len(unquoted)-cut)]
				arg = unquoted[:cut]
			}
		}
	}
	return Token{Value: value, Type: PseudoToken, Matches: []string{name, arg}}, true, nil
}

// atoi converts a signed decimal, as captured by the child grammar.
func atoi(s string) int {
	s = strings.TrimPrefix(s, "+")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
