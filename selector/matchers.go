package selector

import (
	"strconv"
	"strings"

	"github.com/npillmayer/selquery/dom"
	"golang.org/x/net/html"
)

// matcher tests a single node within an evaluation.
type matcher func(n *html.Node, ev *evaluation) bool

// all combines a chain of matchers. The chain is evaluated from last to
// first, i.e. from the rightmost simple selector to the leftmost combinator.
func all(chain []matcher) matcher {
	switch len(chain) {
	case 0:
		return isElement
	case 1:
		return chain[0]
	}
	return func(n *html.Node, ev *evaluation) bool {
		for i := len(chain) - 1; i >= 0; i-- {
			if !chain[i](n, ev) {
				return false
			}
		}
		return true
	}
}

func isElement(n *html.Node, ev *evaluation) bool {
	return n.Type == html.ElementNode
}

func isContext(n *html.Node, ev *evaluation) bool {
	return n == ev.context
}

func matchTag(name string) matcher {
	if name == "*" {
		return isElement
	}
	return func(n *html.Node, ev *evaluation) bool {
		if n.Type != html.ElementNode {
			return false
		}
		if ev.xml {
			return n.Data == name
		}
		return strings.EqualFold(n.Data, name)
	}
}

func matchID(id string) matcher {
	return func(n *html.Node, ev *evaluation) bool {
		v, ok := dom.Attr(n, "id", ev.xml)
		return ok && v == id
	}
}

func matchClass(class string) matcher {
	return func(n *html.Node, ev *evaluation) bool {
		v, ok := dom.Attr(n, "class", ev.xml)
		return ok && hasClass(v, class)
	}
}

func hasClass(classes, class string) bool {
	for _, c := range strings.FieldsFunc(classes, isSpaceRune) {
		if c == class {
			return true
		}
	}
	return false
}

func isSpaceRune(r rune) bool {
	return r < 0x80 && isSpace(byte(r))
}

// matchAttr implements attribute selectors. A missing attribute only matches
// the "!=" operator. Operators "^=", "$=" and "*=" never match an empty value.
func matchAttr(name, op, value string) matcher {
	return func(n *html.Node, ev *evaluation) bool {
		v, ok := dom.Attr(n, name, ev.xml)
		if !ok {
			return op == "!="
		}
		switch op {
		case "":
			return true
		case "=":
			return v == value
		case "!=":
			return v != value
		case "^=":
			return value != "" && strings.HasPrefix(v, value)
		case "*=":
			return value != "" && strings.Contains(v, value)
		case "$=":
			return value != "" && strings.HasSuffix(v, value)
		case "~=":
			return strings.Contains(" "+strings.Join(strings.FieldsFunc(v, isSpaceRune), " ")+" ", value)
		case "|=":
			return v == value || strings.HasPrefix(v, value+"-")
		}
		return false
	}
}

// matchChild implements the child family of pseudo-classes. Positions are
// counted among element siblings; for the of-type variants among siblings
// with the same tag name.
func matchChild(kind, what string, a, b int) matcher {
	ofType := what == "of-type"
	simple := !strings.HasPrefix(kind, "nth")
	if simple {
		first, last := kind != "last", kind != "first"
		return func(n *html.Node, ev *evaluation) bool {
			if !hasParentElement(n) {
				return false
			}
			if first && hasSiblingBefore(n, ofType, ev.xml) {
				return false
			}
			if last && hasSiblingAfter(n, ofType, ev.xml) {
				return false
			}
			return true
		}
	}
	forward := kind == "nth"
	if a == 1 && b == 0 {
		return func(n *html.Node, ev *evaluation) bool {
			return hasParentElement(n)
		}
	}
	return func(n *html.Node, ev *evaluation) bool {
		if !hasParentElement(n) {
			return false
		}
		return nth(ev.position(n, ofType, forward), a, b)
	}
}

// hasParentElement is the precondition of the child family: the root element
// and detached elements have no siblings to count.
func hasParentElement(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Parent != nil && n.Parent.Type == html.ElementNode
}

// nth reports whether there is an integer k ≥ 0 with pos = a*k + b.
func nth(pos, a, b int) bool {
	diff := pos - b
	if a == 0 {
		return diff == 0
	}
	return diff%a == 0 && diff/a >= 0
}

func hasSiblingBefore(n *html.Node, ofType, xml bool) bool {
	for s := dom.PrevElement(n); s != nil; s = dom.PrevElement(s) {
		if !ofType || typeName(s, xml) == typeName(n, xml) {
			return true
		}
	}
	return false
}

func hasSiblingAfter(n *html.Node, ofType, xml bool) bool {
	for s := dom.NextElement(n); s != nil; s = dom.NextElement(s) {
		if !ofType || typeName(s, xml) == typeName(n, xml) {
			return true
		}
	}
	return false
}

func matchTest(test NodeTest) matcher {
	return func(n *html.Node, ev *evaluation) bool {
		return n.Type == html.ElementNode && test(n)
	}
}

// simple compiles a token which is neither a combinator nor a pseudo-class.
func simple(tok Token) matcher {
	switch tok.Type {
	case TagToken:
		return matchTag(tok.Matches[0])
	case IDToken:
		return matchID(tok.Matches[0])
	case ClassToken:
		return matchClass(tok.Matches[0])
	case AttrToken:
		return matchAttr(tok.Matches[0], tok.Matches[1], tok.Matches[2])
	case ChildToken:
		a, _ := strconv.Atoi(tok.Matches[3])
		b, _ := strconv.Atoi(tok.Matches[4])
		return matchChild(tok.Matches[0], tok.Matches[1], a, b)
	}
	panic("selector: no simple matcher for token type " + tok.Type.String())
}
