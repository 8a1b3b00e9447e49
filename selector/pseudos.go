package selector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/selquery/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func registerBuiltins(r *Registry) {
	predicates := map[string]PredicatePseudo{
		"empty":    plain(isEmpty),
		"parent":   plain(func(n *html.Node) bool { return !isEmpty(n) }),
		"root":     plain(isRoot),
		"checked":  plain(isChecked),
		"selected": plain(isSelected),
		"enabled":  plain(func(n *html.Node) bool { return canBeDisabled(n) && !isDisabled(n) }),
		"disabled": plain(func(n *html.Node) bool { return canBeDisabled(n) && isDisabled(n) }),
		"visible":  plain(func(n *html.Node) bool { return !dom.IsHidden(n) }),
		"hidden":   plain(dom.IsHidden),
		"header":   plain(isHeader),
		"input":    plain(isInput),
		"button":   plain(isButton),
		"text":     plain(isTextInput),
		"lang":     langPseudo,
		"contains": containsPseudo,
	}
	for _, typ := range []string{"radio", "checkbox", "file", "password", "image"} {
		predicates[typ] = plain(inputOfType(typ))
	}
	for _, typ := range []string{"submit", "reset"} {
		predicates[typ] = plain(buttonOfType(typ))
	}
	for name, p := range predicates {
		r.pseudos[name] = p
	}
	r.pseudos["first"] = fixed(func(length int) []int { return []int{0} })
	r.pseudos["last"] = fixed(func(length int) []int { return []int{length - 1} })
	r.pseudos["even"] = fixed(func(length int) []int { return stride(0, length) })
	r.pseudos["odd"] = fixed(func(length int) []int { return stride(1, length) })
	r.pseudos["eq"] = PositionalPseudo(eqPositions)
	r.pseudos["nth"] = PositionalPseudo(eqPositions)
	r.pseudos["lt"] = PositionalPseudo(ltPositions)
	r.pseudos["gt"] = PositionalPseudo(gtPositions)
	r.pseudos["not"] = RecursivePseudo{Mode: Exclude}
	r.pseudos["has"] = RecursivePseudo{Mode: Contain}
}

// plain wraps an argument-less node test.
func plain(test NodeTest) PredicatePseudo {
	return func(string) (NodeTest, error) {
		return test, nil
	}
}

// fixed wraps argument-less positions.
func fixed(pos Positions) PositionalPseudo {
	return func(string) (Positions, error) {
		return pos, nil
	}
}

// --- Positional ------------------------------------------------------------

func stride(from, length int) []int {
	var idx []int
	for i := from; i < length; i += 2 {
		idx = append(idx, i)
	}
	return idx
}

func index(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("expected an integer, got %q", arg)
	}
	return n, nil
}

// eq(n) selects the element at index n; negative n counts from the end.
func eqPositions(arg string) (Positions, error) {
	n, err := index(arg)
	if err != nil {
		return nil, err
	}
	return func(length int) []int {
		if n < 0 {
			return []int{n + length}
		}
		return []int{n}
	}, nil
}

// lt(n) selects all elements with index less than n.
func ltPositions(arg string) (Positions, error) {
	n, err := index(arg)
	if err != nil {
		return nil, err
	}
	return func(length int) []int {
		i := n
		if i < 0 {
			i += length
		} else if i > length {
			i = length
		}
		var idx []int
		for i--; i >= 0; i-- {
			idx = append(idx, i)
		}
		return idx
	}, nil
}

// gt(n) selects all elements with index greater than n.
func gtPositions(arg string) (Positions, error) {
	n, err := index(arg)
	if err != nil {
		return nil, err
	}
	return func(length int) []int {
		i := n
		if i < 0 {
			i += length
		}
		var idx []int
		for i++; i < length; i++ {
			idx = append(idx, i)
		}
		return idx
	}, nil
}

// --- Stateless -------------------------------------------------------------

// isEmpty is true for elements without element or text children.
// Comments and processing instructions do not count.
func isEmpty(n *html.Node) bool {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode || ch.Type == html.TextNode {
			return false
		}
	}
	return true
}

func isRoot(n *html.Node) bool {
	return n.Parent != nil && n.Parent.Type == html.DocumentNode &&
		n == dom.DocumentElement(n.Parent)
}

func nodeName(n *html.Node) string {
	return strings.ToLower(n.Data)
}

func attrLower(n *html.Node, key string) (string, bool) {
	v, ok := dom.Attr(n, key, false)
	return strings.ToLower(v), ok
}

func isChecked(n *html.Node) bool {
	switch nodeName(n) {
	case "input":
		return dom.HasAttr(n, "checked")
	case "option":
		return dom.HasAttr(n, "selected")
	}
	return false
}

func isSelected(n *html.Node) bool {
	return nodeName(n) == "option" && dom.HasAttr(n, "selected")
}

func canBeDisabled(n *html.Node) bool {
	switch nodeName(n) {
	case "button", "input", "select", "textarea", "optgroup", "option", "fieldset":
		return true
	}
	return false
}

// isDisabled follows the HTML rules for disabled form controls: an element is
// disabled by its own attribute, by a disabled option group, or by a disabled
// ancestor fieldset unless it is located in the fieldset's first legend.
func isDisabled(n *html.Node) bool {
	if dom.HasAttr(n, "disabled") {
		return true
	}
	if nodeName(n) == "option" && n.Parent != nil && nodeName(n.Parent) == "optgroup" &&
		dom.HasAttr(n.Parent, "disabled") {
		return true
	}
	child := n
	for p := n.Parent; p != nil && p.Type == html.ElementNode; p = p.Parent {
		if nodeName(p) == "fieldset" && dom.HasAttr(p, "disabled") {
			legend := firstLegend(p)
			if legend == nil || child != legend {
				return true
			}
		}
		child = p
	}
	return false
}

func firstLegend(fieldset *html.Node) *html.Node {
	for ch := fieldset.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode && nodeName(ch) == "legend" {
			return ch
		}
	}
	return nil
}

func isHeader(n *html.Node) bool {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	name := nodeName(n)
	return len(name) == 2 && name[0] == 'h' && '0' <= name[1] && name[1] <= '9'
}

func isInput(n *html.Node) bool {
	switch nodeName(n) {
	case "input", "select", "textarea", "button":
		return true
	}
	return false
}

func isButton(n *html.Node) bool {
	switch nodeName(n) {
	case "button":
		return true
	case "input":
		t, _ := attrLower(n, "type")
		return t == "button"
	}
	return false
}

// isTextInput is true for inputs of type text, including those without a
// type attribute.
func isTextInput(n *html.Node) bool {
	if nodeName(n) != "input" {
		return false
	}
	t, ok := attrLower(n, "type")
	return !ok || t == "text"
}

func inputOfType(typ string) NodeTest {
	return func(n *html.Node) bool {
		if nodeName(n) != "input" {
			return false
		}
		t, _ := attrLower(n, "type")
		return t == typ
	}
}

// buttonOfType matches inputs and buttons of a type. Buttons default to
// type submit.
func buttonOfType(typ string) NodeTest {
	return func(n *html.Node) bool {
		switch nodeName(n) {
		case "input":
			t, _ := attrLower(n, "type")
			return t == typ
		case "button":
			t, ok := attrLower(n, "type")
			if !ok || (t != "reset" && t != "button") {
				t = "submit"
			}
			return t == typ
		}
		return false
	}
}

// langPseudo matches elements whose language, as declared by the nearest
// lang attribute, equals the argument or starts with argument + "-".
func langPseudo(arg string) (NodeTest, error) {
	if !test(ridentifier, arg) {
		return nil, fmt.Errorf("unsupported lang: %s", arg)
	}
	lang := strings.ToLower(unescape(arg))
	return func(n *html.Node) bool {
		for e := n; e != nil && e.Type == html.ElementNode; e = e.Parent {
			v, ok := dom.Attr(e, "xml:lang", true)
			if !ok || v == "" {
				v, ok = dom.Attr(e, "lang", false)
			}
			if ok && v != "" {
				v = strings.ToLower(v)
				return v == lang || strings.HasPrefix(v, lang+"-")
			}
		}
		return false
	}, nil
}

// containsPseudo matches elements whose text content contains the argument.
func containsPseudo(arg string) (NodeTest, error) {
	if arg == "" {
		return nil, fmt.Errorf("missing argument")
	}
	text := unescape(arg)
	return func(n *html.Node) bool {
		return strings.Contains(dom.TextContent(n), text)
	}, nil
}
