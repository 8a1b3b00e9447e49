package host

import (
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/npillmayer/selquery/dom"
	"golang.org/x/net/html"
)

// DefaultParseCacheSize is the number of parsed cascadia selector groups
// an HTML host keeps around.
const DefaultParseCacheSize = 64

// HTML is the default host for x/net/html trees. Native queries are
// delegated to cascadia.
//
// HTML is safe for concurrent use.
type HTML struct {
	mu     sync.Mutex
	groups *simplelru.LRU[string, cascadia.SelectorGroup]
}

// NewHTML creates a host for x/net/html trees.
func NewHTML() *HTML {
	lru, err := simplelru.NewLRU[string, cascadia.SelectorGroup](DefaultParseCacheSize, nil)
	if err != nil { // only happens for size <= 0
		panic(err)
	}
	return &HTML{groups: lru}
}

// Name is part of interface Host.
func (h *HTML) Name() string {
	return "cascadia"
}

func (h *HTML) parse(selector string) (cascadia.SelectorGroup, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if g, ok := h.groups.Get(selector); ok {
		return g, nil
	}
	g, err := cascadia.ParseGroup(selector)
	if err != nil {
		tracer().Debugf("cascadia rejects %q: %v", selector, err)
		return nil, err
	}
	h.groups.Add(selector, g)
	return g, nil
}

// QueryAll is part of interface BulkQuerier.
func (h *HTML) QueryAll(root *html.Node, selector string) ([]*html.Node, error) {
	g, err := h.parse(selector)
	if err != nil {
		return nil, err
	}
	return cascadia.QueryAll(root, g), nil
}

// MatchElement is part of interface ElementMatcher.
func (h *HTML) MatchElement(n *html.Node, selector string) (bool, error) {
	g, err := h.parse(selector)
	if err != nil {
		return false, err
	}
	return g.Match(n), nil
}

// ElementByID is part of interface IDLookup.
func (h *HTML) ElementByID(doc *html.Node, id string) *html.Node {
	return dom.First(doc, func(n *html.Node) bool {
		v, ok := dom.Attr(n, "id", false)
		return ok && v == id
	})
}

// ElementsByTagName is part of interface TagLookup.
func (h *HTML) ElementsByTagName(root *html.Node, tag string) []*html.Node {
	return dom.Collect(root, dom.NodeHasTag(tag, dom.IsXML(root)))
}

// ElementsByClassName is part of interface ClassLookup.
func (h *HTML) ElementsByClassName(root *html.Node, class string) []*html.Node {
	return dom.Collect(root, func(n *html.Node) bool {
		v, ok := dom.Attr(n, "class", false)
		if !ok {
			return false
		}
		for _, c := range strings.Fields(v) {
			if c == class {
				return true
			}
		}
		return false
	})
}

// Cascadia folds case for :contains, has its own rules for form elements
// being enabled or checked, ignores whitespace text for :empty, compares
// attribute keys exactly and does not accept relative arguments for :has.
var cascadiaQuirks = []string{
	`:contains\(`,
	`:(?:en|dis)abled`,
	`:checked`,
	`:empty`,
	`:lang\(`,
	`\[[\x20\t\r\n\f]*[\w-]*[A-Z]`,
	`:has\([\x20\t\r\n\f]*[>+~]`,
}

// QueryQuirks is part of interface QuirkReporter.
func (h *HTML) QueryQuirks() []string {
	return cascadiaQuirks
}

// MatchQuirks is part of interface QuirkReporter.
func (h *HTML) MatchQuirks() []string {
	return cascadiaQuirks
}

var _ BulkQuerier = (*HTML)(nil)
var _ ElementMatcher = (*HTML)(nil)
var _ IDLookup = (*HTML)(nil)
var _ TagLookup = (*HTML)(nil)
var _ ClassLookup = (*HTML)(nil)
var _ QuirkReporter = (*HTML)(nil)
