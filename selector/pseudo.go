package selector

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// PseudoKind classifies pseudo-classes by the way the compiler composes them.
type PseudoKind uint8

const (
	// StatelessPredicate pseudo-classes decide from a single element.
	StatelessPredicate PseudoKind = iota
	// PositionalSetProducer pseudo-classes select by index from the ordered
	// set of elements matched so far.
	PositionalSetProducer
	// RecursiveSetProducer pseudo-classes take a selector as argument.
	RecursiveSetProducer
)

func (k PseudoKind) String() string {
	switch k {
	case StatelessPredicate:
		return "predicate"
	case PositionalSetProducer:
		return "positional"
	case RecursiveSetProducer:
		return "recursive"
	}
	return "?"
}

// Pseudo is the closed set of pseudo-class variants: PredicatePseudo,
// PositionalPseudo and RecursivePseudo.
type Pseudo interface {
	Kind() PseudoKind
	isPseudo()
}

// NodeTest decides a pseudo-class for a single element.
type NodeTest func(n *html.Node) bool

// PredicatePseudo is a factory for stateless pseudo-classes. It is called once
// per compilation with the (possibly empty) argument of the pseudo-class.
type PredicatePseudo func(arg string) (NodeTest, error)

// Kind is part of interface Pseudo.
func (PredicatePseudo) Kind() PseudoKind { return StatelessPredicate }
func (PredicatePseudo) isPseudo()        {}

// Positions returns the indices of the elements to keep from an ordered set
// of length elements. Indices out of range are ignored.
type Positions func(length int) []int

// PositionalPseudo is a factory for positional pseudo-classes.
type PositionalPseudo func(arg string) (Positions, error)

// Kind is part of interface Pseudo.
func (PositionalPseudo) Kind() PseudoKind { return PositionalSetProducer }
func (PositionalPseudo) isPseudo()        {}

// RecursiveMode tells how a recursive pseudo-class applies its nested selector.
type RecursiveMode uint8

const (
	// Exclude keeps elements not matching the nested selector (:not).
	Exclude RecursiveMode = iota
	// Contain keeps elements with at least one descendant matching the
	// nested selector, relative to the element (:has).
	Contain
)

// RecursivePseudo is a pseudo-class with a selector argument.
type RecursivePseudo struct {
	Mode RecursiveMode
}

// Kind is part of interface Pseudo.
func (RecursivePseudo) Kind() PseudoKind { return RecursiveSetProducer }
func (RecursivePseudo) isPseudo()        {}

// Registry maps pseudo-class names to pseudo-classes. Names are
// case-insensitive. A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	pseudos map[string]Pseudo
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{pseudos: make(map[string]Pseudo)}
}

// DefaultRegistry creates a registry holding all built-in pseudo-classes.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	registerBuiltins(r)
	return r
}

// Register adds or replaces a pseudo-class. Names of the child family
// (first-child, nth-of-type, …) are handled by the tokenizer and cannot be
// registered.
func (r *Registry) Register(name string, p Pseudo) error {
	name = strings.ToLower(name)
	if name == "" || !test(ridentifier, name) {
		return fmt.Errorf("invalid pseudo-class name %q", name)
	}
	if test(rchild, ":"+name) {
		return fmt.Errorf("pseudo-class name %q is reserved", name)
	}
	if isNil(p) {
		return fmt.Errorf("pseudo-class %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pseudos[name] = p
	return nil
}

func isNil(p Pseudo) bool {
	switch f := p.(type) {
	case nil:
		return true
	case PredicatePseudo:
		return f == nil
	case PositionalPseudo:
		return f == nil
	}
	return false
}

// Lookup finds a pseudo-class by name.
func (r *Registry) Lookup(name string) (Pseudo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pseudos[strings.ToLower(name)]
	return p, ok
}

// Names returns the names of all registered pseudo-classes, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.pseudos))
	for name := range r.pseudos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
