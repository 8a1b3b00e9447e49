package cssom

import "strings"

// StyleSheet is an interface to abstract away a stylesheet-implementation.
// Clients will have to provide a concrete implementation of this interface
// (e.g., see package douceuradapter).
//
// See interface Rule.
type StyleSheet interface {
	AppendRules(StyleSheet) // append rules from another stylesheet
	Empty() bool            // does this stylesheet contain any rules?
	Rules() []Rule          // all the rules of a stylesheet
}

// Rule is the type stylesheets consists of.
//
// See interface StyleSheet.
type Rule interface {
	Selector() string        // the prelude / selectors of the rule
	Properties() []string    // property keys, e.g. "margin-top"
	Value(string) string     // property value for key, e.g. "15px"
	IsImportant(string) bool // is property key marked as important?
}

// Selectors returns the rule preludes of a list of stylesheets, in order.
// Empty preludes are skipped.
func Selectors(sheets ...StyleSheet) []string {
	var sels []string
	for _, sheet := range sheets {
		if sheet == nil || sheet.Empty() {
			continue
		}
		for _, r := range sheet.Rules() {
			prelude := strings.TrimSpace(r.Selector())
			if prelude == "" {
				tracer().Debugf("skipping rule %q", prelude)
				continue
			}
			sels = append(sels, prelude)
		}
	}
	return sels
}
