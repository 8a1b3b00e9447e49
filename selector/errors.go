package selector

import (
	"errors"
	"fmt"
)

// ErrSyntax is the error class of all selector syntax errors.
// Use errors.Is(err, ErrSyntax) to test for it; the concrete error is of
// type *SyntaxError.
var ErrSyntax = errors.New("selector syntax error")

// ErrUnsupportedPseudo is wrapped by syntax errors for unknown pseudo-classes.
var ErrUnsupportedPseudo = errors.New("unsupported pseudo-class")

// ErrNoContext is returned for queries with neither a context node nor a seed.
var ErrNoContext = errors.New("query needs a context node or a seed")

// SyntaxError is returned for malformed selectors and for unknown pseudo-classes.
// Remainder holds the part of the input which could not be processed.
type SyntaxError struct {
	Selector  string // the selector as handed to the engine
	Remainder string // unconsumed or offending part of the selector
	Reason    string // optional explanation
	Err       error  // optional underlying error
}

func (e *SyntaxError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("syntax error, %s: %s", e.Reason, e.Remainder)
	}
	return fmt.Sprintf("syntax error, unrecognized expression: %s", e.Remainder)
}

// Unwrap returns the underlying error, if any.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Is makes a SyntaxError match ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

func syntaxError(selector, remainder, reason string) error {
	return &SyntaxError{Selector: selector, Remainder: remainder, Reason: reason}
}
