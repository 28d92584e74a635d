package scan

import (
	"errors"
	"fmt"
)

// ErrSyntax is wrapped by every ParseError.
var ErrSyntax = errors.New("syntax error")

// ParseError reports source text that does not conform to its dialect's
// grammar. Line and Column are 1-based and point at the first error node.
type ParseError struct {
	Dialect Dialect
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %d:%d: %s", e.Dialect, e.Line, e.Column, e.Message)
}

func (e *ParseError) Unwrap() error {
	return ErrSyntax
}
