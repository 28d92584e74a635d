// Package scan locates class-list string literals in JavaScript and
// TypeScript sources (with or without JSX) and reports them as candidates.
package scan

import (
	"context"

	"twprefix/internal/logging"
)

// Candidate is a string literal eligible for rewriting. ValueStart and
// ValueEnd delimit the value without its quotes.
type Candidate struct {
	ValueStart int
	ValueEnd   int
	Open       string
	Close      string
	Value      string
	Context    ContextKind
	Name       string // callee, property key or attribute name
	Line       int
	Column     int
}

// Start is the offset of the opening quote.
func (c Candidate) Start() int {
	return c.ValueStart - len(c.Open)
}

// End is the offset just past the closing quote.
func (c Candidate) End() int {
	return c.ValueEnd + len(c.Close)
}

// Options configures which call and attribute names produce candidates.
type Options struct {
	Helpers         []string
	ClassAttributes []string
}

// DefaultOptions matches the cva/cn helpers and the className/class attributes.
func DefaultOptions() Options {
	return Options{
		Helpers:         []string{"cva", "cn"},
		ClassAttributes: []string{"className", "class"},
	}
}

// Scanner turns source text into candidates.
type Scanner struct {
	walker  Walker
	helpers map[string]bool
	attrs   map[string]bool
}

// New creates a Scanner backed by tree-sitter.
func New(opts Options) *Scanner {
	return NewWithWalker(NewTreeSitterWalker(), opts)
}

// NewWithWalker creates a Scanner over any Walker implementation.
func NewWithWalker(w Walker, opts Options) *Scanner {
	s := &Scanner{
		walker:  w,
		helpers: make(map[string]bool, len(opts.Helpers)),
		attrs:   make(map[string]bool, len(opts.ClassAttributes)),
	}
	for _, h := range opts.Helpers {
		s.helpers[h] = true
	}
	for _, a := range opts.ClassAttributes {
		s.attrs[a] = true
	}
	return s
}

// Scan returns the candidates of src in document order. A syntax error
// yields a *ParseError and no candidates.
func (s *Scanner) Scan(ctx context.Context, src []byte, dialect Dialect) ([]Candidate, error) {
	timer := logging.StartTimer(logging.CategoryScan, "scan "+string(dialect))
	defer timer.Stop()

	c := &collector{scanner: s}
	if err := s.walker.Walk(ctx, src, dialect, c); err != nil {
		return nil, err
	}

	logging.ScanDebug("%d bytes as %s: %d candidates, %d escaped literals skipped",
		len(src), dialect, len(c.candidates), c.skipped)
	return c.candidates, nil
}

// collector is the Visitor that applies the candidate rules.
type collector struct {
	scanner    *Scanner
	candidates []Candidate
	skipped    int
}

func (c *collector) VisitString(lit StringLiteral, parent Parent) {
	switch parent.Kind {
	case ContextCallArgument:
		if !c.scanner.helpers[parent.Callee] {
			return
		}
		c.add(lit, parent.Kind, parent.Callee)
	case ContextPropertyValue:
		c.add(lit, parent.Kind, parent.Key)
	}
}

func (c *collector) VisitAttribute(name string, value *StringLiteral) {
	if value == nil || !c.scanner.attrs[name] {
		return
	}
	c.add(*value, ContextAttribute, name)
}

func (c *collector) add(lit StringLiteral, kind ContextKind, name string) {
	// The replacement must reuse the literal's exact quoting, which cannot
	// be done for values written with escapes.
	if lit.HasEscapes() {
		c.skipped++
		return
	}
	c.candidates = append(c.candidates, Candidate{
		ValueStart: lit.Start + len(lit.Open),
		ValueEnd:   lit.End - len(lit.Close),
		Open:       lit.Open,
		Close:      lit.Close,
		Value:      lit.Value,
		Context:    kind,
		Name:       name,
		Line:       lit.Line,
		Column:     lit.Column,
	})
}
