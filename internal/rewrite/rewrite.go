// Package rewrite turns scanned class-list candidates into prefix edits.
//
// Rewrite is a pure function of (source, dialect, prefix): it parses, gates
// every candidate through the class-list heuristic, prefixes it and returns
// the edits that change something, ordered by descending start offset.
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"twprefix/internal/classlist"
	"twprefix/internal/logging"
	"twprefix/internal/scan"
)

var (
	// ErrEmptyPrefix is returned when the prefix is empty or blank. Callers
	// are expected to reject such a prefix before calling Rewrite.
	ErrEmptyPrefix = errors.New("prefix cannot be empty")
	// ErrPrefixWhitespace is returned when the prefix contains whitespace.
	ErrPrefixWhitespace = errors.New("prefix cannot contain whitespace")
)

// Edit replaces src[Start:End] with NewText. The range covers the literal
// including its quotes.
type Edit struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	NewText string `json:"newText"`

	// Old and New are the literal values without quotes, kept for reporting.
	Old    string `json:"-"`
	New    string `json:"-"`
	Line   int    `json:"-"`
	Column int    `json:"-"`
}

// Result is the outcome of one Rewrite call. No edits is a valid outcome.
type Result struct {
	Dialect    scan.Dialect
	Candidates int
	Edits      []Edit
}

// Empty reports whether nothing needs rewriting.
func (r *Result) Empty() bool {
	return len(r.Edits) == 0
}

// Rewriter runs the scan and collect pipeline with a fixed scanner.
type Rewriter struct {
	scanner *scan.Scanner
}

// New creates a Rewriter with the given scanner options.
func New(opts scan.Options) *Rewriter {
	return &Rewriter{scanner: scan.New(opts)}
}

// NewWithScanner creates a Rewriter around an existing scanner.
func NewWithScanner(s *scan.Scanner) *Rewriter {
	return &Rewriter{scanner: s}
}

// Rewrite computes the edits that prefix every utility class list in src.
// A source that does not parse returns a *scan.ParseError and no edits.
func (r *Rewriter) Rewrite(ctx context.Context, src []byte, dialect scan.Dialect, prefix string) (*Result, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, ErrEmptyPrefix
	}
	if strings.ContainsFunc(prefix, unicode.IsSpace) {
		return nil, ErrPrefixWhitespace
	}

	cands, err := r.scanner.Scan(ctx, src, dialect)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	edits := Collect(cands, prefix)
	logging.RewriteDebug("%s: %d candidates, %d edits (prefix %q)", dialect, len(cands), len(edits), prefix)

	return &Result{
		Dialect:    dialect,
		Candidates: len(cands),
		Edits:      edits,
	}, nil
}

// Rewrite runs the default pipeline (cva/cn helpers, className/class
// attributes).
func Rewrite(ctx context.Context, src []byte, dialect scan.Dialect, prefix string) (*Result, error) {
	return New(scan.DefaultOptions()).Rewrite(ctx, src, dialect, prefix)
}

// Collect gates, prefixes and records candidates. Candidates whose value
// does not change produce no edit. The result is sorted by descending Start.
func Collect(cands []scan.Candidate, prefix string) []Edit {
	var edits []Edit
	for _, c := range cands {
		if !classlist.LooksLikeUtilityList(c.Value) {
			continue
		}
		next := classlist.ApplyPrefix(c.Value, prefix)
		if next == c.Value {
			continue
		}
		edits = append(edits, Edit{
			Start:   c.Start(),
			End:     c.End(),
			NewText: c.Open + next + c.Close,
			Old:     c.Value,
			New:     next,
			Line:    c.Line,
			Column:  c.Column,
		})
	}

	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Start > edits[j].Start
	})
	return edits
}
