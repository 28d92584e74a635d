// Package diff renders before/after previews of rewritten files using the
// sergi/go-diff engine.
package diff

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of unchanged lines shown around a change.
const DefaultContext = 3

// LineType marks a preview line as kept, added or removed.
type LineType int

const (
	LineContext LineType = iota
	LineAdded
	LineRemoved
)

func (t LineType) marker() byte {
	switch t {
	case LineAdded:
		return '+'
	case LineRemoved:
		return '-'
	default:
		return ' '
	}
}

// Line is one line of a hunk. OldNum/NewNum are 1-based, zero when the
// line does not exist on that side.
type Line struct {
	Type    LineType
	Content string
	OldNum  int
	NewNum  int
}

// Hunk is a contiguous group of changes with surrounding context.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// Header returns the "@@ -a,b +c,d @@" range line.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

// FileDiff is the line diff of one file before and after rewriting.
type FileDiff struct {
	Path  string
	Hunks []Hunk
}

// Empty reports whether the two sides were identical.
func (d *FileDiff) Empty() bool {
	return d == nil || len(d.Hunks) == 0
}

// Stats returns the number of added and removed lines.
func (d *FileDiff) Stats() (added, removed int) {
	if d == nil {
		return 0, 0
	}
	for _, h := range d.Hunks {
		for _, l := range h.Lines {
			switch l.Type {
			case LineAdded:
				added++
			case LineRemoved:
				removed++
			}
		}
	}
	return added, removed
}

// Unified renders the diff in unified format. An empty diff renders as "".
func (d *FileDiff) Unified() string {
	if d.Empty() {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", d.Path, d.Path)
	for _, h := range d.Hunks {
		b.WriteString(h.Header())
		b.WriteByte('\n')
		for _, l := range h.Lines {
			b.WriteByte(l.Type.marker())
			b.WriteString(l.Content)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Engine computes line diffs. Results for identical inputs are cached.
type Engine struct {
	dmp     *diffmatchpatch.DiffMatchPatch
	context int
	cache   sync.Map // cacheKey -> []Hunk
}

type cacheKey struct {
	oldHash uint64
	newHash uint64
}

// NewEngine creates an engine showing contextLines lines around changes.
// A negative value selects DefaultContext.
func NewEngine(contextLines int) *Engine {
	if contextLines < 0 {
		contextLines = DefaultContext
	}
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	return &Engine{dmp: dmp, context: contextLines}
}

// DefaultEngine is shared by ComputeDiff.
var DefaultEngine = NewEngine(DefaultContext)

// ComputeDiff diffs the file at path with the default engine.
func ComputeDiff(path, oldContent, newContent string) *FileDiff {
	return DefaultEngine.ComputeDiff(path, oldContent, newContent)
}

// ComputeDiff diffs oldContent against newContent line by line.
func (e *Engine) ComputeDiff(path, oldContent, newContent string) *FileDiff {
	fd := &FileDiff{Path: path}
	if oldContent == newContent {
		return fd
	}

	key := cacheKey{hash(oldContent), hash(newContent)}
	if cached, ok := e.cache.Load(key); ok {
		fd.Hunks = cached.([]Hunk)
		return fd
	}

	a, b, lineArray := e.dmp.DiffLinesToChars(oldContent, newContent)
	diffs := e.dmp.DiffMain(a, b, false)
	diffs = e.dmp.DiffCharsToLines(diffs, lineArray)

	fd.Hunks = e.group(toLines(diffs))
	e.cache.Store(key, fd.Hunks)
	return fd
}

// ClearCache drops all cached results.
func (e *Engine) ClearCache() {
	e.cache.Range(func(k, _ any) bool {
		e.cache.Delete(k)
		return true
	})
}

// toLines flattens line-mode diffs into numbered lines.
func toLines(diffs []diffmatchpatch.Diff) []Line {
	var out []Line
	oldNum, newNum := 0, 0
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			l := Line{Content: text}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				oldNum++
				newNum++
				l.Type, l.OldNum, l.NewNum = LineContext, oldNum, newNum
			case diffmatchpatch.DiffDelete:
				oldNum++
				l.Type, l.OldNum = LineRemoved, oldNum
			case diffmatchpatch.DiffInsert:
				newNum++
				l.Type, l.NewNum = LineAdded, newNum
			}
			out = append(out, l)
		}
	}
	return out
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// group cuts the numbered lines into hunks. Changes separated by at most
// 2*context unchanged lines share a hunk.
func (e *Engine) group(lines []Line) []Hunk {
	var changes []int
	for i, l := range lines {
		if l.Type != LineContext {
			changes = append(changes, i)
		}
	}
	if len(changes) == 0 {
		return nil
	}

	var hunks []Hunk
	first := changes[0]
	last := changes[0]
	flush := func() {
		start := max(0, first-e.context)
		end := min(len(lines), last+e.context+1)
		hunks = append(hunks, makeHunk(lines, start, end))
	}
	for _, idx := range changes[1:] {
		if idx-last-1 > 2*e.context {
			flush()
			first = idx
		}
		last = idx
	}
	flush()
	return hunks
}

func makeHunk(lines []Line, start, end int) Hunk {
	h := Hunk{Lines: append([]Line(nil), lines[start:end]...)}

	// Lines already consumed on each side before the hunk.
	oldBefore, newBefore := 0, 0
	for _, l := range lines[:start] {
		if l.Type != LineAdded {
			oldBefore++
		}
		if l.Type != LineRemoved {
			newBefore++
		}
	}
	for _, l := range h.Lines {
		if l.Type != LineAdded {
			h.OldCount++
		}
		if l.Type != LineRemoved {
			h.NewCount++
		}
	}

	h.OldStart, h.NewStart = oldBefore, newBefore
	if h.OldCount > 0 {
		h.OldStart++
	}
	if h.NewCount > 0 {
		h.NewStart++
	}
	return h
}

func hash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Inline renders a character-level diff of two short strings, marking
// removals as [-x-] and insertions as {+y+}. Used for class-list previews.
func (e *Engine) Inline(oldText, newText string) string {
	diffs := e.dmp.DiffMain(oldText, newText, false)
	diffs = e.dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		}
	}
	return b.String()
}
