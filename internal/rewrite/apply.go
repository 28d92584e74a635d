package rewrite

import (
	"errors"
	"fmt"
)

var (
	// ErrEditOutOfRange is returned for an edit outside the source.
	ErrEditOutOfRange = errors.New("edit out of range")
	// ErrOverlappingEdits is returned for edits that are unordered or overlap.
	ErrOverlappingEdits = errors.New("edits overlap or are not in descending order")
)

// Apply applies edits sorted by descending Start to src, back to front, so
// no edit shifts the range of one still to be applied.
func Apply(src []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return src, nil
	}

	limit := len(src)
	for i, e := range edits {
		if e.Start < 0 || e.End < e.Start || e.End > len(src) {
			return nil, fmt.Errorf("edit %d [%d,%d) with source length %d: %w", i, e.Start, e.End, len(src), ErrEditOutOfRange)
		}
		if e.End > limit {
			return nil, fmt.Errorf("edit %d [%d,%d): %w", i, e.Start, e.End, ErrOverlappingEdits)
		}
		limit = e.Start
	}

	out := append([]byte(nil), src...)
	for _, e := range edits {
		tail := append([]byte(e.NewText), out[e.End:]...)
		out = append(out[:e.Start], tail...)
	}
	return out, nil
}
