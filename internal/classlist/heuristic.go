package classlist

import "strings"

const (
	// minListLength is the shortest trimmed value considered at all.
	minListLength = 2
	// maxPlainWords caps tokens with neither "-" nor ":" so prose is rejected.
	maxPlainWords = 5
)

// layoutKeywords are bare utilities that carry no hyphen.
var layoutKeywords = map[string]bool{
	"flex":      true,
	"grid":      true,
	"block":     true,
	"hidden":    true,
	"inline":    true,
	"absolute":  true,
	"relative":  true,
	"fixed":     true,
	"sticky":    true,
	"static":    true,
	"container": true,
}

// LooksLikeUtilityList is the cheap gate run before any rewrite. It accepts a
// value when at least one token has a utility shape and the value does not
// read like a sentence.
func LooksLikeUtilityList(value string) bool {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) < minListLength {
		return false
	}

	tokens := strings.Fields(trimmed)

	shaped := false
	for _, tok := range tokens {
		body := tok
		if i := strings.LastIndexByte(tok, ':'); i >= 0 {
			body = tok[i+1:]
		}
		if strings.Contains(body, "-") || strings.Contains(body, "[") || layoutKeywords[body] {
			shaped = true
			break
		}
	}
	if !shaped {
		return false
	}

	plain := 0
	for _, tok := range tokens {
		if !strings.ContainsAny(tok, "-:") {
			plain++
		}
	}
	return plain <= maxPlainWords
}
