package classlist

import "strings"

// Token is one whitespace-separated entry of a class list.
// Variants+Body always reproduces Raw.
type Token struct {
	Raw      string
	Variants string // up to and including the last colon, may be empty
	Body     string
}

// SplitToken splits raw at its last colon.
func SplitToken(raw string) Token {
	i := strings.LastIndexByte(raw, ':')
	if i < 0 {
		return Token{Raw: raw, Body: raw}
	}
	return Token{Raw: raw, Variants: raw[:i+1], Body: raw[i+1:]}
}

// IsArbitrary reports whether the body carries a bracketed value suffix.
func (t Token) IsArbitrary() bool {
	return strings.Contains(t.Body, "[") && strings.HasSuffix(t.Body, "]")
}

// ApplyPrefix rewrites every utility token of value with prefix. Tokens that
// are already prefixed or not recognised are kept as they are. Tokens are
// re-joined with a single space.
func ApplyPrefix(value, prefix string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = prefixToken(f, prefix)
	}
	return strings.Join(out, " ")
}

func prefixToken(raw, prefix string) string {
	if strings.HasPrefix(raw, prefix) {
		return raw
	}

	tok := SplitToken(raw)
	if strings.HasPrefix(tok.Body, prefix) || variantPrefixed(tok.Variants, prefix) {
		return raw
	}

	if tok.IsArbitrary() {
		open := strings.IndexByte(tok.Body, '[')
		base, arbitrary := tok.Body[:open], tok.Body[open:]
		if !IsUtilityToken(base) {
			return raw
		}
		return tok.Variants + prefix + base + arbitrary
	}

	if !IsUtilityToken(tok.Body) {
		return raw
	}
	return tok.Variants + prefix + tok.Body
}

// variantPrefixed reports whether a prefix ending in a colon was already
// inserted as the last segment of the variant chain, as in "hover:tw:flex".
func variantPrefixed(variants, prefix string) bool {
	if !strings.HasSuffix(prefix, ":") {
		return false
	}
	return variants == prefix || strings.HasSuffix(variants, ":"+prefix)
}
