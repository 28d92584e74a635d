package scan

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Dialect selects the grammar a source text is parsed with.
//
// DialectScript and DialectMarkupScript share the javascript grammar, which
// always accepts JSX. A script source containing elements therefore parses,
// and its className attributes are scanned like any markup script.
type Dialect string

const (
	DialectScript            Dialect = "script"
	DialectTypedScript       Dialect = "typed-script"
	DialectMarkupScript      Dialect = "markup-script"
	DialectTypedMarkupScript Dialect = "typed-markup-script"
)

// Dialects lists every supported dialect.
var Dialects = []Dialect{
	DialectScript,
	DialectTypedScript,
	DialectMarkupScript,
	DialectTypedMarkupScript,
}

// extDialects maps file extensions to dialects. Plain .js files may carry
// JSX, so they parse as markup script.
var extDialects = map[string]Dialect{
	".js":  DialectMarkupScript,
	".mjs": DialectMarkupScript,
	".cjs": DialectMarkupScript,
	".jsx": DialectMarkupScript,
	".ts":  DialectTypedScript,
	".mts": DialectTypedScript,
	".cts": DialectTypedScript,
	".tsx": DialectTypedMarkupScript,
}

// ParseDialect accepts a dialect name or one of the short aliases
// js, jsx, ts and tsx.
func ParseDialect(s string) (Dialect, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case string(DialectScript), "js", "javascript":
		return DialectScript, nil
	case string(DialectTypedScript), "ts", "typescript":
		return DialectTypedScript, nil
	case string(DialectMarkupScript), "jsx":
		return DialectMarkupScript, nil
	case string(DialectTypedMarkupScript), "tsx":
		return DialectTypedMarkupScript, nil
	default:
		return "", fmt.Errorf("unknown dialect %q (use script, typed-script, markup-script or typed-markup-script)", s)
	}
}

// DialectForPath picks the dialect from the file extension.
func DialectForPath(path string) (Dialect, bool) {
	d, ok := extDialects[strings.ToLower(filepath.Ext(path))]
	return d, ok
}

// Extensions returns the file extensions that have a dialect.
func Extensions() []string {
	exts := make([]string, 0, len(extDialects))
	for ext := range extDialects {
		exts = append(exts, ext)
	}
	return exts
}

// Typed reports whether the dialect enables type syntax.
func (d Dialect) Typed() bool {
	return d == DialectTypedScript || d == DialectTypedMarkupScript
}

// Markup reports whether element syntax is expected.
func (d Dialect) Markup() bool {
	return d == DialectMarkupScript || d == DialectTypedMarkupScript
}

// language returns the tree-sitter grammar. The javascript grammar always
// accepts JSX, so script and markup-script share it.
func (d Dialect) language() (*sitter.Language, error) {
	switch d {
	case DialectScript, DialectMarkupScript:
		return javascript.GetLanguage(), nil
	case DialectTypedScript:
		return typescript.GetLanguage(), nil
	case DialectTypedMarkupScript:
		return tsx.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unknown dialect %q", string(d))
	}
}
