package scan

import "context"

// ContextKind says where a string literal sits in the tree.
type ContextKind int

const (
	ContextOther         ContextKind = iota // Anything not listed below
	ContextCallArgument                     // Positional argument of a call with an identifier callee
	ContextPropertyValue                    // Value half of a key/value pair
	ContextAttribute                        // Value of a markup attribute
)

func (k ContextKind) String() string {
	switch k {
	case ContextCallArgument:
		return "call-argument"
	case ContextPropertyValue:
		return "property-value"
	case ContextAttribute:
		return "attribute"
	default:
		return "other"
	}
}

// StringLiteral is a quoted string node. Start and End cover the quotes.
type StringLiteral struct {
	Start  int
	End    int
	Open   string
	Close  string
	Value  string // text between the quotes, escapes left as written
	Line   int    // 1-based
	Column int    // 1-based, in bytes
}

// HasEscapes reports whether the literal contains backslash escapes.
func (l StringLiteral) HasEscapes() bool {
	for i := 0; i < len(l.Value); i++ {
		if l.Value[i] == '\\' {
			return true
		}
	}
	return false
}

// Parent describes the node directly enclosing a string literal.
type Parent struct {
	Kind   ContextKind
	Callee string // ContextCallArgument only
	Key    string // ContextPropertyValue only
}

// Visitor receives the nodes a Walker reports.
type Visitor interface {
	// VisitString is called for every string literal outside attributes.
	VisitString(lit StringLiteral, parent Parent)
	// VisitAttribute is called for every markup attribute. value is nil
	// when the attribute has no string value.
	VisitAttribute(name string, value *StringLiteral)
}

// Walker parses source text in a dialect and reports string literal and
// attribute nodes to a Visitor. Any parser with an equivalent visitor API
// can stand in for the tree-sitter implementation.
type Walker interface {
	Walk(ctx context.Context, src []byte, dialect Dialect, v Visitor) error
}
