package scan

import (
	"context"
	"fmt"
	"strings"

	"twprefix/internal/logging"

	sitter "github.com/smacker/go-tree-sitter"
)

// TreeSitterWalker implements Walker with tree-sitter grammars. A fresh
// parser is built per call, so one walker may be shared between goroutines.
type TreeSitterWalker struct{}

// NewTreeSitterWalker creates a tree-sitter backed walker.
func NewTreeSitterWalker() *TreeSitterWalker {
	return &TreeSitterWalker{}
}

// Walk parses src and reports string literals and attributes to v. Nothing
// is reported when the tree contains a syntax error.
func (w *TreeSitterWalker) Walk(ctx context.Context, src []byte, dialect Dialect, v Visitor) error {
	lang, err := dialect.language()
	if err != nil {
		return err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		logging.Get(logging.CategoryScan).Error("tree-sitter parse failed (%s): %v", dialect, err)
		return fmt.Errorf("parse %s source: %w", dialect, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return parseErrorAt(dialect, src, root)
	}

	walkNode(root, nil, nil, src, v)
	return nil
}

// walkNode visits n with its parent and grandparent so that literals can be
// classified without calling back into the tree.
func walkNode(n, parent, grand *sitter.Node, src []byte, v Visitor) {
	switch n.Type() {
	case "string":
		if lit, ok := stringLiteral(n, src); ok {
			v.VisitString(lit, parentContext(n, parent, grand, src))
		}
		return

	case "jsx_attribute":
		visitAttribute(n, src, v)
		return
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		walkNode(n.NamedChild(i), n, parent, src, v)
	}
}

// visitAttribute reports the attribute and keeps walking into expression
// values such as className={cn("...")}.
func visitAttribute(n *sitter.Node, src []byte, v Visitor) {
	count := int(n.NamedChildCount())
	if count == 0 {
		return
	}
	name := n.NamedChild(0).Content(src)
	if count < 2 {
		v.VisitAttribute(name, nil)
		return
	}

	value := n.NamedChild(count - 1)
	if value.Type() == "string" {
		if lit, ok := stringLiteral(value, src); ok {
			v.VisitAttribute(name, &lit)
			return
		}
	}
	v.VisitAttribute(name, nil)
	walkNode(value, n, nil, src, v)
}

func parentContext(n, parent, grand *sitter.Node, src []byte) Parent {
	if parent == nil {
		return Parent{Kind: ContextOther}
	}

	switch parent.Type() {
	case "arguments":
		if grand == nil || grand.Type() != "call_expression" {
			break
		}
		fn := grand.ChildByFieldName("function")
		if fn != nil && fn.Type() == "identifier" {
			return Parent{Kind: ContextCallArgument, Callee: fn.Content(src)}
		}

	case "pair":
		value := parent.ChildByFieldName("value")
		if value == nil || value.StartByte() != n.StartByte() || value.EndByte() != n.EndByte() {
			break
		}
		key := ""
		if k := parent.ChildByFieldName("key"); k != nil {
			key = strings.Trim(k.Content(src), `"'`)
		}
		return Parent{Kind: ContextPropertyValue, Key: key}
	}

	return Parent{Kind: ContextOther}
}

func stringLiteral(n *sitter.Node, src []byte) (StringLiteral, bool) {
	start, end := int(n.StartByte()), int(n.EndByte())
	if end-start < 2 || end > len(src) {
		return StringLiteral{}, false
	}
	raw := string(src[start:end])
	open, close := raw[:1], raw[len(raw)-1:]
	if (open != `"` && open != `'`) || close != open {
		return StringLiteral{}, false
	}

	pt := n.StartPoint()
	return StringLiteral{
		Start:  start,
		End:    end,
		Open:   open,
		Close:  close,
		Value:  raw[1 : len(raw)-1],
		Line:   int(pt.Row) + 1,
		Column: int(pt.Column) + 1,
	}, true
}

// parseErrorAt builds a ParseError for the first ERROR or MISSING node in
// document order.
func parseErrorAt(dialect Dialect, src []byte, root *sitter.Node) *ParseError {
	n := firstErrorNode(root)
	if n == nil {
		n = root
	}

	pt := n.StartPoint()
	perr := &ParseError{
		Dialect: dialect,
		Line:    int(pt.Row) + 1,
		Column:  int(pt.Column) + 1,
	}

	if n.IsMissing() {
		perr.Message = fmt.Sprintf("missing %s", n.Type())
		return perr
	}

	snippet := n.Content(src)
	if i := strings.IndexByte(snippet, '\n'); i >= 0 {
		snippet = snippet[:i]
	}
	if len(snippet) > 24 {
		snippet = snippet[:24] + "..."
	}
	if snippet == "" {
		perr.Message = "unexpected end of input"
	} else {
		perr.Message = fmt.Sprintf("unexpected %q", snippet)
	}
	return perr
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}
