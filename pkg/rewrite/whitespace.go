package rewrite

import (
	"strings"

	"github.com/yaklabco/razorparse/pkg/syntax"
)

// Whitespace moves the indentation in front of an expression transition
// out of its code block and into the markup before it. The parser keeps
// that indentation with the code so statements and directives can drop
// it; for expressions it is part of the rendered output.
//
// Whitespace is idempotent: running it on its own output returns the same
// tree.
func Whitespace(tree *syntax.Tree) (*syntax.Tree, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	return finish("whitespace", tree, hoistWhitespace(tree.Root))
}

func hoistWhitespace(node *syntax.Node) *syntax.Node {
	if node.IsToken() {
		return node
	}

	children := node.Children()
	out := make([]*syntax.Node, 0, len(children)+1)
	for _, child := range children {
		child = hoistWhitespace(child)

		ws, rest, ok := splitIndent(child)
		if !ok || !node.Kind().IsMarkup() {
			out = append(out, child)
			continue
		}

		if n := len(out); n > 0 && out[n-1].Kind() == syntax.KindMarkupTextLiteral {
			prev := out[n-1]
			out[n-1] = prev.WithChildren(append(prev.Children(), ws.Children()...)...)
		} else {
			out = append(out, syntax.NewNode(syntax.KindMarkupTextLiteral, ws.Children()...).
				WithSpanKind(syntax.SpanMarkup))
		}
		out = append(out, rest)
	}
	return node.WithChildren(out...)
}

// splitIndent splits a code block that starts with a whitespace-only
// statement literal followed by an expression.
func splitIndent(block *syntax.Node) (*syntax.Node, *syntax.Node, bool) {
	if block.Kind() != syntax.KindCSharpCodeBlock || block.ChildCount() < 2 {
		return nil, nil, false
	}

	ws := block.Child(0)
	if ws.Kind() != syntax.KindCSharpStatementLiteral || ws.Width() == 0 || strings.TrimSpace(ws.Text()) != "" {
		return nil, nil, false
	}

	switch block.Child(1).Kind() {
	case syntax.KindCSharpImplicitExpression, syntax.KindCSharpExplicitExpression:
	default:
		return nil, nil, false
	}

	return ws, block.WithChildren(block.Children()[1:]...), true
}
