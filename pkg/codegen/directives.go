package codegen

import (
	"github.com/yaklabco/razorparse/pkg/directive"
	"github.com/yaklabco/razorparse/pkg/source"
	"github.com/yaklabco/razorparse/pkg/syntax"
)

// directiveToken is one parsed directive token with its source span.
type directiveToken struct {
	desc *directive.TokenDescriptor
	span source.Span
	text string
}

// directiveUse is one directive occurrence in the document.
type directiveUse struct {
	desc   *directive.Descriptor
	node   *syntax.Node
	offset int
	tokens []directiveToken

	// body is the block of a code or markup block directive, nil when the
	// directive has none or it is missing.
	body       *syntax.Node
	bodyOffset int
}

func (u *directiveUse) is(name string) bool {
	return u.desc.Directive == name
}

// token returns the first token of kind, if present.
func (u *directiveUse) token(kind directive.TokenKind) (directiveToken, bool) {
	for _, tok := range u.tokens {
		if tok.desc.Kind == kind {
			return tok, true
		}
	}
	return directiveToken{}, false
}

// collectDirectives returns every directive in document order.
func collectDirectives(tree *syntax.Tree) []*directiveUse {
	var uses []*directiveUse
	for _, cur := range syntax.Positioned(tree.Root, func(n *syntax.Node) bool {
		return n.Kind() == syntax.KindRazorDirective && n.Annotations().Directive != nil
	}) {
		use := &directiveUse{desc: cur.Node.Annotations().Directive, node: cur.Node, offset: cur.Offset}

		for _, tok := range syntax.Positioned(cur.Node, func(n *syntax.Node) bool {
			return n.Annotations().DirectiveToken != nil
		}) {
			text := tok.Node.Text()
			use.tokens = append(use.tokens, directiveToken{
				desc: tok.Node.Annotations().DirectiveToken,
				span: tree.Source.Span(cur.Offset+tok.Offset, len(text)),
				text: text,
			})
		}

		use.body, use.bodyOffset = directiveBody(cur)
		uses = append(uses, use)
	}
	return uses
}

// directiveBody finds the block between a directive's braces.
func directiveBody(cur syntax.Cursor) (*syntax.Node, int) {
	dirBody := cur.Node.Child(1)
	if dirBody == nil || dirBody.Kind() != syntax.KindRazorDirectiveBody {
		return nil, 0
	}
	offset := cur.Offset + cur.Node.Child(0).Width() + dirBody.Child(0).Width()
	parts := dirBody.Child(1)
	if parts == nil {
		return nil, 0
	}

	opened := false
	for _, part := range parts.Children() {
		switch {
		case part.Kind() == syntax.KindRazorMetaCode && part.Text() == "{":
			opened = true
		case opened && (part.Kind() == syntax.KindCSharpCodeBlock || part.Kind() == syntax.KindMarkupBlock):
			return part, offset
		}
		offset += part.Width()
	}
	return nil, 0
}
