package codegen

import (
	"fmt"
	"strings"

	"github.com/yaklabco/razorparse/pkg/directive"
	"github.com/yaklabco/razorparse/pkg/syntax"
)

// emit linearizes node, which starts at offset in the source.
//
//nolint:cyclop // one case per node kind
func (g *generator) emit(node *syntax.Node, offset int) {
	switch node.Kind() {
	case syntax.KindToken:
		g.markup.WriteString(node.Token().Content)

	case syntax.KindRazorDocument, syntax.KindMarkupBlock, syntax.KindMarkupStartTag, syntax.KindMarkupEndTag,
		syntax.KindMarkupAttributeBlock, syntax.KindMarkupMinimizedAttributeBlock, syntax.KindMarkupDynamicAttributeValue,
		syntax.KindCSharpCodeBlock, syntax.KindCSharpStatement, syntax.KindCSharpStatementBody,
		syntax.KindCSharpExplicitExpressionBody, syntax.KindCSharpImplicitExpressionBody, syntax.KindRazorDirectiveBody,
		syntax.KindMarkupTagHelperStartTag, syntax.KindMarkupTagHelperEndTag, syntax.KindMarkupTagHelperAttribute:
		g.emitChildren(node.Children(), offset)

	case syntax.KindMarkupElement:
		g.element(node, offset)

	case syntax.KindMarkupTextLiteral, syntax.KindMarkupLiteralAttributeValue, syntax.KindMarkupCommentBlock:
		g.markup.WriteString(node.Text())

	case syntax.KindMarkupEphemeralTextLiteral, syntax.KindCSharpEphemeralTextLiteral, syntax.KindMarkupTransition,
		syntax.KindCSharpTransition, syntax.KindRazorMetaCode, syntax.KindRazorComment:

	case syntax.KindCSharpStatementLiteral, syntax.KindCSharpExpressionLiteral:
		if node.Annotations().SpanKind == syntax.SpanCode {
			g.code(node, offset)
		}

	case syntax.KindCSharpImplicitExpression, syntax.KindCSharpExplicitExpression:
		g.expressionWrite(node, offset)

	case syntax.KindCSharpTemplateBlock:
		g.template(node, offset)

	case syntax.KindRazorDirective:
		if ann := node.Annotations(); ann.Directive != nil && ann.Directive.Directive == directive.Section.Directive {
			g.section(offset)
		}

	case syntax.KindMarkupTagHelperElement:
		g.tagHelper(node, offset)

	default:
		panic(fmt.Sprintf("codegen: unhandled node kind %s", node.Kind()))
	}
}

func (g *generator) emitChildren(children []*syntax.Node, offset int) {
	for _, child := range children {
		g.emit(child, offset)
		offset += child.Width()
	}
}

// element emits an element; <text> transitions emit only their content.
func (g *generator) element(node *syntax.Node, offset int) {
	children := node.Children()
	if !node.Annotations().Transition {
		g.emitChildren(children, offset)
		return
	}

	offset += children[0].Width()
	children = children[1:]
	if n := len(children); n > 0 && children[n-1].Kind() == syntax.KindMarkupEndTag {
		children = children[:n-1]
	}
	g.emitChildren(children, offset)
}

// flush writes the buffered markup.
func (g *generator) flush() {
	if g.markup.Len() == 0 {
		return
	}
	text := g.markup.String()
	g.markup.Reset()
	for _, chunk := range chunks(text, maxLiteralLength) {
		g.w.writeLine(g.writeLiteral(chunk))
	}
}

// code copies a code literal into the output.
func (g *generator) code(node *syntax.Node, offset int) {
	text := node.Text()
	if strings.TrimSpace(text) == "" {
		return
	}
	g.flush()
	span := g.src.Span(offset, len(text))
	g.w.region(span, lineCount(text), func() {
		g.w.pad(span.CharacterIndex)
		g.w.mapped(span, text)
	})
}

// expressionWrite renders an expression. Nested expressions inside one are
// copied as plain code.
func (g *generator) expressionWrite(node *syntax.Node, offset int) {
	if g.expression > 0 {
		g.emitChildren(node.Children(), offset)
		return
	}

	start, text, ok := expressionCode(node, offset)
	if !ok {
		return
	}
	g.flush()

	span := g.src.Span(start, len(text))
	prefix := g.writePrefix()
	g.w.region(span, lineCount(text), func() {
		g.w.pad(span.CharacterIndex - len(prefix))
		g.w.write(prefix)
		g.expression++
		g.emitChildren(node.Children(), offset)
		g.expression--
		g.flush()
		g.w.write(");")
	})
}

// expressionCode returns the offset and text of an expression's code,
// without its transition and parentheses.
func expressionCode(node *syntax.Node, offset int) (int, string, bool) {
	var start = -1
	var end int
	for _, cur := range syntax.Positioned(node, func(n *syntax.Node) bool {
		return n.Kind() == syntax.KindCSharpExpressionLiteral || n.Kind() == syntax.KindCSharpStatementLiteral
	}) {
		if start < 0 {
			start = cur.Offset
		}
		end = cur.End()
	}
	if start < 0 || end == start {
		return 0, "", false
	}
	text := node.Text()[start:end]
	if strings.TrimSpace(text) == "" {
		return 0, "", false
	}
	return offset + start, text, true
}

// template renders "@<p>...</p>" as a lambda returning the markup.
func (g *generator) template(node *syntax.Node, offset int) {
	g.flush()
	outer := g.expression
	g.expression = 0

	if g.target.builder == "" {
		g.w.write("item => new global::Microsoft.AspNetCore.Mvc.Razor.HelperResult(async(__razor_template_writer) => {")
		g.w.indent++
		g.w.writeLine("PushWriter(__razor_template_writer);")
		g.emitChildren(node.Children(), offset)
		g.flush()
		g.w.writeLine("PopWriter();")
		g.w.indent--
		g.w.startLine()
		g.w.write("})")
	} else {
		builder := g.target.builder
		g.target.builder = builder + "2"
		g.w.write("(" + g.target.builder + ") => {")
		g.w.indent++
		g.emitChildren(node.Children(), offset)
		g.flush()
		g.w.indent--
		g.w.startLine()
		g.w.write("}")
		g.target.builder = builder
	}

	g.expression = outer
}

// section renders "@section Name { ... }" as a DefineSection call.
func (g *generator) section(offset int) {
	use := g.directiveAt(offset)
	if use == nil {
		return
	}
	name, ok := use.token(directive.TokenMember)
	if !ok {
		return
	}
	g.flush()

	g.w.region(name.span, 1, func() {
		g.w.pad(name.span.CharacterIndex - len(`DefineSection("`))
		g.w.write(`DefineSection("`)
		g.w.mapped(name.span, name.text)
		g.w.write(`", async() => {`)
	})
	g.w.indent++
	if use.body != nil {
		g.emit(use.body, use.bodyOffset)
		g.flush()
	}
	g.w.indent--
	g.w.writeLine("});")
}

func (g *generator) directiveAt(offset int) *directiveUse {
	for _, use := range g.directives {
		if use.offset == offset {
			return use
		}
	}
	return nil
}
