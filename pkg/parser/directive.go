package parser

import (
	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/directive"
	"github.com/yaklabco/razorparse/pkg/syntax"
)

// parseDirective parses the directive desc starting at the "@" at p.pos.
func (p *parser) parseDirective(leading *syntax.Node, desc *directive.Descriptor, lineStart bool) *syntax.Node {
	at := p.pos
	name := desc.Directive
	nameSpan := p.span(at, 1+len(name))

	var diags []diagnostic.Diagnostic
	if desc.Occurrence.IsFileScoped() {
		switch {
		case p.depth > 0:
			diags = append(diags, p.report(diagnostic.DirectiveMustBeAtTopLevel.New(nameSpan, name)))
		case !lineStart:
			diags = append(diags, p.report(diagnostic.DirectiveMustAppearAtStartOfLine.New(nameSpan, name)))
		}
	}
	if desc.Occurrence.IsSingle() && p.seen[name] {
		diags = append(diags, p.report(diagnostic.DuplicateDirective.New(nameSpan, name)))
	}
	p.seen[name] = true

	transition := p.takeTransition(syntax.KindCSharpTransition)
	keyword := metaCode(p.takeCode())

	var parts []*syntax.Node
	if p.directiveTokens(desc, &parts, &diags) {
		if desc.Usage == directive.SingleLine {
			p.directiveLineEnd(desc, &parts, &diags)
		} else {
			p.directiveBlock(desc, &parts, &diags, lineStart)
		}
	}

	body := syntax.NewNode(syntax.KindRazorDirectiveBody, keyword, syntax.NewNode(syntax.KindCSharpCodeBlock, parts...))
	node := syntax.NewNode(syntax.KindRazorDirective, transition, body).
		WithAnnotations(syntax.Annotations{SpanKind: syntax.SpanMetaCode, Name: name, Directive: desc}).
		WithDiagnostics(diags...)
	return p.codeBlock(leading, node)
}

// directiveSpace consumes same-line whitespace into parts and reports
// whether there was any.
func (p *parser) directiveSpace(parts *[]*syntax.Node) bool {
	space := newLiteral(syntax.KindCSharpStatementLiteral, syntax.SpanNone)
	for p.peekCode().Kind == syntax.TokWhitespace {
		space.add(p.takeCode())
	}
	found := !space.empty()
	space.flush(parts)
	return found
}

// directiveTokens parses the tokens of desc. It returns false when a
// token is missing or malformed; the rest of the line is then left to the
// enclosing parser.
func (p *parser) directiveTokens(desc *directive.Descriptor, parts *[]*syntax.Node, diags *[]diagnostic.Diagnostic) bool {
	for i := range desc.Tokens {
		td := &desc.Tokens[i]
		spaced := p.directiveSpace(parts)

		tok := p.peekCode()
		if p.endsDirectiveTokens(desc, tok) {
			if td.Optional {
				return true
			}
			*diags = append(*diags, p.report(diagnostic.DirectiveExpectsToken.New(
				p.span(p.pos, max(tok.Len(), 1)), desc.Directive, td.Kind.Expectation())))
			return false
		}
		switch {
		case !spaced && td.Optional && i > 0:
			*diags = append(*diags, p.report(diagnostic.DirectiveTokenExpectsSpace.New(
				p.span(p.pos, tok.Len()), desc.Directive)))
		case !spaced:
			*diags = append(*diags, p.report(diagnostic.DirectiveTokensMustBeSeparatedByWhitespace.New(
				p.span(p.pos, tok.Len()), desc.Directive)))
			return false
		}

		node, ok := p.directiveToken(td)
		if !ok {
			*diags = append(*diags, p.report(diagnostic.DirectiveExpectsToken.New(
				p.span(p.pos, tok.Len()), desc.Directive, td.Kind.Expectation())))
			return false
		}
		*parts = append(*parts, node)
	}
	return true
}

// endsDirectiveTokens reports whether tok ends the token list of desc.
func (p *parser) endsDirectiveTokens(desc *directive.Descriptor, tok syntax.Token) bool {
	switch tok.Kind {
	case syntax.TokEndOfFile, syntax.TokNewLine:
		return true
	case syntax.TokLeftBrace:
		return desc.Usage != directive.SingleLine
	case syntax.TokSemicolon:
		return desc.Usage == directive.SingleLine
	default:
		return false
	}
}

// directiveToken parses one token of kind td.Kind at p.pos.
func (p *parser) directiveToken(td *directive.TokenDescriptor) (*syntax.Node, bool) {
	start := p.pos
	tok := p.peekCode()

	var n int
	var diags []diagnostic.Diagnostic
	switch td.Kind {
	case directive.TokenType:
		n = p.scanType(start)
	case directive.TokenMember:
		if tok.Kind == syntax.TokIdentifier {
			n = tok.Len()
		}
	case directive.TokenString:
		if tok.Kind == syntax.TokStringLiteral && tok.Content[0] == '"' {
			n = tok.Len()
		}
	case directive.TokenNamespace:
		n = p.scanQualifiedName(start)
	case directive.TokenAttribute:
		if tok.Kind == syntax.TokLeftBracket {
			end, closed := p.scanBalanced(start, syntax.TokLeftBracket, syntax.TokRightBracket, true)
			n = end - start
			if !closed {
				diags = append(diags, p.report(diagnostic.UnterminatedBlock.New(
					p.span(start, 1), "attribute", "]", "]", "[", "]")))
			}
		}
	case directive.TokenGenericTypeConstraint:
		if tok.Is(syntax.TokIdentifier, "where") {
			n = p.scanToLineEnd(start)
		}
	case directive.TokenBoolean:
		if tok.IsKeyword("true") || tok.IsKeyword("false") {
			n = tok.Len()
		}
	}
	if n == 0 {
		return nil, false
	}

	lit := newLiteral(syntax.KindCSharpStatementLiteral, syntax.SpanCode)
	for p.pos < start+n {
		lit.add(p.takeCode())
	}
	node := syntax.NewNode(syntax.KindCSharpStatementLiteral, lit.nodes...).
		WithAnnotations(syntax.Annotations{SpanKind: syntax.SpanCode, Name: td.Name, DirectiveToken: td}).
		WithDiagnostics(diags...)
	return node, true
}

// scanType returns the length of the type name at offset: a possibly
// qualified, generic, array, nullable or tuple type.
func (p *parser) scanType(offset int) int {
	pos := offset
	tok := p.peekCodeAt(pos)
	switch {
	case tok.Kind == syntax.TokLeftParen:
		end, closed := p.scanBalanced(pos, syntax.TokLeftParen, syntax.TokRightParen, false)
		if !closed {
			return 0
		}
		pos = end
	case isIdentLike(tok):
		pos += tok.Len()
	default:
		return 0
	}

	for {
		tok := p.peekCodeAt(pos)
		switch tok.Kind {
		case syntax.TokDot, syntax.TokDoubleColon:
			next := p.peekCodeAt(pos + tok.Len())
			if !isIdentLike(next) {
				return pos - offset
			}
			pos += tok.Len() + next.Len()
		case syntax.TokLessThan, syntax.TokLeftBracket:
			end, closed := p.scanBalanced(pos, tok.Kind, closerOf(tok.Kind), false)
			if !closed {
				return pos - offset
			}
			pos = end
		case syntax.TokQuestionMark:
			pos += tok.Len()
		default:
			return pos - offset
		}
	}
}

// scanQualifiedName returns the length of a dotted name at offset.
func (p *parser) scanQualifiedName(offset int) int {
	tok := p.peekCodeAt(offset)
	if !isIdentLike(tok) {
		return 0
	}
	pos := offset + tok.Len()
	for {
		dot := p.peekCodeAt(pos)
		if dot.Kind != syntax.TokDot {
			return pos - offset
		}
		next := p.peekCodeAt(pos + dot.Len())
		if !isIdentLike(next) {
			return pos - offset
		}
		pos += dot.Len() + next.Len()
	}
}

// scanBalanced scans the group opened at offset. It returns the offset
// after the closing token and whether one was found. Without multiLine, a
// line break ends the scan.
func (p *parser) scanBalanced(offset int, open, closeKind syntax.TokenKind, multiLine bool) (int, bool) {
	depth := 0
	pos := offset
	for {
		tok := p.peekCodeAt(pos)
		switch {
		case tok.Kind == syntax.TokEndOfFile:
			return pos, false
		case tok.Kind == syntax.TokNewLine && !multiLine:
			return pos, false
		case tok.Kind == open:
			depth++
		case tok.Kind == closeKind:
			depth--
		}
		pos += tok.Len()
		if depth == 0 {
			return pos, true
		}
	}
}

// scanToLineEnd returns the length from offset to the last non-blank
// token on the line.
func (p *parser) scanToLineEnd(offset int) int {
	pos, end := offset, offset
	for {
		tok := p.peekCodeAt(pos)
		if tok.Kind == syntax.TokEndOfFile || tok.Kind == syntax.TokNewLine {
			return end - offset
		}
		pos += tok.Len()
		if tok.Kind != syntax.TokWhitespace {
			end = pos
		}
	}
}

// directiveLineEnd finishes a single-line directive: an optional ";" and
// the line break.
func (p *parser) directiveLineEnd(desc *directive.Descriptor, parts *[]*syntax.Node, diags *[]diagnostic.Diagnostic) {
	p.directiveSpace(parts)
	if p.peekCode().Kind == syntax.TokSemicolon {
		*parts = append(*parts, metaCode(p.takeCode()))
		p.directiveSpace(parts)
	}
	switch tok := p.peekCode(); tok.Kind {
	case syntax.TokNewLine:
		*parts = append(*parts, syntax.NewNode(syntax.KindCSharpStatementLiteral, p.takeCode()).WithSpanKind(syntax.SpanNone))
	case syntax.TokEndOfFile:
	default:
		*diags = append(*diags, p.report(diagnostic.UnexpectedDirectiveLiteral.New(
			p.span(p.pos, tok.Len()), desc.Directive, "line break")))
	}
}

// directiveBlock parses the "{ ... }" body of a code block or Razor block
// directive.
func (p *parser) directiveBlock(desc *directive.Descriptor, parts *[]*syntax.Node, diags *[]diagnostic.Diagnostic, lineStart bool) {
	space := newLiteral(syntax.KindCSharpStatementLiteral, syntax.SpanNone)
	for tok := p.peekCode(); tok.Kind == syntax.TokWhitespace || tok.Kind == syntax.TokNewLine; tok = p.peekCode() {
		space.add(p.takeCode())
	}
	space.flush(parts)

	switch tok := p.peekCode(); tok.Kind {
	case syntax.TokEndOfFile:
		*diags = append(*diags, p.report(diagnostic.UnexpectedEndOfFileAfterDirective.New(
			p.span(p.pos, 0), desc.Directive, "{")))
		return
	case syntax.TokLeftBrace:
	default:
		*diags = append(*diags, p.report(diagnostic.UnexpectedDirectiveLiteral.New(
			p.span(p.pos, tok.Len()), desc.Directive, "{")))
		return
	}

	openAt := p.pos
	open := metaCode(p.takeCode())
	p.depth++
	var body *syntax.Node
	var closed bool
	if desc.Usage == directive.CodeBlock {
		var nodes []*syntax.Node
		nodes, closed = p.parseCodeNodes(p.flags.AllowRazorInAllCodeBlocks)
		body = syntax.NewNode(syntax.KindCSharpCodeBlock, nodes...)
	} else {
		braces := 0
		nodes := p.parseMarkupNodes(markupMode{braces: &braces}, nil)
		closed = p.peekCode().Kind == syntax.TokRightBrace
		body = syntax.NewNode(syntax.KindMarkupBlock, nodes...)
	}
	p.depth--

	closer, unclosed := p.closeBrace(closed, openAt, desc.Directive)
	*diags = append(*diags, unclosed...)
	*parts = append(*parts, open, body, closer)

	if lineStart && !p.atEOF() && p.restOfLineBlank() {
		trailing := newLiteral(syntax.KindCSharpStatementLiteral, syntax.SpanNone)
		for p.peekCode().Kind == syntax.TokWhitespace {
			trailing.add(p.takeCode())
		}
		if p.peekCode().Kind == syntax.TokNewLine {
			trailing.add(p.takeCode())
		}
		trailing.flush(parts)
	}
}

// parseUsingDirective parses "@using Some.Namespace". The namespace runs to
// the end of the line or a ";".
func (p *parser) parseUsingDirective(leading *syntax.Node) *syntax.Node {
	desc := directive.Using
	at := p.pos
	transition := p.takeTransition(syntax.KindCSharpTransition)
	keyword := metaCode(p.takeCode())

	var parts []*syntax.Node
	var diags []diagnostic.Diagnostic
	p.directiveSpace(&parts)

	n := 0
	for pos := p.pos; ; {
		tok := p.peekCodeAt(pos)
		if tok.Kind == syntax.TokEndOfFile || tok.Kind == syntax.TokNewLine || tok.Kind == syntax.TokSemicolon {
			break
		}
		pos += tok.Len()
		if tok.Kind != syntax.TokWhitespace {
			n = pos - p.pos
		}
	}
	if n == 0 {
		diags = append(diags, p.report(diagnostic.DirectiveExpectsToken.New(
			p.span(at, 1+len(desc.Directive)), desc.Directive, desc.Tokens[0].Kind.Expectation())))
	} else {
		start := p.pos
		name := newLiteral(syntax.KindCSharpStatementLiteral, syntax.SpanCode)
		for p.pos < start+n {
			name.add(p.takeCode())
		}
		parts = append(parts, syntax.NewNode(syntax.KindCSharpStatementLiteral, name.nodes...).
			WithAnnotations(syntax.Annotations{SpanKind: syntax.SpanCode, Name: desc.Tokens[0].Name, DirectiveToken: &desc.Tokens[0]}))
		p.directiveLineEnd(desc, &parts, &diags)
	}

	body := syntax.NewNode(syntax.KindRazorDirectiveBody, keyword, syntax.NewNode(syntax.KindCSharpCodeBlock, parts...))
	node := syntax.NewNode(syntax.KindRazorDirective, transition, body).
		WithAnnotations(syntax.Annotations{SpanKind: syntax.SpanMetaCode, Name: desc.Directive, Directive: desc}).
		WithDiagnostics(diags...)
	return p.codeBlock(leading, node)
}
