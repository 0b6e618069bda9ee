package parser

import (
	"unicode/utf8"

	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/syntax"
)

// statementKeywords start a C# statement directly after "@".
//
//nolint:gochecknoglobals // Read-only lookup table.
var statementKeywords = map[string]bool{
	"if": true, "for": true, "foreach": true, "while": true, "do": true,
	"switch": true, "lock": true, "using": true, "try": true,
}

// expressionKeywords may start an implicit expression.
//
//nolint:gochecknoglobals // Read-only lookup table.
var expressionKeywords = map[string]bool{
	"this": true, "base": true, "true": true, "false": true, "null": true,
}

// continuations lists the keywords that may follow the block of a
// statement keyword.
func continuations(keyword string, elseIf bool) []string {
	switch keyword {
	case "if":
		return []string{"else"}
	case "else":
		if elseIf {
			return []string{"else"}
		}
	case "try", "catch":
		return []string{"catch", "finally"}
	case "do":
		return []string{"while"}
	}
	return nil
}

func isIdentLike(tok syntax.Token) bool {
	return tok.Kind == syntax.TokIdentifier || tok.Kind == syntax.TokKeyword
}

// codeBlock wraps nodes in a CSharpCodeBlock, led by the whitespace that
// preceded the transition, if any.
func (p *parser) codeBlock(leading *syntax.Node, nodes ...*syntax.Node) *syntax.Node {
	children := make([]*syntax.Node, 0, len(nodes)+1)
	if leading != nil {
		children = append(children, syntax.NewNode(syntax.KindCSharpStatementLiteral, leading).WithSpanKind(syntax.SpanCode))
	}
	children = append(children, nodes...)
	return syntax.NewNode(syntax.KindCSharpCodeBlock, children...)
}

// withTrailing moves the blank rest of the line, including its line break,
// into block when the construct started its line.
func (p *parser) withTrailing(block *syntax.Node, lineStart bool) *syntax.Node {
	if !lineStart || p.atEOF() || !p.restOfLineBlank() {
		return block
	}
	trailing := newLiteral(syntax.KindCSharpStatementLiteral, syntax.SpanCode)
	for p.peekCode().Kind == syntax.TokWhitespace {
		trailing.add(p.takeCode())
	}
	if p.peekCode().Kind == syntax.TokNewLine {
		trailing.add(p.takeCode())
	}
	children := block.Children()
	trailing.flush(&children)
	return block.WithChildren(children...)
}

// parseTransition parses the code construct introduced by the "@" at
// p.pos. Directives are recognized only when allowDirectives is set.
func (p *parser) parseTransition(leading *syntax.Node, allowDirectives bool) *syntax.Node {
	at := p.pos
	lineStart := allowDirectives && (leading != nil || p.atLineStart(at))

	next := p.peekCodeAt(at + 1)
	switch next.Kind {
	case syntax.TokLeftParen:
		return p.codeBlock(leading, p.parseExplicitExpression())
	case syntax.TokLeftBrace:
		return p.withTrailing(p.codeBlock(leading, p.parseStatementBlock()), lineStart)
	case syntax.TokIdentifier, syntax.TokKeyword:
		return p.parseIdentifierTransition(leading, next, allowDirectives, lineStart)
	case syntax.TokEndOfFile:
		diag := diagnostic.UnexpectedEndOfFileAtStartOfCodeBlock.New(p.span(at, 1))
		return p.codeBlock(leading, p.emptyImplicitExpression(diag))
	case syntax.TokWhitespace, syntax.TokNewLine:
		diag := diagnostic.UnexpectedWhitespaceAtStartOfCodeBlock.New(p.span(at+1, 1))
		return p.codeBlock(leading, p.emptyImplicitExpression(diag))
	default:
		r, size := utf8.DecodeRuneInString(p.text[at+1:])
		diag := diagnostic.UnexpectedCharacterAtStartOfCodeBlock.New(p.span(at+1, size), string(r))
		return p.codeBlock(leading, p.emptyImplicitExpression(diag))
	}
}

func (p *parser) parseIdentifierTransition(leading *syntax.Node, next syntax.Token, allowDirectives, lineStart bool) *syntax.Node {
	name := next.Content
	if allowDirectives {
		if next.IsKeyword("using") {
			return p.parseUsing(leading, lineStart)
		}
		if desc, ok := p.opts.Directives.Lookup(name); ok {
			return p.parseDirective(leading, desc, lineStart)
		}
	}

	if next.Kind == syntax.TokKeyword && statementKeywords[name] {
		nodes, diags := p.parseKeywordStatement()
		return p.withTrailing(p.codeBlock(leading, nodes...).WithDiagnostics(diags...), lineStart)
	}
	if next.Kind == syntax.TokKeyword && !expressionKeywords[name] {
		at := p.pos
		transition := p.takeTransition(syntax.KindCSharpTransition)
		keyword := metaCode(p.takeCode())
		diag := p.report(diagnostic.ReservedWordInImplicitExpression.New(p.span(at+1, len(name)), name))
		return p.codeBlock(leading, transition, keyword).WithDiagnostics(diag)
	}
	return p.codeBlock(leading, p.parseImplicitExpression())
}

// emptyImplicitExpression consumes the "@" and returns an implicit
// expression with an empty body carrying diag.
func (p *parser) emptyImplicitExpression(diag diagnostic.Diagnostic) *syntax.Node {
	p.report(diag)
	transition := p.takeTransition(syntax.KindCSharpTransition)
	body := syntax.NewNode(syntax.KindCSharpImplicitExpressionBody,
		syntax.NewNode(syntax.KindCSharpCodeBlock,
			syntax.NewNode(syntax.KindCSharpExpressionLiteral, p.marker()).WithSpanKind(syntax.SpanCode)))
	return syntax.NewNode(syntax.KindCSharpImplicitExpression, transition, body).WithDiagnostics(diag)
}

// Implicit expressions.

func (p *parser) parseImplicitExpression() *syntax.Node {
	transition := p.takeTransition(syntax.KindCSharpTransition)

	var nodes []*syntax.Node
	var diags []diagnostic.Diagnostic
	lit := newLiteral(syntax.KindCSharpExpressionLiteral, syntax.SpanCode)
	first := p.takeCode()
	lit.add(first)
	if first.Token().Content == "await" && p.peekCode().Kind == syntax.TokWhitespace &&
		isIdentLike(p.peekCodeAt(p.pos+p.peekCode().Len())) {
		lit.add(p.takeCode(), p.takeCode())
	}
	p.implicitTail(lit, &nodes, &diags)
	lit.flush(&nodes)

	body := syntax.NewNode(syntax.KindCSharpImplicitExpressionBody, syntax.NewNode(syntax.KindCSharpCodeBlock, nodes...))
	return syntax.NewNode(syntax.KindCSharpImplicitExpression, transition, body).WithDiagnostics(diags...)
}

// implicitTail extends an implicit expression over member access,
// invocation, indexing and null-conditional operators.
//
//nolint:cyclop // one dispatch over continuation tokens
func (p *parser) implicitTail(lit *literal, nodes *[]*syntax.Node, diags *[]diagnostic.Diagnostic) {
	for {
		tok := p.peekCode()
		switch tok.Kind {
		case syntax.TokLeftParen, syntax.TokLeftBracket:
			if !p.balancedGroup(lit, nodes, diags, "implicit expression") {
				return
			}
		case syntax.TokDot:
			if isIdentLike(p.peekCodeAt(p.pos + 1)) {
				lit.add(p.takeCode(), p.takeCode())
				continue
			}
			if p.opts.DesignTime {
				*diags = append(*diags, p.report(diagnostic.TrailingDotInImplicitExpression.New(p.span(p.pos, 1))))
				lit.add(p.takeCode())
			}
			return
		case syntax.TokNullConditional:
			if !isIdentLike(p.peekCodeAt(p.pos + tok.Len())) {
				return
			}
			lit.add(p.takeCode(), p.takeCode())
		case syntax.TokQuestionMark:
			if p.byteAt(p.pos+1) != '[' {
				return
			}
			lit.add(p.takeCode())
			if !p.balancedGroup(lit, nodes, diags, "implicit expression") {
				return
			}
		case syntax.TokBang:
			switch p.peekCodeAt(p.pos + 1).Kind {
			case syntax.TokDot, syntax.TokLeftBracket, syntax.TokNullConditional, syntax.TokQuestionMark:
				if !p.flags.AllowNullableForgivenessOperator {
					return
				}
				lit.add(p.takeCode())
			default:
				return
			}
		default:
			return
		}
	}
}

func closerOf(open syntax.TokenKind) syntax.TokenKind {
	switch open {
	case syntax.TokLeftParen:
		return syntax.TokRightParen
	case syntax.TokLeftBracket:
		return syntax.TokRightBracket
	case syntax.TokLessThan:
		return syntax.TokGreaterThan
	default:
		return syntax.TokRightBrace
	}
}

// balancedGroup consumes the bracketed group at p.pos, including templates
// and Razor comments inside it. An unclosed group runs to the end of the
// file and is reported against block.
func (p *parser) balancedGroup(lit *literal, nodes *[]*syntax.Node, diags *[]diagnostic.Diagnostic, block string) bool {
	openAt := p.pos
	open := p.peekCode()
	closeKind := closerOf(open.Kind)
	depth := 0
	for {
		tok := p.peekCode()
		switch {
		case tok.Kind == syntax.TokEndOfFile:
			closer := closingText(open.Content)
			*diags = append(*diags, p.report(diagnostic.UnterminatedBlock.New(
				p.span(openAt, 1), block, closer, closer, open.Content, closer)))
			return false
		case tok.Kind == syntax.TokTransition && p.isStartTag(p.pos+1):
			lit.flush(nodes)
			*nodes = append(*nodes, p.parseTemplate())
			continue
		case tok.Kind == syntax.TokRazorCommentTransition:
			lit.flush(nodes)
			*nodes = append(*nodes, p.parseRazorComment())
			continue
		case tok.Kind == open.Kind:
			depth++
		case tok.Kind == closeKind:
			depth--
		}
		lit.add(p.takeCode())
		if depth == 0 {
			return true
		}
	}
}

func closingText(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	case "<":
		return ">"
	default:
		return "}"
	}
}

// Explicit expressions and statement blocks.

func (p *parser) parseExplicitExpression() *syntax.Node {
	transition := p.takeTransition(syntax.KindCSharpTransition)
	openAt := p.pos
	open := metaCode(p.takeCode())

	var nodes []*syntax.Node
	lit := newLiteral(syntax.KindCSharpExpressionLiteral, syntax.SpanCode)
	depth := 0
	closed := false
loop:
	for {
		tok := p.peekCode()
		switch {
		case tok.Kind == syntax.TokEndOfFile:
			break loop
		case tok.Kind == syntax.TokRightParen && depth == 0:
			closed = true
			break loop
		case tok.Kind == syntax.TokTransition && p.isStartTag(p.pos+1):
			lit.flush(&nodes)
			nodes = append(nodes, p.parseTemplate())
			continue
		case tok.Kind == syntax.TokRazorCommentTransition:
			lit.flush(&nodes)
			nodes = append(nodes, p.parseRazorComment())
			continue
		case tok.Kind == syntax.TokLeftParen:
			depth++
		case tok.Kind == syntax.TokRightParen:
			depth--
		}
		lit.add(p.takeCode())
	}
	lit.flush(&nodes)

	var closer *syntax.Node
	var diags []diagnostic.Diagnostic
	if closed {
		closer = metaCode(p.takeCode())
	} else {
		closer = metaCode(p.marker())
		diags = append(diags, p.report(diagnostic.UnterminatedBlock.New(
			p.span(openAt, 1), "explicit expression", ")", ")", "(", ")")))
	}
	body := syntax.NewNode(syntax.KindCSharpExplicitExpressionBody, open, syntax.NewNode(syntax.KindCSharpCodeBlock, nodes...), closer)
	return syntax.NewNode(syntax.KindCSharpExplicitExpression, transition, body).WithDiagnostics(diags...)
}

func (p *parser) parseStatementBlock() *syntax.Node {
	transition := p.takeTransition(syntax.KindCSharpTransition)
	openAt := p.pos
	open := metaCode(p.takeCode())

	p.depth++
	nodes, closed := p.parseCodeNodes(true)
	p.depth--

	closer, diags := p.closeBrace(closed, openAt, "code")
	body := syntax.NewNode(syntax.KindCSharpStatementBody, open, syntax.NewNode(syntax.KindCSharpCodeBlock, nodes...), closer)
	return syntax.NewNode(syntax.KindCSharpStatement, transition, body).WithDiagnostics(diags...)
}

// closeBrace consumes the "}" ending a block, or reports the block opened
// at openAt as unterminated.
func (p *parser) closeBrace(closed bool, openAt int, block string) (*syntax.Node, []diagnostic.Diagnostic) {
	if closed {
		return metaCode(p.takeCode()), nil
	}
	diag := p.report(diagnostic.UnterminatedBlock.New(p.span(openAt, 1), block, "}", "}", "{", "}"))
	return metaCode(p.marker()), []diagnostic.Diagnostic{diag}
}

// parseCodeNodes parses a code body up to an unmatched "}" or the end of
// the file. It reports whether the "}" was found; the brace is left for
// the caller. Markup is recognized only when allowMarkup is set.
//
//nolint:cyclop,funlen // one dispatch over code token kinds
func (p *parser) parseCodeNodes(allowMarkup bool) ([]*syntax.Node, bool) {
	var out []*syntax.Node
	lit := newLiteral(syntax.KindCSharpStatementLiteral, syntax.SpanCode)
	depth := 0
	statementStart := true

	for {
		tok := p.peekCode()
		switch tok.Kind {
		case syntax.TokEndOfFile:
			lit.flush(&out)
			return out, false
		case syntax.TokLeftBrace:
			depth++
			statementStart = true
			lit.add(p.takeCode())
			continue
		case syntax.TokRightBrace:
			if depth == 0 {
				lit.flush(&out)
				return out, true
			}
			depth--
			statementStart = true
			lit.add(p.takeCode())
			continue
		case syntax.TokSemicolon, syntax.TokColon:
			statementStart = true
			lit.add(p.takeCode())
			continue
		case syntax.TokWhitespace, syntax.TokNewLine, syntax.TokCSharpComment:
			lit.add(p.takeCode())
			continue
		case syntax.TokRazorCommentTransition:
			lit.flush(&out)
			out = append(out, p.parseRazorComment())
			continue
		case syntax.TokTransition:
			if p.codeTransition(lit, &out, allowMarkup, statementStart) {
				continue
			}
		case syntax.TokLessThan:
			if allowMarkup && statementStart && p.isMarkupStart(p.pos) {
				leading := p.lineIndent(lit)
				lit.flush(&out)
				out = append(out, p.parseMarkupInCode(leading))
				continue
			}
		default:
		}
		statementStart = false
		lit.add(p.takeCode())
	}
}

// isMarkupStart reports whether "<" at offset starts markup inside code.
func (p *parser) isMarkupStart(offset int) bool {
	if p.isStartTag(offset) {
		return true
	}
	_, isEnd := p.endTagNameAt(offset)
	return isEnd || p.text[offset:min(offset+4, len(p.text))] == "<!--"
}

// lineIndent detaches the indentation preceding markup at the start of a
// line so that it is emitted as markup.
func (p *parser) lineIndent(lit *literal) *syntax.Node {
	last := lit.last(0)
	if last == nil || last.Token().Kind != syntax.TokWhitespace || !p.atLineStart(p.pos) {
		return nil
	}
	return lit.pop()
}

// codeTransition handles "@" inside a code body. It returns false when the
// "@" is plain code.
func (p *parser) codeTransition(lit *literal, out *[]*syntax.Node, allowMarkup, statementStart bool) bool {
	at := p.pos
	switch next := p.byteAt(at + 1); {
	case next == ':' && allowMarkup:
		leading := p.lineIndent(lit)
		lit.flush(out)
		*out = append(*out, p.parseSingleLineMarkup(leading))
	case next == '<' && p.isStartTag(at+1):
		lit.flush(out)
		*out = append(*out, p.parseTemplate())
	case next == '{':
		lit.flush(out)
		diag := p.report(diagnostic.UnexpectedNestedCodeBlock.New(p.span(at, 1)))
		*out = append(*out, p.takeTransition(syntax.KindCSharpTransition).WithDiagnostics(diag))
	case next == '(' || isIdentLike(p.peekCodeAt(at+1)):
		lit.flush(out)
		*out = append(*out, p.parseTransition(nil, statementStart))
	default:
		return false
	}
	return true
}

// parseSingleLineMarkup parses "@:" and the markup after it through the
// end of the line.
func (p *parser) parseSingleLineMarkup(leading *syntax.Node) *syntax.Node {
	var children []*syntax.Node
	if leading != nil {
		children = append(children, syntax.NewNode(syntax.KindMarkupTextLiteral, leading).WithSpanKind(syntax.SpanMarkup))
	}
	children = append(children,
		p.takeTransition(syntax.KindMarkupTransition),
		metaCode(p.takeRaw(1, syntax.TokColon)))
	start := p.pos - 2
	children = append(children, p.parseMarkupNodes(markupMode{inCode: true, singleLine: true}, nil)...)
	block := syntax.NewNode(syntax.KindMarkupBlock, children...)
	if p.atEOF() && p.byteAt(p.pos-1) != '\n' {
		block = block.WithDiagnostics(p.report(diagnostic.SingleLineMarkupAtEndOfFile.New(p.span(start, 2))))
	}
	return block
}

// parseTemplate parses a Razor template "@<tag>...</tag>" inside code.
func (p *parser) parseTemplate() *syntax.Node {
	transition := p.takeTransition(syntax.KindMarkupTransition)
	p.depth++
	element := p.parseElement(markupMode{inCode: true})
	p.depth--
	return syntax.NewNode(syntax.KindCSharpTemplateBlock, syntax.NewNode(syntax.KindMarkupBlock, transition, element))
}

// Keyword statements.

type headerEnd uint8

const (
	headerBrace headerEnd = iota
	headerSemicolon
	headerStop
	headerEOF
)

// statementHeader consumes a statement header such as "if (x)" up to, not
// including, its "{".
func (p *parser) statementHeader(lit *literal, nodes *[]*syntax.Node, diags *[]diagnostic.Diagnostic) headerEnd {
	for {
		tok := p.peekCode()
		switch tok.Kind {
		case syntax.TokEndOfFile:
			return headerEOF
		case syntax.TokLeftBrace:
			return headerBrace
		case syntax.TokRightBrace:
			return headerStop
		case syntax.TokSemicolon:
			lit.add(p.takeCode())
			return headerSemicolon
		case syntax.TokLeftParen:
			if !p.balancedGroup(lit, nodes, diags, "statement") {
				return headerStop
			}
			continue
		default:
		}
		lit.add(p.takeCode())
	}
}

// parseKeywordStatement parses "@if", "@foreach" and the other statement
// keywords, with their else/catch/finally/while continuations.
//
//nolint:funlen // keyword chains share one loop
func (p *parser) parseKeywordStatement() ([]*syntax.Node, []diagnostic.Diagnostic) {
	var out []*syntax.Node
	var diags []diagnostic.Diagnostic
	out = append(out, p.takeTransition(syntax.KindCSharpTransition))
	lit := newLiteral(syntax.KindCSharpStatementLiteral, syntax.SpanCode)

	keyword := p.peekCode().Content
	keywordAt := p.pos
	lit.add(p.takeCode())
	elseIf := false

	for {
		switch p.statementHeader(lit, &out, &diags) {
		case headerEOF:
			diags = append(diags, p.report(diagnostic.UnterminatedBlock.New(
				p.span(keywordAt, len(keyword)), keyword, "}", "}", "{", "}")))
			lit.flush(&out)
			return out, diags
		case headerStop:
			lit.flush(&out)
			return out, diags
		case headerSemicolon:
		case headerBrace:
			openAt := p.pos
			lit.add(p.takeCode())
			lit.flush(&out)
			p.depth++
			nodes, closed := p.parseCodeNodes(true)
			p.depth--
			out = append(out, nodes...)
			if !closed {
				diags = append(diags, p.report(diagnostic.UnterminatedBlock.New(
					p.span(openAt, 1), keyword, "}", "}", "{", "}")))
				return out, diags
			}
			lit.add(p.takeCode())
		}

		next, ok := p.continuation(keyword, elseIf)
		if !ok {
			if keyword == "do" {
				diags = append(diags, p.report(diagnostic.ExpectedWhileAfterDo.New(p.span(keywordAt, len(keyword)))))
			}
			break
		}
		for p.peekCode().Kind.IsTrivia() {
			lit.add(p.takeCode())
		}
		keywordAt = p.pos
		lit.add(p.takeCode())

		if keyword == "do" {
			p.statementHeader(lit, &out, &diags)
			break
		}
		keyword = next
		elseIf = keyword == "else" && p.nextSignificant(p.pos).IsKeyword("if")
	}
	lit.flush(&out)
	return out, diags
}

// nextSignificant returns the first non-trivia token at or after offset.
func (p *parser) nextSignificant(offset int) syntax.Token {
	for {
		tok := p.peekCodeAt(offset)
		if !tok.Kind.IsTrivia() {
			return tok
		}
		offset += tok.Len()
	}
}

// continuation looks past trivia for a keyword continuing the statement.
func (p *parser) continuation(keyword string, elseIf bool) (string, bool) {
	tok := p.nextSignificant(p.pos)
	for _, want := range continuations(keyword, elseIf) {
		if tok.IsKeyword(want) {
			return want, true
		}
	}
	return "", false
}

// parseUsing decides between the using statement and the using directive.
func (p *parser) parseUsing(leading *syntax.Node, lineStart bool) *syntax.Node {
	after := p.pos + 1 + len("using")
	for p.peekCodeAt(after).Kind == syntax.TokWhitespace {
		after += p.peekCodeAt(after).Len()
	}
	next := p.peekCodeAt(after)
	if next.Kind == syntax.TokLeftParen || (next.Content == "var" && p.flags.AllowUsingVariableDeclarations) {
		nodes, diags := p.parseKeywordStatement()
		return p.withTrailing(p.codeBlock(leading, nodes...).WithDiagnostics(diags...), lineStart)
	}
	return p.parseUsingDirective(leading)
}
