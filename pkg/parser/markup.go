package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html/atom"

	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/syntax"
	"github.com/yaklabco/razorparse/pkg/tokenizer"
)

// markupMode describes the markup context the parser is in.
type markupMode struct {
	// inCode is set for markup nested in C#, where tag balance is enforced.
	inCode bool

	// open counts the enclosing elements by lowercase name. It is shared by
	// every mode nested under the same markup root.
	open *openElements

	// raw is the lowercase name of an enclosing <script> or <style>, whose
	// content is text.
	raw string

	// singleLine ends the markup after the first line break.
	singleLine bool

	// braces, when set, balances "{" and "}" in text; an unmatched "}"
	// ends the markup.
	braces *int
}

// openElements is the stack of enclosing element names of one markup root.
type openElements struct {
	counts map[string]int
}

// within returns the mode for the content of element name. The caller must
// call leave with the same name once the content is parsed.
func (m markupMode) within(name string) markupMode {
	child := m
	if child.open == nil {
		child.open = &openElements{counts: make(map[string]int)}
	}
	lower := strings.ToLower(name)
	child.open.counts[lower]++
	child.raw = ""
	if lower == "script" || lower == "style" {
		child.raw = lower
	}
	return child
}

// leave pops the element pushed by within.
func (m markupMode) leave(name string) {
	lower := strings.ToLower(name)
	if m.open.counts[lower]--; m.open.counts[lower] == 0 {
		delete(m.open.counts, lower)
	}
}

// closes reports whether an end tag named name closes an enclosing element.
func (m markupMode) closes(name string) bool {
	return m.open != nil && m.open.counts[strings.ToLower(name)] > 0
}

//nolint:gochecknoglobals // Read-only lookup table.
var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true, atom.Embed: true,
	atom.Hr: true, atom.Img: true, atom.Input: true, atom.Keygen: true, atom.Link: true,
	atom.Meta: true, atom.Param: true, atom.Source: true, atom.Track: true, atom.Wbr: true,
}

// IsVoidElement reports whether name is an HTML element that never has
// content or an end tag.
func IsVoidElement(name string) bool {
	return voidElements[atom.Lookup([]byte(strings.ToLower(name)))]
}

// parseMarkupNodes parses markup until the end of the file, an end tag
// closing an enclosing element, or stop.
//
//nolint:cyclop // one dispatch over the markup token kinds
func (p *parser) parseMarkupNodes(mode markupMode, stop func() bool) []*syntax.Node {
	var out []*syntax.Node
	text := newLiteral(syntax.KindMarkupTextLiteral, syntax.SpanMarkup)

	for !p.atEOF() {
		if stop != nil && stop() {
			break
		}
		tok := p.peekMarkup()
		switch tok.Kind {
		case syntax.TokTransition, syntax.TokRazorCommentTransition:
			p.markupTransition(text, &out)
		case syntax.TokOpenAngle:
			if !p.markupTag(text, &out, mode) {
				text.flush(&out)
				return out
			}
		case syntax.TokNewLine:
			text.add(p.takeMarkup())
			if mode.singleLine {
				text.flush(&out)
				return out
			}
		case syntax.TokText:
			if mode.braces != nil && tok.Content == "}" {
				if *mode.braces == 0 {
					text.flush(&out)
					return out
				}
				*mode.braces--
			} else if mode.braces != nil && tok.Content == "{" {
				*mode.braces++
			}
			text.add(p.takeMarkup())
		default:
			text.add(p.takeMarkup())
		}
	}
	text.flush(&out)
	return out
}

// markupTag handles "<" in markup. It returns false when the tag is an end
// tag for an enclosing element, which the caller must consume.
func (p *parser) markupTag(text *literal, out *[]*syntax.Node, mode markupMode) bool {
	if mode.singleLine {
		text.add(p.takeMarkup())
		return true
	}

	name, isEnd := p.endTagNameAt(p.pos)
	if mode.raw != "" {
		if isEnd && strings.EqualFold(name, mode.raw) {
			return false
		}
		text.add(p.takeMarkup())
		return true
	}

	rest := p.text[p.pos:]
	switch {
	case isEnd && mode.closes(name):
		return false
	case isEnd:
		text.flush(out)
		*out = append(*out, p.parseOrphanEndTag(name, mode))
	case strings.HasPrefix(rest, "<!--"):
		text.flush(out)
		*out = append(*out, p.parseHTMLComment())
	case declarationLen(rest) > 0:
		text.add(p.takeRaw(declarationLen(rest), syntax.TokText))
	case p.isStartTag(p.pos):
		text.flush(out)
		*out = append(*out, p.parseElement(mode))
	default:
		text.add(p.takeMarkup())
	}
	return true
}

// markupTransition handles "@" in markup: escapes, e-mail addresses,
// Razor comments and transitions to code.
func (p *parser) markupTransition(text *literal, out *[]*syntax.Node) {
	if p.peekMarkup().Kind == syntax.TokRazorCommentTransition {
		text.flush(out)
		*out = append(*out, p.parseRazorComment())
		return
	}

	run := p.transitionRun()
	if run == 1 && p.isEmailAt(p.pos) {
		text.add(p.takeMarkup())
		return
	}
	for range run / 2 {
		text.flush(out)
		*out = append(*out, syntax.NewNode(syntax.KindMarkupEphemeralTextLiteral,
			p.takeMarkup()).WithSpanKind(syntax.SpanMarkup))
		text.add(p.takeMarkup())
	}
	if run%2 == 0 {
		return
	}

	var leading *syntax.Node
	if last := text.last(0); last != nil && last.Token().Kind == syntax.TokWhitespace && p.atLineStart(p.pos) {
		leading = text.pop()
	}
	text.flush(out)
	*out = append(*out, p.parseTransition(leading, true))
}

// transitionRun counts the consecutive "@" characters at p.pos, leaving
// out one that opens a Razor comment.
func (p *parser) transitionRun() int {
	n := 0
	for p.byteAt(p.pos+n) == '@' {
		n++
	}
	if p.byteAt(p.pos+n) == '*' {
		n--
	}
	return n
}

// isEmailAt reports whether the "@" at offset sits inside an e-mail
// address such as "user@example.com".
func (p *parser) isEmailAt(offset int) bool {
	before := p.runeBefore(offset)
	after := p.runeAt(offset + 1)
	return isLetterOrDigit(before) && tokenizer.IsIdentifierPart(after) && after != utf8.RuneError
}

func isLetterOrDigit(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (p *parser) parseRazorComment() *syntax.Node {
	tokens, diags := tokenizer.RazorComment(p.doc, p.pos)
	children := make([]*syntax.Node, 0, len(tokens))
	for _, tok := range tokens {
		children = append(children, syntax.NewTokenNode(tok))
		p.pos += tok.Len()
	}
	for _, diag := range diags {
		p.report(diag)
	}
	return syntax.NewNode(syntax.KindRazorComment, children...).
		WithSpanKind(syntax.SpanComment).
		WithDiagnostics(diags...)
}

// Tags.

// tagNameLen returns the length of the tag name at the start of s.
func tagNameLen(s string) int {
	for i, r := range s {
		if unicode.IsSpace(r) || strings.ContainsRune(`/<>="'@{}!?[]`, r) {
			return i
		}
	}
	return len(s)
}

// endTagNameAt returns the name of the end tag starting at offset.
func (p *parser) endTagNameAt(offset int) (string, bool) {
	if p.byteAt(offset) != '<' || p.byteAt(offset+1) != '/' {
		return "", false
	}
	rest := p.text[offset+2:]
	n := tagNameLen(rest)
	if n == 0 {
		return "", false
	}
	return rest[:n], true
}

// isStartTag reports whether a start tag, possibly opted out with "!",
// begins at offset.
func (p *parser) isStartTag(offset int) bool {
	if p.byteAt(offset) != '<' {
		return false
	}
	next := offset + 1
	if p.byteAt(next) == '!' {
		next++
	}
	return unicode.IsLetter(p.runeAt(next))
}

// declarationLen returns the length of a DOCTYPE, CDATA section or
// processing instruction at the start of s, or zero.
func declarationLen(s string) int {
	var closer string
	switch {
	case strings.HasPrefix(s, "<![CDATA["):
		closer = "]]>"
	case strings.HasPrefix(s, "<?"):
		closer = ">"
	case len(s) >= 9 && s[:2] == "<!" && strings.EqualFold(s[2:9], "doctype"):
		closer = ">"
	default:
		return 0
	}
	end := strings.Index(s[2:], closer)
	if end < 0 {
		return len(s)
	}
	return 2 + end + len(closer)
}

func (p *parser) parseHTMLComment() *syntax.Node {
	start := p.pos
	children := []*syntax.Node{p.takeMarkup(), p.takeMarkup(), p.takeMarkup()}

	end := strings.Index(p.text[p.pos:], "-->")
	if end < 0 {
		if !p.atEOF() {
			children = append(children, p.takeRaw(len(p.text)-p.pos, syntax.TokText))
		}
		diag := p.report(diagnostic.UnterminatedHTMLComment.New(p.span(start, 4)))
		return syntax.NewNode(syntax.KindMarkupCommentBlock, children...).
			WithSpanKind(syntax.SpanMarkup).
			WithDiagnostics(diag)
	}
	if end > 0 {
		children = append(children, p.takeRaw(end, syntax.TokText))
	}
	children = append(children, p.takeMarkup(), p.takeMarkup())
	return syntax.NewNode(syntax.KindMarkupCommentBlock, children...).WithSpanKind(syntax.SpanMarkup)
}

// tagInfo summarizes a parsed start tag.
type tagInfo struct {
	name        string
	optOut      bool
	selfClosing bool
	complete    bool
	attributes  int
}

func (p *parser) parseStartTag(mode markupMode) (*syntax.Node, tagInfo) {
	var info tagInfo
	children := []*syntax.Node{p.takeMarkup()}
	if p.byteAt(p.pos) == '!' {
		info.optOut = true
		children = append(children, p.takeMarkup())
	}
	nameLen := tagNameLen(p.text[p.pos:])
	info.name = p.text[p.pos : p.pos+nameLen]
	children = append(children, p.takeRaw(nameLen, syntax.TokText))

	for !p.atEOF() {
		tok := p.peekMarkup()
		switch {
		case tok.Kind == syntax.TokCloseAngle:
			children = append(children, p.takeMarkup())
			info.complete = true
		case tok.Kind == syntax.TokForwardSlash && p.byteAt(p.pos+1) == '>':
			children = append(children, p.takeMarkup(), p.takeMarkup())
			info.selfClosing = true
			info.complete = true
		case tok.Kind == syntax.TokOpenAngle:
		default:
			attrs := p.parseAttribute(mode)
			for _, attr := range attrs {
				if attr.Kind() != syntax.KindMarkupTextLiteral {
					info.attributes++
				}
			}
			children = append(children, attrs...)
			continue
		}
		break
	}

	tag := syntax.NewNode(syntax.KindMarkupStartTag, children...).
		WithAnnotations(syntax.Annotations{SpanKind: syntax.SpanMarkup, Name: info.name})
	return tag, info
}

// parseElement parses an element starting at its "<".
func (p *parser) parseElement(mode markupMode) *syntax.Node {
	start := p.pos
	tag, info := p.parseStartTag(mode)
	nameSpan := p.span(start+1, len(info.name))
	if info.optOut {
		nameSpan = p.span(start+2, len(info.name))
	}

	ann := syntax.Annotations{
		Name:       info.name,
		OptOut:     info.optOut,
		Transition: mode.inCode && !info.optOut && info.name == "text",
	}
	children := []*syntax.Node{tag}
	var diags []diagnostic.Diagnostic
	if ann.Transition && info.attributes > 0 {
		diags = append(diags, p.report(diagnostic.TextTagCannotContainAttributes.New(nameSpan)))
	}

	switch {
	case !info.complete:
		if mode.inCode {
			diags = append(diags, p.report(diagnostic.UnfinishedTag.New(nameSpan, info.name)))
		}
		return p.element(children, ann, diags)
	case info.selfClosing, IsVoidElement(info.name) && !ann.Transition:
		return p.element(children, ann, diags)
	}

	content := mode.within(info.name)
	p.depth++
	children = append(children, p.parseMarkupNodes(content, nil)...)
	p.depth--
	content.leave(info.name)

	if name, ok := p.endTagNameAt(p.pos); ok && strings.EqualFold(name, info.name) {
		children = append(children, p.parseEndTag(name))
	} else if mode.inCode {
		diags = append(diags, p.report(diagnostic.MissingEndTag.New(nameSpan, info.name)))
	}
	return p.element(children, ann, diags)
}

func (p *parser) element(children []*syntax.Node, ann syntax.Annotations, diags []diagnostic.Diagnostic) *syntax.Node {
	return syntax.NewNode(syntax.KindMarkupElement, children...).
		WithAnnotations(ann).
		WithDiagnostics(diags...)
}

// parseEndTag parses "</name>" at p.pos.
func (p *parser) parseEndTag(name string) *syntax.Node {
	children := []*syntax.Node{p.takeMarkup(), p.takeMarkup(), p.takeRaw(len(name), syntax.TokText)}
	for p.peekMarkup().Kind == syntax.TokWhitespace || p.peekMarkup().Kind == syntax.TokNewLine {
		children = append(children, p.takeMarkup())
	}
	if p.peekMarkup().Kind == syntax.TokCloseAngle {
		children = append(children, p.takeMarkup())
	}
	return syntax.NewNode(syntax.KindMarkupEndTag, children...).
		WithAnnotations(syntax.Annotations{SpanKind: syntax.SpanMarkup, Name: name})
}

func (p *parser) parseOrphanEndTag(name string, mode markupMode) *syntax.Node {
	start := p.pos
	tag := p.parseEndTag(name)
	if !mode.inCode {
		return tag
	}
	diag := p.report(diagnostic.UnexpectedEndTag.New(p.span(start+2, len(name)), name))
	return tag.WithDiagnostics(diag)
}

// parseMarkupInCode parses one markup construct starting at "<" inside a
// code block, plus the rest of its line when that is blank.
func (p *parser) parseMarkupInCode(leading *syntax.Node) *syntax.Node {
	var children []*syntax.Node
	if leading != nil {
		children = append(children, syntax.NewNode(syntax.KindMarkupTextLiteral, leading).WithSpanKind(syntax.SpanMarkup))
	}

	mode := markupMode{inCode: true}
	if name, ok := p.endTagNameAt(p.pos); ok {
		children = append(children, p.parseOrphanEndTag(name, mode))
	} else if strings.HasPrefix(p.text[p.pos:], "<!--") {
		children = append(children, p.parseHTMLComment())
	} else {
		children = append(children, p.parseElement(mode))
	}

	if p.restOfLineBlank() {
		trailing := newLiteral(syntax.KindMarkupTextLiteral, syntax.SpanMarkup)
		for p.peekMarkup().Kind == syntax.TokWhitespace {
			trailing.add(p.takeMarkup())
		}
		if p.peekMarkup().Kind == syntax.TokNewLine {
			trailing.add(p.takeMarkup())
		}
		trailing.flush(&children)
	}
	return syntax.NewNode(syntax.KindMarkupBlock, children...)
}

// Attributes.

// attrNameLen returns the length of the attribute name at the start of s.
// "@" belongs to the name when code is not allowed in the attribute area.
func attrNameLen(s string) int {
	for i, r := range s {
		if unicode.IsSpace(r) || strings.ContainsRune(`/<>="'`, r) {
			return i
		}
	}
	return len(s)
}

// parseAttribute parses one attribute with its leading whitespace. It
// always consumes at least one byte.
//
//nolint:funlen // attribute grammar in one place
func (p *parser) parseAttribute(mode markupMode) []*syntax.Node {
	var out []*syntax.Node
	prefix := newLiteral(syntax.KindMarkupTextLiteral, syntax.SpanMarkup)
	for tok := p.peekMarkup(); tok.Kind == syntax.TokWhitespace || tok.Kind == syntax.TokNewLine; tok = p.peekMarkup() {
		prefix.add(p.takeMarkup())
	}

	switch tok := p.peekMarkup(); {
	case tok.Kind == syntax.TokEndOfFile, tok.Kind == syntax.TokCloseAngle, tok.Kind == syntax.TokOpenAngle,
		tok.Kind == syntax.TokForwardSlash && p.byteAt(p.pos+1) == '>':
		prefix.flush(&out)
		return out
	case tok.Kind == syntax.TokRazorCommentTransition:
		prefix.flush(&out)
		return append(out, p.parseRazorComment())
	case tok.Kind == syntax.TokTransition && p.flags.AllowCSharpInMarkupAttributeArea:
		prefix.flush(&out)
		return append(out, p.parseTransition(nil, false))
	}

	nameLen := attrNameLen(p.text[p.pos:])
	if nameLen == 0 {
		prefix.add(p.takeMarkup())
		prefix.flush(&out)
		return out
	}
	name := p.text[p.pos : p.pos+nameLen]
	ann := syntax.Annotations{
		SpanKind:      syntax.SpanMarkup,
		Name:          name,
		Unconditional: !p.flags.AllowConditionalDataDashAttributes && hasPrefixFold(name, "data-"),
	}

	var children []*syntax.Node
	prefix.flush(&children)
	children = append(children, syntax.NewNode(syntax.KindMarkupTextLiteral,
		p.takeRaw(nameLen, syntax.TokText)).WithSpanKind(syntax.SpanMarkup))

	if !p.equalsAhead() {
		return append(out, syntax.NewNode(syntax.KindMarkupMinimizedAttributeBlock, children...).WithAnnotations(ann))
	}

	equals := newLiteral(syntax.KindMarkupTextLiteral, syntax.SpanMarkup)
	for p.peekMarkup().Kind != syntax.TokEquals {
		equals.add(p.takeMarkup())
	}
	equals.add(p.takeMarkup())
	for tok := p.peekMarkup(); tok.Kind == syntax.TokWhitespace || tok.Kind == syntax.TokNewLine; tok = p.peekMarkup() {
		equals.add(p.takeMarkup())
	}
	quote := p.peekMarkup().Kind
	if quote != syntax.TokDoubleQuote && quote != syntax.TokSingleQuote {
		quote = syntax.TokUnknown
	} else {
		equals.add(p.takeMarkup())
	}
	equals.flush(&children)

	children = append(children, syntax.NewNode(syntax.KindMarkupBlock, p.parseAttributeValue(quote)...))
	if quote != syntax.TokUnknown && p.peekMarkup().Kind == quote {
		children = append(children, syntax.NewNode(syntax.KindMarkupTextLiteral, p.takeMarkup()).WithSpanKind(syntax.SpanMarkup))
	}
	return append(out, syntax.NewNode(syntax.KindMarkupAttributeBlock, children...).WithAnnotations(ann))
}

// equalsAhead reports whether "=" follows, possibly after whitespace.
func (p *parser) equalsAhead() bool {
	offset := p.pos
	for {
		tok := p.peekMarkupAt(offset)
		switch tok.Kind {
		case syntax.TokEquals:
			return true
		case syntax.TokWhitespace, syntax.TokNewLine:
			offset += tok.Len()
		default:
			return false
		}
	}
}

// parseAttributeValue parses an attribute value up to, not including, the
// closing quote. An unquoted value ends at whitespace or the end of the tag.
func (p *parser) parseAttributeValue(quote syntax.TokenKind) []*syntax.Node {
	var values []*syntax.Node
	value := newLiteral(syntax.KindMarkupLiteralAttributeValue, syntax.SpanMarkup)
	hasText := false

	for !p.atEOF() {
		tok := p.peekMarkup()
		if quote != syntax.TokUnknown && tok.Kind == quote {
			break
		}
		if quote == syntax.TokUnknown && (tok.Kind == syntax.TokWhitespace || tok.Kind == syntax.TokNewLine ||
			tok.Kind == syntax.TokCloseAngle || tok.Kind == syntax.TokOpenAngle ||
			tok.Kind == syntax.TokForwardSlash && p.byteAt(p.pos+1) == '>') {
			break
		}

		switch tok.Kind {
		case syntax.TokRazorCommentTransition:
			value.flush(&values)
			values = append(values, p.parseRazorComment())
			hasText = false
		case syntax.TokTransition:
			switch {
			case p.byteAt(p.pos+1) == '@':
				value.flush(&values)
				values = append(values, syntax.NewNode(syntax.KindMarkupEphemeralTextLiteral,
					p.takeMarkup()).WithSpanKind(syntax.SpanMarkup))
				value.add(p.takeMarkup())
				hasText = true
			case p.isEmailAt(p.pos):
				value.add(p.takeMarkup())
				hasText = true
			default:
				var prefix *syntax.Node
				if !hasText && !value.empty() {
					prefix = syntax.NewNode(syntax.KindMarkupTextLiteral, value.nodes...).WithSpanKind(syntax.SpanMarkup)
					value.nodes = nil
				}
				value.flush(&values)
				values = append(values, syntax.NewNode(syntax.KindMarkupDynamicAttributeValue,
					prefix, p.parseTransition(nil, false)))
				hasText = false
			}
		case syntax.TokWhitespace, syntax.TokNewLine:
			if hasText {
				value.flush(&values)
				hasText = false
			}
			value.add(p.takeMarkup())
		default:
			value.add(p.takeMarkup())
			hasText = true
		}
	}
	value.flush(&values)
	return values
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
