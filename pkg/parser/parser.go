// Package parser implements the Razor block parser: a recursive-descent
// engine that alternates between markup and C# as transitions are found
// and builds a lossless syntax tree.
//
// Malformed input never fails a parse. Problems are reported as
// diagnostics and every construct left open at the end of the file is
// closed with zero-width marker tokens, so the root always covers the
// whole document.
package parser

import (
	"context"
	"errors"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/language"
	"github.com/yaklabco/razorparse/pkg/source"
	"github.com/yaklabco/razorparse/pkg/syntax"
	"github.com/yaklabco/razorparse/pkg/tokenizer"
)

// ErrNilDocument is returned when Parse is called without a document.
var ErrNilDocument = errors.New("parser: nil document")

// Parse parses doc with opts. The returned error is non-nil only when ctx
// is already done or doc is nil; malformed input produces diagnostics.
func Parse(ctx context.Context, doc *source.Document, opts language.Options) (*syntax.Tree, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := newParser(doc, opts)
	root := p.parseDocument()
	return syntax.NewTree(root, doc, opts, p.bag.Items()), nil
}

// parser holds the state of a single parse. It is never shared.
type parser struct {
	doc    *source.Document
	text   string
	opts   language.Options
	flags  language.FeatureFlags
	csharp tokenizer.Tokenizer
	markup tokenizer.Tokenizer

	pos   int
	bag   diagnostic.Bag
	seen  map[string]bool
	depth int
}

func newParser(doc *source.Document, opts language.Options) *parser {
	return &parser{
		doc:    doc,
		text:   doc.Contents(),
		opts:   opts,
		flags:  opts.Flags(),
		csharp: tokenizer.NewCSharp(doc, opts.Tokenizer),
		markup: tokenizer.NewHTML(doc),
		seen:   make(map[string]bool),
	}
}

func (p *parser) parseDocument() *syntax.Node {
	var diags []diagnostic.Diagnostic
	if p.opts.FileKind.IsComponent() && !p.flags.AllowComponentFileKind {
		diags = append(diags, p.report(diagnostic.ComponentFileKindNotSupported.New(p.span(0, 0), p.opts.Version)))
	}

	var stop func() bool
	if p.opts.ParseLeadingDirectives {
		stop = p.pastLeadingDirectives
	}
	nodes := p.parseMarkupNodes(markupMode{}, stop)
	if !p.atEOF() {
		nodes = append(nodes, syntax.NewNode(syntax.KindMarkupTextLiteral,
			p.takeRaw(len(p.text)-p.pos, syntax.TokText)).WithSpanKind(syntax.SpanMarkup))
	}

	block := syntax.NewNode(syntax.KindMarkupBlock, nodes...)
	return syntax.NewNode(syntax.KindRazorDocument, block).WithDiagnostics(diags...)
}

// pastLeadingDirectives reports whether the next markup token is neither
// trivia, a Razor comment nor a directive.
func (p *parser) pastLeadingDirectives() bool {
	tok := p.peekMarkup()
	switch tok.Kind {
	case syntax.TokWhitespace, syntax.TokNewLine, syntax.TokRazorCommentTransition:
		return false
	case syntax.TokTransition:
		name := p.peekCodeAt(p.pos + 1)
		if name.Kind != syntax.TokIdentifier && name.Kind != syntax.TokKeyword {
			return true
		}
		return !p.opts.Directives.Has(name.Content) && name.Content != "using"
	default:
		return true
	}
}

// Token access.

func (p *parser) atEOF() bool {
	return p.pos >= len(p.text)
}

func (p *parser) byteAt(offset int) byte {
	if offset < 0 || offset >= len(p.text) {
		return 0
	}
	return p.text[offset]
}

func (p *parser) peekCode() syntax.Token {
	return p.peekCodeAt(p.pos)
}

func (p *parser) peekCodeAt(offset int) syntax.Token {
	tok, _ := p.csharp.Next(offset)
	return tok
}

func (p *parser) peekMarkup() syntax.Token {
	return p.peekMarkupAt(p.pos)
}

func (p *parser) peekMarkupAt(offset int) syntax.Token {
	tok, _ := p.markup.Next(offset)
	return tok
}

// takeCode consumes the next C# token. Lexical diagnostics are reported
// and attached to the leaf.
func (p *parser) takeCode() *syntax.Node {
	return p.take(p.csharp)
}

// takeMarkup consumes the next markup token.
func (p *parser) takeMarkup() *syntax.Node {
	return p.take(p.markup)
}

func (p *parser) take(t tokenizer.Tokenizer) *syntax.Node {
	tok, diags := t.Next(p.pos)
	if tok.Kind == syntax.TokEndOfFile {
		return p.marker()
	}
	p.pos += tok.Len()
	leaf := syntax.NewTokenNode(tok)
	for _, diag := range diags {
		p.report(diag)
	}
	return leaf.WithDiagnostics(diags...)
}

// takeRaw consumes n bytes as a single token of kind.
func (p *parser) takeRaw(n int, kind syntax.TokenKind) *syntax.Node {
	end := min(p.pos+n, len(p.text))
	leaf := syntax.NewToken(kind, p.text[p.pos:end])
	p.pos = end
	return leaf
}

func (p *parser) marker() *syntax.Node {
	return syntax.NewToken(syntax.TokMarker, "")
}

// Diagnostics.

func (p *parser) span(start, length int) source.Span {
	return p.doc.Span(start, length)
}

func (p *parser) report(diag diagnostic.Diagnostic) diagnostic.Diagnostic {
	p.bag.Add(diag)
	return diag
}

// Positions.

func (p *parser) lineStart(offset int) int {
	return offset - p.doc.Location(offset).CharacterIndex
}

// atLineStart reports whether only whitespace precedes offset on its line.
func (p *parser) atLineStart(offset int) bool {
	for _, r := range p.text[p.lineStart(offset):offset] {
		if !isSpace(r) {
			return false
		}
	}
	return true
}

// restOfLineBlank reports whether only whitespace follows p.pos up to the
// next line break or the end of the file.
func (p *parser) restOfLineBlank() bool {
	for _, r := range p.text[p.pos:] {
		switch {
		case r == '\n' || r == '\r':
			return true
		case !isSpace(r):
			return false
		}
	}
	return true
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\f' || r == '\v' || unicode.Is(unicode.Zs, r)
}

func (p *parser) runeAt(offset int) rune {
	if offset >= len(p.text) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(p.text[offset:])
	return r
}

func (p *parser) runeBefore(offset int) rune {
	if offset <= 0 {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeLastRuneInString(p.text[:offset])
	return r
}

// literal accumulates consecutive tokens into one literal node.
type literal struct {
	kind  syntax.NodeKind
	span  syntax.SpanKind
	nodes []*syntax.Node
}

func newLiteral(kind syntax.NodeKind, span syntax.SpanKind) *literal {
	return &literal{kind: kind, span: span}
}

func (l *literal) add(nodes ...*syntax.Node) {
	l.nodes = append(l.nodes, nodes...)
}

func (l *literal) empty() bool {
	return len(l.nodes) == 0
}

// last returns the last accumulated token, or nil.
func (l *literal) last(back int) *syntax.Node {
	i := len(l.nodes) - 1 - back
	if i < 0 {
		return nil
	}
	return l.nodes[i]
}

// pop removes and returns the last accumulated token.
func (l *literal) pop() *syntax.Node {
	node := l.nodes[len(l.nodes)-1]
	l.nodes = l.nodes[:len(l.nodes)-1]
	return node
}

// flush appends the accumulated literal to out and resets the builder.
func (l *literal) flush(out *[]*syntax.Node) {
	if len(l.nodes) == 0 {
		return
	}
	*out = append(*out, syntax.NewNode(l.kind, l.nodes...).WithSpanKind(l.span))
	l.nodes = nil
}

func transitionNode(kind syntax.NodeKind, leaf *syntax.Node) *syntax.Node {
	return syntax.NewNode(kind, leaf).WithSpanKind(syntax.SpanTransition)
}

func metaCode(leaf *syntax.Node) *syntax.Node {
	return syntax.NewNode(syntax.KindRazorMetaCode, leaf).WithSpanKind(syntax.SpanMetaCode)
}

// takeTransition consumes the "@" at p.pos as a transition node of kind.
func (p *parser) takeTransition(kind syntax.NodeKind) *syntax.Node {
	return transitionNode(kind, p.takeRaw(1, syntax.TokTransition))
}
