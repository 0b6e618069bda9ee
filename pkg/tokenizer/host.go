package tokenizer

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/source"
	"github.com/yaklabco/razorparse/pkg/syntax"
)

// hostRules is the C# lexical grammar as a participle stateful lexer.
// Rules are tried in order and the first match wins, which mirrors the
// dispatch order of the legacy scanner.
//
//nolint:gochecknoglobals // Compiled once; immutable.
var hostRules = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "NewLine", Pattern: `\r\n|\r|\n`},
		{Name: "Whitespace", Pattern: `[ \t\f\v\p{Zs}]+`},
		{Name: "LineComment", Pattern: `//[^\r\n]*`},
		{Name: "BlockComment", Pattern: `/\*(?:[^*]|\*+[^*/])*\*+/`},
		{Name: "OpenBlockComment", Pattern: `/\*[\s\S]*`},
		{Name: "VerbatimString", Pattern: `(?:\$@|@\$|@)"(?:[^"]|"")*"?`},
		{Name: "String", Pattern: `\$?"(?:[^"\\\r\n]|\\[^\r\n])*(?:"|\\)?`},
		{Name: "Char", Pattern: `'(?:[^'\\\r\n]|\\[^\r\n])*(?:'|\\)?`},
		{Name: "Transition", Pattern: `@`},
		{Name: "HexNumber", Pattern: `0[xX][0-9a-fA-F_]*(?:[uU][lL]?|[lL][uU]?)?`},
		{Name: "BinaryNumber", Pattern: `0[bB][01_]*(?:[uU][lL]?|[lL][uU]?)?`},
		{Name: "Number", Pattern: `[0-9][0-9_]*(?:\.[0-9][0-9_]*)?(?:[eE][+-]?[0-9][0-9_]*)?(?:[uU][lL]?|[lL][uU]?|[fFdDmM])?`},
		{Name: "DotNumber", Pattern: `\.[0-9][0-9_]*(?:[eE][+-]?[0-9][0-9_]*)?[fFdDmM]?`},
		{Name: "Ident", Pattern: `[\p{L}\p{Nl}_][\p{L}\p{Nl}\p{Mn}\p{Mc}\p{Nd}\p{Pc}\p{Cf}]*`},
		{Name: "Operator", Pattern: `\?\?=|=>|==|!=|<=|>=|&&|\|\||\+\+|--|\+=|-=|\*=|/=|%=|&=|\|=|\^=|\?\?|->|::|\?\.|[(){}\[\];.,:?!<>=+\-*/%&|^~]`},
		{Name: "Other", Pattern: `[\s\S]`},
	},
})

// hostKinds maps participle token types to token kinds. Identifiers and
// operators are refined by content.
//
//nolint:gochecknoglobals // Derived once from hostRules.
var hostKinds = func() map[lexer.TokenType]syntax.TokenKind {
	symbols := hostRules.Symbols()
	return map[lexer.TokenType]syntax.TokenKind{
		symbols["NewLine"]:          syntax.TokNewLine,
		symbols["Whitespace"]:       syntax.TokWhitespace,
		symbols["LineComment"]:      syntax.TokCSharpComment,
		symbols["BlockComment"]:     syntax.TokCSharpComment,
		symbols["OpenBlockComment"]: syntax.TokCSharpComment,
		symbols["VerbatimString"]:   syntax.TokStringLiteral,
		symbols["String"]:           syntax.TokStringLiteral,
		symbols["Char"]:             syntax.TokCharacterLiteral,
		symbols["Transition"]:       syntax.TokTransition,
		symbols["HexNumber"]:        syntax.TokNumericLiteral,
		symbols["BinaryNumber"]:     syntax.TokNumericLiteral,
		symbols["Number"]:           syntax.TokNumericLiteral,
		symbols["DotNumber"]:        syntax.TokNumericLiteral,
		symbols["Ident"]:            syntax.TokIdentifier,
		symbols["Operator"]:         syntax.TokOperator,
		symbols["Other"]:            syntax.TokUnknown,
	}
}()

// host lexes with the participle definition. Each call lexes a single
// token from the requested offset so the parser can move freely between
// markup and code.
type host struct {
	doc  *source.Document
	text string
}

func newHost(doc *source.Document) *host {
	return &host{doc: doc, text: doc.Contents()}
}

func (h *host) Next(offset int) (syntax.Token, []diagnostic.Diagnostic) {
	if offset >= len(h.text) {
		return endOfFile(), nil
	}

	tok, ok := h.lexOne(offset)
	if !ok {
		// The grammar ends in a catch-all rule, so this only happens on
		// malformed UTF-8 the regexp engine refuses; fall back to one byte.
		tok = syntax.Token{Kind: syntax.TokUnknown, Content: h.text[offset : offset+1]}
	}
	return tok, literalDiagnostics(h.doc, offset, tok)
}

func (h *host) lexOne(offset int) (syntax.Token, bool) {
	lex, err := hostRules.LexString(h.doc.Path, h.text[offset:])
	if err != nil {
		return syntax.Token{}, false
	}
	next, err := lex.Next()
	if err != nil || next.EOF() || next.Value == "" {
		return syntax.Token{}, false
	}

	kind := hostKinds[next.Type]
	switch kind {
	case syntax.TokIdentifier:
		kind = identifierKind(next.Value)
	case syntax.TokOperator:
		kind = operatorKind(next.Value)
	case syntax.TokTransition:
		kind = transitionKind(h.text, offset)
	default:
	}
	return syntax.Token{Kind: kind, Content: next.Value}, true
}
