package tokenizer

import (
	"strings"
	"unicode"

	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/source"
	"github.com/yaklabco/razorparse/pkg/syntax"
)

// keywords is the set of reserved C# keywords. Contextual keywords such as
// "await" or "var" are identifiers.
//
//nolint:gochecknoglobals // Read-only lookup table.
var keywords = map[string]struct{}{
	"abstract": {}, "as": {}, "base": {}, "bool": {}, "break": {}, "byte": {},
	"case": {}, "catch": {}, "char": {}, "checked": {}, "class": {}, "const": {},
	"continue": {}, "decimal": {}, "default": {}, "delegate": {}, "do": {}, "double": {},
	"else": {}, "enum": {}, "event": {}, "explicit": {}, "extern": {}, "false": {},
	"finally": {}, "fixed": {}, "float": {}, "for": {}, "foreach": {}, "goto": {},
	"if": {}, "implicit": {}, "in": {}, "int": {}, "interface": {}, "internal": {},
	"is": {}, "lock": {}, "long": {}, "namespace": {}, "new": {}, "null": {},
	"object": {}, "operator": {}, "out": {}, "override": {}, "params": {}, "private": {},
	"protected": {}, "public": {}, "readonly": {}, "ref": {}, "return": {}, "sbyte": {},
	"sealed": {}, "short": {}, "sizeof": {}, "stackalloc": {}, "static": {}, "string": {},
	"struct": {}, "switch": {}, "this": {}, "throw": {}, "true": {}, "try": {},
	"typeof": {}, "uint": {}, "ulong": {}, "unchecked": {}, "unsafe": {}, "ushort": {},
	"using": {}, "virtual": {}, "void": {}, "volatile": {}, "while": {},
}

// IsKeyword reports whether word is a reserved C# keyword. The comparison
// is case-sensitive.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}

// Keywords returns the number of reserved keywords.
func Keywords() int {
	return len(keywords)
}

//nolint:gochecknoglobals // Read-only lookup table.
var punctuation = map[string]syntax.TokenKind{
	"(":  syntax.TokLeftParen,
	")":  syntax.TokRightParen,
	"{":  syntax.TokLeftBrace,
	"}":  syntax.TokRightBrace,
	"[":  syntax.TokLeftBracket,
	"]":  syntax.TokRightBracket,
	";":  syntax.TokSemicolon,
	".":  syntax.TokDot,
	",":  syntax.TokComma,
	":":  syntax.TokColon,
	"::": syntax.TokDoubleColon,
	"?":  syntax.TokQuestionMark,
	"?.": syntax.TokNullConditional,
	"!":  syntax.TokBang,
	"<":  syntax.TokLessThan,
	">":  syntax.TokGreaterThan,
	"=":  syntax.TokAssign,
}

// operatorKind maps an operator or punctuation lexeme to its token kind.
func operatorKind(lexeme string) syntax.TokenKind {
	if kind, ok := punctuation[lexeme]; ok {
		return kind
	}
	return syntax.TokOperator
}

// identifierKind classifies an identifier lexeme.
func identifierKind(lexeme string) syntax.TokenKind {
	if IsKeyword(lexeme) {
		return syntax.TokKeyword
	}
	return syntax.TokIdentifier
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.In(r, unicode.L, unicode.Nl)
}

func isIdentPart(r rune) bool {
	return unicode.In(r, unicode.L, unicode.Nl, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Cf)
}

// IsIdentifierStart reports whether r may start a C# identifier.
func IsIdentifierStart(r rune) bool { return isIdentStart(r) }

// IsIdentifierPart reports whether r may continue a C# identifier.
func IsIdentifierPart(r rune) bool { return isIdentPart(r) }

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\f' || r == '\v' || unicode.Is(unicode.Zs, r)
}

func isNewLineStart(b byte) bool {
	return b == '\n' || b == '\r'
}

// newLineLen returns the length of the line break at the start of s.
func newLineLen(s string) int {
	switch {
	case strings.HasPrefix(s, "\r\n"):
		return 2
	case s != "" && isNewLineStart(s[0]):
		return 1
	default:
		return 0
	}
}

// stringPrefixLen returns the length of the "$", "@", "$@" or "@$" prefix
// before the opening quote.
func stringPrefixLen(lexeme string) int {
	return strings.IndexByte(lexeme, '"')
}

func isVerbatim(lexeme string) bool {
	return strings.Contains(lexeme[:max(stringPrefixLen(lexeme), 0)], "@")
}

// quoteTerminated reports whether an escaped literal opened by quote ends
// with an unescaped quote.
func quoteTerminated(body string, quote byte) bool {
	if len(body) < 2 || body[len(body)-1] != quote {
		return false
	}
	backslashes := 0
	for i := len(body) - 2; i > 0 && body[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 0
}

// verbatimTerminated reports whether a verbatim literal ends with a quote
// that is not half of a doubled "" escape.
func verbatimTerminated(body string) bool {
	rest := body[1:]
	quotes := 0
	for i := len(rest) - 1; i >= 0 && rest[i] == '"'; i-- {
		quotes++
	}
	return quotes%2 == 1
}

// literalDiagnostics reports unterminated literals and comments. Both C#
// strategies share it so they report identical diagnostics.
func literalDiagnostics(doc *source.Document, offset int, tok syntax.Token) []diagnostic.Diagnostic {
	switch tok.Kind {
	case syntax.TokStringLiteral:
		open := stringPrefixLen(tok.Content)
		body := tok.Content[open:]
		terminated := quoteTerminated(body, '"')
		if isVerbatim(tok.Content) {
			terminated = verbatimTerminated(body)
		}
		if !terminated {
			return []diagnostic.Diagnostic{diagnostic.UnterminatedStringLiteral.New(doc.Span(offset, 1))}
		}
	case syntax.TokCharacterLiteral:
		if !quoteTerminated(tok.Content, '\'') {
			return []diagnostic.Diagnostic{diagnostic.UnterminatedCharacterLiteral.New(doc.Span(offset, 1))}
		}
	case syntax.TokCSharpComment:
		if strings.HasPrefix(tok.Content, "/*") && (len(tok.Content) < 4 || !strings.HasSuffix(tok.Content, "*/")) {
			return []diagnostic.Diagnostic{diagnostic.UnterminatedBlockComment.New(doc.Span(offset, 2))}
		}
	default:
	}
	return nil
}
