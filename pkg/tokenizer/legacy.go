package tokenizer

import (
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/source"
	"github.com/yaklabco/razorparse/pkg/syntax"
)

// legacy is the hand-written C# scanner.
type legacy struct {
	doc  *source.Document
	text string
}

func newLegacy(doc *source.Document) *legacy {
	return &legacy{doc: doc, text: doc.Contents()}
}

func (l *legacy) Next(offset int) (syntax.Token, []diagnostic.Diagnostic) {
	if offset >= len(l.text) {
		return endOfFile(), nil
	}

	kind, n := l.scan(l.text[offset:])
	tok := syntax.Token{Kind: kind, Content: l.text[offset : offset+n]}
	return tok, literalDiagnostics(l.doc, offset, tok)
}

//nolint:cyclop,gocyclo,funlen // one dispatch over the first character
func (l *legacy) scan(s string) (syntax.TokenKind, int) {
	if n := newLineLen(s); n > 0 {
		return syntax.TokNewLine, n
	}

	r, size := utf8.DecodeRuneInString(s)
	if isWhitespace(r) {
		n := size
		for n < len(s) {
			next, width := utf8.DecodeRuneInString(s[n:])
			if !isWhitespace(next) {
				break
			}
			n += width
		}
		return syntax.TokWhitespace, n
	}

	switch {
	case strings.HasPrefix(s, "//"):
		n := strings.IndexAny(s, "\r\n")
		if n < 0 {
			n = len(s)
		}
		return syntax.TokCSharpComment, n
	case strings.HasPrefix(s, "/*"):
		end := strings.Index(s[2:], "*/")
		if end < 0 {
			return syntax.TokCSharpComment, len(s)
		}
		return syntax.TokCSharpComment, end + 4
	case strings.HasPrefix(s, `$@"`), strings.HasPrefix(s, `@$"`):
		return syntax.TokStringLiteral, 2 + scanVerbatim(s[2:])
	case strings.HasPrefix(s, `@"`):
		return syntax.TokStringLiteral, 1 + scanVerbatim(s[1:])
	case strings.HasPrefix(s, `$"`):
		return syntax.TokStringLiteral, 1 + scanQuoted(s[1:], '"')
	}

	switch {
	case r == '"':
		return syntax.TokStringLiteral, scanQuoted(s, '"')
	case r == '\'':
		return syntax.TokCharacterLiteral, scanQuoted(s, '\'')
	case r == '@':
		return transitionKind(s, 0), 1
	case r == '0' && len(s) > 1 && (s[1] == 'x' || s[1] == 'X'):
		n := 2 + scanRun(s[2:], isHexDigit)
		return syntax.TokNumericLiteral, n + scanIntegerSuffix(s[n:])
	case r == '0' && len(s) > 1 && (s[1] == 'b' || s[1] == 'B'):
		n := 2 + scanRun(s[2:], isBinaryDigit)
		return syntax.TokNumericLiteral, n + scanIntegerSuffix(s[n:])
	case isDigit(s[0]):
		return syntax.TokNumericLiteral, scanDecimal(s)
	case s[0] == '.' && len(s) > 1 && isDigit(s[1]):
		n := 1 + scanRun(s[1:], isDigitOrSeparator)
		n += scanExponent(s[n:])
		if n < len(s) && strings.IndexByte("fFdDmM", s[n]) >= 0 {
			n++
		}
		return syntax.TokNumericLiteral, n
	case isIdentStart(r):
		n := size
		for n < len(s) {
			next, width := utf8.DecodeRuneInString(s[n:])
			if !isIdentPart(next) {
				break
			}
			n += width
		}
		return identifierKind(s[:n]), n
	}

	if n := scanOperator(s); n > 0 {
		return operatorKind(s[:n]), n
	}
	return syntax.TokUnknown, size
}

// scanQuoted scans an escaped literal starting at its opening quote. It
// stops after the closing quote, before a line break or at the end.
func scanQuoted(s string, quote byte) int {
	n := 1
	for n < len(s) {
		switch c := s[n]; {
		case c == quote:
			return n + 1
		case isNewLineStart(c):
			return n
		case c == '\\':
			n++
			if n >= len(s) || isNewLineStart(s[n]) {
				return n
			}
			_, width := utf8.DecodeRuneInString(s[n:])
			n += width
		default:
			_, width := utf8.DecodeRuneInString(s[n:])
			n += width
		}
	}
	return n
}

// scanVerbatim scans a verbatim literal starting at its opening quote.
// Doubled quotes are escapes; line breaks are content.
func scanVerbatim(s string) int {
	n := 1
	for n < len(s) {
		if s[n] == '"' {
			if n+1 < len(s) && s[n+1] == '"' {
				n += 2
				continue
			}
			return n + 1
		}
		_, width := utf8.DecodeRuneInString(s[n:])
		n += width
	}
	return n
}

func scanDecimal(s string) int {
	n := 1 + scanRun(s[1:], isDigitOrSeparator)
	if n+1 < len(s) && s[n] == '.' && isDigit(s[n+1]) {
		n += 2 + scanRun(s[n+2:], isDigitOrSeparator)
	}
	n += scanExponent(s[n:])
	if n < len(s) && strings.IndexByte("fFdDmM", s[n]) >= 0 {
		return n + 1
	}
	return n + scanIntegerSuffix(s[n:])
}

func scanExponent(s string) int {
	if s == "" || (s[0] != 'e' && s[0] != 'E') {
		return 0
	}
	n := 1
	if n < len(s) && (s[n] == '+' || s[n] == '-') {
		n++
	}
	if n >= len(s) || !isDigit(s[n]) {
		return 0
	}
	return n + 1 + scanRun(s[n+1:], isDigitOrSeparator)
}

func scanIntegerSuffix(s string) int {
	if s == "" {
		return 0
	}
	switch s[0] {
	case 'u', 'U':
		if len(s) > 1 && (s[1] == 'l' || s[1] == 'L') {
			return 2
		}
		return 1
	case 'l', 'L':
		if len(s) > 1 && (s[1] == 'u' || s[1] == 'U') {
			return 2
		}
		return 1
	default:
		return 0
	}
}

func scanRun(s string, accept func(byte) bool) int {
	n := 0
	for n < len(s) && accept(s[n]) {
		n++
	}
	return n
}

func isDigit(c byte) bool            { return c >= '0' && c <= '9' }
func isDigitOrSeparator(c byte) bool { return isDigit(c) || c == '_' }
func isBinaryDigit(c byte) bool      { return c == '0' || c == '1' || c == '_' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') || c == '_'
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	operators3 = []string{"??="}
	operators2 = []string{
		"=>", "==", "!=", "<=", ">=", "&&", "||", "++", "--", "+=", "-=", "*=", "/=",
		"%=", "&=", "|=", "^=", "??", "->", "::", "?.",
	}
)

const operators1 = "(){}[];.,:?!<>=+-*/%&|^~"

func scanOperator(s string) int {
	for _, op := range operators3 {
		if strings.HasPrefix(s, op) {
			return 3
		}
	}
	for _, op := range operators2 {
		if strings.HasPrefix(s, op) {
			return 2
		}
	}
	if strings.IndexByte(operators1, s[0]) >= 0 {
		return 1
	}
	return 0
}
