package tokenizer

import (
	"unicode/utf8"

	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/source"
	"github.com/yaklabco/razorparse/pkg/syntax"
)

// markup is the markup tokenizer. Markup is not validated; it is only split
// into the tokens the parser needs to find tags, attributes, comments and
// transitions.
type markup struct {
	text string
}

// NewHTML returns the markup tokenizer for doc.
func NewHTML(doc *source.Document) Tokenizer {
	return &markup{text: doc.Contents()}
}

//nolint:gochecknoglobals // Read-only lookup table.
var markupPunctuation = [256]syntax.TokenKind{
	'<':  syntax.TokOpenAngle,
	'>':  syntax.TokCloseAngle,
	'/':  syntax.TokForwardSlash,
	'!':  syntax.TokBang,
	'=':  syntax.TokEquals,
	'"':  syntax.TokDoubleQuote,
	'\'': syntax.TokSingleQuote,
	'?':  syntax.TokQuestionMark,
	'[':  syntax.TokLeftBracket,
	']':  syntax.TokRightBracket,
}

func (h *markup) Next(offset int) (syntax.Token, []diagnostic.Diagnostic) {
	if offset >= len(h.text) {
		return endOfFile(), nil
	}
	s := h.text[offset:]

	if n := newLineLen(s); n > 0 {
		return syntax.Token{Kind: syntax.TokNewLine, Content: s[:n]}, nil
	}
	if kind := markupPunctuation[s[0]]; kind != syntax.TokUnknown {
		return syntax.Token{Kind: kind, Content: s[:1]}, nil
	}
	if s[0] == '@' {
		return syntax.Token{Kind: transitionKind(s, 0), Content: s[:1]}, nil
	}
	if isDoubleHyphen(s) {
		return syntax.Token{Kind: syntax.TokDoubleHyphen, Content: s[:2]}, nil
	}
	if isBrace(s[0]) {
		// Braces stand alone so markup inside @section bodies can be balanced.
		return syntax.Token{Kind: syntax.TokText, Content: s[:1]}, nil
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
		return syntax.Token{Kind: syntax.TokWhitespace, Content: s[:n]}, nil
	}

	n := size
	for n < len(s) {
		if isMarkupBreak(s[n:]) {
			break
		}
		_, width := utf8.DecodeRuneInString(s[n:])
		n += width
	}
	return syntax.Token{Kind: syntax.TokText, Content: s[:n]}, nil
}

func isDoubleHyphen(s string) bool {
	return len(s) >= 2 && s[0] == '-' && s[1] == '-'
}

// isMarkupBreak reports whether a text run ends before s.
func isMarkupBreak(s string) bool {
	c := s[0]
	if isNewLineStart(c) || c == '@' || isBrace(c) || markupPunctuation[c] != syntax.TokUnknown || isDoubleHyphen(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return isWhitespace(r)
}

func isBrace(c byte) bool {
	return c == '{' || c == '}'
}
