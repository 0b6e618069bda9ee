package syntax

import "strconv"

// TokenKind classifies a token produced by the markup or C# tokenizers.
type TokenKind uint16

// Token kinds shared by both tokenizers come first, then markup, then C#.
const (
	TokUnknown TokenKind = iota

	TokWhitespace
	TokNewLine
	TokTransition             // '@'
	TokRazorCommentTransition // '@' opening or closing a Razor comment
	TokRazorCommentStar       // '*' of a Razor comment delimiter
	TokRazorCommentLiteral    // body of a Razor comment
	TokMarker                 // zero-width placeholder for a missing token
	TokEndOfFile              // returned by tokenizers past the last byte; never stored in a tree

	// Markup.
	TokText
	TokOpenAngle    // '<'
	TokCloseAngle   // '>'
	TokForwardSlash // '/'
	TokBang         // '!'
	TokEquals       // '='
	TokDoubleQuote  // '"'
	TokSingleQuote  // '\''
	TokDoubleHyphen // '--'
	TokQuestionMark // '?'
	TokLeftBracket  // '['
	TokRightBracket // ']'

	// C#.
	TokColon // ':'
	TokIdentifier
	TokKeyword
	TokNumericLiteral
	TokStringLiteral
	TokCharacterLiteral
	TokCSharpComment
	TokLeftParen
	TokRightParen
	TokLeftBrace
	TokRightBrace
	TokSemicolon
	TokDot
	TokComma
	TokDoubleColon
	TokNullConditional // '?.'
	TokLessThan
	TokGreaterThan
	TokAssign
	TokOperator

	tokenKindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var tokenKindNames = [...]string{
	TokUnknown:                "Unknown",
	TokWhitespace:             "Whitespace",
	TokNewLine:                "NewLine",
	TokTransition:             "Transition",
	TokRazorCommentTransition: "RazorCommentTransition",
	TokRazorCommentStar:       "RazorCommentStar",
	TokRazorCommentLiteral:    "RazorCommentLiteral",
	TokMarker:                 "Marker",
	TokEndOfFile:              "EndOfFile",
	TokText:                   "Text",
	TokOpenAngle:              "OpenAngle",
	TokCloseAngle:             "CloseAngle",
	TokForwardSlash:           "ForwardSlash",
	TokBang:                   "Bang",
	TokEquals:                 "Equals",
	TokDoubleQuote:            "DoubleQuote",
	TokSingleQuote:            "SingleQuote",
	TokDoubleHyphen:           "DoubleHyphen",
	TokQuestionMark:           "QuestionMark",
	TokLeftBracket:            "LeftBracket",
	TokRightBracket:           "RightBracket",
	TokColon:                  "Colon",
	TokIdentifier:             "Identifier",
	TokKeyword:                "Keyword",
	TokNumericLiteral:         "NumericLiteral",
	TokStringLiteral:          "StringLiteral",
	TokCharacterLiteral:       "CharacterLiteral",
	TokCSharpComment:          "CSharpComment",
	TokLeftParen:              "LeftParen",
	TokRightParen:             "RightParen",
	TokLeftBrace:              "LeftBrace",
	TokRightBrace:             "RightBrace",
	TokSemicolon:              "Semicolon",
	TokDot:                    "Dot",
	TokComma:                  "Comma",
	TokDoubleColon:            "DoubleColon",
	TokNullConditional:        "NullConditional",
	TokLessThan:               "LessThan",
	TokGreaterThan:            "GreaterThan",
	TokAssign:                 "Assign",
	TokOperator:               "Operator",
}

func (k TokenKind) String() string {
	if k < tokenKindCount {
		return tokenKindNames[k]
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// IsTrivia reports whether tokens of this kind carry no syntax.
func (k TokenKind) IsTrivia() bool {
	return k == TokWhitespace || k == TokNewLine || k == TokCSharpComment
}

// Token is a classified run of source text. Tokens are contiguous and never
// overlap; together they cover the whole document.
type Token struct {
	// Kind classifies the token.
	Kind TokenKind

	// Content is the exact source text of the token.
	Content string
}

// Len returns the width of the token in bytes.
func (t Token) Len() int {
	return len(t.Content)
}

// IsEmpty reports whether the token is zero width.
func (t Token) IsEmpty() bool {
	return t.Content == ""
}

// Is reports whether the token has the given kind and content.
func (t Token) Is(kind TokenKind, content string) bool {
	return t.Kind == kind && t.Content == content
}

// IsKeyword reports whether the token is the keyword kw.
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == TokKeyword && t.Content == kw
}

// ValidateTokens checks that tokens are contiguous and reassemble content exactly.
func ValidateTokens(tokens []Token, content string) bool {
	pos := 0
	for _, tok := range tokens {
		end := pos + len(tok.Content)
		if end > len(content) || content[pos:end] != tok.Content {
			return false
		}
		pos = end
	}
	return pos == len(content)
}
