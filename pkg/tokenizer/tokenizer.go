// Package tokenizer turns document text into markup and C# tokens.
//
// Tokenizers are pull-based: the parser asks for the token starting at an
// offset and decides which tokenizer to ask based on its current mode.
// Tokenizers never fail. Unterminated literals produce a token running to
// the end of the line or file plus a diagnostic.
package tokenizer

import (
	"strings"

	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/language"
	"github.com/yaklabco/razorparse/pkg/source"
	"github.com/yaklabco/razorparse/pkg/syntax"
)

// Tokenizer returns the token starting at an offset of its document. Past
// the last byte it returns a TokEndOfFile token with empty content.
type Tokenizer interface {
	Next(offset int) (syntax.Token, []diagnostic.Diagnostic)
}

// NewCSharp returns the C# tokenizer of the given strategy for doc.
func NewCSharp(doc *source.Document, strategy language.TokenizerStrategy) Tokenizer {
	if strategy == language.TokenizerHost {
		return newHost(doc)
	}
	return newLegacy(doc)
}

// Tokenize runs t over its whole document.
func Tokenize(t Tokenizer) ([]syntax.Token, []diagnostic.Diagnostic) {
	var (
		tokens []syntax.Token
		diags  []diagnostic.Diagnostic
	)
	offset := 0
	for {
		tok, tokDiags := t.Next(offset)
		if tok.Kind == syntax.TokEndOfFile || tok.IsEmpty() {
			return tokens, diags
		}
		tokens = append(tokens, tok)
		diags = append(diags, tokDiags...)
		offset += tok.Len()
	}
}

func endOfFile() syntax.Token {
	return syntax.Token{Kind: syntax.TokEndOfFile}
}

// transitionKind classifies an "@" at offset.
func transitionKind(text string, offset int) syntax.TokenKind {
	if offset+1 < len(text) && text[offset+1] == '*' {
		return syntax.TokRazorCommentTransition
	}
	return syntax.TokTransition
}

// RazorComment scans the Razor comment "@* ... *@" starting at offset,
// which must hold "@*". It returns the transition, star, literal, star and
// transition tokens. An unterminated comment runs to the end of the file
// and the closing tokens are zero-width markers.
func RazorComment(doc *source.Document, offset int) ([]syntax.Token, []diagnostic.Diagnostic) {
	text := doc.Contents()
	open := []syntax.Token{
		{Kind: syntax.TokRazorCommentTransition, Content: "@"},
		{Kind: syntax.TokRazorCommentStar, Content: "*"},
	}
	bodyStart := offset + 2

	end := strings.Index(text[bodyStart:], "*@")
	if end < 0 {
		tokens := open
		if bodyStart < len(text) {
			tokens = append(tokens, syntax.Token{Kind: syntax.TokRazorCommentLiteral, Content: text[bodyStart:]})
		}
		tokens = append(tokens,
			syntax.Token{Kind: syntax.TokMarker},
			syntax.Token{Kind: syntax.TokMarker},
		)
		return tokens, []diagnostic.Diagnostic{diagnostic.UnterminatedRazorComment.New(doc.Span(offset, 2))}
	}

	tokens := open
	if end > 0 {
		tokens = append(tokens, syntax.Token{Kind: syntax.TokRazorCommentLiteral, Content: text[bodyStart : bodyStart+end]})
	}
	tokens = append(tokens,
		syntax.Token{Kind: syntax.TokRazorCommentStar, Content: "*"},
		syntax.Token{Kind: syntax.TokRazorCommentTransition, Content: "@"},
	)
	return tokens, nil
}
