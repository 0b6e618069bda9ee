package tokenizer_test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/language"
	"github.com/yaklabco/razorparse/pkg/source"
	"github.com/yaklabco/razorparse/pkg/syntax"
	"github.com/yaklabco/razorparse/pkg/tokenizer"
)

type tok struct {
	kind    syntax.TokenKind
	content string
}

func lex(t *testing.T, strategy language.TokenizerStrategy, input string) ([]tok, []diagnostic.Diagnostic) {
	t.Helper()

	doc := source.NewDocumentString("test.cshtml", input)
	tokens, diags := tokenizer.Tokenize(tokenizer.NewCSharp(doc, strategy))
	require.True(t, syntax.ValidateTokens(tokens, input), "tokens must reassemble the input")

	out := make([]tok, 0, len(tokens))
	for _, token := range tokens {
		out = append(out, tok{token.Kind, token.Content})
	}
	return out, diags
}

func TestCSharp_Tokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "member access",
			input: "foo.Bar(1)",
			want: []tok{
				{syntax.TokIdentifier, "foo"},
				{syntax.TokDot, "."},
				{syntax.TokIdentifier, "Bar"},
				{syntax.TokLeftParen, "("},
				{syntax.TokNumericLiteral, "1"},
				{syntax.TokRightParen, ")"},
			},
		},
		{
			name:  "keywords are case sensitive",
			input: "if If",
			want: []tok{
				{syntax.TokKeyword, "if"},
				{syntax.TokWhitespace, " "},
				{syntax.TokIdentifier, "If"},
			},
		},
		{
			name:  "numbers",
			input: "0x1F_u 0b1010 1_000.5e-3m .5f 10UL",
			want: []tok{
				{syntax.TokNumericLiteral, "0x1F_u"},
				{syntax.TokWhitespace, " "},
				{syntax.TokNumericLiteral, "0b1010"},
				{syntax.TokWhitespace, " "},
				{syntax.TokNumericLiteral, "1_000.5e-3m"},
				{syntax.TokWhitespace, " "},
				{syntax.TokNumericLiteral, ".5f"},
				{syntax.TokWhitespace, " "},
				{syntax.TokNumericLiteral, "10UL"},
			},
		},
		{
			name:  "strings",
			input: `"a\"b" @"c""d" $"{x}" $@"y"`,
			want: []tok{
				{syntax.TokStringLiteral, `"a\"b"`},
				{syntax.TokWhitespace, " "},
				{syntax.TokStringLiteral, `@"c""d"`},
				{syntax.TokWhitespace, " "},
				{syntax.TokStringLiteral, `$"{x}"`},
				{syntax.TokWhitespace, " "},
				{syntax.TokStringLiteral, `$@"y"`},
			},
		},
		{
			name:  "comments and newlines",
			input: "// note\r\n/* a\n b */x",
			want: []tok{
				{syntax.TokCSharpComment, "// note"},
				{syntax.TokNewLine, "\r\n"},
				{syntax.TokCSharpComment, "/* a\n b */"},
				{syntax.TokIdentifier, "x"},
			},
		},
		{
			name:  "operators",
			input: "a?.b??=c=>d::e!",
			want: []tok{
				{syntax.TokIdentifier, "a"},
				{syntax.TokNullConditional, "?."},
				{syntax.TokIdentifier, "b"},
				{syntax.TokOperator, "??="},
				{syntax.TokIdentifier, "c"},
				{syntax.TokOperator, "=>"},
				{syntax.TokIdentifier, "d"},
				{syntax.TokDoubleColon, "::"},
				{syntax.TokIdentifier, "e"},
				{syntax.TokBang, "!"},
			},
		},
		{
			name:  "generics close one angle at a time",
			input: "List<List<int>>",
			want: []tok{
				{syntax.TokIdentifier, "List"},
				{syntax.TokLessThan, "<"},
				{syntax.TokIdentifier, "List"},
				{syntax.TokLessThan, "<"},
				{syntax.TokKeyword, "int"},
				{syntax.TokGreaterThan, ">"},
				{syntax.TokGreaterThan, ">"},
			},
		},
		{
			name:  "transitions",
			input: "@x @*",
			want: []tok{
				{syntax.TokTransition, "@"},
				{syntax.TokIdentifier, "x"},
				{syntax.TokWhitespace, " "},
				{syntax.TokRazorCommentTransition, "@"},
				{syntax.TokOperator, "*"},
			},
		},
		{
			name:  "unicode identifier",
			input: "café_1\u00a0#",
			want: []tok{
				{syntax.TokIdentifier, "café_1"},
				{syntax.TokWhitespace, "\u00a0"},
				{syntax.TokUnknown, "#"},
			},
		},
	}

	for _, tt := range tests {
		for _, strategy := range []language.TokenizerStrategy{language.TokenizerLegacy, language.TokenizerHost} {
			t.Run(tt.name+"/"+strategy.String(), func(t *testing.T) {
				t.Parallel()

				got, diags := lex(t, strategy, tt.input)
				assert.Equal(t, tt.want, got)
				assert.Empty(t, diags)
			})
		}
	}
}

func TestCSharp_Unterminated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		first  tok
		wantID string
	}{
		{
			name:   "string stops at line break",
			input:  "\"abc\nx",
			first:  tok{syntax.TokStringLiteral, `"abc`},
			wantID: "RZ1000",
		},
		{
			name:   "escaped quote at end of file",
			input:  `"\"`,
			first:  tok{syntax.TokStringLiteral, `"\"`},
			wantID: "RZ1000",
		},
		{
			name:   "verbatim runs to end of file",
			input:  "@\"a\nb\"\"",
			first:  tok{syntax.TokStringLiteral, "@\"a\nb\"\""},
			wantID: "RZ1000",
		},
		{
			name:   "character literal",
			input:  "'a",
			first:  tok{syntax.TokCharacterLiteral, "'a"},
			wantID: "RZ1002",
		},
		{
			name:   "block comment",
			input:  "/*/ x",
			first:  tok{syntax.TokCSharpComment, "/*/ x"},
			wantID: "RZ1001",
		},
	}

	for _, tt := range tests {
		for _, strategy := range []language.TokenizerStrategy{language.TokenizerLegacy, language.TokenizerHost} {
			t.Run(tt.name+"/"+strategy.String(), func(t *testing.T) {
				t.Parallel()

				got, diags := lex(t, strategy, tt.input)
				require.NotEmpty(t, got)
				assert.Equal(t, tt.first, got[0])
				require.Len(t, diags, 1)
				assert.Equal(t, tt.wantID, diags[0].ID)
				assert.Equal(t, 0, diags[0].Span.AbsoluteIndex)
			})
		}
	}
}

func TestCSharp_StrategiesAgree(t *testing.T) {
	t.Parallel()

	corpus := []string{
		"",
		"@{ var x = 1; }",
		"@functions { public int Count { get; set; } = 0x_FF; }",
		"if (a != b && c <= d) { return \"x\\ty\"; } else { i++; }",
		"@(\"\\\"\")",
		"var s = @\"multi\r\nline \"\"quoted\"\"\";",
		"// comment\n/* block */ /* unterminated",
		"'c' '\\n' '' 'x",
		"1e 1e+ 1.5.2 .e 0b 0x 1__2lu 3Lu 7m",
		"a ?? b ??= c?.d ?. e",
		"  tab\t\fform\vvert",
		"naïve ℕ Ⅻ x́ a‍b",
		"<p>@DateTime.Now</p>",
		"$\"unterminated\\",
		"\"abc\\\r\n",
		"\xff\xfe invalid",
		"@@ @* comment *@ @$\"x\" $@\"y",
	}

	for _, input := range corpus {
		legacy, legacyDiags := lex(t, language.TokenizerLegacy, input)
		host, hostDiags := lex(t, language.TokenizerHost, input)

		assert.Equal(t, legacy, host, "input %q", input)
		assert.Equal(t, legacyDiags, hostDiags, "input %q", input)
	}
}

func FuzzCSharpStrategiesAgree(f *testing.F) {
	f.Add("@{ var x = \"y\"; }")
	f.Add("0x1F /* c */ 'a'")
	f.Add("a?.b ?? c")

	f.Fuzz(func(t *testing.T, input string) {
		doc := source.NewDocumentString("fuzz.cshtml", input)
		legacy, legacyDiags := tokenizer.Tokenize(tokenizer.NewCSharp(doc, language.TokenizerLegacy))
		host, hostDiags := tokenizer.Tokenize(tokenizer.NewCSharp(doc, language.TokenizerHost))

		require.True(t, syntax.ValidateTokens(legacy, input))
		assert.Equal(t, legacy, host)
		assert.Equal(t, legacyDiags, hostDiags)
	})
}

func TestHTML_Tokens(t *testing.T) {
	t.Parallel()

	input := "<a href='x'>hi--there @b{}</a>\n<!-- c -->"
	doc := source.NewDocumentString("test.cshtml", input)

	tokens, diags := tokenizer.Tokenize(tokenizer.NewHTML(doc))
	require.Empty(t, diags)
	require.True(t, syntax.ValidateTokens(tokens, input))

	got := make([]tok, 0, len(tokens))
	for _, token := range tokens {
		got = append(got, tok{token.Kind, token.Content})
	}

	assert.Equal(t, []tok{
		{syntax.TokOpenAngle, "<"},
		{syntax.TokText, "a"},
		{syntax.TokWhitespace, " "},
		{syntax.TokText, "href"},
		{syntax.TokEquals, "="},
		{syntax.TokSingleQuote, "'"},
		{syntax.TokText, "x"},
		{syntax.TokSingleQuote, "'"},
		{syntax.TokCloseAngle, ">"},
		{syntax.TokText, "hi"},
		{syntax.TokDoubleHyphen, "--"},
		{syntax.TokText, "there"},
		{syntax.TokWhitespace, " "},
		{syntax.TokTransition, "@"},
		{syntax.TokText, "b"},
		{syntax.TokText, "{"},
		{syntax.TokText, "}"},
		{syntax.TokOpenAngle, "<"},
		{syntax.TokForwardSlash, "/"},
		{syntax.TokText, "a"},
		{syntax.TokCloseAngle, ">"},
		{syntax.TokNewLine, "\n"},
		{syntax.TokOpenAngle, "<"},
		{syntax.TokBang, "!"},
		{syntax.TokDoubleHyphen, "--"},
		{syntax.TokWhitespace, " "},
		{syntax.TokText, "c"},
		{syntax.TokWhitespace, " "},
		{syntax.TokDoubleHyphen, "--"},
		{syntax.TokCloseAngle, ">"},
	}, got)
}

func TestRazorComment(t *testing.T) {
	t.Parallel()

	doc := source.NewDocumentString("test.cshtml", "x@* hi *@y")
	tokens, diags := tokenizer.RazorComment(doc, 1)

	assert.Empty(t, diags)
	assert.Equal(t, []syntax.Token{
		{Kind: syntax.TokRazorCommentTransition, Content: "@"},
		{Kind: syntax.TokRazorCommentStar, Content: "*"},
		{Kind: syntax.TokRazorCommentLiteral, Content: " hi "},
		{Kind: syntax.TokRazorCommentStar, Content: "*"},
		{Kind: syntax.TokRazorCommentTransition, Content: "@"},
	}, tokens)

	unterminated := source.NewDocumentString("test.cshtml", "@* open")
	tokens, diags = tokenizer.RazorComment(unterminated, 0)
	require.Len(t, diags, 1)
	assert.Equal(t, "RZ1003", diags[0].ID)
	assert.Len(t, tokens, 5)
	assert.Equal(t, syntax.TokMarker, tokens[4].Kind)
}

// Not parallel: allocation counters are process-wide.
func TestRazorComment_SharesDocumentText(t *testing.T) {
	if testing.Short() {
		t.Skip("allocation test")
	}

	input := strings.Repeat("<p>@* note *@</p>\n", 1<<14)
	doc := source.NewDocumentString("big.cshtml", input)
	_ = doc.Contents()

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	for offset := 3; offset < 3+100*18; offset += 18 {
		tokens, diags := tokenizer.RazorComment(doc, offset)
		require.Empty(t, diags)
		require.Len(t, tokens, 5)
	}
	runtime.ReadMemStats(&after)

	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(len(input)),
		"scanning a comment must not copy the document")
}

func TestIsKeyword(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 77, tokenizer.Keywords())
	assert.True(t, tokenizer.IsKeyword("stackalloc"))
	assert.False(t, tokenizer.IsKeyword("await"))
	assert.False(t, tokenizer.IsKeyword("var"))
}
