package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/razorparse/internal/ui/pretty"
	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/source"
)

func TestFormatDiagnostic_Basic(t *testing.T) {
	styles := pretty.NewStyles(false) // No colors for easier testing

	diag := diagnostic.Diagnostic{
		ID:       "RZ1006",
		Message:  "The code block is missing a closing \"}\" character.",
		Severity: diagnostic.SeverityError,
		Span:     source.Span{FilePath: "Index.cshtml", AbsoluteIndex: 40, Length: 1, LineIndex: 9, CharacterIndex: 0},
	}

	result := styles.FormatDiagnostic("Views/Index.cshtml", diag, false, "")

	assert.Contains(t, result, "Views/Index.cshtml:10:1")
	assert.Contains(t, result, "error")
	assert.Contains(t, result, "missing a closing")
	assert.Contains(t, result, "(RZ1006)")
}

func TestFormatDiagnostic_WithContext(t *testing.T) {
	styles := pretty.NewStyles(false)

	diag := diagnostic.Diagnostic{
		ID:       "RZ2007",
		Message:  "Test message",
		Severity: diagnostic.SeverityWarning,
		Span:     source.Span{AbsoluteIndex: 2, Length: 1, LineIndex: 4, CharacterIndex: 2},
	}

	result := styles.FormatDiagnostic("a.cshtml", diag, true, "<p>@x</p>\n")

	assert.Contains(t, result, "<p>@x</p>")
	assert.Contains(t, result, "\n          ^\n", "caret sits under the third column")
}

func TestFormatDiagnostic_UndefinedSpan(t *testing.T) {
	styles := pretty.NewStyles(false)

	diag := diagnostic.Diagnostic{
		ID:       "RZ2001",
		Message:  "Duplicate directive",
		Severity: diagnostic.SeverityError,
		Span:     source.Undefined,
	}

	result := styles.FormatDiagnostic("a.cshtml", diag, true, "line")

	assert.Contains(t, result, "  a.cshtml  error")
	assert.NotContains(t, result, "^")
}

func TestFormatSeverity_AllLevels(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		severity diagnostic.Severity
		expected string
	}{
		{diagnostic.SeverityError, "error"},
		{diagnostic.SeverityWarning, "warning"},
		{diagnostic.Severity("other"), "other"},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			result := styles.FormatSeverity(tt.severity)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDisplayColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		line       string
		byteColumn int
		want       int
	}{
		{name: "first column", line: "abc", byteColumn: 1, want: 1},
		{name: "ascii", line: "abc", byteColumn: 3, want: 3},
		{name: "multibyte rune", line: "héllo", byteColumn: 4, want: 3},
		{name: "combining mark", line: "e\u0301x", byteColumn: 4, want: 2},
		{name: "past the end", line: "ab", byteColumn: 9, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pretty.DisplayColumn(tt.line, tt.byteColumn))
		})
	}
}

func TestFormatSourceContext_WithCaret(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSourceContext("test line", 5)

	lines := strings.Split(result, "\n")
	assert.GreaterOrEqual(t, len(lines), 2) // Source line and caret line
	assert.Equal(t, strings.Repeat(" ", 8+4)+"^", lines[1])
}

func TestFormatSourceContext_ZeroColumn(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSourceContext("test line", 0)

	assert.Contains(t, result, "test line")
	assert.NotContains(t, result, "^")
}

func TestFormatFileHeader(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		count    int
		contains string
		excludes string
	}{
		{count: 5, contains: "(5 diagnostics)"},
		{count: 1, contains: "(1 diagnostic)"},
		{count: 0, excludes: "diagnostic"},
	}

	for _, tt := range tests {
		result := styles.FormatFileHeader("Views/Index.cshtml", tt.count)
		assert.Contains(t, result, "Views/Index.cshtml")
		if tt.contains != "" {
			assert.Contains(t, result, tt.contains)
		}
		if tt.excludes != "" {
			assert.NotContains(t, result, tt.excludes)
		}
	}
}
