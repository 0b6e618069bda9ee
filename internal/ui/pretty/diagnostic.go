package pretty

import (
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"

	"github.com/yaklabco/razorparse/pkg/diagnostic"
)

// FormatDiagnostic formats a single diagnostic for terminal output.
// sourceLine is the text of the line the diagnostic starts on.
func (s *Styles) FormatDiagnostic(path string, diag diagnostic.Diagnostic, showContext bool, sourceLine string) string {
	var builder strings.Builder

	// Location: path:line:col, 1-based
	location := s.FilePath.Render(path)
	column := 0
	if !diag.Span.IsUndefined() {
		column = diag.Span.CharacterIndex + 1
		location = fmt.Sprintf("%s:%d:%d", location, diag.Span.LineIndex+1, column)
	}

	// Main line: location  severity  message  (RZ1006)
	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.ID.Render("("+diag.ID+")"),
	))

	if showContext && sourceLine != "" && column > 0 {
		builder.WriteString(s.FormatSourceContext(sourceLine, DisplayColumn(sourceLine, column)))
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev diagnostic.Severity) string {
	switch sev {
	case diagnostic.SeverityError:
		return s.Error.Render("error")
	case diagnostic.SeverityWarning:
		return s.Warning.Render("warning")
	default:
		return string(sev)
	}
}

// DisplayColumn converts a 1-based byte column of line into a 1-based
// column counted in grapheme clusters. Tabs count as one column.
func DisplayColumn(line string, byteColumn int) int {
	if byteColumn <= 1 {
		return byteColumn
	}
	prefix := line
	if byteColumn-1 < len(line) {
		prefix = line[:byteColumn-1]
	}
	count, err := textseg.TokenCount([]byte(prefix), textseg.ScanGraphemeClusters)
	if err != nil {
		return byteColumn
	}
	return count + 1
}

// FormatSourceContext formats the source line with a caret marker at the
// given 1-based display column.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	// Indent to align with diagnostic output
	const indent = "        "

	line = strings.TrimRight(line, "\r\n")
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, count int) string {
	header := s.FilePath.Render(path)
	switch {
	case count == 1:
		header += s.Dim.Render(" (1 diagnostic)")
	case count > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d diagnostics)", count))
	}
	return header
}
