package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/razorparse/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "5 diagnostics (2 errors, 3 warnings) in 3 files, 4 generated".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.DiagnosticsTotal == 0 {
		msg := s.Success.Render("No diagnostics") +
			s.Dim.Render(fmt.Sprintf(" (%d %s parsed)", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles)))
		if stats.FilesErrored > 0 {
			msg += ", " + s.Failure.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored))
		}
		return msg + "\n"
	}

	var parts []string

	var severityParts []string
	if errors := stats.Errors(); errors > 0 {
		severityParts = append(severityParts, s.Error.Render(fmt.Sprintf("%d %s", errors, plural(errors, "error", "errors"))))
	}
	if warnings := stats.Warnings(); warnings > 0 {
		severityParts = append(severityParts, s.Warning.Render(fmt.Sprintf("%d %s", warnings, plural(warnings, "warning", "warnings"))))
	}

	word := plural(stats.DiagnosticsTotal, "diagnostic", "diagnostics")
	if len(severityParts) > 0 {
		parts = append(parts, fmt.Sprintf("%d %s (%s)", stats.DiagnosticsTotal, word, strings.Join(severityParts, ", ")))
	} else {
		parts = append(parts, fmt.Sprintf("%d %s", stats.DiagnosticsTotal, word))
	}

	parts = append(parts, fmt.Sprintf("in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, wordFile, wordFiles)))

	if stats.FilesGenerated > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d generated", stats.FilesGenerated)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	// Files
	builder.WriteString("  Files parsed:      " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesWithIssues > 0 {
		builder.WriteString("  Files with issues: " +
			s.Failure.Render(strconv.Itoa(stats.FilesWithIssues)) + "\n")
	}

	if stats.FilesErrored > 0 {
		builder.WriteString("  Files unreadable:  " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	if stats.FilesGenerated > 0 {
		builder.WriteString("  Files generated:   " +
			s.Success.Render(strconv.Itoa(stats.FilesGenerated)) + "\n")
	}

	builder.WriteString("\n")

	builder.WriteString("  Diagnostics:       " +
		s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)) + "\n")

	if errors := stats.Errors(); errors > 0 {
		builder.WriteString("    Errors:          " +
			s.Error.Render(strconv.Itoa(errors)) + "\n")
	}
	if warnings := stats.Warnings(); warnings > 0 {
		builder.WriteString("    Warnings:        " +
			s.Warning.Render(strconv.Itoa(warnings)) + "\n")
	}

	if stats.Duration > 0 {
		builder.WriteString("  Duration:          " +
			s.Dim.Render(stats.Duration.String()) + "\n")
	}

	builder.WriteString("\n")

	// Overall status
	switch {
	case stats.Errors() > 0 || stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Parse failed with errors"))
	case stats.Warnings() > 0:
		builder.WriteString(s.Warning.Render("Parse completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Parse passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
