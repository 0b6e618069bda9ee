package reporter

import (
	"fmt"
	"slices"
	"strings"
)

// Format names an output format.
type Format string

const (
	// FormatText prints each diagnostic with its source line and a caret.
	FormatText Format = "text"
	// FormatJSON prints per-file outcomes, class names included.
	FormatJSON Format = "json"
	// FormatSARIF prints a SARIF 2.1.0 log for code scanning tools.
	FormatSARIF Format = "sarif"
	// FormatSummary prints tables grouped by diagnostic ID and by file.
	FormatSummary Format = "summary"
)

// Formats lists the output formats in the order they are documented.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatSARIF, FormatSummary}
}

// FormatNames returns the format names joined for help and error text.
func FormatNames() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// ParseFormat parses a format name case-insensitively; empty selects text.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	f := Format(strings.ToLower(name))
	if !f.IsValid() {
		return "", fmt.Errorf("unknown format %q; valid formats: %s", name, FormatNames())
	}
	return f, nil
}

func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f is one of Formats.
func (f Format) IsValid() bool {
	return slices.Contains(Formats(), f)
}
