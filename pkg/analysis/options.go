package analysis

import (
	"fmt"
	"strings"
)

// SortField orders the per-file and per-ID views of a report.
type SortField string

const (
	// SortByCount puts the groups with the most diagnostics first.
	SortByCount SortField = "count"
	// SortByAlpha orders groups by ID or path.
	SortByAlpha SortField = "alpha"
	// SortBySeverity puts groups with errors first.
	SortBySeverity SortField = "severity"
	// SortByCategory follows the pipeline stage that reported the ID:
	// parsing, then directives, then tag helpers.
	SortByCategory SortField = "category"
)

// SortFields lists the accepted sort fields.
func SortFields() []SortField {
	return []SortField{SortByCount, SortByAlpha, SortBySeverity, SortByCategory}
}

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortBySeverity, SortByCategory:
		return true
	default:
		return false
	}
}

// ParseSortField parses a sort field name; empty selects SortByCount.
func ParseSortField(text string) (SortField, error) {
	if text == "" {
		return SortByCount, nil
	}
	field := SortField(strings.ToLower(strings.TrimSpace(text)))
	if !field.IsValid() {
		return "", fmt.Errorf("unknown sort field %q (valid: count, alpha, severity, category)", text)
	}
	return field, nil
}

// Options configures Analyze.
type Options struct {
	// IncludeDiagnostics fills Report.Diagnostics.
	IncludeDiagnostics bool

	// IncludeByFile fills Report.ByFile.
	IncludeByFile bool

	// IncludeByID fills Report.ByID.
	IncludeByID bool

	SortBy SortField

	// SortDesc reverses SortByCount so the largest groups come first.
	SortDesc bool

	// WorkingDir makes file paths relative when set.
	WorkingDir string
}

// DefaultOptions includes every view, largest groups first.
func DefaultOptions() Options {
	return Options{
		IncludeDiagnostics: true,
		IncludeByFile:      true,
		IncludeByID:        true,
		SortBy:             SortByCount,
		SortDesc:           true,
	}
}
