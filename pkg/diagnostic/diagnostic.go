// Package diagnostic defines Razor diagnostics: data values with an ID, a
// severity and a source span. Diagnostics are accumulated by the tokenizer,
// the parser and the rewriters; they are never raised as errors.
package diagnostic

import (
	"fmt"
	"slices"

	"github.com/yaklabco/razorparse/pkg/source"
)

// Severity indicates how serious a diagnostic is.
type Severity string

// Severity levels.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// String returns the capitalized form used in rendered messages.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	default:
		return string(s)
	}
}

// Diagnostic is a single problem found in a Razor document.
type Diagnostic struct {
	// ID is the stable descriptor identifier, e.g. "RZ1006".
	ID string

	// Severity is the descriptor's severity.
	Severity Severity

	// Message is the formatted human-readable text.
	Message string

	// Span locates the problem in the source document.
	Span source.Span
}

// Error renders the diagnostic as path(line,char): Error RZ1006: message.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Span, d.Severity, d.ID, d.Message)
}

// IsError reports whether the diagnostic has error severity.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// Compare orders diagnostics by position, then by ID.
func Compare(a, b Diagnostic) int {
	if a.Span.AbsoluteIndex != b.Span.AbsoluteIndex {
		return a.Span.AbsoluteIndex - b.Span.AbsoluteIndex
	}
	if a.Span.Length != b.Span.Length {
		return a.Span.Length - b.Span.Length
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	switch {
	case a.Message < b.Message:
		return -1
	case a.Message > b.Message:
		return 1
	}
	return 0
}

// Sorted returns a sorted copy of diags with exact duplicates removed.
func Sorted(diags []Diagnostic) []Diagnostic {
	out := slices.Clone(diags)
	slices.SortStableFunc(out, Compare)
	return slices.Compact(out)
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	return slices.ContainsFunc(diags, Diagnostic.IsError)
}

// Bag accumulates diagnostics in the order they are reported.
// The zero value is ready to use. A Bag is not safe for concurrent use;
// each parse owns its own.
type Bag struct {
	items []Diagnostic
}

// Add appends diagnostics to the bag.
func (b *Bag) Add(diags ...Diagnostic) {
	b.items = append(b.items, diags...)
}

// Len returns the number of accumulated diagnostics.
func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a copy of the accumulated diagnostics.
func (b *Bag) Items() []Diagnostic {
	return slices.Clone(b.items)
}

// Since returns the diagnostics added after the bag had mark entries.
func (b *Bag) Since(mark int) []Diagnostic {
	if mark >= len(b.items) {
		return nil
	}
	return slices.Clone(b.items[mark:])
}
