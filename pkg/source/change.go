package source

import (
	"bytes"
	"fmt"
	"slices"
)

// Change replaces the bytes addressed by Span with NewText.
// A zero-length span is an insertion; an empty NewText is a deletion.
type Change struct {
	Span    Span
	NewText string
}

// NewChange creates a change replacing [start, end) with text.
// Only the absolute offsets are set; line information is not needed to apply it.
func NewChange(start, end int, text string) Change {
	return Change{
		Span:    Span{AbsoluteIndex: start, Length: end - start},
		NewText: text,
	}
}

// IsInsert reports whether the change only adds text.
func (c Change) IsInsert() bool {
	return c.Span.Length == 0 && c.NewText != ""
}

// IsDelete reports whether the change only removes text.
func (c Change) IsDelete() bool {
	return c.Span.Length > 0 && c.NewText == ""
}

// IsReplace reports whether the change removes and adds text.
func (c Change) IsReplace() bool {
	return c.Span.Length > 0 && c.NewText != ""
}

// ChangeError describes a change that does not fit the document.
type ChangeError struct {
	Change  Change
	Message string
}

func (e *ChangeError) Error() string {
	return fmt.Sprintf("invalid change [%d:%d]: %s", e.Change.Span.AbsoluteIndex, e.Change.Span.End(), e.Message)
}

// ConflictError describes two changes touching the same region.
type ConflictError struct {
	First  Change
	Second Change
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping changes: [%d:%d] and [%d:%d]",
		e.First.Span.AbsoluteIndex, e.First.Span.End(),
		e.Second.Span.AbsoluteIndex, e.Second.Span.End())
}

// Apply returns a new document with changes applied. The receiver is not modified.
// Changes are expressed against the receiver's content and may be given in any order.
func (d *Document) Apply(changes ...Change) (*Document, error) {
	if len(changes) == 0 {
		return d, nil
	}

	sorted := slices.Clone(changes)
	for _, change := range sorted {
		if err := d.validateChange(change); err != nil {
			return nil, err
		}
	}

	slices.SortStableFunc(sorted, func(a, b Change) int {
		if a.Span.AbsoluteIndex != b.Span.AbsoluteIndex {
			return a.Span.AbsoluteIndex - b.Span.AbsoluteIndex
		}
		return a.Span.End() - b.Span.End()
	})

	for i := 1; i < len(sorted); i++ {
		prev, next := sorted[i-1], sorted[i]
		if next.Span.AbsoluteIndex < prev.Span.End() ||
			(next.Span.AbsoluteIndex == prev.Span.AbsoluteIndex && prev.Span.Length == 0 && next.Span.Length == 0) {
			return nil, &ConflictError{First: prev, Second: next}
		}
	}

	delta := 0
	for _, change := range sorted {
		delta += len(change.NewText) - change.Span.Length
	}

	var out bytes.Buffer
	out.Grow(len(d.Content) + delta)

	cursor := 0
	for _, change := range sorted {
		out.Write(d.Content[cursor:change.Span.AbsoluteIndex])
		out.WriteString(change.NewText)
		cursor = change.Span.End()
	}
	out.Write(d.Content[cursor:])

	return NewDocument(d.Path, out.Bytes()), nil
}

func (d *Document) validateChange(change Change) error {
	switch {
	case change.Span.AbsoluteIndex < 0:
		return &ChangeError{Change: change, Message: "start offset is negative"}
	case change.Span.Length < 0:
		return &ChangeError{Change: change, Message: "length is negative"}
	case change.Span.End() > len(d.Content):
		return &ChangeError{
			Change:  change,
			Message: fmt.Sprintf("end offset %d exceeds content length %d", change.Span.End(), len(d.Content)),
		}
	}
	return nil
}
