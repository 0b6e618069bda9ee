package source

import (
	"errors"
	"fmt"
)

// ErrPositionOutOfRange is returned when a line/character pair does not
// address a position inside the document.
var ErrPositionOutOfRange = errors.New("position out of range")

// Location is a 0-based position in a document.
type Location struct {
	AbsoluteIndex  int
	LineIndex      int
	CharacterIndex int
}

// Span is a positioned range of a document. It is a value type; spans are
// derived from a Document and never mutated.
type Span struct {
	// FilePath identifies the document the span belongs to.
	FilePath string

	// AbsoluteIndex is the byte offset of the first byte.
	AbsoluteIndex int

	// Length is the number of bytes covered.
	Length int

	// LineIndex is the 0-based line of AbsoluteIndex.
	LineIndex int

	// CharacterIndex is the 0-based byte column of AbsoluteIndex.
	CharacterIndex int
}

// Undefined is the zero-width span used by diagnostics without a location.
//
//nolint:gochecknoglobals // Immutable sentinel value.
var Undefined = Span{AbsoluteIndex: -1, LineIndex: -1, CharacterIndex: -1}

// End returns the offset just past the span.
func (s Span) End() int {
	return s.AbsoluteIndex + s.Length
}

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool {
	return s.Length == 0
}

// IsUndefined reports whether the span carries no location.
func (s Span) IsUndefined() bool {
	return s.AbsoluteIndex < 0
}

// Contains reports whether offset lies inside [AbsoluteIndex, End).
func (s Span) Contains(offset int) bool {
	return offset >= s.AbsoluteIndex && offset < s.End()
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.AbsoluteIndex < other.End() && other.AbsoluteIndex < s.End()
}

// WithLength returns a copy of s with a different length.
func (s Span) WithLength(length int) Span {
	s.Length = length
	return s
}

// String renders the span as path(line,character) using 1-based numbers.
func (s Span) String() string {
	if s.IsUndefined() {
		return s.FilePath
	}
	return fmt.Sprintf("%s(%d,%d)", s.FilePath, s.LineIndex+1, s.CharacterIndex+1)
}
