// Package source provides the immutable source model shared by every stage of
// the Razor pipeline: documents with a line index, spans and text changes.
package source

import (
	"bytes"
	"fmt"
)

// EncodingUTF8 is the only encoding documents are decoded from.
const EncodingUTF8 = "utf-8"

//nolint:gochecknoglobals // Read-only byte sequence.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is an immutable, line-indexed view of a Razor source file.
// A Document is created once per parse request and never mutated; it is safe
// to share between goroutines.
type Document struct {
	// Path is the file identity. It may be empty for in-memory documents.
	Path string

	// Content holds the raw bytes of the document.
	Content []byte

	// Encoding names the text encoding of Content.
	Encoding string

	// HasBOM reports whether Content starts with a UTF-8 byte order mark.
	HasBOM bool

	// Lines holds precomputed line boundaries.
	Lines []LineInfo

	text string
}

// NewDocument creates a Document from path and content.
// The content is copied so callers may reuse their buffer.
func NewDocument(path string, content []byte) *Document {
	owned := make([]byte, len(content))
	copy(owned, content)

	return &Document{
		Path:     path,
		Content:  owned,
		Encoding: EncodingUTF8,
		HasBOM:   bytes.HasPrefix(owned, utf8BOM),
		Lines:    BuildLines(owned),
		text:     string(owned),
	}
}

// NewDocumentString is a convenience wrapper around NewDocument.
func NewDocumentString(path, content string) *Document {
	return NewDocument(path, []byte(content))
}

// Len returns the document length in bytes.
func (d *Document) Len() int {
	return len(d.Content)
}

// Contents returns the whole document as a string. Documents built by
// NewDocument convert their content once; the result shares that string.
func (d *Document) Contents() string {
	if d.text == "" && len(d.Content) > 0 {
		return string(d.Content)
	}
	return d.text
}

// Text returns the document text in [start, end). Out-of-range bounds are clamped.
func (d *Document) Text(start, end int) string {
	start = clamp(start, 0, len(d.Content))
	end = clamp(end, start, len(d.Content))
	return d.Contents()[start:end]
}

// SpanText returns the text addressed by span.
func (d *Document) SpanText(span Span) string {
	return d.Text(span.AbsoluteIndex, span.End())
}

// Span derives a fully positioned span for [start, start+length). The span
// is clamped to the document.
func (d *Document) Span(start, length int) Span {
	loc := d.Location(start)
	return Span{
		FilePath:       d.Path,
		AbsoluteIndex:  loc.AbsoluteIndex,
		Length:         clamp(length, 0, len(d.Content)-loc.AbsoluteIndex),
		LineIndex:      loc.LineIndex,
		CharacterIndex: loc.CharacterIndex,
	}
}

// Location converts a byte offset to a 0-based line and character index.
// Offsets past the end of the document are clamped to the end.
func (d *Document) Location(offset int) Location {
	offset = clamp(offset, 0, len(d.Content))

	line, col := d.LineAt(offset)
	if line == 0 {
		return Location{AbsoluteIndex: offset}
	}

	return Location{
		AbsoluteIndex:  offset,
		LineIndex:      line - 1,
		CharacterIndex: col - 1,
	}
}

// Offset converts a 0-based line and character index to a byte offset.
func (d *Document) Offset(lineIndex, characterIndex int) (int, error) {
	offset, ok := d.offset(lineIndex+1, characterIndex+1)
	if !ok {
		return 0, fmt.Errorf("%w: line %d, character %d", ErrPositionOutOfRange, lineIndex, characterIndex)
	}
	return offset, nil
}

func clamp(value, lower, upper int) int {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
