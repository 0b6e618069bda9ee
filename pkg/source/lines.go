package source

import "sort"

// LineInfo describes the byte range of a single line.
type LineInfo struct {
	// StartOffset is the offset of the first byte of the line.
	StartOffset int

	// NewlineStart is the offset of the line terminator, or EndOffset when
	// the line has none.
	NewlineStart int

	// EndOffset is the offset just past the line terminator.
	EndOffset int
}

// BuildLines constructs line metadata from content.
// LF, CRLF and a lone CR all terminate a line.
func BuildLines(content []byte) []LineInfo {
	lines := make([]LineInfo, 0, 1+len(content)/40)
	lineStart := 0

	for idx := 0; idx < len(content); idx++ {
		switch content[idx] {
		case '\r':
			end := idx + 1
			if end < len(content) && content[end] == '\n' {
				end++
			}
			lines = append(lines, LineInfo{StartOffset: lineStart, NewlineStart: idx, EndOffset: end})
			lineStart = end
			idx = end - 1
		case '\n':
			lines = append(lines, LineInfo{StartOffset: lineStart, NewlineStart: idx, EndOffset: idx + 1})
			lineStart = idx + 1
		}
	}

	// The last line may be empty and has no terminator.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes.
// Returns (0, 0) if the offset is out of range.
func (d *Document) LineAt(offset int) (int, int) {
	if offset < 0 || offset > len(d.Content) || len(d.Lines) == 0 {
		return 0, 0
	}

	lineIdx := sort.Search(len(d.Lines), func(i int) bool {
		return d.Lines[i].EndOffset > offset
	})

	if lineIdx >= len(d.Lines) {
		lineIdx = len(d.Lines) - 1
	}

	info := d.Lines[lineIdx]
	if offset < info.StartOffset {
		return 0, 0
	}

	return lineIdx + 1, offset - info.StartOffset + 1
}

// offset converts 1-based line and column numbers to a byte offset.
func (d *Document) offset(line, col int) (int, bool) {
	if line < 1 || line > len(d.Lines) || col < 1 {
		return 0, false
	}

	info := d.Lines[line-1]
	offset := info.StartOffset + col - 1

	// Column may point just past the line content (cursor at end of line).
	if offset > info.NewlineStart {
		return 0, false
	}

	return offset, true
}

// LineContent returns the content of a 1-based line, excluding the terminator.
// Returns nil if the line number is out of range.
func (d *Document) LineContent(line int) []byte {
	if line < 1 || line > len(d.Lines) {
		return nil
	}

	info := d.Lines[line-1]
	return d.Content[info.StartOffset:info.NewlineStart]
}
