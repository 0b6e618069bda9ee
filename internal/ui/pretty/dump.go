package pretty

import (
	"fmt"
	"strconv"

	"github.com/yaklabco/razorparse/pkg/source"
	"github.com/yaklabco/razorparse/pkg/syntax"
)

// kindColumnWidth aligns token kinds in token listings.
const kindColumnWidth = 26

// FormatToken formats one token of a token listing as
// "line:col  Kind  "content"". Zero-width tokens show as <marker>.
func (s *Styles) FormatToken(doc *source.Document, offset int, tok syntax.Token) string {
	line, col := doc.LineAt(offset)
	location := s.Range.Render(padRight(fmt.Sprintf("%d:%d", line, col), 8))

	content := "<marker>"
	if !tok.IsEmpty() {
		content = strconv.Quote(tok.Content)
	}
	return fmt.Sprintf("%s %s %s\n",
		location,
		s.TokenKind.Render(padRight(tok.Kind.String(), kindColumnWidth)),
		s.Literal.Render(content),
	)
}

func padRight(text string, width int) string {
	for len(text) < width {
		text += " "
	}
	return text
}
