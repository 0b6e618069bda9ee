package codegen

import (
	"strconv"
	"strings"

	"github.com/yaklabco/razorparse/pkg/source"
)

const indentUnit = "    "

// maxPadWidth bounds column padding so long single-line sources keep the
// output linear in the input.
const maxPadWidth = 256

// pendingMapping is a mapping whose generated side is still an offset.
type pendingMapping struct {
	original source.Span
	start    int
	length   int
}

// codeWriter accumulates generated text and tracks the generated position
// of everything copied from the source.
type codeWriter struct {
	buf    strings.Builder
	line   int
	col    int
	indent int

	path        string
	linePragmas bool
	padColumns  bool
	depth       int

	mappings []pendingMapping
	pragmas  []LinePragma
}

func (w *codeWriter) write(text string) {
	w.buf.WriteString(text)
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		w.line += strings.Count(text, "\n")
		w.col = len(text) - i - 1
		return
	}
	w.col += len(text)
}

// startLine moves to the start of a fresh line and writes the indentation.
func (w *codeWriter) startLine() {
	if w.col > 0 {
		w.write("\n")
	}
	w.write(strings.Repeat(indentUnit, w.indent))
}

// writeLine writes text on a line of its own.
func (w *codeWriter) writeLine(text string) {
	w.startLine()
	w.write(text)
	w.write("\n")
}

// endLine terminates the current line if anything was written on it.
func (w *codeWriter) endLine() {
	if w.col > 0 {
		w.write("\n")
	}
}

// pad writes spaces so the next text lands on column col. It only acts at
// the start of a line in design-time output, and never past maxPadWidth.
func (w *codeWriter) pad(col int) {
	if !w.padColumns || w.col != 0 || col <= 0 {
		return
	}
	w.write(strings.Repeat(" ", min(col, maxPadWidth)))
}

// mapped copies text taken from span in the source.
func (w *codeWriter) mapped(span source.Span, text string) {
	if text == "" {
		return
	}
	w.mappings = append(w.mappings, pendingMapping{original: span, start: w.buf.Len(), length: len(text)})
	w.write(text)
}

// region runs emit inside a "#line" region pointing at span. Nested regions
// share the outermost directive.
func (w *codeWriter) region(span source.Span, lines int, emit func()) {
	if w.depth > 0 {
		w.depth++
		emit()
		w.depth--
		return
	}

	w.endLine()
	if !w.linePragmas {
		w.depth++
		emit()
		w.depth--
		w.endLine()
		return
	}

	w.write("#line " + strconv.Itoa(span.LineIndex+1) + " \"" + w.path + "\"\n")
	w.pragmas = append(w.pragmas, LinePragma{
		StartLineIndex:     span.LineIndex,
		LineCount:          lines,
		FilePath:           w.path,
		GeneratedLineIndex: w.line,
	})

	w.depth++
	emit()
	w.depth--

	w.endLine()
	w.write("#line default\n#line hidden\n")
}

// resolve resolves the pending mappings against the finished text.
func (w *codeWriter) resolve(doc *source.Document) []Mapping {
	out := make([]Mapping, 0, len(w.mappings))
	for _, m := range w.mappings {
		out = append(out, Mapping{Original: m.original, Generated: doc.Span(m.start, m.length)})
	}
	return out
}
