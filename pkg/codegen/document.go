package codegen

import (
	"fmt"

	"github.com/yaklabco/razorparse/pkg/source"
)

// Mapping pairs a region of the Razor source with the region of generated
// code it was copied to. Both regions hold identical text.
type Mapping struct {
	Original  source.Span
	Generated source.Span
}

// LinePragma records a "#line" region of the generated code.
type LinePragma struct {
	// StartLineIndex is the 0-based source line the region maps to.
	StartLineIndex int

	// LineCount is the number of source lines the region covers.
	LineCount int

	FilePath string

	// GeneratedLineIndex is the 0-based generated line of the first mapped
	// line, just after the "#line" directive.
	GeneratedLineIndex int
}

// Document is the generated C# for one Razor document.
type Document struct {
	// Path names the generated file, e.g. "Index.cshtml.g.cs".
	Path string

	Text      string
	Namespace string
	ClassName string

	// Mappings are in generated-code order.
	Mappings []Mapping
	Pragmas  []LinePragma
}

// MappingError reports a mapping whose two regions differ. It indicates a
// generator bug.
type MappingError struct {
	Mapping   Mapping
	Original  string
	Generated string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping %s -> [%d:%d]: source %q, generated %q",
		e.Mapping.Original, e.Mapping.Generated.AbsoluteIndex, e.Mapping.Generated.End(),
		e.Original, e.Generated)
}

// Verify checks that every mapping of gen addresses the same text in doc and
// in the generated code.
func Verify(doc *source.Document, gen *Document) error {
	if doc == nil || gen == nil {
		return ErrNilInput
	}
	for _, m := range gen.Mappings {
		orig, out := m.Original, m.Generated
		if orig.AbsoluteIndex < 0 || orig.End() > doc.Len() || out.AbsoluteIndex < 0 || out.End() > len(gen.Text) {
			return &MappingError{Mapping: m}
		}
		want := doc.SpanText(orig)
		got := gen.Text[out.AbsoluteIndex:out.End()]
		if want != got {
			return &MappingError{Mapping: m, Original: want, Generated: got}
		}
	}
	return nil
}

// MapToGenerated translates a source offset into the generated code. It
// reports false when the offset is not inside a mapped region.
func (d *Document) MapToGenerated(offset int) (int, bool) {
	for _, m := range d.Mappings {
		if offset >= m.Original.AbsoluteIndex && offset <= m.Original.End() {
			return m.Generated.AbsoluteIndex + offset - m.Original.AbsoluteIndex, true
		}
	}
	return 0, false
}

// MapToOriginal translates a generated offset back into the source.
func (d *Document) MapToOriginal(offset int) (int, bool) {
	for _, m := range d.Mappings {
		if offset >= m.Generated.AbsoluteIndex && offset <= m.Generated.End() {
			return m.Original.AbsoluteIndex + offset - m.Generated.AbsoluteIndex, true
		}
	}
	return 0, false
}
