package codegen

import (
	"path"
	"strings"

	"github.com/yaklabco/razorparse/pkg/language"
)

// Options configure code generation.
type Options struct {
	// Namespace is the namespace of the generated class when the document
	// has no @namespace directive. Empty selects a default per file kind.
	Namespace string

	// ClassName overrides the class name derived from the document path.
	ClassName string

	// LinePragmas wraps code copied from the source in "#line" regions.
	LinePragmas bool

	// DesignTime emits a helper method that maps every directive token.
	DesignTime bool
}

// DefaultOptions returns options with line pragmas enabled.
func DefaultOptions() Options {
	return Options{LinePragmas: true}
}

// Default namespaces.
const (
	DefaultNamespace          = "AspNetCore"
	DefaultComponentNamespace = "Components"
)

func (o Options) namespace(kind language.FileKind) string {
	switch {
	case o.Namespace != "":
		return o.Namespace
	case kind.IsComponent():
		return DefaultComponentNamespace
	default:
		return DefaultNamespace
	}
}

// ClassNameFor derives a class name from a document path: the file name
// without its extension, made into a valid identifier. "_Host.cshtml"
// becomes "_Host", "my-page.razor" becomes "my_page".
func ClassNameFor(filePath string) string {
	base := path.Base(strings.ReplaceAll(filePath, "\\", "/"))
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if base == "" || base == "." || base == "/" {
		return "Template"
	}
	return identifier(base)
}
