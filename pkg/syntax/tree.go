package syntax

import (
	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/language"
	"github.com/yaklabco/razorparse/pkg/source"
)

// Tree is the result of a parse: the root node, the source it covers, the
// options it was parsed with and the diagnostics not attached to a node.
type Tree struct {
	Root        *Node
	Source      *source.Document
	Options     language.Options
	Diagnostics []diagnostic.Diagnostic
}

// NewTree returns a tree over doc.
func NewTree(root *Node, doc *source.Document, opts language.Options, diags []diagnostic.Diagnostic) *Tree {
	return &Tree{Root: root, Source: doc, Options: opts, Diagnostics: diags}
}

// WithRoot returns a copy of t with a new root. Tree diagnostics are kept.
func (t *Tree) WithRoot(root *Node) *Tree {
	c := *t
	c.Root = root
	return &c
}

// WithDiagnostics returns a copy of t with diags appended to the tree-level
// diagnostics.
func (t *Tree) WithDiagnostics(diags ...diagnostic.Diagnostic) *Tree {
	if len(diags) == 0 {
		return t
	}
	c := *t
	c.Diagnostics = append(append([]diagnostic.Diagnostic(nil), t.Diagnostics...), diags...)
	return &c
}

// AllDiagnostics returns the tree diagnostics and every node diagnostic,
// sorted by position with duplicates removed.
func (t *Tree) AllDiagnostics() []diagnostic.Diagnostic {
	all := append([]diagnostic.Diagnostic(nil), t.Diagnostics...)

	//nolint:errcheck,revive // the callback never fails
	Walk(t.Root, func(n *Node) error {
		all = append(all, n.diagnostics...)
		return nil
	})

	return diagnostic.Sorted(all)
}

// HasErrors reports whether any diagnostic is an error.
func (t *Tree) HasErrors() bool {
	return diagnostic.HasErrors(t.AllDiagnostics())
}

// Span returns the source span of a positioned node.
func (t *Tree) Span(c Cursor) source.Span {
	return t.Source.Span(c.Offset, c.Node.Width())
}
