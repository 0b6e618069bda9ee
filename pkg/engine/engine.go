// Package engine runs the full Razor pipeline on a document: parse, hoist
// whitespace, bind tag helpers and generate C#.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/razorparse/pkg/codegen"
	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/directive"
	"github.com/yaklabco/razorparse/pkg/language"
	"github.com/yaklabco/razorparse/pkg/parser"
	"github.com/yaklabco/razorparse/pkg/rewrite"
	"github.com/yaklabco/razorparse/pkg/source"
	"github.com/yaklabco/razorparse/pkg/syntax"
	"github.com/yaklabco/razorparse/pkg/taghelper"
)

// Pipeline errors.
var (
	// ErrNilDocument indicates Process was called without a document.
	ErrNilDocument = errors.New("nil document")

	// ErrNilResult indicates Reparse was called without a previous result.
	ErrNilResult = errors.New("nil previous result")
)

// Result is the outcome of processing one document.
type Result struct {
	// Tree is the rewritten syntax tree.
	Tree *syntax.Tree

	// Generated is the C# output, nil when code generation is disabled.
	Generated *codegen.Document

	// Diagnostics holds every diagnostic of the tree in source order.
	Diagnostics []diagnostic.Diagnostic
}

// Source returns the document the result was produced from.
func (r *Result) Source() *source.Document {
	return r.Tree.Source
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	return diagnostic.HasErrors(r.Diagnostics)
}

// Engine runs the pipeline. An Engine holds no mutable state and may be
// shared between goroutines.
type Engine struct {
	// Options are the parser options. A nil Options.Directives selects the
	// defaults for the file kind implied by each document's path.
	Options language.Options

	// Directives are registered on top of the defaults when Options.Directives
	// is nil.
	Directives []*directive.Descriptor

	// Codegen configures C# generation.
	Codegen codegen.Options

	// Binder holds the tag helpers in scope. Nil disables tag helper binding.
	Binder *taghelper.Binder

	// SkipCodegen stops the pipeline after rewriting.
	SkipCodegen bool
}

// New creates an Engine with the latest language version, default directives
// and line pragmas enabled.
func New(binder *taghelper.Binder) *Engine {
	return &Engine{
		Options: language.Options{Version: language.Latest},
		Codegen: codegen.DefaultOptions(),
		Binder:  binder,
	}
}

// OptionsFor returns the parser options used for a document at path.
func (e *Engine) OptionsFor(path string) language.Options {
	opts := e.Options
	if opts.Version == 0 {
		opts.Version = language.Latest
	}
	if opts.Directives == nil {
		opts.FileKind = language.FileKindFromPath(path)
		opts.Directives = language.DefaultDirectives(opts.FileKind).With(e.Directives...)
	}
	return opts
}

// Process runs every stage on doc.
func (e *Engine) Process(ctx context.Context, doc *source.Document) (*Result, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	tree, err := parser.Parse(ctx, doc, e.OptionsFor(doc.Path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", doc.Path, err)
	}

	tree, err = rewrite.Whitespace(tree)
	if err != nil {
		return nil, fmt.Errorf("rewrite %s: %w", doc.Path, err)
	}

	tree, err = rewrite.TagHelpers(tree, e.Binder)
	if err != nil {
		return nil, fmt.Errorf("rewrite %s: %w", doc.Path, err)
	}

	result := &Result{
		Tree:        tree,
		Diagnostics: diagnostic.Sorted(tree.AllDiagnostics()),
	}
	if e.SkipCodegen {
		return result, nil
	}

	// Generation walks the whole tree again; give cancellation a chance
	// before starting it.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Generated, err = codegen.Generate(tree, e.Codegen)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", doc.Path, err)
	}
	return result, nil
}

// Reparse applies changes to the document of prev and processes the new
// text. prev is left untouched.
func (e *Engine) Reparse(ctx context.Context, prev *Result, changes ...source.Change) (*Result, error) {
	if prev == nil || prev.Tree == nil {
		return nil, ErrNilResult
	}

	doc, err := prev.Source().Apply(changes...)
	if err != nil {
		return nil, fmt.Errorf("apply changes: %w", err)
	}
	return e.Process(ctx, doc)
}
