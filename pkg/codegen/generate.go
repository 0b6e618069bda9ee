// Package codegen linearizes a Razor syntax tree into a C# class and
// records where every piece of copied code came from. Each mapping pairs a
// source span with a generated span holding the same text; Generate checks
// that before returning.
package codegen

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/yaklabco/razorparse/pkg/directive"
	"github.com/yaklabco/razorparse/pkg/source"
	"github.com/yaklabco/razorparse/pkg/syntax"
	"github.com/yaklabco/razorparse/pkg/taghelper"
)

// ErrNilInput is returned when Generate or Verify is given nothing to work on.
var ErrNilInput = errors.New("codegen: nil input")

// checksumAlgorithm identifies SHA-256 in "#pragma checksum".
const checksumAlgorithm = "{8829d00f-11b8-4213-878b-770e8597ac16}"

// Generate produces the C# class for tree. The result is verified with
// Verify; a failure is returned as a *MappingError.
func Generate(tree *syntax.Tree, opts Options) (*Document, error) {
	if tree == nil || tree.Root == nil || tree.Source == nil {
		return nil, ErrNilInput
	}

	g := newGenerator(tree, opts)
	g.writeDocument()

	text := g.w.buf.String()
	genDoc := source.NewDocumentString(g.w.path+".g.cs", text)
	doc := &Document{
		Path:      genDoc.Path,
		Text:      text,
		Namespace: g.namespace,
		ClassName: g.className,
		Mappings:  g.w.resolve(genDoc),
		Pragmas:   g.w.pragmas,
	}
	if err := Verify(tree.Source, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

type generator struct {
	tree   *syntax.Tree
	src    *source.Document
	opts   Options
	target target
	w      *codeWriter

	directives []*directiveUse
	helpers    []*taghelper.Descriptor

	namespace string
	className string

	// markup buffers literal markup until the next piece of code.
	markup   strings.Builder
	sequence int

	// expression is set while copying the code of an expression.
	expression int
}

func newGenerator(tree *syntax.Tree, opts Options) *generator {
	path := tree.Source.Path
	if path == "" {
		path = "template"
	}
	g := &generator{
		tree:       tree,
		src:        tree.Source,
		opts:       opts,
		target:     targetFor(tree.Options.FileKind),
		w:          &codeWriter{path: path, linePragmas: opts.LinePragmas, padColumns: opts.DesignTime},
		directives: collectDirectives(tree),
		helpers:    collectTagHelpers(tree.Root),
		namespace:  opts.namespace(tree.Options.FileKind),
		className:  opts.ClassName,
	}
	if g.className == "" {
		g.className = ClassNameFor(tree.Source.Path)
	}
	if use := g.first(directive.Namespace.Directive); use != nil {
		if tok, ok := use.token(directive.TokenNamespace); ok {
			g.namespace = tok.text
		}
	}
	return g
}

// first returns the first use of the named directive.
func (g *generator) first(name string) *directiveUse {
	for _, use := range g.directives {
		if use.is(name) {
			return use
		}
	}
	return nil
}

func (g *generator) all(name string) []*directiveUse {
	var out []*directiveUse
	for _, use := range g.directives {
		if use.is(name) {
			out = append(out, use)
		}
	}
	return out
}

func (g *generator) writeDocument() {
	sum := sha256.Sum256(g.src.Content)
	g.w.writeLine("// <auto-generated/>")
	g.w.writeLine(`#pragma checksum "` + g.w.path + `" "` + checksumAlgorithm + `" "` + hex.EncodeToString(sum[:]) + `"`)
	g.w.writeLine("#pragma warning disable 1591")

	g.w.startLine()
	g.w.write("namespace ")
	if use := g.first(directive.Namespace.Directive); use != nil && len(use.tokens) > 0 {
		g.w.mapped(use.tokens[0].span, use.tokens[0].text)
	} else {
		g.w.write(g.namespace)
	}
	g.w.write("\n")
	g.w.writeLine("{")
	g.w.indent++

	g.writeUsings()
	g.writeClass()

	g.w.indent--
	g.w.writeLine("}")
	g.w.writeLine("#pragma warning restore 1591")
}

func (g *generator) writeUsings() {
	g.w.writeLine("#line hidden")
	for _, ns := range g.target.usings {
		g.w.writeLine("using " + ns + ";")
	}
	for _, use := range g.all(directive.Using.Directive) {
		tok, ok := use.token(directive.TokenNamespace)
		if !ok {
			continue
		}
		g.w.region(tok.span, 1, func() {
			g.w.pad(tok.span.CharacterIndex - len("using "))
			g.w.write("using ")
			g.w.mapped(tok.span, tok.text)
			g.w.write(";")
		})
	}
}

//nolint:funlen // one class declaration
func (g *generator) writeClass() {
	for _, use := range g.all(directive.Attribute.Directive) {
		if tok, ok := use.token(directive.TokenAttribute); ok {
			g.w.region(tok.span, lineCount(tok.text), func() {
				g.w.pad(tok.span.CharacterIndex)
				g.w.mapped(tok.span, tok.text)
			})
		}
	}
	for _, use := range g.all(directive.Page.Directive) {
		if tok, ok := use.token(directive.TokenString); ok {
			g.w.startLine()
			g.w.write(g.target.routeAttribute + "(")
			g.w.mapped(tok.span, tok.text)
			g.w.write(")]\n")
		}
	}
	if use := g.first(directive.Layout.Directive); use != nil {
		if tok, ok := use.token(directive.TokenType); ok {
			g.w.startLine()
			g.w.write("[global::Microsoft.AspNetCore.Components.LayoutAttribute(typeof(")
			g.w.mapped(tok.span, tok.text)
			g.w.write("))]\n")
		}
	}

	g.w.startLine()
	g.w.write("public partial class " + g.className)
	var constraints []directiveToken
	if params := g.all(directive.TypeParam.Directive); len(params) > 0 {
		g.w.write("<")
		written := 0
		for _, use := range params {
			tok, ok := use.token(directive.TokenMember)
			if !ok {
				continue
			}
			if written > 0 {
				g.w.write(", ")
			}
			written++
			g.w.mapped(tok.span, tok.text)
			if constraint, ok := use.token(directive.TokenGenericTypeConstraint); ok {
				constraints = append(constraints, constraint)
			}
		}
		g.w.write(">")
	}
	g.w.write(" : ")
	g.writeBaseType()
	for _, use := range g.all(directive.Implements.Directive) {
		if tok, ok := use.token(directive.TokenType); ok {
			g.w.write(", ")
			g.w.mapped(tok.span, tok.text)
		}
	}
	for _, constraint := range constraints {
		g.w.write("\n" + strings.Repeat(indentUnit, g.w.indent+1))
		g.w.mapped(constraint.span, constraint.text)
	}
	g.w.write("\n")
	g.w.writeLine("{")
	g.w.indent++

	g.writeTagHelperFields()
	if g.opts.DesignTime {
		g.writeDirectiveTokenHelpers()
	}
	g.writeInjects()
	g.writeCodeBlocks()

	g.w.writeLine("#pragma warning disable 1998")
	g.w.writeLine(g.target.method)
	g.w.writeLine("{")
	g.w.indent++
	g.emit(g.tree.Root, 0)
	g.flush()
	g.w.indent--
	g.w.writeLine("}")
	g.w.writeLine("#pragma warning restore 1998")

	g.w.indent--
	g.w.writeLine("}")
}

func (g *generator) writeBaseType() {
	if use := g.first(directive.Inherits.Directive); use != nil {
		if tok, ok := use.token(directive.TokenType); ok {
			g.w.mapped(tok.span, tok.text)
			return
		}
	}
	if !g.target.generic {
		g.w.write(g.target.baseType)
		return
	}
	g.w.write(g.target.baseType + "<")
	model, ok := directiveToken{}, false
	if use := g.first(directive.Model.Directive); use != nil {
		model, ok = use.token(directive.TokenType)
	}
	if ok {
		g.w.mapped(model.span, model.text)
	} else {
		g.w.write("dynamic")
	}
	g.w.write(">")
}

func (g *generator) writeInjects() {
	for _, use := range g.all(directive.Inject.Directive) {
		typ, ok := use.token(directive.TokenType)
		if !ok {
			continue
		}
		member, hasMember := use.token(directive.TokenMember)

		g.w.writeLine(g.target.injectAttribute)
		g.w.region(typ.span, 1, func() {
			g.w.pad(typ.span.CharacterIndex - len("public "))
			g.w.write("public ")
			g.w.mapped(typ.span, typ.text)
			g.w.write(" ")
			if hasMember {
				g.w.mapped(member.span, member.text)
			} else {
				g.w.write("__inject" + identifier(typ.text))
			}
			g.w.write(" { get; private set; }")
		})
	}
}

// writeCodeBlocks copies the bodies of @functions, @code and other code
// block directives into the class.
func (g *generator) writeCodeBlocks() {
	for _, use := range g.directives {
		if use.desc.Usage != directive.CodeBlock || use.body == nil {
			continue
		}
		g.emit(use.body, use.bodyOffset)
		g.flush()
	}
}

// writeDirectiveTokenHelpers maps every directive token for tooling.
func (g *generator) writeDirectiveTokenHelpers() {
	g.w.writeLine("#pragma warning disable 219")
	g.w.writeLine("private void __RazorDirectiveTokenHelpers__() {")
	for _, use := range g.directives {
		for _, tok := range use.tokens {
			prefix, suffix, ok := tokenHelper(tok.desc.Kind)
			if !ok {
				continue
			}
			g.w.writeLine("((global::System.Action)(() => {")
			g.w.region(tok.span, 1, func() {
				g.w.pad(tok.span.CharacterIndex - len(prefix))
				g.w.write(prefix)
				g.w.mapped(tok.span, tok.text)
				g.w.write(suffix)
			})
			g.w.writeLine("}))();")
		}
	}
	g.w.writeLine("}")
	g.w.writeLine("#pragma warning restore 219")
}

func tokenHelper(kind directive.TokenKind) (prefix, suffix string, ok bool) {
	switch kind {
	case directive.TokenType:
		return "", " __typeHelper = default!;", true
	case directive.TokenNamespace:
		return "global::System.Object __typeHelper = nameof(", ");", true
	case directive.TokenMember:
		return "global::System.Object ", " = null!;", true
	case directive.TokenString, directive.TokenBoolean:
		return "global::System.Object __typeHelper = ", ";", true
	default:
		return "", "", false
	}
}

func lineCount(text string) int {
	return strings.Count(text, "\n") + 1
}
