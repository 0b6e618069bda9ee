package codegen

import (
	"strconv"

	"github.com/yaklabco/razorparse/pkg/language"
)

// target holds the runtime API the generated class is written against.
type target struct {
	usings          []string
	baseType        string
	generic         bool
	method          string
	injectAttribute string
	routeAttribute  string

	// builder is the render tree builder variable; empty for views, which
	// write through WriteLiteral and Write.
	builder string
}

func targetFor(kind language.FileKind) target {
	if kind.IsComponent() {
		return target{
			usings: []string{
				"global::System",
				"global::System.Collections.Generic",
				"global::System.Linq",
				"global::System.Threading.Tasks",
				"global::Microsoft.AspNetCore.Components",
			},
			baseType:        "global::Microsoft.AspNetCore.Components.ComponentBase",
			method:          "protected override void BuildRenderTree(global::Microsoft.AspNetCore.Components.Rendering.RenderTreeBuilder __builder)",
			injectAttribute: "[global::Microsoft.AspNetCore.Components.InjectAttribute]",
			routeAttribute:  "[global::Microsoft.AspNetCore.Components.RouteAttribute",
			builder:         "__builder",
		}
	}
	return target{
		usings: []string{
			"System",
			"System.Collections.Generic",
			"System.Linq",
			"System.Threading.Tasks",
			"Microsoft.AspNetCore.Mvc",
			"Microsoft.AspNetCore.Mvc.Rendering",
			"Microsoft.AspNetCore.Mvc.ViewFeatures",
		},
		baseType:        "global::Microsoft.AspNetCore.Mvc.Razor.RazorPage",
		generic:         true,
		method:          "public async override global::System.Threading.Tasks.Task ExecuteAsync()",
		injectAttribute: "[global::Microsoft.AspNetCore.Mvc.Razor.Internal.RazorInjectAttribute]",
		routeAttribute:  "[global::Microsoft.AspNetCore.Mvc.RazorPages.Infrastructure.RazorPageAttribute",
	}
}

// writeLiteral returns the statement that renders markup.
func (g *generator) writeLiteral(literal string) string {
	if g.target.builder == "" {
		return "WriteLiteral(" + quote(literal) + ");"
	}
	g.sequence++
	return g.target.builder + ".AddMarkupContent(" + strconv.Itoa(g.sequence) + ", " + quote(literal) + ");"
}

// writePrefix returns the text that opens an expression write; the
// expression is followed by ");".
func (g *generator) writePrefix() string {
	if g.target.builder == "" {
		return "Write("
	}
	g.sequence++
	return g.target.builder + ".AddContent(" + strconv.Itoa(g.sequence) + ", "
}
