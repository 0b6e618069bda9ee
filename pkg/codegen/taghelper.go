package codegen

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yaklabco/razorparse/pkg/syntax"
	"github.com/yaklabco/razorparse/pkg/taghelper"
)

const (
	runtimeTagHelpers = "global::Microsoft.AspNetCore.Razor.Runtime.TagHelpers."
	razorTagHelpers   = "global::Microsoft.AspNetCore.Razor.TagHelpers."
)

// collectTagHelpers returns the descriptors bound anywhere in root, in order
// of first use.
func collectTagHelpers(root *syntax.Node) []*taghelper.Descriptor {
	var out []*taghelper.Descriptor
	seen := make(map[*taghelper.Descriptor]bool)
	for _, cur := range syntax.Positioned(root, func(n *syntax.Node) bool {
		return n.Kind() == syntax.KindMarkupTagHelperElement && n.Annotations().Binding != nil
	}) {
		for _, desc := range cur.Node.Annotations().Binding.Descriptors {
			if !seen[desc] {
				seen[desc] = true
				out = append(out, desc)
			}
		}
	}
	return out
}

func helperField(desc *taghelper.Descriptor) string {
	return "__" + identifier(desc.DisplayName())
}

func helperType(desc *taghelper.Descriptor) string {
	return "global::" + desc.DisplayName()
}

// writeTagHelperFields declares the runtime plumbing and one field per tag
// helper type. Components instantiate through the builder and need none.
func (g *generator) writeTagHelperFields() {
	if len(g.helpers) == 0 || g.target.builder != "" {
		return
	}
	g.w.writeLine("#line hidden")
	g.w.writeLine("#pragma warning disable 0649")
	g.w.writeLine("private " + runtimeTagHelpers + "TagHelperExecutionContext __tagHelperExecutionContext;")
	g.w.writeLine("#pragma warning restore 0649")
	g.w.writeLine("private " + runtimeTagHelpers + "TagHelperRunner __tagHelperRunner = new " +
		runtimeTagHelpers + "TagHelperRunner();")
	g.w.writeLine("private " + runtimeTagHelpers + "TagHelperScopeManager __backed__tagHelperScopeManager = null;")
	g.w.writeLine("private " + runtimeTagHelpers + "TagHelperScopeManager __tagHelperScopeManager")
	g.w.writeLine("{")
	g.w.indent++
	g.w.writeLine("get")
	g.w.writeLine("{")
	g.w.indent++
	g.w.writeLine("if (__backed__tagHelperScopeManager == null)")
	g.w.writeLine("{")
	g.w.indent++
	g.w.writeLine("__backed__tagHelperScopeManager = new " + runtimeTagHelpers +
		"TagHelperScopeManager(StartTagHelperWritingScope, EndTagHelperWritingScope);")
	g.w.indent--
	g.w.writeLine("}")
	g.w.writeLine("return __backed__tagHelperScopeManager;")
	g.w.indent--
	g.w.writeLine("}")
	g.w.indent--
	g.w.writeLine("}")
	for _, desc := range g.helpers {
		g.w.writeLine("private " + helperType(desc) + " " + helperField(desc) + ";")
	}
}

// helperAttribute is one attribute written on a tag helper's start tag.
type helperAttribute struct {
	name  string
	bound *taghelper.BoundAttribute
	desc  *taghelper.Descriptor

	// value is the block between the quotes, nil for minimized attributes.
	value       *syntax.Node
	valueOffset int
	style       string
}

func (a helperAttribute) minimized() bool {
	return a.style == "Minimized"
}

func (a helperAttribute) valueText() string {
	if a.value == nil {
		return ""
	}
	return a.value.Text()
}

func helperAttributes(binding *taghelper.Binding, start *syntax.Node, offset int) []helperAttribute {
	var out []helperAttribute
	for _, child := range start.Children() {
		switch child.Kind() {
		case syntax.KindMarkupTagHelperAttribute, syntax.KindMarkupAttributeBlock, syntax.KindMarkupMinimizedAttributeBlock:
		default:
			offset += child.Width()
			continue
		}

		attr := helperAttribute{name: child.Annotations().Name, style: "Minimized"}
		if bound, desc, ok := binding.BoundAttribute(attr.name); ok {
			attr.bound, attr.desc = bound, desc
		}

		partOffset := offset
		for _, part := range child.Children() {
			switch {
			case part.Kind() == syntax.KindMarkupBlock:
				attr.value, attr.valueOffset = part, partOffset
			case attr.value == nil && strings.HasPrefix(strings.TrimSpace(part.Text()), "="):
				attr.style = quoteStyle(part.Text())
			}
			partOffset += part.Width()
		}
		out = append(out, attr)
		offset += child.Width()
	}
	return out
}

func quoteStyle(equals string) string {
	switch strings.TrimSpace(equals)[len(strings.TrimSpace(equals))-1] {
	case '"':
		return "DoubleQuotes"
	case '\'':
		return "SingleQuotes"
	default:
		return "NoQuotes"
	}
}

// valuePiece is either literal text or expression code inside an attribute
// value.
type valuePiece struct {
	code   bool
	text   string
	offset int
}

func valuePieces(node *syntax.Node, offset int, out []valuePiece) []valuePiece {
	switch node.Kind() {
	case syntax.KindCSharpImplicitExpression, syntax.KindCSharpExplicitExpression:
		if start, text, ok := expressionCode(node, offset); ok {
			out = append(out, valuePiece{code: true, text: text, offset: start})
		}
		return out
	case syntax.KindMarkupEphemeralTextLiteral, syntax.KindCSharpEphemeralTextLiteral, syntax.KindMarkupTransition,
		syntax.KindCSharpTransition, syntax.KindRazorComment:
		return out
	case syntax.KindToken:
		text := node.Token().Content
		if n := len(out); n > 0 && !out[n-1].code {
			out[n-1].text += text
			return out
		}
		return append(out, valuePiece{text: text, offset: offset})
	}
	for _, child := range node.Children() {
		out = valuePieces(child, offset, out)
		offset += child.Width()
	}
	return out
}

// tagHelperID derives a stable scope id from the document and the element
// position.
func (g *generator) tagHelperID(offset int) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(g.w.path+"#"+strconv.Itoa(offset)))
	return strings.ReplaceAll(id.String(), "-", "")
}

// tagHelper renders a bound element.
func (g *generator) tagHelper(node *syntax.Node, offset int) {
	ann := node.Annotations()
	children := node.Children()
	start := children[0]
	body := children[1:]
	if n := len(body); n > 0 && body[n-1].Kind() == syntax.KindMarkupTagHelperEndTag {
		body = body[:n-1]
	}
	attrs := helperAttributes(ann.Binding, start, offset)
	g.flush()

	if g.target.builder != "" {
		g.component(ann.Binding, attrs, body, offset+start.Width())
		return
	}

	g.w.writeLine("__tagHelperExecutionContext = __tagHelperScopeManager.Begin(" + quote(ann.Name) + ", " +
		razorTagHelpers + "TagMode." + ann.TagMode.String() + ", " + quote(g.tagHelperID(offset)) + ", async() => {")
	g.w.indent++
	g.emitChildren(body, offset+start.Width())
	g.flush()
	g.w.indent--
	g.w.writeLine("}")
	g.w.writeLine(");")

	for _, desc := range ann.Binding.Descriptors {
		field := helperField(desc)
		g.w.writeLine(field + " = CreateTagHelper<" + helperType(desc) + ">();")
		g.w.writeLine("__tagHelperExecutionContext.Add(" + field + ");")
	}

	for _, attr := range attrs {
		if attr.bound == nil {
			g.htmlAttribute(attr)
			continue
		}
		g.boundAttribute(attr)
	}

	g.w.writeLine("await __tagHelperRunner.RunAsync(__tagHelperExecutionContext);")
	g.w.writeLine("if (!__tagHelperExecutionContext.Output.IsContentModified)")
	g.w.writeLine("{")
	g.w.indent++
	g.w.writeLine("await __tagHelperExecutionContext.SetOutputContentAsync();")
	g.w.indent--
	g.w.writeLine("}")
	g.w.writeLine("Write(__tagHelperExecutionContext.Output);")
	g.w.writeLine("__tagHelperExecutionContext = __tagHelperScopeManager.End();")
}

// property returns the member an attribute assigns.
func property(attr helperAttribute) string {
	target := helperField(attr.desc) + "." + attr.bound.PropertyName
	if prefix := attr.bound.IndexerNamePrefix; prefix != "" && len(attr.name) > len(prefix) {
		target += "[" + quote(attr.name[len(prefix):]) + "]"
	}
	return target
}

func (g *generator) boundAttribute(attr helperAttribute) {
	target := property(attr)
	switch {
	case attr.minimized():
		g.w.writeLine(target + " = true;")
	case attr.bound.IsStringProperty():
		g.w.startLine()
		g.w.write(target + " = ")
		g.concat(attr.value, attr.valueOffset)
		g.w.write(";\n")
	default:
		start, text := g.codeValue(attr)
		if strings.TrimSpace(text) == "" {
			g.w.writeLine(target + " = default;")
			break
		}
		span := g.src.Span(start, len(text))
		g.w.region(span, lineCount(text), func() {
			g.w.pad(span.CharacterIndex - len(target) - len(" = "))
			g.w.write(target + " = ")
			g.w.mapped(span, text)
			g.w.write(";")
		})
	}
	g.w.writeLine("__tagHelperExecutionContext.AddTagHelperAttribute(" + quote(attr.name) + ", " + target + ", " +
		razorTagHelpers + "HtmlAttributeValueStyle." + attr.style + ");")
}

func (g *generator) htmlAttribute(attr helperAttribute) {
	if attr.minimized() {
		g.w.writeLine("__tagHelperExecutionContext.AddHtmlAttribute(new " + razorTagHelpers +
			"TagHelperAttribute(" + quote(attr.name) + "));")
		return
	}
	g.w.startLine()
	g.w.write("__tagHelperExecutionContext.AddHtmlAttribute(" + quote(attr.name) + ", Html.Raw(")
	g.concat(attr.value, attr.valueOffset)
	g.w.write("), " + razorTagHelpers + "HtmlAttributeValueStyle." + attr.style + ");\n")
}

// concat writes an attribute value as a string expression joining its text
// and code.
func (g *generator) concat(value *syntax.Node, offset int) {
	var pieces []valuePiece
	if value != nil {
		pieces = valuePieces(value, offset, nil)
	}
	if len(pieces) == 0 {
		g.w.write(`""`)
		return
	}
	for i, piece := range pieces {
		if i > 0 {
			g.w.write(" + ")
		}
		if !piece.code {
			g.w.write(quote(piece.text))
			continue
		}
		g.w.write("(")
		g.w.mapped(g.src.Span(piece.offset, len(piece.text)), piece.text)
		g.w.write(")")
	}
}

// codeValue returns the C# expression written as a non-string attribute
// value: the code of a lone "@expr", or else the raw value text.
func (g *generator) codeValue(attr helperAttribute) (int, string) {
	if attr.value == nil {
		return attr.valueOffset, ""
	}
	pieces := valuePieces(attr.value, attr.valueOffset, nil)
	var code []valuePiece
	for _, piece := range pieces {
		switch {
		case piece.code:
			code = append(code, piece)
		case strings.TrimSpace(piece.text) != "":
			return attr.valueOffset, attr.valueText()
		}
	}
	if len(code) == 1 {
		return code[0].offset, code[0].text
	}
	return attr.valueOffset, attr.valueText()
}

// component renders a bound element in a component document through the
// render tree builder. Only the first descriptor is instantiated.
func (g *generator) component(binding *taghelper.Binding, attrs []helperAttribute, body []*syntax.Node, bodyOffset int) {
	desc := binding.Descriptors[0]
	builder := g.target.builder
	g.sequence++
	g.w.writeLine(builder + ".OpenComponent<" + helperType(desc) + ">(" + strconv.Itoa(g.sequence) + ");")

	for _, attr := range attrs {
		g.sequence++
		name := attr.name
		if attr.bound != nil && attr.desc == desc {
			name = attr.bound.PropertyName
		}
		prefix := builder + ".AddAttribute(" + strconv.Itoa(g.sequence) + ", " + quote(name) + ", "
		switch {
		case attr.minimized():
			g.w.writeLine(prefix + "true);")
		case attr.bound == nil || attr.bound.IsStringProperty():
			g.w.startLine()
			g.w.write(prefix)
			g.concat(attr.value, attr.valueOffset)
			g.w.write(");\n")
		default:
			start, text := g.codeValue(attr)
			if strings.TrimSpace(text) == "" {
				g.w.writeLine(prefix + "default);")
				continue
			}
			span := g.src.Span(start, len(text))
			g.w.region(span, lineCount(text), func() {
				g.w.pad(span.CharacterIndex - len(prefix))
				g.w.write(prefix)
				g.w.mapped(span, text)
				g.w.write(");")
			})
		}
	}

	if len(body) > 0 {
		g.sequence++
		inner := builder + "2"
		g.w.writeLine(builder + ".AddAttribute(" + strconv.Itoa(g.sequence) +
			", \"ChildContent\", (global::Microsoft.AspNetCore.Components.RenderFragment)((" + inner + ") => {")
		g.w.indent++
		g.target.builder = inner
		g.emitChildren(body, bodyOffset)
		g.flush()
		g.target.builder = builder
		g.w.indent--
		g.w.writeLine("}));")
	}
	g.w.writeLine(builder + ".CloseComponent();")
}
