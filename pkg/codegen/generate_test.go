package codegen_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/razorparse/pkg/codegen"
	"github.com/yaklabco/razorparse/pkg/language"
	"github.com/yaklabco/razorparse/pkg/parser"
	"github.com/yaklabco/razorparse/pkg/rewrite"
	"github.com/yaklabco/razorparse/pkg/source"
	"github.com/yaklabco/razorparse/pkg/syntax"
	"github.com/yaklabco/razorparse/pkg/taghelper"
)

func parseTree(t *testing.T, path, input string) *syntax.Tree {
	t.Helper()

	doc := source.NewDocumentString(path, input)
	tree, err := parser.Parse(context.Background(), doc, language.DefaultOptions(language.FileKindFromPath(path)))
	require.NoError(t, err)
	return tree
}

func generate(t *testing.T, path, input string, opts codegen.Options) *codegen.Document {
	t.Helper()

	doc, err := codegen.Generate(parseTree(t, path, input), opts)
	require.NoError(t, err)
	return doc
}

func mappedTexts(doc *codegen.Document) []string {
	out := make([]string, 0, len(doc.Mappings))
	for _, m := range doc.Mappings {
		out = append(out, doc.Text[m.Generated.AbsoluteIndex:m.Generated.End()])
	}
	return out
}

func TestGenerate_Markup(t *testing.T) {
	t.Parallel()

	doc := generate(t, "Views/Home/Index.cshtml", "<p class=\"a\">\n</p>", codegen.DefaultOptions())

	assert.Equal(t, "Views/Home/Index.cshtml.g.cs", doc.Path)
	assert.Equal(t, "Index", doc.ClassName)
	assert.Equal(t, codegen.DefaultNamespace, doc.Namespace)
	assert.Contains(t, doc.Text, `WriteLiteral("<p class=\"a\">\n</p>");`)
	assert.Contains(t, doc.Text, "public partial class Index : global::Microsoft.AspNetCore.Mvc.Razor.RazorPage<dynamic>")
	assert.Contains(t, doc.Text, "#pragma checksum \"Views/Home/Index.cshtml\"")
	assert.Empty(t, doc.Mappings)
}

func TestGenerate_Expressions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   []string
		mapped []string
	}{
		{
			name:   "implicit",
			input:  "<p>@DateTime.Now</p>",
			want:   []string{`WriteLiteral("<p>");`, "Write(DateTime.Now);", `WriteLiteral("</p>");`},
			mapped: []string{"DateTime.Now"},
		},
		{
			name:   "explicit",
			input:  "<p>@(a + b)</p>",
			want:   []string{"Write(a + b);"},
			mapped: []string{"a + b"},
		},
		{
			name:  "statement block",
			input: "@{ var x = 1; }",
			want:  []string{"var x = 1;"},
		},
		{
			name:  "markup inside code",
			input: "@if (ok) {<b>yes</b>}",
			want:  []string{"if (ok) {", `WriteLiteral("<b>yes</b>");`},
		},
		{
			name:  "template",
			input: "@Render(@<b>x</b>)",
			want: []string{
				"item => new global::Microsoft.AspNetCore.Mvc.Razor.HelperResult(async(__razor_template_writer) => {",
				"PushWriter(__razor_template_writer);",
				`WriteLiteral("<b>x</b>");`,
				"PopWriter();",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := generate(t, "test.cshtml", tt.input, codegen.DefaultOptions())
			for _, want := range tt.want {
				assert.Contains(t, doc.Text, want)
			}
			texts := mappedTexts(doc)
			for _, want := range tt.mapped {
				assert.Contains(t, texts, want)
			}
		})
	}
}

func TestGenerate_Directives(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"@using System.Text",
		"@namespace My.App",
		"@model Foo.Bar",
		"@inject ILogger Log",
		"@functions { int count; }",
		"<p>hi</p>",
	}, "\n")
	doc := generate(t, "test.cshtml", input, codegen.DefaultOptions())

	assert.Equal(t, "My.App", doc.Namespace)
	assert.Contains(t, doc.Text, "namespace My.App\n")
	assert.Contains(t, doc.Text, "using System.Text;")
	assert.Contains(t, doc.Text, "RazorPage<Foo.Bar>")
	assert.Contains(t, doc.Text, "public ILogger Log { get; private set; }")
	assert.Contains(t, doc.Text, "int count;")
	assert.Contains(t, mappedTexts(doc), "Foo.Bar")
	assert.Contains(t, mappedTexts(doc), "System.Text")

	classAt := strings.Index(doc.Text, "public partial class")
	methodAt := strings.Index(doc.Text, "ExecuteAsync")
	countAt := strings.Index(doc.Text, "int count;")
	require.Positive(t, classAt)
	assert.Greater(t, countAt, classAt)
	assert.Less(t, countAt, methodAt, "code blocks become members")
}

func TestGenerate_Section(t *testing.T) {
	t.Parallel()

	doc := generate(t, "test.cshtml", "@section Scripts {<script></script>}", codegen.DefaultOptions())

	assert.Contains(t, doc.Text, `DefineSection("Scripts", async() => {`)
	assert.Contains(t, doc.Text, `WriteLiteral("<script></script>");`)
	assert.Contains(t, mappedTexts(doc), "Scripts")
}

func TestGenerate_Component(t *testing.T) {
	t.Parallel()

	doc := generate(t, "Pages/Counter.razor", "@page \"/counter\"\n<p>@count</p>", codegen.DefaultOptions())

	assert.Equal(t, "Counter", doc.ClassName)
	assert.Equal(t, codegen.DefaultComponentNamespace, doc.Namespace)
	assert.Contains(t, doc.Text,
		"public partial class Counter : global::Microsoft.AspNetCore.Components.ComponentBase")
	assert.Contains(t, doc.Text, `[global::Microsoft.AspNetCore.Components.RouteAttribute("/counter")]`)
	assert.Contains(t, doc.Text, "BuildRenderTree")
	assert.Contains(t, doc.Text, "__builder.AddContent(")
	assert.Contains(t, doc.Text, "count);")
	assert.NotContains(t, doc.Text, "WriteLiteral(")
}

func TestGenerate_LinePragmas(t *testing.T) {
	t.Parallel()

	input := "<div>\n<p>@x</p>\n</div>"

	doc := generate(t, "test.cshtml", input, codegen.DefaultOptions())
	require.Len(t, doc.Pragmas, 1)
	pragma := doc.Pragmas[0]
	assert.Equal(t, 1, pragma.StartLineIndex)
	assert.Equal(t, 1, pragma.LineCount)
	assert.Equal(t, "test.cshtml", pragma.FilePath)
	assert.Contains(t, doc.Text, "#line 2 \"test.cshtml\"\n")
	assert.Contains(t, doc.Text, "#line default\n#line hidden\n")

	lines := strings.Split(doc.Text, "\n")
	require.Greater(t, len(lines), pragma.GeneratedLineIndex)
	assert.Contains(t, lines[pragma.GeneratedLineIndex], "Write(x);")

	opts := codegen.DefaultOptions()
	opts.LinePragmas = false
	plain := generate(t, "test.cshtml", input, opts)
	assert.Empty(t, plain.Pragmas)
	assert.NotContains(t, plain.Text, "#line 2")
	assert.Contains(t, plain.Text, "Write(x);")
}

func TestGenerate_DesignTime(t *testing.T) {
	t.Parallel()

	opts := codegen.DefaultOptions()
	opts.DesignTime = true
	doc := generate(t, "test.cshtml", "@model Foo.Bar\n", opts)

	assert.Contains(t, doc.Text, "__RazorDirectiveTokenHelpers__")
	assert.Contains(t, doc.Text, "Foo.Bar __typeHelper = default!;")
}

func TestGenerate_TagHelpers(t *testing.T) {
	t.Parallel()

	desc := &taghelper.Descriptor{
		Name:     "FooTagHelper",
		TypeName: "Test.FooTagHelper",
		Rules:    []taghelper.Rule{{TagName: "foo"}},
		BoundAttributes: []taghelper.BoundAttribute{
			{Name: "title", PropertyName: "Title", TypeName: "string"},
			{Name: "count", PropertyName: "Count", TypeName: "int"},
		},
	}
	binder, err := taghelper.NewBinder("", false, desc)
	require.NoError(t, err)

	input := `<foo title="hi" count="@n" class="x">body</foo>`
	tree, err := rewrite.TagHelpers(parseTree(t, "test.cshtml", input), binder)
	require.NoError(t, err)

	doc, err := codegen.Generate(tree, codegen.DefaultOptions())
	require.NoError(t, err)

	for _, want := range []string{
		"private global::Test.FooTagHelper __Test_FooTagHelper;",
		`__tagHelperScopeManager.Begin("foo", global::Microsoft.AspNetCore.Razor.TagHelpers.TagMode.StartTagAndEndTag, "`,
		`WriteLiteral("body");`,
		"__Test_FooTagHelper = CreateTagHelper<global::Test.FooTagHelper>();",
		`__Test_FooTagHelper.Title = "hi";`,
		"__Test_FooTagHelper.Count = n;",
		`__tagHelperExecutionContext.AddHtmlAttribute("class", Html.Raw("x"), ` +
			"global::Microsoft.AspNetCore.Razor.TagHelpers.HtmlAttributeValueStyle.DoubleQuotes);",
		"await __tagHelperRunner.RunAsync(__tagHelperExecutionContext);",
		"Write(__tagHelperExecutionContext.Output);",
	} {
		assert.Contains(t, doc.Text, want)
	}
	assert.NotContains(t, doc.Text, `WriteLiteral("<foo`)
	assert.Contains(t, mappedTexts(doc), "n")

	again, err := codegen.Generate(tree, codegen.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, doc.Text, again.Text, "scope ids are stable")
}

func TestGenerate_LongMarkupIsSplit(t *testing.T) {
	t.Parallel()

	doc := generate(t, "test.cshtml", strings.Repeat("é", 1500), codegen.DefaultOptions())

	assert.Equal(t, 3, strings.Count(doc.Text, "WriteLiteral("))
}

func TestGenerate_NilInput(t *testing.T) {
	t.Parallel()

	_, err := codegen.Generate(nil, codegen.DefaultOptions())
	require.ErrorIs(t, err, codegen.ErrNilInput)
	require.ErrorIs(t, codegen.Verify(nil, &codegen.Document{}), codegen.ErrNilInput)
}

func TestMapping(t *testing.T) {
	t.Parallel()

	input := "<p>@value</p>"
	doc := generate(t, "test.cshtml", input, codegen.DefaultOptions())

	srcOffset := strings.Index(input, "value")
	genOffset, ok := doc.MapToGenerated(srcOffset + 2)
	require.True(t, ok)
	assert.Equal(t, "lue", doc.Text[genOffset:genOffset+3])

	back, ok := doc.MapToOriginal(genOffset)
	require.True(t, ok)
	assert.Equal(t, srcOffset+2, back)

	_, ok = doc.MapToGenerated(0)
	assert.False(t, ok, "markup is not mapped")
}

func TestVerify(t *testing.T) {
	t.Parallel()

	src := source.NewDocumentString("a.cshtml", "@abc")
	const genText = "Write(abd);"
	gen := source.NewDocumentString("a.cshtml.g.cs", genText)

	good := &codegen.Document{Text: genText, Mappings: []codegen.Mapping{
		{Original: src.Span(1, 2), Generated: gen.Span(6, 2)},
	}}
	require.NoError(t, codegen.Verify(src, good))

	bad := &codegen.Document{Text: genText, Mappings: []codegen.Mapping{
		{Original: src.Span(1, 3), Generated: gen.Span(6, 3)},
	}}
	err := codegen.Verify(src, bad)
	var mappingErr *codegen.MappingError
	require.ErrorAs(t, err, &mappingErr)
	assert.Equal(t, "abc", mappingErr.Original)
	assert.Equal(t, "abd", mappingErr.Generated)

	outOfRange := &codegen.Document{Text: "x", Mappings: []codegen.Mapping{
		{Original: src.Span(0, 4), Generated: gen.Span(0, 4)},
	}}
	require.ErrorAs(t, codegen.Verify(src, outOfRange), &mappingErr)
}

func TestClassNameFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"Views/Home/Index.cshtml", "Index"},
		{"_Host.cshtml", "_Host"},
		{"my-page.razor", "my_page"},
		{`Pages\Counter.razor`, "Counter"},
		{"404.cshtml", "_404"},
		{"", "Template"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, codegen.ClassNameFor(tt.path))
		})
	}
}

func TestGenerate_ColumnPadding(t *testing.T) {
	t.Parallel()

	input := strings.Repeat(" ", 20) + "<p>@x</p>"

	runtime := generate(t, "test.cshtml", input, codegen.DefaultOptions())
	assert.Contains(t, runtime.Text, "\nWrite(x);")

	opts := codegen.DefaultOptions()
	opts.DesignTime = true
	designTime := generate(t, "test.cshtml", input, opts)
	assert.Contains(t, designTime.Text, "\n"+strings.Repeat(" ", 18)+"Write(x);")
	assert.Equal(t, []string{"x"}, mappedTexts(designTime))
}

func TestGenerate_LongSingleLineStaysLinear(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("scaling test")
	}

	tests := []struct {
		name       string
		designTime bool
	}{
		{name: "runtime"},
		{name: "design time", designTime: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := codegen.DefaultOptions()
			opts.DesignTime = tt.designTime

			small := strings.Repeat("<b>@x</b>", 1000)
			large := strings.Repeat("<b>@x</b>", 4000)
			smallDoc := generate(t, "test.cshtml", small, opts)
			largeDoc := generate(t, "test.cshtml", large, opts)

			assert.Less(t, len(largeDoc.Text), 64*len(large))
			assert.Less(t, len(largeDoc.Text), 5*len(smallDoc.Text),
				"output must grow linearly with a single-line input")
			assert.Len(t, largeDoc.Mappings, 4000)
		})
	}
}
