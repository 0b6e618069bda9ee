package engine_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/razorparse/pkg/engine"
	"github.com/yaklabco/razorparse/pkg/language"
	"github.com/yaklabco/razorparse/pkg/source"
	"github.com/yaklabco/razorparse/pkg/syntax"
	"github.com/yaklabco/razorparse/pkg/taghelper"
)

func testBinder(tb testing.TB) *taghelper.Binder {
	tb.Helper()

	binder, err := taghelper.NewBinder("", false, &taghelper.Descriptor{
		Name:     "LinkTagHelper",
		TypeName: "App.LinkTagHelper",
		Rules:    []taghelper.Rule{{TagName: "a", Attributes: []taghelper.RequiredAttribute{{Name: "asp-page"}}}},
		BoundAttributes: []taghelper.BoundAttribute{
			{Name: "asp-page", PropertyName: "Page", TypeName: "string"},
		},
	})
	require.NoError(tb, err)
	return binder
}

func TestProcess(t *testing.T) {
	t.Parallel()

	input := "@model App.Item\n<div>\n    @Model.Name\n    <a asp-page=\"/x\">link</a>\n</div>\n"
	eng := engine.New(testBinder(t))

	result, err := eng.Process(context.Background(), source.NewDocumentString("Views/Item.cshtml", input))
	require.NoError(t, err)

	assert.Equal(t, input, syntax.Text(result.Tree.Root))
	assert.Empty(t, result.Diagnostics)
	assert.False(t, result.HasErrors())
	assert.Len(t, syntax.FindByKind(result.Tree.Root, syntax.KindMarkupTagHelperElement), 1)

	require.NotNil(t, result.Generated)
	assert.Equal(t, "Item", result.Generated.ClassName)
	assert.Contains(t, result.Generated.Text, "RazorPage<App.Item>")
	assert.Contains(t, result.Generated.Text, "Write(Model.Name);")
	assert.Contains(t, result.Generated.Text, "CreateTagHelper<global::App.LinkTagHelper>()")
}

func TestProcess_FileKindFromPath(t *testing.T) {
	t.Parallel()

	eng := engine.New(nil)

	result, err := eng.Process(context.Background(), source.NewDocumentString("Counter.razor", "@code { int n; }"))
	require.NoError(t, err)
	assert.Equal(t, language.FileKindComponent, result.Tree.Options.FileKind)
	assert.Contains(t, result.Generated.Text, "ComponentBase")

	result, err = eng.Process(context.Background(), source.NewDocumentString("Index.cshtml", "@code { int n; }"))
	require.NoError(t, err)
	assert.Equal(t, language.FileKindLegacy, result.Tree.Options.FileKind)
	assert.Empty(t, syntax.FindByKind(result.Tree.Root, syntax.KindRazorDirective), "@code is not a view directive")
}

func TestProcess_ExplicitOptions(t *testing.T) {
	t.Parallel()

	eng := engine.New(nil)
	eng.Options = language.DefaultOptions(language.FileKindComponent)

	result, err := eng.Process(context.Background(), source.NewDocumentString("page.cshtml", "<p></p>"))
	require.NoError(t, err)
	assert.Equal(t, language.FileKindComponent, result.Tree.Options.FileKind)
}

func TestProcess_Diagnostics(t *testing.T) {
	t.Parallel()

	eng := engine.New(nil)
	eng.SkipCodegen = true

	result, err := eng.Process(context.Background(), source.NewDocumentString("a.cshtml", "@{ var x = 1;\n@model Foo\n"))
	require.NoError(t, err)
	assert.Nil(t, result.Generated)
	require.NotEmpty(t, result.Diagnostics)
	assert.True(t, result.HasErrors())

	for i := 1; i < len(result.Diagnostics); i++ {
		assert.LessOrEqual(t, result.Diagnostics[i-1].Span.AbsoluteIndex, result.Diagnostics[i].Span.AbsoluteIndex)
	}
}

func TestProcess_Errors(t *testing.T) {
	t.Parallel()

	eng := engine.New(nil)

	_, err := eng.Process(context.Background(), nil)
	require.ErrorIs(t, err, engine.ErrNilDocument)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eng.Process(ctx, source.NewDocumentString("a.cshtml", "x"))
	require.ErrorIs(t, err, context.Canceled)

	_, err = eng.Reparse(context.Background(), nil)
	require.ErrorIs(t, err, engine.ErrNilResult)
}

func TestReparse(t *testing.T) {
	t.Parallel()

	eng := engine.New(nil)
	prev, err := eng.Process(context.Background(), source.NewDocumentString("a.cshtml", "<p>@name</p>"))
	require.NoError(t, err)

	start := strings.Index("<p>@name</p>", "name")
	next, err := eng.Reparse(context.Background(), prev, source.NewChange(start, start+4, "user.Name"))
	require.NoError(t, err)

	assert.Equal(t, "<p>@user.Name</p>", syntax.Text(next.Tree.Root))
	assert.Contains(t, next.Generated.Text, "Write(user.Name);")
	assert.Equal(t, "<p>@name</p>", syntax.Text(prev.Tree.Root), "previous result is unchanged")

	_, err = eng.Reparse(context.Background(), prev, source.NewChange(5, 100, ""))
	var changeErr *source.ChangeError
	require.ErrorAs(t, err, &changeErr)
}

func TestProcess_Concurrent(t *testing.T) {
	t.Parallel()

	eng := engine.New(testBinder(t))
	input := "<ul>\n@foreach (var i in items) {\n    <li><a asp-page=\"@i\">@i</a></li>\n}\n</ul>"

	first, err := eng.Process(context.Background(), source.NewDocumentString("list.cshtml", input))
	require.NoError(t, err)

	var wg sync.WaitGroup
	texts := make([]string, 8)
	for i := range texts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := eng.Process(context.Background(), source.NewDocumentString("list.cshtml", input))
			if err == nil {
				texts[i] = result.Generated.Text
			}
		}()
	}
	wg.Wait()

	for _, text := range texts {
		assert.Equal(t, first.Generated.Text, text)
	}
}
