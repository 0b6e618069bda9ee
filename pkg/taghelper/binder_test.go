package taghelper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/razorparse/pkg/taghelper"
)

func fooDescriptor() *taghelper.Descriptor {
	return &taghelper.Descriptor{
		Name:     "FooTagHelper",
		TypeName: "Test.FooTagHelper",
		Rules:    []taghelper.Rule{{TagName: "foo"}},
		BoundAttributes: []taghelper.BoundAttribute{
			{Name: "enabled", PropertyName: "Enabled", TypeName: "bool"},
			{Name: "title", PropertyName: "Title", TypeName: "string"},
		},
	}
}

func TestBinder_Bind(t *testing.T) {
	t.Parallel()

	foo := fooDescriptor()
	anchor := &taghelper.Descriptor{
		Name: "AnchorTagHelper",
		Rules: []taghelper.Rule{{
			TagName: "a",
			Attributes: []taghelper.RequiredAttribute{
				{Name: "asp-", NameComparison: taghelper.NamePrefixMatch},
			},
		}},
	}
	catchAll := &taghelper.Descriptor{
		Name: "CatchAll",
		Rules: []taghelper.Rule{{
			TagName: taghelper.CatchAll,
			Attributes: []taghelper.RequiredAttribute{
				{Name: "type", Value: "text/razor", ValueComparison: taghelper.ValueFullMatch},
			},
		}},
	}
	child := &taghelper.Descriptor{
		Name:  "ItemTagHelper",
		Rules: []taghelper.Rule{{TagName: "item", ParentTag: "list"}},
	}

	binder, err := taghelper.NewBinder("", false, foo, anchor, catchAll, child)
	require.NoError(t, err)

	tests := []struct {
		name   string
		tag    string
		parent string
		attrs  []taghelper.Attribute
		want   []string
	}{
		{name: "plain match", tag: "foo", want: []string{"FooTagHelper"}},
		{name: "case insensitive", tag: "FOO", want: []string{"FooTagHelper"}},
		{name: "no match", tag: "bar"},
		{
			name:  "prefix attribute",
			tag:   "a",
			attrs: []taghelper.Attribute{{Name: "asp-action", Value: "Index"}},
			want:  []string{"AnchorTagHelper"},
		},
		{
			name:  "prefix attribute needs suffix",
			tag:   "a",
			attrs: []taghelper.Attribute{{Name: "asp-", Value: "Index"}},
		},
		{
			name:  "catch all with value",
			tag:   "foo",
			attrs: []taghelper.Attribute{{Name: "type", Value: "text/razor"}},
			want:  []string{"FooTagHelper", "CatchAll"},
		},
		{
			name:  "value is unescaped",
			tag:   "div",
			attrs: []taghelper.Attribute{{Name: "TYPE", Value: "text&#x2F;razor"}},
			want:  []string{"CatchAll"},
		},
		{name: "parent required", tag: "item", parent: "list", want: []string{"ItemTagHelper"}},
		{name: "wrong parent", tag: "item", parent: "div"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			binding := binder.Bind(tt.tag, tt.parent, tt.attrs)
			if tt.want == nil {
				assert.Nil(t, binding)
				return
			}

			require.NotNil(t, binding)
			names := make([]string, 0, len(binding.Descriptors))
			for _, desc := range binding.Descriptors {
				names = append(names, desc.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestBinder_Prefix(t *testing.T) {
	t.Parallel()

	binder, err := taghelper.NewBinder("th:", false, fooDescriptor())
	require.NoError(t, err)

	assert.Nil(t, binder.Bind("foo", "", nil))
	assert.Nil(t, binder.Bind("th:", "", nil))

	binding := binder.Bind("th:foo", "th:div", nil)
	require.NotNil(t, binding)
	assert.Equal(t, "foo", binding.TagName)
	assert.Equal(t, "div", binding.ParentTag)
}

func TestBinder_CaseSensitive(t *testing.T) {
	t.Parallel()

	binder, err := taghelper.NewBinder("", true, fooDescriptor())
	require.NoError(t, err)

	assert.NotNil(t, binder.Bind("foo", "", nil))
	assert.Nil(t, binder.Bind("Foo", "", nil))
}

func TestNewBinder_Invalid(t *testing.T) {
	t.Parallel()

	_, err := taghelper.NewBinder("", false,
		&taghelper.Descriptor{Rules: []taghelper.Rule{{TagName: ""}}},
		&taghelper.Descriptor{Name: "NoRules"},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, taghelper.ErrUnnamedDescriptor)
	assert.ErrorIs(t, err, taghelper.ErrEmptyTagName)
	assert.ErrorIs(t, err, taghelper.ErrNoRules)
}

func TestBinding_TagStructure(t *testing.T) {
	t.Parallel()

	input := &taghelper.Descriptor{
		Name:  "InputTagHelper",
		Rules: []taghelper.Rule{{TagName: "input", TagStructure: taghelper.TagStructureWithoutEndTag}},
	}
	other := &taghelper.Descriptor{
		Name:  "OtherTagHelper",
		Rules: []taghelper.Rule{{TagName: "input", TagStructure: taghelper.TagStructureNormalOrSelfClosing}},
	}

	single, err := taghelper.NewBinder("", false, input)
	require.NoError(t, err)
	structure, _, ok := single.Bind("input", "", nil).TagStructure()
	assert.True(t, ok)
	assert.Equal(t, taghelper.TagStructureWithoutEndTag, structure)

	both, err := taghelper.NewBinder("", false, input, other)
	require.NoError(t, err)
	_, conflict, ok := both.Bind("input", "", nil).TagStructure()
	assert.False(t, ok)
	assert.Same(t, other, conflict)
}

func TestBinding_BoundAttribute(t *testing.T) {
	t.Parallel()

	binder, err := taghelper.NewBinder("", false, fooDescriptor())
	require.NoError(t, err)
	binding := binder.Bind("foo", "", nil)
	require.NotNil(t, binding)

	attr, desc, ok := binding.BoundAttribute("Enabled")
	require.True(t, ok)
	assert.True(t, attr.IsBoolean())
	assert.Equal(t, "FooTagHelper", desc.Name)

	_, _, ok = binding.BoundAttribute("missing")
	assert.False(t, ok)
}
