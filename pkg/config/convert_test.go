package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/razorparse/pkg/config"
	"github.com/yaklabco/razorparse/pkg/directive"
	"github.com/yaklabco/razorparse/pkg/language"
	"github.com/yaklabco/razorparse/pkg/taghelper"
)

func TestConfig_LanguageOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts, err := config.NewConfig().LanguageOptions()
		require.NoError(t, err)
		assert.Equal(t, language.Latest, opts.Version)
		assert.Equal(t, language.TokenizerLegacy, opts.Tokenizer)
		assert.Nil(t, opts.Directives, "file kind is inferred per document")
	})

	t.Run("forced file kind registers custom directives", func(t *testing.T) {
		cfg := &config.Config{
			LanguageVersion: "3.0",
			Tokenizer:       "host",
			FileKind:        "component",
			DesignTime:      true,
			Directives: []config.DirectiveConfig{{
				Name:       "region",
				Usage:      "razor-block",
				Occurrence: "single",
				Tokens:     []config.DirectiveTokenConfig{{Kind: "member", Name: "Name"}},
			}},
		}

		opts, err := cfg.LanguageOptions()
		require.NoError(t, err)
		assert.Equal(t, language.Version3_0, opts.Version)
		assert.Equal(t, language.TokenizerHost, opts.Tokenizer)
		assert.Equal(t, language.FileKindComponent, opts.FileKind)
		assert.True(t, opts.DesignTime)

		assert.True(t, opts.Directives.Has("code"))
		region, ok := opts.Directives.Lookup("region")
		require.True(t, ok)
		assert.Equal(t, directive.RazorBlock, region.Usage)
		assert.Equal(t, directive.SinglyOccurring, region.Occurrence)
		assert.Equal(t, "@region", region.DisplayName)
	})

	t.Run("errors are aggregated", func(t *testing.T) {
		cfg := &config.Config{
			LanguageVersion: "9.9",
			Tokenizer:       "roslyn",
			Directives: []config.DirectiveConfig{
				{Name: "a", Usage: "inline"},
				{Name: "b", Tokens: []config.DirectiveTokenConfig{{Kind: "float"}}},
				{Name: "not valid"},
			},
		}

		_, err := cfg.LanguageOptions()
		require.Error(t, err)
		require.ErrorIs(t, err, language.ErrUnknownVersion)
		assert.Contains(t, err.Error(), "roslyn")
		assert.Contains(t, err.Error(), `directive "a"`)
		assert.Contains(t, err.Error(), `directive "b"`)
		assert.Contains(t, err.Error(), `directive "not valid"`)
	})
}

func TestConfig_Binder(t *testing.T) {
	t.Run("no tag helpers", func(t *testing.T) {
		binder, err := config.NewConfig().Binder()
		require.NoError(t, err)
		assert.Nil(t, binder)
	})

	t.Run("descriptors", func(t *testing.T) {
		cfg := &config.Config{
			TagHelperPrefix: "th:",
			TagHelpers: []config.TagHelperConfig{{
				Name: "InputTagHelper",
				Type: "App.InputTagHelper",
				Rules: []config.TagRuleConfig{{
					Tag:       "input",
					Structure: "without_end_tag",
					Attributes: []config.RequiredAttributeConfig{
						{Name: "asp-", NamePrefix: true},
						{Name: "type", Value: "text", ValueMatch: "prefix"},
					},
				}},
				Attributes: []config.BoundAttributeConfig{
					{Name: "asp-for", Property: "For", Type: "string"},
				},
			}},
		}

		binder, err := cfg.Binder()
		require.NoError(t, err)
		require.NotNil(t, binder)
		assert.Equal(t, "th:", binder.Prefix())

		descs := binder.Descriptors()
		require.Len(t, descs, 1)
		rule := descs[0].Rules[0]
		assert.Equal(t, taghelper.TagStructureWithoutEndTag, rule.TagStructure)
		assert.Equal(t, taghelper.NamePrefixMatch, rule.Attributes[0].NameComparison)
		assert.Equal(t, taghelper.ValueNone, rule.Attributes[0].ValueComparison)
		assert.Equal(t, taghelper.ValuePrefixMatch, rule.Attributes[1].ValueComparison)

		bound, ok := descs[0].BoundAttribute("asp-for")
		require.True(t, ok)
		assert.Equal(t, "For", bound.PropertyName)

		binding := binder.Bind("th:input", "", []taghelper.Attribute{{Name: "asp-for"}, {Name: "type", Value: "textarea"}})
		require.NotNil(t, binding)
	})

	t.Run("value without match mode is a full match", func(t *testing.T) {
		cfg := &config.Config{TagHelpers: []config.TagHelperConfig{{
			Name:  "Foo",
			Rules: []config.TagRuleConfig{{Tag: "foo", Attributes: []config.RequiredAttributeConfig{{Name: "kind", Value: "x"}}}},
		}}}

		binder, err := cfg.Binder()
		require.NoError(t, err)
		assert.Equal(t, taghelper.ValueFullMatch, binder.Descriptors()[0].Rules[0].Attributes[0].ValueComparison)
	})

	t.Run("invalid", func(t *testing.T) {
		cfg := &config.Config{TagHelpers: []config.TagHelperConfig{
			{Name: "A", Rules: []config.TagRuleConfig{{Tag: "a", Structure: "open"}}},
			{Name: "B", Rules: []config.TagRuleConfig{{Tag: "b", Attributes: []config.RequiredAttributeConfig{{Name: "x", ValueMatch: "regex"}}}}},
		}}

		_, err := cfg.Binder()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `tag helper "A"`)
		assert.Contains(t, err.Error(), `tag helper "B"`)
	})
}

func TestConfig_CodegenOptions(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Namespace = "App"
	cfg.DesignTime = true

	opts := cfg.CodegenOptions()
	assert.Equal(t, "App", opts.Namespace)
	assert.True(t, opts.LinePragmas)
	assert.True(t, opts.DesignTime)
}
