package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/razorparse/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("empty config", func(t *testing.T) {
		c := &config.Config{}
		clone := c.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, c, clone)
	})

	t.Run("deep copies slices and pointers", func(t *testing.T) {
		pragmas := false
		original := &config.Config{
			LinePragmas: &pragmas,
			Ignore:      []string{"bin/**"},
			Directives: []config.DirectiveConfig{
				{Name: "region", Tokens: []config.DirectiveTokenConfig{{Kind: "member"}}},
			},
			TagHelpers: []config.TagHelperConfig{{
				Name:  "FooTagHelper",
				Rules: []config.TagRuleConfig{{Tag: "foo", Attributes: []config.RequiredAttributeConfig{{Name: "bar"}}}},
			}},
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.Equal(t, original, clone)

		*clone.LinePragmas = true
		clone.Ignore[0] = "changed"
		clone.Directives[0].Tokens[0].Kind = "type"
		clone.TagHelpers[0].Rules[0].Attributes[0].Name = "baz"

		assert.False(t, *original.LinePragmas)
		assert.Equal(t, "bin/**", original.Ignore[0])
		assert.Equal(t, "member", original.Directives[0].Tokens[0].Kind)
		assert.Equal(t, "bar", original.TagHelpers[0].Rules[0].Attributes[0].Name)
	})

	t.Run("preserves CLI fields", func(t *testing.T) {
		original := config.NewConfig()
		original.Format = config.FormatJSON
		original.Jobs = 4
		original.DryRun = true

		clone := original.Clone()
		assert.Equal(t, config.FormatJSON, clone.Format)
		assert.Equal(t, 4, clone.Jobs)
		assert.True(t, clone.DryRun)
	})
}

func TestFromYAML(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte("  \n"))
		require.NoError(t, err)
		assert.Equal(t, &config.Config{}, cfg)
	})

	t.Run("full document", func(t *testing.T) {
		input := `
language_version: "3.0"
file_kind: component
line_pragmas: false
extensions: [.razor]
directives:
  - name: region
    usage: single_line
    tokens:
      - kind: member
        name: Name
tag_helpers:
  - name: FooTagHelper
    rules:
      - tag: foo
`
		cfg, err := config.FromYAML([]byte(input))
		require.NoError(t, err)
		assert.Equal(t, "3.0", cfg.LanguageVersion)
		assert.Equal(t, "component", cfg.FileKind)
		assert.False(t, cfg.LinePragmasEnabled())
		assert.Equal(t, []string{".razor"}, cfg.Extensions)
		require.Len(t, cfg.Directives, 1)
		assert.Equal(t, "Name", cfg.Directives[0].Tokens[0].Name)
		require.Len(t, cfg.TagHelpers, 1)
		assert.Equal(t, "foo", cfg.TagHelpers[0].Rules[0].Tag)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		_, err := config.FromYAML([]byte("langauge_version: latest\n"))
		require.Error(t, err)
	})
}

func TestToYAML_RoundTrip(t *testing.T) {
	original := config.NewConfig()
	original.Namespace = "App.Views"
	original.Format = config.FormatSARIF

	data, err := original.ToYAMLWithHeader(config.DefaultTemplateHeader())
	require.NoError(t, err)
	assert.Contains(t, string(data), "# razorparse configuration")
	assert.NotContains(t, string(data), "sarif", "CLI-only fields are not persisted")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "App.Views", parsed.Namespace)
	assert.Equal(t, original.Extensions, parsed.Extensions)
}

func TestConfig_LinePragmasEnabled(t *testing.T) {
	cfg := &config.Config{}
	assert.True(t, cfg.LinePragmasEnabled())

	off := false
	cfg.LinePragmas = &off
	assert.False(t, cfg.LinePragmasEnabled())
}
