package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/razorparse/pkg/config"
)

func TestGenerateTemplate(t *testing.T) {
	t.Run("minimal template parses", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)
		assert.Contains(t, string(data), "language_version: latest")
		assert.NotContains(t, string(data), "tag_helpers:")

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, "latest", cfg.LanguageVersion)
		assert.Equal(t, config.DefaultExtensions(), cfg.Extensions)
	})

	t.Run("full template documents directives", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{Full: true})
		require.NoError(t, err)
		assert.Contains(t, string(data), "#   @model:")
		assert.Contains(t, string(data), "#   @code:")

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		require.Len(t, cfg.Directives, 1)
		require.Len(t, cfg.TagHelpers, 1)

		binder, err := cfg.Binder()
		require.NoError(t, err)
		assert.Equal(t, 1, binder.Len())
	})

	t.Run("json", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{Full: true, Format: "json"})
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Equal(t, "latest", doc["language_version"])
		assert.Contains(t, doc, "tag_helpers")
	})
}
