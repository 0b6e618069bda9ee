package config

import (
	"bytes"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML format.
// It produces human-readable output with appropriate formatting.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToYAMLWithHeader serializes the configuration with a header comment.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	yamlBytes, err := c.ToYAML()
	if err != nil {
		return nil, err
	}

	if header == "" {
		return yamlBytes, nil
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if header[len(header)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(yamlBytes)

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes. Unknown keys are
// rejected so typos in a config file surface as errors.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	return cfg, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Extensions = slices.Clone(c.Extensions)
	clone.Ignore = slices.Clone(c.Ignore)

	if c.LinePragmas != nil {
		enabled := *c.LinePragmas
		clone.LinePragmas = &enabled
	}

	if c.Directives != nil {
		clone.Directives = make([]DirectiveConfig, len(c.Directives))
		for i, dir := range c.Directives {
			dir.Tokens = slices.Clone(dir.Tokens)
			clone.Directives[i] = dir
		}
	}

	if c.TagHelpers != nil {
		clone.TagHelpers = make([]TagHelperConfig, len(c.TagHelpers))
		for i, helper := range c.TagHelpers {
			clone.TagHelpers[i] = helper.clone()
		}
	}

	return &clone
}

// clone creates a deep copy of a TagHelperConfig.
func (h TagHelperConfig) clone() TagHelperConfig {
	clone := h
	clone.Attributes = slices.Clone(h.Attributes)
	clone.AllowedChildren = slices.Clone(h.AllowedChildren)
	if h.Rules != nil {
		clone.Rules = make([]TagRuleConfig, len(h.Rules))
		for i, rule := range h.Rules {
			rule.Attributes = slices.Clone(rule.Attributes)
			clone.Rules[i] = rule
		}
	}
	return clone
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
