package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/razorparse/pkg/directive"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every built-in directive and includes an example tag
	// helper. If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	var buf bytes.Buffer
	writeTemplateHead(&buf)
	if opts.Full {
		writeTemplateDirectives(&buf)
		buf.WriteString(exampleTagHelper)
	}

	if opts.Format == "json" {
		return templateToJSON(buf.Bytes())
	}
	return buf.Bytes(), nil
}

func writeTemplateHead(buf *bytes.Buffer) {
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Razor language version: 1.0 through 8.0, "latest" or "experimental"
language_version: latest

# C# tokenizer: legacy or host
tokenizer: legacy

# Force a file kind (legacy, component, import); empty infers it from the
# file extension
# file_kind: component

# Keep incomplete expressions and emit directive token helpers
# design_time: false

# Default namespace of generated classes
# namespace: MyApp.Views

# Wrap mapped code in #line regions
# line_pragmas: true

# Extensions processed when a directory is given
extensions:
  - .cshtml
  - .razor

# File patterns to ignore (glob patterns)
# ignore:
#   - "bin/**"
#   - "obj/**"

# Prefix required on tag helper element names
# tag_helper_prefix: "th:"
`)
}

// writeTemplateDirectives documents the built-in directives and shows how
// to declare a custom one.
func writeTemplateDirectives(buf *bytes.Buffer) {
	buf.WriteString("\n# Built-in directives (always registered):\n")
	for _, set := range []struct {
		title string
		set   *directive.Set
	}{
		{"views and pages (.cshtml)", directive.LegacyDefaults()},
		{"components (.razor)", directive.ComponentDefaults()},
	} {
		fmt.Fprintf(buf, "#\n# %s\n", set.title)
		for _, desc := range set.set.Descriptors() {
			fmt.Fprintf(buf, "#   @%s: %s\n", desc.Directive, wrapComment(desc.Description, commentWrapWidth))
		}
	}

	buf.WriteString(`
# Custom directives
directives:
  - name: region
    usage: single_line
    occurrence: multiple
    description: Marks a named region.
    tokens:
      - kind: member
        name: Name
`)
}

const exampleTagHelper = `
# Tag helpers in scope for every document
tag_helpers:
  - name: AnchorTagHelper
    type: Microsoft.AspNetCore.Mvc.TagHelpers.AnchorTagHelper
    assembly: Microsoft.AspNetCore.Mvc.TagHelpers
    rules:
      - tag: a
        attributes:
          - name: asp-
            name_prefix: true
    attributes:
      - name: asp-action
        property: Action
        type: string
      - name: asp-route-
        property: RouteValues
        type: System.Collections.Generic.IDictionary<string, string>
        indexer_prefix: asp-route-
`

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n#     ")
}

// templateToJSON converts a YAML template to JSON. Comments are dropped.
func templateToJSON(yamlContent []byte) ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(yamlContent, &doc); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(jsonBytes, '\n'), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# razorparse configuration
# See: https://github.com/yaklabco/razorparse`
}
