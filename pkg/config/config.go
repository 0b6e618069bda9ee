// Package config defines core configuration types for razorparse.
// These types are pure data structures; discovery, merging and environment
// overrides live in internal/configloader.
package config

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSARIF, FormatSummary:
		return true
	default:
		return false
	}
}

// ColorMode controls colored output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the color mode is known.
func (c ColorMode) IsValid() bool {
	switch c {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// DirectiveTokenConfig declares one token of a custom directive.
type DirectiveTokenConfig struct {
	// Kind is one of "type", "member", "string", "namespace", "attribute",
	// "generic_type_constraint" or "boolean".
	Kind        string `yaml:"kind"`
	Name        string `yaml:"name,omitempty"`
	Optional    bool   `yaml:"optional,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// DirectiveConfig declares a custom directive.
type DirectiveConfig struct {
	Name string `yaml:"name"`

	// Usage is "single_line", "code_block" or "razor_block".
	Usage string `yaml:"usage,omitempty"`

	// Occurrence is "multiple", "single", "file_scoped_single" or
	// "file_scoped_multiple".
	Occurrence  string                 `yaml:"occurrence,omitempty"`
	Description string                 `yaml:"description,omitempty"`
	Tokens      []DirectiveTokenConfig `yaml:"tokens,omitempty"`
}

// RequiredAttributeConfig is an attribute a tag helper rule requires.
type RequiredAttributeConfig struct {
	Name string `yaml:"name"`

	// NamePrefix matches every attribute starting with Name.
	NamePrefix bool   `yaml:"name_prefix,omitempty"`
	Value      string `yaml:"value,omitempty"`

	// ValueMatch is "full", "prefix" or "suffix"; empty only requires
	// presence.
	ValueMatch string `yaml:"value_match,omitempty"`
}

// TagRuleConfig is one matching rule of a tag helper.
type TagRuleConfig struct {
	Tag        string                    `yaml:"tag"`
	Parent     string                    `yaml:"parent,omitempty"`
	Attributes []RequiredAttributeConfig `yaml:"attributes,omitempty"`

	// Structure is "normal_or_self_closing" or "without_end_tag".
	Structure string `yaml:"structure,omitempty"`
}

// BoundAttributeConfig is an attribute bound to a tag helper property.
type BoundAttributeConfig struct {
	Name          string `yaml:"name"`
	Property      string `yaml:"property"`
	Type          string `yaml:"type"`
	IndexerPrefix string `yaml:"indexer_prefix,omitempty"`
}

// TagHelperConfig declares a tag helper.
type TagHelperConfig struct {
	Name            string                 `yaml:"name"`
	Type            string                 `yaml:"type,omitempty"`
	Assembly        string                 `yaml:"assembly,omitempty"`
	Rules           []TagRuleConfig        `yaml:"rules"`
	Attributes      []BoundAttributeConfig `yaml:"attributes,omitempty"`
	AllowedChildren []string               `yaml:"allowed_children,omitempty"`
}

// Config is the root configuration structure for razorparse.
type Config struct {
	// LanguageVersion is the Razor language version, e.g. "3.0" or "latest".
	LanguageVersion string `yaml:"language_version"`

	// FileKind forces "legacy", "component" or "import"; empty infers the
	// kind from each file's extension.
	FileKind string `yaml:"file_kind,omitempty"`

	// Tokenizer selects the C# tokenizer, "legacy" or "host".
	Tokenizer string `yaml:"tokenizer,omitempty"`

	// DesignTime keeps incomplete expressions and emits directive token
	// helpers in generated code.
	DesignTime bool `yaml:"design_time,omitempty"`

	// Namespace is the default namespace of generated classes.
	Namespace string `yaml:"namespace,omitempty"`

	// LinePragmas wraps mapped code in "#line" regions. Nil means true.
	LinePragmas *bool `yaml:"line_pragmas,omitempty"`

	// Extensions lists the file extensions processed when a directory is
	// given.
	Extensions []string `yaml:"extensions"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore,omitempty"`

	// Directives are registered in addition to the built-in ones.
	Directives []DirectiveConfig `yaml:"directives,omitempty"`

	// TagHelpers are the tag helpers in scope for every document.
	TagHelpers []TagHelperConfig `yaml:"tag_helpers,omitempty"`

	// TagHelperPrefix is required on every tag helper element name.
	TagHelperPrefix string `yaml:"tag_helper_prefix,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Color controls colored output.
	Color ColorMode `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// OutputDir receives generated files; empty writes next to the source.
	OutputDir string `yaml:"-"`

	// DryRun reports what would be written without writing.
	DryRun bool `yaml:"-"`
}

// DefaultExtensions are the Razor file extensions.
func DefaultExtensions() []string {
	return []string{".cshtml", ".razor"}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		LanguageVersion: "latest",
		Tokenizer:       "legacy",
		Extensions:      DefaultExtensions(),
		Format:          FormatText,
		Color:           ColorAuto,
		Jobs:            0, // 0 means use GOMAXPROCS
	}
}

// LinePragmasEnabled reports whether "#line" regions are generated.
func (c *Config) LinePragmasEnabled() bool {
	return c.LinePragmas == nil || *c.LinePragmas
}
