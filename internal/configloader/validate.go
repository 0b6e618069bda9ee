package configloader

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/multierr"

	"github.com/yaklabco/razorparse/pkg/config"
	"github.com/yaklabco/razorparse/pkg/directive"
	"github.com/yaklabco/razorparse/pkg/language"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "directives[0]").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., a custom directive shadowing a built-in).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if _, err := language.ParseVersion(cfg.LanguageVersion); err != nil {
		result.addError("language_version", cfg.LanguageVersion,
			"invalid language version %q; must be 1.0 through 8.0, latest, or experimental", cfg.LanguageVersion)
	}
	if _, err := language.ParseFileKind(cfg.FileKind); err != nil {
		result.addError("file_kind", cfg.FileKind,
			"invalid file kind %q; must be one of: legacy, component, import", cfg.FileKind)
	}
	if _, err := language.ParseTokenizerStrategy(cfg.Tokenizer); err != nil {
		result.addError("tokenizer", cfg.Tokenizer, "invalid tokenizer %q; must be one of: legacy, host", cfg.Tokenizer)
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("format", cfg.Format,
			"invalid format %q; must be one of: text, json, sarif, summary", cfg.Format)
	}
	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.addError("color", cfg.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}
	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			result.addError(fmt.Sprintf("extensions[%d]", i), ext, "extension %q must start with a dot", ext)
		}
	}

	validateIgnorePatterns(cfg, result)
	validateDirectives(cfg, result)
	validateTagHelpers(cfg, result)

	return result
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			result.addError(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern %q", pattern)
		}
	}
}

// validateDirectives checks custom directives. Redefining a built-in is
// allowed but reported.
func validateDirectives(cfg *config.Config, result *ValidationResult) {
	builtin := directive.LegacyDefaults().With(directive.ComponentDefaults().Descriptors()...)
	seen := make(map[string]bool, len(cfg.Directives))

	for i, dc := range cfg.Directives {
		field := fmt.Sprintf("directives[%d]", i)
		if seen[dc.Name] {
			result.addWarning(field, dc.Name, "directive %q is declared more than once; the last declaration wins", dc.Name)
		}
		seen[dc.Name] = true
		if builtin.Has(dc.Name) {
			result.addWarning(field, dc.Name, "directive %q replaces the built-in directive", dc.Name)
		}
	}

	_, err := cfg.CustomDirectives()
	for _, err := range multierr.Errors(err) {
		result.addError("directives", nil, "%v", err)
	}
}

// validateTagHelpers checks that every tag helper builds a valid descriptor.
func validateTagHelpers(cfg *config.Config, result *ValidationResult) {
	for i, hc := range cfg.TagHelpers {
		if len(hc.Attributes) > 0 && hc.Type == "" {
			result.addWarning(fmt.Sprintf("tag_helpers[%d]", i), hc.Name,
				"tag helper %q binds attributes but has no type; generated code uses its name", hc.Name)
		}
	}

	_, err := cfg.Binder()
	for _, err := range multierr.Errors(err) {
		result.addError("tag_helpers", nil, "%v", err)
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return f.IsValid()
}
