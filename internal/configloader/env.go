package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/razorparse/pkg/config"
)

// envVarPrefix is the prefix for all razorparse environment variables.
const envVarPrefix = "RAZORPARSE_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"LANGUAGE_VERSION": {field: "language_version", typ: envTypeString},
	"FILE_KIND":        {field: "file_kind", typ: envTypeString},
	"TOKENIZER":        {field: "tokenizer", typ: envTypeString},
	"NAMESPACE":        {field: "namespace", typ: envTypeString},
	"FORMAT":           {field: "format", typ: envTypeString},
	"DESIGN_TIME":      {field: "design_time", typ: envTypeBool},
	"LINE_PRAGMAS":     {field: "line_pragmas", typ: envTypeBool},
	"DRY_RUN":          {field: "dry_run", typ: envTypeBool},
	"JOBS":             {field: "jobs", typ: envTypeInt},
	"EXTENSIONS":       {field: "extensions", typ: envTypeSlice},
	"IGNORE":           {field: "ignore", typ: envTypeSlice},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with RAZORPARSE_ (e.g., RAZORPARSE_TOKENIZER).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "language_version":
		cfg.LanguageVersion = value
	case "file_kind":
		cfg.FileKind = value
	case "tokenizer":
		cfg.Tokenizer = value
	case "namespace":
		cfg.Namespace = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "design_time":
		cfg.DesignTime = value
	case "line_pragmas":
		cfg.LinePragmas = &value
	case "dry_run":
		cfg.DryRun = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "extensions":
		cfg.Extensions = value
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns a list of all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"RAZORPARSE_LANGUAGE_VERSION": "Razor language version, e.g. 3.0 or latest",
		"RAZORPARSE_FILE_KIND":        "Force a file kind: legacy, component, or import",
		"RAZORPARSE_TOKENIZER":        "C# tokenizer: legacy or host",
		"RAZORPARSE_NAMESPACE":        "Default namespace of generated classes",
		"RAZORPARSE_FORMAT":           "Output format: text, json, sarif, or summary",
		"RAZORPARSE_DESIGN_TIME":      "Design-time parsing: true or false",
		"RAZORPARSE_LINE_PRAGMAS":     "Emit #line regions: true or false",
		"RAZORPARSE_DRY_RUN":          "Dry-run mode: true or false",
		"RAZORPARSE_JOBS":             "Number of parallel workers (0 = auto)",
		"RAZORPARSE_EXTENSIONS":       "Comma-separated list of file extensions",
		"RAZORPARSE_IGNORE":           "Comma-separated list of ignore patterns",
	}
}
