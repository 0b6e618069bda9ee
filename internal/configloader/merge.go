package configloader

import "github.com/yaklabco/razorparse/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Directives and tag helpers: merged by name, override's entries win
//   - Other slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.LanguageVersion != "" {
		result.LanguageVersion = override.LanguageVersion
	}
	if override.FileKind != "" {
		result.FileKind = override.FileKind
	}
	if override.Tokenizer != "" {
		result.Tokenizer = override.Tokenizer
	}
	if override.Namespace != "" {
		result.Namespace = override.Namespace
	}
	if override.TagHelperPrefix != "" {
		result.TagHelperPrefix = override.TagHelperPrefix
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	// Booleans can only be switched on by an override; false is the zero
	// value. LinePragmas is a pointer so a config file can turn it off.
	if override.DesignTime {
		result.DesignTime = true
	}
	if override.DryRun {
		result.DryRun = true
	}
	if override.LinePragmas != nil {
		enabled := *override.LinePragmas
		result.LinePragmas = &enabled
	}

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	result.Directives = mergeNamed(base.Directives, override.Directives,
		func(d config.DirectiveConfig) string { return d.Name })
	result.TagHelpers = mergeNamed(base.TagHelpers, override.TagHelpers,
		func(h config.TagHelperConfig) string { return h.Name })

	return &result
}

// mergeNamed merges two lists keyed by name. Entries of override replace
// entries of base with the same name in place; new names are appended.
func mergeNamed[T any](base, override []T, name func(T) string) []T {
	if base == nil && override == nil {
		return nil
	}

	result := make([]T, 0, len(base)+len(override))
	index := make(map[string]int, len(base))
	for _, item := range base {
		index[name(item)] = len(result)
		result = append(result, item)
	}

	for _, item := range override {
		if i, ok := index[name(item)]; ok {
			result[i] = item
			continue
		}
		index[name(item)] = len(result)
		result = append(result, item)
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
