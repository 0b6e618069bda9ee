package config

import (
	"fmt"
	"strings"
)

// ParseOutputFormat parses a format name. Matching is case-insensitive.
func ParseOutputFormat(name string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(name)))
	if format == "" {
		return FormatText, nil
	}
	if !format.IsValid() {
		return "", fmt.Errorf("unknown output format %q (valid: text, json, sarif, summary)", name)
	}
	return format, nil
}

// ParseColorMode parses a color mode. Matching is case-insensitive.
func ParseColorMode(name string) (ColorMode, error) {
	mode := ColorMode(strings.ToLower(strings.TrimSpace(name)))
	if mode == "" {
		return ColorAuto, nil
	}
	if !mode.IsValid() {
		return "", fmt.Errorf("unknown color mode %q (valid: auto, always, never)", name)
	}
	return mode, nil
}
