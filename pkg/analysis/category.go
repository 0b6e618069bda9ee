package analysis

import "strings"

// Diagnostic categories, one per pipeline stage that reports them.
const (
	CategoryParsing   = "parsing"
	CategoryDirective = "directive"
	CategoryTagHelper = "tag helper"
	CategoryOther     = "other"
)

// Category returns the pipeline stage a diagnostic ID belongs to: RZ1xxx
// come from tokenizing and parsing, RZ2xxx from directives and RZ3xxx from
// tag helper binding.
func Category(id string) string {
	switch {
	case strings.HasPrefix(id, "RZ1"):
		return CategoryParsing
	case strings.HasPrefix(id, "RZ2"):
		return CategoryDirective
	case strings.HasPrefix(id, "RZ3"):
		return CategoryTagHelper
	default:
		return CategoryOther
	}
}

func categoryRank(id string) int {
	switch Category(id) {
	case CategoryParsing:
		return 0
	case CategoryDirective:
		return 1
	case CategoryTagHelper:
		return 2
	default:
		return 3
	}
}
