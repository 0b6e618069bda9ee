package language

import (
	"fmt"
	"strings"

	"github.com/yaklabco/razorparse/pkg/directive"
)

// TokenizerStrategy selects the C# tokenizer implementation.
type TokenizerStrategy uint8

// Tokenizer strategies. Both produce the same token stream.
const (
	TokenizerLegacy TokenizerStrategy = iota
	TokenizerHost
)

func (s TokenizerStrategy) String() string {
	if s == TokenizerHost {
		return "host"
	}
	return "legacy"
}

// ParseTokenizerStrategy parses "legacy" or "host".
func ParseTokenizerStrategy(text string) (TokenizerStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "legacy", "":
		return TokenizerLegacy, nil
	case "host":
		return TokenizerHost, nil
	default:
		return 0, fmt.Errorf("unknown tokenizer strategy %q", text)
	}
}

// FeatureFlags are the version and file kind dependent switches consulted
// by the parser and the rewriters.
type FeatureFlags struct {
	AllowMinimizedBooleanTagHelperAttributes bool
	AllowHTMLCommentsInTagHelpers            bool
	AllowComponentFileKind                   bool
	AllowRazorInAllCodeBlocks                bool
	AllowUsingVariableDeclarations           bool
	AllowConditionalDataDashAttributes       bool
	AllowCSharpInMarkupAttributeArea         bool
	AllowNullableForgivenessOperator         bool
}

// Flags derives the feature flags for a version and file kind.
func Flags(version Version, kind FileKind) FeatureFlags {
	flags := FeatureFlags{AllowCSharpInMarkupAttributeArea: true}

	if version.AtLeast(Version2_1) {
		flags.AllowMinimizedBooleanTagHelperAttributes = true
		flags.AllowHTMLCommentsInTagHelpers = true
	}
	if version.AtLeast(Version3_0) {
		flags.AllowComponentFileKind = true
		flags.AllowRazorInAllCodeBlocks = true
		flags.AllowUsingVariableDeclarations = true
		flags.AllowNullableForgivenessOperator = true
	}
	if kind.IsComponent() || version == VersionExperimental {
		flags.AllowConditionalDataDashAttributes = true
	}
	if kind.IsComponent() {
		flags.AllowCSharpInMarkupAttributeArea = false
	}
	return flags
}

// Options configure a single parse. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	// DesignTime keeps incomplete constructs such as a trailing "." in
	// implicit expressions, for editor scenarios.
	DesignTime bool

	Tokenizer TokenizerStrategy
	Version   Version
	FileKind  FileKind

	// Directives is the directive set in effect. Nil means none.
	Directives *directive.Set

	// ParseLeadingDirectives stops parsing after the leading directives.
	ParseLeadingDirectives bool
}

// DefaultOptions returns options for the latest version and the built-in
// directives of kind.
func DefaultOptions(kind FileKind) Options {
	return Options{
		Tokenizer:  TokenizerLegacy,
		Version:    Latest,
		FileKind:   kind,
		Directives: DefaultDirectives(kind),
	}
}

// DefaultDirectives returns the built-in directive set for kind.
func DefaultDirectives(kind FileKind) *directive.Set {
	if kind.IsComponent() {
		return directive.ComponentDefaults()
	}
	return directive.LegacyDefaults()
}

// Flags returns the feature flags for the options' version and file kind.
func (o Options) Flags() FeatureFlags {
	return Flags(o.Version, o.FileKind)
}
