package config

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/yaklabco/razorparse/pkg/codegen"
	"github.com/yaklabco/razorparse/pkg/directive"
	"github.com/yaklabco/razorparse/pkg/language"
	"github.com/yaklabco/razorparse/pkg/taghelper"
)

// LanguageOptions converts the language settings to parser options. When no
// file kind is forced, Directives is left nil so each document gets the
// defaults of the kind implied by its path.
func (c *Config) LanguageOptions() (language.Options, error) {
	var opts language.Options
	var errs error

	version, err := language.ParseVersion(orDefault(c.LanguageVersion, "latest"))
	multierr.AppendInto(&errs, err)
	opts.Version = version

	tokenizer, err := language.ParseTokenizerStrategy(c.Tokenizer)
	multierr.AppendInto(&errs, err)
	opts.Tokenizer = tokenizer
	opts.DesignTime = c.DesignTime

	custom, err := c.CustomDirectives()
	multierr.AppendInto(&errs, err)

	if c.FileKind != "" {
		kind, err := language.ParseFileKind(c.FileKind)
		multierr.AppendInto(&errs, err)
		opts.FileKind = kind
		opts.Directives = language.DefaultDirectives(kind).With(custom...)
	}

	if errs != nil {
		return language.Options{}, errs
	}
	return opts, nil
}

// CustomDirectives builds the descriptors of the configured directives.
func (c *Config) CustomDirectives() ([]*directive.Descriptor, error) {
	var errs error
	descs := make([]*directive.Descriptor, 0, len(c.Directives))

	for _, dc := range c.Directives {
		desc, err := dc.descriptor()
		if err != nil {
			multierr.AppendInto(&errs, fmt.Errorf("directive %q: %w", dc.Name, err))
			continue
		}
		descs = append(descs, desc)
	}
	return descs, errs
}

func (dc DirectiveConfig) descriptor() (*directive.Descriptor, error) {
	usage, err := parseUsage(dc.Usage)
	if err != nil {
		return nil, err
	}
	occurrence, err := parseOccurrence(dc.Occurrence)
	if err != nil {
		return nil, err
	}

	builder := directive.NewBuilder(dc.Name, usage).
		WithOccurrence(occurrence).
		WithDescription("@"+dc.Name, dc.Description)
	for _, tc := range dc.Tokens {
		kind, err := parseTokenKind(tc.Kind)
		if err != nil {
			return nil, err
		}
		builder.AddToken(directive.TokenDescriptor{
			Kind:        kind,
			Optional:    tc.Optional,
			Name:        tc.Name,
			Description: tc.Description,
		})
	}
	return builder.Build()
}

// Binder builds a binder holding the configured tag helpers, or nil when
// none are configured. Component tag helpers match case-sensitively.
func (c *Config) Binder() (*taghelper.Binder, error) {
	if len(c.TagHelpers) == 0 {
		return nil, nil
	}

	var errs error
	descs := make([]*taghelper.Descriptor, 0, len(c.TagHelpers))
	for _, hc := range c.TagHelpers {
		desc, err := hc.descriptor()
		if err != nil {
			multierr.AppendInto(&errs, fmt.Errorf("tag helper %q: %w", hc.Name, err))
			continue
		}
		descs = append(descs, desc)
	}
	if errs != nil {
		return nil, errs
	}

	caseSensitive := false
	if c.FileKind != "" {
		kind, err := language.ParseFileKind(c.FileKind)
		if err != nil {
			return nil, err
		}
		caseSensitive = kind.IsComponent()
	}
	return taghelper.NewBinder(c.TagHelperPrefix, caseSensitive, descs...)
}

func (hc TagHelperConfig) descriptor() (*taghelper.Descriptor, error) {
	desc := &taghelper.Descriptor{
		Name:             hc.Name,
		TypeName:         hc.Type,
		AssemblyName:     hc.Assembly,
		AllowedChildTags: hc.AllowedChildren,
	}

	for _, rc := range hc.Rules {
		structure, err := parseTagStructure(rc.Structure)
		if err != nil {
			return nil, err
		}
		rule := taghelper.Rule{TagName: rc.Tag, ParentTag: rc.Parent, TagStructure: structure}
		for _, ac := range rc.Attributes {
			required, err := ac.required()
			if err != nil {
				return nil, err
			}
			rule.Attributes = append(rule.Attributes, required)
		}
		desc.Rules = append(desc.Rules, rule)
	}

	for _, bc := range hc.Attributes {
		desc.BoundAttributes = append(desc.BoundAttributes, taghelper.BoundAttribute{
			Name:              bc.Name,
			PropertyName:      bc.Property,
			TypeName:          bc.Type,
			IndexerNamePrefix: bc.IndexerPrefix,
		})
	}
	return desc, nil
}

func (ac RequiredAttributeConfig) required() (taghelper.RequiredAttribute, error) {
	required := taghelper.RequiredAttribute{Name: ac.Name, Value: ac.Value}
	if ac.NamePrefix {
		required.NameComparison = taghelper.NamePrefixMatch
	}

	switch normalize(ac.ValueMatch) {
	case "":
		if ac.Value != "" {
			required.ValueComparison = taghelper.ValueFullMatch
		}
	case "full":
		required.ValueComparison = taghelper.ValueFullMatch
	case "prefix":
		required.ValueComparison = taghelper.ValuePrefixMatch
	case "suffix":
		required.ValueComparison = taghelper.ValueSuffixMatch
	default:
		return required, fmt.Errorf("unknown value match %q", ac.ValueMatch)
	}
	return required, nil
}

// CodegenOptions converts the generation settings.
func (c *Config) CodegenOptions() codegen.Options {
	return codegen.Options{
		Namespace:   c.Namespace,
		LinePragmas: c.LinePragmasEnabled(),
		DesignTime:  c.DesignTime,
	}
}

func parseUsage(text string) (directive.Usage, error) {
	switch normalize(text) {
	case "", "single_line":
		return directive.SingleLine, nil
	case "code_block":
		return directive.CodeBlock, nil
	case "razor_block":
		return directive.RazorBlock, nil
	default:
		return 0, fmt.Errorf("unknown usage %q", text)
	}
}

func parseOccurrence(text string) (directive.Occurrence, error) {
	switch normalize(text) {
	case "", "multiple":
		return directive.MultipleOccurring, nil
	case "single":
		return directive.SinglyOccurring, nil
	case "file_scoped_single":
		return directive.FileScopedSinglyOccurring, nil
	case "file_scoped_multiple":
		return directive.FileScopedMultipleOccurring, nil
	default:
		return 0, fmt.Errorf("unknown occurrence %q", text)
	}
}

func parseTokenKind(text string) (directive.TokenKind, error) {
	switch normalize(text) {
	case "type":
		return directive.TokenType, nil
	case "member":
		return directive.TokenMember, nil
	case "string":
		return directive.TokenString, nil
	case "namespace":
		return directive.TokenNamespace, nil
	case "attribute":
		return directive.TokenAttribute, nil
	case "generic_type_constraint":
		return directive.TokenGenericTypeConstraint, nil
	case "boolean":
		return directive.TokenBoolean, nil
	default:
		return 0, fmt.Errorf("unknown token kind %q", text)
	}
}

func parseTagStructure(text string) (taghelper.TagStructure, error) {
	switch normalize(text) {
	case "":
		return taghelper.TagStructureUnspecified, nil
	case "normal_or_self_closing":
		return taghelper.TagStructureNormalOrSelfClosing, nil
	case "without_end_tag":
		return taghelper.TagStructureWithoutEndTag, nil
	default:
		return 0, fmt.Errorf("unknown tag structure %q", text)
	}
}

// normalize lowercases text and accepts "-" for "_".
func normalize(text string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), "-", "_")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
