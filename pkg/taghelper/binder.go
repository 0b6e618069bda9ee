package taghelper

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/net/html"
)

// Errors returned by NewBinder.
var (
	ErrUnnamedDescriptor = errors.New("tag helper descriptor has no name")
	ErrNoRules           = errors.New("tag helper descriptor has no tag matching rules")
	ErrEmptyTagName      = errors.New("tag matching rule has an empty tag name")
)

// Attribute is a name/value pair read from an element's start tag. Value is
// the raw source text between the quotes; it is HTML-unescaped before
// comparison.
type Attribute struct {
	Name  string
	Value string
}

// Binding is the result of a successful Bind. All matching descriptors are
// retained in registration order.
type Binding struct {
	// TagName is the element name with any prefix removed.
	TagName string

	// ParentTag is the parent element name with any prefix removed.
	ParentTag string

	Descriptors []*Descriptor

	// Rules holds, per descriptor, the rules that matched.
	Rules map[*Descriptor][]*Rule
}

// TagStructure returns the structure demanded by the matched rules. When
// rules disagree the first non-unspecified one wins and ok is false.
func (b *Binding) TagStructure() (structure TagStructure, conflict *Descriptor, ok bool) {
	var owner *Descriptor
	for _, desc := range b.Descriptors {
		for _, rule := range b.Rules[desc] {
			if rule.TagStructure == TagStructureUnspecified {
				continue
			}
			if owner == nil {
				structure, owner = rule.TagStructure, desc
				continue
			}
			if rule.TagStructure != structure {
				return structure, desc, false
			}
		}
	}
	return structure, nil, true
}

// BoundAttribute returns the first bound attribute named name across all
// matched descriptors.
func (b *Binding) BoundAttribute(name string) (*BoundAttribute, *Descriptor, bool) {
	for _, desc := range b.Descriptors {
		if attr, ok := desc.BoundAttribute(name); ok {
			return attr, desc, true
		}
	}
	return nil, nil, false
}

// AllowedChildren returns the union of the descriptors' allowed child tags,
// or nil when children are unrestricted.
func (b *Binding) AllowedChildren() []string {
	var out []string
	for _, desc := range b.Descriptors {
		out = append(out, desc.AllowedChildTags...)
	}
	return out
}

// Binder matches elements against an ordered, immutable descriptor set.
// A Binder is safe for concurrent use.
type Binder struct {
	prefix        string
	caseSensitive bool
	descriptors   []*Descriptor
}

// NewBinder validates descs and returns a binder. Tag names must carry
// prefix to be considered. Component documents compare tag names
// case-sensitively; legacy documents do not.
func NewBinder(prefix string, caseSensitive bool, descs ...*Descriptor) (*Binder, error) {
	var err error
	for i, desc := range descs {
		if desc == nil {
			continue
		}
		if desc.Name == "" {
			err = multierr.Append(err, fmt.Errorf("descriptor %d: %w", i, ErrUnnamedDescriptor))
		}
		if len(desc.Rules) == 0 {
			err = multierr.Append(err, fmt.Errorf("descriptor %q: %w", desc.Name, ErrNoRules))
		}
		for _, rule := range desc.Rules {
			if rule.TagName == "" {
				err = multierr.Append(err, fmt.Errorf("descriptor %q: %w", desc.Name, ErrEmptyTagName))
			}
		}
	}
	if err != nil {
		return nil, err
	}

	kept := make([]*Descriptor, 0, len(descs))
	for _, desc := range descs {
		if desc != nil {
			kept = append(kept, desc)
		}
	}
	return &Binder{prefix: prefix, caseSensitive: caseSensitive, descriptors: kept}, nil
}

// Prefix returns the required tag prefix.
func (b *Binder) Prefix() string {
	if b == nil {
		return ""
	}
	return b.prefix
}

// Descriptors returns the registered descriptors in order.
func (b *Binder) Descriptors() []*Descriptor {
	if b == nil {
		return nil
	}
	return append([]*Descriptor(nil), b.descriptors...)
}

// Len returns the number of descriptors.
func (b *Binder) Len() int {
	if b == nil {
		return 0
	}
	return len(b.descriptors)
}

// Bind evaluates tagName against every descriptor. It returns nil when no
// rule matches or the tag lacks the binder's prefix.
func (b *Binder) Bind(tagName, parentTag string, attrs []Attribute) *Binding {
	if b == nil || len(b.descriptors) == 0 {
		return nil
	}

	name, ok := b.stripPrefix(tagName)
	if !ok {
		return nil
	}
	parent, _ := b.stripPrefix(parentTag)

	var binding *Binding
	for _, desc := range b.descriptors {
		for i := range desc.Rules {
			rule := &desc.Rules[i]
			if !b.matchRule(rule, name, parent, attrs) {
				continue
			}
			if binding == nil {
				binding = &Binding{TagName: name, ParentTag: parent, Rules: map[*Descriptor][]*Rule{}}
			}
			if _, seen := binding.Rules[desc]; !seen {
				binding.Descriptors = append(binding.Descriptors, desc)
			}
			binding.Rules[desc] = append(binding.Rules[desc], rule)
		}
	}
	return binding
}

func (b *Binder) stripPrefix(tagName string) (string, bool) {
	if b.prefix == "" {
		return tagName, true
	}
	if len(tagName) <= len(b.prefix) || !b.equal(tagName[:len(b.prefix)], b.prefix) {
		return tagName, false
	}
	return tagName[len(b.prefix):], true
}

func (b *Binder) equal(a, c string) bool {
	if b.caseSensitive {
		return a == c
	}
	return strings.EqualFold(a, c)
}

func (b *Binder) matchRule(rule *Rule, name, parent string, attrs []Attribute) bool {
	if rule.TagName != CatchAll && !b.equal(rule.TagName, name) {
		return false
	}
	if rule.ParentTag != "" && !b.equal(rule.ParentTag, parent) {
		return false
	}
	for _, required := range rule.Attributes {
		if !hasAttribute(required, attrs) {
			return false
		}
	}
	return true
}

func hasAttribute(required RequiredAttribute, attrs []Attribute) bool {
	for _, attr := range attrs {
		if !matchName(required, attr.Name) {
			continue
		}
		if matchValue(required, attr.Value) {
			return true
		}
	}
	return false
}

func matchName(required RequiredAttribute, name string) bool {
	switch required.NameComparison {
	case NamePrefixMatch:
		return len(name) > len(required.Name) && strings.EqualFold(name[:len(required.Name)], required.Name)
	case NameFullMatch:
		return strings.EqualFold(name, required.Name)
	default:
		return false
	}
}

func matchValue(required RequiredAttribute, raw string) bool {
	value := html.UnescapeString(raw)
	switch required.ValueComparison {
	case ValueNone:
		return true
	case ValueFullMatch:
		return value == required.Value
	case ValuePrefixMatch:
		return strings.HasPrefix(value, required.Value)
	case ValueSuffixMatch:
		return strings.HasSuffix(value, required.Value)
	default:
		return false
	}
}
