// Package taghelper describes tag helpers and matches markup elements
// against them. A tag helper is a component that takes over an element
// when its tag name, parent tag and attributes satisfy one of its rules.
package taghelper

import "strings"

// NameComparison selects how a required attribute name is compared.
type NameComparison uint8

// Name comparisons.
const (
	NameFullMatch NameComparison = iota
	NamePrefixMatch
)

// ValueComparison selects how a required attribute value is compared.
type ValueComparison uint8

// Value comparisons. ValueNone only requires the attribute to be present.
const (
	ValueNone ValueComparison = iota
	ValueFullMatch
	ValuePrefixMatch
	ValueSuffixMatch
)

// TagStructure restricts how a bound element may be written.
type TagStructure uint8

// Tag structures.
const (
	TagStructureUnspecified TagStructure = iota
	TagStructureNormalOrSelfClosing
	TagStructureWithoutEndTag
)

func (s TagStructure) String() string {
	switch s {
	case TagStructureUnspecified:
		return "Unspecified"
	case TagStructureNormalOrSelfClosing:
		return "NormalOrSelfClosing"
	case TagStructureWithoutEndTag:
		return "WithoutEndTag"
	default:
		return "TagStructure(?)"
	}
}

// CatchAll is the tag name that matches every element.
const CatchAll = "*"

// RequiredAttribute is an attribute that must be present for a rule to match.
type RequiredAttribute struct {
	Name            string
	NameComparison  NameComparison
	Value           string
	ValueComparison ValueComparison
}

// Rule is one way a descriptor can match an element.
type Rule struct {
	// TagName is the element name, or CatchAll.
	TagName string

	// ParentTag, when set, requires the element's parent to have this name.
	ParentTag string

	Attributes   []RequiredAttribute
	TagStructure TagStructure
}

// BoundAttribute is an attribute consumed by the tag helper.
type BoundAttribute struct {
	Name         string
	PropertyName string
	TypeName     string

	// IndexerNamePrefix, when set, binds every attribute starting with it.
	IndexerNamePrefix string
}

// IsBoolean reports whether the attribute may be written minimized.
func (b *BoundAttribute) IsBoolean() bool {
	return b.TypeName == "bool" || b.TypeName == "System.Boolean"
}

// IsStringProperty reports whether the attribute value is plain text rather
// than a C# expression.
func (b *BoundAttribute) IsStringProperty() bool {
	return b.TypeName == "string" || b.TypeName == "System.String"
}

// Descriptor declares a tag helper.
type Descriptor struct {
	Name            string
	TypeName        string
	AssemblyName    string
	Rules           []Rule
	BoundAttributes []BoundAttribute

	// AllowedChildTags, when non-empty, restricts the child elements of a
	// bound element to these names.
	AllowedChildTags []string
}

// DisplayName returns the type name, falling back to the name.
func (d *Descriptor) DisplayName() string {
	if d.TypeName != "" {
		return d.TypeName
	}
	return d.Name
}

// BoundAttribute returns the bound attribute matching name.
func (d *Descriptor) BoundAttribute(name string) (*BoundAttribute, bool) {
	for i := range d.BoundAttributes {
		attr := &d.BoundAttributes[i]
		if strings.EqualFold(attr.Name, name) {
			return attr, true
		}
		if attr.IndexerNamePrefix != "" && len(name) > len(attr.IndexerNamePrefix) &&
			strings.EqualFold(name[:len(attr.IndexerNamePrefix)], attr.IndexerNamePrefix) {
			return attr, true
		}
	}
	return nil, false
}
