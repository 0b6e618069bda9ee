// Package directive implements the table-driven directive grammar. A
// Descriptor declares a keyword, the ordered tokens that follow it, how its
// body is parsed and how often it may occur. Descriptors are grouped into an
// immutable Set that is passed explicitly to each parse.
package directive

import "strconv"

// Usage selects how the directive's body is parsed.
type Usage uint8

// Directive usages.
const (
	// SingleLine directives end at the end of the line after their tokens.
	SingleLine Usage = iota
	// CodeBlock directives are followed by a braced C# block.
	CodeBlock
	// RazorBlock directives are followed by a braced markup block.
	RazorBlock
)

func (u Usage) String() string {
	switch u {
	case SingleLine:
		return "SingleLine"
	case CodeBlock:
		return "CodeBlock"
	case RazorBlock:
		return "RazorBlock"
	default:
		return "Usage(" + strconv.Itoa(int(u)) + ")"
	}
}

// Occurrence restricts where and how often a directive may appear.
type Occurrence uint8

// Directive occurrences.
const (
	MultipleOccurring Occurrence = iota
	SinglyOccurring
	FileScopedSinglyOccurring
	FileScopedMultipleOccurring
)

func (o Occurrence) String() string {
	switch o {
	case MultipleOccurring:
		return "MultipleOccurring"
	case SinglyOccurring:
		return "SinglyOccurring"
	case FileScopedSinglyOccurring:
		return "FileScopedSinglyOccurring"
	case FileScopedMultipleOccurring:
		return "FileScopedMultipleOccurring"
	default:
		return "Occurrence(" + strconv.Itoa(int(o)) + ")"
	}
}

// IsFileScoped reports whether the directive must appear at the top level.
func (o Occurrence) IsFileScoped() bool {
	return o == FileScopedSinglyOccurring || o == FileScopedMultipleOccurring
}

// IsSingle reports whether a second occurrence is an error.
func (o Occurrence) IsSingle() bool {
	return o == SinglyOccurring || o == FileScopedSinglyOccurring
}

// TokenKind is the type of a token following a directive keyword.
type TokenKind uint8

// Directive token kinds.
const (
	TokenType TokenKind = iota
	TokenMember
	TokenString
	TokenNamespace
	TokenAttribute
	TokenGenericTypeConstraint
	TokenBoolean
)

func (k TokenKind) String() string {
	switch k {
	case TokenType:
		return "Type"
	case TokenMember:
		return "Member"
	case TokenString:
		return "String"
	case TokenNamespace:
		return "Namespace"
	case TokenAttribute:
		return "Attribute"
	case TokenGenericTypeConstraint:
		return "GenericTypeConstraint"
	case TokenBoolean:
		return "Boolean"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Expectation is the phrase used in diagnostics when a token of this kind
// is missing or malformed.
func (k TokenKind) Expectation() string {
	switch k {
	case TokenType:
		return "a type name"
	case TokenMember:
		return "an identifier"
	case TokenString:
		return "a string surrounded by double quotes"
	case TokenNamespace:
		return "a namespace name"
	case TokenAttribute:
		return "a C# attribute"
	case TokenGenericTypeConstraint:
		return "a generic type constraint"
	case TokenBoolean:
		return "a boolean literal"
	default:
		return "a token"
	}
}

// TokenDescriptor declares one token of a directive.
type TokenDescriptor struct {
	Kind        TokenKind
	Optional    bool
	Name        string
	Description string
}

// Descriptor declares a directive. Descriptors are immutable once built.
type Descriptor struct {
	// Directive is the keyword following the transition, e.g. "model".
	Directive string

	// DisplayName is used in tooling; defaults to "@" + Directive.
	DisplayName string

	// Description documents the directive.
	Description string

	Usage      Usage
	Occurrence Occurrence

	// Tokens lists the expected tokens in order. Required tokens precede optional ones.
	Tokens []TokenDescriptor
}

// RequiredTokens returns the number of non-optional tokens.
func (d *Descriptor) RequiredTokens() int {
	count := 0
	for _, tok := range d.Tokens {
		if !tok.Optional {
			count++
		}
	}
	return count
}

// BlockName returns how the directive's block is named in diagnostics.
func (d *Descriptor) BlockName() string {
	return d.Directive
}
