package directive

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"go.uber.org/multierr"
)

// Sentinel errors returned by Build and NewSet.
var (
	ErrEmptyName         = errors.New("directive name is empty")
	ErrInvalidName       = errors.New("directive name is not a valid identifier")
	ErrOptionalOrder     = errors.New("required token follows an optional token")
	ErrDuplicateName     = errors.New("directive registered more than once")
	ErrInvalidBodyTokens = errors.New("block directives cannot end with an optional generic constraint")
)

// Builder assembles a Descriptor.
//
//	desc, err := directive.NewBuilder("inject", directive.SingleLine).
//		AddTypeToken("TypeName", "The type of the service to inject.").
//		AddMemberToken("PropertyName", "The name of the property.").
//		Build()
type Builder struct {
	desc Descriptor
}

// NewBuilder starts a descriptor for the given keyword and usage.
func NewBuilder(name string, usage Usage) *Builder {
	return &Builder{desc: Descriptor{Directive: name, Usage: usage}}
}

// WithOccurrence sets the occurrence policy.
func (b *Builder) WithOccurrence(occurrence Occurrence) *Builder {
	b.desc.Occurrence = occurrence
	return b
}

// WithDescription sets the display name and description.
func (b *Builder) WithDescription(displayName, description string) *Builder {
	b.desc.DisplayName = displayName
	b.desc.Description = description
	return b
}

// AddToken appends a token descriptor.
func (b *Builder) AddToken(tok TokenDescriptor) *Builder {
	b.desc.Tokens = append(b.desc.Tokens, tok)
	return b
}

// AddTypeToken appends a required type-name token.
func (b *Builder) AddTypeToken(name, description string) *Builder {
	return b.AddToken(TokenDescriptor{Kind: TokenType, Name: name, Description: description})
}

// AddOptionalTypeToken appends an optional type-name token.
func (b *Builder) AddOptionalTypeToken(name, description string) *Builder {
	return b.AddToken(TokenDescriptor{Kind: TokenType, Optional: true, Name: name, Description: description})
}

// AddMemberToken appends a required identifier token.
func (b *Builder) AddMemberToken(name, description string) *Builder {
	return b.AddToken(TokenDescriptor{Kind: TokenMember, Name: name, Description: description})
}

// AddOptionalMemberToken appends an optional identifier token.
func (b *Builder) AddOptionalMemberToken(name, description string) *Builder {
	return b.AddToken(TokenDescriptor{Kind: TokenMember, Optional: true, Name: name, Description: description})
}

// AddStringToken appends a required quoted string token.
func (b *Builder) AddStringToken(name, description string) *Builder {
	return b.AddToken(TokenDescriptor{Kind: TokenString, Name: name, Description: description})
}

// AddOptionalStringToken appends an optional quoted string token.
func (b *Builder) AddOptionalStringToken(name, description string) *Builder {
	return b.AddToken(TokenDescriptor{Kind: TokenString, Optional: true, Name: name, Description: description})
}

// AddNamespaceToken appends a required namespace token.
func (b *Builder) AddNamespaceToken(name, description string) *Builder {
	return b.AddToken(TokenDescriptor{Kind: TokenNamespace, Name: name, Description: description})
}

// AddAttributeToken appends a required bracketed C# attribute token.
func (b *Builder) AddAttributeToken(name, description string) *Builder {
	return b.AddToken(TokenDescriptor{Kind: TokenAttribute, Name: name, Description: description})
}

// AddOptionalGenericTypeConstraintToken appends an optional "where" clause token.
func (b *Builder) AddOptionalGenericTypeConstraintToken(name, description string) *Builder {
	return b.AddToken(TokenDescriptor{
		Kind: TokenGenericTypeConstraint, Optional: true, Name: name, Description: description,
	})
}

// AddBooleanToken appends a required true/false token.
func (b *Builder) AddBooleanToken(name, description string) *Builder {
	return b.AddToken(TokenDescriptor{Kind: TokenBoolean, Name: name, Description: description})
}

// Build validates and returns the descriptor. Every problem found is
// reported; the returned error combines them.
func (b *Builder) Build() (*Descriptor, error) {
	desc := b.desc
	desc.Tokens = append([]TokenDescriptor(nil), b.desc.Tokens...)
	if desc.DisplayName == "" {
		desc.DisplayName = "@" + desc.Directive
	}

	if err := validate(&desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

// MustBuild is like Build but panics on error. It is intended for
// package-level tables of well-known directives.
func (b *Builder) MustBuild() *Descriptor {
	desc, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("directive %q: %v", b.desc.Directive, err))
	}
	return desc
}

func validate(desc *Descriptor) error {
	var err error

	if desc.Directive == "" {
		err = multierr.Append(err, ErrEmptyName)
	} else if !isIdentifier(desc.Directive) {
		err = multierr.Append(err, fmt.Errorf("%w: %q", ErrInvalidName, desc.Directive))
	}

	seenOptional := false
	for i, tok := range desc.Tokens {
		if tok.Optional {
			seenOptional = true
			continue
		}
		if seenOptional {
			err = multierr.Append(err, fmt.Errorf("%w: token %d (%s)", ErrOptionalOrder, i, tok.Kind))
		}
	}

	if desc.Usage != SingleLine && len(desc.Tokens) > 0 &&
		desc.Tokens[len(desc.Tokens)-1].Kind == TokenGenericTypeConstraint {
		err = multierr.Append(err, ErrInvalidBodyTokens)
	}

	return err
}

func isIdentifier(name string) bool {
	for i, r := range name {
		if r == utf8.RuneError {
			return false
		}
		if i == 0 && !(unicode.IsLetter(r) || r == '_') {
			return false
		}
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return name != ""
}
