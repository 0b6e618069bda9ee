package directive

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/multierr"
)

// Set is an immutable collection of descriptors keyed by keyword. A Set is
// passed to each parse explicitly; there is no process-wide registry.
type Set struct {
	byName map[string]*Descriptor
}

// NewSet builds a set from descs. Nil descriptors are skipped; a keyword
// registered twice is an error.
func NewSet(descs ...*Descriptor) (*Set, error) {
	set := &Set{byName: make(map[string]*Descriptor, len(descs))}

	var err error
	for _, desc := range descs {
		if desc == nil {
			continue
		}
		if _, exists := set.byName[desc.Directive]; exists {
			err = multierr.Append(err, fmt.Errorf("%w: %q", ErrDuplicateName, desc.Directive))
			continue
		}
		set.byName[desc.Directive] = desc
	}
	if err != nil {
		return nil, err
	}
	return set, nil
}

// MustNewSet is like NewSet but panics on error.
func MustNewSet(descs ...*Descriptor) *Set {
	set, err := NewSet(descs...)
	if err != nil {
		panic(err)
	}
	return set
}

// Lookup returns the descriptor registered for name.
func (s *Set) Lookup(name string) (*Descriptor, bool) {
	if s == nil {
		return nil, false
	}
	desc, ok := s.byName[name]
	return desc, ok
}

// Has reports whether name is registered.
func (s *Set) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Len returns the number of descriptors.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.byName)
}

// Descriptors returns the descriptors sorted by keyword.
func (s *Set) Descriptors() []*Descriptor {
	if s == nil {
		return nil
	}
	out := make([]*Descriptor, 0, len(s.byName))
	for _, desc := range s.byName {
		out = append(out, desc)
	}
	slices.SortFunc(out, func(a, b *Descriptor) int {
		return strings.Compare(a.Directive, b.Directive)
	})
	return out
}

// With returns a new set holding the receiver's descriptors plus descs.
// Descriptors in descs replace registered ones with the same keyword.
func (s *Set) With(descs ...*Descriptor) *Set {
	next := &Set{byName: make(map[string]*Descriptor, s.Len()+len(descs))}
	if s != nil {
		for name, desc := range s.byName {
			next.byName[name] = desc
		}
	}
	for _, desc := range descs {
		if desc != nil {
			next.byName[desc.Directive] = desc
		}
	}
	return next
}
