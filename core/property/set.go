package property

import (
	"fmt"
	"iter"
	"slices"
)

// Set is an immutable, ordered and deduplicated collection of properties with
// a designated identifier subset.
type Set struct {
	properties  []*Property
	identifiers []*Property
	index       map[*Property]int
}

// SetConfig collects the members of a Set before it is built.
type SetConfig struct {
	// Properties in iteration order. Duplicates are dropped.
	Properties []*Property
	// Identifiers overrides the identifier subset. When empty, the properties
	// flagged as identifiers are used.
	Identifiers []*Property
}

// Build validates the configuration and returns the Set.
func (c SetConfig) Build() (*Set, error) {
	s := &Set{index: make(map[*Property]int, len(c.Properties))}
	for i, p := range c.Properties {
		if p == nil {
			return nil, invalidArgument(fmt.Sprintf("property at position %d is nil", i))
		}
		if _, dup := s.index[p]; dup {
			continue
		}
		s.index[p] = len(s.properties)
		s.properties = append(s.properties, p)
	}

	if len(c.Identifiers) > 0 {
		for _, id := range c.Identifiers {
			if id == nil {
				return nil, invalidArgument("identifier property is nil")
			}
			if _, ok := s.index[id]; !ok {
				return nil, invalidArgument(fmt.Sprintf("identifier %s is not part of the set", id))
			}
			if !slices.Contains(s.identifiers, id) {
				s.identifiers = append(s.identifiers, id)
			}
		}
		return s, nil
	}

	for _, p := range s.properties {
		if p.IsIdentifier() {
			s.identifiers = append(s.identifiers, p)
		}
	}
	return s, nil
}

// NewSet builds a Set from the given properties, deriving identifiers from the
// property flags.
func NewSet(properties ...*Property) (*Set, error) {
	return SetConfig{Properties: properties}.Build()
}

// Len returns the number of properties.
func (s *Set) Len() int { return len(s.properties) }

// All iterates the properties in insertion order.
func (s *Set) All() iter.Seq[*Property] {
	return func(yield func(*Property) bool) {
		for _, p := range s.properties {
			if !yield(p) {
				return
			}
		}
	}
}

// Properties returns a copy of the members.
func (s *Set) Properties() []*Property {
	return slices.Clone(s.properties)
}

// Identifiers returns a copy of the identifier subset.
func (s *Set) Identifiers() []*Property {
	return slices.Clone(s.identifiers)
}

// Contains reports whether p is a member of the set.
func (s *Set) Contains(p *Property) bool {
	_, ok := s.index[p]
	return ok
}

// IndexOf returns the position of p, -1 when p is not a member.
func (s *Set) IndexOf(p *Property) int {
	if i, ok := s.index[p]; ok {
		return i
	}
	return -1
}

// Version returns the first property flagged as version, if any.
func (s *Set) Version() *Property {
	for _, p := range s.properties {
		if p.IsVersion() {
			return p
		}
	}
	return nil
}
