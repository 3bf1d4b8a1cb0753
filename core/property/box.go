package property

import (
	"fmt"
	"iter"
	"reflect"
)

// Box holds values for the properties of one Set.
type Box struct {
	set    *Set
	values map[*Property]any
}

// NewBox creates an empty box for set.
func NewBox(set *Set) *Box {
	return &Box{set: set, values: make(map[*Property]any, set.Len())}
}

// Set returns the property set of the box.
func (b *Box) Set() *Set { return b.set }

// Put stores value for p. The property must belong to the set and the value
// must be assignable to the declared type; nil clears the value.
func (b *Box) Put(p *Property, value any) error {
	if p == nil {
		return invalidArgument("property is required")
	}
	if !b.set.Contains(p) {
		return invalidArgument(fmt.Sprintf("property %s is not part of the box set", p))
	}
	if value == nil {
		b.values[p] = nil
		return nil
	}
	if vt := reflect.TypeOf(value); !assignable(vt, p.Type()) {
		return &TypeMismatchError{Property: p.Name(), Actual: vt, Required: p.Type()}
	}
	b.values[p] = value
	return nil
}

// Value returns the value stored for p.
func (b *Box) Value(p *Property) (any, bool) {
	v, ok := b.values[p]
	return v, ok
}

// Contains reports whether a value (possibly nil) was stored for p.
func (b *Box) Contains(p *Property) bool {
	_, ok := b.values[p]
	return ok
}

// Values yields the stored values in set order.
func (b *Box) Values() iter.Seq2[*Property, any] {
	return func(yield func(*Property, any) bool) {
		for p := range b.set.All() {
			v, ok := b.values[p]
			if !ok {
				continue
			}
			if !yield(p, v) {
				return
			}
		}
	}
}

// Validate runs the validators of every property of the set, including the
// properties without a stored value.
func (b *Box) Validate() error {
	for p := range b.set.All() {
		if err := p.Validate(b.values[p]); err != nil {
			return err
		}
	}
	return nil
}

// Map returns the stored values keyed by property name. Unnamed properties are
// skipped.
func (b *Box) Map() map[string]any {
	out := make(map[string]any, len(b.values))
	for p, v := range b.Values() {
		if p.Name() != "" {
			out[p.Name()] = v
		}
	}
	return out
}
