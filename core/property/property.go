package property

import (
	"fmt"
	"maps"
	"reflect"
)

// Property is a typed, named handle to a data field. Properties are compared
// by identity and are immutable once built.
type Property struct {
	name        string
	typ         reflect.Type
	parent      *Property
	identifier  bool
	version     bool
	sequence    int
	hasSequence bool
	tags        map[string]string
	converter   ValueConverter
	validators  []Validator
}

// Config collects the attributes of a property before it is built.
type Config struct {
	// Name is the property name. Unnamed properties are valid but have no path.
	Name string
	// Type is the declared value type. Required.
	Type reflect.Type
	// Parent is the enclosing property for nested fields.
	Parent *Property
	// Identifier marks the property as part of the entity key.
	Identifier bool
	// Version marks the property as the entity version.
	Version bool
	// Sequence is the optional ordering hint.
	Sequence *int
	// Tags carries free form metadata (struct tag options, column names, ...).
	Tags map[string]string
	// Converter translates between the property type and the stored model type.
	Converter ValueConverter
	// Validators run on Box.Validate.
	Validators []Validator
}

// Build validates the configuration and returns the immutable property.
func (c Config) Build() (*Property, error) {
	if c.Type == nil {
		return nil, invalidArgument(fmt.Sprintf("property %q: type is required", c.Name))
	}
	p := &Property{
		name:       c.Name,
		typ:        c.Type,
		parent:     c.Parent,
		identifier: c.Identifier,
		version:    c.Version,
		converter:  c.Converter,
		tags:       maps.Clone(c.Tags),
	}
	if c.Sequence != nil {
		p.sequence = *c.Sequence
		p.hasSequence = true
	}
	for _, v := range c.Validators {
		if v != nil {
			p.validators = append(p.validators, v)
		}
	}
	return p, nil
}

// Of builds a named property of type T.
func Of[T any](name string) *Property {
	return &Property{name: name, typ: reflect.TypeFor[T]()}
}

// IdentifierOf builds a named identifier property of type T.
func IdentifierOf[T any](name string) *Property {
	return &Property{name: name, typ: reflect.TypeFor[T](), identifier: true}
}

// Name returns the property name, empty for unnamed properties.
func (p *Property) Name() string { return p.name }

// Type returns the declared value type.
func (p *Property) Type() reflect.Type { return p.typ }

// Parent returns the enclosing property, nil for root properties.
func (p *Property) Parent() *Property { return p.parent }

// IsIdentifier reports whether the property is part of the entity key.
func (p *Property) IsIdentifier() bool { return p.identifier }

// IsVersion reports whether the property holds the entity version.
func (p *Property) IsVersion() bool { return p.version }

// Sequence returns the ordering hint, if one was declared.
func (p *Property) Sequence() (int, bool) { return p.sequence, p.hasSequence }

// Tag returns a metadata value.
func (p *Property) Tag(key string) (string, bool) {
	v, ok := p.tags[key]
	return v, ok
}

// HasTag reports whether the metadata key is present.
func (p *Property) HasTag(key string) bool {
	_, ok := p.tags[key]
	return ok
}

// Converter returns the value converter, nil when values are stored as is.
func (p *Property) Converter() ValueConverter { return p.converter }

// Validators returns the property validators.
func (p *Property) Validators() []Validator {
	out := make([]Validator, len(p.validators))
	copy(out, p.validators)
	return out
}

// Validate runs every validator against value.
func (p *Property) Validate(value any) error {
	for _, v := range p.validators {
		if err := v.Validate(value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrValidation, p.label(), err)
		}
	}
	return nil
}

func (p *Property) label() string {
	if p.name == "" {
		return "<unnamed " + typeName(p.typ) + ">"
	}
	return p.name
}

func (p *Property) String() string {
	return fmt.Sprintf("%s[%s]", p.label(), typeName(p.typ))
}
