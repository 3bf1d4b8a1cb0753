package schema

import (
	"fmt"
	"reflect"
	"time"

	"datapath/core/property"
)

// Definition is the JSON form of a schema.
type Definition struct {
	Name       string               `json:"name"`
	Target     string               `json:"target,omitempty"`
	Properties []PropertyDefinition `json:"properties"`
}

// PropertyDefinition is the JSON form of a property.
type PropertyDefinition struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Column     string `json:"column,omitempty"`
	Identifier bool   `json:"identifier,omitempty"`
	Version    bool   `json:"version,omitempty"`
	Sequence   *int   `json:"sequence,omitempty"`
	Validate   string `json:"validate,omitempty"`
}

var types = map[string]reflect.Type{
	"int64":   reflect.TypeFor[int64](),
	"int":     reflect.TypeFor[int](),
	"string":  reflect.TypeFor[string](),
	"float64": reflect.TypeFor[float64](),
	"bool":    reflect.TypeFor[bool](),
	"time":    reflect.TypeFor[time.Time](),
}

// TypeOf returns the Go type of a definition type name.
func TypeOf(name string) (reflect.Type, bool) {
	t, ok := types[name]
	return t, ok
}

// TypeName returns the definition type name of t, or its Go name when t has
// no definition name.
func TypeName(t reflect.Type) string {
	for name, candidate := range types {
		if candidate == t {
			return name
		}
	}
	return t.String()
}

// Build validates d and returns the schema it describes.
func (d Definition) Build(origin Origin) (*Schema, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("%w: schema definition without name", property.ErrInvalidArgument)
	}
	if len(d.Properties) == 0 {
		return nil, fmt.Errorf("%w: schema %s has no properties", property.ErrInvalidArgument, d.Name)
	}

	properties := make([]*property.Property, 0, len(d.Properties))
	for _, pd := range d.Properties {
		p, err := pd.build()
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", d.Name, err)
		}
		properties = append(properties, p)
	}

	set, err := property.NewSet(properties...)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", d.Name, err)
	}
	return New(d.Name, d.Target, origin, set)
}

func (pd PropertyDefinition) build() (*property.Property, error) {
	typ, ok := TypeOf(pd.Type)
	if !ok {
		return nil, fmt.Errorf("%w: property %s has unknown type %q", property.ErrInvalidArgument, pd.Name, pd.Type)
	}
	cfg := property.Config{
		Name:       pd.Name,
		Type:       typ,
		Identifier: pd.Identifier,
		Version:    pd.Version,
		Sequence:   pd.Sequence,
	}
	if pd.Column != "" {
		cfg.Tags = map[string]string{"column": pd.Column}
	}
	if pd.Validate != "" {
		v, err := property.Expression(pd.Validate)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", pd.Name, err)
		}
		cfg.Validators = append(cfg.Validators, v)
	}
	return cfg.Build()
}
