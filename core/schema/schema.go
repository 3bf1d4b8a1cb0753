package schema

import (
	"errors"
	"fmt"
	"time"

	"datapath/core/datastore"
	"datapath/core/property"
)

// Origin tells where a schema was loaded from.
type Origin string

const (
	OriginModel    Origin = "model"
	OriginStorage  Origin = "storage"
	OriginDatabase Origin = "database"
)

// Schema is a named property set stored in Target.
type Schema struct {
	Name    string
	Target  string
	Origin  Origin
	Set     *property.Set
	Adapter *property.Adapter
}

// New builds a schema over set.
func New(name, target string, origin Origin, set *property.Set) (*Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: schema name is required", property.ErrInvalidArgument)
	}
	if target == "" {
		target = name
	}
	adapter, err := property.NewAdapter(set)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}
	return &Schema{Name: name, Target: target, Origin: origin, Set: set, Adapter: adapter}, nil
}

// Path returns the full path name of p.
func (s *Schema) Path(p *property.Property) string {
	path, ok, err := s.Adapter.PathOf(p)
	if err != nil || !ok {
		return p.Name()
	}
	return path.FullName()
}

// Decode builds a box from values keyed by path. Values are coerced to the
// property types; unknown paths are rejected.
func (s *Schema) Decode(values map[string]any) (*property.Box, error) {
	box := property.NewBox(s.Set)
	for key, raw := range values {
		p, err := s.Adapter.Property(property.ParsePath(key))
		if err != nil {
			return nil, err
		}
		if p == nil || !datastore.Selectable(p) {
			return nil, fmt.Errorf("%w: schema %s has no property %q", property.ErrInvalidArgument, s.Name, key)
		}
		v, err := property.Coerce(p.Type(), raw)
		if err != nil {
			var mismatch *property.TypeMismatchError
			if errors.As(err, &mismatch) {
				mismatch.Property = key
			}
			return nil, err
		}
		if err := box.Put(p, v); err != nil {
			return nil, err
		}
	}
	return box, nil
}

// Encode returns the box values keyed by path.
func (s *Schema) Encode(box *property.Box) map[string]any {
	out := make(map[string]any, s.Set.Len())
	for p, v := range box.Values() {
		if t, ok := v.(time.Time); ok {
			v = t.Format(time.RFC3339)
		}
		out[s.Path(p)] = v
	}
	return out
}

// Definition returns the portable form of s.
func (s *Schema) Definition() Definition {
	def := Definition{Name: s.Name, Target: s.Target}
	for p := range s.Set.All() {
		if !datastore.Selectable(p) {
			continue
		}
		pd := PropertyDefinition{
			Name:       s.Path(p),
			Type:       TypeName(p.Type()),
			Identifier: p.IsIdentifier(),
			Version:    p.IsVersion(),
		}
		if column := datastore.Column(p); column != pd.Name {
			pd.Column = column
		}
		if seq, ok := p.Sequence(); ok {
			pd.Sequence = &seq
		}
		for _, v := range p.Validators() {
			if ev, ok := v.(*property.ExpressionValidator); ok {
				pd.Validate = ev.Source()
			}
		}
		def.Properties = append(def.Properties, pd)
	}
	return def
}
