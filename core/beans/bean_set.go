package beans

import (
	"errors"
	"fmt"
	"reflect"

	"datapath/core/property"
)

// BeanPropertySet is the property set of a struct type, able to read and write
// values of bean instances.
type BeanPropertySet struct {
	*property.Set
	beanType reflect.Type
	fields   map[*property.Property][]int
	adapter  *property.Adapter
}

func newBeanPropertySet(t reflect.Type, properties []*property.Property, fields map[*property.Property][]int) (*BeanPropertySet, error) {
	set, err := property.NewSet(properties...)
	if err != nil {
		return nil, err
	}
	adapter, err := property.NewAdapter(set)
	if err != nil {
		return nil, err
	}
	return &BeanPropertySet{Set: set, beanType: t, fields: fields, adapter: adapter}, nil
}

// BeanType returns the introspected struct type.
func (s *BeanPropertySet) BeanType() reflect.Type { return s.beanType }

// Adapter returns the path adapter over the bean properties.
func (s *BeanPropertySet) Adapter() *property.Adapter { return s.adapter }

// IsNested reports whether p stands for a nested struct.
func IsNested(p *property.Property) bool {
	return p.HasTag("nested")
}

// Property resolves a dot separated path.
func (s *BeanPropertySet) Property(path string) (*property.Property, error) {
	p, err := s.adapter.Property(property.ParsePath(path))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s has no property %q", property.ErrInvalidArgument, s.beanType, path)
	}
	return p, nil
}

// Read returns the value at path in bean (a struct or pointer to struct).
func (s *BeanPropertySet) Read(bean any, path string) (any, error) {
	p, err := s.Property(path)
	if err != nil {
		return nil, err
	}
	root, err := s.root(bean, false)
	if err != nil {
		return nil, err
	}
	return root.FieldByIndex(s.fields[p]).Interface(), nil
}

// Write stores value at path in bean, which must be a non-nil pointer.
func (s *BeanPropertySet) Write(bean any, path string, value any) error {
	p, err := s.Property(path)
	if err != nil {
		return err
	}
	return s.write(bean, p, value)
}

func (s *BeanPropertySet) write(bean any, p *property.Property, value any) error {
	root, err := s.root(bean, true)
	if err != nil {
		return err
	}
	field := root.FieldByIndex(s.fields[p])
	if value == nil {
		field.SetZero()
		return nil
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(field.Type()) {
		converted, err := property.Coerce(field.Type(), value)
		if err != nil {
			return &property.TypeMismatchError{Property: p.Name(), Actual: v.Type(), Required: field.Type(), Err: errors.Unwrap(err)}
		}
		v = reflect.ValueOf(converted)
	}
	field.Set(v)
	return nil
}

// ToBox copies the leaf field values of bean into a new box.
func (s *BeanPropertySet) ToBox(bean any) (*property.Box, error) {
	root, err := s.root(bean, false)
	if err != nil {
		return nil, err
	}
	box := property.NewBox(s.Set)
	for p := range s.All() {
		if IsNested(p) {
			continue
		}
		if err := box.Put(p, root.FieldByIndex(s.fields[p]).Interface()); err != nil {
			return nil, err
		}
	}
	return box, nil
}

// FromBox copies the values stored in box into bean.
func (s *BeanPropertySet) FromBox(box *property.Box, bean any) error {
	if box == nil {
		return fmt.Errorf("%w: box is required", property.ErrInvalidArgument)
	}
	for p, v := range box.Values() {
		if _, ok := s.fields[p]; !ok || IsNested(p) {
			continue
		}
		if err := s.write(bean, p, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *BeanPropertySet) root(bean any, settable bool) (reflect.Value, error) {
	if bean == nil {
		return reflect.Value{}, fmt.Errorf("%w: bean is required", property.ErrInvalidArgument)
	}
	v := reflect.ValueOf(bean)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: bean is nil", property.ErrInvalidArgument)
		}
		v = v.Elem()
	} else if settable {
		return reflect.Value{}, fmt.Errorf("%w: bean must be a pointer to %s", property.ErrInvalidArgument, s.beanType)
	}
	if v.Type() != s.beanType {
		return reflect.Value{}, fmt.Errorf("%w: bean is %s, want %s", property.ErrInvalidArgument, v.Type(), s.beanType)
	}
	return v, nil
}
