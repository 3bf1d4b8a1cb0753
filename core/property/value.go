package property

import (
	"fmt"
	"reflect"
	"time"

	"datapath/core/utils"
)

// ValueConverter translates property values to and from the model (stored)
// representation.
type ValueConverter interface {
	// FromModel converts a stored value to the property type.
	FromModel(value any) (any, error)
	// ToModel converts a property value to the stored type.
	ToModel(value any) (any, error)
	// ModelType returns the stored type.
	ModelType() reflect.Type
}

// NumericBoolean stores booleans as 0/1 integers (tinyint columns).
type NumericBoolean struct{}

func (NumericBoolean) FromModel(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	return utils.ToBool(value), nil
}

func (NumericBoolean) ToModel(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	b, ok := value.(bool)
	if !ok {
		return nil, fmt.Errorf("numeric boolean: unsupported value %T", value)
	}
	if b {
		return 1, nil
	}
	return 0, nil
}

func (NumericBoolean) ModelType() reflect.Type { return reflect.TypeFor[int]() }

// StringBoolean stores booleans as "0"/"1" strings (enum columns).
type StringBoolean struct{}

func (StringBoolean) FromModel(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	return utils.ToBool(value), nil
}

func (StringBoolean) ToModel(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	b, ok := value.(bool)
	if !ok {
		return nil, fmt.Errorf("string boolean: unsupported value %T", value)
	}
	if b {
		return "1", nil
	}
	return "0", nil
}

func (StringBoolean) ModelType() reflect.Type { return reflect.TypeFor[string]() }

// FromModel converts a stored value into the declared type of p, using the
// property converter when present and loose coercion otherwise.
func FromModel(p *Property, value any) (any, error) {
	if p.Converter() != nil {
		return p.Converter().FromModel(value)
	}
	return Coerce(p.Type(), value)
}

// ToModel converts a property value into its stored representation.
func ToModel(p *Property, value any) (any, error) {
	if p.Converter() != nil {
		return p.Converter().ToModel(value)
	}
	return value, nil
}

// Coerce converts value to typ for the scalar kinds databases and clients hand
// back. Nil stays nil; values already assignable are returned unchanged.
// Conversion is strict: unparsable text, fractional numbers for integer
// types and out of range values fail with a *TypeMismatchError.
func Coerce(typ reflect.Type, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if reflect.TypeOf(value).AssignableTo(typ) {
		return value, nil
	}
	target := typ
	if target.Kind() == reflect.Pointer {
		target = target.Elem()
	}
	mismatch := func(cause error) error {
		return &TypeMismatchError{Actual: reflect.TypeOf(value), Required: typ, Err: cause}
	}

	out := reflect.New(target).Elem()
	switch {
	case target == reflect.TypeFor[time.Time]():
		t, ok := utils.ToTime(value)
		if !ok {
			return nil, mismatch(fmt.Errorf("cannot parse %v as time", value))
		}
		out.Set(reflect.ValueOf(t))
	case target.Kind() == reflect.String:
		out.SetString(utils.ToString(value))
	case target.Kind() == reflect.Bool:
		b, err := utils.ParseBool(value)
		if err != nil {
			return nil, mismatch(err)
		}
		out.SetBool(b)
	case target.Kind() >= reflect.Int && target.Kind() <= reflect.Int64:
		i, err := utils.ParseInt64(value)
		if err != nil {
			return nil, mismatch(err)
		}
		if out.OverflowInt(i) {
			return nil, mismatch(fmt.Errorf("%d overflows %s", i, target))
		}
		out.SetInt(i)
	case target.Kind() >= reflect.Uint && target.Kind() <= reflect.Uint64:
		i, err := utils.ParseInt64(value)
		if err != nil {
			return nil, mismatch(err)
		}
		if i < 0 || out.OverflowUint(uint64(i)) {
			return nil, mismatch(fmt.Errorf("%d overflows %s", i, target))
		}
		out.SetUint(uint64(i))
	case target.Kind() == reflect.Float32 || target.Kind() == reflect.Float64:
		f, err := utils.ParseFloat64(value)
		if err != nil {
			return nil, mismatch(err)
		}
		if out.OverflowFloat(f) {
			return nil, mismatch(fmt.Errorf("%g overflows %s", f, target))
		}
		out.SetFloat(f)
	default:
		rv := reflect.ValueOf(value)
		if !rv.Type().ConvertibleTo(target) {
			return nil, mismatch(nil)
		}
		out = rv.Convert(target)
	}

	if typ.Kind() == reflect.Pointer {
		ptr := reflect.New(target)
		ptr.Elem().Set(out)
		return ptr.Interface(), nil
	}
	return out.Interface(), nil
}
