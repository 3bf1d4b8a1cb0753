package property

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidArgument is returned when a required argument is missing or zero.
	ErrInvalidArgument = errors.New("property: invalid argument")
	// ErrTypeMismatch is returned when a property type is not compatible with the
	// type requested by the caller.
	ErrTypeMismatch = errors.New("property: type mismatch")
	// ErrValidation is returned when a value fails a property validator.
	ErrValidation = errors.New("property: validation failed")
)

// TypeMismatchError describes an incompatible property type, or a value that
// cannot be converted to it.
type TypeMismatchError struct {
	Property string
	Actual   reflect.Type
	Required reflect.Type
	// Err is the conversion failure, if any.
	Err error
}

func (e *TypeMismatchError) Error() string {
	msg := fmt.Sprintf("type %s is not compatible with required type %s", typeName(e.Actual), typeName(e.Required))
	if e.Property != "" {
		msg = fmt.Sprintf("property %q: %s", e.Property, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

func (e *TypeMismatchError) Unwrap() error { return e.Err }

func invalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
