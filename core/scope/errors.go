package scope

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTenant is returned when a tenant bean is resolved without a tenant.
	ErrNoTenant = errors.New("no tenant available")
	// ErrBeanCreation matches every *BeanCreationError.
	ErrBeanCreation = errors.New("bean creation failed")
	// ErrNoSuchBean is returned for unknown bean names.
	ErrNoSuchBean = errors.New("no such bean")
	// ErrCircularReference is returned when a bean depends on itself, directly
	// or through other beans.
	ErrCircularReference = errors.New("circular bean reference")
)

// BeanCreationError reports a failure to create the named bean.
type BeanCreationError struct {
	Bean string
	Err  error
}

func (e *BeanCreationError) Error() string {
	return fmt.Sprintf("error creating bean %q: %v", e.Bean, e.Err)
}

func (e *BeanCreationError) Unwrap() error { return e.Err }

func (e *BeanCreationError) Is(target error) bool { return target == ErrBeanCreation }
