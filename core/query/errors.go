package query

import (
	"errors"
	"fmt"
)

// ErrInvalidExpression is returned by Validate for incomplete or inconsistent
// definitions.
var ErrInvalidExpression = errors.New("invalid expression")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidExpression, fmt.Sprintf(format, args...))
}
