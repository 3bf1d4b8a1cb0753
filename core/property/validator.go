package property

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Validator checks a property value.
type Validator interface {
	Validate(value any) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(value any) error

func (f ValidatorFunc) Validate(value any) error { return f(value) }

// Required rejects nil values.
var Required Validator = ValidatorFunc(func(value any) error {
	if value == nil {
		return fmt.Errorf("value is required")
	}
	return nil
})

// ExpressionValidator evaluates an expr-lang boolean expression with the
// value bound to the "value" variable.
type ExpressionValidator struct {
	source  string
	program *vm.Program
}

// Expression compiles source into a validator.
func Expression(source string) (*ExpressionValidator, error) {
	if source == "" {
		return nil, invalidArgument("validation expression is required")
	}
	program, err := expr.Compile(source,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", source, err)
	}
	return &ExpressionValidator{source: source, program: program}, nil
}

// Source returns the expression text.
func (v *ExpressionValidator) Source() string { return v.source }

// Validate runs the expression. Nil values are skipped; combine with Required
// to reject them.
func (v *ExpressionValidator) Validate(value any) error {
	if value == nil {
		return nil
	}
	result, err := expr.Run(v.program, map[string]any{"value": value})
	if err != nil {
		return fmt.Errorf("eval %q: %w", v.source, err)
	}
	ok, isBool := result.(bool)
	if !isBool {
		return fmt.Errorf("expression %q returned %T, want bool", v.source, result)
	}
	if !ok {
		return fmt.Errorf("value %v does not satisfy %q", value, v.source)
	}
	return nil
}
