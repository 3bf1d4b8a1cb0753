package query

import (
	"fmt"
	"reflect"
	"strings"
)

// Operator is a filter comparison operator.
type Operator string

const (
	OpEq      Operator = "eq"
	OpNeq     Operator = "neq"
	OpLt      Operator = "lt"
	OpLte     Operator = "lte"
	OpGt      Operator = "gt"
	OpGte     Operator = "gte"
	OpLike    Operator = "like"
	OpIn      Operator = "in"
	OpNotIn   Operator = "nin"
	OpNull    Operator = "null"
	OpNotNull Operator = "notnull"
)

func (o Operator) valid() bool {
	switch o {
	case OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte, OpLike, OpIn, OpNotIn, OpNull, OpNotNull:
		return true
	}
	return false
}

// Unary reports whether the operator takes no value.
func (o Operator) Unary() bool {
	return o == OpNull || o == OpNotNull
}

// Param references a named query parameter as a filter value.
type Param string

// Filter restricts query results. The left operand is either a Path or a
// temporal Function.
type Filter struct {
	Path     string
	Function *TemporalFunction
	Op       Operator
	Value    any
}

func newFilter(left any, op Operator, value any) Filter {
	f := Filter{Op: op, Value: value}
	switch l := left.(type) {
	case string:
		f.Path = l
	case TemporalFunction:
		f.Function = &l
	case *TemporalFunction:
		f.Function = l
	}
	return f
}

// Eq matches values equal to value. left is a path or a TemporalFunction.
func Eq(left any, value any) Filter { return newFilter(left, OpEq, value) }

// Neq matches values different from value.
func Neq(left any, value any) Filter { return newFilter(left, OpNeq, value) }

// Lt matches values lower than value.
func Lt(left any, value any) Filter { return newFilter(left, OpLt, value) }

// Lte matches values lower than or equal to value.
func Lte(left any, value any) Filter { return newFilter(left, OpLte, value) }

// Gt matches values greater than value.
func Gt(left any, value any) Filter { return newFilter(left, OpGt, value) }

// Gte matches values greater than or equal to value.
func Gte(left any, value any) Filter { return newFilter(left, OpGte, value) }

// Like matches a SQL LIKE pattern.
func Like(left any, pattern string) Filter { return newFilter(left, OpLike, pattern) }

// In matches any of values.
func In(left any, values ...any) Filter { return newFilter(left, OpIn, values) }

// NotIn matches none of values.
func NotIn(left any, values ...any) Filter { return newFilter(left, OpNotIn, values) }

// IsNull matches missing values.
func IsNull(left any) Filter { return newFilter(left, OpNull, nil) }

// IsNotNull matches present values.
func IsNotNull(left any) Filter { return newFilter(left, OpNotNull, nil) }

// Validate checks the filter shape.
func (f Filter) Validate() error {
	if f.Path == "" && f.Function == nil {
		return invalid("filter has no operand")
	}
	if f.Path != "" && f.Function != nil {
		return invalid("filter has both a path and a function operand")
	}
	if f.Function != nil {
		if err := f.Function.Validate(); err != nil {
			return err
		}
	}
	if !f.Op.valid() {
		return invalid("unknown filter operator %q", f.Op)
	}
	if f.Op.Unary() {
		return nil
	}
	if f.Value == nil {
		return invalid("filter %s %s requires a value", f.operand(), f.Op)
	}
	if f.Op == OpIn || f.Op == OpNotIn {
		if _, ok := f.Value.(Param); ok {
			return nil
		}
		rv := reflect.ValueOf(f.Value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return invalid("filter %s %s requires a list value", f.operand(), f.Op)
		}
		if rv.Len() == 0 {
			return invalid("filter %s %s requires at least one value", f.operand(), f.Op)
		}
	}
	return nil
}

// Operand returns the referenced path; for functions, the function argument.
func (f Filter) Operand() string {
	if f.Function != nil {
		return f.Function.Path
	}
	return f.Path
}

func (f Filter) operand() string {
	if f.Function != nil {
		if f.Function.Path == "" {
			return string(f.Function.Kind) + "()"
		}
		return fmt.Sprintf("%s(%s)", f.Function.Kind, f.Function.Path)
	}
	return f.Path
}

func (f Filter) String() string {
	if f.Op.Unary() {
		return f.operand() + " " + string(f.Op)
	}
	return fmt.Sprintf("%s %s %v", f.operand(), f.Op, f.Value)
}

// ParseFilter parses the textual filter form "operand:op[:value]". The operand
// is a path or a temporal function call such as "year(created_at)"; "in" and
// "nin" values are separated by "|", and ":name" after the operator (a value
// starting with "@") references a named parameter.
func ParseFilter(s string) (Filter, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return Filter{}, invalid("filter %q must be operand:op[:value]", s)
	}
	left, err := parseOperand(strings.TrimSpace(parts[0]))
	if err != nil {
		return Filter{}, err
	}
	op := Operator(strings.ToLower(strings.TrimSpace(parts[1])))

	var value any
	if len(parts) == 3 {
		raw := parts[2]
		switch {
		case strings.HasPrefix(raw, "@"):
			value = Param(strings.TrimPrefix(raw, "@"))
		case op == OpIn || op == OpNotIn:
			var values []any
			for _, v := range strings.Split(raw, "|") {
				values = append(values, v)
			}
			value = values
		default:
			value = raw
		}
	}

	f := newFilter(left, op, value)
	if err := f.Validate(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

func parseOperand(s string) (any, error) {
	open := strings.Index(s, "(")
	if open < 0 || !strings.HasSuffix(s, ")") {
		if s == "" {
			return nil, invalid("empty filter operand")
		}
		return s, nil
	}
	fn := TemporalFunction{
		Kind: TemporalKind(strings.ToLower(s[:open])),
		Path: strings.TrimSpace(s[open+1 : len(s)-1]),
	}
	if err := fn.Validate(); err != nil {
		return nil, err
	}
	return fn, nil
}

// Sort orders query results by a path.
type Sort struct {
	Path       string
	Descending bool
}

// ParseSort parses "path" or "path:desc" / "path:asc".
func ParseSort(s string) (Sort, error) {
	path, dir, _ := strings.Cut(s, ":")
	path = strings.TrimSpace(path)
	if path == "" {
		return Sort{}, invalid("sort %q has no path", s)
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return Sort{Path: path}, nil
	case "desc":
		return Sort{Path: path, Descending: true}, nil
	default:
		return Sort{}, invalid("sort %q: unknown direction %q", s, dir)
	}
}
