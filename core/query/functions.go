package query

import (
	"reflect"
	"time"
)

// Expression is an operand that is not a plain path: temporal functions and
// other computed values rendered by the connector.
type Expression interface {
	// ResultType is the Go type the expression evaluates to.
	ResultType() reflect.Type
	Validate() error
}

// TemporalKind identifies a temporal function.
type TemporalKind string

const (
	CurrentTimestampKind TemporalKind = "current_timestamp"
	CurrentDateKind      TemporalKind = "current_date"
	YearKind             TemporalKind = "year"
	MonthKind            TemporalKind = "month"
	DayKind              TemporalKind = "day"
	HourKind             TemporalKind = "hour"
)

// TemporalFunction is a temporal function, optionally applied to a path.
type TemporalFunction struct {
	Kind TemporalKind
	// Path is the argument of extraction functions (year, month, ...).
	Path string
}

// CurrentTimestamp returns the current timestamp function.
func CurrentTimestamp() TemporalFunction { return TemporalFunction{Kind: CurrentTimestampKind} }

// CurrentDate returns the current date function.
func CurrentDate() TemporalFunction { return TemporalFunction{Kind: CurrentDateKind} }

// Year extracts the year of the temporal value at path.
func Year(path string) TemporalFunction { return TemporalFunction{Kind: YearKind, Path: path} }

// Month extracts the month (1-12) of the temporal value at path.
func Month(path string) TemporalFunction { return TemporalFunction{Kind: MonthKind, Path: path} }

// Day extracts the day of month of the temporal value at path.
func Day(path string) TemporalFunction { return TemporalFunction{Kind: DayKind, Path: path} }

// Hour extracts the hour of the temporal value at path.
func Hour(path string) TemporalFunction { return TemporalFunction{Kind: HourKind, Path: path} }

// ResultType implements Expression.
func (f TemporalFunction) ResultType() reflect.Type {
	switch f.Kind {
	case CurrentTimestampKind, CurrentDateKind:
		return reflect.TypeFor[time.Time]()
	case YearKind, MonthKind, DayKind, HourKind:
		return reflect.TypeFor[int]()
	default:
		return nil
	}
}

// IsExtraction reports whether the function takes a path argument.
func (f TemporalFunction) IsExtraction() bool {
	switch f.Kind {
	case YearKind, MonthKind, DayKind, HourKind:
		return true
	}
	return false
}

// Validate implements Expression.
func (f TemporalFunction) Validate() error {
	if f.ResultType() == nil {
		return invalid("unknown temporal function %q", f.Kind)
	}
	if f.IsExtraction() && f.Path == "" {
		return invalid("temporal function %s requires a path", f.Kind)
	}
	if !f.IsExtraction() && f.Path != "" {
		return invalid("temporal function %s takes no path", f.Kind)
	}
	return nil
}
