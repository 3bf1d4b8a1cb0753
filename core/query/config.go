package query

import "maps"

// Config is a query definition.
type Config struct {
	// Target is the data target (table, collection) the query reads from.
	Target string
	// Filters are combined with AND.
	Filters []Filter
	// Sorts are applied in order.
	Sorts []Sort
	// Limit caps the number of results; zero means no limit.
	Limit int
	// Offset skips the first results.
	Offset int
	// Distinct removes duplicate rows.
	Distinct bool
	// Parameters are named values referenced by Param filter values.
	Parameters map[string]any
}

// Filter appends filters.
func (c *Config) Filter(filters ...Filter) *Config {
	c.Filters = append(c.Filters, filters...)
	return c
}

// SortBy appends a sort.
func (c *Config) SortBy(path string, descending bool) *Config {
	c.Sorts = append(c.Sorts, Sort{Path: path, Descending: descending})
	return c
}

// Restrict sets both limit and offset.
func (c *Config) Restrict(limit, offset int) *Config {
	c.Limit = limit
	c.Offset = offset
	return c
}

// Parameter sets a named parameter.
func (c *Config) Parameter(name string, value any) *Config {
	if c.Parameters == nil {
		c.Parameters = map[string]any{}
	}
	c.Parameters[name] = value
	return c
}

// ParameterValue returns a named parameter.
func (c Config) ParameterValue(name string) (any, bool) {
	v, ok := c.Parameters[name]
	return v, ok
}

// ResolveValue replaces a Param reference with the parameter value.
func (c Config) ResolveValue(value any) (any, error) {
	param, ok := value.(Param)
	if !ok {
		return value, nil
	}
	v, found := c.ParameterValue(string(param))
	if !found {
		return nil, invalid("undefined query parameter %q", string(param))
	}
	return v, nil
}

// Clone returns a deep enough copy to be modified independently.
func (c Config) Clone() Config {
	out := c
	out.Filters = append([]Filter(nil), c.Filters...)
	out.Sorts = append([]Sort(nil), c.Sorts...)
	out.Parameters = maps.Clone(c.Parameters)
	return out
}

// Validate checks that the query can be executed.
func (c Config) Validate() error {
	if c.Target == "" {
		return invalid("missing query data target")
	}
	if c.Limit < 0 {
		return invalid("negative limit %d", c.Limit)
	}
	if c.Offset < 0 {
		return invalid("negative offset %d", c.Offset)
	}
	for _, f := range c.Filters {
		if err := f.Validate(); err != nil {
			return err
		}
		if _, err := c.ResolveValue(f.Value); err != nil {
			return err
		}
	}
	for _, s := range c.Sorts {
		if s.Path == "" {
			return invalid("sort without path")
		}
	}
	return nil
}
