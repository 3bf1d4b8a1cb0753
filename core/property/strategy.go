package property

import "strings"

// PathConverter converts a property to the path addressing it. The second
// return value is false when the property has no path.
type PathConverter interface {
	Convert(p *Property) (Path, bool)
}

// PathConverterFunc adapts a function to PathConverter.
type PathConverterFunc func(p *Property) (Path, bool)

func (f PathConverterFunc) Convert(p *Property) (Path, bool) { return f(p) }

// PathMatcher tests whether a property path satisfies a query path.
type PathMatcher interface {
	Match(propertyPath, queryPath Path) bool
}

// PathMatcherFunc adapts a function to PathMatcher.
type PathMatcherFunc func(propertyPath, queryPath Path) bool

func (f PathMatcherFunc) Match(propertyPath, queryPath Path) bool { return f(propertyPath, queryPath) }

// DefaultConverter builds a path from the property name, nesting it under the
// path of the parent property. Unnamed properties, or properties with an
// unnamed ancestor, have no path.
var DefaultConverter PathConverter = PathConverterFunc(convertByName)

func convertByName(p *Property) (Path, bool) {
	if p == nil || p.Name() == "" {
		return Path{}, false
	}
	if p.Parent() == nil {
		return NewPath(p.Name(), p.Type()), true
	}
	parent, ok := convertByName(p.Parent())
	if !ok {
		return Path{}, false
	}
	return parent.Child(p.Name(), p.Type()), true
}

// ColumnConverter builds a root path from the "column" tag, falling back to
// DefaultConverter for untagged properties.
var ColumnConverter PathConverter = PathConverterFunc(func(p *Property) (Path, bool) {
	if p == nil {
		return Path{}, false
	}
	if column, ok := p.Tag("column"); ok && column != "" {
		return NewPath(column, p.Type()), true
	}
	return convertByName(p)
})

// MatchFullName matches paths with the same full name. Types are ignored, the
// query path type is a hint only.
var MatchFullName PathMatcher = PathMatcherFunc(func(a, b Path) bool {
	return a.FullName() == b.FullName()
})

// MatchCaseInsensitive matches full names ignoring case.
var MatchCaseInsensitive PathMatcher = PathMatcherFunc(func(a, b Path) bool {
	return strings.EqualFold(a.FullName(), b.FullName())
})

// MatchSuffix matches when the query path equals the property path or is a
// trailing subpath of it ("city" matches "address.city").
var MatchSuffix PathMatcher = PathMatcherFunc(func(a, b Path) bool {
	full, query := a.FullName(), b.FullName()
	return full == query || strings.HasSuffix(full, "."+query)
})

// MatchStructural matches with Path.Equal, so declared types must agree.
var MatchStructural PathMatcher = PathMatcherFunc(func(a, b Path) bool {
	return a.Equal(b)
})
