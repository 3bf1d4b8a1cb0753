package property

import (
	"iter"
	"reflect"
	"sync"
)

// PropertyPath pairs a property with its resolved path.
type PropertyPath struct {
	Property *Property
	Path     Path
}

// AdapterConfig configures an Adapter.
type AdapterConfig struct {
	// Set is the wrapped property set. Required.
	Set *Set
	// Converter defaults to DefaultConverter.
	Converter PathConverter
	// Matcher defaults to MatchFullName.
	Matcher PathMatcher
}

// Build validates the configuration and returns the Adapter.
func (c AdapterConfig) Build() (*Adapter, error) {
	if c.Set == nil {
		return nil, invalidArgument("property set is required")
	}
	a := &Adapter{
		set:       c.Set,
		converter: c.Converter,
		matcher:   c.Matcher,
	}
	if a.converter == nil {
		a.converter = DefaultConverter
	}
	if a.matcher == nil {
		a.matcher = MatchFullName
	}
	a.resetLocked()
	return a, nil
}

// Adapter resolves paths and names to the properties of one Set.
//
// Hits are memoized per query path and per name. Misses are recomputed on each
// call. The memo is safe for concurrent use.
type Adapter struct {
	set *Set

	mu        sync.RWMutex
	converter PathConverter
	matcher   PathMatcher
	byPath    map[string]*Property
	byName    map[string]*Property
	// generation is bumped by every memo reset.
	generation uint64
}

// NewAdapter wraps set using the default converter and matcher.
func NewAdapter(set *Set) (*Adapter, error) {
	return AdapterConfig{Set: set}.Build()
}

// Set returns the wrapped property set.
func (a *Adapter) Set() *Set { return a.set }

// SetConverter replaces the path converter and resets the memo.
func (a *Adapter) SetConverter(c PathConverter) error {
	if c == nil {
		return invalidArgument("path converter is required")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.converter = c
	a.resetLocked()
	return nil
}

// SetMatcher replaces the path matcher and resets the memo.
func (a *Adapter) SetMatcher(m PathMatcher) error {
	if m == nil {
		return invalidArgument("path matcher is required")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.matcher = m
	a.resetLocked()
	return nil
}

func (a *Adapter) resetLocked() {
	a.generation++
	a.byPath = make(map[string]*Property, a.set.Len())
	a.byName = make(map[string]*Property, a.set.Len())
}

func (a *Adapter) strategies() (PathConverter, PathMatcher) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.converter, a.matcher
}

// Property returns the first property, in set order, whose converted path
// matches path. It returns nil when nothing matches.
func (a *Adapter) Property(path Path) (*Property, error) {
	if path.IsZero() {
		return nil, invalidArgument("path is required")
	}
	key := path.key()

	a.mu.RLock()
	hit, ok := a.byPath[key]
	converter, matcher, generation := a.converter, a.matcher, a.generation
	a.mu.RUnlock()
	if ok {
		return hit, nil
	}

	for p := range a.set.All() {
		pp, ok := converter.Convert(p)
		if ok && matcher.Match(pp, path) {
			a.mu.Lock()
			defer a.mu.Unlock()
			// A strategy replaced meanwhile makes this hit stale for the memo.
			if a.generation != generation {
				return p, nil
			}
			if existing, ok := a.byPath[key]; ok {
				return existing, nil
			}
			a.byPath[key] = p
			return p, nil
		}
	}
	return nil, nil
}

// Contains reports whether a property matches path. Invalid paths are never
// contained.
func (a *Adapter) Contains(path Path) bool {
	p, err := a.Property(path)
	return err == nil && p != nil
}

// PathOf returns the path of p when p belongs to the set and converts.
func (a *Adapter) PathOf(p *Property) (Path, bool, error) {
	if p == nil {
		return Path{}, false, invalidArgument("property is required")
	}
	if !a.set.Contains(p) {
		return Path{}, false, nil
	}
	converter, _ := a.strategies()
	path, ok := converter.Convert(p)
	return path, ok, nil
}

// PathIdentifiers returns the paths of every identifier property. When any
// identifier has no path the result is empty: partial identifier sets are
// never returned.
func (a *Adapter) PathIdentifiers() []Path {
	converter, _ := a.strategies()
	ids := a.set.Identifiers()
	out := make([]Path, 0, len(ids))
	for _, id := range ids {
		path, ok := converter.Convert(id)
		if !ok {
			return []Path{}
		}
		out = append(out, path)
	}
	return out
}

// Paths yields the path of every property that has one, in set order. Each
// call re-derives the sequence from the set.
func (a *Adapter) Paths() iter.Seq[Path] {
	return func(yield func(Path) bool) {
		converter, _ := a.strategies()
		for p := range a.set.All() {
			if path, ok := converter.Convert(p); ok {
				if !yield(path) {
					return
				}
			}
		}
	}
}

// PropertyPaths yields a PropertyPath for every property that has a path.
func (a *Adapter) PropertyPaths() iter.Seq[PropertyPath] {
	return func(yield func(PropertyPath) bool) {
		converter, _ := a.strategies()
		for p := range a.set.All() {
			if path, ok := converter.Convert(p); ok {
				if !yield(PropertyPath{Property: p, Path: path}) {
					return
				}
			}
		}
	}
}

// Names yields the name of every named property, in set order.
func (a *Adapter) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		for p := range a.set.All() {
			if p.Name() == "" {
				continue
			}
			if !yield(p.Name()) {
				return
			}
		}
	}
}

// PropertyByName returns the first property named name, nil when none.
func (a *Adapter) PropertyByName(name string) (*Property, error) {
	if name == "" {
		return nil, invalidArgument("property name is required")
	}

	a.mu.RLock()
	hit, ok := a.byName[name]
	a.mu.RUnlock()
	if ok {
		return hit, nil
	}

	for p := range a.set.All() {
		if p.Name() == name {
			a.mu.Lock()
			a.byName[name] = p
			a.mu.Unlock()
			return p, nil
		}
	}
	return nil, nil
}

// ContainsName reports whether a property is named name.
func (a *Adapter) ContainsName(name string) bool {
	p, err := a.PropertyByName(name)
	return err == nil && p != nil
}

// PropertyOfType resolves name and checks that the declared property type is
// assignable to typ. An incompatible type yields a *TypeMismatchError.
func (a *Adapter) PropertyOfType(name string, typ reflect.Type) (*Property, error) {
	if name == "" {
		return nil, invalidArgument("property name is required")
	}
	if typ == nil {
		return nil, invalidArgument("property type is required")
	}
	p, err := a.PropertyByName(name)
	if err != nil || p == nil {
		return nil, err
	}
	if !assignable(p.Type(), typ) {
		return nil, &TypeMismatchError{Property: name, Actual: p.Type(), Required: typ}
	}
	return p, nil
}

// Lookup is the generic form of Adapter.PropertyOfType.
func Lookup[T any](a *Adapter, name string) (*Property, error) {
	return a.PropertyOfType(name, reflect.TypeFor[T]())
}

func assignable(actual, required reflect.Type) bool {
	if actual.AssignableTo(required) {
		return true
	}
	// Pointer and value forms of the same type are interchangeable for lookups.
	if actual.Kind() == reflect.Pointer && actual.Elem().AssignableTo(required) {
		return true
	}
	return required.Kind() == reflect.Pointer && actual.AssignableTo(required.Elem())
}
