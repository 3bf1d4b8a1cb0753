package scope

import (
	"context"
	"reflect"
	"slices"
	"sync"

	"datapath/core/property"
)

// Scope resolves resources by key.
type Scope interface {
	// Name identifies the scope in a Registry.
	Name() string
	// Order ranks the scope; lower values are consulted first.
	Order() int
	// Resource returns the resource bound to key. found is false when the scope
	// does not know key.
	Resource(ctx context.Context, key string) (value any, found bool, err error)
}

// Registry is an ordered set of named scopes.
type Registry struct {
	mu     sync.RWMutex
	scopes []Scope
}

var defaultRegistry = NewRegistry(ContextScope{})

// Default returns the process-wide registry. It starts with a ContextScope.
func Default() *Registry { return defaultRegistry }

// NewRegistry returns a registry holding scopes.
func NewRegistry(scopes ...Scope) *Registry {
	r := &Registry{}
	for _, s := range scopes {
		r.Register(s)
	}
	return r
}

// Register adds s, replacing any scope with the same name.
func (r *Registry) Register(s Scope) {
	if s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scopes = slices.DeleteFunc(r.scopes, func(existing Scope) bool { return existing.Name() == s.Name() })
	r.scopes = append(r.scopes, s)
	slices.SortStableFunc(r.scopes, func(a, b Scope) int { return a.Order() - b.Order() })
}

// RegisterBeans adds the tenant scope and a factory scope backed by beans.
func (r *Registry) RegisterBeans(beans *Beans) {
	r.Register(beans.TenantScope())
	r.Register(NewFactoryScope(beans))
}

// Unregister removes the named scope and reports whether it was registered.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.scopes)
	r.scopes = slices.DeleteFunc(r.scopes, func(s Scope) bool { return s.Name() == name })
	return len(r.scopes) != n
}

// Scope returns the named scope.
func (r *Registry) Scope(name string) (Scope, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.scopes {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Scopes returns the registered scopes in resolution order.
func (r *Registry) Scopes() []Scope {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.scopes)
}

// Resource resolves key through the scopes in order. The first scope that
// finds the key, or fails, ends the lookup.
func (r *Registry) Resource(ctx context.Context, key string) (any, bool, error) {
	for _, s := range r.Scopes() {
		v, found, err := s.Resource(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if found {
			return v, true, nil
		}
	}
	return nil, false, nil
}

// ResourceOf resolves key and asserts the resource type. A resource of another
// type yields a *property.TypeMismatchError.
func ResourceOf[T any](ctx context.Context, r *Registry, key string) (T, bool, error) {
	var zero T
	v, found, err := r.Resource(ctx, key)
	if err != nil || !found {
		return zero, found, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false, &property.TypeMismatchError{Property: key, Actual: reflect.TypeOf(v), Required: reflect.TypeFor[T]()}
	}
	return typed, true, nil
}
