package scope

import (
	"context"
	"maps"
)

// ContextScopeName is the name of ContextScope.
const ContextScopeName = "context"

type resourcesKey struct{}

// WithResource returns a copy of ctx carrying value under key.
func WithResource(ctx context.Context, key string, value any) context.Context {
	current, _ := ctx.Value(resourcesKey{}).(map[string]any)
	next := maps.Clone(current)
	if next == nil {
		next = map[string]any{}
	}
	next[key] = value
	return context.WithValue(ctx, resourcesKey{}, next)
}

// ContextScope resolves resources attached with WithResource.
type ContextScope struct{}

func (ContextScope) Name() string { return ContextScopeName }

func (ContextScope) Order() int { return 0 }

func (ContextScope) Resource(ctx context.Context, key string) (any, bool, error) {
	resources, _ := ctx.Value(resourcesKey{}).(map[string]any)
	v, ok := resources[key]
	return v, ok, nil
}
