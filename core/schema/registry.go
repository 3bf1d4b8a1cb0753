package schema

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	schema *Schema
	built  time.Time
}

// Registry resolves schemas through its sources, caching them for a TTL.
type Registry struct {
	sources []Source
	ttl     time.Duration
	logger  *zap.Logger

	mu    sync.RWMutex
	cache map[string]cacheEntry
	sf    singleflight.Group
}

// NewRegistry returns a registry asking sources in order.
func NewRegistry(ttl time.Duration, logger *zap.Logger, sources ...Source) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sources: sources,
		ttl:     ttl,
		logger:  logger,
		cache:   make(map[string]cacheEntry),
	}
}

func (r *Registry) fresh(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[name]
	if !ok || r.ttl <= 0 || time.Since(entry.built) > r.ttl {
		return nil, false
	}
	return entry.schema, true
}

// GetOrLoad returns the cached schema, or loads it from the first source that
// knows name. Concurrent loads of one name share a single source lookup.
func (r *Registry) GetOrLoad(ctx context.Context, name string) (*Schema, error) {
	if sch, ok := r.fresh(name); ok {
		return sch, nil
	}

	result, err, _ := r.sf.Do(name, func() (any, error) {
		if sch, ok := r.fresh(name); ok {
			return sch, nil
		}

		sch, err := r.load(ctx, name)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[name] = cacheEntry{schema: sch, built: time.Now()}
		r.mu.Unlock()

		r.logger.Debug("Schema loaded",
			zap.String("schema", name),
			zap.String("origin", string(sch.Origin)),
			zap.Int("properties", sch.Set.Len()),
		)
		return sch, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Schema), nil
}

func (r *Registry) load(ctx context.Context, name string) (*Schema, error) {
	for _, src := range r.sources {
		sch, err := src.Load(ctx, name)
		if err == nil {
			return sch, nil
		}
		if !errors.Is(err, ErrSchemaNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
}

// Names returns the sorted, deduplicated names of every source. A failing
// source is logged and skipped.
func (r *Registry) Names(ctx context.Context) []string {
	var names []string
	for _, src := range r.sources {
		found, err := src.Names(ctx)
		if err != nil {
			r.logger.Warn("Failed to list schemas", zap.String("origin", string(src.Origin())), zap.Error(err))
			continue
		}
		names = append(names, found...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Invalidate drops the cached schema name.
func (r *Registry) Invalidate(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, name)
}

// Source returns the first source of the given origin.
func (r *Registry) Source(origin Origin) (Source, bool) {
	for _, src := range r.sources {
		if src.Origin() == origin {
			return src, true
		}
	}
	return nil, false
}
