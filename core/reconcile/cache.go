package reconcile

import (
	"context"
	"errors"
	"sync"
	"time"

	"datapath/core/schema"
)

// Index holds the schemas of each source, keyed by name. Database schemas are
// keyed by table.
type Index struct {
	Models      map[string]*schema.Schema
	Definitions map[string]*schema.Schema
	Tables      map[string]*schema.Schema

	// Built is when the index was loaded.
	Built time.Time

	// TTL is the time-to-live of the index.
	TTL time.Duration
}

// IsExpired reports whether the index must be rebuilt.
func (i *Index) IsExpired() bool {
	if i.TTL == 0 {
		return true
	}
	return time.Since(i.Built) > i.TTL
}

// BuildIndex loads every schema of the spec sources concurrently. It does not
// store the index; use Reconciler.index for that.
func BuildIndex(ctx context.Context, spec *Spec) (*Index, error) {
	var (
		models, definitions, tables map[string]*schema.Schema
		modelErr, storageErr, dbErr error
		wg                          sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		models, modelErr = loadAll(ctx, spec.Model)
	}()
	go func() {
		defer wg.Done()
		definitions, storageErr = loadAll(ctx, spec.Storage)
	}()
	go func() {
		defer wg.Done()
		tables, dbErr = loadAll(ctx, spec.Database)
	}()
	wg.Wait()

	if err := errors.Join(modelErr, storageErr, dbErr); err != nil {
		return nil, err
	}

	return &Index{
		Models:      models,
		Definitions: definitions,
		Tables:      tables,
		Built:       time.Now(),
		TTL:         spec.CacheTTL,
	}, nil
}

func loadAll(ctx context.Context, src schema.Source) (map[string]*schema.Schema, error) {
	out := map[string]*schema.Schema{}
	if src == nil {
		return out, nil
	}
	names, err := src.Names(ctx)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		sch, err := src.Load(ctx, name)
		if errors.Is(err, schema.ErrSchemaNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[name] = sch
	}
	return out, nil
}

// index returns the cached index, or builds a new one when missing or
// expired. Concurrent builds share one load.
func (r *Reconciler) index(ctx context.Context) (*Index, error) {
	r.mu.RLock()
	idx := r.cache
	r.mu.RUnlock()
	if idx != nil && !idx.IsExpired() {
		return idx, nil
	}

	result, err, _ := r.sf.Do("index", func() (any, error) {
		r.mu.RLock()
		idx := r.cache
		r.mu.RUnlock()
		if idx != nil && !idx.IsExpired() {
			return idx, nil
		}

		built, err := BuildIndex(ctx, r.spec)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache = built
		r.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Index), nil
}

// Invalidate drops the cached index.
func (r *Reconciler) Invalidate() {
	r.mu.Lock()
	r.cache = nil
	r.mu.Unlock()
}
