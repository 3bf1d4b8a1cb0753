package records

import (
	"context"
	"fmt"

	"datapath/core/datastore"
	"datapath/core/property"
	"datapath/core/query"
	"datapath/core/schema"
	"datapath/core/scope"
	"datapath/core/server"

	"go.uber.org/zap"
)

// FindParams are the textual query parameters of a record search.
type FindParams struct {
	Filters  []string
	Sorts    []string
	Limit    int
	Offset   int
	Distinct bool
}

// Page is one page of records.
type Page struct {
	Items  []map[string]any `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// Service reads and writes records through the scoped datastore.
type Service struct {
	schemas *schema.Registry
	scopes  *scope.Registry
	server  server.Config
	logger  *zap.Logger
}

// NewService creates a new record service.
func NewService(schemas *schema.Registry, scopes *scope.Registry, cfg server.Config, logger *zap.Logger) *Service {
	return &Service{schemas: schemas, scopes: scopes, server: cfg, logger: logger}
}

// store returns the datastore serving ctx.
func (s *Service) store(ctx context.Context) (datastore.Datastore, error) {
	key := SharedStoreBean
	if _, ok := scope.TenantFromContext(ctx); ok {
		key = StoreBean
	}
	store, found, err := scope.ResourceOf[datastore.Datastore](ctx, s.scopes, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", scope.ErrNoSuchBean, key)
	}
	return store, nil
}

// Build turns params into a query definition on sch.
func (s *Service) Build(sch *schema.Schema, params FindParams) (query.Config, error) {
	cfg := query.Config{Target: sch.Target, Distinct: params.Distinct}
	for _, raw := range params.Filters {
		f, err := query.ParseFilter(raw)
		if err != nil {
			return query.Config{}, err
		}
		cfg.Filter(f)
	}
	for _, raw := range params.Sorts {
		sort, err := query.ParseSort(raw)
		if err != nil {
			return query.Config{}, err
		}
		cfg.Sorts = append(cfg.Sorts, sort)
	}
	if len(cfg.Sorts) == 0 {
		for _, id := range sch.Adapter.PathIdentifiers() {
			cfg.SortBy(id.FullName(), false)
		}
	}
	cfg.Restrict(s.server.PageSize(params.Limit), params.Offset)
	return cfg, cfg.Validate()
}

// Find returns one page of records of the named schema.
func (s *Service) Find(ctx context.Context, name string, params FindParams) (*Page, error) {
	sch, err := s.schemas.GetOrLoad(ctx, name)
	if err != nil {
		return nil, err
	}
	cfg, err := s.Build(sch, params)
	if err != nil {
		return nil, err
	}
	store, err := s.store(ctx)
	if err != nil {
		return nil, err
	}

	boxes, err := store.Query(ctx, sch.Set, cfg)
	if err != nil {
		return nil, err
	}
	total, err := store.Count(ctx, sch.Set, cfg)
	if err != nil {
		return nil, err
	}

	page := &Page{Items: make([]map[string]any, 0, len(boxes)), Total: total, Limit: cfg.Limit, Offset: cfg.Offset}
	for _, box := range boxes {
		page.Items = append(page.Items, sch.Encode(box))
	}
	return page, nil
}

// identifier returns the single identifier property of sch.
func identifier(sch *schema.Schema) (*property.Property, error) {
	ids := sch.Set.Identifiers()
	if len(ids) != 1 {
		return nil, fmt.Errorf("%w: schema %s has %d identifiers, want 1", property.ErrInvalidArgument, sch.Name, len(ids))
	}
	return ids[0], nil
}

// Get returns the record whose identifier is id.
func (s *Service) Get(ctx context.Context, name, id string) (map[string]any, error) {
	sch, err := s.schemas.GetOrLoad(ctx, name)
	if err != nil {
		return nil, err
	}
	idp, err := identifier(sch)
	if err != nil {
		return nil, err
	}
	store, err := s.store(ctx)
	if err != nil {
		return nil, err
	}

	cfg := query.Config{Target: sch.Target, Limit: 1}
	cfg.Filter(query.Eq(sch.Path(idp), id))
	boxes, err := store.Query(ctx, sch.Set, cfg)
	if err != nil {
		return nil, err
	}
	if len(boxes) == 0 {
		return nil, fmt.Errorf("%w: %s %s", server.ErrNotFound, name, id)
	}
	return sch.Encode(boxes[0]), nil
}

// Save inserts values, or updates the record when its identifier exists.
func (s *Service) Save(ctx context.Context, name string, values map[string]any) (query.OperationResult, error) {
	sch, err := s.schemas.GetOrLoad(ctx, name)
	if err != nil {
		return query.OperationResult{}, err
	}
	box, err := sch.Decode(values)
	if err != nil {
		return query.OperationResult{}, err
	}
	store, err := s.store(ctx)
	if err != nil {
		return query.OperationResult{}, err
	}

	res, err := store.Execute(ctx, query.Operation{Kind: query.Save, Target: sch.Target, Value: box})
	if err != nil {
		return query.OperationResult{}, err
	}
	s.logger.Info("Record saved",
		zap.String("schema", name),
		zap.String("kind", string(res.Kind)),
		zap.Int64("affected", res.Affected),
	)
	return res, nil
}

// Delete removes the record whose identifier is id.
func (s *Service) Delete(ctx context.Context, name, id string) error {
	sch, err := s.schemas.GetOrLoad(ctx, name)
	if err != nil {
		return err
	}
	idp, err := identifier(sch)
	if err != nil {
		return err
	}
	box, err := sch.Decode(map[string]any{sch.Path(idp): id})
	if err != nil {
		return err
	}
	store, err := s.store(ctx)
	if err != nil {
		return err
	}

	res, err := store.Execute(ctx, query.Operation{Kind: query.Delete, Target: sch.Target, Value: box})
	if err != nil {
		return err
	}
	if res.Affected == 0 {
		return fmt.Errorf("%w: %s %s", server.ErrNotFound, name, id)
	}
	s.logger.Info("Record deleted", zap.String("schema", name), zap.String("id", id))
	return nil
}
