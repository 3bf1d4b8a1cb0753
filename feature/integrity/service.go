package integrity

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"datapath/core/reconcile"
	"datapath/core/schema"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Mutator repairs schemas from their registered models.
type Mutator struct {
	models  *schema.ModelSource
	storage *schema.StorageSource
	db      *gorm.DB
	// invalidate drops the registry entry of a repaired schema.
	invalidate func(name string)
}

// Publish stores the definition of the named model.
func (m *Mutator) Publish(ctx context.Context, name string) error {
	if m.storage == nil {
		return fmt.Errorf("no schema storage configured")
	}
	sch, err := m.models.Load(ctx, name)
	if err != nil {
		return err
	}
	if _, err := m.storage.Save(ctx, sch.Definition()); err != nil {
		return err
	}
	m.invalidate(name)
	return nil
}

// Migrate creates the table of the named model.
func (m *Mutator) Migrate(ctx context.Context, name string) error {
	if m.db == nil {
		return fmt.Errorf("no database connection")
	}
	sch, err := m.models.Load(ctx, name)
	if err != nil {
		return err
	}
	t, ok := m.models.Model(name)
	if !ok {
		return fmt.Errorf("%w: model %s", schema.ErrSchemaNotFound, name)
	}
	return m.db.WithContext(ctx).Table(sch.Target).AutoMigrate(reflect.New(t).Interface())
}

// Service runs schema integrity checks.
type Service struct {
	reconciler *reconcile.Reconciler
	mutator    *Mutator
	logger     *zap.Logger
}

// Config gathers the sources checked by the service. Storage and DB may be
// nil.
type Config struct {
	Models   *schema.ModelSource
	Storage  *schema.StorageSource
	DB       *gorm.DB
	Registry *schema.Registry
	CacheTTL time.Duration
}

// NewService creates a new integrity service.
func NewService(cfg Config, logger *zap.Logger) *Service {
	spec := &reconcile.Spec{CacheTTL: cfg.CacheTTL}
	if cfg.Models == nil {
		cfg.Models = schema.NewModelSource(nil)
	}
	spec.Model = cfg.Models
	if cfg.Storage != nil {
		spec.Storage = cfg.Storage
	}
	if cfg.DB != nil {
		spec.Database = schema.NewDatabaseSource(cfg.DB)
	}

	invalidate := func(string) {}
	if cfg.Registry != nil {
		invalidate = cfg.Registry.Invalidate
	}
	return &Service{
		reconciler: reconcile.New(spec),
		mutator:    &Mutator{models: cfg.Models, storage: cfg.Storage, db: cfg.DB, invalidate: invalidate},
		logger:     logger,
	}
}

// Check reconciles every schema and plans the repairs.
func (s *Service) Check(ctx context.Context) (*reconcile.Plan, error) {
	return s.reconciler.ReconcileWithPlan(ctx)
}

// CheckOne reconciles a single schema.
func (s *Service) CheckOne(ctx context.Context, name string) (*reconcile.Result, error) {
	return s.reconciler.ReconcileOne(ctx, name)
}

// Fix applies the actions of plan and returns a fresh plan.
func (s *Service) Fix(ctx context.Context, plan *reconcile.Plan) (int, *reconcile.Plan, error) {
	executed, err := s.reconciler.ApplyPlan(ctx, plan, s.mutator, reconcile.Options{Confirmed: true})
	if err != nil {
		return executed, nil, err
	}
	s.logger.Info("Schema repairs applied", zap.Int("executed", executed))
	after, err := s.Check(ctx)
	return executed, after, err
}
