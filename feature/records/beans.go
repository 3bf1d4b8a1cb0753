package records

import (
	"context"

	"datapath/core/datastore"
	"datapath/core/scope"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Bean names defined by DefineBeans.
const (
	StoreBean       = "datastore"
	SharedStoreBean = "datastore.shared"
)

// DefineBeans registers the shared and the tenant datastore beans.
func DefineBeans(beans *scope.Beans, db *gorm.DB, tenantColumn string, logger *zap.Logger) error {
	if err := beans.Define(scope.Definition{
		Name:     SharedStoreBean,
		Lifetime: scope.Singleton,
		Create: func(context.Context, scope.BeanFactory) (any, error) {
			return datastore.NewGorm(datastore.GormConfig{DB: db, Logger: logger, TenantColumn: tenantColumn})
		},
	}); err != nil {
		return err
	}
	return beans.Define(scope.Definition{
		Name:     StoreBean,
		Lifetime: scope.Tenant,
		Create: func(ctx context.Context, f scope.BeanFactory) (any, error) {
			shared, err := scope.BeanOf[*datastore.Gorm](ctx, f, SharedStoreBean)
			if err != nil {
				return nil, err
			}
			id, _ := scope.TenantFromContext(ctx)
			return shared.ForTenant(id), nil
		},
	})
}
