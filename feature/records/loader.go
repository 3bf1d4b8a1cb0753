package records

import (
	"datapath/core/schema"
	"datapath/core/scope"
	"datapath/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
	enabled bool
}

// NewFeature creates the records feature. It is disabled when no datastore
// bean is registered in scopes.
func NewFeature(schemas *schema.Registry, scopes *scope.Registry, beans scope.BeanFactory, cfg server.Config, logger *zap.Logger) *Feature {
	return &Feature{
		handler: NewHandler(NewService(schemas, scopes, cfg, logger), logger),
		enabled: beans != nil && beans.Contains(SharedStoreBean),
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "records"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
