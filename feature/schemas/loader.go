package schemas

import (
	"datapath/core/schema"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the schemas feature over registry.
func NewFeature(registry *schema.Registry, logger *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(NewService(registry, logger))}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "schemas"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
