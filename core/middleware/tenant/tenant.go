package tenant

import (
	"datapath/core/logger"
	"datapath/core/scope"

	"github.com/gofiber/fiber/v2"
)

// New returns a middleware binding the request tenant to the user context,
// where scope.ContextTenantResolver finds it.
func New(cfg Config) fiber.Handler {
	header := cfg.Header
	if header == "" {
		header = "X-Tenant-ID"
	}
	return func(c *fiber.Ctx) error {
		id := c.Get(header)
		if id == "" {
			id = cfg.Default
		}
		if id == "" {
			if cfg.Required {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "missing tenant header " + header,
				})
			}
			return c.Next()
		}
		c.Locals(logger.TenantKey, id)
		c.SetUserContext(scope.WithTenant(c.UserContext(), id))
		return c.Next()
	}
}
