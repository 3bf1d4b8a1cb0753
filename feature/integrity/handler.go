package integrity

import (
	"datapath/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/schemas", h.HandleSchemasCheck)
	group.Get("/schemas/:name", h.HandleSchemaCheck)
}

// HandleSchemasCheck reconciles every schema and optionally repairs them.
// @Summary Check Schemas
// @Description Compares models, stored definitions and database tables. With fix=true, publishes missing definitions and creates missing tables.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Apply the planned repairs"
// @Success 200 {object} reconcile.Plan "Reconcile plan"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schemas [get]
func (h *Handler) HandleSchemasCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	plan, err := h.service.Check(c.Context())
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(plan.Actions) == 0 || !fix {
		if plan.Summary.Mismatches > 0 {
			l.Warn("Schema mismatches detected", zap.Int("schemas", plan.Summary.Mismatches))
		}
		return c.JSON(fiber.Map{"status": "checked", "plan": plan})
	}

	l.Info("Attempting to repair schemas", zap.Int("actions", len(plan.Actions)))
	executed, after, err := h.service.Fix(c.Context(), plan)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    "Failed to repair schemas",
			"details":  err.Error(),
			"executed": executed,
		})
	}
	return c.JSON(fiber.Map{"status": "fixed", "executed": executed, "plan": after})
}

// HandleSchemaCheck reconciles one schema.
// @Summary Check Schema
// @Tags integrity
// @Produce json
// @Param name path string true "Schema name"
// @Success 200 {object} reconcile.Result "Reconcile result"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schemas/{name} [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	result, err := h.service.CheckOne(c.Context(), c.Params("name"))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}
