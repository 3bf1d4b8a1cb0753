package schemas

import (
	"strings"

	"datapath/core/logger"
	"datapath/core/schema"
	"datapath/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for schemas.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the schema routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/schemas")
	group.Get("/", h.HandleList)
	group.Get("/:name", h.HandleGet)
	group.Put("/:name", h.HandlePublish)
	group.Get("/:name/paths/*", h.HandlePaths)
}

// HandleList returns the schema names.
// @Summary List Schemas
// @Description Names of every schema known to the registry.
// @Tags schemas
// @Produce json
// @Success 200 {object} map[string][]string "Schema names"
// @Router /schemas [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"schemas": h.service.List(c.UserContext())})
}

// HandleGet returns one schema definition.
// @Summary Get Schema
// @Description Definition of a schema: target and properties.
// @Tags schemas
// @Produce json
// @Param name path string true "Schema name"
// @Success 200 {object} schema.Definition "Schema definition"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /schemas/{name} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	def, err := h.service.Get(c.UserContext(), c.Params("name"))
	if err != nil {
		return h.fail(c, "Schema lookup failed", err)
	}
	return c.JSON(def)
}

// HandlePublish stores a schema definition.
// @Summary Publish Schema
// @Description Validates a definition and stores it in object storage.
// @Tags schemas
// @Accept json
// @Produce json
// @Param name path string true "Schema name"
// @Param definition body schema.Definition true "Schema definition"
// @Success 200 {object} schema.Definition "Stored definition"
// @Failure 400 {object} map[string]string "Invalid definition"
// @Router /schemas/{name} [put]
func (h *Handler) HandlePublish(c *fiber.Ctx) error {
	var def schema.Definition
	if err := c.BodyParser(&def); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid definition body"})
	}
	stored, err := h.service.Publish(c.UserContext(), c.Params("name"), def)
	if err != nil {
		return h.fail(c, "Schema publish failed", err)
	}
	return c.JSON(stored)
}

// HandlePaths resolves a data path, or lists every path.
// @Summary Resolve Path
// @Description Resolves a dot separated data path to its property.
// @Tags schemas
// @Produce json
// @Param name path string true "Schema name"
// @Param path path string false "Data path (e.g. 'address.city')"
// @Param type query string false "Required type (int64, string, float64, bool, time)"
// @Success 200 {object} PathInfo "Resolved property"
// @Failure 400 {object} map[string]string "Type mismatch"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /schemas/{name}/paths/{path} [get]
func (h *Handler) HandlePaths(c *fiber.Ctx) error {
	name := c.Params("name")
	path := strings.Trim(c.Params("*"), "/")
	if path == "" {
		paths, err := h.service.Paths(c.UserContext(), name)
		if err != nil {
			return h.fail(c, "Path listing failed", err)
		}
		return c.JSON(fiber.Map{"paths": paths})
	}

	info, err := h.service.Resolve(c.UserContext(), name, path, c.Query("type"))
	if err != nil {
		return h.fail(c, "Path resolution failed", err)
	}
	return c.JSON(info)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	l := logger.WithRayID(h.service.logger, c)
	if server.Status(err) >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Debug(msg, zap.Error(err))
	}
	return server.Error(c, err)
}
