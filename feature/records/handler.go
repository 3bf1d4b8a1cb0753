package records

import (
	"datapath/core/logger"
	"datapath/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for records.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the record routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/records")
	group.Get("/:schema", h.HandleFind)
	group.Get("/:schema/:id", h.HandleGet)
	group.Post("/:schema", h.HandleSave)
	group.Delete("/:schema/:id", h.HandleDelete)
}

// HandleFind runs a record query.
// @Summary Find Records
// @Description Queries the records of a schema. Filters are "path:op:value" with op one of eq, neq, lt, lte, gt, gte, like, in, nin, null, notnull.
// @Tags records
// @Produce json
// @Param schema path string true "Schema name"
// @Param filter query []string false "Filters (repeatable)" collectionFormat(multi)
// @Param sort query []string false "Sorts, 'path' or 'path:desc' (repeatable)" collectionFormat(multi)
// @Param limit query int false "Page size"
// @Param offset query int false "Rows to skip"
// @Param distinct query bool false "Remove duplicate rows"
// @Success 200 {object} Page "Records page"
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /records/{schema} [get]
func (h *Handler) HandleFind(c *fiber.Ctx) error {
	params := FindParams{
		Limit:    c.QueryInt("limit", 0),
		Offset:   c.QueryInt("offset", 0),
		Distinct: c.QueryBool("distinct", false),
	}
	args := c.Context().QueryArgs()
	for _, v := range args.PeekMulti("filter") {
		params.Filters = append(params.Filters, string(v))
	}
	for _, v := range args.PeekMulti("sort") {
		params.Sorts = append(params.Sorts, string(v))
	}

	page, err := h.service.Find(c.UserContext(), c.Params("schema"), params)
	if err != nil {
		return h.fail(c, "Record query failed", err)
	}
	return c.JSON(page)
}

// HandleGet returns one record.
// @Summary Get Record
// @Tags records
// @Produce json
// @Param schema path string true "Schema name"
// @Param id path string true "Identifier value"
// @Success 200 {object} map[string]interface{} "Record"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /records/{schema}/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	record, err := h.service.Get(c.UserContext(), c.Params("schema"), c.Params("id"))
	if err != nil {
		return h.fail(c, "Record lookup failed", err)
	}
	return c.JSON(record)
}

// HandleSave inserts or updates a record.
// @Summary Save Record
// @Description Inserts the record, or updates it when its identifier already exists.
// @Tags records
// @Accept json
// @Produce json
// @Param schema path string true "Schema name"
// @Param record body map[string]interface{} true "Values keyed by path"
// @Success 200 {object} query.OperationResult "Operation result"
// @Failure 400 {object} map[string]string "Invalid record"
// @Router /records/{schema} [post]
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	var values map[string]any
	if err := c.BodyParser(&values); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid record body"})
	}
	res, err := h.service.Save(c.UserContext(), c.Params("schema"), values)
	if err != nil {
		return h.fail(c, "Record save failed", err)
	}
	return c.JSON(res)
}

// HandleDelete removes one record.
// @Summary Delete Record
// @Tags records
// @Param schema path string true "Schema name"
// @Param id path string true "Identifier value"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /records/{schema}/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("schema"), c.Params("id")); err != nil {
		return h.fail(c, "Record delete failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	l := logger.WithTenant(logger.WithRayID(h.logger, c), c)
	if server.Status(err) >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return server.Error(c, err)
}
