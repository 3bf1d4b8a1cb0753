package server

import (
	"errors"

	"datapath/core/property"
	"datapath/core/query"
	"datapath/core/schema"
	"datapath/core/scope"

	"github.com/gofiber/fiber/v2"
)

// ErrNotFound marks lookups of missing records.
var ErrNotFound = errors.New("not found")

// Status maps domain errors to HTTP status codes.
func Status(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, schema.ErrSchemaNotFound), errors.Is(err, ErrNotFound), errors.Is(err, scope.ErrNoSuchBean):
		return fiber.StatusNotFound
	case errors.Is(err, scope.ErrNoTenant):
		return fiber.StatusBadRequest
	case errors.Is(err, property.ErrInvalidArgument),
		errors.Is(err, property.ErrTypeMismatch),
		errors.Is(err, property.ErrValidation),
		errors.Is(err, query.ErrInvalidExpression):
		return fiber.StatusBadRequest
	default:
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe.Code
		}
		return fiber.StatusInternalServerError
	}
}

// Error writes err as a JSON error body with its mapped status.
func Error(c *fiber.Ctx, err error) error {
	return c.Status(Status(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
