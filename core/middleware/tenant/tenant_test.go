package tenant_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"datapath/core/middleware/tenant"
	"datapath/core/scope"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg tenant.Config) *fiber.App {
	app := fiber.New()
	app.Use(tenant.New(cfg))
	app.Get("/", func(c *fiber.Ctx) error {
		id, ok := scope.TenantFromContext(c.UserContext())
		if !ok {
			return c.SendString("-")
		}
		return c.SendString(id)
	})
	return app
}

func body(t *testing.T, app *fiber.App, header string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if header != "" {
		req.Header.Set("X-Tenant-ID", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestTenant(t *testing.T) {
	t.Run("From Header", func(t *testing.T) {
		status, got := body(t, newApp(tenant.Config{Header: "X-Tenant-ID"}), "acme")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "acme", got)
	})

	t.Run("Default", func(t *testing.T) {
		_, got := body(t, newApp(tenant.Config{Default: "shared"}), "")
		assert.Equal(t, "shared", got)
	})

	t.Run("Optional", func(t *testing.T) {
		_, got := body(t, newApp(tenant.Config{}), "")
		assert.Equal(t, "-", got)
	})

	t.Run("Required", func(t *testing.T) {
		status, _ := body(t, newApp(tenant.Config{Required: true}), "")
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}
