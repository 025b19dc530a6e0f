package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dispatch-service/internal/domain"
	apperrors "github.com/spec-kit/dispatch-service/pkg/util"
)

func gateApp(principal *Principal, gate fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		}
		return nil
	})
	app.Get("/probe", func(c *fiber.Ctx) error {
		if principal != nil {
			c.Locals("auth_principal", principal)
		}
		return c.Next()
	}, gate, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func principalWithRole(role domain.Role) *Principal {
	return &Principal{User: &domain.User{
		ID:   "u-1",
		Role: &domain.RoleRecord{ID: 1, Name: string(role)},
	}}
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	app := gateApp(principalWithRole(domain.RoleAdmin), RequireRole(domain.RoleSupervisor, domain.RoleAdmin))

	resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	app := gateApp(principalWithRole(domain.RoleOperator), RequireRole(domain.RoleDispatcher))

	resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleRejectsAnonymous(t *testing.T) {
	app := gateApp(nil, RequireRole(domain.RoleAdmin))

	resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthenticatedAllowsAnyRole(t *testing.T) {
	app := gateApp(principalWithRole(domain.RoleOperator), RequireAuthenticated())

	resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
