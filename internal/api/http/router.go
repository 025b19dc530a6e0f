package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dispatch-service/internal/api/http/handlers"
	"github.com/spec-kit/dispatch-service/internal/auth"
	"github.com/spec-kit/dispatch-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Reference      *handlers.ReferenceHandler
	Supervisor     *handlers.SupervisorHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes with their role gates.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Users.Login)

	authed := cfg.AuthMiddleware.Handle
	anyRole := auth.RequireAuthenticated()
	admin := auth.RequireRole(domain.RoleAdmin)
	operator := auth.RequireRole(domain.RoleOperator)
	dispatcher := auth.RequireRole(domain.RoleDispatcher)
	reporting := auth.RequireRole(domain.RoleSupervisor, domain.RoleAdmin)
	reader := auth.RequireRole(domain.RoleDispatcher, domain.RoleSupervisor, domain.RoleAdmin)

	users := app.Group("/user", authed)
	users.Get("/", anyRole, cfg.Users.Me)
	users.Get("/all", admin, cfg.Users.List)
	users.Post("/", admin, cfg.Users.Create)
	users.Get("/:id", admin, cfg.Users.Get)
	users.Put("/:id", admin, cfg.Users.Update)
	users.Delete("/:id", admin, cfg.Users.Delete)

	tickets := app.Group("/ticket", authed)
	tickets.Post("/", operator, cfg.Tickets.Open)
	tickets.Post("/close", operator, cfg.Tickets.CloseEarly)
	tickets.Get("/open", dispatcher, cfg.Tickets.ListOpen)
	tickets.Put("/edit/:id", dispatcher, cfg.Tickets.UpdateDispatch)
	tickets.Put("/close/:id", dispatcher, cfg.Tickets.Close)
	tickets.Get("/:id", reader, cfg.Tickets.Get)

	municipalities := app.Group("/municipality", authed)
	municipalities.Get("/", anyRole, cfg.Reference.ListMunicipalities)
	municipalities.Get("/:id", anyRole, cfg.Reference.GetMunicipality)
	municipalities.Post("/", admin, cfg.Reference.CreateMunicipality)
	municipalities.Put("/:id", admin, cfg.Reference.UpdateMunicipality)
	municipalities.Delete("/:id", admin, cfg.Reference.DeleteMunicipality)

	parishes := app.Group("/parish", authed)
	parishes.Get("/", anyRole, cfg.Reference.ListParishes)
	parishes.Get("/municipality/:id", anyRole, cfg.Reference.ListParishesByMunicipality)
	parishes.Get("/:id", anyRole, cfg.Reference.GetParish)
	parishes.Post("/", admin, cfg.Reference.CreateParish)
	parishes.Put("/:id", admin, cfg.Reference.UpdateParish)
	parishes.Delete("/:id", admin, cfg.Reference.DeleteParish)

	quadrants := app.Group("/quadrant", authed)
	quadrants.Get("/", anyRole, cfg.Reference.ListQuadrants)
	quadrants.Get("/parish/:id", anyRole, cfg.Reference.ListQuadrantsByParish)
	quadrants.Get("/:id", anyRole, cfg.Reference.GetQuadrant)
	quadrants.Post("/", admin, cfg.Reference.CreateQuadrant)
	quadrants.Put("/:id", admin, cfg.Reference.UpdateQuadrant)
	quadrants.Delete("/:id", admin, cfg.Reference.DeleteQuadrant)

	organismGroups := app.Group("/organismGroup", authed)
	organismGroups.Get("/", anyRole, cfg.Reference.ListOrganismGroups)
	organismGroups.Get("/:id", anyRole, cfg.Reference.GetOrganismGroup)
	organismGroups.Post("/", admin, cfg.Reference.CreateOrganismGroup)
	organismGroups.Put("/:id", admin, cfg.Reference.UpdateOrganismGroup)
	organismGroups.Delete("/:id", admin, cfg.Reference.DeleteOrganismGroup)

	organisms := app.Group("/organism", authed)
	organisms.Get("/", anyRole, cfg.Reference.ListOrganisms)
	organisms.Get("/group/:id", anyRole, cfg.Reference.ListOrganismsByGroup)
	organisms.Get("/:id", anyRole, cfg.Reference.GetOrganism)
	organisms.Post("/", admin, cfg.Reference.CreateOrganism)
	organisms.Put("/:id", admin, cfg.Reference.UpdateOrganism)
	organisms.Delete("/:id", admin, cfg.Reference.DeleteOrganism)

	reasons := app.Group("/reason", authed)
	reasons.Get("/", anyRole, cfg.Reference.ListReasons)
	reasons.Get("/:id", anyRole, cfg.Reference.GetReason)
	reasons.Post("/", admin, cfg.Reference.CreateReason)
	reasons.Put("/:id", admin, cfg.Reference.UpdateReason)
	reasons.Delete("/:id", admin, cfg.Reference.DeleteReason)

	roles := app.Group("/role", authed)
	roles.Get("/", anyRole, cfg.Reference.ListRoles)
	roles.Get("/:id", anyRole, cfg.Reference.GetRole)
	roles.Post("/", admin, cfg.Reference.CreateRole)
	roles.Put("/:id", admin, cfg.Reference.UpdateRole)
	roles.Delete("/:id", admin, cfg.Reference.DeleteRole)

	supervisor := app.Group("/supervisor", authed, reporting)
	supervisor.Get("/dates", cfg.Supervisor.Dates)
	supervisor.Get("/tickets", cfg.Supervisor.Tickets)
}
