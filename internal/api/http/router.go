package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-capture-service/internal/api/http/handlers"
	"github.com/spec-kit/lead-capture-service/internal/auth"
	"github.com/spec-kit/lead-capture-service/internal/pages"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Pages   *handlers.PagesHandler
	Forms   *handlers.FormsHandler
	Auth    *handlers.AuthHandler
	Admin   *handlers.AdminHandler
	Session *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	for _, p := range pages.Pages() {
		app.Get(p.Path, cfg.Pages.Page(p.Slug))
	}

	api := app.Group("/api")
	api.Get("/forms", cfg.Forms.List)
	api.Post("/forms/:kind", cfg.Forms.Submit)

	authGroup := app.Group("/auth", cfg.Session.Handle)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/session", cfg.Auth.Session)

	admin := app.Group("/admin", cfg.Session.Handle)
	admin.Get("/submissions", cfg.Admin.Submissions)
	admin.Post("/submissions/:id/select", auth.RequireAdmin(), cfg.Admin.Select)
	admin.Post("/submissions/:id/respond", auth.RequireAdmin(), cfg.Admin.Respond)
	admin.Get("/leads/:kind", auth.RequireAdmin(), cfg.Admin.Leads)
	admin.Post("/leads/:kind/:id/status", auth.RequireAdmin(), cfg.Admin.UpdateLeadStatus)
}
