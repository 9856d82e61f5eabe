package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/signalement-service/internal/api/http/handlers"
	"github.com/spec-kit/signalement-service/internal/auth"
	"github.com/spec-kit/signalement-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Prefix         string
	ReportsPath    string
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Citizens       *handlers.CitizensHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	root := app.Group(cfg.Prefix)

	root.Get("/health/live", cfg.Health.Live)
	root.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		root.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authenticated := cfg.AuthMiddleware.Handle

	authGroup := root.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", authenticated, cfg.Auth.Me)

	citizens := root.Group("/citizens")
	citizens.Post("/", cfg.Citizens.Register)
	citizens.Get("/", authenticated, auth.RequireAdmin(), cfg.Citizens.List)
	citizens.Get("/:id", authenticated, cfg.Citizens.Get)
	citizens.Put("/:id", authenticated, cfg.Citizens.Update)
	citizens.Delete("/:id", authenticated, cfg.Citizens.Delete)

	reports := root.Group(cfg.ReportsPath, authenticated, auth.RequireAnyRole())
	reports.Get("/", cfg.Reports.List)
	reports.Get("/search", cfg.Reports.Search)
	reports.Get("/:id", cfg.Reports.Get)
	reports.Post("/", cfg.Reports.Create)
	reports.Put("/:id", cfg.Reports.Update)
	reports.Delete("/:id", cfg.Reports.Delete)
}
