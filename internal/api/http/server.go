package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/signalement-service/internal/config"
	"github.com/spec-kit/signalement-service/internal/observability"
)

// NewServer builds the fiber application with middlewares and routes.
func NewServer(cfg config.AppConfig, logger *zap.Logger, metrics *observability.Metrics, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		DisableStartupMessage: cfg.IsProduction(),
		ErrorHandler:          ErrorHandler(logger, metrics),
	})

	RegisterMiddlewares(app, logger, metrics, cfg.RequestTimeout(), cfg.CORSOrigins)

	if routes.Prefix == "" {
		routes.Prefix = cfg.RoutePrefix
	}
	if routes.ReportsPath == "" {
		routes.ReportsPath = cfg.ReportsPath
	}
	if routes.Metrics == nil {
		routes.Metrics = metrics
	}
	RegisterRoutes(app, routes)
	return app
}
