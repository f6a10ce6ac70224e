package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ghostname-service/internal/config"
	"github.com/spec-kit/ghostname-service/internal/observability"
)

// NewApp builds the fiber application with middlewares and routes attached.
func NewApp(cfg config.AppConfig, logger *zap.Logger, metrics *observability.Metrics, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, metrics, cfg.RequestTimeout())
	RegisterRoutes(app, routes)
	return app
}
