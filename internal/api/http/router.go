package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ghostname-service/internal/api/http/handlers"
	"github.com/spec-kit/ghostname-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	GhostNames     *handlers.GhostNamesHandler
	Account        *handlers.AccountHandler
	AuthMiddleware *auth.AuthMiddleware
	OfferLimiter   *LimiterStore
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/ghost-names", cfg.GhostNames.List)

	authn := cfg.AuthMiddleware.Handle

	offer := []fiber.Handler{authn}
	if cfg.OfferLimiter != nil {
		offer = append(offer, RateLimit(cfg.OfferLimiter))
	}
	app.Get("/ghost-names/offer", append(offer, cfg.GhostNames.Offer)...)
	app.Post("/ghost-names/select", authn, cfg.GhostNames.Select)

	app.Post("/account/session", authn, cfg.Account.Session)
	app.Get("/account", authn, cfg.Account.Get)
	app.Put("/account/profile", authn, cfg.Account.UpdateProfile)
}
