package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-agent/internal/api/http/handlers"
	"github.com/spec-kit/support-agent/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Chat           *handlers.ChatHandler
	Metrics        *handlers.MetricsHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/operator/login", cfg.Auth.OperatorLogin)
	authGroup.Post("/customer/token", cfg.AuthMiddleware.Handle, auth.RequireOperator(), cfg.Auth.CustomerToken)

	v1 := app.Group("/v1")
	v1.Post("/chat", cfg.AuthMiddleware.Optional, cfg.Chat.Chat)

	operatorOnly := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireOperator()}
	v1.Get("/metrics", append(operatorOnly, cfg.Metrics.Get)...)
	v1.Get("/tickets", append(operatorOnly, cfg.Tickets.List)...)
	v1.Get("/tickets/:id", append(operatorOnly, cfg.Tickets.Get)...)
	v1.Patch("/tickets/:id/status", append(operatorOnly, cfg.Tickets.UpdateStatus)...)
}
