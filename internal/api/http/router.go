package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health             *handlers.HealthHandler
	Auth               *handlers.AuthHandler
	Complaints         *handlers.ComplaintsHandler
	AuthMiddleware     *auth.AuthMiddleware
	PageGate           *auth.PageGate
	Metrics            http.Handler
	RateLimitPerMinute int
	RateLimitBurst     int
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	limited := RateLimitMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	authGroup := app.Group("/auth")
	authGroup.Post("/register", limited, cfg.Auth.Register)
	authGroup.Post("/login", limited, cfg.Auth.Login)
	authGroup.Post("/verify", cfg.Auth.Verify)
	authGroup.Post("/logout", cfg.Auth.Logout)

	complaints := app.Group("/complaint", cfg.AuthMiddleware.Handle)
	complaints.Post("/", auth.RequireAuthenticated(), cfg.Complaints.CreateComplaint)
	complaints.Get("/", auth.RequireAdmin(), cfg.Complaints.ListComplaints)
	complaints.Patch("/:id", auth.RequireAdmin(), cfg.Complaints.UpdateComplaintStatus)
	complaints.Delete("/:id", auth.RequireAdmin(), cfg.Complaints.DeleteComplaint)

	gate := cfg.PageGate.Handle
	app.Get("/", gate, handlers.Page("home"))
	app.Get("/login", gate, handlers.Page("login"))
	app.Get("/register", gate, handlers.Page("register"))
	app.Get("/admin", gate, handlers.Page("admin"))
	app.Get("/admin/*", gate, handlers.Page("admin"))
	app.Get("/submit", gate, handlers.Page("submit"))
	app.Get("/submit/*", gate, handlers.Page("submit"))
}
