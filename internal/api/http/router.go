package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/authkit-labs/token-auth/internal/api/http/handlers"
	"github.com/authkit-labs/token-auth/internal/auth"
)

// AuthRouteConfig bundles dependencies for the auth service routes.
type AuthRouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
}

// RegisterAuthRoutes wires the token issuing service.
func RegisterAuthRoutes(app *fiber.App, cfg AuthRouteConfig) {
	registerHealth(app, cfg.Health)

	app.Post("/login", cfg.Auth.Login)
	app.Post("/token", cfg.Auth.Token)
	app.Delete("/logout", cfg.Auth.Logout)
}

// ResourceRouteConfig bundles dependencies for the resource service routes.
type ResourceRouteConfig struct {
	Health         *handlers.HealthHandler
	Posts          *handlers.PostsHandler
	AccessVerifier *auth.AccessVerifier
}

// RegisterResourceRoutes wires the protected resource service.
func RegisterResourceRoutes(app *fiber.App, cfg ResourceRouteConfig) {
	registerHealth(app, cfg.Health)

	app.Get("/posts", cfg.AccessVerifier.Handle, cfg.Posts.ListPosts)
}

func registerHealth(app *fiber.App, health *handlers.HealthHandler) {
	if health == nil {
		return
	}
	app.Get("/health/live", health.Live)
	app.Get("/health/ready", health.Ready)
}
