package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-vault/internal/api/http/handlers"
	"github.com/spec-kit/band-vault/internal/auth"
	"github.com/spec-kit/band-vault/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Pages          *handlers.PagesHandler
	Songs          *handlers.SongsHandler
	Messages       *handlers.MessagesHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        fiber.Handler
}

// RegisterRoutes wires HTTP routes. The page gate runs ahead of every route
// and ignores the excluded prefixes itself.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	app.Use(cfg.AuthMiddleware.Gate)

	app.Get("/", cfg.Pages.Home)
	app.Get("/login", cfg.Pages.Login)
	app.Get("/dashboard", cfg.Pages.Dashboard)
	app.Get("/song/:id", cfg.Pages.Song)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.All("/login", cfg.Auth.LoginMethodNotAllowed)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.All("/logout", cfg.Auth.LogoutMethodNotAllowed)
	authGroup.Get("/user", cfg.Auth.Whoami)
	authGroup.Put("/user", cfg.Auth.UpdateProfile)
	authGroup.All("/user", cfg.Auth.WhoamiMethodNotAllowed)

	api := app.Group("/api", cfg.AuthMiddleware.RequireAPI)

	songs := api.Group("/songs")
	songs.Get("", cfg.Songs.List)
	songs.Post("", cfg.Songs.Create)
	songs.Get("/:id", cfg.Songs.Get)
	songs.Put("/:id/lyrics", cfg.Songs.UpdateLyrics)
	songs.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Songs.Delete)

	messages := api.Group("/messages")
	messages.Get("", cfg.Messages.List)
	messages.Post("", cfg.Messages.Create)
}
