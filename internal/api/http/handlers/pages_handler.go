package handlers

import (
	"fmt"
	"html"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-vault/internal/auth"
)

// PagesHandler serves the navigable pages. Access is decided by the auth
// gate before these run; the bodies are placeholders for the web client.
type PagesHandler struct {
	appName string
}

// NewPagesHandler constructs handler.
func NewPagesHandler(appName string) *PagesHandler {
	return &PagesHandler{appName: appName}
}

// Home handles GET /.
func (h *PagesHandler) Home(c *fiber.Ctx) error {
	return h.render(c, "Welcome", `<a href="/login">Sign in</a>`)
}

// Login handles GET /login.
func (h *PagesHandler) Login(c *fiber.Ctx) error {
	return h.render(c, "Sign in", `<form id="login" data-action="/api/auth/login"></form>`)
}

// Dashboard handles GET /dashboard.
func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	name := ""
	if principal, ok := auth.PrincipalFromContext(c); ok {
		name = principal.Payload.Name
	}
	return h.render(c, "Dashboard", fmt.Sprintf(`<p>Signed in as %s</p>`, html.EscapeString(name)))
}

// Song handles GET /song/:id.
func (h *PagesHandler) Song(c *fiber.Ctx) error {
	return h.render(c, "Song", fmt.Sprintf(`<div id="song" data-id="%s"></div>`, html.EscapeString(c.Params("id"))))
}

func (h *PagesHandler) render(c *fiber.Ctx, title, body string) error {
	c.Type("html", "utf-8")
	return c.SendString(fmt.Sprintf(
		`<!doctype html><html><head><title>%s | %s</title></head><body>%s</body></html>`,
		html.EscapeString(title), html.EscapeString(h.appName), body))
}
