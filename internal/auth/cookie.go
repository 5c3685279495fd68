package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// DefaultCookieName is the session cookie carrying the token.
const DefaultCookieName = "token"

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	Name   string
	Secure bool
}

// SessionCookies writes and removes the session cookie.
//
// The header is rendered with net/http because fasthttp drops Max-Age=0,
// which is the delete signal browsers expect.
type SessionCookies struct {
	name   string
	secure bool
}

// NewSessionCookies builds the cookie writer.
func NewSessionCookies(cfg CookieConfig) *SessionCookies {
	name := cfg.Name
	if name == "" {
		name = DefaultCookieName
	}
	return &SessionCookies{name: name, secure: cfg.Secure}
}

// Name returns the cookie name.
func (s *SessionCookies) Name() string {
	return s.name
}

// Set attaches a fresh session cookie holding token.
func (s *SessionCookies) Set(c *fiber.Ctx, token string) {
	s.write(c, token, int(TokenLifetime.Seconds()))
}

// Clear expires the session cookie immediately.
func (s *SessionCookies) Clear(c *fiber.Ctx) {
	s.write(c, "", -1)
}

func (s *SessionCookies) write(c *fiber.Ctx, value string, maxAge int) {
	cookie := &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	}
	c.Response().Header.Add(fiber.HeaderSetCookie, cookie.String())
}

const bearerPrefix = "Bearer "

// TokenFromRequest extracts the credential, preferring an Authorization bearer
// header over the session cookie. An empty string means no credential.
func (s *SessionCookies) TokenFromRequest(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); len(header) > len(bearerPrefix) &&
		strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		if token := strings.TrimSpace(header[len(bearerPrefix):]); token != "" {
			return token
		}
	}
	return c.Cookies(s.name)
}
