package auth_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/band-vault/internal/auth"
)

func cookieApp(cookies *auth.SessionCookies) *fiber.App {
	app := fiber.New()
	app.Get("/set", func(c *fiber.Ctx) error {
		cookies.Set(c, "abc")
		return c.SendStatus(http.StatusOK)
	})
	app.Get("/clear", func(c *fiber.Ctx) error {
		cookies.Clear(c)
		return c.SendStatus(http.StatusOK)
	})
	app.Get("/token", func(c *fiber.Ctx) error {
		return c.SendString(cookies.TokenFromRequest(c))
	})
	return app
}

func TestSessionCookies_SetAndClear(t *testing.T) {
	app := cookieApp(auth.NewSessionCookies(auth.CookieConfig{Secure: true}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/set", nil), -1)
	require.NoError(t, err)
	set := resp.Header.Get("Set-Cookie")
	assert.Contains(t, set, "token=abc")
	assert.Contains(t, set, "Max-Age=86400")
	assert.Contains(t, set, "Path=/")
	assert.Contains(t, set, "HttpOnly")
	assert.Contains(t, set, "Secure")
	assert.Contains(t, set, "SameSite=Strict")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/clear", nil), -1)
	require.NoError(t, err)
	cleared := resp.Header.Get("Set-Cookie")
	assert.Contains(t, cleared, "token=;")
	assert.Contains(t, cleared, "Max-Age=0")
	assert.Contains(t, cleared, "SameSite=Strict")
}

func TestSessionCookies_NotSecureOutsideProduction(t *testing.T) {
	app := cookieApp(auth.NewSessionCookies(auth.CookieConfig{}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/set", nil), -1)
	require.NoError(t, err)
	assert.NotContains(t, resp.Header.Get("Set-Cookie"), "Secure")
}

func TestSessionCookies_TokenFromRequest(t *testing.T) {
	app := cookieApp(auth.NewSessionCookies(auth.CookieConfig{}))

	read := func(req *http.Request) string {
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(body)
	}

	req := httptest.NewRequest(http.MethodGet, "/token", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", read(req))

	req = httptest.NewRequest(http.MethodGet, "/token", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
	req.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", read(req))

	req = httptest.NewRequest(http.MethodGet, "/token", nil)
	req.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "", read(req))

	req = httptest.NewRequest(http.MethodGet, "/token", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
	req.Header.Set("Authorization", "Bearer    ")
	assert.Equal(t, "from-cookie", read(req))
}
