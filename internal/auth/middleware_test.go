package auth_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/band-vault/internal/auth"
	"github.com/spec-kit/band-vault/internal/domain"
	"github.com/spec-kit/band-vault/internal/testutil"
	apperrors "github.com/spec-kit/band-vault/pkg/util"
)

type gateFixture struct {
	app       *fiber.App
	tokens    *auth.TokenManager
	users     *testutil.FakeUserRepository
	user      *domain.User
	admin     *domain.User
	decisions []string
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	f := &gateFixture{users: testutil.NewFakeUserRepository()}
	f.tokens = newManager(t, time.Now())
	f.user = f.users.AddUser("user@example.com", "Band Member", "password123", domain.RoleUser, "band-1")
	f.admin = f.users.AddUser("admin@example.com", "Band Admin", "password123", domain.RoleAdmin, "band-1")

	cookies := auth.NewSessionCookies(auth.CookieConfig{})
	mw := auth.NewAuthMiddleware(f.tokens, f.users, cookies, auth.DefaultRouteRules(), zaptest.NewLogger(t))
	mw.ObserveDecisions(func(d string) { f.decisions = append(f.decisions, d) })

	f.app = fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code, "message": de.Message}})
		},
	})
	f.app.Use(mw.Gate)
	page := func(c *fiber.Ctx) error { return c.SendString("page") }
	f.app.Get("/", page)
	f.app.Get("/login", page)
	f.app.Get("/dashboard", func(c *fiber.Ctx) error {
		principal, ok := auth.PrincipalFromContext(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(principal.Payload.Email)
	})

	api := f.app.Group("/api", mw.RequireAPI)
	api.Get("/me", func(c *fiber.Ctx) error {
		principal, _ := auth.PrincipalFromContext(c)
		return c.JSON(fiber.Map{"id": principal.User.ID})
	})
	api.Delete("/admin", auth.RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return f
}

func (f *gateFixture) tokenFor(t *testing.T, u *domain.User) string {
	t.Helper()
	token, _, err := f.tokens.GenerateToken(u.Identity())
	require.NoError(t, err)
	return token
}

func (f *gateFixture) do(t *testing.T, method, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.DefaultCookieName, Value: token})
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code
}

type stubVerifier struct {
	payload *domain.TokenPayload
	err     error
}

func (s stubVerifier) ParseToken(string) (*domain.TokenPayload, error) { return s.payload, s.err }

func TestDecide(t *testing.T) {
	ok := stubVerifier{payload: &domain.TokenPayload{Identity: testIdentity}}
	bad := stubVerifier{err: auth.ErrTokenExpired}

	tests := []struct {
		name     string
		class    auth.RouteClass
		token    string
		verifier auth.TokenVerifier
		want     auth.Decision
		wantErr  bool
	}{
		{name: "public anonymous", class: auth.RoutePublic, want: auth.DecisionAllow},
		{name: "protected anonymous", class: auth.RouteProtected, want: auth.DecisionRedirectLogin},
		{name: "public signed in", class: auth.RoutePublic, token: "t", verifier: ok, want: auth.DecisionRedirectHome},
		{name: "protected signed in", class: auth.RouteProtected, token: "t", verifier: ok, want: auth.DecisionAllow},
		{name: "protected bad token", class: auth.RouteProtected, token: "t", verifier: bad, want: auth.DecisionRedirectLogin, wantErr: true},
		{name: "public bad token", class: auth.RoutePublic, token: "t", verifier: bad, want: auth.DecisionRedirectLogin, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := auth.Decide(tt.class, tt.token, tt.verifier)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "allow", auth.DecisionAllow.String())
	assert.Equal(t, "redirect-login", auth.DecisionRedirectLogin.String())
	assert.Equal(t, "redirect-home", auth.DecisionRedirectHome.String())
}

func TestGate_Pages(t *testing.T) {
	f := newGateFixture(t)
	token := f.tokenFor(t, f.user)

	t.Run("anonymous protected page redirects to login", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/dashboard", "")
		assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("anonymous public page is served", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/login", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("signed in public page redirects home", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/", token)
		assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
		assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	})

	t.Run("signed in protected page carries identity", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/dashboard", token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("bad cookie redirects to login and is cleared", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/login", "garbage")
		assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
		assert.Contains(t, resp.Header.Get("Set-Cookie"), "Max-Age=0")
	})

	assert.Equal(t, []string{"redirect-login", "allow", "redirect-home", "allow", "redirect-login"}, f.decisions)
}

func TestRequireAPI(t *testing.T) {
	f := newGateFixture(t)

	t.Run("missing token", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/api/me", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
		assert.Empty(t, resp.Header.Get("Location"))
	})

	t.Run("invalid token", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/api/me", "garbage")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, resp))
	})

	t.Run("expired token clears cookie", func(t *testing.T) {
		past := newManager(t, time.Now().Add(-25*time.Hour))
		token, _, err := past.GenerateToken(f.user.Identity())
		require.NoError(t, err)

		resp := f.do(t, http.MethodGet, "/api/me", token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "TOKEN_EXPIRED", errorCode(t, resp))
		assert.Contains(t, resp.Header.Get("Set-Cookie"), "Max-Age=0")
	})

	t.Run("bearer header is accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+f.tokenFor(t, f.user))
		resp, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("deleted user", func(t *testing.T) {
		ghost := f.users.AddUser("ghost@example.com", "Ghost", "password123", domain.RoleUser, "band-1")
		token := f.tokenFor(t, ghost)
		f.users.Delete(ghost.ID)

		resp := f.do(t, http.MethodGet, "/api/me", token)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "USER_NOT_FOUND", errorCode(t, resp))
	})

	t.Run("store failure is internal", func(t *testing.T) {
		token := f.tokenFor(t, f.user)
		f.users.Err = errors.New("connection reset")
		defer func() { f.users.Err = nil }()

		resp := f.do(t, http.MethodGet, "/api/me", token)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("role check", func(t *testing.T) {
		resp := f.do(t, http.MethodDelete, "/api/admin", f.tokenFor(t, f.user))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = f.do(t, http.MethodDelete, "/api/admin", f.tokenFor(t, f.admin))
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}
