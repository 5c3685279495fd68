package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/band-vault/internal/api/dto"
	"github.com/spec-kit/band-vault/internal/auth"
	"github.com/spec-kit/band-vault/internal/domain"
	"github.com/spec-kit/band-vault/internal/service"
)

const (
	msgInternal       = "An internal server error occurred"
	msgNoToken        = "Authentication token not found."
	msgUseLogoutPost  = "Method not allowed. Use POST to logout."
	msgUseLoginPost   = "Method not allowed. Use POST to login."
	msgUseWhoamiGet   = "Method not allowed. Use GET to verify authentication."
	msgUsePatchHint   = "Method not allowed. Use GET to verify authentication or PUT to update profile."
	msgUpdatesPending = "User profile updates not yet implemented"
)

// AuthHandler implements the session boundary: login, logout and whoami.
type AuthHandler struct {
	auth    *service.AuthService
	cookies *auth.SessionCookies
	logger  *zap.Logger
	now     func() time.Time
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookies *auth.SessionCookies, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, cookies: cookies, logger: logger, now: time.Now}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(dto.MessageResponse{Message: "Invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(dto.MessageResponse{Message: "Email and password are required"})
	}

	user, token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.Status(http.StatusUnauthorized).JSON(dto.MessageResponse{Message: auth.ErrInvalidCredentials.Message})
	case errors.Is(err, service.ErrTooManyAttempts):
		return c.Status(http.StatusTooManyRequests).JSON(dto.MessageResponse{Message: "Too many login attempts. Try again later."})
	default:
		h.logger.Error("login failed", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(dto.MessageResponse{Message: msgInternal})
	}

	h.cookies.Set(c, token)
	return c.JSON(dto.LoginResponse{Message: "Login successful", User: user.Public()})
}

// Logout handles POST /api/auth/logout. It never looks at the current token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.cookies.Clear(c)
	return c.JSON(dto.MessageResponse{Message: "Logout successful", Timestamp: h.timestamp()})
}

// Whoami handles GET /api/auth/user. Failures are soft: a null user with a
// message, and an invalid cookie is removed.
func (h *AuthHandler) Whoami(c *fiber.Ctx) error {
	token := c.Cookies(h.cookies.Name())
	if token == "" {
		return c.Status(http.StatusUnauthorized).JSON(dto.VerificationResponse{Message: msgNoToken})
	}

	payload, err := h.auth.Verify(token)
	if err != nil {
		var authErr *auth.Error
		if !errors.As(err, &authErr) {
			h.logger.Error("whoami failed", zap.Error(err))
			return c.Status(http.StatusInternalServerError).JSON(dto.VerificationResponse{Message: msgInternal})
		}
		h.cookies.Clear(c)
		return c.Status(http.StatusUnauthorized).JSON(dto.VerificationResponse{Message: authErr.Message})
	}

	user := domain.PublicFromPayload(payload)
	return c.JSON(dto.VerificationResponse{User: &user})
}

// UpdateProfile handles PUT /api/auth/user.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	return c.Status(http.StatusNotImplemented).JSON(dto.MessageResponse{Message: msgUpdatesPending, Timestamp: h.timestamp()})
}

// LoginMethodNotAllowed answers any non-POST login request.
func (h *AuthHandler) LoginMethodNotAllowed(c *fiber.Ctx) error {
	return h.methodNotAllowed(c, msgUseLoginPost)
}

// LogoutMethodNotAllowed answers any non-POST logout request.
func (h *AuthHandler) LogoutMethodNotAllowed(c *fiber.Ctx) error {
	return h.methodNotAllowed(c, msgUseLogoutPost)
}

// WhoamiMethodNotAllowed answers POST, DELETE and PATCH on the whoami route.
func (h *AuthHandler) WhoamiMethodNotAllowed(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPatch {
		return h.methodNotAllowed(c, msgUsePatchHint)
	}
	return h.methodNotAllowed(c, msgUseWhoamiGet)
}

func (h *AuthHandler) methodNotAllowed(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusMethodNotAllowed).JSON(dto.MessageResponse{Message: message, Timestamp: h.timestamp()})
}

func (h *AuthHandler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339Nano)
}
