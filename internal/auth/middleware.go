package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/band-vault/internal/domain"
	"github.com/spec-kit/band-vault/internal/repository"
	apperrors "github.com/spec-kit/band-vault/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. User is only loaded on API
// routes that need the canonical record.
type Principal struct {
	Payload *domain.TokenPayload
	User    *domain.User
}

// TokenVerifier verifies session tokens.
type TokenVerifier interface {
	ParseToken(token string) (*domain.TokenPayload, error)
}

// UserLoader fetches the canonical user record.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Decision is the outcome of the gate for one request.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionRedirectLogin
	DecisionRedirectHome
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirectLogin:
		return "redirect-login"
	default:
		return "redirect-home"
	}
}

// Decide applies the navigation rules. A non-nil error is the verification
// failure behind a redirect-login decision and means the cookie must be scrubbed.
func Decide(class RouteClass, token string, verifier TokenVerifier) (Decision, *domain.TokenPayload, error) {
	if token == "" {
		if class == RoutePublic {
			return DecisionAllow, nil, nil
		}
		return DecisionRedirectLogin, nil, nil
	}

	payload, err := verifier.ParseToken(token)
	if err != nil {
		return DecisionRedirectLogin, nil, err
	}
	if class == RoutePublic {
		return DecisionRedirectHome, payload, nil
	}
	return DecisionAllow, payload, nil
}

// AuthMiddleware gates page navigation and JSON API access.
type AuthMiddleware struct {
	tokens  TokenVerifier
	users   UserLoader
	cookies *SessionCookies
	rules   RouteRules
	logger  *zap.Logger

	onDecision func(decision string)
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens TokenVerifier, users UserLoader, cookies *SessionCookies, rules RouteRules, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, cookies: cookies, rules: rules, logger: logger}
}

// ObserveDecisions registers fn to be called with every gate decision.
func (m *AuthMiddleware) ObserveDecisions(fn func(decision string)) {
	m.onDecision = fn
}

// Gate enforces the page navigation rules: anonymous visitors of protected
// pages go to login, signed-in visitors of public pages go home.
func (m *AuthMiddleware) Gate(c *fiber.Ctx) error {
	path := c.Path()
	if m.rules.Excluded(path) {
		return c.Next()
	}

	class := m.rules.Classify(path)
	decision, payload, err := Decide(class, m.cookies.TokenFromRequest(c), m.tokens)
	if err != nil {
		m.logger.Debug("gate verification failed",
			zap.String("path", path),
			zap.String("kind", string(KindOf(err))),
			zap.Error(err))
		m.cookies.Clear(c)
	}
	if m.onDecision != nil {
		m.onDecision(decision.String())
	}

	switch decision {
	case DecisionRedirectLogin:
		return c.Redirect(m.rules.LoginPath, fiber.StatusTemporaryRedirect)
	case DecisionRedirectHome:
		return c.Redirect(m.rules.HomePath, fiber.StatusTemporaryRedirect)
	}

	if payload != nil {
		c.Locals(principalKey, &Principal{Payload: payload})
	}
	return c.Next()
}

// RequireAPI authenticates JSON API callers and loads their user record.
// Failures are rendered as JSON errors, never redirects.
func (m *AuthMiddleware) RequireAPI(c *fiber.Ctx) error {
	token := m.cookies.TokenFromRequest(c)
	if token == "" {
		return ToDomainError(newError(KindMissingToken, "Unauthorized - No token provided", nil))
	}

	payload, err := m.tokens.ParseToken(token)
	if err != nil {
		if KindOf(err) == KindTokenExpired {
			m.cookies.Clear(c)
		}
		m.logger.Debug("api verification failed",
			zap.String("path", c.Path()),
			zap.String("kind", string(KindOf(err))),
			zap.Error(err))
		return ToDomainError(err)
	}

	user, err := m.users.GetByID(c.UserContext(), payload.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ToDomainError(ErrUserNotFound)
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{Payload: payload, User: user})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
