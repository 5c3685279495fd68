package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/band-vault/internal/auth"
	"github.com/spec-kit/band-vault/internal/domain"
	"github.com/spec-kit/band-vault/internal/events"
	"github.com/spec-kit/band-vault/internal/repository"
)

// ErrTooManyAttempts is returned by Login while an email is throttled.
var ErrTooManyAttempts = errors.New("too many login attempts")

// AuthService coordinates login and token verification.
type AuthService struct {
	users   repository.UserRepository
	tokens  *auth.TokenManager
	limiter LoginLimiter
	events  events.Dispatcher
	logger  *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	Limiter    LoginLimiter
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service. A nil limiter disables throttling.
func NewAuthService(deps AuthDependencies) *AuthService {
	limiter := deps.Limiter
	if limiter == nil {
		limiter = NoopLoginLimiter{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:   deps.UserRepo,
		tokens:  deps.Tokens,
		limiter: limiter,
		events:  deps.Dispatcher,
		logger:  logger,
	}
}

// Login checks email and password and issues a session token. Unknown emails
// and wrong passwords both return auth.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		s.logger.Warn("login limiter unavailable", zap.Error(err))
		allowed = true
	}
	if !allowed {
		return nil, "", ErrTooManyAttempts
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.CompareDummyPassword(password)
			s.recordFailure(ctx, email)
			return nil, "", auth.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.recordFailure(ctx, email)
		return nil, "", auth.ErrInvalidCredentials
	}
	if !user.Role.Valid() {
		return nil, "", fmt.Errorf("user %s has unknown role %q", user.ID, user.Role)
	}

	token, _, err := s.tokens.GenerateToken(user.Identity())
	if err != nil {
		return nil, "", err
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.logger.Warn("reset login attempts", zap.Error(err))
	}
	publish(ctx, s.events, s.logger, events.Event{
		Type:      events.EventUserLoggedIn,
		BandID:    user.BandID,
		ActorID:   user.ID,
		Timestamp: time.Now(),
	})
	return user, token, nil
}

// Verify decodes a session token.
func (s *AuthService) Verify(token string) (*domain.TokenPayload, error) {
	return s.tokens.ParseToken(token)
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.logger.Warn("record failed login", zap.Error(err))
	}
}
