package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/band-vault/internal/domain"
)

const (
	// TokenLifetime is the fixed validity of an issued session token.
	TokenLifetime = 24 * time.Hour
	// MinSecretLength is the shortest accepted signing secret.
	MinSecretLength = 32
)

var (
	ErrSecretMissing = errors.New("JWT_SECRET is required")
	ErrSecretTooWeak = fmt.Errorf("JWT_SECRET must be at least %d characters long", MinSecretLength)
)

// ValidateSecret checks the signing secret before any token can be issued.
func ValidateSecret(secret string) error {
	if secret == "" {
		return ErrSecretMissing
	}
	if len(secret) < MinSecretLength {
		return ErrSecretTooWeak
	}
	return nil
}

// TokenManager issues and verifies HS256 session tokens. It is safe for concurrent use.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		tm.now = now
	}
}

// NewTokenManager builds a manager for the given secret.
func NewTokenManager(secret string, opts ...TokenOption) (*TokenManager, error) {
	if err := ValidateSecret(secret); err != nil {
		return nil, err
	}
	tm := &TokenManager{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm, nil
}

// Claims describes the JWT payload. Name is a pointer so an absent claim can be
// told apart from an empty display name.
type Claims struct {
	UserID string      `json:"id"`
	Email  string      `json:"email"`
	Name   *string     `json:"name"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for the identity, valid for TokenLifetime.
func (tm *TokenManager) GenerateToken(id domain.Identity) (string, time.Time, error) {
	issuedAt := jwt.NewNumericDate(tm.now())
	expiresAt := jwt.NewNumericDate(issuedAt.Add(TokenLifetime))
	name := id.Name
	claims := &Claims{
		UserID: id.ID,
		Email:  id.Email,
		Name:   &name,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, newError(KindInternal, "Failed to create JWT token", err)
	}
	return tokenString, expiresAt.Time, nil
}

// ParseToken verifies the signature, expiry and claim shape of tokenStr.
// Every failure is an *Error; none of them is fatal to the caller.
func (tm *TokenManager) ParseToken(tokenStr string) (*domain.TokenPayload, error) {
	if tokenStr == "" {
		return nil, ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || !claims.wellFormed() {
		return nil, newError(KindInvalidCredentials, "Invalid token payload structure", nil)
	}

	return &domain.TokenPayload{
		Identity: domain.Identity{
			ID:    claims.UserID,
			Email: claims.Email,
			Name:  *claims.Name,
			Role:  claims.Role,
		},
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (c *Claims) wellFormed() bool {
	return c.UserID != "" && c.Email != "" && c.Name != nil && c.Role.Valid() &&
		c.IssuedAt != nil && c.ExpiresAt != nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return newError(KindTokenExpired, ErrTokenExpired.Message, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return newError(KindInvalidCredentials, "Invalid token signature", err)
	default:
		return newError(KindUnauthorized, "Token verification failed", err)
	}
}
