package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/band-vault/internal/auth"
	"github.com/spec-kit/band-vault/internal/domain"
	"github.com/spec-kit/band-vault/internal/events"
	"github.com/spec-kit/band-vault/internal/service"
	"github.com/spec-kit/band-vault/internal/testutil"
)

type authFixture struct {
	svc        *service.AuthService
	users      *testutil.FakeUserRepository
	limiter    *testutil.FakeLoginLimiter
	dispatcher events.Dispatcher
	user       *domain.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	tokens, err := auth.NewTokenManager(testutil.TestSecret)
	require.NoError(t, err)

	f := &authFixture{
		users:      testutil.NewFakeUserRepository(),
		limiter:    testutil.NewFakeLoginLimiter(3),
		dispatcher: events.NewInMemoryDispatcher(),
	}
	f.user = f.users.AddUser("user@example.com", "Band Member", "password123", domain.RoleUser, "band-1")
	f.svc = service.NewAuthService(service.AuthDependencies{
		UserRepo:   f.users,
		Tokens:     tokens,
		Limiter:    f.limiter,
		Dispatcher: f.dispatcher,
		Logger:     zaptest.NewLogger(t),
	})
	return f
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	var logins []events.Event
	f.dispatcher.Subscribe(events.EventUserLoggedIn, func(_ context.Context, e events.Event) error {
		logins = append(logins, e)
		return nil
	})

	user, token, err := f.svc.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, user.ID)

	payload, err := f.svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, f.user.Identity(), payload.Identity)
	assert.Equal(t, 24*time.Hour, payload.ExpiresAt.Sub(payload.IssuedAt))

	require.Len(t, logins, 1)
	assert.Equal(t, f.user.ID, logins[0].ActorID)
}

func TestAuthService_LoginRejections(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, errUnknown := f.svc.Login(ctx, "nobody@example.com", "password123")
	_, _, errWrong := f.svc.Login(ctx, "user@example.com", "wrong")

	assert.ErrorIs(t, errUnknown, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, auth.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
	assert.Equal(t, 1, f.limiter.Failures["user@example.com"])
	assert.Equal(t, 1, f.limiter.Failures["nobody@example.com"])
}

func TestAuthService_Throttle(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := f.svc.Login(ctx, "user@example.com", "wrong")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	}

	_, _, err := f.svc.Login(ctx, "user@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrTooManyAttempts)
}

func TestAuthService_LimiterFailsOpen(t *testing.T) {
	f := newAuthFixture(t)
	f.limiter.Err = errors.New("redis down")

	_, _, err := f.svc.Login(context.Background(), "user@example.com", "password123")
	assert.NoError(t, err)
}

func TestAuthService_SuccessResetsFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, _ = f.svc.Login(ctx, "user@example.com", "wrong")
	_, _, err := f.svc.Login(ctx, "user@example.com", "password123")
	require.NoError(t, err)
	assert.Zero(t, f.limiter.Failures["user@example.com"])
}

func TestAuthService_StoreFailureIsNotCredentialError(t *testing.T) {
	f := newAuthFixture(t)
	f.users.Err = errors.New("connection refused")

	_, _, err := f.svc.Login(context.Background(), "user@example.com", "password123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_UnknownRoleIsInternal(t *testing.T) {
	f := newAuthFixture(t)
	f.users.Users[f.user.ID].Role = "owner"

	_, _, err := f.svc.Login(context.Background(), "user@example.com", "password123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestNoopLoginLimiter(t *testing.T) {
	limiter := service.NewLoginLimiter(nil, 5, time.Minute)
	allowed, err := limiter.Allow(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.NoError(t, limiter.RecordFailure(context.Background(), "user@example.com"))
	assert.NoError(t, limiter.Reset(context.Background(), "user@example.com"))
}
