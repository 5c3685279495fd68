package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/band-vault/internal/config"
	"github.com/spec-kit/band-vault/internal/service"
)

func TestRedis_Disabled(t *testing.T) {
	r := NewRedis(context.Background(), config.RedisConfig{Enabled: false}, zaptest.NewLogger(t))

	assert.False(t, r.Enabled())
	assert.Nil(t, r.Cmdable())
	assert.ErrorIs(t, r.Ping(context.Background()), ErrRedisDisabled)
	assert.NotPanics(t, r.Close)

	limiter := service.NewLoginLimiter(r.Cmdable(), 5, time.Minute)
	assert.IsType(t, service.NoopLoginLimiter{}, limiter)
}

func TestRedis_NilSafe(t *testing.T) {
	var r *Redis
	assert.False(t, r.Enabled())
	assert.Nil(t, r.Cmdable())
	assert.NotPanics(t, r.Close)
}
