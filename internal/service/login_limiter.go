package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles repeated failed logins per email.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// NoopLoginLimiter never throttles.
type NoopLoginLimiter struct{}

func (NoopLoginLimiter) Allow(context.Context, string) (bool, error) { return true, nil }
func (NoopLoginLimiter) RecordFailure(context.Context, string) error { return nil }
func (NoopLoginLimiter) Reset(context.Context, string) error         { return nil }

// RedisLoginLimiter counts failures in Redis with a fixed window per email.
type RedisLoginLimiter struct {
	client      redis.Cmdable
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter returns a Redis limiter, or a no-op one when maxAttempts is not positive.
func NewLoginLimiter(client redis.Cmdable, maxAttempts int, window time.Duration) LoginLimiter {
	if client == nil || maxAttempts <= 0 || window <= 0 {
		return NoopLoginLimiter{}
	}
	return &RedisLoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

func loginAttemptsKey(email string) string {
	return "login_attempts:" + strings.ToLower(strings.TrimSpace(email))
}

func (l *RedisLoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	count, err := l.client.Get(ctx, loginAttemptsKey(email)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return count < l.maxAttempts, nil
}

func (l *RedisLoginLimiter) RecordFailure(ctx context.Context, email string) error {
	key := loginAttemptsKey(email)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	return err
}

func (l *RedisLoginLimiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, loginAttemptsKey(email)).Err()
}
