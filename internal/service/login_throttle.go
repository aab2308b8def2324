package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginThrottle counts failed login attempts per username in Redis and blocks
// further attempts once the window budget is spent. Redis being down fails
// open: authentication still works, it just is not throttled.
type LoginThrottle struct {
	client *redis.Client
	logger *zap.Logger
	max    int
	window time.Duration
}

// NewLoginThrottle builds a throttle. A nil client disables throttling.
func NewLoginThrottle(client *redis.Client, max int, window time.Duration, logger *zap.Logger) *LoginThrottle {
	return &LoginThrottle{client: client, logger: logger, max: max, window: window}
}

// Allow reports whether another login attempt is permitted for the username.
func (t *LoginThrottle) Allow(ctx context.Context, username string) bool {
	if t == nil || t.client == nil || t.max <= 0 {
		return true
	}
	count, err := t.client.Get(ctx, t.key(username)).Int()
	if err != nil {
		if err != redis.Nil {
			t.logger.Warn("login throttle read failed", zap.Error(err))
		}
		return true
	}
	return count < t.max
}

// RecordFailure bumps the failure counter, starting the window on first miss.
func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) {
	if t == nil || t.client == nil || t.max <= 0 {
		return
	}
	key := t.key(username)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		t.logger.Warn("login throttle incr failed", zap.Error(err))
		return
	}
	if count == 1 {
		t.client.Expire(ctx, key, t.window)
	}
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, username string) {
	if t == nil || t.client == nil {
		return
	}
	t.client.Del(ctx, t.key(username))
}

func (t *LoginThrottle) key(username string) string {
	return "login_failures:" + username
}
