// Package cache provides resend throttling backed by Redis or process
// memory.
package cache

import (
	"context"
	"fmt"
	"time"

	identityapp "github.com/mealportal/backend/internal/application/identity"
	"github.com/redis/go-redis/v9"
)

// Ensure RedisOTPLimiter implements OTPLimiter
var _ identityapp.OTPLimiter = (*RedisOTPLimiter)(nil)

const (
	// defaultResendWindow is the fixed window resend attempts are
	// counted in.
	defaultResendWindow = time.Minute

	// defaultResendLimit is how many dispatches the window allows.
	defaultResendLimit = 3
)

// RedisOTPLimiter throttles OTP resends with a fixed window counter.
// Suitable for multi-instance deployments where throttle state must be
// shared.
type RedisOTPLimiter struct {
	client    *redis.Client
	keyPrefix string
	window    time.Duration
	limit     int64
}

// NewRedisOTPLimiter creates a limiter on an existing Redis client.
func NewRedisOTPLimiter(client *redis.Client) *RedisOTPLimiter {
	return &RedisOTPLimiter{
		client:    client,
		keyPrefix: "otp:resend:",
		window:    defaultResendWindow,
		limit:     defaultResendLimit,
	}
}

// AllowResend counts the attempt and reports whether it stays within
// the window's limit. INCR and EXPIRE run in one pipeline so the window
// starts with the first attempt.
func (l *RedisOTPLimiter) AllowResend(ctx context.Context, userID int64, intent string) (bool, error) {
	key := fmt.Sprintf("%s%d:%s", l.keyPrefix, userID, intent)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to count resend attempt: %w", err)
	}

	return count.Val() <= l.limit, nil
}
