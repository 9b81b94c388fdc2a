package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	identityapp "github.com/mealportal/backend/internal/application/identity"
)

// Ensure InMemoryOTPLimiter implements OTPLimiter
var _ identityapp.OTPLimiter = (*InMemoryOTPLimiter)(nil)

type resendWindow struct {
	count   int64
	resetAt time.Time
}

// InMemoryOTPLimiter throttles OTP resends with a per-process fixed
// window counter. Suitable for single-instance deployments and tests;
// use RedisOTPLimiter when instances share traffic.
type InMemoryOTPLimiter struct {
	mu      sync.Mutex
	windows map[string]*resendWindow
	window  time.Duration
	limit   int64
	now     func() time.Time
}

// NewInMemoryOTPLimiter creates a new InMemoryOTPLimiter
func NewInMemoryOTPLimiter() *InMemoryOTPLimiter {
	return &InMemoryOTPLimiter{
		windows: make(map[string]*resendWindow),
		window:  defaultResendWindow,
		limit:   defaultResendLimit,
		now:     time.Now,
	}
}

// AllowResend counts the attempt and reports whether it stays within
// the window's limit.
func (l *InMemoryOTPLimiter) AllowResend(ctx context.Context, userID int64, intent string) (bool, error) {
	key := fmt.Sprintf("%d:%s", userID, intent)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &resendWindow{resetAt: now.Add(l.window)}
		l.windows[key] = w
	}
	w.count++

	return w.count <= l.limit, nil
}
