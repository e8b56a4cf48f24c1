package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login"

// counter is the subset of *redis.Client the limiter needs.
type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// LoginLimiter is a fixed-window attempt counter keyed by caller
// (usually the client IP). Each window lives in its own key and expires with it.
type LoginLimiter struct {
	rdb    counter
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewLoginLimiter returns a limiter allowing limit attempts per window.
// A non-positive limit disables throttling.
func NewLoginLimiter(rdb counter, limit int, window time.Duration) *LoginLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{rdb: rdb, limit: limit, window: window, now: time.Now}
}

// Window returns the length of one counting window.
func (l *LoginLimiter) Window() time.Duration { return l.window }

// Allow counts one attempt for key and reports whether it is within the limit.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}

	k := l.windowKey(key)
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("login limiter incr: %w", err)
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return true, fmt.Errorf("login limiter expire: %w", err)
		}
	}
	return n <= int64(l.limit), nil
}

func (l *LoginLimiter) windowKey(key string) string {
	start := l.now().UTC().Truncate(l.window).Unix()
	return fmt.Sprintf("%s:%s:%d", keyPrefix, key, start)
}
