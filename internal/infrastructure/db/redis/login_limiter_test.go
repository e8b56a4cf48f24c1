package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type memCounter struct {
	counts  map[string]int64
	expires map[string]time.Duration
	incrErr error
}

func newMemCounter() *memCounter {
	return &memCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (m *memCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if m.incrErr != nil {
		return redis.NewIntResult(0, m.incrErr)
	}
	m.counts[key]++
	return redis.NewIntResult(m.counts[key], nil)
}

func (m *memCounter) Expire(_ context.Context, key string, d time.Duration) *redis.BoolCmd {
	m.expires[key] = d
	return redis.NewBoolResult(true, nil)
}

func TestLoginLimiter_FixedWindow(t *testing.T) {
	mem := newMemCounter()
	l := NewLoginLimiter(mem, 3, time.Minute)
	now := time.Date(2026, 1, 1, 10, 0, 5, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(context.Background(), "10.0.0.1")
		if err != nil || !ok {
			t.Fatalf("attempt %d: expected allowed, got %v %v", i+1, ok, err)
		}
	}
	if ok, _ := l.Allow(context.Background(), "10.0.0.1"); ok {
		t.Fatalf("fourth attempt must be throttled")
	}
	if ok, _ := l.Allow(context.Background(), "10.0.0.2"); !ok {
		t.Fatalf("other callers have their own budget")
	}

	now = now.Add(time.Minute)
	if ok, _ := l.Allow(context.Background(), "10.0.0.1"); !ok {
		t.Fatalf("next window must reset the budget")
	}

	key := "login:10.0.0.1:1767261600"
	if mem.expires[key] != time.Minute {
		t.Fatalf("expected expiry on first increment of %s, got %v", key, mem.expires)
	}
}

func TestLoginLimiter_Disabled(t *testing.T) {
	mem := newMemCounter()
	mem.incrErr = errors.New("must not be called")
	l := NewLoginLimiter(mem, 0, time.Minute)

	ok, err := l.Allow(context.Background(), "ip")
	if err != nil || !ok {
		t.Fatalf("disabled limiter must allow, got %v %v", ok, err)
	}
}

func TestLoginLimiter_StoreError(t *testing.T) {
	mem := newMemCounter()
	mem.incrErr = errors.New("connection refused")
	l := NewLoginLimiter(mem, 5, time.Minute)

	if _, err := l.Allow(context.Background(), "ip"); err == nil {
		t.Fatalf("expected error")
	}
}
