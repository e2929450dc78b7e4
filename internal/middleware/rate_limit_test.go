package middleware

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestStore(requests int, window time.Duration, now time.Time) (*RedisRateLimiterStore, map[string]int64) {
	counts := map[string]int64{}
	logger := zerolog.Nop()

	store := &RedisRateLimiterStore{
		requests: requests,
		window:   window,
		logger:   &logger,
		now:      func() time.Time { return now },
		incr: func(ctx context.Context, key string, ttl time.Duration) (int64, error) {
			counts[key]++
			return counts[key], nil
		},
	}
	return store, counts
}

func TestRateLimiterStoreAllow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store, counts := newTestStore(3, time.Minute, now)

	for i := 1; i <= 3; i++ {
		allowed, err := store.Allow("10.0.0.1")
		if err != nil || !allowed {
			t.Fatalf("request %d: allowed=%v err=%v", i, allowed, err)
		}
	}

	allowed, _ := store.Allow("10.0.0.1")
	if allowed {
		t.Fatal("fourth request in the window must be denied")
	}

	allowed, _ = store.Allow("10.0.0.2")
	if !allowed {
		t.Fatal("other clients have their own counter")
	}

	for key := range counts {
		if !strings.HasPrefix(key, rateLimitKeyPrefix) {
			t.Fatalf("unexpected key %q", key)
		}
	}
}

func TestRateLimiterStoreNewWindow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store, _ := newTestStore(1, time.Minute, now)

	if allowed, _ := store.Allow("ip"); !allowed {
		t.Fatal("first request denied")
	}
	if allowed, _ := store.Allow("ip"); allowed {
		t.Fatal("second request allowed")
	}

	store.now = func() time.Time { return now.Add(time.Minute) }
	if allowed, _ := store.Allow("ip"); !allowed {
		t.Fatal("counter should reset in the next window")
	}
}

func TestRateLimiterStoreFailsOpen(t *testing.T) {
	store, _ := newTestStore(1, time.Minute, time.Now())
	store.incr = func(ctx context.Context, key string, ttl time.Duration) (int64, error) {
		return 0, errors.New("redis: connection refused")
	}

	for i := 0; i < 5; i++ {
		allowed, err := store.Allow("ip")
		if err != nil || !allowed {
			t.Fatalf("allowed=%v err=%v, want fail open", allowed, err)
		}
	}
}

func TestRateLimiterStoreRetryAfter(t *testing.T) {
	// 1_700_000_000 is 20s past a minute boundary.
	now := time.Unix(1_700_000_000, 0)
	store, _ := newTestStore(1, time.Minute, now)

	if got := store.RetryAfter(); got != 40 {
		t.Fatalf("retry after = %d, want 40", got)
	}
}
