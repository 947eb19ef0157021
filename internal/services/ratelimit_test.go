package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// --- Mock CounterStore ---

type mockCounterStore struct {
	countFn func(ctx context.Context, key string, window time.Duration) (int64, error)
	lastKey string
}

func (m *mockCounterStore) CountInWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	m.lastKey = key
	return m.countFn(ctx, key, window)
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	store := &mockCounterStore{
		countFn: func(ctx context.Context, key string, window time.Duration) (int64, error) {
			return 3, nil
		},
	}

	limiter := NewRateLimiter(store)
	decision := limiter.Allow(context.Background(), 42, RateLimitCheckout)

	assert.True(t, decision.Allowed)
	assert.Zero(t, decision.RetryAfterSeconds)
	assert.Equal(t, "ratelimit:42:create-checkout", store.lastKey)
}

func TestRateLimiter_DeniesOverLimit(t *testing.T) {
	// The 4th request in a 3/60s window is denied
	store := &mockCounterStore{
		countFn: func(ctx context.Context, key string, window time.Duration) (int64, error) {
			return 4, nil
		},
	}

	limiter := NewRateLimiter(store)
	decision := limiter.Allow(context.Background(), 42, RateLimitCancellation)

	assert.False(t, decision.Allowed)
	assert.Equal(t, 60, decision.RetryAfterSeconds)
}

func TestRateLimiter_AllowsAtLimit(t *testing.T) {
	store := &mockCounterStore{
		countFn: func(ctx context.Context, key string, window time.Duration) (int64, error) {
			return 3, nil
		},
	}

	limiter := NewRateLimiter(store)
	decision := limiter.Allow(context.Background(), 42, RateLimitCancellation)

	assert.True(t, decision.Allowed)
}

func TestRateLimiter_FailsOpenOnStoreError(t *testing.T) {
	store := &mockCounterStore{
		countFn: func(ctx context.Context, key string, window time.Duration) (int64, error) {
			return 0, errors.New("redis connection refused")
		},
	}

	limiter := NewRateLimiter(store)
	decision := limiter.Allow(context.Background(), 42, RateLimitDisputeRefund)

	assert.True(t, decision.Allowed)
}

func TestRateLimiter_KeysPerUserAndEndpoint(t *testing.T) {
	store := &mockCounterStore{
		countFn: func(ctx context.Context, key string, window time.Duration) (int64, error) {
			return 1, nil
		},
	}

	limiter := NewRateLimiter(store)
	limiter.Allow(context.Background(), 7, RateLimitDisputeRefund)
	assert.Equal(t, "ratelimit:7:process-dispute-refund", store.lastKey)

	limiter.Allow(context.Background(), 8, RateLimitCheckout)
	assert.Equal(t, "ratelimit:8:create-checkout", store.lastKey)
}
