package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitPreset bounds an endpoint to maxRequests per sliding window.
type RateLimitPreset struct {
	Endpoint      string
	MaxRequests   int
	WindowSeconds int
}

// Rate limit presets for the money-moving endpoints
var (
	RateLimitCheckout      = RateLimitPreset{Endpoint: "create-checkout", MaxRequests: 5, WindowSeconds: 60}
	RateLimitCancellation  = RateLimitPreset{Endpoint: "process-cancellation", MaxRequests: 3, WindowSeconds: 60}
	RateLimitDisputeRefund = RateLimitPreset{Endpoint: "process-dispute-refund", MaxRequests: 5, WindowSeconds: 60}
)

// RateLimitDecision reports the outcome of an admission check.
type RateLimitDecision struct {
	Allowed           bool `json:"allowed"`
	RetryAfterSeconds int  `json:"retryAfterSeconds,omitempty"`
}

// CounterStore records one request under key and returns how many requests the
// sliding window now holds. Must be atomic across concurrent callers.
type CounterStore interface {
	CountInWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounterStore keeps per-key request timestamps in a Redis sorted set.
type RedisCounterStore struct {
	Client *redis.Client
}

func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{Client: client}
}

func (s *RedisCounterStore) CountInWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()
	cutoff := now.Add(-window).UnixNano()

	pipe := s.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", cutoff))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return card.Val(), nil
}

// RateLimiter gates the money-moving endpoints per (user, endpoint) pair.
type RateLimiter struct {
	Store CounterStore
}

func NewRateLimiter(store CounterStore) *RateLimiter {
	return &RateLimiter{Store: store}
}

// Allow checks the sliding window for the caller. On any store failure the
// check fails open: availability wins over strict enforcement here, and the
// failure is logged for monitoring.
func (l *RateLimiter) Allow(ctx context.Context, userID uint, preset RateLimitPreset) RateLimitDecision {
	key := fmt.Sprintf("ratelimit:%d:%s", userID, preset.Endpoint)
	window := time.Duration(preset.WindowSeconds) * time.Second

	count, err := l.Store.CountInWindow(ctx, key, window)
	if err != nil {
		log.Printf("[RATE-LIMIT] Error checking rate limit for %s: %v", key, err)
		return RateLimitDecision{Allowed: true}
	}

	if count > int64(preset.MaxRequests) {
		return RateLimitDecision{Allowed: false, RetryAfterSeconds: preset.WindowSeconds}
	}

	return RateLimitDecision{Allowed: true}
}
