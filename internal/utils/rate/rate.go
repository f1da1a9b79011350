package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Hansraja/MegaMarket/internal/config"
)

// Limiter throttles requests using a Redis counter per key.
type Limiter struct {
	client *redis.Client
	logger *zap.Logger
	config config.RateLimitConfig
}

// NewLimiter creates a request rate limiter.
func NewLimiter(client *redis.Client, logger *zap.Logger, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client: client,
		logger: logger.Named("rate_limiter"),
		config: cfg,
	}
}

// Allow reports whether another request under key is within limit per
// period. Redis errors fail open so an unavailable Redis never blocks
// users.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, period time.Duration) (bool, error) {
	if !l.config.Enabled {
		return true, nil
	}

	redisKey := fmt.Sprintf("rate:%s", key)

	count, err := l.client.Get(ctx, redisKey).Int()
	if err != nil && err != redis.Nil {
		l.logger.Error("Failed to get rate limit count", zap.Error(err), zap.String("key", key))
		return true, err
	}

	if err == redis.Nil {
		if err := l.client.Set(ctx, redisKey, 1, period).Err(); err != nil {
			l.logger.Error("Failed to set rate limit count", zap.Error(err), zap.String("key", key))
			return true, err
		}
		return true, nil
	}

	if count >= limit {
		l.logger.Warn("Rate limit exceeded", zap.String("key", key), zap.Int("count", count), zap.Int("limit", limit))
		return false, nil
	}

	if _, err := l.client.Incr(ctx, redisKey).Result(); err != nil {
		l.logger.Error("Failed to increment rate limit count", zap.Error(err), zap.String("key", key))
		return true, err
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil {
		l.logger.Error("Failed to get TTL", zap.Error(err), zap.String("key", key))
	}
	if ttl < 0 {
		if err := l.client.Expire(ctx, redisKey, period).Err(); err != nil {
			l.logger.Error("Failed to set expiration", zap.Error(err), zap.String("key", key))
		}
	}

	return true, nil
}

// AllowVerification reports whether another verification email may be
// issued for the address.
func (l *Limiter) AllowVerification(ctx context.Context, email string) (bool, error) {
	return l.Allow(ctx, fmt.Sprintf("verify:%s", email), l.config.Limit, l.config.Period)
}

// Reset clears the counter for a key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, fmt.Sprintf("rate:%s", key)).Err()
}
