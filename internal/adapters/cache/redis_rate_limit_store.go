package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

// RedisRateLimitStore shares fixed-window counters across instances.
// The window starts at the first hit, when the key gets its expiry.
type RedisRateLimitStore struct {
	client *redis.Client
}

func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client}
}

func (s *RedisRateLimitStore) Hit(ctx context.Context, key string, window time.Duration, now time.Time) (ports.WindowHit, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return ports.WindowHit{}, err
	}
	if count == 1 {
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return ports.WindowHit{}, err
		}
		return ports.WindowHit{Count: 1, ResetAt: now.Add(window)}, nil
	}

	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return ports.WindowHit{}, err
	}
	if ttl <= 0 {
		// Key lost its expiry; restart the window.
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return ports.WindowHit{}, err
		}
		ttl = window
	}
	return ports.WindowHit{Count: int(count), ResetAt: now.Add(ttl)}, nil
}

var _ ports.RateLimitStore = (*RedisRateLimitStore)(nil)
