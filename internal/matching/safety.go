package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Limiter decides whether an actor may like again
type Limiter interface {
	Allow(ctx context.Context, actorID uuid.UUID) (bool, error)
}

// windowCounter is the subset of *redis.Client the limiter uses
type windowCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisLimiter allows at most max likes per actor in each fixed window
type RedisLimiter struct {
	counter windowCounter
	max     int64
	window  time.Duration
	now     func() time.Time
}

func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{counter: client, max: int64(max), window: window, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, actorID uuid.UUID) (bool, error) {
	bucket := l.now().UnixNano() / int64(l.window)
	key := fmt.Sprintf("likes:rate:%s:%d", actorID, bucket)

	n, err := l.counter.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.counter.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= l.max, nil
}
