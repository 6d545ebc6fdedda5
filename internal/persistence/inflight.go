package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const inFlightKeyPrefix = "leads:inflight:"

// InFlightGuard marks a form instance busy in Redis while its insert runs. The TTL bounds
// how long a lost release can block the instance.
type InFlightGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewInFlightGuard(client *redis.Client, ttl time.Duration) *InFlightGuard {
	return &InFlightGuard{client: client, ttl: ttl}
}

// Acquire reports false when the key is already held.
func (g *InFlightGuard) Acquire(ctx context.Context, key string) (bool, error) {
	return g.client.SetNX(ctx, inFlightKeyPrefix+key, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
}

func (g *InFlightGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, inFlightKeyPrefix+key).Err()
}
