package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// GetToken returns a cached gateway access token. A miss or a Redis failure
// both report false so callers fall back to requesting a fresh token.
func (r *RedisService) GetToken(ctx context.Context, key string) (string, bool) {
	token, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return token, token != ""
}

func (r *RedisService) SetToken(ctx context.Context, key, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, key, token, ttl).Err()
}

// IsMiss reports whether err is a plain cache miss.
func IsMiss(err error) bool {
	return errors.Is(err, goredis.Nil)
}
