package security

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache is an in-process TTL store. It backs the gateway token cache when
// Redis is not configured.
type Cache struct {
	c *cache.Cache
}

func NewCache(defaultExpiration, cleanupInterval time.Duration) *Cache {
	return &Cache{
		c: cache.New(defaultExpiration, cleanupInterval),
	}
}

func (cm *Cache) Insert(k string, x interface{}) {
	cm.c.Set(k, x, cache.DefaultExpiration)
}

func (cm *Cache) Get(key string) (interface{}, error) {
	val, found := cm.c.Get(key)
	if found {
		return val, nil
	}

	return nil, fmt.Errorf("value not found")
}

func (cm *Cache) GetToken(_ context.Context, key string) (string, bool) {
	val, found := cm.c.Get(key)
	if !found {
		return "", false
	}
	token, ok := val.(string)
	return token, ok && token != ""
}

func (cm *Cache) SetToken(_ context.Context, key, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	cm.c.Set(key, token, ttl)
	return nil
}

func (cm *Cache) Stop() error {
	cm.c.Flush()
	return nil
}
