package common

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache is a TTL store for short-lived per-process state such as rate limiter buckets.
type Cache struct {
	c *cache.Cache
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{c: cache.New(expirationTime, cleanupTime)}
}

// Set stores value under key. The default expiration applies unless one is given.
func (c *Cache) Set(key string, value any, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.c.Set(key, value, expiration[0])
		return
	}
	c.c.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (any, bool) {
	return c.c.Get(key)
}

// Touch resets the expiration of an existing key.
func (c *Cache) Touch(key string) bool {
	v, ok := c.c.Get(key)
	if !ok {
		return false
	}
	c.c.Set(key, v, cache.DefaultExpiration)
	return true
}

func (c *Cache) Len() int {
	return c.c.ItemCount()
}

func (c *Cache) Flush() {
	c.c.Flush()
}

func CacheKeyClient(ip string) string {
	return "client:" + ip
}
