package user

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// tokenCache is an in-memory LRU mapping bearer tokens to user IDs.
// Only the mapping is cached, never balances or inventory, so a hit is
// always followed by a fresh user read and stale economic state is
// impossible. Entries expire on TTL and are invalidated on token rotation.
type tokenCache struct {
	lru *expirable.LRU[string, string]
}

func newTokenCache(size int, ttl time.Duration) *tokenCache {
	return &tokenCache{
		lru: expirable.NewLRU[string, string](size, nil, ttl),
	}
}

func (c *tokenCache) Get(token string) (string, bool) {
	return c.lru.Get(token)
}

func (c *tokenCache) Set(token, userID string) {
	c.lru.Add(token, userID)
}

func (c *tokenCache) Invalidate(token string) {
	c.lru.Remove(token)
}
