package cache

import (
	"sync"

	"github.com/example/shop-fulfiller/internal/domain"
)

type MemorySessionCache struct {
	mu    sync.RWMutex
	store map[string]domain.ShopSession
}

func NewMemorySessionCache() *MemorySessionCache {
	return &MemorySessionCache{store: make(map[string]domain.ShopSession)}
}

func (c *MemorySessionCache) Get(shop string) (domain.ShopSession, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.store[shop]
	return s, ok
}

func (c *MemorySessionCache) Set(shop string, s domain.ShopSession) {
	c.mu.Lock()
	c.store[shop] = s
	c.mu.Unlock()
}

func (c *MemorySessionCache) Delete(shop string) {
	c.mu.Lock()
	delete(c.store, shop)
	c.mu.Unlock()
}

// AccessToken — токен Admin API для магазина, если приложение там установлено.
func (c *MemorySessionCache) AccessToken(shop string) (string, bool) {
	s, ok := c.Get(shop)
	if !ok || s.AccessToken == "" {
		return "", false
	}
	return s.AccessToken, true
}

var _ domain.SessionCache = (*MemorySessionCache)(nil)
