package inmemory

import (
	"sync"
	"time"

	taxonomydomain "community-app-go/internal/domain/taxonomy"
)

// InMemoryTagsCache caches the global tag list with a TTL. Values are cloned
// on the way in and out so callers cannot mutate the cached slice.
type InMemoryTagsCache struct {
	mu        sync.RWMutex
	value     []taxonomydomain.Tag
	expiresAt time.Time
}

func NewInMemoryTagsCache() *InMemoryTagsCache {
	return &InMemoryTagsCache{}
}

func (c *InMemoryTagsCache) Get() ([]taxonomydomain.Tag, bool) {
	now := time.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.value == nil || !c.expiresAt.After(now) {
		return nil, false
	}
	return cloneTags(c.value), true
}

func (c *InMemoryTagsCache) Set(tags []taxonomydomain.Tag, ttl time.Duration) {
	if ttl <= 0 {
		c.Invalidate()
		return
	}

	c.mu.Lock()
	c.value = cloneTags(tags)
	c.expiresAt = time.Now().Add(ttl)
	c.mu.Unlock()
}

func (c *InMemoryTagsCache) Invalidate() {
	c.mu.Lock()
	c.value = nil
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

func cloneTags(tags []taxonomydomain.Tag) []taxonomydomain.Tag {
	if tags == nil {
		return []taxonomydomain.Tag{}
	}
	cloned := make([]taxonomydomain.Tag, len(tags))
	copy(cloned, tags)
	return cloned
}
