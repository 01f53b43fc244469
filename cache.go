package stackcraft

import (
	"sync"
	"time"

	"github.com/stackcraft/stackcraft/content"
)

// ContentCache holds the current content registry. With a loader it
// reloads after ttl or Invalidate; without one it serves the initial
// registry forever.
type ContentCache struct {
	mu      sync.RWMutex
	reg     *content.Registry
	fetched time.Time
	stale   bool
	ttl     time.Duration
	load    func() (*content.Registry, error)
}

// NewContentCache creates a cache seeded with reg.
func NewContentCache(reg *content.Registry, load func() (*content.Registry, error), ttl time.Duration) *ContentCache {
	return &ContentCache{reg: reg, load: load, ttl: ttl, fetched: time.Now(), stale: reg == nil}
}

func (c *ContentCache) valid() bool {
	if c.load == nil {
		return c.reg != nil
	}
	if c.stale || c.reg == nil {
		return false
	}
	return c.ttl == 0 || time.Since(c.fetched) < c.ttl
}

// Invalidate marks the registry stale so the next read reloads it.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}

// Registry returns the cached registry, reloading it first when stale.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *ContentCache) Registry() (*content.Registry, error) {
	c.mu.RLock()
	if c.valid() {
		reg := c.reg
		c.mu.RUnlock()
		return reg, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.reg, nil
	}
	if c.load == nil {
		return nil, errNoContent
	}
	reg, err := c.load()
	if err != nil {
		return nil, err
	}
	c.reg = reg
	c.fetched = time.Now()
	c.stale = false
	return reg, nil
}

// Routes returns the route manifest of the current registry.
func (c *ContentCache) Routes() ([]content.Route, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	return reg.Routes, nil
}

// Posts returns the posts of the current registry in editorial order.
func (c *ContentCache) Posts() ([]content.Post, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	return reg.Posts, nil
}
