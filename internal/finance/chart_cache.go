package finance

import (
	"sync"
	"time"
)

// imageCache holds rendered chart images for a short time.
type imageCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]chartCacheEntry
	now     func() time.Time
}

func newImageCache(ttl time.Duration) *imageCache {
	if ttl <= 0 {
		ttl = defaultChartCacheTTL
	}
	return &imageCache{ttl: ttl, entries: map[string]chartCacheEntry{}, now: time.Now}
}

func (c *imageCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		if c.now().Before(entry.createdAt.Add(c.ttl)) {
			img := make([]byte, len(entry.image))
			copy(img, entry.image)
			return img, true
		}
		delete(c.entries, key)
	}
	return nil, false
}

func (c *imageCache) set(key string, img []byte) {
	c.mu.Lock()
	c.entries[key] = chartCacheEntry{createdAt: c.now(), image: append([]byte(nil), img...)}
	c.mu.Unlock()
}
