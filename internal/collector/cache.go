package collector

import (
	"sync"
	"time"
)

// DefaultSizeCacheTTL bounds how long a directory measurement is reused.
// Walking an app tree is the slowest thing the collector does.
const DefaultSizeCacheTTL = 30 * time.Second

// SizeEntry is a cached directory measurement.
type SizeEntry struct {
	Size  uint64
	MTime time.Time
	taken time.Time
}

// SizeCache holds directory sizes keyed by path.
type SizeCache struct {
	ttl     time.Duration
	entries map[string]SizeEntry
	now     func() time.Time

	mutex sync.RWMutex
}

func NewSizeCache(ttl time.Duration) *SizeCache {
	if ttl <= 0 {
		ttl = DefaultSizeCacheTTL
	}
	return &SizeCache{
		ttl:     ttl,
		entries: make(map[string]SizeEntry),
		now:     time.Now,
	}
}

// Get returns the entry for path if it is younger than the TTL.
func (c *SizeCache) Get(path string) (SizeEntry, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[path]
	if !ok || c.now().Sub(entry.taken) >= c.ttl {
		return SizeEntry{}, false
	}
	return entry, true
}

func (c *SizeCache) Set(path string, size uint64, mtime time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[path] = SizeEntry{Size: size, MTime: mtime, taken: c.now()}
}

func (c *SizeCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

func (c *SizeCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries = make(map[string]SizeEntry)
}
