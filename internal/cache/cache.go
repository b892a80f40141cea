// Package cache memoizes rendered content keyed by resolved absolute path.
// Entries live for a fixed TTL and are reaped by a periodic sweep or lazily
// on access, whichever fires first.
package cache

import (
	"sync"
	"time"

	"github.com/Paintersrp/scribe/internal/render"
)

const (
	DefaultTTL           = 10 * time.Minute
	DefaultSweepInterval = 2 * time.Minute
)

// Entry holds one memoized render alongside the file metadata captured at
// render time.
type Entry struct {
	HTML     string
	Raw      []byte
	FileType string
	Outline  []render.Heading
	ModTime  time.Time
	Size     int64
}

type item struct {
	entry   Entry
	expires time.Time
}

// RenderCache is a TTL-bounded map of resolved paths to rendered entries.
// It is owned by the content service and torn down with it; nothing here is
// package-global state.
type RenderCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	items     map[string]item
	now       func() time.Time
	done      chan struct{}
	closeOnce sync.Once
}

// New constructs a cache with the given entry TTL and sweep interval.
// Non-positive arguments fall back to the defaults; a negative sweep
// disables the background sweeper (useful in tests).
func New(ttl, sweepInterval time.Duration) *RenderCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepInterval == 0 {
		sweepInterval = DefaultSweepInterval
	}

	c := &RenderCache{
		ttl:   ttl,
		items: make(map[string]item),
		now:   time.Now,
		done:  make(chan struct{}),
	}

	if sweepInterval > 0 {
		go c.sweepLoop(sweepInterval)
	}
	return c
}

// Get returns the cached entry for path. Expired entries are evicted on
// access and reported as a miss.
func (c *RenderCache) Get(path string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[path]
	if !ok {
		return Entry{}, false
	}
	if c.now().After(it.expires) {
		delete(c.items, path)
		return Entry{}, false
	}
	return it.entry, true
}

// Put stores an entry for path with a fresh TTL.
func (c *RenderCache) Put(path string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[path] = item{entry: entry, expires: c.now().Add(c.ttl)}
}

// Invalidate drops the entry for path, if present.
func (c *RenderCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, path)
}

// InvalidateAll clears the cache. Used after bulk content operations.
func (c *RenderCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]item)
}

// Len reports the number of resident entries, expired or not.
func (c *RenderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// Close stops the background sweeper. Safe to call more than once.
func (c *RenderCache) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func (c *RenderCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *RenderCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for path, it := range c.items {
		if now.After(it.expires) {
			delete(c.items, path)
		}
	}
}
