package sentinel

import (
	"context"
	"fmt"
	"sync"

	"github.com/RanaDarpan/agrisense-analysis/internal/domain"
	"github.com/RanaDarpan/agrisense-analysis/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// CachedProvider wraps a BandProvider with an in-memory LRU cache.
// Satellite reflectance changes on the order of days, so repeated
// requests for the same field within one process lifetime can safely
// share a reading.
type CachedProvider struct {
	inner   domain.BandProvider
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a band provider.
func NewCachedProvider(inner domain.BandProvider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedProvider) FetchBands(ctx context.Context, bounds domain.BoundingBox) (domain.BandReading, error) {
	key := cacheKey(bounds)
	if reading, ok := c.cache.get(key); ok {
		c.countLookup("hit")
		return reading, nil
	}
	c.countLookup("miss")

	reading, err := c.inner.FetchBands(ctx, bounds)
	if err != nil {
		return reading, err
	}
	// Only cache real samples so an empty upstream response can be retried.
	if !reading.Sample.IsEmpty() {
		c.cache.put(key, reading)
	}
	return reading, nil
}

// cacheKey rounds coordinates to 4 decimal places (roughly 11 m), so
// jittered polygons for the same field still share a cache entry.
func cacheKey(bounds domain.BoundingBox) string {
	return fmt.Sprintf("%.4f,%.4f,%.4f,%.4f", bounds.MinLat, bounds.MinLon, bounds.MaxLat, bounds.MaxLon)
}

func (c *CachedProvider) countLookup(result string) {
	if c.metrics == nil {
		return
	}
	c.metrics.BandCache.With(prometheus.Labels{"result": result}).Inc()
}

// lruCache is a simple thread-safe LRU cache for band readings.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.BandReading
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.BandReading, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.BandReading{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.BandReading) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
