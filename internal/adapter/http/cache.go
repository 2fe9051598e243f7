package http

import (
	"sort"
	"strings"
	"sync"

	"github.com/couchcryptid/covid-data-etl-service/internal/domain"
	"github.com/couchcryptid/covid-data-etl-service/internal/observability"
)

// chartKey identifies a projection. Entries from an older run are never hit
// again and age out of the LRU.
type chartKey struct {
	runID  string
	mode   domain.Mode
	hidden string
	since  string
}

func newChartKey(runID string, opts domain.ProjectOptions) chartKey {
	ids := make([]string, 0, len(opts.Hidden))
	for id, hidden := range opts.Hidden {
		if hidden {
			ids = append(ids, string(id))
		}
	}
	sort.Strings(ids)
	return chartKey{runID: runID, mode: opts.Mode, hidden: strings.Join(ids, ","), since: opts.DateFloor}
}

// ProjectionCache memoizes chart projections of the latest dataset in an
// in-memory LRU. It is safe for concurrent use.
type ProjectionCache struct {
	cache   *lruCache
	metrics *observability.Metrics
}

// NewProjectionCache creates a cache holding at most maxEntries charts.
func NewProjectionCache(maxEntries int, metrics *observability.Metrics) *ProjectionCache {
	return &ProjectionCache{
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// Project returns the cached chart for (dataset run, options) or computes it.
// Callers must treat the returned chart as read-only.
func (c *ProjectionCache) Project(d *domain.Dataset, opts domain.ProjectOptions) domain.Chart {
	key := newChartKey(d.RunID, opts)
	if chart, ok := c.cache.get(key); ok {
		c.metrics.ProjectionCache.WithLabelValues("hit").Inc()
		return chart
	}
	c.metrics.ProjectionCache.WithLabelValues("miss").Inc()
	chart := domain.Project(d, opts)
	c.cache.put(key, chart)
	return chart
}

// Len reports the number of cached charts.
func (c *ProjectionCache) Len() int {
	return c.cache.len()
}

// lruCache is a simple thread-safe LRU cache for chart projections.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[chartKey]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   chartKey
	value domain.Chart
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[chartKey]*entry),
	}
}

func (c *lruCache) get(key chartKey) (domain.Chart, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.Chart{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key chartKey, value domain.Chart) {
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

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
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
