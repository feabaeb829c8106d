package report

import (
	"fmt"
	"slices"
	"sync"

	"github.com/couchcryptid/solar-sizing-service/internal/sizing"
)

// siteSizing is the temperature-dependent part of a SiteSizing. It is keyed
// by panel count and temperature, not by site name, so sites that share a
// record high share an entry.
type siteSizing struct {
	maxTemperatureF float64
	deratingFactor  float64
	results         []sizing.WireSizingResult
	notices         []sizing.NonCompliance
}

func (s siteSizing) forSite(site Site) SiteSizing {
	results := slices.Clone(s.results)
	return SiteSizing{
		Name:            site.Name,
		TemperatureF:    site.TemperatureF,
		MaxTemperatureF: s.maxTemperatureF,
		DeratingFactor:  s.deratingFactor,
		NonCompliant:    countNonCompliant(results),
		Results:         results,
	}
}

func cacheKey(panelCount int, temperatureF float64) string {
	return fmt.Sprintf("%d|%g", panelCount, temperatureF)
}

// lruCache is a simple thread-safe LRU cache for per-site sizing series.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value siteSizing
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (siteSizing, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return siteSizing{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value siteSizing) {
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
