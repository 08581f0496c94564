// Package cartcache caches derived cart summaries per customer. The cache is
// advisory: mutation paths always go to the store and invalidate the entry,
// and stale entries expire on read.
package cartcache

import (
	"sync"
	"time"

	"pva-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type entry struct {
	summary  model.CartSummary
	loadedAt time.Time
}

// Cache is a bounded, TTL-expiring cart summary cache keyed by customer id.
type Cache struct {
	mu         sync.Mutex
	entries    map[uuid.UUID]entry
	maxEntries int
	ttl        time.Duration
	logger     zerolog.Logger

	// Injected for deterministic tests.
	now func() time.Time
}

// New creates a cart cache holding at most maxEntries summaries, each valid
// for ttl after load.
func New(maxEntries int, ttl time.Duration, logger zerolog.Logger) *Cache {
	return &Cache{
		entries:    make(map[uuid.UUID]entry, maxEntries),
		maxEntries: maxEntries,
		ttl:        ttl,
		logger:     logger.With().Str("component", "cart-cache").Logger(),
		now:        time.Now,
	}
}

// Get returns the cached summary for the customer if present and fresh.
func (c *Cache) Get(customerID uuid.UUID) (model.CartSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[customerID]
	if !ok {
		return model.CartSummary{}, false
	}

	if c.now().Sub(e.loadedAt) > c.ttl {
		delete(c.entries, customerID)
		return model.CartSummary{}, false
	}

	return e.summary, true
}

// Set stores a freshly loaded summary for the customer, evicting the oldest
// entry when the cache is full.
func (c *Cache) Set(customerID uuid.UUID, summary model.CartSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[customerID]; !ok && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}

	c.entries[customerID] = entry{summary: summary, loadedAt: c.now()}
}

// Invalidate drops the customer's entry. Called on every cart mutation and on
// order conversion.
func (c *Cache) Invalidate(customerID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, customerID)
}

// Len returns the number of cached summaries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *Cache) evictOldestLocked() {
	var oldestID uuid.UUID
	var oldestAt time.Time
	first := true

	for id, e := range c.entries {
		if first || e.loadedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = e.loadedAt
			first = false
		}
	}

	if !first {
		delete(c.entries, oldestID)
		c.logger.Debug().Str("customer_id", oldestID.String()).Msg("evicted cart cache entry")
	}
}
