package quotes

import (
	"sync"
	"time"

	"github.com/vribeiro/investwatch/internal/domain"
)

const DefaultCacheTTL = 30 * time.Second

type cacheEntry struct {
	quote     domain.Quote
	fetchedAt time.Time
}

// Cache holds the most recent quote per symbol and serves it while it is
// fresh. Entries are replaced wholesale on refresh. Safe for concurrent use
// by overlapping evaluation cycles.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached quote for symbol only while the entry is fresh,
// that is strictly younger than the TTL.
func (c *Cache) Get(symbol string) (domain.Quote, bool) {
	key := domain.NormalizeSymbol(symbol)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.fetchedAt) >= c.ttl {
		return domain.Quote{}, false
	}
	return entry.quote, true
}

func (c *Cache) Put(symbol string, quote domain.Quote) {
	key := domain.NormalizeSymbol(symbol)

	c.mu.Lock()
	c.entries[key] = cacheEntry{quote: quote, fetchedAt: c.now()}
	c.mu.Unlock()
}

func (c *Cache) Invalidate(symbol string) {
	key := domain.NormalizeSymbol(symbol)

	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
