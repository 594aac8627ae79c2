package predict

import (
	"sync"

	"edgehound/internal/market"
)

// Key identifies one cached prediction.
type Key struct {
	Question string
	Category market.Category
}

// Cache memoizes predictions for the lifetime of the process. There is no
// expiry: within one run a repeated question must return the identical
// result without recomputation. Concurrent writers for the same key are
// last-writer-wins; at most one result is ever retained per key.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]Prediction
}

func NewCache() *Cache {
	return &Cache{entries: make(map[Key]Prediction)}
}

func (c *Cache) Get(k Key) (Prediction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.entries[k]
	return p, ok
}

func (c *Cache) Put(k Key, p Prediction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[k] = p
}

// Len returns the number of cached predictions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
