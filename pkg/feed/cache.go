package feed

import (
	"sync"

	"github.com/umputun/aspirant/pkg/domain"
)

// Cache maps category to the ordered list of items currently materialized for it.
// It is session-lifetime and unbounded, the engine is its only writer.
type Cache struct {
	mu      sync.RWMutex
	entries map[domain.Category][]domain.NewsItem
}

// NewCache makes an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[domain.Category][]domain.NewsItem)}
}

// Get returns a copy of the list for category and whether the entry exists
func (c *Cache) Get(category domain.Category) ([]domain.NewsItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items, ok := c.entries[category]
	return domain.CloneItems(items), ok
}

// Set replaces the list for category
func (c *Cache) Set(category domain.Category, items []domain.NewsItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if items == nil {
		items = []domain.NewsItem{}
	}
	c.entries[category] = domain.CloneItems(items)
}

// Clear drops all entries
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[domain.Category][]domain.NewsItem)
}

// ClearCategory drops a single entry
func (c *Cache) ClearCategory(category domain.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, category)
}

// Len returns the number of categories with an entry
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Count returns the number of items cached for category
func (c *Cache) Count(category domain.Category) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries[category])
}
