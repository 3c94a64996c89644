package listing

import (
	"context"
	"sync"
	"time"

	"qr-registry/core/reconcile"

	"golang.org/x/sync/singleflight"
)

// Loader fetches the full record set for a refresh.
type Loader func(ctx context.Context) ([]reconcile.Record, error)

// Cache holds the ordered, id-keyed set of records shown to the user.
// Every operation is atomic with respect to the entry set.
type Cache struct {
	mu        sync.RWMutex
	order     []string
	entries   map[string]reconcile.Record
	refreshed time.Time
	sf        singleflight.Group
}

// New creates an empty listing cache.
func New() *Cache {
	return &Cache{entries: make(map[string]reconcile.Record)}
}

// ReplaceAll replaces the entire entry set, keeping the given order.
// Later duplicates of an id replace earlier ones in place.
func (c *Cache) ReplaceAll(records []reconcile.Record) {
	order := make([]string, 0, len(records))
	entries := make(map[string]reconcile.Record, len(records))
	for _, r := range records {
		if _, exists := entries[r.ID]; !exists {
			order = append(order, r.ID)
		}
		entries[r.ID] = r
	}

	c.mu.Lock()
	c.order = order
	c.entries = entries
	c.refreshed = time.Now()
	c.mu.Unlock()
}

// Upsert inserts a record or replaces the entry with the same id in place.
// New ids are appended.
func (c *Cache) Upsert(record reconcile.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[record.ID]; !exists {
		c.order = append(c.order, record.ID)
	}
	c.entries[record.ID] = record
}

// Remove drops the entries with the given ids. Unknown ids are ignored.
func (c *Cache) Remove(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, exists := c.entries[id]; exists {
			drop[id] = struct{}{}
			delete(c.entries, id)
		}
	}
	if len(drop) == 0 {
		return
	}

	kept := c.order[:0]
	for _, id := range c.order {
		if _, gone := drop[id]; !gone {
			kept = append(kept, id)
		}
	}
	c.order = kept
}

// All returns a copy of the entries in display order.
func (c *Cache) All() []reconcile.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]reconcile.Record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id])
	}
	return out
}

// Get returns the entry with the given id.
func (c *Cache) Get(id string) (reconcile.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.entries[id]
	return r, ok
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Refreshed returns the time of the last ReplaceAll, zero if never refreshed.
func (c *Cache) Refreshed() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshed
}

// Refresh reloads the entry set through load. Concurrent refreshes share a
// single load. On error the current entries are kept.
func (c *Cache) Refresh(ctx context.Context, load Loader) ([]reconcile.Record, error) {
	_, err, _ := c.sf.Do("refresh", func() (any, error) {
		records, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.ReplaceAll(records)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return c.All(), nil
}
