package adapters

import (
	"context"
	"sort"
	"sync"
	"time"

	ports "github.com/longlodw/news/news/core/ports"
)

// MemoryCacheStore implements ContextCacheStore in process memory. Used by
// tests and ephemeral configurations that don't need a partition database.
type MemoryCacheStore struct {
	mu    sync.RWMutex
	items map[string]*memoryCacheItem
	seq   uint64
}

type memoryCacheItem struct {
	value     string
	createdAt time.Time
	// seq breaks createdAt ties; clock resolution is too coarse for
	// back-to-back stores.
	seq uint64
}

// NewMemoryCacheStore creates an empty in-memory cache store.
func NewMemoryCacheStore() *MemoryCacheStore {
	return &MemoryCacheStore{
		items: make(map[string]*memoryCacheItem),
	}
}

// Store inserts or replaces the entry for key. A replaced entry keeps its
// new creation time, matching INSERT OR REPLACE semantics.
func (c *MemoryCacheStore) Store(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.items[key] = &memoryCacheItem{
		value:     value,
		createdAt: time.Now(),
		seq:       c.seq,
	}
	return nil
}

// Load returns the value for key, or ErrNotFound.
func (c *MemoryCacheStore) Load(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]
	if !ok {
		return "", ports.ErrNotFound
	}
	return item.value, nil
}

// LoadMany returns the limit newest entries re-ordered oldest first.
func (c *MemoryCacheStore) LoadMany(ctx context.Context, limit int) ([]ports.CacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	type keyed struct {
		key  string
		item *memoryCacheItem
	}
	all := make([]keyed, 0, len(c.items))
	for key, item := range c.items {
		all = append(all, keyed{key: key, item: item})
	}

	// Newest first, then keep the top limit.
	sort.Slice(all, func(i, j int) bool {
		return all[i].item.seq > all[j].item.seq
	})
	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}

	// Present in creation order.
	entries := make([]ports.CacheEntry, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		entries = append(entries, ports.CacheEntry{
			Key:       all[i].key,
			Value:     all[i].item.value,
			CreatedAt: all[i].item.createdAt,
		})
	}
	return entries, nil
}

// Delete removes the entry for key. Deleting a missing key is a no-op.
func (c *MemoryCacheStore) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}

// Clear removes every entry.
func (c *MemoryCacheStore) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*memoryCacheItem)
	return nil
}

// Ensure MemoryCacheStore implements the ContextCacheStore interface.
var _ ports.ContextCacheStore = (*MemoryCacheStore)(nil)
