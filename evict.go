package cache

import (
	"context"
	"sort"
	"time"
)

// evictOldest unconditionally removes up to EvictBatch entries with the
// smallest creation time, expired or not. Reads never affect the order.
//
// Caller must hold the write lock.
func (c *Cache[T]) evictOldest(ctx context.Context) {
	type candidate struct {
		key     string
		created time.Time
	}

	candidates := make([]candidate, 0, len(c.data))

	for k, e := range c.data {
		candidates = append(candidates, candidate{key: k, created: e.created})
	}

	// Oldest first, equal timestamps ordered by key for determinism.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].created.Equal(candidates[j].created) {
			return candidates[i].key < candidates[j].key
		}

		return candidates[i].created.Before(candidates[j].created)
	})

	batch := c.config.EvictBatch
	if batch > len(candidates) {
		batch = len(candidates)
	}

	for i := 0; i < batch; i++ {
		delete(c.data, candidates[i].key)
		c.size--
	}

	if c.log != nil {
		c.log.Debug(ctx, "evicted oldest cache entries",
			"name", c.config.Name,
			"count", batch,
		)
	}

	if c.stat != nil {
		c.stat.Add(ctx, MetricEvict, float64(batch), "name", c.config.Name)
	}
}
