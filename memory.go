package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
)

// entry is a cache entry, immutable once stored.
type entry[T any] struct {
	val     []T
	created time.Time
	exp     time.Time
}

// Config controls cache instance.
type Config struct {
	// Logger is an instance of contextualized logger, can be nil.
	Logger ctxd.Logger

	// Stats is metrics collector, can be nil.
	Stats stats.Tracker

	// Name is cache instance name, used in stats and logging.
	Name string

	// TimeToLive is delay before entry expiration, default 30s.
	//
	// Applied when the caller does not pass an explicit TTL.
	TimeToLive time.Duration

	// Capacity is the maximum number of entries, default 1000.
	Capacity int

	// EvictBatch is the number of oldest entries removed when Capacity is
	// reached, default 100, never more than Capacity.
	EvictBatch int

	// SweepInterval is delay between two background cleanups, default 30s.
	SweepInterval time.Duration
}

// Cache is a bounded in-memory cache of value snapshots with TTL expiration.
//
// A single write lock covers the entry map and the size counter, so
// Stats().Size always equals the number of stored entries between operations.
// Please use New to create an instance.
type Cache[T any] struct {
	mu   sync.RWMutex
	data map[string]entry[T]
	size int

	lastSweep time.Time

	startOnce sync.Once
	stopOnce  sync.Once
	closed    chan struct{}
	done      chan struct{}

	config Config
	log    ctxd.Logger
	stat   stats.Tracker
}

// New creates a cache instance with optional configuration.
//
// The background sweeper is not running until Start is called.
func New[T any](cfg ...Config) *Cache[T] {
	config := Config{}

	if len(cfg) >= 1 {
		config = cfg[0]
	}

	if config.TimeToLive == 0 {
		config.TimeToLive = 30 * time.Second
	}

	if config.Capacity == 0 {
		config.Capacity = 1000
	}

	if config.EvictBatch == 0 {
		config.EvictBatch = 100
	}

	if config.EvictBatch > config.Capacity {
		config.EvictBatch = config.Capacity
	}

	if config.SweepInterval == 0 {
		config.SweepInterval = 30 * time.Second
	}

	return &Cache[T]{
		data:   make(map[string]entry[T]),
		config: config,
		log:    config.Logger,
		stat:   config.Stats,
		closed: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

var (
	_ ReadWriter[int] = &Cache[int]{}
	_ Invalidatable   = &Cache[int]{}
)

// Put stores a snapshot of values under key with default TTL.
func (c *Cache[T]) Put(ctx context.Context, key string, values []T) error {
	return c.PutWithTTL(ctx, key, values, c.config.TimeToLive)
}

// PutWithTTL stores a snapshot of values under key.
//
// An existing entry under the same key is replaced without affecting size.
// When the cache is full, a batch of oldest entries is evicted first.
//
// Non-positive ttl is not an error, the entry is stored already expired and
// misses on the next lookup.
func (c *Cache[T]) PutWithTTL(ctx context.Context, key string, values []T, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}

	// Copy values to allow mutations of original argument.
	snapshot := make([]T, len(values))
	copy(snapshot, values)

	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.size >= c.config.Capacity {
		c.evictOldest(ctx)
	}

	_, existed := c.data[key]
	c.data[key] = entry[T]{val: snapshot, created: now, exp: now.Add(ttl)}

	if !existed {
		c.size++
	}

	if c.log != nil {
		c.log.Debug(ctx, "wrote to cache",
			"name", c.config.Name,
			"key", key,
			"count", len(snapshot),
			"ttl", ttl,
		)
	}

	if c.stat != nil {
		c.stat.Add(ctx, MetricWrite, 1, "name", c.config.Name)
	}

	return nil
}

// Get returns a copy of the snapshot stored under key.
//
// Misses are reported with ErrNotFound. An expired entry is removed and
// reported as a miss. TTL is not renewed on read.
func (c *Cache[T]) Get(ctx context.Context, key string) ([]T, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	if SkipRead(ctx) {
		return nil, ErrNotFound
	}

	c.mu.RLock()
	cacheEntry, found := c.data[key]
	c.mu.RUnlock()

	if !found {
		if c.log != nil {
			c.log.Debug(ctx, "cache miss", "name", c.config.Name, "key", key)
		}

		if c.stat != nil {
			c.stat.Add(ctx, MetricMiss, 1, "name", c.config.Name)
		}

		return nil, ErrNotFound
	}

	if cacheEntry.exp.Before(time.Now()) {
		c.removeExpired(key)

		if c.log != nil {
			c.log.Debug(ctx, "cache key expired", "name", c.config.Name, "key", key)
		}

		if c.stat != nil {
			c.stat.Add(ctx, MetricExpired, 1, "name", c.config.Name)
		}

		return nil, ErrNotFound
	}

	if c.log != nil {
		c.log.Debug(ctx, "cache hit", "name", c.config.Name, "key", key)
	}

	if c.stat != nil {
		c.stat.Add(ctx, MetricHit, 1, "name", c.config.Name)
	}

	values := make([]T, len(cacheEntry.val))
	copy(values, cacheEntry.val)

	return values, nil
}

// removeExpired joins the write lock domain to keep size exact.
//
// The entry is re-checked under the lock, a fresh value stored concurrently
// under the same key survives.
func (c *Cache[T]) removeExpired(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cacheEntry, found := c.data[key]
	if !found || !cacheEntry.exp.Before(time.Now()) {
		return
	}

	delete(c.data, key)
	c.size--
}

// Evict removes the entry under key, no-op if absent.
func (c *Cache[T]) Evict(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, found := c.data[key]; !found {
		return
	}

	delete(c.data, key)
	c.size--

	if c.log != nil {
		c.log.Debug(ctx, "deleted cache entry", "name", c.config.Name, "key", key)
	}

	if c.stat != nil {
		c.stat.Add(ctx, MetricDelete, 1, "name", c.config.Name)
	}
}

// Clear removes all entries regardless of TTL state.
func (c *Cache[T]) Clear(ctx context.Context) {
	start := time.Now()

	c.mu.Lock()
	cnt := c.size
	c.data = make(map[string]entry[T])
	c.size = 0
	c.mu.Unlock()

	if c.log != nil {
		c.log.Important(ctx, "cleared cache",
			"name", c.config.Name,
			"count", cnt,
			"elapsed", time.Since(start).String(),
		)
	}

	if c.stat != nil {
		c.stat.Add(ctx, MetricDelete, float64(cnt), "name", c.config.Name)
	}
}

// Stats returns a snapshot of cache state, it does not wait for a sweep in
// progress.
func (c *Cache[T]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Size:       c.size,
		Capacity:   c.config.Capacity,
		DefaultTTL: c.config.TimeToLive,
		LastSweep:  c.lastSweep,
	}
}

// Len returns number of elements in cache.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.size
}
