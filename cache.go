package cache

import (
	"context"
	"time"
)

// Metric names for stats.Tracker.
const (
	MetricHit     = "cache_hit"
	MetricMiss    = "cache_miss"
	MetricExpired = "cache_expired"
	MetricWrite   = "cache_write"
	MetricDelete  = "cache_delete"
	MetricEvict   = "cache_evict"
	MetricItems   = "cache_items"
	MetricBuild   = "cache_build"
	MetricFailed  = "cache_failed"
)

// Reader reads from cache.
type Reader[T any] interface {
	// Get returns a copy of the cached snapshot.
	//
	// Absent and expired entries are reported with ErrNotFound, an expired
	// entry is removed on detection.
	Get(ctx context.Context, key string) ([]T, error)
}

// Writer writes to cache.
type Writer[T any] interface {
	// Put stores a snapshot of values under key with default TTL.
	Put(ctx context.Context, key string, values []T) error

	// PutWithTTL stores a snapshot of values under key with explicit TTL.
	PutWithTTL(ctx context.Context, key string, values []T, ttl time.Duration) error
}

// ReadWriter reads from and writes to cache.
type ReadWriter[T any] interface {
	Reader[T]
	Writer[T]
}

// Invalidatable allows explicit removal of entries by the paths that mutate
// underlying data.
type Invalidatable interface {
	// Evict removes the entry under key, no-op if absent.
	Evict(ctx context.Context, key string)

	// Clear removes all entries regardless of TTL state.
	Clear(ctx context.Context)
}

// Stats is a point-in-time snapshot of cache state.
type Stats struct {
	// Size is the current number of entries.
	Size int `json:"size"`

	// Capacity is the configured entry count bound.
	Capacity int `json:"capacity"`

	// DefaultTTL is applied to entries stored without explicit TTL.
	DefaultTTL time.Duration `json:"defaultTTL"`

	// LastSweep is the completion time of the most recent background sweep,
	// zero before the first sweep.
	LastSweep time.Time `json:"lastSweep"`
}
