package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
)

// BuildFunc queries the authoritative store on cache miss.
//
// The cache has no knowledge of the query shape, the caller closes over it.
type BuildFunc[T any] func(ctx context.Context) ([]T, error)

// ReadThroughConfig is optional configuration for NewReadThrough.
type ReadThroughConfig[T any] struct {
	// Name is added to logs and stats.
	Name string

	// Upstream is a cache instance, in-memory created by default.
	Upstream ReadWriter[T]

	// UpstreamConfig is a configuration for in-memory cache instance if
	// Upstream is not provided.
	UpstreamConfig Config

	// FailedBuildTTL is ttl of failed build cache, default 20s, -1 disables
	// errors cache.
	FailedBuildTTL time.Duration

	// Logger collects messages with context.
	Logger ctxd.Logger

	// Stats tracks stats.
	Stats stats.Tracker
}

// ReadThrough builds missing cache values without racy duplicate queries.
//
// Build is locked per key, concurrent misses of the same key wait for a
// single build instead of querying upstream storage repeatedly. Builds are
// synchronous, an expired entry is a plain miss.
//
// Please use NewReadThrough to create instance.
type ReadThrough[T any] struct {
	// Errors caches errors of failed builds.
	Errors *Cache[error]

	upstream ReadWriter[T]
	lock     sync.Mutex               // Securing keyLocks.
	keyLocks map[string]chan struct{} // Preventing build concurrency per key.
	config   ReadThroughConfig[T]
	log      ctxd.Logger
	stat     stats.Tracker
}

// NewReadThrough creates a ReadThrough cache instance.
func NewReadThrough[T any](config ReadThroughConfig[T]) *ReadThrough[T] {
	if config.FailedBuildTTL == 0 {
		config.FailedBuildTTL = 20 * time.Second
	}

	rt := &ReadThrough[T]{}
	rt.config = config

	rt.log = config.Logger
	if rt.log == nil {
		rt.log = ctxd.NoOpLogger{}
	}

	rt.stat = config.Stats
	if rt.stat == nil {
		rt.stat = stats.NoOp{}
	}

	rt.upstream = config.Upstream

	if rt.upstream == nil {
		config.UpstreamConfig.Name = config.Name
		config.UpstreamConfig.Logger = config.Logger
		config.UpstreamConfig.Stats = config.Stats
		rt.upstream = New[T](config.UpstreamConfig)
	}

	if config.FailedBuildTTL > -1 {
		rt.Errors = New[error](Config{
			Name:       "err_" + config.Name,
			Logger:     config.Logger,
			Stats:      config.Stats,
			TimeToLive: config.FailedBuildTTL,

			// Error entries are few and removed lazily on read, the errors
			// cache sweeper is not started.
			Capacity:   100,
			EvictBatch: 10,
		})
	}

	rt.keyLocks = make(map[string]chan struct{})

	return rt
}

// Upstream returns the backing cache store, e.g. for lifecycle management or
// explicit invalidation.
func (rt *ReadThrough[T]) Upstream() ReadWriter[T] {
	return rt.upstream
}

// Get returns value from cache or from build function.
func (rt *ReadThrough[T]) Get(ctx context.Context, key string, build BuildFunc[T]) ([]T, error) {
	// Checking for valid value in cache store before the critical section.
	values, err := rt.upstream.Get(ctx, key)
	if err == nil {
		return values, nil
	}

	// Locking key for build or finding active lock.
	rt.lock.Lock()

	keyLock, alreadyLocked := rt.keyLocks[key]
	if !alreadyLocked {
		keyLock = make(chan struct{})
		rt.keyLocks[key] = keyLock
	}
	rt.lock.Unlock()

	// If already locked, waiting for completion instead of building again.
	if alreadyLocked {
		return rt.waitForValue(ctx, key, keyLock)
	}

	// Releasing the lock.
	defer func() {
		rt.lock.Lock()
		delete(rt.keyLocks, key)
		close(keyLock)
		rt.lock.Unlock()
	}()

	// Repeating the check in the critical section, a concurrent build may
	// have finished between the miss and the lock acquisition.
	values, err = rt.upstream.Get(ctx, key)
	if err == nil {
		return values, nil
	}

	// Check if build failed recently.
	if err := rt.recentlyFailed(ctx, key); err != nil {
		return nil, err
	}

	return rt.doBuild(ctx, key, build)
}

func (rt *ReadThrough[T]) waitForValue(ctx context.Context, key string, keyLock chan struct{}) ([]T, error) {
	rt.log.Debug(ctx, "waiting for cache value", "name", rt.config.Name, "key", key)

	// Waiting for value built by keyLock owner.
	<-keyLock

	values, err := rt.upstream.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		// Check if build failed recently.
		if err := rt.recentlyFailed(ctx, key); err != nil {
			return nil, err
		}
	}

	return values, err
}

func (rt *ReadThrough[T]) doBuild(ctx context.Context, key string, build BuildFunc[T]) ([]T, error) {
	defer func() {
		rt.stat.Add(ctx, MetricBuild, 1, "name", rt.config.Name)
	}()
	rt.log.Debug(ctx, "building cache value", "name", rt.config.Name, "key", key)

	values, err := build(ctx)
	if err != nil {
		rt.stat.Add(ctx, MetricFailed, 1, "name", rt.config.Name)

		if rt.config.FailedBuildTTL > -1 {
			writeErr := rt.Errors.Put(ctx, key, []error{err})
			if writeErr != nil {
				rt.log.Error(ctx, "failed to cache build failure",
					"error", writeErr,
					"buildErr", err,
					"key", key,
					"name", rt.config.Name)
			}
		}

		return nil, err
	}

	writeErr := rt.upstream.Put(ctx, key, values)
	if writeErr != nil {
		return nil, ctxd.WrapError(ctx, writeErr, "failed to store built cache value")
	}

	return values, nil
}

func (rt *ReadThrough[T]) recentlyFailed(ctx context.Context, key string) error {
	if rt.config.FailedBuildTTL > -1 {
		errVal, err := rt.Errors.Get(ctx, key)
		if err == nil && len(errVal) == 1 {
			return errVal[0]
		}
	}

	return nil
}
