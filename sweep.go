package cache

import (
	"context"
	"time"
)

// Start launches the background sweeper that periodically removes expired
// entries. Repeated calls have no effect.
//
// Start is to be invoked by whatever owns the cache lifetime, together with a
// matching Stop on teardown.
func (c *Cache[T]) Start() {
	c.startOnce.Do(func() {
		go c.sweeper()

		if c.log != nil {
			c.log.Important(context.Background(), "cache sweeper started",
				"name", c.config.Name,
				"interval", c.config.SweepInterval.String(),
			)
		}
	})
}

// Stop cancels the periodic sweep and waits for the sweeper to exit.
//
// No sweep runs after Stop returns, a tick already in progress completes its
// full scan-and-remove pass first. Repeated calls have no effect. Store
// operations remain usable after Stop.
func (c *Cache[T]) Stop() {
	c.stopOnce.Do(func() {
		close(c.closed)
	})

	c.startOnce.Do(func() {
		// Never started, nothing to wait for.
		close(c.done)
	})

	<-c.done
}

func (c *Cache[T]) sweeper() {
	defer close(c.done)

	ticker := time.NewTicker(c.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.closed:
			return
		}
	}
}

// sweep removes every expired entry in a single pass.
//
// Candidates are collected under the read lock, removal re-checks expiry
// under the write lock so that a fresh replacement stored in between is kept.
func (c *Cache[T]) sweep() {
	start := time.Now()
	keys := make([]string, 0, 100)

	c.mu.RLock()
	for k, e := range c.data {
		if e.exp.Before(start) {
			keys = append(keys, k)
		}
	}
	c.mu.RUnlock()

	removed := 0

	c.mu.Lock()
	for _, k := range keys {
		if e, found := c.data[k]; found && e.exp.Before(start) {
			delete(c.data, k)
			c.size--
			removed++
		}
	}

	c.lastSweep = time.Now()
	count := c.size
	c.mu.Unlock()

	if c.log != nil {
		c.log.Important(context.Background(), "cleared expired cache entries",
			"name", c.config.Name,
			"removed", removed,
			"elapsed", time.Since(start).String(),
		)
	}

	if c.stat != nil {
		c.stat.Add(context.Background(), MetricExpired, float64(removed), "name", c.config.Name)
		c.stat.Set(context.Background(), MetricItems, float64(count), "name", c.config.Name)
	}
}
