package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_evictOldest(t *testing.T) {
	c := New[int](Config{Capacity: 1000, EvictBatch: 100})

	base := time.Now()
	exp := base.Add(time.Hour)

	// Filling cache with entries of increasing age rank.
	for i := 0; i < 1000; i++ {
		c.data[strconv.Itoa(i)] = entry[int]{
			val:     []int{i},
			created: base.Add(time.Duration(i) * time.Second),
			exp:     exp,
		}
		c.size++
	}

	// Keys 0-99 are the oldest batch, keys 100-999 should remain.
	c.mu.Lock()
	c.evictOldest(context.Background())
	c.mu.Unlock()

	assert.Len(t, c.data, 900)
	assert.Equal(t, 900, c.size)

	for i := 0; i < 100; i++ {
		_, err := c.Get(context.Background(), strconv.Itoa(i))
		assert.EqualError(t, err, ErrNotFound.Error())
	}

	for i := 100; i < 1000; i++ {
		_, err := c.Get(context.Background(), strconv.Itoa(i))
		assert.NoError(t, err)
	}
}

func TestCache_evictOldest_tieBreak(t *testing.T) {
	c := New[int](Config{Capacity: 3, EvictBatch: 2})

	created := time.Now()
	exp := created.Add(time.Hour)

	// Identical creation times, order falls back to key comparison.
	for _, k := range []string{"c", "a", "b"} {
		c.data[k] = entry[int]{val: []int{1}, created: created, exp: exp}
		c.size++
	}

	c.mu.Lock()
	c.evictOldest(context.Background())
	c.mu.Unlock()

	assert.Equal(t, 1, c.size)

	_, found := c.data["c"]
	assert.True(t, found)
}

func TestCache_evictOldest_short(t *testing.T) {
	c := New[int](Config{Capacity: 100, EvictBatch: 100})

	created := time.Now()

	// Fewer entries than the batch, everything is evicted without error.
	for i := 0; i < 5; i++ {
		c.data[strconv.Itoa(i)] = entry[int]{val: []int{i}, created: created, exp: created.Add(time.Hour)}
		c.size++
	}

	c.mu.Lock()
	c.evictOldest(context.Background())
	c.mu.Unlock()

	assert.Empty(t, c.data)
	assert.Equal(t, 0, c.size)
}
