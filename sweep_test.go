package cache

import (
	"context"
	"testing"
	"time"

	"github.com/bool64/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_sweep(t *testing.T) {
	ctx := context.Background()
	st := stats.TrackerMock{}
	c := New[int](Config{Stats: &st, TimeToLive: time.Minute})

	require.NoError(t, c.Put(ctx, "live", []int{1}))
	require.NoError(t, c.PutWithTTL(ctx, "dead1", []int{2}, -time.Second))
	require.NoError(t, c.PutWithTTL(ctx, "dead2", []int{3}, 0))

	c.sweep()

	s := c.Stats()
	assert.Equal(t, 1, s.Size)
	assert.False(t, s.LastSweep.IsZero())
	assert.Equal(t, 2, st.Int(MetricExpired))
	assert.Equal(t, 1, st.Int(MetricItems))

	got, err := c.Get(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)
}

func TestCache_sweep_periodic(t *testing.T) {
	ctx := context.Background()
	c := New[int](Config{
		TimeToLive:    time.Millisecond,
		SweepInterval: 5 * time.Millisecond,
	})

	c.Start()
	defer c.Stop()

	require.NoError(t, c.Put(ctx, "key", []int{1}))

	assert.Eventually(t, func() bool {
		s := c.Stats()

		return s.Size == 0 && !s.LastSweep.IsZero()
	}, 500*time.Millisecond, 5*time.Millisecond)
}

func TestCache_Stop(t *testing.T) {
	ctx := context.Background()
	c := New[int](Config{
		TimeToLive:    time.Millisecond,
		SweepInterval: 50 * time.Millisecond,
	})

	c.Start()
	c.Stop()

	require.NoError(t, c.Put(ctx, "key", []int{1}))

	// No sweep runs after Stop, the expired entry stays until read.
	time.Sleep(120 * time.Millisecond)

	assert.Equal(t, 1, c.Stats().Size)
	assert.True(t, c.Stats().LastSweep.IsZero())

	// Store operations are still usable.
	_, err := c.Get(ctx, "key")
	assert.EqualError(t, err, ErrNotFound.Error())
	assert.Equal(t, 0, c.Stats().Size)
}

func TestCache_Stop_idempotent(t *testing.T) {
	c := New[int]()

	// Stop of a never started cache returns immediately.
	c.Stop()
	c.Stop()

	c = New[int]()
	c.Start()
	c.Start()
	c.Stop()
	c.Stop()
}
