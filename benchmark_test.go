package cache_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	pca "github.com/patrickmn/go-cache"
	"github.com/puzpuzpuz/xsync"
	cache "github.com/vearutop/readcache"
)

func Benchmark_Cache(b *testing.B) {
	c := cache.New[int](cache.Config{Capacity: 100000, TimeToLive: time.Minute})
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		k := "oneone" + strconv.Itoa(i%10000)
		// nolint
		if i < 10000 {
			_ = c.Put(ctx, k, []int{123})
		}
		// nolint
		_, _ = c.Get(ctx, k)
	}
}

func Benchmark_ReadThrough(b *testing.B) {
	c := cache.NewReadThrough[int](cache.ReadThroughConfig[int]{
		UpstreamConfig: cache.Config{Capacity: 100000, TimeToLive: time.Minute},
	})
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		k := "oneone" + strconv.Itoa(i%10000)
		// nolint
		_, _ = c.Get(ctx, k, func(ctx context.Context) ([]int, error) {
			return []int{123}, nil
		})
	}
}

// Benchmark_Patrickmn keeps a reference baseline without TTL bookkeeping
// guarantees of Cache.
func Benchmark_Patrickmn(b *testing.B) {
	c := pca.New(5*time.Minute, 10*time.Minute)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		k := "oneone" + strconv.Itoa(i%10000)

		if i < 10000 {
			c.Set(k, []int{123}, time.Minute)
		}

		_, _ = c.Get(k)
	}
}

// Benchmark_Xsync keeps a lock-free map baseline, no TTL and no size
// accounting.
func Benchmark_Xsync(b *testing.B) {
	c := xsync.NewMap()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		k := "oneone" + strconv.Itoa(i%10000)

		if i < 10000 {
			c.Store(k, []int{123})
		}

		_, _ = c.Load(k)
	}
}
