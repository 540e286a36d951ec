package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	cache "github.com/adapticai/marketcache"
)

func newBenchmarkCache(b *testing.B) *cache.Cache[string] {
	c, err := cache.New[string](cache.Config{
		MaxSize:    100000,
		DefaultTTL: time.Hour,
	}, nil, nil)
	if err != nil {
		b.Fatal(err)
	}
	return c
}

func BenchmarkGetHit(b *testing.B) {
	c := newBenchmarkCache(b)
	loader := func(ctx context.Context, key string) (string, error) {
		return "value", nil
	}
	ctx := context.Background()
	c.Set("hot", "value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Get(ctx, "hot", loader); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetHitParallel(b *testing.B) {
	c := newBenchmarkCache(b)
	loader := func(ctx context.Context, key string) (string, error) {
		return "value", nil
	}
	ctx := context.Background()
	for i := 0; i < 1024; i++ {
		c.Set(fmt.Sprintf("key-%d", i), "value")
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := fmt.Sprintf("key-%d", i%1024)
			i++
			if _, err := c.Get(ctx, key, loader); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkSet(b *testing.B) {
	c := newBenchmarkCache(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(fmt.Sprintf("key-%d", i%100000), "value")
	}
}
