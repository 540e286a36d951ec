// Command quotecache demonstrates the cache fronting a slow, rate-limited
// market data API: request coalescing under a thundering herd, stale serving
// with background refresh, and LRU eviction.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	cache "github.com/adapticai/marketcache"
)

// Quote is a point-in-time price for a symbol.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
	AsOf   time.Time
}

func main() {
	logger := level.NewFilter(log.NewLogfmtLogger(os.Stderr), level.AllowInfo())
	reg := prometheus.NewRegistry()

	quotes, err := cache.New[Quote](cache.Config{
		MaxSize:                 4,
		DefaultTTL:              500 * time.Millisecond,
		StaleWhileRevalidateTTL: 2 * time.Second,
	}, logger, cache.NewPrometheusRecorder(reg, "quotedemo"))
	if err != nil {
		level.Error(logger).Log("msg", "cache construction failed", "err", err)
		os.Exit(1)
	}

	var apiCalls atomic.Int64
	loadQuote := func(ctx context.Context, key string) (Quote, error) {
		apiCalls.Add(1)
		time.Sleep(120 * time.Millisecond) // simulated provider latency
		symbol := strings.TrimPrefix(key, "quote:")
		if symbol == "HALT" {
			return Quote{}, errors.New("trading halted, no quote")
		}
		price := decimal.NewFromFloat(100 + rand.Float64()*50).Round(2)
		return Quote{Symbol: symbol, Price: price, AsOf: time.Now()}, nil
	}
	ctx := context.Background()

	fmt.Println("--- stampede: 8 concurrent readers, one provider call ---")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			q, err := quotes.Get(ctx, "quote:AAPL", loadQuote)
			if err != nil {
				fmt.Printf("reader %d: error: %v\n", id, err)
				return
			}
			fmt.Printf("reader %d: AAPL = %s\n", id, q.Price)
		}(i)
	}
	wg.Wait()
	fmt.Printf("provider calls so far: %d\n", apiCalls.Load())

	fmt.Println("--- stale-while-revalidate ---")
	time.Sleep(700 * time.Millisecond) // past TTL, inside the grace window

	start := time.Now()
	q, _ := quotes.Get(ctx, "quote:AAPL", loadQuote)
	fmt.Printf("stale read returned in %v (price %s, quoted %v ago)\n",
		time.Since(start).Round(time.Millisecond), q.Price, time.Since(q.AsOf).Round(time.Millisecond))

	time.Sleep(200 * time.Millisecond) // let the background refresh land
	q, _ = quotes.Get(ctx, "quote:AAPL", loadQuote)
	fmt.Printf("post-refresh read: price %s, quoted %v ago\n",
		q.Price, time.Since(q.AsOf).Round(time.Millisecond))

	fmt.Println("--- failing loader: error surfaces, nothing cached ---")
	if _, err := quotes.Get(ctx, "quote:HALT", loadQuote); err != nil {
		fmt.Printf("HALT: %v (cached: %v)\n", err, quotes.Has("quote:HALT"))
	}

	fmt.Println("--- eviction: 6 symbols into a 4-entry cache ---")
	for _, sym := range []string{"MSFT", "GOOG", "AMZN", "NVDA", "META", "TSLA"} {
		if _, err := quotes.Get(ctx, "quote:"+sym, loadQuote); err != nil {
			fmt.Printf("%s: %v\n", sym, err)
		}
	}
	fmt.Printf("resident keys: %v\n", quotes.Keys())

	stats := quotes.Stats()
	fmt.Println("--- stats ---")
	fmt.Printf("gets=%d hits=%d misses=%d staleHits=%d coalesced=%d refreshes=%d refreshErrors=%d hitRatio=%.2f\n",
		stats.TotalGets, stats.Hits, stats.Misses, stats.StaleHits,
		stats.CoalescedRequests, stats.BackgroundRefreshes, stats.RefreshErrors, stats.HitRatio)
}
