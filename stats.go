package cache

import (
	"sync/atomic"

	"github.com/adapticai/marketcache/types"
)

// counters holds the cache's monotonic counters. Atomics keep unrelated-key
// increments from contending on the facade lock.
type counters struct {
	totalGets           atomic.Uint64
	hits                atomic.Uint64
	misses              atomic.Uint64
	staleHits           atomic.Uint64
	coalescedRequests   atomic.Uint64
	backgroundRefreshes atomic.Uint64
	refreshErrors       atomic.Uint64
}

func (c *counters) snapshot() types.Stats {
	s := types.Stats{
		TotalGets:           c.totalGets.Load(),
		Hits:                c.hits.Load(),
		Misses:              c.misses.Load(),
		StaleHits:           c.staleHits.Load(),
		CoalescedRequests:   c.coalescedRequests.Load(),
		BackgroundRefreshes: c.backgroundRefreshes.Load(),
		RefreshErrors:       c.refreshErrors.Load(),
	}
	if s.TotalGets > 0 {
		s.HitRatio = float64(s.Hits) / float64(s.TotalGets)
	}
	return s
}

func (c *counters) reset() {
	c.totalGets.Store(0)
	c.hits.Store(0)
	c.misses.Store(0)
	c.staleHits.Store(0)
	c.coalescedRequests.Store(0)
	c.backgroundRefreshes.Store(0)
	c.refreshErrors.Store(0)
}
