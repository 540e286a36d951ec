// Package cache implements a stampede-protected, in-process cache for
// expensive, rate-limited loads such as market data and brokerage API calls.
//
// It combines a bounded LRU store, single-flight request coalescing, and
// stale-while-revalidate serving with jittered expiry: any number of
// concurrent readers of the same cold key trigger exactly one load, readers
// of a stale key get the old value immediately while a refresh runs in the
// background, and expiry boundaries are randomized so many keys written
// together do not all expire together.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/singleflight"

	"github.com/adapticai/marketcache/freshness"
	"github.com/adapticai/marketcache/store"
	"github.com/adapticai/marketcache/types"
)

// Cache is the public facade. One instance serves heterogeneous loaders as
// long as the value type V is uniform. All methods are safe for concurrent
// use.
type Cache[V any] struct {
	cfg    Config
	logger log.Logger
	rec    Recorder
	policy freshness.Policy
	stats  counters

	// group coalesces loads: across all concurrent callers of a key, cold
	// misses and background refreshes alike, at most one loader call is
	// outstanding at a time.
	group singleflight.Group

	// mu guards the store, entry bookkeeping mutation, and inflight.
	mu    sync.Mutex
	store *store.Store[V]

	// inflight tracks keys with an outstanding load so Clear can forget
	// their flights. Entries are removed when the load that created them
	// settles.
	inflight map[string]struct{}
}

// New constructs a Cache from cfg. Zero optional fields get defaults
// (stale window 2×TTL, jitter 0.9/1.1); invalid required fields fail here,
// not at first use. A nil logger is replaced by a nop logger, a nil
// Recorder by NoopRecorder.
func New[V any](cfg Config, logger log.Logger, rec Recorder) (*Cache[V], error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache config: %w", err)
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if rec == nil {
		rec = NoopRecorder{}
	}

	st, err := store.New[V](cfg.MaxSize)
	if err != nil {
		return nil, err
	}

	return &Cache[V]{
		cfg:    cfg,
		logger: logger,
		rec:    rec,
		policy: freshness.Policy{
			StaleTTL:  cfg.StaleWhileRevalidateTTL,
			MinJitter: cfg.MinJitter,
			MaxJitter: cfg.MaxJitter,
		},
		store:    st,
		inflight: make(map[string]struct{}),
	}, nil
}

// Get returns the value for key, loading it through loader on a miss. The
// entry's freshness window is the configured default TTL.
//
// Fresh entries return immediately. Stale entries inside the grace window
// also return immediately and, unless disabled, kick off a background
// refresh the caller never waits for. Expired or absent entries load
// synchronously; concurrent callers of the same key share one load and one
// result, including the loader's error.
func (c *Cache[V]) Get(ctx context.Context, key string, loader types.Loader[V]) (V, error) {
	return c.GetWithTTL(ctx, key, loader, c.cfg.DefaultTTL)
}

// GetWithTTL is Get with the freshness window overridden for this load
// only. A non-positive ttl falls back to the configured default.
func (c *Cache[V]) GetWithTTL(ctx context.Context, key string, loader types.Loader[V], ttl time.Duration) (V, error) {
	if ttl <= 0 {
		ttl = c.cfg.DefaultTTL
	}
	c.stats.totalGets.Add(1)
	now := time.Now()

	c.mu.Lock()
	if ent, ok := c.store.Peek(key); ok {
		switch c.policy.Classify(&ent.Metadata, now) {
		case freshness.Fresh:
			v := c.serveLocked(ent, key, now)
			c.mu.Unlock()
			c.stats.hits.Add(1)
			c.rec.Hit()
			return v, nil

		case freshness.Stale:
			refresh := !c.cfg.DisableBackgroundRefresh && !ent.Refreshing
			if refresh {
				ent.Refreshing = true
			}
			v := c.serveLocked(ent, key, now)
			c.mu.Unlock()
			c.stats.staleHits.Add(1)
			c.rec.StaleHit()
			if refresh {
				go c.refresh(key, loader, ttl)
			}
			return v, nil
		}
		// Expired: fall through to a synchronous load. The dead entry stays
		// in place until the load replaces it, so Has() keeps answering
		// membership, not freshness.
	}
	c.mu.Unlock()

	c.stats.misses.Add(1)
	c.rec.Miss()
	return c.loadCoalesced(ctx, key, loader, ttl)
}

// serveLocked records a read on ent and returns its value. Caller holds mu.
func (c *Cache[V]) serveLocked(ent *types.Entry[V], key string, now time.Time) V {
	ent.AccessCount++
	ent.LastAccessedAt = now
	c.store.Touch(key)
	return ent.Value
}

// loadCoalesced runs loader through the single-flight group. Exactly one
// loader call per key is outstanding at a time; every other caller attaches
// to it and shares its result. On success the result is written to the
// store; on failure nothing is cached and the loader's error is returned
// verbatim to every attached caller.
func (c *Cache[V]) loadCoalesced(ctx context.Context, key string, loader types.Loader[V], ttl time.Duration) (V, error) {
	c.mu.Lock()
	_, marked := c.inflight[key]
	if !marked {
		c.inflight[key] = struct{}{}
	}
	c.mu.Unlock()

	// The goroutine that published the in-flight mark retires it, whether
	// or not it ended up being the one that ran the loader, and even if the
	// loader panicked.
	if !marked {
		defer func() {
			c.mu.Lock()
			delete(c.inflight, key)
			c.mu.Unlock()
		}()
	}

	// ran is set by whichever caller's closure the group elects to execute.
	// A caller that returns without having run it shared another flight's
	// result, which is exactly what the coalesced counter measures.
	ran := false
	v, err, _ := c.group.Do(key, func() (any, error) {
		ran = true
		val, err := loader(ctx, key)
		if err != nil {
			c.loadFailed(key, err)
			return nil, err
		}
		c.write(key, val, ttl)
		return val, nil
	})
	if !ran {
		c.stats.coalescedRequests.Add(1)
		c.rec.Coalesced()
	}
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// refresh runs a stale-triggered reload off the caller's goroutine. It goes
// through the same single-flight group as synchronous misses, so it can
// only ever attach to, never duplicate, a load already in flight. Failures
// are logged and counted, never surfaced: the caller that observed
// staleness already has its value.
func (c *Cache[V]) refresh(key string, loader types.Loader[V], ttl time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			level.Error(c.logger).Log("msg", "panic during background refresh", "key", key, "panic", r)
		}
		// The success path replaces the entry outright; this covers the
		// failure path and the panic path.
		c.mu.Lock()
		if ent, ok := c.store.Peek(key); ok {
			ent.Refreshing = false
		}
		c.mu.Unlock()
	}()

	c.stats.backgroundRefreshes.Add(1)
	c.rec.BackgroundRefresh()

	// Loads are never cancelled by the cache, so the refresh carries a
	// fresh background context rather than the (possibly done) caller's.
	if _, err := c.loadCoalesced(context.Background(), key, loader, ttl); err != nil {
		level.Warn(c.logger).Log("msg", "background refresh failed", "key", key, "err", err)
	}
}

// write installs a freshly loaded value, replacing any previous entry and
// resetting its bookkeeping.
func (c *Cache[V]) write(key string, val V, ttl time.Duration) {
	now := time.Now()
	ent := &types.Entry[V]{
		Value: val,
		Metadata: types.Metadata{
			CreatedAt:      now,
			TTL:            ttl,
			ExpiresAt:      now.Add(ttl),
			LastAccessedAt: now,
		},
	}

	c.mu.Lock()
	evicted := c.store.Set(key, ent)
	c.mu.Unlock()

	if evicted {
		c.rec.Eviction()
		level.Debug(c.logger).Log("msg", "evicted lru entry to make room", "inserted", key)
	}
}

// loadFailed records a loader failure against the live entry, if any.
func (c *Cache[V]) loadFailed(key string, err error) {
	c.stats.refreshErrors.Add(1)
	c.rec.RefreshError()

	c.mu.Lock()
	if ent, ok := c.store.Peek(key); ok {
		ent.LastErr = err
		ent.Refreshing = false
	}
	c.mu.Unlock()
}

// Set writes value directly, bypassing any loader, with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.write(key, value, c.cfg.DefaultTTL)
}

// SetWithTTL is Set with an explicit freshness window.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.cfg.DefaultTTL
	}
	c.write(key, value, ttl)
}

// Has reports store membership regardless of freshness.
func (c *Cache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Has(key)
}

// Delete removes key from the store and reports whether it was present. A
// load already in flight for key is not cancelled; it will complete and
// repopulate the key when it settles.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Delete(key)
}

// Invalidate is an alias for Delete.
func (c *Cache[V]) Invalidate(key string) bool {
	return c.Delete(key)
}

// Clear empties the store and forgets all coalescing bookkeeping. In-flight
// loads are not cancelled; each will complete and repopulate its key.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Clear()
	for key := range c.inflight {
		c.group.Forget(key)
		delete(c.inflight, key)
	}
}

// Keys returns all live keys, least recently used first.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Keys()
}

// Size returns the number of live entries.
func (c *Cache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Size()
}

// Stats returns a snapshot of the counters.
func (c *Cache[V]) Stats() types.Stats {
	return c.stats.snapshot()
}

// ResetStats zeroes all counters. Entries are untouched.
func (c *Cache[V]) ResetStats() {
	c.stats.reset()
}
