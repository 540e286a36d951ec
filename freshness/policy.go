// Package freshness classifies cache entries at read time.
//
// Classification is a read-time decision, not a stored state: the same
// unmodified entry can classify differently on consecutive reads, both
// because time passes and because the expiry boundary is re-jittered on
// every check (see Policy.Classify).
package freshness

import (
	"math/rand"
	"time"

	"github.com/adapticai/marketcache/types"
)

// State is the read-time classification of an entry.
type State int

const (
	// Fresh entries are served immediately and counted as hits.
	Fresh State = iota

	// Stale entries are past their jittered freshness window but inside
	// the stale-while-revalidate grace window. They are served immediately
	// and may trigger a background refresh.
	Stale

	// Expired entries are past the grace window and must be reloaded
	// synchronously.
	Expired
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "expired"
	}
}

// Policy decides an entry's State from its metadata and the current time.
type Policy struct {
	// StaleTTL is the total servable window measured from CreatedAt. Past
	// CreatedAt+StaleTTL an entry is Expired no matter what its own TTL is.
	StaleTTL time.Duration

	// MinJitter and MaxJitter bound the multiplier applied to an entry's
	// TTL when computing the freshness boundary. MinJitter <= 1 <= MaxJitter.
	MinJitter float64
	MaxJitter float64

	// Rand returns a uniform sample from [0,1). Defaults to math/rand;
	// tests pin it for determinism.
	Rand func() float64
}

// Classify returns the entry's state at now.
//
// The freshness boundary is recomputed with a fresh jitter sample on every
// call rather than fixed once at write time. That desynchronizes expiry
// across keys and instances, at the cost that an unchanged entry can flip
// between Fresh and Stale on back-to-back reads near the boundary.
func (p *Policy) Classify(m *types.Metadata, now time.Time) State {
	boundary := m.CreatedAt.Add(time.Duration(float64(m.TTL) * p.jitter()))
	if now.Before(boundary) {
		return Fresh
	}
	if now.Before(m.CreatedAt.Add(p.StaleTTL)) {
		return Stale
	}
	return Expired
}

func (p *Policy) jitter() float64 {
	if p.MinJitter == p.MaxJitter {
		return p.MinJitter
	}
	r := rand.Float64
	if p.Rand != nil {
		r = p.Rand
	}
	return p.MinJitter + r()*(p.MaxJitter-p.MinJitter)
}
