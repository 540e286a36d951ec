package freshness_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adapticai/marketcache/freshness"
	"github.com/adapticai/marketcache/types"
)

func meta(createdAt time.Time, ttl time.Duration) *types.Metadata {
	return &types.Metadata{
		CreatedAt: createdAt,
		TTL:       ttl,
		ExpiresAt: createdAt.Add(ttl),
	}
}

func TestClassifyWithoutJitter(t *testing.T) {
	p := &freshness.Policy{
		StaleTTL:  200 * time.Millisecond,
		MinJitter: 1,
		MaxJitter: 1,
	}
	t0 := time.Now()
	m := meta(t0, 100*time.Millisecond)

	require.Equal(t, freshness.Fresh, p.Classify(m, t0))
	require.Equal(t, freshness.Fresh, p.Classify(m, t0.Add(99*time.Millisecond)))
	require.Equal(t, freshness.Stale, p.Classify(m, t0.Add(100*time.Millisecond)))
	require.Equal(t, freshness.Stale, p.Classify(m, t0.Add(199*time.Millisecond)))
	require.Equal(t, freshness.Expired, p.Classify(m, t0.Add(200*time.Millisecond)))
	require.Equal(t, freshness.Expired, p.Classify(m, t0.Add(time.Hour)))
}

func TestClassifyJitterBounds(t *testing.T) {
	t0 := time.Now()
	m := meta(t0, 100*time.Millisecond)

	// Jitter sample pinned to the low end: boundary at 90ms.
	low := &freshness.Policy{
		StaleTTL:  time.Second,
		MinJitter: 0.9,
		MaxJitter: 1.1,
		Rand:      func() float64 { return 0 },
	}
	require.Equal(t, freshness.Fresh, low.Classify(m, t0.Add(89*time.Millisecond)))
	require.Equal(t, freshness.Stale, low.Classify(m, t0.Add(91*time.Millisecond)))

	// Pinned to the high end: boundary just under 110ms.
	high := &freshness.Policy{
		StaleTTL:  time.Second,
		MinJitter: 0.9,
		MaxJitter: 1.1,
		Rand:      func() float64 { return 0.9999 },
	}
	require.Equal(t, freshness.Fresh, high.Classify(m, t0.Add(105*time.Millisecond)))
	require.Equal(t, freshness.Stale, high.Classify(m, t0.Add(110*time.Millisecond)))
}

// The boundary is re-jittered on every call: the same entry may classify
// differently on consecutive checks at the same instant.
func TestClassifyRecomputesJitterPerCall(t *testing.T) {
	t0 := time.Now()
	m := meta(t0, 100*time.Millisecond)

	samples := []float64{0, 0.9999}
	i := 0
	p := &freshness.Policy{
		StaleTTL:  time.Second,
		MinJitter: 0.9,
		MaxJitter: 1.1,
		Rand: func() float64 {
			s := samples[i%len(samples)]
			i++
			return s
		},
	}

	at := t0.Add(100 * time.Millisecond)
	require.Equal(t, freshness.Stale, p.Classify(m, at))
	require.Equal(t, freshness.Fresh, p.Classify(m, at))
}

func TestStateString(t *testing.T) {
	require.Equal(t, "fresh", freshness.Fresh.String())
	require.Equal(t, "stale", freshness.Stale.String())
	require.Equal(t, "expired", freshness.Expired.String())
}
