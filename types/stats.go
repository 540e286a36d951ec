package types

// Stats is a point-in-time snapshot of the cache's counters. All counters
// increase monotonically between calls to ResetStats.
type Stats struct {
	// TotalGets counts every Get call, regardless of outcome.
	TotalGets uint64

	// Hits counts reads answered from a fresh entry.
	Hits uint64

	// Misses counts reads that went through a synchronous load.
	Misses uint64

	// StaleHits counts reads answered from an entry past its (jittered)
	// freshness window but inside the stale-while-revalidate grace window.
	StaleHits uint64

	// CoalescedRequests counts callers that attached to an already
	// outstanding load instead of starting their own.
	CoalescedRequests uint64

	// BackgroundRefreshes counts refreshes triggered by stale reads.
	BackgroundRefreshes uint64

	// RefreshErrors counts loader failures, foreground and background.
	RefreshErrors uint64

	// HitRatio is Hits / TotalGets, or 0 when TotalGets is 0.
	HitRatio float64
}
