package types

import "time"

// Metadata is the bookkeeping attached to every cache entry. It is kept
// separate from the value so policy code (freshness classification, stats)
// can operate on it without caring about the value type.
//
// Fields are mutated in place under the owning cache's lock.
type Metadata struct {
	// CreatedAt is when the current value was written.
	CreatedAt time.Time

	// TTL is the nominal freshness window applied at write time.
	TTL time.Duration

	// ExpiresAt is CreatedAt + TTL, fixed at write. Freshness checks use it
	// as the base for jittering; it is never rewritten in place.
	ExpiresAt time.Time

	// AccessCount is incremented on every read of this entry and reset to
	// zero only when the entry is replaced.
	AccessCount uint64

	LastAccessedAt time.Time

	// Refreshing is true only while a background refresh for this key is
	// outstanding.
	Refreshing bool

	// LastErr records the most recent load failure observed while this
	// entry was live. Informational only; it never blocks serving.
	LastErr error
}

// Entry is one live cache entry: a value plus its bookkeeping.
type Entry[V any] struct {
	Value V
	Metadata
}
