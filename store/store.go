// Package store provides the bounded key→entry map backing the cache.
//
// It is a thin layer over hashicorp/golang-lru that splits "look at an
// entry" (Peek) from "count this lookup as a use" (Touch). The cache facade
// decides which reads count as accesses; the store itself knows nothing
// about TTLs or freshness.
package store

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/adapticai/marketcache/types"
)

// Store is a fixed-capacity key→entry map with least-recently-used
// eviction. Inserting or updating a key moves it to the most-recently-used
// position; inserting a new key at capacity evicts the single LRU key.
type Store[V any] struct {
	entries *lru.Cache[string, *types.Entry[V]]
}

// New creates a Store holding at most maxSize entries. maxSize must be
// positive; the caller validates it before construction.
func New[V any](maxSize int) (*Store[V], error) {
	entries, err := lru.New[string, *types.Entry[V]](maxSize)
	if err != nil {
		return nil, err
	}
	return &Store[V]{entries: entries}, nil
}

// Peek returns the entry for key without altering its recency.
func (s *Store[V]) Peek(key string) (*types.Entry[V], bool) {
	return s.entries.Peek(key)
}

// Touch marks key as used, moving it to the most-recently-used position.
func (s *Store[V]) Touch(key string) {
	s.entries.Get(key)
}

// Set inserts or replaces the entry for key. It reports whether the insert
// evicted the least-recently-used key to make room.
func (s *Store[V]) Set(key string, ent *types.Entry[V]) (evicted bool) {
	return s.entries.Add(key, ent)
}

// Delete removes key and reports whether it was present.
func (s *Store[V]) Delete(key string) bool {
	return s.entries.Remove(key)
}

// Has reports membership without altering recency.
func (s *Store[V]) Has(key string) bool {
	return s.entries.Contains(key)
}

// Clear removes every entry.
func (s *Store[V]) Clear() {
	s.entries.Purge()
}

// Size returns the number of live entries.
func (s *Store[V]) Size() int {
	return s.entries.Len()
}

// Keys returns all keys, least recently used first.
func (s *Store[V]) Keys() []string {
	return s.entries.Keys()
}
