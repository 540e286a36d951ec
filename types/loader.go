package types

import "context"

// Loader is the contract between the cache and the backing source (a market
// data API, a brokerage endpoint, a database). It is supplied per Get call,
// so one cache instance can front heterogeneous sources as long as the value
// type is uniform.
//
// The cache never retries, wraps, or reinterprets a loader failure, and it
// never cancels a loader it has started. Timeout and retry policy belong to
// the loader; put them behind the ctx it receives.
type Loader[V any] func(ctx context.Context, key string) (V, error)
