package cache

import "context"

// Deleter destroys a cache value. It runs exactly once, with the
// entry's key and value, when the last reference to the entry drops.
// Deleters execute under the owning shard's lock: keep them cheap and
// never call back into the cache from one (that deadlocks the shard).
type Deleter func(key string, value any)

// Loader fetches the value and charge for a key on a GetOrLoad miss.
// Concurrent loads for the same key are coalesced.
type Loader func(ctx context.Context, key string) (value any, charge int, err error)

// Handle is an opaque, reference-counted view of one cache entry.
//
// Every handle obtained from Insert, Lookup or GetOrLoad pairs with
// exactly one Release. Until that Release the entry and its value stay
// alive even if the entry is evicted or overwritten in the meantime.
// Using a handle after releasing it is a caller bug.
type Handle struct{ e *entry }

// Value returns the cached value. No locking required: holding the
// handle keeps the value stable until Release.
func (h Handle) Value() any { return h.e.value }

// Key returns the key the entry was inserted under.
func (h Handle) Key() string { return h.e.key }

// Cache is a fixed-capacity, sharded, weighted LRU cache. Keys are
// byte strings, values are opaque caller-owned payloads identified only
// by their Deleter. All methods are safe for concurrent use.
//
// Capacity is a budget of charge units, not an entry count. Once the
// total charge of resident entries exceeds it, the least recently used
// entries are evicted. Entries pinned by outstanding handles cannot be
// destroyed; eviction merely detaches them, so usage may transiently
// overshoot capacity while every resident entry is pinned.
type Cache interface {
	// Insert binds key to value with the given charge, displacing any
	// previous binding for the key. It always succeeds: eviction makes
	// room, or usage overshoots while entries are pinned. The returned
	// handle must be released exactly once.
	Insert(key string, value any, charge int, deleter Deleter) Handle

	// Lookup returns a handle for key, refreshing its recency, or
	// reports a miss. The handle must be released exactly once.
	Lookup(key string) (Handle, bool)

	// Release drops the reference held by h. If it is the entry's last
	// reference, the deleter runs and the entry is destroyed.
	Release(h Handle)

	// Erase drops the binding for key if present; the entry is
	// destroyed once its outstanding handles (if any) are released.
	// Erasing an absent key is a no-op.
	Erase(key string)

	// GetOrLoad returns a handle for key, loading the value via
	// Options.Loader on a miss. Concurrent loads for the same key are
	// coalesced (singleflight). Returns ErrNoLoader if no Loader was
	// configured. The handle must be released exactly once.
	GetOrLoad(ctx context.Context, key string) (Handle, error)

	// NewID returns a number guaranteed to be strictly greater than any
	// previously returned one. Useful for clients sharing the cache
	// that need to tag their entries (e.g. generation stamps).
	NewID() uint64

	// Len returns the number of resident entries across all shards.
	Len() int

	// Usage returns the total charge held against capacity. Entries
	// pinned by outstanding handles keep their charge counted until
	// released, even after eviction or overwrite.
	Usage() int64

	// Stats returns a point-in-time snapshot of cache counters.
	Stats() Stats

	// Close drops every resident entry. Entries still pinned by
	// outstanding handles survive until released; Close reports them as
	// an error since unreleased handles are a caller bug. Subsequent
	// operations behave as if the cache were empty.
	Close() error
}
