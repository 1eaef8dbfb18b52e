package cache

// EvictReason explains why an entry lost its place in the cache.
type EvictReason int

const (
	// EvictCapacity — evicted from the oldest end to satisfy the charge budget.
	EvictCapacity EvictReason = iota
	// EvictReplaced — displaced by a same-key Insert.
	EvictReplaced
	// EvictErased — removed by an explicit Erase.
	EvictErased
)

// Metrics exposes cache-level observability hooks. All methods may be
// called concurrently and run under a shard lock; keep them cheap.
// NoopMetrics is used when none is configured.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int, usage int64)
}

// Options configures the cache. Zero values are safe; sane defaults are
// applied in New():
//   - Shards <= 0 => 16 (rounded up to a power of two otherwise)
//   - nil Metrics => NoopMetrics
type Options struct {
	// Capacity is the total charge budget, split evenly across shards.
	// Must be > 0.
	Capacity int

	// Shards is the number of partitions. 0 picks the default of 16;
	// other values are rounded up to the next power of two (max 256).
	// Shard routing uses the top bits of the key hash.
	Shards int

	// Loader fetches values on GetOrLoad misses. Entries it produces
	// are inserted with Options.Deleter.
	Loader Loader

	// Deleter applies to entries inserted through GetOrLoad. A nil
	// Deleter simply drops the value.
	Deleter Deleter

	// Metrics receives Hit/Miss/Evict/Size signals.
	Metrics Metrics
}
