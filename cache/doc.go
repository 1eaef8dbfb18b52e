// Package cache provides a fixed-capacity, sharded, weighted LRU cache
// with reference-counted handles, built as a block/page cache for
// storage engines: values are opaque caller-owned payloads, each with a
// charge counted against the capacity budget and a deleter invoked
// exactly once when the entry's last reference drops.
//
// Design
//
//   - Handles: Insert and Lookup return a Handle pinning the entry.
//     A pinned entry outlives its eviction or overwrite; the deleter
//     fires only when the cache's own reference and every handle are
//     gone. Each handle pairs with exactly one Release.
//
//   - Concurrency: the cache is split into a power-of-two number of
//     shards (16 by default), each with its own mutex, hash table and
//     recency list. A key's shard is chosen by the top bits of its
//     hash; operations on different shards never contend. Within a
//     shard the lock covers the whole operation, eviction included.
//
//   - Storage: each shard keeps an open-chaining hash table (entries
//     chained intrusively, doubling resize at load factor 1) and a
//     sentinel-anchored doubly linked recency ring. All operations are
//     O(1) expected.
//
//   - Eviction: strictly by recency within a shard. Insert evicts from
//     the oldest end while the shard is over its charge budget; pinned
//     entries are detached rather than destroyed, so usage can
//     overshoot capacity while every resident entry is pinned.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using
//     singleflight. If Loader is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; plug a Prometheus adapter to
//     export metrics.
//
// Basic usage
//
//	c := cache.New(cache.Options{Capacity: 64 << 20}) // 64 MiB of charge
//	h := c.Insert("block:7", block, len(block.Data()), func(key string, v any) {
//	    v.(*Block).Free()
//	})
//	use(h.Value().(*Block))
//	c.Release(h)
//
//	if h, ok := c.Lookup("block:7"); ok {
//	    use(h.Value().(*Block))
//	    c.Release(h)
//	}
//
// With GetOrLoad (singleflight)
//
//	c := cache.New(cache.Options{
//	    Capacity: 1 << 20,
//	    Loader: func(ctx context.Context, key string) (any, int, error) {
//	        b, err := readBlock(ctx, key)
//	        return b, b.Size(), err
//	    },
//	})
//	h, err := c.GetOrLoad(ctx, "block:7")
//
// Generation stamps
//
//	id := c.NewID() // strictly increasing, shared across shards
//
// Thread-safety & complexity
//
// All methods on Cache are safe for concurrent use. Typical operation
// cost is O(1) expected: one bucket chain walk plus a constant amount
// of pointer fixes under the shard lock. Deleters run synchronously
// under that lock, so they must be cheap and must not re-enter the
// cache.
package cache
