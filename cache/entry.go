package cache

// entry is the unit of caching: a heap-allocated record owned jointly by
// its shard (through the in-cache reference) and by any outstanding
// handles. It lives in two structures at once: the shard's handle table
// (chained via nextHash) and the shard's recency ring (next/prev).
//
// An entry holds its in-cache reference exactly while it is linked into
// both structures. Once erased, overwritten or evicted it survives on
// outstanding handle references alone, unreachable by key.
type entry struct {
	key   string
	hash  uint32 // Hash(key, 0); cached for sharding and chain compares
	value any

	// charge counts toward shard usage while the entry is in cache.
	charge int

	// deleter runs exactly once, with (key, value), when refs hits zero.
	deleter Deleter

	// refs = in-cache reference (0 or 1) + outstanding handles.
	// Guarded by the owning shard's lock; an entry whose refs reached
	// zero is never touched again.
	refs int32

	// nextHash chains entries within one handle table bucket.
	nextHash *entry

	// Recency ring links; next points toward newer entries,
	// prev toward older ones. The shard's sentinel closes the ring.
	next *entry
	prev *entry
}
