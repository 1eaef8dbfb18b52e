package cache

import (
	"sync"

	"github.com/IvanBrykalov/lrucache/internal/util"
)

// shard is one independently locked partition of the cache. It owns a
// handle table for key lookup and a sentinel-anchored recency ring:
// lru.next is the oldest entry, lru.prev the newest.
//
// The lock covers the whole body of every operation, including the
// eviction loop inside insert and any deleter that fires. Deleters must
// therefore never call back into the cache for the same key's shard.
type shard struct {
	capacity int64

	// ---- guarded by mu ----
	mu    sync.Mutex
	usage int64 // total charge of entries holding the in-cache reference
	table handleTable
	lru   entry // ring sentinel, never holds data

	metrics Metrics

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedAtomicUint64
	misses util.PaddedAtomicUint64
	evicts util.PaddedAtomicUint64
}

// newShard initializes a shard with its slice of the total capacity.
func newShard(capacity int64, m Metrics) *shard {
	s := &shard{capacity: capacity, metrics: m}
	s.lru.next = &s.lru
	s.lru.prev = &s.lru
	s.table.init()
	return s
}

// insert binds key to value, displacing any previous binding, then
// evicts from the oldest end while usage exceeds capacity. It cannot
// fail: when every resident entry is pinned the ring empties out and
// usage is allowed to overshoot until handles are released.
// The returned handle carries the entry's second reference.
func (s *shard) insert(key string, hash uint32, value any, charge int, deleter Deleter) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{
		key:     key,
		hash:    hash,
		value:   value,
		charge:  charge,
		deleter: deleter,
		refs:    2, // one for the cache, one for the returned handle
	}
	s.listAppend(e)
	s.usage += int64(charge)

	if old := s.table.insert(e); old != nil {
		s.detach(old)
		s.metrics.Evict(EvictReplaced)
	}

	for s.usage > s.capacity && s.lru.next != &s.lru {
		old := s.lru.next
		s.table.remove(old.key, old.hash)
		s.detach(old)
		s.evicts.Add(1)
		s.metrics.Evict(EvictCapacity)
	}

	s.metrics.Size(int(s.table.elems), s.usage)
	return Handle{e}
}

// lookup returns a fresh handle for key and refreshes its recency.
func (s *shard) lookup(key string, hash uint32) (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.table.lookup(key, hash)
	if e == nil {
		s.misses.Add(1)
		s.metrics.Miss()
		return Handle{}, false
	}
	e.refs++
	s.listRemove(e)
	s.listAppend(e)
	s.hits.Add(1)
	s.metrics.Hit()
	return Handle{e}, true
}

// release drops one handle reference.
func (s *shard) release(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unref(e)
}

// erase drops the binding for key if present. Absent keys are a no-op.
func (s *shard) erase(key string, hash uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.table.remove(key, hash); e != nil {
		s.detach(e)
		s.metrics.Evict(EvictErased)
		s.metrics.Size(int(s.table.elems), s.usage)
	}
}

// drain drops every in-cache reference, emptying the shard. It returns
// the number of entries that were still pinned by outstanding handles;
// those stay alive until their handles are released.
func (s *shard) drain() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	pinned := 0
	for e := s.lru.next; e != &s.lru; {
		next := e.next
		if e.refs > 1 {
			pinned++
		}
		s.table.remove(e.key, e.hash)
		s.detach(e)
		e = next
	}
	s.metrics.Size(int(s.table.elems), s.usage)
	return pinned
}

// snapshot returns the resident entry count and usage.
func (s *shard) snapshot() (entries int, usage int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.table.elems), s.usage
}

// -------------------- internals (mu held) --------------------

// detach drops e's in-cache reference: e leaves the recency ring and is
// destroyed here unless an outstanding handle still pins it. A pinned
// entry keeps its charge counted toward usage until that last release,
// which is what lets a fully pinned shard overshoot its capacity.
// Table removal is the caller's job.
func (s *shard) detach(e *entry) {
	s.listRemove(e)
	s.unref(e)
}

// unref drops one reference; the last one returns the entry's charge to
// the budget and triggers the deleter.
func (s *shard) unref(e *entry) {
	if e.refs <= 0 {
		panic("cache: release of an already-released handle")
	}
	e.refs--
	if e.refs == 0 {
		s.usage -= int64(e.charge)
		if e.deleter != nil {
			e.deleter(e.key, e.value)
		}
		e.value = nil
	}
}

// listAppend links e in at the newest end, just before the sentinel.
func (s *shard) listAppend(e *entry) {
	e.next = &s.lru
	e.prev = s.lru.prev
	e.prev.next = e
	e.next.prev = e
}

// listRemove unlinks e from the ring in O(1).
func (s *shard) listRemove(e *entry) {
	e.next.prev = e.prev
	e.prev.next = e.next
	e.next, e.prev = nil, nil
}
