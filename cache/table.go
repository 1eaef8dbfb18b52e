package cache

// handleTable is an open-chaining hash table mapping key -> *entry,
// chained through entry.nextHash. It exists instead of a plain Go map
// because insert must atomically splice a new entry into the exact slot
// of a displaced same-key entry, and remove must hand the unlinked
// entry back to the shard for list/refcount bookkeeping.
//
// Not safe for concurrent use; the owning shard serializes access.
type handleTable struct {
	length  uint32 // bucket count, always a power of two
	elems   uint32
	buckets []*entry
}

func (t *handleTable) init() { t.resize() }

// lookup returns the entry bound to key, or nil.
func (t *handleTable) lookup(key string, hash uint32) *entry {
	return *t.findPointer(key, hash)
}

// insert binds e as the live entry for its key and returns the entry it
// displaced, if any. The caller is responsible for unlinking the old
// entry from the recency list and dropping its in-cache reference.
func (t *handleTable) insert(e *entry) *entry {
	ptr := t.findPointer(e.key, e.hash)
	old := *ptr
	if old != nil {
		e.nextHash = old.nextHash
	} else {
		e.nextHash = nil
	}
	*ptr = e
	if old == nil {
		t.elems++
		if t.elems > t.length {
			// Entries are fairly large, so aim for a short average
			// chain length (<= 1).
			t.resize()
		}
	}
	return old
}

// remove unlinks and returns the entry bound to key, or nil if absent.
func (t *handleTable) remove(key string, hash uint32) *entry {
	ptr := t.findPointer(key, hash)
	e := *ptr
	if e != nil {
		*ptr = e.nextHash
		t.elems--
	}
	return e
}

// findPointer returns the slot pointing at the entry that matches
// key/hash, or the trailing slot of the bucket chain if there is none.
// Returning the slot (not the entry) lets insert and remove splice in
// place. Chains compare the cached hash before the key bytes.
func (t *handleTable) findPointer(key string, hash uint32) **entry {
	ptr := &t.buckets[hash&(t.length-1)]
	for *ptr != nil && ((*ptr).hash != hash || (*ptr).key != key) {
		ptr = &(*ptr).nextHash
	}
	return ptr
}

// resize grows the bucket array to the smallest power of two >= elems
// (minimum 4) and rehashes every chain. Element count is preserved
// exactly; a mismatch means chain corruption and is unrecoverable.
func (t *handleTable) resize() {
	newLength := uint32(4)
	for newLength < t.elems {
		newLength *= 2
	}
	newBuckets := make([]*entry, newLength)
	count := uint32(0)
	for _, e := range t.buckets {
		for e != nil {
			next := e.nextHash
			slot := &newBuckets[e.hash&(newLength-1)]
			e.nextHash = *slot
			*slot = e
			e = next
			count++
		}
	}
	if count != t.elems {
		panic("cache: handle table lost entries during resize")
	}
	t.buckets = newBuckets
	t.length = newLength
}
