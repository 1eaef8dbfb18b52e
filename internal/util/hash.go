// Package util contains internal helpers (hashing, sharding, padding).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

// Hash mixes data into a 32-bit value, murmur-style.
//
// The seed lets callers derive independent hash streams from the same
// bytes; the cache layer uses seed 0 for both bucket and shard placement
// and computes the hash exactly once per operation.
//
// Deterministic across runs and platforms: 4-byte words are consumed
// little-endian, the 0..3 trailing bytes big-endian-style.
func Hash[T ~string | ~[]byte](data T, seed uint32) uint32 {
	const (
		m = 0xc6a4a793
		r = 24
	)
	n := len(data)
	h := seed ^ (uint32(n) * m)

	// Pick up four bytes at a time.
	i := 0
	for ; i+4 <= n; i += 4 {
		w := uint32(data[i]) |
			uint32(data[i+1])<<8 |
			uint32(data[i+2])<<16 |
			uint32(data[i+3])<<24
		h += w
		h *= m
		h ^= h >> 16
	}

	// Pick up remaining bytes.
	switch n - i {
	case 3:
		h += uint32(data[i+2]) << 16
		fallthrough
	case 2:
		h += uint32(data[i+1]) << 8
		fallthrough
	case 1:
		h += uint32(data[i])
		h *= m
		h ^= h >> r
	}
	return h
}
