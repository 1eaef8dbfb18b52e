package util

// NormalShardCount clamps and rounds a requested shard count to the
// power of two the routing scheme needs. A non-positive request picks
// the default of 16 shards, which keeps per-shard lock contention low
// without bloating the fixed per-shard overhead.
func NormalShardCount(requested int) int {
	if requested <= 0 {
		return 16
	}
	n := int(NextPow2(uint64(requested)))
	if n > 256 {
		n = 256
	}
	return n
}

// ShardIndex maps a 32-bit hash to a shard index using the hash's top
// bits. bits must be Log2 of the (power-of-two) shard count; bits == 0
// always yields shard 0.
//
// Using the high bits keeps shard routing independent from bucket
// placement inside a shard's hash table, which masks with the low bits.
func ShardIndex(hash uint32, bits uint) int {
	return int(hash >> (32 - bits))
}
