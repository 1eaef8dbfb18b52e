package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPow2(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{1000, 1024},
		{1 << 40, 1 << 40},
		{(1 << 40) + 1, 1 << 41},
		{1<<63 + 1, 1 << 63}, // clamped on overflow
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NextPow2(c.in), "NextPow2(%d)", c.in)
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	t.Parallel()

	assert.False(t, IsPowerOfTwo(0))
	assert.True(t, IsPowerOfTwo(1))
	assert.True(t, IsPowerOfTwo(2))
	assert.False(t, IsPowerOfTwo(3))
	assert.True(t, IsPowerOfTwo(1<<32))
	assert.False(t, IsPowerOfTwo(1<<32+1))
}

func TestLog2(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint(0), Log2(1))
	assert.Equal(t, uint(4), Log2(16))
	assert.Equal(t, uint(8), Log2(256))
}

func TestNormalShardCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 16, NormalShardCount(0), "default is 16 shards")
	assert.Equal(t, 16, NormalShardCount(-3))
	assert.Equal(t, 1, NormalShardCount(1))
	assert.Equal(t, 8, NormalShardCount(5), "rounded up to a power of two")
	assert.Equal(t, 256, NormalShardCount(1000), "clamped to 256")
}

func TestShardIndex(t *testing.T) {
	t.Parallel()

	// Top bits select the shard.
	assert.Equal(t, 0, ShardIndex(0x00000000, 4))
	assert.Equal(t, 15, ShardIndex(0xffffffff, 4))
	assert.Equal(t, 0xb, ShardIndex(0xb0000000, 4))

	// bits == 0 (single shard) always routes to 0.
	assert.Equal(t, 0, ShardIndex(0xdeadbeef, 0))
}
