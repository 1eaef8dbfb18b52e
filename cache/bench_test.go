package cache

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"
)

// benchmarkMix exercises a read/write mix against a warm cache.
// It uses parallel workers (RunParallel spawns GOMAXPROCS goroutines).
// String keys include strconv/concat costs and often allocate, which is
// fine for an end-to-end benchmark.
func benchmarkMix(b *testing.B, readsPct int) {
	c := New(Options{
		Capacity: 100_000,
	})
	b.Cleanup(func() { _ = c.Close() })

	// Preload half the capacity to get a realistic hit-rate.
	for i := 0; i < 50_000; i++ {
		k := "k:" + strconv.Itoa(i)
		c.Release(c.Insert(k, "v", 1, nil))
	}

	// Report per-op allocations for a rough idea where costs go.
	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 16) - 1 // hot keyspace (power of two for fast &-mask)

	b.RunParallel(func(pb *testing.PB) {
		// Independent RNG stream for each worker.
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := "k:" + strconv.Itoa(i&keyMask)
			if r.Intn(100) < readsPct {
				if h, ok := c.Lookup(k); ok {
					c.Release(h)
				}
			} else {
				c.Release(c.Insert(k, "v", 1, nil))
			}
			i++
		}
	})
}

func BenchmarkCache_90r10w(b *testing.B) { benchmarkMix(b, 90) }
func BenchmarkCache_50r50w(b *testing.B) { benchmarkMix(b, 50) }

// BenchmarkCache_PinnedRead measures the lookup/release cycle while a
// slice of the keyspace stays pinned, the steady state of a block cache
// serving concurrent readers.
func BenchmarkCache_PinnedRead(b *testing.B) {
	c := New(Options{Capacity: 10_000})
	b.Cleanup(func() { _ = c.Close() })

	pinned := make([]Handle, 0, 1_000)
	for i := 0; i < 10_000; i++ {
		h := c.Insert("k:"+strconv.Itoa(i), i, 1, nil)
		if i < cap(pinned) {
			pinned = append(pinned, h)
		} else {
			c.Release(h)
		}
	}
	defer func() {
		for _, h := range pinned {
			c.Release(h)
		}
	}()

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			k := "k:" + strconv.Itoa(i%10_000)
			if h, ok := c.Lookup(k); ok {
				c.Release(h)
			}
			i++
		}
	})
}

func BenchmarkNewID(b *testing.B) {
	c := New(Options{Capacity: 16})
	b.Cleanup(func() { _ = c.Close() })

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.NewID()
		}
	})
}
