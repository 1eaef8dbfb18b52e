package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/IvanBrykalov/lrucache/internal/singleflight"
	"github.com/IvanBrykalov/lrucache/internal/util"
)

// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
var ErrNoLoader = errors.New("cache: no Loader provided")

// ErrClosed is returned by GetOrLoad after Close.
var ErrClosed = errors.New("cache: closed")

// cache routes every key to one of a fixed power-of-two number of
// shards by the top bits of its hash. The hash is computed once per
// operation and passed down so shards never rehash.
type cache struct {
	shards    []*shard
	shardBits uint
	opt       Options
	closed    atomic.Bool

	// idMu guards the NewID counter, independent of shard locks.
	idMu   sync.Mutex
	lastID uint64

	// singleflight group coalescing concurrent loads in GetOrLoad.
	sf singleflight.Group[string, Handle]
}

// New constructs a cache with the provided Options. Total capacity is
// split evenly across shards (ceil), so each shard evicts on its own
// slice of the budget. Panics if Capacity <= 0.
func New(opt Options) Cache {
	if opt.Capacity <= 0 {
		panic("cache: Capacity must be > 0")
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}

	n := util.NormalShardCount(opt.Shards)
	perShard := (int64(opt.Capacity) + int64(n) - 1) / int64(n)
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = newShard(perShard, opt.Metrics)
	}

	return &cache{
		shards:    shards,
		shardBits: util.Log2(uint64(n)),
		opt:       opt,
	}
}

// ---- Cache implementation ----

func (c *cache) Insert(key string, value any, charge int, deleter Deleter) Handle {
	if charge < 0 {
		charge = 0
	}
	hash := util.Hash(key, 0)
	if c.closed.Load() {
		// The cache takes no ownership anymore, but Insert still
		// succeeds: hand back a detached entry pinned only by this
		// handle. Release routes by hash and destroys it as usual.
		// Charge is zeroed since it was never added to any budget.
		return Handle{&entry{key: key, hash: hash, value: value, deleter: deleter, refs: 1}}
	}
	return c.shard(hash).insert(key, hash, value, charge, deleter)
}

func (c *cache) Lookup(key string) (Handle, bool) {
	if c.closed.Load() {
		return Handle{}, false
	}
	hash := util.Hash(key, 0)
	return c.shard(hash).lookup(key, hash)
}

func (c *cache) Release(h Handle) {
	c.shard(h.e.hash).release(h.e)
}

func (c *cache) Erase(key string) {
	if c.closed.Load() {
		return
	}
	hash := util.Hash(key, 0)
	c.shard(hash).erase(key, hash)
}

// GetOrLoad returns a handle for key; on miss it loads via
// Options.Loader, coalescing concurrent loads for the same key.
//
// Only the flight leader receives the freshly inserted handle; each
// follower takes its own reference through a retry of the lookup. The
// loop terminates because every iteration completes at least its
// leader, and it rarely runs more than twice in practice (a follower
// retries only when the loaded entry was evicted before it looked up).
func (c *cache) GetOrLoad(ctx context.Context, key string) (Handle, error) {
	for {
		if c.closed.Load() {
			return Handle{}, ErrClosed
		}
		if h, ok := c.Lookup(key); ok {
			return h, nil
		}
		if c.opt.Loader == nil {
			return Handle{}, ErrNoLoader
		}

		h, leader, err := c.sf.Do(ctx, key, func() (Handle, error) {
			// Double-check after winning the flight.
			if h, ok := c.Lookup(key); ok {
				return h, nil
			}
			value, charge, err := c.opt.Loader(ctx, key)
			if err != nil {
				return Handle{}, err
			}
			return c.Insert(key, value, charge, c.opt.Deleter), nil
		})
		if err != nil {
			return Handle{}, err
		}
		if leader {
			return h, nil
		}
	}
}

// NewID returns the next value of a counter shared across all shards.
// Starts at 0; the first call returns 1. Values are never reused.
func (c *cache) NewID() uint64 {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	c.lastID++
	return c.lastID
}

func (c *cache) Len() int {
	total := 0
	for _, s := range c.shards {
		n, _ := s.snapshot()
		total += n
	}
	return total
}

func (c *cache) Usage() int64 {
	var total int64
	for _, s := range c.shards {
		_, u := s.snapshot()
		total += u
	}
	return total
}

func (c *cache) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		n, u := s.snapshot()
		st.Entries += n
		st.Usage += u
		st.Hits += s.hits.Load()
		st.Misses += s.misses.Load()
		st.Evictions += s.evicts.Load()
	}
	return st
}

// Close drops every in-cache reference. Entries pinned by outstanding
// handles stay alive until released; their survival past Close is a
// caller bug and is reported as an error.
func (c *cache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	pinned := 0
	for _, s := range c.shards {
		pinned += s.drain()
	}
	if pinned > 0 {
		return fmt.Errorf("cache: closed with %d entries still pinned", pinned)
	}
	return nil
}

// ---- helpers ----

// shard picks a shard by the hash's top bits. With shardBits == 0 the
// shift is >= 32 and the index is always 0.
func (c *cache) shard(hash uint32) *shard {
	return c.shards[util.ShardIndex(hash, c.shardBits)]
}
