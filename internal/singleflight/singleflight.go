package singleflight

import (
	"context"
	"sync"
)

// Group coalesces concurrent function calls for the same key K so that
// the supplied fn is executed at most once. Other concurrent callers
// wait for the shared outcome.
//
// The leader is the only caller that receives fn's value: when V is a
// resource carrying ownership (a refcounted handle, an open file), the
// value cannot simply be fanned out to every waiter, each of whom would
// then release it once. Followers instead learn that the flight
// finished (and with what error) and are expected to re-acquire the
// resource themselves, usually via a cheap lookup.
//
// Concurrency notes:
//   - The first caller for a given key becomes the leader and runs fn.
//   - Followers wait on c.done. Publishing err happens-before
//     close(c.done), so reads after <-done observe the final value.
//   - Cancelling ctx in a follower unblocks only that follower; it does
//     NOT cancel the leader's fn. If you need cancellation of the work,
//     pass ctx into fn and handle it there.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call
}

type call struct {
	done chan struct{} // closed when err is published
	err  error
}

// Do runs fn once for the given key. Concurrent calls with the same key
// wait for the flight to finish. leader reports whether this caller ran
// fn; only then is v meaningful. Followers receive the flight's error
// (so a failed load is not retried by every waiter) and the zero V.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func() (V, error)) (v V, leader bool, err error) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call)
	}
	if c, ok := g.m[key]; ok {
		done := c.done
		g.mu.Unlock()

		var zero V
		select {
		case <-done:
			return zero, false, c.err
		case <-ctx.Done():
			return zero, false, ctx.Err()
		}
	}

	// We are the leader for this key.
	c := &call{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	// Execute fn outside the lock.
	v, err = fn()

	// Publish the outcome and wake followers.
	c.err = err
	close(c.done)

	// Remove the in-flight marker.
	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()

	return v, true, err
}
