package singleflight

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Exactly one caller runs fn and reports leader=true; followers get the
// flight's error but never its value.
func TestGroup_LeaderRunsOnce(t *testing.T) {
	var g Group[string, int]
	var calls int64

	const n = 32
	start := make(chan struct{})
	release := make(chan struct{})

	var leaders, followers atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, leader, err := g.Do(context.Background(), "k", func() (int, error) {
				atomic.AddInt64(&calls, 1)
				<-release // hold the flight open so everyone coalesces
				return 42, nil
			})
			if err != nil {
				t.Errorf("Do: %v", err)
				return
			}
			if leader {
				leaders.Add(1)
				if v != 42 {
					t.Errorf("leader v = %d, want 42", v)
				}
			} else {
				followers.Add(1)
				if v != 0 {
					t.Errorf("follower must get the zero value, got %d", v)
				}
			}
		}()
	}

	close(start)
	time.Sleep(10 * time.Millisecond) // let callers pile onto the flight
	close(release)
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("fn ran %d times, want 1", got)
	}
	if leaders.Load() != 1 {
		t.Fatalf("leaders = %d, want 1", leaders.Load())
	}
	if leaders.Load()+followers.Load() != n {
		t.Fatalf("leaders+followers = %d, want %d", leaders.Load()+followers.Load(), n)
	}
}

// A flight error reaches followers so they do not retry a known-bad load.
func TestGroup_ErrorSharedWithFollowers(t *testing.T) {
	var g Group[string, int]
	boom := errors.New("boom")

	release := make(chan struct{})
	errs := make(chan error, 1)
	go func() {
		_, _, err := g.Do(context.Background(), "k", func() (int, error) {
			<-release
			return 0, boom
		})
		errs <- err
	}()

	// Wait until the leader's flight is registered.
	for {
		g.mu.Lock()
		_, inFlight := g.m["k"]
		g.mu.Unlock()
		if inFlight {
			break
		}
		time.Sleep(time.Millisecond)
	}

	followerErr := make(chan error, 1)
	go func() {
		// Returns boom either way, so the assertion below holds even if
		// this caller raced past the flight and led its own.
		_, _, err := g.Do(context.Background(), "k", func() (int, error) {
			return 0, boom
		})
		followerErr <- err
	}()

	time.Sleep(10 * time.Millisecond) // let the second caller join the flight
	close(release)
	if err := <-errs; !errors.Is(err, boom) {
		t.Fatalf("leader err = %v, want boom", err)
	}
	if err := <-followerErr; !errors.Is(err, boom) {
		t.Fatalf("follower err = %v, want boom", err)
	}
}

// Cancelling a follower's context unblocks only that follower.
func TestGroup_FollowerCancellation(t *testing.T) {
	var g Group[string, int]

	release := make(chan struct{})
	leaderDone := make(chan struct{})
	go func() {
		defer close(leaderDone)
		v, leader, err := g.Do(context.Background(), "k", func() (int, error) {
			<-release
			return 7, nil
		})
		if !leader || err != nil || v != 7 {
			t.Errorf("leader got v=%d leader=%v err=%v", v, leader, err)
		}
	}()

	for {
		g.mu.Lock()
		_, inFlight := g.m["k"]
		g.mu.Unlock()
		if inFlight {
			break
		}
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Do(ctx, "k", func() (int, error) { return 0, nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled follower err = %v, want context.Canceled", err)
	}

	close(release)
	<-leaderDone
}
