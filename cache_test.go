package main

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheServesWithinTTL(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	calls := 0
	c := NewTimedCache(time.Minute, func() (int, error) {
		calls++
		return calls, nil
	})
	c.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		v, ok := c.Get()
		if !ok || v != 1 {
			t.Fatalf("Get #%d = (%d,%v), want (1,true)", i, v, ok)
		}
	}
	if calls != 1 {
		t.Fatalf("fetch ran %d times within the TTL, want 1", calls)
	}

	now = now.Add(time.Minute)
	if v, _ := c.Get(); v != 2 {
		t.Fatalf("expired entry returned %d, want refetched 2", v)
	}
	if calls != 2 {
		t.Fatalf("fetch ran %d times after expiry, want 2", calls)
	}
}

func TestCacheFailedFetchLeavesEntryUntouched(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	fail := false
	c := NewTimedCache(time.Minute, func() (string, error) {
		if fail {
			return "partial", errors.New("second step failed")
		}
		return "good", nil
	})
	c.now = func() time.Time { return now }

	if v, ok := c.Get(); !ok || v != "good" {
		t.Fatalf("priming fetch = (%q,%v)", v, ok)
	}
	stamp := c.LastUpdated()

	now = now.Add(2 * time.Minute)
	fail = true
	v, ok := c.Get()
	if !ok || v != "good" {
		t.Fatalf("after failed refresh Get = (%q,%v), want stale (%q,true)", v, ok, "good")
	}
	if !c.LastUpdated().Equal(stamp) {
		t.Fatal("failed fetch moved the timestamp")
	}
	if pv, _ := c.Peek(); pv != "good" {
		t.Fatalf("failed fetch committed %q", pv)
	}
}

func TestCacheEmptyAndFailing(t *testing.T) {
	c := NewTimedCache(time.Minute, func() (int, error) {
		return 0, fmt.Errorf("unreachable")
	})

	if _, ok := c.Get(); ok {
		t.Fatal("never-fetched cache reported ok")
	}
	if _, ok := c.Peek(); ok {
		t.Fatal("Peek reported ok on an empty cache")
	}
}

func TestCacheSingleFetchInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	c := NewTimedCache(time.Minute, func() (int, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-release
		return 42, nil
	})

	go c.Get()
	<-started

	// A reader arriving mid-fetch gets the empty previous state back
	// immediately instead of queuing a second fetch.
	done := make(chan bool, 1)
	go func() {
		_, ok := c.Get()
		done <- ok
	}()
	select {
	case ok := <-done:
		if ok {
			t.Fatal("mid-flight reader saw a value that does not exist yet")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("mid-flight Get blocked behind the fetch")
	}

	close(release)
	deadline := time.After(2 * time.Second)
	for {
		if v, ok := c.Peek(); ok {
			if v != 42 {
				t.Fatalf("committed value %d, want 42", v)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("fetch result never committed")
		case <-time.After(time.Millisecond):
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("%d fetches ran concurrently, want 1", calls)
	}
}
