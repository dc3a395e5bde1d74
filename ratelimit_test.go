package main

import (
	"testing"
	"time"
)

func testBucket(rate float64) (*tokenBucket, *time.Time) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	b := newTokenBucket(rate)
	b.now = func() time.Time { return now }
	b.last = now
	return b, &now
}

func TestBucketBurstThenDeny(t *testing.T) {
	b, _ := testBucket(5)

	for i := 0; i < 5; i++ {
		if !b.Allow() {
			t.Fatalf("request %d denied inside the initial burst", i+1)
		}
	}
	if b.Allow() {
		t.Fatal("request 6 allowed with an empty bucket")
	}
}

func TestBucketRefills(t *testing.T) {
	b, now := testBucket(5)

	for i := 0; i < 5; i++ {
		b.Allow()
	}

	// One token per 200ms at rate 5.
	*now = now.Add(200 * time.Millisecond)
	if !b.Allow() {
		t.Fatal("token not refilled after 1/rate seconds")
	}
	if b.Allow() {
		t.Fatal("more than one token refilled in 1/rate seconds")
	}
}

func TestBucketCapsAtRate(t *testing.T) {
	b, now := testBucket(3)

	*now = now.Add(time.Hour)
	allowed := 0
	for i := 0; i < 10; i++ {
		if b.Allow() {
			allowed++
		}
	}
	if allowed != 3 {
		t.Fatalf("idle hour bought a burst of %d, want cap of 3", allowed)
	}
}

func TestRetryAfterAtLeastOneSecond(t *testing.T) {
	b, _ := testBucket(5)
	for i := 0; i < 5; i++ {
		b.Allow()
	}
	if got := b.RetryAfter(); got < time.Second {
		t.Fatalf("RetryAfter = %v, want >= 1s", got)
	}
}

func TestRetryAfterSlowRate(t *testing.T) {
	// A quarter-rate bucket starts with 0.25 tokens, three seconds
	// short of a whole one.
	b, _ := testBucket(0.25)
	if b.Allow() {
		t.Fatal("fractional token should not satisfy a request")
	}
	if got := b.RetryAfter(); got != 3*time.Second {
		t.Fatalf("RetryAfter = %v, want 3s", got)
	}
}

func TestZeroRateCoercedToOne(t *testing.T) {
	b, _ := testBucket(0)
	if !b.Allow() {
		t.Fatal("coerced bucket denied its single token")
	}
	if b.Allow() {
		t.Fatal("coerced bucket held more than one token")
	}
}
