package main

import (
	"sync"
	"time"
)

// tokenBucket rate-limits control plane requests. The bucket starts
// full at `rate` tokens, refills continuously at `rate` tokens per
// second, and never accumulates beyond `rate`, so a long quiet period
// does not buy an unbounded burst.
type tokenBucket struct {
	mu     sync.Mutex
	rate   float64
	tokens float64
	last   time.Time

	now func() time.Time
}

func newTokenBucket(rate float64) *tokenBucket {
	if rate <= 0 {
		rate = 1
	}
	b := &tokenBucket{rate: rate, tokens: rate, now: time.Now}
	b.last = b.now()
	return b
}

// Allow consumes one token if available.
func (b *tokenBucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill()
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// RetryAfter estimates how long until the next token exists. Used for
// the Retry-After header; rounded up to a whole second, minimum one.
func (b *tokenBucket) RetryAfter() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill()
	if b.tokens >= 1 {
		return time.Second
	}
	wait := time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
	if wait < time.Second {
		return time.Second
	}
	return wait.Round(time.Second)
}

func (b *tokenBucket) refill() {
	now := b.now()
	elapsed := now.Sub(b.last).Seconds()
	b.last = now
	b.tokens += elapsed * b.rate
	if b.tokens > b.rate {
		b.tokens = b.rate
	}
}
