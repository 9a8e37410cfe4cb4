package limiter

import (
	"sync"
	"time"
)

// Bucket holds the token budget for a single key.
//
// Refill is lazy: no background timer runs. Every operation derives the
// tokens earned since lastUpdate from the elapsed time, in whole
// RefillInterval steps only. A partial interval awards nothing.
//
// Bucket is safe for concurrent use; a Limiter gives each key its own
// Bucket so that traffic on different keys never contends.
type Bucket struct {
	mu sync.Mutex

	capacity       int
	refillInterval time.Duration
	refillAmount   int

	// available lags the logically available tokens between operations.
	// It is refreshed from the elapsed time on every call.
	available  int
	lastUpdate time.Time

	clock Clock
}

// NewBucket constructs a full bucket. All parameters must be positive;
// anything else is a configuration error reported here, never clamped.
func NewBucket(capacity int, refillInterval time.Duration, refillAmount int) (*Bucket, error) {
	cfg := Config{Capacity: capacity, RefillInterval: refillInterval, RefillAmount: refillAmount}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return newBucket(cfg, systemClock{}), nil
}

// newBucket assumes cfg has been validated.
func newBucket(cfg Config, clk Clock) *Bucket {
	return &Bucket{
		capacity:       cfg.Capacity,
		refillInterval: cfg.RefillInterval,
		refillAmount:   cfg.RefillAmount,
		available:      cfg.Capacity,
		lastUpdate:     clk.Now(),
		clock:          clk,
	}
}

// Reset refills the bucket to capacity and restarts the refill clock.
func (b *Bucket) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset(b.clock.Now())
}

func (b *Bucket) reset(now time.Time) {
	b.available = b.capacity
	b.lastUpdate = now
}

// refillDue returns the tokens earned since lastUpdate. Integer division
// keeps the arithmetic on whole intervals: elapsed time short of a full
// RefillInterval awards nothing.
func (b *Bucket) refillDue(now time.Time) int {
	elapsed := now.Sub(b.lastUpdate)
	if elapsed < b.refillInterval {
		return 0
	}
	return int(elapsed/b.refillInterval) * b.refillAmount
}

// AvailableTokens reports the tokens a Reduce call would see right now.
// It is read-only: lastUpdate is not advanced, so polling the bucket never
// delays future refill.
func (b *Bucket) AvailableTokens() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	available := b.available + b.refillDue(b.clock.Now())
	if available > b.capacity {
		available = b.capacity
	}
	return available
}

// Reduce tries to consume tokens from the bucket. It reports whether the
// consumption was granted and the tokens remaining afterwards. A denied
// call consumes nothing; tokens <= 0 is granted trivially without
// consuming.
//
// Refill realized by the call is committed in both branches: once whole
// intervals have elapsed, available grows and lastUpdate moves to now.
// Repeated denied calls therefore never double-count the same elapsed
// time, at the cost of discarding sub-interval progress whenever a refill
// lands.
func (b *Bucket) Reduce(tokens int) (granted bool, remaining int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reduce(tokens, b.clock.Now())
}

func (b *Bucket) reduce(tokens int, now time.Time) (bool, int) {
	if refill := b.refillDue(now); refill > 0 {
		b.available += refill
		b.lastUpdate = now
		if b.available > b.capacity {
			// Collapse to a full bucket with a fresh clock rather than a
			// plain clamp, matching Reset semantics on overflow.
			b.reset(now)
		}
	}
	if tokens <= 0 {
		return true, b.available
	}
	if tokens > b.available {
		return false, b.available
	}
	b.available -= tokens
	b.lastUpdate = now
	return true, b.available
}
