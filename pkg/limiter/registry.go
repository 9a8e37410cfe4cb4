package limiter

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Limiter is a registry of token buckets, one per key.
//
// A key's bucket is created from the default parameters (or a configured
// override) the first time the key is seen, and is never replaced or
// removed afterwards. Lookups of existing keys take a shared lock on the
// map; only first-use insertion takes the exclusive lock.
type Limiter struct {
	defaults  Config
	overrides map[string]Config

	mu      sync.RWMutex
	buckets map[string]*Bucket

	clock    Clock
	logger   *zap.Logger
	recorder MetricsRecorder
}

// New constructs a Limiter whose buckets default to the given parameters.
// All parameters must be positive; invalid defaults or options surface
// here, never at call time.
func New(defaultCapacity int, defaultRefillInterval time.Duration, defaultRefillAmount int, opts ...Option) (*Limiter, error) {
	l := &Limiter{
		defaults: Config{
			Capacity:       defaultCapacity,
			RefillInterval: defaultRefillInterval,
			RefillAmount:   defaultRefillAmount,
		},
		overrides: make(map[string]Config),
		buckets:   make(map[string]*Bucket),
		clock:     systemClock{},
		logger:    zap.NewNop(),
		recorder:  &NoOpMetricsRecorder{},
	}
	if err := l.defaults.validate(); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// configFor returns the bucket parameters a key would be created with.
// overrides is written only during New and is read-only afterwards.
func (l *Limiter) configFor(key string) Config {
	if cfg, ok := l.overrides[key]; ok {
		return cfg
	}
	return l.defaults
}

// Reduce tries to consume tokens from the bucket for key, creating the
// bucket on first use. It reports whether the consumption was granted and
// the tokens remaining afterwards. A denied call consumes nothing.
func (l *Limiter) Reduce(key string, tokens int) (granted bool, remaining int) {
	start := time.Now()
	granted, remaining = l.reduce(key, tokens)

	result := "denied"
	if granted {
		result = "granted"
	}
	l.recorder.Add("ratelimit.call", 1, map[string]string{"result": result})
	l.recorder.Observe("ratelimit.latency", time.Since(start).Seconds(), nil)
	return granted, remaining
}

func (l *Limiter) reduce(key string, tokens int) (bool, int) {
	// Assume the bucket exists: shared lock only.
	l.mu.RLock()
	b := l.buckets[key]
	l.mu.RUnlock()
	if b != nil {
		return b.Reduce(tokens)
	}

	// First use of this key. Build the bucket and apply the reduce before
	// publishing it; no other goroutine can see it yet.
	fresh := newBucket(l.configFor(key), l.clock)
	granted, remaining := fresh.Reduce(tokens)

	l.mu.Lock()
	if winner, ok := l.buckets[key]; ok {
		// Another goroutine installed a bucket while we held no lock.
		// Discard the speculative bucket and delegate this call's
		// consumption to the winner, so it counts against the real budget
		// instead of silently resetting it.
		l.mu.Unlock()
		return winner.Reduce(tokens)
	}
	l.buckets[key] = fresh
	l.mu.Unlock()

	l.recorder.Add("ratelimit.bucket_created", 1, nil)
	l.logger.Debug("created bucket",
		zap.String("key", key),
		zap.Int("capacity", fresh.capacity),
		zap.Duration("refill_interval", fresh.refillInterval),
		zap.Int("refill_amount", fresh.refillAmount))
	return granted, remaining
}

// AvailableTokens reports the lazily computed token count for key without
// consuming anything. A key that has never been used is assumed full: the
// capacity it would be created with is returned.
func (l *Limiter) AvailableTokens(key string) int {
	l.mu.RLock()
	b := l.buckets[key]
	l.mu.RUnlock()
	if b == nil {
		return l.configFor(key).Capacity
	}
	return b.AvailableTokens()
}
