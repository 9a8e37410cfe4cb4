// Package limiter provides per-key rate limiting based on the Token Bucket
// algorithm with lazy, whole-interval refill.
//
// The primary entry point is the Limiter registry:
//
//	granted, remaining := l.Reduce(key, n)
//
// Reduce reports whether n tokens could be consumed for the key and how many
// tokens remain afterwards. AvailableTokens reports the current budget
// without consuming anything.
//
// # Overview
//
// Each key has a bucket holding tokens:
//
//   - A bucket starts full at Capacity.
//   - Every whole RefillInterval that elapses adds RefillAmount tokens, up
//     to Capacity.
//   - Reduce consumes tokens when enough are available and consumes nothing
//     when they are not. Denial is a normal result, not an error.
//
// Refill is lazy: no background timer runs. Each operation computes the
// refill earned since the bucket was last updated using integer (floor)
// division, so a partial interval never awards tokens. This is a
// correctness rule, not an approximation; it is what makes "R seconds per
// token" an enforceable contract.
//
// # Core Types
//
// Config defines the bucket parameters: Capacity, RefillInterval and
// RefillAmount, all required to be positive. Invalid parameters fail at
// construction, never at call time, and are never silently clamped.
//
// Limiter maps keys to buckets. A key is an opaque string (for example a
// user ID, API key or route) and is never interpreted. The first Reduce or
// bucket-creating operation for a key installs a bucket built from the
// limiter's defaults, or from a per-key override configured with
// WithOverride. Once installed, a key's bucket is never replaced or
// removed.
//
// Bucket is also exported for callers that manage their own keying.
//
// # Concurrency
//
// Limiter is safe for concurrent use. Locking is two-tier: a reader/writer
// lock guards the key-to-bucket map, so lookups of existing keys only share
// a read lock, and each bucket carries its own mutex, so operations on
// different keys never contend. First use of a key performs a
// double-checked insertion: an optimistic read, a speculative bucket built
// without any lock held, and a re-check under the write lock. If another
// goroutine won the race, the speculative bucket is discarded and the
// in-flight consumption is delegated to the winner, so no call's tokens are
// lost and no bucket is ever silently reset by a duplicate insert.
//
// Lock hold time is O(1) arithmetic; no operation blocks indefinitely and
// no timeout or cancellation mechanism is needed.
//
// # Time
//
// The limiter reads time through the Clock interface. The default clock is
// time.Now, whose values carry a monotonic reading, so wall-clock
// adjustments do not distort refill. Tests inject a manual clock with
// WithClock and simulate elapsed time instead of sleeping.
//
// Refill realized by a Reduce call is committed whether or not the call is
// granted: once whole intervals have elapsed, the balance grows and the
// refill clock advances. Repeated denied calls therefore never double-count
// the same elapsed time.
//
// # Configuration
//
// Limiter is configured using the Functional Options pattern:
//
//	l, err := limiter.New(100, time.Second, 10,
//		limiter.WithOverride("batch-import", 1000, time.Second, 100),
//		limiter.WithLogger(logger),
//		limiter.WithRecorder(recorder),
//	)
//
// Supported options:
//
//   - WithClock(Clock): replaces the time source.
//   - WithLogger(*zap.Logger): logs bucket lifecycle events (default: none).
//   - WithRecorder(MetricsRecorder): injects a metrics backend (default:
//     no-op). See pkg/metrics for a Prometheus implementation.
//   - WithOverride(key, capacity, interval, amount): per-key parameters.
//
// # HTTP
//
// Middleware adapts a Limiter into an http.Handler wrapper that consumes
// one token per request, keyed by client IP by default, and answers 429
// with a JSON body when the budget is exhausted.
//
// # Limitations and Notes
//
//   - State is local to the process: restarts start every bucket full, and
//     replicas do not share budgets. Put the limiter behind your own
//     coordination layer if you need a single global limit.
//   - Buckets are never evicted; for unbounded key cardinality, bound the
//     key space before it reaches the limiter.
//   - Waiting and retrying on denial is caller policy; the limiter never
//     blocks or retries internally.
package limiter
