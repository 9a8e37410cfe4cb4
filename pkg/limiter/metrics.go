package limiter

// MetricsRecorder receives the counters and observations emitted by a
// Limiter. Implementations must be safe for concurrent use.
//
// Emitted events:
//
//   - "ratelimit.call": counter, incremented once per Reduce, tagged with
//     result=granted or result=denied.
//   - "ratelimit.latency": observation of the Reduce duration in seconds.
//   - "ratelimit.bucket_created": counter, incremented when a key's bucket
//     is installed.
type MetricsRecorder interface {
	Add(name string, value float64, tags map[string]string)
	Observe(name string, value float64, tags map[string]string)
}

// NoOpMetricsRecorder is a placeholder that does nothing.
// It ensures we never have to check 'if r.recorder != nil' in our hot path.
type NoOpMetricsRecorder struct{}

func (n *NoOpMetricsRecorder) Add(name string, value float64, tags map[string]string)     {}
func (n *NoOpMetricsRecorder) Observe(name string, value float64, tags map[string]string) {}
