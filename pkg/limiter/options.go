package limiter

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Option configures a Limiter during New. Options may reject invalid
// configuration, which fails construction.
type Option func(*Limiter) error

// WithClock replaces the limiter's time source. Buckets created by the
// limiter inherit the clock. Useful for deterministic tests.
func WithClock(clk Clock) Option {
	return func(l *Limiter) error {
		if clk == nil {
			return errors.New("limiter: clock must not be nil")
		}
		l.clock = clk
		return nil
	}
}

// WithLogger sets the logger used for bucket lifecycle events.
// The default logger discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Limiter) error {
		if logger == nil {
			return errors.New("limiter: logger must not be nil")
		}
		l.logger = logger
		return nil
	}
}

// WithRecorder injects a custom metrics backend. The default recorder
// does nothing.
func WithRecorder(rec MetricsRecorder) Option {
	return func(l *Limiter) error {
		if rec == nil {
			return errors.New("limiter: recorder must not be nil")
		}
		l.recorder = rec
		return nil
	}
}

// WithOverride gives one key its own bucket parameters instead of the
// defaults. The override takes effect when the key's bucket is first
// created; like the defaults, all parameters must be positive.
func WithOverride(key string, capacity int, refillInterval time.Duration, refillAmount int) Option {
	return func(l *Limiter) error {
		cfg := Config{Capacity: capacity, RefillInterval: refillInterval, RefillAmount: refillAmount}
		if err := cfg.validate(); err != nil {
			return fmt.Errorf("limiter: override for key %q: %w", key, err)
		}
		l.overrides[key] = cfg
		return nil
	}
}
