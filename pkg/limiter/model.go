package limiter

import (
	"fmt"
	"time"
)

// Config holds the token-bucket parameters applied to a key.
//
// All three fields must be positive. Capacity is the maximum number of
// tokens a bucket can hold; RefillAmount tokens are added for every whole
// RefillInterval that elapses.
type Config struct {
	Capacity       int
	RefillInterval time.Duration
	RefillAmount   int
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("limiter: capacity must be positive, got %d", c.Capacity)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("limiter: refill interval must be positive, got %v", c.RefillInterval)
	}
	if c.RefillAmount <= 0 {
		return fmt.Errorf("limiter: refill amount must be positive, got %d", c.RefillAmount)
	}
	return nil
}
