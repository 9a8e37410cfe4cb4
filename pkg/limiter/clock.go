package limiter

import "time"

// Clock is the limiter's time source.
//
// The default clock reads time.Now. Values returned by time.Now carry a
// monotonic reading, so wall-clock adjustments do not distort the elapsed
// time used for refill. Inject a fake clock with WithClock to simulate
// elapsed time in tests without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
