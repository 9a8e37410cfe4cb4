package limiter

import (
	"fmt"
	"time"
)

func ExampleLimiter() {
	l, err := New(5, time.Second, 1)
	if err != nil {
		panic(err)
	}

	granted, remaining := l.Reduce("user_123", 2)
	fmt.Println(granted, remaining)

	fmt.Println(l.AvailableTokens("user_123"))
	// Output:
	// true 3
	// 3
}
