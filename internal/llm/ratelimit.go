package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// rateLimiter paces requests with a lazily refilled token bucket. Tokens
// accrue with elapsed time, so there is no background goroutine to manage.
type rateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	perSecond  float64
	lastTopUp  time.Time
	pollPeriod time.Duration
}

func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &rateLimiter{
		tokens:     float64(requestsPerMinute),
		capacity:   float64(requestsPerMinute),
		perSecond:  float64(requestsPerMinute) / 60.0,
		lastTopUp:  time.Now(),
		pollPeriod: 100 * time.Millisecond,
	}
}

// wait blocks until a token is available or the context is canceled.
func (rl *rateLimiter) wait(ctx context.Context) error {
	for {
		if rl.take() {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
		case <-time.After(rl.pollPeriod):
		}
	}
}

func (rl *rateLimiter) take() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.tokens += now.Sub(rl.lastTopUp).Seconds() * rl.perSecond
	if rl.tokens > rl.capacity {
		rl.tokens = rl.capacity
	}
	rl.lastTopUp = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}
