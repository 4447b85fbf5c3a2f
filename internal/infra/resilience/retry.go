package resilience

import (
	"context"
	"math"
	"time"
)

// SleepFunc waits for d or until ctx is cancelled; injectable for tests.
type SleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryPolicy is an exponential-backoff envelope: delays follow
// min(base * factor^attempt, maxDelay) with a cap on additional attempts.
// MaxRetries = 0 means "try once".
type RetryPolicy struct {
	maxRetries    int
	baseDelay     time.Duration
	backoffFactor float64
	maxDelay      time.Duration
	sleep         SleepFunc
}

func NewRetryPolicy(maxRetries int, baseDelay time.Duration, backoffFactor float64, maxDelay time.Duration, sleep SleepFunc) *RetryPolicy {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if backoffFactor < 1 {
		backoffFactor = 1
	}
	if maxDelay <= 0 {
		maxDelay = 60 * time.Second
	}
	if sleep == nil {
		sleep = defaultSleep
	}
	return &RetryPolicy{
		maxRetries:    maxRetries,
		baseDelay:     baseDelay,
		backoffFactor: backoffFactor,
		maxDelay:      maxDelay,
		sleep:         sleep,
	}
}

// Execute runs fn, retrying on error until the attempt cap is reached.
// Exhaustion returns the last error unchanged.
func (p *RetryPolicy) Execute(ctx context.Context, fn func(context.Context) error) error {
	attempt := 0
	for {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= p.maxRetries {
			return err
		}

		delay := p.delayFor(attempt)
		attempt++
		if sleepErr := p.sleep(ctx, delay); sleepErr != nil {
			return err
		}
	}
}

func (p *RetryPolicy) delayFor(attempt int) time.Duration {
	scaled := float64(p.baseDelay) * math.Pow(p.backoffFactor, float64(attempt))
	if scaled > float64(p.maxDelay) {
		return p.maxDelay
	}
	return time.Duration(scaled)
}
