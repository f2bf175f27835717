package util

import (
	"context"
	"time"
)

// RetryPolicy runs an operation up to MaxAttempts times with exponentially
// doubling delays between attempts. Retryable decides per error whether
// another attempt is worthwhile; a nil predicate retries everything. Sleep is
// injectable so tests can observe backoff without waiting.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Retryable   func(error) bool
	Sleep       func(time.Duration)
}

func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	delay := p.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}
		if ctx.Err() != nil {
			return lastErr
		}
		sleep(delay)
		delay *= 2
	}

	return lastErr
}
