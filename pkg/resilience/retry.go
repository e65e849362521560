package resilience

import (
	"context"
	"time"
)

// RetryPolicy describes a bounded retry loop with exponential backoff.
// MaxRetries counts retries, not attempts: MaxRetries=2 means up to 3 calls.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Multiplier float64
	MaxDelay   time.Duration
}

// DefaultRetryPolicy returns the policy used for gateway calls: two retries
// with 1s and 2s delays.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  time.Second,
		Multiplier: 2,
		MaxDelay:   30 * time.Second,
	}
}

// Delay returns the backoff before retry number attempt (0-based)
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d = time.Duration(float64(d) * mult)
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Retryable classifies an error: return true to retry, false to fail immediately
type Retryable func(error) bool

// RetryAlways retries on any error
func RetryAlways(error) bool { return true }

// Retry runs fn with the given policy. The loop is explicit and bounded; the
// backoff sleep respects context cancellation. Non-retryable errors are
// returned immediately without consuming further attempts.
func Retry(ctx context.Context, policy RetryPolicy, retryable Retryable, fn func(ctx context.Context) error) error {
	if retryable == nil {
		retryable = RetryAlways
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) || attempt >= policy.MaxRetries {
			return err
		}

		timer := time.NewTimer(policy.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
