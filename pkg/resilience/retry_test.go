package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		Multiplier: 2,
		MaxDelay:   10 * time.Millisecond,
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastPolicy(2), RetryAlways, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	boom := errors.New("still failing")
	err := Retry(context.Background(), fastPolicy(2), RetryAlways, func(ctx context.Context) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls) // 1 attempt + 2 retries
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	terminal := errors.New("terminal")
	err := Retry(context.Background(), fastPolicy(5), func(err error) bool {
		return !errors.Is(err, terminal)
	}, func(ctx context.Context) error {
		calls++
		return terminal
	})

	assert.ErrorIs(t, err, terminal)
	assert.Equal(t, 1, calls)
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	policy := RetryPolicy{MaxRetries: 5, BaseDelay: time.Hour, Multiplier: 2}

	err := Retry(ctx, policy, RetryAlways, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDelayGrowsExponentiallyAndCaps(t *testing.T) {
	policy := RetryPolicy{
		MaxRetries: 10,
		BaseDelay:  time.Second,
		Multiplier: 2,
		MaxDelay:   5 * time.Second,
	}

	assert.Equal(t, time.Second, policy.Delay(0))
	assert.Equal(t, 2*time.Second, policy.Delay(1))
	assert.Equal(t, 4*time.Second, policy.Delay(2))
	assert.Equal(t, 5*time.Second, policy.Delay(3))
	assert.Equal(t, 5*time.Second, policy.Delay(8))
}
