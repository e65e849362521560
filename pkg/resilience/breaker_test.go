package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerOpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(DefaultBreakerConfig("test"))

	for i := 0; i < 4; i++ {
		cb.Failure()
		assert.Equal(t, StateClosed, cb.State())
	}
	cb.Failure()
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow())
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(DefaultBreakerConfig("test"))

	cb.Failure()
	cb.Failure()
	cb.Success()
	for i := 0; i < 4; i++ {
		cb.Failure()
	}
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerHalfOpenAfterResetTimeout(t *testing.T) {
	cb := NewCircuitBreaker(DefaultBreakerConfig("test"))
	now := time.Now()
	cb.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		cb.Failure()
	}
	assert.False(t, cb.Allow())

	now = now.Add(31 * time.Second)
	assert.True(t, cb.Allow())
	assert.Equal(t, StateHalfOpen, cb.State())
}

func TestBreakerClosesOnHalfOpenSuccess(t *testing.T) {
	cb := NewCircuitBreaker(DefaultBreakerConfig("test"))
	now := time.Now()
	cb.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		cb.Failure()
	}
	now = now.Add(31 * time.Second)
	assert.True(t, cb.Allow())

	cb.Success()
	assert.Equal(t, StateClosed, cb.State())
	assert.True(t, cb.Allow())
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := NewCircuitBreaker(DefaultBreakerConfig("test"))
	now := time.Now()
	cb.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		cb.Failure()
	}
	now = now.Add(31 * time.Second)
	assert.True(t, cb.Allow())

	cb.Failure()
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow())
}
