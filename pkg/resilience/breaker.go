package resilience

import (
	"errors"
	"sync"
	"time"
)

// BreakerState is the current state of a circuit breaker
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "CLOSED"
	}
}

// ErrBreakerOpen is returned when the breaker rejects a call without attempting it
var ErrBreakerOpen = errors.New("circuit breaker is open")

// BreakerConfig holds circuit breaker tuning parameters
type BreakerConfig struct {
	Name             string
	FailureThreshold int           // consecutive failures before CLOSED -> OPEN
	SuccessThreshold int           // consecutive successes before HALF_OPEN -> CLOSED
	ResetTimeout     time.Duration // how long OPEN fast-fails before allowing a trial call
}

// DefaultBreakerConfig returns the defaults used for gateway and backend calls
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 1,
		ResetTimeout:     30 * time.Second,
	}
}

// CircuitBreaker stops calls to a failing dependency for a cooldown period.
// CLOSED passes calls through, OPEN fast-fails without touching the network,
// HALF_OPEN lets trial calls through after the reset timeout elapses.
type CircuitBreaker struct {
	mu           sync.Mutex
	name         string
	state        BreakerState
	failures     int
	successes    int
	lastFailure  time.Time
	failureLimit int
	successLimit int
	resetTimeout time.Duration
	now          func() time.Time
}

// NewCircuitBreaker creates a breaker in the CLOSED state
func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 30 * time.Second
	}
	return &CircuitBreaker{
		name:         cfg.Name,
		state:        StateClosed,
		failureLimit: cfg.FailureThreshold,
		successLimit: cfg.SuccessThreshold,
		resetTimeout: cfg.ResetTimeout,
		now:          time.Now,
	}
}

// Allow reports whether a call may proceed. While OPEN it returns false until
// the reset timeout elapses, at which point the breaker moves to HALF_OPEN and
// lets a trial call through.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if cb.now().Sub(cb.lastFailure) >= cb.resetTimeout {
			cb.state = StateHalfOpen
			cb.successes = 0
			return true
		}
		return false
	}
	return true
}

// Success records a successful call
func (cb *CircuitBreaker) Success() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	if cb.state == StateHalfOpen {
		cb.successes++
		if cb.successes >= cb.successLimit {
			cb.state = StateClosed
			cb.successes = 0
		}
	}
}

// Failure records a failed call. Any failure while HALF_OPEN reopens the
// breaker and restarts the reset timer.
func (cb *CircuitBreaker) Failure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailure = cb.now()
	if cb.state == StateHalfOpen {
		cb.state = StateOpen
		cb.failures = 0
		cb.successes = 0
		return
	}

	cb.failures++
	if cb.failures >= cb.failureLimit {
		cb.state = StateOpen
		cb.failures = 0
	}
}

// State returns the current breaker state
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Name returns the breaker's name for logging
func (cb *CircuitBreaker) Name() string {
	return cb.name
}
