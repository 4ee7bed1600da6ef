package errors

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	ErrorThreshold      = 0.5
	MinRequests         = 10
	TimeoutDuration     = 30 * time.Second
	HalfOpenMaxRequests = 3
	// ConsecutiveFailures trips the breaker regardless of the window's error rate.
	ConsecutiveFailures = MinRequests
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var (
	ErrCircuitOpen             = errors.New("circuit breaker is open")
	ErrHalfOpenTooManyRequests = errors.New("too many requests in half-open")
)

// CircuitBreaker stops calling a failing upstream until a cool-down has passed.
// It counts only errors that the supplied classifier marks as upstream failures.
type CircuitBreaker struct {
	mu              sync.Mutex
	state           State
	failures        int
	successes       int
	requests        int
	consecutive     int
	windowStart     time.Time
	lastFailureTime time.Time
	now             func() time.Time
	isFailure       func(error) bool
}

func NewCircuitBreaker() *CircuitBreaker {
	return &CircuitBreaker{
		state:     StateClosed,
		now:       time.Now,
		isFailure: func(err error) bool { return err != nil },
	}
}

// WithFailureClassifier replaces the predicate used to decide whether an error trips the breaker.
// Errors rejected by the classifier are returned to the caller but counted as successes.
func (cb *CircuitBreaker) WithFailureClassifier(fn func(error) bool) *CircuitBreaker {
	if fn != nil {
		cb.isFailure = fn
	}
	return cb
}

func (cb *CircuitBreaker) Call(fn func() error) error {
	if fn == nil {
		return nil
	}

	cb.mu.Lock()
	if cb.state == StateOpen {
		if cb.now().Sub(cb.lastFailureTime) >= TimeoutDuration {
			cb.transitionToHalfOpenLocked()
		} else {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
	}

	if cb.state == StateHalfOpen && cb.requests >= HalfOpenMaxRequests {
		cb.mu.Unlock()
		return ErrHalfOpenTooManyRequests
	}
	cb.mu.Unlock()

	callErr := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateClosed {
		cb.rollWindowLocked()
	}

	if callErr != nil && cb.isFailure(callErr) {
		cb.failures++
		cb.requests++
		cb.consecutive++

		if cb.state == StateHalfOpen {
			cb.tripToOpenLocked()
		} else {
			cb.evaluateState()
		}

		return callErr
	}

	cb.successes++
	cb.requests++
	cb.consecutive = 0

	if cb.state == StateHalfOpen && cb.successes >= HalfOpenMaxRequests {
		cb.state = StateClosed
		cb.resetCountersLocked()
	}

	return callErr
}

// rollWindowLocked starts a fresh counting window once TimeoutDuration has passed,
// so the error rate reflects recent traffic only.
func (cb *CircuitBreaker) rollWindowLocked() {
	now := cb.now()
	if cb.windowStart.IsZero() || now.Sub(cb.windowStart) >= TimeoutDuration {
		cb.failures = 0
		cb.successes = 0
		cb.requests = 0
		cb.windowStart = now
	}
}

func (cb *CircuitBreaker) evaluateState() {
	if cb.consecutive >= ConsecutiveFailures {
		cb.tripToOpenLocked()
		return
	}

	if cb.requests < MinRequests {
		return
	}

	errorRate := float64(cb.failures) / float64(cb.requests)
	if errorRate >= ErrorThreshold {
		cb.tripToOpenLocked()
	}
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// HealthCheck reports an error while the breaker is open.
func (cb *CircuitBreaker) HealthCheck(_ context.Context) error {
	if cb.State() == StateOpen {
		return ErrCircuitOpen
	}
	return nil
}

func (cb *CircuitBreaker) resetCountersLocked() {
	cb.failures = 0
	cb.successes = 0
	cb.requests = 0
	cb.consecutive = 0
	cb.windowStart = cb.now()
}

func (cb *CircuitBreaker) transitionToHalfOpenLocked() {
	cb.state = StateHalfOpen
	cb.resetCountersLocked()
}

func (cb *CircuitBreaker) tripToOpenLocked() {
	cb.state = StateOpen
	cb.lastFailureTime = cb.now()
	cb.resetCountersLocked()
}
