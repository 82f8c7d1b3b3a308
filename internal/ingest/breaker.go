package ingest

import (
	"errors"
	"fmt"
	"time"
)

// ErrCircuitOpen is returned when the breaker rejects a call without
// attempting it.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// CircuitBreaker stops hammering a failing upstream. After
// failureThreshold consecutive failures the circuit opens; after timeout
// a single probe call is allowed through (half-open) and a success closes
// the circuit again.
type CircuitBreaker struct {
	failureThreshold int
	timeout          time.Duration

	state       breakerState
	failures    int
	lastFailure time.Time
	now         func() time.Time
}

// NewCircuitBreaker creates a closed breaker.
func NewCircuitBreaker(failureThreshold int, timeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		timeout:          timeout,
		now:              time.Now,
	}
}

// Call executes fn under breaker protection.
func (b *CircuitBreaker) Call(fn func() error) error {
	if b.state == stateOpen {
		if b.now().Sub(b.lastFailure) < b.timeout {
			return fmt.Errorf("%w: retry after %s", ErrCircuitOpen, b.timeout)
		}
		b.state = stateHalfOpen
	}

	err := fn()
	if err != nil {
		b.failures++
		b.lastFailure = b.now()
		if b.state == stateHalfOpen || b.failures >= b.failureThreshold {
			b.state = stateOpen
		}
		return err
	}

	b.state = stateClosed
	b.failures = 0
	return nil
}
