package ingest

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func failing() error { return errBoom }
func succeeding() error { return nil }

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)

	for i := 0; i < 3; i++ {
		if err := cb.Call(failing); !errors.Is(err, errBoom) {
			t.Fatalf("call %d: expected underlying error, got %v", i, err)
		}
	}

	// Threshold reached: calls fail fast without invoking fn.
	invoked := false
	err := cb.Call(func() error { invoked = true; return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if invoked {
		t.Error("open breaker must not invoke the function")
	}
}

func TestCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)
	now := time.Unix(1000, 0)
	cb.now = func() time.Time { return now }

	cb.Call(failing)
	if err := cb.Call(succeeding); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open breaker, got %v", err)
	}

	// After the timeout a probe call is allowed; success closes the
	// breaker again.
	now = now.Add(2 * time.Minute)
	if err := cb.Call(succeeding); err != nil {
		t.Errorf("expected probe success, got %v", err)
	}
	if err := cb.Call(succeeding); err != nil {
		t.Errorf("expected closed breaker, got %v", err)
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)
	now := time.Unix(1000, 0)
	cb.now = func() time.Time { return now }

	cb.Call(failing)
	now = now.Add(2 * time.Minute)

	// Probe fails: breaker reopens immediately.
	if err := cb.Call(failing); !errors.Is(err, errBoom) {
		t.Fatalf("expected probe to run, got %v", err)
	}
	if err := cb.Call(succeeding); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected reopened breaker, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute)

	cb.Call(failing)
	cb.Call(succeeding)
	cb.Call(failing)

	// Failures never reached the threshold consecutively.
	if err := cb.Call(succeeding); err != nil {
		t.Errorf("expected closed breaker, got %v", err)
	}
}
