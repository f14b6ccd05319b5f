// Package testing provides test utilities and helpers for reflux stores.
package testing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/reflux"
)

// Counter kinds understood by CounterReducer.
const (
	KindIncrement = "INC"
	KindDecrement = "DEC"
	KindSet       = "SET"
)

// CounterReducer is the canonical test reducer: INC adds one, DEC subtracts
// one, SET replaces the state with an int payload. Every other kind is a
// no-op.
func CounterReducer(state int, action reflux.Action) (int, error) {
	switch action.Kind() {
	case KindIncrement:
		return state + 1, nil
	case KindDecrement:
		return state - 1, nil
	case KindSet:
		if b, ok := action.(reflux.Basic); ok {
			if v, ok := b.Payload.(int); ok {
				return v, nil
			}
		}
		return state, nil
	default:
		return state, nil
	}
}

// Inc returns an INC action.
func Inc() reflux.Basic { return reflux.Basic{Type: KindIncrement} }

// Dec returns a DEC action.
func Dec() reflux.Basic { return reflux.Basic{Type: KindDecrement} }

// Set returns a SET action carrying v.
func Set(v int) reflux.Basic { return reflux.Basic{Type: KindSet, Payload: v} }

// NewTestStore creates a counter store and fails the test if construction fails.
func NewTestStore(t *testing.T, middleware ...reflux.Middleware[int]) *reflux.Store[int] {
	t.Helper()
	s, err := reflux.New(CounterReducer, middleware...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

// MustDispatch dispatches each action and fails the test on the first error.
func MustDispatch[S any](t *testing.T, s *reflux.Store[S], actions ...any) {
	t.Helper()
	ctx := context.Background()
	for _, a := range actions {
		if _, err := s.Dispatch(ctx, a); err != nil {
			t.Fatalf("Dispatch(%v) failed: %v", a, err)
		}
	}
}

// RequireState fails the test immediately if the store does not hold want.
func RequireState[S comparable](t *testing.T, s *reflux.Store[S], want S) {
	t.Helper()
	if got := s.GetState(); got != want {
		t.Fatalf("expected state %v, got %v", want, got)
	}
}

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// WaitForState waits until the store holds want or timeout occurs.
func WaitForState[S comparable](t *testing.T, s *reflux.Store[S], want S, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return s.GetState() == want
	})
}

// Recorder subscribes to a store and records the state seen at every
// notification.
type Recorder[S any] struct {
	mu          sync.Mutex
	states      []S
	unsubscribe func()
}

// Record attaches a new Recorder to s.
func Record[S any](s *reflux.Store[S]) *Recorder[S] {
	r := &Recorder[S]{}
	r.unsubscribe = s.Subscribe(func() {
		state := s.GetState()
		r.mu.Lock()
		r.states = append(r.states, state)
		r.mu.Unlock()
	})
	return r
}

// States returns a copy of the recorded states, oldest first.
func (r *Recorder[S]) States() []S {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]S, len(r.states))
	copy(out, r.states)
	return out
}

// Count returns the number of notifications recorded.
func (r *Recorder[S]) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

// Stop detaches the recorder from its store.
func (r *Recorder[S]) Stop() {
	r.unsubscribe()
}
