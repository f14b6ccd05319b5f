package reflux

import (
	"sync"
	"time"
)

// Failure records one failed dispatch.
type Failure struct {
	// Kind is the action kind, or the dispatched value's type when it was
	// not an Action.
	Kind string

	// Err is the error returned to the dispatcher.
	Err error

	// At is when the failure occurred, according to the store's clock.
	At time.Time
}

// ring is a thread-safe bounded history, oldest entries evicted first.
// A nil ring discards everything.
type ring[T any] struct {
	mu    sync.RWMutex
	items []T
	head  int
	count int
}

// newRing returns a ring holding up to size entries, or nil if size <= 0.
func newRing[T any](size int) *ring[T] {
	if size <= 0 {
		return nil
	}
	return &ring[T]{items: make([]T, size)}
}

func (r *ring[T]) push(v T) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[r.head] = v
	r.head = (r.head + 1) % len(r.items)
	if r.count < len(r.items) {
		r.count++
	}
}

func (r *ring[T]) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.items)
	r.head = 0
	r.count = 0
}

// all returns the retained entries, oldest first.
func (r *ring[T]) all() []T {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}

	size := len(r.items)
	out := make([]T, r.count)
	start := (r.head - r.count + size) % size
	for i := range out {
		out[i] = r.items[(start+i)%size]
	}
	return out
}
