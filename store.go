package reflux

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/petermattis/goid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Store holds application state and runs the dispatch cycle: middleware,
// then the reducer, then subscriber notification.
//
// A Store is safe for concurrent use. Cycles started from different
// goroutines are serialized. Dispatches issued synchronously from middleware,
// thunks, or subscribers run inline as nested cycles on the owning goroutine.
// Dispatching from inside a reducer fails with ErrReentrantDispatch.
type Store[S any] struct {
	reducer  Reducer[S]
	chain    Dispatch
	clock    clockz.Clock
	metrics  MetricsProvider
	failures *ring[Failure]

	current   atomic.Pointer[S]
	lastError atomic.Pointer[error]
	phase     atomic.Int32
	ready     atomic.Bool

	// owner is the goroutine id running the current cycle, 0 when idle.
	owner atomic.Int64
	cycle sync.Mutex

	subMu  sync.Mutex
	subs   []subscription
	nextID uint64
}

type subscription struct {
	id uint64
	fn func()
}

// New creates a Store. The initial state is the result of calling reducer
// with the zero value of S and a KindInit action.
//
// Middleware is applied so the first listed is outermost. Dispatching from
// a middleware constructor fails with ErrDispatchDuringSetup.
//
// Example:
//
//	store, err := reflux.New(counter, reflux.WithThunk[int]())
//	if err != nil {
//	    return err
//	}
//	store.Subscribe(func() { fmt.Println(store.GetState()) })
//	store.Dispatch(ctx, reflux.Basic{Type: "INC"})
func New[S any](reducer Reducer[S], middleware ...Middleware[S]) (*Store[S], error) {
	if reducer == nil {
		return nil, fmt.Errorf("%w: reducer is nil", ErrInvalidReducer)
	}
	for i, m := range middleware {
		if m == nil {
			return nil, fmt.Errorf("%w: middleware %d is nil", ErrInvalidReducer, i)
		}
	}

	s := &Store[S]{
		reducer: reducer,
		clock:   clockz.RealClock,
	}

	var zero S
	initial, err := reducer(zero, Basic{Type: KindInit})
	if err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}
	s.current.Store(&initial)

	s.chain = buildChain[S](s, s.base, middleware)
	s.ready.Store(true)

	capitan.Emit(context.Background(), StoreCreated,
		KeyPhase.Field(s.Phase().String()),
	)

	return s, nil
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Clock sets the clock used to time dispatches and stamp failures.
// Use this with clockz.FakeClock for deterministic tests.
// Must be called before the first Dispatch.
func (s *Store[S]) Clock(clock clockz.Clock) *Store[S] {
	s.clock = clock
	return s
}

// Metrics sets a metrics provider for observability integration.
// Must be called before the first Dispatch.
func (s *Store[S]) Metrics(provider MetricsProvider) *Store[S] {
	s.metrics = provider
	return s
}

// ErrorHistorySize sets the number of recent dispatch failures to retain.
// Use 0 (default) to only retain the most recent error via LastError().
// Must be called before the first Dispatch.
func (s *Store[S]) ErrorHistorySize(n int) *Store[S] {
	s.failures = newRing[Failure](n)
	return s
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// GetState returns the current state. It never blocks.
func (s *Store[S]) GetState() S {
	return *s.current.Load()
}

// Phase returns where the store is in its dispatch cycle.
func (s *Store[S]) Phase() Phase {
	return Phase(s.phase.Load())
}

// LastError returns the error from the most recent dispatch, or nil if it
// succeeded.
func (s *Store[S]) LastError() error {
	ptr := s.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// Failures returns recent dispatch failures, oldest first.
// Returns nil if history is not enabled (see ErrorHistorySize).
func (s *Store[S]) Failures() []Failure {
	return s.failures.all()
}

// Subscribers returns the number of registered subscribers.
func (s *Store[S]) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

// -----------------------------------------------------------------------------
// Dispatch
// -----------------------------------------------------------------------------

// Dispatch runs action through the middleware chain and returns the chain's
// result. Without middleware that is the action itself.
//
// The base step rejects values that are not an Action with a non-empty kind
// using ErrInvalidAction. A reducer error is returned wrapped; the state is
// left as it was and subscribers are not notified.
//
// A dispatch made from a subscriber is not queued behind the current
// notification. It runs to completion as a nested cycle before Dispatch
// returns to that subscriber, so subscribers later in the outer snapshot
// are notified of the nested cycle first and then of the outer one.
func (s *Store[S]) Dispatch(ctx context.Context, action any) (any, error) {
	if !s.ready.Load() {
		return nil, ErrDispatchDuringSetup
	}
	return s.exclusive(ctx, kindOf(action), func() (any, error) {
		return s.chain(ctx, action)
	})
}

// ReplaceReducer swaps the root reducer and dispatches KindReplace through
// the new one, bypassing middleware. If that reduction fails the previous
// reducer is restored.
func (s *Store[S]) ReplaceReducer(ctx context.Context, reducer Reducer[S]) error {
	if reducer == nil {
		return fmt.Errorf("%w: reducer is nil", ErrInvalidReducer)
	}
	_, err := s.exclusive(ctx, KindReplace, func() (any, error) {
		previous := s.reducer
		s.reducer = reducer
		result, err := s.apply(ctx, Basic{Type: KindReplace})
		if err != nil {
			s.reducer = previous
			return nil, err
		}
		capitan.Emit(ctx, ReducerReplaced)
		return result, nil
	})
	return err
}

// exclusive runs fn as part of a dispatch cycle. The caller either already
// owns the running cycle, or waits to start a new one.
func (s *Store[S]) exclusive(ctx context.Context, kind string, fn func() (any, error)) (any, error) {
	id := goid.Get()
	if s.owner.Load() == id {
		if s.Phase() == PhaseReducing {
			err := fmt.Errorf("%w: %s", ErrReentrantDispatch, kind)
			capitan.Emit(ctx, DispatchRejected, KeyKind.Field(kind))
			s.fail(ctx, kind, "reentrant", err, s.clock.Now())
			return nil, err
		}
		return fn()
	}

	s.cycle.Lock()
	s.owner.Store(id)
	s.phase.Store(int32(PhaseDispatching))
	defer func() {
		s.phase.Store(int32(PhaseIdle))
		s.owner.Store(0)
		s.cycle.Unlock()
	}()

	return fn()
}

// base is the innermost dispatch: validate, reduce, install, notify.
// Middleware may call next from another goroutine, so base joins the running
// cycle or starts its own.
func (s *Store[S]) base(ctx context.Context, action any) (any, error) {
	a, ok := action.(Action)
	if !ok || a.Kind() == "" {
		kind := kindOf(action)
		err := fmt.Errorf("%w: %s", ErrInvalidAction, kind)
		s.fail(ctx, kind, "validate", err, s.clock.Now())
		return nil, err
	}
	return s.exclusive(ctx, a.Kind(), func() (any, error) {
		return s.apply(ctx, a)
	})
}

func (s *Store[S]) apply(ctx context.Context, a Action) (any, error) {
	start := s.clock.Now()
	kind := a.Kind()

	next, err := s.reduce(a)
	if err != nil {
		err = fmt.Errorf("reducer failed on %s: %w", kind, err)
		s.fail(ctx, kind, "reducer", err, start)
		return nil, err
	}

	s.current.Store(&next)
	s.lastError.Store(nil)
	notified := s.notify()

	duration := s.clock.Since(start)
	capitan.Emit(ctx, ActionDispatched,
		KeyKind.Field(kind),
		KeySubscribers.Field(notified),
		KeyDuration.Field(duration),
	)
	if s.metrics != nil {
		s.metrics.OnNotify(notified)
		s.metrics.OnDispatch(kind, duration)
	}

	return a, nil
}

func (s *Store[S]) reduce(a Action) (S, error) {
	defer s.enter(PhaseReducing)()
	return s.reducer(*s.current.Load(), a)
}

// notify calls a snapshot of the subscriber list taken before the first
// call, so changes made during notification apply from the next cycle.
func (s *Store[S]) notify() int {
	defer s.enter(PhaseNotifying)()

	s.subMu.Lock()
	snapshot := slices.Clone(s.subs)
	s.subMu.Unlock()

	for _, sub := range snapshot {
		sub.fn()
	}
	return len(snapshot)
}

// enter switches phase and returns a func restoring the previous one.
func (s *Store[S]) enter(p Phase) func() {
	prev := s.phase.Swap(int32(p))
	return func() {
		s.phase.Store(prev)
	}
}

func (s *Store[S]) fail(ctx context.Context, kind, stage string, err error, start time.Time) {
	e := err
	s.lastError.Store(&e)
	s.failures.push(Failure{Kind: kind, Err: err, At: s.clock.Now()})
	capitan.Emit(ctx, DispatchFailed,
		KeyKind.Field(kind),
		KeyError.Field(err.Error()),
	)
	if s.metrics != nil {
		s.metrics.OnDispatchFailure(kind, stage, s.clock.Since(start))
	}
}

// -----------------------------------------------------------------------------
// Subscriptions
// -----------------------------------------------------------------------------

// Subscribe registers fn to be called after every completed dispatch, in
// registration order. Registering the same func twice yields two independent
// registrations. The returned func removes this registration only and may be
// called any number of times.
//
// fn may dispatch. The nested cycle notifies every subscriber before the
// outer notification resumes, so with subscribers A then B, A dispatching
// once yields the call order A, A, B, B. Reading GetState at each call
// always observes the latest state.
func (s *Store[S]) Subscribe(fn func()) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool {
				return sub.id == id
			})
		})
	}
}

// kindOf names a dispatched value for errors and signals.
func kindOf(action any) string {
	if a, ok := action.(Action); ok {
		if kind := a.Kind(); kind != "" {
			return kind
		}
	}
	return fmt.Sprintf("%T", action)
}
