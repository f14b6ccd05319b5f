package reflux

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Feed watches a source for batches of encoded actions and dispatches them
// into a Store, in order, as ordinary external dispatches.
//
// Each batch is decoded and validated in full before its first action is
// dispatched, so a malformed batch dispatches nothing. If the store rejects
// an action mid-batch, the actions before it stay applied and the rest are
// dropped.
type Feed[S any] struct {
	store          *Store[S]
	watcher        Watcher
	startupTimeout time.Duration
	syncMode       bool
	clock          clockz.Clock
	codec          Codec
	metrics        MetricsProvider
	onStop         func(FeedState)

	state        atomic.Int32
	applied      atomic.Bool
	dispatched   atomic.Int64
	lastError    atomic.Pointer[error]
	errorHistory *ring[error]

	mu      sync.Mutex
	started bool

	// For sync mode: channel to receive batches
	changes <-chan []byte
}

// NewFeed creates a Feed that dispatches batches from watcher into store.
//
// Example:
//
//	feed := reflux.NewFeed(store, reflux.NewFileWatcher("actions.yaml")).
//	    Codec(reflux.YAMLCodec{})
//
//	if err := feed.Start(ctx); err != nil {
//	    log.Printf("initial batch failed: %v", err)
//	}
func NewFeed[S any](store *Store[S], watcher Watcher) *Feed[S] {
	f := &Feed[S]{
		store:   store,
		watcher: watcher,
		clock:   clockz.RealClock,
		codec:   JSONCodec{},
	}
	f.state.Store(int32(FeedLoading))
	return f
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// SyncMode enables synchronous processing for testing. Start applies only
// the initial batch; call Process to apply each following one.
// Must be called before Start().
func (f *Feed[S]) SyncMode() *Feed[S] {
	f.syncMode = true
	return f
}

// Clock sets a custom clock for time operations.
// Must be called before Start().
func (f *Feed[S]) Clock(clock clockz.Clock) *Feed[S] {
	f.clock = clock
	return f
}

// Codec sets the codec for decoding batches.
// Default: JSONCodec. Must be called before Start().
func (f *Feed[S]) Codec(codec Codec) *Feed[S] {
	f.codec = codec
	return f
}

// StartupTimeout sets the maximum duration to wait for the initial batch.
// Default: no timeout. Must be called before Start().
func (f *Feed[S]) StartupTimeout(d time.Duration) *Feed[S] {
	f.startupTimeout = d
	return f
}

// Metrics sets a metrics provider for observability integration.
// Must be called before Start().
func (f *Feed[S]) Metrics(provider MetricsProvider) *Feed[S] {
	f.metrics = provider
	return f
}

// OnStop sets a callback invoked with the final state when the feed stops
// watching. Must be called before Start().
func (f *Feed[S]) OnStop(fn func(FeedState)) *Feed[S] {
	f.onStop = fn
	return f
}

// ErrorHistorySize sets the number of recent errors to retain.
// Use 0 (default) to only retain the most recent error via LastError().
// Must be called before Start().
func (f *Feed[S]) ErrorHistorySize(n int) *Feed[S] {
	f.errorHistory = newRing[error](n)
	return f
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// State returns the current state of the Feed.
func (f *Feed[S]) State() FeedState {
	return FeedState(f.state.Load())
}

// Dispatched returns the number of actions the Feed has dispatched.
func (f *Feed[S]) Dispatched() int64 {
	return f.dispatched.Load()
}

// LastError returns the last error encountered, or nil after a successful batch.
func (f *Feed[S]) LastError() error {
	ptr := f.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns the recent error history, oldest first.
// Returns nil if error history is not enabled (see ErrorHistorySize).
func (f *Feed[S]) ErrorHistory() []error {
	return f.errorHistory.all()
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Start begins watching. It blocks until the first batch is processed
// (success or failure), then continues watching asynchronously.
//
// If the initial batch fails, Start returns the error but keeps watching.
// Start can only be called once. Subsequent calls return an error.
func (f *Feed[S]) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return errors.New("feed already started")
	}
	f.started = true
	f.mu.Unlock()

	capitan.Emit(ctx, FeedStarted)

	changes, err := f.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	startupCtx := ctx
	if f.startupTimeout > 0 {
		var cancel context.CancelFunc
		startupCtx, cancel = f.clock.WithTimeout(ctx, f.startupTimeout)
		defer cancel()
	}

	var initialErr error
	select {
	case <-startupCtx.Done():
		if f.startupTimeout > 0 && errors.Is(startupCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("startup timeout: watcher did not emit initial batch within %v", f.startupTimeout)
		}
		return startupCtx.Err()
	case raw, ok := <-changes:
		if !ok {
			return errors.New("watcher closed before emitting initial batch")
		}
		f.received(ctx)
		initialErr = f.process(ctx, raw)
	}

	if f.syncMode {
		f.changes = changes
		return initialErr
	}

	go f.watch(ctx, changes)

	return initialErr
}

// Process reads and applies the next batch from the watcher.
// Only available in sync mode. Returns false if no batch is waiting or the
// channel is closed.
func (f *Feed[S]) Process(ctx context.Context) bool {
	if !f.syncMode {
		return false
	}

	select {
	case raw, ok := <-f.changes:
		if !ok {
			return false
		}
		f.received(ctx)
		_ = f.process(ctx, raw) //nolint:errcheck // Errors stored via failed
		return true
	default:
		return false
	}
}

func (f *Feed[S]) received(ctx context.Context) {
	capitan.Emit(ctx, FeedBatchReceived)
	if f.metrics != nil {
		f.metrics.OnFeedReceived()
	}
}

// process decodes, validates, and dispatches one batch.
func (f *Feed[S]) process(ctx context.Context, raw []byte) error {
	oldState := f.State()

	batch, err := decodeBatch(f.codec, raw)
	if err != nil {
		f.failed(ctx, oldState, err)
		capitan.Emit(ctx, FeedDecodeFailed, KeyError.Field(err.Error()))
		return err
	}

	for i := range batch {
		if err := validate.StructCtx(ctx, batch[i]); err != nil {
			err = fmt.Errorf("envelope %d: %w", i, err)
			f.failed(ctx, oldState, err)
			capitan.Emit(ctx, FeedValidationFailed, KeyError.Field(err.Error()))
			return err
		}
	}

	for i, action := range batch {
		if _, err := f.store.Dispatch(ctx, action); err != nil {
			err = fmt.Errorf("dispatch envelope %d (%s): %w", i, action.Type, err)
			f.failed(ctx, oldState, err)
			capitan.Emit(ctx, FeedDispatchFailed,
				KeyKind.Field(action.Type),
				KeyError.Field(err.Error()),
			)
			return err
		}
		f.dispatched.Add(1)
	}

	f.applied.Store(true)
	f.lastError.Store(nil)
	f.errorHistory.clear()
	f.transitionState(ctx, oldState, FeedHealthy)
	capitan.Emit(ctx, FeedBatchApplied,
		KeyActions.Field(len(batch)),
	)

	return nil
}

func (f *Feed[S]) failed(ctx context.Context, oldState FeedState, err error) {
	e := err
	f.lastError.Store(&e)
	f.errorHistory.push(err)
	f.transitionState(ctx, oldState, f.failureState())
}

// failureState picks Empty until a batch has been applied, Degraded after.
func (f *Feed[S]) failureState() FeedState {
	if !f.applied.Load() {
		return FeedEmpty
	}
	return FeedDegraded
}

func (f *Feed[S]) transitionState(ctx context.Context, oldState, newState FeedState) {
	if oldState == newState {
		return
	}
	f.state.Store(int32(newState))
	capitan.Emit(ctx, FeedStateChanged,
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
	if f.metrics != nil {
		f.metrics.OnFeedStateChange(oldState, newState)
	}
}

// watch applies batches in arrival order until the channel closes or ctx ends.
// Batches are never coalesced: every action must reach the store.
func (f *Feed[S]) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		finalState := f.State()
		capitan.Emit(ctx, FeedStopped,
			KeyState.Field(finalState.String()),
		)
		if f.onStop != nil {
			f.onStop(finalState)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-changes:
			if !ok {
				return
			}
			f.received(ctx)
			_ = f.process(ctx, raw) //nolint:errcheck // Errors stored via failed
		}
	}
}
