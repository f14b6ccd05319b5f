package reflux

import "github.com/zoobzio/capitan"

// Store lifecycle signals.
var (
	// StoreCreated is emitted when New has built the initial state.
	StoreCreated = capitan.NewSignal(
		"reflux.store.created",
		"Store created with initial state",
	)

	// ReducerReplaced is emitted after ReplaceReducer installs a new reducer.
	ReducerReplaced = capitan.NewSignal(
		"reflux.store.reducer.replaced",
		"Root reducer replaced",
	)
)

// Dispatch signals.
var (
	// ActionDispatched is emitted after a reducer ran and subscribers were notified.
	ActionDispatched = capitan.NewSignal(
		"reflux.dispatch.applied",
		"Action reduced and subscribers notified",
	)

	// DispatchFailed is emitted when an action is invalid or its reducer fails.
	DispatchFailed = capitan.NewSignal(
		"reflux.dispatch.failed",
		"Dispatch failed",
	)

	// DispatchRejected is emitted when a reducer attempts to dispatch.
	DispatchRejected = capitan.NewSignal(
		"reflux.dispatch.rejected",
		"Reentrant dispatch rejected",
	)
)

// Async task signals.
var (
	// TaskStarted is emitted when an async task begins running.
	TaskStarted = capitan.NewSignal(
		"reflux.task.started",
		"Async task started",
	)

	// TaskSucceeded is emitted when an async task completes without error.
	TaskSucceeded = capitan.NewSignal(
		"reflux.task.succeeded",
		"Async task succeeded",
	)

	// TaskFailed is emitted when an async task returns an error.
	TaskFailed = capitan.NewSignal(
		"reflux.task.failed",
		"Async task failed",
	)
)

// Feed signals.
var (
	// FeedStarted is emitted when a Feed begins watching.
	FeedStarted = capitan.NewSignal(
		"reflux.feed.started",
		"Feed watching started",
	)

	// FeedStopped is emitted when a Feed stops watching.
	FeedStopped = capitan.NewSignal(
		"reflux.feed.stopped",
		"Feed watching stopped",
	)

	// FeedStateChanged is emitted when a Feed transitions between states.
	FeedStateChanged = capitan.NewSignal(
		"reflux.feed.state.changed",
		"Feed state transition",
	)

	// FeedBatchReceived is emitted when raw data arrives from the watcher.
	FeedBatchReceived = capitan.NewSignal(
		"reflux.feed.batch.received",
		"Raw batch received from watcher",
	)

	// FeedDecodeFailed is emitted when a batch cannot be decoded.
	FeedDecodeFailed = capitan.NewSignal(
		"reflux.feed.decode.failed",
		"Batch decode failed",
	)

	// FeedValidationFailed is emitted when an envelope fails validation.
	FeedValidationFailed = capitan.NewSignal(
		"reflux.feed.validation.failed",
		"Envelope validation failed",
	)

	// FeedDispatchFailed is emitted when the store rejects a fed action.
	FeedDispatchFailed = capitan.NewSignal(
		"reflux.feed.dispatch.failed",
		"Fed action dispatch failed",
	)

	// FeedBatchApplied is emitted when every action in a batch was dispatched.
	FeedBatchApplied = capitan.NewSignal(
		"reflux.feed.batch.applied",
		"Batch dispatched successfully",
	)
)
