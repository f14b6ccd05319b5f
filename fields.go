package reflux

import "github.com/zoobzio/capitan"

// Field keys for store, task, and feed events.
var (
	// KeyKind is the kind of the action involved.
	KeyKind = capitan.NewStringKey("kind")

	// KeyPhase is the store phase at the time of the event.
	KeyPhase = capitan.NewStringKey("phase")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeySubscribers is the number of subscribers notified.
	KeySubscribers = capitan.NewIntKey("subscribers")

	// KeyDuration is how long the operation took.
	KeyDuration = capitan.NewDurationKey("duration")

	// KeyActions is the number of actions in a fed batch.
	KeyActions = capitan.NewIntKey("actions")

	// KeyState is the current state of a Feed.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")
)
