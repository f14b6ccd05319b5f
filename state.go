package reflux

// Phase is the point a Store has reached in its dispatch cycle.
type Phase int32

const (
	// PhaseIdle indicates no dispatch is in progress.
	PhaseIdle Phase = iota

	// PhaseDispatching indicates an action is travelling through middleware.
	PhaseDispatching

	// PhaseReducing indicates the reducer is running. Dispatching from here
	// fails with ErrReentrantDispatch.
	PhaseReducing

	// PhaseNotifying indicates subscribers are being called.
	PhaseNotifying
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDispatching:
		return "dispatching"
	case PhaseReducing:
		return "reducing"
	case PhaseNotifying:
		return "notifying"
	default:
		return "unknown"
	}
}

// FeedState represents the current state of a Feed.
type FeedState int32

const (
	// FeedLoading indicates the Feed has not yet processed a batch.
	FeedLoading FeedState = iota

	// FeedHealthy indicates the last batch was decoded and dispatched.
	FeedHealthy

	// FeedDegraded indicates the last batch failed after an earlier one
	// succeeded. Actions from earlier batches remain applied.
	FeedDegraded

	// FeedEmpty indicates no batch has ever been applied. The Feed keeps
	// watching for a valid one.
	FeedEmpty
)

// String returns the string representation of the feed state.
func (s FeedState) String() string {
	switch s {
	case FeedLoading:
		return "loading"
	case FeedHealthy:
		return "healthy"
	case FeedDegraded:
		return "degraded"
	case FeedEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
