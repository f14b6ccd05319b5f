package reflux

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key store and feed events.
type MetricsProvider interface {
	// OnDispatch is called after an action was reduced and subscribers were
	// notified. Duration covers the reducer and notification.
	OnDispatch(kind string, duration time.Duration)

	// OnDispatchFailure is called when the base dispatch step fails.
	// Stage is one of "validate", "reentrant", or "reducer".
	OnDispatchFailure(kind, stage string, duration time.Duration)

	// OnNotify is called with the number of subscribers notified in a cycle.
	OnNotify(subscribers int)

	// OnFeedStateChange is called when a Feed transitions between states.
	OnFeedStateChange(from, to FeedState)

	// OnFeedReceived is called when a Feed receives a raw batch.
	OnFeedReceived()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnDispatch(_ string, _ time.Duration)           {}
func (NoOpMetricsProvider) OnDispatchFailure(_, _ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnNotify(_ int)                                 {}
func (NoOpMetricsProvider) OnFeedStateChange(_, _ FeedState)               {}
func (NoOpMetricsProvider) OnFeedReceived()                                {}
