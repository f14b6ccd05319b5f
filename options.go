package reflux

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// TaskOption wraps the pipeline an Async thunk runs its task through.
// The store core has no retry or timeout policy of its own; each async task
// opts into the reliability patterns it needs.
type TaskOption[R any] func(pipz.Chainable[*Call[R]]) pipz.Chainable[*Call[R]]

// Identities for task pipeline stages.
var (
	retryID          = pipz.NewIdentity("reflux:retry", "Retries a failed task")
	backoffID        = pipz.NewIdentity("reflux:backoff", "Retries a failed task with exponential backoff")
	timeoutID        = pipz.NewIdentity("reflux:timeout", "Bounds task duration")
	circuitBreakerID = pipz.NewIdentity("reflux:circuit-breaker", "Rejects tasks after repeated failures")
	rateLimiterID    = pipz.NewIdentity("reflux:rate-limiter", "Limits task start rate")
	fallbackID       = pipz.NewIdentity("reflux:fallback", "Falls back to an alternate task")
	fallbackTaskID   = pipz.NewIdentity("reflux:fallback-task", "Runs the fallback task")
	errorHandlerID   = pipz.NewIdentity("reflux:error-handler", "Observes task failures")
)

// buildTaskPipeline wraps a terminal with task options, first option innermost.
func buildTaskPipeline[R any](terminal pipz.Chainable[*Call[R]], opts []TaskOption[R]) pipz.Chainable[*Call[R]] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// WithRetry retries a failed task immediately up to maxAttempts times.
// For exponential backoff between attempts, use WithBackoff instead.
func WithRetry[R any](maxAttempts int) TaskOption[R] {
	return func(p pipz.Chainable[*Call[R]]) pipz.Chainable[*Call[R]] {
		return pipz.NewRetry(retryID, p, maxAttempts)
	}
}

// WithBackoff retries a failed task with increasing delays: baseDelay,
// 2*baseDelay, 4*baseDelay, and so on.
func WithBackoff[R any](maxAttempts int, baseDelay time.Duration) TaskOption[R] {
	return func(p pipz.Chainable[*Call[R]]) pipz.Chainable[*Call[R]] {
		return pipz.NewBackoff(backoffID, p, maxAttempts, baseDelay)
	}
}

// WithTimeout fails the task if it runs longer than d. The failure
// continuation is dispatched with the timeout error.
func WithTimeout[R any](d time.Duration) TaskOption[R] {
	return func(p pipz.Chainable[*Call[R]]) pipz.Chainable[*Call[R]] {
		return pipz.NewTimeout(timeoutID, p, d)
	}
}

// WithCircuitBreaker opens after 'failures' consecutive failures and rejects
// further runs of the same thunk until 'recovery' has passed.
//
// The breaker lives in the thunk built by Async, so every dispatch of that
// thunk shares it.
func WithCircuitBreaker[R any](failures int, recovery time.Duration) TaskOption[R] {
	return func(p pipz.Chainable[*Call[R]]) pipz.Chainable[*Call[R]] {
		return pipz.NewCircuitBreaker(circuitBreakerID, p, failures, recovery)
	}
}

// WithRateLimit delays task starts to at most rate per second with the
// given burst, shared by every dispatch of the thunk.
func WithRateLimit[R any](rate float64, burst int) TaskOption[R] {
	return func(p pipz.Chainable[*Call[R]]) pipz.Chainable[*Call[R]] {
		return pipz.NewRateLimiter(rateLimiterID, rate, burst, p)
	}
}

// WithFallback runs fallback if the wrapped pipeline fails.
func WithFallback[R any](fallback Task[R]) TaskOption[R] {
	alternate := pipz.Apply(fallbackTaskID, func(ctx context.Context, call *Call[R]) (*Call[R], error) {
		result, err := fallback(ctx)
		if err != nil {
			return call, err
		}
		call.Result = result
		return call, nil
	})
	return func(p pipz.Chainable[*Call[R]]) pipz.Chainable[*Call[R]] {
		return pipz.NewFallback[*Call[R]](fallbackID, p, alternate)
	}
}

// WithErrorHandler passes task failures to handler for logging or alerting.
// The error still propagates to the failure continuation.
func WithErrorHandler[R any](handler pipz.Chainable[*pipz.Error[*Call[R]]]) TaskOption[R] {
	return func(p pipz.Chainable[*Call[R]]) pipz.Chainable[*Call[R]] {
		return pipz.NewHandle(errorHandlerID, p, handler)
	}
}
