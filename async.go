package reflux

import (
	"context"
	"errors"
	"sync"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Task is the outbound I/O collaborator of an async thunk: a request that
// eventually yields exactly one result or one error.
type Task[R any] func(ctx context.Context) (R, error)

// FromCallback adapts a continuation-style collaborator into a Task.
// start must eventually call exactly one of onSuccess or onFailure; any
// later calls are ignored. The Task also returns if ctx ends first.
func FromCallback[R any](start func(ctx context.Context, onSuccess func(R), onFailure func(error))) Task[R] {
	return func(ctx context.Context) (R, error) {
		type outcome struct {
			result R
			err    error
		}
		settled := make(chan outcome, 1)
		var once sync.Once

		start(ctx,
			func(r R) {
				once.Do(func() { settled <- outcome{result: r} })
			},
			func(err error) {
				once.Do(func() { settled <- outcome{err: err} })
			},
		)

		select {
		case o := <-settled:
			return o.result, o.err
		case <-ctx.Done():
			var zero R
			return zero, ctx.Err()
		}
	}
}

// Continuations are the actions an async thunk dispatches around its task.
type Continuations[R any] struct {
	// Request is dispatched synchronously before the task starts. Optional.
	Request Action

	// OnSuccess builds the action dispatched with the task result. Optional.
	OnSuccess func(R) Action

	// OnFailure builds the action dispatched with the task error. Optional.
	OnFailure func(error) Action
}

// Call carries one task invocation through its reliability pipeline.
type Call[R any] struct {
	Result R
}

var taskID = pipz.NewIdentity("reflux:task", "Runs an async task")

// Async builds a thunk that dispatches cont.Request, runs task on a new
// goroutine, and then dispatches the success or failure continuation as a
// new, independent cycle.
//
// The task runs under a context detached from the dispatcher's cancellation:
// a continuation that settles after its caller has gone is still dispatched.
// Use WithTimeout to bound it.
//
// The thunk returns a *Pending[R] immediately.
//
// Example:
//
//	fetchUsers := reflux.Async[State, []User](
//	    func(ctx context.Context) ([]User, error) { return client.Users(ctx) },
//	    reflux.Continuations[[]User]{
//	        Request:   FetchUsersRequest{},
//	        OnSuccess: func(u []User) reflux.Action { return FetchUsersSuccess{Users: u} },
//	        OnFailure: func(err error) reflux.Action { return FetchUsersError{Message: err.Error()} },
//	    },
//	    reflux.WithTimeout[[]User](5*time.Second),
//	)
//	store.Dispatch(ctx, fetchUsers)
func Async[S, R any](task Task[R], cont Continuations[R], opts ...TaskOption[R]) Thunk[S] {
	terminal := pipz.Apply(taskID, func(ctx context.Context, call *Call[R]) (*Call[R], error) {
		result, err := task(ctx)
		if err != nil {
			return call, err
		}
		call.Result = result
		return call, nil
	})
	pipeline := buildTaskPipeline[R](terminal, opts)

	return func(ctx context.Context, dispatch Dispatch, _ func() S) (any, error) {
		if cont.Request != nil {
			if _, err := dispatch(ctx, cont.Request); err != nil {
				return nil, err
			}
		}

		pending := &Pending[R]{done: make(chan struct{})}
		go pending.run(context.WithoutCancel(ctx), pipeline, cont, dispatch)
		return pending, nil
	}
}

// Pending tracks an async task started by an Async thunk.
type Pending[R any] struct {
	done        chan struct{}
	result      R
	err         error
	dispatchErr error
}

// Done is closed once the task settled and its continuation was dispatched.
func (p *Pending[R]) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the task settles or ctx ends, and returns the task
// outcome.
func (p *Pending[R]) Wait(ctx context.Context) (R, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// DispatchErr returns the error from dispatching the continuation, if any.
// Only meaningful after Done is closed.
func (p *Pending[R]) DispatchErr() error {
	select {
	case <-p.done:
		return p.dispatchErr
	default:
		return nil
	}
}

func (p *Pending[R]) run(ctx context.Context, pipeline pipz.Chainable[*Call[R]], cont Continuations[R], dispatch Dispatch) {
	defer close(p.done)

	capitan.Emit(ctx, TaskStarted)

	var follow Action
	out, err := pipeline.Process(ctx, &Call[R]{})
	if err != nil {
		err = taskCause[R](err)
		p.err = err
		capitan.Emit(ctx, TaskFailed,
			KeyError.Field(err.Error()),
		)
		if cont.OnFailure != nil {
			follow = cont.OnFailure(err)
		}
	} else {
		p.result = out.Result
		capitan.Emit(ctx, TaskSucceeded)
		if cont.OnSuccess != nil {
			follow = cont.OnSuccess(out.Result)
		}
	}

	if follow != nil {
		_, p.dispatchErr = dispatch(ctx, follow)
	}
}

// taskCause strips the pipeline envelope so continuations see the error the
// task (or a connector such as the timeout) actually produced.
func taskCause[R any](err error) error {
	var pe *pipz.Error[*Call[R]]
	if errors.As(err, &pe) && pe.Err != nil {
		return pe.Err
	}
	return err
}
