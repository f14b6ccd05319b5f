package reflux

import (
	"context"

	"github.com/zoobzio/pipz"
)

var pipelineID = pipz.NewIdentity("reflux:pipeline", "Action processing pipeline")

// WithPipeline returns middleware that runs every Action through processors
// in order before passing the result to next. A processor error aborts the
// dispatch before the reducer runs. Values that are not Actions, such as
// thunks, pass through untouched.
//
// Use the Use* functions to build processors, or provide any
// pipz.Chainable[Action].
//
// Example:
//
//	store, _ := reflux.New(reducer,
//	    reflux.WithThunk[State](),
//	    reflux.WithPipeline[State](
//	        reflux.UseEffect("audit", auditFn),
//	        reflux.UseTransform("stamp", stampFn),
//	    ),
//	)
func WithPipeline[S any](processors ...pipz.Chainable[Action]) Middleware[S] {
	sequence := pipz.NewSequence(pipelineID, processors...)

	return func(_ API[S]) func(Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				a, ok := action.(Action)
				if !ok {
					return next(ctx, action)
				}
				processed, err := sequence.Process(ctx, a)
				if err != nil {
					return nil, err
				}
				return next(ctx, processed)
			}
		}
	}
}

// UseTransform creates a processor that rewrites the action. Cannot fail.
func UseTransform(name string, fn func(context.Context, Action) Action) pipz.Chainable[Action] {
	return pipz.Transform(pipz.NewIdentity(name, "Action transform"), fn)
}

// UseApply creates a processor that can rewrite the action or reject it.
func UseApply(name string, fn func(context.Context, Action) (Action, error)) pipz.Chainable[Action] {
	return pipz.Apply(pipz.NewIdentity(name, "Action apply"), fn)
}

// UseEffect creates a processor that observes the action and passes it
// through unchanged. A returned error rejects the action.
func UseEffect(name string, fn func(context.Context, Action) error) pipz.Chainable[Action] {
	return pipz.Effect(pipz.NewIdentity(name, "Action effect"), fn)
}
