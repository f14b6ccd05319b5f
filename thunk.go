package reflux

import (
	"context"
	"fmt"
)

// Thunk is a deferred computation dispatched in place of an action.
// WithThunk invokes it with the rebound dispatch and a state getter; the
// thunk's result becomes the result of Dispatch.
//
// Example:
//
//	increment := reflux.Thunk[int](func(ctx context.Context, dispatch reflux.Dispatch, getState func() int) (any, error) {
//	    return dispatch(ctx, reflux.Basic{Type: "SET", Payload: getState() + 1})
//	})
//	store.Dispatch(ctx, increment)
type Thunk[S any] func(ctx context.Context, dispatch Dispatch, getState func() S) (any, error)

// WithThunk returns middleware that runs Thunk values, and bare funcs of the
// same signature, instead of forwarding them. Thunks never reach the reducer.
// Every other value is passed to next unchanged.
func WithThunk[S any]() Middleware[S] {
	return func(api API[S]) func(Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				var thunk Thunk[S]
				switch fn := action.(type) {
				case Thunk[S]:
					thunk = fn
				case func(context.Context, Dispatch, func() S) (any, error):
					thunk = fn
				default:
					return next(ctx, action)
				}
				if thunk == nil {
					return nil, fmt.Errorf("%w: nil thunk", ErrInvalidAction)
				}
				return thunk(ctx, api.Dispatch, api.GetState)
			}
		}
	}
}
