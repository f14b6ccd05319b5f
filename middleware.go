package reflux

import "context"

// Dispatch sends a value through a dispatch chain. The value is usually an
// Action; middleware such as WithThunk accept other shapes. The result is
// whatever the chain returns, which for the base step is the action itself.
type Dispatch func(ctx context.Context, action any) (any, error)

// API is the view of a Store handed to middleware.
type API[S any] interface {
	// GetState returns the current state.
	GetState() S

	// Dispatch re-enters the full chain from the outermost middleware, so
	// middleware-issued dispatches are treated exactly like external ones.
	Dispatch(ctx context.Context, action any) (any, error)
}

// Middleware intercepts dispatch. Given the store API it returns a wrapper
// that receives the next dispatch in the chain and returns a new one.
//
// A middleware may forward the action unchanged, transform it, short-circuit
// by not calling next, or call next later from another goroutine.
//
// Example:
//
//	func trace[S any](log *[]string) reflux.Middleware[S] {
//	    return func(_ reflux.API[S]) func(reflux.Dispatch) reflux.Dispatch {
//	        return func(next reflux.Dispatch) reflux.Dispatch {
//	            return func(ctx context.Context, action any) (any, error) {
//	                *log = append(*log, "enter")
//	                defer func() { *log = append(*log, "exit") }()
//	                return next(ctx, action)
//	            }
//	        }
//	    }
//	}
type Middleware[S any] func(api API[S]) func(next Dispatch) Dispatch

// buildChain wraps base with middleware so that the first-listed middleware
// is outermost: [m1, m2, m3] yields m1(m2(m3(base))).
func buildChain[S any](api API[S], base Dispatch, middleware []Middleware[S]) Dispatch {
	chain := base
	for i := len(middleware) - 1; i >= 0; i-- {
		chain = middleware[i](api)(chain)
	}
	return chain
}
