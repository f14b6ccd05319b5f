package reflux

import "fmt"

// Reducer computes the next state from the current state and an action.
// Reducers must be pure: no I/O, no dispatching, and the same (state, action)
// pair always yields an equal result. Unrecognized kinds return state as-is.
//
// A returned error aborts the dispatch; the store keeps its previous state.
type Reducer[S any] func(state S, action Action) (S, error)

// Handler reduces a single action kind.
type Handler[S any] func(state S, action Action) (S, error)

// Cases maps action kinds to handlers. The table is resolved once when
// Reducer is called, so dispatch is a map lookup rather than a branch chain.
//
// Example:
//
//	reducer := reflux.NewCases(CakeState{NumCakes: 10}).
//	    On("BUY_CAKE", func(s CakeState, _ reflux.Action) (CakeState, error) {
//	        s.NumCakes--
//	        return s, nil
//	    }).
//	    Reducer()
type Cases[S any] struct {
	initial  S
	handlers map[string]Handler[S]
}

// NewCases creates an empty case table. The initial state is returned for
// KindInit unless a handler is registered for it.
func NewCases[S any](initial S) *Cases[S] {
	return &Cases[S]{
		initial:  initial,
		handlers: make(map[string]Handler[S]),
	}
}

// On registers a handler for kind, replacing any previous registration.
func (c *Cases[S]) On(kind string, h Handler[S]) *Cases[S] {
	c.handlers[kind] = h
	return c
}

// Reducer freezes the table into a Reducer. Later calls to On do not affect
// reducers already built.
func (c *Cases[S]) Reducer() Reducer[S] {
	table := make(map[string]Handler[S], len(c.handlers))
	for kind, h := range c.handlers {
		table[kind] = h
	}
	initial := c.initial

	return func(state S, action Action) (S, error) {
		kind := action.Kind()
		if h, ok := table[kind]; ok {
			return h(state, action)
		}
		if kind == KindInit {
			return initial, nil
		}
		return state, nil
	}
}

// Handle registers fn under the kind reported by the zero value of A.
// The action is asserted to A before fn runs, so each kind is bound to a
// single payload shape. A must be a value type whose Kind method does not
// depend on its fields.
func Handle[S any, A Action](c *Cases[S], fn func(S, A) (S, error)) *Cases[S] {
	var zero A
	kind := zero.Kind()
	return c.On(kind, func(state S, action Action) (S, error) {
		typed, ok := action.(A)
		if !ok {
			return state, fmt.Errorf("%w: kind %q carries %T, want %T", ErrInvalidAction, kind, action, zero)
		}
		return fn(state, typed)
	})
}
