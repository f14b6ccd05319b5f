package reflux

import "errors"

var (
	// ErrInvalidReducer is returned when a store or combinator is built from
	// a nil reducer, a nil middleware, or an empty slice map.
	ErrInvalidReducer = errors.New("reflux: invalid reducer")

	// ErrInvalidAction is returned when a dispatched value is not an Action
	// with a non-empty kind and no middleware consumed it.
	ErrInvalidAction = errors.New("reflux: invalid action")

	// ErrReentrantDispatch is returned when a reducer dispatches.
	ErrReentrantDispatch = errors.New("reflux: reducers may not dispatch actions")

	// ErrDispatchDuringSetup is returned when a middleware dispatches while
	// the chain is still being constructed.
	ErrDispatchDuringSetup = errors.New("reflux: dispatch while constructing middleware")

	// ErrEmptyBatch is returned when a fed batch holds no actions.
	ErrEmptyBatch = errors.New("reflux: empty action batch")

	// ErrPublisherClosed is returned when publishing to a closed Publisher.
	ErrPublisherClosed = errors.New("reflux: publisher closed")

	// ErrSliceType is returned when a combined slice holds a value of an
	// unexpected type.
	ErrSliceType = errors.New("reflux: unexpected slice type")
)
