package reflux

import (
	"context"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance.
var validate = validator.New()

// WithValidation returns middleware that checks struct actions against their
// `validate` tags before they reach the reducer. Failures are reported as
// ErrInvalidAction wrapping the validator's errors; state is untouched and
// no subscriber fires. Non-struct actions and thunks pass through.
//
// Example:
//
//	type Deposit struct {
//	    Amount int `validate:"gt=0"`
//	}
//
//	func (Deposit) Kind() string { return "DEPOSIT" }
func WithValidation[S any]() Middleware[S] {
	return func(_ API[S]) func(Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				if a, ok := action.(Action); ok && isStruct(a) {
					if err := validate.StructCtx(ctx, a); err != nil {
						return nil, fmt.Errorf("%w: %s: %w", ErrInvalidAction, a.Kind(), err)
					}
				}
				return next(ctx, action)
			}
		}
	}
}

// isStruct reports whether v is a struct or a non-nil pointer to one.
func isStruct(v any) bool {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct
}
