package reflux

import (
	"fmt"
	"reflect"
	"sort"
)

// Tree is the whole state of a store built on Combine: one entry per slice.
type Tree map[string]any

// Combine builds a reducer over a Tree from per-slice reducers.
//
// Every slice reducer sees every action along with its own slice of the
// previous tree. Slices run in name order and must not depend on each other.
// When no slice changes, the previous Tree is returned as-is; otherwise a new
// Tree is built and the previous one is left untouched.
//
// The first slice error aborts the reduction and is returned wrapped with
// the slice name.
//
// Example:
//
//	root, err := reflux.Combine(map[string]reflux.Reducer[any]{
//	    "cake":   reflux.Slice(cakeReducer),
//	    "cookie": reflux.Slice(cookieReducer),
//	})
func Combine(slices map[string]Reducer[any]) (Reducer[Tree], error) {
	if len(slices) == 0 {
		return nil, fmt.Errorf("%w: combine requires at least one slice", ErrInvalidReducer)
	}

	names := make([]string, 0, len(slices))
	reducers := make(map[string]Reducer[any], len(slices))
	for name, r := range slices {
		if r == nil {
			return nil, fmt.Errorf("%w: slice %q is nil", ErrInvalidReducer, name)
		}
		names = append(names, name)
		reducers[name] = r
	}
	sort.Strings(names)

	return func(state Tree, action Action) (Tree, error) {
		changed := len(state) != len(names)
		next := make(Tree, len(names))

		for _, name := range names {
			prev, present := state[name]
			value, err := reducers[name](prev, action)
			if err != nil {
				return state, fmt.Errorf("slice %q: %w", name, err)
			}
			next[name] = value
			if !changed && (!present || !same(prev, value)) {
				changed = true
			}
		}

		if !changed {
			return state, nil
		}
		return next, nil
	}, nil
}

// Slice adapts a typed reducer for use with Combine. A missing slice is
// passed to r as the zero value of T.
func Slice[T any](r Reducer[T]) Reducer[any] {
	return func(state any, action Action) (any, error) {
		var current T
		if state != nil {
			typed, ok := state.(T)
			if !ok {
				return state, fmt.Errorf("%w: have %T, want %T", ErrSliceType, state, current)
			}
			current = typed
		}
		return r(current, action)
	}
}

// Select returns the named slice of a Tree with its concrete type.
func Select[T any](tree Tree, name string) (T, bool) {
	v, ok := tree[name].(T)
	return v, ok
}

// same reports whether a slice reducer handed back its previous value.
// Reference types compare by identity, comparable values by equality.
func same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Func:
		return false
	}

	if va.Comparable() {
		return va.Equal(vb)
	}
	return false
}
