package reflux

import (
	"errors"
	"testing"
)

type cakeState struct {
	NumCakes int
}

type buyCake struct {
	Count int
}

func (buyCake) Kind() string { return "BUY_CAKE" }

type restock struct{}

func (restock) Kind() string { return "RESTOCK" }

func TestCases_Reducer(t *testing.T) {
	reducer := NewCases(cakeState{NumCakes: 10}).
		On("BUY_CAKE", func(s cakeState, _ Action) (cakeState, error) {
			s.NumCakes--
			return s, nil
		}).
		Reducer()

	tests := []struct {
		name   string
		state  cakeState
		action Action
		want   int
	}{
		{name: "init returns initial", state: cakeState{}, action: Basic{Type: KindInit}, want: 10},
		{name: "registered kind", state: cakeState{NumCakes: 10}, action: Basic{Type: "BUY_CAKE"}, want: 9},
		{name: "unknown kind", state: cakeState{NumCakes: 4}, action: Basic{Type: "BUY_ICECREAM"}, want: 4},
		{name: "replace without handler", state: cakeState{NumCakes: 3}, action: Basic{Type: KindReplace}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reducer(tt.state, tt.action)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.NumCakes != tt.want {
				t.Errorf("expected %d cakes, got %d", tt.want, got.NumCakes)
			}
		})
	}
}

func TestCases_InitHandlerOverridesInitial(t *testing.T) {
	reducer := NewCases(1).
		On(KindInit, func(int, Action) (int, error) { return 99, nil }).
		Reducer()

	got, _ := reducer(0, Basic{Type: KindInit})
	if got != 99 {
		t.Errorf("expected 99, got %d", got)
	}
}

func TestCases_ReducerIsFrozen(t *testing.T) {
	cases := NewCases(0)
	reducer := cases.Reducer()
	cases.On("INC", func(s int, _ Action) (int, error) { return s + 1, nil })

	got, _ := reducer(5, Basic{Type: "INC"})
	if got != 5 {
		t.Errorf("expected frozen reducer to ignore later handlers, got %d", got)
	}

	got, _ = cases.Reducer()(5, Basic{Type: "INC"})
	if got != 6 {
		t.Errorf("expected new reducer to see handler, got %d", got)
	}
}

func TestCases_HandlerError(t *testing.T) {
	boom := errors.New("sold out")
	reducer := NewCases(cakeState{}).
		On("BUY_CAKE", func(s cakeState, _ Action) (cakeState, error) { return s, boom }).
		Reducer()

	if _, err := reducer(cakeState{}, Basic{Type: "BUY_CAKE"}); !errors.Is(err, boom) {
		t.Errorf("expected handler error, got %v", err)
	}
}

func TestHandle(t *testing.T) {
	cases := NewCases(cakeState{NumCakes: 10})
	Handle(cases, func(s cakeState, a buyCake) (cakeState, error) {
		s.NumCakes -= a.Count
		return s, nil
	})
	Handle(cases, func(s cakeState, _ restock) (cakeState, error) {
		s.NumCakes = 10
		return s, nil
	})
	reducer := cases.Reducer()

	state, err := reducer(cakeState{NumCakes: 10}, buyCake{Count: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.NumCakes != 7 {
		t.Errorf("expected 7, got %d", state.NumCakes)
	}

	state, _ = reducer(state, restock{})
	if state.NumCakes != 10 {
		t.Errorf("expected 10 after restock, got %d", state.NumCakes)
	}
}

func TestHandle_MismatchedPayload(t *testing.T) {
	cases := NewCases(cakeState{NumCakes: 10})
	Handle(cases, func(s cakeState, a buyCake) (cakeState, error) {
		s.NumCakes -= a.Count
		return s, nil
	})

	state, err := cases.Reducer()(cakeState{NumCakes: 10}, Basic{Type: "BUY_CAKE"})
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	if state.NumCakes != 10 {
		t.Errorf("expected state unchanged, got %d", state.NumCakes)
	}
}

func TestCases_InStore(t *testing.T) {
	cases := NewCases(cakeState{NumCakes: 10})
	Handle(cases, func(s cakeState, a buyCake) (cakeState, error) {
		s.NumCakes -= a.Count
		return s, nil
	})

	s, err := New(cases.Reducer())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.GetState().NumCakes != 10 {
		t.Fatalf("expected initial 10, got %d", s.GetState().NumCakes)
	}

	if _, err := s.Dispatch(t.Context(), buyCake{Count: 2}); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if s.GetState().NumCakes != 8 {
		t.Errorf("expected 8, got %d", s.GetState().NumCakes)
	}
}
