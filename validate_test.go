package reflux

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

type deposit struct {
	Amount  int    `validate:"gt=0"`
	Account string `validate:"required"`
}

func (deposit) Kind() string { return "DEPOSIT" }

type ptrAction struct {
	Note string `validate:"required"`
}

func (*ptrAction) Kind() string { return "NOTE" }

func balance(state int, a Action) (int, error) {
	if d, ok := a.(deposit); ok {
		return state + d.Amount, nil
	}
	return state, nil
}

func TestWithValidation(t *testing.T) {
	tests := []struct {
		name    string
		action  any
		wantErr bool
		want    int
	}{
		{name: "valid deposit", action: deposit{Amount: 5, Account: "a1"}, want: 5},
		{name: "zero amount", action: deposit{Amount: 0, Account: "a1"}, wantErr: true},
		{name: "missing account", action: deposit{Amount: 5}, wantErr: true},
		{name: "pointer action", action: &ptrAction{}, wantErr: true},
		{name: "basic passes", action: Basic{Type: "OTHER"}},
		{name: "basic without type", action: Basic{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(balance, WithValidation[int]())
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			_, err = s.Dispatch(context.Background(), tt.action)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAction) {
					t.Fatalf("expected ErrInvalidAction, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.GetState() != tt.want {
				t.Errorf("expected %d, got %d", tt.want, s.GetState())
			}
		})
	}
}

func TestWithValidation_ExposesFieldErrors(t *testing.T) {
	s, err := New(balance, WithValidation[int]())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = s.Dispatch(context.Background(), deposit{Account: "a1"})

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected validator.ValidationErrors, got %v", err)
	}
	if len(fieldErrs) != 1 || fieldErrs[0].Field() != "Amount" {
		t.Errorf("expected Amount to fail, got %v", fieldErrs)
	}
}

func TestWithValidation_NilPointerAction(t *testing.T) {
	s, err := New(balance, WithThunk[int](), WithValidation[int]())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var a *ptrAction
	if isStruct(a) {
		t.Error("expected nil pointer not to count as struct")
	}

	result, err := s.Dispatch(context.Background(), Thunk[int](func(context.Context, Dispatch, func() int) (any, error) {
		return "ok", nil
	}))
	if err != nil || result != "ok" {
		t.Errorf("expected thunk to bypass validation, got %v, %v", result, err)
	}
}
