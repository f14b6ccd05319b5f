package reflux

import (
	"errors"
	"sync"
	"testing"
)

func TestRing_NilSafe(t *testing.T) {
	var r *ring[error]

	r.push(errors.New("test"))
	r.clear()

	if r.all() != nil {
		t.Error("expected nil from nil ring")
	}
}

func TestRing_NonPositiveSize(t *testing.T) {
	if newRing[error](0) != nil {
		t.Error("expected nil ring for size 0")
	}
	if newRing[error](-1) != nil {
		t.Error("expected nil ring for negative size")
	}
}

func TestRing_Empty(t *testing.T) {
	r := newRing[int](3)
	if r.all() != nil {
		t.Error("expected nil from empty ring")
	}
}

func TestRing_FillsWithoutWrapping(t *testing.T) {
	r := newRing[int](3)
	r.push(1)
	r.push(2)

	got := r.all()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected [1 2], got %v", got)
	}
}

func TestRing_WrapsAndEvictsOldest(t *testing.T) {
	r := newRing[int](3)
	for i := 1; i <= 5; i++ {
		r.push(i)
	}

	got := r.all()
	if len(got) != 3 || got[0] != 3 || got[1] != 4 || got[2] != 5 {
		t.Errorf("expected [3 4 5], got %v", got)
	}
}

func TestRing_Clear(t *testing.T) {
	r := newRing[int](2)
	r.push(1)
	r.push(2)
	r.push(3)
	r.clear()

	if r.all() != nil {
		t.Fatal("expected nil after clear")
	}

	r.push(4)
	got := r.all()
	if len(got) != 1 || got[0] != 4 {
		t.Errorf("expected [4], got %v", got)
	}
}

func TestRing_AllReturnsCopy(t *testing.T) {
	r := newRing[int](2)
	r.push(1)

	got := r.all()
	got[0] = 99

	if r.all()[0] != 1 {
		t.Error("expected all to return a copy")
	}
}

func TestRing_Concurrent(t *testing.T) {
	r := newRing[Failure](10)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.push(Failure{Kind: "INC"})
		}()
		go func() {
			defer wg.Done()
			_ = r.all()
		}()
	}
	wg.Wait()

	if len(r.all()) != 10 {
		t.Errorf("expected 10 retained, got %d", len(r.all()))
	}
}
