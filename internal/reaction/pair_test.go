package reaction

import "testing"

func TestAtomMapCache_ComputesOnce(t *testing.T) {
	pair := NewPair([2]int{1, Empty}, [2]int{2, Empty})

	calls := 0
	compute := func() (AtomMap, error) {
		calls++
		return AtomMap{{ReactantSlot: 0, ReactantAtom: 0, ProductSlot: 0, ProductAtom: 0}}, nil
	}

	fwdMap, err := pair.Forward.ResolveAtomMap(compute)
	if err != nil {
		t.Fatalf("forward resolve: %v", err)
	}
	revMap, err := pair.Reverse.ResolveAtomMap(compute)
	if err != nil {
		t.Fatalf("reverse resolve: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected compute to run exactly once, ran %d times", calls)
	}
	if got, want := revMap[0], fwdMap.Invert()[0]; got != want {
		t.Fatalf("reverse map = %+v, want inverse of forward %+v", got, want)
	}
}

func TestAtomMapCache_ReverseFirst(t *testing.T) {
	pair := NewPair([2]int{1, Empty}, [2]int{2, Empty})

	calls := 0
	compute := func() (AtomMap, error) {
		calls++
		return AtomMap{{ReactantSlot: 0, ReactantAtom: 0, ProductSlot: 0, ProductAtom: 1}}, nil
	}

	if _, err := pair.Reverse.ResolveAtomMap(compute); err != nil {
		t.Fatalf("reverse resolve: %v", err)
	}
	if _, err := pair.Forward.ResolveAtomMap(compute); err != nil {
		t.Fatalf("forward resolve: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected compute to run exactly once regardless of call order, ran %d times", calls)
	}
}

func TestCount(t *testing.T) {
	r := New([2]int{3, Empty}, [2]int{4, 5})
	if r.NumberOfReactants != 1 {
		t.Errorf("NumberOfReactants = %d, want 1", r.NumberOfReactants)
	}
	if r.NumberOfProducts != 2 {
		t.Errorf("NumberOfProducts = %d, want 2", r.NumberOfProducts)
	}
}
