package bucket

import "testing"

func TestPairsEnumeratesEveryUnorderedCombination(t *testing.T) {
	table := Table{Name: "t", Rows: []Slot{{A: 1, B: 2}, {A: 3, B: 4}, {A: 5, B: 6}}}

	var got [][2]Slot
	Pairs(table, func(reactant, product Slot) bool {
		got = append(got, [2]Slot{reactant, product})
		return true
	})

	if len(got) != 3 {
		t.Fatalf("expected 3 pairs for 3 rows, got %d", len(got))
	}
	want := [][2]Slot{
		{{A: 1, B: 2}, {A: 3, B: 4}},
		{{A: 1, B: 2}, {A: 5, B: 6}},
		{{A: 3, B: 4}, {A: 5, B: 6}},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pair %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPairsStopsWhenYieldReturnsFalse(t *testing.T) {
	table := Table{Name: "t", Rows: []Slot{{A: 1}, {A: 2}, {A: 3}}}

	n := 0
	Pairs(table, func(reactant, product Slot) bool {
		n++
		return false
	})
	if n != 1 {
		t.Fatalf("expected exactly one call before stopping, got %d", n)
	}
}

func TestSlotCount(t *testing.T) {
	cases := []struct {
		slot Slot
		want int
	}{
		{Slot{A: 1, B: 2}, 2},
		{Slot{A: 1, B: Empty}, 1},
		{Slot{A: Empty, B: Empty}, 0},
	}
	for _, c := range cases {
		if got := c.slot.Count(); got != c.want {
			t.Fatalf("Count(%v) = %d, want %d", c.slot, got, c.want)
		}
	}
}

func TestQueueDrainsEveryTableExactlyOnce(t *testing.T) {
	names := []string{"a", "b", "c"}
	q := NewQueue(names)

	seen := map[string]bool{}
	for name := range q.Channel() {
		if seen[name] {
			t.Fatalf("table %q dequeued twice", name)
		}
		seen[name] = true
	}
	if len(seen) != len(names) {
		t.Fatalf("expected %d tables drained, got %d", len(names), len(seen))
	}
}
