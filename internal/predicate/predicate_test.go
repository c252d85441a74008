package predicate

import (
	"context"
	"testing"

	"github.com/hiprgen/rxngen/internal/config"
	"github.com/hiprgen/rxngen/internal/reaction"
	"github.com/hiprgen/rxngen/internal/species"
)

func testParams() config.Params {
	return config.Params{
		Temperature:        config.DefaultTemperature,
		ElectronFreeEnergy: config.DefaultElectronFreeEnergy,
		KB:                 config.KB,
		PlanckH:            config.PlanckH,
	}
}

func linearGraph(n int) *species.BondGraph {
	g := species.NewBondGraph(n)
	for i := 0; i < n-1; i++ {
		g.AddBond(i, i+1)
	}
	return g
}

// TestDGAboveThreshold_EndToEndScenario reproduces spec.md §8 scenario 1.
func TestDGAboveThreshold_EndToEndScenario(t *testing.T) {
	store := species.NewMemoryStore([]species.Entry{
		{SpeciesID: 0, EntryID: "A", AtomCount: 2, FreeEnergy: -1.0, BondGraph: linearGraph(2)},
		{SpeciesID: 1, EntryID: "B", AtomCount: 2, FreeEnergy: -0.3, BondGraph: linearGraph(2)},
	})
	params := testParams()

	forward := reaction.New([2]int{0, reaction.Empty}, [2]int{1, reaction.Empty})
	pred := DGAboveThreshold(0.5)

	discarded, err := pred.Fn(context.Background(), forward, store, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !discarded {
		t.Fatalf("A->B expected dG=0.7 > 0.5 threshold, should be discarded")
	}

	reverse := reaction.New([2]int{1, reaction.Empty}, [2]int{0, reaction.Empty})
	kept, err := pred.Fn(context.Background(), reverse, store, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kept {
		t.Fatalf("B->A expected dG=-0.7, should not be discarded")
	}
	if got, want := reverse.DG, -0.7; diff(got, want) > 1e-9 {
		t.Errorf("dG = %v, want %v", got, want)
	}
	if got, want := reverse.Rate, params.RMax(); diff(got, want) > 1e-9 {
		t.Errorf("rate = %v, want kT/h = %v", got, want)
	}
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestAtomMapper_SharedAcrossPair(t *testing.T) {
	store := species.NewMemoryStore([]species.Entry{
		{SpeciesID: 0, EntryID: "A", AtomCount: 2, FreeEnergy: 0, BondGraph: linearGraph(2)},
		{SpeciesID: 1, EntryID: "B", AtomCount: 2, FreeEnergy: 0, BondGraph: linearGraph(2)},
	})
	params := testParams()

	pair := reaction.NewPair([2]int{0, reaction.Empty}, [2]int{1, reaction.Empty})

	if _, err := AtomMapper.Fn(context.Background(), pair.Forward, store, params); err != nil {
		t.Fatalf("forward atom_mapper: %v", err)
	}
	if _, err := AtomMapper.Fn(context.Background(), pair.Reverse, store, params); err != nil {
		t.Fatalf("reverse atom_mapper: %v", err)
	}

	if len(pair.Forward.AtomMap) != 2 || len(pair.Reverse.AtomMap) != 2 {
		t.Fatalf("expected bijective atom maps covering 2 atoms each, got %d and %d",
			len(pair.Forward.AtomMap), len(pair.Reverse.AtomMap))
	}
}

func TestRedoxBalance_Mismatch(t *testing.T) {
	store := species.NewMemoryStore([]species.Entry{
		{SpeciesID: 0, EntryID: "A", AtomCount: 3, FreeEnergy: 0, BondGraph: linearGraph(3)}, // 2 bonds
		{SpeciesID: 1, EntryID: "B", AtomCount: 4, FreeEnergy: 0, BondGraph: linearGraph(4)}, // 3 bonds
	})
	params := testParams()

	rec := reaction.New([2]int{0, reaction.Empty}, [2]int{1, reaction.Empty})
	rec.IsRedox = true

	_, err := RedoxBalance.Fn(context.Background(), rec, store, params)
	if err == nil {
		t.Fatalf("expected conservation error for mismatched bond counts")
	}
}
