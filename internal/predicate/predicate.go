// Package predicate implements the built-in predicate library: energy
// thresholds, rate computation, the atom mapper, and redox bookkeeping
// (spec.md §4.2).
package predicate

import (
	"context"
	"fmt"
	"math"

	"github.com/hiprgen/rxngen/internal/config"
	"github.com/hiprgen/rxngen/internal/reaction"
	"github.com/hiprgen/rxngen/internal/species"
	"github.com/hiprgen/rxngen/internal/tree"
)

// DefaultRate computes the default rate constant for a given free-energy
// change, per spec.md §4.2: r_max = kT/h, returned directly when dG < 0,
// else scaled by exp(-dG/kT).
func DefaultRate(dG float64, params config.Params) float64 {
	kT := params.KT()
	rMax := params.RMax()
	if dG < 0 {
		return rMax
	}
	return rMax * math.Exp(-dG/kT)
}

// DGAboveThreshold builds the dG_above_threshold(T) predicate: computes
// dG = sum(free energy of products) - sum(free energy of reactants)
// (sentinels contribute zero). Returns true (and leaves the reaction
// untouched) when dG exceeds threshold; otherwise caches dG and rate on the
// record and returns false.
func DGAboveThreshold(threshold float64) tree.NamedPredicate {
	fn := func(ctx context.Context, rec *reaction.Record, store species.Store, params config.Params) (bool, error) {
		dG, err := computeDG(rec, store)
		if err != nil {
			return false, err
		}

		if dG > threshold {
			return true, nil
		}

		rec.DG = dG
		rec.Rate = DefaultRate(dG, params)
		return false, nil
	}
	return tree.NamedPredicate{Name: fmt.Sprintf("dG_above_threshold(%g)", threshold), Fn: fn}
}

func computeDG(rec *reaction.Record, store species.Store) (float64, error) {
	var dG float64
	for _, id := range rec.Reactants {
		fe, err := species.FreeEnergyOf(store, id)
		if err != nil {
			return 0, err
		}
		dG -= fe
	}
	for _, id := range rec.Products {
		fe, err := species.FreeEnergyOf(store, id)
		if err != nil {
			return 0, err
		}
		dG += fe
	}
	return dG, nil
}

// DefaultTrue is the tree terminator predicate: always matches.
var DefaultTrue = tree.NamedPredicate{
	Name: "default_true",
	Fn: func(ctx context.Context, rec *reaction.Record, store species.Store, params config.Params) (bool, error) {
		return true, nil
	},
}
