package predicate

import (
	"context"
	"fmt"

	"github.com/hiprgen/rxngen/internal/config"
	"github.com/hiprgen/rxngen/internal/reaction"
	"github.com/hiprgen/rxngen/internal/species"
	"github.com/hiprgen/rxngen/internal/tree"
)

// IsRedox marks the record as a redox (electron-transfer) reaction whenever
// the free-energy balance drops below the configured electron free energy —
// a stand-in for the electron-counting logic real redox predicates use,
// exercising params.ElectronFreeEnergy per spec.md §6. Returns the flag it
// just set, so a tree can route redox reactions into a separate
// conservation check (e.g. RedoxBalance) while non-redox reactions fall
// through to the next edge.
var IsRedox = tree.NamedPredicate{
	Name: "is_redox",
	Fn: func(ctx context.Context, rec *reaction.Record, store species.Store, params config.Params) (bool, error) {
		dG, err := computeDG(rec, store)
		if err != nil {
			return false, err
		}
		rec.IsRedox = dG < params.ElectronFreeEnergy
		return rec.IsRedox, nil
	},
}

// RedoxBalance asserts, for reactions flagged is_redox, that the reactant
// and product bond counts are equal (spec.md §3 invariant, §8 scenario 6).
// A mismatch is a conservation violation and is fatal, never a silent
// DISCARD, per spec.md §7 propagation policy.
var RedoxBalance = tree.NamedPredicate{
	Name: "redox_balance",
	Fn: func(ctx context.Context, rec *reaction.Record, store species.Store, params config.Params) (bool, error) {
		if !rec.IsRedox {
			return false, nil
		}

		reactantBonds, err := bondCount(rec.Reactants, store)
		if err != nil {
			return false, err
		}
		productBonds, err := bondCount(rec.Products, store)
		if err != nil {
			return false, err
		}
		if reactantBonds != productBonds {
			return false, &ConservationError{ReactantBonds: reactantBonds, ProductBonds: productBonds}
		}
		return false, nil
	},
}

// ConservationError is raised when a reaction flagged is_redox does not
// balance reactant and product bond counts — a fatal condition per spec.md
// §7, never a silent DISCARD.
type ConservationError struct {
	ReactantBonds int
	ProductBonds  int
}

func (e *ConservationError) Error() string {
	return fmt.Sprintf("redox conservation violated: %d reactant bonds vs %d product bonds",
		e.ReactantBonds, e.ProductBonds)
}

func bondCount(side [2]int, store species.Store) (int, error) {
	total := 0
	for _, id := range side {
		if id == reaction.Empty {
			continue
		}
		e, ok := store.Get(id)
		if !ok {
			return 0, fmt.Errorf("species %d not found in store", id)
		}
		total += e.BondGraph.EdgeCount()
	}
	return total, nil
}
