package predicate

import (
	"context"
	"fmt"
	"sort"

	"github.com/hiprgen/rxngen/internal/config"
	"github.com/hiprgen/rxngen/internal/reaction"
	"github.com/hiprgen/rxngen/internal/species"
	"github.com/hiprgen/rxngen/internal/tree"
)

// AtomMapper is the atom_mapper predicate: computes AtomMap as an exact
// graph isomorphism between the reactant union and the product union of
// bond graphs (two reactant atoms are bonded iff their images are bonded).
// It does not search for subgraph matches: when the two union graphs are not
// isomorphic, for example because a bond is formed or broken, it returns an
// error. Expensive (spec.md §4.2 estimates ~20ms per call), so it always
// routes through Record.ResolveAtomMap to guarantee it runs at most once per
// forward/reverse pair. Always caches and returns false — it never
// terminates a tree on its own.
var AtomMapper = tree.NamedPredicate{
	Name: "atom_mapper",
	Fn: func(ctx context.Context, rec *reaction.Record, store species.Store, params config.Params) (bool, error) {
		m, err := rec.ResolveAtomMap(func() (reaction.AtomMap, error) {
			return mapAtoms(rec, store)
		})
		if err != nil {
			return false, err
		}
		rec.AtomMap = m
		return false, nil
	},
}

type atomRef struct {
	slot, atom int
}

// unionGraph flattens the two (possibly unimolecular) species on one side of
// a reaction into a single adjacency matrix over local union indices, in
// slot-then-atom order.
func unionGraph(sides [2]int, store species.Store) ([]atomRef, [][]bool, error) {
	var entries [2]species.Entry
	var offsets [2]int
	total := 0

	for slot, id := range sides {
		if id == reaction.Empty {
			continue
		}
		e, ok := store.Get(id)
		if !ok {
			return nil, nil, fmt.Errorf("species %d not found in store", id)
		}
		entries[slot] = e
		offsets[slot] = total
		total += e.AtomCount
	}

	atoms := make([]atomRef, 0, total)
	adj := make([][]bool, total)
	for i := range adj {
		adj[i] = make([]bool, total)
	}

	for slot, id := range sides {
		if id == reaction.Empty {
			continue
		}
		e := entries[slot]
		for a := 0; a < e.AtomCount; a++ {
			atoms = append(atoms, atomRef{slot: slot, atom: a})
		}
	}

	for slot, id := range sides {
		if id == reaction.Empty {
			continue
		}
		e := entries[slot]
		for i := 0; i < e.AtomCount; i++ {
			for _, j := range e.BondGraph.Neighbors(i) {
				if j <= i {
					continue
				}
				adj[offsets[slot]+i][offsets[slot]+j] = true
				adj[offsets[slot]+j][offsets[slot]+i] = true
			}
		}
	}

	return atoms, adj, nil
}

func mapAtoms(rec *reaction.Record, store species.Store) (reaction.AtomMap, error) {
	reactantAtoms, reactantGraph, err := unionGraph(rec.Reactants, store)
	if err != nil {
		return nil, fmt.Errorf("reactant union: %w", err)
	}
	productAtoms, productGraph, err := unionGraph(rec.Products, store)
	if err != nil {
		return nil, fmt.Errorf("product union: %w", err)
	}
	if len(reactantAtoms) != len(productAtoms) {
		return nil, fmt.Errorf("atom conservation violated: %d reactant atoms vs %d product atoms",
			len(reactantAtoms), len(productAtoms))
	}

	perm, ok := findIsomorphism(reactantGraph, productGraph)
	if !ok {
		return nil, fmt.Errorf("no bond-preserving isomorphism found between reactant and product bond graphs")
	}

	out := make(reaction.AtomMap, len(perm))
	for i, j := range perm {
		out[i] = reaction.AtomMapEntry{
			ReactantSlot: reactantAtoms[i].slot,
			ReactantAtom: reactantAtoms[i].atom,
			ProductSlot:  productAtoms[j].slot,
			ProductAtom:  productAtoms[j].atom,
		}
	}
	return out, nil
}

// findIsomorphism searches for a bijection perm such that a and b are
// bonded in graphA iff perm[a] and perm[b] are bonded in graphB. Atoms are
// tried in descending-degree order, a common pruning heuristic for subgraph
// isomorphism search, since molecules rarely have more than a handful of
// atoms sharing a degree class.
func findIsomorphism(graphA, graphB [][]bool) ([]int, bool) {
	n := len(graphA)
	if n != len(graphB) {
		return nil, false
	}
	if n == 0 {
		return []int{}, true
	}

	degreeOf := func(g [][]bool, i int) int {
		d := 0
		for _, bonded := range g[i] {
			if bonded {
				d++
			}
		}
		return d
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return degreeOf(graphA, order[i]) > degreeOf(graphA, order[j])
	})

	perm := make([]int, n)
	used := make([]bool, n)
	for i := range perm {
		perm[i] = -1
	}

	var backtrack func(pos int) bool
	backtrack = func(pos int) bool {
		if pos == n {
			return true
		}
		a := order[pos]
		degA := degreeOf(graphA, a)

		for b := 0; b < n; b++ {
			if used[b] || degreeOf(graphB, b) != degA {
				continue
			}

			consistent := true
			for k := 0; k < pos; k++ {
				prevA := order[k]
				prevB := perm[prevA]
				if graphA[a][prevA] != graphB[b][prevB] {
					consistent = false
					break
				}
			}
			if !consistent {
				continue
			}

			perm[a] = b
			used[b] = true
			if backtrack(pos + 1) {
				return true
			}
			used[b] = false
			perm[a] = -1
		}
		return false
	}

	if !backtrack(0) {
		return nil, false
	}
	return perm, true
}
