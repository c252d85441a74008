package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/hiprgen/rxngen/internal/species"
	"github.com/hiprgen/rxngen/internal/store"
)

// LoadSpecies reads the species table from the bucket database once at
// startup into an immutable in-memory species.Store (spec.md §3). The
// bonds column holds a JSON array of [i, j] atom-index pairs.
func LoadSpecies(path string) (*species.MemoryStore, error) {
	db, err := openReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT species_id, entry_id, atom_count, free_energy, bonds FROM species`)
	if err != nil {
		return nil, &store.IOError{Op: "reading species table", Err: err}
	}
	defer rows.Close()

	var entries []species.Entry
	for rows.Next() {
		var (
			id, atomCount int
			entryID       string
			freeEnergy    float64
			bondsJSON     string
		)
		if err := rows.Scan(&id, &entryID, &atomCount, &freeEnergy, &bondsJSON); err != nil {
			return nil, &store.IOError{Op: "scanning species row", Err: err}
		}

		var bonds [][2]int
		if err := json.Unmarshal([]byte(bondsJSON), &bonds); err != nil {
			return nil, fmt.Errorf("species %d: decoding bonds: %w", id, err)
		}

		g := species.NewBondGraph(atomCount)
		for _, b := range bonds {
			g.AddBond(b[0], b[1])
		}

		e := species.Entry{
			SpeciesID:  id,
			EntryID:    entryID,
			AtomCount:  atomCount,
			FreeEnergy: freeEnergy,
			BondGraph:  g,
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &store.IOError{Op: "reading species table", Err: err}
	}

	return species.NewMemoryStore(entries), nil
}
