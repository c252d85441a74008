// Package report implements the human-readable decision-trace writer the
// collator uses for scientific audit (spec.md §4.4/§6). Only the collator
// ever opens the report file, so it takes an exclusive file lock the way
// the teacher guards single-writer files with gofrs/flock.
package report

import (
	"bufio"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"github.com/hiprgen/rxngen/internal/reaction"
)

// Generator appends, per logged reaction: the sequence of predicate/terminal
// names visited, a rendering of the reaction, and a blank line (spec.md §6).
type Generator struct {
	file *os.File
	lock *flock.Flock
	w    *bufio.Writer
}

// New opens (creating if necessary) the report file at path for appending,
// taking an exclusive advisory lock for the duration of the run.
func New(path string) (*Generator, error) {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking report file %q: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("report file %q is already locked by another run", path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("opening report file %q: %w", path, err)
	}

	return &Generator{file: f, lock: lock, w: bufio.NewWriter(f)}, nil
}

// EmitTrace writes the decision pathway (predicate/terminal names in
// traversal order), followed by a rendering of rec, followed by a blank
// line, matching the report layout of spec.md §6.
func (g *Generator) EmitTrace(rec *reaction.Record, trace []string) error {
	for _, step := range trace {
		if _, err := fmt.Fprintln(g.w, step); err != nil {
			return err
		}
	}
	if err := g.emitReaction(rec); err != nil {
		return err
	}
	_, err := fmt.Fprintln(g.w)
	return err
}

func (g *Generator) emitReaction(rec *reaction.Record) error {
	_, err := fmt.Fprintf(g.w, "reaction: %v -> %v (n_r=%d, n_p=%d, dG=%.6f, rate=%.6g, redox=%v)\n",
		rec.Reactants, rec.Products, rec.NumberOfReactants, rec.NumberOfProducts, rec.DG, rec.Rate, rec.IsRedox)
	return err
}

// Flush flushes buffered writes to disk without closing the file.
func (g *Generator) Flush() error {
	return g.w.Flush()
}

// Finished flushes, closes the file, and releases the lock. Matches the
// collator's "close the report generator" step (spec.md §4.4).
func (g *Generator) Finished() error {
	if err := g.w.Flush(); err != nil {
		return err
	}
	if err := g.file.Close(); err != nil {
		return err
	}
	return g.lock.Unlock()
}
