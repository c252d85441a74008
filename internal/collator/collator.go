// Package collator implements the single writer that drains the reaction
// and log channels, assigns sequential reaction IDs, commits to the
// reaction store in batches, and terminates once every worker has exited
// and both channels are drained (spec.md §4.4).
package collator

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/hiprgen/rxngen/internal/logging"
	"github.com/hiprgen/rxngen/internal/reaction"
	"github.com/hiprgen/rxngen/internal/report"
	"github.com/hiprgen/rxngen/internal/store/sqlite"
	"github.com/hiprgen/rxngen/internal/worker"
)

var progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

// Collator is the sole writer to the reaction store and report file
// (spec.md §5).
type Collator struct {
	Store  *sqlite.ReactionStore
	Report *report.Generator
	Log    *logging.Logger

	NumberOfSpecies int
	FactorZero      float64
	FactorTwo       float64
	FactorDuplicate float64
	Verbose         bool
}

// Result summarizes a completed run.
type Result struct {
	ReactionCount int
}

// Run drains reactionCh and logCh until both are closed and empty, which the
// caller arranges by closing them only after every worker has returned
// (e.g. after errgroup.Wait()) — the Go channel-close mechanism subsumes the
// reference design's "workers-done AND channels-drained" liveness poll
// (spec.md §9): once both channels report ok=false, termination is certain
// and race-free, with no separate liveness check needed.
//
// poolErr is called only after draining finishes, to learn whether the
// worker pool that fed these channels completed successfully. Because the
// caller closes both channels from inside the same goroutine that runs the
// pool (and only after the pool returns), the pool has necessarily already
// finished by the time the drain loop above observes both channels closed —
// so poolErr (typically an errgroup's Wait) returns immediately rather than
// blocking further. A non-nil result means a fatal predicate, tree or store
// error occurred upstream (a worker panic is recovered inside the pool and
// does not surface here): WriteMetadata is skipped and the store is
// left at whatever the last commit_freq boundary already committed, so the
// absent metadata row is the signal of incomplete output (spec.md §7).
func (c *Collator) Run(ctx context.Context, reactionCh <-chan *reaction.Record, logCh <-chan worker.Logged, poolErr func() error) (Result, error) {
	reactionsOpen, logsOpen := true, true
	reactionIndex := 0

	for reactionsOpen || logsOpen {
		select {
		case <-ctx.Done():
			return c.abort(reactionIndex, ctx.Err())

		case rec, ok := <-reactionCh:
			if !ok {
				reactionsOpen = false
				reactionCh = nil
				continue
			}
			if err := c.Store.InsertReaction(ctx, reactionIndex, rec); err != nil {
				return c.abort(reactionIndex, err)
			}
			reactionIndex++
			if c.Verbose && reactionIndex%1000 == 0 {
				c.Log.Info(progressStyle.Render(fmt.Sprintf("%d reactions committed", reactionIndex)))
			}

		case logged, ok := <-logCh:
			if !ok {
				logsOpen = false
				logCh = nil
				continue
			}
			if err := c.Report.EmitTrace(logged.Record, logged.Trace); err != nil {
				return c.abort(reactionIndex, err)
			}
		}
	}

	if err := poolErr(); err != nil {
		_, abortErr := c.abort(reactionIndex, nil)
		if abortErr != nil {
			return Result{ReactionCount: reactionIndex}, abortErr
		}
		return Result{ReactionCount: reactionIndex}, fmt.Errorf("worker pool: %w", err)
	}

	// The "+1" offsets below are preserved verbatim from the reference
	// design (spec.md §9 open question): whether downstream consumers
	// expect 1-based counts, or this is a historical bug, is unresolved —
	// changing it would be guessing at intent the spec explicitly withholds.
	if err := c.Store.WriteMetadata(ctx, c.NumberOfSpecies+1, reactionIndex+1, c.FactorZero, c.FactorTwo, c.FactorDuplicate); err != nil {
		return Result{ReactionCount: reactionIndex}, err
	}

	if err := c.Report.Finished(); err != nil {
		return Result{ReactionCount: reactionIndex}, err
	}
	if err := c.Store.Close(); err != nil {
		return Result{ReactionCount: reactionIndex}, err
	}

	return Result{ReactionCount: reactionIndex}, nil
}

// abort releases the store and report without writing the metadata row or
// committing a trailing partial batch (spec.md §7), returning cause if it is
// the more relevant of the two errors.
func (c *Collator) abort(reactionIndex int, cause error) (Result, error) {
	if err := c.Store.Abort(); err != nil && cause == nil {
		cause = err
	}
	if err := c.Report.Finished(); err != nil && cause == nil {
		cause = err
	}
	return Result{ReactionCount: reactionIndex}, cause
}
