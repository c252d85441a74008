// Package worker implements the per-bucket enumeration and filtering step:
// for each bucket table drawn from the shared bucket queue, enumerate every
// unordered 2-combination of pair slots, build a forward/reverse pair,
// evaluate the filter and logging trees, and emit kept reactions and log
// entries (spec.md §4.3).
package worker

import (
	"context"
	"fmt"

	"github.com/hiprgen/rxngen/internal/bucket"
	"github.com/hiprgen/rxngen/internal/config"
	"github.com/hiprgen/rxngen/internal/logging"
	"github.com/hiprgen/rxngen/internal/reaction"
	"github.com/hiprgen/rxngen/internal/species"
	"github.com/hiprgen/rxngen/internal/tree"
	"golang.org/x/sync/errgroup"
)

// Logged pairs one evaluated record with the decision trace that led to its
// logging-tree KEEP, for the report generator.
type Logged struct {
	Record *reaction.Record
	Trace  []string
}

// Sink is where a worker sends its output. The collator is the sole
// consumer on the other end of both channels (spec.md §4.4).
type Sink struct {
	Reactions chan<- *reaction.Record
	Logs      chan<- Logged
}

// BucketStoreOpener opens a fresh read-only handle to the bucket store.
// Each worker calls this once, matching spec.md §5 ("each worker opens its
// own read handle; no cross-worker locking").
type BucketStoreOpener func() (bucket.Source, error)

// Pool runs NumWorkers workers over the bucket queue until it is
// exhausted, using an errgroup as the task pool spec.md §9's design notes
// call for ("model as a task pool over worker tasks").
type Pool struct {
	NumWorkers  int
	OpenBuckets BucketStoreOpener
	Species     species.Store
	Params      config.Params
	FilterTree  *tree.Node
	LoggingTree *tree.Node
	Sink        Sink
	Log         *logging.Logger
}

// Run starts the pool and blocks until every worker has drained the bucket
// queue (or ctx is cancelled). It does not close the sink channels — the
// caller closes them once Run has returned, which tells the collator that
// every worker is done.
func (p *Pool) Run(ctx context.Context, queue *bucket.Queue) error {
	g, ctx := errgroup.WithContext(ctx)

	n := p.NumWorkers
	if n <= 0 {
		n = config.DefaultNumberOfProcesses
	}

	for i := 0; i < n; i++ {
		id := i
		g.Go(func() (err error) {
			// A panic inside one worker is a worker crash (spec.md §7):
			// the remaining workers continue, and the run completes with
			// fewer reactions rather than being retried. This is distinct
			// from a typed fatal error (tree.TotalityError,
			// predicate.ConservationError, store.IOError) returned by
			// drain below, which still propagates through errgroup and
			// cancels every worker's context, since those mean the run's
			// output is no longer trustworthy.
			defer func() {
				if r := recover(); r != nil {
					p.Log.Warn("worker crashed, remaining workers continue", "worker", id, "panic", r)
					err = nil
				}
			}()

			src, err := p.OpenBuckets()
			if err != nil {
				return fmt.Errorf("worker %d: opening bucket store: %w", id, err)
			}
			defer src.Close()

			w := &worker{id: id, pool: p, src: src}
			return w.drain(ctx, queue)
		})
	}

	return g.Wait()
}

type worker struct {
	id   int
	pool *Pool
	src  bucket.Source
}

// drain consumes bucket names from queue until it is closed and empty. A
// closed Go channel makes the reference design's two-check polling loop
// unnecessary (spec.md §9): the receive reports ok == false once the
// channel is closed and empty.
func (w *worker) drain(ctx context.Context, queue *bucket.Queue) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case name, ok := <-queue.Channel():
			if !ok {
				return nil
			}
			if err := w.processTable(ctx, name); err != nil {
				return fmt.Errorf("worker %d: table %q: %w", w.id, name, err)
			}
		}
	}
}

func (w *worker) processTable(ctx context.Context, name string) error {
	table, err := w.src.Load(name)
	if err != nil {
		return err
	}

	var evalErr error
	bucket.Pairs(table, func(reactantSlot, productSlot bucket.Slot) bool {
		reactants := [2]int{reactantSlot.A, reactantSlot.B}
		products := [2]int{productSlot.A, productSlot.B}

		pair := reaction.NewPair(reactants, products)

		if err := w.evaluateAndEmit(ctx, pair.Forward); err != nil {
			evalErr = err
			return false
		}
		if err := w.evaluateAndEmit(ctx, pair.Reverse); err != nil {
			evalErr = err
			return false
		}
		return true
	})

	return evalErr
}

func (w *worker) evaluateAndEmit(ctx context.Context, rec *reaction.Record) error {
	keep, err := tree.Evaluate(ctx, rec, w.pool.Species, w.pool.Params, w.pool.FilterTree, nil)
	if err != nil {
		return err
	}

	logTrace := &tree.Trace{}
	logged, err := tree.Evaluate(ctx, rec, w.pool.Species, w.pool.Params, w.pool.LoggingTree, logTrace)
	if err != nil {
		return err
	}

	// Both trees are done mutating rec (dG, rate, atom map, redox flag are
	// all legal side effects of either tree's predicates) — only now is it
	// safe to hand frozen copies to the collator goroutine. Sending the live
	// pointer here would race the collator's reads against whichever tree
	// runs second.
	if keep {
		if err := w.send(ctx, rec.Snapshot()); err != nil {
			return err
		}
	}
	if logged {
		if err := w.sendLog(ctx, rec.Snapshot(), logTrace.Steps); err != nil {
			return err
		}
	}

	return nil
}

func (w *worker) send(ctx context.Context, rec *reaction.Record) error {
	select {
	case w.pool.Sink.Reactions <- rec:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *worker) sendLog(ctx context.Context, rec *reaction.Record, trace []string) error {
	select {
	case w.pool.Sink.Logs <- Logged{Record: rec, Trace: trace}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
