package worker

import (
	"context"
	"sync"
	"testing"

	"github.com/hiprgen/rxngen/internal/bucket"
	"github.com/hiprgen/rxngen/internal/config"
	"github.com/hiprgen/rxngen/internal/reaction"
	"github.com/hiprgen/rxngen/internal/species"
	"github.com/hiprgen/rxngen/internal/tree"
)

// memSource is a fixed in-memory bucket.Source for tests.
type memSource struct {
	tables map[string]bucket.Table
}

func (m *memSource) Tables() ([]string, error) {
	names := make([]string, 0, len(m.tables))
	for n := range m.tables {
		names = append(names, n)
	}
	return names, nil
}

func (m *memSource) Load(name string) (bucket.Table, error) { return m.tables[name], nil }
func (m *memSource) Close() error                            { return nil }

var _ bucket.Source = (*memSource)(nil)

func alwaysKeep(ctx context.Context, rec *reaction.Record, store species.Store, params config.Params) (bool, error) {
	return true, nil
}

func TestPoolRunEmitsOnePairPerBucket(t *testing.T) {
	table := bucket.Table{Name: "b1", Rows: []bucket.Slot{
		{A: 0, B: bucket.Empty},
		{A: 1, B: bucket.Empty},
	}}
	queue := bucket.NewQueue([]string{"b1"})

	filterTree := tree.Terminal(tree.Keep)
	loggingTree := tree.Terminal(tree.Discard)

	reactionCh := make(chan *reaction.Record, 16)
	logCh := make(chan Logged, 16)

	pool := &Pool{
		NumWorkers: 2,
		OpenBuckets: func() (bucket.Source, error) {
			return &memSource{tables: map[string]bucket.Table{"b1": table}}, nil
		},
		Species:     species.NewMemoryStore(nil),
		Params:      config.Params{},
		FilterTree:  filterTree,
		LoggingTree: loggingTree,
		Sink:        Sink{Reactions: reactionCh, Logs: logCh},
	}

	var wg sync.WaitGroup
	var received []*reaction.Record
	var mu sync.Mutex
	wg.Add(1)
	go func() {
		defer wg.Done()
		for rec := range reactionCh {
			mu.Lock()
			received = append(received, rec)
			mu.Unlock()
		}
	}()
	go func() {
		for range logCh {
		}
	}()

	if err := pool.Run(context.Background(), queue); err != nil {
		t.Fatalf("Run: %v", err)
	}
	close(reactionCh)
	close(logCh)
	wg.Wait()

	// One unordered pair of 2 single-reactant rows yields a forward and a
	// reverse record, both kept by the always-KEEP filter tree.
	if len(received) != 2 {
		t.Fatalf("expected 2 emitted records (forward + reverse), got %d", len(received))
	}
}
