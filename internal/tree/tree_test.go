package tree

import (
	"context"
	"errors"
	"testing"

	"github.com/hiprgen/rxngen/internal/config"
	"github.com/hiprgen/rxngen/internal/reaction"
	"github.com/hiprgen/rxngen/internal/species"
)

func alwaysTrue(ctx context.Context, rec *reaction.Record, store species.Store, params config.Params) (bool, error) {
	return true, nil
}

func alwaysFalse(ctx context.Context, rec *reaction.Record, store species.Store, params config.Params) (bool, error) {
	return false, nil
}

func TestEvaluate_KeepAndDiscard(t *testing.T) {
	keepTree := Internal("root", Edge{NamedPredicate{"true", alwaysTrue}, Terminal(Keep)})
	rec := reaction.New([2]int{0, reaction.Empty}, [2]int{1, reaction.Empty})

	ok, err := Evaluate(context.Background(), rec, species.NewMemoryStore(nil), config.Params{}, keepTree, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected KEEP, got DISCARD")
	}

	discardTree := Internal("root", Edge{NamedPredicate{"true", alwaysTrue}, Terminal(Discard)})
	ok, err = Evaluate(context.Background(), rec, species.NewMemoryStore(nil), config.Params{}, discardTree, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected DISCARD, got KEEP")
	}
}

func TestEvaluate_TotalityViolation(t *testing.T) {
	badTree := Internal("root", Edge{NamedPredicate{"false", alwaysFalse}, Terminal(Keep)})
	rec := reaction.New([2]int{0, reaction.Empty}, [2]int{1, reaction.Empty})

	_, err := Evaluate(context.Background(), rec, species.NewMemoryStore(nil), config.Params{}, badTree, nil)
	if err == nil {
		t.Fatalf("expected totality error, got nil")
	}
	var totalityErr *TotalityError
	if !errors.As(err, &totalityErr) {
		t.Fatalf("expected *TotalityError, got %T: %v", err, err)
	}
}

func TestEvaluate_Trace(t *testing.T) {
	tr := Internal("root",
		Edge{NamedPredicate{"false", alwaysFalse}, Terminal(Discard)},
		Edge{NamedPredicate{"true", alwaysTrue}, Terminal(Keep)},
	)
	rec := reaction.New([2]int{0, reaction.Empty}, [2]int{1, reaction.Empty})

	trace := &Trace{}
	ok, err := Evaluate(context.Background(), rec, species.NewMemoryStore(nil), config.Params{}, tr, trace)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected KEEP")
	}
	want := []string{"true", "KEEP"}
	if len(trace.Steps) != len(want) {
		t.Fatalf("trace = %v, want %v", trace.Steps, want)
	}
	for i := range want {
		if trace.Steps[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace.Steps, want)
		}
	}
}
