package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hiprgen/rxngen/internal/reaction"
	"github.com/hiprgen/rxngen/internal/store"
)

// ReactionStore is the collator's exclusive writer to the reaction database
// (spec.md §5, §6). It batches inserts into transactions of CommitFreq rows
// at a time, grounded on the teacher's internal/storage/sqlite/batch_ops.go
// batching idiom.
type ReactionStore struct {
	db         *sql.DB
	tx         *sql.Tx
	insertStmt *sql.Stmt
	commitFreq int
	pending    int
}

// NewReactionStore opens (creating if necessary) the reaction database at
// path and creates the two-table schema if it is absent. An existing
// database is not truncated; its rows are kept.
func NewReactionStore(path string, commitFreq int) (*ReactionStore, error) {
	db, err := openReadWrite(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &store.IOError{Op: "creating schema", Err: err}
	}
	if commitFreq <= 0 {
		commitFreq = 1000
	}

	s := &ReactionStore{db: db, commitFreq: commitFreq}
	if err := s.beginBatch(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *ReactionStore) beginBatch() error {
	tx, err := s.db.Begin()
	if err != nil {
		return &store.IOError{Op: "beginning transaction", Err: err}
	}
	stmt, err := tx.Prepare(insertReaction)
	if err != nil {
		tx.Rollback()
		return &store.IOError{Op: "preparing insert", Err: err}
	}
	s.tx = tx
	s.insertStmt = stmt
	return nil
}

// InsertReaction writes rec as the row with reactionID, committing every
// commitFreq reactions (spec.md §4.4).
func (s *ReactionStore) InsertReaction(ctx context.Context, reactionID int, rec *reaction.Record) error {
	_, err := s.insertStmt.ExecContext(ctx,
		reactionID,
		rec.NumberOfReactants, rec.NumberOfProducts,
		rec.Reactants[0], rec.Reactants[1],
		rec.Products[0], rec.Products[1],
		rec.Rate, rec.DG,
	)
	if err != nil {
		return &store.IOError{Op: fmt.Sprintf("inserting reaction %d", reactionID), Err: err}
	}

	s.pending++
	if s.pending >= s.commitFreq {
		if err := s.commitBatch(); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReactionStore) commitBatch() error {
	if err := s.insertStmt.Close(); err != nil {
		return &store.IOError{Op: "closing insert statement", Err: err}
	}
	if err := s.tx.Commit(); err != nil {
		return &store.IOError{Op: "committing batch", Err: err}
	}
	s.pending = 0
	return s.beginBatch()
}

// WriteMetadata writes the single metadata row. numberOfSpecies and
// numberOfReactions are expected to already carry the spec.md §9 "+1"
// offsets — this method writes them verbatim.
func (s *ReactionStore) WriteMetadata(ctx context.Context, numberOfSpecies, numberOfReactions int, factorZero, factorTwo, factorDuplicate float64) error {
	_, err := s.tx.ExecContext(ctx, insertMetadata, numberOfSpecies, numberOfReactions, factorZero, factorTwo, factorDuplicate)
	if err != nil {
		return &store.IOError{Op: "writing metadata", Err: err}
	}
	return nil
}

// Close commits any pending batch and closes the database. Only called on
// the successful-completion path, once the metadata row has been written.
func (s *ReactionStore) Close() error {
	if s.insertStmt != nil {
		s.insertStmt.Close()
	}
	if s.tx != nil {
		if err := s.tx.Commit(); err != nil {
			s.db.Close()
			return &store.IOError{Op: "final commit", Err: err}
		}
	}
	return s.db.Close()
}

// Abort rolls back whatever batch was in progress and closes the database,
// used on a fatal run. The reactions table is left at the last commitBatch
// boundary reached; the trailing partial batch is discarded rather than
// committed, and no metadata row is written — the absent row is the signal
// of incomplete output (spec.md §7).
func (s *ReactionStore) Abort() error {
	if s.insertStmt != nil {
		s.insertStmt.Close()
	}
	if s.tx != nil {
		if err := s.tx.Rollback(); err != nil {
			s.db.Close()
			return &store.IOError{Op: "rolling back trailing batch", Err: err}
		}
	}
	return s.db.Close()
}
