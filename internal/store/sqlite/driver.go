// Package sqlite implements the relational bucket, species, and reaction
// stores on top of the teacher's pure-Go SQLite driver.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/hiprgen/rxngen/internal/store"
)

// openReadOnly opens path as a read-only connection, matching spec.md §5's
// "each worker opens its own read-only handle to the bucket store".
func openReadOnly(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, &store.IOError{Op: fmt.Sprintf("opening %q read-only", path), Err: err}
	}
	return db, nil
}

// openReadWrite opens path for the collator's exclusive writer connection,
// with WAL mode and a busy timeout so commit batching never stalls
// indefinitely on lock contention.
func openReadWrite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, &store.IOError{Op: fmt.Sprintf("opening %q", path), Err: err}
	}
	db.SetMaxOpenConns(1) // collator is the sole writer (spec.md §5)
	return db, nil
}
