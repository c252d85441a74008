package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/hiprgen/rxngen/internal/bucket"
	"github.com/hiprgen/rxngen/internal/logging"
	"github.com/hiprgen/rxngen/internal/store"
)

// BucketReader implements bucket.Source over the bucket database file.
// Table discovery uses the standard catalog query (spec.md §6).
type BucketReader struct {
	db   *sql.DB
	path string
	log  *logging.Logger
}

// OpenBucketReader opens path read-only. Safe to call once per worker. log
// may be nil in tests; malformed-row warnings are then dropped silently.
func OpenBucketReader(path string, log *logging.Logger) (*BucketReader, error) {
	db, err := openReadOnly(path)
	if err != nil {
		return nil, err
	}
	return &BucketReader{db: db, path: path, log: log}, nil
}

// Tables implements bucket.Source.
func (r *BucketReader) Tables() ([]string, error) {
	rows, err := r.db.Query(`SELECT name FROM sqlite_master WHERE type='table' ORDER BY name`)
	if err != nil {
		return nil, &store.IOError{Op: "listing bucket tables", Err: err}
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &store.IOError{Op: "scanning table name", Err: err}
		}
		if name == "species" {
			// The species table lives alongside buckets but is not itself a
			// bucket; see SpeciesReader.
			continue
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Load implements bucket.Source. Malformed rows (wrong column count or
// non-integer values) are skipped with a warning, not treated as fatal,
// per spec.md §7.
func (r *BucketReader) Load(name string) (bucket.Table, error) {
	// Table names come only from Tables(), which reads them out of
	// sqlite_master, so this is not attacker-controlled input — but it is
	// still not a literal, hence the explicit quoting.
	rows, err := r.db.Query(fmt.Sprintf(`SELECT a, b FROM %s`, quoteIdent(name)))
	if err != nil {
		return bucket.Table{}, &store.IOError{Op: fmt.Sprintf("reading bucket %q", name), Err: err}
	}
	defer rows.Close()

	t := bucket.Table{Name: name}
	rowNum := 0
	for rows.Next() {
		rowNum++
		var a, b sql.NullInt64
		if err := rows.Scan(&a, &b); err != nil {
			r.warnf("bucket %q: row %d: skipping malformed row: %v", name, rowNum, err)
			continue
		}
		if !a.Valid || !b.Valid {
			r.warnf("bucket %q: row %d: skipping row with a null slot value", name, rowNum)
			continue
		}
		t.Rows = append(t.Rows, bucket.Slot{A: int(a.Int64), B: int(b.Int64)})
	}
	return t, rows.Err()
}

func (r *BucketReader) warnf(format string, args ...any) {
	if r.log == nil {
		return
	}
	r.log.Warn(fmt.Sprintf(format, args...))
}

// Close implements bucket.Source.
func (r *BucketReader) Close() error { return r.db.Close() }

func quoteIdent(name string) string {
	return `"` + sqlEscapeQuote(name) + `"`
}

func sqlEscapeQuote(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			out = append(out, '"', '"')
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
