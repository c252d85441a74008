// Package store holds the error types shared by the concrete store
// implementations (currently internal/store/sqlite), so callers can use
// errors.As against a single type regardless of which driver is behind it.
package store

import "fmt"

// IOError wraps a failure from the underlying database driver — connection,
// query, or transaction errors that are not a decision-tree or predicate
// problem but still fatal to the run (spec.md §7).
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
