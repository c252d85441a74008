// Package tree implements the decision-tree evaluator: a recursive predicate
// DAG terminating in KEEP/DISCARD, applied independently for filtering and
// for audit logging (spec.md §4.1).
package tree

import (
	"context"
	"fmt"

	"github.com/hiprgen/rxngen/internal/config"
	"github.com/hiprgen/rxngen/internal/reaction"
	"github.com/hiprgen/rxngen/internal/species"
)

// Verdict is a terminal node's outcome.
type Verdict int

const (
	// Discard drops the reaction.
	Discard Verdict = iota
	// Keep persists the reaction.
	Keep
)

func (v Verdict) String() string {
	if v == Keep {
		return "KEEP"
	}
	return "DISCARD"
}

// Predicate decides whether to follow an edge. It may mutate rec (to cache
// dG, rate, or an atom map) but must never mutate store or params. The
// order predicates are tried in is part of the evaluator's contract:
// predicates that only cache state and return false are legitimate.
type Predicate func(ctx context.Context, rec *reaction.Record, store species.Store, params config.Params) (bool, error)

// NamedPredicate pairs a predicate with the name used in traces and in the
// declarative tree-shape config file.
type NamedPredicate struct {
	Name string
	Fn   Predicate
}

func (p NamedPredicate) String() string { return p.Name }

// Edge is one (predicate, child) pair inside an internal node's list.
type Edge struct {
	Predicate NamedPredicate
	Child     *Node
}

// Node is either a non-empty ordered list of edges, or a terminal verdict.
// Exactly one of Edges or the terminal fields is meaningful, selected by
// IsTerminal.
type Node struct {
	Edges      []Edge
	IsTerminal bool
	Verdict    Verdict
	Label      string // name used in traces for terminal nodes, e.g. "KEEP"
}

// Internal builds a non-terminal node from a non-empty ordered edge list.
func Internal(label string, edges ...Edge) *Node {
	return &Node{Edges: edges, Label: label}
}

// Terminal builds a terminal node.
func Terminal(v Verdict) *Node {
	return &Node{IsTerminal: true, Verdict: v, Label: v.String()}
}

// TotalityError is raised when an internal node's predicates are all false
// for some input — a programming error per spec.md §3 invariant, and fatal
// per spec.md §7.
type TotalityError struct {
	Node string
}

func (e *TotalityError) Error() string {
	return fmt.Sprintf("decision tree totality violation: no predicate matched at node %q", e.Node)
}

// Trace records, in order, the names of every predicate and the terminal
// visited during one Evaluate call, for the logging tree's audit output.
type Trace struct {
	Steps []string
}

func (t *Trace) append(name string) {
	if t != nil {
		t.Steps = append(t.Steps, name)
	}
}

// Evaluate walks root starting from the root, following the first predicate
// that returns true at each internal node, until a terminal is reached.
// Returns true for KEEP, false for DISCARD. If trace is non-nil, every
// predicate name that matched and the terminal's label are appended to it.
//
// Exhausting an internal node's edge list without any predicate returning
// true is a fatal totality violation (spec.md §4.1) — it is never treated
// as an implicit DISCARD.
func Evaluate(ctx context.Context, rec *reaction.Record, store species.Store, params config.Params, root *Node, trace *Trace) (bool, error) {
	node := root

	for !node.IsTerminal {
		var next *Node
		for _, edge := range node.Edges {
			ok, err := edge.Predicate.Fn(ctx, rec, store, params)
			if err != nil {
				return false, fmt.Errorf("predicate %q: %w", edge.Predicate.Name, err)
			}
			if ok {
				trace.append(edge.Predicate.Name)
				next = edge.Child
				break
			}
		}
		if next == nil {
			return false, &TotalityError{Node: node.Label}
		}
		node = next
	}

	trace.append(node.Label)
	return node.Verdict == Keep, nil
}
