// Package treeconfig loads a decision tree's shape from a declarative TOML
// file, the teacher's chosen format for structured config payloads,
// resolving predicate names against internal/predicate's registry
// (spec.md §4.5's "configured at startup" trees).
package treeconfig

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/hiprgen/rxngen/internal/predicate"
	"github.com/hiprgen/rxngen/internal/tree"
)

// nodeConfig is the on-disk shape of one tree node.
type nodeConfig struct {
	// Terminal is "KEEP" or "DISCARD"; set only on terminal nodes.
	Terminal string `toml:"terminal"`
	// Label names this node in traces and totality error messages.
	Label string `toml:"label"`
	// Edges lists (predicate, child) pairs, in evaluation order; set only
	// on internal nodes.
	Edges []edgeConfig `toml:"edges"`
}

type edgeConfig struct {
	Predicate string             `toml:"predicate"`
	Args      map[string]float64 `toml:"args"`
	Child     nodeConfig         `toml:"child"`
}

// File is the top-level shape of a tree config file: a filter tree and a
// logging tree, independent of each other (spec.md §4.5).
type File struct {
	FilterTree  nodeConfig `toml:"filter_tree"`
	LoggingTree nodeConfig `toml:"logging_tree"`
}

// Load parses path and builds the filter and logging *tree.Node trees.
func Load(path string) (filterTree, loggingTree *tree.Node, err error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, nil, fmt.Errorf("parsing tree config %q: %w", path, err)
	}

	reg := predicate.NewRegistry()

	filterTree, err = build(reg, f.FilterTree)
	if err != nil {
		return nil, nil, fmt.Errorf("filter_tree: %w", err)
	}
	loggingTree, err = build(reg, f.LoggingTree)
	if err != nil {
		return nil, nil, fmt.Errorf("logging_tree: %w", err)
	}
	return filterTree, loggingTree, nil
}

func build(reg *predicate.Registry, n nodeConfig) (*tree.Node, error) {
	if n.Terminal != "" {
		switch n.Terminal {
		case "KEEP":
			return tree.Terminal(tree.Keep), nil
		case "DISCARD":
			return tree.Terminal(tree.Discard), nil
		default:
			return nil, fmt.Errorf("unknown terminal %q", n.Terminal)
		}
	}

	if len(n.Edges) == 0 {
		return nil, fmt.Errorf("node %q has neither a terminal nor any edges", n.Label)
	}

	edges := make([]tree.Edge, 0, len(n.Edges))
	for _, ec := range n.Edges {
		pred, err := reg.Resolve(ec.Predicate, ec.Args)
		if err != nil {
			return nil, err
		}
		child, err := build(reg, ec.Child)
		if err != nil {
			return nil, err
		}
		edges = append(edges, tree.Edge{Predicate: pred, Child: child})
	}

	return tree.Internal(n.Label, edges...), nil
}
