package predicate

import (
	"fmt"

	"github.com/hiprgen/rxngen/internal/tree"
)

// Registry resolves predicate names used in a declarative tree-shape config
// file (see internal/treeconfig) back to NamedPredicate values.
// Parameterized predicates are registered as factories so the config file
// can supply their arguments (e.g. dG_above_threshold's threshold).
type Registry struct {
	plain    map[string]tree.NamedPredicate
	withArgs map[string]func(args map[string]float64) (tree.NamedPredicate, error)
}

// NewRegistry builds the registry of built-in predicates (spec.md §4.2).
func NewRegistry() *Registry {
	r := &Registry{
		plain:    map[string]tree.NamedPredicate{},
		withArgs: map[string]func(args map[string]float64) (tree.NamedPredicate, error){},
	}

	r.plain[DefaultTrue.Name] = DefaultTrue
	r.plain[AtomMapper.Name] = AtomMapper
	r.plain[IsRedox.Name] = IsRedox
	r.plain[RedoxBalance.Name] = RedoxBalance

	r.withArgs["dG_above_threshold"] = func(args map[string]float64) (tree.NamedPredicate, error) {
		threshold, ok := args["threshold"]
		if !ok {
			return tree.NamedPredicate{}, fmt.Errorf("dG_above_threshold requires a \"threshold\" argument")
		}
		return DGAboveThreshold(threshold), nil
	}

	return r
}

// Resolve looks up a predicate by name, applying args for parameterized
// predicates. Unknown names are a configuration error.
func (r *Registry) Resolve(name string, args map[string]float64) (tree.NamedPredicate, error) {
	if p, ok := r.plain[name]; ok {
		return p, nil
	}
	if factory, ok := r.withArgs[name]; ok {
		return factory(args)
	}
	return tree.NamedPredicate{}, fmt.Errorf("unknown predicate %q", name)
}
