package predicate

import "github.com/hiprgen/rxngen/internal/tree"

// StandardDecisionTree reproduces original_source/reaction_gen.py's
// standard_decision_tree: discard anything whose free-energy change exceeds
// the threshold, keep everything else.
func StandardDecisionTree(threshold float64) *tree.Node {
	return tree.Internal("standard_decision_tree",
		tree.Edge{Predicate: DGAboveThreshold(threshold), Child: tree.Terminal(tree.Discard)},
		tree.Edge{Predicate: DefaultTrue, Child: tree.Terminal(tree.Keep)},
	)
}

// StandardLoggingTree logs every reaction that reaches a dG decision,
// regardless of whether it was kept, by always following default_true.
// Mirrors the independence between the filter tree and the logging tree
// called for in spec.md §4.5.
func StandardLoggingTree() *tree.Node {
	return tree.Internal("standard_logging_tree",
		tree.Edge{Predicate: DefaultTrue, Child: tree.Terminal(tree.Keep)},
	)
}

// RedoxDecisionTree extends the standard tree with redox bookkeeping:
// energy filtering first, then redox classification and conservation
// checking, then keep. Grounded on spec.md §8 scenario 6 and §4.2's
// allowance for additional built-in predicates.
func RedoxDecisionTree(threshold float64) *tree.Node {
	return tree.Internal("redox_decision_tree",
		tree.Edge{Predicate: DGAboveThreshold(threshold), Child: tree.Terminal(tree.Discard)},
		tree.Edge{Predicate: IsRedox, Child: tree.Internal("redox_balance_check",
			tree.Edge{Predicate: RedoxBalance, Child: tree.Terminal(tree.Keep)},
			tree.Edge{Predicate: DefaultTrue, Child: tree.Terminal(tree.Keep)},
		)},
		tree.Edge{Predicate: DefaultTrue, Child: tree.Terminal(tree.Keep)},
	)
}
