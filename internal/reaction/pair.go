package reaction

import "sync"

// atomMapCache is the one-shot cell shared by a forward/reverse Pair. It
// replaces the reference design's mutable reverse_link back-reference
// (spec.md §9 design notes): instead of the reverse record pointing at the
// forward record to check "has it been computed yet", both records share
// this cache and whichever's atom_mapper predicate runs first performs the
// computation; the other inverts the result.
type atomMapCache struct {
	mu       sync.Mutex
	computed bool
	owner    *Record
	m        AtomMap
	err      error
}

func (c *atomMapCache) resolve(caller *Record, compute func() (AtomMap, error)) (AtomMap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.computed {
		c.m, c.err = compute()
		c.owner = caller
		c.computed = true
	}
	if c.err != nil {
		return nil, c.err
	}
	if c.owner == caller {
		return c.m, nil
	}
	return c.m.Invert(), nil
}

// Pair couples a reaction with its mirror image so the atom map is computed
// at most once total for the two of them (spec.md invariant 3).
type Pair struct {
	Forward *Record
	Reverse *Record
}

// NewPair builds the forward reaction (reactants -> products) and its
// reverse (products -> reactants), sharing one atom-map cache.
func NewPair(reactants, products [2]int) *Pair {
	cache := &atomMapCache{}

	forward := &Record{
		Reactants:         reactants,
		Products:          products,
		NumberOfReactants: count(reactants),
		NumberOfProducts:  count(products),
		cache:             cache,
	}
	reverse := &Record{
		Reactants:         products,
		Products:          reactants,
		NumberOfReactants: count(products),
		NumberOfProducts:  count(reactants),
		cache:             cache,
	}

	return &Pair{Forward: forward, Reverse: reverse}
}
