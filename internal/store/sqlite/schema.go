package sqlite

// schema is the fixed two-table reaction store schema from spec.md §6. It
// never migrates — the core has no schema-evolution concerns (spec.md §1
// non-goals).
const schema = `
CREATE TABLE IF NOT EXISTS metadata (
	number_of_species   INTEGER NOT NULL,
	number_of_reactions INTEGER NOT NULL,
	factor_zero         REAL NOT NULL,
	factor_two          REAL NOT NULL,
	factor_duplicate    REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS reactions (
	reaction_id         INTEGER NOT NULL PRIMARY KEY,
	number_of_reactants INTEGER NOT NULL,
	number_of_products  INTEGER NOT NULL,
	reactant_1          INTEGER NOT NULL,
	reactant_2          INTEGER NOT NULL,
	product_1           INTEGER NOT NULL,
	product_2           INTEGER NOT NULL,
	rate                REAL NOT NULL,
	dG                  REAL NOT NULL
);
`

const insertReaction = `
INSERT INTO reactions
	(reaction_id, number_of_reactants, number_of_products,
	 reactant_1, reactant_2, product_1, product_2, rate, dG)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const insertMetadata = `
INSERT INTO metadata
	(number_of_species, number_of_reactions, factor_zero, factor_two, factor_duplicate)
VALUES (?, ?, ?, ?, ?)
`
