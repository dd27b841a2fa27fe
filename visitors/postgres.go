package visitors

import (
	"fmt"

	"github.com/bawdo/quarry/internal/quoting"
)

// PostgresVisitor generates PostgreSQL-dialect SQL.
// Identifiers are quoted with double quotes: "table"."column".
type PostgresVisitor struct {
	*baseVisitor
}

// NewPostgresVisitor creates a PostgresVisitor ready for use.
// Parameterized mode is enabled by default; positional placeholders are $1, $2, ...
func NewPostgresVisitor(opts ...Option) *PostgresVisitor {
	v := &PostgresVisitor{}
	v.baseVisitor = newBase(Postgres, quoting.DoubleQuote,
		func(i int) string { return fmt.Sprintf("$%d", i) },
		features{
			tuples:       true,
			distinctOn:   true,
			orderedUnion: true,
			locks:        true,
			keyLocks:     true,
			ilike:        true,
			pgOperators:  true,
			limit:        limitStandard,
			returning:    returningStandard,
		})
	v.outer = v
	v.applyOptions(opts)
	return v
}
