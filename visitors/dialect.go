package visitors

import (
	"fmt"
	"strings"

	"github.com/bawdo/quarry/binder"
	"github.com/bawdo/quarry/nodes"
)

// Dialect names accepted by New.
const (
	Postgres  = "postgres"
	MySQL     = "mysql"
	SQLite    = "sqlite"
	SQLServer = "sqlserver"
)

// Dialect is a SQL generator for one database engine.
type Dialect interface {
	nodes.Visitor
	nodes.Parameterizer

	// Name returns the dialect name (one of the constants above).
	Name() string
	// Placeholder returns the driver-native placeholder for the i-th
	// (1-based) positional parameter.
	Placeholder(i int) string
	// Quote quotes an identifier when automatic quoting is enabled.
	Quote(name string) string
	// Binder returns the binder receiving named placeholders, or nil.
	Binder() *binder.ValueBinder
	// Err returns the first rendering error since the last Reset.
	Err() error
	// Fail records a rendering error.
	Fail(err error)
}

// Quote quotes an identifier when automatic quoting is enabled.
func (b *baseVisitor) Quote(name string) string { return b.quote(name) }

// New returns the visitor for the named dialect. Names are matched case
// insensitively; "postgresql", "pgx", "sqlite3" and "mssql" are accepted
// as aliases.
func New(name string, opts ...Option) (Dialect, error) {
	switch Normalize(name) {
	case Postgres:
		return NewPostgresVisitor(opts...), nil
	case MySQL:
		return NewMySQLVisitor(opts...), nil
	case SQLite:
		return NewSQLiteVisitor(opts...), nil
	case SQLServer:
		return NewSQLServerVisitor(opts...), nil
	}
	return nil, fmt.Errorf("%w: unknown dialect %q", ErrUnsupported, name)
}

// Normalize maps dialect aliases to their canonical name. Unknown names are
// returned lower-cased.
func Normalize(name string) string {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "postgresql", "pgx", "pg":
		return Postgres
	case "sqlite3":
		return SQLite
	case "mssql":
		return SQLServer
	default:
		return n
	}
}
