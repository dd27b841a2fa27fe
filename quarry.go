// Package quarry builds parameterised SQL for PostgreSQL, MySQL, SQLite
// and SQL Server, and runs it through database/sql.
//
// This package re-exports the types and constructors most programs need.
// The subpackages can be imported directly for everything else:
//   - github.com/bawdo/quarry/managers (statement builders)
//   - github.com/bawdo/quarry/conditions (condition parsing)
//   - github.com/bawdo/quarry/connection (database access)
//   - github.com/bawdo/quarry/nodes (AST nodes)
//   - github.com/bawdo/quarry/visitors (SQL generation)
//   - github.com/bawdo/quarry/plugins (statement transformers)
package quarry

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bawdo/quarry/conditions"
	"github.com/bawdo/quarry/config"
	"github.com/bawdo/quarry/connection"
	"github.com/bawdo/quarry/managers"
	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/statement"
	"github.com/bawdo/quarry/visitors"
)

// Dialect names.
const (
	Postgres  = visitors.Postgres
	MySQL     = visitors.MySQL
	SQLite    = visitors.SQLite
	SQLServer = visitors.SQLServer
)

// --- Manager Types ---

// SelectManager builds SELECT statements.
type SelectManager = managers.SelectManager

// InsertManager builds INSERT statements.
type InsertManager = managers.InsertManager

// UpdateManager builds UPDATE statements.
type UpdateManager = managers.UpdateManager

// DeleteManager builds DELETE statements.
type DeleteManager = managers.DeleteManager

// Executor renders and runs statements for a manager.
type Executor = managers.Executor

// --- Conditions ---

// Cond is an implicit AND of field conditions, visited in key order.
type Cond = conditions.Cond

// Pairs is an implicit AND of field conditions in insertion order.
type Pairs = conditions.Pairs

// Pair is one entry of Pairs.
type Pair = conditions.Pair

// --- Connections and results ---

// Config holds connection and rendering settings.
type Config = config.Config

// Connection is a database handle bound to a dialect.
type Connection = connection.Connection

// Statement is the result of running a statement.
type Statement = statement.Statement

// Row is one result row keyed by column name.
type Row = statement.Row

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *config.Config {
	return config.Default()
}

// LoadConfig reads a YAML config file and applies the environment.
func LoadConfig(path string) (*config.Config, error) {
	return config.Load(path)
}

// Open connects to the database described by cfg.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*connection.Connection, error) {
	return connection.Open(ctx, cfg, logger)
}

// Renderer returns a connection that renders SQL for dialect without a
// database behind it.
func Renderer(dialect string, opts ...visitors.Option) (*connection.Connection, error) {
	return connection.ForDialect(dialect, connection.WithVisitorOptions(opts...))
}

// --- Manager Constructors ---

// NewSelect creates a SelectManager bound to exec.
func NewSelect(exec managers.Executor) *managers.SelectManager {
	return managers.NewSelect(exec)
}

// NewInsert creates an InsertManager bound to exec.
func NewInsert(exec managers.Executor) *managers.InsertManager {
	return managers.NewInsert(exec)
}

// NewUpdate creates an UpdateManager bound to exec.
func NewUpdate(exec managers.Executor) *managers.UpdateManager {
	return managers.NewUpdate(exec)
}

// NewDelete creates a DeleteManager bound to exec.
func NewDelete(exec managers.Executor) *managers.DeleteManager {
	return managers.NewDelete(exec)
}

// --- Nodes ---

// Node is the base interface all AST nodes implement.
type Node = nodes.Node

// NewTable creates a table reference.
func NewTable(name string) *nodes.Table {
	return nodes.NewTable(name)
}

// Ident creates a column or qualified identifier, e.g. "users.id".
func Ident(name string) *nodes.IdentifierNode {
	return nodes.Ident(name)
}

// Literal wraps a value that renders inline.
func Literal(value any) nodes.Node {
	return nodes.Literal(value)
}

// Raw creates a SQL fragment rendered verbatim.
func Raw(sql string) *nodes.SqlLiteral {
	return nodes.NewSqlLiteral(sql)
}

// Star creates an unqualified star (*) for SELECT *.
func Star() *nodes.StarNode {
	return nodes.Star()
}

// Count creates COUNT(expr), or COUNT(*) when expr is nil.
func Count(expr nodes.Node) *nodes.FunctionNode {
	return nodes.Count(expr)
}

// Sum creates SUM(expr).
func Sum(expr nodes.Node) *nodes.FunctionNode {
	return nodes.Sum(expr)
}

// Max creates MAX(expr).
func Max(expr nodes.Node) *nodes.FunctionNode {
	return nodes.Max(expr)
}

// Min creates MIN(expr).
func Min(expr nodes.Node) *nodes.FunctionNode {
	return nodes.Min(expr)
}
