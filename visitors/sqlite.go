package visitors

import (
	"github.com/bawdo/quarry/internal/quoting"
	"github.com/bawdo/quarry/nodes"
)

// SQLiteVisitor generates SQLite-dialect SQL.
// Identifiers are quoted with double quotes: "table"."column" (ANSI SQL).
type SQLiteVisitor struct {
	*baseVisitor
}

// NewSQLiteVisitor creates a SQLiteVisitor ready for use.
// Tuple comparisons are expanded into AND/OR groups and unioned queries
// are not parenthesized.
func NewSQLiteVisitor(opts ...Option) *SQLiteVisitor {
	v := &SQLiteVisitor{}
	v.baseVisitor = newBase(SQLite, quoting.DoubleQuote,
		func(_ int) string { return "?" },
		features{
			limit:     limitSQLite,
			returning: returningStandard,
		})
	v.outer = v
	v.applyOptions(opts)
	return v
}

func (v *SQLiteVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	switch n.Op {
	case nodes.OpRegexp:
		return n.Left.Accept(v) + " REGEXP " + v.operand(n.Right)
	case nodes.OpNotRegexp:
		return n.Left.Accept(v) + " NOT REGEXP " + v.operand(n.Right)
	case nodes.OpCaseSensitiveEq:
		return n.Left.Accept(v) + " = " + v.operand(n.Right) + " COLLATE BINARY"
	case nodes.OpCaseInsensitiveEq:
		return n.Left.Accept(v) + " = " + v.operand(n.Right) + " COLLATE NOCASE"
	default:
		return v.baseVisitor.VisitComparison(n)
	}
}
