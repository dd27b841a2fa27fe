package visitors

import (
	"strings"

	"github.com/bawdo/quarry/internal/quoting"
	"github.com/bawdo/quarry/nodes"
)

// MySQLVisitor generates MySQL-dialect SQL.
// Identifiers are quoted with backticks: `table`.`column`.
type MySQLVisitor struct {
	*baseVisitor
}

// NewMySQLVisitor creates a MySQLVisitor ready for use.
// Parameterized mode is enabled by default for SQL injection protection.
// Pass WithoutParams() to disable (not recommended for production).
func NewMySQLVisitor(opts ...Option) *MySQLVisitor {
	v := &MySQLVisitor{}
	v.baseVisitor = newBase(MySQL, quoting.Backtick,
		func(_ int) string { return "?" },
		features{
			tuples:       true,
			orderedUnion: true,
			dmlJoins:     true,
			dmlLimit:     true,
			locks:        true,
			limit:        limitMySQL,
			returning:    returningNone,
		})
	v.outer = v
	v.applyOptions(opts)
	return v
}

func (v *MySQLVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	switch n.Op {
	case nodes.OpRegexp:
		return n.Left.Accept(v) + " REGEXP " + v.operand(n.Right)
	case nodes.OpNotRegexp:
		return n.Left.Accept(v) + " NOT REGEXP " + v.operand(n.Right)
	case nodes.OpCaseSensitiveEq:
		return n.Left.Accept(v) + " = BINARY " + v.operand(n.Right)
	case nodes.OpCaseInsensitiveEq:
		return n.Left.Accept(v) + " = " + v.operand(n.Right)
	default:
		return v.baseVisitor.VisitComparison(n)
	}
}

// VisitOnConflict renders upserts as ON DUPLICATE KEY UPDATE. MySQL has no
// conflict target and no DO NOTHING; use the IGNORE modifier instead.
func (v *MySQLVisitor) VisitOnConflict(n *nodes.OnConflictNode) string {
	if n.Action == nodes.DoNothing {
		v.unsupported("ON CONFLICT DO NOTHING (use the IGNORE modifier)")
		return ""
	}
	if len(n.Wheres) > 0 {
		v.unsupported("conditional upserts")
	}
	var sb strings.Builder
	sb.WriteString("ON DUPLICATE KEY UPDATE ")
	sb.WriteString(v.assignments(n.Assignments))
	return sb.String()
}
