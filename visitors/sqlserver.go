package visitors

import (
	"fmt"

	"github.com/bawdo/quarry/internal/quoting"
	"github.com/bawdo/quarry/nodes"
)

// SQLServerVisitor generates Transact-SQL.
// Identifiers are quoted with brackets: [table].[column].
type SQLServerVisitor struct {
	*baseVisitor
}

// NewSQLServerVisitor creates a SQLServerVisitor ready for use.
// Positional placeholders are @p1, @p2, ...; RETURNING becomes an OUTPUT
// clause and LIMIT becomes TOP or OFFSET ... FETCH NEXT.
func NewSQLServerVisitor(opts ...Option) *SQLServerVisitor {
	v := &SQLServerVisitor{}
	v.baseVisitor = newBase(SQLServer, quoting.Bracket,
		func(i int) string { return fmt.Sprintf("@p%d", i) },
		features{
			orderedUnion: true,
			numericBools: true,
			limit:        limitTop,
			returning:    returningOutput,
		})
	v.outer = v
	v.applyOptions(opts)
	return v
}

func (v *SQLServerVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	switch n.Op {
	case nodes.OpRegexp, nodes.OpNotRegexp:
		v.unsupported("regular expression matching")
	case nodes.OpDistinctFrom, nodes.OpNotDistinctFrom:
		v.unsupported("IS DISTINCT FROM")
	case nodes.OpCaseSensitiveEq:
		return n.Left.Accept(v) + " = " + v.operand(n.Right) + " COLLATE Latin1_General_CS_AS"
	}
	return v.baseVisitor.VisitComparison(n)
}

func (v *SQLServerVisitor) VisitOnConflict(*nodes.OnConflictNode) string {
	v.unsupported("ON CONFLICT")
	return ""
}
