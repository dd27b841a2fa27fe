package nodes

// LiteralNode is a Go value placed in the statement. Visitors bind it
// through the binder like any other value and inline it only when
// parameterisation is off. nil is always NULL.
type LiteralNode struct {
	Predications
	Combinable
	Value any
}

func (n *LiteralNode) Accept(v Visitor) string { return v.VisitLiteral(n) }

// StarNode is * or, with a Table, table.*.
type StarNode struct {
	Table *Table
}

// Star returns an unqualified *.
func Star() *StarNode { return &StarNode{} }

func (n *StarNode) Accept(v Visitor) string { return v.VisitStar(n) }

// SqlLiteral is a raw SQL fragment emitted verbatim. Named placeholders
// written in Raw (":start") refer to explicit binds on the statement's
// binder; a "?" in Raw takes the next value from Binds and is replaced by
// a generated placeholder.
//
// Raw is never escaped. Keep user input in binds.
type SqlLiteral struct {
	Predications
	Combinable
	Raw   string
	Binds []any
}

// NewSqlLiteral wraps raw.
func NewSqlLiteral(raw string) *SqlLiteral {
	n := &SqlLiteral{Raw: raw}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

// NewBoundSqlLiteral wraps raw with values for its "?" markers.
func NewBoundSqlLiteral(raw string, binds ...any) *SqlLiteral {
	n := NewSqlLiteral(raw)
	n.Binds = binds
	return n
}

func (n *SqlLiteral) Accept(v Visitor) string { return v.VisitSqlLiteral(n) }
