package nodes

// UnaryOp is a postfix null test.
type UnaryOp int

const (
	OpIsNull UnaryOp = iota
	OpIsNotNull
)

// String returns the SQL suffix for op.
func (op UnaryOp) String() string {
	if op == OpIsNotNull {
		return "IS NOT NULL"
	}
	return "IS NULL"
}

// UnaryNode is Expr IS [NOT] NULL. Eq(nil) and NotEq(nil) render the
// same SQL.
type UnaryNode struct {
	Combinable
	Expr Node
	Op   UnaryOp
}

func (n *UnaryNode) Accept(v Visitor) string { return v.VisitUnary(n) }
