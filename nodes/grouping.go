package nodes

// GroupingNode parenthesises Expr.
type GroupingNode struct {
	Combinable
	Expr Node
}

// Group wraps expr in parentheses.
func Group(expr Node) *GroupingNode {
	g := &GroupingNode{Expr: expr}
	g.self = g
	return g
}

func (n *GroupingNode) Accept(v Visitor) string { return v.VisitGrouping(n) }
