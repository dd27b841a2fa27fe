package nodes

// AndNode is Left AND Right.
type AndNode struct {
	Combinable
	Left, Right Node
}

func (n *AndNode) Accept(v Visitor) string { return v.VisitAnd(n) }

// OrNode is Left OR Right. Combinable.Or wraps it in a GroupingNode.
type OrNode struct {
	Combinable
	Left, Right Node
}

func (n *OrNode) Accept(v Visitor) string { return v.VisitOr(n) }

// NotNode is NOT (Expr).
type NotNode struct {
	Combinable
	Expr Node
}

func (n *NotNode) Accept(v Visitor) string { return v.VisitNot(n) }
