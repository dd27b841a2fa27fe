package nodes

// ExistsNode is [NOT] EXISTS (subquery).
type ExistsNode struct {
	Combinable
	Subquery Node
	Negated  bool
}

func newExists(subquery Node, negated bool) *ExistsNode {
	n := &ExistsNode{Subquery: subquery, Negated: negated}
	n.self = n
	return n
}

// Exists returns EXISTS (subquery).
func Exists(subquery Node) *ExistsNode { return newExists(subquery, false) }

// NotExists returns NOT EXISTS (subquery).
func NotExists(subquery Node) *ExistsNode { return newExists(subquery, true) }

func (n *ExistsNode) Accept(v Visitor) string { return v.VisitExists(n) }
