package nodes

// Combinable gives predicates the boolean connectives. self must point at
// the embedding node.
//
// These build binary nodes. Condition lists built by the managers are
// ExpressionTrees.
type Combinable struct {
	self Node
}

// And returns self AND other.
func (c Combinable) And(other Node) *AndNode {
	n := &AndNode{Left: c.self, Right: other}
	n.self = n
	return n
}

// Or returns (self OR other). The grouping keeps the disjunction intact
// when it is later combined with AND.
func (c Combinable) Or(other Node) *GroupingNode {
	or := &OrNode{Left: c.self, Right: other}
	or.self = or
	return Group(or)
}

// Not returns NOT self.
func (c Combinable) Not() *NotNode {
	n := &NotNode{Expr: c.self}
	n.self = n
	return n
}
