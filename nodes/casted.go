package nodes

// CastedNode is a value rendered as CAST(value AS type). The value is
// bound with TypeName as its declared type, and the visitor rejects type
// names that are not plain SQL type syntax.
type CastedNode struct {
	Predications
	Arithmetics
	Combinable
	Value    any
	TypeName string
}

// NewCasted returns value cast to typeName.
func NewCasted(value any, typeName string) *CastedNode {
	n := &CastedNode{Value: value, TypeName: typeName}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

func (n *CastedNode) Accept(v Visitor) string { return v.VisitCasted(n) }
