package nodes

// AliasNode names a projected expression: expr AS "name". The alias is
// what result rows are keyed by, so the select TypeMap reads the declared
// type of Expr under Name.
type AliasNode struct {
	Predications
	Arithmetics
	Combinable
	Expr Node
	Name string
}

// NewAliasNode wraps expr under name.
func NewAliasNode(expr Node, name string) *AliasNode {
	n := &AliasNode{Expr: expr, Name: name}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

func (n *AliasNode) Accept(v Visitor) string { return v.VisitAlias(n) }
