package nodes

// BindParamNode represents an explicit bind parameter placeholder.
// Its Value is always emitted as a bind parameter in parameterized mode,
// or rendered as a literal value in non-parameterized mode. TypeName is
// recorded in the binding table and drives encoding at execution time.
type BindParamNode struct {
	Value    any
	TypeName string
}

func (n *BindParamNode) Accept(v Visitor) string { return v.VisitBindParam(n) }

// NewBindParam creates a BindParamNode with an optional type name.
func NewBindParam(value any, typeName ...string) *BindParamNode {
	n := &BindParamNode{Value: value}
	if len(typeName) > 0 {
		n.TypeName = typeName[0]
	}
	return n
}
