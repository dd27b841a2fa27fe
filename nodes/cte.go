package nodes

// CTENode is one entry of a WITH clause: name [(columns)] AS (query).
// Query is usually a SelectManager, whose explicit binds are merged into
// the outer statement's binder when it renders.
type CTENode struct {
	Name      string
	Columns   []string
	Query     Node
	Recursive bool // any recursive entry makes the clause WITH RECURSIVE
}

func (n *CTENode) Accept(v Visitor) string { return v.VisitCTE(n) }
