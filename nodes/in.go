package nodes

// InNode represents an IN or NOT IN set predicate. Either Vals or Query is
// set. An empty Vals list is rejected at render time unless AllowEmpty is
// set, in which case IN renders as 1=0 and NOT IN as 1=1.
type InNode struct {
	Combinable
	Expr       Node
	Vals       []Node
	Query      Node
	Negate     bool
	AllowEmpty bool
}

func (n *InNode) Accept(v Visitor) string { return v.VisitIn(n) }

// NewInNode creates an InNode with properly initialised embedded structs.
func NewInNode(expr Node, vals []Node, negate bool) *InNode {
	n := &InNode{Expr: expr, Vals: vals, Negate: negate}
	n.self = n
	return n
}

// BetweenNode represents a BETWEEN or NOT BETWEEN range predicate.
type BetweenNode struct {
	Combinable
	Expr   Node
	Low    Node
	High   Node
	Negate bool
}

func (n *BetweenNode) Accept(v Visitor) string { return v.VisitBetween(n) }

// NewBetweenNode creates a BetweenNode with properly initialised embedded structs.
func NewBetweenNode(expr, low, high Node) *BetweenNode {
	n := &BetweenNode{Expr: expr, Low: low, High: high}
	n.self = n
	return n
}

// TupleComparisonNode compares a list of fields against rows of values or
// a sub-query: (a, b) IN ((1, 2), (3, 4)) or (a, b) = (1, 2).
// Op is one of "=", "IN" or "NOT IN". Dialects without tuple support expand
// the value form into AND/OR groups.
type TupleComparisonNode struct {
	Combinable
	Fields []Node
	Values [][]Node
	Query  Node
	Op     string
}

func (n *TupleComparisonNode) Accept(v Visitor) string { return v.VisitTuple(n) }

// NewTupleComparison builds a tuple comparison over raw values. Each value
// is bound with the type at the same position of types (missing entries
// mean no declared type).
func NewTupleComparison(fields []Node, op string, rows [][]any, types []string) *TupleComparisonNode {
	n := &TupleComparisonNode{Fields: fields, Op: op}
	n.self = n
	for _, row := range rows {
		vals := make([]Node, len(row))
		for i, v := range row {
			if node, ok := v.(Node); ok {
				vals[i] = node
				continue
			}
			typ := ""
			if i < len(types) {
				typ = types[i]
			}
			vals[i] = NewBindParam(v, typ)
		}
		n.Values = append(n.Values, vals)
	}
	return n
}

// NewTupleQuery builds a tuple comparison against a sub-query.
func NewTupleQuery(fields []Node, op string, query Node) *TupleComparisonNode {
	n := &TupleComparisonNode{Fields: fields, Op: op, Query: query}
	n.self = n
	return n
}
