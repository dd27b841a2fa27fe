package nodes

// Conjunction is the boolean operator joining the children of an
// ExpressionTree.
type Conjunction int

const (
	ConjAnd Conjunction = iota
	ConjOr
)

// String returns the SQL keyword for the conjunction.
func (c Conjunction) String() string {
	if c == ConjOr {
		return "OR"
	}
	return "AND"
}

// ExpressionTree is an ordered, n-ary AND/OR group. An empty tree renders
// as the empty string and is omitted by the enclosing clause; a tree with
// more than one rendered child is wrapped in parentheses.
type ExpressionTree struct {
	Combinable
	Conjunction Conjunction
	Children    []Node
}

func (n *ExpressionTree) Accept(v Visitor) string { return v.VisitExpressionTree(n) }

// NewTree creates an ExpressionTree with the given conjunction.
func NewTree(conj Conjunction, children ...Node) *ExpressionTree {
	n := &ExpressionTree{Conjunction: conj}
	n.self = n
	n.Add(children...)
	return n
}

// AllOf creates an AND tree.
func AllOf(children ...Node) *ExpressionTree { return NewTree(ConjAnd, children...) }

// AnyOf creates an OR tree.
func AnyOf(children ...Node) *ExpressionTree { return NewTree(ConjOr, children...) }

// Add appends children, skipping nil nodes.
func (n *ExpressionTree) Add(children ...Node) *ExpressionTree {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Len returns the number of direct children.
func (n *ExpressionTree) Len() int { return len(n.Children) }
