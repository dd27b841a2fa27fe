package nodes

// ComparisonOp represents a binary comparison operator.
type ComparisonOp int

const (
	OpEq ComparisonOp = iota
	OpNotEq
	OpGt
	OpGtEq
	OpLt
	OpLtEq
	OpLike
	OpNotLike
	OpRegexp
	OpNotRegexp
	OpDistinctFrom
	OpNotDistinctFrom
	OpCaseSensitiveEq
	OpCaseInsensitiveEq
	OpContains
	OpOverlaps
	OpIs
	OpIsNot
	OpILike
	OpNotILike
	OpNotEqANSI // <>
	OpCustom    // operator text taken from ComparisonNode.Raw
)

// ComparisonNode represents a binary comparison: Left Op Right.
type ComparisonNode struct {
	Combinable
	Left  Node
	Right Node
	Op    ComparisonOp
	Raw   string // operator text for OpCustom
}

func (n *ComparisonNode) Accept(v Visitor) string { return v.VisitComparison(n) }

// NewComparisonNode creates a ComparisonNode with properly initialised embedded structs.
func NewComparisonNode(left, right Node, op ComparisonOp) *ComparisonNode {
	n := &ComparisonNode{Left: left, Right: right, Op: op}
	n.self = n
	return n
}

// NewCustomComparison creates a comparison using a raw operator such as
// "@>" or "~*". Visitors validate the operator text before rendering.
func NewCustomComparison(left, right Node, op string) *ComparisonNode {
	n := NewComparisonNode(left, right, OpCustom)
	n.Raw = op
	return n
}
