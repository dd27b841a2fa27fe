package nodes

// CaseWhen is one WHEN/THEN arm.
type CaseWhen struct {
	Condition Node
	Result    Node
}

// CaseNode is a CASE expression. With a nil Operand it is the searched
// form (CASE WHEN cond THEN ...); otherwise each Condition is compared
// with Operand.
type CaseNode struct {
	Predications
	Arithmetics
	Combinable
	Operand Node
	Whens   []CaseWhen
	ElseVal Node // nil renders no ELSE
}

// NewCase starts a CASE expression, simple when an operand is given.
func NewCase(operand ...Node) *CaseNode {
	n := &CaseNode{}
	if len(operand) > 0 {
		n.Operand = operand[0]
	}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

func (n *CaseNode) Accept(v Visitor) string { return v.VisitCase(n) }

// When appends an arm.
func (n *CaseNode) When(cond, result Node) *CaseNode {
	n.Whens = append(n.Whens, CaseWhen{Condition: cond, Result: result})
	return n
}

// Else sets the fallback result.
func (n *CaseNode) Else(result Node) *CaseNode {
	n.ElseVal = result
	return n
}
