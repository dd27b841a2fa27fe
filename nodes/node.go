// Package nodes defines the AST node types used to represent SQL query elements.
package nodes

// Node is the interface that all AST nodes implement.
type Node interface {
	Accept(visitor Visitor) string
}

// Visitor defines the interface for walking the AST and producing output.
// Concrete visitors (e.g., Postgres, MySQL) implement this interface.
type Visitor interface {
	VisitTable(node *Table) string
	VisitTableAlias(node *TableAlias) string
	VisitAttribute(node *Attribute) string
	VisitIdentifier(node *IdentifierNode) string
	VisitLiteral(node *LiteralNode) string
	VisitStar(node *StarNode) string
	VisitSqlLiteral(node *SqlLiteral) string
	VisitBindParam(node *BindParamNode) string
	VisitCasted(node *CastedNode) string
	VisitComparison(node *ComparisonNode) string
	VisitUnary(node *UnaryNode) string
	VisitAnd(node *AndNode) string
	VisitOr(node *OrNode) string
	VisitNot(node *NotNode) string
	VisitIn(node *InNode) string
	VisitBetween(node *BetweenNode) string
	VisitTuple(node *TupleComparisonNode) string
	VisitExpressionTree(node *ExpressionTree) string
	VisitGrouping(node *GroupingNode) string
	VisitInfix(node *InfixNode) string
	VisitJoin(node *JoinNode) string
	VisitOrdering(node *OrderingNode) string
	VisitSelectCore(node *SelectCore) string
	VisitInsertStatement(node *InsertStatement) string
	VisitUpdateStatement(node *UpdateStatement) string
	VisitDeleteStatement(node *DeleteStatement) string
	VisitAssignment(node *AssignmentNode) string
	VisitOnConflict(node *OnConflictNode) string
	VisitFunction(node *FunctionNode) string
	VisitCase(node *CaseNode) string
	VisitExists(node *ExistsNode) string
	VisitCTE(node *CTENode) string
	VisitAlias(node *AliasNode) string
}

// Parameterizer is implemented by visitors that collect positional
// parameters. Callers use type assertion to extract collected parameters
// after SQL generation.
type Parameterizer interface {
	Params() []any
	Reset()
}

// Subquery is implemented by query builders that can be embedded in another
// statement. Accept renders the query wrapped in parentheses; Statement
// returns a node rendering the bare statement for contexts such as
// INSERT ... SELECT or a CTE body.
type Subquery interface {
	Node
	Statement() Node
}

// Cloner is implemented by nodes that wrap state the generic Clone walker
// cannot see, such as query builders used as sub-queries.
type Cloner interface {
	CloneNode() Node
}

// Literal wraps a raw Go value into a LiteralNode. If val already
// implements Node, it is returned as-is.
func Literal(val any) Node {
	if n, ok := val.(Node); ok {
		return n
	}
	lit := &LiteralNode{Value: val}
	lit.Predications.self = lit
	lit.Combinable.self = lit
	return lit
}

// IsNull reports whether n is a NULL literal or a bind parameter holding nil.
func IsNull(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *LiteralNode:
		return v.Value == nil
	case *BindParamNode:
		return v.Value == nil
	case *CastedNode:
		return v.Value == nil
	}
	return false
}
