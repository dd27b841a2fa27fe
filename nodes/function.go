package nodes

// FunctionNode represents a SQL function call such as COUNT, COALESCE or
// CAST. ReturnType declares the semantic type of the result, which is used
// to cast values read from a column aliased to this function.
type FunctionNode struct {
	Predications
	Arithmetics
	Combinable
	Name       string
	Args       []Node
	Distinct   bool
	ReturnType string
}

func (n *FunctionNode) Accept(v Visitor) string { return v.VisitFunction(n) }

// NewFunction creates a FunctionNode with properly initialised embedded
// structs. Non-node arguments are wrapped as literals.
func NewFunction(name string, args ...any) *FunctionNode {
	n := &FunctionNode{Name: name}
	for _, a := range args {
		n.Args = append(n.Args, Literal(a))
	}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// Returns sets the declared result type and returns the node for chaining.
func (n *FunctionNode) Returns(typeName string) *FunctionNode {
	n.ReturnType = typeName
	return n
}

// Count creates a COUNT aggregate. Pass nil for COUNT(*).
func Count(expr Node) *FunctionNode {
	if expr == nil {
		expr = Star()
	}
	return NewFunction("COUNT", expr).Returns("integer")
}

// CountDistinct creates a COUNT(DISTINCT expr) aggregate.
func CountDistinct(expr Node) *FunctionNode {
	n := Count(expr)
	n.Distinct = true
	return n
}

// Sum creates a SUM aggregate.
func Sum(expr Node) *FunctionNode { return NewFunction("SUM", expr).Returns("float") }

// Avg creates an AVG aggregate.
func Avg(expr Node) *FunctionNode { return NewFunction("AVG", expr).Returns("float") }

// Min creates a MIN aggregate.
func Min(expr Node) *FunctionNode { return NewFunction("MIN", expr) }

// Max creates a MAX aggregate.
func Max(expr Node) *FunctionNode { return NewFunction("MAX", expr) }

// Coalesce creates a COALESCE(args...) function call.
func Coalesce(args ...Node) *FunctionNode {
	return NewFunction("COALESCE", toAny(args)...)
}

// Concat creates a CONCAT(args...) function call.
func Concat(args ...Node) *FunctionNode {
	return NewFunction("CONCAT", toAny(args)...).Returns("string")
}

// Lower creates a LOWER(expr) function call.
func Lower(expr Node) *FunctionNode { return NewFunction("LOWER", expr).Returns("string") }

// Upper creates an UPPER(expr) function call.
func Upper(expr Node) *FunctionNode { return NewFunction("UPPER", expr).Returns("string") }

// Now creates a NOW() call.
func Now() *FunctionNode { return NewFunction("NOW").Returns("datetime") }

// Cast creates a CAST(expr AS typeName) expression.
// The type name is stored as a SqlLiteral so it renders verbatim.
func Cast(expr Node, typeName string) *FunctionNode {
	return NewFunction("CAST", expr, NewSqlLiteral(typeName))
}

func toAny(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}
