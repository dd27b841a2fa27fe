package nodes

// Attribute represents a column reference bound to a table or table alias.
// A nil Relation renders the bare column name.
type Attribute struct {
	Predications
	Arithmetics
	Combinable
	Name     string
	Relation Node   // *Table, *TableAlias or nil
	TypeName string // semantic type used when binding compared values
}

// NewAttribute creates an Attribute with Predications and Combinable
// properly initialized to reference the new Attribute as self.
func NewAttribute(relation Node, name string) *Attribute {
	a := &Attribute{Name: name, Relation: relation}
	a.Predications.self = a
	a.Arithmetics.self = a
	a.Combinable.self = a
	return a
}

func (a *Attribute) Accept(v Visitor) string { return v.VisitAttribute(a) }

// Typed returns a copy of the Attribute with TypeName set.
// The copy has its own Predications/Arithmetics/Combinable self pointers.
func (a *Attribute) Typed(typeName string) *Attribute {
	c := NewAttribute(a.Relation, a.Name)
	c.TypeName = typeName
	return c
}

// Coerce wraps val in an explicit CAST using the attribute's type. Without
// a type it returns a plain Literal.
func (a *Attribute) Coerce(val any) Node {
	if a.TypeName != "" {
		return NewCasted(val, a.TypeName)
	}
	return Literal(val)
}

// IdentifierNode is a free-form field reference such as "id",
// "articles.id", "title AS t" or "CONCAT(a, b)". Visitors quote the parts
// they can identify when identifier quoting is enabled and emit the rest
// verbatim.
type IdentifierNode struct {
	Predications
	Arithmetics
	Combinable
	Name     string
	TypeName string
}

// NewIdentifier creates an IdentifierNode.
func NewIdentifier(name string) *IdentifierNode {
	n := &IdentifierNode{Name: name}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// Ident is shorthand for NewIdentifier.
func Ident(name string) *IdentifierNode { return NewIdentifier(name) }

func (n *IdentifierNode) Accept(v Visitor) string { return v.VisitIdentifier(n) }

// Typed returns a copy of the identifier carrying typeName.
func (n *IdentifierNode) Typed(typeName string) *IdentifierNode {
	c := NewIdentifier(n.Name)
	c.TypeName = typeName
	return c
}

// typeOf returns the declared type of a field node, if any.
func typeOf(n Node) string {
	switch f := n.(type) {
	case *Attribute:
		return f.TypeName
	case *IdentifierNode:
		return f.TypeName
	}
	return ""
}

// operand converts a compared value into a node. Values compared against a
// typed field become typed bind parameters.
func operand(field Node, val any) Node {
	if n, ok := val.(Node); ok {
		return n
	}
	if val != nil {
		if t := typeOf(field); t != "" {
			return NewBindParam(val, t)
		}
	}
	return Literal(val)
}
