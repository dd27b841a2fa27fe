package nodes

// Clone returns a deep copy of n. The copy shares no mutable state with
// the original: every child node, slice and nested statement is copied.
// Leaf values held in literals are copied by value.
func Clone(n Node) Node {
	return Rewrite(n, nil)
}

// Rewrite deep-copies n, giving fn the chance to replace any node before
// it is copied. When fn returns ok == true the returned node is used as-is
// and its children are not visited.
func Rewrite(n Node, fn func(Node) (Node, bool)) Node {
	r := rewriter{fn: fn}
	return r.node(n)
}

// CloneSelectCore deep-copies a SelectCore.
func CloneSelectCore(c *SelectCore) *SelectCore {
	if c == nil {
		return nil
	}
	return Clone(c).(*SelectCore)
}

type rewriter struct {
	fn func(Node) (Node, bool)
}

func (r rewriter) list(ns []Node) []Node {
	if ns == nil {
		return nil
	}
	out := make([]Node, len(ns))
	for i, n := range ns {
		out[i] = r.node(n)
	}
	return out
}

func (r rewriter) joins(js []*JoinNode) []*JoinNode {
	if js == nil {
		return nil
	}
	out := make([]*JoinNode, len(js))
	for i, j := range js {
		out[i] = r.node(j).(*JoinNode)
	}
	return out
}

func (r rewriter) ctes(cs []*CTENode) []*CTENode {
	if cs == nil {
		return nil
	}
	out := make([]*CTENode, len(cs))
	for i, c := range cs {
		out[i] = r.node(c).(*CTENode)
	}
	return out
}

func (r rewriter) assignments(as []*AssignmentNode) []*AssignmentNode {
	if as == nil {
		return nil
	}
	out := make([]*AssignmentNode, len(as))
	for i, a := range as {
		out[i] = r.node(a).(*AssignmentNode)
	}
	return out
}

func (r rewriter) node(n Node) Node {
	if n == nil {
		return nil
	}
	if r.fn != nil {
		if out, ok := r.fn(n); ok {
			return out
		}
	}
	switch v := n.(type) {
	case *Table:
		c := *v
		return &c
	case *TableAlias:
		return &TableAlias{Relation: r.node(v.Relation), AliasName: v.AliasName}
	case *Attribute:
		c := NewAttribute(r.node(v.Relation), v.Name)
		c.TypeName = v.TypeName
		return c
	case *IdentifierNode:
		return NewIdentifier(v.Name).Typed(v.TypeName)
	case *LiteralNode:
		return Literal(v.Value)
	case *StarNode:
		c := &StarNode{}
		if v.Table != nil {
			t := *v.Table
			c.Table = &t
		}
		return c
	case *SqlLiteral:
		c := NewSqlLiteral(v.Raw)
		if v.Binds != nil {
			c.Binds = append([]any(nil), v.Binds...)
		}
		return c
	case *BindParamNode:
		c := *v
		return &c
	case *CastedNode:
		return NewCasted(v.Value, v.TypeName)
	case *ComparisonNode:
		c := NewComparisonNode(r.node(v.Left), r.node(v.Right), v.Op)
		c.Raw = v.Raw
		return c
	case *UnaryNode:
		c := &UnaryNode{Expr: r.node(v.Expr), Op: v.Op}
		c.self = c
		return c
	case *AndNode:
		c := &AndNode{Left: r.node(v.Left), Right: r.node(v.Right)}
		c.self = c
		return c
	case *OrNode:
		c := &OrNode{Left: r.node(v.Left), Right: r.node(v.Right)}
		c.self = c
		return c
	case *NotNode:
		c := &NotNode{Expr: r.node(v.Expr)}
		c.self = c
		return c
	case *InNode:
		c := NewInNode(r.node(v.Expr), r.list(v.Vals), v.Negate)
		c.Query = r.node(v.Query)
		c.AllowEmpty = v.AllowEmpty
		return c
	case *BetweenNode:
		c := NewBetweenNode(r.node(v.Expr), r.node(v.Low), r.node(v.High))
		c.Negate = v.Negate
		return c
	case *TupleComparisonNode:
		c := NewTupleQuery(r.list(v.Fields), v.Op, r.node(v.Query))
		for _, row := range v.Values {
			c.Values = append(c.Values, r.list(row))
		}
		return c
	case *ExpressionTree:
		return NewTree(v.Conjunction, r.list(v.Children)...)
	case *GroupingNode:
		c := &GroupingNode{Expr: r.node(v.Expr)}
		c.self = c
		return c
	case *InfixNode:
		return NewInfixNode(r.node(v.Left), r.node(v.Right), v.Op)
	case *JoinNode:
		c := *v
		c.Left = r.node(v.Left)
		c.Right = r.node(v.Right)
		c.On = r.node(v.On)
		return &c
	case *OrderingNode:
		c := &OrderingNode{Expr: r.node(v.Expr), Direction: v.Direction, Nulls: v.Nulls}
		c.self = c
		return c
	case *FunctionNode:
		c := NewFunction(v.Name)
		c.Args = r.list(v.Args)
		c.Distinct = v.Distinct
		c.ReturnType = v.ReturnType
		return c
	case *CaseNode:
		c := NewCase()
		c.Operand = r.node(v.Operand)
		for _, w := range v.Whens {
			c.Whens = append(c.Whens, CaseWhen{Condition: r.node(w.Condition), Result: r.node(w.Result)})
		}
		c.ElseVal = r.node(v.ElseVal)
		return c
	case *ExistsNode:
		c := &ExistsNode{Subquery: r.node(v.Subquery), Negated: v.Negated}
		c.self = c
		return c
	case *CTENode:
		c := *v
		c.Query = r.node(v.Query)
		c.Columns = append([]string(nil), v.Columns...)
		return &c
	case *AliasNode:
		return NewAliasNode(r.node(v.Expr), v.Name)
	case *AssignmentNode:
		return &AssignmentNode{Left: r.node(v.Left), Right: r.node(v.Right)}
	case *OnConflictNode:
		return &OnConflictNode{
			Columns:     r.list(v.Columns),
			Action:      v.Action,
			Assignments: r.assignments(v.Assignments),
			Wheres:      r.list(v.Wheres),
		}
	case *SelectCore:
		c := *v
		c.CTEs = r.ctes(v.CTEs)
		c.Modifiers = r.list(v.Modifiers)
		c.DistinctOn = r.list(v.DistinctOn)
		c.Projections = r.list(v.Projections)
		c.Froms = r.list(v.Froms)
		c.Joins = r.joins(v.Joins)
		c.Wheres = r.list(v.Wheres)
		c.Groups = r.list(v.Groups)
		c.Havings = r.list(v.Havings)
		c.Orders = r.list(v.Orders)
		c.Limit = r.node(v.Limit)
		c.Offset = r.node(v.Offset)
		c.Epilog = r.node(v.Epilog)
		c.Unions = nil
		for _, u := range v.Unions {
			c.Unions = append(c.Unions, UnionPart{Type: u.Type, Query: r.node(u.Query)})
		}
		return &c
	case *InsertStatement:
		c := *v
		c.With = r.ctes(v.With)
		c.Modifiers = r.list(v.Modifiers)
		c.Into = r.node(v.Into)
		c.Columns = r.list(v.Columns)
		c.Values = nil
		for _, row := range v.Values {
			c.Values = append(c.Values, r.list(row))
		}
		c.Select = r.node(v.Select)
		if v.OnConflict != nil {
			c.OnConflict = r.node(v.OnConflict).(*OnConflictNode)
		}
		c.Returning = r.list(v.Returning)
		c.Epilog = r.node(v.Epilog)
		return &c
	case *UpdateStatement:
		c := *v
		c.With = r.ctes(v.With)
		c.Modifiers = r.list(v.Modifiers)
		c.Table = r.node(v.Table)
		c.Joins = r.joins(v.Joins)
		c.Assignments = r.assignments(v.Assignments)
		c.Wheres = r.list(v.Wheres)
		c.Orders = r.list(v.Orders)
		c.Limit = r.node(v.Limit)
		c.Returning = r.list(v.Returning)
		c.Epilog = r.node(v.Epilog)
		return &c
	case *DeleteStatement:
		c := *v
		c.With = r.ctes(v.With)
		c.Modifiers = r.list(v.Modifiers)
		c.From = r.node(v.From)
		c.Joins = r.joins(v.Joins)
		c.Wheres = r.list(v.Wheres)
		c.Orders = r.list(v.Orders)
		c.Limit = r.node(v.Limit)
		c.Returning = r.list(v.Returning)
		c.Epilog = r.node(v.Epilog)
		return &c
	case Cloner:
		return v.CloneNode()
	}
	return n
}
