package nodes

import "testing"

// --- Table / Attribute creation ---

func TestTableCreatesAttributes(t *testing.T) {
	t.Parallel()
	users := NewTable("users")
	col := users.Col("id")

	if col.Name != "id" {
		t.Errorf("expected col name %q, got %q", "id", col.Name)
	}
	if col.Relation != users {
		t.Error("expected attribute relation to be the users table")
	}
}

func TestTableAliasCreatesAttributes(t *testing.T) {
	t.Parallel()
	u := NewTable("users").Alias("u")
	col := u.Col("name")
	if col.Relation != u {
		t.Error("expected attribute relation to be the table alias")
	}
	if RelationName(u) != "u" {
		t.Errorf("expected relation name u, got %q", RelationName(u))
	}
	if TableSourceName(u) != "users" {
		t.Errorf("expected source name users, got %q", TableSourceName(u))
	}
}

// --- Typed operands ---

func TestTypedAttributeBindsTypedValues(t *testing.T) {
	t.Parallel()
	id := NewTable("users").Col("id").Typed("integer")
	cmp := id.Eq(5)

	bp, ok := cmp.Right.(*BindParamNode)
	if !ok {
		t.Fatalf("expected *BindParamNode, got %T", cmp.Right)
	}
	if bp.TypeName != "integer" || bp.Value != 5 {
		t.Errorf("unexpected bind param %+v", bp)
	}
}

func TestUntypedAttributeUsesLiteral(t *testing.T) {
	t.Parallel()
	cmp := NewTable("users").Col("name").Eq("bob")
	if _, ok := cmp.Right.(*LiteralNode); !ok {
		t.Fatalf("expected *LiteralNode, got %T", cmp.Right)
	}
}

func TestNilValueStaysLiteral(t *testing.T) {
	t.Parallel()
	cmp := Ident("deleted").Typed("datetime").Is(nil)
	if !IsNull(cmp.Right) {
		t.Error("expected right side to be NULL")
	}
	if cmp.Op != OpIs {
		t.Errorf("expected OpIs, got %v", cmp.Op)
	}
}

func TestInListAndQuery(t *testing.T) {
	t.Parallel()
	in := Ident("id").In(1, 2, 3)
	if len(in.Vals) != 3 || in.Negate {
		t.Errorf("unexpected InNode %+v", in)
	}
	sub := &SelectCore{}
	nin := Ident("id").NotInQuery(sub)
	if nin.Query != sub || !nin.Negate {
		t.Errorf("unexpected InNode %+v", nin)
	}
}

func TestCustomOperator(t *testing.T) {
	t.Parallel()
	cmp := Ident("tags").Op("@>", "{a}")
	if cmp.Op != OpCustom || cmp.Raw != "@>" {
		t.Errorf("unexpected comparison %+v", cmp)
	}
}

// --- Expression trees ---

func TestExpressionTreeSkipsNil(t *testing.T) {
	t.Parallel()
	tree := AllOf(Ident("a").Eq(1), nil, Ident("b").Eq(2))
	if tree.Len() != 2 {
		t.Errorf("expected 2 children, got %d", tree.Len())
	}
	if tree.Conjunction.String() != "AND" {
		t.Errorf("expected AND, got %s", tree.Conjunction)
	}
	if AnyOf().Conjunction.String() != "OR" {
		t.Error("expected OR conjunction")
	}
}

func TestTupleComparisonTypes(t *testing.T) {
	t.Parallel()
	tc := NewTupleComparison(
		[]Node{Ident("a"), Ident("b")},
		"IN",
		[][]any{{1, "x"}, {2, "y"}},
		[]string{"integer"},
	)
	if len(tc.Values) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tc.Values))
	}
	first := tc.Values[0][0].(*BindParamNode)
	second := tc.Values[0][1].(*BindParamNode)
	if first.TypeName != "integer" || second.TypeName != "" {
		t.Errorf("unexpected types %q %q", first.TypeName, second.TypeName)
	}
}

// --- Functions ---

func TestCountDefaultsToStar(t *testing.T) {
	t.Parallel()
	c := Count(nil)
	if _, ok := c.Args[0].(*StarNode); !ok {
		t.Fatalf("expected star argument, got %T", c.Args[0])
	}
	if c.ReturnType != "integer" {
		t.Errorf("expected integer return type, got %q", c.ReturnType)
	}
	if !CountDistinct(Ident("id")).Distinct {
		t.Error("expected distinct")
	}
}

// --- Clone ---

func TestCloneSelectCoreIsDeep(t *testing.T) {
	t.Parallel()
	users := NewTable("users")
	core := &SelectCore{
		Froms:       []Node{users},
		Projections: []Node{users.Col("id")},
		Wheres:      []Node{AllOf(users.Col("id").Eq(1))},
		Joins: []*JoinNode{{
			Right: NewTable("posts"),
			On:    users.Col("id").Eq(NewTable("posts").Col("user_id")),
		}},
		Orders: []Node{users.Col("id").Desc()},
		Limit:  NewSqlLiteral("10"),
		Unions: []UnionPart{{Type: UnionAll, Query: &SelectCore{Froms: []Node{NewTable("admins")}}}},
	}
	c := CloneSelectCore(core)

	if c == core {
		t.Fatal("expected a new SelectCore")
	}
	if c.Wheres[0] == core.Wheres[0] {
		t.Error("expected where tree to be copied")
	}
	if c.Joins[0] == core.Joins[0] || c.Joins[0].On == core.Joins[0].On {
		t.Error("expected join to be copied")
	}
	if c.Unions[0].Query == core.Unions[0].Query {
		t.Error("expected union query to be copied")
	}

	c.Wheres[0].(*ExpressionTree).Add(Ident("x").Eq(2))
	if core.Wheres[0].(*ExpressionTree).Len() != 1 {
		t.Error("mutating the clone changed the original")
	}
}

func TestCloneKeepsSelfPointers(t *testing.T) {
	t.Parallel()
	attr := NewTable("users").Col("id").Typed("integer")
	c := Clone(attr).(*Attribute)
	cmp := c.Eq(1)
	if cmp.Left != c {
		t.Error("expected predications of the clone to reference the clone")
	}
	if c.TypeName != "integer" {
		t.Errorf("expected type to survive, got %q", c.TypeName)
	}
}

type fakeQuery struct{ cloned bool }

func (f *fakeQuery) Accept(Visitor) string { return "" }
func (f *fakeQuery) CloneNode() Node      { return &fakeQuery{cloned: true} }

func TestCloneDelegatesToCloner(t *testing.T) {
	t.Parallel()
	in := Ident("id").InQuery(&fakeQuery{})
	c := Clone(in).(*InNode)
	fq, ok := c.Query.(*fakeQuery)
	if !ok || !fq.cloned {
		t.Errorf("expected Cloner to be used, got %#v", c.Query)
	}
}

func TestRewriteReplacesNodes(t *testing.T) {
	t.Parallel()
	alias := NewTable("articles").Alias("a")
	cond := AllOf(alias.Col("id").Eq(1), Ident("a.title").Eq("x"))
	out := Rewrite(cond, func(n Node) (Node, bool) {
		if attr, ok := n.(*Attribute); ok {
			return NewAttribute(nil, attr.Name), true
		}
		return nil, false
	}).(*ExpressionTree)

	got := out.Children[0].(*ComparisonNode).Left.(*Attribute)
	if got.Relation != nil {
		t.Error("expected relation to be stripped")
	}
	orig := cond.Children[0].(*ComparisonNode).Left.(*Attribute)
	if orig.Relation == nil {
		t.Error("original must not be modified")
	}
}

// --- Keywords and builders ---

func TestJoinTypeKeywords(t *testing.T) {
	t.Parallel()
	tests := map[JoinType]string{
		InnerJoin:      "INNER JOIN",
		LeftOuterJoin:  "LEFT JOIN",
		RightOuterJoin: "RIGHT JOIN",
		FullOuterJoin:  "FULL OUTER JOIN",
		CrossJoin:      "CROSS JOIN",
		StringJoin:     "",
	}
	for jt, want := range tests {
		if got := jt.String(); got != want {
			t.Errorf("JoinType(%d).String() = %q, want %q", jt, got, want)
		}
	}
}

func TestUnaryOpKeywords(t *testing.T) {
	t.Parallel()
	if got := OpIsNull.String(); got != "IS NULL" {
		t.Errorf("expected IS NULL, got %q", got)
	}
	if got := OpIsNotNull.String(); got != "IS NOT NULL" {
		t.Errorf("expected IS NOT NULL, got %q", got)
	}
}

func TestOrIsGroupedAndCloneable(t *testing.T) {
	t.Parallel()
	id := NewTable("users").Col("id")
	g := id.Eq(1).Or(id.Eq(2))
	or, ok := g.Expr.(*OrNode)
	if !ok {
		t.Fatalf("expected grouped OrNode, got %T", g.Expr)
	}
	if or.Right == nil {
		t.Error("expected right operand")
	}

	c, ok := Clone(g).(*GroupingNode)
	if !ok || c == g {
		t.Fatalf("expected a distinct GroupingNode clone, got %T", Clone(g))
	}
	if _, ok := c.Not().Expr.(*GroupingNode); !ok {
		t.Error("expected cloned grouping to keep its self pointer")
	}
}

func TestExistsBuilders(t *testing.T) {
	t.Parallel()
	sub := NewSqlLiteral("SELECT 1")
	if Exists(sub).Negated {
		t.Error("expected EXISTS")
	}
	n := NotExists(sub)
	if !n.Negated || n.Subquery != sub {
		t.Error("expected NOT EXISTS over the sub-query")
	}
	if _, ok := n.Not().Expr.(*ExistsNode); !ok {
		t.Error("expected Not to wrap the exists node")
	}
}
