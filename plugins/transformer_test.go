package plugins

import (
	"errors"
	"testing"

	"github.com/bawdo/quarry/nodes"
)

// --- BaseTransformer no-op behaviour ---

func TestBaseTransformerSelect(t *testing.T) {
	t.Parallel()
	bt := BaseTransformer{}
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{
		Froms: []nodes.Node{users},
		Projections: []nodes.Node{users.Col("id")},
		Wheres:      []nodes.Node{users.Col("active").Eq(true)},
	}

	result, err := bt.TransformSelect(core)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != core {
		t.Error("expected BaseTransformer.TransformSelect to return input unchanged")
	}
}

func TestBaseTransformerInsert(t *testing.T) {
	t.Parallel()
	bt := BaseTransformer{}
	users := nodes.NewTable("users")
	stmt := &nodes.InsertStatement{
		Into:    users,
		Columns: []nodes.Node{users.Col("name")},
		Values:  [][]nodes.Node{{nodes.Literal("Alice")}},
	}

	result, err := bt.TransformInsert(stmt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != stmt {
		t.Error("expected BaseTransformer.TransformInsert to return input unchanged")
	}
}

func TestBaseTransformerUpdate(t *testing.T) {
	t.Parallel()
	bt := BaseTransformer{}
	users := nodes.NewTable("users")
	stmt := &nodes.UpdateStatement{
		Table: users,
		Assignments: []*nodes.AssignmentNode{
			{
				Left:  users.Col("name"),
				Right: nodes.Literal("Bob"),
			},
		},
		Wheres: []nodes.Node{users.Col("id").Eq(1)},
	}

	result, err := bt.TransformUpdate(stmt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != stmt {
		t.Error("expected BaseTransformer.TransformUpdate to return input unchanged")
	}
}

func TestBaseTransformerDelete(t *testing.T) {
	t.Parallel()
	bt := BaseTransformer{}
	users := nodes.NewTable("users")
	stmt := &nodes.DeleteStatement{
		From:   users,
		Wheres: []nodes.Node{users.Col("id").Eq(1)},
	}

	result, err := bt.TransformDelete(stmt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != stmt {
		t.Error("expected BaseTransformer.TransformDelete to return input unchanged")
	}
}

// --- BaseTransformer with nil inputs ---

func TestBaseTransformerNilSelect(t *testing.T) {
	t.Parallel()
	bt := BaseTransformer{}

	result, err := bt.TransformSelect(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Error("expected nil input to return nil")
	}
}

func TestBaseTransformerNilInsert(t *testing.T) {
	t.Parallel()
	bt := BaseTransformer{}

	result, err := bt.TransformInsert(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Error("expected nil input to return nil")
	}
}

func TestBaseTransformerNilUpdate(t *testing.T) {
	t.Parallel()
	bt := BaseTransformer{}

	result, err := bt.TransformUpdate(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Error("expected nil input to return nil")
	}
}

func TestBaseTransformerNilDelete(t *testing.T) {
	t.Parallel()
	bt := BaseTransformer{}

	result, err := bt.TransformDelete(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Error("expected nil input to return nil")
	}
}

// --- Pipeline ---

type wherePlugin struct {
	BaseTransformer
	col string
}

func (w wherePlugin) TransformSelect(c *nodes.SelectCore) (*nodes.SelectCore, error) {
	c.Wheres = append(c.Wheres, nodes.Ident(w.col).IsNull())
	return c, nil
}

type failingPlugin struct{ BaseTransformer }

func (failingPlugin) TransformDelete(*nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	return nil, errors.New("deletes are not allowed")
}

func TestPipelineRunsInOrder(t *testing.T) {
	t.Parallel()
	p := Pipeline{wherePlugin{col: "a"}, wherePlugin{col: "b"}}
	core, err := p.Select(&nodes.SelectCore{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(core.Wheres) != 2 {
		t.Fatalf("expected 2 wheres, got %d", len(core.Wheres))
	}
	first := core.Wheres[0].(*nodes.UnaryNode).Expr.(*nodes.IdentifierNode)
	if first.Name != "a" {
		t.Errorf("expected first plugin to run first, got %q", first.Name)
	}
}

func TestPipelineStopsOnError(t *testing.T) {
	t.Parallel()
	p := Pipeline{BaseTransformer{}, failingPlugin{}}
	stmt, err := p.Delete(&nodes.DeleteStatement{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if stmt != nil {
		t.Error("expected nil statement on error")
	}
	if _, err := p.Update(&nodes.UpdateStatement{}); err != nil {
		t.Errorf("unexpected update error: %v", err)
	}
	if _, err := Pipeline(nil).Insert(&nodes.InsertStatement{}); err != nil {
		t.Errorf("unexpected insert error: %v", err)
	}
}
