package plugins

import (
	"testing"

	"github.com/bawdo/quarry/nodes"
)

func TestCollectTablesFromTable(t *testing.T) {
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{Froms: []nodes.Node{users}}

	refs := CollectTables(core)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if refs[0].Name != "users" {
		t.Errorf("expected name 'users', got %q", refs[0].Name)
	}
	if refs[0].Relation != users {
		t.Error("expected relation to be the table")
	}
}

func TestCollectTablesFromAlias(t *testing.T) {
	u := nodes.NewTable("users").Alias("u")
	core := &nodes.SelectCore{Froms: []nodes.Node{u}}

	refs := CollectTables(core)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if refs[0].Name != "users" {
		t.Errorf("expected underlying name 'users', got %q", refs[0].Name)
	}
	if refs[0].Relation != u {
		t.Error("expected relation to be the alias")
	}
}

func TestCollectTablesIncludesJoins(t *testing.T) {
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")
	comments := nodes.NewTable("comments")
	core := &nodes.SelectCore{
		Froms: []nodes.Node{users},
		Joins: []*nodes.JoinNode{
			{Right: posts},
			{Right: comments},
		},
	}

	refs := CollectTables(core)
	if len(refs) != 3 {
		t.Fatalf("expected 3 refs, got %d", len(refs))
	}
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	if names[0] != "users" || names[1] != "posts" || names[2] != "comments" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestCollectTablesSkipsSubquery(t *testing.T) {
	users := nodes.NewTable("users")
	subquery := &nodes.SelectCore{Froms: []nodes.Node{nodes.NewTable("posts")}}
	core := &nodes.SelectCore{
		Froms: []nodes.Node{users},
		Joins: []*nodes.JoinNode{{Right: subquery}},
	}

	refs := CollectTables(core)
	// Should only find 'users', subquery is skipped
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref (subquery skipped), got %d", len(refs))
	}
	if refs[0].Name != "users" {
		t.Errorf("expected 'users', got %q", refs[0].Name)
	}
}

func TestCollectTablesNilFrom(t *testing.T) {
	core := &nodes.SelectCore{}

	refs := CollectTables(core)
	if len(refs) != 0 {
		t.Errorf("expected 0 refs, got %d", len(refs))
	}
}

func TestCollectTablesMultipleFroms(t *testing.T) {
	core := &nodes.SelectCore{Froms: []nodes.Node{nodes.NewTable("users"), nodes.NewTable("groups").Alias("g")}}

	refs := CollectTables(core)
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[1].Name != "groups" || nodes.RelationName(refs[1].Relation) != "g" {
		t.Errorf("unexpected second ref %+v", refs[1])
	}
}

func TestCollectTargetIncludesJoins(t *testing.T) {
	a := nodes.NewTable("articles").Alias("a")
	refs := CollectTarget(a, []*nodes.JoinNode{{Right: nodes.NewTable("authors")}})
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[0].Name != "articles" || refs[1].Name != "authors" {
		t.Errorf("unexpected refs %+v", refs)
	}
}
