package visitors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/bawdo/quarry/binder"
	"github.com/bawdo/quarry/nodes"
)

// goldenQueries are rendered for every dialect and compared with
// testdata/golden/<query>_<dialect>.golden.
var goldenQueries = map[string]func() nodes.Node{
	"paged_select": func() nodes.Node {
		users := nodes.NewTable("users")
		return &nodes.SelectCore{
			Projections: []nodes.Node{users.Col("id"), users.Col("email")},
			Froms:       []nodes.Node{users},
			Wheres: []nodes.Node{nodes.AllOf(
				users.Col("active").Eq(true),
				nodes.AnyOf(users.Col("role").Eq("admin"), users.Col("role").Eq("owner")),
			)},
			Orders: []nodes.Node{users.Col("id").Desc()},
			Limit:  nodes.NewSqlLiteral("10"),
			Offset: nodes.NewSqlLiteral("20"),
		}
	},
	"tuple_in": func() nodes.Node {
		return &nodes.SelectCore{
			Froms: []nodes.Node{nodes.NewTable("orders")},
			Wheres: []nodes.Node{nodes.NewTupleComparison(
				[]nodes.Node{nodes.Ident("customer_id"), nodes.Ident("region")},
				"IN",
				[][]any{{1, "eu"}, {2, "us"}},
				[]string{"integer", "string"},
			)},
		}
	},
	"insert_returning": func() nodes.Node {
		users := nodes.NewTable("users")
		return &nodes.InsertStatement{
			Into:    users,
			Columns: []nodes.Node{users.Col("name"), users.Col("email")},
			Values: [][]nodes.Node{{
				nodes.NewBindParam("ann", "string"),
				nodes.NewBindParam("ann@example.com", "string"),
			}},
			Returning: []nodes.Node{nodes.Ident("id")},
		}
	},
}

func goldenRender(d Dialect, vb *binder.ValueBinder, n nodes.Node) []byte {
	sql := n.Accept(d)
	if err := d.Err(); err != nil {
		return []byte("error: " + err.Error() + "\n")
	}
	var sb strings.Builder
	sb.WriteString(sql)
	sb.WriteString("\n")
	for _, b := range vb.Bindings() {
		fmt.Fprintf(&sb, "%s = %v", b.Param, b.Value)
		if b.Type != "" {
			fmt.Fprintf(&sb, " [%s]", b.Type)
		}
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}

func TestGoldenDialects(t *testing.T) {
	t.Parallel()
	for query, build := range goldenQueries {
		query, build := query, build
		for _, dialect := range []string{Postgres, MySQL, SQLite, SQLServer} {
			dialect := dialect
			t.Run(query+"_"+dialect, func(t *testing.T) {
				t.Parallel()
				vb := binder.New()
				d, err := New(dialect, WithBinder(vb))
				if err != nil {
					t.Fatal(err)
				}
				g := goldie.New(t,
					goldie.WithFixtureDir("testdata/golden"),
					goldie.WithNameSuffix(".golden"),
				)
				g.Assert(t, query+"_"+dialect, goldenRender(d, vb, build()))
			})
		}
	}
}
