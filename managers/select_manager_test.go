package managers

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/bawdo/quarry/binder"
	"github.com/bawdo/quarry/conditions"
	"github.com/bawdo/quarry/internal/testutil"
	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/plugins/softdelete"
	"github.com/bawdo/quarry/statement"
	"github.com/bawdo/quarry/visitors"
)

func pg() Executor { return RenderOnly(visitors.Postgres) }

func assertRendered(t *testing.T, m interface{ SQL() (string, error) }, want string) {
	t.Helper()
	got, err := m.SQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, want)
}

// mockExec runs statements against a sqlmock database with PostgreSQL
// placeholders.
type mockExec struct{ db *sql.DB }

func (e mockExec) Dialect(vb *binder.ValueBinder) (visitors.Dialect, error) {
	return visitors.NewPostgresVisitor(visitors.WithBinder(vb)), nil
}

func (e mockExec) Run(ctx context.Context, query string, vb *binder.ValueBinder, rows bool) (*statement.Statement, error) {
	q, binds, err := visitors.Positional(query, vb, visitors.NewPostgresVisitor().Placeholder)
	if err != nil {
		return nil, err
	}
	args := make([]any, len(binds))
	for i, b := range binds {
		args[i] = b.Value
	}
	if rows {
		r, err := e.db.QueryContext(ctx, q, args...)
		if err != nil {
			return nil, err
		}
		return statement.FromRows(r)
	}
	res, err := e.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return statement.FromResult(res), nil
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// --- construction ---

func TestNewSelectManagerSetsFrom(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users)

	if len(m.Core.Froms) != 1 || m.Core.Froms[0] != users {
		t.Error("expected Froms to hold the users table")
	}
	if len(m.Core.Projections) != 0 || len(m.Core.Wheres) != 0 || len(m.Core.Joins) != 0 {
		t.Error("expected an empty core")
	}
}

func TestNewSelectManagerNilFrom(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(nil)
	if len(m.Core.Froms) != 0 {
		t.Error("expected no FROM sources")
	}
}

func TestSelectWithoutExecutorCannotRender(t *testing.T) {
	t.Parallel()
	_, err := NewSelectManager(nodes.NewTable("users")).SQL()
	if !errors.Is(err, ErrNoConnection) {
		t.Errorf("expected ErrNoConnection, got %v", err)
	}
}

func TestSelectToSQLWithPositionalVisitor(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(nodes.NewTable("users")).Where(conditions.Cond{"id": 1})
	sql, params, err := m.ToSQL(visitors.NewPostgresVisitor())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sql, `SELECT * FROM "users" WHERE "id" = $1`)
	if len(params) != 1 || params[0] != 1 {
		t.Errorf("expected params [1], got %v", params)
	}
}

// --- building ---

func TestSelectBasicQuery(t *testing.T) {
	t.Parallel()
	m := NewSelect(pg()).
		Select("id", "title").
		From("articles").
		Where(conditions.Cond{"id": 1, "title LIKE": "go%"}).
		OrderDesc("id").
		Limit(10)

	assertRendered(t, m, `SELECT "id", "title" FROM "articles" WHERE ("id" = :c0 AND "title" LIKE :c1) ORDER BY "id" DESC LIMIT 10`)

	b, ok := m.ValueBinder().Get(":c1")
	if !ok || b.Value != "go%" {
		t.Errorf("expected :c1 bound to go%%, got %+v", b)
	}
}

func TestSelectRenderIsIdempotent(t *testing.T) {
	t.Parallel()
	m := NewSelect(pg()).From("articles").Where(conditions.Cond{"id": 1})

	first, err := m.SQL()
	testutil.AssertNoError(t, err)
	if m.IsDirty() {
		t.Error("expected clean manager after render")
	}
	second, err := m.SQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, second, first)
	testutil.AssertEqual(t, m.ValueBinder().Len(), 1)

	m.Where(conditions.Cond{"title": "x"})
	if !m.IsDirty() {
		t.Error("expected dirty manager after Where")
	}
	assertRendered(t, m, `SELECT * FROM "articles" WHERE ("id" = :c0 AND "title" = :c1)`)
	testutil.AssertEqual(t, m.ValueBinder().Len(), 2)
}

func TestSelectRendersSubqueryChangesAfterFirstRender(t *testing.T) {
	t.Parallel()
	inner := NewSelect(nil).Select("author_id").From("books").Where(conditions.Cond{"year >": 2000})
	outer := NewSelect(pg()).Select("id").From("authors").Where(conditions.Cond{"id IN": inner})
	assertRendered(t, outer, `SELECT "id" FROM "authors" WHERE "id" IN (SELECT "author_id" FROM "books" WHERE "year" > :c0)`)

	inner.Where(conditions.Cond{"genre": "sf"})
	assertRendered(t, outer, `SELECT "id" FROM "authors" WHERE "id" IN (SELECT "author_id" FROM "books" WHERE ("year" > :c0 AND "genre" = :c1))`)
	testutil.AssertEqual(t, outer.ValueBinder().Len(), 2)
	b, ok := outer.ValueBinder().Get(":c1")
	if !ok || b.Value != "sf" {
		t.Errorf("expected :c1 bound to sf, got %+v", b)
	}
}

func TestSelectRendersHeldExpressionChanges(t *testing.T) {
	t.Parallel()
	expr := conditions.NewExpression().Eq("id", 1)
	m := NewSelect(pg()).From("articles").Where(expr)
	assertRendered(t, m, `SELECT * FROM "articles" WHERE "id" = :c0`)

	expr.Eq("status", "draft")
	assertRendered(t, m, `SELECT * FROM "articles" WHERE ("id" = :c0 AND "status" = :c1)`)
	testutil.AssertEqual(t, m.ValueBinder().Len(), 2)
}

func TestSelectAliasedProjectionAndTable(t *testing.T) {
	t.Parallel()
	m := NewSelect(pg()).
		Select(map[string]any{"total": nodes.Count(nil)}).
		From(map[string]string{"a": "articles"})
	assertRendered(t, m, `SELECT COUNT(*) AS "total" FROM "articles" AS "a"`)
}

func TestSelectReplaceClauses(t *testing.T) {
	t.Parallel()
	m := NewSelect(pg()).
		Select("id").From("a").Where("1=1").Order("id").Group("id").
		ReplaceSelect("name").ReplaceFrom("b").ReplaceWhere("2=2").ReplaceOrder("name").ReplaceGroup("name")
	assertRendered(t, m, `SELECT "name" FROM "b" WHERE 2=2 GROUP BY "name" ORDER BY "name"`)
}

func TestSelectJoins(t *testing.T) {
	t.Parallel()
	comments := nodes.NewTable("comments")
	a := nodes.NewTable("articles").Alias("a")
	m := NewSelect(pg()).
		From(map[string]string{"a": "articles"}).
		InnerJoin(map[string]string{"u": "authors"}, "u.id = a.author_id").
		LeftJoin("comments", comments.Col("article_id").Eq(a.Col("id")))

	assertRendered(t, m, `SELECT * FROM "articles" AS "a" INNER JOIN "authors" AS "u" ON u.id = a.author_id LEFT JOIN "comments" ON "comments"."article_id" = "a"."id"`)

	m.RemoveJoin("u")
	assertRendered(t, m, `SELECT * FROM "articles" AS "a" LEFT JOIN "comments" ON "comments"."article_id" = "a"."id"`)
}

func TestSelectJoinWithoutCondition(t *testing.T) {
	t.Parallel()
	m := NewSelect(pg()).From("a").Join("b").On()
	assertRendered(t, m, `SELECT * FROM "a" INNER JOIN "b" ON 1 = 1`)
}

func TestSelectCrossAndStringJoin(t *testing.T) {
	t.Parallel()
	m := NewSelect(pg()).From("a").CrossJoin("b").StringJoin("NATURAL JOIN c")
	assertRendered(t, m, `SELECT * FROM "a" CROSS JOIN "b" NATURAL JOIN c`)
}

func TestSelectListHelpers(t *testing.T) {
	t.Parallel()
	m := NewSelect(pg()).From("articles").
		WhereNull("deleted").
		WhereInList("id", []int{1, 2}, false).
		WhereNotInListOrNull("author_id", []int{3}, false)
	assertRendered(t, m, `SELECT * FROM "articles" WHERE ("deleted" IS NULL AND "id" IN (:c0, :c1) AND ("author_id" NOT IN (:c2) OR "author_id" IS NULL))`)
}

func TestSelectEmptyLists(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		build func(*SelectManager) *SelectManager
		want  string
	}{
		{"in", func(m *SelectManager) *SelectManager { return m.WhereInList("id", []int{}, true) }, `SELECT * FROM "articles" WHERE 1=0`},
		{"not in", func(m *SelectManager) *SelectManager { return m.WhereNotInList("id", []int{}, true) }, `SELECT * FROM "articles" WHERE 1=1`},
		{"not in or null", func(m *SelectManager) *SelectManager { return m.WhereNotInListOrNull("id", []int{}, true) }, `SELECT * FROM "articles" WHERE "id" IS NOT NULL`},
		{"nil in", func(m *SelectManager) *SelectManager { return m.WhereInList("id", nil, true) }, `SELECT * FROM "articles" WHERE 1=0`},
		{"nil not in", func(m *SelectManager) *SelectManager { return m.WhereNotInList("id", nil, true) }, `SELECT * FROM "articles" WHERE 1=1`},
		{"nil not in or null", func(m *SelectManager) *SelectManager { return m.WhereNotInListOrNull("id", nil, true) }, `SELECT * FROM "articles" WHERE "id" IS NOT NULL`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assertRendered(t, tt.build(NewSelect(pg()).From("articles")), tt.want)
		})
	}
}

func TestSelectEmptyListFailsWithoutAllowEmpty(t *testing.T) {
	t.Parallel()
	for _, values := range []any{[]int{}, nil} {
		m := NewSelect(pg()).From("articles").WhereInList("id", values, false)
		_, err := m.SQL()
		if !errors.Is(err, visitors.ErrEmptyList) {
			t.Errorf("%#v: expected ErrEmptyList, got %v", values, err)
		}
	}
}

func TestSelectPaging(t *testing.T) {
	t.Parallel()
	assertRendered(t, NewSelect(pg()).From("a").Page(3, 10), `SELECT * FROM "a" LIMIT 10 OFFSET 20`)
	assertRendered(t, NewSelect(pg()).From("a").Page(2), `SELECT * FROM "a" LIMIT 25 OFFSET 25`)
	assertRendered(t, NewSelect(pg()).From("a").Limit(5).Page(2), `SELECT * FROM "a" LIMIT 5 OFFSET 5`)
}

func TestSelectInvalidArguments(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		m    *SelectManager
	}{
		{"page zero", NewSelect(pg()).From("a").Page(0)},
		{"negative limit", NewSelect(pg()).From("a").Limit(-1)},
		{"negative offset", NewSelect(pg()).From("a").Offset(-1)},
		{"bad table", NewSelect(pg()).From(42)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !errors.Is(tt.m.Err(), ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", tt.m.Err())
			}
			_, err := tt.m.SQL()
			testutil.AssertError(t, err)
		})
	}
}

func TestSelectSQLServerPaging(t *testing.T) {
	t.Parallel()
	ms := RenderOnly(visitors.SQLServer)
	assertRendered(t, NewSelect(ms).From("a").OrderAsc("id").Offset(10).Limit(10),
		`SELECT * FROM [a] ORDER BY [id] ASC OFFSET 10 ROWS FETCH NEXT 10 ROWS ONLY`)
	assertRendered(t, NewSelect(ms).From("a").Limit(5), `SELECT TOP (5) * FROM [a]`)
}

func TestSelectDistinctAndLocks(t *testing.T) {
	t.Parallel()
	assertRendered(t, NewSelect(pg()).Distinct().Select("id").From("a"), `SELECT DISTINCT "id" FROM "a"`)
	assertRendered(t, NewSelect(pg()).DistinctOn("author_id").From("a"), `SELECT DISTINCT ON ("author_id") * FROM "a"`)
	assertRendered(t, NewSelect(pg()).From("jobs").ForUpdate().SkipLocked(), `SELECT * FROM "jobs" FOR UPDATE SKIP LOCKED`)
}

func TestSelectModifierCommentEpilog(t *testing.T) {
	t.Parallel()
	m := NewSelect(RenderOnly(visitors.MySQL)).
		Modifier("SQL_CALC_FOUND_ROWS").
		Comment("report").
		From("a").
		Epilog("-- end")
	assertRendered(t, m, "/* report */ SELECT SQL_CALC_FOUND_ROWS * FROM `a` -- end")
}

func TestSelectSubqueryInCondition(t *testing.T) {
	t.Parallel()
	sub := NewSelect(nil).Select("author_id").From("articles").Where(conditions.Cond{"published": true})
	m := NewSelect(pg()).From("authors").Where(conditions.Pairs{
		{Key: "id IN", Value: sub},
		{Key: "active", Value: true},
	})
	assertRendered(t, m, `SELECT * FROM "authors" WHERE ("id" IN (SELECT "author_id" FROM "articles" WHERE "published" = :c0) AND "active" = :c1)`)
}

func TestSelectDerivedTableMergesBinds(t *testing.T) {
	t.Parallel()
	recent := NewSelect(nil).From("articles").Where("created > :start").Bind(":start", "2024-01-01", "date")
	m := NewSelect(pg()).From(recent.As("recent"))

	assertRendered(t, m, `SELECT * FROM (SELECT * FROM "articles" WHERE created > :start) AS "recent"`)
	b, ok := m.ValueBinder().Get("start")
	if !ok {
		t.Fatal("expected :start in the outer binder")
	}
	testutil.AssertEqual(t, b.Value.(string), "2024-01-01")
	testutil.AssertEqual(t, b.Type, "date")
}

func TestSelectUnionPerDialect(t *testing.T) {
	t.Parallel()
	build := func(exec Executor) *SelectManager {
		return NewSelect(exec).Select("id").From("a").Union(NewSelect(nil).Select("id").From("b"))
	}
	assertRendered(t, build(pg()), `SELECT "id" FROM "a" UNION (SELECT "id" FROM "b")`)
	assertRendered(t, build(RenderOnly(visitors.SQLite)), `SELECT "id" FROM "a" UNION SELECT "id" FROM "b"`)
}

func TestSelectCTE(t *testing.T) {
	t.Parallel()
	m := NewSelect(pg()).
		With("recent", NewSelect(nil).From("articles").Limit(5)).
		From("recent")
	assertRendered(t, m, `WITH "recent" AS (SELECT * FROM "articles" LIMIT 5) SELECT * FROM "recent"`)
}

func TestSelectCloneIsIndependent(t *testing.T) {
	t.Parallel()
	m := NewSelect(pg()).From("articles").Where(conditions.Cond{"id": 1})
	c := m.Clone()
	c.Where(conditions.Cond{"title": "x"}).Limit(1)

	assertRendered(t, m, `SELECT * FROM "articles" WHERE "id" = :c0`)
	assertRendered(t, c, `SELECT * FROM "articles" WHERE ("id" = :c0 AND "title" = :c1) LIMIT 1`)
}

func TestSelectTransformerDoesNotMutateCore(t *testing.T) {
	t.Parallel()
	m := NewSelect(pg()).From("users").Where(conditions.Cond{"id": 1}).Use(softdelete.New())

	assertRendered(t, m, `SELECT * FROM "users" WHERE "id" = :c0 AND "users"."deleted_at" IS NULL`)
	testutil.AssertEqual(t, len(m.Core.Wheres), 1)
	testutil.AssertEqual(t, len(m.Transformers()), 1)
}

func TestSelectClause(t *testing.T) {
	t.Parallel()
	m := NewSelect(pg()).From("a").Where(conditions.Cond{"id": 1}).Limit(3)

	where, err := m.Clause("where")
	testutil.AssertNoError(t, err)
	tree, ok := where.(*nodes.ExpressionTree)
	if !ok || tree.Len() != 1 {
		t.Errorf("expected a one-condition tree, got %#v", where)
	}

	limit, err := m.Clause("limit")
	testutil.AssertNoError(t, err)
	if n, ok := intValue(limit.(nodes.Node)); !ok || n != 3 {
		t.Errorf("expected limit 3, got %v", limit)
	}

	_, err = m.Clause("bogus")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSelectTypeMapInference(t *testing.T) {
	t.Parallel()
	m := NewSelect(pg()).
		SetDefaultTypes(map[string]string{"id": "integer"}).
		Select("articles.id", nodes.NewAliasNode(nodes.Ident("score").Typed("float"), "rank"), map[string]any{"total": nodes.Count(nil)}).
		From("articles")

	tm := m.SelectTypeMap()
	testutil.AssertEqual(t, tm.Type("id"), "integer")
	testutil.AssertEqual(t, tm.Type("rank"), "float")
	testutil.AssertEqual(t, tm.Type("total"), "integer")
}

func TestSelectExecuteWithoutConnection(t *testing.T) {
	t.Parallel()
	_, err := NewSelect(pg()).From("a").Execute(context.Background())
	if !errors.Is(err, ErrNoConnection) {
		t.Errorf("expected ErrNoConnection, got %v", err)
	}
}

// --- execution ---

func TestSelectAllCastsAndCaches(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	query := `SELECT "id", "total" FROM "stats" WHERE "id" = $1`
	mock.ExpectQuery(query).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total"}).AddRow(int64(1), "10"))

	m := NewSelect(mockExec{db}).
		Select("id", "total").
		From("stats").
		Where(conditions.Cond{"id": 1}).
		SetDefaultTypes(map[string]string{"total": "integer"})

	rows, err := m.All(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(rows), 1)
	testutil.AssertEqual(t, rows[0]["total"].(int64), int64(10))

	again, err := m.All(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(again), 1)

	mock.ExpectQuery(query).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total"}).AddRow(int64(1), "10"))
	m.DisableResultsCasting()
	m.MarkDirty()
	raw, err := m.All(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, raw[0]["total"].(string), "10")

	testutil.AssertNoError(t, mock.ExpectationsWereMet())
}

func TestSelectAllRefetchesWhenSubqueryChanges(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT "id" FROM "authors" WHERE "id" IN (SELECT "author_id" FROM "books" WHERE "year" > $1)`).
		WithArgs(2000).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)))
	mock.ExpectQuery(`SELECT "id" FROM "authors" WHERE "id" IN (SELECT "author_id" FROM "books" WHERE ("year" > $1 AND "genre" = $2))`).
		WithArgs(2000, "sf").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))

	inner := NewSelect(nil).Select("author_id").From("books").Where(conditions.Cond{"year >": 2000})
	outer := NewSelect(mockExec{db}).Select("id").From("authors").Where(conditions.Cond{"id IN": inner})

	rows, err := outer.All(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(rows), 2)

	inner.Where(conditions.Cond{"genre": "sf"})
	rows, err = outer.All(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(rows), 1)

	testutil.AssertNoError(t, mock.ExpectationsWereMet())
}

func TestSelectFirstDecoratesAndLimits(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT * FROM "stats" LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("21"))

	m := NewSelect(mockExec{db}).
		From("stats").
		SetDefaultTypes(map[string]string{"total": "integer"}).
		DecorateResults(func(r statement.Row) statement.Row {
			r["double"] = r["total"].(int64) * 2
			return r
		}, false)

	row, err := m.First(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, row["double"].(int64), int64(42))
	testutil.AssertNoError(t, mock.ExpectationsWereMet())
}

func TestSelectFirstWithoutRows(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT * FROM "stats" LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"total"}))

	row, err := NewSelect(mockExec{db}).From("stats").First(context.Background())
	testutil.AssertNoError(t, err)
	if row != nil {
		t.Errorf("expected nil row, got %v", row)
	}
}
