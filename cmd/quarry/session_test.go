package main

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bawdo/quarry/config"
)

func newTestSession(t *testing.T, engine string) (*Session, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Engine = engine
	var out bytes.Buffer
	sess, err := NewSession(cfg, zerolog.Nop(), &out)
	require.NoError(t, err)
	return sess, &out
}

func run(t *testing.T, sess *Session, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, sess.Execute(line), line)
	}
}

func TestSessionSelect(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "postgres")
	run(t, sess,
		"from users",
		"select id, name",
		"where age > 18",
		"order name desc",
		"limit 10",
	)

	sql, bindings, err := sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id", "name" FROM "users" WHERE "age" > :c0 ORDER BY "name" DESC LIMIT 10`, sql)
	require.Len(t, bindings, 1)
	assert.Equal(t, 18, bindings[0].Value)
}

func TestSessionInsert(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "postgres")
	run(t, sess, "insert into tags", "columns name, slug", "values 'go', 'golang'")

	sql, bindings, err := sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "tags" ("name", "slug") VALUES (:c0, :c1)`, sql)
	require.Len(t, bindings, 2)
	assert.Equal(t, "go", bindings[0].Value)
	assert.Equal(t, "golang", bindings[1].Value)
}

func TestSessionValuesBeforeColumns(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "postgres")
	run(t, sess, "insert into tags")

	require.Error(t, sess.Execute("values 1, 2"))

	run(t, sess, "columns id, name", "values 1, 'go'")
	sql, _, err := sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "tags" ("id", "name") VALUES (:c0, :c1)`, sql)
}

func TestSessionUpdate(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "postgres")
	run(t, sess, "update users", "set name = 'x'", "where id = 1")

	sql, _, err := sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "users" SET "name" = :c0 WHERE "id" = :c1`, sql)
}

func TestSessionDeleteMySQL(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "mysql")
	run(t, sess, "delete from logs", "where id in (1, 2)")

	sql, bindings, err := sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `logs` WHERE `id` IN (:c0, :c1)", sql)
	require.Len(t, bindings, 2)
}

func TestSessionSoftdeletePlugin(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, "postgres")
	run(t, sess, "from users", "where id = 1", "plugin softdelete")
	assert.Contains(t, out.String(), "Soft-delete enabled (column: deleted_at)")

	sql, _, err := sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" = :c0 AND "users"."deleted_at" IS NULL`, sql)

	run(t, sess, "plugin off softdelete")
	sql, _, err = sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" = :c0`, sql)

	require.Error(t, sess.Execute("plugin off softdelete"))
	require.Error(t, sess.Execute("plugin nope"))
}

func TestSessionScopePlugin(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, "postgres")
	run(t, sess, "from orders", "where id = 1", "plugin scope tenant_id = 42")
	assert.Contains(t, out.String(), "Scope enabled (tenant_id = 42)")

	sql, bindings, err := sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "orders" WHERE "id" = :c0 AND "orders"."tenant_id" = :c1`, sql)
	require.Len(t, bindings, 2)
	assert.Equal(t, 42, bindings[1].Value)

	run(t, sess, "plugin scope tenant_id = 42 on users")
	sql, _, err = sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "orders" WHERE "id" = :c0`, sql)

	require.Error(t, sess.Execute("plugin scope tenant_id"))
}

func TestSessionPluginsStatus(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, "postgres")
	run(t, sess, "plugins")
	assert.Contains(t, out.String(), "softdelete     off")

	out.Reset()
	run(t, sess, "plugin softdelete removed_at on users posts", "plugins")
	assert.Contains(t, out.String(), "softdelete     on   (column: removed_at, tables: users, posts)")
}

func TestSessionPositional(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, "postgres")
	run(t, sess, "from users", "where id = 7", "params")
	assert.Contains(t, out.String(), "Positional placeholders: ON")

	out.Reset()
	run(t, sess, "sql")
	assert.Equal(t, "  SELECT * FROM \"users\" WHERE \"id\" = $1\n  $1 = 7\n", out.String())

	run(t, sess, "params")
	sql, _, err := sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" = :c0`, sql)
}

func TestSessionEngineSwitchKeepsQuery(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, "postgres")
	run(t, sess, "from jobs", "limit 1", "engine sqlserver")
	assert.Contains(t, out.String(), "Engine: sqlserver")

	sql, _, err := sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT TOP (1) * FROM [jobs]", sql)

	require.Error(t, sess.Execute("engine oracle"))
}

func TestSessionBadLimitKeepsQuery(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "postgres")
	run(t, sess, "from users", "limit 5")

	require.Error(t, sess.Execute("limit many"))

	sql, _, err := sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" LIMIT 5`, sql)
}

func TestSessionJoin(t *testing.T) {
	t.Parallel()
	sess, _ := newTestSession(t, "postgres")
	run(t, sess, "from users u", "left join posts p on u.id = p.user_id", "select u.id, p.title")

	sql, _, err := sess.GenerateSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "u"."id", "p"."title" FROM "users" AS "u" LEFT JOIN "posts" AS "p" ON u.id = p.user_id`, sql)

	require.Error(t, sess.Execute("join posts"))
}

func TestSessionErrors(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, "postgres")

	_, _, err := sess.GenerateSQL()
	require.ErrorIs(t, err, errNoQuery)

	err = sess.Execute("frobnicate now")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command: frobnicate")

	require.Error(t, sess.Execute("select id"))
	require.Error(t, sess.Execute("exec"))
	require.Error(t, sess.Execute("disconnect"))
	require.Error(t, sess.Execute("returning id"))

	run(t, sess, "insert into tags")
	require.Error(t, sess.Execute("where id = 1"))

	run(t, sess, "reset")
	assert.Contains(t, out.String(), "Query reset")
	_, _, err = sess.GenerateSQL()
	require.ErrorIs(t, err, errNoQuery)
}

func TestSessionConnectExec(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Engine = "sqlite"
	cfg.MaxOpenConns = 1
	var out bytes.Buffer
	sess, err := NewSession(cfg, zerolog.Nop(), &out)
	require.NoError(t, err)

	run(t, sess, "connect :memory:")
	t.Cleanup(func() { _ = sess.Execute("disconnect") })
	require.Error(t, sess.Execute("engine mysql"))

	_, err = sess.conn.DB().Exec(`CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)`)
	require.NoError(t, err)

	out.Reset()
	run(t, sess, "insert into notes", "columns id, body", "values 1, 'hello'", "exec")
	assert.Contains(t, out.String(), "(1 row affected)\n")

	out.Reset()
	run(t, sess, "from notes", "select id, body", "exec")
	assert.Contains(t, out.String(), "hello")
	assert.Contains(t, out.String(), "(1 row)")

	out.Reset()
	run(t, sess, "tables")
	assert.Equal(t, "  notes\n", out.String())
}
