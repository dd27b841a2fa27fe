package quarry_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bawdo/quarry"
)

func TestRendererImportStyle(t *testing.T) {
	t.Parallel()
	pg, err := quarry.Renderer(quarry.Postgres)
	require.NoError(t, err)

	sql, err := quarry.NewSelect(pg).
		From("users").
		Select("id", "name").
		Where(quarry.Cond{"active": true, "age >=": 18}).
		Order(map[string]string{"name": "asc"}).
		Limit(10).
		SQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id", "name" FROM "users" WHERE ("active" = :c0 AND "age" >= :c1) ORDER BY "name" ASC LIMIT 10`, sql)
}

func TestRendererUnknownDialect(t *testing.T) {
	t.Parallel()
	_, err := quarry.Renderer("oracle")
	require.Error(t, err)
}

func TestOpenRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := quarry.DefaultConfig()
	cfg.Engine = quarry.SQLite
	cfg.DSN = ":memory:"
	cfg.MaxOpenConns = 1

	conn, err := quarry.Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.DB().ExecContext(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)

	_, err = quarry.NewInsert(conn).Into("users").Insert([]string{"id", "name"}).
		Values([]any{1, "ann"}, []any{2, "bo"}).
		Execute(ctx)
	require.NoError(t, err)

	row, err := quarry.NewSelect(conn).From("users").
		Where(quarry.Pairs{{Key: "name", Value: "bo"}}).
		First(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, row["id"])
}
