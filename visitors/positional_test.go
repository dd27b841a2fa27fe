package visitors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bawdo/quarry/binder"
)

func TestPositionalRewritesNamedPlaceholders(t *testing.T) {
	t.Parallel()
	vb := binder.New()
	vb.Bind("c0", 1, "integer")
	vb.Bind(":c1", "x", "")

	pgv := NewPostgresVisitor()
	sql, bindings, err := Positional(
		`SELECT * FROM t WHERE a = :c0 AND b::text = ':c1' AND "c:c1" = :c1 AND d = :c0`,
		vb, pgv.Placeholder)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM t WHERE a = $1 AND b::text = ':c1' AND "c:c1" = $2 AND d = $3`, sql)
	require.Len(t, bindings, 3)
	assert.Equal(t, 1, bindings[0].Value)
	assert.Equal(t, "integer", bindings[0].Type)
	assert.Equal(t, "x", bindings[1].Value)
	assert.Equal(t, 1, bindings[2].Value)
}

func TestPositionalQuestionMarks(t *testing.T) {
	t.Parallel()
	vb := binder.New()
	vb.Bind("id", 7, "")
	sql, bindings, err := Positional("DELETE FROM t WHERE id = :id AND note = 'it''s :id'", vb, NewMySQLVisitor().Placeholder)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM t WHERE id = ? AND note = 'it''s :id'", sql)
	assert.Len(t, bindings, 1)
}

func TestPositionalIgnoresTimeLiteralsAndWordColons(t *testing.T) {
	t.Parallel()
	sql, bindings, err := Positional("SELECT a:b, ':00' FROM t", binder.New(), NewSQLiteVisitor().Placeholder)
	require.NoError(t, err)
	assert.Equal(t, "SELECT a:b, ':00' FROM t", sql)
	assert.Empty(t, bindings)
}

func TestPositionalUnboundParam(t *testing.T) {
	t.Parallel()
	_, _, err := Positional("SELECT * FROM t WHERE a = :missing", binder.New(), NewPostgresVisitor().Placeholder)
	require.ErrorIs(t, err, ErrUnboundParam)
	assert.Contains(t, err.Error(), ":missing")
}

func TestPositionalMatchesRenderedBinder(t *testing.T) {
	t.Parallel()
	vb := binder.New()
	v := NewSQLServerVisitor(WithBinder(vb))
	named := tupleIn("IN").Accept(v)
	require.NoError(t, v.Err())

	sql, bindings, err := Positional(named, vb, v.Placeholder)
	require.NoError(t, err)
	assert.Equal(t, `(([a] = @p1 AND [b] = @p2) OR ([a] = @p3 AND [b] = @p4))`, sql)
	require.Len(t, bindings, 4)
	assert.Equal(t, 3, bindings[2].Value)
}
