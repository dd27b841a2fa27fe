package statement

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryRows(t *testing.T, rows *sqlmock.Rows) *Statement {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT").WillReturnRows(rows)
	r, err := db.Query("SELECT id, name FROM users")
	require.NoError(t, err)
	stmt, err := FromRows(r)
	require.NoError(t, err)
	return stmt
}

func TestFetchAll(t *testing.T) {
	t.Parallel()
	stmt := queryRows(t, sqlmock.NewRows([]string{"id", "name"}).
		AddRow(int64(1), "ann").
		AddRow(int64(2), []byte("bo")))

	assert.Equal(t, []string{"id", "name"}, stmt.Columns())
	rows, err := stmt.FetchAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{"id": int64(1), "name": "ann"}, rows[0])
	assert.Equal(t, []byte("bo"), rows[1]["name"])
	assert.Equal(t, int64(-1), stmt.RowCount())

	_, err = stmt.LastInsertID()
	require.Error(t, err)
}

func TestFetchUntilExhausted(t *testing.T) {
	t.Parallel()
	stmt := queryRows(t, sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	row, err := stmt.Fetch()
	require.NoError(t, err)
	assert.Equal(t, int64(7), row["id"])
	assert.Equal(t, row, stmt.Row())

	row, err = stmt.Fetch()
	require.NoError(t, err)
	assert.Nil(t, row)
	assert.False(t, stmt.Next())
}

func TestFetchAfterCloseFails(t *testing.T) {
	t.Parallel()
	stmt := queryRows(t, sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)))

	require.NoError(t, stmt.Close())
	require.NoError(t, stmt.Close())
	_, err := stmt.Fetch()
	require.ErrorIs(t, err, ErrClosed)
}

func TestRowErrorStopsIteration(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	stmt := queryRows(t, sqlmock.NewRows([]string{"id"}).
		AddRow(int64(1)).
		AddRow(int64(2)).
		RowError(1, boom))

	rows, err := stmt.FetchAll()
	require.ErrorIs(t, err, boom)
	assert.Len(t, rows, 1)
}

func TestFromResult(t *testing.T) {
	t.Parallel()
	stmt := FromResult(sqlmock.NewResult(42, 3))

	assert.Nil(t, stmt.Columns())
	assert.False(t, stmt.Next())
	assert.Equal(t, int64(3), stmt.RowCount())
	id, err := stmt.LastInsertID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	require.NoError(t, stmt.Close())

	row, err := stmt.Fetch()
	require.NoError(t, err)
	assert.Nil(t, row)
}
