// Package statement wraps the result of an executed query.
package statement

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrClosed is returned when reading from a closed statement.
var ErrClosed = errors.New("statement is closed")

// Row is one fetched row keyed by column name.
type Row map[string]any

// Statement is a forward-only, single-pass handle over the result of one
// execution. It wraps either a row cursor or a DML result. Callers must
// Close it on every path; Close is idempotent.
type Statement struct {
	rows    *sql.Rows
	result  sql.Result
	columns []string
	current Row
	err     error
	closed  bool
	done    bool // cursor reached its end
}

// FromRows wraps a row cursor.
func FromRows(rows *sql.Rows) (*Statement, error) {
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("read columns: %w", err)
	}
	return &Statement{rows: rows, columns: cols}, nil
}

// FromResult wraps a DML result.
func FromResult(res sql.Result) *Statement {
	return &Statement{result: res, closed: true}
}

// Columns returns the result column names, or nil for DML results.
func (s *Statement) Columns() []string { return s.columns }

// Next advances to the next row. It returns false at the end of the
// result or on error; check Err afterwards.
func (s *Statement) Next() bool {
	if s.rows == nil || s.closed {
		return false
	}
	if !s.rows.Next() {
		s.done = true
		s.err = s.rows.Err()
		_ = s.Close()
		return false
	}
	vals := make([]any, len(s.columns))
	ptrs := make([]any, len(s.columns))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := s.rows.Scan(ptrs...); err != nil {
		s.err = fmt.Errorf("scan row: %w", err)
		_ = s.Close()
		return false
	}
	row := make(Row, len(s.columns))
	for i, c := range s.columns {
		// Drivers may reuse byte buffers between rows.
		if b, ok := vals[i].([]byte); ok {
			vals[i] = append([]byte(nil), b...)
		}
		row[c] = vals[i]
	}
	s.current = row
	return true
}

// Row returns the row loaded by the last successful Next.
func (s *Statement) Row() Row { return s.current }

// Fetch returns the next row, or nil when the result is exhausted.
// Fetching from a cursor closed before its end returns ErrClosed.
func (s *Statement) Fetch() (Row, error) {
	if s.rows != nil && s.closed && !s.done {
		return nil, ErrClosed
	}
	if s.Next() {
		return s.current, nil
	}
	return nil, s.err
}

// FetchAll drains the remaining rows and closes the statement.
func (s *Statement) FetchAll() ([]Row, error) {
	defer s.Close()
	var out []Row
	for s.Next() {
		out = append(out, s.current)
	}
	return out, s.err
}

// RowCount returns the number of affected rows for DML results. Row
// cursors, including INSERT ... OUTPUT on SQL Server, report -1.
func (s *Statement) RowCount() int64 {
	if s.result == nil {
		return -1
	}
	n, err := s.result.RowsAffected()
	if err != nil {
		return -1
	}
	return n
}

// LastInsertID returns the driver's last insert id for DML results.
func (s *Statement) LastInsertID() (int64, error) {
	if s.result == nil {
		return 0, errors.New("last insert id is not available for row results")
	}
	return s.result.LastInsertId()
}

// Err returns the error that stopped iteration, if any.
func (s *Statement) Err() error { return s.err }

// Close releases the underlying cursor.
func (s *Statement) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.rows != nil {
		return s.rows.Close()
	}
	return nil
}
