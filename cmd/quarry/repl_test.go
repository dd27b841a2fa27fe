package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/ergochat/readline"
	"github.com/stretchr/testify/assert"
)

type scriptedReader struct {
	lines []any // string or error
}

func (r *scriptedReader) ReadLine() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	next := r.lines[0]
	r.lines = r.lines[1:]
	if err, ok := next.(error); ok {
		return "", err
	}
	return next.(string), nil
}

func TestLoopStopsOnExit(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, "postgres")
	var errOut bytes.Buffer

	loop(&scriptedReader{lines: []any{
		"",
		"from users",
		readline.ErrInterrupt,
		"bogus",
		"EXIT",
		"from never",
	}}, sess, &errOut)

	assert.Contains(t, out.String(), "Query: FROM users")
	assert.NotContains(t, out.String(), "never")
	assert.Equal(t, "  Error: unknown command: bogus (type 'help' for commands)\n", errOut.String())
}

func TestLoopStopsOnEOF(t *testing.T) {
	t.Parallel()
	sess, out := newTestSession(t, "postgres")
	var errOut bytes.Buffer

	loop(&scriptedReader{lines: []any{"from jobs"}}, sess, &errOut)

	assert.Contains(t, out.String(), "Query: FROM jobs")
	assert.Empty(t, errOut.String())
}
