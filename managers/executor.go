package managers

import (
	"context"
	"fmt"

	"github.com/bawdo/quarry/binder"
	"github.com/bawdo/quarry/statement"
	"github.com/bawdo/quarry/visitors"
)

// Executor renders and runs statements for a manager. The connection
// package provides the database-backed implementation.
type Executor interface {
	// Dialect returns a fresh visitor writing named placeholders into vb.
	Dialect(vb *binder.ValueBinder) (visitors.Dialect, error)
	// Run executes sql with the values held by vb. rows reports whether the
	// statement produces a result set.
	Run(ctx context.Context, sql string, vb *binder.ValueBinder, rows bool) (*statement.Statement, error)
}

// RenderOnly returns an Executor that renders for the named dialect but
// refuses to run anything.
func RenderOnly(dialect string, opts ...visitors.Option) Executor {
	return renderOnly{dialect: dialect, opts: opts}
}

type renderOnly struct {
	dialect string
	opts    []visitors.Option
}

func (r renderOnly) Dialect(vb *binder.ValueBinder) (visitors.Dialect, error) {
	opts := append([]visitors.Option{visitors.WithBinder(vb)}, r.opts...)
	return visitors.New(r.dialect, opts...)
}

func (r renderOnly) Run(context.Context, string, *binder.ValueBinder, bool) (*statement.Statement, error) {
	return nil, fmt.Errorf("%w: %s renderer cannot execute", ErrNoConnection, r.dialect)
}
