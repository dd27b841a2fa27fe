// Package connection binds the query managers to a database/sql handle.
//
// A Connection renders statements for its dialect, rewrites the named
// placeholders into the driver's positional form, encodes bound values by
// their declared type and runs the result. Every execution is logged
// through zerolog with a stable fingerprint of the SQL text.
package connection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/bawdo/quarry/binder"
	"github.com/bawdo/quarry/config"
	"github.com/bawdo/quarry/managers"
	"github.com/bawdo/quarry/statement"
	"github.com/bawdo/quarry/types"
	"github.com/bawdo/quarry/visitors"
)

// ErrNoDriver is returned by Open for an engine without a registered
// database/sql driver.
var ErrNoDriver = errors.New("no driver for engine")

var driverName = map[string]string{
	visitors.Postgres: "pgx",
	visitors.MySQL:    "mysql",
	visitors.SQLite:   "sqlite",
}

// Connection runs managers against a database. A Connection without a
// database handle renders only.
type Connection struct {
	db          *sql.DB
	dialect     string
	placeholder func(int) string
	visitorOpts []visitors.Option
	logger      zerolog.Logger
	logLevel    zerolog.Level
	slow        time.Duration
}

var _ managers.Executor = (*Connection)(nil)

// Option configures a Connection.
type Option func(*Connection)

// WithLogger sets the query logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Connection) { c.logger = l }
}

// WithQueryLogLevel sets the level successful queries are logged at.
// Defaults to debug.
func WithQueryLogLevel(lvl zerolog.Level) Option {
	return func(c *Connection) { c.logLevel = lvl }
}

// WithSlowQueryThreshold logs queries slower than d at warn level. Zero
// disables the check.
func WithSlowQueryThreshold(d time.Duration) Option {
	return func(c *Connection) { c.slow = d }
}

// WithVisitorOptions passes rendering options to every visitor the
// connection creates.
func WithVisitorOptions(opts ...visitors.Option) Option {
	return func(c *Connection) { c.visitorOpts = append(c.visitorOpts, opts...) }
}

// New wraps db for the named dialect.
func New(db *sql.DB, dialect string, opts ...Option) (*Connection, error) {
	d, err := visitors.New(dialect)
	if err != nil {
		return nil, err
	}
	c := &Connection{
		db:          db,
		dialect:     d.Name(),
		placeholder: d.Placeholder,
		logger:      zerolog.Nop(),
		logLevel:    zerolog.DebugLevel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ForDialect returns a render-only connection.
func ForDialect(dialect string, opts ...Option) (*Connection, error) {
	return New(nil, dialect, opts...)
}

// Open validates cfg, opens the engine's driver and pings the database.
// The handle is closed again when the ping fails.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	driver, ok := driverName[cfg.Engine]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNoDriver, cfg.Engine)
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	opts := []Option{
		WithLogger(logger),
		WithSlowQueryThreshold(cfg.SlowQueryThreshold),
		WithVisitorOptions(cfg.VisitorOptions()...),
	}
	if cfg.LogQueries {
		opts = append(opts, WithQueryLogLevel(zerolog.InfoLevel))
	}
	conn, err := New(db, cfg.Engine, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info().Str("engine", cfg.Engine).Str("dsn", SanitizeDSN(cfg.DSN)).Msg("connected")
	return conn, nil
}

// DialectName returns the canonical dialect name.
func (c *Connection) DialectName() string { return c.dialect }

// DB returns the underlying handle, or nil for a render-only connection.
func (c *Connection) DB() *sql.DB { return c.db }

// Close closes the underlying handle.
func (c *Connection) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// NewSelect returns a select manager bound to c.
func (c *Connection) NewSelect() *managers.SelectManager { return managers.NewSelect(c) }

// NewInsert returns an insert manager bound to c.
func (c *Connection) NewInsert() *managers.InsertManager { return managers.NewInsert(c) }

// NewUpdate returns an update manager bound to c.
func (c *Connection) NewUpdate() *managers.UpdateManager { return managers.NewUpdate(c) }

// NewDelete returns a delete manager bound to c.
func (c *Connection) NewDelete() *managers.DeleteManager { return managers.NewDelete(c) }

// Dialect returns a fresh visitor writing named placeholders into vb.
func (c *Connection) Dialect(vb *binder.ValueBinder) (visitors.Dialect, error) {
	opts := append([]visitors.Option{visitors.WithBinder(vb)}, c.visitorOpts...)
	return visitors.New(c.dialect, opts...)
}

// Run executes query with the values held by vb.
func (c *Connection) Run(ctx context.Context, query string, vb *binder.ValueBinder, rows bool) (*statement.Statement, error) {
	if c.db == nil {
		return nil, fmt.Errorf("%w: %s connection is render-only", managers.ErrNoConnection, c.dialect)
	}
	if vb == nil {
		vb = binder.New()
	}
	native, bindings, err := visitors.Positional(query, vb, c.placeholder)
	if err != nil {
		return nil, err
	}
	args, err := encodeArgs(bindings)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var stmt *statement.Statement
	if rows {
		var r *sql.Rows
		r, err = c.db.QueryContext(ctx, native, args...)
		if err == nil {
			stmt, err = statement.FromRows(r)
		}
	} else {
		var res sql.Result
		res, err = c.db.ExecContext(ctx, native, args...)
		if err == nil {
			stmt = statement.FromResult(res)
		}
	}
	c.logQuery(native, args, time.Since(start), stmt, err)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return stmt, nil
}

func encodeArgs(bindings []binder.Binding) ([]any, error) {
	args := make([]any, len(bindings))
	for i, b := range bindings {
		v, err := types.Encode(b.Type, b.Value)
		if err != nil {
			return nil, fmt.Errorf("bind %s: %w", b.Param, err)
		}
		args[i] = v
	}
	return args, nil
}

func (c *Connection) logQuery(query string, args []any, took time.Duration, stmt *statement.Statement, err error) {
	var ev *zerolog.Event
	switch {
	case err != nil:
		ev = c.logger.Error().Err(err)
	case c.slow > 0 && took >= c.slow:
		ev = c.logger.Warn().Bool("slow", true)
	default:
		ev = c.logger.WithLevel(c.logLevel)
	}
	ev = ev.Str("dialect", c.dialect).
		Str("sql", query).
		Str("fingerprint", Fingerprint(query)).
		Interface("params", args).
		Dur("took", took)
	if stmt != nil && stmt.Columns() == nil {
		ev = ev.Int64("rows", stmt.RowCount())
	}
	ev.Msg("query")
}
