package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bawdo/quarry/binder"
	"github.com/bawdo/quarry/config"
	"github.com/bawdo/quarry/connection"
	"github.com/bawdo/quarry/managers"
	"github.com/bawdo/quarry/plugins"
	"github.com/bawdo/quarry/statement"
	"github.com/bawdo/quarry/visitors"
)

var errNoQuery = errors.New("no query defined (use 'from <table>' first)")

// dmlMode tracks which kind of statement the session is building.
type dmlMode int

const (
	modeSelect dmlMode = iota
	modeInsert
	modeUpdate
	modeDelete
)

// Session holds the shell state: the connection, the statement being
// built and the enabled plugins. It is the Executor of every manager it
// creates, so switching engine or connecting applies to the query in
// progress.
type Session struct {
	cfg         *config.Config
	logger      zerolog.Logger
	conn        *connection.Connection
	connected   bool
	mode        dmlMode
	query       *managers.SelectManager
	insertQuery *managers.InsertManager
	updateQuery *managers.UpdateManager
	deleteQuery *managers.DeleteManager
	plugins     pluginRegistry
	configurers []pluginConfigurer
	positional  bool
	commands    []commandEntry
	tables      []string // schema cache for completion
	out         io.Writer
}

var _ managers.Executor = (*Session)(nil)

// NewSession creates a render-only session for the configured engine.
func NewSession(cfg *config.Config, logger zerolog.Logger, out io.Writer) (*Session, error) {
	s := &Session{cfg: cfg, logger: logger, out: out}
	s.configurers = []pluginConfigurer{
		{name: "softdelete", configure: configureSoftdelete},
		{name: "scope", configure: configureScope},
	}
	if err := s.setEngine(cfg.Engine); err != nil {
		return nil, err
	}
	s.initCommands()
	return s, nil
}

// Dialect implements managers.Executor.
func (s *Session) Dialect(vb *binder.ValueBinder) (visitors.Dialect, error) {
	return s.conn.Dialect(vb)
}

// Run implements managers.Executor.
func (s *Session) Run(ctx context.Context, sql string, vb *binder.ValueBinder, rows bool) (*statement.Statement, error) {
	return s.conn.Run(ctx, sql, vb, rows)
}

func (s *Session) connOptions() []connection.Option {
	return []connection.Option{
		connection.WithLogger(s.logger),
		connection.WithVisitorOptions(s.cfg.VisitorOptions()...),
		connection.WithSlowQueryThreshold(s.cfg.SlowQueryThreshold),
	}
}

func (s *Session) setEngine(engine string) error {
	conn, err := connection.ForDialect(engine, s.connOptions()...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.cfg.Engine = conn.DialectName()
	return nil
}

// pluginNames returns the names of all known plugins.
func (s *Session) pluginNames() []string {
	names := make([]string, len(s.configurers))
	for i, c := range s.configurers {
		names[i] = c.name
	}
	return names
}

// Execute runs one line of input.
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(strings.TrimSpace(line[len(cmd.prefix):]))
			}
		} else if lower == cmd.prefix {
			return cmd.handler("")
		}
	}

	word := strings.Fields(line)[0]
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", word)
}

// current returns a copy of the statement being built with the enabled
// plugins applied.
func (s *Session) current() (builder, error) {
	var b builder
	switch s.mode {
	case modeInsert:
		if s.insertQuery == nil {
			return nil, errors.New("no INSERT query defined")
		}
		m := s.insertQuery.Clone()
		s.plugins.applyTo(func(t plugins.Transformer) { m.Use(t) })
		b = m
	case modeUpdate:
		if s.updateQuery == nil {
			return nil, errors.New("no UPDATE query defined")
		}
		m := s.updateQuery.Clone()
		s.plugins.applyTo(func(t plugins.Transformer) { m.Use(t) })
		b = m
	case modeDelete:
		if s.deleteQuery == nil {
			return nil, errors.New("no DELETE query defined")
		}
		m := s.deleteQuery.Clone()
		s.plugins.applyTo(func(t plugins.Transformer) { m.Use(t) })
		b = m
	default:
		if s.query == nil {
			return nil, errNoQuery
		}
		m := s.query.Clone()
		s.plugins.applyTo(func(t plugins.Transformer) { m.Use(t) })
		b = m
	}
	return b, nil
}

// GenerateSQL renders the current statement. In positional mode the
// placeholders are rewritten for the driver.
func (s *Session) GenerateSQL() (string, []binder.Binding, error) {
	b, err := s.current()
	if err != nil {
		return "", nil, err
	}
	sql, err := b.SQL()
	if err != nil {
		return "", nil, err
	}
	if !s.positional {
		return sql, b.ValueBinder().Bindings(), nil
	}
	d, err := s.conn.Dialect(nil)
	if err != nil {
		return "", nil, err
	}
	return visitors.Positional(sql, b.ValueBinder(), d.Placeholder)
}

// The edit helpers apply fn to a copy of the statement and keep the copy
// only when it records no error, so a bad command leaves the query usable.

func (s *Session) editSelect(fn func(m *managers.SelectManager)) error {
	if s.mode != modeSelect || s.query == nil {
		return errNoQuery
	}
	m := s.query.Clone()
	fn(m)
	if err := m.Err(); err != nil {
		return err
	}
	s.query = m
	return nil
}

func (s *Session) editInsert(fn func(m *managers.InsertManager)) error {
	if s.mode != modeInsert || s.insertQuery == nil {
		return errors.New("no INSERT query defined (use 'insert into <table>' first)")
	}
	m := s.insertQuery.Clone()
	fn(m)
	if err := m.Err(); err != nil {
		return err
	}
	s.insertQuery = m
	return nil
}

func (s *Session) editUpdate(fn func(m *managers.UpdateManager)) error {
	if s.mode != modeUpdate || s.updateQuery == nil {
		return errors.New("no UPDATE query defined (use 'update <table>' first)")
	}
	m := s.updateQuery.Clone()
	fn(m)
	if err := m.Err(); err != nil {
		return err
	}
	s.updateQuery = m
	return nil
}

func (s *Session) editDelete(fn func(m *managers.DeleteManager)) error {
	if s.mode != modeDelete || s.deleteQuery == nil {
		return errors.New("no DELETE query defined (use 'delete from <table>' first)")
	}
	m := s.deleteQuery.Clone()
	fn(m)
	if err := m.Err(); err != nil {
		return err
	}
	s.deleteQuery = m
	return nil
}

// --- Command handlers ---

func (s *Session) cmdFrom(args string) error {
	table, err := parseTableRef(args)
	if err != nil {
		return err
	}
	m := managers.NewSelect(s).From(table)
	if err := m.Err(); err != nil {
		return err
	}
	s.mode = modeSelect
	s.query = m
	_, _ = fmt.Fprintf(s.out, "  Query: FROM %s\n", args)
	return nil
}

func (s *Session) cmdSelect(args string) error {
	cols := splitList(args)
	if len(cols) == 0 {
		return errors.New("usage: select <col>[, <col> ...]")
	}
	return s.editSelect(func(m *managers.SelectManager) { m.ReplaceSelect(strings2any(cols)...) })
}

func (s *Session) cmdDistinct() error {
	return s.editSelect(func(m *managers.SelectManager) { m.Distinct() })
}

func (s *Session) cmdWhere(args string) error {
	if args == "" {
		return errors.New("usage: where <field> <op> <value> | where <sql>")
	}
	cond := parseCondition(args)
	switch s.mode {
	case modeUpdate:
		return s.editUpdate(func(m *managers.UpdateManager) { m.Where(cond) })
	case modeDelete:
		return s.editDelete(func(m *managers.DeleteManager) { m.Where(cond) })
	case modeInsert:
		return errors.New("where is not available on INSERT")
	}
	return s.editSelect(func(m *managers.SelectManager) { m.Where(cond) })
}

func (s *Session) cmdOrder(args string) error {
	items := splitList(args)
	if len(items) == 0 {
		return errors.New("usage: order <col> [asc|desc][, ...]")
	}
	return s.editSelect(func(m *managers.SelectManager) { m.Order(orderArgs(items)...) })
}

func (s *Session) cmdGroup(args string) error {
	cols := splitList(args)
	if len(cols) == 0 {
		return errors.New("usage: group <col>[, <col> ...]")
	}
	return s.editSelect(func(m *managers.SelectManager) { m.Group(strings2any(cols)...) })
}

func (s *Session) cmdLimit(args string) error {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return fmt.Errorf("invalid limit: %s", args)
	}
	switch s.mode {
	case modeUpdate:
		return s.editUpdate(func(m *managers.UpdateManager) { m.Limit(n) })
	case modeDelete:
		return s.editDelete(func(m *managers.DeleteManager) { m.Limit(n) })
	}
	return s.editSelect(func(m *managers.SelectManager) { m.Limit(n) })
}

func (s *Session) cmdOffset(args string) error {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return fmt.Errorf("invalid offset: %s", args)
	}
	return s.editSelect(func(m *managers.SelectManager) { m.Offset(n) })
}

// cmdJoin handles "<table> [alias] on <condition>".
func (s *Session) cmdJoin(args string, left bool) error {
	idx := strings.Index(strings.ToLower(args), " on ")
	if idx < 0 {
		return errors.New("usage: join <table> [alias] on <condition>")
	}
	table, err := parseTableRef(args[:idx])
	if err != nil {
		return err
	}
	on := strings.TrimSpace(args[idx+4:])
	return s.editSelect(func(m *managers.SelectManager) {
		if left {
			m.LeftJoin(table, on)
		} else {
			m.InnerJoin(table, on)
		}
	})
}

func (s *Session) cmdInsertInto(args string) error {
	name := strings.TrimSpace(args)
	if name == "" || strings.ContainsAny(name, " \t") {
		return errors.New("usage: insert into <table>")
	}
	s.mode = modeInsert
	s.insertQuery = managers.NewInsert(s).Into(name)
	_, _ = fmt.Fprintf(s.out, "  INSERT INTO %s\n", name)
	return nil
}

func (s *Session) cmdColumns(args string) error {
	cols := splitList(args)
	if len(cols) == 0 {
		return errors.New("usage: columns <col>[, <col> ...]")
	}
	return s.editInsert(func(m *managers.InsertManager) { m.Insert(cols) })
}

func (s *Session) cmdValues(args string) error {
	items := splitList(args)
	if len(items) == 0 {
		return errors.New("usage: values <v1>[, <v2> ...]")
	}
	row := make([]any, len(items))
	for i, it := range items {
		row[i] = parseValue(it)
	}
	return s.editInsert(func(m *managers.InsertManager) { m.Values(row) })
}

func (s *Session) cmdUpdate(args string) error {
	table, err := parseTableRef(args)
	if err != nil {
		return err
	}
	s.mode = modeUpdate
	s.updateQuery = managers.NewUpdate(s).Table(table)
	_, _ = fmt.Fprintf(s.out, "  UPDATE %s\n", args)
	return nil
}

func (s *Session) cmdSet(args string) error {
	eq := strings.IndexByte(args, '=')
	if eq <= 0 {
		return errors.New("usage: set <col> = <value>")
	}
	col := strings.TrimSpace(args[:eq])
	val := parseValue(args[eq+1:])
	return s.editUpdate(func(m *managers.UpdateManager) { m.Set(col, val) })
}

func (s *Session) cmdDeleteFrom(args string) error {
	table, err := parseTableRef(args)
	if err != nil {
		return err
	}
	s.mode = modeDelete
	s.deleteQuery = managers.NewDelete(s).From(table)
	_, _ = fmt.Fprintf(s.out, "  DELETE FROM %s\n", args)
	return nil
}

func (s *Session) cmdReturning(args string) error {
	cols := strings2any(splitList(args))
	if len(cols) == 0 {
		return errors.New("usage: returning <col>[, <col> ...]")
	}
	switch s.mode {
	case modeInsert:
		return s.editInsert(func(m *managers.InsertManager) { m.Returning(cols...) })
	case modeUpdate:
		return s.editUpdate(func(m *managers.UpdateManager) { m.Returning(cols...) })
	case modeDelete:
		return s.editDelete(func(m *managers.DeleteManager) { m.Returning(cols...) })
	}
	return errors.New("returning needs an INSERT, UPDATE or DELETE query")
}

func (s *Session) cmdSQL() error {
	sql, bindings, err := s.GenerateSQL()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  %s\n", sql)
	var placeholder func(int) string
	if s.positional {
		d, err := s.conn.Dialect(nil)
		if err != nil {
			return err
		}
		placeholder = d.Placeholder
	}
	writeBindings(indent{s.out}, bindings, placeholder)
	return nil
}

func (s *Session) cmdReset() error {
	s.mode = modeSelect
	s.query = nil
	s.insertQuery = nil
	s.updateQuery = nil
	s.deleteQuery = nil
	_, _ = fmt.Fprintln(s.out, "  Query reset")
	return nil
}

func (s *Session) cmdParameterize() error {
	s.positional = !s.positional
	if s.positional {
		_, _ = fmt.Fprintln(s.out, "  Positional placeholders: ON")
	} else {
		_, _ = fmt.Fprintln(s.out, "  Positional placeholders: OFF")
	}
	return nil
}

func (s *Session) cmdEngine(args string) error {
	if s.connected {
		return errors.New("disconnect before switching engine")
	}
	if err := s.setEngine(args); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Engine: %s\n", s.cfg.Engine)
	return nil
}

func (s *Session) cmdConnect(args string) error {
	dsn := strings.TrimSpace(args)
	if dsn == "" {
		dsn = s.cfg.DSN
	}
	if dsn == "" {
		return errors.New("usage: connect <dsn>")
	}
	if s.connected {
		_ = s.conn.Close()
		s.connected = false
	}
	cfg := *s.cfg
	cfg.DSN = dsn
	conn, err := connection.Open(context.Background(), &cfg, s.logger)
	if err != nil {
		return err
	}
	s.conn = conn
	s.connected = true
	s.cfg.DSN = dsn
	s.tables, _ = conn.Tables(context.Background())
	_, _ = fmt.Fprintf(s.out, "  Connected to %s (%s)\n", connection.SanitizeDSN(dsn), conn.DialectName())
	return nil
}

func (s *Session) cmdDisconnect() error {
	if !s.connected {
		return errors.New("not connected")
	}
	_ = s.conn.Close()
	s.connected = false
	s.tables = nil
	_, _ = fmt.Fprintln(s.out, "  Disconnected")
	return s.setEngine(s.cfg.Engine)
}

func (s *Session) cmdExec() error {
	if !s.connected {
		return errors.New("not connected (use 'connect <dsn>' first)")
	}
	b, err := s.current()
	if err != nil {
		return err
	}
	stmt, err := b.Execute(context.Background())
	if err != nil {
		return err
	}
	result, err := formatStatement(stmt)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(s.out, result)
	return nil
}

func (s *Session) cmdTables() error {
	if !s.connected {
		return errors.New("not connected")
	}
	tables, err := s.conn.Tables(context.Background())
	if err != nil {
		return err
	}
	s.tables = tables
	for _, t := range tables {
		_, _ = fmt.Fprintf(s.out, "  %s\n", t)
	}
	return nil
}

func (s *Session) cmdPlugin(args string) error {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return errors.New("usage: plugin <name> [args] | plugin off [name]")
	}
	name := strings.ToLower(parts[0])
	if name == "off" {
		return s.cmdPluginOff(parts[1:])
	}
	for _, c := range s.configurers {
		if c.name == name {
			return c.configure(s, strings.TrimSpace(args[len(parts[0]):]))
		}
	}
	return fmt.Errorf("unknown plugin: %s", name)
}

func (s *Session) cmdPluginOff(parts []string) error {
	if len(parts) == 0 {
		s.plugins.deregisterAll()
		_, _ = fmt.Fprintln(s.out, "  All plugins disabled")
		return nil
	}
	name := strings.ToLower(parts[0])
	if !s.plugins.deregister(name) {
		return fmt.Errorf("plugin %q is not enabled", name)
	}
	_, _ = fmt.Fprintf(s.out, "  %s disabled\n", name)
	return nil
}

func (s *Session) cmdPlugins() {
	_, _ = fmt.Fprintln(s.out, "  Available plugins:")
	for _, c := range s.configurers {
		if entry, ok := s.plugins.get(c.name); ok {
			_, _ = fmt.Fprintf(s.out, "    %-14s on   (%s)\n", c.name, entry.status())
		} else {
			_, _ = fmt.Fprintf(s.out, "    %-14s off\n", c.name)
		}
	}
}

func (s *Session) cmdHelp() {
	_, _ = fmt.Fprintln(s.out, `
  Query building:
    from <table> [alias]          Start a SELECT
    select <cols>                 Set projections (comma-separated)
    distinct                      Enable DISTINCT
    where <field> <op> <value>    Add a condition (or raw SQL)
    join <table> [alias] on <c>   Add an INNER JOIN
    left join <table> ... on <c>  Add a LEFT JOIN
    group <cols>                  Add GROUP BY
    order <col> [asc|desc]        Add ORDER BY
    limit <n> / offset <n>        Set LIMIT / OFFSET

  DML:
    insert into <table>           Start an INSERT
    columns <cols>                Set INSERT columns
    values <v1>, <v2>             Add a row
    update <table> [alias]        Start an UPDATE
    set <col> = <value>           Add an assignment
    delete from <table> [alias]   Start a DELETE
    returning <cols>              Add RETURNING

  Output and execution:
    sql                           Show the SQL and bound values
    params                        Toggle positional placeholders
    engine <name>                 Switch dialect (postgres, mysql, sqlite, sqlserver)
    connect [dsn] / disconnect    Manage the database connection
    exec                          Run the current statement
    tables                        List tables
    plugin softdelete [args]      Enable soft-delete filtering
    plugin scope <col> = <value>  Restrict rows to one tenant
    plugin off [name]             Disable plugins
    plugins                       Show plugin status
    reset                         Discard the current statement
    exit                          Leave the shell`)
}

// parseTableRef reads "table" or "table alias".
func parseTableRef(args string) (any, error) {
	f := strings.Fields(args)
	switch len(f) {
	case 1:
		return f[0], nil
	case 2:
		return map[string]string{f[1]: f[0]}, nil
	}
	return nil, errors.New("expected <table> [alias]")
}

// indent prefixes every write with two spaces.
type indent struct{ w io.Writer }

func (i indent) Write(p []byte) (int, error) {
	if _, err := i.w.Write([]byte("  ")); err != nil {
		return 0, err
	}
	return i.w.Write(p)
}
