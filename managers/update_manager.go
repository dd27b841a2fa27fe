package managers

import (
	"context"

	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/plugins"
	"github.com/bawdo/quarry/statement"
)

// UpdateManager provides a fluent API for building UPDATE statements.
type UpdateManager struct {
	treeManager
	Statement *nodes.UpdateStatement
}

// NewUpdate creates an empty UpdateManager bound to exec.
func NewUpdate(exec Executor) *UpdateManager {
	return &UpdateManager{
		treeManager: newTreeManager(exec),
		Statement:   &nodes.UpdateStatement{},
	}
}

// NewUpdateManager creates a new UpdateManager targeting the given table.
func NewUpdateManager(table nodes.Node) *UpdateManager {
	m := NewUpdate(nil)
	m.Statement.Table = table
	return m
}

// Table sets the table to update: a name, an alias map or a node.
func (m *UpdateManager) Table(table any) *UpdateManager {
	t, err := singleRelation(table)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Statement.Table = t
	m.touch()
	return m
}

// Set adds a column assignment to the SET clause. val can be a raw Go
// value, bound with typ or the column's default type, or a Node.
func (m *UpdateManager) Set(col, val any, typ ...string) *UpdateManager {
	left, err := field(col)
	if err != nil {
		m.fail(err)
		return m
	}
	t := first(typ)
	if t == "" {
		t = m.typeMap.ColumnType(columnName(left))
	}
	m.Statement.Assignments = append(m.Statement.Assignments, &nodes.AssignmentNode{
		Left:  left,
		Right: valueNode(val, t),
	})
	m.touch()
	return m
}

// SetMap adds one assignment per entry, in column order. typ overrides
// the default types per column.
func (m *UpdateManager) SetMap(values map[string]any, typ ...map[string]string) *UpdateManager {
	var types map[string]string
	if len(typ) > 0 {
		types = typ[0]
	}
	for _, col := range sortedKeys(values) {
		if t, ok := types[col]; ok {
			m.Set(col, values[col], t)
		} else {
			m.Set(col, values[col])
		}
	}
	return m
}

// Where appends conditions to the WHERE clause.
func (m *UpdateManager) Where(conds ...any) *UpdateManager {
	m.addConditions(&m.Statement.Wheres, conds, nil)
	return m
}

// AndWhere is an alias for Where.
func (m *UpdateManager) AndWhere(conds ...any) *UpdateManager { return m.Where(conds...) }

// ReplaceWhere discards the current conditions before adding conds.
func (m *UpdateManager) ReplaceWhere(conds ...any) *UpdateManager {
	m.Statement.Wheres = nil
	return m.Where(conds...)
}

// WhereNull adds "field IS NULL".
func (m *UpdateManager) WhereNull(f any) *UpdateManager {
	m.Statement.Wheres = whereNull(&m.treeManager, m.Statement.Wheres, f, false)
	return m
}

// WhereNotNull adds "field IS NOT NULL".
func (m *UpdateManager) WhereNotNull(f any) *UpdateManager {
	m.Statement.Wheres = whereNull(&m.treeManager, m.Statement.Wheres, f, true)
	return m
}

// WhereInList adds "field IN (...)"; see SelectManager.WhereInList.
func (m *UpdateManager) WhereInList(f string, values any, allowEmpty bool) *UpdateManager {
	m.Statement.Wheres = whereInList(&m.treeManager, m.Statement.Wheres, f, values, allowEmpty)
	return m
}

// WhereNotInList adds "field NOT IN (...)"; see SelectManager.WhereNotInList.
func (m *UpdateManager) WhereNotInList(f string, values any, allowEmpty bool) *UpdateManager {
	m.Statement.Wheres = whereNotInList(&m.treeManager, m.Statement.Wheres, f, values, allowEmpty)
	return m
}

// InnerJoin adds an INNER JOIN (MySQL multi-table UPDATE).
func (m *UpdateManager) InnerJoin(table any, conds ...any) *UpdateManager {
	return m.join(table, nodes.InnerJoin, conds)
}

// LeftJoin adds a LEFT JOIN (MySQL multi-table UPDATE).
func (m *UpdateManager) LeftJoin(table any, conds ...any) *UpdateManager {
	return m.join(table, nodes.LeftOuterJoin, conds)
}

func (m *UpdateManager) join(table any, jt nodes.JoinType, conds []any) *UpdateManager {
	right, err := singleRelation(table)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Statement.Joins = append(m.Statement.Joins, &nodes.JoinNode{
		Left:  m.Statement.Table,
		Right: right,
		Type:  jt,
		On:    joinCondition(&m.treeManager, conds),
	})
	m.touch()
	return m
}

// Order appends ORDER BY terms (MySQL, SQLite builds with the option).
func (m *UpdateManager) Order(fields ...any) *UpdateManager {
	ns, err := orderList(fields)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Statement.Orders = append(m.Statement.Orders, ns...)
	m.touch()
	return m
}

// Limit sets the LIMIT clause.
func (m *UpdateManager) Limit(n int) *UpdateManager {
	if n < 0 {
		m.failf("limit must not be negative, got %d", n)
		return m
	}
	m.Statement.Limit = intLiteral(n)
	m.touch()
	return m
}

// Returning sets the RETURNING clause columns.
func (m *UpdateManager) Returning(cols ...any) *UpdateManager {
	ns, err := fieldList(cols)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Statement.Returning = ns
	m.touch()
	return m
}

// Modifier appends keywords rendered after UPDATE, such as LOW_PRIORITY.
func (m *UpdateManager) Modifier(mods ...any) *UpdateManager {
	m.Statement.Modifiers = appendRaw(&m.treeManager, m.Statement.Modifiers, mods)
	return m
}

// With adds a common table expression.
func (m *UpdateManager) With(name string, q nodes.Node, columns ...string) *UpdateManager {
	m.Statement.With = append(m.Statement.With, &nodes.CTENode{Name: name, Query: q, Columns: columns})
	m.touch()
	return m
}

// Epilog sets a raw fragment appended after everything else.
func (m *UpdateManager) Epilog(fragment any) *UpdateManager {
	m.Statement.Epilog = epilog(&m.treeManager, fragment)
	return m
}

// Bind registers an explicit value for a named placeholder.
func (m *UpdateManager) Bind(param string, value any, typ ...string) *UpdateManager {
	m.bind(param, value, typ)
	return m
}

// SetDefaultTypes replaces the default field types used for binding.
func (m *UpdateManager) SetDefaultTypes(defaults map[string]string) *UpdateManager {
	m.setDefaultTypes(defaults)
	return m
}

// Use registers a transformer plugin.
func (m *UpdateManager) Use(t plugins.Transformer) *UpdateManager {
	m.addTransformer(t)
	return m
}

// prepared applies transformers and alias stripping to a copy of the
// statement.
func (m *UpdateManager) prepared(dialect string) (*nodes.UpdateStatement, error) {
	if m.err != nil {
		return nil, m.err
	}
	stmt, err := m.transformers.Update(nodes.Clone(m.Statement).(*nodes.UpdateStatement))
	if err != nil {
		return nil, err
	}
	values := make([]nodes.Node, len(stmt.Assignments))
	for i, a := range stmt.Assignments {
		values[i] = a.Right
	}
	s, err := newAliasStripper(dialect, stmt.Table, stmt.Joins, values, stmt.Wheres, stmt.Orders, stmt.Returning)
	if err != nil || s == nil {
		return stmt, err
	}
	stmt.Table = s.target(stmt.Table)
	for i, a := range stmt.Assignments {
		stmt.Assignments[i] = &nodes.AssignmentNode{Left: s.column(a.Left), Right: s.node(a.Right)}
	}
	stmt.Wheres = s.list(stmt.Wheres)
	stmt.Orders = s.list(stmt.Orders)
	stmt.Returning = s.list(stmt.Returning)
	return stmt, nil
}

func (m *UpdateManager) toSQLCore(v nodes.Visitor) (string, error) {
	stmt, err := m.prepared(dialectName(v))
	if err != nil {
		return "", err
	}
	return stmt.Accept(v), nil
}

// SQL renders the statement with named placeholders.
func (m *UpdateManager) SQL() (string, error) {
	return m.render(func(v nodes.Visitor) string {
		sql, err := m.toSQLCore(v)
		if err != nil {
			failVisitor(v, err)
		}
		return sql
	})
}

// ToSQL applies transformers and generates SQL with parameters.
// Returns SQL string, parameter values (if parameterised), and any error.
func (m *UpdateManager) ToSQL(v nodes.Visitor) (string, []any, error) {
	return toSQLParams(v, m.toSQLCore)
}

// Execute runs the statement. Statements with RETURNING (or OUTPUT on
// SQL Server) produce rows; the caller must close the statement.
func (m *UpdateManager) Execute(ctx context.Context) (*statement.Statement, error) {
	sql, err := m.SQL()
	if err != nil {
		return nil, err
	}
	return m.run(ctx, sql, len(m.Statement.Returning) > 0)
}

// Clone returns a deep, independent copy.
func (m *UpdateManager) Clone() *UpdateManager {
	return &UpdateManager{
		treeManager: m.treeManager.clone(),
		Statement:   nodes.Clone(m.Statement).(*nodes.UpdateStatement),
	}
}
