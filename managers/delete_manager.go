package managers

import (
	"context"

	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/plugins"
	"github.com/bawdo/quarry/statement"
)

// DeleteManager provides a fluent API for building DELETE statements.
type DeleteManager struct {
	treeManager
	Statement *nodes.DeleteStatement
}

// NewDelete creates an empty DeleteManager bound to exec.
func NewDelete(exec Executor) *DeleteManager {
	return &DeleteManager{
		treeManager: newTreeManager(exec),
		Statement:   &nodes.DeleteStatement{},
	}
}

// NewDeleteManager creates a new DeleteManager targeting the given table.
func NewDeleteManager(from nodes.Node) *DeleteManager {
	m := NewDelete(nil)
	m.Statement.From = from
	return m
}

// From sets the table to delete from: a name, an alias map or a node.
func (m *DeleteManager) From(table any) *DeleteManager {
	t, err := singleRelation(table)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Statement.From = t
	m.touch()
	return m
}

// Where appends conditions to the WHERE clause.
func (m *DeleteManager) Where(conds ...any) *DeleteManager {
	m.addConditions(&m.Statement.Wheres, conds, nil)
	return m
}

// AndWhere is an alias for Where.
func (m *DeleteManager) AndWhere(conds ...any) *DeleteManager { return m.Where(conds...) }

// ReplaceWhere discards the current conditions before adding conds.
func (m *DeleteManager) ReplaceWhere(conds ...any) *DeleteManager {
	m.Statement.Wheres = nil
	return m.Where(conds...)
}

// WhereNull adds "field IS NULL".
func (m *DeleteManager) WhereNull(f any) *DeleteManager {
	m.Statement.Wheres = whereNull(&m.treeManager, m.Statement.Wheres, f, false)
	return m
}

// WhereNotNull adds "field IS NOT NULL".
func (m *DeleteManager) WhereNotNull(f any) *DeleteManager {
	m.Statement.Wheres = whereNull(&m.treeManager, m.Statement.Wheres, f, true)
	return m
}

// WhereInList adds "field IN (...)"; see SelectManager.WhereInList.
func (m *DeleteManager) WhereInList(f string, values any, allowEmpty bool) *DeleteManager {
	m.Statement.Wheres = whereInList(&m.treeManager, m.Statement.Wheres, f, values, allowEmpty)
	return m
}

// WhereNotInList adds "field NOT IN (...)"; see SelectManager.WhereNotInList.
func (m *DeleteManager) WhereNotInList(f string, values any, allowEmpty bool) *DeleteManager {
	m.Statement.Wheres = whereNotInList(&m.treeManager, m.Statement.Wheres, f, values, allowEmpty)
	return m
}

// InnerJoin adds an INNER JOIN (MySQL multi-table DELETE).
func (m *DeleteManager) InnerJoin(table any, conds ...any) *DeleteManager {
	return m.join(table, nodes.InnerJoin, conds)
}

// LeftJoin adds a LEFT JOIN (MySQL multi-table DELETE).
func (m *DeleteManager) LeftJoin(table any, conds ...any) *DeleteManager {
	return m.join(table, nodes.LeftOuterJoin, conds)
}

func (m *DeleteManager) join(table any, jt nodes.JoinType, conds []any) *DeleteManager {
	right, err := singleRelation(table)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Statement.Joins = append(m.Statement.Joins, &nodes.JoinNode{
		Left:  m.Statement.From,
		Right: right,
		Type:  jt,
		On:    joinCondition(&m.treeManager, conds),
	})
	m.touch()
	return m
}

// Order appends ORDER BY terms.
func (m *DeleteManager) Order(fields ...any) *DeleteManager {
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
func (m *DeleteManager) Limit(n int) *DeleteManager {
	if n < 0 {
		m.failf("limit must not be negative, got %d", n)
		return m
	}
	m.Statement.Limit = intLiteral(n)
	m.touch()
	return m
}

// Returning sets the RETURNING clause columns.
func (m *DeleteManager) Returning(cols ...any) *DeleteManager {
	ns, err := fieldList(cols)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Statement.Returning = ns
	m.touch()
	return m
}

// Modifier appends keywords rendered after DELETE, such as QUICK.
func (m *DeleteManager) Modifier(mods ...any) *DeleteManager {
	m.Statement.Modifiers = appendRaw(&m.treeManager, m.Statement.Modifiers, mods)
	return m
}

// With adds a common table expression.
func (m *DeleteManager) With(name string, q nodes.Node, columns ...string) *DeleteManager {
	m.Statement.With = append(m.Statement.With, &nodes.CTENode{Name: name, Query: q, Columns: columns})
	m.touch()
	return m
}

// Epilog sets a raw fragment appended after everything else.
func (m *DeleteManager) Epilog(fragment any) *DeleteManager {
	m.Statement.Epilog = epilog(&m.treeManager, fragment)
	return m
}

// Bind registers an explicit value for a named placeholder.
func (m *DeleteManager) Bind(param string, value any, typ ...string) *DeleteManager {
	m.bind(param, value, typ)
	return m
}

// SetDefaultTypes replaces the default field types used for binding.
func (m *DeleteManager) SetDefaultTypes(defaults map[string]string) *DeleteManager {
	m.setDefaultTypes(defaults)
	return m
}

// Use registers a transformer plugin.
func (m *DeleteManager) Use(t plugins.Transformer) *DeleteManager {
	m.addTransformer(t)
	return m
}

func (m *DeleteManager) prepared(dialect string) (*nodes.DeleteStatement, error) {
	if m.err != nil {
		return nil, m.err
	}
	stmt, err := m.transformers.Delete(nodes.Clone(m.Statement).(*nodes.DeleteStatement))
	if err != nil {
		return nil, err
	}
	s, err := newAliasStripper(dialect, stmt.From, stmt.Joins, stmt.Wheres, stmt.Orders, stmt.Returning)
	if err != nil || s == nil {
		return stmt, err
	}
	stmt.From = s.target(stmt.From)
	stmt.Wheres = s.list(stmt.Wheres)
	stmt.Orders = s.list(stmt.Orders)
	stmt.Returning = s.list(stmt.Returning)
	return stmt, nil
}

func (m *DeleteManager) toSQLCore(v nodes.Visitor) (string, error) {
	stmt, err := m.prepared(dialectName(v))
	if err != nil {
		return "", err
	}
	return stmt.Accept(v), nil
}

// SQL renders the statement with named placeholders.
func (m *DeleteManager) SQL() (string, error) {
	return m.render(func(v nodes.Visitor) string {
		sql, err := m.toSQLCore(v)
		if err != nil {
			failVisitor(v, err)
		}
		return sql
	})
}

// ToSQL applies transformers and generates SQL with parameters.
func (m *DeleteManager) ToSQL(v nodes.Visitor) (string, []any, error) {
	return toSQLParams(v, m.toSQLCore)
}

// Execute runs the statement. Statements with RETURNING produce rows; the
// caller must close the statement.
func (m *DeleteManager) Execute(ctx context.Context) (*statement.Statement, error) {
	sql, err := m.SQL()
	if err != nil {
		return nil, err
	}
	return m.run(ctx, sql, len(m.Statement.Returning) > 0)
}

// Clone returns a deep, independent copy.
func (m *DeleteManager) Clone() *DeleteManager {
	return &DeleteManager{
		treeManager: m.treeManager.clone(),
		Statement:   nodes.Clone(m.Statement).(*nodes.DeleteStatement),
	}
}
