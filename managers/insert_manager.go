package managers

import (
	"context"
	"fmt"

	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/plugins"
	"github.com/bawdo/quarry/statement"
)

// InsertManager provides a fluent API for building INSERT statements.
// Columns must be declared with Insert before rows are added with Values.
type InsertManager struct {
	treeManager
	Statement *nodes.InsertStatement

	columns  []string
	colTypes map[string]string
}

// NewInsert creates an empty InsertManager bound to exec.
func NewInsert(exec Executor) *InsertManager {
	return &InsertManager{
		treeManager: newTreeManager(exec),
		Statement:   &nodes.InsertStatement{},
	}
}

// NewInsertManager creates a new InsertManager targeting the given table.
func NewInsertManager(into nodes.Node) *InsertManager {
	m := NewInsert(nil)
	m.Statement.Into = into
	return m
}

// Insert declares the columns to write. typ optionally maps columns to
// types, overriding the default types.
func (m *InsertManager) Insert(columns []string, typ ...map[string]string) *InsertManager {
	if len(columns) == 0 {
		m.failf("at least 1 column is required to perform an insert")
		return m
	}
	m.columns = append([]string(nil), columns...)
	m.colTypes = nil
	if len(typ) > 0 {
		m.colTypes = typ[0]
	}
	m.Statement.Columns = make([]nodes.Node, len(columns))
	for i, c := range columns {
		m.Statement.Columns[i] = nodes.Ident(c)
	}
	m.touch()
	return m
}

// Into sets the target table: a name, an alias map or a node.
func (m *InsertManager) Into(table any) *InsertManager {
	t, err := singleRelation(table)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Statement.Into = t
	m.touch()
	return m
}

// Values appends rows. A row is a map[string]any keyed by column, where
// missing columns are written as NULL, or a []any in column order. A
// *SelectManager (or any sub-query node) makes this INSERT ... SELECT.
func (m *InsertManager) Values(rows ...any) *InsertManager {
	if len(m.columns) == 0 {
		m.failf("you cannot add values before defining columns")
		return m
	}
	for _, r := range rows {
		switch row := r.(type) {
		case map[string]any:
			vals := make([]nodes.Node, len(m.columns))
			for i, c := range m.columns {
				vals[i] = valueNode(row[c], m.columnType(c))
			}
			m.Statement.Values = append(m.Statement.Values, vals)
		case []any:
			if len(row) != len(m.columns) {
				m.failf("row has %d values for %d columns", len(row), len(m.columns))
				return m
			}
			vals := make([]nodes.Node, len(row))
			for i, v := range row {
				vals[i] = valueNode(v, m.columnType(m.columns[i]))
			}
			m.Statement.Values = append(m.Statement.Values, vals)
		case nodes.Subquery:
			m.Statement.Select = row
		default:
			m.failf("unsupported row of type %T", r)
			return m
		}
	}
	m.touch()
	return m
}

func (m *InsertManager) columnType(col string) string {
	if t, ok := m.colTypes[col]; ok {
		return t
	}
	return m.typeMap.ColumnType(col)
}

// FromSelect sets a SELECT subquery as the source of rows.
// Mutually exclusive with Values: if Select is set, Values are ignored
// by the visitor.
func (m *InsertManager) FromSelect(sel nodes.Node) *InsertManager {
	m.Statement.Select = sel
	m.touch()
	return m
}

// Returning sets the RETURNING clause columns (OUTPUT on SQL Server).
func (m *InsertManager) Returning(cols ...any) *InsertManager {
	ns, err := fieldList(cols)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Statement.Returning = ns
	m.touch()
	return m
}

// OnConflict begins an ON CONFLICT clause targeting the given columns.
// Returns an OnConflictContext for specifying the action.
func (m *InsertManager) OnConflict(cols ...any) *OnConflictContext {
	ns, err := fieldList(cols)
	if err != nil {
		m.fail(err)
	}
	oc := &nodes.OnConflictNode{Columns: ns}
	m.Statement.OnConflict = oc
	m.touch()
	return &OnConflictContext{manager: m, node: oc}
}

// Modifier appends keywords rendered after INSERT, such as IGNORE.
func (m *InsertManager) Modifier(mods ...any) *InsertManager {
	m.Statement.Modifiers = appendRaw(&m.treeManager, m.Statement.Modifiers, mods)
	return m
}

// With adds a common table expression.
func (m *InsertManager) With(name string, q nodes.Node, columns ...string) *InsertManager {
	m.Statement.With = append(m.Statement.With, &nodes.CTENode{Name: name, Query: q, Columns: columns})
	m.touch()
	return m
}

// Epilog sets a raw fragment appended after everything else.
func (m *InsertManager) Epilog(fragment any) *InsertManager {
	m.Statement.Epilog = epilog(&m.treeManager, fragment)
	return m
}

// Bind registers an explicit value for a named placeholder.
func (m *InsertManager) Bind(param string, value any, typ ...string) *InsertManager {
	m.bind(param, value, typ)
	return m
}

// SetDefaultTypes replaces the default field types used for binding.
func (m *InsertManager) SetDefaultTypes(defaults map[string]string) *InsertManager {
	m.setDefaultTypes(defaults)
	return m
}

// Use registers a transformer plugin.
func (m *InsertManager) Use(t plugins.Transformer) *InsertManager {
	m.addTransformer(t)
	return m
}

func (m *InsertManager) toSQLCore(v nodes.Visitor) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.Statement.Into == nil {
		return "", fmt.Errorf("%w: could not compile insert query: no table was specified; use Into to define a table", ErrInvalidArgument)
	}
	if len(m.Statement.Columns) == 0 {
		return "", fmt.Errorf("%w: could not compile insert query: no columns were specified; use Insert to define columns", ErrInvalidArgument)
	}
	stmt, err := m.transformers.Insert(nodes.Clone(m.Statement).(*nodes.InsertStatement))
	if err != nil {
		return "", err
	}
	return stmt.Accept(v), nil
}

// SQL renders the statement with named placeholders.
func (m *InsertManager) SQL() (string, error) {
	return m.render(func(v nodes.Visitor) string {
		sql, err := m.toSQLCore(v)
		if err != nil {
			failVisitor(v, err)
		}
		return sql
	})
}

// ToSQL applies transformers and generates SQL with parameters.
func (m *InsertManager) ToSQL(v nodes.Visitor) (string, []any, error) {
	return toSQLParams(v, m.toSQLCore)
}

// Execute runs the statement. With RETURNING, or OUTPUT on SQL Server,
// the statement produces rows and RowCount reports -1.
func (m *InsertManager) Execute(ctx context.Context) (*statement.Statement, error) {
	sql, err := m.SQL()
	if err != nil {
		return nil, err
	}
	return m.run(ctx, sql, len(m.Statement.Returning) > 0)
}

// Clone returns a deep, independent copy.
func (m *InsertManager) Clone() *InsertManager {
	return &InsertManager{
		treeManager: m.treeManager.clone(),
		Statement:   nodes.Clone(m.Statement).(*nodes.InsertStatement),
		columns:     append([]string(nil), m.columns...),
		colTypes:    m.colTypes,
	}
}

// OnConflictContext guides ON CONFLICT clause construction.
type OnConflictContext struct {
	manager *InsertManager
	node    *nodes.OnConflictNode
}

// DoNothing sets the action to DO NOTHING and returns the InsertManager.
func (c *OnConflictContext) DoNothing() *InsertManager {
	c.node.Action = nodes.DoNothing
	c.manager.touch()
	return c.manager
}

// DoUpdate sets the action to DO UPDATE with the given assignments.
// Returns an OnConflictUpdateContext for an optional WHERE clause.
func (c *OnConflictContext) DoUpdate(assignments ...*nodes.AssignmentNode) *OnConflictUpdateContext {
	c.node.Action = nodes.DoUpdate
	c.node.Assignments = assignments
	c.manager.touch()
	return &OnConflictUpdateContext{manager: c.manager, node: c.node}
}

// DoUpdateSet sets the action to DO UPDATE, binding one value per column
// in column order.
func (c *OnConflictContext) DoUpdateSet(values map[string]any) *OnConflictUpdateContext {
	var as []*nodes.AssignmentNode
	for _, col := range sortedKeys(values) {
		as = append(as, &nodes.AssignmentNode{
			Left:  nodes.Ident(col),
			Right: valueNode(values[col], c.manager.columnType(col)),
		})
	}
	return c.DoUpdate(as...)
}

// OnConflictUpdateContext allows adding a WHERE to DO UPDATE.
type OnConflictUpdateContext struct {
	manager *InsertManager
	node    *nodes.OnConflictNode
}

// Where adds conditions to the ON CONFLICT DO UPDATE clause.
func (c *OnConflictUpdateContext) Where(conds ...any) *InsertManager {
	c.manager.addConditions(&c.node.Wheres, conds, nil)
	return c.manager
}

// Done returns the InsertManager without a WHERE.
func (c *OnConflictUpdateContext) Done() *InsertManager { return c.manager }
