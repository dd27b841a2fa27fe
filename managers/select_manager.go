package managers

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/bawdo/quarry/binder"
	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/plugins"
	"github.com/bawdo/quarry/statement"
	"github.com/bawdo/quarry/types"
)

// defaultPageSize is used by Page when no limit was set.
const defaultPageSize = 25

// Decorator transforms one fetched row.
type Decorator func(statement.Row) statement.Row

// SelectManager provides a fluent API for building SELECT queries.
// Conditions passed to Where and Having are parsed by the conditions
// package; values are bound through the manager's binder with types taken
// from its TypeMap.
//
// A SelectManager is itself a node: embedding it in another statement
// renders it as a parenthesised sub-query sharing the outer binder.
type SelectManager struct {
	treeManager
	Core *nodes.SelectCore

	selectTypes *types.TypeMap
	noCasting   bool
	decorators  []Decorator

	results         []statement.Row
	resultsVersion  int
	resultsSQL      string
	resultsBindings []binder.Binding
}

var (
	_ nodes.Subquery = (*SelectManager)(nil)
	_ nodes.Cloner   = (*SelectManager)(nil)
)

// NewSelect creates an empty SelectManager bound to exec. exec may be nil
// for managers only rendered through ToSQL or embedded as sub-queries.
func NewSelect(exec Executor) *SelectManager {
	return &SelectManager{
		treeManager:    newTreeManager(exec),
		Core:           &nodes.SelectCore{},
		resultsVersion: -1,
	}
}

// NewSelectManager creates a new SelectManager selecting from the given
// table. from may be nil.
func NewSelectManager(from nodes.Node) *SelectManager {
	m := NewSelect(nil)
	if from != nil {
		m.Core.Froms = []nodes.Node{from}
	}
	return m
}

// Select appends projections. Strings become identifiers, a
// map[string]any maps aliases to fields, nodes are used as-is.
func (m *SelectManager) Select(fields ...any) *SelectManager {
	ns, err := fieldList(fields)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Core.Projections = append(m.Core.Projections, ns...)
	m.touch()
	return m
}

// ReplaceSelect discards the current projections before adding fields.
func (m *SelectManager) ReplaceSelect(fields ...any) *SelectManager {
	m.Core.Projections = nil
	return m.Select(fields...)
}

// From appends FROM sources: table names, alias maps, tables or
// sub-queries.
func (m *SelectManager) From(tables ...any) *SelectManager {
	for _, t := range tables {
		rels, err := relation(t)
		if err != nil {
			m.fail(err)
			return m
		}
		m.Core.Froms = append(m.Core.Froms, rels...)
	}
	m.touch()
	return m
}

// ReplaceFrom discards the current FROM sources before adding tables.
func (m *SelectManager) ReplaceFrom(tables ...any) *SelectManager {
	m.Core.Froms = nil
	return m.From(tables...)
}

// Join adds a JOIN and returns a JoinContext so the condition can be
// supplied with On. The join type defaults to INNER JOIN.
func (m *SelectManager) Join(table any, joinType ...nodes.JoinType) *JoinContext {
	jt := nodes.InnerJoin
	if len(joinType) > 0 {
		jt = joinType[0]
	}
	join := m.addJoin(table, jt)
	return &JoinContext{manager: m, join: join}
}

// OuterJoin adds a LEFT OUTER JOIN and returns a JoinContext.
func (m *SelectManager) OuterJoin(table any) *JoinContext {
	return m.Join(table, nodes.LeftOuterJoin)
}

// InnerJoin adds an INNER JOIN on the given conditions.
func (m *SelectManager) InnerJoin(table any, conds ...any) *SelectManager {
	return m.Join(table).On(conds...)
}

// LeftJoin adds a LEFT JOIN on the given conditions.
func (m *SelectManager) LeftJoin(table any, conds ...any) *SelectManager {
	return m.Join(table, nodes.LeftOuterJoin).On(conds...)
}

// RightJoin adds a RIGHT JOIN on the given conditions.
func (m *SelectManager) RightJoin(table any, conds ...any) *SelectManager {
	return m.Join(table, nodes.RightOuterJoin).On(conds...)
}

// CrossJoin adds a CROSS JOIN (no ON clause).
func (m *SelectManager) CrossJoin(table any) *SelectManager {
	m.addJoin(table, nodes.CrossJoin)
	return m
}

// StringJoin appends a raw SQL join fragment.
func (m *SelectManager) StringJoin(raw string) *SelectManager {
	m.Core.Joins = append(m.Core.Joins, &nodes.JoinNode{
		Right: nodes.NewSqlLiteral(raw),
		Type:  nodes.StringJoin,
	})
	m.touch()
	return m
}

func (m *SelectManager) addJoin(table any, jt nodes.JoinType) *nodes.JoinNode {
	right, err := singleRelation(table)
	if err != nil {
		m.fail(err)
		right = nodes.NewSqlLiteral("")
	}
	var left nodes.Node
	if len(m.Core.Froms) > 0 {
		left = m.Core.Froms[0]
	}
	join := &nodes.JoinNode{Left: left, Right: right, Type: jt}
	m.Core.Joins = append(m.Core.Joins, join)
	m.touch()
	return join
}

// RemoveJoin drops every join whose target is named or aliased name.
func (m *SelectManager) RemoveJoin(name string) *SelectManager {
	kept := m.Core.Joins[:0]
	for _, j := range m.Core.Joins {
		if nodes.RelationName(j.Right) == name || nodes.TableSourceName(j.Right) == name {
			continue
		}
		kept = append(kept, j)
	}
	m.Core.Joins = kept
	m.touch()
	return m
}

// Where adds conditions, combined with AND. Each argument may be a
// conditions.Cond map, conditions.Pairs, a node, a raw SQL string or a
// callback building an Expression.
func (m *SelectManager) Where(conds ...any) *SelectManager {
	m.addConditions(&m.Core.Wheres, conds, nil)
	return m
}

// WhereTyped adds conditions using typeOverrides in place of the TypeMap for
// the fields they name.
func (m *SelectManager) WhereTyped(typeOverrides map[string]string, conds ...any) *SelectManager {
	m.addConditions(&m.Core.Wheres, conds, typeOverrides)
	return m
}

// AndWhere is an alias for Where.
func (m *SelectManager) AndWhere(conds ...any) *SelectManager {
	return m.Where(conds...)
}

// ReplaceWhere discards the current conditions before adding conds.
func (m *SelectManager) ReplaceWhere(conds ...any) *SelectManager {
	m.Core.Wheres = nil
	return m.Where(conds...)
}

// WhereNull adds "field IS NULL".
func (m *SelectManager) WhereNull(f any) *SelectManager {
	m.Core.Wheres = whereNull(&m.treeManager, m.Core.Wheres, f, false)
	return m
}

// WhereNotNull adds "field IS NOT NULL".
func (m *SelectManager) WhereNotNull(f any) *SelectManager {
	m.Core.Wheres = whereNull(&m.treeManager, m.Core.Wheres, f, true)
	return m
}

// WhereInList adds "field IN (...)". An empty list renders 1=0 when
// allowEmpty is set and is a rendering error otherwise.
func (m *SelectManager) WhereInList(f string, values any, allowEmpty bool) *SelectManager {
	m.Core.Wheres = whereInList(&m.treeManager, m.Core.Wheres, f, values, allowEmpty)
	return m
}

// WhereNotInList adds "field NOT IN (...)". An empty list renders 1=1
// when allowEmpty is set.
func (m *SelectManager) WhereNotInList(f string, values any, allowEmpty bool) *SelectManager {
	m.Core.Wheres = whereNotInList(&m.treeManager, m.Core.Wheres, f, values, allowEmpty)
	return m
}

// WhereNotInListOrNull adds "(field NOT IN (...) OR field IS NULL)". An
// empty list renders "field IS NOT NULL" when allowEmpty is set.
func (m *SelectManager) WhereNotInListOrNull(f string, values any, allowEmpty bool) *SelectManager {
	m.Core.Wheres = whereNotInListOrNull(&m.treeManager, m.Core.Wheres, f, values, allowEmpty)
	return m
}

// Group appends GROUP BY expressions.
func (m *SelectManager) Group(fields ...any) *SelectManager {
	ns, err := fieldList(fields)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Core.Groups = append(m.Core.Groups, ns...)
	m.touch()
	return m
}

// ReplaceGroup discards the current GROUP BY before adding fields.
func (m *SelectManager) ReplaceGroup(fields ...any) *SelectManager {
	m.Core.Groups = nil
	return m.Group(fields...)
}

// Having adds HAVING conditions, combined with AND.
func (m *SelectManager) Having(conds ...any) *SelectManager {
	m.addConditions(&m.Core.Havings, conds, nil)
	return m
}

// AndHaving is an alias for Having.
func (m *SelectManager) AndHaving(conds ...any) *SelectManager {
	return m.Having(conds...)
}

// ReplaceHaving discards the current HAVING conditions before adding conds.
func (m *SelectManager) ReplaceHaving(conds ...any) *SelectManager {
	m.Core.Havings = nil
	return m.Having(conds...)
}

// Order appends ORDER BY terms. Strings are rendered without a direction;
// a map[string]string maps fields to "ASC" or "DESC".
func (m *SelectManager) Order(fields ...any) *SelectManager {
	ns, err := orderList(fields)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Core.Orders = append(m.Core.Orders, ns...)
	m.touch()
	return m
}

// OrderAsc appends "field ASC".
func (m *SelectManager) OrderAsc(f any) *SelectManager {
	return m.orderDir(f, nodes.Asc)
}

// OrderDesc appends "field DESC".
func (m *SelectManager) OrderDesc(f any) *SelectManager {
	return m.orderDir(f, nodes.Desc)
}

func (m *SelectManager) orderDir(f any, dir nodes.OrderDirection) *SelectManager {
	n, err := field(f)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Core.Orders = append(m.Core.Orders, nodes.NewOrdering(n, dir))
	m.touch()
	return m
}

// ReplaceOrder discards the current ORDER BY before adding fields.
func (m *SelectManager) ReplaceOrder(fields ...any) *SelectManager {
	m.Core.Orders = nil
	return m.Order(fields...)
}

// Limit sets the LIMIT clause.
func (m *SelectManager) Limit(n int) *SelectManager {
	if n < 0 {
		m.failf("limit must not be negative, got %d", n)
		return m
	}
	m.Core.Limit = intLiteral(n)
	m.touch()
	return m
}

// Offset sets the OFFSET clause.
func (m *SelectManager) Offset(n int) *SelectManager {
	if n < 0 {
		m.failf("offset must not be negative, got %d", n)
		return m
	}
	m.Core.Offset = intLiteral(n)
	m.touch()
	return m
}

// Page sets LIMIT and OFFSET for the 1-based page num. The page size is
// size when given, else the current limit, else 25.
func (m *SelectManager) Page(num int, size ...int) *SelectManager {
	if num < 1 {
		m.failf("pages must start at 1, got %d", num)
		return m
	}
	limit := defaultPageSize
	if len(size) > 0 {
		limit = size[0]
	} else if cur, ok := intValue(m.Core.Limit); ok {
		limit = cur
	}
	return m.Limit(limit).Offset((num - 1) * limit)
}

// Distinct toggles SELECT DISTINCT. Called without arguments it enables it.
func (m *SelectManager) Distinct(on ...bool) *SelectManager {
	m.Core.Distinct = len(on) == 0 || on[0]
	m.touch()
	return m
}

// DistinctOn sets the DISTINCT ON expressions (PostgreSQL only).
func (m *SelectManager) DistinctOn(fields ...any) *SelectManager {
	ns, err := fieldList(fields)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Core.DistinctOn = ns
	m.touch()
	return m
}

// Modifier appends keywords rendered right after SELECT, such as
// SQL_CALC_FOUND_ROWS. Strings are emitted verbatim.
func (m *SelectManager) Modifier(mods ...any) *SelectManager {
	m.Core.Modifiers = appendRaw(&m.treeManager, m.Core.Modifiers, mods)
	return m
}

// ReplaceModifier discards the current modifiers before adding mods.
func (m *SelectManager) ReplaceModifier(mods ...any) *SelectManager {
	m.Core.Modifiers = nil
	return m.Modifier(mods...)
}

// Union appends a UNION with q.
func (m *SelectManager) Union(q nodes.Node) *SelectManager { return m.setOp(nodes.Union, q) }

// UnionAll appends a UNION ALL with q.
func (m *SelectManager) UnionAll(q nodes.Node) *SelectManager { return m.setOp(nodes.UnionAll, q) }

// Intersect appends an INTERSECT with q.
func (m *SelectManager) Intersect(q nodes.Node) *SelectManager { return m.setOp(nodes.Intersect, q) }

// Except appends an EXCEPT with q.
func (m *SelectManager) Except(q nodes.Node) *SelectManager { return m.setOp(nodes.Except, q) }

func (m *SelectManager) setOp(t nodes.SetOpType, q nodes.Node) *SelectManager {
	m.Core.Unions = append(m.Core.Unions, nodes.UnionPart{Type: t, Query: q})
	m.touch()
	return m
}

// With adds a common table expression.
func (m *SelectManager) With(name string, q nodes.Node, columns ...string) *SelectManager {
	m.Core.CTEs = append(m.Core.CTEs, &nodes.CTENode{Name: name, Query: q, Columns: columns})
	m.touch()
	return m
}

// WithRecursive adds a recursive common table expression.
func (m *SelectManager) WithRecursive(name string, q nodes.Node, columns ...string) *SelectManager {
	m.Core.CTEs = append(m.Core.CTEs, &nodes.CTENode{Name: name, Query: q, Columns: columns, Recursive: true})
	m.touch()
	return m
}

// Epilog sets a raw fragment appended after everything else.
func (m *SelectManager) Epilog(fragment any) *SelectManager {
	m.Core.Epilog = epilog(&m.treeManager, fragment)
	return m
}

// Comment sets a leading /* comment */.
func (m *SelectManager) Comment(text string) *SelectManager {
	m.Core.Comment = text
	m.touch()
	return m
}

// ForUpdate adds FOR UPDATE.
func (m *SelectManager) ForUpdate() *SelectManager { return m.lock(nodes.ForUpdate) }

// ForShare adds FOR SHARE.
func (m *SelectManager) ForShare() *SelectManager { return m.lock(nodes.ForShare) }

// ForNoKeyUpdate adds FOR NO KEY UPDATE (PostgreSQL).
func (m *SelectManager) ForNoKeyUpdate() *SelectManager { return m.lock(nodes.ForNoKeyUpdate) }

// ForKeyShare adds FOR KEY SHARE (PostgreSQL).
func (m *SelectManager) ForKeyShare() *SelectManager { return m.lock(nodes.ForKeyShare) }

// SkipLocked adds SKIP LOCKED to the row lock.
func (m *SelectManager) SkipLocked() *SelectManager {
	m.Core.SkipLocked = true
	m.touch()
	return m
}

func (m *SelectManager) lock(mode nodes.LockMode) *SelectManager {
	m.Core.Lock = mode
	m.touch()
	return m
}

// Bind registers an explicit value for a named placeholder used in raw
// SQL, e.g. Where("created > :start").Bind(":start", t, "datetime").
func (m *SelectManager) Bind(param string, value any, typ ...string) *SelectManager {
	m.bind(param, value, typ)
	return m
}

// Use registers a transformer plugin.
func (m *SelectManager) Use(t plugins.Transformer) *SelectManager {
	m.addTransformer(t)
	return m
}

// SetDefaultTypes replaces the default field types used for binding and
// result casting.
func (m *SelectManager) SetDefaultTypes(defaults map[string]string) *SelectManager {
	m.setDefaultTypes(defaults)
	return m
}

// DefaultTypes returns a copy of the default field types.
func (m *SelectManager) DefaultTypes() map[string]string {
	return m.typeMap.Defaults()
}

// SetSelectTypeMap overrides the types used to cast result columns.
// Results already fetched are not re-cast until the query is dirty again.
func (m *SelectManager) SetSelectTypeMap(tm *types.TypeMap) *SelectManager {
	m.selectTypes = tm
	return m
}

// SelectTypeMap returns the types used to cast result columns: the
// override when set, else the default types plus the types inferred from
// the projections (typed columns, aliases and function return types).
func (m *SelectManager) SelectTypeMap() *types.TypeMap {
	if m.selectTypes != nil {
		return m.selectTypes
	}
	tm := types.NewTypeMap(m.typeMap.Defaults())
	inferred := make(map[string]string)
	for _, p := range m.Core.Projections {
		if name, typ := m.projectionType(p); name != "" && typ != "" {
			inferred[name] = typ
		}
	}
	tm.SetTypes(inferred)
	return tm
}

func (m *SelectManager) projectionType(p nodes.Node) (string, string) {
	switch n := p.(type) {
	case *nodes.AliasNode:
		return n.Name, m.exprType(n.Expr)
	case *nodes.Attribute:
		return n.Name, m.exprType(n)
	case *nodes.IdentifierNode:
		name := n.Name
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		return name, m.exprType(n)
	}
	return "", ""
}

func (m *SelectManager) exprType(n nodes.Node) string {
	switch e := n.(type) {
	case *nodes.Attribute:
		if e.TypeName != "" {
			return e.TypeName
		}
		if rel := nodes.RelationName(e.Relation); rel != "" {
			return m.typeMap.ColumnType(rel + "." + e.Name)
		}
		return m.typeMap.ColumnType(e.Name)
	case *nodes.IdentifierNode:
		if e.TypeName != "" {
			return e.TypeName
		}
		return m.typeMap.ColumnType(e.Name)
	case *nodes.FunctionNode:
		return e.ReturnType
	case *nodes.CastedNode:
		return e.TypeName
	}
	return ""
}

// EnableResultsCasting turns result casting back on.
func (m *SelectManager) EnableResultsCasting() *SelectManager {
	m.noCasting = false
	return m
}

// DisableResultsCasting returns driver values as fetched.
func (m *SelectManager) DisableResultsCasting() *SelectManager {
	m.noCasting = true
	return m
}

// IsResultsCastingEnabled reports whether fetched rows are cast.
func (m *SelectManager) IsResultsCastingEnabled() bool { return !m.noCasting }

// DecorateResults registers fn to run on every fetched row, after
// casting. With overwrite the existing decorators are dropped first; a nil
// fn with overwrite clears them.
func (m *SelectManager) DecorateResults(fn Decorator, overwrite bool) *SelectManager {
	if overwrite {
		m.decorators = nil
	}
	if fn != nil {
		m.decorators = append(m.decorators, fn)
	}
	m.touch()
	return m
}

// Clause returns the current value of the named clause: select, from,
// join, where, group, having, order, limit, offset, union, with,
// modifier, distinct, epilog or comment. Unknown names return an error.
func (m *SelectManager) Clause(name string) (any, error) {
	c := m.Core
	switch name {
	case "select":
		return c.Projections, nil
	case "from":
		return c.Froms, nil
	case "join":
		return c.Joins, nil
	case "where":
		return clauseTree(c.Wheres), nil
	case "group":
		return c.Groups, nil
	case "having":
		return clauseTree(c.Havings), nil
	case "order":
		return c.Orders, nil
	case "limit":
		return c.Limit, nil
	case "offset":
		return c.Offset, nil
	case "union":
		return c.Unions, nil
	case "with":
		return c.CTEs, nil
	case "modifier":
		return c.Modifiers, nil
	case "distinct":
		if len(c.DistinctOn) > 0 {
			return c.DistinctOn, nil
		}
		return c.Distinct, nil
	case "epilog":
		return c.Epilog, nil
	case "comment":
		return c.Comment, nil
	}
	return nil, fmt.Errorf("%w: unknown clause %q", ErrInvalidArgument, name)
}

func clauseTree(list []nodes.Node) *nodes.ExpressionTree {
	if len(list) == 0 {
		return nil
	}
	if t, ok := list[0].(*nodes.ExpressionTree); ok {
		return t
	}
	return nodes.AllOf(list...)
}

// prepared returns a transformed copy of the core, leaving Core intact.
func (m *SelectManager) prepared() (*nodes.SelectCore, error) {
	if m.err != nil {
		return nil, m.err
	}
	core := nodes.CloneSelectCore(m.Core)
	if len(m.transformers) == 0 {
		return core, nil
	}
	return m.transformers.Select(core)
}

// SQL renders the query with named placeholders (":c0", ":c1", ...).
func (m *SelectManager) SQL() (string, error) {
	return m.render(func(v nodes.Visitor) string {
		return m.renderInto(v, false)
	})
}

// ToSQL applies transformers and generates SQL with v, returning the
// positional parameters collected by v.
func (m *SelectManager) ToSQL(v nodes.Visitor) (string, []any, error) {
	return toSQLParams(v, func(v nodes.Visitor) (string, error) {
		core, err := m.prepared()
		if err != nil {
			return "", err
		}
		return core.Accept(v), nil
	})
}

// Accept renders the query as a parenthesised sub-query.
func (m *SelectManager) Accept(v nodes.Visitor) string {
	return "(" + m.renderInto(v, true) + ")"
}

// Statement returns a node rendering the query without parentheses.
func (m *SelectManager) Statement() nodes.Node { return bareSelect{m} }

type bareSelect struct{ m *SelectManager }

func (b bareSelect) Accept(v nodes.Visitor) string { return b.m.renderInto(v, true) }

// renderInto renders the transformed core with v. Nested renders merge
// the explicit bindings of this query into the outer binder.
func (m *SelectManager) renderInto(v nodes.Visitor, nested bool) string {
	core, err := m.prepared()
	if err != nil {
		failVisitor(v, err)
		return ""
	}
	if nested {
		if d, ok := v.(interface{ Binder() *binder.ValueBinder }); ok {
			if outer := d.Binder(); outer != nil && outer != m.binder {
				outer.Merge(m.binder)
			}
		}
	}
	return core.Accept(v)
}

// CloneNode implements nodes.Cloner.
func (m *SelectManager) CloneNode() nodes.Node { return m.Clone() }

// Clone returns a deep, independent copy. Cached SQL and results are not
// carried over.
func (m *SelectManager) Clone() *SelectManager {
	c := &SelectManager{
		treeManager:    m.treeManager.clone(),
		Core:           nodes.CloneSelectCore(m.Core),
		noCasting:      m.noCasting,
		decorators:     append([]Decorator(nil), m.decorators...),
		resultsVersion: -1,
	}
	if m.selectTypes != nil {
		c.selectTypes = m.selectTypes.Clone()
	}
	return c
}

// As wraps the query as an aliased derived table.
func (m *SelectManager) As(alias string) *nodes.TableAlias {
	return &nodes.TableAlias{Relation: m, AliasName: alias}
}

// Execute runs the query and returns the open statement. The caller must
// close it.
func (m *SelectManager) Execute(ctx context.Context) (*statement.Statement, error) {
	sql, err := m.SQL()
	if err != nil {
		return nil, err
	}
	return m.run(ctx, sql, true)
}

// All runs the query and returns every row, cast and decorated. Results
// are cached until the manager is modified or the rendered SQL or its
// bindings change.
func (m *SelectManager) All(ctx context.Context) ([]statement.Row, error) {
	sql, err := m.SQL()
	if err != nil {
		return nil, err
	}
	bindings := m.binder.Bindings()
	if m.resultsVersion == m.version && m.resultsSQL == sql && reflect.DeepEqual(m.resultsBindings, bindings) {
		return m.results, nil
	}
	stmt, err := m.run(ctx, sql, true)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.FetchAll()
	if err != nil {
		return nil, err
	}
	if err := m.process(rows); err != nil {
		return nil, err
	}
	m.results = rows
	m.resultsVersion = m.version
	m.resultsSQL = sql
	m.resultsBindings = bindings
	return rows, nil
}

// First returns the first row, or nil when there is none. It sets LIMIT 1
// when the query has no limit.
func (m *SelectManager) First(ctx context.Context) (statement.Row, error) {
	if m.Core.Limit == nil {
		m.Limit(1)
	}
	rows, err := m.All(ctx)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (m *SelectManager) process(rows []statement.Row) error {
	var tm *types.TypeMap
	if !m.noCasting {
		tm = m.SelectTypeMap()
	}
	for i, row := range rows {
		if tm != nil {
			for col, val := range row {
				out, err := types.Decode(tm.Type(col), val)
				if err != nil {
					return fmt.Errorf("column %s: %w", col, err)
				}
				row[col] = out
			}
		}
		for _, d := range m.decorators {
			row = d(row)
		}
		rows[i] = row
	}
	return nil
}
