package managers

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/bawdo/quarry/binder"
	"github.com/bawdo/quarry/conditions"
	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/plugins"
	"github.com/bawdo/quarry/statement"
	"github.com/bawdo/quarry/types"
)

// treeManager is the shared base for all manager types. It holds the
// transformer pipeline, the binder and type map, the executor and the
// dirty state common to Select, Insert, Update, and Delete managers.
//
// Every mutation through the manager marks it dirty. SQL is rebuilt on
// each render because embedded sub-queries and held expressions can change
// without the manager seeing it; generated placeholders are reset first,
// so repeated renders are byte-identical and the binder never grows.
type treeManager struct {
	transformers plugins.Pipeline
	executor     Executor
	binder       *binder.ValueBinder
	typeMap      *types.TypeMap

	version  int // bumped by every mutation
	rendered int // version at the last successful render, -1 when none
	err      error
}

func newTreeManager(exec Executor) treeManager {
	return treeManager{
		executor: exec,
		binder:   binder.New(),
		typeMap:  types.NewTypeMap(nil),
		rendered: -1,
	}
}

// addTransformer appends a transformer plugin to the pipeline.
func (tm *treeManager) addTransformer(t plugins.Transformer) {
	tm.transformers = append(tm.transformers, t)
	tm.touch()
}

// Transformers returns the registered transformer pipeline.
func (tm *treeManager) Transformers() []plugins.Transformer {
	return tm.transformers
}

// ValueBinder returns the binder holding this statement's values.
func (tm *treeManager) ValueBinder() *binder.ValueBinder { return tm.binder }

// TypeMap returns the default field types used when binding values.
func (tm *treeManager) TypeMap() *types.TypeMap { return tm.typeMap }

// Executor returns the executor the manager renders and runs with.
func (tm *treeManager) Executor() Executor { return tm.executor }

// Err returns the first builder error, if any.
func (tm *treeManager) Err() error { return tm.err }

// IsDirty reports whether the manager changed since it was last rendered.
// Changes made to embedded sub-queries or to expressions held by the
// caller are not tracked here; they still show up in the next render.
func (tm *treeManager) IsDirty() bool { return tm.rendered != tm.version }

// MarkDirty invalidates cached results. Call it after editing
// the exported statement fields directly.
func (tm *treeManager) MarkDirty() { tm.touch() }

func (tm *treeManager) touch() { tm.version++ }

// fail records the first builder error; later calls are ignored.
func (tm *treeManager) fail(err error) {
	if tm.err == nil && err != nil {
		tm.err = err
	}
	tm.touch()
}

func (tm *treeManager) failf(format string, args ...any) {
	tm.fail(fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...))
}

func (tm *treeManager) bind(param string, value any, typ []string) {
	tm.binder.Bind(param, value, first(typ))
	tm.touch()
}

func (tm *treeManager) setDefaultTypes(defaults map[string]string) {
	tm.typeMap.SetDefaults(defaults)
	tm.touch()
}

func (tm *treeManager) clone() treeManager {
	return treeManager{
		transformers: append(plugins.Pipeline(nil), tm.transformers...),
		executor:     tm.executor,
		binder:       tm.binder.Clone(),
		typeMap:      tm.typeMap.Clone(),
		rendered:     -1,
		err:          tm.err,
	}
}

// addConditions parses conds and appends them to the AND tree at the head
// of list, creating it when missing.
func (tm *treeManager) addConditions(list *[]nodes.Node, conds []any, typeOverrides map[string]string) {
	tree := conditionTree(list)
	p := conditions.NewParser(tm.typeMap, typeOverrides)
	for _, c := range conds {
		parsed, err := p.Parse(nodes.ConjAnd, c)
		if err != nil {
			tm.fail(err)
			return
		}
		tree.Add(parsed.Children...)
	}
	tm.touch()
}

// parseTree parses conds into a fresh AND tree, used for JOIN conditions.
func (tm *treeManager) parseTree(conds []any) *nodes.ExpressionTree {
	var list []nodes.Node
	tm.addConditions(&list, conds, nil)
	return conditionTree(&list)
}

func conditionTree(list *[]nodes.Node) *nodes.ExpressionTree {
	if len(*list) > 0 {
		if t, ok := (*list)[0].(*nodes.ExpressionTree); ok && t.Conjunction == nodes.ConjAnd {
			return t
		}
	}
	t := nodes.AllOf()
	*list = append([]nodes.Node{t}, *list...)
	return t
}

// render produces the statement SQL with named placeholders.
func (tm *treeManager) render(build func(nodes.Visitor) string) (string, error) {
	if tm.err != nil {
		return "", tm.err
	}
	if tm.executor == nil {
		return "", ErrNoConnection
	}
	tm.binder.ResetCount()
	d, err := tm.executor.Dialect(tm.binder)
	if err != nil {
		return "", err
	}
	sql := build(d)
	if err := d.Err(); err != nil {
		return "", err
	}
	tm.rendered = tm.version
	return sql, nil
}

func (tm *treeManager) run(ctx context.Context, sql string, rows bool) (*statement.Statement, error) {
	if tm.executor == nil {
		return nil, ErrNoConnection
	}
	return tm.executor.Run(ctx, sql, tm.binder, rows)
}

// toSQLParams is a helper that resets a parameterizer (if present), calls
// the provided generate function, and returns SQL + params. Rendering
// errors recorded on the visitor are returned as err.
func toSQLParams(v nodes.Visitor, generate func(nodes.Visitor) (string, error)) (string, []any, error) {
	p, _ := v.(nodes.Parameterizer)
	if p != nil {
		p.Reset()
	}

	sql, err := generate(v)
	if err != nil {
		return "", nil, err
	}
	if e, ok := v.(interface{ Err() error }); ok && e.Err() != nil {
		return "", nil, e.Err()
	}

	if p != nil {
		return sql, p.Params(), nil
	}
	return sql, nil, nil
}

// failVisitor reports err on visitors that record errors.
func failVisitor(v nodes.Visitor, err error) {
	if f, ok := v.(interface{ Fail(error) }); ok {
		f.Fail(err)
	}
}

// --- argument conversion ---

// field converts a column argument: strings become identifiers, nodes are
// used as-is.
func field(f any) (nodes.Node, error) {
	switch v := f.(type) {
	case string:
		return nodes.Ident(v), nil
	case nodes.Node:
		return v, nil
	}
	return nil, fmt.Errorf("%w: unsupported field of type %T", ErrInvalidArgument, f)
}

// fieldList expands projection-style arguments. A map[string]any maps
// aliases to fields and is emitted in alias order.
func fieldList(args []any) ([]nodes.Node, error) {
	var out []nodes.Node
	for _, a := range args {
		switch v := a.(type) {
		case []string:
			for _, s := range v {
				out = append(out, nodes.Ident(s))
			}
		case []nodes.Node:
			out = append(out, v...)
		case map[string]any:
			for _, alias := range sortedKeys(v) {
				n, err := field(v[alias])
				if err != nil {
					return nil, err
				}
				out = append(out, nodes.NewAliasNode(n, alias))
			}
		case map[string]string:
			for _, alias := range sortedKeys(v) {
				out = append(out, nodes.NewAliasNode(nodes.Ident(v[alias]), alias))
			}
		default:
			n, err := field(a)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
	}
	return out, nil
}

// relation converts a FROM or JOIN argument: strings name tables, a
// map[string]any maps aliases to tables or sub-queries.
func relation(arg any) ([]nodes.Node, error) {
	switch v := arg.(type) {
	case string:
		return []nodes.Node{nodes.NewTable(v)}, nil
	case map[string]any:
		var out []nodes.Node
		for _, alias := range sortedKeys(v) {
			switch src := v[alias].(type) {
			case string:
				out = append(out, nodes.NewTable(src).Alias(alias))
			case nodes.Node:
				out = append(out, &nodes.TableAlias{Relation: src, AliasName: alias})
			default:
				return nil, fmt.Errorf("%w: unsupported table of type %T", ErrInvalidArgument, src)
			}
		}
		return out, nil
	case map[string]string:
		var out []nodes.Node
		for _, alias := range sortedKeys(v) {
			out = append(out, nodes.NewTable(v[alias]).Alias(alias))
		}
		return out, nil
	case nodes.Node:
		return []nodes.Node{v}, nil
	}
	return nil, fmt.Errorf("%w: unsupported table of type %T", ErrInvalidArgument, arg)
}

func singleRelation(arg any) (nodes.Node, error) {
	rels, err := relation(arg)
	if err != nil {
		return nil, err
	}
	if len(rels) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one table, got %d", ErrInvalidArgument, len(rels))
	}
	return rels[0], nil
}

// orderList converts ORDER BY arguments. A map[string]string maps fields
// to "ASC" or "DESC".
func orderList(args []any) ([]nodes.Node, error) {
	var out []nodes.Node
	for _, a := range args {
		if m, ok := a.(map[string]string); ok {
			for _, f := range sortedKeys(m) {
				dir := nodes.Asc
				switch m[f] {
				case "DESC", "desc", "Desc":
					dir = nodes.Desc
				}
				out = append(out, nodes.NewOrdering(nodes.Ident(f), dir))
			}
			continue
		}
		n, err := fieldList([]any{a})
		if err != nil {
			return nil, err
		}
		out = append(out, n...)
	}
	return out, nil
}

// raw converts modifier and epilog arguments: strings are emitted verbatim.
func raw(arg any) (nodes.Node, error) {
	switch v := arg.(type) {
	case string:
		return nodes.NewSqlLiteral(v), nil
	case nodes.Node:
		return v, nil
	}
	return nil, fmt.Errorf("%w: unsupported SQL fragment of type %T", ErrInvalidArgument, arg)
}

func intLiteral(n int) nodes.Node {
	return nodes.NewSqlLiteral(strconv.Itoa(n))
}

// intValue reads back an integer literal set by intLiteral.
func intValue(n nodes.Node) (int, bool) {
	lit, ok := n.(*nodes.SqlLiteral)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(lit.Raw)
	return v, err == nil
}

// listLen returns the length of a slice or array argument, 0 for an
// untyped nil and -1 for anything else.
func listLen(v any) int {
	if v == nil {
		return 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len()
	}
	return -1
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
