// Package conditions turns condition values into expression trees.
//
// A condition is a node, a raw SQL string, a Cond map, an ordered Pairs
// list, a positional []any list, or a callback receiving an Expression:
//
//	conditions.Cond{"id IN": []int{1, 2, 3}, "title LIKE": "go%"}
//	conditions.Pairs{{"OR", conditions.Cond{"a": 1, "b >": 2}}}
//	[]any{"1=1", nodes.Ident("x").Eq(1)}
//
// Keys are "field" or "field operator"; operators are matched without
// regard to case. A list under a plain key becomes IN.
package conditions

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/types"
)

// ErrParse reports a condition that cannot be turned into an expression.
var ErrParse = errors.New("invalid condition")

// Cond is an implicit AND of field conditions. Keys are visited in sorted
// order so placeholder numbering is deterministic.
type Cond map[string]any

// Pair is one ordered key/value condition.
type Pair struct {
	Key   string
	Value any
}

// Pairs is an implicit AND of field conditions kept in insertion order.
type Pairs []Pair

// Callback builds a condition on a fresh Expression.
type Callback func(e *Expression) nodes.Node

// Parser builds expression trees, resolving value types from a TypeMap
// and per-call overrides.
type Parser struct {
	types     *types.TypeMap
	overrides map[string]string
}

// NewParser returns a parser using tm (may be nil) for field types.
// overrides take precedence over the map.
func NewParser(tm *types.TypeMap, overrides map[string]string) *Parser {
	return &Parser{types: tm, overrides: overrides}
}

// Parse builds an AND tree from input.
func Parse(input any, tm *types.TypeMap, overrides map[string]string) (*nodes.ExpressionTree, error) {
	return NewParser(tm, overrides).Parse(nodes.ConjAnd, input)
}

// Parse builds a tree with the given conjunction from input.
func (p *Parser) Parse(conj nodes.Conjunction, input any) (*nodes.ExpressionTree, error) {
	tree := nodes.NewTree(conj)
	if err := p.add(tree, input); err != nil {
		return nil, err
	}
	return tree, nil
}

// NewExpression returns an empty AND expression using this parser's types.
func (p *Parser) NewExpression() *Expression {
	return &Expression{tree: nodes.NewTree(nodes.ConjAnd), parser: p}
}

// TypeOf returns the declared type of a field: the explicit type when
// given, else the per-call override, else the TypeMap entry.
func (p *Parser) TypeOf(field, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if t, ok := p.overrides[field]; ok {
		return t
	}
	return p.types.ColumnType(field)
}

func (p *Parser) add(tree *nodes.ExpressionTree, input any) error {
	switch in := input.(type) {
	case nil:
		return nil
	case *Expression:
		if in.err != nil {
			return in.err
		}
		tree.Add(in.Node())
	case nodes.Node:
		tree.Add(in)
	case string:
		if strings.TrimSpace(in) != "" {
			tree.Add(nodes.NewSqlLiteral(in))
		}
	case Cond:
		return p.addPairs(tree, in.pairs())
	case map[string]any:
		return p.addPairs(tree, Cond(in).pairs())
	case Pairs:
		return p.addPairs(tree, in)
	case []Pair:
		return p.addPairs(tree, in)
	case Callback:
		return p.addCallback(tree, in)
	case func(*Expression) nodes.Node:
		return p.addCallback(tree, in)
	case []any:
		for _, item := range in {
			if err := p.add(tree, item); err != nil {
				return err
			}
		}
	case []nodes.Node:
		tree.Add(in...)
	default:
		return fmt.Errorf("%w: unsupported condition of type %T", ErrParse, input)
	}
	return nil
}

func (p *Parser) addCallback(tree *nodes.ExpressionTree, fn func(*Expression) nodes.Node) error {
	e := p.NewExpression()
	out := fn(e)
	if e.err != nil {
		return e.err
	}
	if out == nil {
		return nil
	}
	return p.add(tree, out)
}

func (p *Parser) addPairs(tree *nodes.ExpressionTree, pairs []Pair) error {
	for _, pr := range pairs {
		n, err := p.pair(pr.Key, pr.Value)
		if err != nil {
			return err
		}
		tree.Add(n)
	}
	return nil
}

func (p *Parser) pair(key string, value any) (nodes.Node, error) {
	switch strings.ToUpper(strings.TrimSpace(key)) {
	case "AND":
		return p.Parse(nodes.ConjAnd, value)
	case "OR":
		return p.Parse(nodes.ConjOr, value)
	case "NOT":
		inner, err := p.Parse(nodes.ConjAnd, value)
		if err != nil {
			return nil, err
		}
		return inner.Not(), nil
	}

	field, op, err := ParseKey(key)
	if err != nil {
		return nil, err
	}
	return p.Compare(nodes.Ident(field), op, value, "")
}

// Compare builds "field op value". op is an upper-cased operator as
// returned by ParseKey; the empty operator means equality, or IN for a
// list value.
func (p *Parser) Compare(field nodes.Node, op string, value any, typ string) (nodes.Node, error) {
	typ = p.TypeOf(fieldName(field), typ)
	elemType := types.Base(typ)

	if query, ok := value.(nodes.Node); ok {
		if op == "IN" || op == "NOT IN" {
			in := nodes.NewInNode(field, nil, op == "NOT IN")
			in.Query = query
			return in, nil
		}
	}

	if list, ok := toList(value); ok {
		vals := make([]nodes.Node, len(list))
		for i, v := range list {
			vals[i] = bindValue(v, elemType)
		}
		switch op {
		case "", "=", "IN":
			return nodes.NewInNode(field, vals, false), nil
		case "!=", "<>", "NOT IN":
			return nodes.NewInNode(field, vals, true), nil
		}
		return nil, fmt.Errorf("%w: operator %q cannot be used with a list of values for %q", ErrParse, op, fieldName(field))
	}

	val := bindValue(value, elemType)
	switch op {
	case "IN":
		return nodes.NewInNode(field, []nodes.Node{val}, false), nil
	case "NOT IN":
		return nodes.NewInNode(field, []nodes.Node{val}, true), nil
	}
	if cmp, ok := comparisonOps[op]; ok {
		return nodes.NewComparisonNode(field, val, cmp), nil
	}
	return nodes.NewCustomComparison(field, val, op), nil
}

var comparisonOps = map[string]nodes.ComparisonOp{
	"":          nodes.OpEq,
	"=":         nodes.OpEq,
	"!=":        nodes.OpNotEq,
	"<>":        nodes.OpNotEqANSI,
	">":         nodes.OpGt,
	">=":        nodes.OpGtEq,
	"<":         nodes.OpLt,
	"<=":        nodes.OpLtEq,
	"LIKE":      nodes.OpLike,
	"NOT LIKE":  nodes.OpNotLike,
	"ILIKE":     nodes.OpILike,
	"NOT ILIKE": nodes.OpNotILike,
	"IS":        nodes.OpIs,
	"IS NOT":    nodes.OpIsNot,
}

// bindValue wraps a compared value. Typed non-nil values become typed bind
// parameters; nil stays a NULL literal so IS / IS NOT can detect it.
func bindValue(v any, typ string) nodes.Node {
	if n, ok := v.(nodes.Node); ok {
		return n
	}
	if v != nil && typ != "" {
		return nodes.NewBindParam(v, typ)
	}
	return nodes.Literal(v)
}

// toList reports whether v is a slice or array of values. Byte slices are
// scalar values.
func toList(v any) ([]any, bool) {
	switch l := v.(type) {
	case nil, []byte:
		return nil, false
	case []any:
		return l, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// fieldName returns the name used to look up a field's type.
func fieldName(n nodes.Node) string {
	switch f := n.(type) {
	case *nodes.IdentifierNode:
		return f.Name
	case *nodes.Attribute:
		if rel := nodes.RelationName(f.Relation); rel != "" {
			return rel + "." + f.Name
		}
		return f.Name
	}
	return ""
}

func (c Cond) pairs() []Pair {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]Pair, len(keys))
	for i, k := range keys {
		out[i] = Pair{Key: k, Value: c[k]}
	}
	return out
}
