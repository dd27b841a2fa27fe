package conditions

import (
	"fmt"

	"github.com/bawdo/quarry/nodes"
)

// Expression is a fluent builder over an expression tree. Field arguments
// are either a field string ("id", "a.title") or a node. The optional
// trailing type overrides the type resolved from the parser's TypeMap.
//
// Builder errors are kept and reported when the expression is added to a
// query; later calls become no-ops.
type Expression struct {
	tree   *nodes.ExpressionTree
	parser *Parser
	err    error
}

// NewExpression returns an empty AND expression without type information.
func NewExpression() *Expression {
	return NewParser(nil, nil).NewExpression()
}

// Accept renders the underlying tree.
func (e *Expression) Accept(v nodes.Visitor) string { return e.tree.Accept(v) }

// CloneNode returns an independent copy.
func (e *Expression) CloneNode() nodes.Node {
	return &Expression{
		tree:   nodes.Clone(e.tree).(*nodes.ExpressionTree),
		parser: e.parser,
		err:    e.err,
	}
}

// Node returns the underlying tree.
func (e *Expression) Node() *nodes.ExpressionTree { return e.tree }

// Err returns the first error recorded by the builder.
func (e *Expression) Err() error { return e.err }

// Len returns the number of conditions at the top level.
func (e *Expression) Len() int { return e.tree.Len() }

// SetConjunction switches the top-level conjunction.
func (e *Expression) SetConjunction(c nodes.Conjunction) *Expression {
	e.tree.Conjunction = c
	return e
}

func (e *Expression) field(f any) nodes.Node {
	switch v := f.(type) {
	case string:
		return nodes.Ident(v)
	case nodes.Node:
		return v
	}
	e.fail(fmt.Errorf("%w: unsupported field of type %T", ErrParse, f))
	return nil
}

func (e *Expression) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *Expression) compare(field any, op string, value any, typ []string) *Expression {
	if e.err != nil {
		return e
	}
	f := e.field(field)
	if f == nil {
		return e
	}
	n, err := e.parser.Compare(f, op, value, first(typ))
	if err != nil {
		e.fail(err)
		return e
	}
	e.tree.Add(n)
	return e
}

func first(s []string) string {
	if len(s) > 0 {
		return s[0]
	}
	return ""
}

// Eq adds field = value.
func (e *Expression) Eq(field, value any, typ ...string) *Expression {
	return e.compare(field, "=", value, typ)
}

// NotEq adds field != value.
func (e *Expression) NotEq(field, value any, typ ...string) *Expression {
	return e.compare(field, "!=", value, typ)
}

// Gt adds field > value.
func (e *Expression) Gt(field, value any, typ ...string) *Expression {
	return e.compare(field, ">", value, typ)
}

// Gte adds field >= value.
func (e *Expression) Gte(field, value any, typ ...string) *Expression {
	return e.compare(field, ">=", value, typ)
}

// Lt adds field < value.
func (e *Expression) Lt(field, value any, typ ...string) *Expression {
	return e.compare(field, "<", value, typ)
}

// Lte adds field <= value.
func (e *Expression) Lte(field, value any, typ ...string) *Expression {
	return e.compare(field, "<=", value, typ)
}

// Like adds field LIKE value.
func (e *Expression) Like(field, value any, typ ...string) *Expression {
	return e.compare(field, "LIKE", value, typ)
}

// NotLike adds field NOT LIKE value.
func (e *Expression) NotLike(field, value any, typ ...string) *Expression {
	return e.compare(field, "NOT LIKE", value, typ)
}

// IsNull adds field IS NULL.
func (e *Expression) IsNull(field any) *Expression {
	return e.compare(field, "IS", nil, nil)
}

// IsNotNull adds field IS NOT NULL.
func (e *Expression) IsNotNull(field any) *Expression {
	return e.compare(field, "IS NOT", nil, nil)
}

// In adds field IN (values...). values is a slice or a sub-query.
func (e *Expression) In(field, values any, typ ...string) *Expression {
	return e.compare(field, "IN", values, typ)
}

// NotIn adds field NOT IN (values...).
func (e *Expression) NotIn(field, values any, typ ...string) *Expression {
	return e.compare(field, "NOT IN", values, typ)
}

// Between adds field BETWEEN from AND to.
func (e *Expression) Between(field, from, to any, typ ...string) *Expression {
	if e.err != nil {
		return e
	}
	f := e.field(field)
	if f == nil {
		return e
	}
	t := e.parser.TypeOf(fieldName(f), first(typ))
	e.tree.Add(nodes.NewBetweenNode(f, bindValue(from, t), bindValue(to, t)))
	return e
}

// Exists adds EXISTS (query).
func (e *Expression) Exists(query nodes.Node) *Expression {
	e.tree.Add(nodes.Exists(query))
	return e
}

// NotExists adds NOT EXISTS (query).
func (e *Expression) NotExists(query nodes.Node) *Expression {
	e.tree.Add(nodes.NotExists(query))
	return e
}

// Add parses conditions and appends them to this level.
func (e *Expression) Add(conds any) *Expression {
	if e.err != nil {
		return e
	}
	if err := e.parser.add(e.tree, conds); err != nil {
		e.fail(err)
	}
	return e
}

// And appends a nested AND group built from conds.
func (e *Expression) And(conds any) *Expression {
	return e.group(nodes.ConjAnd, conds, false)
}

// Or appends a nested OR group built from conds.
func (e *Expression) Or(conds any) *Expression {
	return e.group(nodes.ConjOr, conds, false)
}

// Not appends the negation of the AND group built from conds.
func (e *Expression) Not(conds any) *Expression {
	return e.group(nodes.ConjAnd, conds, true)
}

func (e *Expression) group(conj nodes.Conjunction, conds any, negate bool) *Expression {
	if e.err != nil {
		return e
	}
	tree, err := e.parser.Parse(conj, conds)
	if err != nil {
		e.fail(err)
		return e
	}
	if tree.Len() == 0 {
		return e
	}
	if negate {
		e.tree.Add(tree.Not())
	} else {
		e.tree.Add(tree)
	}
	return e
}

// Case returns a new searched CASE expression. It is not added to the
// tree; use it as a value or inside another condition.
func (e *Expression) Case() *nodes.CaseNode {
	return nodes.NewCase()
}
