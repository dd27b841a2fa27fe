// Package policy provides a Transformer that enforces row-level access
// rules by injecting policy-derived WHERE conditions.
//
// A [Func] is called once per table referenced by the statement (FROM or
// UPDATE/DELETE target, and every JOIN). It returns zero or more
// conditions to append to the WHERE clause. An error rejects the whole
// statement, which is how hard "access denied" rules are expressed.
//
//	p := policy.New(func(ref plugins.TableRef) ([]nodes.Node, error) {
//	    if ref.Name == "secrets" {
//	        return nil, policy.ErrDenied
//	    }
//	    return []nodes.Node{nodes.NewAttribute(ref.Relation, "tenant_id").Eq(42)}, nil
//	})
//	m.Use(p)
//	// SELECT * FROM "users" WHERE "users"."tenant_id" = :c0
//
// The common tenant case is covered by [Scope]:
//
//	m.Use(policy.Scope("tenant_id", 42, policy.Deny("secrets")))
//
// INSERT statements are left untouched.
package policy

import (
	"errors"
	"fmt"

	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/plugins"
)

// ErrDenied rejects a statement touching a forbidden table.
var ErrDenied = errors.New("access denied")

// Func evaluates the policy for one referenced table.
type Func func(ref plugins.TableRef) ([]nodes.Node, error)

// Policy is a Transformer applying a Func to every referenced table.
type Policy struct {
	plugins.BaseTransformer
	eval Func
}

// New creates a policy transformer from fn.
func New(fn Func) *Policy {
	return &Policy{eval: fn}
}

// Option configures a Scope policy.
type Option func(*scope)

type scope struct {
	column string
	value  any
	tables map[string]bool // nil means every table
	denied map[string]bool
}

// OnTables restricts the scope condition to the named tables.
func OnTables(names ...string) Option {
	return func(s *scope) {
		s.tables = make(map[string]bool, len(names))
		for _, n := range names {
			s.tables[n] = true
		}
	}
}

// Deny rejects any statement referencing one of the named tables.
func Deny(names ...string) Option {
	return func(s *scope) {
		if s.denied == nil {
			s.denied = make(map[string]bool, len(names))
		}
		for _, n := range names {
			s.denied[n] = true
		}
	}
}

// Scope returns a policy adding "column = value" for each matching table.
func Scope(column string, value any, opts ...Option) *Policy {
	s := &scope{column: column, value: value}
	for _, o := range opts {
		o(s)
	}
	return New(s.eval)
}

func (s *scope) eval(ref plugins.TableRef) ([]nodes.Node, error) {
	if s.denied[ref.Name] {
		return nil, fmt.Errorf("%w: table %q", ErrDenied, ref.Name)
	}
	if s.column == "" || (s.tables != nil && !s.tables[ref.Name]) {
		return nil, nil
	}
	return []nodes.Node{nodes.NewAttribute(ref.Relation, s.column).Eq(s.value)}, nil
}

// TransformSelect applies the policy to every FROM and JOIN table.
func (p *Policy) TransformSelect(core *nodes.SelectCore) (*nodes.SelectCore, error) {
	conds, err := p.conditions(plugins.CollectTables(core))
	if err != nil {
		return nil, err
	}
	core.Wheres = append(core.Wheres, conds...)
	return core, nil
}

// TransformUpdate applies the policy to the UPDATE target and its joins.
func (p *Policy) TransformUpdate(stmt *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	conds, err := p.conditions(plugins.CollectTarget(stmt.Table, stmt.Joins))
	if err != nil {
		return nil, err
	}
	stmt.Wheres = append(stmt.Wheres, conds...)
	return stmt, nil
}

// TransformDelete applies the policy to the DELETE target and its joins.
func (p *Policy) TransformDelete(stmt *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	conds, err := p.conditions(plugins.CollectTarget(stmt.From, stmt.Joins))
	if err != nil {
		return nil, err
	}
	stmt.Wheres = append(stmt.Wheres, conds...)
	return stmt, nil
}

func (p *Policy) conditions(refs []plugins.TableRef) ([]nodes.Node, error) {
	var out []nodes.Node
	for _, ref := range refs {
		conds, err := p.eval(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, conds...)
	}
	return out, nil
}
