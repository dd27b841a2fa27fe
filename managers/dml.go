package managers

import (
	"fmt"
	"strings"

	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/visitors"
)

// dialectName returns the name of v when it is a dialect visitor.
func dialectName(v nodes.Visitor) string {
	if d, ok := v.(interface{ Name() string }); ok {
		return d.Name()
	}
	return ""
}

// aliasStripper rewrites UPDATE and DELETE statements so conditions refer
// to the target table without a qualifier. The target alias is dropped
// as well: "UPDATE articles a ... WHERE a.id = 1" becomes
// "UPDATE articles ... WHERE id = 1".
//
// Nested queries and raw SQL are not rewritten. When they refer to the
// alias, PostgreSQL and SQLite keep it ("UPDATE articles AS a") and only
// SET targets and table-name qualifiers are stripped; other dialects fail.
type aliasStripper struct {
	qualifiers map[string]bool
	keepAlias  bool
	columns    *aliasStripper // strips SET targets when the alias is kept
}

// newAliasStripper returns nil when nothing needs stripping. Statements
// with joins keep their aliases on MySQL, which supports the multi-table
// form, and fail on every other dialect. parts are the clauses that will
// be rewritten.
func newAliasStripper(dialect string, target nodes.Node, joins []*nodes.JoinNode, parts ...[]nodes.Node) (*aliasStripper, error) {
	alias, isAlias := target.(*nodes.TableAlias)
	if len(joins) > 0 {
		if isAlias && dialect != visitors.MySQL {
			return nil, fmt.Errorf("%w: alias %q on %s", ErrAliasStripping, alias.AliasName, nodes.TableSourceName(target))
		}
		return nil, nil
	}
	full := &aliasStripper{qualifiers: make(map[string]bool)}
	if name := nodes.RelationName(target); name != "" {
		full.qualifiers[name] = true
	}
	if name := nodes.TableSourceName(target); name != "" {
		full.qualifiers[name] = true
	}
	if !isAlias || !referencesAlias(alias.AliasName, parts...) {
		return full, nil
	}
	switch dialect {
	case visitors.Postgres, visitors.SQLite:
	default:
		return nil, fmt.Errorf("%w: alias %q is used by a nested query or raw SQL", ErrAliasStripping, alias.AliasName)
	}
	s := &aliasStripper{qualifiers: make(map[string]bool), keepAlias: true, columns: full}
	if name := nodes.TableSourceName(target); name != "" && name != alias.AliasName {
		s.qualifiers[name] = true
	}
	return s, nil
}

// target drops the alias from an aliased table.
func (s *aliasStripper) target(n nodes.Node) nodes.Node {
	if s.keepAlias {
		return n
	}
	if a, ok := n.(*nodes.TableAlias); ok {
		if t, ok := a.Relation.(*nodes.Table); ok {
			return t
		}
	}
	return n
}

// column rewrites the left side of a SET assignment, which never carries a
// qualifier.
func (s *aliasStripper) column(n nodes.Node) nodes.Node {
	if s.columns != nil {
		return s.columns.node(n)
	}
	return s.node(n)
}

// referencesAlias reports whether alias appears where stripping cannot
// reach it: inside nested queries or in raw SQL fragments.
func referencesAlias(alias string, parts ...[]nodes.Node) bool {
	scan := aliasScan{alias: alias}
	for _, part := range parts {
		for _, n := range part {
			scan.walk(n, false)
		}
	}
	return scan.found
}

type aliasScan struct {
	alias string
	found bool
}

func (a *aliasScan) walk(n nodes.Node, nested bool) {
	if n == nil || a.found {
		return
	}
	nodes.Rewrite(n, func(x nodes.Node) (nodes.Node, bool) {
		if a.found {
			return x, true
		}
		switch v := x.(type) {
		case *nodes.SqlLiteral:
			a.found = mentionsQualifier(v.Raw, a.alias)
			return x, true
		case *nodes.Attribute:
			if nested && v.Relation != nil && nodes.RelationName(v.Relation) == a.alias {
				a.found = true
			}
		case *nodes.IdentifierNode:
			if nested && strings.HasPrefix(v.Name, a.alias+".") {
				a.found = true
			}
		case *nodes.StarNode:
			if nested && v.Table != nil && v.Table.Name == a.alias {
				a.found = true
			}
		case *nodes.SelectCore:
			if !nested {
				a.walk(v, true)
				return x, true
			}
		case *SelectManager:
			a.walk(v.Core, true)
			return x, true
		}
		return nil, false
	})
}

// mentionsQualifier reports whether raw contains name used as a qualifier,
// bare or quoted: a.id, "a".id, `a`.id or [a].id.
func mentionsQualifier(raw, name string) bool {
	for _, q := range []string{name + ".", `"` + name + `".`, "`" + name + "`.", "[" + name + "]."} {
		for i := 0; i < len(raw); {
			j := strings.Index(raw[i:], q)
			if j < 0 {
				break
			}
			j += i
			if j == 0 || !isIdentByte(raw[j-1]) {
				return true
			}
			i = j + 1
		}
	}
	return false
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (s *aliasStripper) rewrite(n nodes.Node) (nodes.Node, bool) {
	switch v := n.(type) {
	case *nodes.Attribute:
		if v.Relation != nil && s.qualifiers[nodes.RelationName(v.Relation)] {
			return nodes.NewAttribute(nil, v.Name).Typed(v.TypeName), true
		}
	case *nodes.IdentifierNode:
		if i := strings.IndexByte(v.Name, '.'); i > 0 && s.qualifiers[v.Name[:i]] {
			return nodes.NewIdentifier(v.Name[i+1:]).Typed(v.TypeName), true
		}
	case *nodes.SelectCore:
		// Nested queries keep their own qualifiers.
		return v, true
	}
	return nil, false
}

func (s *aliasStripper) list(ns []nodes.Node) []nodes.Node {
	out := make([]nodes.Node, len(ns))
	for i, n := range ns {
		out[i] = nodes.Rewrite(n, s.rewrite)
	}
	return out
}

func (s *aliasStripper) node(n nodes.Node) nodes.Node {
	if n == nil {
		return nil
	}
	return nodes.Rewrite(n, s.rewrite)
}

// valueNode wraps a value written by INSERT or UPDATE. Nodes are used
// as-is; everything else, nil included, is bound with typ.
func valueNode(v any, typ string) nodes.Node {
	if n, ok := v.(nodes.Node); ok {
		return n
	}
	return nodes.NewBindParam(v, typ)
}

// columnName returns the bare column name of a field argument.
func columnName(n nodes.Node) string {
	switch f := n.(type) {
	case *nodes.Attribute:
		return f.Name
	case *nodes.IdentifierNode:
		return f.Name
	}
	return ""
}
