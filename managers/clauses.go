package managers

import (
	"github.com/bawdo/quarry/conditions"
	"github.com/bawdo/quarry/nodes"
)

// Condition helpers shared by the managers that carry a WHERE clause.
// Each takes the clause list and returns it updated.

func whereNull(tm *treeManager, list []nodes.Node, f any, not bool) []nodes.Node {
	n, err := field(f)
	if err != nil {
		tm.fail(err)
		return list
	}
	op := "IS"
	if not {
		op = "IS NOT"
	}
	cond, err := conditions.NewParser(tm.typeMap, nil).Compare(n, op, nil, "")
	if err != nil {
		tm.fail(err)
		return list
	}
	tm.addConditions(&list, []any{cond}, nil)
	return list
}

func whereInList(tm *treeManager, list []nodes.Node, f string, values any, allowEmpty bool) []nodes.Node {
	values = listOrEmpty(values)
	if allowEmpty && listLen(values) == 0 {
		tm.addConditions(&list, []any{"1=0"}, nil)
		return list
	}
	tm.addConditions(&list, []any{conditions.Cond{f + " IN": values}}, nil)
	return list
}

func whereNotInList(tm *treeManager, list []nodes.Node, f string, values any, allowEmpty bool) []nodes.Node {
	values = listOrEmpty(values)
	if allowEmpty && listLen(values) == 0 {
		tm.addConditions(&list, []any{"1=1"}, nil)
		return list
	}
	tm.addConditions(&list, []any{conditions.Cond{f + " NOT IN": values}}, nil)
	return list
}

func whereNotInListOrNull(tm *treeManager, list []nodes.Node, f string, values any, allowEmpty bool) []nodes.Node {
	values = listOrEmpty(values)
	if allowEmpty && listLen(values) == 0 {
		tm.addConditions(&list, []any{conditions.Cond{f + " IS NOT": nil}}, nil)
		return list
	}
	tm.addConditions(&list, []any{conditions.Pairs{{
		Key: "OR",
		Value: conditions.Pairs{
			{Key: f + " NOT IN", Value: values},
			{Key: f + " IS", Value: nil},
		},
	}}}, nil)
	return list
}

// listOrEmpty treats an untyped nil as an empty list, so it fails or
// renders like one instead of binding NULL.
func listOrEmpty(values any) any {
	if values == nil {
		return []any{}
	}
	return values
}

func appendRaw(tm *treeManager, list []nodes.Node, args []any) []nodes.Node {
	for _, a := range args {
		n, err := raw(a)
		if err != nil {
			tm.fail(err)
			return list
		}
		list = append(list, n)
	}
	tm.touch()
	return list
}

func epilog(tm *treeManager, fragment any) nodes.Node {
	tm.touch()
	if fragment == nil {
		return nil
	}
	n, err := raw(fragment)
	if err != nil {
		tm.fail(err)
		return nil
	}
	return n
}
