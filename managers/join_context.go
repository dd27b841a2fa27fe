package managers

import "github.com/bawdo/quarry/nodes"

// JoinContext is returned by SelectManager.Join() and enforces that
// a join condition is provided via On() before continuing to build
// the query. This prevents incomplete JOINs in the AST.
type JoinContext struct {
	manager *SelectManager
	join    *nodes.JoinNode
}

// On sets the join condition and returns the SelectManager for
// continued method chaining. Conditions are parsed like Where; with none
// the join renders ON 1 = 1.
func (jc *JoinContext) On(conds ...any) *SelectManager {
	jc.join.On = joinCondition(&jc.manager.treeManager, conds)
	return jc.manager
}

// Lateral marks the join as LATERAL (PostgreSQL).
func (jc *JoinContext) Lateral() *JoinContext {
	jc.join.Lateral = true
	jc.manager.touch()
	return jc
}

func joinCondition(tm *treeManager, conds []any) nodes.Node {
	tree := tm.parseTree(conds)
	if tree.Len() == 0 {
		return nil
	}
	return tree
}
