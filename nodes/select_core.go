package nodes

// LockMode represents row-level locking for SELECT queries.
type LockMode int

const (
	NoLock         LockMode = iota
	ForUpdate               // FOR UPDATE
	ForShare                // FOR SHARE
	ForNoKeyUpdate          // FOR NO KEY UPDATE
	ForKeyShare             // FOR KEY SHARE
)

// String returns the SQL keyword for this lock mode.
func (m LockMode) String() string {
	switch m {
	case ForUpdate:
		return "FOR UPDATE"
	case ForShare:
		return "FOR SHARE"
	case ForNoKeyUpdate:
		return "FOR NO KEY UPDATE"
	case ForKeyShare:
		return "FOR KEY SHARE"
	default:
		return ""
	}
}

// SetOpType represents the type of set operation.
type SetOpType int

const (
	Union SetOpType = iota
	UnionAll
	Intersect
	Except
)

// String returns the SQL keyword for this set operation type.
func (t SetOpType) String() string {
	switch t {
	case UnionAll:
		return "UNION ALL"
	case Intersect:
		return "INTERSECT"
	case Except:
		return "EXCEPT"
	default:
		return "UNION"
	}
}

// UnionPart is one query appended to a SELECT with UNION and friends.
type UnionPart struct {
	Type  SetOpType
	Query Node
}

// SelectCore represents the data container for a SELECT clause.
// The fluent API for building queries lives in the managers package.
type SelectCore struct {
	CTEs        []*CTENode // WITH clause
	Comment     string     // query comment /* ... */
	Modifiers   []Node     // rendered right after SELECT, in call order
	Distinct    bool
	DistinctOn  []Node // DISTINCT ON columns (PostgreSQL)
	Projections []Node
	Froms       []Node
	Joins       []*JoinNode
	Wheres      []Node
	Groups      []Node // GROUP BY expressions
	Havings     []Node // HAVING conditions
	Orders      []Node // OrderingNode values
	Limit       Node   // nil or integer SqlLiteral
	Offset      Node   // nil or integer SqlLiteral
	Unions      []UnionPart
	Lock        LockMode // FOR UPDATE/SHARE
	SkipLocked  bool     // SKIP LOCKED
	Epilog      Node     // raw trailing fragment
}

func (n *SelectCore) Accept(v Visitor) string { return v.VisitSelectCore(n) }
