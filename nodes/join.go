package nodes

// JoinType selects the join keyword.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftOuterJoin
	RightOuterJoin
	FullOuterJoin
	CrossJoin
	StringJoin // Right is a raw fragment emitted as-is
)

// String returns the SQL keyword for t. StringJoin has none.
func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "INNER JOIN"
	case LeftOuterJoin:
		return "LEFT JOIN"
	case RightOuterJoin:
		return "RIGHT JOIN"
	case FullOuterJoin:
		return "FULL OUTER JOIN"
	case CrossJoin:
		return "CROSS JOIN"
	case StringJoin:
		return ""
	}
	return "JOIN"
}

// JoinNode is one JOIN clause of a SELECT, or of a MySQL multi-table
// UPDATE or DELETE. A nil On renders "ON 1 = 1" except for CROSS JOIN.
type JoinNode struct {
	Left    Node
	Right   Node // table, alias or sub-query
	Type    JoinType
	On      Node
	Lateral bool // PostgreSQL only
}

func (n *JoinNode) Accept(v Visitor) string { return v.VisitJoin(n) }
