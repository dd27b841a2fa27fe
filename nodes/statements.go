package nodes

// OnConflictAction specifies the action for ON CONFLICT clauses.
type OnConflictAction int

const (
	DoNothing OnConflictAction = iota
	DoUpdate
)

// AssignmentNode represents a column = value pair in SET clauses.
type AssignmentNode struct {
	Left  Node // column (Attribute or IdentifierNode)
	Right Node // value
}

func (n *AssignmentNode) Accept(v Visitor) string { return v.VisitAssignment(n) }

// InsertStatement represents INSERT INTO ... VALUES / SELECT.
type InsertStatement struct {
	With       []*CTENode
	Modifiers  []Node          // e.g. IGNORE, rendered after INSERT
	Into       Node            // *Table
	Columns    []Node          // column list
	Values     [][]Node        // rows of values (multi-row)
	Select     Node            // for INSERT FROM SELECT (mutually exclusive with Values)
	OnConflict *OnConflictNode // ON CONFLICT clause
	Returning  []Node          // RETURNING columns
	Epilog     Node
}

func (n *InsertStatement) Accept(v Visitor) string { return v.VisitInsertStatement(n) }

// UpdateStatement represents UPDATE ... SET ... WHERE.
type UpdateStatement struct {
	With        []*CTENode
	Modifiers   []Node
	Table       Node
	Joins       []*JoinNode
	Assignments []*AssignmentNode
	Wheres      []Node
	Orders      []Node
	Limit       Node
	Returning   []Node
	Epilog      Node
}

func (n *UpdateStatement) Accept(v Visitor) string { return v.VisitUpdateStatement(n) }

// DeleteStatement represents DELETE FROM ... WHERE.
type DeleteStatement struct {
	With      []*CTENode
	Modifiers []Node
	From      Node
	Joins     []*JoinNode
	Wheres    []Node
	Orders    []Node
	Limit     Node
	Returning []Node
	Epilog    Node
}

func (n *DeleteStatement) Accept(v Visitor) string { return v.VisitDeleteStatement(n) }

// OnConflictNode represents ON CONFLICT (...) DO NOTHING / DO UPDATE SET ...
type OnConflictNode struct {
	Columns     []Node            // conflict target columns
	Action      OnConflictAction  // DoNothing or DoUpdate
	Assignments []*AssignmentNode // SET for DO UPDATE
	Wheres      []Node            // WHERE for DO UPDATE
}

func (n *OnConflictNode) Accept(v Visitor) string { return v.VisitOnConflict(n) }
