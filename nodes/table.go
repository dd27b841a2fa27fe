package nodes

// Table names a table. Visitors quote the name when identifier quoting
// is on.
type Table struct {
	Name string
}

// NewTable returns a reference to name.
func NewTable(name string) *Table { return &Table{Name: name} }

func (t *Table) Accept(v Visitor) string { return v.VisitTable(t) }

// Col returns the column name qualified by this table.
func (t *Table) Col(name string) *Attribute { return NewAttribute(t, name) }

// Alias returns this table under alias name.
func (t *Table) Alias(name string) *TableAlias {
	return &TableAlias{Relation: t, AliasName: name}
}

// Star returns table.*.
func (t *Table) Star() *StarNode { return &StarNode{Table: t} }

// TableAlias is a relation under an alias: a table, or a sub-query used
// as a derived table. UPDATE and DELETE drop the alias of their target
// when it can be stripped safely.
type TableAlias struct {
	Relation  Node
	AliasName string
}

func (ta *TableAlias) Accept(v Visitor) string { return v.VisitTableAlias(ta) }

// Col returns the column name qualified by the alias.
func (ta *TableAlias) Col(name string) *Attribute { return NewAttribute(ta, name) }

// RelationName returns the name columns use to qualify themselves against
// n: the alias for a TableAlias, the table name for a Table, and "" for
// anything else.
func RelationName(n Node) string {
	switch r := n.(type) {
	case *Table:
		return r.Name
	case *TableAlias:
		return r.AliasName
	}
	return ""
}

// TableSourceName returns the table behind n, looking through an alias.
// An aliased sub-query has no table, so its alias is returned.
func TableSourceName(n Node) string {
	switch r := n.(type) {
	case *Table:
		return r.Name
	case *TableAlias:
		if tbl, ok := r.Relation.(*Table); ok {
			return tbl.Name
		}
		return r.AliasName
	}
	return ""
}
