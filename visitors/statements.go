package visitors

import (
	"strings"

	"github.com/bawdo/quarry/nodes"
)

// mysqlMaxRows is the row count MySQL documents for "all remaining rows"
// when only an offset is given.
const mysqlMaxRows = "18446744073709551615"

func (b *baseVisitor) VisitSelectCore(n *nodes.SelectCore) string {
	var sb strings.Builder

	b.writeCTEs(&sb, n.CTEs)
	b.writeComment(&sb, n.Comment)
	sb.WriteString("SELECT ")
	b.writeModifiers(&sb, n.Modifiers)
	b.writeDistinct(&sb, n.Distinct, n.DistinctOn)
	if b.features.limit == limitTop && n.Limit != nil && n.Offset == nil {
		sb.WriteString("TOP (")
		sb.WriteString(n.Limit.Accept(b.outer))
		sb.WriteString(") ")
	}
	b.writeProjections(&sb, n.Projections)
	b.writeFroms(&sb, n.Froms)
	b.writeJoins(&sb, n.Joins)
	b.writeConditions(&sb, " WHERE ", n.Wheres)
	b.writeClause(&sb, " GROUP BY ", n.Groups, ", ")
	b.writeConditions(&sb, " HAVING ", n.Havings)
	b.writeClause(&sb, " ORDER BY ", n.Orders, ", ")
	b.writeLimit(&sb, n.Limit, n.Offset, len(n.Orders) > 0)
	b.writeUnions(&sb, n.Unions)
	b.writeLock(&sb, n.Lock, n.SkipLocked)
	b.writeEpilog(&sb, n.Epilog)

	return sb.String()
}

func (b *baseVisitor) VisitInsertStatement(n *nodes.InsertStatement) string {
	var sb strings.Builder

	b.writeCTEs(&sb, n.With)
	sb.WriteString("INSERT ")
	b.writeModifiers(&sb, n.Modifiers)
	sb.WriteString("INTO ")
	if n.Into != nil {
		sb.WriteString(n.Into.Accept(b.outer))
	}

	if len(n.Columns) > 0 {
		sb.WriteString(" (")
		sb.WriteString(b.columnList(n.Columns))
		sb.WriteString(")")
	}

	if b.features.returning == returningOutput {
		b.writeOutput(&sb, "INSERTED", n.Returning)
	}

	// INSERT FROM SELECT
	if n.Select != nil {
		sb.WriteString(" ")
		sb.WriteString(b.bare(n.Select))
	} else if len(n.Values) > 0 {
		sb.WriteString(" VALUES ")
		rows := make([]string, len(n.Values))
		for i, row := range n.Values {
			rows[i] = "(" + b.list(row, ", ") + ")"
		}
		sb.WriteString(strings.Join(rows, ", "))
	}

	if n.OnConflict != nil {
		sb.WriteString(" ")
		sb.WriteString(n.OnConflict.Accept(b.outer))
	}

	if b.features.returning != returningOutput {
		b.writeReturning(&sb, n.Returning)
	}
	b.writeEpilog(&sb, n.Epilog)

	return sb.String()
}

func (b *baseVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) string {
	var sb strings.Builder

	b.writeCTEs(&sb, n.With)
	sb.WriteString("UPDATE ")
	b.writeModifiers(&sb, n.Modifiers)
	if n.Table != nil {
		sb.WriteString(n.Table.Accept(b.outer))
	}
	if len(n.Joins) > 0 && !b.features.dmlJoins {
		b.unsupported("UPDATE with JOIN")
	}
	b.writeJoins(&sb, n.Joins)

	if len(n.Assignments) > 0 {
		sb.WriteString(" SET ")
		sb.WriteString(b.assignments(n.Assignments))
	}

	if b.features.returning == returningOutput {
		b.writeOutput(&sb, "INSERTED", n.Returning)
	}
	b.writeConditions(&sb, " WHERE ", n.Wheres)
	b.writeDMLTail(&sb, "UPDATE", n.Orders, n.Limit)
	if b.features.returning != returningOutput {
		b.writeReturning(&sb, n.Returning)
	}
	b.writeEpilog(&sb, n.Epilog)

	return sb.String()
}

func (b *baseVisitor) VisitDeleteStatement(n *nodes.DeleteStatement) string {
	var sb strings.Builder

	b.writeCTEs(&sb, n.With)
	sb.WriteString("DELETE ")
	b.writeModifiers(&sb, n.Modifiers)
	if len(n.Joins) > 0 {
		if !b.features.dmlJoins {
			b.unsupported("DELETE with JOIN")
		}
		// Multi-table form names the target before FROM.
		sb.WriteString(b.quote(nodes.RelationName(n.From)))
		sb.WriteString(" ")
	}
	sb.WriteString("FROM ")
	if n.From != nil {
		sb.WriteString(n.From.Accept(b.outer))
	}
	b.writeJoins(&sb, n.Joins)

	if b.features.returning == returningOutput {
		b.writeOutput(&sb, "DELETED", n.Returning)
	}
	b.writeConditions(&sb, " WHERE ", n.Wheres)
	b.writeDMLTail(&sb, "DELETE", n.Orders, n.Limit)
	if b.features.returning != returningOutput {
		b.writeReturning(&sb, n.Returning)
	}
	b.writeEpilog(&sb, n.Epilog)

	return sb.String()
}

func (b *baseVisitor) writeCTEs(sb *strings.Builder, ctes []*nodes.CTENode) {
	if len(ctes) == 0 {
		return
	}
	hasRecursive := false
	for _, cte := range ctes {
		if cte.Recursive {
			hasRecursive = true
			break
		}
	}
	if hasRecursive {
		sb.WriteString("WITH RECURSIVE ")
	} else {
		sb.WriteString("WITH ")
	}
	for i, cte := range ctes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(cte.Accept(b.outer))
	}
	sb.WriteString(" ")
}

func (b *baseVisitor) writeComment(sb *strings.Builder, comment string) {
	if comment != "" {
		sb.WriteString("/* ")
		sb.WriteString(strings.ReplaceAll(comment, "*/", "* /"))
		sb.WriteString(" */ ")
	}
}

func (b *baseVisitor) writeModifiers(sb *strings.Builder, mods []nodes.Node) {
	for _, m := range mods {
		if s := m.Accept(b.outer); s != "" {
			sb.WriteString(s)
			sb.WriteString(" ")
		}
	}
}

func (b *baseVisitor) writeDistinct(sb *strings.Builder, distinct bool, distinctOn []nodes.Node) {
	if len(distinctOn) > 0 {
		if !b.features.distinctOn {
			b.unsupported("DISTINCT ON")
		}
		sb.WriteString("DISTINCT ON (")
		sb.WriteString(b.list(distinctOn, ", "))
		sb.WriteString(") ")
	} else if distinct {
		sb.WriteString("DISTINCT ")
	}
}

func (b *baseVisitor) writeProjections(sb *strings.Builder, projections []nodes.Node) {
	if len(projections) == 0 {
		sb.WriteString("*")
		return
	}
	for i, p := range projections {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.operand(p))
	}
}

func (b *baseVisitor) writeFroms(sb *strings.Builder, froms []nodes.Node) {
	if len(froms) == 0 {
		return
	}
	sb.WriteString(" FROM ")
	for i, f := range froms {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.relation(f))
	}
}

func (b *baseVisitor) writeJoins(sb *strings.Builder, joins []*nodes.JoinNode) {
	for _, j := range joins {
		sb.WriteString(" ")
		sb.WriteString(j.Accept(b.outer))
	}
}

// writeClause renders a keyword followed by the joined list, skipping the
// clause entirely when the list is empty.
func (b *baseVisitor) writeClause(sb *strings.Builder, keyword string, items []nodes.Node, sep string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(keyword)
	sb.WriteString(b.list(items, sep))
}

// writeConditions ANDs the conditions together. Conditions rendering to
// the empty string (empty trees) are dropped, and the keyword with them.
func (b *baseVisitor) writeConditions(sb *strings.Builder, keyword string, conds []nodes.Node) {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		if s := c.Accept(b.outer); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return
	}
	sb.WriteString(keyword)
	sb.WriteString(strings.Join(parts, " AND "))
}

func (b *baseVisitor) writeLimit(sb *strings.Builder, limit, offset nodes.Node, ordered bool) {
	switch b.features.limit {
	case limitTop:
		if offset == nil {
			return
		}
		if !ordered {
			sb.WriteString(" ORDER BY (SELECT NULL)")
		}
		sb.WriteString(" OFFSET ")
		sb.WriteString(offset.Accept(b.outer))
		sb.WriteString(" ROWS")
		if limit != nil {
			sb.WriteString(" FETCH NEXT ")
			sb.WriteString(limit.Accept(b.outer))
			sb.WriteString(" ROWS ONLY")
		}
		return
	case limitMySQL:
		if limit == nil && offset != nil {
			sb.WriteString(" LIMIT " + mysqlMaxRows)
		}
	case limitSQLite:
		if limit == nil && offset != nil {
			sb.WriteString(" LIMIT -1")
		}
	}
	if limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(limit.Accept(b.outer))
	}
	if offset != nil {
		sb.WriteString(" OFFSET ")
		sb.WriteString(offset.Accept(b.outer))
	}
}

func (b *baseVisitor) writeUnions(sb *strings.Builder, unions []nodes.UnionPart) {
	for _, u := range unions {
		sb.WriteString(" ")
		sb.WriteString(u.Type.String())
		sb.WriteString(" ")
		if b.features.orderedUnion {
			sb.WriteString(b.paren(u.Query))
		} else {
			sb.WriteString(b.bare(u.Query))
		}
	}
}

func (b *baseVisitor) writeLock(sb *strings.Builder, lock nodes.LockMode, skipLocked bool) {
	if lock == nodes.NoLock {
		return
	}
	keyLock := lock == nodes.ForNoKeyUpdate || lock == nodes.ForKeyShare
	if !b.features.locks || (keyLock && !b.features.keyLocks) {
		b.unsupported(lock.String())
		return
	}
	sb.WriteString(" ")
	sb.WriteString(lockModeSQL[lock])
	if skipLocked {
		sb.WriteString(" SKIP LOCKED")
	}
}

func (b *baseVisitor) writeEpilog(sb *strings.Builder, epilog nodes.Node) {
	if epilog == nil {
		return
	}
	if s := epilog.Accept(b.outer); s != "" {
		sb.WriteString(" ")
		sb.WriteString(s)
	}
}

// writeDMLTail renders ORDER BY and LIMIT for UPDATE and DELETE.
func (b *baseVisitor) writeDMLTail(sb *strings.Builder, stmt string, orders []nodes.Node, limit nodes.Node) {
	if len(orders) == 0 && limit == nil {
		return
	}
	if !b.features.dmlLimit {
		b.unsupported(stmt + " with ORDER BY or LIMIT")
		return
	}
	b.writeClause(sb, " ORDER BY ", orders, ", ")
	if limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(limit.Accept(b.outer))
	}
}

func (b *baseVisitor) writeReturning(sb *strings.Builder, returning []nodes.Node) {
	if len(returning) == 0 {
		return
	}
	if b.features.returning == returningNone {
		b.unsupported("RETURNING")
		return
	}
	sb.WriteString(" RETURNING ")
	sb.WriteString(b.list(returning, ", "))
}

// writeOutput renders the SQL Server OUTPUT clause, qualifying every
// column with the INSERTED or DELETED pseudo table.
func (b *baseVisitor) writeOutput(sb *strings.Builder, pseudo string, returning []nodes.Node) {
	if len(returning) == 0 {
		return
	}
	cols := make([]string, len(returning))
	for i, r := range returning {
		switch c := r.(type) {
		case *nodes.Attribute:
			cols[i] = pseudo + "." + b.quote(c.Name)
		case *nodes.StarNode:
			cols[i] = pseudo + ".*"
		case *nodes.IdentifierNode:
			if c.Name == "*" {
				cols[i] = pseudo + ".*"
			} else {
				cols[i] = pseudo + "." + b.quote(c.Name)
			}
		default:
			cols[i] = r.Accept(b.outer)
		}
	}
	sb.WriteString(" OUTPUT ")
	sb.WriteString(strings.Join(cols, ", "))
}

// columnList renders INSERT and ON CONFLICT column lists unqualified.
func (b *baseVisitor) columnList(cols []nodes.Node) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		switch col := c.(type) {
		case *nodes.Attribute:
			out[i] = b.quote(col.Name)
		default:
			out[i] = c.Accept(b.outer)
		}
	}
	return strings.Join(out, ", ")
}

func (b *baseVisitor) assignments(as []*nodes.AssignmentNode) string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Accept(b.outer)
	}
	return strings.Join(out, ", ")
}

func (b *baseVisitor) list(items []nodes.Node, sep string) string {
	out := make([]string, len(items))
	for i, n := range items {
		out[i] = b.operand(n)
	}
	return strings.Join(out, sep)
}
