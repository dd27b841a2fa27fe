// Package visitors provides SQL dialect generators that walk the AST.
package visitors

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bawdo/quarry/binder"
	"github.com/bawdo/quarry/internal/quoting"
	"github.com/bawdo/quarry/nodes"
)

// Operator SQL strings for InfixOp values.
var infixOpSQL = [...]string{
	nodes.OpPlus:       "+",
	nodes.OpMinus:      "-",
	nodes.OpMultiply:   "*",
	nodes.OpDivide:     "/",
	nodes.OpBitwiseAnd: "&",
	nodes.OpBitwiseOr:  "|",
	nodes.OpBitwiseXor: "^",
	nodes.OpShiftLeft:  "<<",
	nodes.OpShiftRight: ">>",
	nodes.OpConcat:     "||",
}

// needsParens returns true if the node should be wrapped in parentheses
// when used as a child of an infix expression.
func needsParens(n nodes.Node) bool {
	_, ok := n.(*nodes.InfixNode)
	return ok
}

// Operator SQL strings for ComparisonOp values.
var comparisonOpSQL = [...]string{
	nodes.OpEq:                "=",
	nodes.OpNotEq:             "!=",
	nodes.OpGt:                ">",
	nodes.OpGtEq:              ">=",
	nodes.OpLt:                "<",
	nodes.OpLtEq:              "<=",
	nodes.OpLike:              "LIKE",
	nodes.OpNotLike:           "NOT LIKE",
	nodes.OpRegexp:            "~",
	nodes.OpNotRegexp:         "!~",
	nodes.OpDistinctFrom:      "IS DISTINCT FROM",
	nodes.OpNotDistinctFrom:   "IS NOT DISTINCT FROM",
	nodes.OpCaseSensitiveEq:   "=",
	nodes.OpCaseInsensitiveEq: "=",
	nodes.OpContains:          "@>",
	nodes.OpOverlaps:          "&&",
	nodes.OpIs:                "=",
	nodes.OpIsNot:             "!=",
	nodes.OpILike:             "ILIKE",
	nodes.OpNotILike:          "NOT ILIKE",
	nodes.OpNotEqANSI:         "<>",
	nodes.OpCustom:            "",
}

// SQL keywords for LockMode values.
var lockModeSQL = [...]string{
	nodes.NoLock:         "",
	nodes.ForUpdate:      "FOR UPDATE",
	nodes.ForShare:       "FOR SHARE",
	nodes.ForNoKeyUpdate: "FOR NO KEY UPDATE",
	nodes.ForKeyShare:    "FOR KEY SHARE",
}

// Option configures a visitor at construction time.
type Option func(*baseVisitor)

// WithParams enables parameterized query mode. Parameterized mode is the
// default; the option exists for symmetry with WithoutParams.
func WithParams() Option {
	return func(b *baseVisitor) {
		b.parameterize = true
	}
}

// WithoutParams disables parameterized query mode.
//
// ⚠️ WARNING: Disables SQL injection protection. Only use for debugging or when
// you're certain all values are trusted. Production code should NEVER use this option.
//
// When disabled, literal values are interpolated directly into the SQL string
// with basic escaping only.
func WithoutParams() Option {
	return func(b *baseVisitor) {
		b.parameterize = false
	}
}

// WithBinder switches the visitor to named placeholders (":c0", ":c1", ...)
// registered in vb. The binding table then carries each value with its
// declared type, and Params() stays empty.
func WithBinder(vb *binder.ValueBinder) Option {
	return func(b *baseVisitor) {
		b.binder = vb
	}
}

// WithQuoting enables or disables automatic identifier quoting. Quoting is
// enabled by default.
func WithQuoting(on bool) Option {
	return func(b *baseVisitor) {
		b.autoQuote = on
	}
}

// WithAllowEmptyIn renders empty IN lists as 1=0 (and NOT IN as 1=1)
// instead of failing.
func WithAllowEmptyIn() Option {
	return func(b *baseVisitor) {
		b.allowEmptyIn = true
	}
}

// limitStyle selects how LIMIT / OFFSET are rendered.
type limitStyle int

const (
	limitStandard limitStyle = iota // LIMIT n OFFSET m
	limitMySQL                      // offset-only uses the maximum row count
	limitSQLite                     // offset-only uses LIMIT -1
	limitTop                        // TOP n / OFFSET ... FETCH NEXT
)

// returningStyle selects how RETURNING clauses are rendered.
type returningStyle int

const (
	returningStandard returningStyle = iota // RETURNING ...
	returningNone                           // not supported
	returningOutput                         // OUTPUT INSERTED.* / DELETED.*
)

// features describes what a dialect can render natively.
type features struct {
	tuples       bool // (a, b) IN ((1, 2))
	distinctOn   bool
	orderedUnion bool // wrap unioned queries in parentheses
	dmlJoins     bool // UPDATE/DELETE with JOIN
	dmlLimit     bool // UPDATE/DELETE with ORDER BY / LIMIT
	locks        bool // FOR UPDATE / FOR SHARE
	numericBools bool // render booleans as 1/0
	keyLocks     bool // FOR NO KEY UPDATE / FOR KEY SHARE
	ilike        bool // native ILIKE
	pgOperators  bool // @> and && containment operators
	limit        limitStyle
	returning    returningStyle
}

// baseVisitor implements the shared SQL generation logic used by all dialects.
// Dialect-specific visitors embed *baseVisitor and set the outer field to
// themselves, enabling correct virtual dispatch through the Visitor interface.
type baseVisitor struct {
	// outer is the concrete dialect visitor. All recursive Accept calls
	// go through outer so that dialect overrides are respected.
	outer nodes.Visitor

	name string

	// quoteIdent quotes a SQL identifier (table name, column name).
	quoteIdent func(string) string

	// autoQuote enables identifier quoting.
	autoQuote bool

	// parameterize enables bind-parameter mode.
	parameterize bool

	// params accumulates positional bind values when no binder is set.
	params []any

	// paramIndex tracks the next parameter number (1-based).
	paramIndex int

	// placeholder returns the bind placeholder for a given parameter index.
	placeholder func(int) string

	// binder receives named placeholders when set.
	binder *binder.ValueBinder

	allowEmptyIn bool

	features features

	// err holds the first error recorded during rendering.
	err error
}

func newBase(name string, quote func(string) string, placeholder func(int) string, f features) *baseVisitor {
	return &baseVisitor{
		name:         name,
		quoteIdent:   quote,
		autoQuote:    true,
		parameterize: true,
		placeholder:  placeholder,
		features:     f,
	}
}

// applyOptions applies functional options to the baseVisitor.
func (b *baseVisitor) applyOptions(opts []Option) {
	for _, o := range opts {
		o(b)
	}
}

// Name returns the dialect name.
func (b *baseVisitor) Name() string { return b.name }

// Placeholder returns the driver-native placeholder for the i-th (1-based)
// positional parameter.
func (b *baseVisitor) Placeholder(i int) string { return b.placeholder(i) }

// Binder returns the binder receiving named placeholders, or nil.
func (b *baseVisitor) Binder() *binder.ValueBinder { return b.binder }

// Params returns the collected bind parameters from the last SQL generation.
func (b *baseVisitor) Params() []any {
	return b.params
}

// Reset clears collected parameters and the recorded error for reuse.
func (b *baseVisitor) Reset() {
	b.params = nil
	b.paramIndex = 0
	b.err = nil
}

// Err returns the first error recorded since the last Reset.
func (b *baseVisitor) Err() error { return b.err }

// Fail records err unless an earlier error is already recorded.
func (b *baseVisitor) Fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

func (b *baseVisitor) unsupported(what string) {
	b.Fail(fmt.Errorf("%w: %s does not support %s", ErrUnsupported, b.name, what))
}

// quote quotes an identifier when auto-quoting is enabled.
func (b *baseVisitor) quote(s string) string {
	if !b.autoQuote {
		return s
	}
	return b.quoteIdent(s)
}

// paren renders n wrapped in parentheses. Sub-query builders wrap
// themselves.
func (b *baseVisitor) paren(n nodes.Node) string {
	if _, ok := n.(nodes.Subquery); ok {
		return n.Accept(b.outer)
	}
	return "(" + n.Accept(b.outer) + ")"
}

// bare renders n without enclosing parentheses.
func (b *baseVisitor) bare(n nodes.Node) string {
	if sq, ok := n.(nodes.Subquery); ok {
		return sq.Statement().Accept(b.outer)
	}
	return n.Accept(b.outer)
}

// relation renders a FROM / JOIN source.
func (b *baseVisitor) relation(n nodes.Node) string {
	if _, ok := n.(*nodes.SelectCore); ok {
		return b.paren(n)
	}
	return n.Accept(b.outer)
}

func (b *baseVisitor) VisitTable(n *nodes.Table) string {
	return b.quote(n.Name)
}

func (b *baseVisitor) VisitTableAlias(n *nodes.TableAlias) string {
	if tbl, ok := n.Relation.(*nodes.Table); ok {
		return b.quote(tbl.Name) + " AS " + b.quote(n.AliasName)
	}
	return b.paren(n.Relation) + " AS " + b.quote(n.AliasName)
}

func (b *baseVisitor) VisitAttribute(n *nodes.Attribute) string {
	if n.Relation == nil {
		return b.quote(n.Name)
	}
	return b.qualifierName(n.Relation) + "." + b.quote(n.Name)
}

// qualifierName returns the quoted name used to qualify a column reference.
func (b *baseVisitor) qualifierName(rel nodes.Node) string {
	return b.quote(nodes.RelationName(rel))
}

func (b *baseVisitor) VisitIdentifier(n *nodes.IdentifierNode) string {
	if !b.autoQuote {
		return n.Name
	}
	return quoting.Identifier(n.Name, b.quoteIdent)
}

func (b *baseVisitor) VisitLiteral(n *nodes.LiteralNode) string {
	return b.literalToSQL(n.Value, "")
}

// bind registers val and returns its placeholder.
func (b *baseVisitor) bind(val any, typ string) string {
	if b.binder != nil {
		return b.binder.Generate(val, typ)
	}
	b.paramIndex++
	b.params = append(b.params, val)
	return b.placeholder(b.paramIndex)
}

func (b *baseVisitor) literalToSQL(val any, typ string) string {
	// nil always renders as NULL keyword, never parameterized.
	if val == nil {
		return "NULL"
	}

	// In parameterize mode, emit a placeholder and collect the value.
	if b.parameterize {
		return b.bind(val, typ)
	}
	return b.inline(val)
}

// inline renders val as SQL text. Used only when parameters are disabled.
func (b *baseVisitor) inline(val any) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + quoting.EscapeString(v) + "'"
	case []byte:
		return "'" + quoting.EscapeString(string(v)) + "'"
	case bool:
		switch {
		case b.features.numericBools && v:
			return "1"
		case b.features.numericBools:
			return "0"
		case v:
			return "TRUE"
		default:
			return "FALSE"
		}
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return fmt.Sprintf("%g", v)
	case float64:
		return fmt.Sprintf("%g", v)
	case time.Time:
		return "'" + v.Format(time.DateTime) + "'"
	case fmt.Stringer:
		return "'" + quoting.EscapeString(v.String()) + "'"
	default:
		b.Fail(fmt.Errorf("%w: literal of type %T", ErrUnsupported, v))
		return "NULL"
	}
}

// value renders a bound value. Unlike literals, nil is bound rather than
// rendered as NULL so that the binding table keeps one entry per value.
func (b *baseVisitor) value(val any, typ string) string {
	if b.parameterize {
		return b.bind(val, typ)
	}
	return b.inline(val)
}

func (b *baseVisitor) VisitStar(n *nodes.StarNode) string {
	if n.Table != nil {
		return b.quote(n.Table.Name) + ".*"
	}
	return "*"
}

func (b *baseVisitor) VisitSqlLiteral(n *nodes.SqlLiteral) string {
	if !b.parameterize || len(n.Binds) == 0 {
		return n.Raw
	}
	if b.binder == nil {
		b.params = append(b.params, n.Binds...)
		b.paramIndex += len(n.Binds)
		return n.Raw
	}
	// Named mode: each ? in the fragment becomes a generated placeholder.
	var sb strings.Builder
	i := 0
	for _, r := range n.Raw {
		if r == '?' && i < len(n.Binds) {
			sb.WriteString(b.binder.Generate(n.Binds[i], ""))
			i++
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (b *baseVisitor) VisitBindParam(n *nodes.BindParamNode) string {
	return b.value(n.Value, n.TypeName)
}

func (b *baseVisitor) VisitCasted(n *nodes.CastedNode) string {
	valSQL := b.value(n.Value, n.TypeName)
	if n.TypeName != "" {
		if err := validateSQLTypeName(n.TypeName); err != nil {
			b.Fail(err)
			return valSQL
		}
		return "CAST(" + valSQL + " AS " + n.TypeName + ")"
	}
	return valSQL
}

func (b *baseVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	left := n.Left.Accept(b.outer)
	null := nodes.IsNull(n.Right)
	switch n.Op {
	case nodes.OpIs:
		if null {
			return left + " IS NULL"
		}
	case nodes.OpIsNot:
		if null {
			return left + " IS NOT NULL"
		}
	case nodes.OpDistinctFrom, nodes.OpNotDistinctFrom:
	default:
		if null {
			b.Fail(fmt.Errorf("expression %s is %w", left, ErrNullComparison))
			return left + " = NULL"
		}
	}
	right := b.operand(n.Right)
	switch n.Op {
	case nodes.OpCaseInsensitiveEq:
		return "LOWER(" + left + ") = LOWER(" + right + ")"
	case nodes.OpILike, nodes.OpNotILike:
		if !b.features.ilike {
			like := " LIKE "
			if n.Op == nodes.OpNotILike {
				like = " NOT LIKE "
			}
			return "LOWER(" + left + ")" + like + "LOWER(" + right + ")"
		}
	case nodes.OpContains, nodes.OpOverlaps:
		if !b.features.pgOperators {
			b.unsupported("operator " + comparisonOpSQL[n.Op])
		}
	}
	op := comparisonOpSQL[n.Op]
	if n.Op == nodes.OpCustom {
		if err := validateSQLOperator(n.Raw); err != nil {
			b.Fail(err)
		}
		op = strings.ToUpper(strings.TrimSpace(n.Raw))
	}
	return left + " " + op + " " + right
}

// operand renders the right-hand side of a predicate.
func (b *baseVisitor) operand(n nodes.Node) string {
	if _, ok := n.(*nodes.SelectCore); ok {
		return b.paren(n)
	}
	return n.Accept(b.outer)
}

func (b *baseVisitor) VisitUnary(n *nodes.UnaryNode) string {
	return n.Expr.Accept(b.outer) + " " + n.Op.String()
}

func (b *baseVisitor) VisitAnd(n *nodes.AndNode) string {
	left := n.Left.Accept(b.outer)
	right := n.Right.Accept(b.outer)
	return left + " AND " + right
}

func (b *baseVisitor) VisitOr(n *nodes.OrNode) string {
	left := n.Left.Accept(b.outer)
	right := n.Right.Accept(b.outer)
	return left + " OR " + right
}

func (b *baseVisitor) VisitNot(n *nodes.NotNode) string {
	if tree, ok := n.Expr.(*nodes.ExpressionTree); ok {
		parts := b.treeParts(tree)
		if len(parts) == 0 {
			return ""
		}
		return "NOT (" + strings.Join(parts, " "+tree.Conjunction.String()+" ") + ")"
	}
	inner := n.Expr.Accept(b.outer)
	if inner == "" {
		return ""
	}
	return "NOT (" + inner + ")"
}

func (b *baseVisitor) VisitExpressionTree(n *nodes.ExpressionTree) string {
	parts := b.treeParts(n)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return "(" + strings.Join(parts, " "+n.Conjunction.String()+" ") + ")"
}

// treeParts renders the children of a tree, dropping empty ones.
func (b *baseVisitor) treeParts(n *nodes.ExpressionTree) []string {
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		if s := c.Accept(b.outer); s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

func (b *baseVisitor) VisitIn(n *nodes.InNode) string {
	expr := n.Expr.Accept(b.outer)
	keyword := "IN"
	if n.Negate {
		keyword = "NOT IN"
	}
	if n.Query != nil {
		return expr + " " + keyword + " " + b.paren(n.Query)
	}
	if len(n.Vals) == 0 {
		if !n.AllowEmpty && !b.allowEmptyIn {
			b.Fail(fmt.Errorf("%w for field (%s)", ErrEmptyList, expr))
		}
		if n.Negate {
			return "1=1"
		}
		return "1=0"
	}
	vals := make([]string, len(n.Vals))
	for i, v := range n.Vals {
		vals[i] = v.Accept(b.outer)
	}
	return expr + " " + keyword + " (" + strings.Join(vals, ", ") + ")"
}

func (b *baseVisitor) VisitBetween(n *nodes.BetweenNode) string {
	expr := n.Expr.Accept(b.outer)
	low := b.operand(n.Low)
	high := b.operand(n.High)
	keyword := "BETWEEN"
	if n.Negate {
		keyword = "NOT BETWEEN"
	}
	return expr + " " + keyword + " " + low + " AND " + high
}

func (b *baseVisitor) VisitTuple(n *nodes.TupleComparisonNode) string {
	fields := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		fields[i] = f.Accept(b.outer)
	}
	op := strings.ToUpper(strings.TrimSpace(n.Op))
	if op == "" {
		op = "IN"
	}
	if op != "=" && op != "IN" && op != "NOT IN" {
		b.Fail(fmt.Errorf("%w: tuple operator %q", ErrUnsupported, n.Op))
	}
	head := "(" + strings.Join(fields, ", ") + ")"
	if n.Query != nil {
		if !b.features.tuples {
			b.unsupported("tuple comparison against a sub-query")
		}
		return head + " " + op + " " + b.paren(n.Query)
	}
	if len(n.Values) == 0 {
		b.Fail(fmt.Errorf("%w for field (%s)", ErrEmptyList, head))
		return "1=0"
	}
	if op == "=" && len(n.Values) != 1 {
		b.Fail(fmt.Errorf("%w: tuple equality needs exactly one row", ErrUnsupported))
	}

	if b.features.tuples {
		rows := make([]string, len(n.Values))
		for i, row := range n.Values {
			rows[i] = b.tupleRow(row)
		}
		if op == "=" {
			return head + " = " + rows[0]
		}
		return head + " " + op + " (" + strings.Join(rows, ", ") + ")"
	}

	// Expand into AND groups joined by OR, binding values in row order.
	groups := make([]string, len(n.Values))
	for i, row := range n.Values {
		parts := make([]string, len(row))
		for j, v := range row {
			field := ""
			if j < len(fields) {
				field = fields[j]
			}
			parts[j] = field + " = " + v.Accept(b.outer)
		}
		groups[i] = "(" + strings.Join(parts, " AND ") + ")"
	}
	joined := strings.Join(groups, " OR ")
	switch {
	case op == "NOT IN":
		return "NOT (" + joined + ")"
	case len(groups) == 1:
		return joined
	default:
		return "(" + joined + ")"
	}
}

func (b *baseVisitor) tupleRow(row []nodes.Node) string {
	vals := make([]string, len(row))
	for i, v := range row {
		vals[i] = v.Accept(b.outer)
	}
	return "(" + strings.Join(vals, ", ") + ")"
}

func (b *baseVisitor) VisitGrouping(n *nodes.GroupingNode) string {
	return "(" + n.Expr.Accept(b.outer) + ")"
}

func (b *baseVisitor) VisitInfix(n *nodes.InfixNode) string {
	left := n.Left.Accept(b.outer)
	if needsParens(n.Left) {
		left = "(" + left + ")"
	}
	right := n.Right.Accept(b.outer)
	if needsParens(n.Right) {
		right = "(" + right + ")"
	}
	return left + " " + infixOpSQL[n.Op] + " " + right
}

func (b *baseVisitor) VisitOrdering(n *nodes.OrderingNode) string {
	expr := n.Expr.Accept(b.outer)
	if n.Direction == nodes.Desc {
		expr += " DESC"
	} else {
		expr += " ASC"
	}
	switch n.Nulls {
	case nodes.NullsFirst:
		expr += " NULLS FIRST"
	case nodes.NullsLast:
		expr += " NULLS LAST"
	}
	return expr
}

func (b *baseVisitor) VisitJoin(n *nodes.JoinNode) string {
	// StringJoin: raw SQL fragment, output directly.
	if n.Type == nodes.StringJoin {
		return n.Right.Accept(b.outer)
	}

	var sb strings.Builder
	sb.WriteString(n.Type.String())
	if n.Lateral {
		sb.WriteString(" LATERAL")
	}
	sb.WriteString(" ")
	sb.WriteString(b.relation(n.Right))

	if n.On != nil {
		if on := n.On.Accept(b.outer); on != "" {
			sb.WriteString(" ON ")
			sb.WriteString(on)
		}
	} else if n.Type != nodes.CrossJoin {
		sb.WriteString(" ON 1 = 1")
	}

	return sb.String()
}

func (b *baseVisitor) VisitAssignment(n *nodes.AssignmentNode) string {
	left := n.Left.Accept(b.outer)
	right := b.operand(n.Right)
	return left + " = " + right
}

func (b *baseVisitor) VisitOnConflict(n *nodes.OnConflictNode) string {
	var sb strings.Builder
	sb.WriteString("ON CONFLICT")
	if len(n.Columns) > 0 {
		sb.WriteString(" (")
		sb.WriteString(b.columnList(n.Columns))
		sb.WriteString(")")
	}
	if n.Action == nodes.DoNothing {
		sb.WriteString(" DO NOTHING")
	} else {
		sb.WriteString(" DO UPDATE SET ")
		sb.WriteString(b.assignments(n.Assignments))
		b.writeConditions(&sb, " WHERE ", n.Wheres)
	}
	return sb.String()
}

func (b *baseVisitor) VisitFunction(n *nodes.FunctionNode) string {
	if err := validateSQLFunctionName(n.Name); err != nil {
		b.Fail(err)
	}
	var sb strings.Builder
	// Special case: CAST(expr AS type)
	if strings.EqualFold(n.Name, "CAST") && len(n.Args) == 2 {
		sb.WriteString("CAST(")
		sb.WriteString(b.operand(n.Args[0]))
		sb.WriteString(" AS ")
		sb.WriteString(n.Args[1].Accept(b.outer))
		sb.WriteString(")")
		return sb.String()
	}
	sb.WriteString(n.Name)
	sb.WriteString("(")
	if n.Distinct {
		sb.WriteString("DISTINCT ")
	}
	for i, arg := range n.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.operand(arg))
	}
	sb.WriteString(")")
	return sb.String()
}

func (b *baseVisitor) VisitCase(n *nodes.CaseNode) string {
	var sb strings.Builder
	sb.WriteString("CASE")
	if n.Operand != nil {
		sb.WriteString(" ")
		sb.WriteString(n.Operand.Accept(b.outer))
	}
	for _, w := range n.Whens {
		sb.WriteString(" WHEN ")
		sb.WriteString(w.Condition.Accept(b.outer))
		sb.WriteString(" THEN ")
		sb.WriteString(w.Result.Accept(b.outer))
	}
	if n.ElseVal != nil {
		sb.WriteString(" ELSE ")
		sb.WriteString(n.ElseVal.Accept(b.outer))
	}
	sb.WriteString(" END")
	return sb.String()
}

func (b *baseVisitor) VisitExists(n *nodes.ExistsNode) string {
	var sb strings.Builder
	if n.Negated {
		sb.WriteString("NOT ")
	}
	sb.WriteString("EXISTS ")
	sb.WriteString(b.paren(n.Subquery))
	return sb.String()
}

func (b *baseVisitor) VisitCTE(n *nodes.CTENode) string {
	var sb strings.Builder
	sb.WriteString(b.quote(n.Name))
	if len(n.Columns) > 0 {
		sb.WriteString(" (")
		quoted := make([]string, len(n.Columns))
		for i, c := range n.Columns {
			quoted[i] = b.quote(c)
		}
		sb.WriteString(strings.Join(quoted, ", "))
		sb.WriteString(")")
	}
	sb.WriteString(" AS (")
	sb.WriteString(b.bare(n.Query))
	sb.WriteString(")")
	return sb.String()
}

func (b *baseVisitor) VisitAlias(n *nodes.AliasNode) string {
	return b.operand(n.Expr) + " AS " + b.quote(n.Name)
}

// validateSQLTypeName rejects type names containing characters outside
// the set of letters, digits, spaces, parentheses, commas and underscores.
func validateSQLTypeName(name string) error {
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') &&
			(c < '0' || c > '9') && c != ' ' && c != '(' &&
			c != ')' && c != ',' && c != '_' {
			return fmt.Errorf("%w: type name character %q in %q", ErrInvalidName, string(c), name)
		}
	}
	return nil
}

// validateSQLFunctionName rejects function names containing characters
// outside the set of letters, digits, underscores and dots.
func validateSQLFunctionName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty function name", ErrInvalidName)
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') &&
			(c < '0' || c > '9') && c != '_' && c != '.' {
			return fmt.Errorf("%w: function name character %q in %q", ErrInvalidName, string(c), name)
		}
	}
	return nil
}

// validateSQLOperator accepts symbolic operators and keyword operators
// made of letters and spaces.
func validateSQLOperator(op string) error {
	op = strings.TrimSpace(op)
	if op == "" {
		return fmt.Errorf("%w: empty operator", ErrInvalidName)
	}
	for _, c := range op {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && c != ' ' &&
			!strings.ContainsRune("<>=!~@&|#%^*+-/?", c) {
			return fmt.Errorf("%w: operator character %q in %q", ErrInvalidName, string(c), op)
		}
	}
	return nil
}
