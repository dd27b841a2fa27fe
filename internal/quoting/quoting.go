// Package quoting provides shared identifier quoting utilities.
package quoting

import (
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
)

// DoubleQuote quotes a SQL identifier using double quotes (PostgreSQL, SQLite, ANSI SQL).
// Internal double quotes are escaped by doubling them and NUL bytes are dropped.
func DoubleQuote(s string) string {
	return pgx.Identifier{s}.Sanitize()
}

// Backtick quotes a SQL identifier using backticks (MySQL).
// Internal backticks are escaped by doubling them.
func Backtick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// Bracket quotes a SQL identifier using square brackets (SQL Server).
// A closing bracket inside the name is escaped by doubling it.
func Bracket(s string) string {
	return "[" + strings.ReplaceAll(s, "]", "]]") + "]"
}

// EscapeString escapes a string literal for SQL by doubling single quotes
// and escaping backslashes (for MySQL compatibility).
//
// SECURITY: This escaping is intended for rendering without bind
// parameters only. MySQL with non-default character sets (GBK, SJIS) may
// have multi-byte sequences where a trailing byte coincides with backslash
// or quote; bound parameters avoid this class of attack entirely.
func EscapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", "''")
}

// EscapeLikePattern escapes LIKE wildcard characters (%, _) in a string
// so they are matched literally. The backslash is used as the escape character.
func EscapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

var (
	plainName     = regexp.MustCompile(`^[\w-]+$`)
	dottedName    = regexp.MustCompile(`^[\w-]+\.[^ *]*$`)
	qualifiedStar = regexp.MustCompile(`^([\w-]+)\.\*$`)
	functionCall  = regexp.MustCompile(`^([\w-]+)\((.*)\)$`)
	aliased       = regexp.MustCompile(`(?i)^([\w-]+(\.[\w\s-]+|\(.*\))*)\s+AS\s*([\w-]+)$`)
	nameWithType  = regexp.MustCompile(`^[\w-]+\.[\w-]+\s+[\w-]+$`)
)

// Identifier quotes the identifier parts of a free-form field string.
// It recognises bare names, dotted names, qualified stars, single-argument
// function calls and "expr AS alias" forms. Anything else is returned
// unchanged because its identifier boundaries cannot be found safely.
func Identifier(s string, quote func(string) string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == "*":
		return s
	case plainName.MatchString(s):
		return quote(s)
	case dottedName.MatchString(s):
		parts := strings.Split(s, ".")
		for i, p := range parts {
			parts[i] = quote(p)
		}
		return strings.Join(parts, ".")
	}
	if m := qualifiedStar.FindStringSubmatch(s); m != nil {
		return quote(m[1]) + ".*"
	}
	if m := functionCall.FindStringSubmatch(s); m != nil {
		return m[1] + "(" + Identifier(m[2], quote) + ")"
	}
	if m := aliased.FindStringSubmatch(s); m != nil {
		return Identifier(m[1], quote) + " AS " + quote(m[3])
	}
	if nameWithType.MatchString(s) {
		// "table.column type" as used in CAST targets.
		head, typ, _ := strings.Cut(s, " ")
		return Identifier(head, quote) + " " + typ
	}
	return s
}
