package main

import (
	"strconv"
	"strings"

	"github.com/bawdo/quarry/conditions"
)

// tokenize splits s on whitespace, keeping quoted strings and
// parenthesised groups together.
func tokenize(s string) []string {
	var (
		tokens []string
		cur    strings.Builder
		quote  rune
		depth  int
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
			cur.WriteRune(r)
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case (r == ' ' || r == '\t') && depth == 0:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// splitList splits s on top-level commas and trims each item.
func splitList(s string) []string {
	var (
		items []string
		cur   strings.Builder
		quote rune
		depth int
	)
	for _, r := range s {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
			continue
		case r == '\'' || r == '"':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ',' && depth == 0:
			items = append(items, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	if last := strings.TrimSpace(cur.String()); last != "" || len(items) > 0 {
		items = append(items, last)
	}
	return items
}

// parseValue reads a literal typed at the prompt: 'quoted' strings,
// numbers, true/false, null and (a, b, ...) lists. Anything else is
// taken as a bare string.
func parseValue(tok string) any {
	tok = strings.TrimSpace(tok)
	if len(tok) >= 2 && tok[0] == '\'' && tok[len(tok)-1] == '\'' {
		return strings.ReplaceAll(tok[1:len(tok)-1], "''", "'")
	}
	if len(tok) >= 2 && tok[0] == '(' && tok[len(tok)-1] == ')' {
		parts := splitList(tok[1 : len(tok)-1])
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = parseValue(p)
		}
		return out
	}
	switch strings.ToLower(tok) {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.Atoi(tok); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f
	}
	return tok
}

var conditionOps = map[string]bool{
	"=": true, "!=": true, "<>": true, "<": true, "<=": true, ">": true, ">=": true,
	"LIKE": true, "NOT LIKE": true, "ILIKE": true, "NOT ILIKE": true,
	"IN": true, "NOT IN": true, "IS": true, "IS NOT": true,
}

// parseCondition turns "field op value" into a bound condition. Input
// that does not have that shape is passed through as raw SQL.
func parseCondition(s string) any {
	toks := tokenize(s)
	if len(toks) < 3 {
		return strings.TrimSpace(s)
	}
	field := toks[0]
	op := strings.ToUpper(strings.Join(toks[1:len(toks)-1], " "))
	if !conditionOps[op] {
		return strings.TrimSpace(s)
	}
	value := parseValue(toks[len(toks)-1])
	if op == "=" || (op == "IS" && value == nil) {
		return conditions.Pairs{{Key: field, Value: value}}
	}
	return conditions.Pairs{{Key: field + " " + op, Value: value}}
}
