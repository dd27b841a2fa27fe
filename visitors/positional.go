package visitors

import (
	"fmt"
	"strings"

	"github.com/bawdo/quarry/binder"
)

// Positional rewrites the named placeholders (":c0", ":id") in sql into
// driver-native positional placeholders produced by placeholder, and
// returns the bindings in the order they appear. A placeholder used twice
// is bound twice. Quoted strings, quoted identifiers and "::" casts are
// left untouched.
func Positional(sql string, vb *binder.ValueBinder, placeholder func(int) string) (string, []binder.Binding, error) {
	var (
		sb    strings.Builder
		out   []binder.Binding
		quote rune
	)
	rs := []rune(sql)
	sb.Grow(len(sql))
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if quote != 0 {
			sb.WriteRune(r)
			if r == quote {
				// Doubled quote characters escape themselves.
				if i+1 < len(rs) && rs[i+1] == quote {
					sb.WriteRune(rs[i+1])
					i++
					continue
				}
				quote = 0
			} else if r == '\\' && quote == '\'' && i+1 < len(rs) {
				sb.WriteRune(rs[i+1])
				i++
			}
			continue
		}
		switch r {
		case '\'', '"', '`':
			quote = r
			sb.WriteRune(r)
			continue
		case ':':
		default:
			sb.WriteRune(r)
			continue
		}

		// ::type cast
		if i+1 < len(rs) && rs[i+1] == ':' {
			sb.WriteString("::")
			i++
			continue
		}
		if i > 0 && isNameRune(rs[i-1]) {
			sb.WriteRune(r)
			continue
		}
		j := i + 1
		for j < len(rs) && isNameRune(rs[j]) {
			j++
		}
		if j == i+1 {
			sb.WriteRune(r)
			continue
		}
		name := string(rs[i:j])
		b, ok := vb.Get(name)
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", ErrUnboundParam, name)
		}
		out = append(out, b)
		sb.WriteString(placeholder(len(out)))
		i = j - 1
	}
	return sb.String(), out, nil
}

func isNameRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
