package conditions

import (
	"fmt"
	"strings"
)

// ParseKey splits a condition key into its field expression and an
// upper-cased operator. "id" yields ("id", ""), "id >=" yields
// ("id", ">="), "CONCAT(a, b) not in" yields ("CONCAT(a, b)", "NOT IN").
// Two-word operators (NOT IN, NOT LIKE, IS NOT, ...) are recognised when
// the field itself contains spaces.
func ParseKey(key string) (field, op string, err error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("%w: empty field", ErrParse)
	}
	parts := strings.Split(key, " ")
	switch {
	case len(parts) == 1:
		return key, "", nil
	case len(parts) == 2:
		field, op = parts[0], parts[1]
	default:
		n := 1
		last := strings.ToUpper(parts[len(parts)-1])
		prev := strings.ToUpper(parts[len(parts)-2])
		if prev == "NOT" || (prev == "IS" && last == "NOT") {
			n = 2
		}
		field = strings.Join(parts[:len(parts)-n], " ")
		op = strings.Join(parts[len(parts)-n:], " ")
	}
	field = strings.TrimSpace(field)
	op = strings.ToUpper(strings.TrimSpace(op))
	if field == "" {
		return "", "", fmt.Errorf("%w: missing field in %q", ErrParse, key)
	}
	return field, op, nil
}
