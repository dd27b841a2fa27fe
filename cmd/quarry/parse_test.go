package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bawdo/quarry/conditions"
)

func TestTokenize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want []string
	}{
		{"age > 18", []string{"age", ">", "18"}},
		{"name = 'Ann Lee'", []string{"name", "=", "'Ann Lee'"}},
		{"id in (1, 2,  3)", []string{"id", "in", "(1, 2,  3)"}},
		{"  status   is not   null ", []string{"status", "is", "not", "null"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.in))
		})
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"id", "name"}, splitList("id, name"))
	assert.Equal(t, []string{"'a, b'", "COUNT(x, y)"}, splitList("'a, b', COUNT(x, y)"))
	assert.Equal(t, []string{"1", ""}, splitList("1,"))
	assert.Nil(t, splitList("   "))
}

func TestParseValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want any
	}{
		{"'hello'", "hello"},
		{"'it''s'", "it's"},
		{"42", 42},
		{"2.5", 2.5},
		{"TRUE", true},
		{"false", false},
		{"null", nil},
		{"(1, 'a')", []any{1, "a"}},
		{"bare", "bare"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseValue(tt.in))
		})
	}
}

func TestParseCondition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want any
	}{
		{"id = 1", conditions.Pairs{{Key: "id", Value: 1}}},
		{"age >= 18", conditions.Pairs{{Key: "age >=", Value: 18}}},
		{"name like 'a%'", conditions.Pairs{{Key: "name LIKE", Value: "a%"}}},
		{"id not in (1, 2)", conditions.Pairs{{Key: "id NOT IN", Value: []any{1, 2}}}},
		{"deleted_at is null", conditions.Pairs{{Key: "deleted_at", Value: nil}}},
		{"deleted_at is not null", conditions.Pairs{{Key: "deleted_at IS NOT", Value: nil}}},
		{"a.id = b.id OR 1=1", "a.id = b.id OR 1=1"},
		{"active", "active"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCondition(tt.in))
		})
	}
}
