package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSequentialPlaceholders(t *testing.T) {
	t.Parallel()
	b := New()
	got := b.GenerateManyNamed([]any{1, 2, 3}, "integer")
	assert.Equal(t, []string{":c0", ":c1", ":c2"}, got)

	bindings := b.Bindings()
	require.Len(t, bindings, 3)
	for i, bd := range bindings {
		assert.Equal(t, got[i], bd.Param)
		assert.Equal(t, got[i][1:], bd.Placeholder)
		assert.Equal(t, i+1, bd.Value)
		assert.Equal(t, "integer", bd.Type)
	}
}

func TestBindOverwrites(t *testing.T) {
	t.Parallel()
	b := New()
	b.Bind(":id", 1, "integer")
	b.Bind("id", 2, "string")

	bd, ok := b.Get(":id")
	require.True(t, ok)
	assert.Equal(t, 2, bd.Value)
	assert.Equal(t, "string", bd.Type)
	assert.Equal(t, 1, b.Len())
}

func TestPlaceholderSkipsExplicitNames(t *testing.T) {
	t.Parallel()
	b := New()
	b.Bind("c0", "taken", "")
	assert.Equal(t, ":c1", b.Placeholder("c"))
}

func TestResetCountKeepsExplicitBinds(t *testing.T) {
	t.Parallel()
	b := New()
	b.Bind(":name", "bob", "string")
	b.Generate(10, "integer")
	b.Generate(20, "integer")

	b.ResetCount()
	require.Equal(t, 1, b.Len())
	assert.Equal(t, ":c0", b.Generate(30, "integer"))

	_, ok := b.Get(":name")
	assert.True(t, ok)
}

func TestResetClearsEverything(t *testing.T) {
	t.Parallel()
	b := New()
	b.Bind(":name", "bob", "string")
	b.Generate(1, "")
	b.Reset()
	assert.Zero(t, b.Len())
	assert.Equal(t, ":c0", b.Placeholder("c"))
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()
	b := New()
	b.Bind(":id", 1, "integer")
	c := b.Clone()
	c.Bind(":id", 99, "integer")
	c.Generate("x", "string")

	bd, _ := b.Get(":id")
	assert.Equal(t, 1, bd.Value)
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, 2, c.Len())
}

func TestMergeSkipsGenerated(t *testing.T) {
	t.Parallel()
	src := New()
	src.Bind(":status", "open", "string")
	src.Generate(5, "integer")

	dst := New()
	dst.Merge(src)
	require.Equal(t, 1, dst.Len())
	bd, ok := dst.Get("status")
	require.True(t, ok)
	assert.Equal(t, "open", bd.Value)
}
