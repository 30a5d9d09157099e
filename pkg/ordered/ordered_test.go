package ordered_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/coerce/pkg/ordered"
)

func TestMap(t *testing.T) {
	t.Parallel()

	m := ordered.NewMap(0)
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("b", 3)
	m.Set(big.NewInt(7), "big")
	m.Set([]any{1, 2}, "list")

	assert.Equal(t, 4, m.Len())
	assert.Equal(t, []any{"b", "a", big.NewInt(7), []any{1, 2}}, m.Keys())

	v, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = m.Get(big.NewInt(7))
	require.True(t, ok)
	assert.Equal(t, "big", v)

	v, ok = m.Get([]any{1, 2})
	require.True(t, ok)
	assert.Equal(t, "list", v)

	assert.False(t, m.Has("missing"))
}

func TestMap_MarshalJSON(t *testing.T) {
	m := ordered.NewMap(2)
	m.Set("z", 1)
	m.Set("a", []any{"x", nil})
	m.Set(int64(5), true)

	raw, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"z":1,"a":["x",null],"5":true}`, string(raw))
	assert.Equal(t, `{"z":1,"a":["x",null],"5":true}`, string(raw))
}

func TestSet(t *testing.T) {
	t.Parallel()

	s := ordered.NewSet(0)
	assert.True(t, s.Add(int64(1)))
	assert.True(t, s.Add("x"))
	assert.False(t, s.Add(int64(1)))
	assert.Equal(t, []any{int64(1), "x"}, s.Items())

	assert.False(t, s.Add(1.0), "whole floats equal ints")
	assert.False(t, s.Add(big.NewInt(1)))
	assert.True(t, s.Add(1.5))

	other := ordered.NewSet(0)
	other.Add("x")
	other.Add(int64(1))
	other.Add(1.5)
	assert.True(t, s.Equal(other))
}

func TestEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, ordered.Equal(big.NewInt(3), big.NewInt(3)))
	assert.False(t, ordered.Equal(big.NewInt(3), int64(3)))
	assert.True(t, ordered.Equal([]any{int64(1), "a"}, []any{int64(1), "a"}))

	a := ordered.NewMap(0)
	a.Set("k", []any{big.NewInt(1)})
	b := ordered.NewMap(0)
	b.Set("k", []any{big.NewInt(1)})
	assert.True(t, ordered.Equal(a, b))
}
