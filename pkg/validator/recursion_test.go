package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/coerce/pkg/input"
	"github.com/dmitrymomot/coerce/pkg/ordered"
	"github.com/dmitrymomot/coerce/pkg/valerr"
	"github.com/dmitrymomot/coerce/pkg/validator"
)

const linkedListSchema = `
type: definition_ref
schema_ref: node
definitions:
  node:
    type: model_fields
    fields:
      - name: value
        schema: {type: int}
      - name: next
        schema:
          type: default
          default: null
          schema: {type: nullable, schema: {type: definition_ref, schema_ref: node}}
`

// chain renders a linked list of n nodes as JSON.
func chain(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(`{"value": 1, "next": `)
	}
	b.WriteString("null")
	b.WriteString(strings.Repeat("}", n))
	return b.String()
}

func TestRecursion_DeepButFinite(t *testing.T) {
	t.Parallel()
	tree := build(t, linkedListSchema)

	out, err := tree.Validate(jsonInput(t, chain(50)))
	require.NoError(t, err)

	depth := 0
	for node := out; node != nil; depth++ {
		next, ok := node.(*ordered.Map).Get("next")
		require.True(t, ok)
		node = next
	}
	assert.Equal(t, 50, depth)
}

func TestRecursion_DepthLimit(t *testing.T) {
	t.Parallel()
	tree := build(t, linkedListSchema, validator.WithRecursionLimit(10))

	_, err := tree.Validate(jsonInput(t, chain(9)))
	require.NoError(t, err)

	_, err = tree.Validate(jsonInput(t, chain(20)))
	lines := failure(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, valerr.RecursionLoop, lines[0].Type)
	assert.Len(t, lines[0].Location(), 10)
}

func TestRecursion_CyclicInput(t *testing.T) {
	t.Parallel()
	tree := build(t, linkedListSchema)

	node := map[string]any{"value": 1}
	node["next"] = node

	_, err := tree.Validate(input.From(node))
	lines := failure(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, valerr.RecursionLoop, lines[0].Type)
	assert.Equal(t, "next", lines[0].Location().String())
}

func TestRecursion_SharedButAcyclicInput(t *testing.T) {
	t.Parallel()
	tree := build(t, `
type: list
items_schema: {type: definition_ref, schema_ref: leaf}
definitions:
  leaf:
    type: dict
    values_schema: {type: int}
`)

	shared := map[string]any{"a": 1}
	out, err := tree.Validate(input.From([]any{shared, shared}))
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestRecursionGuard(t *testing.T) {
	t.Parallel()

	t.Run("same container and ref", func(t *testing.T) {
		t.Parallel()
		g := validator.NewRecursionGuard(0)

		require.True(t, g.Enter(1, true, 0))
		assert.False(t, g.Enter(1, true, 0))
		assert.True(t, g.Enter(1, true, 1))
		assert.True(t, g.Enter(2, true, 0))
		assert.Equal(t, 3, g.Depth())

		g.Leave(2, true, 0)
		g.Leave(1, true, 1)
		g.Leave(1, true, 0)
		assert.Equal(t, 0, g.Depth())
		assert.True(t, g.Enter(1, true, 0))
	})

	t.Run("depth without identity", func(t *testing.T) {
		t.Parallel()
		g := validator.NewRecursionGuard(2)

		assert.True(t, g.Enter(0, false, 0))
		assert.True(t, g.Enter(0, false, 0))
		assert.False(t, g.Enter(0, false, 0))
		g.Leave(0, false, 0)
		assert.True(t, g.Enter(0, false, 0))
	})
}
