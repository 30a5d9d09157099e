package jsonvalue_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/coerce/pkg/jsonvalue"
)

func TestParse_Scalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		kind  jsonvalue.Kind
		want  any
	}{
		{"null", `null`, jsonvalue.KindNull, nil},
		{"true", `true`, jsonvalue.KindBool, true},
		{"int", `-42`, jsonvalue.KindInt, int64(-42)},
		{"uint", `18446744073709551615`, jsonvalue.KindUint, uint64(18446744073709551615)},
		{"float", `1.5`, jsonvalue.KindFloat, 1.5},
		{"exponent is float", `1e3`, jsonvalue.KindFloat, 1000.0},
		{"string", `"hello"`, jsonvalue.KindString, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := jsonvalue.ParseString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.want, v.Interface())
		})
	}
}

func TestParse_BigInt(t *testing.T) {
	v, err := jsonvalue.ParseString(`123456789012345678901234567890`)
	require.NoError(t, err)
	require.Equal(t, jsonvalue.KindBigInt, v.Kind())

	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	assert.Equal(t, 0, want.Cmp(v.BigInt()))
}

func TestParse_ObjectKeepsOrder(t *testing.T) {
	v, err := jsonvalue.ParseString(`{"b": 1, "a": [true, null], "c": {"x": "y"}}`)
	require.NoError(t, err)
	require.Equal(t, jsonvalue.KindObject, v.Kind())

	assert.Equal(t, []string{"b", "a", "c"}, v.Object().Keys())

	a, ok := v.Object().Get("a")
	require.True(t, ok)
	require.Len(t, a.Array(), 2)
	assert.True(t, a.Array()[0].Bool())
	assert.True(t, a.Array()[1].IsNull())
}

func TestParse_DuplicateKeys(t *testing.T) {
	const doc = `{"a": 1, "b": 2, "a": 3}`

	t.Run("keep last", func(t *testing.T) {
		v, err := jsonvalue.ParseString(doc)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, v.Object().Keys())
		a, _ := v.Object().Get("a")
		assert.Equal(t, int64(3), a.Int())
	})

	t.Run("keep first", func(t *testing.T) {
		v, err := jsonvalue.ParseString(doc, jsonvalue.WithDuplicateKeys(jsonvalue.KeepFirst))
		require.NoError(t, err)
		a, _ := v.Object().Get("a")
		assert.Equal(t, int64(1), a.Int())
	})

	t.Run("reject", func(t *testing.T) {
		_, err := jsonvalue.ParseString(doc, jsonvalue.WithDuplicateKeys(jsonvalue.Reject))
		require.Error(t, err)
		assert.ErrorIs(t, err, jsonvalue.ErrDuplicateKey)
	})
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{``, `{`, `[1,]`, `tru`, `1 2`} {
		t.Run(input, func(t *testing.T) {
			_, err := jsonvalue.ParseString(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, jsonvalue.ErrInvalidJSON)
		})
	}
}

func TestParse_MaxDepth(t *testing.T) {
	_, err := jsonvalue.ParseString(`[[[[1]]]]`, jsonvalue.WithMaxDepth(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, jsonvalue.ErrTooDeep)
}

func TestParseDuplicateKeys(t *testing.T) {
	p, err := jsonvalue.ParseDuplicateKeys("reject")
	require.NoError(t, err)
	assert.Equal(t, jsonvalue.Reject, p)

	_, err = jsonvalue.ParseDuplicateKeys("sometimes")
	assert.ErrorIs(t, err, jsonvalue.ErrInvalidOption)
}
