package input_test

import (
	"math/big"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/coerce/pkg/input"
	"github.com/dmitrymomot/coerce/pkg/jsonvalue"
	"github.com/dmitrymomot/coerce/pkg/ordered"
	"github.com/dmitrymomot/coerce/pkg/scalar"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

func errType(t *testing.T, err error) valerr.ErrorType {
	t.Helper()
	lines, ok := valerr.Lines(err)
	require.True(t, ok, "expected line errors, got %v", err)
	require.Len(t, lines, 1)
	return lines[0].Type
}

func mustJSON(t *testing.T, s string) input.JSON {
	t.Helper()
	v, err := jsonvalue.ParseString(s)
	require.NoError(t, err)
	return input.NewJSON(v)
}

func TestNative_IntTiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     any
		strict    bool
		want      string
		exactness input.Exactness
		errType   valerr.ErrorType
	}{
		{name: "int strict", value: 5, strict: true, want: "5", exactness: input.Exact},
		{name: "big strict", value: new(big.Int).Lsh(big.NewInt(1), 70), strict: true, want: "1180591620717411303424", exactness: input.Exact},
		{name: "string strict", value: "5", strict: true, errType: valerr.IntType},
		{name: "string lax", value: " 5 ", want: "5", exactness: input.Lax},
		{name: "bad string lax", value: "five", errType: valerr.IntParsing},
		{name: "float lax", value: 5.0, want: "5", exactness: input.Lax},
		{name: "fraction lax", value: 5.5, errType: valerr.IntFromFloat},
		{name: "bool lax", value: true, want: "1", exactness: input.Lax},
		{name: "bool strict", value: true, strict: true, errType: valerr.IntType},
		{name: "slice", value: []any{}, errType: valerr.IntType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := input.NewNative(tt.value).ValidateInt(tt.strict)
			if tt.errType != "" {
				assert.Equal(t, tt.errType, errType(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Value.String())
			assert.Equal(t, tt.exactness, m.Exactness)
		})
	}
}

func TestNative_NamedKinds(t *testing.T) {
	type color string
	m, err := input.NewNative(color("red")).ValidateStr(true)
	require.NoError(t, err)
	assert.Equal(t, "red", m.Value)
	assert.Equal(t, input.Strict, m.Exactness)
}

func TestNative_Bool(t *testing.T) {
	t.Parallel()

	m, err := input.NewNative(true).ValidateBool(true)
	require.NoError(t, err)
	assert.Equal(t, input.Exact, m.Exactness)

	m, err = input.NewNative("yes").ValidateBool(false)
	require.NoError(t, err)
	assert.True(t, m.Value)
	assert.Equal(t, input.Lax, m.Exactness)

	_, err = input.NewNative(2).ValidateBool(false)
	assert.Equal(t, valerr.BoolParsing, errType(t, err))

	_, err = input.NewNative(1).ValidateBool(true)
	assert.Equal(t, valerr.BoolType, errType(t, err))
}

func TestNative_Temporal(t *testing.T) {
	t.Parallel()

	dt, err := input.NewNative(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)).ValidateDateTime(true, scalar.Truncate)
	require.NoError(t, err)
	assert.Equal(t, input.Exact, dt.Exactness)
	assert.Equal(t, scalar.Date{Year: 2023, Month: 1, Day: 1}, dt.Value.Date)

	_, err = input.NewNative("2023-01-01T00:00:00").ValidateDateTime(true, scalar.Truncate)
	assert.Equal(t, valerr.DatetimeType, errType(t, err))

	dt, err = input.NewNative("2023-01-01T00:00:00").ValidateDateTime(false, scalar.Truncate)
	require.NoError(t, err)
	assert.Equal(t, input.Lax, dt.Exactness)

	_, err = input.NewNative("2023-13-01").ValidateDate(false)
	require.Error(t, err)
	lines, _ := valerr.Lines(err)
	assert.Equal(t, valerr.DateParsing, lines[0].Type)
	assert.Equal(t, "month value is outside expected range of 1-12", lines[0].Context["error"])

	td, err := input.NewNative(90*time.Minute).ValidateTimedelta(true, scalar.Truncate)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, td.Value.GoDuration())
}

func TestNative_UUID(t *testing.T) {
	id := uuid.New()

	m, err := input.NewNative(id).ValidateUUID(true)
	require.NoError(t, err)
	assert.Equal(t, input.Exact, m.Exactness)

	m, err = input.NewNative(id.String()).ValidateUUID(false)
	require.NoError(t, err)
	assert.Equal(t, id, m.Value)

	_, err = input.NewNative("nope").ValidateUUID(false)
	assert.Equal(t, valerr.UUIDParsing, errType(t, err))

	_, err = input.NewNative(id.String()).ValidateUUID(true)
	assert.Equal(t, valerr.UUIDType, errType(t, err))
}

func TestNative_Mappings(t *testing.T) {
	t.Parallel()

	m, err := input.NewNative(map[string]any{"b": 2, "a": 1}).ValidateDict(true)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	var keys []string
	for k := range m.All() {
		s, _ := k.ExactStr()
		keys = append(keys, s)
	}
	assert.Equal(t, []string{"a", "b"}, keys)

	v, ok := m.Get("b")
	require.True(t, ok)
	i, _ := v.ExactInt()
	assert.Equal(t, "2", i.String())

	om := ordered.NewMap(2)
	om.Set("z", 1)
	om.Set("y", 2)
	m, err = input.NewNative(om).ValidateDict(true)
	require.NoError(t, err)
	keys = keys[:0]
	for k := range m.All() {
		s, _ := k.ExactStr()
		keys = append(keys, s)
	}
	assert.Equal(t, []string{"z", "y"}, keys)

	typed, err := input.NewNative(map[string]int{"x": 1}).ValidateDict(true)
	require.NoError(t, err)
	_, ok = typed.Get("x")
	assert.True(t, ok)

	_, err = input.NewNative("x").ValidateDict(false)
	assert.Equal(t, valerr.DictType, errType(t, err))
}

func TestNative_Sequences(t *testing.T) {
	t.Parallel()

	seq, err := input.NewNative([]int{1, 2, 3}).ValidateList(true)
	require.NoError(t, err)
	assert.Equal(t, 3, seq.Len())

	s := ordered.NewSet(1)
	s.Add("a")
	_, err = input.NewNative(s).ValidateList(true)
	assert.Equal(t, valerr.ListType, errType(t, err))
	_, err = input.NewNative(s).ValidateList(false)
	assert.NoError(t, err)

	_, err = input.NewNative([]any{1}).ValidateSet(true)
	assert.Equal(t, valerr.SetType, errType(t, err))

	it, err := input.NewNative("héllo").ExtractIterable()
	require.NoError(t, err)
	assert.Equal(t, 5, it.Len())

	_, err = input.NewNative([]byte("x")).ValidateList(false)
	assert.Equal(t, valerr.ListType, errType(t, err))
}

func TestNative_Identity(t *testing.T) {
	m := map[string]any{}
	a, ok := input.NewNative(m).Identity()
	require.True(t, ok)
	b, _ := input.NewNative(m).Identity()
	assert.Equal(t, a, b)

	_, ok = input.NewNative(5).Identity()
	assert.False(t, ok)
}

func TestNative_Args(t *testing.T) {
	args, err := input.NewNative(input.Call{Args: []any{1, "a"}, Kwargs: map[string]any{"k": true}}).ValidateArgs()
	require.NoError(t, err)
	assert.Len(t, args.Positional, 2)
	require.NotNil(t, args.Keyword)
	assert.Equal(t, 1, args.Keyword.Len())

	_, err = input.NewNative(5).ValidateArgs()
	assert.Equal(t, valerr.ArgumentsType, errType(t, err))

	_, err = input.NewNative(5).ValidateDataclassArgs("Point")
	lines, _ := valerr.Lines(err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Input should be a dictionary or an instance of Point", lines[0].Message())
}

func TestJSON_Tiers(t *testing.T) {
	t.Parallel()

	s, err := mustJSON(t, `"abc"`).ValidateStr(true)
	require.NoError(t, err)
	assert.Equal(t, input.Strict, s.Exactness)

	i, err := mustJSON(t, `42`).ValidateInt(true)
	require.NoError(t, err)
	assert.Equal(t, input.Exact, i.Exactness)

	_, err = mustJSON(t, `"42"`).ValidateInt(true)
	assert.Equal(t, valerr.IntType, errType(t, err))

	i, err = mustJSON(t, `"42"`).ValidateInt(false)
	require.NoError(t, err)
	assert.Equal(t, input.Lax, i.Exactness)

	i, err = mustJSON(t, `18446744073709551616`).ValidateInt(true)
	require.NoError(t, err)
	assert.True(t, i.Value.IsBig())

	f, err := mustJSON(t, `3`).ValidateFloat(true)
	require.NoError(t, err)
	assert.Equal(t, input.Strict, f.Exactness)
	assert.InDelta(t, 3.0, f.Value, 0)

	b, err := mustJSON(t, `1.0`).ValidateBool(false)
	require.NoError(t, err)
	assert.True(t, b.Value)

	_, err = mustJSON(t, `2.5`).ValidateBool(false)
	assert.Equal(t, valerr.BoolType, errType(t, err))

	d, err := mustJSON(t, `"2023-01-01"`).ValidateDate(true)
	require.NoError(t, err)
	assert.Equal(t, 2023, d.Value.Year)

	_, err = mustJSON(t, `1672531200`).ValidateDateTime(true, scalar.Truncate)
	assert.Equal(t, valerr.DatetimeType, errType(t, err))

	dt, err := mustJSON(t, `1672531200`).ValidateDateTime(false, scalar.Truncate)
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01T00:00:00Z", dt.Value.String())
}

func TestJSON_Structures(t *testing.T) {
	t.Parallel()

	arr := mustJSON(t, `[1, "a", null]`)
	for _, fn := range []func(bool) (input.Sequence, error){arr.ValidateList, arr.ValidateTuple, arr.ValidateSet} {
		seq, err := fn(true)
		require.NoError(t, err)
		assert.Equal(t, 3, seq.Len())
	}

	obj := mustJSON(t, `{"b": 1, "a": 2}`)
	m, err := obj.ValidateDict(true)
	require.NoError(t, err)
	var keys []input.Input
	for k := range m.All() {
		keys = append(keys, k)
	}
	require.Len(t, keys, 2)
	assert.Equal(t, input.Key("b"), keys[0])

	it, err := obj.ExtractIterable()
	require.NoError(t, err)
	assert.Equal(t, 2, it.Len())

	it, err = mustJSON(t, `"xyz"`).ExtractIterable()
	require.NoError(t, err)
	assert.Equal(t, 3, it.Len())

	_, err = mustJSON(t, `5`).ExtractIterable()
	assert.Equal(t, valerr.IterableType, errType(t, err))

	args, err := arr.ValidateArgs()
	require.NoError(t, err)
	assert.Len(t, args.Positional, 3)
}

func TestJSON_ParseJSON(t *testing.T) {
	inner, err := mustJSON(t, `"{\"a\": [1]}"`).ParseJSON()
	require.NoError(t, err)
	_, err = inner.ValidateDict(true)
	assert.NoError(t, err)

	_, err = mustJSON(t, `"{bad"`).ParseJSON()
	assert.Equal(t, valerr.JSONInvalid, errType(t, err))

	_, err = mustJSON(t, `5`).ParseJSON()
	assert.Equal(t, valerr.JSONType, errType(t, err))
}

func TestKey(t *testing.T) {
	t.Parallel()

	k := input.Key("12")
	s, err := k.ValidateStr(true)
	require.NoError(t, err)
	assert.Equal(t, input.Exact, s.Exactness)

	_, err = k.ValidateInt(true)
	assert.Equal(t, valerr.IntType, errType(t, err))

	i, err := k.ValidateInt(false)
	require.NoError(t, err)
	assert.Equal(t, input.Lax, i.Exactness)
	assert.Equal(t, "12", i.Value.String())

	_, err = k.ValidateList(false)
	assert.Equal(t, valerr.ListType, errType(t, err))
	assert.Equal(t, valerr.Key("12"), k.AsLocItem())
}

func TestStringMapping(t *testing.T) {
	t.Parallel()

	sm, err := input.NewStringMapping(map[string]any{
		"port":  "8080",
		"debug": "true",
		"db":    map[string]string{"host": "localhost"},
	})
	require.NoError(t, err)

	m, err := sm.ValidateDict(true)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())

	port, ok := m.Get("port")
	require.True(t, ok)
	i, err := port.ValidateInt(true)
	require.NoError(t, err)
	assert.Equal(t, input.Strict, i.Exactness)

	debug, _ := m.Get("debug")
	b, err := debug.ValidateBool(true)
	require.NoError(t, err)
	assert.True(t, b.Value)

	db, _ := m.Get("db")
	_, err = db.ValidateDict(true)
	assert.NoError(t, err)
	_, err = db.ValidateStr(false)
	assert.Equal(t, valerr.StringType, errType(t, err))

	_, err = port.ValidateList(false)
	assert.Equal(t, valerr.ListType, errType(t, err))

	q, err := input.NewStringMapping(url.Values{"a": {"1", "2"}})
	require.NoError(t, err)
	qm, _ := q.ValidateDict(false)
	a, _ := qm.Get("a")
	s, _ := a.ExactStr()
	assert.Equal(t, "1", s)

	_, err = input.NewStringMapping(map[string]any{"x": 5})
	assert.ErrorIs(t, err, input.ErrInvalidStringMapping)
}

func TestFrom(t *testing.T) {
	jv := jsonvalue.Int(1)
	assert.IsType(t, input.JSON{}, input.From(jv))
	assert.IsType(t, input.Native{}, input.From(1))
	assert.Equal(t, input.Key("k"), input.From(input.Key("k")))
}
