package input

import (
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dmitrymomot/coerce/pkg/jsonvalue"
	"github.com/dmitrymomot/coerce/pkg/ordered"
	"github.com/dmitrymomot/coerce/pkg/scalar"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

// Native is a plain Go value: the scalar kinds, time and uuid types, the
// scalar package's temporal types, maps, slices, ordered containers and Call.
// Named types are accepted through their underlying kind as a Strict match.
type Native struct {
	v any
}

// NewNative wraps v. A *jsonvalue.Value is not unwrapped; use NewJSON.
func NewNative(v any) Native { return Native{v: v} }

func (n Native) Value() any { return n.v }

func (n Native) IsNone() bool { return n.v == nil }

func (n Native) AsLocItem() valerr.LocItem {
	switch v := n.v.(type) {
	case string:
		return valerr.Key(v)
	case int:
		return valerr.Index(v)
	case int64:
		return valerr.Index(int(v))
	}
	return valerr.Key(fmt.Sprint(n.v))
}

func (n Native) AsErrorValue() any { return n.v }

func (n Native) Identity() (uintptr, bool) {
	switch v := n.v.(type) {
	case nil:
		return 0, false
	case *ordered.Map:
		return reflect.ValueOf(v).Pointer(), true
	case *ordered.Set:
		return reflect.ValueOf(v).Pointer(), true
	}
	rv := reflect.ValueOf(n.v)
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	case reflect.Slice:
		if rv.Len() == 0 {
			return 0, false
		}
		return rv.Pointer(), true
	}
	return 0, false
}

func (n Native) ExactStr() (string, bool) {
	s, ok := n.v.(string)
	return s, ok
}

func (n Native) ExactInt() (scalar.Int, bool) {
	return nativeInt(n.v)
}

func (n Native) ValidateStr(strict bool) (Match[string], error) {
	switch v := n.v.(type) {
	case string:
		return ExactMatch(v), nil
	case []byte:
		if !strict && utf8.Valid(v) {
			return LaxMatch(string(v)), nil
		}
		return fail[string](valerr.StringType, n)
	}
	if rv := reflect.ValueOf(n.v); rv.Kind() == reflect.String {
		return StrictMatch(rv.String()), nil
	}
	return fail[string](valerr.StringType, n)
}

func (n Native) ValidateBytes(strict bool) (Match[[]byte], error) {
	switch v := n.v.(type) {
	case []byte:
		return ExactMatch(v), nil
	case string:
		if !strict {
			return LaxMatch([]byte(v)), nil
		}
	}
	return fail[[]byte](valerr.BytesType, n)
}

func (n Native) ValidateBool(strict bool) (Match[bool], error) {
	if b, ok := n.v.(bool); ok {
		return ExactMatch(b), nil
	}
	if rv := reflect.ValueOf(n.v); rv.Kind() == reflect.Bool {
		return StrictMatch(rv.Bool()), nil
	}
	if strict {
		return fail[bool](valerr.BoolType, n)
	}
	if s, ok := n.text(); ok {
		return laxed(strToBool(s, n))
	}
	if i, ok := nativeInt(n.v); ok {
		return laxed(intToBool(i, n))
	}
	if f, ok := nativeFloat(n.v); ok {
		return laxed(floatToBool(f, n))
	}
	return fail[bool](valerr.BoolType, n)
}

func (n Native) ValidateInt(strict bool) (Match[scalar.Int], error) {
	if i, ok := nativeInt(n.v); ok {
		return ExactMatch(i), nil
	}
	if i, ok := reflectInt(n.v); ok {
		return StrictMatch(i), nil
	}
	if strict {
		return fail[scalar.Int](valerr.IntType, n)
	}
	switch v := n.v.(type) {
	case bool:
		if v {
			return LaxMatch(scalar.IntFrom64(1)), nil
		}
		return LaxMatch(scalar.IntFrom64(0)), nil
	}
	if s, ok := n.text(); ok {
		return laxed(strToInt(s, n))
	}
	if f, ok := nativeFloat(n.v); ok {
		return laxed(floatToInt(f, n))
	}
	return fail[scalar.Int](valerr.IntType, n)
}

func (n Native) ValidateFloat(strict bool) (Match[float64], error) {
	if f, ok := nativeFloat(n.v); ok {
		return ExactMatch(f), nil
	}
	if i, ok := nativeInt(n.v); ok {
		return StrictMatch(i.Float64()), nil
	}
	if rv := reflect.ValueOf(n.v); rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64 {
		return StrictMatch(rv.Float()), nil
	}
	if i, ok := reflectInt(n.v); ok {
		return StrictMatch(i.Float64()), nil
	}
	if strict {
		return fail[float64](valerr.FloatType, n)
	}
	if b, ok := n.v.(bool); ok {
		if b {
			return LaxMatch(1.0), nil
		}
		return LaxMatch(0.0), nil
	}
	if s, ok := n.text(); ok {
		return laxed(strToFloat(s, n))
	}
	return fail[float64](valerr.FloatType, n)
}

func (n Native) ValidateDate(strict bool) (Match[scalar.Date], error) {
	if d, ok := n.v.(scalar.Date); ok {
		return ExactMatch(d), nil
	}
	if !strict {
		if s, ok := n.text(); ok {
			return tag[scalar.Date](n, Lax)(scalar.ParseDate(s))
		}
	}
	return fail[scalar.Date](valerr.DateType, n)
}

func (n Native) ValidateTime(strict bool, overflow scalar.MicrosecondsOverflow) (Match[scalar.Time], error) {
	if t, ok := n.v.(scalar.Time); ok {
		return ExactMatch(t), nil
	}
	if strict {
		return fail[scalar.Time](valerr.TimeType, n)
	}
	if s, ok := n.text(); ok {
		return tag[scalar.Time](n, Lax)(scalar.ParseTime(s, overflow))
	}
	if i, ok := nativeInt(n.v); ok {
		sec, fits := i.Int64()
		if !fits {
			return Match[scalar.Time]{}, valerr.NewWithContext(valerr.TimeParsing, n.v, "error", "time value is too large").Err()
		}
		return tag[scalar.Time](n, Lax)(scalar.SecondsAsTime(sec, 0))
	}
	if f, ok := nativeFloat(n.v); ok {
		return tag[scalar.Time](n, Lax)(scalar.FloatAsTime(f))
	}
	return fail[scalar.Time](valerr.TimeType, n)
}

func (n Native) ValidateDateTime(strict bool, overflow scalar.MicrosecondsOverflow) (Match[scalar.DateTime], error) {
	switch v := n.v.(type) {
	case scalar.DateTime:
		return ExactMatch(v), nil
	case time.Time:
		return ExactMatch(scalar.DateTimeOf(v)), nil
	}
	if strict {
		return fail[scalar.DateTime](valerr.DatetimeType, n)
	}
	if d, ok := n.v.(scalar.Date); ok {
		return LaxMatch(scalar.DateTime{Date: d}), nil
	}
	if s, ok := n.text(); ok {
		return tag[scalar.DateTime](n, Lax)(scalar.ParseDateTime(s, overflow))
	}
	if i, ok := nativeInt(n.v); ok {
		ts, fits := i.Int64()
		if !fits {
			return Match[scalar.DateTime]{}, valerr.NewWithContext(valerr.DatetimeParsing, n.v, "error", "timestamp value is outside expected range").Err()
		}
		return tag[scalar.DateTime](n, Lax)(scalar.IntAsDateTime(ts, 0))
	}
	if f, ok := nativeFloat(n.v); ok {
		return tag[scalar.DateTime](n, Lax)(scalar.FloatAsDateTime(f))
	}
	return fail[scalar.DateTime](valerr.DatetimeType, n)
}

func (n Native) ValidateTimedelta(strict bool, overflow scalar.MicrosecondsOverflow) (Match[scalar.Duration], error) {
	switch v := n.v.(type) {
	case scalar.Duration:
		return ExactMatch(v), nil
	case time.Duration:
		return ExactMatch(scalar.DurationOf(v)), nil
	}
	if strict {
		return fail[scalar.Duration](valerr.TimeDeltaType, n)
	}
	if s, ok := n.text(); ok {
		return tag[scalar.Duration](n, Lax)(scalar.ParseDuration(s, overflow))
	}
	if i, ok := nativeInt(n.v); ok {
		sec, fits := i.Int64()
		if !fits {
			return Match[scalar.Duration]{}, valerr.NewWithContext(valerr.TimeDeltaParsing, n.v, "error", "durations may not exceed 999,999,999 days").Err()
		}
		return LaxMatch(scalar.SecondsAsDuration(sec)), nil
	}
	if f, ok := nativeFloat(n.v); ok {
		return tag[scalar.Duration](n, Lax)(scalar.FloatAsDuration(f))
	}
	return fail[scalar.Duration](valerr.TimeDeltaType, n)
}

func (n Native) ValidateUUID(strict bool) (Match[uuid.UUID], error) {
	switch v := n.v.(type) {
	case uuid.UUID:
		return ExactMatch(v), nil
	case string:
		if !strict {
			return laxed(parseUUID(v, n))
		}
	case []byte:
		if !strict {
			if len(v) == 16 {
				u, err := uuid.FromBytes(v)
				if err == nil {
					return LaxMatch(u), nil
				}
			}
			return laxed(parseUUID(string(v), n))
		}
	}
	return fail[uuid.UUID](valerr.UUIDType, n)
}

func (n Native) ValidateDict(bool) (Mapping, error) {
	switch v := n.v.(type) {
	case map[string]any:
		return stringKeyMap(v, NewNative), nil
	case *ordered.Map:
		return orderedMap(v), nil
	}
	if rv := reflect.ValueOf(n.v); rv.Kind() == reflect.Map {
		return reflectMap(rv), nil
	}
	return nil, typeError(valerr.DictType, n)
}

func (n Native) ValidateList(strict bool) (Sequence, error) {
	if seq, ok := n.sequence(); ok {
		return seq, nil
	}
	if !strict {
		if s, ok := n.v.(*ordered.Set); ok {
			return setSequence(s), nil
		}
	}
	return nil, typeError(valerr.ListType, n)
}

func (n Native) ValidateTuple(strict bool) (Sequence, error) {
	if seq, ok := n.sequence(); ok {
		return seq, nil
	}
	if !strict {
		if s, ok := n.v.(*ordered.Set); ok {
			return setSequence(s), nil
		}
	}
	return nil, typeError(valerr.TupleType, n)
}

func (n Native) ValidateSet(strict bool) (Sequence, error) {
	if s, ok := n.v.(*ordered.Set); ok {
		return setSequence(s), nil
	}
	if !strict {
		if seq, ok := n.sequence(); ok {
			return seq, nil
		}
	}
	return nil, typeError(valerr.SetType, n)
}

func (n Native) ExtractIterable() (Sequence, error) {
	if seq, ok := n.sequence(); ok {
		return seq, nil
	}
	switch v := n.v.(type) {
	case string:
		return runes(v, func(s string) Input { return NewNative(s) }), nil
	case *ordered.Set:
		return setSequence(v), nil
	}
	if m, err := n.ValidateDict(false); err == nil {
		return mappingKeys(m), nil
	}
	return nil, typeError(valerr.IterableType, n)
}

func (n Native) ValidateArgs() (*Args, error) {
	switch v := n.v.(type) {
	case Call:
		args := &Args{Positional: make([]Input, len(v.Args))}
		for i, a := range v.Args {
			args.Positional[i] = NewNative(a)
		}
		if v.Kwargs != nil {
			args.Keyword = stringKeyMap(v.Kwargs, NewNative)
		}
		return args, nil
	case *Call:
		if v != nil {
			return NewNative(*v).ValidateArgs()
		}
	}
	if seq, ok := n.sequence(); ok {
		return &Args{Positional: collect(seq)}, nil
	}
	if m, err := n.ValidateDict(false); err == nil {
		return &Args{Keyword: m}, nil
	}
	return nil, typeError(valerr.ArgumentsType, n)
}

func (n Native) ValidateDataclassArgs(className string) (*Args, error) {
	switch n.v.(type) {
	case Call, *Call:
		return n.ValidateArgs()
	}
	if m, err := n.ValidateDict(false); err == nil {
		return &Args{Keyword: m}, nil
	}
	return nil, valerr.NewWithContext(valerr.DataclassType, n.v, "class_name", className).Err()
}

func (n Native) ParseJSON(opts ...jsonvalue.Option) (Input, error) {
	var data []byte
	switch v := n.v.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return nil, typeError(valerr.JSONType, n)
	}
	jv, err := jsonvalue.Parse(data, opts...)
	if err != nil {
		return nil, jsonError(err, n)
	}
	return NewJSON(jv), nil
}

// text returns string-like values used by lax coercions.
func (n Native) text() (string, bool) {
	switch v := n.v.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	return "", false
}

func (n Native) sequence() (Sequence, bool) {
	switch v := n.v.(type) {
	case []any:
		return sequence{n: len(v), at: func(i int) Input { return NewNative(v[i]) }}, true
	case []byte, string:
		return nil, false
	}
	rv := reflect.ValueOf(n.v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return sequence{n: rv.Len(), at: func(i int) Input { return NewNative(rv.Index(i).Interface()) }}, true
	}
	return nil, false
}

func nativeInt(v any) (scalar.Int, bool) {
	switch x := v.(type) {
	case int:
		return scalar.IntFrom64(int64(x)), true
	case int8:
		return scalar.IntFrom64(int64(x)), true
	case int16:
		return scalar.IntFrom64(int64(x)), true
	case int32:
		return scalar.IntFrom64(int64(x)), true
	case int64:
		return scalar.IntFrom64(x), true
	case uint:
		return scalar.IntFromUint64(uint64(x)), true
	case uint8:
		return scalar.IntFrom64(int64(x)), true
	case uint16:
		return scalar.IntFrom64(int64(x)), true
	case uint32:
		return scalar.IntFrom64(int64(x)), true
	case uint64:
		return scalar.IntFromUint64(x), true
	case *big.Int:
		if x != nil {
			return scalar.IntFromBig(x), true
		}
	}
	return scalar.Int{}, false
}

func reflectInt(v any) (scalar.Int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scalar.IntFrom64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return scalar.IntFromUint64(rv.Uint()), true
	}
	return scalar.Int{}, false
}

func nativeFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	return 0, false
}

func parseUUID(s string, in Input) (uuid.UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, valerr.NewWithContext(valerr.UUIDParsing, in.AsErrorValue(), "error", err.Error()).Err()
	}
	return u, nil
}

func stringKeyMap[V any](m map[string]V, wrap func(any) Native) Mapping {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return mapping{
		n: len(m),
		all: func(yield func(Input, Input) bool) {
			for _, k := range keys {
				if !yield(wrap(k), wrap(m[k])) {
					return
				}
			}
		},
		get: func(key string) (Input, bool) {
			v, ok := m[key]
			if !ok {
				return nil, false
			}
			return wrap(v), true
		},
	}
}

func orderedMap(m *ordered.Map) Mapping {
	return mapping{
		n: m.Len(),
		all: func(yield func(Input, Input) bool) {
			for k, v := range m.All() {
				if !yield(NewNative(k), NewNative(v)) {
					return
				}
			}
		},
		get: func(key string) (Input, bool) {
			v, ok := m.Get(key)
			if !ok {
				return nil, false
			}
			return NewNative(v), true
		},
	}
}

func reflectMap(rv reflect.Value) Mapping {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	return mapping{
		n: len(keys),
		all: func(yield func(Input, Input) bool) {
			for _, k := range keys {
				if !yield(NewNative(k.Interface()), NewNative(rv.MapIndex(k).Interface())) {
					return
				}
			}
		},
		get: func(key string) (Input, bool) {
			kt := rv.Type().Key()
			kv := reflect.ValueOf(key)
			if !kv.Type().AssignableTo(kt) {
				if kt.Kind() != reflect.String || !kv.Type().ConvertibleTo(kt) {
					return nil, false
				}
				kv = kv.Convert(kt)
			}
			v := rv.MapIndex(kv)
			if !v.IsValid() {
				return nil, false
			}
			return NewNative(v.Interface()), true
		},
	}
}

func setSequence(s *ordered.Set) Sequence {
	items := s.Items()
	return sequence{n: len(items), at: func(i int) Input { return NewNative(items[i]) }}
}

func mappingKeys(m Mapping) Sequence {
	keys := make([]Input, 0, m.Len())
	for k := range m.All() {
		keys = append(keys, k)
	}
	return sequence{n: len(keys), at: func(i int) Input { return keys[i] }}
}

func collect(seq Sequence) []Input {
	out := make([]Input, 0, seq.Len())
	for _, item := range seq.All() {
		out = append(out, item)
	}
	return out
}
