package input

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/google/uuid"

	"github.com/dmitrymomot/coerce/pkg/jsonvalue"
	"github.com/dmitrymomot/coerce/pkg/scalar"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

// StringMapping is a value from a string-only source such as environment
// variables, form values or query strings: either a string or a mapping of
// string keys to further StringMapping values.
//
// Strings are the only carrier of typed data here, so every scalar type is
// parsed from them in strict mode as well.
type StringMapping struct {
	s     string
	m     map[string]StringMapping
	isMap bool
}

// NewStringMapping converts v into a StringMapping. Accepted shapes are
// string, map[string]string, url.Values (first value per key) and
// map[string]any whose values are again accepted shapes.
func NewStringMapping(v any) (StringMapping, error) {
	switch x := v.(type) {
	case string:
		return StringMapping{s: x}, nil
	case map[string]string:
		m := make(map[string]StringMapping, len(x))
		for k, s := range x {
			m[k] = StringMapping{s: s}
		}
		return StringMapping{m: m, isMap: true}, nil
	case url.Values:
		m := make(map[string]StringMapping, len(x))
		for k := range x {
			m[k] = StringMapping{s: x.Get(k)}
		}
		return StringMapping{m: m, isMap: true}, nil
	case map[string]any:
		m := make(map[string]StringMapping, len(x))
		for k, item := range x {
			sm, err := NewStringMapping(item)
			if err != nil {
				return StringMapping{}, fmt.Errorf("%w: key %q", err, k)
			}
			m[k] = sm
		}
		return StringMapping{m: m, isMap: true}, nil
	}
	return StringMapping{}, fmt.Errorf("%w: got %T", ErrInvalidStringMapping, v)
}

func (sm StringMapping) IsNone() bool { return false }

func (sm StringMapping) AsLocItem() valerr.LocItem {
	if sm.isMap {
		return valerr.Key(fmt.Sprint(sm.AsErrorValue()))
	}
	return valerr.Key(sm.s)
}

func (sm StringMapping) AsErrorValue() any {
	if !sm.isMap {
		return sm.s
	}
	out := make(map[string]any, len(sm.m))
	for k, v := range sm.m {
		out[k] = v.AsErrorValue()
	}
	return out
}

func (sm StringMapping) Identity() (uintptr, bool) { return 0, false }

func (sm StringMapping) ExactStr() (string, bool) { return sm.s, !sm.isMap }

func (sm StringMapping) ExactInt() (scalar.Int, bool) { return scalar.Int{}, false }

func (sm StringMapping) ValidateStr(bool) (Match[string], error) {
	if sm.isMap {
		return fail[string](valerr.StringType, sm)
	}
	return ExactMatch(sm.s), nil
}

func (sm StringMapping) ValidateBytes(bool) (Match[[]byte], error) {
	if sm.isMap {
		return fail[[]byte](valerr.BytesType, sm)
	}
	return StrictMatch([]byte(sm.s)), nil
}

func (sm StringMapping) ValidateBool(bool) (Match[bool], error) {
	if sm.isMap {
		return fail[bool](valerr.BoolType, sm)
	}
	return stricted(strToBool(sm.s, sm))
}

func (sm StringMapping) ValidateInt(bool) (Match[scalar.Int], error) {
	if sm.isMap {
		return fail[scalar.Int](valerr.IntType, sm)
	}
	return stricted(strToInt(sm.s, sm))
}

func (sm StringMapping) ValidateFloat(bool) (Match[float64], error) {
	if sm.isMap {
		return fail[float64](valerr.FloatType, sm)
	}
	return stricted(strToFloat(sm.s, sm))
}

func (sm StringMapping) ValidateDate(bool) (Match[scalar.Date], error) {
	if sm.isMap {
		return fail[scalar.Date](valerr.DateType, sm)
	}
	return tag[scalar.Date](sm, Strict)(scalar.ParseDate(sm.s))
}

func (sm StringMapping) ValidateTime(_ bool, overflow scalar.MicrosecondsOverflow) (Match[scalar.Time], error) {
	if sm.isMap {
		return fail[scalar.Time](valerr.TimeType, sm)
	}
	return tag[scalar.Time](sm, Strict)(scalar.ParseTime(sm.s, overflow))
}

func (sm StringMapping) ValidateDateTime(_ bool, overflow scalar.MicrosecondsOverflow) (Match[scalar.DateTime], error) {
	if sm.isMap {
		return fail[scalar.DateTime](valerr.DatetimeType, sm)
	}
	return tag[scalar.DateTime](sm, Strict)(scalar.ParseDateTime(sm.s, overflow))
}

func (sm StringMapping) ValidateTimedelta(_ bool, overflow scalar.MicrosecondsOverflow) (Match[scalar.Duration], error) {
	if sm.isMap {
		return fail[scalar.Duration](valerr.TimeDeltaType, sm)
	}
	return tag[scalar.Duration](sm, Strict)(scalar.ParseDuration(sm.s, overflow))
}

func (sm StringMapping) ValidateUUID(bool) (Match[uuid.UUID], error) {
	if sm.isMap {
		return fail[uuid.UUID](valerr.UUIDType, sm)
	}
	return stricted(parseUUID(sm.s, sm))
}

func (sm StringMapping) ValidateDict(bool) (Mapping, error) {
	if !sm.isMap {
		return nil, typeError(valerr.DictType, sm)
	}
	keys := make([]string, 0, len(sm.m))
	for k := range sm.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return mapping{
		n: len(keys),
		all: func(yield func(Input, Input) bool) {
			for _, k := range keys {
				if !yield(StringMapping{s: k}, sm.m[k]) {
					return
				}
			}
		},
		get: func(key string) (Input, bool) {
			v, ok := sm.m[key]
			if !ok {
				return nil, false
			}
			return v, true
		},
	}, nil
}

func (sm StringMapping) ValidateList(bool) (Sequence, error) {
	return nil, typeError(valerr.ListType, sm)
}

func (sm StringMapping) ValidateTuple(bool) (Sequence, error) {
	return nil, typeError(valerr.TupleType, sm)
}

func (sm StringMapping) ValidateSet(bool) (Sequence, error) {
	return nil, typeError(valerr.SetType, sm)
}

func (sm StringMapping) ExtractIterable() (Sequence, error) {
	return nil, typeError(valerr.IterableType, sm)
}

func (sm StringMapping) ValidateArgs() (*Args, error) {
	return nil, typeError(valerr.ArgumentsType, sm)
}

func (sm StringMapping) ValidateDataclassArgs(string) (*Args, error) {
	return sm.ValidateArgs()
}

func (sm StringMapping) ParseJSON(opts ...jsonvalue.Option) (Input, error) {
	if sm.isMap {
		return nil, typeError(valerr.JSONType, sm)
	}
	jv, err := jsonvalue.ParseString(sm.s, opts...)
	if err != nil {
		return nil, jsonError(err, sm)
	}
	return NewJSON(jv), nil
}
