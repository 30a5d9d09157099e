package input

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/coerce/pkg/jsonvalue"
	"github.com/dmitrymomot/coerce/pkg/scalar"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

// JSON is a node of a parsed JSON document.
//
// JSON strings match str as Strict rather than Exact: the same string may
// carry a date or a uuid, which then matches those types equally well.
type JSON struct {
	v *jsonvalue.Value
}

func NewJSON(v *jsonvalue.Value) JSON { return JSON{v: v} }

func (j JSON) Value() *jsonvalue.Value { return j.v }

func (j JSON) IsNone() bool { return j.v.IsNull() }

func (j JSON) AsLocItem() valerr.LocItem {
	switch j.v.Kind() {
	case jsonvalue.KindInt:
		return valerr.Index(int(j.v.Int()))
	case jsonvalue.KindString:
		return valerr.Key(j.v.Str())
	}
	return valerr.Key(fmt.Sprint(j.v.Interface()))
}

func (j JSON) AsErrorValue() any { return j.v.Interface() }

// Identity is never reported: parsed trees cannot contain cycles.
func (j JSON) Identity() (uintptr, bool) { return 0, false }

func (j JSON) ExactStr() (string, bool) {
	if j.v.Kind() == jsonvalue.KindString {
		return j.v.Str(), true
	}
	return "", false
}

func (j JSON) ExactInt() (scalar.Int, bool) {
	switch j.v.Kind() {
	case jsonvalue.KindInt:
		return scalar.IntFrom64(j.v.Int()), true
	case jsonvalue.KindUint:
		return scalar.IntFromUint64(j.v.Uint()), true
	case jsonvalue.KindBigInt:
		return scalar.IntFromBig(j.v.BigInt()), true
	}
	return scalar.Int{}, false
}

func (j JSON) ValidateStr(bool) (Match[string], error) {
	if s, ok := j.ExactStr(); ok {
		return StrictMatch(s), nil
	}
	return fail[string](valerr.StringType, j)
}

func (j JSON) ValidateBytes(bool) (Match[[]byte], error) {
	if s, ok := j.ExactStr(); ok {
		return StrictMatch([]byte(s)), nil
	}
	return fail[[]byte](valerr.BytesType, j)
}

func (j JSON) ValidateBool(strict bool) (Match[bool], error) {
	switch j.v.Kind() {
	case jsonvalue.KindBool:
		return ExactMatch(j.v.Bool()), nil
	}
	if strict {
		return fail[bool](valerr.BoolType, j)
	}
	switch j.v.Kind() {
	case jsonvalue.KindString:
		return laxed(strToBool(j.v.Str(), j))
	case jsonvalue.KindInt, jsonvalue.KindUint, jsonvalue.KindBigInt:
		i, _ := j.ExactInt()
		return laxed(intToBool(i, j))
	case jsonvalue.KindFloat:
		i, err := scalar.FloatAsInt(j.v.Float())
		if err != nil {
			return fail[bool](valerr.BoolType, j)
		}
		return laxed(intToBool(i, j))
	}
	return fail[bool](valerr.BoolType, j)
}

func (j JSON) ValidateInt(strict bool) (Match[scalar.Int], error) {
	if i, ok := j.ExactInt(); ok {
		return ExactMatch(i), nil
	}
	if strict {
		return fail[scalar.Int](valerr.IntType, j)
	}
	switch j.v.Kind() {
	case jsonvalue.KindBool:
		if j.v.Bool() {
			return LaxMatch(scalar.IntFrom64(1)), nil
		}
		return LaxMatch(scalar.IntFrom64(0)), nil
	case jsonvalue.KindFloat:
		return laxed(floatToInt(j.v.Float(), j))
	case jsonvalue.KindString:
		return laxed(strToInt(j.v.Str(), j))
	}
	return fail[scalar.Int](valerr.IntType, j)
}

func (j JSON) ValidateFloat(strict bool) (Match[float64], error) {
	switch j.v.Kind() {
	case jsonvalue.KindFloat:
		return ExactMatch(j.v.Float()), nil
	case jsonvalue.KindInt:
		return StrictMatch(float64(j.v.Int())), nil
	case jsonvalue.KindUint:
		return StrictMatch(float64(j.v.Uint())), nil
	}
	if strict {
		return fail[float64](valerr.FloatType, j)
	}
	switch j.v.Kind() {
	case jsonvalue.KindBool:
		if j.v.Bool() {
			return LaxMatch(1.0), nil
		}
		return LaxMatch(0.0), nil
	case jsonvalue.KindString:
		return laxed(strToFloat(j.v.Str(), j))
	}
	return fail[float64](valerr.FloatType, j)
}

// ValidateDate only parses strings. Lax date-from-datetime is handled by
// the date validator on top of ValidateDateTime.
func (j JSON) ValidateDate(bool) (Match[scalar.Date], error) {
	if s, ok := j.ExactStr(); ok {
		return tag[scalar.Date](j, Strict)(scalar.ParseDate(s))
	}
	return fail[scalar.Date](valerr.DateType, j)
}

func (j JSON) ValidateTime(strict bool, overflow scalar.MicrosecondsOverflow) (Match[scalar.Time], error) {
	if s, ok := j.ExactStr(); ok {
		return tag[scalar.Time](j, Strict)(scalar.ParseTime(s, overflow))
	}
	if !strict {
		switch j.v.Kind() {
		case jsonvalue.KindInt:
			return tag[scalar.Time](j, Lax)(scalar.SecondsAsTime(j.v.Int(), 0))
		case jsonvalue.KindFloat:
			return tag[scalar.Time](j, Lax)(scalar.FloatAsTime(j.v.Float()))
		case jsonvalue.KindUint, jsonvalue.KindBigInt:
			return Match[scalar.Time]{}, valerr.NewWithContext(valerr.TimeParsing, j.AsErrorValue(), "error", "time value is too large").Err()
		}
	}
	return fail[scalar.Time](valerr.TimeType, j)
}

func (j JSON) ValidateDateTime(strict bool, overflow scalar.MicrosecondsOverflow) (Match[scalar.DateTime], error) {
	if s, ok := j.ExactStr(); ok {
		return tag[scalar.DateTime](j, Strict)(scalar.ParseDateTime(s, overflow))
	}
	if !strict {
		switch j.v.Kind() {
		case jsonvalue.KindInt:
			return tag[scalar.DateTime](j, Lax)(scalar.IntAsDateTime(j.v.Int(), 0))
		case jsonvalue.KindFloat:
			return tag[scalar.DateTime](j, Lax)(scalar.FloatAsDateTime(j.v.Float()))
		}
	}
	return fail[scalar.DateTime](valerr.DatetimeType, j)
}

func (j JSON) ValidateTimedelta(strict bool, overflow scalar.MicrosecondsOverflow) (Match[scalar.Duration], error) {
	if s, ok := j.ExactStr(); ok {
		return tag[scalar.Duration](j, Strict)(scalar.ParseDuration(s, overflow))
	}
	if !strict {
		switch j.v.Kind() {
		case jsonvalue.KindInt:
			return LaxMatch(scalar.SecondsAsDuration(j.v.Int())), nil
		case jsonvalue.KindFloat:
			return tag[scalar.Duration](j, Lax)(scalar.FloatAsDuration(j.v.Float()))
		}
	}
	return fail[scalar.Duration](valerr.TimeDeltaType, j)
}

func (j JSON) ValidateUUID(bool) (Match[uuid.UUID], error) {
	if s, ok := j.ExactStr(); ok {
		return stricted(parseUUID(s, j))
	}
	return fail[uuid.UUID](valerr.UUIDType, j)
}

func (j JSON) ValidateDict(bool) (Mapping, error) {
	if j.v.Kind() == jsonvalue.KindObject {
		return jsonObject(j.v.Object()), nil
	}
	return nil, typeError(valerr.DictType, j)
}

func (j JSON) ValidateList(bool) (Sequence, error) {
	return j.array(valerr.ListType)
}

func (j JSON) ValidateTuple(bool) (Sequence, error) {
	return j.array(valerr.TupleType)
}

// ValidateSet accepts arrays since JSON has no set type.
func (j JSON) ValidateSet(bool) (Sequence, error) {
	return j.array(valerr.SetType)
}

func (j JSON) ExtractIterable() (Sequence, error) {
	switch j.v.Kind() {
	case jsonvalue.KindArray:
		return j.array(valerr.IterableType)
	case jsonvalue.KindString:
		return runes(j.v.Str(), func(s string) Input { return NewJSON(jsonvalue.String(s)) }), nil
	case jsonvalue.KindObject:
		keys := j.v.Object().Keys()
		return sequence{n: len(keys), at: func(i int) Input { return NewJSON(jsonvalue.String(keys[i])) }}, nil
	}
	return nil, typeError(valerr.IterableType, j)
}

func (j JSON) ValidateArgs() (*Args, error) {
	switch j.v.Kind() {
	case jsonvalue.KindObject:
		return &Args{Keyword: jsonObject(j.v.Object())}, nil
	case jsonvalue.KindArray:
		seq, _ := j.array(valerr.ArgumentsType)
		return &Args{Positional: collect(seq)}, nil
	}
	return nil, typeError(valerr.ArgumentsType, j)
}

func (j JSON) ValidateDataclassArgs(className string) (*Args, error) {
	if j.v.Kind() == jsonvalue.KindObject {
		return &Args{Keyword: jsonObject(j.v.Object())}, nil
	}
	return nil, valerr.NewWithContext(valerr.DataclassType, j.AsErrorValue(), "class_name", className).Err()
}

func (j JSON) ParseJSON(opts ...jsonvalue.Option) (Input, error) {
	s, ok := j.ExactStr()
	if !ok {
		return nil, typeError(valerr.JSONType, j)
	}
	jv, err := jsonvalue.ParseString(s, opts...)
	if err != nil {
		return nil, jsonError(err, j)
	}
	return NewJSON(jv), nil
}

func (j JSON) array(t valerr.ErrorType) (Sequence, error) {
	if j.v.Kind() != jsonvalue.KindArray {
		return nil, typeError(t, j)
	}
	items := j.v.Array()
	return sequence{n: len(items), at: func(i int) Input { return NewJSON(items[i]) }}, nil
}

// jsonObject yields keys as Key inputs so that key validators see bare strings.
func jsonObject(o *jsonvalue.Object) Mapping {
	return mapping{
		n: o.Len(),
		all: func(yield func(Input, Input) bool) {
			for k, v := range o.All() {
				if !yield(Key(k), NewJSON(v)) {
					return
				}
			}
		},
		get: func(key string) (Input, bool) {
			v, ok := o.Get(key)
			if !ok {
				return nil, false
			}
			return NewJSON(v), true
		},
	}
}
