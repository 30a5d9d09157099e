package input

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/coerce/pkg/jsonvalue"
	"github.com/dmitrymomot/coerce/pkg/scalar"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

// Key is a bare string used as a mapping key, e.g. a JSON object key.
// It is an exact string; other scalars are parsed from it in lax mode only.
type Key string

func (k Key) IsNone() bool { return false }

func (k Key) AsLocItem() valerr.LocItem { return valerr.Key(string(k)) }

func (k Key) AsErrorValue() any { return string(k) }

func (k Key) Identity() (uintptr, bool) { return 0, false }

func (k Key) ExactStr() (string, bool) { return string(k), true }

func (k Key) ExactInt() (scalar.Int, bool) { return scalar.Int{}, false }

func (k Key) ValidateStr(bool) (Match[string], error) {
	return ExactMatch(string(k)), nil
}

func (k Key) ValidateBytes(bool) (Match[[]byte], error) {
	return StrictMatch([]byte(k)), nil
}

func (k Key) ValidateBool(strict bool) (Match[bool], error) {
	if strict {
		return fail[bool](valerr.BoolType, k)
	}
	return laxed(strToBool(string(k), k))
}

func (k Key) ValidateInt(strict bool) (Match[scalar.Int], error) {
	if strict {
		return fail[scalar.Int](valerr.IntType, k)
	}
	return laxed(strToInt(string(k), k))
}

func (k Key) ValidateFloat(strict bool) (Match[float64], error) {
	if strict {
		return fail[float64](valerr.FloatType, k)
	}
	return laxed(strToFloat(string(k), k))
}

func (k Key) ValidateDate(bool) (Match[scalar.Date], error) {
	return tag[scalar.Date](k, Strict)(scalar.ParseDate(string(k)))
}

func (k Key) ValidateTime(_ bool, overflow scalar.MicrosecondsOverflow) (Match[scalar.Time], error) {
	return tag[scalar.Time](k, Strict)(scalar.ParseTime(string(k), overflow))
}

func (k Key) ValidateDateTime(_ bool, overflow scalar.MicrosecondsOverflow) (Match[scalar.DateTime], error) {
	return tag[scalar.DateTime](k, Strict)(scalar.ParseDateTime(string(k), overflow))
}

func (k Key) ValidateTimedelta(_ bool, overflow scalar.MicrosecondsOverflow) (Match[scalar.Duration], error) {
	return tag[scalar.Duration](k, Strict)(scalar.ParseDuration(string(k), overflow))
}

func (k Key) ValidateUUID(bool) (Match[uuid.UUID], error) {
	return stricted(parseUUID(string(k), k))
}

func (k Key) ValidateDict(bool) (Mapping, error) {
	return nil, typeError(valerr.DictType, k)
}

func (k Key) ValidateList(bool) (Sequence, error) {
	return nil, typeError(valerr.ListType, k)
}

func (k Key) ValidateTuple(bool) (Sequence, error) {
	return nil, typeError(valerr.TupleType, k)
}

func (k Key) ValidateSet(bool) (Sequence, error) {
	return nil, typeError(valerr.SetType, k)
}

func (k Key) ExtractIterable() (Sequence, error) {
	return runes(string(k), func(s string) Input { return Key(s) }), nil
}

func (k Key) ValidateArgs() (*Args, error) {
	return nil, typeError(valerr.ArgumentsType, k)
}

func (k Key) ValidateDataclassArgs(className string) (*Args, error) {
	return nil, valerr.NewWithContext(valerr.DataclassType, string(k), "class_name", className).Err()
}

func (k Key) ParseJSON(opts ...jsonvalue.Option) (Input, error) {
	jv, err := jsonvalue.ParseString(string(k), opts...)
	if err != nil {
		return nil, jsonError(err, k)
	}
	return NewJSON(jv), nil
}
