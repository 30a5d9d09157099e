package validator

import (
	"math"
	"math/big"
	"regexp"
	"unicode/utf8"

	"github.com/dmitrymomot/coerce/pkg/input"
	"github.com/dmitrymomot/coerce/pkg/jsonvalue"
	"github.com/dmitrymomot/coerce/pkg/ordered"
	"github.com/dmitrymomot/coerce/pkg/scalar"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

// anyValidator accepts every input and returns its plain Go value.
type anyValidator struct{}

func (anyValidator) Validate(in input.Input, _ *State) (any, error) { return plain(in), nil }
func (anyValidator) Name() string { return "any" }
func (anyValidator) DifferentStrictBehavior(bool) bool { return false }

// plain converts an input into the values validators produce: JSON
// objects become *ordered.Map and arrays []any.
func plain(in input.Input) any {
	switch x := in.(type) {
	case input.Native:
		return x.Value()
	case input.JSON:
		return plainJSON(x.Value())
	case input.Key:
		return string(x)
	}
	return in.AsErrorValue()
}

func plainJSON(v *jsonvalue.Value) any {
	switch v.Kind() {
	case jsonvalue.KindArray:
		items := v.Array()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = plainJSON(item)
		}
		return out
	case jsonvalue.KindObject:
		obj := v.Object()
		out := ordered.NewMap(obj.Len())
		for k, item := range obj.All() {
			out.Set(k, plainJSON(item))
		}
		return out
	}
	return v.Interface()
}

type noneValidator struct{}

func (noneValidator) Validate(in input.Input, _ *State) (any, error) {
	if in.IsNone() {
		return nil, nil
	}
	return nil, valerr.New(valerr.NoneRequired, in.AsErrorValue()).Err()
}

func (noneValidator) Name() string { return "none" }
func (noneValidator) DifferentStrictBehavior(bool) bool { return false }

type strValidator struct {
	strict    bool
	transform func(string) string
	minLength *int
	maxLength *int
	pattern   *regexp.Regexp
}

func (v *strValidator) Validate(in input.Input, st *State) (any, error) {
	s, err := record[string](st)(in.ValidateStr(st.Strict(v.strict)))
	if err != nil {
		return nil, err
	}
	if v.transform != nil {
		s = v.transform(s)
	}
	if v.minLength != nil || v.maxLength != nil {
		n := utf8.RuneCountInString(s)
		if v.minLength != nil && n < *v.minLength {
			return nil, valerr.NewWithContext(valerr.StringTooShort, in.AsErrorValue(), "min_length", *v.minLength).Err()
		}
		if v.maxLength != nil && n > *v.maxLength {
			return nil, valerr.NewWithContext(valerr.StringTooLong, in.AsErrorValue(), "max_length", *v.maxLength).Err()
		}
	}
	if v.pattern != nil && !v.pattern.MatchString(s) {
		return nil, valerr.NewWithContext(valerr.StringPatternMismatch, in.AsErrorValue(), "pattern", v.pattern.String()).Err()
	}
	return s, nil
}

func (v *strValidator) Name() string { return "str" }
func (v *strValidator) DifferentStrictBehavior(ultraStrict bool) bool { return !ultraStrict }

type bytesValidator struct {
	strict    bool
	minLength *int
	maxLength *int
}

func (v *bytesValidator) Validate(in input.Input, st *State) (any, error) {
	b, err := record[[]byte](st)(in.ValidateBytes(st.Strict(v.strict)))
	if err != nil {
		return nil, err
	}
	if v.minLength != nil && len(b) < *v.minLength {
		return nil, valerr.NewWithContext(valerr.BytesTooShort, in.AsErrorValue(), "min_length", *v.minLength).Err()
	}
	if v.maxLength != nil && len(b) > *v.maxLength {
		return nil, valerr.NewWithContext(valerr.BytesTooLong, in.AsErrorValue(), "max_length", *v.maxLength).Err()
	}
	return b, nil
}

func (v *bytesValidator) Name() string { return "bytes" }
func (v *bytesValidator) DifferentStrictBehavior(ultraStrict bool) bool { return !ultraStrict }

type boolValidator struct {
	strict bool
}

func (v *boolValidator) Validate(in input.Input, st *State) (any, error) {
	b, err := record[bool](st)(in.ValidateBool(st.Strict(v.strict)))
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (v *boolValidator) Name() string { return "bool" }
func (v *boolValidator) DifferentStrictBehavior(ultraStrict bool) bool { return !ultraStrict }

// bounds are the numeric constraints shared by int and float.
type bounds struct {
	gt, ge, lt, le, multipleOf *float64
}

func (b bounds) empty() bool {
	return b.gt == nil && b.ge == nil && b.lt == nil && b.le == nil && b.multipleOf == nil
}

// ctxNumber renders a bound the way users wrote it: whole bounds as integers.
func ctxNumber(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
		return int64(f)
	}
	return f
}

type intValidator struct {
	strict bool
	bounds
}

func (v *intValidator) Validate(in input.Input, st *State) (any, error) {
	i, err := record[scalar.Int](st)(in.ValidateInt(st.Strict(v.strict)))
	if err != nil {
		return nil, err
	}
	if !v.empty() {
		if err := v.check(i, in); err != nil {
			return nil, err
		}
	}
	return i.Value(), nil
}

func (v *intValidator) check(i scalar.Int, in input.Input) error {
	fail := func(t valerr.ErrorType, key string, bound float64) error {
		return valerr.NewWithContext(t, in.AsErrorValue(), key, ctxNumber(bound)).Err()
	}
	if m := v.multipleOf; m != nil && !intMultipleOf(i, *m) {
		return fail(valerr.MultipleOf, "multiple_of", *m)
	}
	if v.le != nil && cmpIntFloat(i, *v.le) > 0 {
		return fail(valerr.LessThanEqual, "le", *v.le)
	}
	if v.lt != nil && cmpIntFloat(i, *v.lt) >= 0 {
		return fail(valerr.LessThan, "lt", *v.lt)
	}
	if v.ge != nil && cmpIntFloat(i, *v.ge) < 0 {
		return fail(valerr.GreaterThanEqual, "ge", *v.ge)
	}
	if v.gt != nil && cmpIntFloat(i, *v.gt) <= 0 {
		return fail(valerr.GreaterThan, "gt", *v.gt)
	}
	return nil
}

func cmpIntFloat(i scalar.Int, f float64) int {
	if n, ok := i.Int64(); ok && math.Abs(f) < 1<<53 && n > -(1<<53) && n < 1<<53 {
		x := float64(n)
		switch {
		case x < f:
			return -1
		case x > f:
			return 1
		}
		return 0
	}
	return new(big.Float).SetInt(i.Big()).Cmp(big.NewFloat(f))
}

func intMultipleOf(i scalar.Int, m float64) bool {
	if m == math.Trunc(m) && math.Abs(m) < 1<<63 && m != 0 {
		rem := new(big.Int).Rem(i.Big(), big.NewInt(int64(m)))
		return rem.Sign() == 0
	}
	return floatMultipleOf(i.Float64(), m)
}

func (v *intValidator) Name() string { return "int" }
func (v *intValidator) DifferentStrictBehavior(ultraStrict bool) bool { return !ultraStrict }

type floatValidator struct {
	strict      bool
	allowInfNaN bool
	bounds
}

func (v *floatValidator) Validate(in input.Input, st *State) (any, error) {
	f, err := record[float64](st)(in.ValidateFloat(st.Strict(v.strict)))
	if err != nil {
		return nil, err
	}
	if !v.allowInfNaN && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil, valerr.New(valerr.FiniteNumber, in.AsErrorValue()).Err()
	}
	if !v.empty() {
		if err := v.check(f, in); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Comparisons are negated so that NaN fails every bound.
func (v *floatValidator) check(f float64, in input.Input) error {
	fail := func(t valerr.ErrorType, key string, bound float64) error {
		return valerr.NewWithContext(t, in.AsErrorValue(), key, bound).Err()
	}
	if m := v.multipleOf; m != nil && !floatMultipleOf(f, *m) {
		return fail(valerr.MultipleOf, "multiple_of", *m)
	}
	if v.le != nil && !(f <= *v.le) {
		return fail(valerr.LessThanEqual, "le", *v.le)
	}
	if v.lt != nil && !(f < *v.lt) {
		return fail(valerr.LessThan, "lt", *v.lt)
	}
	if v.ge != nil && !(f >= *v.ge) {
		return fail(valerr.GreaterThanEqual, "ge", *v.ge)
	}
	if v.gt != nil && !(f > *v.gt) {
		return fail(valerr.GreaterThan, "gt", *v.gt)
	}
	return nil
}

func floatMultipleOf(f, m float64) bool {
	if m == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	rem := math.Mod(f, m)
	threshold := math.Abs(f) / 1e9
	return math.Abs(rem) <= threshold || math.Abs(math.Abs(rem)-math.Abs(m)) <= threshold
}

func (v *floatValidator) Name() string { return "float" }

// Strict float rejects strings and booleans that lax accepts, and even in
// ultra strict mode ints are only a Strict match.
func (v *floatValidator) DifferentStrictBehavior(bool) bool { return true }
