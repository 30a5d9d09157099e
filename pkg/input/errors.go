package input

import (
	"errors"
	"strings"

	"github.com/dmitrymomot/coerce/pkg/jsonvalue"
	"github.com/dmitrymomot/coerce/pkg/scalar"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

var ErrInvalidStringMapping = errors.New("string mapping values must be strings or string mappings")

// maxIntDigits bounds string to int parsing.
const maxIntDigits = 4300

// coercionError maps a scalar helper failure onto the error taxonomy.
func coercionError(err error, in Input) error {
	v := in.AsErrorValue()
	reason := scalar.Reason(err)
	switch {
	case errors.Is(err, scalar.ErrFiniteNumber):
		return valerr.New(valerr.FiniteNumber, v).Err()
	case errors.Is(err, scalar.ErrIntFromFloat):
		return valerr.New(valerr.IntFromFloat, v).Err()
	case errors.Is(err, scalar.ErrBoolParsing):
		return valerr.New(valerr.BoolParsing, v).Err()
	case errors.Is(err, scalar.ErrIntParsing):
		return valerr.New(valerr.IntParsing, v).Err()
	case errors.Is(err, scalar.ErrFloatParsing):
		return valerr.New(valerr.FloatParsing, v).Err()
	case errors.Is(err, scalar.ErrDateParsing):
		return valerr.NewWithContext(valerr.DateParsing, v, "error", reason).Err()
	case errors.Is(err, scalar.ErrTimeParsing):
		return valerr.NewWithContext(valerr.TimeParsing, v, "error", reason).Err()
	case errors.Is(err, scalar.ErrDateTimeParsing):
		return valerr.NewWithContext(valerr.DatetimeParsing, v, "error", reason).Err()
	case errors.Is(err, scalar.ErrDurationParsing):
		return valerr.NewWithContext(valerr.TimeDeltaParsing, v, "error", reason).Err()
	}
	return valerr.Internal(err)
}

func jsonError(err error, in Input) error {
	msg := strings.TrimPrefix(err.Error(), jsonvalue.ErrInvalidJSON.Error()+": ")
	return valerr.NewWithContext(valerr.JSONInvalid, in.AsErrorValue(), "error", msg).Err()
}

// The helpers below convert a string with the scalar package and translate
// failures for in.

func strToBool(s string, in Input) (bool, error) {
	b, err := scalar.StrAsBool(s)
	if err != nil {
		return false, coercionError(err, in)
	}
	return b, nil
}

func strToInt(s string, in Input) (scalar.Int, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxIntDigits {
		return scalar.Int{}, valerr.New(valerr.IntParsingSize, in.AsErrorValue()).Err()
	}
	i, err := scalar.StrAsInt(s)
	if err != nil {
		return scalar.Int{}, coercionError(err, in)
	}
	return i, nil
}

func strToFloat(s string, in Input) (float64, error) {
	f, err := scalar.StrAsFloat(strings.TrimSpace(s), true)
	if err != nil {
		return 0, coercionError(err, in)
	}
	return f, nil
}

func floatToInt(f float64, in Input) (scalar.Int, error) {
	i, err := scalar.FloatAsInt(f)
	if err != nil {
		return scalar.Int{}, coercionError(err, in)
	}
	return i, nil
}

func intToBool(i scalar.Int, in Input) (bool, error) {
	b, err := scalar.IntAsBool(i)
	if err != nil {
		return false, coercionError(err, in)
	}
	return b, nil
}

func floatToBool(f float64, in Input) (bool, error) {
	switch f {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, valerr.New(valerr.BoolParsing, in.AsErrorValue()).Err()
}

// tag translates a scalar conversion result for in and tags a success with e.
func tag[T any](in Input, e Exactness) func(T, error) (Match[T], error) {
	return func(v T, err error) (Match[T], error) {
		if err != nil {
			return Match[T]{}, coercionError(err, in)
		}
		return Match[T]{Value: v, Exactness: e}, nil
	}
}
