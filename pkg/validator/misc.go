package validator

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/coerce/pkg/input"
	"github.com/dmitrymomot/coerce/pkg/scalar"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

type uuidValidator struct {
	strict  bool
	version int
}

func (v *uuidValidator) Validate(in input.Input, st *State) (any, error) {
	u, err := record[uuid.UUID](st)(in.ValidateUUID(st.Strict(v.strict)))
	if err != nil {
		return nil, err
	}
	if v.version != 0 && int(u.Version()) != v.version {
		return nil, valerr.NewWithContext(valerr.UUIDParsing, in.AsErrorValue(),
			"error", fmt.Sprintf("expected version %d, got %d", v.version, u.Version())).Err()
	}
	return u, nil
}

func (v *uuidValidator) Name() string { return "uuid" }
func (v *uuidValidator) DifferentStrictBehavior(ultraStrict bool) bool { return !ultraStrict }

// literalValidator accepts one of a fixed set of values. Matching is exact:
// "1" never matches 1.
type literalValidator struct {
	expected []any
	repr     string
}

func newLiteral(expected []any) *literalValidator {
	parts := make([]string, len(expected))
	for i, e := range expected {
		parts[i] = literalRepr(e)
	}
	repr := parts[0]
	if n := len(parts); n > 1 {
		repr = strings.Join(parts[:n-1], ", ") + " or " + parts[n-1]
	}
	return &literalValidator{expected: expected, repr: repr}
}

func literalRepr(v any) string {
	switch x := v.(type) {
	case string:
		return "'" + x + "'"
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	}
	return fmt.Sprint(v)
}

func (v *literalValidator) Validate(in input.Input, _ *State) (any, error) {
	for _, e := range v.expected {
		if literalMatches(in, e) {
			return e, nil
		}
	}
	return nil, valerr.NewWithContext(valerr.LiteralError, in.AsErrorValue(), "expected", v.repr).Err()
}

func literalMatches(in input.Input, expected any) bool {
	switch e := expected.(type) {
	case nil:
		return in.IsNone()
	case string:
		s, ok := in.ExactStr()
		return ok && s == e
	case bool:
		m, err := in.ValidateBool(true)
		return err == nil && m.Exactness == input.Exact && m.Value == e
	case float64:
		if e == math.Trunc(e) {
			if i, ok := in.ExactInt(); ok {
				return i.Float64() == e
			}
		}
		m, err := in.ValidateFloat(true)
		return err == nil && m.Exactness == input.Exact && m.Value == e
	}
	want, ok := literalInt(expected)
	if !ok {
		return false
	}
	got, ok := in.ExactInt()
	return ok && got.Cmp(want) == 0
}

func literalInt(v any) (scalar.Int, bool) {
	switch n := v.(type) {
	case int:
		return scalar.IntFrom64(int64(n)), true
	case int64:
		return scalar.IntFrom64(n), true
	case uint64:
		return scalar.IntFromUint64(n), true
	}
	return scalar.Int{}, false
}

func (v *literalValidator) Name() string { return "literal[" + v.repr + "]" }
func (v *literalValidator) DifferentStrictBehavior(bool) bool { return false }

// jsonValidator parses a string or bytes input as JSON and validates the
// document with its inner validator.
type jsonValidator struct {
	inner Validator
}

func (v *jsonValidator) Validate(in input.Input, st *State) (any, error) {
	doc, err := in.ParseJSON(st.jsonOpts...)
	if err != nil {
		return nil, err
	}
	if v.inner == nil {
		return plain(doc), nil
	}
	return v.inner.Validate(doc, st)
}

func (v *jsonValidator) complete(defs *Definitions) error { return completeAll(defs, v.inner) }

func (v *jsonValidator) Name() string {
	if v.inner == nil {
		return "json"
	}
	return "json[" + v.inner.Name() + "]"
}

func (v *jsonValidator) DifferentStrictBehavior(ultraStrict bool) bool {
	return anyDifferent(ultraStrict, v.inner)
}
