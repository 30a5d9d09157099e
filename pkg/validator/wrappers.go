package validator

import (
	"github.com/dmitrymomot/coerce/pkg/input"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

// What a default wrapper does when its inner validator fails.
const (
	OnErrorRaise   = "raise"
	OnErrorOmit    = "omit"
	OnErrorDefault = "default"
)

type nullableValidator struct {
	inner Validator
}

func (v *nullableValidator) Validate(in input.Input, st *State) (any, error) {
	if in.IsNone() {
		return nil, nil
	}
	return v.inner.Validate(in, st)
}

func (v *nullableValidator) complete(defs *Definitions) error { return completeAll(defs, v.inner) }
func (v *nullableValidator) Name() string { return "nullable[" + v.inner.Name() + "]" }

func (v *nullableValidator) DifferentStrictBehavior(ultraStrict bool) bool {
	return v.inner.DifferentStrictBehavior(ultraStrict)
}

// defaulter is implemented by validators that can supply a value for a
// missing field or argument.
type defaulter interface {
	Default() any
}

type defaultValidator struct {
	inner   Validator
	value   any
	onError string
}

func (v *defaultValidator) Validate(in input.Input, st *State) (any, error) {
	out, err := v.inner.Validate(in, st)
	if err == nil {
		return out, nil
	}
	if _, ok := valerr.Lines(err); !ok {
		return nil, err
	}
	switch v.onError {
	case OnErrorOmit:
		return nil, valerr.ErrOmit
	case OnErrorDefault:
		return v.Default(), nil
	}
	return nil, err
}

// Default returns a fresh copy of the default value, so callers may
// mutate what they get.
func (v *defaultValidator) Default() any { return cloneValue(v.value) }

func (v *defaultValidator) complete(defs *Definitions) error { return completeAll(defs, v.inner) }
func (v *defaultValidator) Name() string { return "default[" + v.inner.Name() + "]" }

func (v *defaultValidator) DifferentStrictBehavior(ultraStrict bool) bool {
	return v.inner.DifferentStrictBehavior(ultraStrict)
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = cloneValue(item)
		}
		return out
	}
	return v
}
