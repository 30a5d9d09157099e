package validator

import (
	"github.com/dmitrymomot/coerce/pkg/input"
)

// Validator is one node of a compiled validator tree.
//
// Validate returns the normalized value or an error: valerr.LineErrors for
// recoverable failures, valerr.ErrOmit when a wrapper drops the value, or a
// fatal *valerr.InternalError.
type Validator interface {
	Validate(in input.Input, st *State) (any, error)
	// Name is a short description used in error titles and union locations.
	Name() string
	// DifferentStrictBehavior reports whether strict validation could reject
	// input that lax validation accepts. With ultraStrict set it reports
	// whether even exact inputs could be treated differently.
	DifferentStrictBehavior(ultraStrict bool) bool
}

// completer is implemented by validators holding children or references
// that need the finished definitions arena.
type completer interface {
	complete(defs *Definitions) error
}

func completeAll(defs *Definitions, vs ...Validator) error {
	for _, v := range vs {
		if c, ok := v.(completer); ok {
			if err := c.complete(defs); err != nil {
				return err
			}
		}
	}
	return nil
}

func anyDifferent(ultraStrict bool, vs ...Validator) bool {
	for _, v := range vs {
		if v != nil && v.DifferentStrictBehavior(ultraStrict) {
			return true
		}
	}
	return false
}

// record unwraps a match and lowers the exactness of st to the match's.
func record[T any](st *State) func(input.Match[T], error) (T, error) {
	return func(m input.Match[T], err error) (T, error) {
		if err != nil {
			var zero T
			return zero, err
		}
		st.SetExactnessCeiling(m.Exactness)
		return m.Value, nil
	}
}
