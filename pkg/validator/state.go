package validator

import (
	"github.com/dmitrymomot/coerce/pkg/input"
	"github.com/dmitrymomot/coerce/pkg/jsonvalue"
	"github.com/dmitrymomot/coerce/pkg/scalar"
)

// State is the mutable context of one validation call. It is never shared
// between calls.
type State struct {
	strict    *bool
	exactness input.Exactness
	guard     *RecursionGuard
	overflow  scalar.MicrosecondsOverflow
	jsonOpts  []jsonvalue.Option

	// Context is caller data made available to validators.
	Context any
}

// NewState creates the state for one call. A nil strict keeps each
// validator's own setting.
func NewState(strict *bool, cfg Config) *State {
	return &State{
		strict:   strict,
		guard:    NewRecursionGuard(cfg.RecursionLimit),
		overflow: cfg.MicrosecondsOverflow,
		jsonOpts: []jsonvalue.Option{jsonvalue.WithDuplicateKeys(cfg.DuplicateKeys)},
	}
}

// Strict resolves the effective strictness. The call-level override wins
// over the validator's own setting.
func (s *State) Strict(own bool) bool {
	if s.strict != nil {
		return *s.strict
	}
	return own
}

// forceStrict turns strict mode on for the duration of a union branch and
// returns the function restoring the previous override.
func (s *State) forceStrict(on bool) func() {
	prev := s.strict
	if on {
		t := true
		s.strict = &t
	}
	return func() { s.strict = prev }
}

// Exactness returns the current exactness; zero when not tracked.
func (s *State) Exactness() input.Exactness { return s.exactness }

// SetExactness replaces the tracked exactness. Unions seed Exact per branch.
func (s *State) SetExactness(e input.Exactness) { s.exactness = e }

// SetExactnessCeiling lowers the tracked exactness to e. Untracked state
// stays untracked and exactness never rises.
func (s *State) SetExactnessCeiling(e input.Exactness) {
	if s.exactness != 0 && e < s.exactness {
		s.exactness = e
	}
}

func (s *State) tracking() bool { return s.exactness != 0 }

// Overflow is the microseconds overflow policy of the call.
func (s *State) Overflow() scalar.MicrosecondsOverflow { return s.overflow }

// Guard returns the recursion guard of the call.
func (s *State) Guard() *RecursionGuard { return s.guard }
