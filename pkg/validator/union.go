package validator

import (
	"sort"
	"strings"

	"github.com/dmitrymomot/coerce/pkg/input"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

// Union modes.
const (
	UnionSmart       = "smart"
	UnionLeftToRight = "left_to_right"
)

type unionValidator struct {
	strict  bool
	mode    string
	choices []Validator
	labels  []string
	// strictRequired is set when some choice accepts more in lax mode than in
	// strict mode, so that the first lax success may not be the best one.
	strictRequired bool
}

func newUnion(strict bool, mode string, choices []Validator, labels []string) *unionValidator {
	return &unionValidator{
		strict:         strict,
		mode:           mode,
		choices:        choices,
		labels:         labels,
		strictRequired: anyDifferent(false, choices...),
	}
}

func (v *unionValidator) Validate(in input.Input, st *State) (any, error) {
	strict := st.Strict(v.strict)
	if v.mode == UnionLeftToRight {
		return v.leftToRight(in, st, strict)
	}
	if !strict && !v.strictRequired {
		return v.leftToRight(in, st, false)
	}
	return v.ranked(in, st, strict)
}

// leftToRight returns the first choice that succeeds.
func (v *unionValidator) leftToRight(in input.Input, st *State, strict bool) (any, error) {
	restore := st.forceStrict(strict)
	defer restore()

	var c valerr.Collector
	for i, choice := range v.choices {
		saved := st.exactness
		out, err := choice.Validate(in, st)
		if err == nil {
			return out, nil
		}
		st.exactness = saved
		if err := c.AddAt(err, valerr.Key(v.labels[i])); err != nil {
			return nil, err
		}
	}
	return nil, c.Err()
}

// ranked tries every choice with exactness tracking and keeps the most
// exact success. An Exact success returns immediately; ties go to the
// earlier choice.
func (v *unionValidator) ranked(in input.Input, st *State, strict bool) (any, error) {
	restore := st.forceStrict(strict)
	defer restore()

	outer := st.exactness
	var (
		best      any
		bestScore input.Exactness
		found     bool
		c         valerr.Collector
	)
	for i, choice := range v.choices {
		st.exactness = input.Exact
		out, err := choice.Validate(in, st)
		if err == nil {
			if st.exactness == input.Exact {
				st.exactness = outer
				return out, nil
			}
			if !found || st.exactness > bestScore {
				best, bestScore, found = out, st.exactness, true
			}
			continue
		}
		if _, ok := valerr.Lines(err); !ok {
			st.exactness = outer
			return nil, err
		}
		if !found {
			_ = c.AddAt(err, valerr.Key(v.labels[i]))
		}
	}
	st.exactness = outer
	if found {
		st.SetExactnessCeiling(bestScore)
		return best, nil
	}
	return nil, c.Err()
}

func (v *unionValidator) complete(defs *Definitions) error { return completeAll(defs, v.choices...) }

func (v *unionValidator) Name() string {
	return "union[" + strings.Join(v.labels, ",") + "]"
}

func (v *unionValidator) DifferentStrictBehavior(ultraStrict bool) bool {
	return anyDifferent(ultraStrict, v.choices...)
}

// taggedUnionValidator picks its choice from the value of a discriminator
// field instead of trying every choice.
type taggedUnionValidator struct {
	strict        bool
	discriminator string
	choices       map[string]Validator
	tags          []string
	expected      string
}

func newTaggedUnion(strict bool, discriminator string, choices map[string]Validator) *taggedUnionValidator {
	tags := make([]string, 0, len(choices))
	for tag := range choices {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	quoted := make([]string, len(tags))
	for i, tag := range tags {
		quoted[i] = "'" + tag + "'"
	}
	return &taggedUnionValidator{
		strict:        strict,
		discriminator: discriminator,
		choices:       choices,
		tags:          tags,
		expected:      strings.Join(quoted, ", "),
	}
}

func (v *taggedUnionValidator) Validate(in input.Input, st *State) (any, error) {
	m, err := in.ValidateDict(st.Strict(v.strict))
	if err != nil {
		return nil, err
	}
	disc := "'" + v.discriminator + "'"
	raw, ok := m.Get(v.discriminator)
	if !ok {
		return nil, valerr.NewWithContext(valerr.UnionTagNotFound, in.AsErrorValue(), "discriminator", disc).Err()
	}
	tag, ok := raw.ExactStr()
	if !ok {
		i, isInt := raw.ExactInt()
		if !isInt {
			return nil, valerr.NewWithContext(valerr.UnionTagInvalid, in.AsErrorValue(),
				"discriminator", disc, "tag", raw.AsErrorValue(), "expected_tags", v.expected).Err()
		}
		tag = i.String()
	}
	choice, ok := v.choices[tag]
	if !ok {
		return nil, valerr.NewWithContext(valerr.UnionTagInvalid, in.AsErrorValue(),
			"discriminator", disc, "tag", tag, "expected_tags", v.expected).Err()
	}
	out, err := choice.Validate(in, st)
	if err != nil {
		return nil, valerr.WithOuterLocation(err, valerr.Key(tag))
	}
	return out, nil
}

func (v *taggedUnionValidator) complete(defs *Definitions) error {
	for _, tag := range v.tags {
		if err := completeAll(defs, v.choices[tag]); err != nil {
			return err
		}
	}
	return nil
}

func (v *taggedUnionValidator) Name() string {
	return "tagged-union[" + strings.Join(v.tags, ",") + "]"
}

func (v *taggedUnionValidator) DifferentStrictBehavior(ultraStrict bool) bool {
	for _, c := range v.choices {
		if c.DifferentStrictBehavior(ultraStrict) {
			return true
		}
	}
	return false
}
