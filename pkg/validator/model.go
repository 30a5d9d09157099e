package validator

import (
	"github.com/dmitrymomot/coerce/pkg/input"
	"github.com/dmitrymomot/coerce/pkg/ordered"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

// Extra behaviors of model_fields: what happens to keys no field claims.
const (
	ExtraIgnore = "ignore"
	ExtraForbid = "forbid"
	ExtraAllow  = "allow"
)

type modelField struct {
	name     string
	lookup   string
	required bool
	v        Validator
}

// modelFieldsValidator validates a mapping field by field and returns an
// *ordered.Map keyed by field name in declaration order. Extra keys follow
// in input order when allowed.
type modelFieldsValidator struct {
	strict    bool
	fields    []modelField
	extra     string
	className string
}

func (v *modelFieldsValidator) Validate(in input.Input, st *State) (any, error) {
	strict := st.Strict(v.strict)
	m, err := in.ValidateDict(strict)
	if err != nil {
		if _, ok := valerr.Lines(err); ok && v.className != "" {
			return nil, valerr.NewWithContext(valerr.ModelType, in.AsErrorValue(), "class_name", v.className).Err()
		}
		return nil, err
	}
	laxContainer(st, strict, func() error { _, err := in.ValidateDict(true); return err })

	out := ordered.NewMap(len(v.fields))
	used := make(map[string]struct{}, len(v.fields))
	var c valerr.Collector
	for _, f := range v.fields {
		used[f.lookup] = struct{}{}
		raw, ok := m.Get(f.lookup)
		if !ok {
			if d, isDefault := f.v.(defaulter); isDefault && !f.required {
				out.Set(f.name, d.Default())
			} else if f.required {
				c.Push(valerr.New(valerr.Missing, in.AsErrorValue()).At(valerr.Key(f.lookup)))
			}
			continue
		}
		val, err := f.v.Validate(raw, st)
		if err != nil {
			if valerr.IsOmit(err) {
				continue
			}
			if err := c.AddAt(err, valerr.Key(f.lookup)); err != nil {
				return nil, err
			}
			continue
		}
		out.Set(f.name, val)
	}

	if v.extra == ExtraForbid || v.extra == ExtraAllow {
		for k, val := range m.All() {
			key, ok := k.ExactStr()
			if !ok {
				key = k.AsLocItem().String()
			}
			if _, claimed := used[key]; claimed {
				continue
			}
			if v.extra == ExtraForbid {
				c.Push(valerr.New(valerr.ExtraForbidden, val.AsErrorValue()).At(valerr.Key(key)))
				continue
			}
			out.Set(key, plain(val))
		}
	}

	if err := c.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *modelFieldsValidator) complete(defs *Definitions) error {
	for _, f := range v.fields {
		if err := completeAll(defs, f.v); err != nil {
			return err
		}
	}
	return nil
}

func (v *modelFieldsValidator) Name() string {
	if v.className != "" {
		return v.className
	}
	return "model-fields"
}

func (v *modelFieldsValidator) DifferentStrictBehavior(ultraStrict bool) bool {
	if !ultraStrict {
		return true
	}
	for _, f := range v.fields {
		if f.v.DifferentStrictBehavior(ultraStrict) {
			return true
		}
	}
	return false
}
