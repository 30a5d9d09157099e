package validator

import (
	"github.com/dmitrymomot/coerce/pkg/input"
	"github.com/dmitrymomot/coerce/pkg/schema"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

type argument struct {
	name   string
	lookup string
	mode   string
	v      Validator
}

// argumentsValidator binds call arguments to parameters and returns an
// input.Call holding the validated positional and keyword values.
// Positional parameters always precede keyword-only ones.
type argumentsValidator struct {
	params     []argument
	positional int
	varArgs    Validator
	varKwargs  Validator
	// className switches to dataclass argument extraction: only mappings and
	// calls are accepted.
	className string
}

func (v *argumentsValidator) Validate(in input.Input, st *State) (any, error) {
	var (
		args *input.Args
		err  error
	)
	if v.className != "" {
		args, err = in.ValidateDataclassArgs(v.className)
	} else {
		args, err = in.ValidateArgs()
	}
	if err != nil {
		return nil, err
	}

	out := input.Call{Args: []any{}, Kwargs: map[string]any{}}
	usedKw := make(map[string]struct{})
	var c valerr.Collector

	for i, p := range v.params {
		var pos, kw input.Input
		if p.mode != schema.KeywordOnly && i < len(args.Positional) {
			pos = args.Positional[i]
		}
		if p.mode != schema.PositionalOnly && args.Keyword != nil {
			if val, ok := args.Keyword.Get(p.lookup); ok {
				kw = val
				usedKw[p.lookup] = struct{}{}
			}
		}

		switch {
		case pos != nil && kw != nil:
			c.Push(valerr.New(valerr.MultipleArgumentValues, kw.AsErrorValue()).At(valerr.Key(p.lookup)))
		case pos != nil:
			r, err := p.v.Validate(pos, st)
			if err != nil {
				if err := addArgErr(&c, err, valerr.Index(i)); err != nil {
					return nil, err
				}
				continue
			}
			out.Args = append(out.Args, r)
		case kw != nil:
			r, err := p.v.Validate(kw, st)
			if err != nil {
				if err := addArgErr(&c, err, valerr.Key(p.lookup)); err != nil {
					return nil, err
				}
				continue
			}
			out.Kwargs[p.name] = r
		default:
			if d, ok := p.v.(defaulter); ok {
				// a default must not take the positional slot of a parameter
				// passed by keyword
				if p.mode == schema.PositionalOnly {
					out.Args = append(out.Args, d.Default())
				} else {
					out.Kwargs[p.name] = d.Default()
				}
				continue
			}
			c.Push(missingArgument(p, i, args))
		}
	}

	for i := v.positional; i < len(args.Positional); i++ {
		item := args.Positional[i]
		if v.varArgs == nil {
			c.Push(valerr.New(valerr.UnexpectedPositionalArgument, item.AsErrorValue()).At(valerr.Index(i)))
			continue
		}
		r, err := v.varArgs.Validate(item, st)
		if err != nil {
			if err := addArgErr(&c, err, valerr.Index(i)); err != nil {
				return nil, err
			}
			continue
		}
		out.Args = append(out.Args, r)
	}

	if args.Keyword != nil {
		for k, val := range args.Keyword.All() {
			key, ok := k.ExactStr()
			if !ok {
				key = k.AsLocItem().String()
			}
			if _, used := usedKw[key]; used {
				continue
			}
			if v.varKwargs == nil {
				c.Push(valerr.New(valerr.UnexpectedKeywordArgument, val.AsErrorValue()).At(valerr.Key(key)))
				continue
			}
			r, err := v.varKwargs.Validate(val, st)
			if err != nil {
				if err := addArgErr(&c, err, valerr.Key(key)); err != nil {
					return nil, err
				}
				continue
			}
			out.Kwargs[key] = r
		}
	}

	if err := c.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// addArgErr collects a failed argument. Omitted arguments are dropped.
func addArgErr(c *valerr.Collector, err error, loc valerr.LocItem) error {
	if valerr.IsOmit(err) {
		return nil
	}
	return c.AddAt(err, loc)
}

func missingArgument(p argument, i int, args *input.Args) *valerr.LineError {
	snapshot := kwargsSnapshot(args)
	switch p.mode {
	case schema.PositionalOnly:
		return valerr.New(valerr.MissingPositionalOnlyArgument, snapshot).At(valerr.Index(i))
	case schema.KeywordOnly:
		return valerr.New(valerr.MissingKeywordOnlyArgument, snapshot).At(valerr.Key(p.lookup))
	}
	return valerr.New(valerr.MissingArgument, snapshot).At(valerr.Key(p.lookup))
}

// kwargsSnapshot renders the keyword arguments for error reports.
func kwargsSnapshot(args *input.Args) map[string]any {
	if args.Keyword == nil {
		return nil
	}
	kw := make(map[string]any, args.Keyword.Len())
	for k, val := range args.Keyword.All() {
		key, ok := k.ExactStr()
		if !ok {
			key = k.AsLocItem().String()
		}
		kw[key] = val.AsErrorValue()
	}
	return kw
}

func (v *argumentsValidator) complete(defs *Definitions) error {
	for _, p := range v.params {
		if err := completeAll(defs, p.v); err != nil {
			return err
		}
	}
	return completeAll(defs, v.varArgs, v.varKwargs)
}

func (v *argumentsValidator) Name() string {
	if v.className != "" {
		return v.className
	}
	return "arguments"
}

func (v *argumentsValidator) DifferentStrictBehavior(ultraStrict bool) bool {
	for _, p := range v.params {
		if p.v.DifferentStrictBehavior(ultraStrict) {
			return true
		}
	}
	return anyDifferent(ultraStrict, v.varArgs, v.varKwargs)
}
