package validator

import (
	"github.com/dmitrymomot/coerce/pkg/input"
	"github.com/dmitrymomot/coerce/pkg/ordered"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

// laxContainer lowers the exactness to Lax when a container was only
// accepted thanks to lax coercion, e.g. a set built from a list.
func laxContainer(st *State, strict bool, strictCheck func() error) {
	if !strict && st.tracking() && strictCheck() != nil {
		st.SetExactnessCeiling(input.Lax)
	}
}

// lengthError checks n against the bounds. Lengths are checked after every
// item has been validated, so both kinds of errors may be reported together.
func lengthError(in input.Input, fieldType string, n int, minLength, maxLength *int) *valerr.LineError {
	if minLength != nil && n < *minLength {
		return valerr.NewWithContext(valerr.TooShort, in.AsErrorValue(),
			"field_type", fieldType, "min_length", *minLength, "actual_length", n)
	}
	if maxLength != nil && n > *maxLength {
		return valerr.NewWithContext(valerr.TooLong, in.AsErrorValue(),
			"field_type", fieldType, "max_length", *maxLength, "actual_length", n)
	}
	return nil
}

type dictValidator struct {
	strict    bool
	keys      Validator
	values    Validator
	minLength *int
	maxLength *int
}

func (v *dictValidator) Validate(in input.Input, st *State) (any, error) {
	strict := st.Strict(v.strict)
	m, err := in.ValidateDict(strict)
	if err != nil {
		return nil, err
	}
	laxContainer(st, strict, func() error { _, err := in.ValidateDict(true); return err })

	out := ordered.NewMap(m.Len())
	var c valerr.Collector
	failed := 0
	for key, value := range m.All() {
		loc := key.AsLocItem()
		k, kerr := v.keys.Validate(key, st)
		if kerr != nil {
			if valerr.IsOmit(kerr) {
				continue
			}
			kerr = valerr.WithOuterLocation(kerr, valerr.Key("[key]"))
			if err := c.AddAt(kerr, loc); err != nil {
				return nil, err
			}
		}
		val, verr := v.values.Validate(value, st)
		if verr != nil {
			if valerr.IsOmit(verr) {
				continue
			}
			if err := c.AddAt(verr, loc); err != nil {
				return nil, err
			}
		}
		if kerr != nil || verr != nil {
			failed++
			continue
		}
		out.Set(k, val)
	}
	// keys that collide after coercion count once
	if e := lengthError(in, "Dictionary", out.Len()+failed, v.minLength, v.maxLength); e != nil {
		c.Push(e)
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *dictValidator) complete(defs *Definitions) error {
	return completeAll(defs, v.keys, v.values)
}

func (v *dictValidator) Name() string {
	return "dict[" + v.keys.Name() + "," + v.values.Name() + "]"
}

func (v *dictValidator) DifferentStrictBehavior(ultraStrict bool) bool {
	if ultraStrict {
		return anyDifferent(ultraStrict, v.keys, v.values)
	}
	return true
}

// itemCount is the outcome of validateItems: items passed to add and items
// that failed. Omitted items are in neither.
type itemCount struct {
	valid  int
	failed int
}

func (n itemCount) total() int { return n.valid + n.failed }

// validateItems runs items (or copies them when items is nil) over seq,
// collecting errors by index.
func validateItems(seq input.Sequence, items Validator, st *State, c *valerr.Collector, add func(any)) (itemCount, error) {
	var n itemCount
	for i, item := range seq.All() {
		if items == nil {
			add(plain(item))
			n.valid++
			continue
		}
		out, err := items.Validate(item, st)
		if err != nil {
			if valerr.IsOmit(err) {
				continue
			}
			if err := c.AddAt(err, valerr.Index(i)); err != nil {
				return itemCount{}, err
			}
			n.failed++
			continue
		}
		add(out)
		n.valid++
	}
	return n, nil
}

// listValidator also serves the iterable type, which drains any iterable
// input (strings yield their characters, mappings their keys) into a list.
type listValidator struct {
	strict    bool
	iterable  bool
	items     Validator
	minLength *int
	maxLength *int
}

func (v *listValidator) Validate(in input.Input, st *State) (any, error) {
	seq, err := v.sequence(in, st)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, seq.Len())
	var c valerr.Collector
	n, err := validateItems(seq, v.items, st, &c, func(x any) { out = append(out, x) })
	if err != nil {
		return nil, err
	}
	fieldType := "List"
	if v.iterable {
		fieldType = "Iterable"
	}
	if e := lengthError(in, fieldType, n.total(), v.minLength, v.maxLength); e != nil {
		c.Push(e)
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *listValidator) sequence(in input.Input, st *State) (input.Sequence, error) {
	if v.iterable {
		return in.ExtractIterable()
	}
	strict := st.Strict(v.strict)
	seq, err := in.ValidateList(strict)
	if err != nil {
		return nil, err
	}
	laxContainer(st, strict, func() error { _, err := in.ValidateList(true); return err })
	return seq, nil
}

func (v *listValidator) complete(defs *Definitions) error { return completeAll(defs, v.items) }

func (v *listValidator) Name() string {
	kind := "list"
	if v.iterable {
		kind = "iterable"
	}
	if v.items == nil {
		return kind + "[any]"
	}
	return kind + "[" + v.items.Name() + "]"
}

func (v *listValidator) DifferentStrictBehavior(ultraStrict bool) bool {
	if ultraStrict || v.iterable {
		return anyDifferent(ultraStrict, v.items)
	}
	return true
}

type setValidator struct {
	strict    bool
	items     Validator
	minLength *int
	maxLength *int
}

func (v *setValidator) Validate(in input.Input, st *State) (any, error) {
	strict := st.Strict(v.strict)
	seq, err := in.ValidateSet(strict)
	if err != nil {
		return nil, err
	}
	laxContainer(st, strict, func() error { _, err := in.ValidateSet(true); return err })

	out := ordered.NewSet(seq.Len())
	var c valerr.Collector
	n, err := validateItems(seq, v.items, st, &c, func(x any) { out.Add(x) })
	if err != nil {
		return nil, err
	}
	// duplicates collapse before the length check
	if e := lengthError(in, "Set", out.Len()+n.failed, v.minLength, v.maxLength); e != nil {
		c.Push(e)
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *setValidator) complete(defs *Definitions) error { return completeAll(defs, v.items) }

func (v *setValidator) Name() string {
	if v.items == nil {
		return "set[any]"
	}
	return "set[" + v.items.Name() + "]"
}

func (v *setValidator) DifferentStrictBehavior(ultraStrict bool) bool {
	if ultraStrict {
		return anyDifferent(ultraStrict, v.items)
	}
	return true
}

// tupleValidator validates positional items followed by an optional
// variadic tail. A tuple without prefix items is fully variadic.
type tupleValidator struct {
	strict    bool
	prefix    []Validator
	items     Validator
	variadic  bool
	minLength *int
	maxLength *int
}

func (v *tupleValidator) Validate(in input.Input, st *State) (any, error) {
	strict := st.Strict(v.strict)
	seq, err := in.ValidateTuple(strict)
	if err != nil {
		return nil, err
	}
	laxContainer(st, strict, func() error { _, err := in.ValidateTuple(true); return err })

	out := make([]any, 0, seq.Len())
	var c valerr.Collector
	n := 0
	for i, item := range seq.All() {
		var val Validator
		switch {
		case i < len(v.prefix):
			val = v.prefix[i]
		case v.variadic:
			val = v.items
		default:
			n++
			continue
		}
		if val == nil {
			out = append(out, plain(item))
			n++
			continue
		}
		r, err := val.Validate(item, st)
		if err != nil {
			if valerr.IsOmit(err) {
				continue
			}
			if err := c.AddAt(err, valerr.Index(i)); err != nil {
				return nil, err
			}
			n++
			continue
		}
		out = append(out, r)
		n++
	}
	for i := seq.Len(); i < len(v.prefix); i++ {
		c.Push(valerr.New(valerr.Missing, in.AsErrorValue()).At(valerr.Index(i)))
	}
	maxLength := v.maxLength
	if !v.variadic && (maxLength == nil || *maxLength > len(v.prefix)) {
		fixed := len(v.prefix)
		maxLength = &fixed
	}
	if e := lengthError(in, "Tuple", n, v.minLength, maxLength); e != nil {
		c.Push(e)
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *tupleValidator) complete(defs *Definitions) error {
	if err := completeAll(defs, v.prefix...); err != nil {
		return err
	}
	return completeAll(defs, v.items)
}

func (v *tupleValidator) Name() string {
	name := "tuple["
	for i, p := range v.prefix {
		if i > 0 {
			name += ", "
		}
		name += p.Name()
	}
	if v.variadic {
		if len(v.prefix) > 0 {
			name += ", "
		}
		if v.items == nil {
			name += "any"
		} else {
			name += v.items.Name()
		}
		name += ", ..."
	}
	return name + "]"
}

func (v *tupleValidator) DifferentStrictBehavior(ultraStrict bool) bool {
	if ultraStrict {
		return anyDifferent(ultraStrict, append([]Validator{v.items}, v.prefix...)...)
	}
	return true
}
