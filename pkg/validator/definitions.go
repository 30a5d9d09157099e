package validator

import (
	"fmt"

	"github.com/dmitrymomot/coerce/pkg/input"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

// Definitions is the arena holding named validators that other parts of
// the tree refer to by id. Slots are reserved before any validator is
// built so that references may point forward or at themselves.
type Definitions struct {
	slots []Validator
	names []string
	index map[string]int
}

func newDefinitions() *Definitions {
	return &Definitions{index: make(map[string]int)}
}

func (d *Definitions) reserve(name string) int {
	if id, ok := d.index[name]; ok {
		return id
	}
	id := len(d.slots)
	d.slots = append(d.slots, nil)
	d.names = append(d.names, name)
	d.index[name] = id
	return id
}

func (d *Definitions) fill(id int, v Validator) {
	d.slots[id] = v
}

// Lookup returns the id of a named definition.
func (d *Definitions) Lookup(name string) (int, bool) {
	id, ok := d.index[name]
	return id, ok
}

// Get returns the validator in slot id.
func (d *Definitions) Get(id int) Validator {
	if id < 0 || id >= len(d.slots) {
		return nil
	}
	return d.slots[id]
}

// Len returns the number of slots.
func (d *Definitions) Len() int { return len(d.slots) }

// Names returns the definition names in slot order.
func (d *Definitions) Names() []string {
	return append([]string(nil), d.names...)
}

func (d *Definitions) check() error {
	for id, v := range d.slots {
		if v == nil {
			return fmt.Errorf("%w: %q", ErrUnknownReference, d.names[id])
		}
	}
	return nil
}

// definitionRef applies a validator from the arena. It is the only place
// where the tree may recurse, so it also drives the recursion guard.
type definitionRef struct {
	name   string
	id     int
	target Validator
}

func (r *definitionRef) complete(defs *Definitions) error {
	id, ok := defs.Lookup(r.name)
	if !ok || defs.Get(id) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownReference, r.name)
	}
	r.id = id
	r.target = defs.Get(id)
	return nil
}

func (r *definitionRef) Validate(in input.Input, st *State) (any, error) {
	if r.target == nil {
		return nil, valerr.Internalf("definition %q was never resolved", r.name)
	}
	id, hasID := in.Identity()
	if !st.guard.Enter(id, hasID, r.id) {
		return nil, valerr.Fatal(valerr.New(valerr.RecursionLoop, in.AsErrorValue()))
	}
	defer st.guard.Leave(id, hasID, r.id)
	return r.target.Validate(in, st)
}

func (r *definitionRef) Name() string { return r.name }

// Reference cycles make walking the target unsafe, so references always
// report a difference.
func (r *definitionRef) DifferentStrictBehavior(bool) bool { return true }
