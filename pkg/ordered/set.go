package ordered

import (
	"encoding/json"
	"iter"
	"math/big"
	"reflect"
)

// Set is an insertion-ordered set of arbitrary values.
type Set struct {
	m *Map
}

// NewSet returns an empty set sized for n items.
func NewSet(n int) *Set {
	return &Set{m: NewMap(n)}
}

// Add inserts v and reports whether it was not already present.
func (s *Set) Add(v any) bool {
	if s.m.Has(v) {
		return false
	}
	s.m.Set(v, struct{}{})
	return true
}

func (s *Set) Has(v any) bool { return s.m.Has(v) }

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return s.m.Len()
}

// Items returns the members in insertion order.
func (s *Set) Items() []any { return s.m.Keys() }

// All iterates over the members in insertion order.
func (s *Set) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for k := range s.m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Equal reports whether both sets hold the same members, ignoring order.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for v := range s.All() {
		if !other.Has(v) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a JSON array.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Items())
}

// Equal compares two engine values. Big integers compare numerically and
// ordered containers compare by content; everything else uses deep equality.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case *big.Int:
		y, ok := b.(*big.Int)
		return ok && x.Cmp(y) == 0
	case *Map:
		y, ok := b.(*Map)
		return ok && x.Equal(y)
	case *Set:
		y, ok := b.(*Set)
		return ok && x.Equal(y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}
