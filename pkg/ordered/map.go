package ordered

import (
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"math/big"
	"reflect"

	"github.com/go-faster/jx"
)

// Map is an insertion-ordered map with arbitrary keys.
// Keys that are not comparable (slices, maps) are matched by deep equality.
type Map struct {
	keys   []any
	values []any
	index  map[any]int
}

// NewMap returns an empty map sized for n entries.
func NewMap(n int) *Map {
	return &Map{
		keys:   make([]any, 0, n),
		values: make([]any, 0, n),
		index:  make(map[any]int, n),
	}
}

// Set stores v under k. An existing key keeps its position.
func (m *Map) Set(k, v any) {
	if i, ok := m.find(k); ok {
		m.values[i] = v
		return
	}
	if hk, ok := hashKey(k); ok {
		m.index[hk] = len(m.keys)
	}
	m.keys = append(m.keys, k)
	m.values = append(m.values, v)
}

// Get returns the value stored under k.
func (m *Map) Get(k any) (any, bool) {
	if i, ok := m.find(k); ok {
		return m.values[i], true
	}
	return nil, false
}

// Has reports whether k is present.
func (m *Map) Has(k any) bool {
	_, ok := m.find(k)
	return ok
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []any {
	return append([]any(nil), m.keys...)
}

// All iterates over entries in insertion order.
func (m *Map) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for i, k := range m.keys {
			if !yield(k, m.values[i]) {
				return
			}
		}
	}
}

// Equal reports whether both maps hold equal entries in the same order.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i := range m.keys {
		if !Equal(m.keys[i], other.keys[i]) || !Equal(m.values[i], other.values[i]) {
			return false
		}
	}
	return true
}

// Interface converts the map to map[string]any, formatting keys with fmt.
func (m *Map) Interface() map[string]any {
	out := make(map[string]any, len(m.keys))
	for i, k := range m.keys {
		out[keyString(k)] = m.values[i]
	}
	return out
}

// MarshalJSON encodes the map as a JSON object preserving key order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	e.ObjStart()
	for i, k := range m.keys {
		raw, err := json.Marshal(m.values[i])
		if err != nil {
			return nil, fmt.Errorf("encode value for key %q: %w", keyString(k), err)
		}
		e.FieldStart(keyString(k))
		e.Raw(raw)
	}
	e.ObjEnd()
	return e.Bytes(), nil
}

func (m *Map) find(k any) (int, bool) {
	if hk, ok := hashKey(k); ok {
		i, found := m.index[hk]
		return i, found
	}
	for i, existing := range m.keys {
		if Equal(existing, k) {
			return i, true
		}
	}
	return 0, false
}

type bigKey string

type bytesKey string

// hashKey maps k to a comparable value. ok is false for unhashable keys.
func hashKey(k any) (any, bool) {
	switch v := k.(type) {
	case nil:
		return nil, true
	case int:
		return int64(v), true
	case float64:
		// whole floats match the equal integer
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int64(v), true
		}
		return v, true
	case *big.Int:
		if v.IsInt64() {
			return v.Int64(), true
		}
		return bigKey(v.String()), true
	case []byte:
		return bytesKey(v), true
	}
	if reflect.TypeOf(k).Comparable() {
		t := reflect.TypeOf(k)
		if t.Kind() == reflect.Interface || t.Kind() == reflect.Struct || t.Kind() == reflect.Array {
			// structs and arrays may hold non-comparable interface fields
			if !isDeepComparable(reflect.ValueOf(k)) {
				return nil, false
			}
		}
		return k, true
	}
	return nil, false
}

func isDeepComparable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return true
		}
		return v.Elem().Type().Comparable() && isDeepComparable(v.Elem())
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !isDeepComparable(v.Field(i)) {
				return false
			}
		}
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !isDeepComparable(v.Index(i)) {
				return false
			}
		}
	}
	return true
}

func keyString(k any) string {
	switch v := k.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(k)
}
