package jsonvalue

import (
	"iter"
	"math/big"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindBigInt
	KindFloat
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{"null", "bool", "int", "uint", "bigint", "float", "string", "array", "object"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a node of a parsed JSON tree. The zero value is JSON null.
// Values are immutable once the parser returns them.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	big  *big.Int
	f    float64
	s    string
	arr  []*Value
	obj  *Object
}

func Null() *Value { return &Value{kind: KindNull} }
func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }
func Int(i int64) *Value { return &Value{kind: KindInt, i: i} }
func Uint(u uint64) *Value { return &Value{kind: KindUint, u: u} }
func BigInt(n *big.Int) *Value { return &Value{kind: KindBigInt, big: n} }
func Float(f float64) *Value { return &Value{kind: KindFloat, f: f} }
func String(s string) *Value { return &Value{kind: KindString, s: s} }
func Array(items ...*Value) *Value { return &Value{kind: KindArray, arr: items} }

// ObjectValue wraps an Object. A nil object becomes an empty one.
func ObjectValue(o *Object) *Value {
	if o == nil {
		o = NewObject()
	}
	return &Value{kind: KindObject, obj: o}
}

func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

func (v *Value) IsNull() bool { return v.Kind() == KindNull }
func (v *Value) Bool() bool { return v.b }
func (v *Value) Int() int64 { return v.i }
func (v *Value) Uint() uint64 { return v.u }
func (v *Value) BigInt() *big.Int { return v.big }
func (v *Value) Float() float64 { return v.f }
func (v *Value) Str() string { return v.s }
func (v *Value) Array() []*Value { return v.arr }
func (v *Value) Object() *Object { return v.obj }

// Interface converts the tree into plain Go values: nil, bool, int64,
// uint64, *big.Int, float64, string, []any and map[string]any.
// Object key order is lost in the conversion.
func (v *Value) Interface() any {
	switch v.Kind() {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindUint:
		return v.u
	case KindBigInt:
		return v.big
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for k, item := range v.obj.All() {
			out[k] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Object is a JSON object that keeps keys in insertion order.
type Object struct {
	keys   []string
	values []*Value
	index  map[string]int
}

func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Set appends key or, if it already exists, replaces its value in place.
func (o *Object) Set(key string, v *Value) {
	if i, ok := o.index[key]; ok {
		o.values[i] = v
		return
	}
	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.values = append(o.values, v)
}

func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.index[key]
	return ok
}

func (o *Object) Get(key string) (*Value, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.values[i], true
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// All iterates key/value pairs in insertion order.
func (o *Object) All() iter.Seq2[string, *Value] {
	return func(yield func(string, *Value) bool) {
		if o == nil {
			return
		}
		for i, k := range o.keys {
			if !yield(k, o.values[i]) {
				return
			}
		}
	}
}
