package input

import (
	"iter"

	"github.com/google/uuid"

	"github.com/dmitrymomot/coerce/pkg/jsonvalue"
	"github.com/dmitrymomot/coerce/pkg/scalar"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

// Input is one value under validation, in any of the supported representations.
//
// Every Validate method takes the effective strict flag. With strict set only
// values that already have the target type (or a lossless equivalent) pass;
// otherwise the representation may coerce from adjacent types and tags the
// result Lax. A representation with no lax coercions for a type behaves the
// same in both modes.
//
// Failures are valerr.LineErrors carrying the matching *_type or *_parsing
// error, or a fatal *valerr.InternalError.
type Input interface {
	IsNone() bool
	// AsLocItem renders the value as a location segment when used as a key.
	AsLocItem() valerr.LocItem
	// AsErrorValue is the snapshot stored in line errors.
	AsErrorValue() any
	// Identity returns a token for containers that may form reference cycles.
	Identity() (uintptr, bool)

	// ExactStr and ExactInt expose literal values without any coercion.
	ExactStr() (string, bool)
	ExactInt() (scalar.Int, bool)

	ValidateStr(strict bool) (Match[string], error)
	ValidateBytes(strict bool) (Match[[]byte], error)
	ValidateBool(strict bool) (Match[bool], error)
	ValidateInt(strict bool) (Match[scalar.Int], error)
	ValidateFloat(strict bool) (Match[float64], error)

	ValidateDate(strict bool) (Match[scalar.Date], error)
	ValidateTime(strict bool, overflow scalar.MicrosecondsOverflow) (Match[scalar.Time], error)
	ValidateDateTime(strict bool, overflow scalar.MicrosecondsOverflow) (Match[scalar.DateTime], error)
	ValidateTimedelta(strict bool, overflow scalar.MicrosecondsOverflow) (Match[scalar.Duration], error)
	ValidateUUID(strict bool) (Match[uuid.UUID], error)

	ValidateDict(strict bool) (Mapping, error)
	ValidateList(strict bool) (Sequence, error)
	ValidateTuple(strict bool) (Sequence, error)
	ValidateSet(strict bool) (Sequence, error)
	// ExtractIterable views the value as any iterable: sequences, the
	// characters of a string, the keys of a mapping.
	ExtractIterable() (Sequence, error)

	ValidateArgs() (*Args, error)
	ValidateDataclassArgs(className string) (*Args, error)

	// ParseJSON parses a string or bytes value holding embedded JSON.
	ParseJSON(opts ...jsonvalue.Option) (Input, error)
}

// Mapping is a read-only key/value view over a mapping input.
type Mapping interface {
	Len() int
	// All yields entries in document order. Go maps are yielded in sorted key order.
	All() iter.Seq2[Input, Input]
	// Get looks up a value by string key.
	Get(key string) (Input, bool)
}

// Sequence is a read-only indexed view over a collection input.
type Sequence interface {
	Len() int
	All() iter.Seq2[int, Input]
}

// Args are call arguments extracted for the arguments and dataclass validators.
type Args struct {
	Positional []Input
	Keyword    Mapping
}

// Call is the native form of call arguments.
type Call struct {
	Args   []any
	Kwargs map[string]any
}

type mapping struct {
	n   int
	all func(yield func(Input, Input) bool)
	get func(key string) (Input, bool)
}

func (m mapping) Len() int { return m.n }
func (m mapping) All() iter.Seq2[Input, Input] { return m.all }
func (m mapping) Get(key string) (Input, bool) { return m.get(key) }

type sequence struct {
	n  int
	at func(i int) Input
}

func (s sequence) Len() int { return s.n }

func (s sequence) All() iter.Seq2[int, Input] {
	return func(yield func(int, Input) bool) {
		for i := 0; i < s.n; i++ {
			if !yield(i, s.at(i)) {
				return
			}
		}
	}
}

// runes views a string as a sequence of one-character strings.
func runes(s string, wrap func(string) Input) Sequence {
	rs := []rune(s)
	return sequence{n: len(rs), at: func(i int) Input { return wrap(string(rs[i])) }}
}

func fail[T any](t valerr.ErrorType, in Input) (Match[T], error) {
	return Match[T]{}, typeError(t, in)
}

func typeError(t valerr.ErrorType, in Input) error {
	return valerr.New(t, in.AsErrorValue()).Err()
}

var (
	_ Input = Native{}
	_ Input = JSON{}
	_ Input = Key("")
	_ Input = StringMapping{}
)

// From wraps v in the matching representation: Input values are returned
// as is, parsed JSON nodes become JSON, everything else Native.
func From(v any) Input {
	switch x := v.(type) {
	case Input:
		return x
	case *jsonvalue.Value:
		return NewJSON(x)
	}
	return NewNative(v)
}
