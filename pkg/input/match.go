package input

// Exactness ranks how closely an input matched the requested type.
// The zero value means exactness is not being tracked.
type Exactness uint8

const (
	Lax Exactness = iota + 1
	Strict
	Exact
)

func (e Exactness) String() string {
	switch e {
	case Lax:
		return "lax"
	case Strict:
		return "strict"
	case Exact:
		return "exact"
	}
	return "unknown"
}

// Match is a successfully coerced value tagged with its exactness.
type Match[T any] struct {
	Value     T
	Exactness Exactness
}

func ExactMatch[T any](v T) Match[T] { return Match[T]{Value: v, Exactness: Exact} }
func StrictMatch[T any](v T) Match[T] { return Match[T]{Value: v, Exactness: Strict} }
func LaxMatch[T any](v T) Match[T] { return Match[T]{Value: v, Exactness: Lax} }

// laxed wraps a fallible conversion and tags a success as Lax.
func laxed[T any](v T, err error) (Match[T], error) {
	if err != nil {
		return Match[T]{}, err
	}
	return LaxMatch(v), nil
}

func stricted[T any](v T, err error) (Match[T], error) {
	if err != nil {
		return Match[T]{}, err
	}
	return StrictMatch(v), nil
}
