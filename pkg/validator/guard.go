package validator

// DefaultRecursionLimit bounds how many definition references may be
// entered at once.
const DefaultRecursionLimit = 255

type guardKey struct {
	id  uintptr
	ref int
}

// RecursionGuard detects reference cycles in the input and bounds the depth
// of recursive schemas. One guard lives for one validation call.
type RecursionGuard struct {
	limit int
	depth int
	seen  map[guardKey]struct{}
}

// NewRecursionGuard creates a guard. Non-positive limits use DefaultRecursionLimit.
func NewRecursionGuard(limit int) *RecursionGuard {
	if limit <= 0 {
		limit = DefaultRecursionLimit
	}
	return &RecursionGuard{limit: limit}
}

// Enter records that definition ref is being applied to the container with
// identity id. It returns false when the same pair is already active or the
// depth limit is reached; the caller must not call Leave in that case.
// Inputs without identity pass hasID false and only count towards depth.
func (g *RecursionGuard) Enter(id uintptr, hasID bool, ref int) bool {
	if g.depth >= g.limit {
		return false
	}
	if hasID {
		k := guardKey{id: id, ref: ref}
		if _, ok := g.seen[k]; ok {
			return false
		}
		if g.seen == nil {
			g.seen = make(map[guardKey]struct{})
		}
		g.seen[k] = struct{}{}
	}
	g.depth++
	return true
}

// Leave undoes a successful Enter.
func (g *RecursionGuard) Leave(id uintptr, hasID bool, ref int) {
	if hasID {
		delete(g.seen, guardKey{id: id, ref: ref})
	}
	g.depth--
}

// Depth returns the number of references currently entered.
func (g *RecursionGuard) Depth() int { return g.depth }
