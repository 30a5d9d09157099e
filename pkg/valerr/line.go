package valerr

import (
	"fmt"
	"strings"
)

// LineError is a single validation failure at one location.
type LineError struct {
	Type    ErrorType
	Context map[string]any
	Input   any

	// stored innermost first so that prepending an outer item is an append
	rev []LocItem
}

// New creates a line error of type t for input with an empty location.
func New(t ErrorType, input any) *LineError {
	return &LineError{Type: t, Input: input}
}

// NewWithContext creates a line error with placeholder values.
// kv alternates keys and values.
func NewWithContext(t ErrorType, input any, kv ...any) *LineError {
	e := New(t, input)
	for i := 0; i+1 < len(kv); i += 2 {
		e.With(fmt.Sprint(kv[i]), kv[i+1])
	}
	return e
}

// With sets one context value and returns e.
func (e *LineError) With(key string, value any) *LineError {
	if e.Context == nil {
		e.Context = make(map[string]any, 2)
	}
	e.Context[key] = value
	return e
}

// At prepends items to the location so that the first argument ends up outermost.
func (e *LineError) At(items ...LocItem) *LineError {
	for i := len(items) - 1; i >= 0; i-- {
		e.prepend(items[i])
	}
	return e
}

func (e *LineError) prepend(item LocItem) {
	e.rev = append(e.rev, item)
}

// Location returns the path of the error, outermost first.
func (e *LineError) Location() Location {
	loc := make(Location, len(e.rev))
	for i, item := range e.rev {
		loc[len(e.rev)-1-i] = item
	}
	return loc
}

// Message renders the human-readable text of the error.
func (e *LineError) Message() string {
	return e.Type.Message(e.Context)
}

// Err wraps e in a LineErrors so it can travel as an error.
func (e *LineError) Err() error {
	return LineErrors{e}
}

func (e *LineError) String() string {
	loc := e.Location().String()
	if loc == "" {
		return e.Message()
	}
	return loc + ": " + e.Message()
}

// LineErrors is the recoverable failure of one validation step.
// Containers merge the children's LineErrors in document order.
type LineErrors []*LineError

func (le LineErrors) Error() string {
	if len(le) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(le))
	for _, e := range le {
		parts = append(parts, e.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether any error sits at path, given in dotted form.
func (le LineErrors) Has(path string) bool {
	for _, e := range le {
		if e.Location().String() == path {
			return true
		}
	}
	return false
}

// Get returns the messages of every error at path.
func (le LineErrors) Get(path string) []string {
	var messages []string
	for _, e := range le {
		if e.Location().String() == path {
			messages = append(messages, e.Message())
		}
	}
	return messages
}

// Types returns the error types in order.
func (le LineErrors) Types() []ErrorType {
	out := make([]ErrorType, len(le))
	for i, e := range le {
		out[i] = e.Type
	}
	return out
}

// Paths returns the distinct dotted locations in first-seen order.
func (le LineErrors) Paths() []string {
	var paths []string
	seen := make(map[string]bool)
	for _, e := range le {
		p := e.Location().String()
		if !seen[p] {
			paths = append(paths, p)
			seen[p] = true
		}
	}
	return paths
}

func (le LineErrors) IsEmpty() bool {
	return len(le) == 0
}

// Collector accumulates line errors across the items of a container.
type Collector struct {
	lines LineErrors
}

// Add appends the line errors of err. It returns err unchanged when err is
// fatal or Omit so the caller can stop or skip.
func (c *Collector) Add(err error) error {
	if le, ok := Lines(err); ok {
		c.lines = append(c.lines, le...)
		return nil
	}
	return err
}

// AddAt prepends item to the line errors of err before collecting them.
func (c *Collector) AddAt(err error, item LocItem) error {
	return c.Add(WithOuterLocation(err, item))
}

// Push appends a single line error.
func (c *Collector) Push(e *LineError) {
	c.lines = append(c.lines, e)
}

func (c *Collector) Len() int { return len(c.lines) }

// Err returns the collected errors or nil.
func (c *Collector) Err() error {
	if len(c.lines) == 0 {
		return nil
	}
	return c.lines
}
