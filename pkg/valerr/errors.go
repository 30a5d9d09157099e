package valerr

import (
	"errors"
	"fmt"
)

// ErrOmit signals that the current item should be skipped by its container.
// It is a control signal and never reaches the caller of a schema.
var ErrOmit = errors.New("omit item")

// ErrInternal marks failures that are not caused by the input: broken
// schemas, unresolved definitions, exhausted resources.
var ErrInternal = errors.New("internal validation error")

// InternalError carries a fatal failure. It aborts validation immediately and
// is never collected or ranked.
type InternalError struct {
	Err error

	// Line is set when the failure is reported to the caller as a line
	// error, e.g. a recursion loop.
	Line *LineError
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInternal, e.Err)
}

func (e *InternalError) Unwrap() []error {
	return []error{ErrInternal, e.Err}
}

// Internal wraps err as a fatal validation failure.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var ie *InternalError
	if errors.As(err, &ie) {
		return err
	}
	return &InternalError{Err: err}
}

// Fatal aborts validation with line as the only reported error.
func Fatal(line *LineError) error {
	return &InternalError{Err: errors.New(line.Message()), Line: line}
}

// FatalLine returns the line error carried by a fatal error, if any.
func FatalLine(err error) (*LineError, bool) {
	var ie *InternalError
	if errors.As(err, &ie) && ie.Line != nil {
		return ie.Line, true
	}
	return nil, false
}

// Internalf formats a fatal validation failure.
func Internalf(format string, args ...any) error {
	return &InternalError{Err: fmt.Errorf(format, args...)}
}

// IsInternal reports whether err is fatal.
func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

// IsOmit reports whether err is the omit signal.
func IsOmit(err error) bool {
	return errors.Is(err, ErrOmit)
}

// Lines extracts the recoverable line errors from err.
// ok is false when err is nil, Omit or fatal.
func Lines(err error) (LineErrors, bool) {
	if err == nil {
		return nil, false
	}
	switch e := err.(type) {
	case LineErrors:
		return e, true
	case *ValidationError:
		return e.Lines, true
	}
	return nil, false
}

// WithOuterLocation prepends item to every line error carried by err,
// including the line of a Fatal error. Omit and other fatal errors are
// returned unchanged.
func WithOuterLocation(err error, item LocItem) error {
	le, ok := Lines(err)
	if !ok {
		if line, fatal := FatalLine(err); fatal {
			line.prepend(item)
		}
		return err
	}
	for _, line := range le {
		line.prepend(item)
	}
	return le
}
