package scalar

import "errors"

// Sentinel kinds. Every helper failure wraps exactly one of these in a
// *ParseError so callers can map it with errors.Is.
var (
	ErrBoolParsing     = errors.New("bool parsing")
	ErrIntParsing      = errors.New("int parsing")
	ErrIntFromFloat    = errors.New("int from float")
	ErrFiniteNumber    = errors.New("finite number")
	ErrFloatParsing    = errors.New("float parsing")
	ErrDateParsing     = errors.New("date parsing")
	ErrTimeParsing     = errors.New("time parsing")
	ErrDateTimeParsing = errors.New("datetime parsing")
	ErrDurationParsing = errors.New("duration parsing")
)

// ParseError carries the failure kind plus a short human-readable reason.
type ParseError struct {
	Kind   error
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Kind }

func fail(kind error, reason string) error {
	return &ParseError{Kind: kind, Reason: reason}
}

// Reason returns the reason of a *ParseError, or err.Error() otherwise.
func Reason(err error) string {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
