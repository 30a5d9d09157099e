package jsonvalue

import "errors"

var (
	// ErrInvalidJSON is returned for malformed documents.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrDuplicateKey is returned under the Reject policy when an object repeats a key.
	ErrDuplicateKey = errors.New("duplicate object key")

	// ErrTooDeep is returned when nesting exceeds the configured maximum depth.
	ErrTooDeep = errors.New("JSON nesting too deep")

	// ErrInvalidOption is returned for unknown option strings.
	ErrInvalidOption = errors.New("invalid option")
)
