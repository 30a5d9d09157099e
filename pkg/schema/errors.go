package schema

import "errors"

var (
	// ErrInvalidDocument is returned when the schema document cannot be decoded.
	ErrInvalidDocument = errors.New("invalid schema document")

	// ErrInvalidSchema is returned when a node is missing required settings.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrUnknownType is returned for unsupported type names.
	ErrUnknownType = errors.New("unknown schema type")
)
