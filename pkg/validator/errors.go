package validator

import "errors"

var (
	// ErrSchemaBuild is returned when a schema cannot be compiled.
	ErrSchemaBuild = errors.New("schema build failed")

	// ErrUnknownReference is returned when a definition_ref names no definition.
	ErrUnknownReference = errors.New("unknown definition reference")

	// ErrInvalidSchema is returned for settings a validator cannot honor,
	// such as a bad pattern or an unknown mode.
	ErrInvalidSchema = errors.New("invalid schema setting")
)
