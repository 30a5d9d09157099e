// Package coerce validates and coerces dynamically typed values against a
// declared, possibly recursive schema.
//
// A schema is described with the schema package (in Go or YAML/JSON),
// compiled once with New and then applied to values from any of three
// representations: Go values, raw JSON bytes, and string-only sources such
// as query strings or environment variables. Validation never stops at the
// first problem: a failed call returns a *valerr.ValidationError listing
// every error with its location.
//
// Validators run in lax mode unless the schema, the Config or the call says
// otherwise. Lax mode coerces adjacent types ("42" to 42, "yes" to true,
// a midnight datetime to a date); strict mode only accepts values that
// already have the target type.
//
// # Usage
//
//	s, err := schema.Parse([]byte(`
//	type: model_fields
//	fields:
//	  - {name: id, schema: {type: int, gt: 0}}
//	  - {name: tags, schema: {type: list, items_schema: {type: str}}}
//	`))
//	if err != nil {
//	    return err
//	}
//	v, err := coerce.New(s, coerce.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	out, err := v.ValidateJSON(body)
//	var verr *valerr.ValidationError
//	if errors.As(err, &verr) {
//	    // verr.Details() is a flat, serializable report
//	}
//
// # Configuration
//
// LoadConfig reads engine defaults from COERCE_STRICT,
// COERCE_RECURSION_LIMIT, COERCE_MICROSECONDS_OVERFLOW,
// COERCE_DUPLICATE_KEYS, COERCE_ALLOW_INF_NAN and COERCE_HIDE_INPUT.
//
// # Error Handling
//
// New returns errors wrapping validator.ErrSchemaBuild. The Validate
// methods return *valerr.ValidationError for invalid input; any other error
// is an internal failure and is also logged.
package coerce
