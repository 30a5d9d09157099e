// Package validator compiles schema descriptions into validator trees and
// runs them over any input representation.
//
// A tree is built once with Build and is then immutable; every call to
// Tree.Validate gets its own State, so one tree may serve many goroutines.
// Validators coerce as they check: a lax int validator turns the JSON
// string "42" into int64(42), a dict validator returns an *ordered.Map in
// input order, a date validator returns a scalar.Date.
//
// # Architecture
//
// Each node implements Validator. Scalar validators (str, int, date, uuid,
// ...) ask the input.Input for a match in the effective mode; containers
// (dict, list, tuple, set, model_fields, arguments) walk their items and
// keep going after failures so that one call reports every problem with
// its location. Wrappers (nullable, default, json) and unions delegate to
// their children.
//
// Recursive schemas live in a Definitions arena. Build reserves a slot per
// definition name before building anything, so a definition_ref may point
// forward or at its own definition; references are resolved once all
// nodes exist. Core building blocks:
//   - Validator       – one node of the tree
//   - State           – strictness override, exactness and recursion guard of one call
//   - RecursionGuard  – detects cyclic inputs and bounds reference depth
//   - Definitions     – arena of named validators
//   - Tree            – the compiled schema and its defaults
//
// # Strictness
//
// Strict mode only accepts values that already have the target type or a
// lossless equivalent. Each node takes its mode from its schema, falling
// back to Config.Strict; StrictOverride forces one mode for a whole call.
//
// # Unions
//
// Smart unions rank their successful choices by exactness (exact, strict,
// lax) and return the best; ties go to the earlier choice and an exact
// match wins immediately. When no choice behaves differently in strict
// mode the first lax success is returned without ranking. left_to_right
// unions always take the first success, and tagged unions read a
// discriminator field to pick a single choice.
//
// # Usage
//
//	s, err := schema.Parse(doc)
//	if err != nil {
//	    return err
//	}
//	tree, err := validator.Build(s, validator.WithRecursionLimit(64))
//	if err != nil {
//	    return err
//	}
//	out, err := tree.Validate(input.From(payload))
//	var verr *valerr.ValidationError
//	if errors.As(err, &verr) {
//	    for _, d := range verr.Details() {
//	        // d.Loc, d.Type, d.Msg
//	    }
//	}
//
// # Error Handling
//
// Build wraps ErrSchemaBuild together with ErrUnknownReference,
// ErrInvalidSchema or schema.ErrUnknownType. Validate returns a
// *valerr.ValidationError for invalid input, including cyclic input that
// aborted with recursion_loop; any other error is an internal failure.
package validator
