// Package input abstracts over the value representations the engine can
// validate, so that one validator body works for all of them.
//
// Four representations implement Input:
//
//   - Native: plain Go values (scalars, maps, slices, time and uuid types).
//   - JSON: nodes of a document parsed by package jsonvalue.
//   - StringMapping: string-only sources such as env vars and form values.
//   - Key: bare strings used as mapping keys.
//
// Scalar accessors return a Match tagged Exact, Strict or Lax. Unions rank
// candidate results by that tag:
//
//	m, err := in.ValidateInt(false)
//	// Native int64(5)    -> Exact
//	// JSON "5"            -> Lax
//	// StringMapping "5"   -> Strict
//
// Structural accessors return Mapping and Sequence views that borrow from
// the underlying value. Go maps are iterated in sorted key order so that
// error reports are deterministic.
package input
