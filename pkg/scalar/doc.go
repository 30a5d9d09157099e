// Package scalar holds the representation-independent coercion helpers used
// by every input kind: string to bool/int/float, numeric to bool, float to
// int, and the date, time, datetime and duration grammar.
//
// Helpers are pure and never panic on malformed input. Failures are
// *ParseError values wrapping one of the Err* sentinels, so callers can
// classify them with errors.Is and show the Reason to users:
//
//	d, err := scalar.ParseDate("2023-02-30")
//	if errors.Is(err, scalar.ErrDateParsing) {
//	    fmt.Println(scalar.Reason(err)) // day value is outside expected range
//	}
//
// Fractional seconds longer than six digits follow a MicrosecondsOverflow
// policy applied the same way to times, datetimes and durations.
package scalar
