package coerce

import "errors"

// ErrUnsupportedInput is returned by ValidateStrings for values that are not
// string-only shapes.
var ErrUnsupportedInput = errors.New("unsupported input shape")
