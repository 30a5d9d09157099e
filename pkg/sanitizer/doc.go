// Package sanitizer provides the string transforms applied by the str
// validator before its length and pattern checks.
//
// Transforms are plain func(string) string values. Apply and Compose chain
// them into pipelines that are built once and reused:
//
//	clean := sanitizer.Compose(
//	    sanitizer.Trim,
//	    sanitizer.RemoveExtraWhitespace,
//	    sanitizer.ToLower,
//	)
//
//	safe := clean("  Mixed CASE   Input\n") // "mixed case input"
//
// Case folding for titles uses golang.org/x/text/cases and Normalizer wraps
// the forms of golang.org/x/text/unicode/norm, so "café" written with a
// combining accent compares equal to its precomposed spelling after NFC.
//
// # Usage
//
//	nfc, err := sanitizer.Normalizer("NFC")
//	if err != nil {
//	    return err
//	}
//	s := sanitizer.Apply(raw, sanitizer.Trim, nfc)
//
// All helpers are stateless and safe for concurrent use.
package sanitizer
