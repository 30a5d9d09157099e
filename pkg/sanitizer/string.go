package sanitizer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// ErrUnknownForm is returned by Normalizer for unsupported normalization forms.
var ErrUnknownForm = errors.New("unknown unicode normalization form")

var whitespaceRun = regexp.MustCompile(`\s+`)

// Trim removes leading and trailing whitespace from a string.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// ToLower converts a string to lowercase.
func ToLower(s string) string {
	return strings.ToLower(s)
}

// ToUpper converts a string to uppercase.
func ToUpper(s string) string {
	return strings.ToUpper(s)
}

// ToTitle capitalizes the first letter of every word and lowercases the rest.
// A Caser is stateful, so one is created per call.
func ToTitle(s string) string {
	return cases.Title(language.English).String(s)
}

// RemoveExtraWhitespace normalizes whitespace by replacing multiple consecutive
// whitespace characters with a single space and trimming.
func RemoveExtraWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// RemoveControlChars removes control characters from a string,
// keeping only printable characters and common whitespace.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// Normalizer returns a transform applying the Unicode normalization form
// named by form: NFC, NFD, NFKC or NFKD (case-insensitive).
func Normalizer(form string) (func(string) string, error) {
	var f norm.Form
	switch strings.ToUpper(strings.TrimSpace(form)) {
	case "NFC":
		f = norm.NFC
	case "NFD":
		f = norm.NFD
	case "NFKC":
		f = norm.NFKC
	case "NFKD":
		f = norm.NFKD
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownForm, form)
	}
	return f.String, nil
}
