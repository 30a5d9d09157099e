package valerr

import (
	"fmt"
	"strings"
)

// Detail is the serializable form of one line error.
type Detail struct {
	Type              string         `json:"type" yaml:"type"`
	Loc               []any          `json:"loc" yaml:"loc"`
	Msg               string         `json:"msg" yaml:"msg"`
	Input             any            `json:"input,omitempty" yaml:"input,omitempty"`
	Ctx               map[string]any `json:"ctx,omitempty" yaml:"ctx,omitempty"`
	TranslationKey    string         `json:"translation_key" yaml:"translation_key"`
	TranslationValues map[string]any `json:"-" yaml:"-"`
}

// ValidationError is what a schema returns when the input is invalid.
type ValidationError struct {
	Title     string
	Lines     LineErrors
	HideInput bool
}

// NewValidationError builds the report for a failed validation.
func NewValidationError(title string, lines LineErrors, hideInput bool) *ValidationError {
	return &ValidationError{Title: title, Lines: lines, HideInput: hideInput}
}

// ErrorCount returns the number of line errors.
func (e *ValidationError) ErrorCount() int { return len(e.Lines) }

// Details returns the line errors in document order.
func (e *ValidationError) Details() []Detail {
	out := make([]Detail, 0, len(e.Lines))
	for _, line := range e.Lines {
		d := Detail{
			Type:              string(line.Type),
			Loc:               line.Location().Values(),
			Msg:               line.Message(),
			Ctx:               line.Context,
			TranslationKey:    line.Type.TranslationKey(),
			TranslationValues: line.Context,
		}
		if !e.HideInput {
			d.Input = line.Input
		}
		out = append(out, d)
	}
	return out
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	n := len(e.Lines)
	plural := "s"
	if n == 1 {
		plural = ""
	}
	fmt.Fprintf(&b, "%d validation error%s for %s", n, plural, e.Title)
	for _, line := range e.Lines {
		b.WriteByte('\n')
		if loc := line.Location(); len(loc) > 0 {
			b.WriteString(loc.String())
			b.WriteByte('\n')
		}
		b.WriteString("  ")
		b.WriteString(line.Message())
		fmt.Fprintf(&b, " [type=%s", line.Type)
		if !e.HideInput {
			fmt.Fprintf(&b, ", input_value=%s, input_type=%T", truncate(fmt.Sprintf("%#v", line.Input), 50), line.Input)
		}
		b.WriteByte(']')
	}
	return b.String()
}

// Unwrap exposes the line errors to errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	half := n / 2
	return string(r[:half]) + "..." + string(r[len(r)-half:])
}
