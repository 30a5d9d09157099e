package valerr

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorType is the stable machine-readable code of a line error.
type ErrorType string

const (
	Missing                       ErrorType = "missing"
	ExtraForbidden                ErrorType = "extra_forbidden"
	NoneRequired                  ErrorType = "none_required"
	RecursionLoop                 ErrorType = "recursion_loop"
	StringType                    ErrorType = "string_type"
	StringTooShort                ErrorType = "string_too_short"
	StringTooLong                 ErrorType = "string_too_long"
	StringPatternMismatch         ErrorType = "string_pattern_mismatch"
	BytesType                     ErrorType = "bytes_type"
	BytesTooShort                 ErrorType = "bytes_too_short"
	BytesTooLong                  ErrorType = "bytes_too_long"
	BoolType                      ErrorType = "bool_type"
	BoolParsing                   ErrorType = "bool_parsing"
	IntType                       ErrorType = "int_type"
	IntParsing                    ErrorType = "int_parsing"
	IntParsingSize                ErrorType = "int_parsing_size"
	IntFromFloat                  ErrorType = "int_from_float"
	FloatType                     ErrorType = "float_type"
	FloatParsing                  ErrorType = "float_parsing"
	FiniteNumber                  ErrorType = "finite_number"
	GreaterThan                   ErrorType = "greater_than"
	GreaterThanEqual              ErrorType = "greater_than_equal"
	LessThan                      ErrorType = "less_than"
	LessThanEqual                 ErrorType = "less_than_equal"
	MultipleOf                    ErrorType = "multiple_of"
	DictType                      ErrorType = "dict_type"
	ListType                      ErrorType = "list_type"
	TupleType                     ErrorType = "tuple_type"
	SetType                       ErrorType = "set_type"
	IterableType                  ErrorType = "iterable_type"
	TooShort                      ErrorType = "too_short"
	TooLong                       ErrorType = "too_long"
	DateType                      ErrorType = "date_type"
	DateParsing                   ErrorType = "date_parsing"
	DateFromDatetimeParsing       ErrorType = "date_from_datetime_parsing"
	DateFromDatetimeInexact       ErrorType = "date_from_datetime_inexact"
	DatePast                      ErrorType = "date_past"
	DateFuture                    ErrorType = "date_future"
	TimeType                      ErrorType = "time_type"
	TimeParsing                   ErrorType = "time_parsing"
	DatetimeType                  ErrorType = "datetime_type"
	DatetimeParsing               ErrorType = "datetime_parsing"
	DatetimePast                  ErrorType = "datetime_past"
	DatetimeFuture                ErrorType = "datetime_future"
	TimeDeltaType                 ErrorType = "time_delta_type"
	TimeDeltaParsing              ErrorType = "time_delta_parsing"
	JSONType                      ErrorType = "json_type"
	JSONInvalid                   ErrorType = "json_invalid"
	LiteralError                  ErrorType = "literal_error"
	UnionTagInvalid               ErrorType = "union_tag_invalid"
	UnionTagNotFound              ErrorType = "union_tag_not_found"
	UUIDType                      ErrorType = "uuid_type"
	UUIDParsing                   ErrorType = "uuid_parsing"
	ArgumentsType                 ErrorType = "arguments_type"
	MissingArgument               ErrorType = "missing_argument"
	MissingPositionalOnlyArgument ErrorType = "missing_positional_only_argument"
	MissingKeywordOnlyArgument    ErrorType = "missing_keyword_only_argument"
	MultipleArgumentValues        ErrorType = "multiple_argument_values"
	UnexpectedKeywordArgument     ErrorType = "unexpected_keyword_argument"
	UnexpectedPositionalArgument  ErrorType = "unexpected_positional_argument"
	DataclassType                 ErrorType = "dataclass_type"
	ModelType                     ErrorType = "model_type"
	InternalFailure               ErrorType = "internal_error"
)

var templates = map[ErrorType]string{
	Missing:                       "Field required",
	ExtraForbidden:                "Extra inputs are not permitted",
	NoneRequired:                  "Input should be None",
	RecursionLoop:                 "Recursion error - cyclic reference detected",
	StringType:                    "Input should be a valid string",
	StringTooShort:                "String should have at least {min_length} characters",
	StringTooLong:                 "String should have at most {max_length} characters",
	StringPatternMismatch:         "String should match pattern '{pattern}'",
	BytesType:                     "Input should be a valid bytes",
	BytesTooShort:                 "Data should have at least {min_length} bytes",
	BytesTooLong:                  "Data should have at most {max_length} bytes",
	BoolType:                      "Input should be a valid boolean",
	BoolParsing:                   "Input should be a valid boolean, unable to interpret input",
	IntType:                       "Input should be a valid integer",
	IntParsing:                    "Input should be a valid integer, unable to parse string as an integer",
	IntParsingSize:                "Unable to parse input string as an integer, exceeded maximum size",
	IntFromFloat:                  "Input should be a valid integer, got a number with a fractional part",
	FloatType:                     "Input should be a valid number",
	FloatParsing:                  "Input should be a valid number, unable to parse string as a number",
	FiniteNumber:                  "Input should be a finite number",
	GreaterThan:                   "Input should be greater than {gt}",
	GreaterThanEqual:              "Input should be greater than or equal to {ge}",
	LessThan:                      "Input should be less than {lt}",
	LessThanEqual:                 "Input should be less than or equal to {le}",
	MultipleOf:                    "Input should be a multiple of {multiple_of}",
	DictType:                      "Input should be a valid dictionary",
	ListType:                      "Input should be a valid list",
	TupleType:                     "Input should be a valid tuple",
	SetType:                       "Input should be a valid set",
	IterableType:                  "Input should be iterable",
	TooShort:                      "{field_type} should have at least {min_length} items after validation, not {actual_length}",
	TooLong:                       "{field_type} should have at most {max_length} items after validation, not {actual_length}",
	DateType:                      "Input should be a valid date",
	DateParsing:                   "Input should be a valid date in the format YYYY-MM-DD, {error}",
	DateFromDatetimeParsing:       "Input should be a valid date or datetime, {error}",
	DateFromDatetimeInexact:       "Datetimes provided to dates should have zero time - e.g. be exact dates",
	DatePast:                      "Date should be in the past",
	DateFuture:                    "Date should be in the future",
	TimeType:                      "Input should be a valid time",
	TimeParsing:                   "Input should be in a valid time format, {error}",
	DatetimeType:                  "Input should be a valid datetime",
	DatetimeParsing:               "Input should be a valid datetime, {error}",
	DatetimePast:                  "Input should be in the past",
	DatetimeFuture:                "Input should be in the future",
	TimeDeltaType:                 "Input should be a valid timedelta",
	TimeDeltaParsing:              "Input should be a valid timedelta, {error}",
	JSONType:                      "JSON input should be string, bytes or bytearray",
	JSONInvalid:                   "Invalid JSON: {error}",
	LiteralError:                  "Input should be {expected}",
	UnionTagInvalid:               "Input tag '{tag}' found using {discriminator} does not match any of the expected tags: {expected_tags}",
	UnionTagNotFound:              "Unable to extract tag using discriminator {discriminator}",
	UUIDType:                      "UUID input should be a string, bytes or UUID object",
	UUIDParsing:                   "Input should be a valid UUID, {error}",
	ArgumentsType:                 "Arguments must be a tuple, list or a dictionary",
	MissingArgument:               "Missing required argument",
	MissingPositionalOnlyArgument: "Missing required positional only argument",
	MissingKeywordOnlyArgument:    "Missing required keyword only argument",
	MultipleArgumentValues:        "Got multiple values for argument",
	UnexpectedKeywordArgument:     "Unexpected keyword argument",
	UnexpectedPositionalArgument:  "Unexpected positional argument",
	DataclassType:                 "Input should be a dictionary or an instance of {class_name}",
	ModelType:                     "Input should be a valid dictionary or instance of {class_name}",
	InternalFailure:               "Internal error: {error}",
}

// Message renders the template for t with ctx placeholders filled in.
func (t ErrorType) Message(ctx map[string]any) string {
	tmpl, ok := templates[t]
	if !ok {
		return string(t)
	}
	if len(ctx) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(ctx)*2)
	for k, v := range ctx {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// TranslationKey returns the i18n key for t, e.g. "validation.int_parsing".
func (t ErrorType) TranslationKey() string {
	return "validation." + string(t)
}

// AllTypes lists every known error type in alphabetical order.
func AllTypes() []ErrorType {
	out := make([]ErrorType, 0, len(templates))
	for t := range templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
