package schema

// Type names accepted in Schema.Type.
const (
	TypeAny           = "any"
	TypeNone          = "none"
	TypeStr           = "str"
	TypeBytes         = "bytes"
	TypeBool          = "bool"
	TypeInt           = "int"
	TypeFloat         = "float"
	TypeDate          = "date"
	TypeTime          = "time"
	TypeDatetime      = "datetime"
	TypeTimedelta     = "timedelta"
	TypeUUID          = "uuid"
	TypeLiteral       = "literal"
	TypeDict          = "dict"
	TypeList          = "list"
	TypeTuple         = "tuple"
	TypeSet           = "set"
	TypeIterable      = "iterable"
	TypeUnion         = "union"
	TypeTaggedUnion   = "tagged_union"
	TypeNullable      = "nullable"
	TypeDefault       = "default"
	TypeModelFields   = "model_fields"
	TypeArguments     = "arguments"
	TypeJSON          = "json"
	TypeDefinitionRef = "definition_ref"
)

// Schema is the declarative description of a validator tree. Only the
// fields relevant to Type are read; see the package documentation.
type Schema struct {
	Type   string `yaml:"type" json:"type"`
	Title  string `yaml:"title,omitempty" json:"title,omitempty"`
	Strict *bool  `yaml:"strict,omitempty" json:"strict,omitempty"`

	// str, bytes, list, tuple, set, iterable, dict
	MinLength *int `yaml:"min_length,omitempty" json:"min_length,omitempty"`
	MaxLength *int `yaml:"max_length,omitempty" json:"max_length,omitempty"`

	// str
	Pattern            string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	StripWhitespace    bool   `yaml:"strip_whitespace,omitempty" json:"strip_whitespace,omitempty"`
	CollapseWhitespace bool   `yaml:"collapse_whitespace,omitempty" json:"collapse_whitespace,omitempty"`
	ToLower            bool   `yaml:"to_lower,omitempty" json:"to_lower,omitempty"`
	ToUpper            bool   `yaml:"to_upper,omitempty" json:"to_upper,omitempty"`
	ToTitle            bool   `yaml:"to_title,omitempty" json:"to_title,omitempty"`
	Normalize          string `yaml:"normalize,omitempty" json:"normalize,omitempty"`

	// int, float
	Gt          *float64 `yaml:"gt,omitempty" json:"gt,omitempty"`
	Ge          *float64 `yaml:"ge,omitempty" json:"ge,omitempty"`
	Lt          *float64 `yaml:"lt,omitempty" json:"lt,omitempty"`
	Le          *float64 `yaml:"le,omitempty" json:"le,omitempty"`
	MultipleOf  *float64 `yaml:"multiple_of,omitempty" json:"multiple_of,omitempty"`
	AllowInfNaN *bool    `yaml:"allow_inf_nan,omitempty" json:"allow_inf_nan,omitempty"`

	// date, time, datetime, timedelta
	NowOp                string `yaml:"now_op,omitempty" json:"now_op,omitempty"`
	NowUTCOffset         *int   `yaml:"now_utc_offset,omitempty" json:"now_utc_offset,omitempty"`
	MicrosecondsOverflow string `yaml:"microseconds_overflow,omitempty" json:"microseconds_overflow,omitempty"`

	// uuid
	Version int `yaml:"version,omitempty" json:"version,omitempty"`

	// literal
	Expected []any `yaml:"expected,omitempty" json:"expected,omitempty"`

	// dict, list, tuple, set, iterable
	KeysSchema   *Schema   `yaml:"keys_schema,omitempty" json:"keys_schema,omitempty"`
	ValuesSchema *Schema   `yaml:"values_schema,omitempty" json:"values_schema,omitempty"`
	ItemsSchema  *Schema   `yaml:"items_schema,omitempty" json:"items_schema,omitempty"`
	PrefixItems  []*Schema `yaml:"prefix_items,omitempty" json:"prefix_items,omitempty"`

	// union, tagged_union
	Choices       []*Schema          `yaml:"choices,omitempty" json:"choices,omitempty"`
	Mode          string             `yaml:"mode,omitempty" json:"mode,omitempty"`
	Discriminator string             `yaml:"discriminator,omitempty" json:"discriminator,omitempty"`
	Tagged        map[string]*Schema `yaml:"tagged_choices,omitempty" json:"tagged_choices,omitempty"`

	// nullable, default, json
	Schema  *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
	Default any     `yaml:"default,omitempty" json:"default,omitempty"`
	OnError string  `yaml:"on_error,omitempty" json:"on_error,omitempty"`

	// model_fields
	Fields        []Field `yaml:"fields,omitempty" json:"fields,omitempty"`
	ExtraBehavior string  `yaml:"extra_behavior,omitempty" json:"extra_behavior,omitempty"`
	ClassName     string  `yaml:"class_name,omitempty" json:"class_name,omitempty"`

	// arguments
	Arguments       []Argument `yaml:"arguments_schema,omitempty" json:"arguments_schema,omitempty"`
	VarArgsSchema   *Schema    `yaml:"var_args_schema,omitempty" json:"var_args_schema,omitempty"`
	VarKwargsSchema *Schema    `yaml:"var_kwargs_schema,omitempty" json:"var_kwargs_schema,omitempty"`

	// definition_ref
	SchemaRef string `yaml:"schema_ref,omitempty" json:"schema_ref,omitempty"`

	// root only
	Definitions map[string]*Schema `yaml:"definitions,omitempty" json:"definitions,omitempty"`
}

// Field is one entry of a model_fields schema.
type Field struct {
	Name     string  `yaml:"name" json:"name"`
	Alias    string  `yaml:"alias,omitempty" json:"alias,omitempty"`
	Required *bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Schema   *Schema `yaml:"schema" json:"schema"`
}

// IsRequired reports whether the field must be present. Fields wrapped in a
// default schema are optional unless Required says otherwise.
func (f Field) IsRequired() bool {
	if f.Required != nil {
		return *f.Required
	}
	return f.Schema == nil || f.Schema.Type != TypeDefault
}

// Argument modes.
const (
	PositionalOnly      = "positional_only"
	PositionalOrKeyword = "positional_or_keyword"
	KeywordOnly         = "keyword_only"
)

// Argument is one parameter of an arguments schema.
type Argument struct {
	Name   string  `yaml:"name" json:"name"`
	Mode   string  `yaml:"mode,omitempty" json:"mode,omitempty"`
	Alias  string  `yaml:"alias,omitempty" json:"alias,omitempty"`
	Schema *Schema `yaml:"schema" json:"schema"`
}

// Bool returns a pointer to b, for optional schema flags.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }
