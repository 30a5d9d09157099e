package validator

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"

	"github.com/dmitrymomot/coerce/pkg/input"
	"github.com/dmitrymomot/coerce/pkg/jsonvalue"
	"github.com/dmitrymomot/coerce/pkg/sanitizer"
	"github.com/dmitrymomot/coerce/pkg/scalar"
	"github.com/dmitrymomot/coerce/pkg/schema"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

// Config holds the engine defaults applied while building and validating.
// Settings on a schema node override them.
type Config struct {
	Strict               bool
	AllowInfNaN          bool
	MicrosecondsOverflow scalar.MicrosecondsOverflow
	DuplicateKeys        jsonvalue.DuplicateKeys
	RecursionLimit       int
}

// DefaultConfig returns lax validation that allows inf and nan floats.
func DefaultConfig() Config {
	return Config{AllowInfNaN: true, RecursionLimit: DefaultRecursionLimit}
}

// BuildOption configures Build.
type BuildOption func(*Config)

// WithConfig replaces every default at once.
func WithConfig(cfg Config) BuildOption {
	return func(c *Config) { *c = cfg }
}

func WithStrictDefault(strict bool) BuildOption {
	return func(c *Config) { c.Strict = strict }
}

func WithAllowInfNaN(allow bool) BuildOption {
	return func(c *Config) { c.AllowInfNaN = allow }
}

func WithMicrosecondsOverflow(o scalar.MicrosecondsOverflow) BuildOption {
	return func(c *Config) { c.MicrosecondsOverflow = o }
}

func WithDuplicateKeys(p jsonvalue.DuplicateKeys) BuildOption {
	return func(c *Config) { c.DuplicateKeys = p }
}

// WithRecursionLimit bounds nested definition references. Non-positive
// values keep DefaultRecursionLimit.
func WithRecursionLimit(n int) BuildOption {
	return func(c *Config) {
		if n > 0 {
			c.RecursionLimit = n
		}
	}
}

// Tree is a compiled schema. It is immutable and safe for concurrent use.
type Tree struct {
	root  Validator
	defs  *Definitions
	cfg   Config
	title string
}

// Build compiles s. Definitions are registered before anything is built so
// references can be forward or recursive; they are resolved once every
// node exists.
func Build(s *schema.Schema, opts ...BuildOption) (*Tree, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrSchemaBuild)
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := schema.Check(s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaBuild, err)
	}

	b := &builder{cfg: cfg, defs: newDefinitions()}
	names := make([]string, 0, len(s.Definitions))
	for name := range s.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.defs.reserve(name)
	}

	var errs []error
	for _, name := range names {
		v, err := b.build(s.Definitions[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("definition %q: %w", name, err))
			continue
		}
		id, _ := b.defs.Lookup(name)
		b.defs.fill(id, v)
	}
	root, err := b.build(s)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrSchemaBuild, errors.Join(errs...))
	}

	if err := b.defs.check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaBuild, err)
	}
	if err := completeAll(b.defs, root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaBuild, err)
	}
	for id := 0; id < b.defs.Len(); id++ {
		if err := completeAll(b.defs, b.defs.Get(id)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaBuild, err)
		}
	}

	title := s.Title
	if title == "" {
		title = root.Name()
	}
	return &Tree{root: root, defs: b.defs, cfg: cfg, title: title}, nil
}

// Root returns the top validator.
func (t *Tree) Root() Validator { return t.root }

// Title names the tree in validation reports.
func (t *Tree) Title() string { return t.title }

// Definitions returns the arena of named validators.
func (t *Tree) Definitions() *Definitions { return t.defs }

// Config returns the defaults the tree was built with.
func (t *Tree) Config() Config { return t.cfg }

// CallOption configures one Validate call.
type CallOption func(*callOptions)

type callOptions struct {
	strict  *bool
	context any
}

// StrictOverride forces strict or lax mode for every node during the call.
func StrictOverride(strict bool) CallOption {
	return func(o *callOptions) { o.strict = &strict }
}

// WithContext makes v available to validators as State.Context.
func WithContext(v any) CallOption {
	return func(o *callOptions) { o.context = v }
}

// Validate runs the tree over in. Invalid input yields a
// *valerr.ValidationError holding every line error, including a
// recursion_loop that aborted the walk. Other failures are returned as is.
func (t *Tree) Validate(in input.Input, opts ...CallOption) (any, error) {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	st := NewState(o.strict, t.cfg)
	st.Context = o.context

	out, err := t.root.Validate(in, st)
	if err == nil {
		return out, nil
	}
	if lines, ok := valerr.Lines(err); ok {
		return nil, valerr.NewValidationError(t.title, lines, false)
	}
	if line, ok := valerr.FatalLine(err); ok {
		return nil, valerr.NewValidationError(t.title, valerr.LineErrors{line}, false)
	}
	if valerr.IsOmit(err) {
		return nil, valerr.Internalf("%s: value omitted at the root", t.title)
	}
	return nil, err
}

type builder struct {
	cfg  Config
	defs *Definitions
}

func (b *builder) strict(s *schema.Schema) bool {
	if s.Strict != nil {
		return *s.Strict
	}
	return b.cfg.Strict
}

func (b *builder) build(s *schema.Schema) (Validator, error) {
	strict := b.strict(s)
	switch s.Type {
	case schema.TypeAny:
		return anyValidator{}, nil
	case schema.TypeNone:
		return noneValidator{}, nil
	case schema.TypeStr:
		return b.buildStr(s, strict)
	case schema.TypeBytes:
		return &bytesValidator{strict: strict, minLength: s.MinLength, maxLength: s.MaxLength}, nil
	case schema.TypeBool:
		return &boolValidator{strict: strict}, nil
	case schema.TypeInt:
		bnds, err := numericBounds(s)
		if err != nil {
			return nil, err
		}
		return &intValidator{strict: strict, bounds: bnds}, nil
	case schema.TypeFloat:
		bnds, err := numericBounds(s)
		if err != nil {
			return nil, err
		}
		allow := b.cfg.AllowInfNaN
		if s.AllowInfNaN != nil {
			allow = *s.AllowInfNaN
		}
		return &floatValidator{strict: strict, allowInfNaN: allow, bounds: bnds}, nil
	case schema.TypeDate:
		now, err := nowOf(s)
		if err != nil {
			return nil, err
		}
		return &dateValidator{strict: strict, now: now}, nil
	case schema.TypeTime:
		ov, err := overflowSetting(s)
		if err != nil {
			return nil, err
		}
		return &timeValidator{strict: strict, overflow: ov}, nil
	case schema.TypeDatetime:
		ov, err := overflowSetting(s)
		if err != nil {
			return nil, err
		}
		now, err := nowOf(s)
		if err != nil {
			return nil, err
		}
		return &dateTimeValidator{strict: strict, overflow: ov, now: now}, nil
	case schema.TypeTimedelta:
		ov, err := overflowSetting(s)
		if err != nil {
			return nil, err
		}
		return &timedeltaValidator{strict: strict, overflow: ov}, nil
	case schema.TypeUUID:
		if s.Version < 0 || s.Version > 8 {
			return nil, fmt.Errorf("%w: uuid version %d", ErrInvalidSchema, s.Version)
		}
		return &uuidValidator{strict: strict, version: s.Version}, nil
	case schema.TypeLiteral:
		for _, e := range s.Expected {
			if !literalSupported(e) {
				return nil, fmt.Errorf("%w: literal value %v of type %T", ErrInvalidSchema, e, e)
			}
		}
		return newLiteral(s.Expected), nil
	case schema.TypeDict:
		keys, err := b.optional(s.KeysSchema, anyValidator{})
		if err != nil {
			return nil, err
		}
		values, err := b.optional(s.ValuesSchema, anyValidator{})
		if err != nil {
			return nil, err
		}
		return &dictValidator{strict: strict, keys: keys, values: values, minLength: s.MinLength, maxLength: s.MaxLength}, nil
	case schema.TypeList:
		items, err := b.optional(s.ItemsSchema, nil)
		if err != nil {
			return nil, err
		}
		return &listValidator{strict: strict, items: items, minLength: s.MinLength, maxLength: s.MaxLength}, nil
	case schema.TypeIterable:
		items, err := b.optional(s.ItemsSchema, nil)
		if err != nil {
			return nil, err
		}
		return &listValidator{iterable: true, items: items, minLength: s.MinLength, maxLength: s.MaxLength}, nil
	case schema.TypeSet:
		items, err := b.optional(s.ItemsSchema, nil)
		if err != nil {
			return nil, err
		}
		return &setValidator{strict: strict, items: items, minLength: s.MinLength, maxLength: s.MaxLength}, nil
	case schema.TypeTuple:
		return b.buildTuple(s, strict)
	case schema.TypeUnion:
		return b.buildUnion(s, strict)
	case schema.TypeTaggedUnion:
		choices := make(map[string]Validator, len(s.Tagged))
		for tag, cs := range s.Tagged {
			v, err := b.build(cs)
			if err != nil {
				return nil, fmt.Errorf("tag %q: %w", tag, err)
			}
			choices[tag] = v
		}
		return newTaggedUnion(strict, s.Discriminator, choices), nil
	case schema.TypeNullable:
		inner, err := b.build(s.Schema)
		if err != nil {
			return nil, err
		}
		return &nullableValidator{inner: inner}, nil
	case schema.TypeDefault:
		return b.buildDefault(s)
	case schema.TypeModelFields:
		return b.buildModelFields(s, strict)
	case schema.TypeArguments:
		return b.buildArguments(s)
	case schema.TypeJSON:
		inner, err := b.optional(s.Schema, nil)
		if err != nil {
			return nil, err
		}
		return &jsonValidator{inner: inner}, nil
	case schema.TypeDefinitionRef:
		if _, ok := b.defs.Lookup(s.SchemaRef); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownReference, s.SchemaRef)
		}
		return &definitionRef{name: s.SchemaRef}, nil
	}
	return nil, fmt.Errorf("%w: %q", schema.ErrUnknownType, s.Type)
}

func (b *builder) optional(s *schema.Schema, fallback Validator) (Validator, error) {
	if s == nil {
		return fallback, nil
	}
	return b.build(s)
}

func (b *builder) buildStr(s *schema.Schema, strict bool) (Validator, error) {
	v := &strValidator{strict: strict, minLength: s.MinLength, maxLength: s.MaxLength}
	if s.Pattern != "" {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %v", ErrInvalidSchema, s.Pattern, err)
		}
		v.pattern = re
	}

	var transforms []func(string) string
	if s.Normalize != "" {
		nf, err := sanitizer.Normalizer(s.Normalize)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
		}
		transforms = append(transforms, nf)
	}
	if s.StripWhitespace {
		transforms = append(transforms, sanitizer.Trim)
	}
	if s.CollapseWhitespace {
		transforms = append(transforms, sanitizer.RemoveExtraWhitespace)
	}
	switch {
	case s.ToLower:
		transforms = append(transforms, sanitizer.ToLower)
	case s.ToUpper:
		transforms = append(transforms, sanitizer.ToUpper)
	case s.ToTitle:
		transforms = append(transforms, sanitizer.ToTitle)
	}
	if len(transforms) > 0 {
		v.transform = sanitizer.Compose(transforms...)
	}
	return v, nil
}

func numericBounds(s *schema.Schema) (bounds, error) {
	for _, f := range []*float64{s.Gt, s.Ge, s.Lt, s.Le, s.MultipleOf} {
		if f != nil && (math.IsNaN(*f) || math.IsInf(*f, 0)) {
			return bounds{}, fmt.Errorf("%w: numeric bounds must be finite", ErrInvalidSchema)
		}
	}
	if s.MultipleOf != nil && *s.MultipleOf <= 0 {
		return bounds{}, fmt.Errorf("%w: multiple_of must be positive", ErrInvalidSchema)
	}
	return bounds{gt: s.Gt, ge: s.Ge, lt: s.Lt, le: s.Le, multipleOf: s.MultipleOf}, nil
}

func nowOf(s *schema.Schema) (*nowConstraint, error) {
	switch s.NowOp {
	case "":
		return nil, nil
	case NowPast, NowFuture:
		return &nowConstraint{op: s.NowOp, offset: s.NowUTCOffset}, nil
	}
	return nil, fmt.Errorf("%w: now_op %q", ErrInvalidSchema, s.NowOp)
}

func overflowSetting(s *schema.Schema) (*scalar.MicrosecondsOverflow, error) {
	if s.MicrosecondsOverflow == "" {
		return nil, nil
	}
	o, err := scalar.ParseMicrosecondsOverflow(s.MicrosecondsOverflow)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return &o, nil
}

func literalSupported(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64, int, int64, uint64:
		return true
	}
	return false
}

func (b *builder) buildTuple(s *schema.Schema, strict bool) (Validator, error) {
	v := &tupleValidator{strict: strict, minLength: s.MinLength, maxLength: s.MaxLength}
	for i, ps := range s.PrefixItems {
		p, err := b.build(ps)
		if err != nil {
			return nil, fmt.Errorf("prefix item %d: %w", i, err)
		}
		v.prefix = append(v.prefix, p)
	}
	items, err := b.optional(s.ItemsSchema, nil)
	if err != nil {
		return nil, err
	}
	v.items = items
	v.variadic = items != nil || len(v.prefix) == 0
	return v, nil
}

func (b *builder) buildUnion(s *schema.Schema, strict bool) (Validator, error) {
	mode := s.Mode
	switch mode {
	case "":
		mode = UnionSmart
	case UnionSmart, UnionLeftToRight:
	default:
		return nil, fmt.Errorf("%w: union mode %q", ErrInvalidSchema, s.Mode)
	}
	choices := make([]Validator, 0, len(s.Choices))
	labels := make([]string, 0, len(s.Choices))
	for i, cs := range s.Choices {
		c, err := b.build(cs)
		if err != nil {
			return nil, fmt.Errorf("choice %d: %w", i, err)
		}
		label := cs.Title
		if label == "" {
			label = c.Name()
		}
		choices = append(choices, c)
		labels = append(labels, label)
	}
	return newUnion(strict, mode, choices, labels), nil
}

func (b *builder) buildDefault(s *schema.Schema) (Validator, error) {
	onError := s.OnError
	switch onError {
	case "":
		onError = OnErrorRaise
	case OnErrorRaise, OnErrorOmit, OnErrorDefault:
	default:
		return nil, fmt.Errorf("%w: on_error %q", ErrInvalidSchema, s.OnError)
	}
	inner, err := b.build(s.Schema)
	if err != nil {
		return nil, err
	}
	return &defaultValidator{inner: inner, value: s.Default, onError: onError}, nil
}

func (b *builder) buildModelFields(s *schema.Schema, strict bool) (Validator, error) {
	extra := s.ExtraBehavior
	switch extra {
	case "":
		extra = ExtraIgnore
	case ExtraIgnore, ExtraForbid, ExtraAllow:
	default:
		return nil, fmt.Errorf("%w: extra_behavior %q", ErrInvalidSchema, s.ExtraBehavior)
	}
	v := &modelFieldsValidator{strict: strict, extra: extra, className: s.ClassName}
	for _, f := range s.Fields {
		fv, err := b.build(f.Schema)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		lookup := f.Alias
		if lookup == "" {
			lookup = f.Name
		}
		v.fields = append(v.fields, modelField{name: f.Name, lookup: lookup, required: f.IsRequired(), v: fv})
	}
	return v, nil
}

func (b *builder) buildArguments(s *schema.Schema) (Validator, error) {
	v := &argumentsValidator{className: s.ClassName}
	seenKeywordOnly := false
	for _, a := range s.Arguments {
		mode := a.Mode
		if mode == "" {
			mode = schema.PositionalOrKeyword
		}
		if mode == schema.KeywordOnly {
			seenKeywordOnly = true
		} else if seenKeywordOnly {
			return nil, fmt.Errorf("%w: positional argument %q after keyword-only arguments", ErrInvalidSchema, a.Name)
		} else {
			v.positional++
		}
		av, err := b.build(a.Schema)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", a.Name, err)
		}
		lookup := a.Alias
		if lookup == "" {
			lookup = a.Name
		}
		v.params = append(v.params, argument{name: a.Name, lookup: lookup, mode: mode, v: av})
	}
	var err error
	if v.varArgs, err = b.optional(s.VarArgsSchema, nil); err != nil {
		return nil, err
	}
	if v.varKwargs, err = b.optional(s.VarKwargsSchema, nil); err != nil {
		return nil, err
	}
	return v, nil
}
