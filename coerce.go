package coerce

import (
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/coerce/pkg/input"
	"github.com/dmitrymomot/coerce/pkg/jsonvalue"
	"github.com/dmitrymomot/coerce/pkg/logger"
	"github.com/dmitrymomot/coerce/pkg/schema"
	"github.com/dmitrymomot/coerce/pkg/valerr"
	"github.com/dmitrymomot/coerce/pkg/validator"
)

// SchemaValidator is a compiled schema ready to validate values from any
// supported representation. It is safe for concurrent use.
type SchemaValidator struct {
	tree     *validator.Tree
	cfg      Config
	log      *slog.Logger
	jsonOpts []jsonvalue.Option
}

// Option configures New.
type Option func(*options)

type options struct {
	cfg Config
	log *slog.Logger
}

// WithConfig replaces the engine defaults.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the logger used for build summaries and internal
// failures. Validation errors are never logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// New compiles s. Errors wrap validator.ErrSchemaBuild.
func New(s *schema.Schema, opts ...Option) (*SchemaValidator, error) {
	o := options{cfg: DefaultConfig(), log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	tree, err := validator.Build(s, validator.WithConfig(o.cfg.engine()))
	if err != nil {
		o.log.Error("schema build failed", logger.Component("coerce"), logger.Error(err))
		return nil, err
	}
	o.log.Debug("schema built",
		logger.Component("coerce"),
		logger.Schema(tree.Title()),
		slog.Int("definitions", tree.Definitions().Len()),
		logger.Duration(time.Since(start)),
	)
	return &SchemaValidator{
		tree:     tree,
		cfg:      o.cfg,
		log:      o.log,
		jsonOpts: []jsonvalue.Option{jsonvalue.WithDuplicateKeys(o.cfg.DuplicateKeys)},
	}, nil
}

// Title names the schema in error reports.
func (v *SchemaValidator) Title() string { return v.tree.Title() }

// Config returns the engine defaults the schema was built with.
func (v *SchemaValidator) Config() Config { return v.cfg }

// CallOption adjusts a single validation call.
type CallOption func(*call)

type call struct {
	strict *bool
	ctx    any
}

// WithStrict forces strict or lax mode for every validator in the call.
func WithStrict(strict bool) CallOption {
	return func(c *call) { c.strict = &strict }
}

// WithContext makes v available to validators as State.Context.
func WithContext(v any) CallOption {
	return func(c *call) { c.ctx = v }
}

// ValidateNative validates a Go value: maps, slices, scalars, time values,
// uuid.UUID, *big.Int, *ordered.Map and input.Call.
func (v *SchemaValidator) ValidateNative(val any, opts ...CallOption) (any, error) {
	return v.run(input.From(val), "native", opts)
}

// ValidateJSON parses data and validates the resulting tree. Malformed JSON
// is reported as a json_invalid validation error.
func (v *SchemaValidator) ValidateJSON(data []byte, opts ...CallOption) (any, error) {
	in, err := input.NewNative(data).ParseJSON(v.jsonOpts...)
	if err != nil {
		if lines, ok := valerr.Lines(err); ok {
			return nil, valerr.NewValidationError(v.tree.Title(), lines, v.cfg.HideInput)
		}
		return nil, err
	}
	return v.run(in, "json", opts)
}

// ValidateStrings validates values from string-only sources: a string, a
// map[string]string, url.Values or nested map[string]any of those.
func (v *SchemaValidator) ValidateStrings(val any, opts ...CallOption) (any, error) {
	in, err := input.NewStringMapping(val)
	if err != nil {
		return nil, errors.Join(ErrUnsupportedInput, err)
	}
	return v.run(in, "strings", opts)
}

func (v *SchemaValidator) run(in input.Input, kind string, opts []CallOption) (any, error) {
	var c call
	for _, opt := range opts {
		opt(&c)
	}
	var callOpts []validator.CallOption
	if c.strict != nil {
		callOpts = append(callOpts, validator.StrictOverride(*c.strict))
	}
	if c.ctx != nil {
		callOpts = append(callOpts, validator.WithContext(c.ctx))
	}

	out, err := v.tree.Validate(in, callOpts...)
	if err == nil {
		return out, nil
	}
	var verr *valerr.ValidationError
	if errors.As(err, &verr) {
		verr.HideInput = v.cfg.HideInput
		return nil, verr
	}
	v.log.Error("validation aborted",
		logger.Component("coerce"),
		logger.Schema(v.tree.Title()),
		logger.Input(kind),
		logger.Strict(c.strict),
		logger.Error(err),
	)
	return nil, err
}
