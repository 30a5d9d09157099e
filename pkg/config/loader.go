package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Option tunes a single Load call.
type Option func(*options)

type options struct {
	files   []string
	env     env.Options
	parsers map[reflect.Type]env.ParserFunc
}

// WithEnvFiles loads the named .env files before parsing. Unlike the default
// .env, a missing named file is an error. Values already present in the
// process environment win.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.files = append(o.files, files...) }
}

// WithPrefix prepends prefix to every env tag, e.g. "COERCE_".
func WithPrefix(prefix string) Option {
	return func(o *options) { o.env.Prefix = prefix }
}

// WithEnvironment parses from vars instead of the process environment.
func WithEnvironment(vars map[string]string) Option {
	return func(o *options) { o.env.Environment = vars }
}

// WithParser registers a parser for fields of type typ.
func WithParser(typ reflect.Type, fn func(string) (any, error)) Option {
	return func(o *options) {
		if o.parsers == nil {
			o.parsers = make(map[reflect.Type]env.ParserFunc)
		}
		o.parsers[typ] = env.ParserFunc(fn)
	}
}

// Load parses environment variables into v using its env struct tags.
//
// The default .env file in the working directory is loaded once per process
// if it exists.
//
//	type ServerConfig struct {
//		Addr   string `env:"ADDR" envDefault:":8080"`
//		Strict bool   `env:"STRICT"`
//	}
//
//	var cfg ServerConfig
//	err := config.Load(&cfg, config.WithPrefix("COERCE_"))
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}
	defaultEnvLoaded.Do(func() {
		// the default file is optional
		_ = godotenv.Load()
	})

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.files) > 0 {
		if err := godotenv.Load(o.files...); err != nil {
			return errors.Join(ErrLoadingEnvFile, err)
		}
	}
	o.env.FuncMap = o.parsers
	if err := env.ParseWithOptions(v, o.env); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
