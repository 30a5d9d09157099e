package coerce

import (
	"reflect"

	"github.com/dmitrymomot/coerce/pkg/config"
	"github.com/dmitrymomot/coerce/pkg/jsonvalue"
	"github.com/dmitrymomot/coerce/pkg/scalar"
	"github.com/dmitrymomot/coerce/pkg/validator"
)

// EnvPrefix scopes every environment variable read by LoadConfig.
const EnvPrefix = "COERCE_"

// Config holds the engine defaults shared by every schema a process builds.
type Config struct {
	// Strict is the mode of validators whose schema does not set one.
	Strict bool `env:"STRICT"`
	// RecursionLimit bounds nested definition references per call.
	RecursionLimit int `env:"RECURSION_LIMIT" envDefault:"255"`
	// MicrosecondsOverflow is "truncate" or "error".
	MicrosecondsOverflow scalar.MicrosecondsOverflow `env:"MICROSECONDS_OVERFLOW" envDefault:"truncate"`
	// DuplicateKeys is "last", "first" or "reject".
	DuplicateKeys jsonvalue.DuplicateKeys `env:"DUPLICATE_KEYS" envDefault:"last"`
	AllowInfNaN   bool                    `env:"ALLOW_INF_NAN" envDefault:"true"`
	// HideInput drops input values from error reports.
	HideInput bool `env:"HIDE_INPUT"`
}

// DefaultConfig returns the defaults used when no configuration is given.
func DefaultConfig() Config {
	d := validator.DefaultConfig()
	return Config{
		Strict:               d.Strict,
		RecursionLimit:       d.RecursionLimit,
		MicrosecondsOverflow: d.MicrosecondsOverflow,
		DuplicateKeys:        d.DuplicateKeys,
		AllowInfNaN:          d.AllowInfNaN,
	}
}

// LoadConfig reads Config from COERCE_* environment variables and the
// optional .env file. Extra options are passed to config.Load.
func LoadConfig(opts ...config.Option) (Config, error) {
	var cfg Config
	opts = append([]config.Option{
		config.WithPrefix(EnvPrefix),
		config.WithParser(reflect.TypeOf(scalar.Truncate), func(s string) (any, error) {
			return scalar.ParseMicrosecondsOverflow(s)
		}),
		config.WithParser(reflect.TypeOf(jsonvalue.KeepLast), func(s string) (any, error) {
			return jsonvalue.ParseDuplicateKeys(s)
		}),
	}, opts...)
	if err := config.Load(&cfg, opts...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) engine() validator.Config {
	return validator.Config{
		Strict:               c.Strict,
		AllowInfNaN:          c.AllowInfNaN,
		MicrosecondsOverflow: c.MicrosecondsOverflow,
		DuplicateKeys:        c.DuplicateKeys,
		RecursionLimit:       c.RecursionLimit,
	}
}
