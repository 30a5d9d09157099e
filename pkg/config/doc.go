// Package config loads configuration structs from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct parsing. Fields are described with
// env tags; WithPrefix scopes every tag, WithParser teaches the parser about
// custom types and WithEnvironment swaps the process environment for a map,
// which keeps tests free of global state.
//
// # Usage
//
//	type Config struct {
//	    Strict         bool `env:"STRICT"`
//	    RecursionLimit int  `env:"RECURSION_LIMIT" envDefault:"255"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithPrefix("COERCE_")); err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Failures wrap ErrParsingConfig or ErrLoadingEnvFile and can be matched
// with errors.Is. A nil target returns ErrNilPointer.
package config
