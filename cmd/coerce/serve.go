package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/coerce"
	"github.com/dmitrymomot/coerce/pkg/clientip"
	"github.com/dmitrymomot/coerce/pkg/config"
	"github.com/dmitrymomot/coerce/pkg/httpapi"
	"github.com/dmitrymomot/coerce/pkg/httpserver"
	"github.com/dmitrymomot/coerce/pkg/logger"
	"github.com/dmitrymomot/coerce/pkg/ratelimiter"
	"github.com/dmitrymomot/coerce/pkg/redis"
	"github.com/dmitrymomot/coerce/pkg/requestid"
)

// serveConfig is read from COERCE_* variables; flags override it.
type serveConfig struct {
	Env         string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL"`
	LogFormat   string `env:"LOG_FORMAT"`
	SchemaDir   string `env:"SCHEMA_DIR" envDefault:"./schemas"`
	MaxBodySize int64  `env:"MAX_BODY_SIZE" envDefault:"1048576"`
	TrustProxy  bool   `env:"TRUST_PROXY"`
	RateLimit   bool   `env:"RATE_LIMIT"`
	Metrics     bool   `env:"METRICS" envDefault:"true"`
	HTTP        httpserver.Config
	Limits      ratelimiter.Config
	// Redis, when configured, holds rate limit buckets shared by replicas.
	Redis redis.Config
}

func loadServeConfig(opts ...config.Option) (serveConfig, error) {
	var cfg serveConfig
	err := config.Load(&cfg, append([]config.Option{config.WithPrefix(coerce.EnvPrefix)}, opts...)...)
	return cfg, err
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a directory of schemas over HTTP",
		Long: `Loads every .yaml, .yml and .json schema in the schema directory and serves
POST/GET /schemas/{name}/validate, GET /schemas, /healthz, /readyz and
/metrics. With COERCE_RATE_LIMIT the validate endpoints are throttled per
client; COERCE_REDIS_URL moves the buckets to Redis.

Settings come from COERCE_* environment variables (and .env); flags win.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().StringP("dir", "d", "", "Directory containing schema files (COERCE_SCHEMA_DIR)")
	cmd.Flags().StringP("addr", "a", "", "Listen address (COERCE_HTTP_ADDR)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.SchemaDir = dir
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTP.Addr = addr
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat, _ = cmd.Flags().GetString("log-format")
	}

	logOpts := []logger.Option{
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithEnvironment(cfg.Env, "coerce"),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logOpts = append(logOpts, logger.WithLevel(level))
	}
	switch f := logger.Format(cfg.LogFormat); f {
	case "":
	case logger.FormatJSON, logger.FormatText:
		logOpts = append(logOpts, logger.WithFormat(f))
	default:
		return fmt.Errorf("log format must be text or json, got %q", cfg.LogFormat)
	}
	log := logger.New(logOpts...)

	engineCfg, err := coerce.LoadConfig()
	if err != nil {
		return err
	}
	reg, err := httpapi.LoadDir(cfg.SchemaDir, coerce.WithConfig(engineCfg), coerce.WithLogger(log))
	if err != nil {
		return err
	}
	log.Info("schemas loaded",
		logger.Component("cli"),
		slog.Int("count", reg.Len()),
		slog.Any("names", reg.Names()),
	)

	apiOpts := []httpapi.Option{
		httpapi.WithLogger(log),
		httpapi.WithMaxBodySize(cfg.MaxBodySize),
		httpapi.WithTrustProxy(cfg.TrustProxy),
	}
	if cfg.Metrics {
		apiOpts = append(apiOpts, httpapi.WithMetrics(httpapi.NewMetrics(prometheus.NewRegistry(), true)))
	}
	if cfg.RateLimit {
		limiter, checks, closeLimiter, err := newLimiter(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer closeLimiter()
		apiOpts = append(apiOpts, httpapi.WithRateLimiter(limiter), httpapi.WithReadinessChecks(checks...))
	}

	router := httpapi.NewRouter(reg, apiOpts...)
	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(cmd.Context(), router)
}

// newLimiter builds the Redis limiter when a URL is configured and the
// in-memory one otherwise.
func newLimiter(ctx context.Context, cfg serveConfig, log *slog.Logger) (ratelimiter.Limiter, []httpserver.Check, func(), error) {
	if !cfg.Redis.Enabled() {
		limiter, err := ratelimiter.NewBucket(cfg.Limits)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("rate limiting enabled", logger.Component("cli"), slog.String("store", "memory"))
		return limiter, nil, limiter.Close, nil
	}

	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, nil, err
	}
	closeClient := func() {
		if err := client.Close(); err != nil {
			log.Error("failed to close redis client", logger.Component("cli"), logger.Error(err))
		}
	}
	limiter, err := ratelimiter.NewRedis(client, cfg.Limits)
	if err != nil {
		closeClient()
		return nil, nil, nil, err
	}
	log.Info("rate limiting enabled", logger.Component("cli"), slog.String("store", "redis"))
	return limiter, []httpserver.Check{redis.Healthcheck(client)}, closeClient, nil
}
