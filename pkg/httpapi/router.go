package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/coerce"
	"github.com/dmitrymomot/coerce/pkg/clientip"
	"github.com/dmitrymomot/coerce/pkg/httpserver"
	"github.com/dmitrymomot/coerce/pkg/logger"
	"github.com/dmitrymomot/coerce/pkg/ratelimiter"
	"github.com/dmitrymomot/coerce/pkg/requestid"
	"github.com/dmitrymomot/coerce/pkg/valerr"
)

const (
	// DefaultMaxBodySize caps request bodies at 1MB.
	DefaultMaxBodySize int64 = 1 << 20

	// StrictHeader forces strict ("true") or lax ("false") mode for a call.
	StrictHeader = "X-Coerce-Strict"
)

// Option configures NewRouter.
type Option func(*api)

func WithLogger(l *slog.Logger) Option {
	return func(a *api) {
		if l != nil {
			a.log = l
		}
	}
}

// WithMaxBodySize overrides DefaultMaxBodySize. Non-positive values are ignored.
func WithMaxBodySize(n int64) Option {
	return func(a *api) {
		if n > 0 {
			a.maxBody = n
		}
	}
}

// WithTrustProxy resolves client addresses from proxy headers.
func WithTrustProxy(trust bool) Option {
	return func(a *api) { a.trustProxy = trust }
}

// WithMetrics records request and validation metrics in m and serves them
// at GET /metrics.
func WithMetrics(m *Metrics) Option {
	return func(a *api) { a.metrics = m }
}

// WithReadinessChecks adds dependency checks to GET /readyz.
func WithReadinessChecks(checks ...httpserver.Check) Option {
	return func(a *api) { a.checks = append(a.checks, checks...) }
}

// WithRateLimiter throttles the validate endpoints per client address.
func WithRateLimiter(l ratelimiter.Limiter) Option {
	return func(a *api) { a.limiter = l }
}

type api struct {
	reg        *Registry
	log        *slog.Logger
	maxBody    int64
	trustProxy bool
	limiter    ratelimiter.Limiter
	metrics    *Metrics
	checks     []httpserver.Check
}

// NewRouter serves the schemas in reg:
//
//	GET  /healthz                  liveness
//	GET  /readyz                   ready once a schema is loaded and every check passes
//	GET  /metrics                  Prometheus metrics, with WithMetrics
//	GET  /schemas                  registered names and titles
//	POST /schemas/{name}/validate  JSON or form body
//	GET  /schemas/{name}/validate  query string
func NewRouter(reg *Registry, opts ...Option) http.Handler {
	a := &api{reg: reg, log: logger.Discard(), maxBody: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(a)
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware(a.trustProxy))
	r.Use(middleware.Recoverer)
	r.Use(a.logRequests)

	r.Get("/healthz", httpserver.HealthCheckHandler(a.log))
	r.Get("/readyz", httpserver.HealthCheckHandler(a.log, append([]httpserver.Check{a.ready}, a.checks...)...))
	if a.metrics != nil {
		r.Method(http.MethodGet, "/metrics", a.metrics.Handler())
	}
	r.Get("/schemas", a.listSchemas)
	r.Route("/schemas/{name}/validate", func(r chi.Router) {
		if a.limiter != nil {
			r.Use(a.rateLimit)
		}
		r.Post("/", a.validateBody)
		r.Get("/", a.validateQuery)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.fail(w, r, errNotFound(errors.New("route not found")))
	})
	return r
}

func (a *api) ready(context.Context) error {
	if a.reg.Len() == 0 {
		return errors.New("no schemas loaded")
	}
	return nil
}

type schemaInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

func (a *api) listSchemas(w http.ResponseWriter, r *http.Request) {
	names := a.reg.Names()
	out := make([]schemaInfo, 0, len(names))
	for _, name := range names {
		v, _ := a.reg.Get(name)
		out = append(out, schemaInfo{Name: name, Title: v.Title()})
	}
	a.write(w, r, http.StatusOK, Response{Data: out})
}

func (a *api) validateBody(w http.ResponseWriter, r *http.Request) {
	v, opts, err := a.prepare(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	body, err := a.readBody(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, _ = mime.ParseMediaType(ct)
	}
	switch mediaType {
	case "application/json":
		a.respond(w, r, v, "json", func() (any, error) { return v.ValidateJSON(body, opts...) })
	case "application/x-www-form-urlencoded":
		form, err := url.ParseQuery(string(body))
		if err != nil {
			a.fail(w, r, errBadRequest(err))
			return
		}
		a.respond(w, r, v, "strings", func() (any, error) { return v.ValidateStrings(form, opts...) })
	default:
		a.fail(w, r, errUnsupported)
	}
}

func (a *api) validateQuery(w http.ResponseWriter, r *http.Request) {
	v, opts, err := a.prepare(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	query := r.URL.Query()
	a.respond(w, r, v, "strings", func() (any, error) { return v.ValidateStrings(query, opts...) })
}

// prepare resolves the schema and the per-call options of r.
func (a *api) prepare(r *http.Request) (*coerce.SchemaValidator, []coerce.CallOption, error) {
	name := chi.URLParam(r, "name")
	v, ok := a.reg.Get(name)
	if !ok {
		return nil, nil, errNotFound(errors.Join(ErrUnknownSchema, errors.New(name)))
	}
	opts := []coerce.CallOption{coerce.WithContext(r.Context())}
	if h := r.Header.Get(StrictHeader); h != "" {
		strict, err := strconv.ParseBool(h)
		if err != nil {
			return nil, nil, errBadRequest(ErrInvalidStrictHeader)
		}
		opts = append(opts, coerce.WithStrict(strict))
	}
	return v, opts, nil
}

func (a *api) readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, a.maxBody+1))
	if err != nil {
		return nil, errBadRequest(err)
	}
	if int64(len(body)) > a.maxBody {
		return nil, errTooLarge
	}
	return body, nil
}

func (a *api) respond(w http.ResponseWriter, r *http.Request, v *coerce.SchemaValidator, kind string, run func() (any, error)) {
	start := time.Now()
	out, err := run()
	elapsed := time.Since(start)
	count, outcome := 0, OutcomeValid
	var types []valerr.ErrorType
	var verr *valerr.ValidationError
	switch {
	case errors.As(err, &verr):
		count, outcome, types = verr.ErrorCount(), OutcomeInvalid, verr.Lines.Types()
	case err != nil:
		outcome = OutcomeError
	}
	a.metrics.observeValidation(v.Title(), kind, outcome, types, elapsed)
	a.log.InfoContext(r.Context(), "validated",
		logger.Component("httpapi"),
		logger.Schema(v.Title()),
		logger.Input(kind),
		logger.ErrorCount(count),
		logger.Duration(elapsed),
	)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.write(w, r, http.StatusOK, Response{Data: out, Meta: map[string]any{"schema": v.Title()}})
}

func (a *api) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		a.log.ErrorContext(r.Context(), "request failed", logger.Component("httpapi"), logger.Error(err))
	}
	a.write(w, r, status, body)
}

func (a *api) write(w http.ResponseWriter, r *http.Request, status int, body Response) {
	if err := writeJSON(w, status, body); err != nil {
		a.log.ErrorContext(r.Context(), "failed to write response", logger.Component("httpapi"), logger.Error(err))
	}
}

func (a *api) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		a.metrics.observeRequest(route, r.Method, status)
		a.log.DebugContext(r.Context(), "http request",
			logger.Component("httpapi"),
			logger.Group("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
			),
			logger.Duration(time.Since(start)),
		)
	})
}

func (a *api) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, err := a.limiter.Allow(r.Context(), clientip.FromContext(r.Context()))
		if err != nil {
			a.fail(w, r, err)
			return
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
		if !res.Allowed() {
			if secs := int(res.RetryAfter().Seconds()); secs > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(secs))
			}
			a.metrics.observeRateLimited()
			a.fail(w, r, errRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}
