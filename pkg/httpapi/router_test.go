package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/coerce"
	"github.com/dmitrymomot/coerce/pkg/httpapi"
	"github.com/dmitrymomot/coerce/pkg/logger"
	"github.com/dmitrymomot/coerce/pkg/ratelimiter"
	"github.com/dmitrymomot/coerce/pkg/requestid"
	"github.com/dmitrymomot/coerce/pkg/schema"
)

const userSchema = `
type: model_fields
title: User
fields:
  - {name: name, schema: {type: str, min_length: 1}}
  - {name: age, schema: {type: int, ge: 0}}
  - {name: born, schema: {type: default, default: null, schema: {type: nullable, schema: {type: date}}}}
`

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Type  string `json:"type"`
			Loc   []any  `json:"loc"`
			Input any    `json:"input"`
		} `json:"details"`
	} `json:"error"`
}

func registry(t *testing.T) *httpapi.Registry {
	t.Helper()
	s, err := schema.Parse([]byte(userSchema))
	require.NoError(t, err)
	v, err := coerce.New(s)
	require.NoError(t, err)

	reg := httpapi.NewRegistry()
	require.NoError(t, reg.Add("user", v))
	return reg
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestValidateBody(t *testing.T) {
	t.Parallel()
	h := httpapi.NewRouter(registry(t))

	tests := []struct {
		name        string
		contentType string
		body        string
		strict      string
		code        int
		data        string
		errCode     string
		errTypes    []string
	}{
		{
			name: "json lax",
			body: `{"name": "Ann", "age": "42", "born": "2000-01-31"}`,
			code: http.StatusOK,
			data: `{"name": "Ann", "age": 42, "born": "2000-01-31"}`,
		},
		{
			name:        "json with charset",
			contentType: "application/json; charset=utf-8",
			body:        `{"name": "Ann", "age": 1}`,
			code:        http.StatusOK,
			data:        `{"name": "Ann", "age": 1, "born": null}`,
		},
		{
			name:     "json strict header",
			body:     `{"name": "Ann", "age": "42"}`,
			strict:   "true",
			code:     http.StatusUnprocessableEntity,
			errCode:  "validation_error",
			errTypes: []string{"int_type"},
		},
		{
			name:     "every error reported",
			body:     `{"name": "", "age": -1}`,
			code:     http.StatusUnprocessableEntity,
			errCode:  "validation_error",
			errTypes: []string{"string_too_short", "greater_than_equal"},
		},
		{
			name:     "malformed json",
			body:     `{"name": `,
			code:     http.StatusUnprocessableEntity,
			errCode:  "validation_error",
			errTypes: []string{"json_invalid"},
		},
		{
			name:        "form body",
			contentType: "application/x-www-form-urlencoded",
			body:        "name=Bob&age=7",
			strict:      "true",
			code:        http.StatusOK,
			data:        `{"name": "Bob", "age": 7, "born": null}`,
		},
		{
			name:        "unsupported content type",
			contentType: "text/plain",
			body:        "hello",
			code:        http.StatusUnsupportedMediaType,
			errCode:     "unsupported_media_type",
		},
		{
			name:    "bad strict header",
			body:    `{}`,
			strict:  "maybe",
			code:    http.StatusBadRequest,
			errCode: "bad_request",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/schemas/user/validate", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			if tt.strict != "" {
				req.Header.Set(httpapi.StrictHeader, tt.strict)
			}

			rec, env := do(t, h, req)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get(requestid.Header))

			if tt.data != "" {
				assert.JSONEq(t, tt.data, string(env.Data))
				assert.Equal(t, "User", env.Meta["schema"])
			}
			if tt.errCode != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.errCode, env.Error.Code)
				var types []string
				for _, d := range env.Error.Details {
					types = append(types, d.Type)
				}
				assert.Equal(t, tt.errTypes, types)
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	t.Parallel()
	h := httpapi.NewRouter(registry(t))

	rec, env := do(t, h, httptest.NewRequest(http.MethodGet, "/schemas/user/validate?name=Cy&age=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name": "Cy", "age": 3, "born": null}`, string(env.Data))

	rec, env = do(t, h, httptest.NewRequest(http.MethodGet, "/schemas/user/validate?name=Cy&age=old", nil))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Len(t, env.Error.Details, 1)
	assert.Equal(t, "int_parsing", env.Error.Details[0].Type)
	assert.Equal(t, []any{"age"}, env.Error.Details[0].Loc)
	assert.Equal(t, "old", env.Error.Details[0].Input)
	assert.Equal(t, float64(1), env.Meta["error_count"])
}

func TestUnknownSchema(t *testing.T) {
	t.Parallel()
	h := httpapi.NewRouter(registry(t))

	rec, env := do(t, h, httptest.NewRequest(http.MethodPost, "/schemas/order/validate", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Error.Code)

	rec, _ = do(t, h, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBodyLimit(t *testing.T) {
	t.Parallel()
	h := httpapi.NewRouter(registry(t), httpapi.WithMaxBodySize(16))

	body := `{"name": "` + strings.Repeat("a", 32) + `", "age": 1}`
	rec, env := do(t, h, httptest.NewRequest(http.MethodPost, "/schemas/user/validate", strings.NewReader(body)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "body_too_large", env.Error.Code)
}

func TestListSchemas(t *testing.T) {
	t.Parallel()
	h := httpapi.NewRouter(registry(t))

	rec, env := do(t, h, httptest.NewRequest(http.MethodGet, "/schemas", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name": "user", "title": "User"}]`, string(env.Data))
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec, _ := do(t, httpapi.NewRouter(httpapi.NewRegistry()), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	rec, _ = do(t, httpapi.NewRouter(httpapi.NewRegistry()), httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec, _ = do(t, httpapi.NewRouter(registry(t)), httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY", rec.Body.String())
}

func TestRequestLogging(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	h := httpapi.NewRouter(registry(t), httpapi.WithLogger(log))

	req := httptest.NewRequest(http.MethodPost, "/schemas/user/validate", strings.NewReader(`{"name": "x", "age": "y"}`))
	req.Header.Set(requestid.Header, "req-1")
	rec, _ := do(t, h, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	out := buf.String()
	assert.Contains(t, out, `"msg":"validated"`)
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"error_count":1`)
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	t.Run("loads schema files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "user.yaml"), []byte(userSchema), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "count.json"), []byte(`{"type": "int", "title": "Count"}`), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o600))

		reg, err := httpapi.LoadDir(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"count", "user"}, reg.Names())

		v, ok := reg.Get("count")
		require.True(t, ok)
		assert.Equal(t, "Count", v.Title())
	})

	t.Run("reports broken files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(`{type: nope}`), 0o600))

		_, err := httpapi.LoadDir(dir)
		require.ErrorIs(t, err, httpapi.ErrLoadingSchemas)
		assert.Contains(t, err.Error(), "bad.yaml")
	})

	t.Run("missing dir", func(t *testing.T) {
		t.Parallel()
		_, err := httpapi.LoadDir(filepath.Join(t.TempDir(), "missing"))
		assert.ErrorIs(t, err, httpapi.ErrLoadingSchemas)
	})
}

func TestRegistry_Duplicate(t *testing.T) {
	t.Parallel()
	reg := registry(t)
	v, _ := reg.Get("user")
	assert.ErrorIs(t, reg.Add("user", v), httpapi.ErrDuplicateSchema)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	limiter, err := ratelimiter.NewBucket(ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Hour},
		ratelimiter.WithCleanupInterval(0))
	require.NoError(t, err)
	t.Cleanup(limiter.Close)
	h := httpapi.NewRouter(registry(t), httpapi.WithRateLimiter(limiter), httpapi.WithTrustProxy(true))

	from := func(ip string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/schemas/user/validate?name=a&age=1", nil)
		req.Header.Set("X-Forwarded-For", ip)
		return req
	}

	rec, _ := do(t, h, from("203.0.113.1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, h, from("203.0.113.1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec, env := do(t, h, from("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", env.Error.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	rec, _ = do(t, h, from("203.0.113.2"))
	assert.Equal(t, http.StatusOK, rec.Code, "other clients are unaffected")

	rec, _ = do(t, h, httptest.NewRequest(http.MethodGet, "/schemas", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "listing is not limited")
}

func TestMetrics(t *testing.T) {
	t.Parallel()
	m := httpapi.NewMetrics(prometheus.NewRegistry(), false)
	h := httpapi.NewRouter(registry(t), httpapi.WithMetrics(m))

	body := func(s string) *http.Request {
		return httptest.NewRequest(http.MethodPost, "/schemas/user/validate", strings.NewReader(s))
	}
	rec, _ := do(t, h, body(`{"name": "a", "age": 1}`))
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, h, body(`{"name": "", "age": "x"}`))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = do(t, h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, `coerce_validations_total{input="json",outcome="valid",schema="User"} 1`)
	assert.Contains(t, out, `coerce_validations_total{input="json",outcome="invalid",schema="User"} 1`)
	assert.Contains(t, out, `coerce_validation_errors_total{schema="User",type="int_parsing"} 1`)
	assert.Contains(t, out, `coerce_validation_errors_total{schema="User",type="string_too_short"} 1`)
	assert.Contains(t, out, `coerce_validation_duration_seconds_count{schema="User"} 2`)
	assert.Contains(t, out, `coerce_http_requests_total{method="POST"`)
}

func TestMetrics_Disabled(t *testing.T) {
	t.Parallel()
	rec, _ := do(t, httpapi.NewRouter(registry(t)), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadinessChecks(t *testing.T) {
	t.Parallel()
	down := func(context.Context) error { return errors.New("redis down") }
	h := httpapi.NewRouter(registry(t), httpapi.WithReadinessChecks(down))

	rec, _ := do(t, h, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "NOT_READY", rec.Body.String())
}
