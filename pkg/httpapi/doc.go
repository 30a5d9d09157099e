// Package httpapi exposes compiled schemas over HTTP.
//
// A Registry maps names to *coerce.SchemaValidator values, usually loaded
// from a directory of schema files with LoadDir. NewRouter serves them with
// chi:
//
//	POST /schemas/{name}/validate   application/json or form body
//	GET  /schemas/{name}/validate   query string
//
// JSON bodies go through the JSON input path; form bodies and query strings
// go through the string mapping path, so numbers and booleans are parsed
// from text even in strict mode. The X-Coerce-Strict header forces strict
// or lax mode for one call.
//
// Every answer uses the Response envelope. Invalid input yields 422 with one
// detail per validation error:
//
//	{
//	  "meta": {"schema": "User", "error_count": 1},
//	  "error": {
//	    "code": "validation_error",
//	    "message": "input is invalid",
//	    "details": [{"type": "int_parsing", "loc": ["age"], "msg": "...", "input": "x"}]
//	  }
//	}
//
// Bodies larger than the configured limit are rejected with 413. With
// WithRateLimiter the validate endpoints answer 429 once a client address
// (see WithTrustProxy) exhausts its token bucket.
//
// WithMetrics exposes Prometheus counters for requests, validation outcomes
// and error types, plus a validation latency histogram, at GET /metrics.
// WithReadinessChecks adds dependency checks such as a Redis ping to
// GET /readyz.
package httpapi
