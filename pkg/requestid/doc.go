// Package requestid tags every HTTP request handled by the validation
// service with a correlation id.
//
// Middleware reuses a client supplied X-Request-ID when it is short and
// made of letters, digits, '-' and '_', and generates a UUIDv4 otherwise.
// The id is stored in the request context and echoed in the response
// header.
//
// LoggerExtractor plugs into the logger package so every record logged with
// the request context carries the id:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
//	...
//	log.InfoContext(r.Context(), "validated") // request_id=...
package requestid
